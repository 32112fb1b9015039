// Package pool is the orchestration layer (the operations named in spec.md
// §4 but not spelled out module-by-module): it wires pkg/fixedmath,
// pkg/ticks, pkg/liquidity, pkg/oracle and pkg/swap together against the
// external collaborators in pkg/collab, deriving every PDA via pkg/addr and
// emitting pkg/events on the state transitions spec.md §6 names.
package pool

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solve-so/solve-core/pkg/collab"
	"github.com/solve-so/solve-core/pkg/events"
	"github.com/solve-so/solve-core/pkg/record"
)

// Engine bundles the program's address namespace with the external
// collaborators every operation needs. It holds no record state itself;
// Store is the system of record.
type Engine struct {
	ProgramID solana.PublicKey
	Store     collab.Store
	Transfer  collab.Transferer
	Clock     collab.Clock
	Receipts  collab.ReceiptAuthority

	// Events is optional: a nil Broadcaster makes publish a no-op, so tests
	// and simple embeddings don't need to stand up a websocket hub.
	Events *events.Broadcaster
}

func identity(pk solana.PublicKey) record.Identity { return record.Identity(pk) }
func publicKey(id record.Identity) solana.PublicKey { return solana.PublicKey(id) }

func (e *Engine) publish(kind events.Kind, data any) {
	if e.Events == nil {
		return
	}
	e.Events.Publish(kind, data)
}
