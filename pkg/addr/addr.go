// Package addr derives the stable program-derived addresses for every
// record kind, using the exact seed lists laid out in spec §6. Derivation
// itself is delegated to solana-go's FindProgramAddress, the same library
// the rest of this module uses for identity types.
package addr

import (
	"strconv"

	"github.com/gagliardetto/solana-go"
)

// Seed prefixes, preserved bit-exact per the external interface contract.
const (
	SeedPool       = "solve"
	SeedOracle     = "oracle"
	SeedTickArray  = "tick_array"
	SeedPosition   = "position"
	SeedTokenBadge = "token_badge"
)

// Pool derives the Pool PDA from its config, ordered mints, and fee tier index.
func Pool(programID, solvesConfig, tokenMintA, tokenMintB solana.PublicKey, feeTierIndex uint16) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(SeedPool),
		solvesConfig.Bytes(),
		tokenMintA.Bytes(),
		tokenMintB.Bytes(),
		leUint16(feeTierIndex),
	}, programID)
}

// Oracle derives the per-pool adaptive-fee oracle PDA.
func Oracle(programID, pool solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(SeedOracle),
		pool.Bytes(),
	}, programID)
}

// TickArray derives the PDA for the array starting at startTickIndex. The
// seed is the ASCII decimal rendering of the start index, including the
// leading '-' for negative indices, matching the wire contract exactly.
func TickArray(programID, pool solana.PublicKey, startTickIndex int32) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(SeedTickArray),
		pool.Bytes(),
		[]byte(strconv.FormatInt(int64(startTickIndex), 10)),
	}, programID)
}

// Position derives the PDA owned by a position's NFT receipt mint.
func Position(programID, positionMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(SeedPosition),
		positionMint.Bytes(),
	}, programID)
}

// TokenBadge derives the PDA marking a mint as explicitly supported under a config.
func TokenBadge(programID, solvesConfig, tokenMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(SeedTokenBadge),
		solvesConfig.Bytes(),
		tokenMint.Bytes(),
	}, programID)
}

func leUint16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}
