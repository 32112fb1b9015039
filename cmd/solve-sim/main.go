package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"github.com/solve-so/solve-core/pkg/addr"
	"github.com/solve-so/solve-core/pkg/config"
	"github.com/solve-so/solve-core/pkg/display"
	"github.com/solve-so/solve-core/pkg/fixedmath"
	"github.com/solve-so/solve-core/pkg/logging"
	"github.com/solve-so/solve-core/pkg/pool"
	"github.com/solve-so/solve-core/pkg/record"
)

type SwapResult struct {
	PoolID        string `json:"poolId"`
	AmountIn      uint64 `json:"amountIn"`
	AmountOut     uint64 `json:"amountOut"`
	LPFee         uint64 `json:"lpFee"`
	ProtocolFee   uint64 `json:"protocolFee"`
	NextSqrtPrice string `json:"nextSqrtPrice"`
	NextTick      int32  `json:"nextTick"`
}

var (
	tickSpacing  = flag.Int("tick-spacing", 64, "Pool tick spacing")
	feeRate      = flag.Int("fee-rate", 3000, "Pool fee rate in hundredths of a basis point")
	liquidity    = flag.Uint64("liquidity", 1_000_000_000, "Initial full-range liquidity seeded into the pool")
	swapAmount   = flag.Uint64("amount", 1_000_000, "Exact input amount for the demo swap")
	aToB         = flag.Bool("a-to-b", true, "Swap direction")
	jsonOutput   = flag.Bool("json", true, "Output as JSON")
	verboseLog   = flag.Bool("verbose", false, "Use development (human-readable) logging")
)

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}
	flag.Parse()

	if *verboseLog {
		logging.SetDevelopment()
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	programID := solana.MustPublicKeyFromBase58("11111111111111111111111111111111")

	e := &pool.Engine{
		ProgramID: programID,
		Store:     newMemStore(),
		Transfer:  noopTransfer{},
		Receipts:  openReceipts{},
	}

	configKey := fixedIdentity(1)
	feeAuthority := fixedIdentity(2)
	if err := e.InitializeConfig(ctx, configKey, feeAuthority, feeAuthority, feeAuthority, 300); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	tierKey := fixedIdentity(3)
	if err := e.InitializeFeeTier(ctx, configKey, tierKey, feeAuthority, uint16(*tickSpacing), uint16(*feeRate)); err != nil {
		return fmt.Errorf("initializing fee tier: %w", err)
	}

	mintA, mintB := fixedIdentity(10), fixedIdentity(11)
	vaultA, vaultB := fixedIdentity(20), fixedIdentity(21)
	initialSqrtPrice, err := fixedmath.SqrtPriceFromTickIndex(0)
	if err != nil {
		return fmt.Errorf("deriving initial sqrt price: %w", err)
	}
	poolKey, err := e.InitializePool(ctx, configKey, mintA, mintB, vaultA, vaultB, tierKey, 0, uint16(*tickSpacing), initialSqrtPrice)
	if err != nil {
		return fmt.Errorf("initializing pool: %w", err)
	}

	store := e.Store.(*memStore)
	p := store.pools[poolKey]
	p.Liquidity = uint128.From64(*liquidity)
	store.pools[poolKey] = p

	arrAddr, _, err := addr.TickArray(programID, solana.PublicKey(poolKey), 0)
	if err != nil {
		return fmt.Errorf("deriving tick array address: %w", err)
	}
	arrKey := record.Identity(arrAddr)
	if err := e.Store.SaveTickArray(ctx, arrKey, &record.TickArray{StartTickIndex: 0, Solve: poolKey}); err != nil {
		return fmt.Errorf("seeding tick array: %w", err)
	}

	update, err := e.Swap(ctx, pool.SwapParams{
		PoolKey:                poolKey,
		TickArrayKeys:          []record.Identity{arrKey},
		Amount:                 *swapAmount,
		AmountSpecifiedIsInput: true,
		AToB:                   *aToB,
		Now:                    1_700_000_000,
		TraderAccountA:         fixedIdentity(100),
		TraderAccountB:         fixedIdentity(101),
		MintDecimalsA:          6,
		MintDecimalsB:          6,
	})
	if err != nil {
		return fmt.Errorf("running swap: %w", err)
	}

	amountIn, amountOut := update.AmountA, update.AmountB
	if !*aToB {
		amountIn, amountOut = update.AmountB, update.AmountA
	}
	result := SwapResult{
		PoolID:        solana.PublicKey(poolKey).String(),
		AmountIn:      amountIn,
		AmountOut:     amountOut,
		LPFee:         update.LPFee,
		ProtocolFee:   update.ProtocolFee,
		NextSqrtPrice: update.NextSqrtPrice.String(),
		NextTick:      update.NextTickIndex,
	}

	if *verboseLog {
		logging.L().Sugar().Infof("pool %s (%s) settled swap", result.PoolID, display.IdentityString(poolKey))
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Printf("%+v\n", result)
	return nil
}

func fixedIdentity(b byte) record.Identity {
	var id record.Identity
	id[31] = b
	return id
}
