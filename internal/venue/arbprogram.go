package venue

import (
	"fmt"

	"venueRouter/internal/codec"
	"venueRouter/internal/fault"
)

// SupportDex tags the venue an on-chain arbitrage program instruction
// swaps through.
type SupportDex uint8

const (
	DexPump SupportDex = iota
	DexPumpAmm
	DexRaydiumAmm
	DexRaydiumCP
	DexRaydiumCLMM
	DexDLMM
	DexWhirlpool
)

var dexNames = map[SupportDex]string{
	DexPump:        "pump",
	DexPumpAmm:     "pump-amm",
	DexRaydiumAmm:  "raydium-amm",
	DexRaydiumCP:   "raydium-cp",
	DexRaydiumCLMM: "raydium-clmm",
	DexDLMM:        "dlmm",
	DexWhirlpool:   "whirlpool",
}

func (d SupportDex) String() string {
	if name, ok := dexNames[d]; ok {
		return name
	}
	return fmt.Sprintf("dex(%d)", uint8(d))
}

// ParseDex maps a dex tag name back to its tag.
func ParseDex(name string) (SupportDex, error) {
	for dex, n := range dexNames {
		if n == name {
			return dex, nil
		}
	}
	return 0, fmt.Errorf("unknown dex %q: %w", name, fault.ErrUnsupportedVenue)
}

var dexByVenue = map[ID]SupportDex{
	PumpfunBuy:        DexPump,
	PumpfunSell:       DexPump,
	PumpfunAmmBuy:     DexPumpAmm,
	PumpfunAmmSell:    DexPumpAmm,
	RaydiumSwap:       DexRaydiumAmm,
	RaydiumCpmmSwap:   DexRaydiumCP,
	RaydiumClmmSwap:   DexRaydiumCLMM,
	RaydiumClmmSwapV2: DexRaydiumCLMM,
	MeteoraDlmm:       DexDLMM,
	MeteoraDlmmSwap2:  DexDLMM,
	Whirlpool:         DexWhirlpool,
	WhirlpoolV2:       DexWhirlpool,
}

// DexFor maps a venue onto the arbitrage program's dex tag.
func DexFor(id ID) (SupportDex, error) {
	dex, ok := dexByVenue[id]
	if !ok {
		return 0, fmt.Errorf("%s has no arbitrage program route: %w", id, fault.ErrUnsupportedVenue)
	}
	return dex, nil
}

// ArbProgramLayout is the DexSwap instruction of the arbitrage program.
var ArbProgramLayout = codec.Layout{
	Name:     "arb_dex_swap",
	Selector: codec.Disc(0),
	Fields: []codec.Field{
		{Name: "dex", Kind: codec.U8},
		{Name: "max_bin_to_process", Kind: codec.U64},
		{Name: "min_profit_threshold", Kind: codec.U64},
		{Name: "no_failure", Kind: codec.Bool},
	},
}

// ArbSwap holds the DexSwap arguments.
type ArbSwap struct {
	Dex                SupportDex
	MaxBinToProcess    uint64
	MinProfitThreshold uint64
	NoFailure          bool
}

// EncodeArbProgram encodes a DexSwap instruction.
func EncodeArbProgram(s ArbSwap) ([]byte, error) {
	if _, ok := dexNames[s.Dex]; !ok {
		return nil, fmt.Errorf("unknown dex tag %d: %w", uint8(s.Dex), fault.ErrUnsupportedVenue)
	}
	return ArbProgramLayout.Encode(
		codec.U(uint64(s.Dex)),
		codec.U(s.MaxBinToProcess),
		codec.U(s.MinProfitThreshold),
		codec.Flag(s.NoFailure),
	)
}
