package venue

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/fault"
	"venueRouter/internal/resource"
)

// Infinity pool swap_exact_in. The calc account counts tell the pool how
// many value calculator accounts follow for each side: five for an SPL stake
// pool calculator, one for the wSOL calculator.
var sanctumSwapLayout = codec.Layout{
	Name:     "sanctum_swap_exact_in",
	Selector: codec.Disc(1),
	Fields: []codec.Field{
		{Name: "src_lst_value_calc_accs", Kind: codec.U8},
		{Name: "dst_lst_value_calc_accs", Kind: codec.U8},
		{Name: "src_lst_index", Kind: codec.U32},
		{Name: "dst_lst_index", Kind: codec.U32},
		{Name: "min_amount_out", Kind: codec.U64},
		{Name: "amount", Kind: codec.U64},
	},
}

const (
	lstCalcAccounts  = 5
	wsolCalcAccounts = 1
	wsolIndex        = 1
)

// sanctumSide describes one side of an Infinity swap.
type sanctumSide struct {
	calcAccounts uint64
	index        uint64
	calculator   []string
}

func (r Request) sanctumSide(mint solana.PublicKey, indexParam, prefix string) (sanctumSide, error) {
	if mint.Equals(WrappedSolMint) {
		return sanctumSide{calcAccounts: wsolCalcAccounts, index: wsolIndex, calculator: []string{"wsol_calculator"}}, nil
	}
	index, err := r.requireParam(indexParam)
	if err != nil {
		return sanctumSide{}, err
	}
	return sanctumSide{
		calcAccounts: lstCalcAccounts,
		index:        index,
		calculator: []string{
			prefix + "spl_sol_calculator",
			prefix + "calculator_state",
			prefix + "stake_pool_state",
			prefix + "stake_pool_program",
			prefix + "stake_pool_program_data",
		},
	}, nil
}

func (r Request) sanctumSides() (sanctumSide, sanctumSide, error) {
	src, err := r.sanctumSide(r.SourceMint, "src_lst_index", "src_")
	if err != nil {
		return sanctumSide{}, sanctumSide{}, err
	}
	dst, err := r.sanctumSide(r.DestinationMint, "dst_lst_index", "dst_")
	if err != nil {
		return sanctumSide{}, sanctumSide{}, err
	}
	return src, dst, nil
}

func (r Request) oneWsolSide() error {
	if r.SourceMint.Equals(WrappedSolMint) == r.DestinationMint.Equals(WrappedSolMint) {
		return fmt.Errorf("wsol swap needs exactly one wsol side: %w", fault.ErrMisconfigured)
	}
	return nil
}

func sanctumValues(r Request) ([]*big.Int, error) {
	src, dst, err := r.sanctumSides()
	if err != nil {
		return nil, err
	}
	return []*big.Int{
		codec.U(src.calcAccounts),
		codec.U(dst.calcAccounts),
		codec.U(src.index),
		codec.U(dst.index),
		codec.U(r.minOutput(1)),
		codec.U(r.Amount),
	}, nil
}

func sanctumResources(r Request) (resource.List, error) {
	src, dst, err := r.sanctumSides()
	if err != nil {
		return nil, err
	}
	b := r.builder().
		Signer(r.User, true).
		Key(r.SourceMint, false, false).
		Key(r.DestinationMint, false, false).
		NamedOrATA("user_source", r.User, r.SourceMint, true).
		NamedOrATA("user_destination", r.User, r.DestinationMint, true).
		Named("protocol_fee_accumulator", true).
		Program(solana.TokenProgramID).
		Program(solana.TokenProgramID).
		Named("pool_state", true).
		Named("lst_state_list", true).
		Named("source_pool_reserves", true).
		Named("destination_pool_reserves", true)
	for _, name := range append(src.calculator, dst.calculator...) {
		b.Named(name, false)
	}
	return b.
		Named("flat_fee_pricing", false).
		Named("src_flat_fee_pricing_account", false).
		Named("dst_flat_fee_pricing_account", false).
		Build()
}

var sanctumRouterVenue = newVenue(SanctumRouter, SanctumInfinityProgram, sanctumSwapLayout, sanctumValues, sanctumResources)

// The wSOL variant has exactly one wSOL side, in either direction.
var sanctumWsolVenue = newVenue(SanctumWsolSwap, SanctumInfinityProgram, sanctumSwapLayout,
	func(r Request) ([]*big.Int, error) {
		if err := r.oneWsolSide(); err != nil {
			return nil, err
		}
		return sanctumValues(r)
	},
	func(r Request) (resource.List, error) {
		if err := r.oneWsolSide(); err != nil {
			return nil, err
		}
		return sanctumResources(r)
	})
