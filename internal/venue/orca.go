package venue

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/resource"
)

// Whirlpool sqrt price bounds (Q64.64) used as "no limit" in each direction.
var (
	whirlpoolMinSqrtPrice    = big.NewInt(4295048016)
	whirlpoolMaxSqrtPrice, _ = new(big.Int).SetString("79226673515401279992447579055", 10)
)

var whirlpoolFields = []codec.Field{
	{Name: "amount", Kind: codec.U64},
	{Name: "other_amount_threshold", Kind: codec.U64},
	{Name: "sqrt_price_limit", Kind: codec.U128},
	{Name: "amount_specified_is_input", Kind: codec.Bool},
	{Name: "a_to_b", Kind: codec.Bool},
}

var (
	whirlpoolLayout = codec.Layout{
		Name:     "whirlpool_swap",
		Selector: codec.AnchorSelector("swap"),
		Fields:   whirlpoolFields,
	}
	// swap_v2 appends an absent remaining_accounts_info option.
	whirlpoolV2Layout = codec.Layout{
		Name:     "whirlpool_swap_v2",
		Selector: codec.AnchorSelector("swap_v2"),
		Fields:   append(append([]codec.Field{}, whirlpoolFields...), codec.Field{Name: "remaining_accounts_info", Kind: codec.U8}),
	}
)

func whirlpoolValues(r Request) ([]*big.Int, error) {
	aToB, err := r.directionFromAccounts("token_mint_a", "token_mint_b")
	if err != nil {
		return nil, err
	}
	limit := whirlpoolMaxSqrtPrice
	if aToB {
		limit = whirlpoolMinSqrtPrice
	}
	return []*big.Int{
		codec.U(r.Amount),
		codec.U(r.minOutput(1)),
		new(big.Int).Set(limit),
		codec.Flag(true),
		codec.Flag(aToB),
	}, nil
}

// whirlpoolTickArrays takes exactly three tick arrays; callers repeat an
// array when the swap stays inside fewer.
func (r Request) whirlpoolTickArrays() []solana.PublicKey {
	return r.trailing("tick_array0", "tick_array1", "tick_array2")
}

var whirlpoolVenue = newVenue(Whirlpool, WhirlpoolProgram, whirlpoolLayout, whirlpoolValues,
	func(r Request) (resource.List, error) {
		mintA, err := r.account("token_mint_a")
		if err != nil {
			return nil, err
		}
		mintB, err := r.account("token_mint_b")
		if err != nil {
			return nil, err
		}
		return r.builder().
			Program(solana.TokenProgramID).
			Signer(r.User, true).
			Named("whirlpool", true).
			NamedOrATA("token_owner_account_a", r.User, mintA, true).
			Named("token_vault_a", true).
			NamedOrATA("token_owner_account_b", r.User, mintB, true).
			Named("token_vault_b", true).
			Exactly("tick_arrays", r.whirlpoolTickArrays(), 3, true, WhirlpoolProgram).
			Named("oracle", false).
			Build()
	})

var whirlpoolV2Venue = &Venue{
	ID:      WhirlpoolV2,
	Program: WhirlpoolProgram,
	layouts: []codec.Layout{whirlpoolV2Layout},
	encode: func(r Request) (codec.Layout, []*big.Int, error) {
		values, err := whirlpoolValues(r)
		if err != nil {
			return codec.Layout{}, nil, err
		}
		return whirlpoolV2Layout, append(values, codec.Zero()), nil
	},
	build: func(r Request) (resource.List, error) {
		mintA, err := r.account("token_mint_a")
		if err != nil {
			return nil, err
		}
		mintB, err := r.account("token_mint_b")
		if err != nil {
			return nil, err
		}
		return r.builder().
			NamedOr("token_program_a", solana.TokenProgramID, false).
			NamedOr("token_program_b", solana.TokenProgramID, false).
			Program(MemoProgram).
			Signer(r.User, true).
			Named("whirlpool", true).
			Key(mintA, false, false).
			Key(mintB, false, false).
			NamedOrATA("token_owner_account_a", r.User, mintA, true).
			Named("token_vault_a", true).
			NamedOrATA("token_owner_account_b", r.User, mintB, true).
			Named("token_vault_b", true).
			Exactly("tick_arrays", r.whirlpoolTickArrays(), 3, true, WhirlpoolProgram).
			Named("oracle", true).
			Build()
	},
}
