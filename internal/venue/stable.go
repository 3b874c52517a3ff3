package venue

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/resource"
)

var (
	saberSwapLayout = codec.Layout{
		Name:     "saber_stable_swap",
		Selector: codec.Disc(1),
		Fields:   u64Fields("amount_in", "minimum_amount_out"),
	}
	// amount_in is optional on chain (None swaps the whole balance); it is
	// always sent.
	stabbleSwapLayout = codec.Layout{
		Name:     "stabble_swap",
		Selector: codec.AnchorSelector("swap"),
		Fields: []codec.Field{
			{Name: "amount_in", Kind: codec.OptionU64},
			{Name: "minimum_amount_out", Kind: codec.U64},
		},
	}
)

var saberVenue = newVenue(StableSwap, SaberStableSwapProgram, saberSwapLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		poolIn, poolOut, err := r.poolSides("token_a_mint", "token_b_mint", "token_a_account", "token_b_account")
		if err != nil {
			return nil, err
		}
		return r.builder().
			Named("swap_info", false).
			Named("swap_authority", false).
			Signer(r.User, false).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			Key(poolIn, true, false).
			Key(poolOut, true, false).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Named("admin_fee_account", true).
			Program(solana.TokenProgramID).
			Build()
	})

var stabbleVenue = newVenue(StabbleSwap, StabbleStableProgram, stabbleSwapLayout,
	func(r Request) ([]*big.Int, error) {
		return []*big.Int{codec.U(r.Amount), codec.U(r.minOutput(1))}, nil
	},
	func(r Request) (resource.List, error) {
		return r.builder().
			Signer(r.User, true).
			Key(r.SourceMint, false, false).
			Key(r.DestinationMint, false, false).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Named("vault_token_in", true).
			Named("vault_token_out", true).
			Named("beneficiary_token_out", true).
			Named("pool", true).
			Named("withdraw_authority", false).
			Named("vault", false).
			Named("vault_authority", false).
			Program(StabbleVaultProgram).
			Program(solana.TokenProgramID).
			Program(Token2022Program).
			Build()
	})
