package venue

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/resource"
)

var (
	perpetualsSwapLayout = codec.Layout{
		Name:     "perpetuals_swap2",
		Selector: codec.AnchorSelector("swap2"),
		Fields:   u64Fields("amount_in", "min_amount_out"),
	}
	perpetualsAddLayout = codec.Layout{
		Name:     "perpetuals_add_liquidity2",
		Selector: codec.AnchorSelector("add_liquidity2"),
		Fields: []codec.Field{
			{Name: "token_amount_in", Kind: codec.U64},
			{Name: "min_lp_amount_out", Kind: codec.U64},
			{Name: "token_amount_pre_swap", Kind: codec.U8},
		},
	}
	perpetualsRemoveLayout = codec.Layout{
		Name:     "perpetuals_remove_liquidity2",
		Selector: codec.AnchorSelector("remove_liquidity2"),
		Fields:   u64Fields("lp_amount_in", "min_amount_out"),
	}
)

var perpetualsSwapVenue = newVenue(PerpetualsSwap, PerpetualsProgram, perpetualsSwapLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		return r.builder().
			Signer(r.User, true).
			NamedOrATA("funding_account", r.User, r.SourceMint, true).
			NamedOrATA("receiving_account", r.User, r.DestinationMint, true).
			Named("vault_authority", false).
			Named("perpetuals", false).
			Named("pool", true).
			Named("receiving_custody", true).
			Named("receiving_custody_doves_price", false).
			Named("receiving_custody_pythnet_price", false).
			Named("receiving_custody_token_account", true).
			Named("dispensing_custody", true).
			Named("dispensing_custody_doves_price", false).
			Named("dispensing_custody_pythnet_price", false).
			Named("dispensing_custody_token_account", true).
			Program(solana.TokenProgramID).
			Named("event_authority", false).
			Program(PerpetualsProgram).
			Build()
	})

// liquidity builds the shared add/remove list. The pool's custody, doves and
// pythnet accounts follow as trailing entries; only the collateral custody
// among them is writable.
func liquidity(r Request, fundingName, receivingName string, fundingMint, receivingMint solana.PublicKey) (resource.List, error) {
	custody, err := r.account("collateral_custody")
	if err != nil {
		return nil, err
	}
	b := r.builder().
		Signer(r.User, true).
		NamedOrATA(fundingName, r.User, fundingMint, true).
		NamedOrATA(receivingName, r.User, receivingMint, true).
		Named("vault_authority", false).
		Named("perpetuals", false).
		Named("pool", true).
		Key(custody, true, false).
		Named("doves_price", false).
		Named("pythnet_price", false).
		Named("custody_token_account", true).
		Named("lp_mint", true).
		Program(solana.TokenProgramID).
		Named("event_authority", false).
		Program(PerpetualsProgram)
	for _, key := range resource.Present(r.Trailing) {
		b.Key(key, key.Equals(custody), false)
	}
	return b.Build()
}

var perpetualsAddVenue = newVenue(PerpetualsAddLiquidity, PerpetualsProgram, perpetualsAddLayout,
	func(r Request) ([]*big.Int, error) {
		return []*big.Int{codec.U(r.Amount), codec.U(r.minOutput(1)), codec.Zero()}, nil
	},
	func(r Request) (resource.List, error) {
		return liquidity(r, "funding_account", "lp_token_account", r.SourceMint, r.DestinationMint)
	})

var perpetualsRemoveVenue = newVenue(PerpetualsRemoveLiquidity, PerpetualsProgram, perpetualsRemoveLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		return liquidity(r, "lp_token_account", "receiving_account", r.SourceMint, r.DestinationMint)
	})
