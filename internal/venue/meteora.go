package venue

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/resource"
)

var (
	meteoraSwapLayout = codec.Layout{
		Name:     "meteora_swap",
		Selector: codec.AnchorSelector("swap"),
		Fields:   u64Fields("amount_in", "minimum_amount_out"),
	}
	meteoraDepositLayout = codec.Layout{
		Name:     "meteora_vault_deposit",
		Selector: codec.AnchorSelector("deposit"),
		Fields:   u64Fields("token_amount", "minimum_lp_token_amount"),
	}
	meteoraWithdrawLayout = codec.Layout{
		Name:     "meteora_vault_withdraw",
		Selector: codec.AnchorSelector("withdraw"),
		Fields:   u64Fields("unmint_amount", "min_out_amount"),
	}
	// swap2 carries an empty remaining_accounts_info vector.
	meteoraDlmmSwap2Layout = codec.Layout{
		Name:     "meteora_dlmm_swap2",
		Selector: codec.AnchorSelector("swap2"),
		Fields: []codec.Field{
			{Name: "amount_in", Kind: codec.U64},
			{Name: "min_amount_out", Kind: codec.U64},
			{Name: "remaining_accounts_slices", Kind: codec.U32},
		},
	}
)

// dynamicPool builds the dynamic AMM account list; the LST pool appends the
// stake pool account.
func dynamicPool(r Request, lst bool) (resource.List, error) {
	b := r.builder().
		Named("pool", true).
		NamedOrATA("user_source", r.User, r.SourceMint, true).
		NamedOrATA("user_destination", r.User, r.DestinationMint, true).
		Named("a_vault", true).
		Named("b_vault", true).
		Named("a_token_vault", true).
		Named("b_token_vault", true).
		Named("a_vault_lp_mint", true).
		Named("b_vault_lp_mint", true).
		Named("a_vault_lp", true).
		Named("b_vault_lp", true).
		Named("admin_token_fee", true).
		Signer(r.User, false).
		Program(MeteoraVaultProgram).
		Program(solana.TokenProgramID)
	if lst {
		b.Named("lst", false)
	}
	return b.Build()
}

var meteoraDynamicVenue = newVenue(MeteoraDynamicPool, MeteoraDynamicProgram, meteoraSwapLayout, amountMin(1),
	func(r Request) (resource.List, error) { return dynamicPool(r, false) })

var meteoraLstVenue = newVenue(MeteoraLst, MeteoraDynamicProgram, meteoraSwapLayout, amountMin(1),
	func(r Request) (resource.List, error) { return dynamicPool(r, true) })

// Deposits turn the source token into vault LP; withdrawals burn LP, so the
// user token accounts trade places.
var meteoraVaultDepositVenue = newVenue(MeteoraVaultDeposit, MeteoraVaultProgram, meteoraDepositLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		return r.builder().
			Named("vault", true).
			Named("token_vault", true).
			Named("lp_mint", true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Signer(r.User, true).
			Program(solana.TokenProgramID).
			Build()
	})

var meteoraVaultWithdrawVenue = newVenue(MeteoraVaultWithdraw, MeteoraVaultProgram, meteoraWithdrawLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		return r.builder().
			Named("vault", true).
			Named("token_vault", true).
			Named("lp_mint", true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			Signer(r.User, true).
			Program(solana.TokenProgramID).
			Build()
	})

// dlmm builds the LB pair account list. Bin arrays follow the fixed accounts
// and at least one must be present.
func dlmm(r Request, memo bool) (resource.List, error) {
	b := r.builder().
		Named("lb_pair", true).
		NamedOr("bin_array_bitmap_extension", MeteoraDlmmProgram, false).
		Named("reserve_x", true).
		Named("reserve_y", true).
		NamedOrATA("user_source", r.User, r.SourceMint, true).
		NamedOrATA("user_destination", r.User, r.DestinationMint, true).
		Named("token_x_mint", false).
		Named("token_y_mint", false).
		Named("oracle", true).
		NamedOr("host_fee_in", MeteoraDlmmProgram, true).
		Signer(r.User, false).
		NamedOr("token_x_program", solana.TokenProgramID, false).
		NamedOr("token_y_program", solana.TokenProgramID, false)
	if memo {
		b.Program(MemoProgram)
	}
	return b.
		Named("event_authority", false).
		Program(MeteoraDlmmProgram).
		Trailing("bin_arrays", r.trailing(), 1, true).
		Build()
}

var meteoraDlmmVenue = newVenue(MeteoraDlmm, MeteoraDlmmProgram, meteoraSwapLayout, amountMin(1),
	func(r Request) (resource.List, error) { return dlmm(r, false) })

var meteoraDlmmSwap2Venue = newVenue(MeteoraDlmmSwap2, MeteoraDlmmProgram, meteoraDlmmSwap2Layout,
	func(r Request) ([]*big.Int, error) {
		return []*big.Int{codec.U(r.Amount), codec.U(r.minOutput(1)), codec.Zero()}, nil
	},
	func(r Request) (resource.List, error) { return dlmm(r, true) })

// dbc builds the bonding curve account list. A missing referral account is
// replaced by the program id, read-only.
func dbc(r Request, sysvar bool) (resource.List, error) {
	b := r.builder().
		Named("pool_authority", false).
		Named("config", false).
		Named("pool", true).
		NamedOrATA("user_source", r.User, r.SourceMint, true).
		NamedOrATA("user_destination", r.User, r.DestinationMint, true).
		Named("base_vault", true).
		Named("quote_vault", true).
		Named("base_mint", false).
		Named("quote_mint", false).
		Signer(r.User, true).
		NamedOr("base_token_program", solana.TokenProgramID, false).
		NamedOr("quote_token_program", solana.TokenProgramID, false).
		Optional("referral_token_account", MeteoraDbcProgram).
		Named("event_authority", false).
		Program(MeteoraDbcProgram)
	if sysvar {
		b.Program(InstructionsSysvar)
	}
	return b.Build()
}

var meteoraDbcVenue = newVenue(MeteoraDbc, MeteoraDbcProgram, meteoraSwapLayout, amountMin(1),
	func(r Request) (resource.List, error) { return dbc(r, false) })

var meteoraDbc2Venue = newVenue(MeteoraDbc2, MeteoraDbcProgram, meteoraSwapLayout, amountMin(1),
	func(r Request) (resource.List, error) { return dbc(r, true) })
