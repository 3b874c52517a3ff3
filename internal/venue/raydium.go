package venue

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/resource"
)

// Raydium AMM v4 and the stable AMM share the serum-backed swap_base_in
// instruction: discriminator 9, amount in, minimum out.
var raydiumAmmLayout = codec.Layout{
	Name:     "raydium_swap_base_in",
	Selector: codec.Disc(9),
	Fields:   u64Fields("amount_in", "minimum_amount_out"),
}

// Concentrated liquidity swap shape shared by Raydium CLMM and its forks:
// amount, other_amount_threshold, sqrt_price_limit_x64, is_base_input.
func clmmLayout(name, ix string) codec.Layout {
	return codec.Layout{
		Name:     name,
		Selector: codec.AnchorSelector(ix),
		Fields: []codec.Field{
			{Name: "amount", Kind: codec.U64},
			{Name: "other_amount_threshold", Kind: codec.U64},
			{Name: "sqrt_price_limit_x64", Kind: codec.U128},
			{Name: "is_base_input", Kind: codec.Bool},
		},
	}
}

var (
	raydiumClmmLayout   = clmmLayout("raydium_clmm_swap", "swap")
	raydiumClmmV2Layout = clmmLayout("raydium_clmm_swap_v2", "swap_v2")

	raydiumCpmmLayout = codec.Layout{
		Name:     "raydium_cpmm_swap_base_input",
		Selector: codec.AnchorSelector("swap_base_input"),
		Fields:   u64Fields("amount_in", "minimum_amount_out"),
	}

	launchpadFields    = u64Fields("amount_in", "minimum_amount_out", "share_fee_rate")
	launchpadBuyLayout = codec.Layout{
		Name:     "raydium_launchpad_buy_exact_in",
		Selector: codec.AnchorSelector("buy_exact_in"),
		Fields:   launchpadFields,
	}
	launchpadSellLayout = codec.Layout{
		Name:     "raydium_launchpad_sell_exact_in",
		Selector: codec.AnchorSelector("sell_exact_in"),
		Fields:   launchpadFields,
	}
)

// clmmValues encodes an exact-input swap with no price limit.
func clmmValues(r Request) ([]*big.Int, error) {
	return []*big.Int{codec.U(r.Amount), codec.U(r.minOutput(1)), codec.Zero(), codec.Flag(true)}, nil
}

var raydiumSwapVenue = newVenue(RaydiumSwap, RaydiumAmmProgram, raydiumAmmLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		return r.builder().
			Program(solana.TokenProgramID).
			Named("amm", true).
			Named("amm_authority", false).
			Named("amm_open_orders", true).
			Named("amm_target_orders", true).
			Named("pool_coin_vault", true).
			Named("pool_pc_vault", true).
			Named("serum_program", false).
			Named("serum_market", true).
			Named("serum_bids", true).
			Named("serum_asks", true).
			Named("serum_event_queue", true).
			Named("serum_coin_vault", true).
			Named("serum_pc_vault", true).
			Named("serum_vault_signer", false).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Signer(r.User, false).
			Build()
	})

var raydiumStableVenue = newVenue(RaydiumStableSwap, RaydiumStableProgram, raydiumAmmLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		return r.builder().
			Program(solana.TokenProgramID).
			Named("amm", true).
			Named("amm_authority", false).
			Named("amm_open_orders", true).
			Named("pool_coin_vault", true).
			Named("pool_pc_vault", true).
			Named("model_data", true).
			Named("serum_program", false).
			Named("serum_market", true).
			Named("serum_bids", true).
			Named("serum_asks", true).
			Named("serum_event_queue", true).
			Named("serum_coin_vault", true).
			Named("serum_pc_vault", true).
			Named("serum_vault_signer", false).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Signer(r.User, false).
			Build()
	})

// Tick arrays 1 and 2 are optional; zero or the program id means absent.
var raydiumClmmVenue = newVenue(RaydiumClmmSwap, RaydiumClmmProgram, raydiumClmmLayout, clmmValues,
	func(r Request) (resource.List, error) {
		return r.builder().
			Signer(r.User, true).
			Named("amm_config", false).
			Named("pool_state", true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Named("input_vault", true).
			Named("output_vault", true).
			Named("observation_state", true).
			Program(solana.TokenProgramID).
			Named("tick_array0", true).
			Named("tick_array_bitmap", true).
			Trailing("tick_arrays", r.trailing("tick_array1", "tick_array2"), 0, true, RaydiumClmmProgram).
			Build()
	})

var raydiumClmmV2Venue = newVenue(RaydiumClmmSwapV2, RaydiumClmmProgram, raydiumClmmV2Layout, clmmValues,
	func(r Request) (resource.List, error) {
		return r.builder().
			Signer(r.User, true).
			Named("amm_config", false).
			Named("pool_state", true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Named("input_vault", true).
			Named("output_vault", true).
			Named("observation_state", true).
			Program(solana.TokenProgramID).
			Program(Token2022Program).
			Program(MemoProgram).
			Key(r.SourceMint, false, false).
			Key(r.DestinationMint, false, false).
			Named("tick_array_bitmap", true).
			Named("tick_array0", true).
			Trailing("tick_arrays", r.trailing("tick_array1", "tick_array2"), 0, true, RaydiumClmmProgram).
			Build()
	})

// The CPMM program sends a zero minimum by default.
var raydiumCpmmVenue = newVenue(RaydiumCpmmSwap, RaydiumCpmmProgram, raydiumCpmmLayout, amountMin(0),
	func(r Request) (resource.List, error) {
		return r.builder().
			Signer(r.User, true).
			Named("authority", false).
			Named("amm_config", false).
			Named("pool_state", true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Named("input_vault", true).
			Named("output_vault", true).
			NamedOr("input_token_program", solana.TokenProgramID, false).
			NamedOr("output_token_program", solana.TokenProgramID, false).
			Key(r.SourceMint, false, false).
			Key(r.DestinationMint, false, false).
			Named("observation_state", true).
			Build()
	})

// launchpad buys when the source is the quote mint and sells otherwise.
func launchpad(id ID) *Venue {
	return &Venue{
		ID:      id,
		Program: RaydiumLaunchpadProgram,
		layouts: []codec.Layout{launchpadBuyLayout, launchpadSellLayout},
		encode: func(r Request) (codec.Layout, []*big.Int, error) {
			baseIn, err := r.directionFromAccounts("base_mint", "quote_mint")
			if err != nil {
				return codec.Layout{}, nil, err
			}
			layout := launchpadBuyLayout
			if baseIn {
				layout = launchpadSellLayout
			}
			return layout, []*big.Int{codec.U(r.Amount), codec.U(r.minOutput(1)), codec.U(r.param("share_fee_rate", 0))}, nil
		},
		build: func(r Request) (resource.List, error) {
			return r.builder().
				Signer(r.User, false).
				Named("authority", false).
				Named("global_config", false).
				Named("platform_config", false).
				Named("pool_state", true).
				NamedOrATA("user_source", r.User, r.SourceMint, true).
				NamedOrATA("user_destination", r.User, r.DestinationMint, true).
				Named("base_vault", true).
				Named("quote_vault", true).
				Named("base_mint", false).
				Named("quote_mint", false).
				NamedOr("base_token_program", solana.TokenProgramID, false).
				NamedOr("quote_token_program", solana.TokenProgramID, false).
				Named("event_authority", false).
				Program(RaydiumLaunchpadProgram).
				Build()
		},
	}
}

var (
	raydiumLaunchpadVenue = launchpad(RaydiumLaunchpad)
	letsBonkFunVenue      = launchpad(LetsBonkFun)
)
