package venue

import (
	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/resource"
)

// Raydium CLMM forks keep its swap and swap_v2 payloads and account order.

var (
	byrealLayout    = clmmLayout("byreal_clmm_swap_v2", "swap_v2")
	pancakeLayout   = clmmLayout("pancakeswap_v3_swap", "swap")
	pancakeV2Layout = clmmLayout("pancakeswap_v3_swap_v2", "swap_v2")
)

// Byreal takes every tick array as a trailing account; the program id marks
// an unused slot.
var byrealVenue = newVenue(ByrealClmm, ByrealClmmProgram, byrealLayout, clmmValues,
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
			Trailing("tick_arrays", r.trailing("tick_array0", "tick_array1", "tick_array2"), 1, true, ByrealClmmProgram).
			Build()
	})

var pancakeVenue = newVenue(PancakeSwapV3Swap, PancakeSwapV3Program, pancakeLayout, clmmValues,
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
			Trailing("tick_arrays", r.trailing("tick_array1", "tick_array2"), 0, true, PancakeSwapV3Program).
			Build()
	})

var pancakeV2Venue = newVenue(PancakeSwapV3SwapV2, PancakeSwapV3Program, pancakeV2Layout, clmmValues,
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
			Trailing("tick_arrays", r.trailing("tick_array1", "tick_array2"), 0, true, PancakeSwapV3Program).
			Build()
	})
