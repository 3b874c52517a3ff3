package venue

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/resource"
)

// Constant-product and oracle AMMs that take a plain exact-input swap.

var (
	solfiLayout = codec.Layout{
		Name:     "solfi_swap",
		Selector: codec.Disc(7),
		Fields:   u64Fields("amount_in"),
		Pad:      9,
	}
	zerofiLayout = codec.Layout{
		Name:     "zerofi_swap",
		Selector: codec.Disc(6),
		Fields:   u64Fields("amount_in", "desired_amount_out"),
	}
	goosefxLayout = codec.Layout{
		Name:     "goosefx_gamma_swap_base_input",
		Selector: codec.AnchorSelector("swap_base_input"),
		Fields:   u64Fields("amount_in", "minimum_amount_out"),
	}
	lifinityV2Layout = codec.Layout{
		Name:     "lifinity_v2_swap",
		Selector: codec.AnchorSelector("swap"),
		Fields:   u64Fields("amount_in", "minimum_amount_out"),
	}
	fluxbeamLayout = codec.Layout{
		Name:     "fluxbeam_swap",
		Selector: codec.Disc(1),
		Fields:   u64Fields("amount_in", "minimum_amount_out"),
	}
	sarosLayout = codec.Layout{
		Name:     "saros_swap",
		Selector: codec.Disc(1),
		Fields:   u64Fields("amount_in", "minimum_amount_out"),
	}
	sarosDlmmLayout = codec.Layout{
		Name:     "saros_dlmm_swap",
		Selector: codec.AnchorSelector("swap"),
		Fields: []codec.Field{
			{Name: "amount", Kind: codec.U64},
			{Name: "other_amount_threshold", Kind: codec.U64},
			{Name: "swap_for_y", Kind: codec.Bool},
			{Name: "swap_type", Kind: codec.U8},
		},
	}
	obricV2Layout = codec.Layout{
		Name:     "obric_v2_swap2",
		Selector: codec.AnchorSelector("swap2"),
		Fields: []codec.Field{
			{Name: "x_to_y", Kind: codec.Bool},
			{Name: "amount_in", Kind: codec.U64},
			{Name: "min_amount_out", Kind: codec.U64},
		},
	}
	tesseraLayout = codec.Layout{
		Name:     "tessera_swap",
		Selector: codec.Bytes(0x6f, 0xc4, 0x16, 0xa0, 0x8c, 0x90, 0x4b, 0x4c),
		Fields: []codec.Field{
			{Name: "side", Kind: codec.U8},
			{Name: "amount_in", Kind: codec.U64},
			{Name: "min_amount_out", Kind: codec.U64},
		},
	}
	woofiLayout = codec.Layout{
		Name:     "woofi_swap",
		Selector: codec.AnchorSelector("swap"),
		Fields: []codec.Field{
			{Name: "amount_in", Kind: codec.U128},
			{Name: "min_amount_out", Kind: codec.U128},
		},
	}
)

// poolSides orders a pool's (a, b) accounts as (source side, destination
// side) by matching the request mints against the pool mints.
func (r Request) poolSides(aMint, bMint, aAccount, bAccount string) (solana.PublicKey, solana.PublicKey, error) {
	aIn, err := r.directionFromAccounts(aMint, bMint)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, err
	}
	a, err := r.account(aAccount)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, err
	}
	b, err := r.account(bAccount)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, err
	}
	if aIn {
		return a, b, nil
	}
	return b, a, nil
}

// Solfi's market token accounts are the market's associated accounts.
var solfiVenue = newVenue(Solfi, SolfiProgram, solfiLayout,
	func(r Request) ([]*big.Int, error) { return []*big.Int{codec.U(r.Amount)}, nil },
	func(r Request) (resource.List, error) {
		market, err := r.account("market")
		if err != nil {
			return nil, err
		}
		return r.builder().
			Signer(r.User, true).
			Key(market, true, false).
			ATA(market, r.SourceMint, true).
			ATA(market, r.DestinationMint, true).
			ATA(r.User, r.SourceMint, true).
			ATA(r.User, r.DestinationMint, true).
			Program(solana.TokenProgramID).
			Program(InstructionsSysvar).
			Build()
	})

var zerofiVenue = newVenue(Zerofi, ZerofiProgram, zerofiLayout, amountMin(0),
	func(r Request) (resource.List, error) {
		return r.builder().
			Named("pair", true).
			Named("vault_info_in", true).
			Named("vault_in", true).
			Named("vault_info_out", true).
			Named("vault_out", true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Signer(r.User, false).
			Program(solana.TokenProgramID).
			Program(InstructionsSysvar).
			Build()
	})

var goosefxVenue = newVenue(GooseFX, GooseFXGammaProgram, goosefxLayout, amountMin(0),
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
			Program(solana.TokenProgramID).
			Program(solana.TokenProgramID).
			Key(r.SourceMint, false, false).
			Key(r.DestinationMint, false, false).
			Named("observation_state", true).
			Build()
	})

var lifinityV2Venue = newVenue(LifinityV2, LifinityV2Program, lifinityV2Layout, amountMin(1),
	func(r Request) (resource.List, error) {
		return r.builder().
			Named("authority", false).
			Named("amm", true).
			Signer(r.User, false).
			ATA(r.User, r.SourceMint, true).
			ATA(r.User, r.DestinationMint, true).
			Named("pool_source", true).
			Named("pool_destination", true).
			Named("pool_mint", true).
			Named("fee_account", true).
			Program(solana.TokenProgramID).
			Named("oracle_main", false).
			Named("oracle_sub", false).
			Named("oracle_pc", false).
			Build()
	})

var fluxbeamVenue = newVenue(FluxBeam, FluxBeamProgram, fluxbeamLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		poolIn, poolOut, err := r.poolSides("token_a_mint", "token_b_mint", "token_a_account", "token_b_account")
		if err != nil {
			return nil, err
		}
		return r.builder().
			Named("swap_info", false).
			Named("authority", false).
			Signer(r.User, true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			Key(poolIn, true, false).
			Key(poolOut, true, false).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Named("pool_mint", true).
			Named("pool_fee", true).
			Key(r.SourceMint, false, false).
			Key(r.DestinationMint, false, false).
			NamedOr("source_token_program", solana.TokenProgramID, false).
			NamedOr("destination_token_program", solana.TokenProgramID, false).
			Program(Token2022Program).
			Build()
	})

var sarosVenue = newVenue(Saros, SarosProgram, sarosLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		return r.builder().
			Named("pool", false).
			Named("pool_authority", false).
			Signer(r.User, false).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			Named("pool_source", true).
			Named("pool_destination", true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Named("pool_lp_mint", true).
			Named("protocol_lp_token", true).
			Program(solana.TokenProgramID).
			Build()
	})

// Saros DLMM swaps toward Y when the source is mint X; swap_type 0 is exact in.
var sarosDlmmVenue = newVenue(SarosDlmm, SarosDlmmProgram, sarosDlmmLayout,
	func(r Request) ([]*big.Int, error) {
		mintX, err := r.account("token_mint_x")
		if err != nil {
			return nil, err
		}
		return []*big.Int{codec.U(r.Amount), codec.U(r.minOutput(1)), codec.Flag(r.SourceMint.Equals(mintX)), codec.Zero()}, nil
	},
	func(r Request) (resource.List, error) {
		return r.builder().
			Named("pair", true).
			Named("token_mint_x", false).
			Named("token_mint_y", false).
			Named("bin_array_lower", true).
			Named("bin_array_upper", true).
			Named("token_vault_x", true).
			Named("token_vault_y", true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Signer(r.User, true).
			NamedOr("token_program_x", solana.TokenProgramID, false).
			NamedOr("token_program_y", solana.TokenProgramID, false).
			Program(MemoProgram).
			Named("event_authority", false).
			Program(SarosDlmmProgram).
			Build()
	})

var obricV2Venue = newVenue(ObricV2, ObricV2Program, obricV2Layout,
	func(r Request) ([]*big.Int, error) {
		xToY, err := r.directionFromAccounts("reserve_x_mint", "reserve_y_mint")
		if err != nil {
			return nil, err
		}
		return []*big.Int{codec.Flag(xToY), codec.U(r.Amount), codec.U(r.minOutput(1))}, nil
	},
	func(r Request) (resource.List, error) {
		return r.builder().
			Named("trading_pair", true).
			Named("second_reference_oracle", false).
			Named("third_reference_oracle", false).
			Named("reserve_x", true).
			Named("reserve_y", true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Named("reference_oracle", true).
			Named("x_price_feed", false).
			Named("y_price_feed", false).
			Signer(r.User, false).
			Program(solana.TokenProgramID).
			Build()
	})

// Tessera side 1 sells base.
var tesseraVenue = newVenue(Tessera, TesseraProgram, tesseraLayout,
	func(r Request) ([]*big.Int, error) {
		baseIn, err := r.directionFromAccounts("base_mint", "quote_mint")
		if err != nil {
			return nil, err
		}
		side := uint64(0)
		if baseIn {
			side = 1
		}
		return []*big.Int{codec.U(side), codec.U(r.Amount), codec.U(r.minOutput(1))}, nil
	},
	func(r Request) (resource.List, error) {
		base, err := r.account("base_mint")
		if err != nil {
			return nil, err
		}
		quote, err := r.account("quote_mint")
		if err != nil {
			return nil, err
		}
		return r.builder().
			Named("global_state", false).
			Named("pool_state", true).
			Signer(r.User, true).
			Named("base_vault", true).
			Named("quote_vault", true).
			NamedOrATA("user_base", r.User, base, true).
			NamedOrATA("user_quote", r.User, quote, true).
			Key(base, false, false).
			Key(quote, false, false).
			NamedOr("base_token_program", solana.TokenProgramID, false).
			NamedOr("quote_token_program", solana.TokenProgramID, false).
			Program(InstructionsSysvar).
			Build()
	})

// WOOFi carries amounts as u128.
var woofiVenue = newVenue(Woofi, WoofiProgram, woofiLayout, amountMin(1),
	func(r Request) (resource.List, error) {
		return r.builder().
			Named("config", true).
			Program(solana.TokenProgramID).
			Signer(r.User, true).
			Named("token_a_wooracle", true).
			Named("token_a_woopool", true).
			NamedOrATA("user_source", r.User, r.SourceMint, true).
			Named("token_a_vault", true).
			Named("token_a_price_update", true).
			Named("token_b_wooracle", true).
			Named("token_b_woopool", true).
			NamedOrATA("user_destination", r.User, r.DestinationMint, true).
			Named("token_b_vault", true).
			Named("token_b_price_update", true).
			Named("quote_pool", true).
			Named("quote_price_update", true).
			Named("quote_vault", true).
			NamedOr("rebate_to", r.User, true).
			Build()
	})
