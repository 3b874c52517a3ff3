package venue

import (
	"fmt"
	"math"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/fault"
	"venueRouter/internal/resource"
)

// Order book venues take an immediate-or-cancel taker order sized in lots.

const (
	sideBid = 0
	sideAsk = 1

	openbookOrderTypeMarket = 3
	openbookMatchLimit      = 50

	phoenixImmediateOrCancel = 2
	phoenixCancelProvide     = 1
)

var (
	openbookLayout = codec.Layout{
		Name:     "openbook_v2_place_take_order",
		Selector: codec.AnchorSelector("place_take_order"),
		Fields: []codec.Field{
			{Name: "side", Kind: codec.U8},
			{Name: "price_lots", Kind: codec.I64},
			{Name: "max_base_lots", Kind: codec.I64},
			{Name: "max_quote_lots_including_fees", Kind: codec.I64},
			{Name: "order_type", Kind: codec.U8},
			{Name: "limit", Kind: codec.U8},
		},
	}
	// Optional fields are written as a bare None tag.
	phoenixLayout = codec.Layout{
		Name:     "phoenix_swap",
		Selector: codec.Disc(0),
		Fields: []codec.Field{
			{Name: "order_type", Kind: codec.U8},
			{Name: "side", Kind: codec.U8},
			{Name: "price_in_ticks", Kind: codec.U8},
			{Name: "num_base_lots", Kind: codec.U64},
			{Name: "num_quote_lots", Kind: codec.U64},
			{Name: "min_base_lots_to_fill", Kind: codec.U64},
			{Name: "min_quote_lots_to_fill", Kind: codec.U64},
			{Name: "self_trade_behavior", Kind: codec.U8},
			{Name: "match_limit", Kind: codec.U8},
			{Name: "client_order_id", Kind: codec.U128},
			{Name: "use_only_deposited_funds", Kind: codec.Bool},
		},
	}
	manifestLayout = codec.Layout{
		Name:     "manifest_swap",
		Selector: codec.Disc(4),
		Fields: []codec.Field{
			{Name: "in_atoms", Kind: codec.U64},
			{Name: "out_atoms", Kind: codec.U64},
			{Name: "is_base_in", Kind: codec.Bool},
			{Name: "is_exact_in", Kind: codec.Bool},
		},
	}
)

// lotSizes reads the market's base and quote lot sizes, which must be
// non-zero.
func (r Request) lotSizes() (uint64, uint64, error) {
	base, err := r.requireParam("base_lot_size")
	if err != nil {
		return 0, 0, err
	}
	quote, err := r.requireParam("quote_lot_size")
	if err != nil {
		return 0, 0, err
	}
	if base == 0 || quote == 0 {
		return 0, 0, fmt.Errorf("zero lot size: %w", fault.ErrMisconfigured)
	}
	return base, quote, nil
}

// An ask sells Amount base at any price; a bid spends Amount quote.
func openbookValues(r Request) ([]*big.Int, error) {
	baseIn, err := r.directionFromAccounts("base_mint", "quote_mint")
	if err != nil {
		return nil, err
	}
	baseLot, quoteLot, err := r.lotSizes()
	if err != nil {
		return nil, err
	}
	var side, price, maxBase, maxQuote *big.Int
	if baseIn {
		side = codec.U(sideAsk)
		price = codec.I(1)
		maxBase = codec.U(r.Amount / baseLot)
		maxQuote = codec.I(math.MaxInt64 / int64(min(quoteLot, math.MaxInt64)))
	} else {
		side = codec.U(sideBid)
		price = codec.I(math.MaxInt64)
		maxBase = codec.I(math.MaxInt64 / int64(min(baseLot, math.MaxInt64)))
		maxQuote = codec.U(r.Amount / quoteLot)
	}
	return []*big.Int{side, price, maxBase, maxQuote, codec.U(openbookOrderTypeMarket), codec.U(openbookMatchLimit)}, nil
}

var openbookVenue = newVenue(OpenBookV2, OpenBookV2Program, openbookLayout, openbookValues,
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
			Signer(r.User, true).
			Signer(r.User, true).
			Named("market", true).
			Named("market_authority", false).
			Named("bids", true).
			Named("asks", true).
			Named("market_base_vault", true).
			Named("market_quote_vault", true).
			Named("event_heap", true).
			NamedOrATA("user_base", r.User, base, true).
			NamedOrATA("user_quote", r.User, quote, true).
			NamedOr("oracle_a", OpenBookV2Program, false).
			NamedOr("oracle_b", OpenBookV2Program, false).
			Program(solana.TokenProgramID).
			Program(solana.SystemProgramID).
			NamedOr("open_orders_admin", OpenBookV2Program, false).
			Trailing("open_orders", r.trailing("open_orders_account"), 0, true).
			Build()
	})

func phoenixValues(r Request) ([]*big.Int, error) {
	baseIn, err := r.directionFromAccounts("base_mint", "quote_mint")
	if err != nil {
		return nil, err
	}
	baseLot, quoteLot, err := r.lotSizes()
	if err != nil {
		return nil, err
	}
	side, baseLots, quoteLots := uint64(sideBid), uint64(0), r.Amount/quoteLot
	if baseIn {
		side, baseLots, quoteLots = sideAsk, r.Amount/baseLot, 0
	}
	return []*big.Int{
		codec.U(phoenixImmediateOrCancel),
		codec.U(side),
		codec.Zero(),
		codec.U(baseLots),
		codec.U(quoteLots),
		codec.Zero(),
		codec.Zero(),
		codec.U(phoenixCancelProvide),
		codec.Zero(),
		codec.Zero(),
		codec.Flag(false),
	}, nil
}

var phoenixVenue = newVenue(Phoenix, PhoenixProgram, phoenixLayout, phoenixValues,
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
			Program(PhoenixProgram).
			Named("log_authority", true).
			Named("market", true).
			Signer(r.User, true).
			NamedOrATA("user_base", r.User, base, true).
			NamedOrATA("user_quote", r.User, quote, true).
			Named("base_vault", true).
			Named("quote_vault", true).
			Program(solana.TokenProgramID).
			Build()
	})

var manifestVenue = newVenue(Manifest, ManifestProgram, manifestLayout,
	func(r Request) ([]*big.Int, error) {
		baseIn, err := r.directionFromAccounts("base_mint", "quote_mint")
		if err != nil {
			return nil, err
		}
		return []*big.Int{codec.U(r.Amount), codec.U(r.minOutput(1)), codec.Flag(baseIn), codec.Flag(true)}, nil
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
			Signer(r.User, true).
			Named("market", true).
			Program(solana.SystemProgramID).
			NamedOrATA("user_base", r.User, base, true).
			NamedOrATA("user_quote", r.User, quote, true).
			Named("base_vault", true).
			Named("quote_vault", true).
			NamedOr("base_token_program", solana.TokenProgramID, false).
			Key(base, false, false).
			NamedOr("quote_token_program", solana.TokenProgramID, false).
			Key(quote, false, false).
			Named("global", true).
			Named("global_vault", true).
			Build()
	})
