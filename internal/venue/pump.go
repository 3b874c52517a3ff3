package venue

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/fault"
	"venueRouter/internal/resource"
)

var (
	pumpAmmSellLayout = codec.Layout{
		Name:     "pump_amm_sell",
		Selector: codec.AnchorSelector("sell"),
		Fields:   u64Fields("base_amount_in", "min_quote_amount_out"),
	}
	pumpAmmBuyLayout = codec.Layout{
		Name:     "pump_amm_buy",
		Selector: codec.AnchorSelector("buy"),
		Fields:   u64Fields("base_amount_out", "max_quote_amount_in"),
	}
)

// BaseAmountOut quotes a pump AMM buy: the base tokens received for
// quoteIn after lp, protocol and creator fees.
func BaseAmountOut(quoteIn, baseReserves, quoteReserves, feeBps uint64) (uint64, error) {
	if baseReserves == 0 || quoteReserves == 0 {
		return 0, fmt.Errorf("empty pool reserves: %w", fault.ErrMisconfigured)
	}
	effective := new(big.Int).Mul(new(big.Int).SetUint64(quoteIn), big.NewInt(10000))
	effective.Quo(effective, new(big.Int).Add(new(big.Int).SetUint64(feeBps), big.NewInt(10000)))

	out := new(big.Int).Mul(new(big.Int).SetUint64(baseReserves), effective)
	out.Quo(out, new(big.Int).Add(new(big.Int).SetUint64(quoteReserves), effective))
	if !out.IsUint64() {
		return 0, fmt.Errorf("base amount out %s: %w", out, fault.ErrEncodingOverflow)
	}
	return out.Uint64(), nil
}

// A buy spends Amount quote. The expected base output comes from the
// base_amount_out param, or is quoted from the pool reserve params.
func pumpAmmBuyValues(r Request) ([]*big.Int, error) {
	if out, ok := r.Params["base_amount_out"]; ok {
		return []*big.Int{codec.U(out), codec.U(r.Amount)}, nil
	}
	baseReserves, err := r.requireParam("base_reserves")
	if err != nil {
		return nil, err
	}
	quoteReserves, err := r.requireParam("quote_reserves")
	if err != nil {
		return nil, err
	}
	fees := r.param("lp_fee_bps", 0) + r.param("protocol_fee_bps", 0) + r.param("creator_fee_bps", 0)
	out, err := BaseAmountOut(r.Amount, baseReserves, quoteReserves, fees)
	if err != nil {
		return nil, err
	}
	return []*big.Int{codec.U(out), codec.U(r.Amount)}, nil
}

func pumpAmm(r Request, buy bool) (resource.List, error) {
	base, err := r.account("base_mint")
	if err != nil {
		return nil, err
	}
	quote, err := r.account("quote_mint")
	if err != nil {
		return nil, err
	}
	b := r.builder().
		Named("pool", false).
		Signer(r.User, true).
		Named("global_config", false).
		Key(base, false, false).
		Key(quote, false, false).
		NamedOrATA("user_base", r.User, base, true).
		NamedOrATA("user_quote", r.User, quote, true).
		Named("pool_base_token_account", true).
		Named("pool_quote_token_account", true).
		Named("protocol_fee_recipient", false).
		Named("protocol_fee_recipient_token_account", true).
		NamedOr("base_token_program", solana.TokenProgramID, false).
		NamedOr("quote_token_program", solana.TokenProgramID, false).
		Program(solana.SystemProgramID).
		Program(AssociatedTokenProgram).
		Named("event_authority", false).
		Program(PumpAmmProgram).
		Named("coin_creator_vault_ata", true).
		Named("coin_creator_vault_authority", false)
	if buy {
		b.Named("global_volume_accumulator", true).
			Named("user_volume_accumulator", true)
	}
	return b.Build()
}

var pumpAmmBuyVenue = newVenue(PumpfunAmmBuy, PumpAmmProgram, pumpAmmBuyLayout, pumpAmmBuyValues,
	func(r Request) (resource.List, error) { return pumpAmm(r, true) })

var pumpAmmSellVenue = newVenue(PumpfunAmmSell, PumpAmmProgram, pumpAmmSellLayout, amountMin(1),
	func(r Request) (resource.List, error) { return pumpAmm(r, false) })
