package venue

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/fault"
)

func testKey(name string) solana.PublicKey {
	return solana.PublicKey(sha256.Sum256([]byte(name)))
}

var fixtureAccounts = []string{
	"a_token_vault", "a_vault", "a_vault_lp", "a_vault_lp_mint", "admin_fee_account", "admin_token_fee",
	"amm", "amm_authority", "amm_config", "amm_open_orders", "amm_target_orders", "asks", "authority",
	"b_token_vault", "b_vault", "b_vault_lp", "b_vault_lp_mint", "beneficiary_token_out", "bids",
	"bin_array_bitmap_extension", "bin_array_lower", "bin_array_upper", "coin_creator_vault_ata",
	"coin_creator_vault_authority", "collateral_custody", "config", "custody_token_account",
	"destination_pool_reserves", "destination_token_program", "dispensing_custody",
	"dispensing_custody_doves_price", "dispensing_custody_pythnet_price", "dispensing_custody_token_account",
	"doves_price", "dst_flat_fee_pricing_account", "event_authority", "event_heap", "fee_account",
	"flat_fee_pricing", "global", "global_config", "global_state", "global_vault",
	"global_volume_accumulator", "input_token_program", "input_vault", "lb_pair", "log_authority",
	"lp_mint", "lst", "lst_state_list", "market", "market_authority", "market_base_vault",
	"market_quote_vault", "model_data", "observation_state", "oracle", "oracle_main", "oracle_pc",
	"oracle_sub", "output_token_program", "output_vault", "pair", "perpetuals", "platform_config", "pool",
	"pool_authority", "pool_base_token_account", "pool_coin_vault", "pool_destination", "pool_fee",
	"pool_lp_mint", "pool_mint", "pool_pc_vault", "pool_quote_token_account", "pool_source", "pool_state",
	"protocol_fee_accumulator", "protocol_fee_recipient", "protocol_fee_recipient_token_account",
	"protocol_lp_token", "pythnet_price", "quote_pool", "quote_price_update", "rebate_to",
	"receiving_custody", "receiving_custody_doves_price", "receiving_custody_pythnet_price",
	"receiving_custody_token_account", "reference_oracle", "reserve_x", "reserve_y",
	"second_reference_oracle", "serum_asks", "serum_bids", "serum_coin_vault", "serum_event_queue",
	"serum_market", "serum_pc_vault", "serum_program", "serum_vault_signer", "source_pool_reserves",
	"source_token_program", "src_flat_fee_pricing_account", "swap_authority", "swap_info",
	"third_reference_oracle", "tick_array0", "tick_array_bitmap", "token_a_account", "token_a_price_update",
	"token_a_vault", "token_a_woopool", "token_a_wooracle", "token_b_account", "token_b_price_update",
	"token_b_vault", "token_b_woopool", "token_b_wooracle", "token_vault", "token_vault_a", "token_vault_b",
	"token_vault_x", "token_vault_y", "trading_pair", "user_volume_accumulator", "vault", "vault_authority",
	"vault_in", "vault_info_in", "vault_info_out", "vault_out", "vault_token_in", "vault_token_out",
	"whirlpool", "withdraw_authority", "x_price_feed", "y_price_feed", "wsol_calculator",
	"src_spl_sol_calculator", "src_calculator_state", "src_stake_pool_state", "src_stake_pool_program",
	"src_stake_pool_program_data", "dst_spl_sol_calculator", "dst_calculator_state", "dst_stake_pool_state",
	"dst_stake_pool_program", "dst_stake_pool_program_data",
}

var fixtureMintPairs = [][2]string{
	{"base_mint", "quote_mint"},
	{"token_mint_a", "token_mint_b"},
	{"token_a_mint", "token_b_mint"},
	{"reserve_x_mint", "reserve_y_mint"},
	{"token_mint_x", "token_mint_y"},
	{"token_x_mint", "token_y_mint"},
}

// fixture fills every account a venue may name with a distinct key and
// orients every mint pair so that the source mint comes first.
func fixture(id ID, amount uint64) Request {
	src, dst := testKey("mint_source"), testKey("mint_destination")
	if id == SanctumWsolSwap {
		src = WrappedSolMint
	}
	accounts := make(map[string]solana.PublicKey, len(fixtureAccounts)+2*len(fixtureMintPairs))
	for _, name := range fixtureAccounts {
		accounts[name] = testKey(name)
	}
	for _, pair := range fixtureMintPairs {
		accounts[pair[0]] = src
		accounts[pair[1]] = dst
	}
	return Request{
		Amount:          amount,
		User:            testKey("user"),
		SourceMint:      src,
		DestinationMint: dst,
		Accounts:        accounts,
		Trailing:        []solana.PublicKey{testKey("extra0"), testKey("extra1"), testKey("extra2")},
		Params: map[string]uint64{
			"base_lot_size":  1,
			"quote_lot_size": 1,
			"src_lst_index":  3,
			"dst_lst_index":  7,
			"base_reserves":  1_000_000_000_000,
			"quote_reserves": 1_000_000_000_000,
		},
	}
}

// Payload bytes and account count for each supported venue under fixture,
// which supplies tick_array0 plus three trailing candidates.
var shapes = map[ID]struct{ payload, accounts int }{
	StableSwap:                {17, 9},
	Whirlpool:                 {42, 11},
	MeteoraDynamicPool:        {24, 15},
	RaydiumSwap:               {17, 18},
	RaydiumStableSwap:         {17, 18},
	RaydiumClmmSwap:           {41, 14},
	RaydiumClmmSwapV2:         {41, 18},
	LifinityV2:                {24, 13},
	FluxBeam:                  {17, 14},
	MeteoraDlmm:               {24, 18},
	RaydiumCpmmSwap:           {24, 13},
	OpenBookV2:                {35, 19},
	WhirlpoolV2:               {43, 15},
	Phoenix:                   {55, 9},
	ObricV2:                   {25, 12},
	SanctumWsolSwap:           {27, 21},
	Saros:                     {17, 10},
	StabbleSwap:               {25, 15},
	SanctumRouter:             {27, 25},
	MeteoraVaultDeposit:       {24, 7},
	MeteoraVaultWithdraw:      {24, 7},
	MeteoraLst:                {24, 16},
	Solfi:                     {18, 8},
	Zerofi:                    {17, 10},
	PumpfunAmmBuy:             {24, 21},
	PumpfunAmmSell:            {24, 19},
	PerpetualsAddLiquidity:    {25, 17},
	PerpetualsRemoveLiquidity: {24, 17},
	PerpetualsSwap:            {24, 17},
	RaydiumLaunchpad:          {32, 15},
	LetsBonkFun:               {32, 15},
	Woofi:                     {40, 17},
	MeteoraDbc:                {24, 15},
	MeteoraDlmmSwap2:          {28, 19},
	MeteoraDbc2:               {24, 16},
	GooseFX:                   {24, 13},
	SarosDlmm:                 {26, 15},
	Manifest:                  {19, 13},
	ByrealClmm:                {41, 18},
	PancakeSwapV3Swap:         {41, 14},
	PancakeSwapV3SwapV2:       {41, 18},
	Tessera:                   {25, 12},
}

var testAmounts = []uint64{1, 1_000_000, 1 << 62}

func TestSupportedVenueShapes(t *testing.T) {
	reg := NewRegistry(nil)
	if got := len(reg.Supported()); got != len(shapes) {
		t.Fatalf("want %d supported venues, got %d", len(shapes), got)
	}
	for _, id := range reg.Supported() {
		want, ok := shapes[id]
		if !ok {
			t.Fatalf("%s: no expected shape", id)
		}
		v, err := reg.Resolve(id)
		if err != nil {
			t.Fatalf("resolve %s: %v", id, err)
		}
		var selector []byte
		for _, amount := range testAmounts {
			req := fixture(id, amount)
			payload, err := v.Encode(req)
			if err != nil {
				t.Fatalf("%s encode %d: %v", id, amount, err)
			}
			if len(payload) != want.payload {
				t.Fatalf("%s: want %d payload bytes, got %d", id, want.payload, len(payload))
			}
			layout, err := v.Layout(req)
			if err != nil {
				t.Fatalf("%s layout: %v", id, err)
			}
			if layout.Size() != len(payload) {
				t.Fatalf("%s: layout size %d != payload %d", id, layout.Size(), len(payload))
			}
			if !bytes.HasPrefix(payload, layout.Selector) {
				t.Fatalf("%s: payload %x lacks selector %x", id, payload, layout.Selector)
			}
			if selector == nil {
				selector = layout.Selector
			} else if !bytes.Equal(selector, layout.Selector) {
				t.Fatalf("%s: selector changed with amount: %x != %x", id, selector, layout.Selector)
			}

			list, err := v.Resources(req)
			if err != nil {
				t.Fatalf("%s resources: %v", id, err)
			}
			if len(list) != want.accounts {
				t.Fatalf("%s: want %d accounts, got %d", id, want.accounts, len(list))
			}
			if len(list.Signers()) == 0 {
				t.Fatalf("%s: no signer in account list", id)
			}
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	reg := NewRegistry(nil)
	for _, id := range reg.Supported() {
		v, _ := reg.Resolve(id)
		for _, amount := range testAmounts {
			payload, err := v.Encode(fixture(id, amount))
			if err != nil {
				t.Fatalf("%s encode: %v", id, err)
			}
			decoded, err := reg.Decode(id, payload)
			if err != nil {
				t.Fatalf("%s decode: %v", id, err)
			}
			again, err := decoded.Layout.Encode(decoded.Values...)
			if err != nil {
				t.Fatalf("%s re-encode: %v", id, err)
			}
			if !bytes.Equal(again, payload) {
				t.Fatalf("%s: re-encoded %x != %x", id, again, payload)
			}
			found := false
			for _, value := range decoded.Values {
				if value.IsUint64() && value.Uint64() == amount {
					found = true
				}
			}
			if !found {
				t.Fatalf("%s: amount %d not among decoded values %v", id, amount, decoded.Values)
			}
		}
	}
}

func TestUnsupportedVenues(t *testing.T) {
	reg := NewRegistry(nil)
	for _, id := range append(All(), ID(200)) {
		if _, ok := shapes[id]; ok {
			continue
		}
		if reg.Supports(id) {
			t.Fatalf("%s should be unsupported", id)
		}
		if _, err := reg.Resolve(id); !errors.Is(err, fault.ErrUnsupportedVenue) {
			t.Fatalf("%s: expected unsupported venue, got %v", id, err)
		}
		if _, err := reg.Decode(id, make([]byte, 24)); !errors.Is(err, fault.ErrUnsupportedVenue) {
			t.Fatalf("%s decode: expected unsupported venue, got %v", id, err)
		}
	}
}

func TestDecodeRejectsForeignPayload(t *testing.T) {
	reg := NewRegistry(nil)
	payload, err := whirlpoolVenue.Encode(fixture(Whirlpool, 10))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := reg.Decode(RaydiumSwap, payload); err == nil {
		t.Fatalf("expected whirlpool payload to fail raydium decode")
	}
}

func TestClmmTickArrays(t *testing.T) {
	program := RaydiumClmmProgram
	cases := []struct {
		trailing []solana.PublicKey
		want     int
	}{
		{nil, 11},
		{[]solana.PublicKey{testKey("t1")}, 12},
		{[]solana.PublicKey{testKey("t1"), testKey("t2"), testKey("t3")}, 14},
		{[]solana.PublicKey{testKey("t1"), program, {}}, 12},
	}
	for _, tc := range cases {
		req := fixture(RaydiumClmmSwap, 10)
		req.Trailing = tc.trailing
		list, err := raydiumClmmVenue.Resources(req)
		if err != nil {
			t.Fatalf("resources: %v", err)
		}
		if len(list) != tc.want {
			t.Fatalf("want %d accounts, got %d", tc.want, len(list))
		}
		for _, ref := range list[11:] {
			if ref.Key.Equals(program) {
				t.Fatalf("sentinel passed through as tick array")
			}
		}
	}
}

func TestNamedTickArraysPrecedeTrailing(t *testing.T) {
	req := fixture(RaydiumClmmSwap, 10)
	req.Accounts["tick_array1"] = testKey("named1")
	req.Trailing = []solana.PublicKey{testKey("t1")}
	list, err := raydiumClmmVenue.Resources(req)
	if err != nil {
		t.Fatalf("resources: %v", err)
	}
	keys := list.Keys()
	if !keys[11].Equals(testKey("named1")) || !keys[12].Equals(testKey("t1")) {
		t.Fatalf("tick array order mismatch: %v", keys[11:])
	}
}

func TestDlmmNeedsBinArray(t *testing.T) {
	req := fixture(MeteoraDlmm, 10)
	req.Trailing = nil
	if _, err := meteoraDlmmVenue.Resources(req); !errors.Is(err, fault.ErrInsufficientResources) {
		t.Fatalf("expected insufficient resources, got %v", err)
	}
}

func TestWhirlpoolTakesExactlyThreeTickArrays(t *testing.T) {
	req := fixture(Whirlpool, 10)
	req.Trailing = []solana.PublicKey{testKey("t1")}
	if _, err := whirlpoolVenue.Resources(req); !errors.Is(err, fault.ErrInsufficientResources) {
		t.Fatalf("expected insufficient resources, got %v", err)
	}
}

func TestMintMismatchMisconfigured(t *testing.T) {
	for _, v := range []*Venue{obricV2Venue, fluxbeamVenue, whirlpoolVenue, openbookVenue} {
		req := fixture(v.ID, 10)
		req.DestinationMint = testKey("stranger")
		_, encErr := v.Encode(req)
		_, resErr := v.Resources(req)
		if !errors.Is(encErr, fault.ErrMisconfigured) && !errors.Is(resErr, fault.ErrMisconfigured) {
			t.Fatalf("%s: expected misconfigured, got %v / %v", v.ID, encErr, resErr)
		}
	}
}

func TestWhirlpoolDirection(t *testing.T) {
	req := fixture(Whirlpool, 10)
	decode := func(req Request) (aToB uint64, limit string) {
		payload, err := whirlpoolVenue.Encode(req)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		values, err := whirlpoolLayout.Decode(payload)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		return values[4].Uint64(), values[2].String()
	}

	if aToB, limit := decode(req); aToB != 1 || limit != "4295048016" {
		t.Fatalf("a to b: got %d limit %s", aToB, limit)
	}
	req.SourceMint, req.DestinationMint = req.DestinationMint, req.SourceMint
	if aToB, limit := decode(req); aToB != 0 || limit != "79226673515401279992447579055" {
		t.Fatalf("b to a: got %d limit %s", aToB, limit)
	}
}

func TestLaunchpadDirection(t *testing.T) {
	req := fixture(RaydiumLaunchpad, 10)
	layout, err := raydiumLaunchpadVenue.Layout(req)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if layout.Name != launchpadSellLayout.Name {
		t.Fatalf("base source should sell, got %s", layout.Name)
	}

	req.SourceMint, req.DestinationMint = req.DestinationMint, req.SourceMint
	layout, err = letsBonkFunVenue.Layout(req)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if layout.Name != launchpadBuyLayout.Name {
		t.Fatalf("quote source should buy, got %s", layout.Name)
	}
}

func TestMinOutputOverride(t *testing.T) {
	req := fixture(RaydiumSwap, 500)
	payload, err := raydiumSwapVenue.Encode(req)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	values, _ := raydiumAmmLayout.Decode(payload)
	if values[1].Uint64() != 1 {
		t.Fatalf("default minimum output: want 1, got %s", values[1])
	}

	override := uint64(480)
	req.MinOutputOverride = &override
	payload, err = raydiumSwapVenue.Encode(req)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	values, _ = raydiumAmmLayout.Decode(payload)
	if values[1].Uint64() != override {
		t.Fatalf("override: want %d, got %s", override, values[1])
	}
}

func TestResourcesRequireUser(t *testing.T) {
	req := fixture(Saros, 10)
	req.User = solana.PublicKey{}
	if _, err := sarosVenue.Resources(req); !errors.Is(err, fault.ErrMisconfigured) {
		t.Fatalf("expected misconfigured, got %v", err)
	}
}

func TestOrderBookLots(t *testing.T) {
	req := fixture(OpenBookV2, 1_000)
	req.Params["base_lot_size"] = 100
	payload, err := openbookVenue.Encode(req)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	values, _ := openbookLayout.Decode(payload)
	if values[0].Uint64() != sideAsk || values[2].Int64() != 10 || values[3].Int64() != math.MaxInt64 {
		t.Fatalf("ask values mismatch: %v", values)
	}

	req.Params["base_lot_size"] = 0
	if _, err := phoenixVenue.Encode(req); !errors.Is(err, fault.ErrMisconfigured) {
		t.Fatalf("expected misconfigured for zero lot, got %v", err)
	}
	delete(req.Params, "quote_lot_size")
	if _, err := openbookVenue.Encode(req); !errors.Is(err, fault.ErrMisconfigured) {
		t.Fatalf("expected misconfigured for missing lot, got %v", err)
	}
}

func TestSanctumWsolNeedsOneWsolSide(t *testing.T) {
	req := fixture(SanctumRouter, 10)
	if _, err := sanctumWsolVenue.Encode(req); !errors.Is(err, fault.ErrMisconfigured) {
		t.Fatalf("expected misconfigured, got %v", err)
	}
	delete(req.Params, "dst_lst_index")
	if _, err := sanctumRouterVenue.Encode(req); !errors.Is(err, fault.ErrMisconfigured) {
		t.Fatalf("expected misconfigured for missing index, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	for _, id := range All() {
		got, err := ParseID(id.String())
		if err != nil {
			t.Fatalf("parse %s: %v", id, err)
		}
		if got != id {
			t.Fatalf("parse %s: got %s", id, got)
		}
	}
	if _, err := ParseID("nope"); !errors.Is(err, fault.ErrUnsupportedVenue) {
		t.Fatalf("expected unsupported venue, got %v", err)
	}
}

func TestPhoenixAccounts(t *testing.T) {
	list, err := phoenixVenue.Resources(fixture(Phoenix, 1_000))
	if err != nil {
		t.Fatalf("resources: %v", err)
	}
	if len(list) != 9 || !list[0].Key.Equals(PhoenixProgram) || list[0].Writable {
		t.Fatalf("program slot mismatch: %+v", list)
	}
	if !list[1].Key.Equals(testKey("log_authority")) || !list[1].Writable {
		t.Fatalf("log authority must be writable: %+v", list[1])
	}
	if !list[3].Key.Equals(testKey("user")) || !list[3].Signer {
		t.Fatalf("user slot mismatch: %+v", list[3])
	}
}
