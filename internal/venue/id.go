package venue

import (
	"fmt"
	"strings"

	"venueRouter/internal/fault"
)

// ID identifies one venue operation. The set is closed; see All.
type ID uint8

const (
	StableSwap ID = iota
	Whirlpool
	MeteoraDynamicPool
	RaydiumSwap
	RaydiumStableSwap
	RaydiumClmmSwap
	RaydiumClmmSwapV2
	AldrinExchangeV1
	AldrinExchangeV2
	LifinityV1
	LifinityV2
	FluxBeam
	MeteoraDlmm
	RaydiumCpmmSwap
	OpenBookV2
	WhirlpoolV2
	Phoenix
	ObricV2
	SanctumWsolSwap
	PumpfunBuy
	PumpfunSell
	Saros
	StabbleSwap
	SanctumRouter
	MeteoraVaultDeposit
	MeteoraVaultWithdraw
	MeteoraLst
	Solfi
	Zerofi
	PumpfunAmmBuy
	PumpfunAmmSell
	Virtuals
	VertigoBuy
	VertigoSell
	PerpetualsAddLiquidity
	PerpetualsRemoveLiquidity
	PerpetualsSwap
	RaydiumLaunchpad
	LetsBonkFun
	Woofi
	MeteoraDbc
	MeteoraDlmmSwap2
	MeteoraDammV2
	Gavel
	BoopfunBuy
	BoopfunSell
	MeteoraDbc2
	GooseFX
	Dooar
	Numeraire
	SaberDecimalWrapperDeposit
	SaberDecimalWrapperWithdraw
	SarosDlmm
	OneDexSwap
	Manifest
	ByrealClmm
	PancakeSwapV3Swap
	PancakeSwapV3SwapV2
	Tessera
	SolRfq
	PumpfunBuy2
	PumpfunAmmBuy2
	Jupiter
	OkxRouter

	idCount
)

var names = [idCount]string{
	StableSwap:                  "stable-swap",
	Whirlpool:                   "whirlpool",
	MeteoraDynamicPool:          "meteora-dynamic-pool",
	RaydiumSwap:                 "raydium-swap",
	RaydiumStableSwap:           "raydium-stable-swap",
	RaydiumClmmSwap:             "raydium-clmm-swap",
	RaydiumClmmSwapV2:           "raydium-clmm-swap-v2",
	AldrinExchangeV1:            "aldrin-exchange-v1",
	AldrinExchangeV2:            "aldrin-exchange-v2",
	LifinityV1:                  "lifinity-v1",
	LifinityV2:                  "lifinity-v2",
	FluxBeam:                    "fluxbeam",
	MeteoraDlmm:                 "meteora-dlmm",
	RaydiumCpmmSwap:             "raydium-cpmm-swap",
	OpenBookV2:                  "openbook-v2",
	WhirlpoolV2:                 "whirlpool-v2",
	Phoenix:                     "phoenix",
	ObricV2:                     "obric-v2",
	SanctumWsolSwap:             "sanctum-wsol-swap",
	PumpfunBuy:                  "pumpfun-buy",
	PumpfunSell:                 "pumpfun-sell",
	Saros:                       "saros",
	StabbleSwap:                 "stabble-swap",
	SanctumRouter:               "sanctum-router",
	MeteoraVaultDeposit:         "meteora-vault-deposit",
	MeteoraVaultWithdraw:        "meteora-vault-withdraw",
	MeteoraLst:                  "meteora-lst",
	Solfi:                       "solfi",
	Zerofi:                      "zerofi",
	PumpfunAmmBuy:               "pumpfun-amm-buy",
	PumpfunAmmSell:              "pumpfun-amm-sell",
	Virtuals:                    "virtuals",
	VertigoBuy:                  "vertigo-buy",
	VertigoSell:                 "vertigo-sell",
	PerpetualsAddLiquidity:      "perpetuals-add-liquidity",
	PerpetualsRemoveLiquidity:   "perpetuals-remove-liquidity",
	PerpetualsSwap:              "perpetuals-swap",
	RaydiumLaunchpad:            "raydium-launchpad",
	LetsBonkFun:                 "lets-bonk-fun",
	Woofi:                       "woofi",
	MeteoraDbc:                  "meteora-dbc",
	MeteoraDlmmSwap2:            "meteora-dlmm-swap2",
	MeteoraDammV2:               "meteora-damm-v2",
	Gavel:                       "gavel",
	BoopfunBuy:                  "boopfun-buy",
	BoopfunSell:                 "boopfun-sell",
	MeteoraDbc2:                 "meteora-dbc2",
	GooseFX:                     "goosefx",
	Dooar:                       "dooar",
	Numeraire:                   "numeraire",
	SaberDecimalWrapperDeposit:  "saber-decimal-wrapper-deposit",
	SaberDecimalWrapperWithdraw: "saber-decimal-wrapper-withdraw",
	SarosDlmm:                   "saros-dlmm",
	OneDexSwap:                  "one-dex-swap",
	Manifest:                    "manifest",
	ByrealClmm:                  "byreal-clmm",
	PancakeSwapV3Swap:           "pancakeswap-v3-swap",
	PancakeSwapV3SwapV2:         "pancakeswap-v3-swap-v2",
	Tessera:                     "tessera",
	SolRfq:                      "sol-rfq",
	PumpfunBuy2:                 "pumpfun-buy2",
	PumpfunAmmBuy2:              "pumpfun-amm-buy2",
	Jupiter:                     "jupiter",
	OkxRouter:                   "okx-router",
}

func (id ID) String() string {
	if id >= idCount {
		return fmt.Sprintf("venue(%d)", uint8(id))
	}
	return names[id]
}

// Valid reports whether id is a member of the enumeration.
func (id ID) Valid() bool {
	return id < idCount
}

// ParseID resolves a venue name (case-insensitive, '_' and '-' equivalent).
func ParseID(name string) (ID, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, n := range names {
		if n == normalized {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown venue %q: %w", name, fault.ErrUnsupportedVenue)
}

// All lists every venue id in declaration order.
func All() []ID {
	out := make([]ID, 0, idCount)
	for id := ID(0); id < idCount; id++ {
		out = append(out, id)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid venue id %d", uint8(id))
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
