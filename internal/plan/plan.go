package plan

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/sugawarayuuta/sonnet"

	"venueRouter/internal/arbitrage"
	"venueRouter/internal/fault"
	"venueRouter/internal/router"
	"venueRouter/internal/venue"
)

// File is a route plan as written by an operator or an upstream pathfinder.
type File struct {
	User string `json:"user"`
	Hops []Hop  `json:"hops"`
	Gate *Gate  `json:"gate,omitempty"`
}

// Hop is one swap. Amount is either a human amount scaled by Decimals or,
// when Decimals is omitted, raw base units.
type Hop struct {
	Venue           string            `json:"venue"`
	Amount          string            `json:"amount"`
	Decimals        *int32            `json:"decimals,omitempty"`
	MinOutput       *uint64           `json:"min_output,omitempty"`
	SourceMint      string            `json:"source_mint"`
	DestinationMint string            `json:"destination_mint"`
	Accounts        map[string]string `json:"accounts"`
	Trailing        []string          `json:"trailing,omitempty"`
	Params          map[string]uint64 `json:"params,omitempty"`
}

// Leg names one Pyth price account and the feed it must carry.
type Leg struct {
	Account string `json:"account"`
	FeedID  string `json:"feed_id"`
}

// Gate lists the three legs of the profitability check.
type Gate struct {
	Participant string `json:"participant,omitempty"`
	Starting    Leg    `json:"starting"`
	Bridging    Leg    `json:"bridging"`
	Crossing    Leg    `json:"crossing"`
}

// Load reads a plan file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return Parse(data)
}

// Parse decodes a plan document.
func Parse(data []byte) (File, error) {
	var f File
	if err := sonnet.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse plan: %v: %w", err, fault.ErrMisconfigured)
	}
	if len(f.Hops) == 0 {
		return File{}, fmt.Errorf("plan has no hops: %w", fault.ErrMisconfigured)
	}
	return f, nil
}

// RouterHops converts the plan into router hops, in order.
func (f File) RouterHops(minOutputOverride *uint64) ([]router.Hop, error) {
	user, err := parseKey("user", f.User)
	if err != nil {
		return nil, err
	}
	out := make([]router.Hop, 0, len(f.Hops))
	for i, h := range f.Hops {
		hop, err := h.toRouter(user, minOutputOverride)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		out = append(out, hop)
	}
	return out, nil
}

func (h Hop) toRouter(user solana.PublicKey, minOutputOverride *uint64) (router.Hop, error) {
	id, err := venue.ParseID(h.Venue)
	if err != nil {
		return router.Hop{}, err
	}
	amount, err := ScaleAmount(h.Amount, h.Decimals)
	if err != nil {
		return router.Hop{}, err
	}
	src, err := parseKey("source_mint", h.SourceMint)
	if err != nil {
		return router.Hop{}, err
	}
	dst, err := parseKey("destination_mint", h.DestinationMint)
	if err != nil {
		return router.Hop{}, err
	}

	accounts := make(map[string]solana.PublicKey, len(h.Accounts))
	for name, value := range h.Accounts {
		key, err := parseKey(name, value)
		if err != nil {
			return router.Hop{}, err
		}
		accounts[name] = key
	}
	trailing := make([]solana.PublicKey, 0, len(h.Trailing))
	for i, value := range h.Trailing {
		// Empty entries stand for absent slots.
		if value == "" {
			trailing = append(trailing, solana.PublicKey{})
			continue
		}
		key, err := parseKey(fmt.Sprintf("trailing[%d]", i), value)
		if err != nil {
			return router.Hop{}, err
		}
		trailing = append(trailing, key)
	}

	minOutput := h.MinOutput
	if minOutput == nil {
		minOutput = minOutputOverride
	}
	return router.Hop{
		Venue: id,
		Request: venue.Request{
			Amount:            amount,
			MinOutputOverride: minOutput,
			User:              user,
			SourceMint:        src,
			DestinationMint:   dst,
			Accounts:          accounts,
			Trailing:          trailing,
			Params:            h.Params,
		},
	}, nil
}

// ScaleAmount converts a human amount into base units. Without decimals the
// amount must already be an integer.
func ScaleAmount(amount string, decimals *int32) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("amount %q: %v: %w", amount, err, fault.ErrMisconfigured)
	}
	if decimals != nil {
		d = d.Shift(*decimals)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more precision than the mint: %w", amount, fault.ErrMisconfigured)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount %q must be positive: %w", amount, fault.ErrMisconfigured)
	}
	raw := d.BigInt()
	if !raw.IsUint64() {
		return 0, fmt.Errorf("amount %q exceeds u64: %w", amount, fault.ErrEncodingOverflow)
	}
	return raw.Uint64(), nil
}

// AccountReader reads raw account data.
type AccountReader interface {
	AccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
}

// Observations reads the gate's three price accounts. Every leg must carry
// its expected feed; legs enforced by policy must also meet minimum
// verification, the others are read unchecked.
func (g Gate) Observations(ctx context.Context, reader AccountReader, policy arbitrage.Policy, minimum arbitrage.Verification, participant string) (*arbitrage.Observations, error) {
	legs := []struct {
		name    string
		leg     Leg
		checked bool
	}{
		{"starting", g.Starting, policy.Starting},
		{"bridging", g.Bridging, policy.Bridging},
		{"crossing", g.Crossing, policy.Crossing},
	}

	var obs [3]arbitrage.Observation
	for i, l := range legs {
		o, err := l.leg.observe(ctx, reader, l.checked, minimum)
		if err != nil {
			return nil, fmt.Errorf("%s leg: %w", l.name, err)
		}
		obs[i] = o
	}
	if g.Participant != "" {
		participant = g.Participant
	}
	return &arbitrage.Observations{
		Participant: participant,
		Starting:    obs[0],
		Bridging:    obs[1],
		Crossing:    obs[2],
	}, nil
}

func (l Leg) observe(ctx context.Context, reader AccountReader, checked bool, minimum arbitrage.Verification) (arbitrage.Observation, error) {
	account, err := parseKey("account", l.Account)
	if err != nil {
		return arbitrage.Observation{}, err
	}
	feed, err := ParseFeedID(l.FeedID)
	if err != nil {
		return arbitrage.Observation{}, err
	}
	data, err := reader.AccountData(ctx, account)
	if err != nil {
		return arbitrage.Observation{}, err
	}
	update, err := arbitrage.DecodePriceUpdate(data)
	if err != nil {
		return arbitrage.Observation{}, fmt.Errorf("account %s: %w", account, err)
	}
	if checked {
		err = update.Verify(feed, minimum)
	} else {
		err = update.VerifyFeed(feed)
	}
	if err != nil {
		return arbitrage.Observation{}, fmt.Errorf("account %s: %w", account, err)
	}
	return update.Observation(account), nil
}

// ParseFeedID decodes a 0x prefixed 32 byte feed id.
func ParseFeedID(s string) ([32]byte, error) {
	var feed [32]byte
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil || len(raw) != len(feed) {
		return feed, fmt.Errorf("feed id %q: %w", s, fault.ErrMisconfigured)
	}
	copy(feed[:], raw)
	return feed, nil
}

func parseKey(name, value string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(strings.TrimSpace(value))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s %q: %v: %w", name, value, err, fault.ErrMisconfigured)
	}
	return key, nil
}
