package venue

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/fault"
	"venueRouter/internal/resource"
)

// Request is the venue-independent input of one hop.
type Request struct {
	Amount uint64
	// MinOutputOverride replaces the venue's default minimum output, which
	// otherwise accepts any positive output.
	MinOutputOverride *uint64
	User              solana.PublicKey
	SourceMint        solana.PublicKey
	DestinationMint   solana.PublicKey
	// Accounts holds the venue's named pool, vault and market accounts.
	Accounts map[string]solana.PublicKey
	// Trailing holds candidates for the venue's variable account segment,
	// such as tick or bin arrays. Zero keys mark absent entries.
	Trailing []solana.PublicKey
	// Params holds venue specific numeric inputs (lot sizes, pool indices).
	Params map[string]uint64
}

func (r Request) minOutput(fallback uint64) uint64 {
	if r.MinOutputOverride != nil {
		return *r.MinOutputOverride
	}
	return fallback
}

func (r Request) param(name string, fallback uint64) uint64 {
	if v, ok := r.Params[name]; ok {
		return v
	}
	return fallback
}

func (r Request) requireParam(name string) (uint64, error) {
	v, ok := r.Params[name]
	if !ok {
		return 0, fmt.Errorf("missing param %q: %w", name, fault.ErrMisconfigured)
	}
	return v, nil
}

func (r Request) account(name string) (solana.PublicKey, error) {
	return resource.NewBuilder(r.Accounts).Lookup(name)
}

func (r Request) builder() *resource.Builder {
	return resource.NewBuilder(r.Accounts)
}

// trailing returns the named optional slots followed by the caller's
// trailing candidates, so optional accounts may be passed either way.
func (r Request) trailing(named ...string) []solana.PublicKey {
	out := make([]solana.PublicKey, 0, len(named)+len(r.Trailing))
	for _, name := range named {
		out = append(out, r.Accounts[name])
	}
	return append(out, r.Trailing...)
}

// baseIsInput infers swap direction from the venue's (base, quote) mint pair.
// A source/destination pair matching neither orientation is misconfigured.
func (r Request) baseIsInput(base, quote solana.PublicKey) (bool, error) {
	switch {
	case r.SourceMint.Equals(base) && r.DestinationMint.Equals(quote):
		return true, nil
	case r.SourceMint.Equals(quote) && r.DestinationMint.Equals(base):
		return false, nil
	default:
		return false, fmt.Errorf("mints %s -> %s do not match pool %s/%s: %w",
			r.SourceMint, r.DestinationMint, base, quote, fault.ErrMisconfigured)
	}
}

// directionFromAccounts looks up the named base/quote mint accounts and infers
// direction.
func (r Request) directionFromAccounts(baseName, quoteName string) (bool, error) {
	base, err := r.account(baseName)
	if err != nil {
		return false, err
	}
	quote, err := r.account(quoteName)
	if err != nil {
		return false, err
	}
	return r.baseIsInput(base, quote)
}

// Venue pairs a venue's payload codec with its account list builder.
type Venue struct {
	ID      ID
	Program solana.PublicKey
	layouts []codec.Layout
	encode  func(Request) (codec.Layout, []*big.Int, error)
	build   func(Request) (resource.List, error)
}

// Layouts returns every payload layout the venue may emit.
func (v *Venue) Layouts() []codec.Layout {
	return v.layouts
}

// Layout returns the layout Encode would use for req.
func (v *Venue) Layout(req Request) (codec.Layout, error) {
	layout, _, err := v.encode(req)
	if err != nil {
		return codec.Layout{}, fmt.Errorf("%s: %w", v.ID, err)
	}
	return layout, nil
}

// Encode produces the command payload for req.
func (v *Venue) Encode(req Request) ([]byte, error) {
	layout, values, err := v.encode(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.ID, err)
	}
	payload, err := layout.Encode(values...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.ID, err)
	}
	return payload, nil
}

// Resources produces the ordered account list for req.
func (v *Venue) Resources(req Request) (resource.List, error) {
	if req.User.IsZero() {
		return nil, fmt.Errorf("%s: user is required: %w", v.ID, fault.ErrMisconfigured)
	}
	list, err := v.build(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.ID, err)
	}
	return list, nil
}

// single wraps a one-layout encoder.
func single(layout codec.Layout, values func(Request) ([]*big.Int, error)) (func(Request) (codec.Layout, []*big.Int, error), []codec.Layout) {
	return func(r Request) (codec.Layout, []*big.Int, error) {
		v, err := values(r)
		return layout, v, err
	}, []codec.Layout{layout}
}

// amountMin is the common "amount in, minimum out" value pair.
func amountMin(fallback uint64) func(Request) ([]*big.Int, error) {
	return func(r Request) ([]*big.Int, error) {
		return []*big.Int{codec.U(r.Amount), codec.U(r.minOutput(fallback))}, nil
	}
}

func newVenue(id ID, program solana.PublicKey, layout codec.Layout, values func(Request) ([]*big.Int, error), build func(Request) (resource.List, error)) *Venue {
	encode, layouts := single(layout, values)
	return &Venue{ID: id, Program: program, layouts: layouts, encode: encode, build: build}
}

func u64Fields(names ...string) []codec.Field {
	out := make([]codec.Field, len(names))
	for i, n := range names {
		out[i] = codec.Field{Name: n, Kind: codec.U64}
	}
	return out
}
