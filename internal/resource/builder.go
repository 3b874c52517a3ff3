package resource

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/fault"
)

// Builder appends refs in call order. The first error sticks and is reported
// by Build; later calls become no-ops.
type Builder struct {
	named map[string]solana.PublicKey
	refs  List
	err   error
}

// NewBuilder starts a list resolving named accounts from named.
func NewBuilder(named map[string]solana.PublicKey) *Builder {
	if named == nil {
		named = map[string]solana.PublicKey{}
	}
	return &Builder{named: named}
}

// Lookup returns a named account, failing when it is missing or zero.
func (b *Builder) Lookup(name string) (solana.PublicKey, error) {
	key, ok := b.named[name]
	if !ok || key.IsZero() {
		return solana.PublicKey{}, fmt.Errorf("missing account %q: %w", name, fault.ErrMisconfigured)
	}
	return key, nil
}

// Named appends a caller supplied account.
func (b *Builder) Named(name string, writable bool) *Builder {
	if b.err != nil {
		return b
	}
	key, err := b.Lookup(name)
	if err != nil {
		b.err = err
		return b
	}
	b.refs = append(b.refs, Ref{Key: key, Writable: writable})
	return b
}

// NamedOr appends a named account, or fallback when it was not supplied.
func (b *Builder) NamedOr(name string, fallback solana.PublicKey, writable bool) *Builder {
	if b.err != nil {
		return b
	}
	key, ok := b.named[name]
	if !ok || key.IsZero() {
		key = fallback
	}
	b.refs = append(b.refs, Ref{Key: key, Writable: writable})
	return b
}

// Optional appends a named account as writable when supplied, or fallback
// read-only in its place.
func (b *Builder) Optional(name string, fallback solana.PublicKey) *Builder {
	if b.err != nil {
		return b
	}
	if key, ok := b.named[name]; ok && !key.IsZero() {
		b.refs = append(b.refs, Ref{Key: key, Writable: true})
		return b
	}
	b.refs = append(b.refs, Ref{Key: fallback})
	return b
}

// Key appends a fixed account.
func (b *Builder) Key(key solana.PublicKey, writable, signer bool) *Builder {
	if b.err != nil {
		return b
	}
	if key.IsZero() && signer {
		b.err = fmt.Errorf("signer account is zero: %w", fault.ErrMisconfigured)
		return b
	}
	b.refs = append(b.refs, Ref{Key: key, Writable: writable, Signer: signer})
	return b
}

// Signer appends the authorizing participant.
func (b *Builder) Signer(key solana.PublicKey, writable bool) *Builder {
	return b.Key(key, writable, true)
}

// Program appends a read-only program or sysvar account.
func (b *Builder) Program(key solana.PublicKey) *Builder {
	return b.Key(key, false, false)
}

// ATA appends the associated token account of (owner, mint).
func (b *Builder) ATA(owner, mint solana.PublicKey, writable bool) *Builder {
	if b.err != nil {
		return b
	}
	if owner.IsZero() || mint.IsZero() {
		b.err = fmt.Errorf("token account needs owner and mint: %w", fault.ErrMisconfigured)
		return b
	}
	addr, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		b.err = err
		return b
	}
	b.refs = append(b.refs, Ref{Key: addr, Writable: writable})
	return b
}

// NamedOrATA appends a named token account, deriving the associated token
// account of (owner, mint) when the caller did not supply one.
func (b *Builder) NamedOrATA(name string, owner, mint solana.PublicKey, writable bool) *Builder {
	if b.err != nil {
		return b
	}
	if key, ok := b.named[name]; ok && !key.IsZero() {
		b.refs = append(b.refs, Ref{Key: key, Writable: writable})
		return b
	}
	return b.ATA(owner, mint, writable)
}

// Trailing appends the non-sentinel candidates in their given order and
// requires at least min of them.
func (b *Builder) Trailing(name string, candidates []solana.PublicKey, min int, writable bool, sentinels ...solana.PublicKey) *Builder {
	if b.err != nil {
		return b
	}
	present := Present(candidates, sentinels...)
	if err := RequireAtLeast(name, present, min); err != nil {
		b.err = err
		return b
	}
	for _, key := range present {
		b.refs = append(b.refs, Ref{Key: key, Writable: writable})
	}
	return b
}

// Exactly appends the first n non-sentinel candidates, for venues whose
// variable segment has a fixed arity.
func (b *Builder) Exactly(name string, candidates []solana.PublicKey, n int, writable bool, sentinels ...solana.PublicKey) *Builder {
	if b.err != nil {
		return b
	}
	present := Present(candidates, sentinels...)
	if err := RequireAtLeast(name, present, n); err != nil {
		b.err = err
		return b
	}
	for _, key := range present[:n] {
		b.refs = append(b.refs, Ref{Key: key, Writable: writable})
	}
	return b
}

// Len reports how many refs have been appended so far.
func (b *Builder) Len() int {
	return len(b.refs)
}

// Build returns the list or the first error.
func (b *Builder) Build() (List, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make(List, len(b.refs))
	copy(out, b.refs)
	return out, nil
}
