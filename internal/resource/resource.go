package resource

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/fault"
)

// Ref names an external account together with the access it needs.
type Ref struct {
	Key      solana.PublicKey
	Writable bool
	Signer   bool
}

// Writable marks key as mutable, non-signing.
func Writable(key solana.PublicKey) Ref {
	return Ref{Key: key, Writable: true}
}

// ReadOnly marks key as read-only, non-signing.
func ReadOnly(key solana.PublicKey) Ref {
	return Ref{Key: key}
}

func (r Ref) String() string {
	var flags []string
	if r.Writable {
		flags = append(flags, "w")
	}
	if r.Signer {
		flags = append(flags, "s")
	}
	if len(flags) == 0 {
		return r.Key.String()
	}
	return r.Key.String() + "[" + strings.Join(flags, ",") + "]"
}

// List is an ordered account list. Order is part of the venue contract and is
// never sorted or deduplicated.
type List []Ref

// Metas converts the list into solana account metas, preserving order.
func (l List) Metas() solana.AccountMetaSlice {
	out := make(solana.AccountMetaSlice, 0, len(l))
	for _, r := range l {
		out = append(out, solana.NewAccountMeta(r.Key, r.Writable, r.Signer))
	}
	return out
}

// Keys returns the keys in order.
func (l List) Keys() []solana.PublicKey {
	out := make([]solana.PublicKey, len(l))
	for i, r := range l {
		out[i] = r.Key
	}
	return out
}

// Signers returns the keys flagged as signers, in order.
func (l List) Signers() []solana.PublicKey {
	var out []solana.PublicKey
	for _, r := range l {
		if r.Signer {
			out = append(out, r.Key)
		}
	}
	return out
}

// Absent reports whether key is an absent sentinel: the zero key or any of
// the supplied sentinels (usually the venue's own program id).
func Absent(key solana.PublicKey, sentinels ...solana.PublicKey) bool {
	if key.IsZero() {
		return true
	}
	for _, s := range sentinels {
		if key.Equals(s) {
			return true
		}
	}
	return false
}

// Present filters candidates down to non-sentinel entries, keeping their
// relative order.
func Present(candidates []solana.PublicKey, sentinels ...solana.PublicKey) []solana.PublicKey {
	out := make([]solana.PublicKey, 0, len(candidates))
	for _, c := range candidates {
		if Absent(c, sentinels...) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// AssociatedTokenAddress derives the associated token account of (owner, mint).
func AssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive associated token address: %w", err)
	}
	return addr, nil
}

// ProgramAddress derives a program address from seeds.
func ProgramAddress(program solana.PublicKey, seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(seeds, program)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive program address: %w", err)
	}
	return addr, nil
}

// RequireAtLeast fails with ErrInsufficientResources when fewer than min
// entries survived filtering.
func RequireAtLeast(name string, got []solana.PublicKey, min int) error {
	if len(got) < min {
		return fmt.Errorf("%s: need at least %d, have %d: %w", name, min, len(got), fault.ErrInsufficientResources)
	}
	return nil
}
