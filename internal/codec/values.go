package codec

import (
	"math/big"

	bin "github.com/gagliardetto/binary"
)

// U wraps an unsigned field value.
func U(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// I wraps a signed field value.
func I(v int64) *big.Int {
	return big.NewInt(v)
}

// Flag encodes a bool as 0 or 1.
func Flag(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

// Zero is a fresh zero value for unused numeric fields.
func Zero() *big.Int {
	return new(big.Int)
}

// Disc is a one byte instruction discriminator.
func Disc(b byte) []byte {
	return []byte{b}
}

// AnchorSelector returns the global sighash Anchor programs dispatch on.
// name is already snake case.
func AnchorSelector(name string) []byte {
	return bin.Sighash(bin.SIGHASH_GLOBAL_NAMESPACE, name)
}

// Bytes copies a literal selector.
func Bytes(b ...byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// AnchorAccount returns the discriminator Anchor prefixes account data with.
func AnchorAccount(name string) []byte {
	return bin.Sighash(bin.SIGHASH_ACCOUNT_NAMESPACE, name)
}
