package codec

import (
	"bytes"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"

	"venueRouter/internal/fault"
)

// Kind is the wire type of a payload field.
type Kind uint8

const (
	U8 Kind = iota + 1
	Bool
	U16
	U32
	U64
	I64
	U128
	I128
	// OptionU64 is a borsh option: a one byte tag followed by the value when present.
	OptionU64
)

func (k Kind) String() string {
	switch k {
	case U8:
		return "u8"
	case Bool:
		return "bool"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case I64:
		return "i64"
	case U128:
		return "u128"
	case I128:
		return "i128"
	case OptionU64:
		return "option<u64>"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Width is the encoded size in bytes. OptionU64 is counted present.
func (k Kind) Width() int {
	switch k {
	case U8, Bool:
		return 1
	case U16:
		return 2
	case U32:
		return 4
	case U64, I64:
		return 8
	case U128, I128:
		return 16
	case OptionU64:
		return 9
	default:
		return 0
	}
}

func (k Kind) signed() bool {
	return k == I64 || k == I128
}

// Field is one named, fixed-width slot of a payload.
type Field struct {
	Name string
	Kind Kind
}

// Layout describes a venue command: selector bytes, fields in wire order and
// optional trailing zero padding.
type Layout struct {
	Name     string
	Selector []byte
	Fields   []Field
	Pad      int
}

// Size returns the encoded payload length.
func (l Layout) Size() int {
	n := len(l.Selector) + l.Pad
	for _, f := range l.Fields {
		n += f.Kind.Width()
	}
	return n
}

// Index returns the position of the named field, or -1.
func (l Layout) Index(name string) int {
	for i, f := range l.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Encode writes the selector then each value little endian in field order.
func (l Layout) Encode(values ...*big.Int) ([]byte, error) {
	if len(values) != len(l.Fields) {
		return nil, fmt.Errorf("%s: want %d fields, got %d", l.Name, len(l.Fields), len(values))
	}

	buf := bytes.NewBuffer(make([]byte, 0, l.Size()))
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteBytes(l.Selector, false); err != nil {
		return nil, fmt.Errorf("%s: write selector: %w", l.Name, err)
	}
	for i, f := range l.Fields {
		if err := writeField(enc, f.Kind, values[i]); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", l.Name, f.Name, err)
		}
	}
	if l.Pad > 0 {
		if err := enc.WriteBytes(make([]byte, l.Pad), false); err != nil {
			return nil, fmt.Errorf("%s: write padding: %w", l.Name, err)
		}
	}
	return buf.Bytes(), nil
}

// Decode checks the selector and reads every field back. An absent option
// decodes to nil.
func (l Layout) Decode(payload []byte) ([]*big.Int, error) {
	dec := bin.NewBinDecoder(payload)
	selector, err := dec.ReadNBytes(len(l.Selector))
	if err != nil {
		return nil, fmt.Errorf("%s: read selector: %w", l.Name, err)
	}
	if !bytes.Equal(selector, l.Selector) {
		return nil, fmt.Errorf("%s: selector mismatch: %x", l.Name, selector)
	}

	out := make([]*big.Int, len(l.Fields))
	for i, f := range l.Fields {
		v, err := readField(dec, f.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", l.Name, f.Name, err)
		}
		out[i] = v
	}
	if l.Pad > 0 {
		if _, err := dec.ReadNBytes(l.Pad); err != nil {
			return nil, fmt.Errorf("%s: read padding: %w", l.Name, err)
		}
	}
	if dec.Remaining() != 0 {
		return nil, fmt.Errorf("%s: %d trailing bytes", l.Name, dec.Remaining())
	}
	return out, nil
}

var (
	two128 = new(big.Int).Lsh(big.NewInt(1), 128)
	mask64 = new(big.Int).SetUint64(^uint64(0))
)

func checkRange(k Kind, v *big.Int) error {
	if k == Bool {
		if v.Sign() < 0 || v.Cmp(big.NewInt(1)) > 0 {
			return fmt.Errorf("%s out of range for bool: %w", v, fault.ErrEncodingOverflow)
		}
		return nil
	}

	bits := uint(k.Width() * 8)
	if k == OptionU64 {
		bits = 64
	}
	if k.signed() {
		limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
		if v.Cmp(limit) >= 0 || v.Cmp(new(big.Int).Neg(limit)) < 0 {
			return fmt.Errorf("%s out of range for %s: %w", v, k, fault.ErrEncodingOverflow)
		}
		return nil
	}
	if v.Sign() < 0 || v.BitLen() > int(bits) {
		return fmt.Errorf("%s out of range for %s: %w", v, k, fault.ErrEncodingOverflow)
	}
	return nil
}

func writeField(enc *bin.Encoder, k Kind, v *big.Int) error {
	if k == OptionU64 && v == nil {
		return enc.WriteUint8(0)
	}
	if v == nil {
		return fmt.Errorf("missing value: %w", fault.ErrMisconfigured)
	}
	if err := checkRange(k, v); err != nil {
		return err
	}

	switch k {
	case U8:
		return enc.WriteUint8(uint8(v.Uint64()))
	case Bool:
		return enc.WriteBool(v.Sign() != 0)
	case U16:
		return enc.WriteUint16(uint16(v.Uint64()), bin.LE)
	case U32:
		return enc.WriteUint32(uint32(v.Uint64()), bin.LE)
	case U64:
		return enc.WriteUint64(v.Uint64(), bin.LE)
	case I64:
		return enc.WriteInt64(v.Int64(), bin.LE)
	case U128, I128:
		lo, hi := split128(v)
		return enc.WriteUint128(bin.Uint128{Lo: lo, Hi: hi}, bin.LE)
	case OptionU64:
		if err := enc.WriteUint8(1); err != nil {
			return err
		}
		return enc.WriteUint64(v.Uint64(), bin.LE)
	default:
		return fmt.Errorf("unknown field kind %d", uint8(k))
	}
}

func readField(dec *bin.Decoder, k Kind) (*big.Int, error) {
	switch k {
	case U8:
		v, err := dec.ReadUint8()
		return new(big.Int).SetUint64(uint64(v)), err
	case Bool:
		v, err := dec.ReadBool()
		return Flag(v), err
	case U16:
		v, err := dec.ReadUint16(bin.LE)
		return new(big.Int).SetUint64(uint64(v)), err
	case U32:
		v, err := dec.ReadUint32(bin.LE)
		return new(big.Int).SetUint64(uint64(v)), err
	case U64:
		v, err := dec.ReadUint64(bin.LE)
		return new(big.Int).SetUint64(v), err
	case I64:
		v, err := dec.ReadInt64(bin.LE)
		return big.NewInt(v), err
	case U128, I128:
		v, err := dec.ReadUint128(bin.LE)
		if err != nil {
			return nil, err
		}
		return join128(v.Lo, v.Hi, k == I128), nil
	case OptionU64:
		tag, err := dec.ReadUint8()
		if err != nil {
			return nil, err
		}
		switch tag {
		case 0:
			return nil, nil
		case 1:
			v, err := dec.ReadUint64(bin.LE)
			return new(big.Int).SetUint64(v), err
		default:
			return nil, fmt.Errorf("invalid option tag %d", tag)
		}
	default:
		return nil, fmt.Errorf("unknown field kind %d", uint8(k))
	}
}

func split128(v *big.Int) (uint64, uint64) {
	x := new(big.Int).Set(v)
	if x.Sign() < 0 {
		x.Add(x, two128)
	}
	lo := new(big.Int).And(x, mask64).Uint64()
	hi := new(big.Int).Rsh(x, 64).Uint64()
	return lo, hi
}

func join128(lo, hi uint64, signed bool) *big.Int {
	x := new(big.Int).SetUint64(hi)
	x.Lsh(x, 64)
	x.Or(x, new(big.Int).SetUint64(lo))
	if signed && hi>>63 == 1 {
		x.Sub(x, two128)
	}
	return x
}
