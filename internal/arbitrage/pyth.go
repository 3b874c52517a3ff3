package arbitrage

import (
	"bytes"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"venueRouter/internal/codec"
	"venueRouter/internal/fault"
)

var priceUpdateDiscriminator = codec.AnchorAccount("PriceUpdateV2")

// Verification is how many guardian signatures backed a posted price. Full
// outranks any partial level.
type Verification struct {
	Full       bool
	Signatures uint8
}

// DefaultVerification is the weakest level the gate accepts.
var DefaultVerification = Verification{Signatures: 4}

// AtLeast reports whether v meets min.
func (v Verification) AtLeast(min Verification) bool {
	if v.Full {
		return true
	}
	if min.Full {
		return false
	}
	return v.Signatures >= min.Signatures
}

func (v Verification) String() string {
	if v.Full {
		return "full"
	}
	return fmt.Sprintf("partial(%d)", v.Signatures)
}

// PriceUpdate is a decoded pull-oracle price account.
type PriceUpdate struct {
	WriteAuthority  solana.PublicKey
	Verification    Verification
	FeedID          [32]byte
	Price           int64
	Confidence      uint64
	Exponent        int32
	PublishTime     int64
	PrevPublishTime int64
	EmaPrice        int64
	EmaConfidence   uint64
	PostedSlot      uint64
}

// DecodePriceUpdate parses a PriceUpdateV2 account.
func DecodePriceUpdate(data []byte) (PriceUpdate, error) {
	var p PriceUpdate
	dec := bin.NewBorshDecoder(data)

	disc, err := dec.ReadNBytes(len(priceUpdateDiscriminator))
	if err != nil {
		return p, fmt.Errorf("read discriminator: %w", err)
	}
	if !bytes.Equal(disc, priceUpdateDiscriminator) {
		return p, fmt.Errorf("not a price update account: %w", fault.ErrMisconfigured)
	}
	authority, err := dec.ReadNBytes(32)
	if err != nil {
		return p, fmt.Errorf("read write authority: %w", err)
	}
	p.WriteAuthority = solana.PublicKeyFromBytes(authority)

	level, err := dec.ReadUint8()
	if err != nil {
		return p, fmt.Errorf("read verification level: %w", err)
	}
	switch level {
	case 0:
		if p.Verification.Signatures, err = dec.ReadUint8(); err != nil {
			return p, fmt.Errorf("read signature count: %w", err)
		}
	case 1:
		p.Verification.Full = true
	default:
		return p, fmt.Errorf("unknown verification level %d: %w", level, fault.ErrMisconfigured)
	}

	feed, err := dec.ReadNBytes(32)
	if err != nil {
		return p, fmt.Errorf("read feed id: %w", err)
	}
	copy(p.FeedID[:], feed)

	reads := []struct {
		name string
		read func() error
	}{
		{"price", func() (err error) { p.Price, err = dec.ReadInt64(bin.LE); return }},
		{"conf", func() (err error) { p.Confidence, err = dec.ReadUint64(bin.LE); return }},
		{"exponent", func() (err error) { p.Exponent, err = dec.ReadInt32(bin.LE); return }},
		{"publish_time", func() (err error) { p.PublishTime, err = dec.ReadInt64(bin.LE); return }},
		{"prev_publish_time", func() (err error) { p.PrevPublishTime, err = dec.ReadInt64(bin.LE); return }},
		{"ema_price", func() (err error) { p.EmaPrice, err = dec.ReadInt64(bin.LE); return }},
		{"ema_conf", func() (err error) { p.EmaConfidence, err = dec.ReadUint64(bin.LE); return }},
		{"posted_slot", func() (err error) { p.PostedSlot, err = dec.ReadUint64(bin.LE); return }},
	}
	for _, r := range reads {
		if err := r.read(); err != nil {
			return p, fmt.Errorf("read %s: %w", r.name, err)
		}
	}
	return p, nil
}

// VerifyFeed checks only that the account carries feedID.
func (p PriceUpdate) VerifyFeed(feedID [32]byte) error {
	if p.FeedID != feedID {
		return fmt.Errorf("feed %x, want %x: %w", p.FeedID, feedID, fault.ErrMisconfigured)
	}
	return nil
}

// Verify checks the account carries feedID at min verification or better.
func (p PriceUpdate) Verify(feedID [32]byte, min Verification) error {
	if err := p.VerifyFeed(feedID); err != nil {
		return err
	}
	if !p.Verification.AtLeast(min) {
		return fmt.Errorf("verification %s below %s: %w", p.Verification, min, fault.ErrMisconfigured)
	}
	return nil
}

// Observation converts the update read from account.
func (p PriceUpdate) Observation(account solana.PublicKey) Observation {
	return Observation{
		Mantissa:    p.Price,
		Exponent:    p.Exponent,
		Confidence:  p.Confidence,
		PublishTime: time.Unix(p.PublishTime, 0).UTC(),
		FeedID:      p.FeedID,
		Account:     account,
	}
}

// Price renders an observation as a decimal number.
func Price(o Observation) string {
	return decimal.New(o.Mantissa, o.Exponent).String()
}
