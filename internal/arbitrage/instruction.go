package arbitrage

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/codec"
	"venueRouter/internal/fault"
	"venueRouter/internal/resource"
)

// GateProgram is the on-chain triangular arbitrage program.
var GateProgram = solana.MustPublicKeyFromBase58("7ah529NarmVZLTH2qdQLNwrMNSqo3JMFvMTgucpLmZuV")

var gateSelector = codec.AnchorSelector("update_triangular_arbitrage")

// ReportAddress derives the sender's report account.
func ReportAddress(program, sender solana.PublicKey) (solana.PublicKey, error) {
	return resource.ProgramAddress(program, []byte("triangle"), sender.Bytes())
}

// GateCall is the on-chain counterpart of Gate.Check, appended as the last
// invocation of a unit so the chain rejects it unless the triangle is
// profitable at execution time.
type GateCall struct {
	Program  solana.PublicKey
	Accounts resource.List
	Payload  []byte
}

// GateInstruction builds the update_triangular_arbitrage call for obs. Every
// leg must name its price account.
func GateInstruction(program, sender solana.PublicKey, obs Observations) (GateCall, error) {
	if sender.IsZero() {
		return GateCall{}, fmt.Errorf("gate sender is required: %w", fault.ErrMisconfigured)
	}
	report, err := ReportAddress(program, sender)
	if err != nil {
		return GateCall{}, err
	}

	legs := []Observation{obs.Starting, obs.Bridging, obs.Crossing}
	b := resource.NewBuilder(nil).
		Signer(sender, true).
		Key(report, true, false)
	for i, leg := range legs {
		if leg.Account.IsZero() {
			return GateCall{}, fmt.Errorf("price account %d is required: %w", i, fault.ErrMisconfigured)
		}
		b.Key(leg.Account, false, false)
	}
	accounts, err := b.Program(solana.SystemProgramID).Build()
	if err != nil {
		return GateCall{}, err
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteBytes(gateSelector, false); err != nil {
		return GateCall{}, err
	}
	for _, leg := range legs {
		if err := enc.WriteString(hexutil.Encode(leg.FeedID[:])); err != nil {
			return GateCall{}, fmt.Errorf("write feed id: %w", err)
		}
	}
	return GateCall{Program: program, Accounts: accounts, Payload: buf.Bytes()}, nil
}
