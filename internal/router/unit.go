package router

import (
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"venueRouter/internal/arbitrage"
	"venueRouter/internal/model"
	"venueRouter/internal/resource"
	"venueRouter/internal/venue"
)

// Invocation is one encoded call into a venue program.
type Invocation struct {
	Venue venue.ID
	// Gate marks the on-chain profitability check rather than a venue hop.
	Gate     bool
	Program  solana.PublicKey
	Accounts resource.List
	Payload  []byte
}

// Instruction converts the invocation for transaction building.
func (i Invocation) Instruction() solana.Instruction {
	return solana.NewInstruction(i.Program, i.Accounts.Metas(), i.Payload)
}

// Label names the invocation in logs and records.
func (i Invocation) Label() string {
	if i.Gate {
		return "arbitrage-gate"
	}
	return i.Venue.String()
}

// Hop asks for one swap on one venue.
type Hop struct {
	Venue   venue.ID
	Request venue.Request
}

// State is the lifecycle position of a unit.
type State int

const (
	Built State = iota
	Submitted
	Committed
	Rejected
	// Unconfirmed units were sent but their outcome is unknown.
	Unconfirmed
)

func (s State) String() string {
	switch s {
	case Built:
		return "built"
	case Submitted:
		return "submitted"
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	case Unconfirmed:
		return "unconfirmed"
	default:
		return "unknown"
	}
}

// Unit is an ordered set of invocations executed atomically.
type Unit struct {
	ID          uuid.UUID
	Invocations []Invocation
	// Gate, when set, is checked locally before submission.
	Gate   *arbitrage.Observations
	State  State
	Report *model.ArbitrageReport
}

// Labels lists the invocation labels in order.
func (u *Unit) Labels() []string {
	out := make([]string, len(u.Invocations))
	for i, inv := range u.Invocations {
		out[i] = inv.Label()
	}
	return out
}

// Instructions converts every invocation in order.
func (u *Unit) Instructions() []solana.Instruction {
	out := make([]solana.Instruction, len(u.Invocations))
	for i, inv := range u.Invocations {
		out[i] = inv.Instruction()
	}
	return out
}
