package model

import "time"

// Receipt is the acceptor's acknowledgement of a committed unit.
type Receipt struct {
	UnitID        string    `json:"unit_id"`
	Signature     string    `json:"signature"`
	Slot          uint64    `json:"slot"`
	Simulated     bool      `json:"simulated"`
	UnitsConsumed uint64    `json:"units_consumed,omitempty"`
	Logs          []string  `json:"logs,omitempty"`
	CommittedAt   time.Time `json:"committed_at"`
}

// UnitRecord is one line of the receipt journal: the outcome of one
// execution unit, committed or not.
type UnitRecord struct {
	UnitID     string    `json:"unit_id"`
	Venues     []string  `json:"venues"`
	State      string    `json:"state"`
	Signature  string    `json:"signature,omitempty"`
	Slot       uint64    `json:"slot,omitempty"`
	Simulated  bool      `json:"simulated,omitempty"`
	ProfitBps  *int64    `json:"profit_bps,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Error      string    `json:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
