package model

import "time"

// ArbitrageReport is the latest gate evaluation of one participant. A new
// evaluation replaces the previous report.
type ArbitrageReport struct {
	Participant   string    `json:"participant"`
	StartingPrice int64     `json:"starting_price"`
	BridgingPrice int64     `json:"bridging_price"`
	CrossingPrice int64     `json:"crossing_price"`
	UpdatedAt     time.Time `json:"updated_at"`
	ProfitBps     int64     `json:"profit_bps"`
}

// Profitable reports whether the evaluation cleared the gate.
func (r ArbitrageReport) Profitable() bool {
	return r.ProfitBps > 0
}
