package arbitrage

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"venueRouter/internal/fault"
	"venueRouter/internal/model"
)

// DefaultMaxAge is the oldest an enforced observation may be.
const DefaultMaxAge = 6000 * time.Second

// Policy selects which legs are checked for freshness.
type Policy struct {
	Starting bool
	Bridging bool
	Crossing bool
}

// DefaultPolicy enforces freshness on the starting and crossing legs. The
// bridging feed is not updated regularly and is read unchecked.
func DefaultPolicy() Policy {
	return Policy{Starting: true, Bridging: false, Crossing: true}
}

// Gate decides whether a triangular route is worth submitting.
type Gate struct {
	Policy Policy
	MaxAge time.Duration
	Clock  func() time.Time
	Logger *zap.Logger
}

// NewGate returns a gate with the default policy and age bound.
func NewGate(logger *zap.Logger) *Gate {
	return &Gate{Policy: DefaultPolicy(), MaxAge: DefaultMaxAge, Clock: time.Now, Logger: logger}
}

func (g *Gate) now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock()
}

func (g *Gate) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *Gate) checkAge(leg string, obs Observation, now time.Time) error {
	maxAge := g.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if age := now.Sub(obs.PublishTime); age > maxAge {
		return fmt.Errorf("%s price is %s old, limit %s: %w", leg, age.Truncate(time.Second), maxAge, fault.ErrStaleObservation)
	}
	return nil
}

// Check applies the freshness policy then evaluates the route. A
// non-positive profit fails with ErrNotProfitable; the report is returned
// alongside so callers can still record it.
func (g *Gate) Check(obs Observations) (model.ArbitrageReport, error) {
	now := g.now()
	legs := []struct {
		name    string
		obs     Observation
		enforce bool
	}{
		{"starting", obs.Starting, g.Policy.Starting},
		{"bridging", obs.Bridging, g.Policy.Bridging},
		{"crossing", obs.Crossing, g.Policy.Crossing},
	}
	for _, leg := range legs {
		if !leg.enforce {
			continue
		}
		if err := g.checkAge(leg.name, leg.obs, now); err != nil {
			return model.ArbitrageReport{}, err
		}
	}

	profit, err := Evaluate(obs.Starting, obs.Bridging, obs.Crossing)
	if err != nil {
		return model.ArbitrageReport{}, err
	}
	report := model.ArbitrageReport{
		Participant:   obs.Participant,
		StartingPrice: obs.Starting.Mantissa,
		BridgingPrice: obs.Bridging.Mantissa,
		CrossingPrice: obs.Crossing.Mantissa,
		UpdatedAt:     now.UTC().Truncate(time.Second),
		ProfitBps:     profit,
	}
	g.logger().Info("triangular arbitrage evaluated",
		zap.String("participant", obs.Participant),
		zap.String("starting", Price(obs.Starting)),
		zap.String("bridging", Price(obs.Bridging)),
		zap.String("crossing", Price(obs.Crossing)),
		zap.Int64("profit_bps", profit),
	)
	if profit <= 0 {
		return report, fmt.Errorf("profit %d bps: %w", profit, fault.ErrNotProfitable)
	}
	return report, nil
}
