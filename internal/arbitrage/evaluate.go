package arbitrage

import (
	"fmt"
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"

	"venueRouter/internal/fault"
)

// Observation is one price point: Mantissa * 10^Exponent.
type Observation struct {
	Mantissa    int64
	Exponent    int32
	Confidence  uint64
	PublishTime time.Time
	FeedID      [32]byte
	// Account is the on-chain price account the observation was read from.
	Account solana.PublicKey
}

// Observations are the three legs of a triangular route, in route order.
type Observations struct {
	Participant string
	Starting    Observation
	Bridging    Observation
	Crossing    Observation
}

const bpsScale = 10_000

var ten = big.NewInt(10)

// Evaluate returns the profit of the triangle starting*bridging/crossing in
// basis points, truncated toward zero. It is exact integer arithmetic over
// mantissas and exponents, so scaling all three mantissas by ten while
// lowering all three exponents by one yields the same result.
func Evaluate(starting, bridging, crossing Observation) (int64, error) {
	if crossing.Mantissa == 0 {
		return 0, fmt.Errorf("crossing price is zero: %w", fault.ErrMisconfigured)
	}
	total := int64(starting.Exponent) + int64(bridging.Exponent) - int64(crossing.Exponent)

	num := new(big.Int).Mul(big.NewInt(bridging.Mantissa), big.NewInt(starting.Mantissa))
	num.Mul(num, big.NewInt(bpsScale))
	den := big.NewInt(crossing.Mantissa)

	scale := new(big.Int).Exp(ten, big.NewInt(abs(total)), nil)
	if total >= 0 {
		num.Mul(num, scale)
	} else {
		den.Mul(den, scale)
	}

	ratio := new(big.Int).Quo(num, den)
	ratio.Sub(ratio, big.NewInt(bpsScale))
	if !ratio.IsInt64() {
		return 0, fmt.Errorf("profit %s bps: %w", ratio, fault.ErrEncodingOverflow)
	}
	return ratio.Int64(), nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
