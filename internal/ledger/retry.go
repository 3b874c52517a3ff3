package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"venueRouter/internal/fault"
)

// errPending marks a sent transaction the ledger has not confirmed yet.
var errPending = errors.New("transaction not confirmed yet")

// permanent reports errors no later attempt can clear.
func permanent(err error) bool {
	return errors.Is(err, fault.ErrVenueRejected) ||
		errors.Is(err, fault.ErrMisconfigured) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// withRetry runs fn, retrying up to maxRetries times with jittered
// exponential backoff starting at baseDelay. Permanent errors return at
// once. If ctx ends first the result wraps both ctx.Err() and the last
// attempt's error, so callers can still tell a pending confirmation apart.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = baseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0.2
	policy.MaxInterval = 64 * baseDelay
	policy.MaxElapsedTime = 0

	var last error
	err := backoff.Retry(func() error {
		last = fn(ctx)
		if last != nil && permanent(last) {
			return backoff.Permanent(last)
		}
		return last
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(maxRetries)), ctx))
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && last != nil && !errors.Is(last, ctxErr) {
		return fmt.Errorf("%w: %w", ctxErr, last)
	}
	return err
}
