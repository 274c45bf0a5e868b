package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy bounds a fixed-interval retry loop.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Result describes how a Poll loop ended.
type Result struct {
	Attempts  int
	Satisfied bool
}

// Sleep waits for d, returning early with the context error on cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// Poller repeats a fetch until a predicate holds or the attempt budget runs out.
type Poller struct {
	policy Policy
	sleep  SleepFunc

	// OnRetry, if set, is called before sleeping after an unsatisfied attempt.
	OnRetry func(attempt int)
}

func New(policy Policy) *Poller {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Poller{policy: policy, sleep: Sleep}
}

// WithSleep replaces the sleep implementation, mainly for tests.
func (p *Poller) WithSleep(sleep SleepFunc) *Poller {
	if sleep != nil {
		p.sleep = sleep
	}
	return p
}

func (p *Poller) Policy() Policy {
	return p.policy
}

// Poll calls fetch until done reports true for its value or MaxAttempts is reached.
// A fetch error stops the loop immediately. Running out of attempts is not an
// error: the last fetched value is returned with Satisfied=false.
func Poll[T any](ctx context.Context, p *Poller, fetch func(context.Context) (T, error), done func(T) bool) (T, Result, error) {
	var last T
	res := Result{}

	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		res.Attempts = attempt

		value, err := fetch(ctx)
		if err != nil {
			return last, res, err
		}
		last = value

		if done(value) {
			res.Satisfied = true
			return last, res, nil
		}

		if attempt == p.policy.MaxAttempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt)
		}
		if err := p.sleep(ctx, p.policy.Delay); err != nil {
			return last, res, err
		}
	}

	return last, res, nil
}
