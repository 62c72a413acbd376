package notify

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig controls RetryPublisher backoff.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the backoff used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 200 * time.Millisecond,
		MaxWait:     2 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryPublisher is a decorator that retries failed publishes with
// exponential backoff and jitter.
type RetryPublisher struct {
	inner  Publisher
	config RetryConfig
}

var _ Publisher = (*RetryPublisher)(nil)

// WithRetry wraps a Publisher with retry logic.
func WithRetry(p Publisher, cfg RetryConfig) Publisher {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryPublisher{inner: p, config: cfg}
}

func (r *RetryPublisher) PublishDue(ctx context.Context, report DueReport) error {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		err := r.inner.PublishDue(ctx, report)
		if err == nil {
			return nil
		}
		lastErr = err

		// Context errors are never retried.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return lastErr
}

func (r *RetryPublisher) Close() error {
	return r.inner.Close()
}

// backoff computes the wait duration for the given attempt.
func (r *RetryPublisher) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
