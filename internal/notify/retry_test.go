package notify

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedPublisher struct {
	errs   []error
	calls  int
	closed bool
}

func (s *scriptedPublisher) PublishDue(context.Context, DueReport) error {
	s.calls++
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func (s *scriptedPublisher) Close() error {
	s.closed = true
	return nil
}

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var errDown = errors.New("down")

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	inner := &scriptedPublisher{}
	if err := WithRetry(inner, retryConfig()).PublishDue(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 call, got %d", inner.calls)
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	inner := &scriptedPublisher{errs: []error{errDown}}
	if err := WithRetry(inner, retryConfig()).PublishDue(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", inner.calls)
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	inner := &scriptedPublisher{errs: []error{errDown, errDown, errDown, errDown}}
	err := WithRetry(inner, retryConfig()).PublishDue(context.Background(), report)
	if !errors.Is(err, errDown) {
		t.Fatalf("expected errDown, got %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetry_ContextErrorNotRetried(t *testing.T) {
	inner := &scriptedPublisher{errs: []error{context.DeadlineExceeded}}
	err := WithRetry(inner, retryConfig()).PublishDue(context.Background(), report)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 call, got %d", inner.calls)
	}
}

func TestRetry_CancelledDuringBackoff(t *testing.T) {
	inner := &scriptedPublisher{errs: []error{errDown, errDown}}
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetry(inner, cfg).PublishDue(ctx, report)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestRetry_Close(t *testing.T) {
	inner := &scriptedPublisher{}
	if err := WithRetry(inner, retryConfig()).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !inner.closed {
		t.Error("inner publisher not closed")
	}
}

func TestBackoff_Bounded(t *testing.T) {
	r := &RetryPublisher{config: retryConfig()}
	for attempt := range 6 {
		wait := r.backoff(attempt)
		if wait < 0 || wait > 12*time.Millisecond {
			t.Errorf("backoff(%d) = %v, want within [0, 12ms]", attempt, wait)
		}
	}
}
