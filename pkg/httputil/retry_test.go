package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

func TestRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), Policy{Attempts: 5}, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Retry() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("not found")
	calls := 0
	err := Retry(context.Background(), Policy{Attempts: 5}, func() error {
		calls++
		return permanent
	})
	if err != permanent {
		t.Errorf("Retry() error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		want     int
	}{
		{"five", 5, 5},
		{"one", 1, 1},
		{"zero means one", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), Policy{Attempts: tt.attempts, Delay: time.Millisecond}, func() error {
				calls++
				return Retryable(errTransient)
			})
			if !errors.Is(err, errTransient) {
				t.Errorf("Retry() error = %v, want %v", err, errTransient)
			}
			if calls != tt.want {
				t.Errorf("calls = %d, want %d", calls, tt.want)
			}
		})
	}
}

func TestRetryRecovers(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), Policy{Attempts: 5, Delay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return Retryable(errTransient)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Retry() error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, Policy{Attempts: 3, Delay: time.Hour}, func() error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false for wrapped error")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), errTransient.Error())
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable() = true for unwrapped error")
	}
}

func TestPolicies(t *testing.T) {
	if ArchivePolicy.Attempts != 5 {
		t.Errorf("ArchivePolicy.Attempts = %d, want 5", ArchivePolicy.Attempts)
	}
	if DefaultPolicy.Attempts != 3 {
		t.Errorf("DefaultPolicy.Attempts = %d, want 3", DefaultPolicy.Attempts)
	}
}
