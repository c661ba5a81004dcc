package importer

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"testing/synctest"
	"time"
)

func TestRetryWithBackoff_SuccessOnFirstAttempt(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		callCount := 0

		err := retryWithBackoff(context.Background(), "test op", func() error {
			callCount++
			return nil
		})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if callCount != 1 {
			t.Errorf("callCount = %d, want 1", callCount)
		}
	})
}

func TestRetryWithBackoff_SuccessAfterRetries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		callCount := 0

		err := retryWithBackoff(context.Background(), "test op", func() error {
			callCount++
			if callCount < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if callCount != 3 {
			t.Errorf("callCount = %d, want 3", callCount)
		}
	})
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		callCount := 0
		busy := errors.New("database is locked")

		err := retryWithBackoff(context.Background(), "test op", func() error {
			callCount++
			return busy
		})

		if !errors.Is(err, busy) {
			t.Fatalf("expected wrapped busy error, got %v", err)
		}
		if callCount != 1+maxRetries {
			t.Errorf("callCount = %d, want %d", callCount, 1+maxRetries)
		}
	})
}

func TestRetryWithBackoff_BackoffTiming(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callTimes []time.Time

		_ = retryWithBackoff(context.Background(), "test op", func() error {
			callTimes = append(callTimes, time.Now())
			return errors.New("resource busy")
		})

		if len(callTimes) != 1+maxRetries {
			t.Fatalf("expected %d calls, got %d", 1+maxRetries, len(callTimes))
		}

		want := []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
			800 * time.Millisecond,
		}
		for i, w := range want {
			if got := callTimes[i+1].Sub(callTimes[i]); got != w {
				t.Errorf("delay %d = %v, want %v", i+1, got, w)
			}
		}
	})
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		callCount := 0

		done := make(chan error)
		go func() {
			done <- retryWithBackoff(ctx, "test op", func() error {
				callCount++
				return errors.New("database is locked")
			})
		}()

		// Let first attempt happen, then cancel during backoff wait
		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		cancel()

		err := <-done
		if err == nil {
			t.Fatal("expected error after context cancellation")
		}
		if callCount != 1 {
			t.Errorf("callCount = %d, want 1 (cancelled during first backoff)", callCount)
		}
	})
}

func TestRetryWithBackoff_NonRetryableError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		callCount := 0

		err := retryWithBackoff(context.Background(), "test op", func() error {
			callCount++
			return errors.New("UNIQUE constraint failed: skins.id")
		})

		if err == nil {
			t.Fatal("expected error")
		}
		if callCount != 1 {
			t.Errorf("callCount = %d, want 1 (no retry on non-retryable error)", callCount)
		}
	})
}

func TestIsRetryableError_Categories(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"sqlite locked", errors.New("database is locked"), true},
		{"sqlite busy", errors.New("SQLITE_BUSY"), true},
		{"table locked", errors.New("database table is locked"), true},
		{"in use", errors.New("file in use"), true},
		{"eagain", syscall.EAGAIN, true},
		{"ebusy", syscall.EBUSY, true},
		{"interrupted", errors.New("interrupted system call"), true},
		{"constraint", errors.New("UNIQUE constraint failed"), false},
		{"not found", errors.New("file not found"), false},
		{"disk full", errors.New("database or disk is full"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.retryable {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}
