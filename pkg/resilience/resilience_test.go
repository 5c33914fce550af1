// SPDX-License-Identifier: Apache-2.0
package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	serrors "github.com/jllopis/screenplay/pkg/errors"
)

// fakeClock advances only when slept on.
type fakeClock struct {
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps++
	c.now = c.now.Add(d)
	return ctx.Err()
}

func TestPollSuccess(t *testing.T) {
	attempts := 0
	clock := &fakeClock{now: time.Unix(0, 0)}
	pc := PollConfig{Timeout: time.Second, Interval: 100 * time.Millisecond, Now: clock.Now, Sleep: clock.Sleep}

	err := pc.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected success, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestPollGivesUpAfterDeadline(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	pc := PollConfig{Timeout: time.Second, Interval: 100 * time.Millisecond, Now: clock.Now, Sleep: clock.Sleep}

	attempts := 0
	err := pc.Do(context.Background(), func() error {
		attempts++
		if attempts <= 5 {
			return errors.New("a")
		}
		return errors.New("b")
	})

	var pe *PollError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PollError, got %v", err)
	}
	// ceil(T/P) attempts, plus the one that crosses the deadline
	if pe.Attempts < 10 || pe.Attempts > 11 {
		t.Errorf("expected 10 or 11 attempts, got %d", pe.Attempts)
	}
	if len(pe.Unique) != 2 {
		t.Errorf("expected 2 unique errors, got %v", pe.Unique)
	}
	if pe.Last.Error() != "b" || !errors.Is(err, pe.Last) {
		t.Errorf("expected last error b to be unwrappable, got %v", pe.Last)
	}
	if elapsed := clock.now.Sub(time.Unix(0, 0)); elapsed < time.Second || elapsed > time.Second+100*time.Millisecond {
		t.Errorf("elapsed %v outside [T, T+P]", elapsed)
	}
}

func TestPollRealClock(t *testing.T) {
	start := time.Now()
	pc := PollConfig{Timeout: 60 * time.Millisecond, Interval: 20 * time.Millisecond}
	err := pc.Do(context.Background(), func() error { return errors.New("never") })
	if err == nil {
		t.Fatal("expected failure")
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("gave up too early after %v", elapsed)
	}
}

func TestPollIntervalLongerThanTimeout(t *testing.T) {
	attempts := 0
	pc := PollConfig{Timeout: time.Second, Interval: 2 * time.Second}
	err := pc.Do(context.Background(), func() error { attempts++; return nil })
	if !errors.Is(err, serrors.ErrUnableToAct) {
		t.Errorf("expected UnableToAct, got %v", err)
	}
	if attempts != 0 {
		t.Errorf("nothing should be attempted with a bad configuration")
	}
}

func TestPollContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pc := PollConfig{Timeout: time.Second, Interval: 10 * time.Millisecond}
	err := pc.Do(ctx, func() error { return errors.New("transient") })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type codedError struct{ code int }

func (e codedError) Error() string { return fmt.Sprintf("code %d", e.code) }

func TestSame(t *testing.T) {
	tests := []struct {
		name string
		a, b error
		want bool
	}{
		{"same text", errors.New("a"), errors.New("a"), true},
		{"different text", errors.New("a"), errors.New("b"), false},
		{"different type", errors.New("code 1"), codedError{1}, false},
		{"same typed value", codedError{1}, codedError{1}, true},
		{"typed errors differ", serrors.UnableToAct("x"), serrors.UnableToAnswer("x", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Same(tt.a, tt.b); got != tt.want {
				t.Errorf("Same(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestWithFallback(t *testing.T) {
	ctx := context.Background()
	caught := serrors.AssertionFailed("nope")
	fellBack := false

	err := WithFallback(ctx,
		func(context.Context) error { return caught },
		CatchAny(serrors.ErrAssertionFailed),
		func(_ context.Context, primaryErr error) error {
			fellBack = primaryErr == caught
			return nil
		},
	)
	if err != nil || !fellBack {
		t.Errorf("expected fallback to absorb the assertion, got %v (fell back: %v)", err, fellBack)
	}

	other := errors.New("unrelated")
	err = WithFallback(ctx,
		func(context.Context) error { return other },
		CatchAny(serrors.ErrAssertionFailed),
		func(context.Context, error) error { t.Error("fallback must not run"); return nil },
	)
	if err != other {
		t.Errorf("expected unrelated error to propagate, got %v", err)
	}

	if err := WithFallback(ctx, func(context.Context) error { return nil }, nil, nil); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestSleep(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("zero sleep should not fail: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
}
