// SPDX-License-Identifier: Apache-2.0
// Package resilience provides the polling and fallback loops behind the
// Eventually and Either actions.
package resilience

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/jllopis/screenplay/pkg/errors"
)

// PollConfig controls a deadline-bound polling loop.
type PollConfig struct {
	// Timeout bounds the whole loop, measured from the first attempt.
	Timeout time.Duration

	// Interval is the pause between attempts. Must not exceed Timeout.
	Interval time.Duration

	// Now and Sleep are overridable for tests.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// PollError is returned when every attempt failed until the deadline.
type PollError struct {
	// Attempts counts the attempts made.
	Attempts int
	// Unique holds the distinct errors seen, in first-seen order.
	Unique []error
	// Last is the final attempt's error.
	Last error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("gave up after %d attempts with %d distinct errors: %v", e.Attempts, len(e.Unique), e.Last)
}

// Unwrap returns the final attempt's error.
func (e *PollError) Unwrap() error { return e.Last }

// Validate rejects an interval longer than the timeout.
func (pc PollConfig) Validate() error {
	if pc.Interval > pc.Timeout {
		return errors.UnableToAct(fmt.Sprintf(
			"polling interval %v must not be longer than the timeout %v", pc.Interval, pc.Timeout,
		))
	}
	if pc.Timeout < 0 || pc.Interval < 0 {
		return errors.UnableToAct("polling timeout and interval must not be negative")
	}
	return nil
}

// Do runs attempt until it succeeds or the deadline passes. After each
// failure it sleeps Interval and gives up once the deadline is behind it,
// so the loop takes at least Timeout when every attempt fails.
func (pc PollConfig) Do(ctx context.Context, attempt func() error) error {
	if err := pc.Validate(); err != nil {
		return err
	}
	now := pc.Now
	if now == nil {
		now = time.Now
	}
	sleep := pc.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	deadline := now().Add(pc.Timeout)
	report := &PollError{}
	for {
		err := attempt()
		report.Attempts++
		if err == nil {
			return nil
		}
		report.Last = err
		if !containsSame(report.Unique, err) {
			report.Unique = append(report.Unique, err)
		}

		if serr := sleep(ctx, pc.Interval); serr != nil {
			return serr
		}
		if now().After(deadline) {
			return report
		}
	}
}

// Same reports whether two errors are structurally equal: same dynamic
// type, same message and same detailed (%+v) rendering.
func Same(a, b error) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return a.Error() == b.Error() && fmt.Sprintf("%+v", a) == fmt.Sprintf("%+v", b)
}

func containsSame(errs []error, err error) bool {
	for _, seen := range errs {
		if Same(seen, err) {
			return true
		}
	}
	return false
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
