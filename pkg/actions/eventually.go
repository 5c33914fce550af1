// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package actions

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jllopis/screenplay/pkg/config"
	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/describe"
	"github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
	"github.com/jllopis/screenplay/pkg/resilience"
)

// EventuallyAction retries a performable until it succeeds or the timeout
// runs out. Only the narration of the last attempt is kept.
type EventuallyAction struct {
	performable core.Performable
	timeout     time.Duration
	polling     time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Eventually wraps performable using the configured timeout and polling.
func Eventually(performable core.Performable) *EventuallyAction {
	s := config.Current()
	return &EventuallyAction{
		performable: performable,
		timeout:     s.TimeoutDuration(),
		polling:     s.PollingDuration(),
	}
}

// For starts setting the timeout: Eventually(x).For(5).Seconds().
func (e *EventuallyAction) For(n float64) Timeframe {
	return Timeframe{n: n, set: func(d time.Duration) { e.timeout = d }, action: e}
}

// TryingFor is an alias of For.
func (e *EventuallyAction) TryingFor(n float64) Timeframe { return e.For(n) }

// PollingEvery starts setting the poll interval.
func (e *EventuallyAction) PollingEvery(n float64) Timeframe {
	return Timeframe{n: n, set: func(d time.Duration) { e.polling = d }, action: e}
}

// Polling sets the poll interval in seconds.
func (e *EventuallyAction) Polling(seconds float64) *EventuallyAction {
	e.polling = time.Duration(seconds * float64(time.Second))
	return e
}

// WithTimeout sets the timeout.
func (e *EventuallyAction) WithTimeout(d time.Duration) *EventuallyAction {
	e.timeout = d
	return e
}

// WithPolling sets the poll interval.
func (e *EventuallyAction) WithPolling(d time.Duration) *EventuallyAction {
	e.polling = d
	return e
}

// Timeframe completes a duration started by For or PollingEvery.
type Timeframe struct {
	n      float64
	set    func(time.Duration)
	action *EventuallyAction
}

func (t Timeframe) unit(u time.Duration) *EventuallyAction {
	t.set(time.Duration(t.n * float64(u)))
	return t.action
}

func (t Timeframe) Seconds() *EventuallyAction      { return t.unit(time.Second) }
func (t Timeframe) Second() *EventuallyAction       { return t.unit(time.Second) }
func (t Timeframe) Milliseconds() *EventuallyAction { return t.unit(time.Millisecond) }
func (t Timeframe) Millisecond() *EventuallyAction  { return t.unit(time.Millisecond) }

// Describe implements core.Describable.
func (e *EventuallyAction) Describe() string {
	return describe.Sentence("eventually " + describe.Describe(e.performable))
}

// PerformAs implements core.Performable.
func (e *EventuallyAction) PerformAs(ctx context.Context, actor core.Actor) error {
	if e.performable == nil {
		return errors.UnableToAct("Eventually needs something to perform")
	}
	return narration.Beat("{actor} tries to Eventually {action}.",
		func() error { return e.perform(ctx, actor) },
		actorField(actor),
		narration.With("action", describe.Describe(e.performable)),
	)
}

func (e *EventuallyAction) perform(ctx context.Context, actor core.Actor) error {
	poll := resilience.PollConfig{
		Timeout:  e.timeout,
		Interval: e.polling,
		Now:      e.now,
		Sleep:    e.sleep,
	}
	if err := poll.Validate(); err != nil {
		return err
	}

	n := narration.Default()
	release := n.KinkTheCable()
	defer release()

	err := poll.Do(ctx, func() error {
		n.ClearBackup()
		return actor.AttemptsTo(ctx, e.performable)
	})

	var report *resilience.PollError
	if !stderrors.As(err, &report) {
		return err
	}
	return errors.Delivery(e.failure(actor, report), report.Last).
		WithContext("attempts", report.Attempts).
		WithContext("timeout", e.timeout.String())
}

func (e *EventuallyAction) failure(actor core.Actor, report *resilience.PollError) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s tried to Eventually %s for %s seconds, but got %d error",
		actor.Name(), describe.Describe(e.performable),
		strconv.FormatFloat(e.timeout.Seconds(), 'f', -1, 64), len(report.Unique))
	if len(report.Unique) != 1 {
		msg.WriteByte('s')
	}
	msg.WriteByte(':')
	for _, err := range report.Unique {
		fmt.Fprintf(&msg, "\n    %s: %s", describe.TypeName(err), err)
	}
	return msg.String()
}
