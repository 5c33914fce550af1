// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package actions

import (
	"context"

	"github.com/jllopis/screenplay/pkg/config"
	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
	"github.com/jllopis/screenplay/pkg/resilience"
)

// EitherAction performs a first set of actions and, when they fail with an
// ignored error, a second set instead.
type EitherAction struct {
	first  []core.Performable
	second []core.Performable
	catch  resilience.Catcher
}

// Either starts an EitherAction. By default only assertion failures switch
// to the alternative.
func Either(first ...core.Performable) *EitherAction {
	return &EitherAction{
		first: first,
		catch: resilience.CatchAny(errors.ErrAssertionFailed),
	}
}

// Or sets the alternative.
func (e *EitherAction) Or(second ...core.Performable) *EitherAction {
	e.second = second
	return e
}

// Ignoring replaces the ignored errors; each is matched with errors.Is.
func (e *EitherAction) Ignoring(targets ...error) *EitherAction {
	e.catch = resilience.CatchAny(targets...)
	return e
}

// IgnoringFunc replaces the ignored errors with a predicate.
func (e *EitherAction) IgnoringFunc(ignore func(error) bool) *EitherAction {
	e.catch = ignore
	return e
}

// Describe implements core.Describable.
func (e *EitherAction) Describe() string {
	return "Either " + describeAll(e.first) + " or " + describeAll(e.second) + "."
}

// PerformAs implements core.Performable.
func (e *EitherAction) PerformAs(ctx context.Context, actor core.Actor) error {
	if len(e.second) == 0 {
		return errors.UnableToAct("Either needs an alternative; add one with Or")
	}
	return narration.Beat("{actor} tries to Either {first} or {second}.",
		func() error { return e.perform(ctx, actor) },
		actorField(actor),
		narration.With("first", describeAll(e.first)),
		narration.With("second", describeAll(e.second)),
	)
}

func (e *EitherAction) perform(ctx context.Context, actor core.Actor) error {
	n := narration.Default()
	release := n.KinkTheCable()
	defer release()

	return resilience.WithFallback(ctx,
		func(ctx context.Context) error {
			return actor.AttemptsTo(ctx, e.first...)
		},
		e.catch,
		func(ctx context.Context, _ error) error {
			if !config.Current().UnabridgedNarration {
				n.ClearBackup()
			}
			return actor.AttemptsTo(ctx, e.second...)
		},
	)
}
