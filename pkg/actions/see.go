// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package actions

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/describe"
	"github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
)

// SeeAction asserts that a question's answer, or a plain value, satisfies
// a resolution.
type SeeAction struct {
	question   any
	resolution core.Resolvable
}

// See compares question (a core.Answerable or any value) with resolution.
func See(question any, resolution core.Resolvable) *SeeAction {
	return &SeeAction{question: question, resolution: resolution}
}

// Describe implements core.Describable.
func (s *SeeAction) Describe() string {
	return describe.Sentence(fmt.Sprintf("see if %s is %s", subject(s.question), s.resolutionText()))
}

func (s *SeeAction) resolutionText() string {
	if s.resolution == nil {
		return "nothing"
	}
	return describe.Describe(s.resolution)
}

// PerformAs implements core.Performable.
func (s *SeeAction) PerformAs(ctx context.Context, actor core.Actor) error {
	return narration.Beat("{actor} sees if {question} is {resolution}.",
		func() error { return s.check(ctx, actor) },
		actorField(actor),
		narration.With("question", subject(s.question)),
		narration.With("resolution", s.resolutionText()),
	)
}

func (s *SeeAction) check(ctx context.Context, actor core.Actor) error {
	if s.resolution == nil {
		return errors.UnableToAct("See needs a resolution to compare against")
	}
	if invalid, ok := s.resolution.(interface{ Err() error }); ok && invalid.Err() != nil {
		return invalid.Err()
	}

	value, err := answer(ctx, actor, s.question)
	if err != nil {
		return err
	}
	var reason string
	if keeper, ok := s.question.(core.ErrorKeeper); ok && keeper.CaughtError() != nil {
		reason = keeper.CaughtError().Error()
	}

	matcher := s.resolution.Resolve()
	if matcher == nil {
		return errors.UnableToFormResolution(describe.TypeName(s.resolution) + " resolved to no matcher")
	}
	if matcher.Matches(value) {
		return nil
	}

	mismatch := "was " + describe.RepresentProp(value)
	if md, ok := matcher.(core.MismatchDescriber); ok {
		mismatch = md.DescribeMismatch(value)
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s expected %s to be %s\n", actor.Name(), subject(s.question), s.resolutionText())
	fmt.Fprintf(&msg, "Expected: %s\n     but: %s", matcher.Describe(), mismatch)
	if reason != "" {
		fmt.Fprintf(&msg, "\n  reason: %s", reason)
	}
	return errors.AssertionFailed(msg.String()).
		WithContext("actor", actor.Name()).
		WithContext("resolution", s.resolutionText())
}

// Check is one question/resolution pair for SeeAllOf and SeeAnyOf.
type Check struct {
	Question   any
	Resolution core.Resolvable
}

// Pair builds a Check.
func Pair(question any, resolution core.Resolvable) Check {
	return Check{Question: question, Resolution: resolution}
}

// checks accepts Check values and two-element []any pairs whose second
// element is a resolution.
func checks(action string, tests []any) ([]Check, error) {
	out := make([]Check, 0, len(tests))
	for i, test := range tests {
		switch t := test.(type) {
		case Check:
			out = append(out, t)
		case *Check:
			if t == nil {
				return nil, errors.UnableToAct(fmt.Sprintf("%s argument %d is a nil check", action, i))
			}
			out = append(out, *t)
		case []any:
			if len(t) != 2 {
				return nil, errors.UnableToAct(fmt.Sprintf(
					"%s argument %d must be a question and a resolution, got %d values", action, i, len(t),
				))
			}
			r, ok := t[1].(core.Resolvable)
			if !ok {
				return nil, errors.UnableToAct(fmt.Sprintf(
					"%s argument %d pairs %s with %s, which is not a resolution",
					action, i, subject(t[0]), describe.RepresentProp(t[1]),
				))
			}
			out = append(out, Pair(t[0], r))
		default:
			return nil, errors.UnableToAct(fmt.Sprintf(
				"%s argument %d must be a Check or a question/resolution pair, got %T", action, i, test,
			))
		}
	}
	return out, nil
}

// SeeAllOfAction asserts every check, stopping at the first failure.
type SeeAllOfAction struct {
	checks []Check
	err    error
}

// NewSeeAllOf validates tests up front.
func NewSeeAllOf(tests ...any) (*SeeAllOfAction, error) {
	c, err := checks("SeeAllOf", tests)
	if err != nil {
		return nil, err
	}
	return &SeeAllOfAction{checks: c}, nil
}

// SeeAllOf is NewSeeAllOf for inline use; a malformed argument fails the
// action when it is performed.
func SeeAllOf(tests ...any) *SeeAllOfAction {
	c, err := checks("SeeAllOf", tests)
	return &SeeAllOfAction{checks: c, err: err}
}

// Describe implements core.Describable.
func (s *SeeAllOfAction) Describe() string {
	return fmt.Sprintf("See if all of %d tests pass.", len(s.checks))
}

// PerformAs implements core.Performable.
func (s *SeeAllOfAction) PerformAs(ctx context.Context, actor core.Actor) error {
	if s.err != nil {
		return s.err
	}
	return narration.Beat("{actor} sees if all of the following {count} tests pass:",
		func() error {
			for _, c := range s.checks {
				if err := actor.AttemptsTo(ctx, See(c.Question, c.Resolution)); err != nil {
					return err
				}
			}
			return nil
		},
		actorField(actor),
		narration.With("count", len(s.checks)),
	)
}

// SeeAnyOfAction passes when at least one check passes.
type SeeAnyOfAction struct {
	checks []Check
	err    error
}

// NewSeeAnyOf validates tests up front.
func NewSeeAnyOf(tests ...any) (*SeeAnyOfAction, error) {
	c, err := checks("SeeAnyOf", tests)
	if err != nil {
		return nil, err
	}
	return &SeeAnyOfAction{checks: c}, nil
}

// SeeAnyOf is NewSeeAnyOf for inline use; a malformed argument fails the
// action when it is performed.
func SeeAnyOf(tests ...any) *SeeAnyOfAction {
	c, err := checks("SeeAnyOf", tests)
	return &SeeAnyOfAction{checks: c, err: err}
}

// Describe implements core.Describable.
func (s *SeeAnyOfAction) Describe() string {
	return fmt.Sprintf("See if any of %d tests pass.", len(s.checks))
}

// PerformAs implements core.Performable. Every check is evaluated; only
// assertion failures count as a miss, other errors propagate. No checks at
// all is a pass.
func (s *SeeAnyOfAction) PerformAs(ctx context.Context, actor core.Actor) error {
	if s.err != nil {
		return s.err
	}
	if len(s.checks) == 0 {
		return nil
	}
	return narration.Beat("{actor} sees if any of the following {count} tests pass:",
		func() error {
			passed := false
			for _, c := range s.checks {
				err := actor.AttemptsTo(ctx, See(c.Question, c.Resolution))
				switch {
				case err == nil:
					passed = true
				case !stderrors.Is(err, errors.ErrAssertionFailed):
					return err
				}
			}
			if !passed {
				return errors.AssertionFailed(actor.Name() + " did not find any expected answers!")
			}
			return nil
		},
		actorField(actor),
		narration.With("count", len(s.checks)),
	)
}
