// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// Assertions reports narration and error checks to a test without stopping
// it.
type Assertions struct {
	t      testing.TB
	failed bool
}

// NewAssertions creates an assertions helper.
func NewAssertions(t testing.TB) *Assertions {
	return &Assertions{t: t}
}

// Failed returns true if any assertion has failed.
func (a *Assertions) Failed() bool {
	return a.failed
}

func (a *Assertions) fail(format string, args ...any) {
	a.t.Helper()
	a.t.Errorf(format, args...)
	a.failed = true
}

// AssertNoError asserts that err is nil.
func (a *Assertions) AssertNoError(err error, msg string) {
	a.t.Helper()
	if err != nil {
		a.fail("%s: unexpected error: %v", msg, err)
	}
}

// AssertErrorIs asserts that err matches target per errors.Is.
func (a *Assertions) AssertErrorIs(err, target error, msg string) {
	a.t.Helper()
	if !errors.Is(err, target) {
		a.fail("%s: expected an error matching %v, got %v", msg, target, err)
	}
}

// AssertErrorContains asserts that the error message contains substr.
func (a *Assertions) AssertErrorContains(err error, substr, msg string) {
	a.t.Helper()
	if err == nil {
		a.fail("%s: expected error containing %q, got nil", msg, substr)
		return
	}
	if !strings.Contains(err.Error(), substr) {
		a.fail("%s: error %q does not contain %q", msg, err.Error(), substr)
	}
}

// AssertNarrated asserts that some opened scope matches m.
func (a *Assertions) AssertNarrated(r *Recorder, m StringMatcher) {
	a.t.Helper()
	if !r.Narrated(m) {
		a.fail("expected a narration line that %s, got:\n%s", m.Description(), strings.Join(r.Lines(), "\n"))
	}
}

// AssertNotNarrated asserts that no opened scope matches m.
func (a *Assertions) AssertNotNarrated(r *Recorder, m StringMatcher) {
	a.t.Helper()
	if r.Narrated(m) {
		a.fail("expected no narration line that %s, got:\n%s", m.Description(), strings.Join(r.Lines(), "\n"))
	}
}

// AssertLines asserts the exact, indented narration.
func (a *Assertions) AssertLines(r *Recorder, want ...string) {
	a.t.Helper()
	if got := r.Lines(); !slices.Equal(got, want) {
		a.fail("narration mismatch\n got: %q\nwant: %q", got, want)
	}
}

// AssertBalanced asserts that every opened scope was closed, in reverse
// order of opening.
func (a *Assertions) AssertBalanced(r *Recorder) {
	a.t.Helper()
	var open []string
	for _, e := range r.Events() {
		switch e.Kind {
		case EventOpen:
			open = append(open, e.Text)
		case EventClose:
			if len(open) == 0 || open[len(open)-1] != e.Text {
				a.fail("scope %q closed out of order; open scopes: %q", e.Text, open)
				return
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		a.fail("scopes left open: %q", open)
	}
}

// AssertForgotten asserts that ability forgot exactly times times.
func (a *Assertions) AssertForgotten(ability *MockAbility, times int) {
	a.t.Helper()
	if got := ability.Forgotten(); got != times {
		a.fail("expected the ability to forget %d time(s), got %d", times, got)
	}
}

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t testing.TB, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// RequireErrorIs fails the test immediately unless err matches target.
func RequireErrorIs(t testing.TB, err, target error, msg string) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("%s: expected an error matching %v, got %v", msg, target, err)
	}
}
