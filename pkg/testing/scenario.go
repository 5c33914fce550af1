// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

// Package testing provides utilities for testing performances.
//
// This package includes:
//   - A Recorder adapter that captures narration
//   - A Stage that isolates the default narrator and notebook per test
//   - Mock abilities, scripted performables and questions
//   - Scenario definitions with declarative expectations
//
// Example usage:
//
//	stage := testing.NewStage(t)
//	perry := stage.Actor(t, "Perry", testing.NewMockAbility(nil))
//
//	scenario := testing.NewScenario("greets the visitor").
//	    WithActions(OpenTheHomepage(), actions.See(TheTitle(), resolutions.ReadsExactly("Welcome"))).
//	    ExpectNoError().
//	    ExpectNarration(testing.Contains("sees if the title"))
//
//	result := scenario.Run(t, perry, stage)
//	result.Assert(t, scenario)
package testing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jllopis/screenplay/pkg/core"
)

// Scenario defines a performance to run and what it must produce.
type Scenario struct {
	name          string
	description   string
	actions       []core.Performable
	context       context.Context
	timeout       time.Duration
	expectations  []Expectation
	setupFuncs    []func() error
	teardownFuncs []func() error
}

// Expectation defines a condition to verify after running a scenario.
type Expectation interface {
	// Check verifies the expectation against the result.
	Check(result *ScenarioResult) error
	// Description returns a human-readable description of the expectation.
	Description() string
}

// ScenarioResult contains the outcome of running a scenario.
type ScenarioResult struct {
	Error     error
	Narration []string
	Events    []Event
	Duration  time.Duration
}

// NewScenario creates a new test scenario with the given name.
func NewScenario(name string) *Scenario {
	return &Scenario{
		name:         name,
		timeout:      30 * time.Second,
		context:      context.Background(),
		expectations: make([]Expectation, 0),
	}
}

// WithDescription adds a description to the scenario.
func (s *Scenario) WithDescription(desc string) *Scenario {
	s.description = desc
	return s
}

// WithActions appends performables the actor attempts in order.
func (s *Scenario) WithActions(actions ...core.Performable) *Scenario {
	s.actions = append(s.actions, actions...)
	return s
}

// WithContext sets the context for the scenario.
func (s *Scenario) WithContext(ctx context.Context) *Scenario {
	s.context = ctx
	return s
}

// WithTimeout bounds the context handed to the performables.
func (s *Scenario) WithTimeout(d time.Duration) *Scenario {
	s.timeout = d
	return s
}

// WithSetup adds a setup function to run before the scenario.
func (s *Scenario) WithSetup(fn func() error) *Scenario {
	s.setupFuncs = append(s.setupFuncs, fn)
	return s
}

// WithTeardown adds a teardown function to run after the scenario.
func (s *Scenario) WithTeardown(fn func() error) *Scenario {
	s.teardownFuncs = append(s.teardownFuncs, fn)
	return s
}

// Expect adds an expectation to the scenario.
func (s *Scenario) Expect(exp Expectation) *Scenario {
	s.expectations = append(s.expectations, exp)
	return s
}

// ExpectNoError expects the performance to succeed.
func (s *Scenario) ExpectNoError() *Scenario {
	return s.Expect(&noErrorExpectation{})
}

// ExpectError expects an error whose message matches.
func (s *Scenario) ExpectError(matcher StringMatcher) *Scenario {
	return s.Expect(&errorExpectation{matcher: matcher})
}

// ExpectErrorIs expects an error matching target per errors.Is.
func (s *Scenario) ExpectErrorIs(target error) *Scenario {
	return s.Expect(&errorIsExpectation{target: target})
}

// ExpectNarration expects some narration line to match.
func (s *Scenario) ExpectNarration(matcher StringMatcher) *Scenario {
	return s.Expect(&narrationExpectation{matcher: matcher})
}

// ExpectNoNarration expects no narration line to match.
func (s *Scenario) ExpectNoNarration(matcher StringMatcher) *Scenario {
	return s.Expect(&narrationExpectation{matcher: matcher, absent: true})
}

// ExpectMinDuration expects the scenario to take at least the given duration.
func (s *Scenario) ExpectMinDuration(d time.Duration) *Scenario {
	return s.Expect(&minDurationExpectation{min: d})
}

// ExpectMaxDuration expects the scenario to complete within the given duration.
func (s *Scenario) ExpectMaxDuration(d time.Duration) *Scenario {
	return s.Expect(&maxDurationExpectation{max: d})
}

// Run has performer attempt the scenario's actions on stage.
func (s *Scenario) Run(t testing.TB, performer core.Actor, stage *Stage) *ScenarioResult {
	t.Helper()

	for _, setup := range s.setupFuncs {
		if err := setup(); err != nil {
			t.Fatalf("scenario %q setup failed: %v", s.name, err)
		}
	}

	defer func() {
		for _, teardown := range s.teardownFuncs {
			if err := teardown(); err != nil {
				t.Errorf("scenario %q teardown failed: %v", s.name, err)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(s.context, s.timeout)
	defer cancel()

	stage.Recorder.Reset()
	start := time.Now()
	err := performer.AttemptsTo(ctx, s.actions...)
	duration := time.Since(start)

	return &ScenarioResult{
		Error:     err,
		Narration: stage.Recorder.Lines(),
		Events:    stage.Recorder.Events(),
		Duration:  duration,
	}
}

// Assert checks all expectations and reports failures to the test.
func (r *ScenarioResult) Assert(t testing.TB, scenario *Scenario) {
	t.Helper()

	for _, exp := range scenario.expectations {
		if err := exp.Check(r); err != nil {
			t.Errorf("scenario %q: expectation %q failed: %v", scenario.name, exp.Description(), err)
		}
	}
}

// StringMatcher defines how to match strings in expectations.
type StringMatcher interface {
	Match(s string) bool
	Description() string
}

// Contains returns a matcher that checks if the string contains the substring.
func Contains(substr string) StringMatcher {
	return &containsMatcher{substr: substr}
}

// Equals returns a matcher that checks exact string equality.
func Equals(expected string) StringMatcher {
	return &equalsMatcher{expected: expected}
}

// Regex returns a matcher that checks against a regular expression. An
// invalid pattern never matches.
func Regex(pattern string) StringMatcher {
	re, err := regexp.Compile(pattern)
	return &regexMatcher{pattern: pattern, re: re, err: err}
}

// HasPrefix returns a matcher that checks if the string has the given prefix.
func HasPrefix(prefix string) StringMatcher {
	return &prefixMatcher{prefix: prefix}
}

// HasSuffix returns a matcher that checks if the string has the given suffix.
func HasSuffix(suffix string) StringMatcher {
	return &suffixMatcher{suffix: suffix}
}

type containsMatcher struct {
	substr string
}

func (m *containsMatcher) Match(s string) bool {
	return strings.Contains(s, m.substr)
}

func (m *containsMatcher) Description() string {
	return fmt.Sprintf("contains %q", m.substr)
}

type equalsMatcher struct {
	expected string
}

func (m *equalsMatcher) Match(s string) bool {
	return s == m.expected
}

func (m *equalsMatcher) Description() string {
	return fmt.Sprintf("equals %q", m.expected)
}

type regexMatcher struct {
	pattern string
	re      *regexp.Regexp
	err     error
}

func (m *regexMatcher) Match(s string) bool {
	return m.err == nil && m.re.MatchString(s)
}

func (m *regexMatcher) Description() string {
	if m.err != nil {
		return fmt.Sprintf("matches invalid regex %q", m.pattern)
	}
	return fmt.Sprintf("matches regex %q", m.pattern)
}

type prefixMatcher struct {
	prefix string
}

func (m *prefixMatcher) Match(s string) bool {
	return strings.HasPrefix(s, m.prefix)
}

func (m *prefixMatcher) Description() string {
	return fmt.Sprintf("has prefix %q", m.prefix)
}

type suffixMatcher struct {
	suffix string
}

func (m *suffixMatcher) Match(s string) bool {
	return strings.HasSuffix(s, m.suffix)
}

func (m *suffixMatcher) Description() string {
	return fmt.Sprintf("has suffix %q", m.suffix)
}

// Expectation implementations

type noErrorExpectation struct{}

func (e *noErrorExpectation) Check(r *ScenarioResult) error {
	if r.Error != nil {
		return fmt.Errorf("expected no error, got: %v", r.Error)
	}
	return nil
}

func (e *noErrorExpectation) Description() string {
	return "no error"
}

type errorExpectation struct {
	matcher StringMatcher
}

func (e *errorExpectation) Check(r *ScenarioResult) error {
	if r.Error == nil {
		return fmt.Errorf("expected error matching %s, got nil", e.matcher.Description())
	}
	if !e.matcher.Match(r.Error.Error()) {
		return fmt.Errorf("error %q does not match: %s", r.Error.Error(), e.matcher.Description())
	}
	return nil
}

func (e *errorExpectation) Description() string {
	return fmt.Sprintf("error %s", e.matcher.Description())
}

type errorIsExpectation struct {
	target error
}

func (e *errorIsExpectation) Check(r *ScenarioResult) error {
	if !errors.Is(r.Error, e.target) {
		return fmt.Errorf("error %v does not match %v", r.Error, e.target)
	}
	return nil
}

func (e *errorIsExpectation) Description() string {
	return fmt.Sprintf("error is %v", e.target)
}

type narrationExpectation struct {
	matcher StringMatcher
	absent  bool
}

func (e *narrationExpectation) Check(r *ScenarioResult) error {
	found := false
	for _, line := range r.Narration {
		if e.matcher.Match(strings.TrimLeft(line, " ")) {
			found = true
			break
		}
	}
	switch {
	case e.absent && found:
		return fmt.Errorf("narration unexpectedly %s", e.matcher.Description())
	case !e.absent && !found:
		return fmt.Errorf("no narration line %s in %q", e.matcher.Description(), r.Narration)
	}
	return nil
}

func (e *narrationExpectation) Description() string {
	if e.absent {
		return fmt.Sprintf("no narration %s", e.matcher.Description())
	}
	return fmt.Sprintf("narration %s", e.matcher.Description())
}

type minDurationExpectation struct {
	min time.Duration
}

func (e *minDurationExpectation) Check(r *ScenarioResult) error {
	if r.Duration < e.min {
		return fmt.Errorf("duration %v is less than minimum %v", r.Duration, e.min)
	}
	return nil
}

func (e *minDurationExpectation) Description() string {
	return fmt.Sprintf("duration >= %v", e.min)
}

type maxDurationExpectation struct {
	max time.Duration
}

func (e *maxDurationExpectation) Check(r *ScenarioResult) error {
	if r.Duration > e.max {
		return fmt.Errorf("duration %v exceeds maximum %v", r.Duration, e.max)
	}
	return nil
}

func (e *maxDurationExpectation) Description() string {
	return fmt.Sprintf("duration <= %v", e.max)
}
