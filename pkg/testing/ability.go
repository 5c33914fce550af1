package testing

import (
	"context"
	"sync"

	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/narration"
)

// MockAbility is an ability that counts Forget calls.
type MockAbility struct {
	mu        sync.Mutex
	forgotten int
	err       error
}

// NewMockAbility returns a MockAbility whose Forget returns err.
func NewMockAbility(err error) *MockAbility {
	return &MockAbility{err: err}
}

func (m *MockAbility) Forget() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forgotten++
	return m.err
}

// Forgotten returns how many times Forget was called.
func (m *MockAbility) Forgotten() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forgotten
}

// MockPerformable records the actors it is performed by and replays a
// script of errors, one per call; once the script runs out it succeeds.
type MockPerformable struct {
	mu          sync.Mutex
	description string
	script      []error
	repeatLast  bool
	calls       []core.Actor
}

// NewMockPerformable returns a performable described by description.
func NewMockPerformable(description string) *MockPerformable {
	return &MockPerformable{description: description}
}

// FailsWith appends errs to the script.
func (m *MockPerformable) FailsWith(errs ...error) *MockPerformable {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, errs...)
	return m
}

// ThenForever makes the last scripted error repeat instead of running out.
func (m *MockPerformable) ThenForever() *MockPerformable {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repeatLast = true
	return m
}

func (m *MockPerformable) PerformAs(ctx context.Context, a core.Actor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, a)
	if len(m.script) == 0 {
		return nil
	}
	err := m.script[0]
	if len(m.script) > 1 || !m.repeatLast {
		m.script = m.script[1:]
	}
	return err
}

func (m *MockPerformable) Describe() string { return m.description }

// Calls returns the actors m was performed by, in order.
func (m *MockPerformable) Calls() []core.Actor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Actor, len(m.calls))
	copy(out, m.calls)
	return out
}

// ScriptedQuestion answers with each scripted value in turn, repeating the
// last one once the script runs out.
type ScriptedQuestion struct {
	mu          sync.Mutex
	description string
	answers     []any
	caught      error
	asked       int
}

// NewScriptedQuestion returns a question described by description.
func NewScriptedQuestion(description string, answers ...any) *ScriptedQuestion {
	return &ScriptedQuestion{description: description, answers: answers}
}

// WithCaughtError makes the question report err as its caught error.
func (q *ScriptedQuestion) WithCaughtError(err error) *ScriptedQuestion {
	q.caught = err
	return q
}

func (q *ScriptedQuestion) AnsweredBy(context.Context, core.Actor) (any, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.asked++
	if len(q.answers) == 0 {
		return nil, nil
	}
	answer := q.answers[0]
	if len(q.answers) > 1 {
		q.answers = q.answers[1:]
	}
	if err, ok := answer.(error); ok {
		return nil, err
	}
	return answer, nil
}

func (q *ScriptedQuestion) Describe() string { return q.description }

func (q *ScriptedQuestion) CaughtError() error { return q.caught }

// Asked returns how many times the question was answered.
func (q *ScriptedQuestion) Asked() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.asked
}

// Resolves builds a resolution from a predicate.
func Resolves(description string, match func(actual any) bool) core.Resolvable {
	return resolvable{description: description, matcher: core.MatcherFunc(description, match)}
}

type resolvable struct {
	description string
	matcher     core.Matcher
}

func (r resolvable) Resolve() core.Matcher { return r.matcher }

func (r resolvable) Describe() string { return r.description }

// Perform wraps fn as a described performable narrated as the beat
// "{actor} <description>".
func Perform(description string, fn func(ctx context.Context, a core.Actor) error) core.Performable {
	return performable{description: description, fn: fn}
}

type performable struct {
	description string
	fn          func(ctx context.Context, a core.Actor) error
}

func (p performable) PerformAs(ctx context.Context, a core.Actor) error {
	return narration.Beat("{actor} "+p.description, func() error {
		return p.fn(ctx, a)
	}, narration.With("actor", a.Name()))
}

func (p performable) Describe() string { return p.description }

// Answer wraps fn as a described question.
func Answer(description string, fn func(ctx context.Context, a core.Actor) (any, error)) core.Answerable {
	return answerable{description: description, fn: fn}
}

type answerable struct {
	description string
	fn          func(ctx context.Context, a core.Actor) (any, error)
}

func (q answerable) AnsweredBy(ctx context.Context, a core.Actor) (any, error) {
	return q.fn(ctx, a)
}

func (q answerable) Describe() string { return q.description }
