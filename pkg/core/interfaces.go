// Package core defines the behavioral contracts shared by actors, actions,
// questions and resolutions. Everything is structural: any type with the
// right method set qualifies.
package core

import "context"

// Actor is the executing entity handed to every Performable and Answerable.
type Actor interface {
	Name() string
	Abilities() []Ability
	AttemptsTo(ctx context.Context, actions ...Performable) error
}

// Ability carries an external resource. Forget releases it exactly once
// and must tolerate repeated calls.
type Ability interface {
	Forget() error
}

// Performable is anything an Actor can do.
type Performable interface {
	PerformAs(ctx context.Context, actor Actor) error
}

// Answerable is anything an Actor can ask about.
type Answerable interface {
	AnsweredBy(ctx context.Context, actor Actor) (any, error)
}

// Resolvable produces the matcher an answer is compared against.
type Resolvable interface {
	Resolve() Matcher
}

// Matcher is the minimal contract of a matcher library.
type Matcher interface {
	Matches(actual any) bool
	Describe() string
}

// MismatchDescriber is implemented by matchers that can explain a failure.
type MismatchDescriber interface {
	DescribeMismatch(actual any) string
}

// Describable returns a capitalized, punctuated sentence.
type Describable interface {
	Describe() string
}

// ErrorKeeper holds the most recent error an Answerable ran into.
type ErrorKeeper interface {
	CaughtError() error
}
