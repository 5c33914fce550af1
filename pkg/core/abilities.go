package core

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jllopis/screenplay/pkg/errors"
)

// AbilityTo returns the first ability of a whose dynamic type is assignable
// to T. T may be a concrete ability type or an interface.
func AbilityTo[T any](a Actor) (T, error) {
	var zero T
	for _, ability := range a.Abilities() {
		if found, ok := ability.(T); ok {
			return found, nil
		}
	}
	return zero, errors.UnableToPerform(fmt.Sprintf(
		"%s does not have the ability to %s", a.Name(), reflect.TypeFor[T]().String(),
	)).WithContext("actor", a.Name())
}

// HasAbilityTo reports whether AbilityTo[T] would succeed.
func HasAbilityTo[T any](a Actor) bool {
	_, err := AbilityTo[T](a)
	return err == nil
}

// PerformableFunc adapts a function to Performable.
type PerformableFunc func(ctx context.Context, actor Actor) error

// PerformAs implements Performable.
func (f PerformableFunc) PerformAs(ctx context.Context, actor Actor) error {
	return f(ctx, actor)
}

// AnswerableFunc adapts a function to Answerable.
type AnswerableFunc func(ctx context.Context, actor Actor) (any, error)

// AnsweredBy implements Answerable.
func (f AnswerableFunc) AnsweredBy(ctx context.Context, actor Actor) (any, error) {
	return f(ctx, actor)
}

// MatcherFunc builds a Matcher from a predicate and its description.
func MatcherFunc(description string, match func(actual any) bool) Matcher {
	return &funcMatcher{description: description, match: match}
}

type funcMatcher struct {
	description string
	match       func(any) bool
}

func (m *funcMatcher) Matches(actual any) bool { return m.match(actual) }

func (m *funcMatcher) Describe() string { return m.description }
