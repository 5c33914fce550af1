// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

// Package actor provides the Actor: a named performer holding abilities,
// dispatching performables and tidying up after itself.
package actor

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/describe"
	"github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
)

// Actor performs actions and answers questions using its abilities.
type Actor struct {
	name               string
	abilities          []core.Ability
	orderedCleanup     []core.Performable
	independentCleanup []core.Performable
}

var _ core.Actor = (*Actor)(nil)

// Named creates an Actor with no abilities.
func Named(name string) *Actor {
	return &Actor{name: name}
}

// Name returns the actor's name.
func (a *Actor) Name() string { return a.name }

// String implements fmt.Stringer.
func (a *Actor) String() string { return a.name }

// Describe returns the actor's name.
func (a *Actor) Describe() string { return a.name }

// Abilities returns the installed abilities in insertion order.
func (a *Actor) Abilities() []core.Ability {
	return slices.Clone(a.abilities)
}

// WhoCan grants abilities. Installing a nil ability, or a second ability of
// a type the actor already holds, panics: it is a mistake in the test's
// setup.
func (a *Actor) WhoCan(abilities ...core.Ability) *Actor {
	for _, ability := range abilities {
		if isNil(ability) {
			panic(errors.UnableToAct(a.name + " cannot be given a nil ability"))
		}
		t := reflect.TypeOf(ability)
		for _, held := range a.abilities {
			if reflect.TypeOf(held) == t {
				panic(errors.UnableToAct(fmt.Sprintf(
					"%s already has an ability of type %s", a.name, t,
				)))
			}
		}
		a.abilities = append(a.abilities, ability)
	}
	return a
}

func isNil(ability core.Ability) bool {
	if ability == nil {
		return true
	}
	v := reflect.ValueOf(ability)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Can is an alias of WhoCan.
func (a *Actor) Can(abilities ...core.Ability) *Actor { return a.WhoCan(abilities...) }

// AbilityTo returns the first ability assignable to T.
func AbilityTo[T any](a *Actor) (T, error) {
	return core.AbilityTo[T](a)
}

// UsesAbilityTo is an alias of AbilityTo.
func UsesAbilityTo[T any](a *Actor) (T, error) {
	return core.AbilityTo[T](a)
}

// HasAbilityTo reports whether a holds an ability assignable to T.
func HasAbilityTo[T any](a *Actor) bool {
	return core.HasAbilityTo[T](a)
}

// AttemptsTo performs each action in order, stopping at the first error.
func (a *Actor) AttemptsTo(ctx context.Context, actions ...core.Performable) error {
	for _, action := range actions {
		if action == nil {
			return errors.UnableToAct(a.name + " was asked to perform nothing")
		}
		if err := action.PerformAs(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Verb aliases of AttemptsTo.

func (a *Actor) WasAbleTo(ctx context.Context, actions ...core.Performable) error {
	return a.AttemptsTo(ctx, actions...)
}

func (a *Actor) Should(ctx context.Context, actions ...core.Performable) error {
	return a.AttemptsTo(ctx, actions...)
}

func (a *Actor) Shall(ctx context.Context, actions ...core.Performable) error {
	return a.AttemptsTo(ctx, actions...)
}

func (a *Actor) Will(ctx context.Context, actions ...core.Performable) error {
	return a.AttemptsTo(ctx, actions...)
}

func (a *Actor) TriesTo(ctx context.Context, actions ...core.Performable) error {
	return a.AttemptsTo(ctx, actions...)
}

func (a *Actor) Tries(ctx context.Context, actions ...core.Performable) error {
	return a.AttemptsTo(ctx, actions...)
}

func (a *Actor) Does(ctx context.Context, actions ...core.Performable) error {
	return a.AttemptsTo(ctx, actions...)
}

func (a *Actor) AttemptedTo(ctx context.Context, actions ...core.Performable) error {
	return a.AttemptsTo(ctx, actions...)
}

// HasOrderedCleanupTasks queues tasks that run in order during cleanup;
// the first failure abandons the rest.
func (a *Actor) HasOrderedCleanupTasks(tasks ...core.Performable) *Actor {
	a.orderedCleanup = append(a.orderedCleanup, tasks...)
	return a
}

// HasCleanupTasks is an alias of HasOrderedCleanupTasks.
func (a *Actor) HasCleanupTasks(tasks ...core.Performable) *Actor {
	return a.HasOrderedCleanupTasks(tasks...)
}

// HasIndependentCleanupTasks queues tasks that each run during cleanup
// whatever the others do.
func (a *Actor) HasIndependentCleanupTasks(tasks ...core.Performable) *Actor {
	a.independentCleanup = append(a.independentCleanup, tasks...)
	return a
}

// CleansUp runs the independent tasks, narrating failures as asides, then
// the ordered tasks up to the first failure, which is returned. Both queues
// are empty afterwards.
func (a *Actor) CleansUp(ctx context.Context) error {
	a.cleansUpIndependentTasks(ctx)
	return a.cleansUpOrderedTasks(ctx)
}

func (a *Actor) cleansUpIndependentTasks(ctx context.Context) {
	tasks := a.independentCleanup
	a.independentCleanup = nil
	for _, task := range tasks {
		if err := a.AttemptsTo(ctx, task); err != nil {
			narration.Aside("{actor} encountered an issue with cleanup task {task}: {error}",
				narration.With("actor", a.name),
				narration.With("task", describe.Describe(task)),
				narration.With("error", err),
				narration.WithGravitas(narration.Heavy),
			)
		}
	}
}

func (a *Actor) cleansUpOrderedTasks(ctx context.Context) error {
	tasks := a.orderedCleanup
	a.orderedCleanup = nil
	return a.AttemptsTo(ctx, tasks...)
}

// Exit cleans up, then makes every ability forget and drops them. Abilities
// forget even when cleanup failed; all errors are joined.
func (a *Actor) Exit(ctx context.Context) error {
	errs := []error{a.CleansUp(ctx)}
	for _, ability := range a.abilities {
		if err := ability.Forget(); err != nil {
			errs = append(errs, fmt.Errorf("%s forgetting %s: %w", a.name, describe.TypeName(ability), err))
		}
	}
	a.abilities = nil
	return stderrors.Join(errs...)
}

// ExitStageLeft is an alias of Exit.
func (a *Actor) ExitStageLeft(ctx context.Context) error { return a.Exit(ctx) }

// ExitStageRight is an alias of Exit.
func (a *Actor) ExitStageRight(ctx context.Context) error { return a.Exit(ctx) }
