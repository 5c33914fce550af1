// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package actions

import (
	"context"

	"github.com/jllopis/screenplay/pkg/config"
	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/describe"
	"github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
)

// Silently wraps a performable, question or resolution so that its
// narration is dropped when it succeeds. Anything else is returned as is.
// Setting unabridged_narration keeps the narration.
func Silently(x any) any {
	switch v := x.(type) {
	case core.Performable:
		return &silentPerformable{inner: v}
	case core.Answerable:
		return &silentAnswerable{inner: v}
	case core.Resolvable:
		return &silentResolvable{inner: v}
	}
	return x
}

// Quietly is an alias of Silently.
func Quietly(x any) any { return Silently(x) }

// SilentlyPerformable is Silently for callers that need a Performable.
func SilentlyPerformable(x any) (core.Performable, error) {
	p, ok := x.(core.Performable)
	if !ok {
		return nil, errors.NotPerformable(describe.TypeName(x) + " cannot be performed")
	}
	return &silentPerformable{inner: p}, nil
}

// SilentlyAnswerable is Silently for callers that need an Answerable.
func SilentlyAnswerable(x any) (core.Answerable, error) {
	q, ok := x.(core.Answerable)
	if !ok {
		return nil, errors.NotAnswerable(describe.TypeName(x) + " cannot be answered")
	}
	return &silentAnswerable{inner: q}, nil
}

// SilentlyResolvable is Silently for callers that need a Resolvable.
func SilentlyResolvable(x any) (core.Resolvable, error) {
	r, ok := x.(core.Resolvable)
	if !ok {
		return nil, errors.NotResolvable(describe.TypeName(x) + " cannot be resolved")
	}
	return &silentResolvable{inner: r}, nil
}

// hush runs fn inside a kink and discards its narration if fn succeeds.
func hush(fn func() error) error {
	n := narration.Default()
	release := n.KinkTheCable()
	defer release()
	err := fn()
	if err == nil && !config.Current().UnabridgedNarration {
		n.ClearBackup()
	}
	return err
}

type silentPerformable struct{ inner core.Performable }

func (s *silentPerformable) PerformAs(ctx context.Context, actor core.Actor) error {
	return hush(func() error { return s.inner.PerformAs(ctx, actor) })
}

func (s *silentPerformable) Describe() string { return describe.Sentence(describe.Describe(s.inner)) }

type silentAnswerable struct{ inner core.Answerable }

func (s *silentAnswerable) AnsweredBy(ctx context.Context, actor core.Actor) (value any, err error) {
	err = hush(func() error {
		value, err = s.inner.AnsweredBy(ctx, actor)
		return err
	})
	return value, err
}

func (s *silentAnswerable) Describe() string { return describe.Sentence(describe.Describe(s.inner)) }

func (s *silentAnswerable) CaughtError() error {
	if keeper, ok := s.inner.(core.ErrorKeeper); ok {
		return keeper.CaughtError()
	}
	return nil
}

type silentResolvable struct{ inner core.Resolvable }

func (s *silentResolvable) Resolve() (m core.Matcher) {
	_ = hush(func() error {
		m = s.inner.Resolve()
		return nil
	})
	return m
}

func (s *silentResolvable) Describe() string { return describe.Sentence(describe.Describe(s.inner)) }

func (s *silentResolvable) Err() error {
	if invalid, ok := s.inner.(interface{ Err() error }); ok {
		return invalid.Err()
	}
	return nil
}
