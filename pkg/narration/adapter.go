// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package narration

import "reflect"

// Func is the user function a narration scope surrounds.
type Func func() error

// Closer ends a narration scope. Closers returned by this package are
// idempotent.
type Closer func()

// Adapter is a reporter plugged into a Narrator.
//
// Each channel method opens a reporter-side scope for entry and returns the
// function to run inside it, usually fn itself or a wrapper that calls fn
// exactly once, plus the Closer that ends the scope. A nil Func means fn is
// used unchanged; a nil Closer means there is nothing to close. Closers must
// be safe to call after fn failed.
type Adapter interface {
	Act(fn Func, entry Entry) (Func, Closer)
	Scene(fn Func, entry Entry) (Func, Closer)
	Beat(fn Func, entry Entry) (Func, Closer)
	Aside(fn Func, entry Entry) (Func, Closer)
	// Error is called for every failing scope; implementations report each
	// failure once (see ErrorMemo).
	Error(err error)
	// Attach forwards a file attachment with adapter-specific metadata.
	Attach(path string, meta map[string]any)
}

// ErrorMemo remembers reported errors so an adapter can suppress the
// repeats it receives while a failure unwinds through nested scopes.
// An error counts as seen when it is, or wraps, a remembered error.
type ErrorMemo struct {
	seen []error
}

const memoSize = 32

// FirstSighting records err and reports whether it had not been seen.
func (m *ErrorMemo) FirstSighting(err error) bool {
	if err == nil {
		return false
	}
	for _, seen := range m.seen {
		if wraps(err, seen) {
			return false
		}
	}
	m.seen = append(m.seen, err)
	if len(m.seen) > memoSize {
		m.seen = m.seen[len(m.seen)-memoSize:]
	}
	return true
}

// wraps walks err's chain looking for target by identity only.
func wraps(err, target error) bool {
	for err != nil {
		if identical(err, target) {
			return true
		}
		switch x := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				if wraps(inner, target) {
					return true
				}
			}
			return false
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		default:
			return false
		}
	}
	return false
}

func identical(a, b error) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func once(fn func()) Closer {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		fn()
	}
}

func noop() {}
