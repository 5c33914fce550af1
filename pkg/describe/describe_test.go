// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package describe

import (
	"context"
	"testing"
	"time"

	"github.com/jllopis/screenplay/pkg/core"
)

type describedTask struct{ sentence string }

func (d describedTask) Describe() string { return d.sentence }

type OpenHomepage struct{}

func (OpenHomepage) PerformAs(context.Context, core.Actor) error { return nil }

type TheTitle struct{}

func (*TheTitle) AnsweredBy(context.Context, core.Actor) (any, error) { return "", nil }

type ReadsTitle[T any] struct{}

func (ReadsTitle[T]) Resolve() core.Matcher { return nil }

type plainThing struct{}

type stringer struct{}

func (stringer) String() string { return "a stringer" }

type bracketed struct{}

func (bracketed) String() string { return "<already>" }

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"describable", describedTask{"Open the homepage."}, "open the homepage"},
		{"describable question mark", describedTask{"Is it open?"}, "is it open"},
		{"only one mark stripped", describedTask{"Wait..."}, "wait.."},
		{"empty describable", describedTask{""}, Indescribable},
		{"performable", OpenHomepage{}, "open homepage"},
		{"pointer answerable", &TheTitle{}, "the title"},
		{"generic resolvable", ReadsTitle[string]{}, "reads title"},
		{"plain struct", plainThing{}, "the plainThing"},
		{"int", 3, "the int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.in); got != tt.want {
				t.Errorf("Describe(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRepresentProp(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, "<42>"},
		{"already bracketed", "<x>", `"<x>"`},
		{"stringer", stringer{}, "<a stringer>"},
		{"duration", 1500 * time.Millisecond, "<1.5s>"},
		{"bracketed stringer", bracketed{}, "<already>"},
		{"matcher", core.MatcherFunc("a value equal to 4", nil), "a value equal to 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepresentProp(tt.in); got != tt.want {
				t.Errorf("RepresentProp(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSentence(t *testing.T) {
	if got := Sentence("open the homepage"); got != "Open the homepage." {
		t.Errorf("unexpected sentence %q", got)
	}
	if got := Sentence("is it open?"); got != "Is it open?" {
		t.Errorf("unexpected sentence %q", got)
	}
}
