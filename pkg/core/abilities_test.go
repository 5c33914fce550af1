package core

import (
	"context"
	"errors"
	"testing"

	serrors "github.com/jllopis/screenplay/pkg/errors"
)

type browser interface {
	Ability
	Visit(url string) error
}

type fakeBrowser struct{}

func (fakeBrowser) Forget() error          { return nil }
func (fakeBrowser) Visit(url string) error { return nil }

type fakeSession struct{ closed int }

func (s *fakeSession) Forget() error {
	s.closed++
	return nil
}

type stubActor struct {
	name      string
	abilities []Ability
}

func (a *stubActor) Name() string         { return a.name }
func (a *stubActor) Abilities() []Ability { return a.abilities }
func (a *stubActor) AttemptsTo(ctx context.Context, actions ...Performable) error {
	for _, action := range actions {
		if err := action.PerformAs(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func TestAbilityToFindsFirstAssignable(t *testing.T) {
	session := &fakeSession{}
	a := &stubActor{name: "Perry", abilities: []Ability{session, fakeBrowser{}}}

	got, err := AbilityTo[*fakeSession](a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != session {
		t.Errorf("expected the installed session to be returned")
	}

	if _, err := AbilityTo[browser](a); err != nil {
		t.Errorf("expected interface lookup to succeed, got %v", err)
	}
}

func TestAbilityToMissing(t *testing.T) {
	a := &stubActor{name: "Perry"}

	_, err := AbilityTo[*fakeSession](a)
	if err == nil {
		t.Fatal("expected error for missing ability")
	}
	if !errors.Is(err, serrors.ErrUnableToPerform) {
		t.Errorf("expected UnableToPerform, got %v", err)
	}
	if HasAbilityTo[*fakeSession](a) {
		t.Errorf("HasAbilityTo should be false without the ability")
	}
}

func TestFuncAdapters(t *testing.T) {
	a := &stubActor{name: "Perry"}
	called := false
	p := PerformableFunc(func(ctx context.Context, actor Actor) error {
		called = actor.Name() == "Perry"
		return nil
	})
	if err := a.AttemptsTo(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Errorf("expected PerformableFunc to receive the actor")
	}

	q := AnswerableFunc(func(ctx context.Context, actor Actor) (any, error) { return 3, nil })
	v, err := q.AnsweredBy(context.Background(), a)
	if err != nil || v != 3 {
		t.Errorf("expected 3, got %v (%v)", v, err)
	}

	m := MatcherFunc("three", func(actual any) bool { return actual == 3 })
	if !m.Matches(3) || m.Matches(4) {
		t.Errorf("MatcherFunc predicate not applied")
	}
	if m.Describe() != "three" {
		t.Errorf("unexpected description %q", m.Describe())
	}
}
