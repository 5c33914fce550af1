package notebook

import (
	"context"
	"errors"
	"slices"
	"testing"

	serrors "github.com/jllopis/screenplay/pkg/errors"
)

func TestNotesAndLooksUp(t *testing.T) {
	n := New()
	n.Notes("title", "Welcome")
	n.Notes("count", 3)
	n.Notes("title", "Welcome back")

	got, err := n.LooksUp("title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Welcome back" {
		t.Errorf("expected the latest note, got %v", got)
	}
	if keys := n.Keys(); !slices.Equal(keys, []string{"count", "title"}) {
		t.Errorf("unexpected keys %v", keys)
	}

	n.Clear()
	if _, err := n.LooksUp("title"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Clear, got %v", err)
	}
}

func TestTheNoted(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	Default().Notes("order id", 1234)

	got, err := TheNoted("order id")
	if err != nil || got != 1234 {
		t.Errorf("expected 1234, got %v (%v)", got, err)
	}

	id, err := TheNotedAs[int]("order id")
	if err != nil || id != 1234 {
		t.Errorf("expected typed 1234, got %v (%v)", id, err)
	}
	if _, err := TheNotedAs[string]("order id"); !errors.Is(err, serrors.ErrUnableToDirect) {
		t.Errorf("expected UnableToDirect for a type mismatch, got %v", err)
	}
}

func TestTheNotedMissing(t *testing.T) {
	Reset()
	_, err := TheNoted("nothing here")
	if !errors.Is(err, serrors.ErrUnableToDirect) {
		t.Fatalf("expected UnableToDirect, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected the lookup miss to be chained")
	}
}

func TestNotedQuestion(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	q := Noted("greeting")

	if _, err := q.AnsweredBy(context.Background(), nil); !errors.Is(err, serrors.ErrUnableToDirect) {
		t.Errorf("expected UnableToDirect before the note exists, got %v", err)
	}
	Default().Notes("greeting", "hi")
	got, err := q.AnsweredBy(context.Background(), nil)
	if err != nil || got != "hi" {
		t.Errorf("expected hi, got %v (%v)", got, err)
	}
	if q.Describe() != `The noted "greeting".` {
		t.Errorf("unexpected description %q", q.Describe())
	}
}
