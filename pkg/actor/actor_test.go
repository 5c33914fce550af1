// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package actor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jllopis/screenplay/pkg/core"
	serrors "github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
)

type mockAbility struct {
	forgotten int
	err       error
}

func (m *mockAbility) Forget() error {
	m.forgotten++
	return m.err
}

type otherAbility struct{ forgotten int }

func (o *otherAbility) Forget() error {
	o.forgotten++
	return nil
}

// mockTask records each call and optionally fails.
type mockTask struct {
	name    string
	calls   []core.Actor
	err     error
	journal *[]string
}

func (m *mockTask) PerformAs(ctx context.Context, a core.Actor) error {
	m.calls = append(m.calls, a)
	if m.journal != nil {
		*m.journal = append(*m.journal, m.name)
	}
	return narration.Beat("{actor} does "+m.name, func() error { return m.err },
		narration.With("actor", a.Name()))
}

// asideAdapter counts scopes per channel.
type asideAdapter struct {
	opened map[narration.Channel][]string
}

func (c *asideAdapter) open(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	c.opened[e.Channel] = append(c.opened[e.Channel], e.Text())
	return fn, nil
}

func (c *asideAdapter) Act(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return c.open(fn, e)
}
func (c *asideAdapter) Scene(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return c.open(fn, e)
}
func (c *asideAdapter) Beat(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return c.open(fn, e)
}
func (c *asideAdapter) Aside(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return c.open(fn, e)
}
func (c *asideAdapter) Error(error)                   {}
func (c *asideAdapter) Attach(string, map[string]any) {}

func onStage(t *testing.T) *asideAdapter {
	t.Helper()
	adapter := &asideAdapter{opened: map[narration.Channel][]string{}}
	restore := narration.SetDefault(narration.New(adapter))
	t.Cleanup(restore)
	return adapter
}

func TestHappyPath(t *testing.T) {
	adapter := onStage(t)
	perry := Named("Perry").WhoCan(&mockAbility{})
	tasks := []*mockTask{{name: "one"}, {name: "two"}, {name: "three"}}

	if err := perry.AttemptsTo(context.Background(), tasks[0], tasks[1], tasks[2]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, task := range tasks {
		if len(task.calls) != 1 || task.calls[0] != perry {
			t.Errorf("task %s: expected one call with Perry, got %v", task.name, task.calls)
		}
	}
	if got := len(adapter.opened[narration.ChannelBeat]); got != 3 {
		t.Errorf("expected 3 beats, got %d", got)
	}
}

func TestAttemptsToStopsAtFirstError(t *testing.T) {
	onStage(t)
	boom := errors.New("boom")
	first, second := &mockTask{name: "first", err: boom}, &mockTask{name: "second"}

	err := Named("Perry").AttemptsTo(context.Background(), first, second)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(second.calls) != 0 {
		t.Errorf("second task should not run after a failure")
	}
}

func TestAliasesDispatch(t *testing.T) {
	onStage(t)
	perry := Named("Perry")
	ctx := context.Background()
	verbs := []func(context.Context, ...core.Performable) error{
		perry.AttemptsTo, perry.WasAbleTo, perry.Should, perry.Shall, perry.Will,
		perry.TriesTo, perry.Tries, perry.Does, perry.AttemptedTo,
	}
	task := &mockTask{name: "alias"}
	for _, verb := range verbs {
		if err := verb(ctx, task); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(task.calls) != len(verbs) {
		t.Errorf("expected %d calls, got %d", len(verbs), len(task.calls))
	}
}

func TestAbilityLookup(t *testing.T) {
	mock := &mockAbility{}
	perry := Named("Perry").WhoCan(mock).Can(&otherAbility{})

	got, err := AbilityTo[*mockAbility](perry)
	if err != nil || got != mock {
		t.Fatalf("expected the mock ability, got %v (%v)", got, err)
	}
	if !HasAbilityTo[*otherAbility](perry) {
		t.Errorf("expected Perry to have the other ability")
	}
	if _, err := UsesAbilityTo[interface{ Visit() }](perry); !errors.Is(err, serrors.ErrUnableToPerform) {
		t.Errorf("expected UnableToPerform, got %v", err)
	}
	if len(perry.Abilities()) != 2 {
		t.Errorf("expected two abilities")
	}
}

func TestDuplicateAbilityTypePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, serrors.ErrUnableToAct) {
			t.Errorf("expected UnableToAct panic, got %v", r)
		}
	}()
	Named("Perry").WhoCan(&mockAbility{}, &mockAbility{})
}

func TestNilAbilityPanics(t *testing.T) {
	tests := []struct {
		name    string
		ability core.Ability
	}{
		{"untyped nil", nil},
		{"nil pointer", (*mockAbility)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perry := Named("Perry")
			func() {
				defer func() {
					r := recover()
					err, ok := r.(error)
					if !ok || !errors.Is(err, serrors.ErrUnableToAct) {
						t.Errorf("expected UnableToAct panic, got %v", r)
					}
				}()
				perry.WhoCan(tt.ability)
			}()
			if len(perry.Abilities()) != 0 {
				t.Errorf("the nil ability must not be installed")
			}
			if err := perry.Exit(context.Background()); err != nil {
				t.Errorf("unexpected exit error: %v", err)
			}
		})
	}
}

func TestOrderedCleanupAbortsAndDiscards(t *testing.T) {
	onStage(t)
	var journal []string
	boom := errors.New("t2 failed")
	t1 := &mockTask{name: "t1", journal: &journal}
	t2 := &mockTask{name: "t2", err: boom, journal: &journal}
	t3 := &mockTask{name: "t3", journal: &journal}
	ability := &mockAbility{}

	perry := Named("Perry").WhoCan(ability).HasOrderedCleanupTasks(t1, t2, t3)
	err := perry.Exit(context.Background())

	if !errors.Is(err, boom) {
		t.Errorf("expected the cleanup failure to surface, got %v", err)
	}
	if strings.Join(journal, ",") != "t1,t2" {
		t.Errorf("unexpected cleanup order %v", journal)
	}
	if len(t3.calls) != 0 {
		t.Errorf("t3 must not run after t2 failed")
	}
	if len(perry.orderedCleanup) != 0 {
		t.Errorf("ordered queue should be empty")
	}
	if ability.forgotten != 1 {
		t.Errorf("expected forget once, got %d", ability.forgotten)
	}
	if len(perry.Abilities()) != 0 {
		t.Errorf("abilities should be dropped on exit")
	}
}

func TestIndependentCleanupContinues(t *testing.T) {
	adapter := onStage(t)
	var journal []string
	t1 := &mockTask{name: "t1", journal: &journal}
	t2 := &mockTask{name: "t2", err: errors.New("t2 failed"), journal: &journal}
	t3 := &mockTask{name: "t3", journal: &journal}

	perry := Named("Perry").HasIndependentCleanupTasks(t1, t2, t3)
	if err := perry.CleansUp(context.Background()); err != nil {
		t.Fatalf("independent failures must not surface, got %v", err)
	}

	if strings.Join(journal, ",") != "t1,t2,t3" {
		t.Errorf("unexpected cleanup order %v", journal)
	}
	asides := adapter.opened[narration.ChannelAside]
	if len(asides) != 1 || !strings.Contains(asides[0], "t2 failed") {
		t.Errorf("expected one aside about t2, got %q", asides)
	}
	if len(perry.independentCleanup) != 0 {
		t.Errorf("independent queue should be empty")
	}
}

func TestExitForgetsEveryAbilityOnce(t *testing.T) {
	onStage(t)
	failing := &mockAbility{err: errors.New("socket already closed")}
	other := &otherAbility{}
	perry := Named("Perry").WhoCan(failing, other).
		HasIndependentCleanupTasks(&mockTask{name: "tidy"}).
		HasCleanupTasks(&mockTask{name: "logout"})

	err := perry.ExitStageLeft(context.Background())
	if err == nil || !strings.Contains(err.Error(), "socket already closed") {
		t.Errorf("expected forget error to surface, got %v", err)
	}
	if failing.forgotten != 1 || other.forgotten != 1 {
		t.Errorf("expected each ability to forget once, got %d and %d", failing.forgotten, other.forgotten)
	}

	if err := perry.ExitStageRight(context.Background()); err != nil {
		t.Errorf("second exit should be a no-op, got %v", err)
	}
	if failing.forgotten != 1 {
		t.Errorf("abilities must not forget twice")
	}
}

func TestAttemptsToRejectsNil(t *testing.T) {
	err := Named("Perry").AttemptsTo(context.Background(), nil)
	if !errors.Is(err, serrors.ErrUnableToAct) {
		t.Errorf("expected UnableToAct, got %v", err)
	}
}
