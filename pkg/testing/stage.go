// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"context"
	"testing"

	"github.com/jllopis/screenplay/pkg/actor"
	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/narration"
	"github.com/jllopis/screenplay/pkg/notebook"
)

// Stage isolates one test: a fresh default Narrator wired to a Recorder and
// an empty notebook, both restored when the test ends.
type Stage struct {
	Narrator *narration.Narrator
	Recorder *Recorder
}

// NewStage installs a Stage for t. Extra adapters are attached after the
// Recorder.
func NewStage(t testing.TB, adapters ...narration.Adapter) *Stage {
	t.Helper()
	rec := NewRecorder()
	n := narration.New(append([]narration.Adapter{rec}, adapters...)...)
	restore := narration.SetDefault(n)
	notebook.Reset()
	t.Cleanup(func() {
		restore()
		notebook.Reset()
	})
	return &Stage{Narrator: n, Recorder: rec}
}

// Actor creates an actor with abilities that exits when the test ends.
// Exit errors fail the test.
func (s *Stage) Actor(t testing.TB, name string, abilities ...core.Ability) *actor.Actor {
	t.Helper()
	a := actor.Named(name).WhoCan(abilities...)
	t.Cleanup(func() {
		if err := a.Exit(context.Background()); err != nil {
			t.Errorf("%s could not exit cleanly: %v", name, err)
		}
	})
	return a
}
