// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

// Package actions holds the performables every suite needs regardless of
// the abilities in play: assertions, retries, fallbacks, quieting, notes,
// pauses, attachments and logging.
package actions

import (
	"context"

	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/describe"
	"github.com/jllopis/screenplay/pkg/narration"
)

// answer asks x when it is a question and returns it unchanged otherwise.
func answer(ctx context.Context, actor core.Actor, x any) (any, error) {
	if q, ok := x.(core.Answerable); ok {
		return q.AnsweredBy(ctx, actor)
	}
	return x, nil
}

// subject names x for a log line: questions and describables by their
// description, plain values by their representation.
func subject(x any) string {
	switch x.(type) {
	case core.Describable, core.Answerable:
		return describe.Describe(x)
	}
	return describe.RepresentProp(x)
}

func describeAll(performables []core.Performable) string {
	switch len(performables) {
	case 0:
		return "nothing"
	case 1:
		return describe.Describe(performables[0])
	}
	s := describe.Describe(performables[0])
	for _, p := range performables[1:len(performables)-1] {
		s += ", " + describe.Describe(p)
	}
	return s + " then " + describe.Describe(performables[len(performables)-1])
}

func actorField(actor core.Actor) narration.Option {
	return narration.With("actor", actor.Name())
}
