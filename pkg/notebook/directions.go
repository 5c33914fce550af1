package notebook

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/errors"
)

// DocsURL explains how notes are made and read.
const DocsURL = "https://pkg.go.dev/github.com/jllopis/screenplay/pkg/notebook"

// TheNoted reads a note from the process-wide notebook. A missing key is
// reported as UnableToDirect.
func TheNoted(key string) (any, error) {
	value, err := the.LooksUp(key)
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, errors.UnableToDirect(fmt.Sprintf(
				"could not find a note under %q; notes can only be read after the action that makes them has run, see %s",
				key, DocsURL,
			), err).WithContext("key", key)
		}
		return nil, err
	}
	return value, nil
}

// TheNotedAs reads a note and asserts its type.
func TheNotedAs[T any](key string) (T, error) {
	var zero T
	value, err := TheNoted(key)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, errors.UnableToDirect(fmt.Sprintf(
			"the note under %q is a %T, not a %T", key, value, zero,
		), nil).WithContext("key", key)
	}
	return typed, nil
}

// Noted is a question whose answer is read from the notebook when it is
// asked, so it may be composed before the note exists.
type Noted string

var _ core.Answerable = Noted("")

// AnsweredBy implements core.Answerable.
func (k Noted) AnsweredBy(context.Context, core.Actor) (any, error) {
	return TheNoted(string(k))
}

// Describe implements core.Describable.
func (k Noted) Describe() string {
	return fmt.Sprintf("The noted %q.", string(k))
}
