// SPDX-License-Identifier: Apache-2.0
package resilience

import (
	"context"
	"errors"
)

// Catcher decides whether an error triggers a fallback.
type Catcher func(err error) bool

// CatchAny returns a Catcher matching errors that are, or wrap, any of
// targets (per errors.Is).
func CatchAny(targets ...error) Catcher {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// WithFallback runs primary; when it fails with an error catch accepts,
// fallback runs with that error. Other errors propagate unchanged.
func WithFallback(ctx context.Context, primary func(ctx context.Context) error, catch Catcher, fallback func(ctx context.Context, primaryErr error) error) error {
	err := primary(ctx)
	if err == nil {
		return nil
	}
	if catch == nil || !catch(err) {
		return err
	}
	return fallback(ctx, err)
}
