// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

// Package narration fans one stream of nested narration events out to any
// number of reporting adapters.
//
// Every emit opens a scope on each adapter in registration order, chaining
// the function each adapter hands back, and returns the outermost function
// together with a Closer that unwinds the adapters in reverse order:
//
//	fn, done, err := narrator.StatingABeat(clickTheButton, "{actor} clicks {target}",
//	    narration.With("actor", "Perry"), narration.With("target", "the button"))
//	if err != nil {
//	    return err
//	}
//	defer done()
//	return fn()
//
// While the microphone cable is kinked, emits are buffered instead and
// replayed with the same nesting once the outermost kink is released.
//
// A Narrator is not safe for concurrent use; a performance runs on a
// single goroutine.
package narration

import (
	"slices"

	"github.com/jllopis/screenplay/pkg/errors"
)

// Narrator is the reporting bus between performances and adapters.
type Narrator struct {
	adapters  []Adapter
	onAir     bool
	backups   [][]record
	exitLevel int
}

// New creates an on-air Narrator with the given adapters.
func New(adapters ...Adapter) *Narrator {
	return &Narrator{
		adapters:  slices.Clone(adapters),
		onAir:     true,
		exitLevel: 1,
	}
}

// AttachAdapter registers a, after the adapters already present.
func (n *Narrator) AttachAdapter(a Adapter) {
	n.adapters = append(n.adapters, a)
}

// Adapters returns the registered adapters in fan-out order.
func (n *Narrator) Adapters() []Adapter {
	return slices.Clone(n.adapters)
}

// OnAir reports whether emits currently reach the adapters.
func (n *Narrator) OnAir() bool {
	return n.onAir
}

// OffTheAir suspends narration until the returned func is called.
func (n *Narrator) OffTheAir() (backOnAir func()) {
	previous := n.onAir
	n.onAir = false
	return once(func() { n.onAir = previous })
}

// AnnouncingTheAct opens an act scope around fn.
func (n *Narrator) AnnouncingTheAct(fn Func, line string, opts ...Option) (Func, Closer, error) {
	return n.open(ChannelAct, fn, line, opts)
}

// SettingTheScene opens a scene scope around fn.
func (n *Narrator) SettingTheScene(fn Func, line string, opts ...Option) (Func, Closer, error) {
	return n.open(ChannelScene, fn, line, opts)
}

// StatingABeat opens a beat scope around fn.
func (n *Narrator) StatingABeat(fn Func, line string, opts ...Option) (Func, Closer, error) {
	return n.open(ChannelBeat, fn, line, opts)
}

// WhisperingAnAside opens an aside scope around fn.
func (n *Narrator) WhisperingAnAside(fn Func, line string, opts ...Option) (Func, Closer, error) {
	return n.open(ChannelAside, fn, line, opts)
}

// Narrate opens a scope on channel, runs fn inside it and closes it.
func (n *Narrator) Narrate(channel Channel, line string, fn Func, opts ...Option) error {
	wrapped, done, err := n.open(channel, fn, line, opts)
	if err != nil {
		return err
	}
	defer done()
	return wrapped()
}

// AttachesAFile forwards an attachment to every adapter. Attachments are
// dropped while off the air.
func (n *Narrator) AttachesAFile(path string, meta map[string]any) {
	if !n.onAir {
		return
	}
	for _, a := range n.adapters {
		a.Attach(path, meta)
	}
}

func (n *Narrator) open(channel Channel, fn Func, line string, opts []Option) (Func, Closer, error) {
	if fn == nil {
		return nil, noop, errors.UnableToNarrate("narration requires a function to run").
			WithContext("channel", string(channel)).
			WithContext("line", line)
	}
	if !n.onAir {
		return fn, noop, nil
	}
	entry := newEntry(channel, line, opts)
	if n.CableKinked() {
		failure := new(error)
		top := len(n.backups) - 1
		n.backups[top] = append(n.backups[top], record{entry: entry, fn: fn, level: n.exitLevel, failure: failure})
		n.exitLevel++
		wrapped := func() error {
			err := fn()
			if err != nil {
				*failure = err
			}
			return err
		}
		return wrapped, once(func() { n.exitLevel-- }), nil
	}
	wrapped, done := n.entangle(entry, fn)
	return wrapped, done, nil
}

// entangle chains every adapter's scope around fn. The returned Func
// reports a failure to all adapters before passing it on.
func (n *Narrator) entangle(entry Entry, fn Func) (Func, Closer) {
	adapters := slices.Clone(n.adapters)
	closers := make([]Closer, 0, len(adapters))
	enclosed := fn
	for _, a := range adapters {
		var closer Closer
		enclosed, closer = enter(a, entry, enclosed)
		closers = append(closers, closer)
	}
	wrapped := func() error {
		err := enclosed()
		if err != nil {
			for _, a := range adapters {
				a.Error(err)
			}
		}
		return err
	}
	return wrapped, once(func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	})
}

func enter(a Adapter, entry Entry, fn Func) (Func, Closer) {
	var (
		wrapped Func
		closer  Closer
	)
	switch entry.Channel {
	case ChannelAct:
		wrapped, closer = a.Act(fn, entry)
	case ChannelScene:
		wrapped, closer = a.Scene(fn, entry)
	case ChannelBeat:
		wrapped, closer = a.Beat(fn, entry)
	default:
		wrapped, closer = a.Aside(fn, entry)
	}
	if wrapped == nil {
		wrapped = fn
	}
	if closer == nil {
		closer = noop
	}
	return wrapped, closer
}
