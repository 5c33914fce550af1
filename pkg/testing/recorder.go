// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/jllopis/screenplay/pkg/narration"
)

// EventKind classifies what a Recorder saw.
type EventKind string

const (
	EventOpen   EventKind = "open"
	EventClose  EventKind = "close"
	EventError  EventKind = "error"
	EventAttach EventKind = "attach"
)

// Event is one adapter call captured by a Recorder.
type Event struct {
	Kind     EventKind
	Channel  narration.Channel
	Text     string
	Gravitas narration.Gravitas
	Depth    int
	Err      error
	Path     string
	Meta     map[string]any
}

func (e Event) String() string {
	switch e.Kind {
	case EventError:
		return fmt.Sprintf("error %v", e.Err)
	case EventAttach:
		return "attach " + e.Path
	}
	return fmt.Sprintf("%s %s %s", e.Kind, e.Channel, e.Text)
}

// Recorder is a narration adapter that keeps every call it receives. Errors
// are recorded on first sighting only, as a real reporter would show them.
type Recorder struct {
	mu     sync.RWMutex
	events []Event
	depth  int
	memo   narration.ErrorMemo
}

var _ narration.Adapter = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{events: make([]Event, 0)}
}

func (r *Recorder) open(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		Kind:     EventOpen,
		Channel:  e.Channel,
		Text:     e.Text(),
		Gravitas: e.Gravitas,
		Depth:    r.depth,
	})
	r.depth++
	return fn, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.depth--
		r.events = append(r.events, Event{Kind: EventClose, Channel: e.Channel, Text: e.Text(), Depth: r.depth})
	}
}

func (r *Recorder) Act(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return r.open(fn, e)
}

func (r *Recorder) Scene(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return r.open(fn, e)
}

func (r *Recorder) Beat(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return r.open(fn, e)
}

func (r *Recorder) Aside(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return r.open(fn, e)
}

func (r *Recorder) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.memo.FirstSighting(err) {
		return
	}
	r.events = append(r.events, Event{Kind: EventError, Err: err, Depth: r.depth})
}

func (r *Recorder) Attach(path string, meta map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: EventAttach, Path: path, Meta: maps.Clone(meta), Depth: r.depth})
}

// Events returns a copy of everything recorded.
func (r *Recorder) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Event, len(r.events))
	copy(result, r.events)
	return result
}

// Lines returns the text of every opened scope, indented two spaces per
// level of nesting.
func (r *Recorder) Lines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var lines []string
	for _, e := range r.events {
		if e.Kind == EventOpen {
			lines = append(lines, strings.Repeat("  ", e.Depth)+e.Text)
		}
	}
	return lines
}

// Texts returns the text of every scope opened on channel.
func (r *Recorder) Texts(channel narration.Channel) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var texts []string
	for _, e := range r.events {
		if e.Kind == EventOpen && e.Channel == channel {
			texts = append(texts, e.Text)
		}
	}
	return texts
}

// Errors returns the reported errors in order.
func (r *Recorder) Errors() []error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var errs []error
	for _, e := range r.events {
		if e.Kind == EventError {
			errs = append(errs, e.Err)
		}
	}
	return errs
}

// Attachments returns the attached paths in order.
func (r *Recorder) Attachments() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var paths []string
	for _, e := range r.events {
		if e.Kind == EventAttach {
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// Narrated reports whether any opened scope's text satisfies m.
func (r *Recorder) Narrated(m StringMatcher) bool {
	for _, line := range r.Lines() {
		if m.Match(strings.TrimLeft(line, " ")) {
			return true
		}
	}
	return false
}

// Count returns the number of recorded events.
func (r *Recorder) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// Reset clears everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = r.events[:0]
	r.depth = 0
	r.memo = narration.ErrorMemo{}
}
