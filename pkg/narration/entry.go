// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package narration

import (
	"fmt"
	"maps"
	"strings"
)

// Channel names the scope of a narration event.
type Channel string

const (
	ChannelAct   Channel = "act"
	ChannelScene Channel = "scene"
	ChannelBeat  Channel = "beat"
	ChannelAside Channel = "aside"
)

// Gravitas is the importance attached to a narration event. Normal is the
// zero value.
type Gravitas int

const (
	Airy Gravitas = iota - 2
	Light
	Normal
	Heavy
	Extreme
)

func (g Gravitas) String() string {
	switch g {
	case Airy:
		return "airy"
	case Light:
		return "light"
	case Normal:
		return "normal"
	case Heavy:
		return "heavy"
	case Extreme:
		return "extreme"
	default:
		return fmt.Sprintf("gravitas(%d)", int(g))
	}
}

// Entry is one narration event as adapters see it.
type Entry struct {
	Channel  Channel
	Line     string
	Gravitas Gravitas
	Fields   map[string]any
}

// Text renders Line, replacing every {key} with the matching field.
func (e Entry) Text() string {
	if len(e.Fields) == 0 {
		return e.Line
	}
	pairs := make([]string, 0, 2*len(e.Fields))
	for key, value := range e.Fields {
		pairs = append(pairs, "{"+key+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(e.Line)
}

// Option decorates an Entry.
type Option func(*Entry)

// WithGravitas sets the entry's gravitas.
func WithGravitas(g Gravitas) Option {
	return func(e *Entry) {
		e.Gravitas = g
	}
}

// With sets one template field.
func With(key string, value any) Option {
	return func(e *Entry) {
		if e.Fields == nil {
			e.Fields = make(map[string]any)
		}
		e.Fields[key] = value
	}
}

// WithFields merges fields into the entry's template fields.
func WithFields(fields map[string]any) Option {
	return func(e *Entry) {
		if e.Fields == nil {
			e.Fields = make(map[string]any, len(fields))
		}
		maps.Copy(e.Fields, fields)
	}
}

func newEntry(channel Channel, line string, opts []Option) Entry {
	e := Entry{Channel: channel, Line: line}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
