// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package stdout

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"

	"github.com/jllopis/screenplay/pkg/narration"
)

// captureHandler keeps every record it receives.
type captureHandler struct {
	records *[]slog.Record
}

func (h captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h captureHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}

func (h captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h captureHandler) WithGroup(string) slog.Handler      { return h }

func newCaptured(indent string) (*Adapter, *[]slog.Record) {
	records := &[]slog.Record{}
	return New(WithLogger(slog.New(captureHandler{records: records})), WithIndent(indent)), records
}

func messages(records []slog.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Message
	}
	return out
}

func TestKinkedActSceneBeatFlush(t *testing.T) {
	adapter, records := newCaptured("  ")
	n := narration.New(adapter)

	release := n.KinkTheCable()
	_ = n.Narrate(narration.ChannelAct, "A", func() error {
		return n.Narrate(narration.ChannelScene, "S", func() error {
			return n.Narrate(narration.ChannelBeat, "B", func() error { return nil })
		})
	})
	if len(*records) != 0 {
		t.Fatalf("nothing should be logged while kinked, got %q", messages(*records))
	}
	release()

	want := []string{"ACT A", "Scene: S", "    B"}
	if got := messages(*records); !slices.Equal(got, want) {
		t.Errorf("unexpected log lines:\n got %q\nwant %q", got, want)
	}
}

func TestChannelFormatting(t *testing.T) {
	adapter, records := newCaptured("--")
	n := narration.New(adapter)

	_ = n.Narrate(narration.ChannelAct, "the first act", func() error {
		return n.Narrate(narration.ChannelScene, "opening the shop", func() error {
			return n.Narrate(narration.ChannelBeat, "{actor} opens the door.", func() error {
				return n.Narrate(narration.ChannelAside, "it creaks", func() error { return nil })
			}, narration.With("actor", "Perry"))
		})
	})
	_ = n.Narrate(narration.ChannelBeat, "back at the top", func() error { return nil })

	want := []string{
		"ACT THE FIRST ACT",
		"Scene: Opening The Shop",
		"----Perry opens the door.",
		"------it creaks",
		"back at the top",
	}
	if got := messages(*records); !slices.Equal(got, want) {
		t.Errorf("unexpected log lines:\n got %q\nwant %q", got, want)
	}
}

func TestNoIndentWhenDisabled(t *testing.T) {
	adapter, records := newCaptured("")
	n := narration.New(adapter)
	_ = n.Narrate(narration.ChannelBeat, "outer", func() error {
		return n.Narrate(narration.ChannelBeat, "inner", func() error { return nil })
	})
	if got := messages(*records); !slices.Equal(got, []string{"outer", "inner"}) {
		t.Errorf("unexpected log lines %q", got)
	}
}

func TestGravitasLevels(t *testing.T) {
	adapter, records := newCaptured("")
	n := narration.New(adapter)
	for _, g := range []narration.Gravitas{narration.Airy, narration.Normal, narration.Heavy, narration.Extreme} {
		_ = n.Narrate(narration.ChannelBeat, g.String(), func() error { return nil }, narration.WithGravitas(g))
	}
	want := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	for i, r := range *records {
		if r.Level != want[i] {
			t.Errorf("%s logged at %v, want %v", r.Message, r.Level, want[i])
		}
	}
}

func TestErrorLoggedOnce(t *testing.T) {
	adapter, records := newCaptured(" ")
	n := narration.New(adapter)
	boom := errors.New("boom")

	err := n.Narrate(narration.ChannelBeat, "outer", func() error {
		return n.Narrate(narration.ChannelBeat, "inner", func() error { return boom })
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	errorsLogged := 0
	for _, r := range *records {
		if r.Level == slog.LevelError {
			errorsLogged++
		}
	}
	if errorsLogged != 1 {
		t.Errorf("expected one error record, got %d", errorsLogged)
	}
	if adapter.depth != 0 {
		t.Errorf("expected indentation to unwind, depth is %d", adapter.depth)
	}
}
