package actions

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/describe"
	"github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
	"github.com/jllopis/screenplay/pkg/notebook"
	"github.com/jllopis/screenplay/pkg/resilience"
)

// MakeNoteAction stores an answer in the notebook. The note can be read
// once the action has been performed.
type MakeNoteAction struct {
	question any
	key      string
}

// MakeNote notes question's answer, or the value itself when question is
// not a core.Answerable. Name the note with As.
func MakeNote(question any) *MakeNoteAction {
	return &MakeNoteAction{question: question}
}

// As names the note.
func (m *MakeNoteAction) As(key string) *MakeNoteAction {
	m.key = key
	return m
}

// Describe implements core.Describable.
func (m *MakeNoteAction) Describe() string {
	return fmt.Sprintf("Make a note under %q.", m.key)
}

// PerformAs implements core.Performable.
func (m *MakeNoteAction) PerformAs(ctx context.Context, actor core.Actor) error {
	if m.key == "" {
		return errors.UnableToAct("MakeNote needs a key; name the note with As")
	}
	return narration.Beat("{actor} jots something down under {key}.",
		func() error {
			value, err := answer(ctx, actor, m.question)
			if err != nil {
				return err
			}
			notebook.Default().Notes(m.key, value)
			return nil
		},
		actorField(actor),
		narration.With("key", strconv.Quote(m.key)),
	)
}

// PauseAction waits. Every pause needs a reason so the log explains it.
type PauseAction struct {
	n        float64
	duration time.Duration
	reason   string

	sleep func(ctx context.Context, d time.Duration) error
}

// Pause starts a pause of n units; finish it with SecondsBecause or
// MillisecondsBecause.
func Pause(n float64) *PauseAction {
	return &PauseAction{n: n}
}

// SecondsBecause sets the pause to n seconds for reason.
func (p *PauseAction) SecondsBecause(reason string) *PauseAction {
	p.duration = time.Duration(p.n * float64(time.Second))
	p.reason = reason
	return p
}

// MillisecondsBecause sets the pause to n milliseconds for reason.
func (p *PauseAction) MillisecondsBecause(reason string) *PauseAction {
	p.duration = time.Duration(p.n * float64(time.Millisecond))
	p.reason = reason
	return p
}

func (p *PauseAction) because() string {
	reason := strings.TrimSpace(p.reason)
	if strings.HasPrefix(reason, "because ") {
		return reason
	}
	return "because " + reason
}

// Describe implements core.Describable.
func (p *PauseAction) Describe() string {
	return describe.Sentence(fmt.Sprintf("pause for %s %s", p.duration, p.because()))
}

// PerformAs implements core.Performable.
func (p *PauseAction) PerformAs(ctx context.Context, actor core.Actor) error {
	if strings.TrimSpace(p.reason) == "" {
		return errors.UnableToAct("cannot Pause without a reason; use SecondsBecause or MillisecondsBecause")
	}
	if p.duration < 0 {
		return errors.UnableToAct(fmt.Sprintf("cannot Pause for a negative duration, got %s", p.duration))
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = resilience.Sleep
	}
	return narration.Beat("{actor} pauses for {duration} {reason}.",
		func() error { return sleep(ctx, p.duration) },
		actorField(actor),
		narration.With("duration", p.duration),
		narration.With("reason", p.because()),
	)
}

// AttachTheFileAction hands a file to the adapters, which may embed it in
// their reports.
type AttachTheFileAction struct {
	path string
	meta map[string]any
}

// AttachTheFile attaches the file at path with adapter-specific metadata.
func AttachTheFile(path string, meta map[string]any) *AttachTheFileAction {
	return &AttachTheFileAction{path: path, meta: meta}
}

// Describe implements core.Describable.
func (a *AttachTheFileAction) Describe() string {
	return fmt.Sprintf("Attach a file named %s.", filepath.Base(a.path))
}

// PerformAs implements core.Performable.
func (a *AttachTheFileAction) PerformAs(ctx context.Context, actor core.Actor) error {
	if a.path == "" {
		return errors.UnableToAct("AttachTheFile needs a path")
	}
	return narration.Beat("{actor} attaches a file named {name}.",
		func() error {
			narration.AttachesAFile(a.path, a.meta)
			return nil
		},
		actorField(actor),
		narration.With("name", filepath.Base(a.path)),
	)
}

// LogAction narrates a question's answer as an aside.
type LogAction struct {
	question any
}

// Log examines question and whispers its answer.
func Log(question any) *LogAction {
	return &LogAction{question: question}
}

// Describe implements core.Describable.
func (l *LogAction) Describe() string {
	return describe.Sentence("log " + subject(l.question))
}

// PerformAs implements core.Performable.
func (l *LogAction) PerformAs(ctx context.Context, actor core.Actor) error {
	return narration.Beat("{actor} examines {question}.",
		func() error {
			value, err := answer(ctx, actor, l.question)
			if err != nil {
				return err
			}
			narration.Aside("{value}", narration.With("value", describe.RepresentProp(value)))
			return nil
		},
		actorField(actor),
		narration.With("question", subject(l.question)),
	)
}
