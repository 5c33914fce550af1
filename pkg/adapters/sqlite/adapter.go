package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jllopis/screenplay/pkg/narration"
)

// Adapter writes narration to a Store. Write failures are logged, never
// returned: a broken audit log must not fail the performance.
type Adapter struct {
	store *Store
	runID string
	seq   int64
	stack []int64
	memo  narration.ErrorMemo
	now   func() time.Time
}

var _ narration.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithRunID labels the records with id instead of a fresh UUID.
func WithRunID(id string) Option {
	return func(a *Adapter) {
		a.runID = id
	}
}

// New creates an Adapter writing to store under a new run.
func New(store *Store, opts ...Option) *Adapter {
	a := &Adapter{
		store: store,
		runID: uuid.NewString(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunID identifies this adapter's records.
func (a *Adapter) RunID() string { return a.runID }

func (a *Adapter) Act(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return a.open(fn, e)
}

func (a *Adapter) Scene(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return a.open(fn, e)
}

func (a *Adapter) Beat(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return a.open(fn, e)
}

func (a *Adapter) Aside(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	return a.open(fn, e)
}

func (a *Adapter) open(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	seq := a.write(Record{
		Kind:     string(e.Channel),
		Line:     e.Text(),
		Gravitas: e.Gravitas.String(),
	})
	a.stack = append(a.stack, seq)
	closed := false
	return fn, func() {
		if closed {
			return
		}
		closed = true
		for i := len(a.stack) - 1; i >= 0; i-- {
			if a.stack[i] == seq {
				a.stack = a.stack[:i]
				break
			}
		}
	}
}

// Error records the first sighting of err under the innermost scope.
func (a *Adapter) Error(err error) {
	if !a.memo.FirstSighting(err) {
		return
	}
	a.write(Record{Kind: KindError, ErrorText: err.Error()})
}

// Attach records an attachment under the innermost scope.
func (a *Adapter) Attach(path string, meta map[string]any) {
	a.write(Record{Kind: KindAttachment, Attachment: path, Meta: meta})
}

// write fills the run, position and time of r and stores it.
func (a *Adapter) write(r Record) int64 {
	a.seq++
	r.RunID = a.runID
	r.Seq = a.seq
	r.Depth = len(a.stack)
	if len(a.stack) > 0 {
		r.ParentSeq = a.stack[len(a.stack)-1]
	}
	r.CreatedAt = a.now()
	if err := a.store.Record(context.Background(), r); err != nil {
		slog.Warn("sqlite narration write failed", "run_id", a.runID, "seq", r.Seq, "error", err)
	}
	return r.Seq
}
