// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracing reports narration as OpenTelemetry spans: every act,
// scene, beat and aside becomes a span nested under the scope that was open
// when it started.
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/screenplay/pkg/narration"
	"github.com/jllopis/screenplay/pkg/telemetry"
)

const instrumentationName = "github.com/jllopis/screenplay/pkg/adapters/tracing"

// Adapter turns narration scopes into spans.
type Adapter struct {
	tracer  trace.Tracer
	metrics *telemetry.NarrationMetrics
	root    context.Context
	stack   []*scope
	memo    narration.ErrorMemo
}

type scope struct {
	ctx     context.Context
	span    trace.Span
	started time.Time
	failed  bool
}

var _ narration.Adapter = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithTracerProvider uses tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Adapter) {
		a.tracer = tp.Tracer(instrumentationName)
	}
}

// WithMetrics records scope, error and attachment counts.
func WithMetrics(m *telemetry.NarrationMetrics) Option {
	return func(a *Adapter) {
		a.metrics = m
	}
}

// WithContext parents top-level spans under ctx.
func WithContext(ctx context.Context) Option {
	return func(a *Adapter) {
		a.root = ctx
	}
}

// New creates an Adapter on the global tracer provider.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		tracer: otel.Tracer(instrumentationName),
		root:   context.Background(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Context returns the context of the innermost open scope, so logs and
// downstream calls can join the trace.
func (a *Adapter) Context() context.Context {
	if len(a.stack) == 0 {
		return a.root
	}
	return a.stack[len(a.stack)-1].ctx
}

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
	ctx, span := a.tracer.Start(a.Context(), spanName(e),
		trace.WithAttributes(telemetry.EntryAttributes(e)...),
	)
	s := &scope{ctx: ctx, span: span, started: time.Now()}
	a.stack = append(a.stack, s)

	wrapped := func() error {
		err := fn()
		if err != nil {
			s.failed = true
		}
		return err
	}
	closed := false
	return wrapped, func() {
		if closed {
			return
		}
		closed = true
		a.pop(s)
		span.End()
		a.metrics.RecordScope(ctx, e.Channel, e.Gravitas, time.Since(s.started), s.failed)
	}
}

// pop removes s and anything opened after it.
func (a *Adapter) pop(s *scope) {
	for i := len(a.stack) - 1; i >= 0; i-- {
		if a.stack[i] == s {
			a.stack = a.stack[:i]
			return
		}
	}
}

// Error marks the innermost open span as failed. The error is recorded as
// a span event only on its first sighting; enclosing spans get the status.
func (a *Adapter) Error(err error) {
	if len(a.stack) == 0 {
		return
	}
	s := a.stack[len(a.stack)-1]
	s.failed = true
	s.span.SetStatus(codes.Error, err.Error())
	if a.memo.FirstSighting(err) {
		s.span.RecordError(err)
		a.metrics.RecordError(s.ctx, err)
	}
}

// Attach adds an attachment event to the innermost open span.
func (a *Adapter) Attach(path string, meta map[string]any) {
	ctx := a.Context()
	trace.SpanFromContext(ctx).AddEvent("attachment",
		trace.WithAttributes(telemetry.AttachmentAttributes(path, meta)...),
	)
	a.metrics.RecordAttachment(ctx)
}

func spanName(e narration.Entry) string {
	text := e.Text()
	if text == "" {
		return string(e.Channel)
	}
	return string(e.Channel) + ": " + text
}
