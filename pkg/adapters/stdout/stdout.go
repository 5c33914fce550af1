// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

// Package stdout is the reference narration adapter. It writes every event
// to a slog.Logger: acts as "ACT <TITLE>", scenes as "Scene: <Title>", and
// beats and asides indented one unit per open narration scope.
package stdout

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jllopis/screenplay/pkg/config"
	"github.com/jllopis/screenplay/pkg/narration"
)

// Adapter logs narration through a slog.Logger.
type Adapter struct {
	logger *slog.Logger
	indent string
	depth  int
	memo   narration.ErrorMemo
	title  cases.Caser
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the destination logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithIndent sets the whitespace written once per open scope.
func WithIndent(unit string) Option {
	return func(a *Adapter) {
		a.indent = unit
	}
}

// New creates an Adapter writing to slog.Default() and indenting as the
// current settings say.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		logger: slog.Default(),
		indent: config.Current().Indent(),
		title:  cases.Title(language.Und, cases.NoLower),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ narration.Adapter = (*Adapter)(nil)

// Act logs "ACT <TITLE>".
func (a *Adapter) Act(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	a.log(e, "ACT "+strings.ToUpper(e.Text()))
	return fn, a.nest()
}

// Scene logs "Scene: <Title>".
func (a *Adapter) Scene(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	a.log(e, "Scene: "+a.title.String(e.Text()))
	return fn, a.nest()
}

// Beat logs the line at the current indentation.
func (a *Adapter) Beat(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	a.log(e, a.prefix()+e.Text())
	return fn, a.nest()
}

// Aside logs the line at the current indentation.
func (a *Adapter) Aside(fn narration.Func, e narration.Entry) (narration.Func, narration.Closer) {
	a.log(e, a.prefix()+e.Text())
	return fn, a.nest()
}

// Error logs the first sighting of err.
func (a *Adapter) Error(err error) {
	if !a.memo.FirstSighting(err) {
		return
	}
	a.logger.Error(a.prefix()+"***ERROR***", "error", err)
}

// Attach notes the attachment at debug level.
func (a *Adapter) Attach(path string, meta map[string]any) {
	args := make([]any, 0, 2+2*len(meta))
	args = append(args, "path", path)
	for k, v := range meta {
		args = append(args, k, v)
	}
	a.logger.Debug(a.prefix()+"attached a file", args...)
}

func (a *Adapter) log(e narration.Entry, msg string) {
	a.logger.Log(context.Background(), level(e.Gravitas), msg, "channel", string(e.Channel))
}

func (a *Adapter) prefix() string {
	if a.indent == "" || a.depth == 0 {
		return ""
	}
	return strings.Repeat(a.indent, a.depth)
}

func (a *Adapter) nest() narration.Closer {
	a.depth++
	closed := false
	return func() {
		if closed {
			return
		}
		closed = true
		a.depth--
	}
}

func level(g narration.Gravitas) slog.Level {
	switch {
	case g <= narration.Light:
		return slog.LevelDebug
	case g == narration.Normal:
		return slog.LevelInfo
	case g == narration.Heavy:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
