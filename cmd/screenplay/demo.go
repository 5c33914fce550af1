// Copyright 2026 © The Screenplay Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jllopis/screenplay/pkg/actions"
	"github.com/jllopis/screenplay/pkg/actor"
	"github.com/jllopis/screenplay/pkg/adapters/sqlite"
	"github.com/jllopis/screenplay/pkg/adapters/stdout"
	"github.com/jllopis/screenplay/pkg/adapters/tracing"
	"github.com/jllopis/screenplay/pkg/config"
	"github.com/jllopis/screenplay/pkg/core"
	"github.com/jllopis/screenplay/pkg/errors"
	"github.com/jllopis/screenplay/pkg/narration"
	"github.com/jllopis/screenplay/pkg/notebook"
	"github.com/jllopis/screenplay/pkg/resolutions"
	"github.com/jllopis/screenplay/pkg/telemetry"
)

// counter is the demo's only ability.
type counter struct {
	value int
}

func (c *counter) Forget() error {
	c.value = 0
	return nil
}

// step is a narrated performable backed by a func.
type step struct {
	line string
	fn   func(c *counter) error
}

func (s step) Describe() string { return s.line }

func (s step) PerformAs(ctx context.Context, a core.Actor) error {
	return narration.Beat("{actor} tries to "+s.line+".", func() error {
		c, err := core.AbilityTo[*counter](a)
		if err != nil {
			return err
		}
		return s.fn(c)
	}, narration.With("actor", a.Name()))
}

type theCount struct{}

func (theCount) Describe() string { return "The counter's value." }

func (theCount) AnsweredBy(_ context.Context, a core.Actor) (any, error) {
	c, err := core.AbilityTo[*counter](a)
	if err != nil {
		return nil, err
	}
	return c.value, nil
}

func increment() step {
	return step{line: "increment the counter", fn: func(c *counter) error {
		c.value++
		return nil
	}}
}

// flakyIncrement fails until it has been attempted attempts times.
func flakyIncrement(attempts int) step {
	tries := 0
	return step{line: "increment the sticky counter", fn: func(c *counter) error {
		tries++
		if tries < attempts {
			return errors.UnableToPerform("the counter is stuck")
		}
		c.value++
		return nil
	}}
}

func runDemo(ctx context.Context, out io.Writer, settings config.Settings, args []string) error {
	cmd := flag.NewFlagSet("demo", flag.ContinueOnError)
	cmd.SetOutput(out)
	dbPath := cmd.String("db", settings.Audit.Path, "Record the narration in this SQLite file")
	exporter := cmd.String("exporter", settings.Telemetry.Exporter, "Telemetry exporter (stdout, otlp)")
	logFile := cmd.String("log-file", "", "Also write the narration log to this file")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if err := ensureNoArgs(cmd.Args()); err != nil {
		return err
	}

	outputs := []io.Writer{out}
	if path := strings.TrimSpace(*logFile); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		outputs = append(outputs, file)
	}
	previous := slog.Default()
	logger := telemetry.ConfigureSlogFanout(settings.Log.Level, settings.Log.Format, outputs...)
	defer slog.SetDefault(previous)

	tcfg := telemetry.FromSettings(settings.Telemetry)
	tcfg.Exporter = *exporter
	tcfg.Writer = out
	shutdown, err := telemetry.InitWithConfig("screenplay-demo", version, tcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()
	metrics, err := telemetry.NewNarrationMetrics()
	if err != nil {
		return err
	}

	adapters := []narration.Adapter{
		stdout.New(stdout.WithLogger(logger), stdout.WithIndent(settings.Indent())),
		tracing.New(tracing.WithMetrics(metrics), tracing.WithContext(ctx)),
	}
	var audit *sqlite.Adapter
	if path := strings.TrimSpace(*dbPath); path != "" {
		store, err := sqlite.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		audit = sqlite.New(store)
		adapters = append(adapters, audit)
	}
	defer narration.SetDefault(narration.New(adapters...))()
	notebook.Reset()

	if err := perform(ctx); err != nil {
		return err
	}
	if audit != nil {
		fmt.Fprintf(out, "narration recorded as run %s in %s\n", audit.RunID(), *dbPath)
	}
	return nil
}

func perform(ctx context.Context) (err error) {
	perry := actor.Named("Perry").WhoCan(&counter{})
	defer func() {
		err = stderrors.Join(err, perry.Exit(ctx))
	}()

	quietly, err := actions.SilentlyPerformable(increment())
	if err != nil {
		return err
	}

	return narration.Act("A demonstration", func() error {
		return narration.Scene("counting to four", func() error {
			return perry.AttemptsTo(ctx,
				increment(),
				actions.Eventually(flakyIncrement(3)).For(2).Seconds().Polling(0.05),
				actions.See(theCount{}, resolutions.IsEqualTo(2)),
				quietly,
				actions.SeeAllOf(
					actions.Pair(theCount{}, resolutions.IsEqualTo(3)),
					actions.Pair(theCount{}, resolutions.IsNot(resolutions.IsEqualTo(0))),
				),
				actions.MakeNote(theCount{}).As("count"),
				actions.Log(notebook.Noted("count")),
				actions.Either(actions.See(theCount{}, resolutions.IsEqualTo(99))).
					Or(increment()),
				actions.SeeAnyOf(
					actions.Pair(theCount{}, resolutions.IsEqualTo(4)),
					actions.Pair(theCount{}, resolutions.IsEqualTo(5)),
				),
				actions.Pause(10).MillisecondsBecause("the counter settles"),
				actions.AttachTheFile("counter.txt", map[string]any{"kind": "snapshot"}),
			)
		})
	})
}
