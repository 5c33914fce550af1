package main

import (
	"context"
	"flag"
	"io"
	"strconv"
	"strings"

	"github.com/jllopis/screenplay/pkg/adapters/sqlite"
	"github.com/jllopis/screenplay/pkg/config"
)

type narrationRow struct {
	RunID      string         `json:"run_id"`
	Seq        int64          `json:"seq"`
	ParentSeq  int64          `json:"parent_seq,omitempty"`
	Depth      int            `json:"depth"`
	Kind       string         `json:"kind"`
	Line       string         `json:"line,omitempty"`
	Gravitas   string         `json:"gravitas,omitempty"`
	Error      string         `json:"error,omitempty"`
	Attachment string         `json:"attachment,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

func runNarrations(ctx context.Context, out io.Writer, flags globalFlags, settings config.Settings, args []string) error {
	cmd := flag.NewFlagSet("narrations", flag.ContinueOnError)
	cmd.SetOutput(out)
	dbPath := cmd.String("db", settings.Audit.Path, "SQLite narration log")
	runID := cmd.String("run", "", "Only this run")
	kind := cmd.String("kind", "", "Only this kind (act, scene, beat, aside, error, attachment)")
	limit := cmd.Int("limit", 0, "Max rows")
	runs := cmd.Bool("runs", false, "List runs instead of records")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if err := ensureNoArgs(cmd.Args()); err != nil {
		return err
	}
	if strings.TrimSpace(*dbPath) == "" {
		return errMissingDB
	}

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if *runs {
		return listRuns(ctx, out, flags, store)
	}

	records, err := store.List(ctx, sqlite.Filter{
		RunID: strings.TrimSpace(*runID),
		Kind:  strings.TrimSpace(*kind),
		Limit: *limit,
	})
	if err != nil {
		return err
	}

	if flags.JSON {
		rows := make([]narrationRow, 0, len(records))
		for _, r := range records {
			rows = append(rows, narrationRow{
				RunID:      r.RunID,
				Seq:        r.Seq,
				ParentSeq:  r.ParentSeq,
				Depth:      r.Depth,
				Kind:       r.Kind,
				Line:       r.Line,
				Gravitas:   r.Gravitas,
				Error:      r.ErrorText,
				Attachment: r.Attachment,
				Meta:       r.Meta,
				CreatedAt:  formatTime(r.CreatedAt),
			})
		}
		return printJSON(out, rows)
	}

	writer := newTabWriter(out)
	writeRow(writer, "RUN", "SEQ", "KIND", "GRAVITAS", "TEXT")
	for _, r := range records {
		writeRow(writer,
			truncateMessage(r.RunID, 8),
			strconv.FormatInt(r.Seq, 10),
			r.Kind,
			r.Gravitas,
			strings.Repeat(". ", r.Depth)+truncateMessage(recordText(r), 100),
		)
	}
	return writer.Flush()
}

func listRuns(ctx context.Context, out io.Writer, flags globalFlags, store *sqlite.Store) error {
	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}
	if flags.JSON {
		return printJSON(out, runs)
	}
	writer := newTabWriter(out)
	writeRow(writer, "RUN", "RECORDS", "ERRORS", "STARTED")
	for _, run := range runs {
		writeRow(writer,
			run.RunID,
			strconv.Itoa(run.Records),
			strconv.Itoa(run.Errors),
			formatTime(run.StartedAt),
		)
	}
	return writer.Flush()
}

func recordText(r sqlite.Record) string {
	switch r.Kind {
	case sqlite.KindError:
		return r.ErrorText
	case sqlite.KindAttachment:
		return r.Attachment
	default:
		return r.Line
	}
}
