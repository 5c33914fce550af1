package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jllopis/screenplay/pkg/config"
)

var version = "dev"

type globalFlags struct {
	ConfigPath string
	JSON       bool
	Help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, argv []string, out io.Writer) error {
	global, args, err := parseGlobalFlags(argv)
	if err != nil {
		return err
	}
	if global.Help || len(args) == 0 {
		printUsage(out)
		return nil
	}

	settings, err := config.Load(global.ConfigPath)
	if err != nil {
		return err
	}
	restore := config.Set(*settings)
	defer restore()

	switch cmd := args[0]; cmd {
	case "config":
		if err := ensureNoArgs(args[1:]); err != nil {
			return err
		}
		return runConfig(out, global, *settings)
	case "narrations":
		return runNarrations(ctx, out, global, *settings, args[1:])
	case "demo":
		return runDemo(ctx, out, *settings, args[1:])
	case "help":
		printUsage(out)
	case "version":
		fmt.Fprintln(out, version)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	flags := globalFlags{
		ConfigPath: getenv("SCREENPLAY_CONFIG", ""),
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flags, args[i+1:], nil
		}
		if !strings.HasPrefix(arg, "-") {
			return flags, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			flags.Help = true
			return flags, nil, nil
		case arg == "--json":
			flags.JSON = true
		case arg == "--config":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --config")
			}
			flags.ConfigPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			return flags, nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return flags, nil, nil
}

func runConfig(out io.Writer, flags globalFlags, settings config.Settings) error {
	if flags.JSON {
		return printJSON(out, settings)
	}
	payload, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = out.Write(payload)
	return err
}

func printJSON(out io.Writer, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}

func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
}

func writeRow(writer *tabwriter.Writer, cols ...string) {
	for i, col := range cols {
		cols[i] = normalizeCell(col)
	}
	fmt.Fprintln(writer, strings.Join(cols, "\t"))
}

func normalizeCell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return strings.Join(strings.Fields(value), " ")
}

func truncateMessage(value string, limit int) string {
	value = normalizeCell(value)
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format(time.RFC3339)
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `Screenplay CLI

Usage:
  screenplay [global flags] <command> [args]

Global flags:
  --config <path>      Path to a YAML settings file (or SCREENPLAY_CONFIG)
  --json               JSON output

Commands:
  config
  narrations --db <path> [--run <id>] [--kind <kind>] [--limit N] [--runs]
  demo [--db <path>] [--exporter stdout|otlp] [--log-file <path>]
  version
  help`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func ensureNoArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected args: %v", args)
	}
	return nil
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

var errMissingDB = errors.New("missing --db (or audit.path in the settings)")
