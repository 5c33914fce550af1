// Package config loads the settings that tune narration, retries and the
// reporting back-ends. Sources are layered: defaults, then an optional YAML
// file, then SCREENPLAY_* environment variables.
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: SCREENPLAY_LOG__LEVEL -> log.level.
const EnvPrefix = "SCREENPLAY_"

type Settings struct {
	// Timeout is the default Eventually timeout, in seconds.
	Timeout float64 `koanf:"timeout" yaml:"timeout"`
	// Polling is the default Eventually poll interval, in seconds.
	Polling float64 `koanf:"polling" yaml:"polling"`
	// UnabridgedNarration keeps narration Silently, Quietly and Either
	// would otherwise discard.
	UnabridgedNarration bool `koanf:"unabridged_narration" yaml:"unabridged_narration"`

	IndentLogs bool   `koanf:"indent_logs" yaml:"indent_logs"`
	IndentChar string `koanf:"indent_char" yaml:"indent_char"`
	IndentSize int    `koanf:"indent_size" yaml:"indent_size"`

	Log       LogConfig       `koanf:"log" yaml:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry" yaml:"telemetry"`
	Audit     AuditConfig     `koanf:"audit" yaml:"audit"`
}

type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"` // json, text
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter" yaml:"exporter"` // "", stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint" yaml:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure" yaml:"otlp_insecure"`
}

type AuditConfig struct {
	// Path of the SQLite narration log; empty disables it.
	Path string `koanf:"path" yaml:"path"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Timeout:    20,
		Polling:    0.5,
		IndentLogs: true,
		IndentChar: " ",
		IndentSize: 4,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// TimeoutDuration converts Timeout to a time.Duration.
func (s Settings) TimeoutDuration() time.Duration {
	return seconds(s.Timeout)
}

// PollingDuration converts Polling to a time.Duration.
func (s Settings) PollingDuration() time.Duration {
	return seconds(s.Polling)
}

// Indent returns the whitespace unit for one level of log nesting.
func (s Settings) Indent() string {
	if !s.IndentLogs || s.IndentSize <= 0 {
		return ""
	}
	return strings.Repeat(s.IndentChar, s.IndentSize)
}

// Validate rejects settings no component can honor.
func (s Settings) Validate() error {
	if s.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %v", s.Timeout)
	}
	if s.Polling < 0 {
		return fmt.Errorf("config: polling must not be negative, got %v", s.Polling)
	}
	if s.IndentSize < 0 {
		return fmt.Errorf("config: indent_size must not be negative, got %d", s.IndentSize)
	}
	return nil
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// Load builds Settings from defaults, the YAML file at path (if any) and
// the environment.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	d := Defaults()
	defaults := map[string]any{
		"timeout":              d.Timeout,
		"polling":              d.Polling,
		"unabridged_narration": d.UnabridgedNarration,
		"indent_logs":          d.IndentLogs,
		"indent_char":          d.IndentChar,
		"indent_size":          d.IndentSize,
		"log.level":            d.Log.Level,
		"log.format":           d.Log.Format,
		"telemetry.exporter":   "",
		"audit.path":           "",
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, err
		}
	}

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	// 2. Load from ENV (SCREENPLAY_LOG__LEVEL -> log.level)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

var (
	mu      sync.RWMutex
	current = Defaults()
)

// Current returns the process-wide settings.
func Current() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set replaces the process-wide settings and returns a func restoring the
// previous ones.
func Set(s Settings) (restore func()) {
	mu.Lock()
	previous := current
	current = s
	mu.Unlock()
	return func() {
		mu.Lock()
		current = previous
		mu.Unlock()
	}
}

// Update applies fn to a copy of the current settings and installs it.
func Update(fn func(*Settings)) (restore func()) {
	s := Current()
	fn(&s)
	return Set(s)
}
