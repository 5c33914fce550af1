package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Timeout != 20 {
		t.Errorf("expected default timeout 20, got %v", s.Timeout)
	}
	if s.Polling != 0.5 {
		t.Errorf("expected default polling 0.5, got %v", s.Polling)
	}
	if s.UnabridgedNarration {
		t.Errorf("expected unabridged narration off by default")
	}
	if !s.IndentLogs || s.IndentChar != " " || s.IndentSize != 4 {
		t.Errorf("unexpected indent defaults: %v %q %d", s.IndentLogs, s.IndentChar, s.IndentSize)
	}
	if s.Log.Level != "info" || s.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", s.Log)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SCREENPLAY_TIMEOUT", "3.5")
	t.Setenv("SCREENPLAY_UNABRIDGED_NARRATION", "true")
	t.Setenv("SCREENPLAY_LOG__LEVEL", "debug")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Timeout != 3.5 {
		t.Errorf("expected timeout 3.5 from env, got %v", s.Timeout)
	}
	if !s.UnabridgedNarration {
		t.Errorf("expected unabridged narration from env")
	}
	if s.Log.Level != "debug" {
		t.Errorf("expected log level debug from env, got %s", s.Log.Level)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "screenplay.yaml")
	content := `
polling: 0.1
indent_char: "-"
indent_size: 2
audit:
  path: /tmp/narrations.db
telemetry:
  exporter: stdout
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Polling != 0.1 {
		t.Errorf("expected polling 0.1, got %v", s.Polling)
	}
	if s.Indent() != "--" {
		t.Errorf("expected indent '--', got %q", s.Indent())
	}
	if s.Audit.Path != "/tmp/narrations.db" {
		t.Errorf("unexpected audit path %q", s.Audit.Path)
	}
	if s.Telemetry.Exporter != "stdout" {
		t.Errorf("unexpected exporter %q", s.Telemetry.Exporter)
	}
	if s.Timeout != 20 {
		t.Errorf("expected default timeout to survive, got %v", s.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"negative timeout", func(s *Settings) { s.Timeout = -1 }, true},
		{"negative polling", func(s *Settings) { s.Polling = -0.5 }, true},
		{"negative indent", func(s *Settings) { s.IndentSize = -2 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDurationsAndIndent(t *testing.T) {
	s := Defaults()
	if s.TimeoutDuration() != 20*time.Second {
		t.Errorf("unexpected timeout duration %v", s.TimeoutDuration())
	}
	if s.PollingDuration() != 500*time.Millisecond {
		t.Errorf("unexpected polling duration %v", s.PollingDuration())
	}
	if s.Indent() != "    " {
		t.Errorf("unexpected indent %q", s.Indent())
	}
	s.IndentLogs = false
	if s.Indent() != "" {
		t.Errorf("expected no indent when indent_logs is off")
	}
}

func TestSetAndRestore(t *testing.T) {
	restore := Update(func(s *Settings) { s.Timeout = 1 })
	if Current().Timeout != 1 {
		t.Errorf("expected updated timeout")
	}
	restore()
	if Current().Timeout != 20 {
		t.Errorf("expected restored timeout, got %v", Current().Timeout)
	}
}
