package config

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"studydesk/internal/export"
)

func parse(t *testing.T, args ...string) (AppConfig, error) {
	t.Helper()
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cfg, cfg.Finalize()
}

func TestDefaults(t *testing.T) {
	t.Setenv("STUDYDESK_DATA", "")
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Role != "student" || cfg.ReplyDelay != 1500*time.Millisecond || cfg.ExportFormat != "md" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.GlamourStyle != DefaultGlamourStyle || cfg.ShowAssistant || cfg.DataPath != "" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", cfg.SlogLevel())
	}
}

func TestFlagsOverride(t *testing.T) {
	cfg, err := parse(t, "--role", "Teacher", "--reply-delay", "250ms", "--export-format", "html", "--assistant", "--log-level", "debug")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Role != "teacher" || cfg.ReplyDelay != 250*time.Millisecond || cfg.ExportFormat != "html" || !cfg.ShowAssistant {
		t.Fatalf("flags not applied: %#v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.SlogLevel())
	}
}

func TestFinalizeRejects(t *testing.T) {
	if _, err := parse(t, "--role", "janitor"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := parse(t, "--reply-delay", "-1s"); err == nil {
		t.Fatalf("expected negative delay to fail")
	}
	if _, err := parse(t, "--export-format", "pdf"); !errors.Is(err, export.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := parse(t, "--log-level", "loud"); err == nil {
		t.Fatalf("expected bad log level to fail")
	}
	if _, err := parse(t, "--today", "20/01/2024"); err == nil {
		t.Fatalf("expected bad date to fail")
	}
}

func TestDataPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STUDYDESK_DATA", filepath.Join(dir, "data.yaml"))
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.DataPath != filepath.Join(dir, "data.yaml") {
		t.Fatalf("expected env data path, got %q", cfg.DataPath)
	}
	explicit := filepath.Join(dir, "other.yaml")
	cfg, err = parse(t, "--data", explicit)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.DataPath != explicit {
		t.Fatalf("expected flag to win over env, got %q", cfg.DataPath)
	}
}

func TestNowPinsDate(t *testing.T) {
	cfg, err := parse(t, "--today", "2024-01-16")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	wall := time.Date(2026, 3, 9, 14, 5, 7, 0, time.UTC)
	got := cfg.Now(wall)
	want := time.Date(2024, 1, 16, 14, 5, 7, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	unpinned, err := parse(t)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !unpinned.Now(wall).Equal(wall) {
		t.Fatalf("expected wall clock when unpinned")
	}
}
