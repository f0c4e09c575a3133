package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"studydesk/internal/assistant"
	"studydesk/internal/export"
	"studydesk/internal/pages"
)

const DefaultGlamourStyle = "dark"

var ErrInvalidRole = errors.New("invalid role")

type AppConfig struct {
	Role          string
	ReplyDelay    time.Duration
	DataPath      string
	ExportDir     string
	ExportFormat  string
	GlamourStyle  string
	ShowAssistant bool
	LogFile       string
	LogLevel      string
	// Today pins the calendar date (YYYY-MM-DD). Empty means the wall clock.
	Today string

	level  slog.Level
	anchor time.Time
}

func Default() AppConfig {
	return AppConfig{
		Role:         string(pages.RoleStudent),
		ReplyDelay:   assistant.DefaultReplyDelay,
		ExportFormat: "md",
		GlamourStyle: DefaultGlamourStyle,
		LogLevel:     "info",
	}
}

// BindFlags registers the flags on fs, using the current field values as
// defaults.
func (c *AppConfig) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Role, "role", c.Role, "sidebar role: student, teacher or admin")
	fs.DurationVar(&c.ReplyDelay, "reply-delay", c.ReplyDelay, "delay before the assistant replies")
	fs.StringVar(&c.DataPath, "data", c.DataPath, "YAML dataset replacing the built-in fixtures (env STUDYDESK_DATA)")
	fs.StringVar(&c.ExportDir, "export-dir", c.ExportDir, "transcript export directory (default <cwd>/exports)")
	fs.StringVar(&c.ExportFormat, "export-format", c.ExportFormat, "transcript export format: "+strings.Join(export.Formats(), ", "))
	fs.StringVar(&c.GlamourStyle, "style", c.GlamourStyle, "glamour style for rendered markdown")
	fs.BoolVar(&c.ShowAssistant, "assistant", c.ShowAssistant, "open the assistant panel at start")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&c.Today, "today", c.Today, "pin the current date (YYYY-MM-DD)")
}

// Finalize fills env fallbacks and validates the parsed values.
func (c *AppConfig) Finalize() error {
	c.Role = strings.ToLower(strings.TrimSpace(c.Role))
	if !slices.Contains(pages.Roles(), pages.Role(c.Role)) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, c.Role)
	}
	if c.ReplyDelay < 0 {
		return fmt.Errorf("reply delay must not be negative: %s", c.ReplyDelay)
	}
	if _, err := export.NewFormatter(c.ExportFormat); err != nil {
		return err
	}
	if err := c.level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	if c.Today != "" {
		anchor, err := time.Parse(time.DateOnly, c.Today)
		if err != nil {
			return fmt.Errorf("parse --today: %w", err)
		}
		c.anchor = anchor
	}
	c.DataPath = DetectDataPath(c.DataPath)
	if c.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	return nil
}

func (c AppConfig) SlogLevel() slog.Level { return c.level }

// Now returns now, moved onto the pinned date when one is set.
func (c AppConfig) Now(now time.Time) time.Time {
	if c.anchor.IsZero() {
		return now
	}
	now = now.UTC()
	return time.Date(c.anchor.Year(), c.anchor.Month(), c.anchor.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
}

func DetectDataPath(explicit string) string {
	if explicit != "" {
		return filepath.Clean(explicit)
	}
	if fromEnv := os.Getenv("STUDYDESK_DATA"); fromEnv != "" {
		return filepath.Clean(fromEnv)
	}
	return ""
}
