package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"studydesk/internal/assistant"
	"studydesk/internal/catalog"
	"studydesk/internal/config"
	"studydesk/internal/export"
	"studydesk/internal/ui"
)

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "studydesk",
		Short: "Terminal learning dashboard with a scripted study assistant",
		Long: `studydesk is a terminal learning dashboard: courses, assignments,
grades, calendar, notifications, achievements and study groups from a
mock catalog, plus a scripted AI study assistant.

Quick Start:
  studydesk                              # open the dashboard
  studydesk --assistant --role student   # open with the assistant panel
  studydesk ask "Summarize chapter 5"    # one-shot assistant reply
  studydesk search chemistry             # search the catalog`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Finalize()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), cfg)
		},
	}
	cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newAskCmd(&cfg),
		newSearchCmd(&cfg),
		newExportDemoCmd(&cfg),
	)
	return root
}

func runTUI(ctx context.Context, cfg config.AppConfig) error {
	relay := ui.NewRelay()
	tuiLevel := max(cfg.SlogLevel(), slog.LevelWarn)
	logger, closeLog, err := newLogger(cfg, ui.NewTUILogHandler(tuiLevel, relay))
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	asst := assistant.New(
		assistant.WithDelay(cfg.ReplyDelay),
		assistant.WithLogger(logger),
		assistant.OnReply(relay.AssistantReply),
	)
	defer asst.Close()

	exp, err := export.New(cfg.ExportDir, cfg.ExportFormat)
	if err != nil {
		return err
	}

	p := tea.NewProgram(ui.NewModel(cfg, store, asst, exp), tea.WithAltScreen(), tea.WithContext(ctx))
	relay.SetProgram(p)
	defer relay.SetProgram(nil)

	logger.Debug("starting dashboard", "role", cfg.Role, "data", cfg.DataPath, "exports", exp.Dir())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

// newLogger builds the process logger. A configured log file wins,
// otherwise records go to fallback. The returned func closes the file.
func newLogger(cfg config.AppConfig, fallback slog.Handler) (*slog.Logger, func() error, error) {
	if cfg.LogFile == "" {
		logger := slog.New(fallback)
		slog.SetDefault(logger)
		return logger, func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return logger, f.Close, nil
}

func headlessLogger(cfg config.AppConfig, stderr io.Writer) (*slog.Logger, func() error, error) {
	return newLogger(cfg, slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func openStore(ctx context.Context, cfg config.AppConfig) (*catalog.Store, error) {
	ds, err := catalog.LoadDataset(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	return catalog.Open(ctx, ds)
}
