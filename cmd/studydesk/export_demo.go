package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studydesk/internal/assistant"
	"studydesk/internal/clock"
	"studydesk/internal/config"
	"studydesk/internal/export"
)

func newExportDemoCmd(cfg *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "export-demo",
		Short: "Run the quick actions through the assistant and export the transcript",
		Long: `Submits each quick action prompt to the assistant, waits out the reply
delay on a simulated clock, and writes the conversation to --export-dir in
--export-format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := headlessLogger(*cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			exp, err := export.New(cfg.ExportDir, cfg.ExportFormat)
			if err != nil {
				return err
			}

			fc := clock.Fake(time.Now().UTC())
			asst := assistant.New(
				assistant.WithClock(fc),
				assistant.WithDelay(cfg.ReplyDelay),
				assistant.WithLogger(logger),
			)
			defer asst.Close()

			for _, s := range assistant.Shortcuts() {
				asst.Submit(assistant.QuickAction(s.Name))
				fc.Advance(cfg.ReplyDelay)
			}

			path, err := exp.Export(export.NewConversation(cfg.Role, asst.Transcript()))
			if err != nil {
				return err
			}
			logger.Info("exported demo conversation", "dir", exp.Dir(), "path", path, "messages", len(asst.Transcript()))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
