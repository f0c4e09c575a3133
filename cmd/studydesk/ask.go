package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studydesk/internal/assistant"
	"studydesk/internal/config"
)

func newAskCmd(cfg *config.AppConfig) *cobra.Command {
	var showCategory bool

	cmd := &cobra.Command{
		Use:   "ask TEXT...",
		Short: "Ask the study assistant once and print its reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := headlessLogger(*cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			replies := make(chan assistant.Message, 1)
			asst := assistant.New(
				assistant.WithDelay(cfg.ReplyDelay),
				assistant.WithLogger(logger),
				assistant.OnReply(func(m assistant.Message) { replies <- m }),
			)
			defer asst.Close()

			if !asst.Submit(strings.Join(args, " ")) {
				return errors.New("nothing to ask: input is blank")
			}

			select {
			case reply := <-replies:
				out := cmd.OutOrStdout()
				if showCategory {
					fmt.Fprintf(out, "[%s]\n", reply.Category)
				}
				fmt.Fprintln(out, reply.Content)
				return nil
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		},
	}
	cmd.Flags().BoolVar(&showCategory, "category", false, "print the reply category before the reply")
	return cmd
}
