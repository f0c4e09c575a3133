package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"studydesk/internal/config"
)

func newSearchCmd(cfg *config.AppConfig) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search courses, assignments, events, notifications and study groups",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			hits, err := store.Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(out, "No matches.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(w, "KIND\tID\tTITLE\tDETAIL\t")
			for _, h := range hits {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", h.Kind, h.ID, h.Title, h.Detail)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of matches")
	return cmd
}
