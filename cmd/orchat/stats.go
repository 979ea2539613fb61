package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/avolkov/orchat/internal/monitor"
	"github.com/avolkov/orchat/internal/repo"
)

func newStatsCmd() *cobra.Command {
	var perf bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics and store totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			stats := a.analytics.GetStatistics()

			fmt.Fprintf(out, "Messages: %d  Tokens: %d  Tokens/message: %.1f\n",
				stats.TotalMessages, stats.TotalTokens, stats.TokensPerMessage)
			for model, u := range stats.ModelUsage {
				fmt.Fprintf(out, "  %-30s %5d msgs  %8d tokens\n", model, u.Count, u.Tokens)
			}

			count, lastAt, err := repo.MessagesStats(ctx, a.db)
			if err != nil {
				return fmt.Errorf("message stats: %w", err)
			}
			if lastAt != nil {
				fmt.Fprintf(out, "Stored exchanges: %d (last %s)\n", count, lastAt.Local().Format("2006-01-02 15:04"))
			} else {
				fmt.Fprintf(out, "Stored exchanges: %d\n", count)
			}

			if perf {
				mon := monitor.New()
				mon.LogMetrics(log.Logger)
				h := mon.CheckHealth()
				fmt.Fprintf(out, "Process health: %s\n", h.Status)
				for _, w := range h.Warnings {
					fmt.Fprintf(out, "  %s\n", w)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&perf, "perf", false, "include process performance metrics")
	return cmd
}
