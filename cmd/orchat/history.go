package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avolkov/orchat/internal/search"
	"github.com/avolkov/orchat/internal/utils"
)

func newHistoryCmd() *cobra.Command {
	var clear bool
	var query string

	cmd := &cobra.Command{
		Use:   "history [limit]",
		Short: "Show recent exchanges (newest first), or clear the log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if clear {
				if err := a.history.ClearHistory(ctx); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintln(out, "History cleared.")
				return nil
			}

			limit := a.cfg.HistoryLimit
			if len(args) == 1 {
				limit = utils.AtoiDefault(args[0], limit)
			}

			if query != "" {
				all, err := a.history.FormattedHistory(ctx)
				if err != nil {
					return fmt.Errorf("read history: %w", err)
				}
				results := search.NewFromMessages(all).TopK(query, limit)
				if len(results) == 0 {
					fmt.Fprintln(out, "No matches.")
					return nil
				}
				for _, r := range results {
					m := r.Message
					fmt.Fprintf(out, "[%s] %s (score %.2f)\n", m.Timestamp.Local().Format("2006-01-02 15:04"), m.Model, r.Score)
					fmt.Fprintf(out, "  you: %s\n", m.UserMessage)
					fmt.Fprintf(out, "  ai:  %s\n", m.AIResponse)
				}
				return nil
			}

			msgs, err := a.history.ChatHistory(ctx, limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			if len(msgs) == 0 {
				fmt.Fprintln(out, "No history yet.")
				return nil
			}
			for _, m := range msgs {
				fmt.Fprintf(out, "[%s] %s (%d tokens)\n", m.Timestamp.Local().Format("2006-01-02 15:04"), m.Model, m.TokensUsed)
				fmt.Fprintf(out, "  you: %s\n", m.UserMessage)
				fmt.Fprintf(out, "  ai:  %s\n", m.AIResponse)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "delete all chat history")
	cmd.Flags().StringVarP(&query, "search", "s", "", "rank exchanges by similarity to this query")
	return cmd
}
