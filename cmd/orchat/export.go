package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avolkov/orchat/internal/export"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the full chat history to a timestamped JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			msgs, err := a.history.FormattedHistory(cmd.Context())
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			path, err := export.WriteHistory(a.cfg.ExportDir, msgs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d exchanges to %s\n", len(msgs), path)
			return nil
		},
	}
}
