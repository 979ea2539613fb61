package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored credential (chat history is kept)",
		Long: "Reset removes the stored API key and PIN hash. The next login starts the " +
			"first-time flow and issues a new PIN. Chat history and analytics are untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			if !force {
				fmt.Fprint(os.Stderr, "Remove stored credential? [y/N] ")
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if !a.auth.HandleReset(cmd.Context()) {
				return fmt.Errorf("reset failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credential removed.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
