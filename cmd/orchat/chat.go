package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one message and print the model's reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			apiKey := a.auth.GetStoredAPIKey(ctx)
			if apiKey == "" {
				return fmt.Errorf("not logged in; run `orchat login` first")
			}

			message := strings.Join(args, " ")
			client := a.apiClient(apiKey)

			start := time.Now()
			completion, err := client.SendMessage(ctx, model, message)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("send message: %w", err)
			}

			if _, err := a.history.SaveMessage(ctx, model, message, completion.Content, completion.TokensUsed); err != nil {
				log.Error().Err(err).Msg("exchange not persisted")
			}
			if err := a.analytics.TrackMessage(ctx, model, len(message), elapsed.Seconds(), completion.TokensUsed); err != nil {
				log.Error().Err(err).Msg("analytics not persisted")
			}

			fmt.Fprintln(cmd.OutOrStdout(), completion.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "gpt-3.5-turbo", "model identifier")
	return cmd
}
