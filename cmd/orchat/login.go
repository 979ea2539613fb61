package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd() *cobra.Command {
	var withKey bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a PIN or an OpenRouter API key",
		Long: "On a fresh device, login asks for an API key, validates it, and prints the " +
			"generated 4-digit PIN exactly once. On a set-up device it asks for the PIN, " +
			"or with --key re-validates and replaces the stored API key (keeping the PIN).",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !a.auth.IsAuthenticated(ctx) {
				key, err := promptSecret("OpenRouter API key: ")
				if err != nil {
					return err
				}
				ok, pinOrMsg, balance := a.auth.HandleFirstLogin(ctx, key)
				if !ok {
					return fmt.Errorf("login failed: %s", pinOrMsg)
				}
				fmt.Fprintf(out, "Device set up. Balance: %s\n", balance)
				fmt.Fprintf(out, "Your PIN is %s. Write it down now, it will not be shown again.\n", pinOrMsg)
				return nil
			}

			if withKey {
				key, err := promptSecret("OpenRouter API key: ")
				if err != nil {
					return err
				}
				ok, msg, balance := a.auth.HandleAPIKeyLogin(ctx, key)
				if !ok {
					return fmt.Errorf("login failed: %s", msg)
				}
				fmt.Fprintf(out, "%s (balance: %s)\n", msg, balance)
				return nil
			}

			pin, err := promptSecret("PIN: ")
			if err != nil {
				return err
			}
			ok, msg, _ := a.auth.HandlePinLogin(ctx, pin)
			if !ok {
				return fmt.Errorf("login failed: %s", msg)
			}
			fmt.Fprintln(out, "Unlocked.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withKey, "key", false, "log in with an API key instead of the PIN")
	return cmd
}

// promptSecret reads a line without echo when stdin is a terminal, falling
// back to a plain buffered read otherwise (pipes, tests).
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
