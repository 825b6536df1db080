package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chatdocs-dev/chatdocs/internal/cli/credentials"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a ChatDocs server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password, serverAlias)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CHATDOCS_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set CHATDOCS_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from chatdocs.json")

	return cmd
}

func runLogin(email, password, serverAlias string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("CHATDOCS_EMAIL")
	}
	if password == "" {
		password = os.Getenv("CHATDOCS_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CHATDOCS_EMAIL env var)")
	}

	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		// Check if stdin is a terminal (not piped)
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println() // New line after password input
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or CHATDOCS_PASSWORD env var)")
		}
	}

	manager, client, err := newSession(server)
	if err != nil {
		return err
	}

	fmt.Printf("Logging in to %s (%s)...\n", server.Alias, server.Host)

	loginResp, err := client.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// Persist the refresh artifact before establishing the session, so an
	// expired token can be refreshed on the next command
	if loginResp.RefreshToken != "" {
		if err := credentials.Default.SaveRefreshToken(server.Host, loginResp.RefreshToken); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}
	}

	user := loginResp.User
	manager.Login(loginResp.Token, &user)
	if state := manager.Store().Read(); state.Err != "" {
		return fmt.Errorf("failed to save authentication token: %s", state.Err)
	}

	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", user.Name, user.Email)

	return nil
}
