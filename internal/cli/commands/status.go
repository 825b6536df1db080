package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatdocs-dev/chatdocs/internal/auth"
	"github.com/chatdocs-dev/chatdocs/internal/cli/session"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the local session status without contacting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from chatdocs.json")

	return cmd
}

func runStatus(serverAlias string) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	manager, _, err := newSession(server)
	if err != nil {
		return err
	}

	manager.Bootstrap()
	state := manager.Store().Read()

	fmt.Printf("Server: %s (%s)\n", server.Alias, server.Host)

	if !state.IsAuthenticated() {
		fmt.Println("Status: not authenticated")
		fmt.Println("\nRun 'chatdocs login' to authenticate")
		return nil
	}

	if state.Credential == session.DemoToken {
		fmt.Println("Status: demo session")
		if state.Identity != nil {
			fmt.Printf("User:   %s (%s)\n", state.Identity.Name, state.Identity.Email)
		}
		return nil
	}

	fmt.Println("Status: authenticated")

	// Peek at the stored token's claims for display. Tokens are opaque to the
	// client otherwise; a token that doesn't parse is still usable.
	info, err := auth.InspectToken(state.Credential)
	if err != nil {
		return nil
	}

	if info.Email != "" {
		fmt.Printf("User:   %s\n", info.Email)
	}
	if !info.ExpiresAt.IsZero() {
		if info.IsExpired() {
			fmt.Printf("Token:  expired %s (will be refreshed on next use)\n", info.ExpiresAt.Format(time.RFC3339))
		} else {
			fmt.Printf("Token:  valid until %s\n", info.ExpiresAt.Format(time.RFC3339))
		}
	}

	return nil
}
