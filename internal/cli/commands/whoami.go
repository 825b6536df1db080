package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chatdocs-dev/chatdocs/internal/cli/session"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from chatdocs.json")

	return cmd
}

func runWhoami(serverAlias string) error {
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
	if !state.IsAuthenticated() {
		return fmt.Errorf("not authenticated. Please run 'chatdocs login' first")
	}

	// The demo session never hits the network; its identity is already seeded
	if state.Credential != session.DemoToken {
		manager.RefreshIdentity(context.Background())
		state = manager.Store().Read()

		if !state.IsAuthenticated() {
			return fmt.Errorf("session expired. Please run 'chatdocs login' again")
		}
		if state.Err != "" {
			return fmt.Errorf("failed to fetch identity: %s", state.Err)
		}
	}

	identity := state.Identity
	if identity == nil {
		return fmt.Errorf("no identity returned for the current session")
	}

	fmt.Printf("%s (%s)\n", identity.Name, identity.Email)
	if identity.Handle != "" {
		fmt.Printf("  Handle: @%s\n", identity.Handle)
	}
	fmt.Printf("  ID: %s\n", identity.ID)
	if state.Credential == session.DemoToken {
		fmt.Println("  Mode: demo")
	}

	return nil
}
