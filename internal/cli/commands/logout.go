package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session for a server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from chatdocs.json")

	return cmd
}

func runLogout(serverAlias string) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	manager, _, err := newSession(server)
	if err != nil {
		return err
	}

	manager.Logout()
	if state := manager.Store().Read(); state.Err != "" {
		return fmt.Errorf("logout failed: %s", state.Err)
	}

	fmt.Printf("✓ Logged out from %s (%s)\n", server.Alias, server.Host)
	return nil
}
