package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

// NewDashCmd creates the dash command
func NewDashCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the web dashboard in browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDash(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from chatdocs.json")

	return cmd
}

func runDash(serverAlias string) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	manager, _, err := newSession(server)
	if err != nil {
		return err
	}

	// The dashboard wants a session; point that out before bouncing the user
	// to a login page in the browser.
	manager.Bootstrap()
	if !manager.Store().Read().IsAuthenticated() {
		fmt.Println("Note: no local session. The dashboard will ask you to log in.")
	}

	dashboardURL := fmt.Sprintf("https://%s/dashboard", server.Host)
	fmt.Printf("Opening dashboard for %s: %s\n", server.Alias, dashboardURL)

	if err := openBrowser(dashboardURL); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, dashboardURL)
	}

	return nil
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("cmd", "/c", "start", url).Start()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
