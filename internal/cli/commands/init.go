package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chatdocs-dev/chatdocs/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <host>",
		Short: "Register a ChatDocs server in this project",
		Args:  cobra.ExactArgs(1),
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	host := args[0]

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Println("Found existing chatdocs.json")
	} else {
		cfg = &config.Config{
			Servers: []config.Server{},
		}
		isNewConfig = true
	}

	// Check if server already exists
	serverExists := false
	for _, server := range cfg.Servers {
		if server.Host == host {
			serverExists = true
			break
		}
	}

	if serverExists {
		fmt.Printf("Server %s already exists in chatdocs.json\n", host)
		return nil
	}

	alias := "production"
	if len(cfg.Servers) > 0 {
		alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
	}

	cfg.Servers = append(cfg.Servers, config.Server{
		Host:  host,
		Alias: alias,
	})

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Printf("✓ Created ./chatdocs.json with server %s (%s)\n", host, alias)
	} else {
		fmt.Printf("✓ Added server %s (%s) to ./chatdocs.json\n", host, alias)
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'chatdocs login' to authenticate")
	fmt.Println("  2. Run 'chatdocs dash' to open the dashboard")

	return nil
}
