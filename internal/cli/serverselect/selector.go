// Package serverselect resolves which configured server a command should
// talk to.
package serverselect

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/chatdocs-dev/chatdocs/internal/cli/config"
	"github.com/chatdocs-dev/chatdocs/internal/cli/userconfig"
)

// ResolveServer picks a server in priority order: an explicit alias flag, the
// server remembered in the user config, the only configured server, and
// finally an interactive prompt. The pick is remembered for next time unless
// it came from the alias flag.
func ResolveServer(projectConfig *config.Config, serverAlias string) (*config.Server, error) {
	if serverAlias != "" {
		return projectConfig.GetServerByAlias(serverAlias)
	}

	selectedHost, err := userconfig.GetSelectedServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if selectedHost != "" {
		if server, err := getServerByHost(projectConfig, selectedHost); err == nil {
			return server, nil
		}
		// The remembered server is gone from the project config; forget it
		_ = userconfig.SetSelectedServer("")
	}

	var server *config.Server
	if len(projectConfig.Servers) == 1 {
		server = &projectConfig.Servers[0]
	} else {
		server, err = PromptServerSelection(projectConfig)
		if err != nil {
			return nil, err
		}
	}

	if err := userconfig.SetSelectedServer(server.Host); err != nil {
		// Not fatal; the user just gets asked again next time
		fmt.Printf("Warning: failed to save selected server: %v\n", err)
	}
	return server, nil
}

// PromptServerSelection asks the user to pick a server interactively
func PromptServerSelection(projectConfig *config.Config) (*config.Server, error) {
	if len(projectConfig.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in chatdocs.json")
	}

	labels := make([]string, len(projectConfig.Servers))
	for i, server := range projectConfig.Servers {
		labels[i] = fmt.Sprintf("%s (%s)", server.Alias, server.Host)
	}

	prompt := promptui.Select{
		Label: "Select a server",
		Items: labels,
		Size:  10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server selection cancelled: %w", err)
	}
	return &projectConfig.Servers[index], nil
}

// GetServerByHostOrAlias finds a server by host first, then by alias
func GetServerByHostOrAlias(cfg *config.Config, hostOrAlias string) (*config.Server, error) {
	if server, err := getServerByHost(cfg, hostOrAlias); err == nil {
		return server, nil
	}
	for i := range cfg.Servers {
		if cfg.Servers[i].Alias == hostOrAlias {
			return &cfg.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with host or alias '%s' not found", hostOrAlias)
}

func getServerByHost(cfg *config.Config, host string) (*config.Server, error) {
	for i := range cfg.Servers {
		if cfg.Servers[i].Host == host {
			return &cfg.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server with host '%s' not found in project config", host)
}
