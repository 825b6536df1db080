package commands

import (
	"fmt"

	appconfig "github.com/chatdocs-dev/chatdocs/internal/config"

	"github.com/chatdocs-dev/chatdocs/internal/cli/api"
	"github.com/chatdocs-dev/chatdocs/internal/cli/config"
	"github.com/chatdocs-dev/chatdocs/internal/cli/credentials"
	"github.com/chatdocs-dev/chatdocs/internal/cli/serverselect"
	"github.com/chatdocs-dev/chatdocs/internal/cli/session"
	"github.com/chatdocs-dev/chatdocs/internal/logger"
)

// getSelectedServer loads the config and returns the selected server.
// This is common logic used by most commands.
func getSelectedServer(serverAlias string) (*config.Server, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'chatdocs init' to create a configuration file", err)
	}

	server, err := serverselect.ResolveServer(cfg, serverAlias)
	if err != nil {
		return nil, err
	}

	if server.Host == "" {
		return nil, fmt.Errorf("server host is empty. Please edit chatdocs.json and add a valid host")
	}

	return server, nil
}

// newSession wires up the session manager and its collaborators for a server:
// the keyring credential store, the API client, and the bootstrap mode from
// the environment config.
func newSession(server *config.Server) (*session.Manager, *api.Client, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	client := api.New(server.Host, log)

	mode := session.ModeNormal
	if cfg.Session.DemoMode {
		mode = session.ModeDemo
	}

	manager := session.NewManager(session.NewStore(), credentials.Default, client, server.Host, mode, log)
	return manager, client, nil
}
