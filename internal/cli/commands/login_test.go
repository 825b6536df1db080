package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/chatdocs-dev/chatdocs/internal/cli/config"
)

// setupTestEnvironment creates a temporary directory with a project config
// and makes it the working directory
func setupTestEnvironment(t *testing.T, servers []config.Server) string {
	t.Helper()

	tempDir := t.TempDir()

	cfg := config.Config{
		Servers: servers,
	}
	cfgData, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}

	cfgPath := filepath.Join(tempDir, config.ConfigFileName)
	if err := os.WriteFile(cfgPath, cfgData, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})

	// Keep user config writes inside the sandbox
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, ".config"))

	return tempDir
}

func TestLoginCommand_Structure(t *testing.T) {
	cmd := NewLoginCmd()

	if cmd.Use != "login" {
		t.Errorf("expected Use to be 'login', got %s", cmd.Use)
	}

	for _, flag := range []string{"email", "password", "server"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag to exist", flag)
		}
	}
}

func TestLoginCommand_MissingEmail(t *testing.T) {
	setupTestEnvironment(t, []config.Server{
		{Alias: "test-server", Host: "127.0.0.1"},
	})

	os.Unsetenv("CHATDOCS_EMAIL")
	os.Unsetenv("CHATDOCS_PASSWORD")

	err := runLogin("", "password123", "")
	if err == nil {
		t.Fatal("expected error when email is missing, got nil")
	}

	expectedError := "email is required (use --email flag or CHATDOCS_EMAIL env var)"
	if err.Error() != expectedError {
		t.Errorf("expected error '%s', got '%s'", expectedError, err.Error())
	}
}

func TestLoginCommand_NoConfigFile(t *testing.T) {
	tempDir := t.TempDir()

	originalDir, _ := os.Getwd()
	os.Chdir(tempDir)
	defer os.Chdir(originalDir)

	err := runLogin("test@example.com", "password123", "")
	if err == nil {
		t.Fatal("expected error when config file is missing, got nil")
	}
}

func TestLoginCommand_EmptyServerHost(t *testing.T) {
	setupTestEnvironment(t, []config.Server{
		{Alias: "test-server", Host: ""},
	})

	err := runLogin("test@example.com", "password123", "")
	if err == nil {
		t.Fatal("expected error when server host is empty, got nil")
	}
}

func TestLoginCommand_UnknownServerAlias(t *testing.T) {
	setupTestEnvironment(t, []config.Server{
		{Alias: "test-server", Host: "127.0.0.1"},
	})

	err := runLogin("test@example.com", "password123", "missing")
	if err == nil {
		t.Fatal("expected error for unknown server alias, got nil")
	}
}

func TestLoginCommand_EnvVarCredentials(t *testing.T) {
	setupTestEnvironment(t, []config.Server{
		{Alias: "test-server", Host: "127.0.0.1"},
	})

	t.Setenv("CHATDOCS_EMAIL", "env@example.com")
	t.Setenv("CHATDOCS_PASSWORD", "envpass")

	// The call fails later at the network stage; the point is that it gets
	// past email validation by reading the env var
	err := runLogin("", "", "")
	if err != nil && err.Error() == "email is required (use --email flag or CHATDOCS_EMAIL env var)" {
		t.Error("runLogin should have read email from CHATDOCS_EMAIL env var")
	}
}
