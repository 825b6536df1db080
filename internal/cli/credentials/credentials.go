package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "chatdocs-cli"
)

// ErrNotFound is returned when no credential is stored for a server.
// Callers use it to distinguish "no session" from a storage failure.
var ErrNotFound = errors.New("no stored credential")

// Store persists the session credential and the refresh artifact per server.
// The session manager treats it as write-through storage: saving an empty
// value clears the entry.
type Store interface {
	SaveToken(server, token string) error
	LoadToken(server string) (string, error)
	SaveRefreshToken(server, token string) error
	LoadRefreshToken(server string) (string, error)
}

// KeyringStore implements Store using the OS keychain/credential manager
type KeyringStore struct{}

// Default is the process-wide keyring-backed store
var Default Store = &KeyringStore{}

func tokenKey(server string) string {
	return fmt.Sprintf("token-%s", server)
}

func refreshKey(server string) string {
	return fmt.Sprintf("refresh-%s", server)
}

// SaveToken persists the bearer token securely. An empty token clears the entry.
func (s *KeyringStore) SaveToken(server, token string) error {
	return save(tokenKey(server), token)
}

// LoadToken retrieves the bearer token, or ErrNotFound if none is stored
func (s *KeyringStore) LoadToken(server string) (string, error) {
	return load(tokenKey(server))
}

// SaveRefreshToken persists the refresh artifact. An empty token clears the entry.
func (s *KeyringStore) SaveRefreshToken(server, token string) error {
	return save(refreshKey(server), token)
}

// LoadRefreshToken retrieves the refresh artifact, or ErrNotFound if none is stored
func (s *KeyringStore) LoadRefreshToken(server string) (string, error) {
	return load(refreshKey(server))
}

func save(key, value string) error {
	if value == "" {
		if err := keyring.Delete(service, key); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil // already cleared
			}
			return fmt.Errorf("failed to clear credential: %w", err)
		}
		return nil
	}
	if err := keyring.Set(service, key, value); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func load(key string) (string, error) {
	value, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	return value, nil
}
