package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatdocs-dev/chatdocs/internal/cli/api"
	"github.com/chatdocs-dev/chatdocs/internal/cli/credentials"
)

// Mode selects how Bootstrap seeds the session
type Mode int

const (
	// ModeNormal seeds the session from the persisted credential, if any
	ModeNormal Mode = iota

	// ModeDemo synthesizes a fixed demo session when nothing is persisted.
	// A persisted real credential always wins over demo mode.
	ModeDemo
)

// DemoToken is the fixed credential used by the demo-mode bootstrap
const DemoToken = "demo-session-token"

// demoIdentity is the fixed profile used by the demo-mode bootstrap
var demoIdentity = api.Identity{
	ID:     "demo-user",
	Handle: "demo",
	Email:  "demo@chatdocs.dev",
	Name:   "Demo User",
}

// defaultRefreshTimeout bounds the network work of a single RefreshIdentity
// call, nested refresh included. Timeouts surface through State.Err like any
// other failure.
const defaultRefreshTimeout = 30 * time.Second

// API is the remote surface the Manager needs: attach a token to outgoing
// requests, fetch the current identity, and exchange the refresh artifact for
// a new token. *api.Client satisfies it.
type API interface {
	SetToken(token string)
	Me(ctx context.Context) (*api.Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*api.RefreshResponse, error)
}

// Manager is the only writer of the session Store.
//
// Login and Logout never return errors; failures are caught at this boundary
// and surfaced through State.Err, so callers never see a half-reported
// failure channel.
type Manager struct {
	store  *Store
	creds  credentials.Store
	api    API
	server string
	mode   Mode
	logger zerolog.Logger

	refreshTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// NewManager creates a session manager for the given server. The server value
// keys credential storage, so sessions against different servers do not
// clobber each other.
func NewManager(store *Store, creds credentials.Store, apiClient API, server string, mode Mode, logger zerolog.Logger) *Manager {
	return &Manager{
		store:          store,
		creds:          creds,
		api:            apiClient,
		server:         server,
		mode:           mode,
		logger:         logger,
		refreshTimeout: defaultRefreshTimeout,
	}
}

// SetRefreshTimeout overrides the bound on RefreshIdentity's network work
func (m *Manager) SetRefreshTimeout(d time.Duration) {
	m.refreshTimeout = d
}

// Store returns the store this manager writes. Consumers read and subscribe;
// they must not mutate the returned state.
func (m *Manager) Store() *Store {
	return m.store
}

// Close drops the manager's liveness. State writes from operations still in
// flight are ignored afterwards; in-flight network calls are not cancelled.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

// apply forwards a mutation to the store unless the manager has been closed
func (m *Manager) apply(mutate func(*State)) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}
	m.store.write(mutate)
}

// Bootstrap seeds the session at startup: from the persisted credential when
// one exists, from the fixed demo session in demo mode, otherwise logged out.
// It makes no network calls.
func (m *Manager) Bootstrap() {
	token, err := m.creds.LoadToken(m.server)
	if err != nil && !errors.Is(err, credentials.ErrNotFound) {
		m.logger.Warn().Err(err).Msg("failed to read persisted credential")
	}

	if token != "" {
		m.api.SetToken(token)
		m.apply(func(st *State) {
			st.Credential = token
		})
		m.logger.Debug().Msg("session restored from persisted credential")
		return
	}

	if m.mode == ModeDemo {
		identity := demoIdentity
		m.api.SetToken(DemoToken)
		m.apply(func(st *State) {
			st.Credential = DemoToken
			st.Identity = &identity
		})
		m.logger.Debug().Msg("demo session bootstrapped")
	}
}

// Login establishes a session with the given credential. An identity may be
// written optimistically when the caller already has one (the login endpoint
// returns it alongside the token).
func (m *Manager) Login(credential string, identity *api.Identity) {
	if credential == "" {
		m.apply(func(st *State) {
			st.Err = "login requires a credential"
		})
		return
	}

	m.apply(func(st *State) {
		st.IsLoading = true
		st.Err = ""
		st.Credential = credential
		if identity != nil {
			st.Identity = identity
		}
	})

	err := m.creds.SaveToken(m.server, credential)
	if err == nil {
		m.api.SetToken(credential)
	}

	m.apply(func(st *State) {
		if err != nil {
			st.Err = err.Error()
		}
		st.IsLoading = false
	})

	if err != nil {
		m.logger.Error().Err(err).Msg("login failed to persist credential")
	} else {
		m.logger.Debug().Msg("logged in")
	}
}

// Logout clears the session. Idempotent: logging out while logged out only
// resets Err and IsLoading.
func (m *Manager) Logout() {
	m.apply(func(st *State) {
		st.IsLoading = true
		st.Err = ""
		st.Credential = ""
		st.Identity = nil
	})

	err := m.creds.SaveToken(m.server, "")
	if rerr := m.creds.SaveRefreshToken(m.server, ""); rerr != nil && err == nil {
		err = rerr
	}
	m.api.SetToken("")

	m.apply(func(st *State) {
		if err != nil {
			st.Err = err.Error()
		}
		st.IsLoading = false
	})

	if err != nil {
		m.logger.Error().Err(err).Msg("logout failed to clear credential")
	} else {
		m.logger.Debug().Msg("logged out")
	}
}

// ClearError resets the error field. Nothing else changes.
func (m *Manager) ClearError() {
	m.apply(func(st *State) {
		st.Err = ""
	})
}

// RefreshIdentity fetches the current identity with the current credential.
// Without a credential it is a silent no-op.
//
// On a rejected credential (401) it attempts exactly one refresh with the
// persisted refresh artifact and retries the fetch once. A second rejection
// is surfaced as an error rather than looping. A failed refresh ends the
// session via Logout. Any other failure is surfaced through State.Err and
// the session is kept, on the assumption the failure is transient.
func (m *Manager) RefreshIdentity(ctx context.Context) {
	if !m.store.Read().IsAuthenticated() {
		return
	}

	m.apply(func(st *State) {
		st.IsLoading = true
		st.Err = ""
	})
	defer m.apply(func(st *State) {
		st.IsLoading = false
	})

	ctx, cancel := context.WithTimeout(ctx, m.refreshTimeout)
	defer cancel()

	refreshed := false
	for {
		identity, err := m.api.Me(ctx)
		if err == nil {
			m.apply(func(st *State) {
				st.Identity = identity
			})
			return
		}

		if !errors.Is(err, api.ErrUnauthorized) {
			m.apply(func(st *State) {
				st.Err = err.Error()
			})
			m.logger.Warn().Err(err).Msg("identity fetch failed")
			return
		}

		if refreshed {
			// The server rejected a token it just issued. Surface it;
			// retrying again would loop forever.
			m.apply(func(st *State) {
				st.Err = err.Error()
			})
			m.logger.Warn().Msg("refreshed credential rejected")
			return
		}

		if !m.refreshCredential(ctx) {
			m.Logout()
			return
		}
		refreshed = true
	}
}

// refreshCredential exchanges the persisted refresh artifact for a new
// credential and persists it. Returns false when the session cannot be
// refreshed.
func (m *Manager) refreshCredential(ctx context.Context) bool {
	refreshToken, err := m.creds.LoadRefreshToken(m.server)
	if err != nil || refreshToken == "" {
		m.logger.Debug().Msg("no refresh artifact available")
		return false
	}

	resp, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		m.logger.Warn().Err(err).Msg("credential refresh failed")
		return false
	}

	if err := m.creds.SaveToken(m.server, resp.AccessToken); err != nil {
		m.logger.Error().Err(err).Msg("failed to persist refreshed credential")
		return false
	}
	if resp.RefreshToken != "" {
		if err := m.creds.SaveRefreshToken(m.server, resp.RefreshToken); err != nil {
			m.logger.Warn().Err(err).Msg("failed to persist rotated refresh artifact")
		}
	}

	m.api.SetToken(resp.AccessToken)
	m.apply(func(st *State) {
		st.Credential = resp.AccessToken
	})

	m.logger.Debug().Msg("credential refreshed")
	return true
}
