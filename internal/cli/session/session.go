// Package session owns the client-side authentication session: the current
// credential and identity, and the operations that change them. The Store is a
// passive state container; the Manager is its only writer and implements the
// login/logout/refresh protocol, including the one-shot refresh on a rejected
// credential.
package session

import (
	"sync"

	"github.com/chatdocs-dev/chatdocs/internal/cli/api"
)

// State is the session snapshot exposed to the rest of the application.
// Consumers must treat it as read-only; only the Manager mutates the Store.
type State struct {
	// Credential is the opaque bearer token. Empty means unauthenticated.
	Credential string

	// Identity is the authenticated user's profile. It can lag behind
	// Credential until a fetch confirms it.
	Identity *api.Identity

	// IsLoading is true exactly while a login/logout/refresh is in flight.
	IsLoading bool

	// Err holds the last operation's failure message. Cleared explicitly or
	// on the next successful operation.
	Err string
}

// IsAuthenticated reports whether a credential is present. It is always
// derived, never stored.
func (s State) IsAuthenticated() bool {
	return s.Credential != ""
}

// Store holds the current State and notifies subscribers on change. It has no
// validation logic of its own.
//
// Overlapping operations are last-write-wins on individual fields. No caller
// in this codebase issues overlapping calls; the race is accepted rather than
// serialized away.
type Store struct {
	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	next  int
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		subs: make(map[int]func(State)),
	}
}

// Read returns the current session state
func (s *Store) Read() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every state change. The returned
// cancel function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// write applies mutate under the lock and notifies subscribers with the
// resulting snapshot. Only the Manager calls this.
func (s *Store) write(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
