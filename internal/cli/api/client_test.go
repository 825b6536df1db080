package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New("ignored", zerolog.Nop())
	client.SetBaseURL(server.URL)
	client.SetHTTPClient(server.Client())
	return client, server
}

func TestMe_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header to be set")
		}

		json.NewEncoder(w).Encode(Identity{
			ID:    "u1",
			Email: "u1@example.com",
			Name:  "User One",
		})
	})
	client.SetToken("tok-1")

	identity, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ID != "u1" || identity.Email != "u1@example.com" {
		t.Errorf("unexpected identity: %+v", identity)
	}
}

func TestMe_UnauthorizedMapsToSentinel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "token expired"}`))
	})
	client.SetToken("stale")

	_, err := client.Me(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestMe_ServerErrorIsGeneric(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := client.Me(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("5xx must not map to ErrUnauthorized")
	}
}

func TestLogin_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Email != "u1@example.com" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		json.NewEncoder(w).Encode(LoginResponse{
			Token:        "tok-1",
			RefreshToken: "refresh-1",
			User:         Identity{ID: "u1", Email: req.Email},
		})
	})

	resp, err := client.Login(context.Background(), "u1@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "tok-1" || resp.RefreshToken != "refresh-1" {
		t.Errorf("unexpected tokens: %+v", resp)
	}
	if resp.User.ID != "u1" {
		t.Errorf("unexpected user: %+v", resp.User)
	}
}

func TestRefresh_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/refresh" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.RefreshToken != "refresh-1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(RefreshResponse{
			AccessToken:  "tok-2",
			RefreshToken: "refresh-2",
		})
	})

	resp, err := client.Refresh(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken != "tok-2" {
		t.Errorf("unexpected access token: %q", resp.AccessToken)
	}
	if resp.RefreshToken != "refresh-2" {
		t.Errorf("unexpected refresh token: %q", resp.RefreshToken)
	}
}

func TestRefresh_FailureStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid refresh token"}`))
	})

	_, err := client.Refresh(context.Background(), "broken")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestSetToken_EmptyDetachesAuthorization(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		json.NewEncoder(w).Encode(Identity{ID: "u1"})
	})

	client.SetToken("tok-1")
	client.SetToken("")

	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
