package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// ErrUnauthorized is returned when the API rejects the current credential (401).
// The session manager uses it to trigger the one-shot refresh branch.
var ErrUnauthorized = errors.New("credential rejected")

// Client represents an HTTP client for the ChatDocs API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new API client for the given server address
func New(server string, logger zerolog.Logger) *Client {
	// Assume HTTPS by default
	baseURL := fmt.Sprintf("https://%s", server)

	return &Client{
		baseURL: baseURL,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Skip TLS verification for self-signed certificates
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetBaseURL overrides the derived base URL (used by tests against httptest servers)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetToken configures the bearer token attached to subsequent requests.
// An empty token detaches authorization.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Identity represents the authenticated user's profile
type Identity struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
}

// Login authenticates with email and password and returns the issued tokens
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	reqBody := LoginRequest{
		Email:    email,
		Password: password,
	}

	var loginResp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", reqBody, &loginResp); err != nil {
		return nil, err
	}
	return &loginResp, nil
}

// Me fetches the identity behind the current token. A 401 response maps to
// ErrUnauthorized; every other failure is a generic error.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// RefreshRequest represents the refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse represents the refresh response
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Refresh exchanges the refresh artifact for a new bearer token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	reqBody := RefreshRequest{
		RefreshToken: refreshToken,
	}

	var refreshResp RefreshResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", reqBody, &refreshResp); err != nil {
		return nil, err
	}
	return &refreshResp, nil
}

// do sends a JSON request and decodes a JSON response into out (when non-nil)
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Msg("API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
