// Package api is the typed HTTP client for the crash-alerting backend.
// Every operation is a thin wrapper: attach credentials, encode, decode,
// surface the error. No retry, no queuing, no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/crashdash/crashdash/internal/backend"
	"github.com/crashdash/crashdash/internal/domain/project"
	"github.com/crashdash/crashdash/internal/domain/user"
	"github.com/crashdash/crashdash/internal/localstore"
	"github.com/google/uuid"
)

// TokenSource yields the bearer token to attach to outbound requests.
// An empty token means the Authorization header is omitted.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StoredTokenSource reads the persisted credential token from a local
// store. An absent key yields an empty token, not an error.
func StoredTokenSource(store localstore.Store) TokenSource {
	return TokenSourceFunc(func(ctx context.Context) (string, error) {
		token, err := store.Get(ctx, localstore.TokenKey)
		if err == localstore.ErrNotFound {
			return "", nil
		}
		return token, err
	})
}

// Client talks to a single configured backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

var _ backend.Backend = (*Client)(nil)

// Config defines client construction inputs.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Logger  *slog.Logger
}

// New creates a backend client.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  cfg.Tokens,
		logger:  logger,
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type signupRequest struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type signupResponse struct {
	User user.User `json:"user"`
}

// alertEnvelope wraps the update and regenerate responses.
type alertEnvelope struct {
	Alert project.Project `json:"alert"`
}

// Login exchanges credentials for a bearer token and identity.
func (c *Client) Login(ctx context.Context, identifier, password string) (string, *user.User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{
		Identifier: identifier,
		Password:   password,
	}, &resp)
	if err != nil {
		return "", nil, err
	}
	return resp.Token, &resp.User, nil
}

// Signup registers a new account without authenticating it.
func (c *Client) Signup(ctx context.Context, name, identifier, password string) (*user.User, error) {
	var resp signupResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", signupRequest{
		Name:       name,
		Identifier: identifier,
		Password:   password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CurrentUser resolves the identity behind the current bearer token.
func (c *Client) CurrentUser(ctx context.Context) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateProject creates a monitored project.
func (c *Client) CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	var proj project.Project
	if err := c.do(ctx, http.MethodPost, "/alerts/create", req, &proj); err != nil {
		return nil, err
	}
	return &proj, nil
}

// ListProjects fetches all projects owned by the given user.
func (c *Client) ListProjects(ctx context.Context, userID string) ([]project.Project, error) {
	var projects []project.Project
	if err := c.do(ctx, http.MethodGet, "/alerts/get-all/"+userID, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a single project by id.
func (c *Client) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var proj project.Project
	if err := c.do(ctx, http.MethodGet, "/alerts/"+id, nil, &proj); err != nil {
		return nil, err
	}
	return &proj, nil
}

// UpdateProject applies a partial update and returns the server's
// representation, unwrapped from the {"alert": ...} envelope.
func (c *Client) UpdateProject(ctx context.Context, id string, upd project.Update) (*project.Project, error) {
	var resp alertEnvelope
	if err := c.do(ctx, http.MethodPut, "/alerts/"+id, upd, &resp); err != nil {
		return nil, err
	}
	return &resp.Alert, nil
}

// DeleteProject deletes a project. Irreversible.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/alerts/"+id, nil, nil)
}

// RegenerateKey issues a fresh API key for the project.
func (c *Client) RegenerateKey(ctx context.Context, id string) (*project.Project, error) {
	var resp alertEnvelope
	if err := c.do(ctx, http.MethodPut, "/alerts/"+id+"/regenerate-key", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Alert, nil
}

// ReportAlert triggers a test alert against the project's key.
func (c *Client) ReportAlert(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodPost, "/alerts/report/"+key, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("read credential token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("backend request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp, method, path, requestID)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response, method, path, requestID string) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}

	c.logger.Debug("backend error", "method", method, "path", path,
		"status", resp.StatusCode, "request_id", requestID)
	return apiErr
}
