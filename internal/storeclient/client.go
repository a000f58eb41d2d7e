// Package storeclient talks to the task/user store API over HTTP.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mikhailyemets/todoplash/internal/domain"
	"github.com/mikhailyemets/todoplash/internal/probe"
)

const (
	// DefaultTimeout bounds every call when no timeout is configured.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 512
)

// Client is a store API client. Each call is a single request; a call
// succeeds only on its exact expected status code.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type taskEnvelope struct {
	Message string       `json:"message,omitempty"`
	Todo    *domain.Task `json:"todo"`
}

type userEnvelope struct {
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

// DeleteAllResult is the store's answer to a delete-all request.
type DeleteAllResult struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// CreateTask creates a task with the given description.
func (c *Client) CreateTask(ctx context.Context, description string) (*domain.Task, error) {
	var out taskEnvelope
	body := map[string]string{"description": description}
	if err := c.do(ctx, "create task", http.MethodPost, "/create-todo", nil, body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return out.Todo, nil
}

// GetTask fetches a task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var out taskEnvelope
	q := url.Values{"id": []string{id}}
	if err := c.do(ctx, "get task", http.MethodGet, "/get-todo", q, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Todo, nil
}

// ListTasks returns every task.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var out struct {
		Todos []domain.Task `json:"todos"`
	}
	if err := c.do(ctx, "list tasks", http.MethodGet, "/get-all-todo", nil, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Todos, nil
}

// UpdateTask replaces a task's description.
func (c *Client) UpdateTask(ctx context.Context, id, description string) (*domain.Task, error) {
	var out taskEnvelope
	body := map[string]string{"id": id, "description": description}
	if err := c.do(ctx, "update task", http.MethodPut, "/update-todo", nil, body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Todo, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	body := map[string]string{"id": id}
	return c.do(ctx, "delete task", http.MethodDelete, "/delete-todo", nil, body, http.StatusOK, nil)
}

// DeleteAllTasks removes every task.
func (c *Client) DeleteAllTasks(ctx context.Context) (*DeleteAllResult, error) {
	var out DeleteAllResult
	if err := c.do(ctx, "delete all tasks", http.MethodDelete, "/delete-all-todo", nil, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns every user.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out struct {
		Users []domain.User `json:"users"`
	}
	if err := c.do(ctx, "list users", http.MethodGet, "/get-users", nil, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// AddUser registers a user.
func (c *Client) AddUser(ctx context.Context, telegramID, group string) (*domain.User, error) {
	var out userEnvelope
	body := map[string]string{"telegram_id": telegramID, "group": group}
	if err := c.do(ctx, "add user", http.MethodPost, "/add-user", nil, body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, telegramID string) error {
	body := map[string]string{"telegram_id": telegramID}
	return c.do(ctx, "delete user", http.MethodDelete, "/delete-user", nil, body, http.StatusOK, nil)
}

// EditUser changes a user's group.
func (c *Client) EditUser(ctx context.Context, telegramID, group string) (*domain.User, error) {
	var out userEnvelope
	body := map[string]string{"telegram_id": telegramID, "group": group}
	if err := c.do(ctx, "edit user", http.MethodPut, "/edit-user", nil, body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SearchDomains probes a batch of domains.
func (c *Client) SearchDomains(ctx context.Context, in probe.Input) ([]domain.ProbeResult, error) {
	var out struct {
		Results []domain.ProbeResult `json:"results"`
	}
	body := map[string]probe.Input{"domains": in}
	if err := c.do(ctx, "search domains", http.MethodPost, "/search-domains", nil, body, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, want int, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Sentinel: ErrTransport, Operation: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Sentinel: ErrTransport, Operation: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Store request failed", "operation", op, "error", err)
		return &Error{Sentinel: ErrTransport, Operation: op, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close store response body", "error", closeErr)
		}
	}()

	c.logger.Debug("Store request completed",
		"operation", op,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != want {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Sentinel:  ErrUnexpectedStatus,
			Operation: op,
			Status:    resp.StatusCode,
			Body:      strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Sentinel: ErrBadResponse, Operation: op, Status: resp.StatusCode, Err: err}
	}
	return nil
}
