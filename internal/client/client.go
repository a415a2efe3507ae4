// Package client talks to the SmartNote REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/logger"
	"github.com/smartnote/core/internal/ports"
)

// APIError is a non-2xx response. It matches the entities sentinel errors
// with errors.Is according to its status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Is maps the status back onto the domain error taxonomy
func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusBadRequest:
		return target == entities.ErrValidation
	case http.StatusNotFound:
		return target == entities.ErrNotFound
	case http.StatusUnauthorized:
		return target == entities.ErrUnauthorized
	default:
		return e.Status >= http.StatusInternalServerError && target == entities.ErrStorage
	}
}

// Client is a REST client for notes, tasks and users
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger

	Notes *Resource[entities.Note]
	Tasks *Resource[entities.Task]
	Users *Resource[entities.User]
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Notes = &Resource[entities.Note]{client: c, path: "/api/notes"}
	c.Tasks = &Resource[entities.Task]{client: c, path: "/api/tasks"}
	c.Users = &Resource[entities.User]{client: c, path: "/api/users"}
	return c
}

// Login checks credentials and returns the public profile
func (c *Client) Login(ctx context.Context, email, password string) (*entities.Profile, error) {
	var profile entities.Profile
	req := ports.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Errorw("API request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debugw("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", float64(time.Since(start).Nanoseconds())/1000000,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body ports.ErrorResponse
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// Resource is the CRUD surface of one collection
type Resource[T any] struct {
	client *Client
	path   string
}

// Create stores a new record and returns it as stored
func (r *Resource[T]) Create(ctx context.Context, fields entities.Document) (*T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodPost, r.path, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the records owned by userID
func (r *Resource[T]) List(ctx context.Context, userID string) ([]*T, error) {
	var out []*T
	path := r.path + "?" + url.Values{"userId": {userID}}.Encode()
	if err := r.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one record
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodGet, r.itemPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update merges patch into the record and returns the stored result
func (r *Resource[T]) Update(ctx context.Context, id string, patch entities.Document) (*T, error) {
	var out T
	if err := r.client.do(ctx, http.MethodPut, r.itemPath(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the record and returns the server acknowledgement
func (r *Resource[T]) Delete(ctx context.Context, id string) (string, error) {
	var out ports.MessageResponse
	if err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
