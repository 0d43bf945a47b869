// Package client is the API client used by frontends. The bearer token is
// read from the TokenStore on every request; nothing is kept in global state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tasks-be/internal/entities"
	"tasks-be/internal/models"
)

// ErrLoggedOut means the session is missing or was rejected by the server and
// has been cleared; the caller should send the user back to login.
var ErrLoggedOut = errors.New("not logged in")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client; its Transport is wrapped.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, store TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &bearerTransport{base: base, store: store}
	c.http = &hc
	return c
}

type ctxKey struct{}

// withAuth marks a request as needing the bearer token.
func withAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, true)
}

// bearerTransport attaches the current token at send time.
type bearerTransport struct {
	base  http.RoundTripper
	store TokenStore
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if auth, _ := req.Context().Value(ctxKey{}).(bool); !auth {
		return t.base.RoundTrip(req)
	}

	s, err := t.store.Load()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrLoggedOut
	}

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+s.Token)
	return t.base.RoundTrip(req)
}

// Session returns the stored session, or nil when logged out.
func (c *Client) Session() (*Session, error) {
	return c.store.Load()
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/register", models.RegisterRequest{Name: name, Email: email, Password: password})
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/login", models.LoginRequest{Email: email, Password: password})
}

// Me asks the server who the stored token belongs to.
func (c *Client) Me(ctx context.Context) (*models.UserView, error) {
	var user models.UserView
	if err := c.do(withAuth(ctx), http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout() error {
	return c.store.Clear()
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*Session, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	s := &Session{Token: resp.Token, User: resp.User}
	if err := c.store.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]entities.Task, error) {
	var tasks []entities.Task
	if err := c.do(withAuth(ctx), http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, title, description string) (*entities.Task, error) {
	var task entities.Task
	req := models.CreateTaskRequest{Title: title, Description: description}
	if err := c.do(withAuth(ctx), http.MethodPost, "/api/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (*entities.Task, error) {
	var task entities.Task
	if err := c.do(withAuth(ctx), http.MethodPut, "/api/tasks/"+url.PathEscape(id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(withAuth(ctx), http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
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
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, ErrLoggedOut) {
			return ErrLoggedOut
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var msg models.MessageResponse
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		}
		if resp.StatusCode == http.StatusUnauthorized && isAuthed(ctx) {
			if err := c.store.Clear(); err != nil {
				return err
			}
			return ErrLoggedOut
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isAuthed(ctx context.Context) bool {
	auth, _ := ctx.Value(ctxKey{}).(bool)
	return auth
}
