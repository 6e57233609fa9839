// Package client talks to the taskboard HTTP API.
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
	"strconv"
	"strings"
	"time"

	"github.com/St1cky1/taskboard/internal/entity"
	"golang.org/x/oauth2"
)

type Client struct {
	baseURL string
	session *Session
	// authed carries the session token and the 401 interceptor; public is
	// used for signup and signin.
	authed *http.Client
	public *http.Client
}

type Option func(*options)

type options struct {
	transport http.RoundTripper
	timeout   time.Duration
}

// WithTransport replaces the underlying transport (tests, proxies).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func New(baseURL string, session *Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q needs a scheme and host", baseURL)
	}

	o := options{transport: http.DefaultTransport, timeout: 15 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL: u.String(),
		session: session,
		authed: &http.Client{
			Timeout: o.timeout,
			Transport: &oauth2.Transport{
				Source: session,
				Base:   &unauthorizedInterceptor{base: o.transport, session: session},
			},
		},
		public: &http.Client{Timeout: o.timeout, Transport: o.transport},
	}, nil
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) SignUp(ctx context.Context, req entity.SignUpRequest) (*entity.AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/signup", req)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*entity.AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/signin", entity.SignInRequest{Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*entity.AuthResponse, error) {
	var resp entity.AuthResponse
	if err := c.do(ctx, c.public, http.MethodPost, path, nil, body, &resp); err != nil {
		return nil, err
	}
	if err := c.session.Save(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SignOut() error {
	return c.session.Clear()
}

// ListOptions mirror the list query parameters; zero values let the
// server apply its defaults.
type ListOptions struct {
	Page   int
	Limit  int
	Status string
}

func (c *Client) ListTasks(ctx context.Context, opts ListOptions) (*entity.TaskPage, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}

	var page entity.TaskPage
	if err := c.do(ctx, c.authed, http.MethodGet, "/api/tasks", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*entity.Task, error) {
	var task entity.Task
	if err := c.do(ctx, c.authed, http.MethodGet, taskPath(id), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, req entity.CreateTaskRequest) (*entity.Task, error) {
	var task entity.Task
	if err := c.do(ctx, c.authed, http.MethodPost, "/api/tasks", nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, req entity.UpdateTaskRequest) (*entity.Task, error) {
	var task entity.Task
	if err := c.do(ctx, c.authed, http.MethodPut, taskPath(id), nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, c.authed, http.MethodDelete, taskPath(id), nil, nil, nil)
}

func (c *Client) TaskHistory(ctx context.Context, id string) ([]entity.TaskAudit, error) {
	var history []entity.TaskAudit
	if err := c.do(ctx, c.authed, http.MethodGet, taskPath(id)+"/history", nil, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return ErrUnauthenticated
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}
