// Package apiclient talks to the remote content API.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"admin/internal/app/ds"
	"admin/internal/app/dto"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// TokenSource yields the bearer token of the current admin session.
type TokenSource interface {
	Token() string
}

// ServerError is a non-2xx answer of the content API.
type ServerError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("content api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("content api: status %d: %s", e.StatusCode, e.Message)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	Tokens     TokenSource
}

type Client struct {
	http   *resty.Client
	tokens TokenSource
}

func New(opts Options) *Client {
	c := &Client{tokens: opts.Tokens}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c.http = resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(opts.RetryCount).
		SetHeader("Accept", "application/json")

	c.http.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader(requestIDHeader, uuid.NewString())
		if c.tokens != nil {
			if token := c.tokens.Token(); token != "" {
				r.SetAuthToken(token)
			}
		}
		return nil
	})

	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logrus.WithFields(logrus.Fields{
			"method":     resp.Request.Method,
			"url":        resp.Request.URL,
			"status":     resp.StatusCode(),
			"duration":   resp.Time(),
			"request_id": resp.Request.Header.Get(requestIDHeader),
		}).Debug("content api call")
		return nil
	})

	return c
}

// do executes one request. configure may set body, path params and
// multipart parts; out receives the decoded success body.
func (c *Client) do(ctx context.Context, method, path string, configure func(*resty.Request), out interface{}) error {
	var failure dto.APIError

	req := c.http.R().
		SetContext(ctx).
		SetError(&failure)
	if out != nil {
		req.SetResult(out)
	}
	if configure != nil {
		configure(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		message := failure.Message
		if message == "" {
			message = failure.Error
		}
		return &ServerError{
			StatusCode: resp.StatusCode(),
			Message:    message,
			RequestID:  req.Header.Get(requestIDHeader),
		}
	}
	return nil
}

// Login exchanges credentials for an admin token.
func (c *Client) Login(ctx context.Context, credentials dto.LoginRequest) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(credentials)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the admin the current token belongs to.
func (c *Client) Me(ctx context.Context) (*ds.User, error) {
	var out dto.APIResponse[ds.User]
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
