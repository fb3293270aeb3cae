// Package client is the HTTP client for the Stockbox admin API.
//
// Every request goes to one base URL and carries the session cookie from a
// shared cookie jar. Every error response is inspected before it reaches the
// caller: when the backend says the auth token is missing or expired the
// client drops the local session through its Invalidator, then returns the
// error unchanged so the calling screen can still report it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://stockbox12.onrender.com"

// requestIDHeader correlates client log lines with backend logs.
const requestIDHeader = "X-Request-ID"

// Invalidator drops the local session when the backend rejects the token.
type Invalidator interface {
	Clear() error
}

// Client is the Stockbox API client.
type Client struct {
	rest        *resty.Client
	jar         http.CookieJar
	cookies     CookieStore
	invalidator Invalidator
	classify    Classifier
	log         zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithInvalidator sets what gets cleared on a token failure.
func WithInvalidator(inv Invalidator) Option {
	return func(c *Client) { c.invalidator = inv }
}

// WithClassifier replaces Classify.
func WithClassifier(f Classifier) Option {
	return func(c *Client) {
		if f != nil {
			c.classify = f
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rest.SetTimeout(d)
		}
	}
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil) //nolint:errcheck // never fails with nil options
	c := &Client{
		rest: resty.New().
			SetBaseURL(baseURL).
			SetCookieJar(jar).
			SetTimeout(30 * time.Second),
		jar:      jar,
		classify: Classify,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.restoreCookies()
	c.rest.
		SetHeader("Accept", "application/json").
		OnBeforeRequest(c.tagRequest).
		OnAfterResponse(c.inspectResponse).
		OnError(c.logFailure)
	return c
}

// BaseURL returns the backend origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.rest.BaseURL
}

func (c *Client) tagRequest(_ *resty.Client, req *resty.Request) error {
	req.SetHeader(requestIDHeader, uuid.NewString())
	return nil
}

// inspectResponse runs on every response. Successful responses pass through.
// Failed ones become *HTTPError, and token failures clear the local session.
func (c *Client) inspectResponse(_ *resty.Client, resp *resty.Response) error {
	c.log.Debug().
		Str("method", resp.Request.Method).
		Str("url", resp.Request.URL).
		Str("request_id", resp.Request.Header.Get(requestIDHeader)).
		Int("status", resp.StatusCode()).
		Dur("took", resp.Time()).
		Msg("api response")

	c.saveCookies(resp.RawResponse)
	if !resp.IsError() {
		return nil
	}
	msg := errorMessage(resp.Body())
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode(),
		Message:    msg,
		Kind:       c.classify(resp.StatusCode(), msg),
	}
	if httpErr.Kind == KindUnauthenticated {
		c.invalidate(httpErr)
	}
	return httpErr
}

func (c *Client) invalidate(cause *HTTPError) {
	c.log.Info().Int("status", cause.StatusCode).Str("message", cause.Message).Msg("backend rejected session token")
	if c.invalidator == nil {
		return
	}
	if err := c.invalidator.Clear(); err != nil {
		c.log.Warn().Err(err).Msg("clear session after token failure")
	}
}

func (c *Client) logFailure(req *resty.Request, err error) {
	c.log.Debug().Err(err).Str("method", req.Method).Str("url", req.URL).Msg("api request failed")
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	req := c.rest.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return requestError(err)
	}
	return decode(resp, out)
}

// FilePart is a file attached to a multipart upload.
type FilePart struct {
	Field string
	Path  string
}

func (c *Client) upload(ctx context.Context, method, path string, fields map[string]string, files []FilePart, out any) error {
	req := c.rest.R().SetContext(ctx).SetMultipartFormData(fields)
	for _, f := range files {
		if f.Path == "" {
			continue
		}
		req.SetFile(f.Field, f.Path)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return requestError(err)
	}
	return decode(resp, out)
}

// requestError keeps *HTTPError unwrapped so callers can match on it directly.
func requestError(err error) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return fmt.Errorf("do request: %w", err)
}

func decode(resp *resty.Response, out any) error {
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
