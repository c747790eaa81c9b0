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

	"github.com/dmitrijs2005/medquery/internal/client/models"
	"github.com/dmitrijs2005/medquery/internal/common"
	"github.com/dmitrijs2005/medquery/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed response body is read for its message.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. Its transport is
// wrapped, not replaced, so the bearer header is still attached.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			clone := *hc
			c.http = &clone
		}
	}
}

// WithTimeout bounds every request. Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.log = l
		}
	}
}

// NewHTTPClient builds a client for the backend rooted at baseURL
// (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}

	c := &HTTPClient{baseURL: u, http: &http.Client{}, log: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Transport = &bearerTransport{base: c.http.Transport, tokens: tokens}
	c.log = logging.Component(c.log, "api")

	return c, nil
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// okStatus restricts success to one status code; zero accepts any 2xx.
	okStatus int
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// send performs the request and returns the response when its status is
// accepted. The caller must close the body.
func (c *HTTPClient) send(ctx context.Context, r request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), r.body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", r.method, "path", r.path, "request_id", requestID, "error", err)
		return nil, c.mapTransportError(ctx, err)
	}
	c.log.Debug(ctx, "request done",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(started))

	accepted := resp.StatusCode >= 200 && resp.StatusCode < 300
	if r.okStatus != 0 {
		accepted = resp.StatusCode == r.okStatus
	}
	if !accepted {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, c.mapStatus(resp.StatusCode, body)
	}
	return resp, nil
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.mapTransportError(ctx, err)
	}

	var e models.ErrorResponse
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, r.method, r.path, err)
	}
	return nil
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

func (c *HTTPClient) mapStatus(status int, body []byte) error {
	var e models.ErrorResponse
	_ = json.Unmarshal(body, &e)
	apiErr := &APIError{Status: status, Message: e.Message()}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr.sentinel = ErrUnauthorized
	case http.StatusNotFound:
		apiErr.sentinel = ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		apiErr.sentinel = ErrUnavailable
	}
	return apiErr
}

func (c *HTTPClient) mapTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, ctxErr)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
