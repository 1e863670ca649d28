// Package api is the thin authenticated HTTP client for the campus backend.
//
// It attaches the bearer token read from the session at call time, fails
// fast when a token is required but absent, and normalizes every non-2xx
// response into *Error so callers never branch on transport details.
// Retry policy belongs to callers; the client never retries on its own.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dimasprakoso/siakad-cli/internal/common"
	"github.com/dimasprakoso/siakad-cli/internal/logging"
	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for authenticated calls. The token
// is read on every request, so a logout or re-login between calls is always
// reflected.
type TokenSource interface {
	CurrentToken() string
}

// UnauthorizedPolicy selects what the client does when an authenticated
// call comes back 401/403. The default leaves handling to the caller;
// PolicyLogout centrally clears the session instead.
type UnauthorizedPolicy string

const (
	PolicyNone   UnauthorizedPolicy = "none"
	PolicyLogout UnauthorizedPolicy = "logout"
)

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger

	policy         UnauthorizedPolicy
	onUnauthorized func(ctx context.Context)
}

type Option func(*Client)

// WithTimeout bounds every request. A timeout surfaces as ErrTransport,
// not a distinct code path.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUnauthorizedPolicy installs the 401/403 policy. The hook runs at most
// once per response, after the error has been normalized, and only for
// PolicyLogout.
func WithUnauthorizedPolicy(p UnauthorizedPolicy, hook func(ctx context.Context)) Option {
	return func(c *Client) {
		c.policy = p
		c.onUnauthorized = hook
	}
}

func New(baseURL string, tokens TokenSource, log logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		log:     log,
		policy:  PolicyNone,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, true)
}

// Post issues a JSON POST. Pass authed=false only for the auth endpoints.
func (c *Client) Post(ctx context.Context, path string, body, out any, authed bool) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, authed)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, true)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out, true)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, query, reader, authed)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(ctx, req, out)
}

// Upload sends a multipart POST with a single file field. Used by the
// student photo endpoint (field name "foto").
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("reading upload file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf, true)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(ctx, req, out)
}

// newRequest builds the request and attaches auth. The token check happens
// before any network I/O: a missing token on an authenticated call is
// common.ErrAuthMissing, not a wasted round-trip.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, authed bool) (*http.Request, error) {
	var token string
	if authed {
		token = c.tokens.CurrentToken()
		if token == "" {
			return nil, common.ErrAuthMissing
		}
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if authed {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}
	req.Header.Set(common.RequestIDHeader, uuid.NewString())
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) send(ctx context.Context, req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed",
			"method", req.Method, "url", req.URL.String(), "error", err)
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	c.log.Debug(ctx, "request finished",
		"method", req.Method, "url", req.URL.String(),
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := normalizeError(resp.StatusCode, raw)
		if c.policy == PolicyLogout && c.onUnauthorized != nil &&
			(resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
