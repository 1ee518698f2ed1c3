package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matthieukhl/loyaltyctl/internal/config"
	"github.com/pkg/errors"
)

// TokenSource supplies the current session credential. The session store
// implements it; the client never persists or mutates the token itself.
type TokenSource interface {
	Token() string
}

// Client is the typed HTTP boundary to the loyalty backend. All admin
// endpoints live under /admin relative to the configured base URL.
type Client struct {
	baseURL string
	perPage int
	tokens  TokenSource
	client  *http.Client
}

// Error carries a non-2xx backend response unchanged. Calls are never
// retried; the caller decides what a failure means.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Body)
}

// Unauthorized reports whether the backend rejected the session credential.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsUnauthorized reports whether err is a credential rejection from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}

func NewClient(cfg *config.APIConfig, tokens TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 15
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		perPage: perPage,
		tokens:  tokens,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// withPerPage fills in the configured page size when the caller did not
// choose one, so every list request transmits an explicit per_page.
func (c *Client) withPerPage(q url.Values) url.Values {
	if q.Get("per_page") == "" {
		q.Set("per_page", strconv.Itoa(c.perPage))
	}
	return q
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s failed", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode %s %s response", method, path)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// idPath builds a resource path with a numeric id segment. Ids must be
// positive integers; anything else fails before a request is issued.
func idPath(prefix string, id int64) (string, error) {
	if id <= 0 {
		return "", errors.Errorf("invalid id %d for %s", id, prefix)
	}
	return fmt.Sprintf("%s/%d", prefix, id), nil
}
