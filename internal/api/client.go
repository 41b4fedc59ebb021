// Package api implements the REST client for the mahal backend.
//
// The backend has no server-side pagination or filtering: list endpoints
// return the entire collection on every call, sometimes wrapped under an
// envelope key and sometimes as a bare array. Normalization of those shapes
// lives here; slicing into pages is the sync engine's business.
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

	"github.com/faisalkp/mahaldesk/internal/model"
)

const defaultTimeout = 30 * time.Second

// Client talks to the mahal backend. All requests carry the bearer token;
// a 401/403 anywhere fires the auth-failure hook exactly once per response.
type Client struct {
	httpClient    *http.Client
	onAuthFailure func()
	baseURL       string
	token         string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthFailureHook registers the session-invalidation callback invoked
// when the backend answers 401 or 403.
func WithAuthFailureHook(fn func()) Option {
	return func(c *Client) { c.onAuthFailure = fn }
}

// NewClient creates a client for the given base URL and bearer token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Members fetches the full member collection.
func (c *Client) Members(ctx context.Context) ([]model.Member, error) {
	body, err := c.get(ctx, "/members")
	if err != nil {
		return nil, err
	}
	return decodeList[model.Member](body, "/members", "members")
}

// Collections fetches the full money-collection ledger.
func (c *Client) Collections(ctx context.Context) ([]model.Collection, error) {
	body, err := c.get(ctx, "/dashboard/money-collection")
	if err != nil {
		return nil, err
	}
	return decodeList[model.Collection](body, "/dashboard/money-collection", "collections", "moneyCollections")
}

// SetMayyathuStatus flips the mayyathu-fund flag for a member.
func (c *Client) SetMayyathuStatus(ctx context.Context, id string, enabled bool) error {
	path := fmt.Sprintf("/members/%s/mayyathu-status", id)
	payload := map[string]bool{"mayyathuStatus": enabled}
	resp, err := c.do(ctx, http.MethodPatch, path, payload)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return c.checkStatus(resp)
}

// DeleteMember removes a member record.
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/members/"+id, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return c.checkStatus(resp)
}

// DeleteCollection removes a money-collection entry.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/dashboard/money-collection/"+id, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return c.checkStatus(resp)
}

// get issues a GET and returns the response body for 2xx responses.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("backend request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return resp, nil
}

// checkStatus maps non-2xx responses onto the error taxonomy. The response
// body is consumed on failure.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return fmt.Errorf("%w (%d)", ErrAuth, resp.StatusCode)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &ServerError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// decodeList accepts a bare JSON array or an object wrapping the array under
// one of the known envelope keys, tried in order.
func decodeList[T any](body []byte, endpoint string, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &MalformedResponseError{Endpoint: endpoint, Tried: keys}
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, &MalformedResponseError{Endpoint: endpoint, Tried: keys}
	}

	for _, key := range keys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, &MalformedResponseError{Endpoint: endpoint, Tried: keys}
		}
		return items, nil
	}

	return nil, &MalformedResponseError{Endpoint: endpoint, Tried: keys}
}
