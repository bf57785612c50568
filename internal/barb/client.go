package barb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/pkg/logger"
)

// tokenLifetime is how long an issued access token is assumed valid. The
// provider does not return an expiry, so this is a local clock-based
// heuristic: a token invalidated early by the server is only detected when
// a request fails.
const tokenLifetime = time.Hour

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the panel provider API client. It authenticates with an
// email/password token exchange and paginates through spot-level results.
// Safe for concurrent use: the reconciliation slow path fans out per-station
// requests over a single client.
type Client struct {
	baseURL     string
	email       string
	password    string
	pageSize    int
	pageDelay   time.Duration
	fallbackMin string
	fallbackMax string
	httpClient  HTTPDoer

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	tokenExpiry  time.Time
}

// NewClient creates a new panel API client.
func NewClient(config Config) *Client {
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = 500
	}
	delay := time.Duration(config.PageDelayMS) * time.Millisecond
	if config.PageDelayMS <= 0 {
		delay = 200 * time.Millisecond
	}
	return &Client{
		baseURL:     config.BaseURL,
		email:       config.Email,
		password:    config.Password,
		pageSize:    pageSize,
		pageDelay:   delay,
		fallbackMin: config.FallbackWindowStart,
		fallbackMax: config.FallbackWindowEnd,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

// Authenticate exchanges the configured credentials for an access/refresh
// token pair. The token is assumed valid for one hour from issuance.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.email == "" || c.password == "" {
		return fmt.Errorf("%w: %w", ErrAuthentication, ErrNoCredentials)
	}

	body, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token/", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read token response: %v", ErrAuthentication, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrAuthentication, resp.StatusCode, string(respBody))
	}

	var tok tokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return fmt.Errorf("%w: parse token response: %v", ErrAuthentication, err)
	}
	if tok.Access == "" {
		return fmt.Errorf("%w: empty access token", ErrAuthentication)
	}

	c.mu.Lock()
	c.accessToken = tok.Access
	c.refreshToken = tok.Refresh
	c.tokenExpiry = time.Now().Add(tokenLifetime)
	c.mu.Unlock()

	logger.Info("panel token issued", "email", c.email, "access_token", tok.Access)
	return nil
}

// ensureValidToken re-authenticates whenever no token is held or the
// locally tracked expiry has passed, and returns a bearer token to use.
func (c *Client) ensureValidToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.accessToken
	expired := token == "" || time.Now().After(c.tokenExpiry)
	c.mu.Unlock()

	if expired {
		if err := c.Authenticate(ctx); err != nil {
			return "", err
		}
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()
	}
	return token, nil
}

// getPage fetches one page of a paginated resource.
func (c *Client) getPage(ctx context.Context, endpoint string, params url.Values, page int) ([]byte, error) {
	token, err := c.ensureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(c.pageSize))

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: string(respBody)}
	}

	return respBody, nil
}

// pagePayload covers the provider's known response shapes. Results may
// arrive under "results", under "events", or as a bare array.
type pagePayload struct {
	items []json.RawMessage
	more  bool
}

// parsePage decodes one page body. For the enveloped shapes the "next"
// continuation signal decides whether more pages exist; bare arrays have no
// continuation signal, so a full page implies more data. An unrecognized
// shape returns ok=false; callers treat that as end-of-data rather than an
// error, matching the provider's lenient contract. The shape is logged so
// the behavior stays observable.
func (c *Client) parsePage(body []byte, endpoint string) (pagePayload, bool) {
	var envelope struct {
		Results []json.RawMessage `json:"results"`
		Events  []json.RawMessage `json:"events"`
		Next    *string           `json:"next"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		next := envelope.Next != nil && *envelope.Next != ""
		if envelope.Results != nil {
			return pagePayload{items: envelope.Results, more: next}, true
		}
		if envelope.Events != nil {
			return pagePayload{items: envelope.Events, more: next}, true
		}
	}

	var bare []json.RawMessage
	if err := json.Unmarshal(body, &bare); err == nil {
		return pagePayload{items: bare, more: len(bare) == c.pageSize}, true
	}

	logger.Warn("unrecognized panel payload shape, terminating pagination", "endpoint", endpoint)
	return pagePayload{}, false
}

// GetAll pages through a resource until the provider reports no further
// page, concatenating raw records. A fixed delay separates page fetches to
// avoid overloading the upstream provider.
//
// Failure semantics: an error on the first page is fatal (there is nothing
// to return); errors on later pages stop pagination and the accumulated
// results so far are returned.
func (c *Client) GetAll(ctx context.Context, endpoint string, params url.Values) ([]json.RawMessage, error) {
	var all []json.RawMessage

	for page := 1; ; page++ {
		if page > 1 {
			if err := sleepCtx(ctx, c.pageDelay); err != nil {
				return all, nil
			}
		}

		body, err := c.getPage(ctx, endpoint, params, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			logger.Warn("panel page fetch failed, returning partial results",
				"endpoint", endpoint, "page", strconv.Itoa(page), "error", err.Error())
			return all, nil
		}

		payload, ok := c.parsePage(body, endpoint)
		if !ok {
			return all, nil
		}

		all = append(all, payload.items...)

		if !payload.more || len(payload.items) == 0 {
			return all, nil
		}
	}
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
