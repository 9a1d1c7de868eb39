// Package api provides the HTTP client for communicating with the VMForge
// panel API. The client attaches the stored bearer token to every request
// and transparently refreshes an expired session: the first request to see
// a 401 drives a single refresh cycle, every other request waits on its
// outcome, and each original request is retried at most once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/vmforge/vmforge-cli/internal/config"
)

// refreshKey is the singleflight key: one refresh cycle per client.
const refreshKey = "refresh"

// Client is an HTTP client for the VMForge panel API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *config.Manager
	log        zerolog.Logger

	refresh singleflight.Group

	// onSessionExpired is notified when the refresh token is rejected
	// and the stored pair has been cleared
	onSessionExpired func()
}

// NewClient creates a new API client backed by the given token store
func NewClient(baseURL string, tokens *config.Manager, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		log:    log.With().Str("component", "api").Logger(),
	}
}

// OnSessionExpired registers a hook invoked when a refresh cycle fails
// terminally. Intended for the session layer to force a logout.
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

// Request performs an HTTP request to the API. On a 401 response the
// client refreshes the token pair and retries the request exactly once;
// concurrent 401s share a single refresh cycle.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	sentToken := ""
	if pair, ok := c.tokens.Tokens(); ok {
		sentToken = pair.Access
	}

	origErr := c.do(ctx, method, path, body, result, sentToken, 1)
	if !isUnauthorized(origErr) {
		return origErr
	}

	retryToken, err := c.recoverToken(ctx, sentToken)
	if err != nil {
		if errors.Is(err, errNoRecovery) {
			// Nothing to refresh with: the request was unauthenticated
			// or the pair is already gone. Surface the original
			// rejection unchanged.
			return origErr
		}
		return err
	}

	// Exactly one retry. A second 401 surfaces as-is and never starts
	// another refresh cycle.
	return c.do(ctx, method, path, body, result, retryToken, 2)
}

// errNoRecovery marks a 401 that cannot enter the refresh protocol
var errNoRecovery = errors.New("no refresh token available")

// recoverToken obtains a usable access token after a 401 on the token
// sentToken. If another request already refreshed the pair, the fresh
// token is used directly; otherwise a single refresh cycle runs and all
// concurrent callers share its outcome.
func (c *Client) recoverToken(ctx context.Context, sentToken string) (string, error) {
	pair, ok := c.tokens.Tokens()
	if !ok || pair.Refresh == "" {
		return "", errNoRecovery
	}

	if pair.Access != sentToken {
		// A refresh settled between our send and the 401.
		return pair.Access, nil
	}

	// The refresh outcome is shared by every waiter, so it must not die
	// with the winning caller's context. The client timeout still bounds
	// the detached request.
	refreshCtx := context.WithoutCancel(ctx)
	v, err, _ := c.refresh.Do(refreshKey, func() (interface{}, error) {
		return c.refreshTokens(refreshCtx)
	})
	if err != nil {
		return "", err
	}
	return v.(config.TokenPair).Access, nil
}

// refreshTokens exchanges the stored refresh token for a new pair and
// persists it. A rejection from the refresh endpoint is terminal: the
// stored pair is cleared and the session-expired hook fires.
func (c *Client) refreshTokens(ctx context.Context) (config.TokenPair, error) {
	pair, ok := c.tokens.Tokens()
	if !ok || pair.Refresh == "" {
		return config.TokenPair{}, c.expireSession(errors.New("no refresh token stored"))
	}

	c.log.Debug().Msg("refreshing token pair")

	reqBody, err := json.Marshal(refreshRequest{RefreshToken: pair.Refresh})
	if err != nil {
		return config.TokenPair{}, fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/refresh", bytes.NewReader(reqBody))
	if err != nil {
		return config.TokenPair{}, fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failure: the refresh token may still be good, so the
		// pair stays put and the caller sees an ordinary request error.
		return config.TokenPair{}, fmt.Errorf("token refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return config.TokenPair{}, fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		c.log.Debug().Int("status", resp.StatusCode).Msg("refresh rejected")
		return config.TokenPair{}, c.expireSession(apiErr)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return config.TokenPair{}, fmt.Errorf("failed to parse refresh response: %w", err)
	}

	newPair := config.TokenPair{
		Access:  tokenResp.AccessToken,
		Refresh: tokenResp.RefreshToken,
	}
	if err := c.tokens.SaveTokens(newPair); err != nil {
		return config.TokenPair{}, fmt.Errorf("failed to save refreshed tokens: %w", err)
	}

	c.log.Debug().Msg("token pair refreshed")
	return newPair, nil
}

// expireSession clears the stored pair, fires the session-expired hook
// and wraps cause with ErrSessionExpired
func (c *Client) expireSession(cause error) error {
	if err := c.tokens.ClearTokens(); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear tokens after refresh rejection")
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
	return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
}

// do performs a single request attempt with the given bearer token
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}, token string, attempt int) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int("attempt", attempt).
		Msg("request")

	// Check for error status codes
	if resp.StatusCode >= 400 {
		return parseAPIError(resp.StatusCode, respBody)
	}

	// Parse response if result is provided
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// isUnauthorized reports whether err is a 401 APIError
func isUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.Request(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.Request(ctx, http.MethodPost, path, body, result)
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.Request(ctx, http.MethodPut, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, result interface{}) error {
	return c.Request(ctx, http.MethodDelete, path, nil, result)
}
