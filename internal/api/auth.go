package api

import (
	"context"

	"github.com/vmforge/vmforge-cli/internal/config"
)

// Credentials are the username/password pair for the login endpoint
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserProfile represents the authenticated user as reported by the panel
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// tokenResponse is the body returned by the login and refresh endpoints
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for a token pair. The pair is returned to
// the caller, not stored; the session layer owns persistence on login.
func (c *Client) Login(ctx context.Context, creds Credentials) (config.TokenPair, error) {
	var resp tokenResponse
	if err := c.Post(ctx, "/api/v1/auth/login", creds, &resp); err != nil {
		return config.TokenPair{}, err
	}
	return config.TokenPair{
		Access:  resp.AccessToken,
		Refresh: resp.RefreshToken,
	}, nil
}

// Me fetches the profile of the currently authenticated user
func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.Get(ctx, "/api/v1/auth/me", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
