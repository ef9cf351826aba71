package client

import (
	"context"
	"net/http"

	"expensems/pkg/api"
)

// Login authenticates and stores the returned credentials in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	var auth api.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, api.LoginRequest{
		Email:    email,
		Password: password,
	}, &auth)
	if err != nil {
		return nil, err
	}
	c.session.set(&auth)
	return &auth, nil
}

// Register creates an account and stores the returned credentials.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var auth api.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &auth); err != nil {
		return nil, err
	}
	c.session.set(&auth)
	return &auth, nil
}

// Refresh exchanges the stored refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context) (*api.AuthResponse, error) {
	refresh := c.session.RefreshToken()
	if refresh == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "no refresh token"}
	}

	var auth api.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, api.RefreshRequest{
		RefreshToken: refresh,
	}, &auth)
	if err != nil {
		return nil, err
	}
	c.session.set(&auth)
	return &auth, nil
}

// Logout revokes the refresh token server-side and clears the session
// either way.
func (c *Client) Logout(ctx context.Context) error {
	refresh := c.session.RefreshToken()
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, api.RefreshRequest{
		RefreshToken: refresh,
	}, nil)
	c.session.Clear()
	return err
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*api.UserProfile, error) {
	var profile api.UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
