package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stockbox/stockbox-admin/pkg/domain"
)

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// CredentialsUpdate is the payload for changing the admin login.
type CredentialsUpdate struct {
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// Login exchanges credentials for a session cookie, which the client keeps
// in its cookie jar. The returned status tells whether the backend accepted.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.StatusResponse, error) {
	var res domain.StatusResponse
	if err := c.post(ctx, "/api/sec/login", req, &res); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &res, nil
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) (*domain.StatusResponse, error) {
	var res domain.StatusResponse
	if err := c.post(ctx, "/api/sec/logout", nil, &res); err != nil {
		return nil, fmt.Errorf("client.Logout: %w", err)
	}
	return &res, nil
}

// UpdateCredentials changes the admin email and password.
func (c *Client) UpdateCredentials(ctx context.Context, req CredentialsUpdate) error {
	var res domain.StatusResponse
	if err := c.doRequest(ctx, http.MethodPatch, "/api/user/update-credentials", req, &res); err != nil {
		return fmt.Errorf("client.UpdateCredentials: %w", err)
	}
	if !res.OK() {
		return fmt.Errorf("client.UpdateCredentials: %s", nonEmpty(res.Message, "update rejected"))
	}
	return nil
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
