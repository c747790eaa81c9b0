package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/medquery/internal/client/models"
)

func (c *HTTPClient) Signup(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	var resp models.SignupResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/signup", body: body, contentType: "application/json"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for an access token. It does not store the
// token; that is the caller's decision.
func (c *HTTPClient) Login(ctx context.Context, email, password string, role models.Role) (*models.TokenResponse, error) {
	body, err := jsonBody(models.LoginRequest{Email: email, Password: password, Role: role})
	if err != nil {
		return nil, err
	}

	var resp models.TokenResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: body, contentType: "application/json"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout"}, nil)
}

// CurrentUser fetches the principal identified by the bearer token. Only a
// 200 with a user payload counts as success.
func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", okStatus: http.StatusOK}, &u); err != nil {
		return nil, err
	}
	if u.Email == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "current user payload has no email"}
	}
	normalized := u.Normalize()
	return &normalized, nil
}

func (c *HTTPClient) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/health"}, &resp); err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return ErrUnavailable
	}
	return nil
}
