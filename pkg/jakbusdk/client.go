// Package jakbusdk is a Go client for the JakBu HTTP API.
package jakbusdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client performs unauthenticated calls and creates Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Signup(ctx context.Context, accountID, password, name string) (*Session, error) {
	return c.authenticate(ctx, "/v1/auth/signup", SignupRequest{AccountID: accountID, Password: password, Name: name}, http.StatusCreated)
}

func (c *Client) Login(ctx context.Context, accountID, password string) (*Session, error) {
	return c.authenticate(ctx, "/v1/auth/login", LoginRequest{AccountID: accountID, Password: password}, http.StatusOK)
}

// KakaoLogin signs in with a provider authorization code.
func (c *Client) KakaoLogin(ctx context.Context, code string) (*Session, error) {
	return c.authenticate(ctx, "/v1/auth/kakao", KakaoLoginRequest{Code: code}, http.StatusOK)
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*SessionResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", "", RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) authenticate(ctx context.Context, path string, body any, expected int) (*Session, error) {
	resp, err := c.do(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return nil, err
	}
	var out SessionResponse
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, err
	}
	return c.NewSession(out), nil
}

func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
