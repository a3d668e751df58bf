package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// AuthClient talks to the backend's auth endpoints. It deliberately does not
// go through the gateway: these are the only calls allowed to run without a
// bearer token.
type AuthClient struct {
	http *resty.Client
}

// NewAuthClient builds an auth client for the given API base URL.
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &AuthClient{http: restyClient}
}

type authEnvelope struct {
	Success bool        `json:"success"`
	Data    Credentials `json:"data"`
	Message string      `json:"message"`
}

// Login exchanges the operator password for a fresh session.
func (c *AuthClient) Login(ctx context.Context, password string) (Credentials, error) {
	return c.post(ctx, "/api/auth/login", map[string]string{"password": password})
}

// Refresh exchanges a refresh token for a fresh session.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (Credentials, error) {
	return c.post(ctx, "/api/auth/refresh", map[string]string{"refresh_token": refreshToken})
}

func (c *AuthClient) post(ctx context.Context, endpoint string, body map[string]string) (Credentials, error) {
	result := new(authEnvelope)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post(endpoint)
	if err != nil {
		return Credentials{}, fmt.Errorf("auth request: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest || !result.Success {
		message := result.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		return Credentials{}, fmt.Errorf("auth rejected: %s", message)
	}
	if result.Data.Token == "" {
		return Credentials{}, fmt.Errorf("auth response missing token")
	}
	return result.Data, nil
}
