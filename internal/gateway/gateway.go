// Package gateway translates domain operations into single HTTP calls against
// the record-keeping API and classifies every failure. It performs no retries;
// resilience decisions belong to callers.
package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/config"
)

// TokenSource supplies a non-expired bearer token for every outgoing request
// and performs the forced sign-out side effect when the server rejects one.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ForceSignOut(ctx context.Context) error
}

// Client is the resty-backed HTTP gateway.
type Client struct {
	http   *resty.Client
	tokens TokenSource
	logger *zap.Logger
}

// NewClient builds a gateway client from the API configuration.
func NewClient(cfg config.APIConfig, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{
		http:   restyClient,
		tokens: tokens,
		logger: logger,
	}
}

// Get issues an authenticated GET and returns the normalized envelope.
func (c *Client) Get(ctx context.Context, endpoint string) (Envelope, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (Envelope, error) {
	return c.do(ctx, http.MethodPost, endpoint, body)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (Envelope, error) {
	return c.do(ctx, http.MethodPut, endpoint, body)
}

// Delete issues an authenticated DELETE, optionally with a JSON body.
func (c *Client) Delete(ctx context.Context, endpoint string, body any) (Envelope, error) {
	return c.do(ctx, http.MethodDelete, endpoint, body)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) (Envelope, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return Envelope{}, err
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token)
	if body != nil {
		req.SetBody(body)
	}

	var resp *resty.Response
	switch method {
	case http.MethodGet:
		resp, err = req.Get(endpoint)
	case http.MethodPost:
		resp, err = req.Post(endpoint)
	case http.MethodPut:
		resp, err = req.Put(endpoint)
	case http.MethodDelete:
		resp, err = req.Delete(endpoint)
	default:
		resp, err = req.Execute(method, endpoint)
	}
	if err != nil {
		return Envelope{}, &NetworkError{Op: method + " " + endpoint, Err: err}
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		if signOutErr := c.tokens.ForceSignOut(ctx); signOutErr != nil {
			c.logger.Warn("forced sign-out failed", zap.Error(signOutErr))
		}
		return Envelope{}, &AuthenticationError{Message: "session rejected by server, please log in again"}
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return Envelope{}, &ServerError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			Body:       string(resp.Body()),
		}
	}

	return normalizeEnvelope(resp.Body())
}
