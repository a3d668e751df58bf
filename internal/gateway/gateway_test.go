package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/coopledger/coopledger/internal/config"
)

type fakeTokens struct {
	token    string
	tokenErr error
	signOuts atomic.Int32
}

func (f *fakeTokens) Token(context.Context) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return f.token, nil
}

func (f *fakeTokens) ForceSignOut(context.Context) error {
	f.signOuts.Add(1)
	return nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *fakeTokens) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := &fakeTokens{token: "tok-1"}
	client := NewClient(config.APIConfig{BaseURL: server.URL, Timeout: 0}, tokens, nil)
	return client, tokens
}

func TestClient_AttachesBearerAndNormalizes(t *testing.T) {
	var gotAuth, gotContentType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"ok":1}}`))
	}))

	env, err := client.Get(context.Background(), "/api/data?type=all")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !env.Success {
		t.Fatalf("envelope success = false, want true")
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
	if !strings.HasPrefix(gotContentType, "application/json") {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
}

func TestClient_UnauthorizedSignsOutOnce(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusUnauthorized)
	}))

	_, err := client.Post(context.Background(), "/api/crud?operation=eggs", []int{1})
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want AuthenticationError", err)
	}
	if got := tokens.signOuts.Load(); got != 1 {
		t.Fatalf("sign-outs = %d, want exactly 1", got)
	}
}

func TestClient_ServerErrorCarriesStatusAndBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Get(context.Background(), "/api/data")
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("error = %v, want ServerError", err)
	}
	if serverErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", serverErr.StatusCode)
	}
	if !strings.Contains(serverErr.Body, "boom") {
		t.Fatalf("body = %q, want raw body text", serverErr.Body)
	}
}

func TestClient_MalformedBodyIsServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not-json"))
	}))

	_, err := client.Get(context.Background(), "/api/data")
	var serverErr *ServerError
	if !errors.As(err, &serverErr) || serverErr.Message != "invalid response format" {
		t.Fatalf("error = %v, want invalid response format ServerError", err)
	}
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	tokens := &fakeTokens{token: "tok-1"}
	client := NewClient(config.APIConfig{BaseURL: "http://127.0.0.1:1"}, tokens, nil)

	_, err := client.Get(context.Background(), "/api/data")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
}

func TestClient_TokenFailureShortCircuits(t *testing.T) {
	requests := 0
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	tokens.tokenErr = &AuthenticationError{Message: "please log in again"}

	_, err := client.Get(context.Background(), "/api/data")
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want AuthenticationError", err)
	}
	if requests != 0 {
		t.Fatalf("requests = %d, want 0 when no token is available", requests)
	}
}
