package gateway

import (
	"errors"
	"testing"
)

func TestNormalizeEnvelope_ModernShape(t *testing.T) {
	env, err := normalizeEnvelope([]byte(`{"success":true,"data":{"eggEntries":[]},"message":"ok"}`))
	if err != nil {
		t.Fatalf("normalizeEnvelope returned error: %v", err)
	}
	if !env.Success || env.Message != "ok" {
		t.Fatalf("envelope = %#v, want success with message ok", env)
	}
	if string(env.Data) != `{"eggEntries":[]}` {
		t.Fatalf("data = %s, want raw payload", env.Data)
	}
}

func TestNormalizeEnvelope_ModernFailure(t *testing.T) {
	env, err := normalizeEnvelope([]byte(`{"success":false,"message":"nope"}`))
	if err != nil {
		t.Fatalf("normalizeEnvelope returned error: %v", err)
	}
	if env.Success {
		t.Fatalf("envelope success = true, want false")
	}
}

func TestNormalizeEnvelope_LegacyShape(t *testing.T) {
	env, err := normalizeEnvelope([]byte(`{"message":"saved","data":[1],"timestamp":"2025-01-01T00:00:00Z"}`))
	if err != nil {
		t.Fatalf("normalizeEnvelope returned error: %v", err)
	}
	if !env.Success || env.Message != "saved" {
		t.Fatalf("envelope = %#v, want success from legacy shape", env)
	}
}

func TestNormalizeEnvelope_Unrecognized(t *testing.T) {
	for _, body := range []string{`{"foo":1}`, `[1,2]`, `{not-json`} {
		_, err := normalizeEnvelope([]byte(body))
		var serverErr *ServerError
		if !errors.As(err, &serverErr) {
			t.Fatalf("normalizeEnvelope(%q) error = %v, want ServerError", body, err)
		}
		if serverErr.Message != "invalid response format" {
			t.Fatalf("message = %q, want invalid response format", serverErr.Message)
		}
	}
}
