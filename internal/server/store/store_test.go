package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStore_GetMissingKeyIsNil(t *testing.T) {
	st := openTestStore(t)

	value, err := st.Get(context.Background(), KeyEggEntries)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if value != nil {
		t.Fatalf("Get on a missing key = %q, want nil", value)
	}
}

func TestStore_PutThenGet(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	doc := []byte(`[{"id":"e1","count":12}]`)
	if err := st.Put(ctx, KeyEggEntries, doc); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	got, err := st.Get(ctx, KeyEggEntries)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != string(doc) {
		t.Fatalf("Get = %s, want %s", got, doc)
	}

	// Second Put replaces the document.
	doc = []byte(`[]`)
	if err := st.Put(ctx, KeyEggEntries, doc); err != nil {
		t.Fatalf("second Put returned error: %v", err)
	}
	got, err = st.Get(ctx, KeyEggEntries)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("Get after replace = %s, want []", got)
	}
}

func TestStore_JWTSecretIsStable(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first, err := st.JWTSecret(ctx)
	if err != nil {
		t.Fatalf("JWTSecret returned error: %v", err)
	}
	if len(first) != 64 {
		t.Fatalf("secret length = %d, want 64 hex characters", len(first))
	}

	second, err := st.JWTSecret(ctx)
	if err != nil {
		t.Fatalf("second JWTSecret returned error: %v", err)
	}
	if first != second {
		t.Fatalf("secret changed between calls: %q then %q", first, second)
	}
}
