package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coopledger/coopledger/internal/config"
	"github.com/coopledger/coopledger/internal/domain/models"
)

func newTestAPI(t *testing.T, handler http.Handler) *DataAPI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.APIConfig{BaseURL: server.URL}, &fakeTokens{token: "tok-1"}, nil)
	return NewDataAPI(client, nil)
}

func TestDataAPI_FetchAllDecodesSnapshot(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/data" || r.URL.Query().Get("type") != "all" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"eggEntries":[{"id":"e1","date":"2025-01-01","count":12}],"expenses":[],"flockProfile":{"hens":4}}}`))
	}))

	snap, err := api.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if len(snap.EggEntries) != 1 || snap.EggEntries[0].Count != 12 {
		t.Fatalf("eggEntries = %#v, want one entry with count 12", snap.EggEntries)
	}
	if snap.Expenses == nil || len(snap.Expenses) != 0 {
		t.Fatalf("expenses = %#v, want present empty collection", snap.Expenses)
	}
	if snap.FlockProfile == nil || snap.FlockProfile.Hens != 4 {
		t.Fatalf("flockProfile = %#v, want 4 hens", snap.FlockProfile)
	}
}

func TestDataAPI_SavePostsRecordsToOperation(t *testing.T) {
	var gotMethod, gotOperation string
	var gotBody []models.EggEntry
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotOperation = r.URL.Query().Get("operation")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	entry := models.EggEntry{ID: "temp-1-1", Date: "2025-01-01", Count: 12}
	if err := api.SaveEggEntries(context.Background(), []models.EggEntry{entry}); err != nil {
		t.Fatalf("SaveEggEntries returned error: %v", err)
	}
	if gotMethod != http.MethodPost || gotOperation != "eggs" {
		t.Fatalf("request = %s operation=%s, want POST eggs", gotMethod, gotOperation)
	}
	if len(gotBody) != 1 || gotBody[0] != entry {
		t.Fatalf("body = %#v, want the single temp-id record", gotBody)
	}
}

func TestDataAPI_DeleteSendsIDBody(t *testing.T) {
	var gotMethod, gotOperation string
	var gotBody map[string]string
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotOperation = r.URL.Query().Get("operation")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	if err := api.DeleteFeedEntry(context.Background(), "feed-1"); err != nil {
		t.Fatalf("DeleteFeedEntry returned error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotOperation != "feed" {
		t.Fatalf("request = %s operation=%s, want DELETE feed", gotMethod, gotOperation)
	}
	if gotBody["id"] != "feed-1" {
		t.Fatalf("body = %#v, want {id: feed-1}", gotBody)
	}
}

func TestDataAPI_SaveFlockProfileUsesPut(t *testing.T) {
	var gotMethod string
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	if err := api.SaveFlockProfile(context.Background(), models.FlockProfile{Hens: 3}); err != nil {
		t.Fatalf("SaveFlockProfile returned error: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %s, want PUT", gotMethod)
	}
}

func TestDataAPI_RejectedEnvelopeIsServerError(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"quota exceeded"}`))
	}))

	err := api.SaveExpenses(context.Background(), nil)
	serverErr, ok := err.(*ServerError)
	if !ok {
		t.Fatalf("error = %v, want ServerError", err)
	}
	if serverErr.Message != "quota exceeded" {
		t.Fatalf("message = %q, want quota exceeded", serverErr.Message)
	}
}
