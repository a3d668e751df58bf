package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coopledger/coopledger/internal/domain/models"
)

type fakeFetcher struct {
	mu      sync.Mutex
	snap    models.Snapshot
	err     error
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) FetchAll(context.Context) (models.Snapshot, error) {
	if f.calls.Add(1) == 1 && f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.err
}

func TestProvider_SnapshotBeforeRefreshIsNotLoaded(t *testing.T) {
	provider := NewProvider(&fakeFetcher{}, nil)

	_, loaded := provider.Snapshot()
	if loaded {
		t.Fatalf("loaded = true before any refresh, want false")
	}
}

func TestProvider_RefreshReplacesSnapshotWholesale(t *testing.T) {
	fetcher := &fakeFetcher{snap: models.Snapshot{
		EggEntries: []models.EggEntry{{ID: "e1", Date: "2025-01-01", Count: 12}},
	}}
	provider := NewProvider(fetcher, nil)

	if err := provider.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	snap, loaded := provider.Snapshot()
	if !loaded {
		t.Fatalf("loaded = false after refresh, want true")
	}
	if len(snap.EggEntries) != 1 || snap.EggEntries[0].ID != "e1" {
		t.Fatalf("snapshot = %#v, want the fetched entries", snap.EggEntries)
	}

	fetcher.mu.Lock()
	fetcher.snap = models.Snapshot{EggEntries: []models.EggEntry{}}
	fetcher.mu.Unlock()

	if err := provider.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh returned error: %v", err)
	}
	snap, loaded = provider.Snapshot()
	if !loaded {
		t.Fatalf("loaded = false after second refresh, want true")
	}
	// Empty but present data replaces the old snapshot; it is not a miss.
	if len(snap.EggEntries) != 0 {
		t.Fatalf("snapshot kept %d stale entries, want wholesale replacement", len(snap.EggEntries))
	}
}

func TestProvider_FailedRefreshKeepsOldSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{snap: models.Snapshot{
		Expenses: []models.Expense{{ID: "x1", Amount: 10}},
	}}
	provider := NewProvider(fetcher, nil)

	if err := provider.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	fetcher.mu.Lock()
	fetcher.err = errors.New("gateway down")
	fetcher.mu.Unlock()

	if err := provider.Refresh(context.Background()); err == nil {
		t.Fatalf("Refresh = nil, want the fetch error")
	}
	snap, loaded := provider.Snapshot()
	if !loaded || len(snap.Expenses) != 1 {
		t.Fatalf("snapshot = %#v loaded=%v, want prior data retained", snap.Expenses, loaded)
	}
}

func TestProvider_ConcurrentRefreshesCollapse(t *testing.T) {
	started := make(chan struct{})
	fetcher := &fakeFetcher{release: make(chan struct{}), started: started}
	provider := NewProvider(fetcher, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = provider.Refresh(context.Background())
	}()
	<-started

	// Join while the first fetch is still in flight.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = provider.Refresh(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	if got := fetcher.calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want overlapping refreshes collapsed to 1", got)
	}
	if provider.Loading() {
		t.Fatalf("Loading = true after refreshes finished, want false")
	}
}

func TestProvider_SnapshotIsACopy(t *testing.T) {
	fetcher := &fakeFetcher{snap: models.Snapshot{
		EggEntries: []models.EggEntry{{ID: "e1", Count: 12}},
	}}
	provider := NewProvider(fetcher, nil)
	if err := provider.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	snap, _ := provider.Snapshot()
	snap.EggEntries[0].Count = 99

	again, _ := provider.Snapshot()
	if again.EggEntries[0].Count != 12 {
		t.Fatalf("count = %d after mutating a returned snapshot, want 12", again.EggEntries[0].Count)
	}
}
