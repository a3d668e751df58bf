// Package cache holds the one canonical in-memory snapshot of every
// collection for the active session. Mutations never patch the snapshot in
// place; writers save through the gateway and then refresh, so the snapshot
// only ever represents states the server actually produced.
package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/domain/models"
)

// Fetcher retrieves every collection in one pass.
type Fetcher interface {
	FetchAll(ctx context.Context) (models.Snapshot, error)
}

// Provider coordinates the shared snapshot. It is created at session start
// and torn down at sign-out; nothing here is an ambient singleton.
type Provider struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu       sync.Mutex
	snap     models.Snapshot
	loaded   bool
	inflight *refreshCall
}

type refreshCall struct {
	done chan struct{}
	err  error
}

// NewProvider builds a provider over the given fetcher.
func NewProvider(fetcher Fetcher, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Refresh re-fetches every collection and replaces the snapshot wholesale.
// Overlapping calls collapse onto the in-flight fetch and share its result;
// there is no versioning scheme, so last write wins by construction.
func (p *Provider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if call := p.inflight; call != nil {
		p.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	p.inflight = call
	p.mu.Unlock()

	snap, err := p.fetcher.FetchAll(ctx)

	p.mu.Lock()
	p.inflight = nil
	if err == nil {
		p.snap = snap
		p.loaded = true
	} else {
		p.logger.Warn("snapshot refresh failed", zap.Error(err))
	}
	p.mu.Unlock()

	call.err = err
	close(call.done)
	return err
}

// Snapshot returns a copy of the current snapshot and whether any refresh has
// completed. An empty collection inside a loaded snapshot is present data,
// not absence; callers must not treat it as a miss.
func (p *Provider) Snapshot() (models.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.Clone(), p.loaded
}

// Loading reports whether a refresh is currently in flight.
func (p *Provider) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight != nil
}
