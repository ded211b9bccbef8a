package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"resume-dashboard/models"
	"resume-dashboard/monitoring"
)

// Loader reads the full record table through the snapshot cache. It is the
// single load path shared by every handler, with explicit invalidation
// after writes instead of framework-managed state.
type Loader struct {
	repo  models.Repository
	cache Cache
}

func NewLoader(repo models.Repository, cache Cache) *Loader {
	return &Loader{repo: repo, cache: cache}
}

// Load returns the cached snapshot when fresh, otherwise reads all rows
// from the store.
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	if t, ok := l.cache.Get(ctx); ok {
		return t, nil
	}
	return l.Refresh(ctx)
}

// Refresh bypasses the cache, reads the store and re-primes the cache.
func (l *Loader) Refresh(ctx context.Context) (*Table, error) {
	rows, err := l.repo.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("snapshot load failed: %w", err)
	}
	monitoring.DatasetLoads.Inc()

	t := New(rows)
	l.cache.Set(ctx, t)
	slog.Debug("loaded table snapshot", "rows", t.Len())
	return t, nil
}

// Invalidate drops the cached snapshot. Called after every write.
func (l *Loader) Invalidate(ctx context.Context) {
	l.cache.Invalidate(ctx)
}
