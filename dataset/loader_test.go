package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-dashboard/models"
)

// fakeRepo counts store reads so cache behavior is observable.
type fakeRepo struct {
	rows  []models.Record
	err   error
	loads int
}

func (f *fakeRepo) CreateRecord(rec *models.Record) error { return nil }

func (f *fakeRepo) LoadRecords() ([]models.Record, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeRepo) LatestRecords(limit int) ([]models.Record, error) { return f.rows, nil }
func (f *fakeRepo) CountRecords() (int64, error)                     { return int64(len(f.rows)), nil }
func (f *fakeRepo) ClearRecords() error                              { return nil }
func (f *fakeRepo) ReplaceRecords(recs []models.Record) error        { return nil }
func (f *fakeRepo) Backup(dir string) (string, error)                { return "", nil }
func (f *fakeRepo) Close() error                                     { return nil }

func TestLoaderCachesSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{rows: sampleRows()}
	loader := NewLoader(repo, NewMemoryCache(time.Minute))

	first, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Len())

	second, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, repo.loads, "second load must come from cache")
}

func TestLoaderInvalidateForcesReload(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{rows: sampleRows()}
	loader := NewLoader(repo, NewMemoryCache(time.Minute))

	_, err := loader.Load(ctx)
	require.NoError(t, err)

	loader.Invalidate(ctx)
	repo.rows = repo.rows[:1]

	reloaded, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
	assert.Equal(t, 2, repo.loads)
}

func TestLoaderPropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{err: errors.New("disk gone")}
	loader := NewLoader(repo, NewMemoryCache(time.Minute))

	_, err := loader.Load(ctx)
	assert.Error(t, err)
}
