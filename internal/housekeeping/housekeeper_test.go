package housekeeping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftclouddbs/Alpha-Seeker/pkg/config"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

type fakeStore struct {
	archived   int64
	purged     int64
	archiveErr error
	purgeErr   error

	archiveCalls int
	purgeCalls   int
	lastAsOf     time.Time
}

func (f *fakeStore) ArchiveExpiredGreeks(ctx context.Context, asOf time.Time) (int64, error) {
	f.archiveCalls++
	f.lastAsOf = asOf
	if f.archiveErr != nil {
		return 0, f.archiveErr
	}
	// Rows move once; later runs find nothing left to archive.
	if f.archiveCalls > 1 {
		return 0, nil
	}
	return f.archived, nil
}

func (f *fakeStore) PurgeJunkSnapshots(ctx context.Context) (int64, error) {
	f.purgeCalls++
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	if f.purgeCalls > 1 {
		return 0, nil
	}
	return f.purged, nil
}

func TestHousekeeper_Run(t *testing.T) {
	store := &fakeStore{archived: 12, purged: 5}
	h := New(store, testLogger())

	asOf := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	summary, err := h.Run(context.Background(), asOf)
	require.NoError(t, err)

	assert.Equal(t, int64(12), summary.Archived)
	assert.Equal(t, int64(5), summary.Purged)
	assert.Equal(t, asOf, store.lastAsOf)
}

func TestHousekeeper_Run_SecondRunIsNoOp(t *testing.T) {
	store := &fakeStore{archived: 12, purged: 5}
	h := New(store, testLogger())

	asOf := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := h.Run(context.Background(), asOf)
	require.NoError(t, err)

	summary, err := h.Run(context.Background(), asOf)
	require.NoError(t, err)
	assert.Zero(t, summary.Archived)
	assert.Zero(t, summary.Purged)
}

func TestHousekeeper_Run_ArchiveFailureStopsPurge(t *testing.T) {
	store := &fakeStore{archiveErr: errors.New("connection refused")}
	h := New(store, testLogger())

	_, err := h.Run(context.Background(), time.Now())
	require.Error(t, err)
	assert.Zero(t, store.purgeCalls)
}

func TestHousekeeper_Run_PurgeFailureSurfaces(t *testing.T) {
	store := &fakeStore{purgeErr: errors.New("connection refused")}
	h := New(store, testLogger())

	_, err := h.Run(context.Background(), time.Now())
	assert.Error(t, err)
}
