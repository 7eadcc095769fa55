package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

// Store is the persistence surface of a housekeeping run.
type Store interface {
	// ArchiveExpiredGreeks moves Greeks rows of contracts expired
	// before the given date into the archive and returns how many
	// moved.
	ArchiveExpiredGreeks(ctx context.Context, asOf time.Time) (int64, error)
	// PurgeJunkSnapshots deletes junk-flagged snapshots that no Greeks
	// row references and returns how many were deleted.
	PurgeJunkSnapshots(ctx context.Context) (int64, error)
}

// Summary reports one housekeeping run.
type Summary struct {
	Archived int64
	Purged   int64
}

// Housekeeper archives Greeks of expired contracts and purges junk
// snapshots. Derived analytics stay lean while the archive preserves
// history.
type Housekeeper struct {
	store Store
	log   *logger.Logger
}

// New creates a housekeeper.
func New(store Store, log *logger.Logger) *Housekeeper {
	return &Housekeeper{store: store, log: log}
}

// Run archives then purges. Re-running on an unchanged database is a
// no-op: archived rows are gone from the live table and purge only
// touches unreferenced junk.
func (h *Housekeeper) Run(ctx context.Context, asOf time.Time) (*Summary, error) {
	archived, err := h.store.ArchiveExpiredGreeks(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("archive expired greeks: %w", err)
	}

	purged, err := h.store.PurgeJunkSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("purge junk snapshots: %w", err)
	}

	h.log.WithFields(map[string]interface{}{
		"as_of":    asOf.Format("2006-01-02"),
		"archived": archived,
		"purged":   purged,
	}).Info("Housekeeping finished")

	return &Summary{Archived: archived, Purged: purged}, nil
}
