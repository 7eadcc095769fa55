package housekeeping

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements Store over PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new housekeeping repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ArchiveExpiredGreeks copies Greeks of contracts expired before asOf
// into greeks_archive, stamped with the archival date, then deletes
// them from the live table. Copy and delete share one transaction so a
// failure leaves both tables untouched.
func (r *Repository) ArchiveExpiredGreeks(ctx context.Context, asOf time.Time) (int64, error) {
	var archived int64

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		copyQuery := `
			INSERT INTO greeks_archive (
				contract_id, data_date, delta, gamma, vega, theta, rho,
				days_to_expiry, risk_free_rate, implied_volatility, archived_at
			)
			SELECT g.contract_id, g.data_date, g.delta, g.gamma, g.vega, g.theta, g.rho,
			       g.days_to_expiry, g.risk_free_rate, g.implied_volatility, $1
			FROM greeks g
			JOIN option_snapshots s ON s.contract_id = g.contract_id
			WHERE s.expiration_date < $1
			ON CONFLICT (contract_id, data_date) DO NOTHING
		`
		if _, err := tx.Exec(ctx, copyQuery, asOf); err != nil {
			return err
		}

		deleteQuery := `
			DELETE FROM greeks g
			USING option_snapshots s
			WHERE s.contract_id = g.contract_id
			  AND s.expiration_date < $1
		`
		tag, err := tx.Exec(ctx, deleteQuery, asOf)
		if err != nil {
			return err
		}
		archived = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return archived, nil
}

// PurgeJunkSnapshots deletes junk-flagged snapshots with no Greeks row
// referencing them.
func (r *Repository) PurgeJunkSnapshots(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM option_snapshots s
		WHERE s.is_junk
		  AND NOT EXISTS (SELECT 1 FROM greeks g WHERE g.contract_id = s.contract_id)
	`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ArchivedCount returns the number of archived Greeks rows.
func (r *Repository) ArchivedCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM greeks_archive`).Scan(&count)
	return count, err
}
