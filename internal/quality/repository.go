package quality

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository applies quality flags to the option_snapshots table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new quality repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TagJunk flags rows failing the base junk rules and returns how many
// rows were newly flagged. Missing open interest, volume and
// underlying price count as zero, mirroring Rules.Classify.
func (r *Repository) TagJunk(ctx context.Context, rules Rules) (int64, error) {
	query := `
		UPDATE option_snapshots
		SET is_junk = TRUE
		WHERE NOT is_junk
		  AND (
			option_price IS NULL
			OR option_price <= $1
			OR implied_volatility IS NULL
			OR COALESCE(open_interest, 0) <= $2
			OR COALESCE(volume, 0) <= 0
			OR COALESCE(last_price, 0) <= $3
		  )
	`

	tag, err := r.pool.Exec(ctx, query,
		rules.MinOptionPrice, rules.MinOpenInterest, rules.MinUnderlyingPrice,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// TagIlliquid applies the stricter liquidity pass to rows that
// survived the base rules.
func (r *Repository) TagIlliquid(ctx context.Context, rules LiquidityRules) (int64, error) {
	query := `
		UPDATE option_snapshots
		SET is_junk = TRUE
		WHERE NOT is_junk
		  AND (
			COALESCE(volume, 0) < $1
			OR COALESCE(open_interest, 0) < $2
		  )
	`

	tag, err := r.pool.Exec(ctx, query, rules.MinVolume, rules.MinOpenInterest)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountJunk returns the junk and total snapshot counts.
func (r *Repository) CountJunk(ctx context.Context) (junk int64, total int64, err error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE is_junk), COUNT(*)
		FROM option_snapshots
	`

	err = r.pool.QueryRow(ctx, query).Scan(&junk, &total)
	if err != nil {
		return 0, 0, err
	}
	return junk, total, nil
}
