package greeks

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

// Repository implements SnapshotSource and Store over PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Greeks repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EligibleSnapshots returns snapshots with premium and IV present and
// not flagged junk, optionally restricted to one data date.
func (r *Repository) EligibleSnapshots(ctx context.Context, scope Scope) ([]contracts.ContractSnapshot, error) {
	query := `
		SELECT contract_id, ticker, expiration_date, strike, option_type, data_date,
		       bid, ask, last_price, option_price, implied_volatility,
		       open_interest, volume, is_junk
		FROM option_snapshots
		WHERE option_price IS NOT NULL
		  AND implied_volatility IS NOT NULL
		  AND NOT is_junk
		  AND ($1::date IS NULL OR data_date = $1)
		ORDER BY data_date, contract_id
	`

	rows, err := r.pool.Query(ctx, query, scope.DataDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []contracts.ContractSnapshot
	for rows.Next() {
		var s contracts.ContractSnapshot
		if err := rows.Scan(
			&s.ContractID, &s.Ticker, &s.ExpirationDate, &s.Strike, &s.OptionType, &s.DataDate,
			&s.Bid, &s.Ask, &s.LastPrice, &s.OptionPrice, &s.ImpliedVolatility,
			&s.OpenInterest, &s.Volume, &s.IsJunk,
		); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// Exists reports whether a Greeks row already exists for the
// idempotency key (contract_id, data_date).
func (r *Repository) Exists(ctx context.Context, contractID int64, dataDate time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM greeks WHERE contract_id = $1 AND data_date = $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, contractID, dataDate).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// InsertWithTheoretical writes the Greeks row and the snapshot's
// theoretical price columns in one transaction, so a crash never
// leaves the pair half-written.
func (r *Repository) InsertWithTheoretical(ctx context.Context, rec contracts.GreeksRecord, theoretical float64, priceDiff *float64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		insertGreeks := `
			INSERT INTO greeks (
				contract_id, data_date, delta, gamma, vega, theta, rho,
				days_to_expiry, risk_free_rate, implied_volatility
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`

		if _, err := tx.Exec(ctx, insertGreeks,
			rec.ContractID, rec.DataDate, rec.Delta, rec.Gamma, rec.Vega, rec.Theta, rec.Rho,
			rec.DaysToExpiry, rec.RiskFreeRate, rec.ImpliedVolatility,
		); err != nil {
			return err
		}

		updateSnapshot := `
			UPDATE option_snapshots
			SET theoretical_price = $1, price_diff = $2, days_to_expiry = $3
			WHERE contract_id = $4
		`

		_, err := tx.Exec(ctx, updateSnapshot,
			theoretical, priceDiff, rec.DaysToExpiry, rec.ContractID,
		)
		return err
	})
}

// Count returns the number of Greeks rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM greeks`).Scan(&count)
	return count, err
}
