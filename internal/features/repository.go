package features

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

// Repository implements Source and Sink over PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new feature store repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ActiveGreeks returns Greeks rows with days_to_expiry > 0.
func (r *Repository) ActiveGreeks(ctx context.Context) ([]contracts.GreeksRecord, error) {
	query := `
		SELECT contract_id, data_date, delta, gamma, vega, theta, rho,
		       days_to_expiry, risk_free_rate, implied_volatility
		FROM greeks
		WHERE days_to_expiry > 0
		ORDER BY data_date, contract_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []contracts.GreeksRecord
	for rows.Next() {
		var g contracts.GreeksRecord
		if err := rows.Scan(
			&g.ContractID, &g.DataDate, &g.Delta, &g.Gamma, &g.Vega, &g.Theta, &g.Rho,
			&g.DaysToExpiry, &g.RiskFreeRate, &g.ImpliedVolatility,
		); err != nil {
			return nil, err
		}
		records = append(records, g)
	}
	return records, rows.Err()
}

// Snapshots returns the snapshots backing active Greeks rows, keyed by
// contract id.
func (r *Repository) Snapshots(ctx context.Context) (map[int64]contracts.ContractSnapshot, error) {
	query := `
		SELECT s.contract_id, s.ticker, s.expiration_date, s.strike, s.option_type, s.data_date,
		       s.bid, s.ask, s.last_price, s.option_price, s.implied_volatility,
		       s.open_interest, s.volume, s.theoretical_price, s.price_diff, s.is_junk
		FROM option_snapshots s
		JOIN greeks g ON g.contract_id = s.contract_id
		WHERE g.days_to_expiry > 0
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snaps := make(map[int64]contracts.ContractSnapshot)
	for rows.Next() {
		var s contracts.ContractSnapshot
		if err := rows.Scan(
			&s.ContractID, &s.Ticker, &s.ExpirationDate, &s.Strike, &s.OptionType, &s.DataDate,
			&s.Bid, &s.Ask, &s.LastPrice, &s.OptionPrice, &s.ImpliedVolatility,
			&s.OpenInterest, &s.Volume, &s.TheoreticalPrice, &s.PriceDiff, &s.IsJunk,
		); err != nil {
			return nil, err
		}
		snaps[s.ContractID] = s
	}
	return snaps, rows.Err()
}

// Volatility returns all historical volatility points keyed by
// (ticker, date).
func (r *Repository) Volatility(ctx context.Context) (map[TickerDate]contracts.HistoricalVolatilityPoint, error) {
	query := `
		SELECT ticker, data_date, hv_10, hv_20, hv_30, hv_60
		FROM historical_volatility
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make(map[TickerDate]contracts.HistoricalVolatilityPoint)
	for rows.Next() {
		var p contracts.HistoricalVolatilityPoint
		if err := rows.Scan(&p.Ticker, &p.Date, &p.HV10, &p.HV20, &p.HV30, &p.HV60); err != nil {
			return nil, err
		}
		points[TickerDate{Ticker: p.Ticker, Date: DateKey(p.Date)}] = p
	}
	return points, rows.Err()
}

// RatePoints returns the full rate curve keyed by date.
func (r *Repository) RatePoints(ctx context.Context) (map[string]float64, error) {
	query := `
		SELECT rate_date, rate
		FROM risk_free_rates
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make(map[string]float64)
	for rows.Next() {
		var p contracts.RateCurvePoint
		if err := rows.Scan(&p.Date, &p.Rate); err != nil {
			return nil, err
		}
		points[DateKey(p.Date)] = p.Rate
	}
	return points, rows.Err()
}

// ReplaceAll deletes the entire feature store and inserts the given
// rows in one transaction.
func (r *Repository) ReplaceAll(ctx context.Context, featureRows []contracts.FeatureRow) (int64, error) {
	var inserted int64

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM feature_store`); err != nil {
			return err
		}

		insert := `
			INSERT INTO feature_store (
				contract_id, data_date, ticker, expiration_date, strike, option_type,
				bid, ask, last_price, option_price, implied_volatility,
				open_interest, volume, theoretical_price, price_diff, is_junk,
				delta, gamma, vega, theta, rho, days_to_expiry,
				hv_10, hv_20, hv_30, hv_60, risk_free_rate
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
			)
		`

		batch := &pgx.Batch{}
		for _, row := range featureRows {
			batch.Queue(insert,
				row.ContractID, row.DataDate, row.Ticker, row.ExpirationDate, row.Strike, row.OptionType,
				row.Bid, row.Ask, row.LastPrice, row.OptionPrice, row.ImpliedVolatility,
				row.OpenInterest, row.Volume, row.TheoreticalPrice, row.PriceDiff, row.IsJunk,
				row.Delta, row.Gamma, row.Vega, row.Theta, row.Rho, row.DaysToExpiry,
				row.HV10, row.HV20, row.HV30, row.HV60, row.RiskFreeRate,
			)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range featureRows {
			if _, err := results.Exec(); err != nil {
				return err
			}
			inserted++
		}

		return results.Close()
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// CountRows returns the feature store row count.
func (r *Repository) CountRows(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM feature_store`).Scan(&count)
	return count, err
}

