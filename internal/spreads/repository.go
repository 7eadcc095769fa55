package spreads

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

// Repository reads spread legs from the feature store and persists
// candidates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new spread repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LegsForDate returns the feature rows observed on one data date.
func (r *Repository) LegsForDate(ctx context.Context, dataDate time.Time) ([]contracts.FeatureRow, error) {
	query := `
		SELECT contract_id, data_date, ticker, expiration_date, strike, option_type,
		       bid, ask, last_price, option_price, implied_volatility,
		       open_interest, volume, theoretical_price, price_diff, is_junk,
		       delta, gamma, vega, theta, rho, days_to_expiry,
		       hv_10, hv_20, hv_30, hv_60, risk_free_rate
		FROM feature_store
		WHERE data_date = $1
		ORDER BY ticker, expiration_date, option_type, strike
	`

	rows, err := r.pool.Query(ctx, query, dataDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.FeatureRow
	for rows.Next() {
		var f contracts.FeatureRow
		if err := rows.Scan(
			&f.ContractID, &f.DataDate, &f.Ticker, &f.ExpirationDate, &f.Strike, &f.OptionType,
			&f.Bid, &f.Ask, &f.LastPrice, &f.OptionPrice, &f.ImpliedVolatility,
			&f.OpenInterest, &f.Volume, &f.TheoreticalPrice, &f.PriceDiff, &f.IsJunk,
			&f.Delta, &f.Gamma, &f.Vega, &f.Theta, &f.Rho, &f.DaysToExpiry,
			&f.HV10, &f.HV20, &f.HV30, &f.HV60, &f.RiskFreeRate,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// LatestDataDate returns the most recent data date present in the
// feature store, or false when the store is empty.
func (r *Repository) LatestDataDate(ctx context.Context) (time.Time, bool, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx, `SELECT MAX(data_date) FROM feature_store`).Scan(&latest)
	if err != nil {
		return time.Time{}, false, err
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return *latest, true, nil
}

// ReplaceForDate deletes any prior candidates for the decision date and
// inserts the new set in one transaction. Re-running detection for the
// same date converges instead of accumulating.
func (r *Repository) ReplaceForDate(ctx context.Context, decisionDate time.Time, candidates []contracts.SpreadCandidate) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM spread_candidates WHERE decision_date = $1`, decisionDate); err != nil {
			return err
		}

		insert := `
			INSERT INTO spread_candidates (
				short_leg_id, long_leg_id, ticker, expiration_date, spread_type,
				short_strike, long_strike, short_premium, long_premium,
				net_credit, spread_width, max_loss, risk_reward_ratio,
				break_even, decision_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`

		batch := &pgx.Batch{}
		for _, c := range candidates {
			batch.Queue(insert,
				c.ShortLegID, c.LongLegID, c.Ticker, c.ExpirationDate, c.SpreadType,
				c.ShortStrike, c.LongStrike, c.ShortPremium, c.LongPremium,
				c.NetCredit, c.SpreadWidth, c.MaxLoss, c.RiskRewardRatio,
				c.BreakEven, c.DecisionDate,
			)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range candidates {
			if _, err := results.Exec(); err != nil {
				return err
			}
		}

		return results.Close()
	})
}

// CandidatesForDate returns persisted candidates for one decision date.
func (r *Repository) CandidatesForDate(ctx context.Context, decisionDate time.Time) ([]contracts.SpreadCandidate, error) {
	query := `
		SELECT short_leg_id, long_leg_id, ticker, expiration_date, spread_type,
		       short_strike, long_strike, short_premium, long_premium,
		       net_credit, spread_width, max_loss, risk_reward_ratio,
		       break_even, decision_date
		FROM spread_candidates
		WHERE decision_date = $1
		ORDER BY ticker, expiration_date, short_strike, long_strike
	`

	rows, err := r.pool.Query(ctx, query, decisionDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.SpreadCandidate
	for rows.Next() {
		var c contracts.SpreadCandidate
		if err := rows.Scan(
			&c.ShortLegID, &c.LongLegID, &c.Ticker, &c.ExpirationDate, &c.SpreadType,
			&c.ShortStrike, &c.LongStrike, &c.ShortPremium, &c.LongPremium,
			&c.NetCredit, &c.SpreadWidth, &c.MaxLoss, &c.RiskRewardRatio,
			&c.BreakEven, &c.DecisionDate,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountForDate returns the number of candidates stored for one
// decision date.
func (r *Repository) CountForDate(ctx context.Context, decisionDate time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM spread_candidates WHERE decision_date = $1`, decisionDate).Scan(&count)
	return count, err
}
