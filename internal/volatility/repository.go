package volatility

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

// Repository implements PriceSource and VolSink over PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new volatility repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ClosingPrices returns every daily close, ordered by ticker and date.
func (r *Repository) ClosingPrices(ctx context.Context) ([]PricePoint, error) {
	query := `
		SELECT ticker, price_date, close_price
		FROM historical_prices
		ORDER BY ticker, price_date
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PricePoint
	for rows.Next() {
		var p PricePoint
		if err := rows.Scan(&p.Ticker, &p.Date, &p.Close); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SavePrices upserts daily closes.
func (r *Repository) SavePrices(ctx context.Context, prices []PricePoint) (int64, error) {
	var saved int64

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		upsert := `
			INSERT INTO historical_prices (ticker, price_date, close_price)
			VALUES ($1, $2, $3)
			ON CONFLICT (ticker, price_date) DO UPDATE SET close_price = EXCLUDED.close_price
		`

		batch := &pgx.Batch{}
		for _, p := range prices {
			batch.Queue(upsert, p.Ticker, p.Date, p.Close)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range prices {
			if _, err := results.Exec(); err != nil {
				return err
			}
			saved++
		}

		return results.Close()
	})
	if err != nil {
		return 0, err
	}

	return saved, nil
}

// SaveVolatility upserts computed volatility points in one transaction.
func (r *Repository) SaveVolatility(ctx context.Context, points []contracts.HistoricalVolatilityPoint) (int64, error) {
	var saved int64

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		upsert := `
			INSERT INTO historical_volatility (ticker, data_date, hv_10, hv_20, hv_30, hv_60)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (ticker, data_date) DO UPDATE SET
				hv_10 = EXCLUDED.hv_10,
				hv_20 = EXCLUDED.hv_20,
				hv_30 = EXCLUDED.hv_30,
				hv_60 = EXCLUDED.hv_60
		`

		batch := &pgx.Batch{}
		for _, p := range points {
			batch.Queue(upsert, p.Ticker, p.Date, p.HV10, p.HV20, p.HV30, p.HV60)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range points {
			if _, err := results.Exec(); err != nil {
				return err
			}
			saved++
		}

		return results.Close()
	})
	if err != nil {
		return 0, err
	}

	return saved, nil
}
