package rates

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

// Repository manages the risk_free_rates table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new rate repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetAll retrieves every rate curve point, ascending by date.
func (r *Repository) GetAll(ctx context.Context) ([]contracts.RateCurvePoint, error) {
	query := `
		SELECT rate_date, rate
		FROM risk_free_rates
		ORDER BY rate_date ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []contracts.RateCurvePoint
	for rows.Next() {
		var p contracts.RateCurvePoint
		if err := rows.Scan(&p.Date, &p.Rate); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// AsOf retrieves the latest rate with date <= the query date directly
// from the store.
func (r *Repository) AsOf(ctx context.Context, date time.Time) (float64, error) {
	query := `
		SELECT rate
		FROM risk_free_rates
		WHERE rate_date <= $1
		ORDER BY rate_date DESC
		LIMIT 1
	`

	var rate float64
	err := r.pool.QueryRow(ctx, query, date).Scan(&rate)
	if err != nil {
		return 0, err
	}
	return rate, nil
}

// Save upserts a single rate curve point. The rate feed collaborator
// writes through this method.
func (r *Repository) Save(ctx context.Context, point contracts.RateCurvePoint) error {
	query := `
		INSERT INTO risk_free_rates (rate_date, rate)
		VALUES ($1, $2)
		ON CONFLICT (rate_date) DO UPDATE SET rate = EXCLUDED.rate
	`

	_, err := r.pool.Exec(ctx, query, point.Date, point.Rate)
	return err
}

// SaveBatch upserts multiple rate curve points.
func (r *Repository) SaveBatch(ctx context.Context, points []contracts.RateCurvePoint) error {
	for _, p := range points {
		if err := r.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
