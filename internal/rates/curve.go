package rates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

// ErrNoRate reports that no rate point exists on or before the query
// date: the curve starts after it. The curve never extrapolates
// forward from a future point.
var ErrNoRate = errors.New("no risk-free rate available as of date")

// Curve is a risk-free rate curve indexed by date. Dates are not
// necessarily contiguous; lookups are as-of.
type Curve struct {
	points []contracts.RateCurvePoint // sorted ascending by date
}

// NewCurve builds a curve from points in any order.
func NewCurve(points []contracts.RateCurvePoint) *Curve {
	sorted := make([]contracts.RateCurvePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return &Curve{points: sorted}
}

// AsOf returns the rate of the latest point with date <= the query
// date, or ErrNoRate when the curve starts after it.
func (c *Curve) AsOf(date time.Time) (float64, error) {
	// First index with point date strictly after the query date.
	idx := sort.Search(len(c.points), func(i int) bool {
		return c.points[i].Date.After(date)
	})
	if idx == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoRate, date.Format("2006-01-02"))
	}
	return c.points[idx-1].Rate, nil
}

// Len returns the number of points on the curve.
func (c *Curve) Len() int {
	return len(c.points)
}

// Resolver serves as-of rate lookups for a batch run. It loads the
// full curve from the repository once, so per-row lookups stay in
// memory.
type Resolver struct {
	repo  *Repository
	curve *Curve
}

// NewResolver creates a resolver backed by the rate repository.
func NewResolver(repo *Repository) *Resolver {
	return &Resolver{repo: repo}
}

// RateFor returns the risk-free rate effective as of the given date.
func (r *Resolver) RateFor(ctx context.Context, date time.Time) (float64, error) {
	if r.curve == nil {
		points, err := r.repo.GetAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("load rate curve: %w", err)
		}
		r.curve = NewCurve(points)
	}
	return r.curve.AsOf(date)
}
