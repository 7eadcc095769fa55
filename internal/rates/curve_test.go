package rates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurve_AsOf(t *testing.T) {
	curve := NewCurve([]contracts.RateCurvePoint{
		// Deliberately unsorted; weekends and holidays leave gaps.
		{Date: day(2026, 4, 8), Rate: 0.0435},
		{Date: day(2026, 4, 6), Rate: 0.0430},
		{Date: day(2026, 4, 10), Rate: 0.0440},
	})

	tests := []struct {
		name  string
		query time.Time
		want  float64
	}{
		{name: "exact match", query: day(2026, 4, 8), want: 0.0435},
		{name: "gap falls back to prior point", query: day(2026, 4, 7), want: 0.0430},
		{name: "weekend uses friday rate", query: day(2026, 4, 12), want: 0.0440},
		{name: "far future uses latest point", query: day(2027, 1, 1), want: 0.0440},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := curve.AsOf(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rate)
		})
	}
}

func TestCurve_AsOf_BeforeCurveStart(t *testing.T) {
	curve := NewCurve([]contracts.RateCurvePoint{
		{Date: day(2026, 4, 6), Rate: 0.0430},
	})

	// The curve must never extrapolate backward from a future point.
	_, err := curve.AsOf(day(2026, 4, 5))
	assert.ErrorIs(t, err, ErrNoRate)
}

func TestCurve_AsOf_Empty(t *testing.T) {
	curve := NewCurve(nil)

	_, err := curve.AsOf(day(2026, 4, 6))
	assert.ErrorIs(t, err, ErrNoRate)
	assert.Equal(t, 0, curve.Len())
}
