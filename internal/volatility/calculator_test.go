package volatility

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/config"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func priceSeries(ticker string, closes []float64) []PricePoint {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make([]PricePoint, len(closes))
	for i, c := range closes {
		points[i] = PricePoint{Ticker: ticker, Date: start.AddDate(0, 0, i), Close: c}
	}
	return points
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCompute_ConstantPricesYieldZeroVolatility(t *testing.T) {
	points := Compute(priceSeries("AAPL", constant(15, 100)))
	require.NotEmpty(t, points)

	last := points[len(points)-1]
	require.NotNil(t, last.HV10)
	assert.Zero(t, *last.HV10)
	assert.Nil(t, last.HV20) // only 14 returns available
}

func TestCompute_AlternatingPricesMatchClosedForm(t *testing.T) {
	closes := make([]float64, 21)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 200
		}
	}

	points := Compute(priceSeries("AAPL", closes))
	require.NotEmpty(t, points)

	// Returns alternate +ln2/-ln2: mean 0, sample variance w*r^2/(w-1).
	r := math.Log(2)
	want10 := r * math.Sqrt(10.0/9.0) * math.Sqrt(252)
	want20 := r * math.Sqrt(20.0/19.0) * math.Sqrt(252)

	last := points[len(points)-1]
	require.NotNil(t, last.HV10)
	require.NotNil(t, last.HV20)
	assert.InDelta(t, want10, *last.HV10, 1e-9)
	assert.InDelta(t, want20, *last.HV20, 1e-9)
	assert.Nil(t, last.HV30)
	assert.Nil(t, last.HV60)
}

func TestCompute_InsufficientHistoryYieldsNothing(t *testing.T) {
	// 8 closes give 7 returns, short of the smallest window.
	points := Compute(priceSeries("AAPL", constant(8, 100)))
	assert.Empty(t, points)
}

func TestCompute_WindowsFillInAsHistoryGrows(t *testing.T) {
	points := Compute(priceSeries("AAPL", constant(35, 100)))
	require.NotEmpty(t, points)

	last := points[len(points)-1] // 34 returns behind it
	assert.NotNil(t, last.HV10)
	assert.NotNil(t, last.HV20)
	assert.NotNil(t, last.HV30)
	assert.Nil(t, last.HV60)

	first := points[0] // exactly 10 returns behind it
	assert.NotNil(t, first.HV10)
	assert.Nil(t, first.HV20)
}

func TestCompute_NonPositiveCloseBreaksWindow(t *testing.T) {
	closes := constant(15, 100)
	closes[7] = 0

	points := Compute(priceSeries("AAPL", closes))

	// Every 10-return window spans the broken return, so nothing is
	// emitted.
	assert.Empty(t, points)
}

func TestCompute_TickersAreIndependent(t *testing.T) {
	prices := append(
		priceSeries("MSFT", constant(15, 300)),
		priceSeries("AAPL", constant(15, 100))...,
	)

	points := Compute(prices)
	require.NotEmpty(t, points)

	// Output is grouped by ticker in sorted order.
	assert.Equal(t, "AAPL", points[0].Ticker)
	assert.Equal(t, "MSFT", points[len(points)-1].Ticker)

	for _, p := range points {
		require.NotNil(t, p.HV10)
		assert.Zero(t, *p.HV10)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	prices := append(
		priceSeries("MSFT", constant(25, 300)),
		priceSeries("AAPL", constant(25, 100))...,
	)

	assert.Equal(t, Compute(prices), Compute(prices))
}

type fakePrices struct {
	prices []PricePoint
}

func (f *fakePrices) ClosingPrices(ctx context.Context) ([]PricePoint, error) {
	return f.prices, nil
}

type fakeVolSink struct {
	points []contracts.HistoricalVolatilityPoint
	saves  int
}

func (f *fakeVolSink) SaveVolatility(ctx context.Context, points []contracts.HistoricalVolatilityPoint) (int64, error) {
	f.points = points
	f.saves++
	return int64(len(points)), nil
}

func TestCalculator_Run_UpsertsConverge(t *testing.T) {
	src := &fakePrices{prices: priceSeries("AAPL", constant(15, 100))}
	sink := &fakeVolSink{}

	calc := NewCalculator(src, sink, testLogger())

	count, err := calc.Run(context.Background())
	require.NoError(t, err)
	assert.Positive(t, count)

	firstPoints := sink.points

	// Re-running on unchanged prices produces the identical point set.
	_, err = calc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sink.saves)
	assert.Equal(t, firstPoints, sink.points)
}
