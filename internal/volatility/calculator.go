package volatility

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// Windows are the rolling lookbacks, in trading days.
var Windows = []int{10, 20, 30, 60}

// PricePoint is one daily close for one ticker.
type PricePoint struct {
	Ticker string
	Date   time.Time
	Close  float64
}

// PriceSource loads daily closes for the volatility calculation.
type PriceSource interface {
	ClosingPrices(ctx context.Context) ([]PricePoint, error)
}

// VolSink upserts computed volatility points.
type VolSink interface {
	SaveVolatility(ctx context.Context, points []contracts.HistoricalVolatilityPoint) (int64, error)
}

// Calculator derives annualized rolling historical volatility from
// daily closes and persists it per (ticker, date).
type Calculator struct {
	src  PriceSource
	sink VolSink
	log  *logger.Logger
}

// NewCalculator creates a historical volatility calculator.
func NewCalculator(src PriceSource, sink VolSink, log *logger.Logger) *Calculator {
	return &Calculator{src: src, sink: sink, log: log}
}

// Run recomputes volatility for every ticker with price history and
// upserts the results. Safe to re-run; unchanged prices produce
// unchanged points.
func (c *Calculator) Run(ctx context.Context) (int64, error) {
	prices, err := c.src.ClosingPrices(ctx)
	if err != nil {
		return 0, fmt.Errorf("load closing prices: %w", err)
	}

	points := Compute(prices)

	saved, err := c.sink.SaveVolatility(ctx, points)
	if err != nil {
		return 0, fmt.Errorf("save volatility: %w", err)
	}

	c.log.WithFields(map[string]interface{}{
		"prices": len(prices),
		"points": saved,
	}).Info("Historical volatility updated")

	return saved, nil
}

// Compute derives rolling historical volatility from daily closes.
// Pure function. For each ticker the closes are sorted by date, turned
// into log returns, and each window's annualized sample standard
// deviation is attached to the date ending the window. Windows without
// enough preceding returns stay nil; dates where every window is nil
// produce no point. Non-positive closes cannot form a log return and
// break the return series at that date.
func Compute(prices []PricePoint) []contracts.HistoricalVolatilityPoint {
	byTicker := make(map[string][]PricePoint)
	var tickers []string
	for _, p := range prices {
		if _, ok := byTicker[p.Ticker]; !ok {
			tickers = append(tickers, p.Ticker)
		}
		byTicker[p.Ticker] = append(byTicker[p.Ticker], p)
	}
	sort.Strings(tickers)

	var out []contracts.HistoricalVolatilityPoint
	for _, ticker := range tickers {
		series := byTicker[ticker]
		sort.Slice(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})
		out = append(out, computeSeries(ticker, series)...)
	}
	return out
}

func computeSeries(ticker string, series []PricePoint) []contracts.HistoricalVolatilityPoint {
	// returns[i] is the log return ending at series[i+1].Date.
	returns := make([]float64, 0, len(series))
	valid := make([]bool, 0, len(series))
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1].Close, series[i].Close
		if prev <= 0 || cur <= 0 {
			returns = append(returns, 0)
			valid = append(valid, false)
			continue
		}
		returns = append(returns, math.Log(cur/prev))
		valid = append(valid, true)
	}

	var out []contracts.HistoricalVolatilityPoint
	for i := range returns {
		point := contracts.HistoricalVolatilityPoint{
			Ticker: ticker,
			Date:   series[i+1].Date,
		}

		any := false
		for _, w := range Windows {
			hv, ok := windowVol(returns, valid, i, w)
			if !ok {
				continue
			}
			any = true
			v := hv
			switch w {
			case 10:
				point.HV10 = &v
			case 20:
				point.HV20 = &v
			case 30:
				point.HV30 = &v
			case 60:
				point.HV60 = &v
			}
		}

		if any {
			out = append(out, point)
		}
	}
	return out
}

// windowVol returns the annualized sample standard deviation of the w
// returns ending at index end, or false when the window is incomplete.
func windowVol(returns []float64, valid []bool, end, w int) (float64, bool) {
	start := end - w + 1
	if start < 0 {
		return 0, false
	}

	mean := 0.0
	for i := start; i <= end; i++ {
		if !valid[i] {
			return 0, false
		}
		mean += returns[i]
	}
	mean /= float64(w)

	if w < 2 {
		return 0, false
	}

	variance := 0.0
	for i := start; i <= end; i++ {
		d := returns[i] - mean
		variance += d * d
	}
	variance /= float64(w - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear), true
}
