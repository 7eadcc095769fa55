package features

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

// Source provides the inputs of a feature-store rebuild.
type Source interface {
	// ActiveGreeks returns Greeks rows with days_to_expiry > 0.
	ActiveGreeks(ctx context.Context) ([]contracts.GreeksRecord, error)
	// Snapshots returns the snapshots backing those Greeks rows,
	// keyed by contract id.
	Snapshots(ctx context.Context) (map[int64]contracts.ContractSnapshot, error)
	// Volatility returns every historical volatility point, keyed by
	// (ticker, date).
	Volatility(ctx context.Context) (map[TickerDate]contracts.HistoricalVolatilityPoint, error)
	// RatePoints returns the rate curve keyed by exact date.
	RatePoints(ctx context.Context) (map[string]float64, error)
}

// Sink atomically replaces the feature store contents.
type Sink interface {
	ReplaceAll(ctx context.Context, rows []contracts.FeatureRow) (int64, error)
}

// TickerDate keys the historical volatility join: exact (ticker, date)
// match only, no as-of fallback.
type TickerDate struct {
	Ticker string
	Date   string // YYYY-MM-DD
}

// DateKey formats a date for map joins.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Assembler rebuilds the denormalized feature store. The store is a
// materialized view: each rebuild deletes everything and reinserts,
// which costs O(total rows) but keeps the result deterministic.
type Assembler struct {
	src  Source
	sink Sink
	log  *logger.Logger
}

// NewAssembler creates a feature assembler.
func NewAssembler(src Source, sink Sink, log *logger.Logger) *Assembler {
	return &Assembler{src: src, sink: sink, log: log}
}

// Rebuild regenerates the feature store wholesale and returns the
// inserted row count. Running it twice against unchanged sources
// yields an identical row set.
func (a *Assembler) Rebuild(ctx context.Context) (int64, error) {
	greeks, err := a.src.ActiveGreeks(ctx)
	if err != nil {
		return 0, fmt.Errorf("load greeks: %w", err)
	}

	snaps, err := a.src.Snapshots(ctx)
	if err != nil {
		return 0, fmt.Errorf("load snapshots: %w", err)
	}

	vol, err := a.src.Volatility(ctx)
	if err != nil {
		return 0, fmt.Errorf("load historical volatility: %w", err)
	}

	ratePoints, err := a.src.RatePoints(ctx)
	if err != nil {
		return 0, fmt.Errorf("load rate curve: %w", err)
	}

	rows := Assemble(greeks, snaps, vol, ratePoints)

	count, err := a.sink.ReplaceAll(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("replace feature store: %w", err)
	}

	a.log.WithFields(map[string]interface{}{
		"greeks_rows":  len(greeks),
		"feature_rows": count,
	}).Info("Feature store rebuilt")

	return count, nil
}

// Assemble joins Greeks rows with their snapshots, historical
// volatility and the rate curve into feature rows. Pure and
// deterministic: output is sorted by (data_date, contract_id).
// Volatility and rate joins are left joins on exact dates — a missing
// match leaves those columns nil but the row is still emitted.
func Assemble(
	greeks []contracts.GreeksRecord,
	snaps map[int64]contracts.ContractSnapshot,
	vol map[TickerDate]contracts.HistoricalVolatilityPoint,
	ratePoints map[string]float64,
) []contracts.FeatureRow {
	rows := make([]contracts.FeatureRow, 0, len(greeks))

	for _, g := range greeks {
		if g.DaysToExpiry <= 0 {
			continue
		}

		snap, ok := snaps[g.ContractID]
		if !ok {
			// Greeks reference snapshots by foreign key; a missing
			// snapshot means the sources changed mid-read.
			continue
		}

		row := contracts.FeatureRow{
			ContractID:     g.ContractID,
			DataDate:       g.DataDate,
			Ticker:         snap.Ticker,
			ExpirationDate: snap.ExpirationDate,
			Strike:         snap.Strike,
			OptionType:     snap.OptionType,

			Bid:               snap.Bid,
			Ask:               snap.Ask,
			LastPrice:         snap.LastPrice,
			OptionPrice:       snap.OptionPrice,
			ImpliedVolatility: snap.ImpliedVolatility,
			OpenInterest:      snap.OpenInterest,
			Volume:            snap.Volume,
			TheoreticalPrice:  snap.TheoreticalPrice,
			PriceDiff:         snap.PriceDiff,
			IsJunk:            snap.IsJunk,

			Delta:        g.Delta,
			Gamma:        g.Gamma,
			Vega:         g.Vega,
			Theta:        g.Theta,
			Rho:          g.Rho,
			DaysToExpiry: g.DaysToExpiry,
		}

		if hv, ok := vol[TickerDate{Ticker: snap.Ticker, Date: DateKey(g.DataDate)}]; ok {
			row.HV10 = hv.HV10
			row.HV20 = hv.HV20
			row.HV30 = hv.HV30
			row.HV60 = hv.HV60
		}

		if rate, ok := ratePoints[DateKey(g.DataDate)]; ok {
			row.RiskFreeRate = &rate
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].DataDate.Equal(rows[j].DataDate) {
			return rows[i].DataDate.Before(rows[j].DataDate)
		}
		return rows[i].ContractID < rows[j].ContractID
	})

	return rows
}
