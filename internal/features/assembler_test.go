package features

import (
	"context"
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

func fp(v float64) *float64 { return &v }

var (
	dataDate = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	expiry   = time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC)
)

func greeksRow(id int64) contracts.GreeksRecord {
	return contracts.GreeksRecord{
		ContractID:        id,
		DataDate:          dataDate,
		Delta:             0.57,
		Gamma:             0.027,
		Vega:              0.27,
		Theta:             -0.02,
		Rho:               0.25,
		DaysToExpiry:      49,
		RiskFreeRate:      0.043,
		ImpliedVolatility: 0.28,
	}
}

func snapshotRow(id int64, ticker string) contracts.ContractSnapshot {
	return contracts.ContractSnapshot{
		ContractID:        id,
		Ticker:            ticker,
		ExpirationDate:    expiry,
		Strike:            190,
		OptionType:        contracts.Call,
		DataDate:          dataDate,
		LastPrice:         fp(185.40),
		OptionPrice:       fp(4.20),
		ImpliedVolatility: fp(0.28),
	}
}

func TestAssemble_JoinsAllSources(t *testing.T) {
	greeks := []contracts.GreeksRecord{greeksRow(1)}
	snaps := map[int64]contracts.ContractSnapshot{1: snapshotRow(1, "AAPL")}
	vol := map[TickerDate]contracts.HistoricalVolatilityPoint{
		{Ticker: "AAPL", Date: "2026-05-01"}: {Ticker: "AAPL", Date: dataDate, HV20: fp(0.31)},
	}
	ratePoints := map[string]float64{"2026-05-01": 0.043}

	rows := Assemble(greeks, snaps, vol, ratePoints)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(1), row.ContractID)
	assert.Equal(t, "AAPL", row.Ticker)
	assert.Equal(t, 190.0, row.Strike)
	assert.Equal(t, 0.57, row.Delta)
	require.NotNil(t, row.HV20)
	assert.Equal(t, 0.31, *row.HV20)
	require.NotNil(t, row.RiskFreeRate)
	assert.Equal(t, 0.043, *row.RiskFreeRate)
}

func TestAssemble_LeftJoinEmitsRowWithNulls(t *testing.T) {
	greeks := []contracts.GreeksRecord{greeksRow(1)}
	snaps := map[int64]contracts.ContractSnapshot{1: snapshotRow(1, "AAPL")}

	// No volatility point and no rate point for the data date: the
	// row is still emitted, with those columns nil.
	rows := Assemble(greeks, snaps, nil, nil)
	require.Len(t, rows, 1)

	assert.Nil(t, rows[0].HV20)
	assert.Nil(t, rows[0].RiskFreeRate)
}

func TestAssemble_ExactDateMatchOnly(t *testing.T) {
	greeks := []contracts.GreeksRecord{greeksRow(1)}
	snaps := map[int64]contracts.ContractSnapshot{1: snapshotRow(1, "AAPL")}

	// A volatility point from the prior day must not match: the HV
	// join is exact (ticker, date), no as-of fallback.
	vol := map[TickerDate]contracts.HistoricalVolatilityPoint{
		{Ticker: "AAPL", Date: "2026-04-30"}: {Ticker: "AAPL", HV20: fp(0.31)},
	}

	rows := Assemble(greeks, snaps, vol, nil)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].HV20)
}

func TestAssemble_SkipsExpiredGreeks(t *testing.T) {
	expired := greeksRow(1)
	expired.DaysToExpiry = 0

	rows := Assemble([]contracts.GreeksRecord{expired},
		map[int64]contracts.ContractSnapshot{1: snapshotRow(1, "AAPL")}, nil, nil)
	assert.Empty(t, rows)
}

func TestAssemble_Deterministic(t *testing.T) {
	greeks := []contracts.GreeksRecord{greeksRow(2), greeksRow(1), greeksRow(3)}
	snaps := map[int64]contracts.ContractSnapshot{
		1: snapshotRow(1, "AAPL"),
		2: snapshotRow(2, "MSFT"),
		3: snapshotRow(3, "NVDA"),
	}
	vol := map[TickerDate]contracts.HistoricalVolatilityPoint{
		{Ticker: "MSFT", Date: "2026-05-01"}: {Ticker: "MSFT", HV20: fp(0.25)},
	}
	ratePoints := map[string]float64{"2026-05-01": 0.043}

	first := Assemble(greeks, snaps, vol, ratePoints)
	second := Assemble(greeks, snaps, vol, ratePoints)

	// Rebuild with unchanged sources yields an identical set, in
	// identical order.
	assert.Equal(t, first, second)

	require.Len(t, first, 3)
	assert.Equal(t, int64(1), first[0].ContractID)
	assert.Equal(t, int64(2), first[1].ContractID)
	assert.Equal(t, int64(3), first[2].ContractID)
}

type fakeSource struct {
	greeks []contracts.GreeksRecord
	snaps  map[int64]contracts.ContractSnapshot
	vol    map[TickerDate]contracts.HistoricalVolatilityPoint
	rates  map[string]float64
}

func (f *fakeSource) ActiveGreeks(ctx context.Context) ([]contracts.GreeksRecord, error) {
	return f.greeks, nil
}

func (f *fakeSource) Snapshots(ctx context.Context) (map[int64]contracts.ContractSnapshot, error) {
	return f.snaps, nil
}

func (f *fakeSource) Volatility(ctx context.Context) (map[TickerDate]contracts.HistoricalVolatilityPoint, error) {
	return f.vol, nil
}

func (f *fakeSource) RatePoints(ctx context.Context) (map[string]float64, error) {
	return f.rates, nil
}

type fakeSink struct {
	rows     []contracts.FeatureRow
	replaced int
}

func (f *fakeSink) ReplaceAll(ctx context.Context, rows []contracts.FeatureRow) (int64, error) {
	f.rows = rows
	f.replaced++
	return int64(len(rows)), nil
}

func TestAssembler_Rebuild_ReplacesNotAccumulates(t *testing.T) {
	src := &fakeSource{
		greeks: []contracts.GreeksRecord{greeksRow(1)},
		snaps:  map[int64]contracts.ContractSnapshot{1: snapshotRow(1, "AAPL")},
	}
	sink := &fakeSink{}

	asm := NewAssembler(src, sink, testLogger())

	count, err := asm.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	firstRows := sink.rows

	count, err = asm.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Each rebuild replaces the whole store; nothing accumulates.
	assert.Equal(t, 2, sink.replaced)
	assert.Equal(t, firstRows, sink.rows)
}
