package spreads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

func fp(v float64) *float64 { return &v }

var (
	asOf      = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	expiryDay = time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC)
)

func legRow(id int64, ticker string, optType contracts.OptionType, strike, premium float64) contracts.FeatureRow {
	return contracts.FeatureRow{
		ContractID:     id,
		DataDate:       asOf,
		Ticker:         ticker,
		ExpirationDate: expiryDay,
		Strike:         strike,
		OptionType:     optType,
		OptionPrice:    fp(premium),
		DaysToExpiry:   49,
	}
}

// Three puts on one chain: 95 @ 1.00, 100 @ 2.00, 105 @ 3.50. Every
// short-higher/long-lower pairing is a bull put spread; the reversed
// pairings carry no credit.
func TestDetect_BullPutChain(t *testing.T) {
	rows := []contracts.FeatureRow{
		legRow(1, "XYZ", contracts.Put, 95, 1.00),
		legRow(2, "XYZ", contracts.Put, 100, 2.00),
		legRow(3, "XYZ", contracts.Put, 105, 3.50),
	}

	result := Detect(rows, asOf, DefaultThresholds(), Prescreen{})

	require.Len(t, result.Candidates, 3)
	assert.Equal(t, 3, result.Skipped[SkipWrongOrder])

	for _, c := range result.Candidates {
		assert.Equal(t, contracts.BullPutSpread, c.SpreadType)
		assert.Equal(t, "XYZ", c.Ticker)
		assert.Greater(t, c.ShortStrike, c.LongStrike)
	}

	// short 100 / long 95
	c := result.Candidates[0]
	assert.InDelta(t, 1.00, c.NetCredit, 1e-9)
	assert.InDelta(t, 5.0, c.SpreadWidth, 1e-9)
	assert.InDelta(t, 4.00, c.MaxLoss, 1e-9)
	assert.InDelta(t, 0.25, c.RiskRewardRatio, 1e-9)
	assert.InDelta(t, 99.00, c.BreakEven, 1e-9)

	// short 105 / long 95
	c = result.Candidates[1]
	assert.InDelta(t, 2.50, c.NetCredit, 1e-9)
	assert.InDelta(t, 10.0, c.SpreadWidth, 1e-9)
	assert.InDelta(t, 7.50, c.MaxLoss, 1e-9)
	assert.InDelta(t, 2.50/7.50, c.RiskRewardRatio, 1e-9)
	assert.InDelta(t, 102.50, c.BreakEven, 1e-9)

	// short 105 / long 100
	c = result.Candidates[2]
	assert.InDelta(t, 1.50, c.NetCredit, 1e-9)
	assert.InDelta(t, 5.0, c.SpreadWidth, 1e-9)
	assert.InDelta(t, 3.50, c.MaxLoss, 1e-9)
	assert.InDelta(t, 1.50/3.50, c.RiskRewardRatio, 1e-9)
	assert.InDelta(t, 103.50, c.BreakEven, 1e-9)
}

func TestDetect_BearCallSpread(t *testing.T) {
	rows := []contracts.FeatureRow{
		legRow(1, "XYZ", contracts.Call, 100, 3.50),
		legRow(2, "XYZ", contracts.Call, 105, 2.00),
	}

	result := Detect(rows, asOf, DefaultThresholds(), Prescreen{})

	require.Len(t, result.Candidates, 1)
	c := result.Candidates[0]
	assert.Equal(t, contracts.BearCallSpread, c.SpreadType)
	assert.Equal(t, 100.0, c.ShortStrike)
	assert.Equal(t, 105.0, c.LongStrike)
	assert.InDelta(t, 1.50, c.NetCredit, 1e-9)
	assert.InDelta(t, 5.0, c.SpreadWidth, 1e-9)
	assert.InDelta(t, 3.50, c.MaxLoss, 1e-9)
	// Short a call below the long strike: break-even sits above the
	// short strike by the credit collected.
	assert.InDelta(t, 101.50, c.BreakEven, 1e-9)
}

func TestDetect_NeverPairsAcrossGroups(t *testing.T) {
	rows := []contracts.FeatureRow{
		legRow(1, "AAA", contracts.Put, 95, 1.00),
		legRow(2, "BBB", contracts.Put, 100, 2.00), // different ticker
		legRow(3, "AAA", contracts.Call, 100, 2.00), // different type
	}
	other := legRow(4, "AAA", contracts.Put, 100, 2.00)
	other.ExpirationDate = expiryDay.AddDate(0, 1, 0) // different expiration
	rows = append(rows, other)

	result := Detect(rows, asOf, DefaultThresholds(), Prescreen{})
	assert.Empty(t, result.Candidates)
}

func TestDetect_SkipReasons(t *testing.T) {
	tests := []struct {
		name   string
		rows   []contracts.FeatureRow
		reason SkipReason
	}{
		{
			name: "no credit when premiums are equal",
			rows: []contracts.FeatureRow{
				legRow(1, "XYZ", contracts.Put, 95, 2.00),
				legRow(2, "XYZ", contracts.Put, 100, 2.00),
			},
			reason: SkipNoCredit,
		},
		{
			name: "credit below minimum",
			rows: []contracts.FeatureRow{
				legRow(1, "XYZ", contracts.Put, 95, 2.000),
				legRow(2, "XYZ", contracts.Put, 100, 2.005),
			},
			reason: SkipLowCredit,
		},
		{
			name: "spread wider than maximum",
			rows: []contracts.FeatureRow{
				legRow(1, "XYZ", contracts.Put, 50, 0.50),
				legRow(2, "XYZ", contracts.Put, 100, 5.00),
			},
			reason: SkipTooWide,
		},
		{
			name: "credit at or above width leaves no defined risk",
			rows: []contracts.FeatureRow{
				legRow(1, "XYZ", contracts.Put, 95, 0.50),
				legRow(2, "XYZ", contracts.Put, 100, 6.00),
			},
			reason: SkipLowRR,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Detect(tc.rows, asOf, DefaultThresholds(), Prescreen{})
			assert.Empty(t, result.Candidates)
			assert.Equal(t, 1, result.Skipped[tc.reason], "skip tally: %v", result.Skipped)
		})
	}
}

func TestDetect_MaxLossThreshold(t *testing.T) {
	th := DefaultThresholds()
	th.MaxLoss = 3.0

	rows := []contracts.FeatureRow{
		legRow(1, "XYZ", contracts.Put, 95, 1.00),
		legRow(2, "XYZ", contracts.Put, 100, 2.00), // max loss 4.00
	}

	result := Detect(rows, asOf, th, Prescreen{})
	assert.Empty(t, result.Candidates)
	assert.Equal(t, 1, result.Skipped[SkipLossExceeded])
}

func TestDetect_MinRiskRewardThreshold(t *testing.T) {
	th := DefaultThresholds()
	th.MinRiskReward = 0.30

	rows := []contracts.FeatureRow{
		legRow(1, "XYZ", contracts.Put, 95, 1.00),
		legRow(2, "XYZ", contracts.Put, 100, 2.00), // rr 0.25
	}

	result := Detect(rows, asOf, th, Prescreen{})
	assert.Empty(t, result.Candidates)
	assert.Equal(t, 1, result.Skipped[SkipLowRR])
}

func TestDetect_SameStrikeNeverPaired(t *testing.T) {
	rows := []contracts.FeatureRow{
		legRow(1, "XYZ", contracts.Put, 100, 1.00),
		legRow(2, "XYZ", contracts.Put, 100, 2.00),
	}

	result := Detect(rows, asOf, DefaultThresholds(), Prescreen{})
	assert.Empty(t, result.Candidates)
	assert.Positive(t, result.Skipped[SkipSameStrike])
}

func TestDetect_PrescreenFiltersLegs(t *testing.T) {
	junk := legRow(1, "XYZ", contracts.Put, 95, 1.00)
	junk.IsJunk = true

	nearExpiry := legRow(2, "XYZ", contracts.Put, 100, 2.00)
	nearExpiry.DaysToExpiry = 5

	thin := legRow(3, "XYZ", contracts.Put, 105, 3.50)
	thin.Volume = ip(50)

	result := Detect([]contracts.FeatureRow{junk, nearExpiry, thin}, asOf,
		DefaultThresholds(), Prescreen{MinDTE: 20, MinVolume: 100})

	assert.Empty(t, result.Candidates)
	assert.Equal(t, 3, result.Skipped[SkipPrescreened])
}

func TestDetect_LegWithoutPremiumIsSkipped(t *testing.T) {
	noPremium := legRow(1, "XYZ", contracts.Put, 95, 0)
	noPremium.OptionPrice = nil

	rows := []contracts.FeatureRow{
		noPremium,
		legRow(2, "XYZ", contracts.Put, 100, 2.00),
	}

	result := Detect(rows, asOf, DefaultThresholds(), Prescreen{})
	assert.Empty(t, result.Candidates)
	assert.Equal(t, 1, result.Skipped[SkipNoPremium])
}

func TestDetect_Deterministic(t *testing.T) {
	rows := []contracts.FeatureRow{
		legRow(4, "BBB", contracts.Call, 105, 2.00),
		legRow(1, "XYZ", contracts.Put, 95, 1.00),
		legRow(3, "BBB", contracts.Call, 100, 3.50),
		legRow(2, "XYZ", contracts.Put, 100, 2.00),
	}

	first := Detect(rows, asOf, DefaultThresholds(), Prescreen{})
	second := Detect(rows, asOf, DefaultThresholds(), Prescreen{})

	assert.Equal(t, first.Candidates, second.Candidates)
	assert.Equal(t, first.Skipped, second.Skipped)

	// Groups come out in ticker order regardless of input order.
	require.Len(t, first.Candidates, 2)
	assert.Equal(t, "BBB", first.Candidates[0].Ticker)
	assert.Equal(t, "XYZ", first.Candidates[1].Ticker)
}

func ip(v int64) *int64 { return &v }
