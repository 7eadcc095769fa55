package quality

import (
	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

// Rules holds the junk-classification thresholds. A contract snapshot
// is junk when any rule fires; classification is a pure function of
// the row's own fields.
type Rules struct {
	MinOptionPrice     float64 // premium at or below this is junk
	MinOpenInterest    int64   // open interest at or below this is junk
	MinUnderlyingPrice float64 // underlying last price at or below this is junk
}

// DefaultRules returns the standard daily tagging thresholds.
func DefaultRules() Rules {
	return Rules{
		MinOptionPrice:     0.05,
		MinOpenInterest:    10,
		MinUnderlyingPrice: 1,
	}
}

// Classify reports whether the snapshot is junk. Missing open
// interest, volume or underlying price count as zero, matching the
// set-based tagging SQL.
func (r Rules) Classify(s *contracts.ContractSnapshot) bool {
	if s.OptionPrice == nil || *s.OptionPrice <= r.MinOptionPrice {
		return true
	}
	if s.ImpliedVolatility == nil {
		return true
	}
	if int64Value(s.OpenInterest) <= r.MinOpenInterest {
		return true
	}
	if int64Value(s.Volume) <= 0 {
		return true
	}
	if floatValue(s.LastPrice) <= r.MinUnderlyingPrice {
		return true
	}
	return false
}

// LiquidityRules is the optional stricter secondary pass, applied only
// to rows not already junk.
type LiquidityRules struct {
	MinVolume       int64
	MinOpenInterest int64
}

// DefaultLiquidityRules returns the standard low-liquidity thresholds.
func DefaultLiquidityRules() LiquidityRules {
	return LiquidityRules{
		MinVolume:       1000,
		MinOpenInterest: 1000,
	}
}

// Classify reports whether a non-junk snapshot fails the liquidity
// screen.
func (r LiquidityRules) Classify(s *contracts.ContractSnapshot) bool {
	if s.IsJunk {
		return false
	}
	return int64Value(s.Volume) < r.MinVolume || int64Value(s.OpenInterest) < r.MinOpenInterest
}

func int64Value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
