package spreads

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

// Thresholds filter enumerated spreads. Zero values are not valid; use
// DefaultThresholds as a baseline.
type Thresholds struct {
	MinNetCredit   float64 // minimum credit to justify entering
	MaxSpreadWidth float64 // avoid overly wide spreads
	MaxLoss        float64 // worst acceptable max loss, per share
	MinRiskReward  float64 // avoid spreads with poor R/R
}

// DefaultThresholds returns the standard detection thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinNetCredit:   0.01,
		MaxSpreadWidth: 20,
		MaxLoss:        2000,
		MinRiskReward:  0.01,
	}
}

// Prescreen filters individual legs before pairing. The zero value
// admits every non-junk leg with a premium.
type Prescreen struct {
	MinDTE          int
	MinIV           float64
	MinVolume       int64
	MinOpenInterest int64
}

// SkipReason explains why a leg or pair produced no candidate.
type SkipReason string

const (
	SkipPrescreened  SkipReason = "prescreened"
	SkipNoPremium    SkipReason = "no_premium"
	SkipSameStrike   SkipReason = "same_strike"
	SkipWrongOrder   SkipReason = "wrong_order"
	SkipNoCredit     SkipReason = "no_credit"
	SkipLowCredit    SkipReason = "low_credit"
	SkipTooWide      SkipReason = "too_wide"
	SkipLossExceeded SkipReason = "max_loss_exceeded"
	SkipLowRR        SkipReason = "low_rr"
)

// Result is the outcome of one detection run.
type Result struct {
	Candidates []contracts.SpreadCandidate
	Skipped    map[SkipReason]int
}

func newResult() *Result {
	return &Result{Skipped: make(map[SkipReason]int)}
}

func (r *Result) skip(reason SkipReason) {
	r.Skipped[reason]++
}

// TotalSkipped sums skips across all reasons.
func (r *Result) TotalSkipped() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

type groupKey struct {
	Ticker     string
	Expiration string
	OptionType contracts.OptionType
}

type leg struct {
	id      int64
	strike  float64
	premium float64
}

// Detect enumerates and filters two-leg vertical credit spreads from
// feature rows observed on one date. Pure function: same rows and
// thresholds always produce the same candidates.
//
// Rows are partitioned by (ticker, expiration, option type) and each
// group is paired exhaustively, not only strike-adjacent legs. The
// short leg is the one collecting the larger premium: the higher
// strike for puts (bull put spread), the lower strike for calls (bear
// call spread). Pairs oriented the other way carry no credit and are
// tallied as wrong_order.
func Detect(rows []contracts.FeatureRow, asOf time.Time, th Thresholds, pre Prescreen) *Result {
	result := newResult()

	groups := make(map[groupKey][]leg)
	var keys []groupKey

	for i := range rows {
		row := &rows[i]
		if !row.OptionType.Valid() {
			continue
		}
		if row.OptionPrice == nil {
			result.skip(SkipNoPremium)
			continue
		}
		if prescreened(row, pre) {
			result.skip(SkipPrescreened)
			continue
		}

		key := groupKey{
			Ticker:     row.Ticker,
			Expiration: row.ExpirationDate.Format("2006-01-02"),
			OptionType: row.OptionType,
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], leg{
			id:      row.ContractID,
			strike:  row.Strike,
			premium: *row.OptionPrice,
		})
	}

	// Deterministic group order regardless of map iteration.
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Ticker != b.Ticker {
			return a.Ticker < b.Ticker
		}
		if a.Expiration != b.Expiration {
			return a.Expiration < b.Expiration
		}
		return a.OptionType < b.OptionType
	})

	for _, key := range keys {
		legs := groups[key]
		sort.Slice(legs, func(i, j int) bool {
			return legs[i].strike < legs[j].strike
		})

		expiration, _ := time.Parse("2006-01-02", key.Expiration)

		// O(n^2) per group; groups hold tens of strikes, not
		// thousands.
		for i := range legs {
			for j := range legs {
				if i == j {
					continue
				}
				evaluatePair(result, key, expiration, legs[i], legs[j], asOf, th)
			}
		}
	}

	return result
}

// evaluatePair treats short/long as fixed leg roles and either emits a
// candidate or tallies a skip reason.
func evaluatePair(result *Result, key groupKey, expiration time.Time, short, long leg, asOf time.Time, th Thresholds) {
	if short.strike == long.strike {
		result.skip(SkipSameStrike)
		return
	}

	var spreadType contracts.SpreadType
	switch {
	case key.OptionType == contracts.Put && short.strike > long.strike:
		spreadType = contracts.BullPutSpread
	case key.OptionType == contracts.Call && short.strike < long.strike:
		spreadType = contracts.BearCallSpread
	default:
		result.skip(SkipWrongOrder)
		return
	}

	netCredit := short.premium - long.premium
	width := math.Abs(long.strike - short.strike)

	if netCredit <= 0 {
		result.skip(SkipNoCredit)
		return
	}
	if netCredit < th.MinNetCredit {
		result.skip(SkipLowCredit)
		return
	}
	if width > th.MaxSpreadWidth {
		result.skip(SkipTooWide)
		return
	}

	maxLoss := width - netCredit
	if maxLoss > th.MaxLoss {
		result.skip(SkipLossExceeded)
		return
	}
	if maxLoss <= 0 {
		// Risk/reward is undefined without positive max loss.
		result.skip(SkipLowRR)
		return
	}

	riskReward := netCredit / maxLoss
	if riskReward < th.MinRiskReward {
		result.skip(SkipLowRR)
		return
	}

	breakEven := short.strike - netCredit
	if spreadType == contracts.BearCallSpread {
		breakEven = short.strike + netCredit
	}

	result.Candidates = append(result.Candidates, contracts.SpreadCandidate{
		ShortLegID:      short.id,
		LongLegID:       long.id,
		Ticker:          key.Ticker,
		ExpirationDate:  expiration,
		SpreadType:      spreadType,
		ShortStrike:     short.strike,
		LongStrike:      long.strike,
		ShortPremium:    short.premium,
		LongPremium:     long.premium,
		NetCredit:       netCredit,
		SpreadWidth:     width,
		MaxLoss:         maxLoss,
		RiskRewardRatio: riskReward,
		BreakEven:       breakEven,
		DecisionDate:    asOf,
	})
}

func prescreened(row *contracts.FeatureRow, pre Prescreen) bool {
	if row.IsJunk {
		return true
	}
	if row.DaysToExpiry < pre.MinDTE {
		return true
	}
	if pre.MinIV > 0 && (row.ImpliedVolatility == nil || *row.ImpliedVolatility < pre.MinIV) {
		return true
	}
	if pre.MinVolume > 0 && (row.Volume == nil || *row.Volume < pre.MinVolume) {
		return true
	}
	if pre.MinOpenInterest > 0 && (row.OpenInterest == nil || *row.OpenInterest < pre.MinOpenInterest) {
		return true
	}
	return false
}

// Detector runs detection against the feature store and persists the
// surviving candidates, replacing any prior run for the same decision
// date.
type Detector struct {
	repo      *Repository
	th        Thresholds
	prescreen Prescreen
	log       *logger.Logger
}

// NewDetector creates a spread detector.
func NewDetector(repo *Repository, th Thresholds, pre Prescreen, log *logger.Logger) *Detector {
	return &Detector{repo: repo, th: th, prescreen: pre, log: log}
}

// Run detects candidates for the given as-of date and persists them.
func (d *Detector) Run(ctx context.Context, asOf time.Time) (*Result, error) {
	rows, err := d.repo.LegsForDate(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("load feature rows: %w", err)
	}

	result := Detect(rows, asOf, d.th, d.prescreen)

	if err := d.repo.ReplaceForDate(ctx, asOf, result.Candidates); err != nil {
		return nil, fmt.Errorf("persist spread candidates: %w", err)
	}

	d.log.WithFields(map[string]interface{}{
		"as_of":      asOf.Format("2006-01-02"),
		"legs":       len(rows),
		"candidates": len(result.Candidates),
		"skipped":    result.Skipped,
	}).Info("Spread detection finished")

	return result, nil
}
