package greeks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/pricing"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/rates"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

// SkipReason explains why a snapshot produced no Greeks row.
type SkipReason string

const (
	SkipExpired          SkipReason = "expired"
	SkipNoRate           SkipReason = "no_rate"
	SkipDuplicate        SkipReason = "duplicate"
	SkipInvalidInputs    SkipReason = "invalid_inputs"
	SkipComputationError SkipReason = "computation_error"
)

// Scope selects which snapshots a batch run covers.
type Scope struct {
	DataDate *time.Time // nil covers the full history
}

// AllDates covers every eligible snapshot.
func AllDates() Scope {
	return Scope{}
}

// ForDate restricts the run to one data date.
func ForDate(date time.Time) Scope {
	return Scope{DataDate: &date}
}

// Summary reports the outcome of one batch run, broken down by skip
// reason. Silent failure is disallowed: every eligible row lands in
// exactly one bucket.
type Summary struct {
	Inserted int
	Skipped  map[SkipReason]int
}

func newSummary() *Summary {
	return &Summary{Skipped: make(map[SkipReason]int)}
}

func (s *Summary) skip(reason SkipReason) {
	s.Skipped[reason]++
}

// TotalSkipped sums skips across all reasons.
func (s *Summary) TotalSkipped() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// SnapshotSource yields the snapshots eligible for Greeks computation:
// premium and IV present, not flagged junk.
type SnapshotSource interface {
	EligibleSnapshots(ctx context.Context, scope Scope) ([]contracts.ContractSnapshot, error)
}

// Store persists Greeks rows. Exists is checked before any write so a
// re-run after a crash converges without duplicates.
type Store interface {
	Exists(ctx context.Context, contractID int64, dataDate time.Time) (bool, error)
	InsertWithTheoretical(ctx context.Context, rec contracts.GreeksRecord, theoretical float64, priceDiff *float64) error
}

// RateSource serves as-of risk-free rate lookups.
type RateSource interface {
	RateFor(ctx context.Context, date time.Time) (float64, error)
}

// Processor orchestrates the pricing engine and rate resolver across
// all eligible snapshots. Row-level faults are recovered and counted;
// only storage failures abort the run.
type Processor struct {
	snapshots SnapshotSource
	store     Store
	rates     RateSource
	log       *logger.Logger
}

// NewProcessor creates a Greeks batch processor.
func NewProcessor(snapshots SnapshotSource, store Store, rateSource RateSource, log *logger.Logger) *Processor {
	return &Processor{
		snapshots: snapshots,
		store:     store,
		rates:     rateSource,
		log:       log,
	}
}

// Run computes and persists Greeks for every eligible snapshot in
// scope. Idempotent: the (contract_id, data_date) existence check runs
// before any write, so repeated runs converge to the same state.
func (p *Processor) Run(ctx context.Context, scope Scope) (*Summary, error) {
	snaps, err := p.snapshots.EligibleSnapshots(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load eligible snapshots: %w", err)
	}

	summary := newSummary()

	for i := range snaps {
		snap := &snaps[i]

		reason, err := p.processRow(ctx, snap, summary)
		if err != nil {
			// Storage failure is fatal; partial progress is safe to
			// resume because of the duplicate check.
			return summary, fmt.Errorf("contract %d on %s: %w",
				snap.ContractID, snap.DataDate.Format("2006-01-02"), err)
		}
		if reason != "" {
			summary.skip(reason)
		}

		if (i+1)%1000 == 0 {
			p.log.Debugf("Processed %d/%d snapshots, inserted %d", i+1, len(snaps), summary.Inserted)
		}
	}

	p.log.WithFields(map[string]interface{}{
		"eligible": len(snaps),
		"inserted": summary.Inserted,
		"skipped":  summary.Skipped,
	}).Info("Greeks batch finished")

	return summary, nil
}

// processRow handles one snapshot. An empty reason with nil error
// means a row was inserted. A non-nil error is a storage failure.
func (p *Processor) processRow(ctx context.Context, snap *contracts.ContractSnapshot, summary *Summary) (SkipReason, error) {
	dte := snap.DaysUntilExpiry()
	if dte <= 0 {
		return SkipExpired, nil
	}

	rate, err := p.rates.RateFor(ctx, snap.DataDate)
	if err != nil {
		if errors.Is(err, rates.ErrNoRate) {
			return SkipNoRate, nil
		}
		return "", fmt.Errorf("resolve rate: %w", err)
	}

	exists, err := p.store.Exists(ctx, snap.ContractID, snap.DataDate)
	if err != nil {
		return "", fmt.Errorf("check existing greeks: %w", err)
	}
	if exists {
		return SkipDuplicate, nil
	}

	res, err := computeRow(snap, rate, dte)
	if err != nil {
		p.log.WithError(err).WithFields(map[string]interface{}{
			"contract_id": snap.ContractID,
			"ticker":      snap.Ticker,
			"data_date":   snap.DataDate.Format("2006-01-02"),
		}).Warn("Greeks computation failed for contract")
		return SkipComputationError, nil
	}
	if res.Degenerate {
		// Sentinel result; never persisted.
		return SkipInvalidInputs, nil
	}

	rec := contracts.GreeksRecord{
		ContractID:        snap.ContractID,
		DataDate:          snap.DataDate,
		Delta:             res.Delta,
		Gamma:             res.Gamma,
		Vega:              res.Vega,
		Theta:             res.Theta,
		Rho:               res.Rho,
		DaysToExpiry:      dte,
		RiskFreeRate:      rate,
		ImpliedVolatility: *snap.ImpliedVolatility,
	}

	if err := p.store.InsertWithTheoretical(ctx, rec, res.Price, pricing.PriceDiff(res.Price, snap.OptionPrice)); err != nil {
		return "", fmt.Errorf("persist greeks: %w", err)
	}

	summary.Inserted++
	return "", nil
}

// computeRow evaluates the pricing engine for one snapshot, recovering
// any per-row fault so a single bad row never aborts the batch.
func computeRow(snap *contracts.ContractSnapshot, rate float64, dte int) (res pricing.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("computation fault: %v", r)
		}
	}()

	res = pricing.Compute(pricing.Input{
		Underlying: *snap.LastPrice,
		Strike:     snap.Strike,
		TimeToExp:  float64(dte) / 365.0,
		RiskFree:   rate,
		Sigma:      *snap.ImpliedVolatility,
		OptionType: snap.OptionType,
	})
	return res, nil
}
