package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/greeks"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/quality"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/spreads"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

// JunkTagger flags low-quality snapshots.
type JunkTagger interface {
	Run(ctx context.Context) (*quality.Summary, error)
}

// VolCalculator refreshes historical volatility.
type VolCalculator interface {
	Run(ctx context.Context) (int64, error)
}

// GreeksProcessor runs the Greeks batch.
type GreeksProcessor interface {
	Run(ctx context.Context, scope greeks.Scope) (*greeks.Summary, error)
}

// FeatureBuilder rebuilds the feature store.
type FeatureBuilder interface {
	Rebuild(ctx context.Context) (int64, error)
}

// SpreadDetector detects candidates for one decision date.
type SpreadDetector interface {
	Run(ctx context.Context, asOf time.Time) (*spreads.Result, error)
}

// DateSource resolves the decision date when none is given.
type DateSource interface {
	LatestDataDate(ctx context.Context) (time.Time, bool, error)
}

// Report collects per-stage outcomes of one pipeline run.
type Report struct {
	Quality     *quality.Summary
	VolPoints   int64
	Greeks      *greeks.Summary
	FeatureRows int64
	Spreads     *spreads.Result
	Duration    time.Duration
}

// Runner executes the daily analytics stages in dependency order:
// quality tagging, historical volatility, Greeks, feature store,
// spread detection. A stage failure aborts the run; completed stages
// are all idempotent, so the next run resumes safely.
type Runner struct {
	tagger   JunkTagger
	vol      VolCalculator
	greeks   GreeksProcessor
	features FeatureBuilder
	detector SpreadDetector
	dates    DateSource
	log      *logger.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(
	tagger JunkTagger,
	vol VolCalculator,
	greeksProc GreeksProcessor,
	features FeatureBuilder,
	detector SpreadDetector,
	dates DateSource,
	log *logger.Logger,
) *Runner {
	return &Runner{
		tagger:   tagger,
		vol:      vol,
		greeks:   greeksProc,
		features: features,
		detector: detector,
		dates:    dates,
		log:      log,
	}
}

// Run executes the full pipeline. The Greeks stage is restricted by
// scope; detection uses the scope date when set, otherwise the latest
// date in the feature store. An empty feature store skips detection.
func (r *Runner) Run(ctx context.Context, scope greeks.Scope) (*Report, error) {
	start := time.Now()
	report := &Report{}

	r.log.Info("Pipeline started")

	qualitySummary, err := r.tagger.Run(ctx)
	if err != nil {
		return report, fmt.Errorf("quality stage: %w", err)
	}
	report.Quality = qualitySummary

	volPoints, err := r.vol.Run(ctx)
	if err != nil {
		return report, fmt.Errorf("volatility stage: %w", err)
	}
	report.VolPoints = volPoints

	greeksSummary, err := r.greeks.Run(ctx, scope)
	if err != nil {
		return report, fmt.Errorf("greeks stage: %w", err)
	}
	report.Greeks = greeksSummary

	featureRows, err := r.features.Rebuild(ctx)
	if err != nil {
		return report, fmt.Errorf("feature stage: %w", err)
	}
	report.FeatureRows = featureRows

	decisionDate, ok, err := r.decisionDate(ctx, scope)
	if err != nil {
		return report, fmt.Errorf("resolve decision date: %w", err)
	}
	if ok {
		spreadResult, err := r.detector.Run(ctx, decisionDate)
		if err != nil {
			return report, fmt.Errorf("spread stage: %w", err)
		}
		report.Spreads = spreadResult
	} else {
		r.log.Warn("Feature store is empty, skipping spread detection")
	}

	report.Duration = time.Since(start)

	r.log.WithFields(map[string]interface{}{
		"inserted_greeks": report.Greeks.Inserted,
		"feature_rows":    report.FeatureRows,
		"duration":        report.Duration,
	}).Info("Pipeline finished")

	return report, nil
}

func (r *Runner) decisionDate(ctx context.Context, scope greeks.Scope) (time.Time, bool, error) {
	if scope.DataDate != nil {
		return *scope.DataDate, true, nil
	}
	return r.dates.LatestDataDate(ctx)
}
