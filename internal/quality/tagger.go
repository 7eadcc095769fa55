package quality

import (
	"context"
	"fmt"

	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

// Tagger applies the junk rules to the snapshot table. It only ever
// updates the is_junk flag; removing junk rows is a separate
// housekeeping operation.
type Tagger struct {
	repo      *Repository
	rules     Rules
	liquidity *LiquidityRules // nil disables the secondary pass
	log       *logger.Logger
}

// NewTagger creates a tagger. Pass a nil liquidity rule set to skip
// the stricter secondary pass.
func NewTagger(repo *Repository, rules Rules, liquidity *LiquidityRules, log *logger.Logger) *Tagger {
	return &Tagger{
		repo:      repo,
		rules:     rules,
		liquidity: liquidity,
		log:       log,
	}
}

// Summary reports the outcome of one tagging run.
type Summary struct {
	Flagged          int64
	LiquidityFlagged int64
	TotalJunk        int64
	Total            int64
}

// Run flags junk contracts in place and returns counts. The update is
// set-based and idempotent: re-running over unchanged rows flags
// nothing new.
func (t *Tagger) Run(ctx context.Context) (*Summary, error) {
	flagged, err := t.repo.TagJunk(ctx, t.rules)
	if err != nil {
		return nil, fmt.Errorf("tag junk contracts: %w", err)
	}

	summary := &Summary{Flagged: flagged}

	if t.liquidity != nil {
		illiquid, err := t.repo.TagIlliquid(ctx, *t.liquidity)
		if err != nil {
			return nil, fmt.Errorf("tag illiquid contracts: %w", err)
		}
		summary.LiquidityFlagged = illiquid
	}

	junk, total, err := t.repo.CountJunk(ctx)
	if err != nil {
		return nil, fmt.Errorf("count junk contracts: %w", err)
	}
	summary.TotalJunk = junk
	summary.Total = total

	t.log.WithFields(map[string]interface{}{
		"flagged":           summary.Flagged,
		"liquidity_flagged": summary.LiquidityFlagged,
		"total_junk":        summary.TotalJunk,
		"total":             summary.Total,
	}).Info("Junk contracts flagged")

	return summary, nil
}
