package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/features"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/greeks"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/housekeeping"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/pipeline"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/quality"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/rates"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/spreads"
	"github.com/swiftclouddbs/Alpha-Seeker/internal/volatility"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/config"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/database"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seeker",
	Short: "Alpha-Seeker - daily options analytics pipeline",
	Long: `Alpha-Seeker CLI

Daily batch analytics over option contract snapshots:
quality tagging, Black-Scholes Greeks, feature store assembly
and vertical credit spread detection.

Usage:
  go run ./cmd/seeker [command]

Examples:
  go run ./cmd/seeker migrate
  go run ./cmd/seeker pipeline
  go run ./cmd/seeker greeks --date 2026-05-01
  go run ./cmd/seeker detect`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// deps bundles the shared dependencies of every command.
type deps struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
}

// initDeps loads config, builds the logger and connects to Postgres.
// The caller must Close().
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	return &deps{cfg: cfg, log: log, db: db}, nil
}

func (d *deps) Close() {
	d.db.Close()
}

func (d *deps) qualityTagger() *quality.Tagger {
	rules := quality.Rules{
		MinOptionPrice:     d.cfg.Quality.MinOptionPrice,
		MinOpenInterest:    d.cfg.Quality.MinOpenInterest,
		MinUnderlyingPrice: d.cfg.Quality.MinUnderlyingPrice,
	}

	var liquidity *quality.LiquidityRules
	if d.cfg.Quality.LiquidityPass {
		liquidity = &quality.LiquidityRules{
			MinVolume:       d.cfg.Quality.LiquidityMinVolume,
			MinOpenInterest: d.cfg.Quality.LiquidityMinInterest,
		}
	}

	return quality.NewTagger(quality.NewRepository(d.db.Pool), rules, liquidity, d.log)
}

func (d *deps) volCalculator() *volatility.Calculator {
	repo := volatility.NewRepository(d.db.Pool)
	return volatility.NewCalculator(repo, repo, d.log)
}

func (d *deps) greeksProcessor() *greeks.Processor {
	repo := greeks.NewRepository(d.db.Pool)
	resolver := rates.NewResolver(rates.NewRepository(d.db.Pool))
	return greeks.NewProcessor(repo, repo, resolver, d.log)
}

func (d *deps) featureAssembler() *features.Assembler {
	repo := features.NewRepository(d.db.Pool)
	return features.NewAssembler(repo, repo, d.log)
}

func (d *deps) spreadDetector() *spreads.Detector {
	th := spreads.Thresholds{
		MinNetCredit:   d.cfg.Spreads.MinNetCredit,
		MaxSpreadWidth: d.cfg.Spreads.MaxSpreadWidth,
		MaxLoss:        d.cfg.Spreads.MaxLoss,
		MinRiskReward:  d.cfg.Spreads.MinRiskReward,
	}
	pre := spreads.Prescreen{
		MinDTE:          d.cfg.Spreads.MinDTE,
		MinIV:           d.cfg.Spreads.MinIV,
		MinVolume:       d.cfg.Spreads.MinVolume,
		MinOpenInterest: d.cfg.Spreads.MinOpenInterest,
	}
	return spreads.NewDetector(spreads.NewRepository(d.db.Pool), th, pre, d.log)
}

func (d *deps) housekeeper() *housekeeping.Housekeeper {
	return housekeeping.New(housekeeping.NewRepository(d.db.Pool), d.log)
}

func (d *deps) pipelineRunner() *pipeline.Runner {
	return pipeline.NewRunner(
		d.qualityTagger(),
		d.volCalculator(),
		d.greeksProcessor(),
		d.featureAssembler(),
		d.spreadDetector(),
		spreads.NewRepository(d.db.Pool),
		d.log,
	)
}

// parseDateFlag parses a --date value in YYYY-MM-DD form.
func parseDateFlag(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
