package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Database
	Database DatabaseConfig

	// Analytics thresholds
	Quality QualityConfig
	Spreads SpreadConfig

	// Scheduling
	PipelineSchedule string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// QualityConfig holds junk-classification thresholds.
// Defaults mirror the daily quality tagging rules: a contract is junk
// when the premium is missing or at the minimum tick, IV is missing,
// or the contract shows no meaningful open interest / volume.
type QualityConfig struct {
	MinOptionPrice     float64 // premium at or below this is junk
	MinOpenInterest    int64   // open interest at or below this is junk
	MinUnderlyingPrice float64 // underlying last price at or below this is junk

	// Stricter liquidity pass, applied only to rows not already junk.
	LiquidityPass        bool
	LiquidityMinVolume   int64
	LiquidityMinInterest int64
}

// SpreadConfig holds credit-spread detection thresholds.
type SpreadConfig struct {
	MinNetCredit   float64 // minimum credit to justify entering a spread
	MaxSpreadWidth float64 // avoid overly wide spreads
	MaxLoss        float64 // worst acceptable max loss
	MinRiskReward  float64 // avoid spreads with poor R/R

	// Leg prescreen, applied before pairing.
	MinDTE          int
	MinIV           float64
	MinVolume       int64
	MinOpenInterest int64
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Quality: QualityConfig{
			MinOptionPrice:       getEnvAsFloat("QUALITY_MIN_OPTION_PRICE", 0.05),
			MinOpenInterest:      int64(getEnvAsInt("QUALITY_MIN_OPEN_INTEREST", 10)),
			MinUnderlyingPrice:   getEnvAsFloat("QUALITY_MIN_UNDERLYING_PRICE", 1),
			LiquidityPass:        getEnvAsBool("QUALITY_LIQUIDITY_PASS", false),
			LiquidityMinVolume:   int64(getEnvAsInt("QUALITY_LIQUIDITY_MIN_VOLUME", 1000)),
			LiquidityMinInterest: int64(getEnvAsInt("QUALITY_LIQUIDITY_MIN_OI", 1000)),
		},

		Spreads: SpreadConfig{
			MinNetCredit:    getEnvAsFloat("SPREAD_MIN_NET_CREDIT", 0.01),
			MaxSpreadWidth:  getEnvAsFloat("SPREAD_MAX_WIDTH", 20),
			MaxLoss:         getEnvAsFloat("SPREAD_MAX_LOSS", 2000),
			MinRiskReward:   getEnvAsFloat("SPREAD_MIN_RISK_REWARD", 0.01),
			MinDTE:          getEnvAsInt("SPREAD_MIN_DTE", 0),
			MinIV:           getEnvAsFloat("SPREAD_MIN_IV", 0),
			MinVolume:       int64(getEnvAsInt("SPREAD_MIN_VOLUME", 0)),
			MinOpenInterest: int64(getEnvAsInt("SPREAD_MIN_OI", 0)),
		},

		PipelineSchedule: getEnv("PIPELINE_SCHEDULE", "0 30 16 * * 1-5"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Spreads.MaxSpreadWidth <= 0 {
		return fmt.Errorf("SPREAD_MAX_WIDTH must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
