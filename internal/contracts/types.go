package contracts

import "time"

// OptionType distinguishes calls from puts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Valid reports whether the option type is one of the two known kinds.
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// ContractSnapshot is one observed option contract on one data date.
// Unique per (ticker, expiration_date, strike, option_type, data_date).
// Nullable market fields are pointers; a nil premium or IV makes the
// row ineligible for Greeks computation.
type ContractSnapshot struct {
	ContractID     int64
	Ticker         string
	ExpirationDate time.Time
	Strike         float64
	OptionType     OptionType
	DataDate       time.Time

	Bid               *float64
	Ask               *float64
	LastPrice         *float64 // underlying last price
	OptionPrice       *float64 // contract premium
	ImpliedVolatility *float64
	OpenInterest      *int64
	Volume            *int64

	TheoreticalPrice *float64
	PriceDiff        *float64
	DaysToExpiry     *int

	IsJunk bool
}

// DaysUntilExpiry returns whole calendar days from the observation date
// to expiration. Zero or negative means the contract has expired.
func (s *ContractSnapshot) DaysUntilExpiry() int {
	return DaysBetween(s.DataDate, s.ExpirationDate)
}

// DaysBetween returns whole calendar days from a to b, ignoring the
// time-of-day component.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// RateCurvePoint is one effective annualized risk-free rate per date.
type RateCurvePoint struct {
	Date time.Time
	Rate float64
}

// HistoricalVolatilityPoint holds annualized rolling-window volatility
// for one ticker and date. Windows without enough history are nil.
type HistoricalVolatilityPoint struct {
	Ticker string
	Date   time.Time
	HV10   *float64
	HV20   *float64
	HV30   *float64
	HV60   *float64
}

// GreeksRecord is the immutable per-(contract, date) Greeks row.
// (ContractID, DataDate) is the idempotency key: at most one record
// may exist per pair, and records are never mutated once written.
type GreeksRecord struct {
	ContractID        int64
	DataDate          time.Time
	Delta             float64
	Gamma             float64
	Vega              float64
	Theta             float64
	Rho               float64
	DaysToExpiry      int
	RiskFreeRate      float64
	ImpliedVolatility float64
}

// FeatureRow is the denormalized join of snapshot, Greeks, historical
// volatility and rate curve for one (contract, date). The feature
// store is a materialized view: rebuilt wholesale, never patched.
type FeatureRow struct {
	ContractID     int64
	DataDate       time.Time
	Ticker         string
	ExpirationDate time.Time
	Strike         float64
	OptionType     OptionType

	Bid               *float64
	Ask               *float64
	LastPrice         *float64
	OptionPrice       *float64
	ImpliedVolatility *float64
	OpenInterest      *int64
	Volume            *int64
	TheoreticalPrice  *float64
	PriceDiff         *float64
	IsJunk            bool

	Delta        float64
	Gamma        float64
	Vega         float64
	Theta        float64
	Rho          float64
	DaysToExpiry int

	HV10 *float64
	HV20 *float64
	HV30 *float64
	HV60 *float64

	RiskFreeRate *float64
}

// SpreadType classifies a two-leg vertical credit spread.
type SpreadType string

const (
	BullPutSpread  SpreadType = "BullPutSpread"
	BearCallSpread SpreadType = "BearCallSpread"
)

// SpreadCandidate is one surviving two-leg vertical credit spread.
// Persisted rows always have NetCredit > 0 and distinct strikes.
type SpreadCandidate struct {
	ShortLegID      int64
	LongLegID       int64
	Ticker          string
	ExpirationDate  time.Time
	SpreadType      SpreadType
	ShortStrike     float64
	LongStrike      float64
	ShortPremium    float64
	LongPremium     float64
	NetCredit       float64
	SpreadWidth     float64
	MaxLoss         float64
	RiskRewardRatio float64
	BreakEven       float64
	DecisionDate    time.Time
}
