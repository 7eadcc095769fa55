package pricing

import (
	"math"

	"github.com/swiftclouddbs/Alpha-Seeker/internal/contracts"
)

// Input holds the market parameters for one Black-Scholes evaluation.
type Input struct {
	Underlying float64 // S, spot price of the underlying
	Strike     float64 // K
	TimeToExp  float64 // T, in years
	RiskFree   float64 // r, annualized decimal
	Sigma      float64 // implied volatility, annualized decimal
	OptionType contracts.OptionType
}

// Result holds the theoretical price and Greeks for one contract.
// Vega is per 1% vol move, theta per calendar day, rho per 1% rate
// move. Degenerate marks the all-zero sentinel for T<=0 or sigma<=0;
// callers must not persist a degenerate result.
type Result struct {
	Price      float64
	Delta      float64
	Gamma      float64
	Vega       float64
	Theta      float64
	Rho        float64
	Degenerate bool
}

// Compute evaluates the closed-form Black-Scholes price and Greeks.
// It is a pure function of its input.
func Compute(in Input) Result {
	if in.TimeToExp <= 0 || in.Sigma <= 0 {
		return Result{Degenerate: true}
	}

	sqrtT := math.Sqrt(in.TimeToExp)
	d1 := (math.Log(in.Underlying/in.Strike) + (in.RiskFree+0.5*in.Sigma*in.Sigma)*in.TimeToExp) / (in.Sigma * sqrtT)
	d2 := d1 - in.Sigma*sqrtT

	discount := math.Exp(-in.RiskFree * in.TimeToExp)

	var res Result
	if in.OptionType == contracts.Call {
		res.Price = in.Underlying*normCDF(d1) - in.Strike*discount*normCDF(d2)
		res.Delta = normCDF(d1)
		res.Theta = (-in.Underlying*normPDF(d1)*in.Sigma/(2*sqrtT) - in.RiskFree*in.Strike*discount*normCDF(d2))
		res.Rho = in.Strike * in.TimeToExp * discount * normCDF(d2)
	} else {
		res.Price = in.Strike*discount*normCDF(-d2) - in.Underlying*normCDF(-d1)
		res.Delta = -normCDF(-d1)
		res.Theta = (-in.Underlying*normPDF(d1)*in.Sigma/(2*sqrtT) + in.RiskFree*in.Strike*discount*normCDF(-d2))
		res.Rho = -in.Strike * in.TimeToExp * discount * normCDF(-d2)
	}

	res.Gamma = normPDF(d1) / (in.Underlying * in.Sigma * sqrtT)
	res.Vega = in.Underlying * normPDF(d1) * sqrtT

	// Report vega per 1% vol move, theta per calendar day, rho per 1%
	// rate move.
	res.Vega /= 100
	res.Theta /= 365
	res.Rho /= 100

	return res
}

// PriceDiff returns theoretical minus observed premium, or nil when no
// premium was observed.
func PriceDiff(theoretical float64, observed *float64) *float64 {
	if observed == nil {
		return nil
	}
	diff := theoretical - *observed
	return &diff
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
