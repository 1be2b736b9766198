package calculator

import (
	"errors"
	"math"

	"github.com/guregu/null/v6"
	"github.com/montanaflynn/stats"
)

const (
	VolatilityWindow   = 20
	TradingDaysPerYear = 252
)

// DailyReturns returns close[t]/close[t-1] - 1 for t >= 1.
// The result has one element fewer than closes.
func DailyReturns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, nil
	}
	returns := make([]float64, len(closes)-1)
	for t := 1; t < len(closes); t++ {
		if closes[t-1] <= 0 {
			return nil, errors.New("non-positive close makes return undefined")
		}
		returns[t-1] = closes[t]/closes[t-1] - 1
	}
	return returns, nil
}

// RollingVolatility returns the annualized sample standard deviation of the
// trailing window daily returns ending at every bar. Bar t needs window returns,
// so the first window bars are null.
func RollingVolatility(closes []float64, window int) ([]null.Float, error) {
	if window < 2 {
		return nil, errors.New("volatility window must be at least 2")
	}
	returns, err := DailyReturns(closes)
	if err != nil {
		return nil, err
	}
	out := make([]null.Float, len(closes))
	annualize := math.Sqrt(TradingDaysPerYear)
	for t := window; t < len(closes); t++ {
		// returns[t-1] is the return of bar t.
		sd, err := stats.StandardDeviationSample(returns[t-window : t])
		if err != nil {
			return nil, err
		}
		out[t] = null.FloatFrom(sd * annualize)
	}
	return out, nil
}
