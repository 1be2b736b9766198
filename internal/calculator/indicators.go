package calculator

import (
	"fmt"

	"IndexHarvest/internal/model"
)

// IndicatorComputationError reports a malformed price series.
type IndicatorComputationError struct {
	Index  int
	Reason string
	Err    error
}

func (e *IndicatorComputationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("indicator computation failed at bar %d: %s: %v", e.Index, e.Reason, e.Err)
	}
	return fmt.Sprintf("indicator computation failed at bar %d: %s", e.Index, e.Reason)
}

func (e *IndicatorComputationError) Unwrap() error { return e.Err }

// ComputeIndicators augments bars with SMA50, SMA200 and annualized 20-bar
// volatility. Bars must be strictly ascending by date with positive closes.
func ComputeIndicators(bars []model.OHLCV) ([]model.IndicatorBar, error) {
	if err := validateSeries(bars); err != nil {
		return nil, err
	}

	closes := extractCloses(bars)
	sma50, err := RollingSMA(closes, ShortSMAPeriod)
	if err != nil {
		return nil, &IndicatorComputationError{Index: -1, Reason: "sma_50", Err: err}
	}
	sma200, err := RollingSMA(closes, LongSMAPeriod)
	if err != nil {
		return nil, &IndicatorComputationError{Index: -1, Reason: "sma_200", Err: err}
	}
	vol, err := RollingVolatility(closes, VolatilityWindow)
	if err != nil {
		return nil, &IndicatorComputationError{Index: -1, Reason: "volatility", Err: err}
	}

	out := make([]model.IndicatorBar, len(bars))
	for i, b := range bars {
		out[i] = model.IndicatorBar{
			OHLCV:      b,
			SMA50:      sma50[i],
			SMA200:     sma200[i],
			Volatility: vol[i],
		}
	}
	return out, nil
}

func validateSeries(bars []model.OHLCV) error {
	for i, b := range bars {
		if b.Close <= 0 {
			return &IndicatorComputationError{Index: i, Reason: fmt.Sprintf("non-positive close %v on %s", b.Close, b.Day())}
		}
		if b.Open < 0 || b.High < 0 || b.Low < 0 || b.Volume < 0 {
			return &IndicatorComputationError{Index: i, Reason: fmt.Sprintf("negative price or volume on %s", b.Day())}
		}
		if i > 0 && !bars[i-1].Time.Before(b.Time) {
			return &IndicatorComputationError{Index: i, Reason: fmt.Sprintf("dates not ascending: %s after %s", b.Day(), bars[i-1].Day())}
		}
	}
	return nil
}
