package calculator

import (
	"errors"

	"github.com/guregu/null/v6"
	"github.com/montanaflynn/stats"

	"IndexHarvest/internal/model"
)

const (
	ShortSMAPeriod = 50
	LongSMAPeriod  = 200
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	return stats.Mean(prices[len(prices)-period:])
}

// RollingSMA returns the trailing SMA ending at every index of prices.
// Entries before the window is full are null.
func RollingSMA(prices []float64, period int) ([]null.Float, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]null.Float, len(prices))
	for i := period - 1; i < len(prices); i++ {
		sma, err := CalculateSMA(prices[:i+1], period)
		if err != nil {
			return nil, err
		}
		out[i] = null.FloatFrom(sma)
	}
	return out, nil
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
