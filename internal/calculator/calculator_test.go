package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IndexHarvest/internal/model"
)

func makeBars(closes []float64) []model.OHLCV {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func wavyCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3) + float64(i%7)
	}
	return closes
}

func TestCalculateSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	sma, err := CalculateSMA(prices, 5)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, sma, 1e-12)

	_, err = CalculateSMA(prices, 11)
	assert.Error(t, err)

	_, err = CalculateSMA(prices, 0)
	assert.Error(t, err)
}

func TestRollingSMA_NullUntilWindowFull(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}
	out, err := RollingSMA(prices, 5)
	require.NoError(t, err)
	require.Len(t, out, len(prices))

	for i := 0; i < 4; i++ {
		assert.False(t, out[i].Valid, "index %d should be null", i)
	}
	assert.InDelta(t, 3.0, out[4].Float64, 1e-12)
	assert.InDelta(t, 4.0, out[5].Float64, 1e-12)
}

func TestDailyReturns(t *testing.T) {
	returns, err := DailyReturns([]float64{100, 110, 99})
	require.NoError(t, err)
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)

	returns, err = DailyReturns([]float64{100})
	require.NoError(t, err)
	assert.Empty(t, returns)

	_, err = DailyReturns([]float64{0, 10})
	assert.Error(t, err)
}

func TestRollingVolatility_MatchesSampleStdDev(t *testing.T) {
	closes := wavyCloses(30)
	out, err := RollingVolatility(closes, VolatilityWindow)
	require.NoError(t, err)

	// Independent computation for the last bar.
	last := len(closes) - 1
	var rets []float64
	for j := last - VolatilityWindow + 1; j <= last; j++ {
		rets = append(rets, closes[j]/closes[j-1]-1)
	}
	var mean float64
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	var ss float64
	for _, r := range rets {
		ss += (r - mean) * (r - mean)
	}
	want := math.Sqrt(ss/float64(len(rets)-1)) * math.Sqrt(252)

	require.True(t, out[last].Valid)
	assert.InDelta(t, want, out[last].Float64, 1e-12)
}

func TestRollingVolatility_ConstantGrowthIsZero(t *testing.T) {
	closes := make([]float64, 40)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		closes[i] = closes[i-1] * 1.01
	}
	out, err := RollingVolatility(closes, VolatilityWindow)
	require.NoError(t, err)
	assert.InDelta(t, 0, out[len(out)-1].Float64, 1e-9)
}

func TestComputeIndicators_TwentyFiveBars(t *testing.T) {
	bars := makeBars(wavyCloses(25))
	out, err := ComputeIndicators(bars)
	require.NoError(t, err)
	require.Len(t, out, 25)

	for i, row := range out {
		assert.False(t, row.SMA50.Valid, "row %d sma_50", i+1)
		assert.False(t, row.SMA200.Valid, "row %d sma_200", i+1)
		if i+1 >= 21 {
			assert.True(t, row.Volatility.Valid, "row %d volatility", i+1)
		} else {
			assert.False(t, row.Volatility.Valid, "row %d volatility", i+1)
		}
		assert.Equal(t, bars[i], row.OHLCV)
	}
}

func TestComputeIndicators_PresenceBoundaries(t *testing.T) {
	out, err := ComputeIndicators(makeBars(wavyCloses(260)))
	require.NoError(t, err)

	tests := []struct {
		index      int
		sma50      bool
		sma200     bool
		volatility bool
	}{
		{19, false, false, false},
		{20, false, false, true},
		{48, false, false, true},
		{49, true, false, true},
		{198, true, false, true},
		{199, true, true, true},
		{259, true, true, true},
	}
	for _, tt := range tests {
		row := out[tt.index]
		assert.Equal(t, tt.sma50, row.SMA50.Valid, "index %d sma_50", tt.index)
		assert.Equal(t, tt.sma200, row.SMA200.Valid, "index %d sma_200", tt.index)
		assert.Equal(t, tt.volatility, row.Volatility.Valid, "index %d volatility", tt.index)
	}

	for i, row := range out {
		if row.Volatility.Valid {
			assert.GreaterOrEqual(t, row.Volatility.Float64, 0.0, "index %d", i)
		}
	}
}

func TestComputeIndicators_Empty(t *testing.T) {
	out, err := ComputeIndicators(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestComputeIndicators_MalformedInput(t *testing.T) {
	unordered := makeBars([]float64{10, 11, 12})
	unordered[2].Time = unordered[0].Time

	duplicate := makeBars([]float64{10, 11, 12})
	duplicate[1].Time = duplicate[0].Time

	zeroClose := makeBars([]float64{10, 0, 12})

	tests := []struct {
		name  string
		bars  []model.OHLCV
		index int
	}{
		{"non-monotonic dates", unordered, 2},
		{"duplicate date", duplicate, 1},
		{"zero close", zeroClose, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeIndicators(tt.bars)
			require.Error(t, err)

			var ice *IndicatorComputationError
			require.True(t, errors.As(err, &ice))
			assert.Equal(t, tt.index, ice.Index)
		})
	}
}
