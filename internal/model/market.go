package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// DateLayout is the calendar date format used by every output table.
const DateLayout = "2006-01-02"

// OHLCV represents a single daily bar. Time is the trading date at midnight UTC.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Day returns the bar's trading date formatted with DateLayout.
func (b OHLCV) Day() string { return b.Time.Format(DateLayout) }

// PriceSeries holds one symbol's bars for the requested window.
type PriceSeries struct {
	Symbol string
	Bars   []OHLCV
	Meta   Profile
	// VIX is aligned with Bars and only set for the index symbol.
	VIX []null.Float
}

// IndicatorBar is a price bar augmented with its trailing indicators.
type IndicatorBar struct {
	OHLCV
	SMA50      null.Float
	SMA200     null.Float
	Volatility null.Float
}
