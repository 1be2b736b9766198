package collector

import (
	"context"
	"fmt"
	"time"

	"IndexHarvest/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without explicit bars get a generated series around Price.
type MockFetcher struct {
	Price         float64
	Bars          map[string][]model.OHLCV
	Profiles      map[string]model.Profile
	Errors        map[string]error
	ProfileErrors map[string]error

	BarCalls     []string
	ProfileCalls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.BarCalls = append(m.BarCalls, symbol)
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	if m.Price <= 0 {
		return nil, fmt.Errorf("mock: no data for %s", symbol)
	}
	return generateMockBars(m.Price, start, end), nil
}

func (m *MockFetcher) FetchProfile(_ context.Context, symbol string) (model.Profile, error) {
	m.ProfileCalls = append(m.ProfileCalls, symbol)
	if err, ok := m.ProfileErrors[symbol]; ok {
		return model.Profile{}, err
	}
	return m.Profiles[symbol], nil
}

// generateMockBars produces one bar per weekday in [start, end).
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for d := truncateDay(start); d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i%20-10)*0.001)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
