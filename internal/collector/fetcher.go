package collector

import (
	"context"
	"time"

	"IndexHarvest/internal/model"
)

// Fetcher defines the interface for fetching market data from a provider.
type Fetcher interface {
	// FetchDailyBars returns daily bars between start and end, ascending by date.
	// Providers may over-return; callers filter to their window.
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	FetchProfile(ctx context.Context, symbol string) (model.Profile, error)
	Name() string
}

// truncateDay maps a provider timestamp to its trading date at midnight UTC.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
