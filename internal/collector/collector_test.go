package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IndexHarvest/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func barsOn(days ...string) []model.OHLCV {
	bars := make([]model.OHLCV, len(days))
	for i, d := range days {
		p := 100 + float64(i)
		bars[i] = model.OHLCV{Time: date(d), Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 10}
	}
	return bars
}

var testWindow = model.Window{Start: date("2023-01-03"), End: date("2023-01-07")}

func TestSymbolFetcher_FiltersToWindow(t *testing.T) {
	mock := &MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAPL": barsOn("2022-12-30", "2023-01-03", "2023-01-04", "2023-01-06", "2023-01-09"),
		},
		Profiles: map[string]model.Profile{
			"AAPL": {MarketCap: null.IntFrom(42)},
		},
	}
	sf := NewSymbolFetcher(mock, "^GSPC", "^VIX")

	series, err := sf.FetchSeries(context.Background(), "AAPL", testWindow)
	require.NoError(t, err)
	require.Len(t, series.Bars, 3)
	for _, b := range series.Bars {
		assert.True(t, testWindow.Contains(b.Time), b.Day())
	}
	assert.Equal(t, int64(42), series.Meta.MarketCap.Int64)
	assert.Nil(t, series.VIX)
	assert.Equal(t, []string{"AAPL"}, mock.BarCalls, "no VIX fetch for constituents")
}

func TestSymbolFetcher_PrimaryFailure(t *testing.T) {
	cause := errors.New("connection reset")
	mock := &MockFetcher{Errors: map[string]error{"BAD": cause}}
	sf := NewSymbolFetcher(mock, "^GSPC", "^VIX")

	_, err := sf.FetchSeries(context.Background(), "BAD", testWindow)
	require.Error(t, err)

	var sff *SymbolFetchFailed
	require.True(t, errors.As(err, &sff))
	assert.Equal(t, "BAD", sff.Symbol)
	assert.ErrorIs(t, err, cause)
}

func TestSymbolFetcher_NoBarsInWindow(t *testing.T) {
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"OLD": barsOn("2019-05-01")}}
	sf := NewSymbolFetcher(mock, "^GSPC", "^VIX")

	_, err := sf.FetchSeries(context.Background(), "OLD", testWindow)
	assert.ErrorIs(t, err, ErrNoBars)
}

func TestSymbolFetcher_AttachesVIX(t *testing.T) {
	mock := &MockFetcher{
		Bars: map[string][]model.OHLCV{
			"^GSPC": barsOn("2023-01-03", "2023-01-04", "2023-01-05"),
			"^VIX":  barsOn("2023-01-03", "2023-01-05"),
		},
	}
	sf := NewSymbolFetcher(mock, "^GSPC", "^VIX")

	series, err := sf.FetchSeries(context.Background(), "^GSPC", testWindow)
	require.NoError(t, err)
	require.Len(t, series.VIX, 3)
	assert.Equal(t, null.FloatFrom(100), series.VIX[0])
	assert.False(t, series.VIX[1].Valid, "no VIX close on that date")
	assert.Equal(t, null.FloatFrom(101), series.VIX[2])
}

func TestSymbolFetcher_VIXFailureIsAbsorbed(t *testing.T) {
	mock := &MockFetcher{
		Bars:   map[string][]model.OHLCV{"^GSPC": barsOn("2023-01-03", "2023-01-04", "2023-01-05")},
		Errors: map[string]error{"^VIX": errors.New("vix down")},
	}
	sf := NewSymbolFetcher(mock, "^GSPC", "^VIX")

	series, err := sf.FetchSeries(context.Background(), "^GSPC", testWindow)
	require.NoError(t, err)
	require.Len(t, series.Bars, 3)
	require.Len(t, series.VIX, 3)
	for _, v := range series.VIX {
		assert.False(t, v.Valid)
	}
}

func TestSymbolFetcher_ProfileIsBestEffort(t *testing.T) {
	mock := &MockFetcher{
		Bars:          map[string][]model.OHLCV{"AAPL": barsOn("2023-01-03")},
		ProfileErrors: map[string]error{"AAPL": errors.New("unauthorized")},
	}
	sf := NewSymbolFetcher(mock, "^GSPC", "^VIX")

	assert.True(t, sf.FetchProfile(context.Background(), "AAPL").IsZero())

	series, err := sf.FetchSeries(context.Background(), "AAPL", testWindow)
	require.NoError(t, err)
	assert.True(t, series.Meta.IsZero())
}

func TestMockFetcher_GeneratesWeekdays(t *testing.T) {
	m := &MockFetcher{Price: 50}
	bars, err := m.FetchDailyBars(context.Background(), "ANY", date("2023-01-02"), date("2023-01-09"))
	require.NoError(t, err)
	require.Len(t, bars, 5)
	assert.Equal(t, "2023-01-02", bars[0].Day())
	assert.Equal(t, "2023-01-06", bars[4].Day())
}

func TestAggToBar(t *testing.T) {
	ts := time.Date(2023, 1, 3, 5, 0, 0, 0, time.UTC)
	bar := aggToBar(models.Agg{
		Open:      10,
		High:      12,
		Low:       9,
		Close:     11,
		Volume:    1234,
		Timestamp: models.Millis(ts),
	})
	assert.Equal(t, "2023-01-03", bar.Day())
	assert.Equal(t, 11.0, bar.Close)
	assert.Equal(t, int64(1234), bar.Volume)
}

func TestPolygonFetcher_SymbolMapping(t *testing.T) {
	f := NewPolygonFetcher("key")

	cases := map[string]string{
		"^GSPC": "I:SPX",
		"SPX":   "I:SPX",
		"^VIX":  "I:VIX",
		"AAPL":  "AAPL",
		"BRK.B": "BRK.B",
	}
	for in, want := range cases {
		assert.Equal(t, want, f.polygonSymbol(in), in)
	}
}
