package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{
	"timestamp":[1672842600,1672756200,1672929000],
	"indicators":{"quote":[{
		"open":[101.0,100.0,null],
		"high":[103.0,102.0,null],
		"low":[99.0,98.5,null],
		"close":[102.5,101.0,null],
		"volume":[2000,1500,null]
	}]}
}],"error":null}}`

// A 4:1 split between the two sessions; adjclose restates the first bar.
const splitChartBody = `{"chart":{"result":[{
	"timestamp":[1672756200,1672842600],
	"indicators":{
		"quote":[{
			"open":[396.0,99.0],
			"high":[404.0,102.0],
			"low":[392.0,98.0],
			"close":[400.0,101.0],
			"volume":[1000,4000]
		}],
		"adjclose":[{"adjclose":[100.0,101.0]}]
	}
}],"error":null}}`

const summaryBody = `{"quoteSummary":{"result":[{
	"assetProfile":{"city":"Cupertino","state":"CA","country":"United States","website":"https://www.apple.com"},
	"price":{"marketCap":{"raw":2950000000000,"fmt":"2.95T"}}
}],"error":null}}`

func newYahooServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		switch {
		case strings.HasPrefix(r.URL.Path, "/chart/MISSING"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
		case strings.HasPrefix(r.URL.Path, "/chart/SPLT"):
			_, _ = w.Write([]byte(splitChartBody))
		case strings.HasPrefix(r.URL.Path, "/chart/"):
			assert.Equal(t, "1d", r.URL.Query().Get("interval"))
			_, _ = w.Write([]byte(chartBody))
		case strings.HasPrefix(r.URL.Path, "/summary/"):
			_, _ = w.Write([]byte(summaryBody))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func newTestYahoo(srv *httptest.Server) *YahooFetcher {
	f := NewYahooFetcher("")
	f.Client = srv.Client()
	f.ChartURL = srv.URL + "/chart"
	f.SummaryURL = srv.URL + "/summary"
	return f
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	srv, _ := newYahooServer(t)
	f := newTestYahoo(srv)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", start, start.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.Len(t, bars, 2, "null bar should be skipped")

	assert.Equal(t, "2023-01-03", bars[0].Day())
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, int64(1500), bars[0].Volume)
	assert.Equal(t, "2023-01-04", bars[1].Day())
	assert.Equal(t, 102.5, bars[1].Close)
}

func TestYahooFetcher_FetchDailyBarsAdjustsSplits(t *testing.T) {
	srv, _ := newYahooServer(t)
	f := newTestYahoo(srv)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "SPLT", start, start.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, 99.0, bars[0].Open)
	assert.Equal(t, 101.0, bars[0].High)
	assert.Equal(t, 98.0, bars[0].Low)
	assert.Equal(t, 100.0, bars[0].Close)
	assert.Equal(t, int64(1000), bars[0].Volume)
	assert.Equal(t, 101.0, bars[1].Close)

	// No fake crash across the split.
	ret := bars[1].Close/bars[0].Close - 1
	assert.InDelta(t, 0.01, ret, 1e-9)
}

func TestYahooFetcher_FetchDailyBarsError(t *testing.T) {
	srv, _ := newYahooServer(t)
	f := newTestYahoo(srv)

	_, err := f.FetchDailyBars(context.Background(), "MISSING", time.Now().AddDate(0, -1, 0), time.Now())
	assert.Error(t, err)
}

func TestYahooFetcher_SymbolMapping(t *testing.T) {
	srv, paths := newYahooServer(t)
	f := newTestYahoo(srv)

	_, err := f.FetchDailyBars(context.Background(), "BRK.B", time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	_, err = f.FetchDailyBars(context.Background(), "SPX500", time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)

	require.Len(t, *paths, 2)
	assert.Equal(t, "/chart/BRK-B", (*paths)[0])
	assert.Equal(t, "/chart/^GSPC", (*paths)[1])
}

func TestYahooFetcher_FetchProfile(t *testing.T) {
	srv, _ := newYahooServer(t)
	f := newTestYahoo(srv)

	p, err := f.FetchProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(2950000000000), p.MarketCap.Int64)
	assert.Equal(t, "Cupertino, CA, United States", p.Headquarters.String)
	assert.Equal(t, "https://www.apple.com", p.Website.String)
	assert.False(t, p.FoundedYear.Valid)
}
