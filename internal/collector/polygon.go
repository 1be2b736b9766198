package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"IndexHarvest/internal/model"
)

// PolygonFetcher implements Fetcher using the Polygon REST API.
type PolygonFetcher struct {
	Client    *polygon.Client
	SymbolMap map[string]string // maps roster or Yahoo-style symbol to Polygon ticker
}

// NewPolygonFetcher creates a fetcher authenticated with apiKey.
func NewPolygonFetcher(apiKey string) *PolygonFetcher {
	return &PolygonFetcher{
		Client: polygon.New(apiKey),
		SymbolMap: map[string]string{
			"^GSPC":  "I:SPX",
			"SPX500": "I:SPX",
			"SPX":    "I:SPX",
			"SP500":  "I:SPX",
			"^VIX":   "I:VIX",
			"VIX":    "I:VIX",
		},
	}
}

func (f *PolygonFetcher) polygonSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func (f *PolygonFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	log.WithField("symbol", symbol).Debug("fetching polygon daily aggregates")

	params := models.ListAggsParams{
		Ticker:     f.polygonSymbol(symbol),
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithOrder(models.Asc).WithAdjusted(true)

	iter := f.Client.ListAggs(ctx, params)

	var bars []model.OHLCV
	for iter.Next() {
		bars = append(bars, aggToBar(iter.Item()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon list aggs: %w", err)
	}
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func aggToBar(a models.Agg) model.OHLCV {
	return model.OHLCV{
		Time:   truncateDay(time.Time(a.Timestamp)),
		Open:   a.Open,
		High:   a.High,
		Low:    a.Low,
		Close:  a.Close,
		Volume: int64(a.Volume),
	}
}

func (f *PolygonFetcher) FetchProfile(ctx context.Context, symbol string) (model.Profile, error) {
	res, err := f.Client.GetTickerDetails(ctx, &models.GetTickerDetailsParams{Ticker: f.polygonSymbol(symbol)})
	if err != nil {
		return model.Profile{}, fmt.Errorf("polygon ticker details: %w", err)
	}

	r := res.Results
	p := model.Profile{
		Headquarters: model.FormatHeadquarters(r.Address.City, r.Address.State, ""),
		Website:      null.NewString(r.HomepageURL, r.HomepageURL != ""),
	}
	if r.MarketCap > 0 {
		p.MarketCap = null.IntFrom(int64(r.MarketCap))
	}
	return p, nil
}
