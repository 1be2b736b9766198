package collector

import (
	"context"
	"time"

	"github.com/guregu/null/v6"
	log "github.com/sirupsen/logrus"

	"IndexHarvest/internal/model"
)

// SymbolFetcher wraps a provider Fetcher with window filtering, VIX enrichment
// for the index symbol and best-effort profile lookups.
type SymbolFetcher struct {
	Fetcher     Fetcher
	IndexSymbol string
	VIXSymbol   string
}

// NewSymbolFetcher creates a new SymbolFetcher.
func NewSymbolFetcher(fetcher Fetcher, indexSymbol, vixSymbol string) *SymbolFetcher {
	return &SymbolFetcher{Fetcher: fetcher, IndexSymbol: indexSymbol, VIXSymbol: vixSymbol}
}

// FetchSeries fetches one symbol's bars restricted to w, with its metadata.
// A failure of the price series is returned as *SymbolFetchFailed; metadata
// and VIX lookups never fail the call.
func (s *SymbolFetcher) FetchSeries(ctx context.Context, symbol string, w model.Window) (*model.PriceSeries, error) {
	bars, err := s.Fetcher.FetchDailyBars(ctx, symbol, w.Start, w.End)
	if err != nil {
		return nil, &SymbolFetchFailed{Symbol: symbol, Cause: err}
	}
	bars = w.Filter(bars)
	if len(bars) == 0 {
		return nil, &SymbolFetchFailed{Symbol: symbol, Cause: ErrNoBars}
	}

	series := &model.PriceSeries{
		Symbol: symbol,
		Bars:   bars,
		Meta:   s.FetchProfile(ctx, symbol),
	}
	if symbol == s.IndexSymbol && s.VIXSymbol != "" {
		series.VIX = s.attachVIX(ctx, bars, w)
	}
	return series, nil
}

// FetchProfile returns the symbol's descriptive metadata, or an all-null
// Profile when the provider lookup fails.
func (s *SymbolFetcher) FetchProfile(ctx context.Context, symbol string) model.Profile {
	p, err := s.Fetcher.FetchProfile(ctx, symbol)
	if err != nil {
		log.WithField("symbol", symbol).Debugf("profile lookup absorbed: %v", err)
		return model.Profile{}
	}
	return p
}

// attachVIX returns the VIX close for each bar date. Dates without a VIX
// close, or every date when the VIX fetch fails, are null.
func (s *SymbolFetcher) attachVIX(ctx context.Context, bars []model.OHLCV, w model.Window) []null.Float {
	out := make([]null.Float, len(bars))

	vix, err := s.Fetcher.FetchDailyBars(ctx, s.VIXSymbol, w.Start, w.End)
	if err != nil {
		log.WithField("symbol", s.VIXSymbol).Debugf("vix enrichment absorbed: %v", err)
		return out
	}

	closes := make(map[time.Time]float64, len(vix))
	for _, b := range vix {
		closes[b.Time] = b.Close
	}
	for i, b := range bars {
		if c, ok := closes[b.Time]; ok {
			out[i] = null.FloatFrom(c)
		}
	}
	return out
}
