package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"IndexHarvest/internal/calculator"
	"IndexHarvest/internal/model"
	"IndexHarvest/internal/recorder"
)

// SummarizeSectors counts roster entries per sector, ordered by sector name.
func SummarizeSectors(roster []model.RosterEntry) []model.SectorSummary {
	counts := make(map[string]int)
	for _, e := range roster {
		counts[e.Sector]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.SectorSummary, len(names))
	for i, name := range names {
		out[i] = model.SectorSummary{SectorName: name, NumberOfCompanies: counts[name]}
	}
	return out
}

// DirectoryRow merges a roster entry with its profile. Profile values win;
// static roster attributes fill the gaps.
func DirectoryRow(e model.RosterEntry, p model.Profile) model.CompanyDirectoryRow {
	row := model.CompanyDirectoryRow{
		Symbol:       e.Symbol,
		CompanyName:  e.CompanyName,
		SectorName:   e.Sector,
		MarketCap:    p.MarketCap,
		Headquarters: p.Headquarters,
		FoundedYear:  p.FoundedYear,
		Website:      p.Website,
	}
	if e.Active {
		row.IsActive = 1
	}
	if e.DateAdded.Valid {
		row.DateAdded.SetValid(e.DateAdded.Time.Format(model.DateLayout))
	}
	if !row.Headquarters.Valid {
		row.Headquarters = e.Headquarters
	}
	if !row.FoundedYear.Valid {
		row.FoundedYear = e.FoundedYear
	}
	return row
}

func (p *Pipeline) collectDirectory(ctx context.Context, roster []model.RosterEntry) ([]model.CompanyDirectoryRow, error) {
	log.Infof("collecting company directory for %d symbols", len(roster))
	rows := make([]model.CompanyDirectoryRow, 0, len(roster))
	for i, e := range roster {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Debugf("processing company %d/%d: %s", i+1, len(roster), e.Symbol)

		start := time.Now()
		profile := p.Symbols.FetchProfile(ctx, e.Symbol)
		p.Metrics.RecordLatency("fetch_profile", time.Since(start).Seconds())

		rows = append(rows, DirectoryRow(e, profile))
		p.Metrics.RecordSymbol(PhaseDirectory, "ok")

		if err := p.Pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (p *Pipeline) collectIndex(ctx context.Context, res *Result) error {
	log.WithField("symbol", p.IndexSymbol).Info("collecting index series")

	start := time.Now()
	series, err := p.Symbols.FetchSeries(ctx, p.IndexSymbol, p.Window)
	p.Metrics.RecordLatency("fetch_series", time.Since(start).Seconds())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		p.fail(res, p.IndexSymbol, PhaseIndex, err)
		return nil
	}
	// The index table carries no indicator columns; the pass only rejects
	// a malformed series before it is written.
	if _, err := calculator.ComputeIndicators(series.Bars); err != nil {
		p.fail(res, p.IndexSymbol, PhaseIndex, err)
		return nil
	}

	rows := IndexRows(series)
	if err := p.Recorder.RecordIndex(rows); err != nil {
		return fmt.Errorf("record index: %w", err)
	}
	p.Metrics.RecordRows(recorder.TableIndex, len(rows))
	p.Metrics.RecordSymbol(PhaseIndex, "ok")
	res.IndexRows = len(rows)
	return nil
}

// IndexRows renders one row per bar of the index series.
func IndexRows(series *model.PriceSeries) []model.IndexSeriesRow {
	rows := make([]model.IndexSeriesRow, len(series.Bars))
	for i, b := range series.Bars {
		rows[i] = model.IndexSeriesRow{
			Date:       b.Day(),
			OpenPrice:  b.Open,
			HighPrice:  b.High,
			LowPrice:   b.Low,
			ClosePrice: b.Close,
			Volume:     b.Volume,
		}
		if i < len(series.VIX) {
			rows[i].VIXValue = series.VIX[i]
		}
	}
	return rows
}

func (p *Pipeline) collectFinancials(ctx context.Context, roster []model.RosterEntry, res *Result) error {
	log.Infof("collecting financials for %d symbols", len(roster))
	acc := newAccumulator(len(roster))

	for i, e := range roster {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debugf("processing financial data %d/%d: %s", i+1, len(roster), e.Symbol)
		out := p.collectSymbol(ctx, e.Symbol)
		if out.err != nil {
			// Cancellation aborts before partial tables are written.
			if err := ctx.Err(); err != nil {
				return err
			}
			acc.add(e.Symbol, out)
			p.fail(res, e.Symbol, PhaseFinancials, out.err)
			continue
		}
		acc.add(e.Symbol, out)
		p.Metrics.RecordSymbol(PhaseFinancials, "ok")
		res.Succeeded = append(res.Succeeded, e.Symbol)

		if err := p.Pacer.Wait(ctx); err != nil {
			return err
		}
	}

	financials, technicals := acc.materialize()
	if len(financials) > 0 {
		if err := p.Recorder.RecordFinancials(financials); err != nil {
			return fmt.Errorf("record financials: %w", err)
		}
		p.Metrics.RecordRows(recorder.TableFinancials, len(financials))
	}
	if len(technicals) > 0 {
		if err := p.Recorder.RecordTechnicals(technicals); err != nil {
			return fmt.Errorf("record technicals: %w", err)
		}
		p.Metrics.RecordRows(recorder.TableTechnicals, len(technicals))
	}
	res.Financials = len(financials)
	res.Technicals = len(technicals)
	return nil
}

func (p *Pipeline) collectSymbol(ctx context.Context, symbol string) outcome {
	start := time.Now()
	series, err := p.Symbols.FetchSeries(ctx, symbol, p.Window)
	p.Metrics.RecordLatency("fetch_series", time.Since(start).Seconds())
	if err != nil {
		return outcome{err: err}
	}
	bars, err := calculator.ComputeIndicators(series.Bars)
	if err != nil {
		return outcome{err: err}
	}
	return outcome{marketCap: series.Meta.MarketCap, bars: bars}
}
