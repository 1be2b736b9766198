package pipeline

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"IndexHarvest/internal/metrics"
	"IndexHarvest/internal/model"
	"IndexHarvest/internal/pacer"
	"IndexHarvest/internal/recorder"
)

// Phase names used in logs, metrics and the run report.
const (
	PhaseDirectory  = "directory"
	PhaseIndex      = "index"
	PhaseFinancials = "financials"
)

// RosterSource provides the index constituents.
type RosterSource interface {
	FetchRoster(ctx context.Context) ([]model.RosterEntry, error)
}

// SeriesFetcher provides per-symbol price series and best-effort profiles.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol string, w model.Window) (*model.PriceSeries, error)
	FetchProfile(ctx context.Context, symbol string) model.Profile
}

// Pipeline runs one sequential collection over the roster.
type Pipeline struct {
	Roster      RosterSource
	Symbols     SeriesFetcher
	Pacer       pacer.Pacer
	Recorder    recorder.Recorder
	Metrics     *metrics.Recorder
	Window      model.Window
	IndexSymbol string
	// ReportDir receives the run report; empty disables it.
	ReportDir string
}

// Failure is one symbol that contributed no rows to a phase.
type Failure struct {
	Symbol string `json:"symbol"`
	Phase  string `json:"phase"`
	Reason string `json:"reason"`
}

// Result summarizes a completed run.
type Result struct {
	Sectors    int
	Companies  int
	IndexRows  int
	Financials int
	Technicals int
	Succeeded  []string
	Failures   []Failure
	Duration   time.Duration
}

// Run executes the four phases. It fails only when the roster is unavailable,
// a table cannot be written, or ctx is cancelled; per-symbol failures are
// recorded in the Result.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	if p.Pacer == nil {
		p.Pacer = pacer.None{}
	}
	if p.Metrics == nil {
		p.Metrics = metrics.New()
	}

	res, err := p.run(ctx)
	p.Metrics.RecordRun(err == nil, float64(time.Now().Unix()))
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)

	if p.ReportDir != "" {
		if err := writeRunReport(p.ReportDir, res.Succeeded, res.Failures); err != nil {
			log.Warnf("write run report: %v", err)
		}
	}

	log.WithFields(log.Fields{
		"sectors":    res.Sectors,
		"companies":  res.Companies,
		"index_rows": res.IndexRows,
		"financials": res.Financials,
		"technicals": res.Technicals,
		"failed":     len(res.Failures),
		"elapsed":    res.Duration.Round(time.Millisecond),
	}).Info("run completed")
	return res, nil
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	log.WithField("window", p.Window.String()).Info("collecting roster")
	roster, err := p.Roster.FetchRoster(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{}

	sectors := SummarizeSectors(roster)
	if err := p.Recorder.RecordSectors(sectors); err != nil {
		return nil, fmt.Errorf("record sectors: %w", err)
	}
	p.Metrics.RecordRows(recorder.TableSectors, len(sectors))
	res.Sectors = len(sectors)

	companies, err := p.collectDirectory(ctx, roster)
	if err != nil {
		return nil, err
	}
	if err := p.Recorder.RecordCompanies(companies); err != nil {
		return nil, fmt.Errorf("record companies: %w", err)
	}
	p.Metrics.RecordRows(recorder.TableCompanies, len(companies))
	res.Companies = len(companies)

	if err := p.collectIndex(ctx, res); err != nil {
		return nil, err
	}

	if err := p.collectFinancials(ctx, roster, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) fail(res *Result, symbol, phase string, err error) {
	log.WithFields(log.Fields{"symbol": symbol, "phase": phase}).Warnf("symbol skipped: %v", err)
	res.Failures = append(res.Failures, Failure{Symbol: symbol, Phase: phase, Reason: err.Error()})
	p.Metrics.RecordSymbol(phase, "failed")
}
