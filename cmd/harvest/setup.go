package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"IndexHarvest/internal/collector"
	"IndexHarvest/internal/config"
	"IndexHarvest/internal/metrics"
	"IndexHarvest/internal/pacer"
	"IndexHarvest/internal/pipeline"
	"IndexHarvest/internal/recorder"
)

// applyFlags overrides config values with flags the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"start", &cfg.Window.Start},
		{"end", &cfg.Window.End},
		{"output", &cfg.Output.Dir},
		{"format", &cfg.Output.Format},
		{"provider", &cfg.DataSource.Provider},
		{"roster-file", &cfg.DataSource.RosterFile},
		{"pacing", &cfg.Pacing.Strategy},
	}
	for _, s := range stringFlags {
		if !flags.Changed(s.name) {
			continue
		}
		v, err := flags.GetString(s.name)
		if err != nil {
			return fmt.Errorf("error getting %s: %w", s.name, err)
		}
		*s.dst = v
	}
	if flags.Changed("pacing-interval") {
		d, err := flags.GetDuration("pacing-interval")
		if err != nil {
			return fmt.Errorf("error getting pacing-interval: %w", err)
		}
		cfg.Pacing.Interval = d
	}
	return nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "polygon":
		return collector.NewPolygonFetcher(cfg.DataSource.APIKey)
	case "mock":
		return &collector.MockFetcher{Price: cfg.DataSource.MockPrice}
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}

func newRoster(cfg *config.Config) pipeline.RosterSource {
	if cfg.DataSource.RosterFile != "" {
		return &collector.FileRoster{Path: cfg.DataSource.RosterFile}
	}
	return collector.NewWikipediaRoster(cfg.DataSource.RosterURL, cfg.Proxy)
}

// setup wires the pipeline from cfg. The returned cleanup closes the recorder.
func setup(cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	window, err := cfg.ParseWindow()
	if err != nil {
		return nil, nil, err
	}

	fetcher := newFetcher(cfg)
	log.Infof("data source: %s", fetcher.Name())

	pc, err := pacer.New(cfg.Pacing.Strategy, cfg.Pacing.Interval, cfg.Pacing.Burst)
	if err != nil {
		return nil, nil, err
	}

	rec, err := recorder.New(cfg.Output.Format, cfg.Output.Dir, cfg.Output.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("init recorder: %w", err)
	}
	cleanup := func() {
		if err := rec.Close(); err != nil {
			log.Warnf("close recorder: %v", err)
		}
	}

	p := &pipeline.Pipeline{
		Roster:      newRoster(cfg),
		Symbols:     collector.NewSymbolFetcher(fetcher, cfg.DataSource.IndexSymbol, cfg.DataSource.VIXSymbol),
		Pacer:       pc,
		Recorder:    rec,
		Metrics:     metrics.New(),
		Window:      window,
		IndexSymbol: cfg.DataSource.IndexSymbol,
		ReportDir:   cfg.Output.Dir,
	}
	return p, cleanup, nil
}
