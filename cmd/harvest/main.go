package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"IndexHarvest/internal/config"
	"IndexHarvest/internal/pipeline"
	"IndexHarvest/internal/scheduler"
)

var rootCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Collect index constituent prices and indicators into tabular files",
	Long: `harvest fetches the index roster, each constituent's daily prices and profile,
computes SMA50, SMA200 and 20-day annualized volatility, and writes the
sector, company, index, financial and technical tables.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}
		if v := os.Getenv("CONFIG_PATH"); v != "" && !cmd.Flags().Changed("config") {
			cfgPath = v
		}

		cfg, err := config.Load(cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		if err := applyFlags(cmd, cfg); err != nil {
			log.Fatalf("apply flags: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("config validation: %v", err)
		}
		log.SetLevel(cfg.LogLevel())

		once, err := cmd.Flags().GetBool("once")
		if err != nil {
			log.Fatalf("error getting once: %v", err)
		}

		if err := run(cfg, once); err != nil {
			log.Fatalf("harvest: %v", err)
		}
	},
}

func run(cfg *config.Config, once bool) error {
	p, cleanup, err := setup(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, p)
	sched.OnComplete = func(_ *pipeline.Result, _ error) {
		if cfg.Metrics.Textfile == "" {
			return
		}
		if err := p.Metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warnf("write metrics textfile: %v", err)
		}
	}

	if once || cfg.Schedule.Cron == "" {
		_, err := sched.RunNow()
		return err
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	log.WithField("cron", cfg.Schedule.Cron).Info("harvest is running. Press Ctrl+C to stop.")

	<-ctx.Done()
	log.Info("shutdown signal received, stopping...")
	sched.Stop()
	return nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	rootCmd.PersistentFlags().String("config", "configs/config.yaml", "Path to the YAML config file. CONFIG_PATH is used when the flag is not set.")
	rootCmd.PersistentFlags().StringP("start", "s", "", "First date to collect, inclusive, e.g. 2020-01-01.")
	rootCmd.PersistentFlags().StringP("end", "e", "", "Date to stop at, exclusive, e.g. 2024-01-01.")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory for tables and the run report.")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output format: csv, json, parquet, sqlite or none.")
	rootCmd.PersistentFlags().String("provider", "", "Market data provider: yahoo, polygon or mock.")
	rootCmd.PersistentFlags().String("roster-file", "", "Read the roster from a .txt or .json file instead of the web page.")
	rootCmd.PersistentFlags().String("pacing", "", "Pacing strategy between requests: fixed, token_bucket or none.")
	rootCmd.PersistentFlags().Duration("pacing-interval", 0, "Delay between requests, e.g. 500ms.")
	rootCmd.PersistentFlags().Bool("once", false, "Run once and exit even when a cron schedule is configured.")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
