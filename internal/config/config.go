package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"IndexHarvest/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Output     OutputConfig     `yaml:"output"`
	Pacing     PacingConfig     `yaml:"pacing"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Log        LogConfig        `yaml:"log"`
	Proxy      string           `yaml:"proxy"`
}

type WindowConfig struct {
	Start string `yaml:"start" default:"2020-01-01" validate:"required,datetime=2006-01-02"`
	End   string `yaml:"end" default:"2024-01-01" validate:"required,datetime=2006-01-02"`
}

type DataSourceConfig struct {
	Provider    string  `yaml:"provider" default:"yahoo" validate:"oneof=yahoo polygon mock"`
	APIKey      string  `yaml:"api_key" validate:"required_if=Provider polygon"`
	MockPrice   float64 `yaml:"mock_price" default:"100" validate:"gt=0"`
	IndexSymbol string  `yaml:"index_symbol" default:"^GSPC" validate:"required"`
	VIXSymbol   string  `yaml:"vix_symbol" default:"^VIX"`
	RosterURL   string  `yaml:"roster_url" default:"https://en.wikipedia.org/wiki/List_of_S%26P_500_companies" validate:"omitempty,url"`
	RosterFile  string  `yaml:"roster_file"`
}

type OutputConfig struct {
	Dir        string `yaml:"dir" default:"SP500_Data" validate:"required"`
	Format     string `yaml:"format" default:"csv" validate:"oneof=csv json parquet sqlite none"`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Format sqlite"`
}

type PacingConfig struct {
	Strategy string        `yaml:"strategy" default:"fixed" validate:"oneof=fixed token_bucket none"`
	Interval time.Duration `yaml:"interval" default:"500ms"`
	Burst    int           `yaml:"burst" default:"1" validate:"gte=1"`
}

type ScheduleConfig struct {
	// Cron uses the six-field form with seconds; empty runs once.
	Cron string `yaml:"cron"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Load reads .env and the YAML file (both optional), applies environment
// variable overrides, then fills defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("load .env: %v", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"HARVEST_START", &cfg.Window.Start},
		{"HARVEST_END", &cfg.Window.End},
		{"HARVEST_PROVIDER", &cfg.DataSource.Provider},
		{"POLYGON_API_KEY", &cfg.DataSource.APIKey},
		{"HARVEST_ROSTER_FILE", &cfg.DataSource.RosterFile},
		{"HARVEST_OUTPUT_DIR", &cfg.Output.Dir},
		{"HARVEST_FORMAT", &cfg.Output.Format},
		{"SQLITE_PATH", &cfg.Output.SQLitePath},
		{"HARVEST_PACING", &cfg.Pacing.Strategy},
		{"HARVEST_CRON", &cfg.Schedule.Cron},
		{"HARVEST_METRICS_TEXTFILE", &cfg.Metrics.Textfile},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"HTTPS_PROXY", &cfg.Proxy},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("HARVEST_PACING_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Pacing.Interval = d
		} else {
			log.Warnf("ignoring HARVEST_PACING_INTERVAL=%q: %v", v, err)
		}
	}
}

// Validate checks field constraints and the date window.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	if _, err := c.ParseWindow(); err != nil {
		return err
	}
	return nil
}

// ParseWindow returns the configured [start, end) window.
func (c *Config) ParseWindow() (model.Window, error) {
	return model.ParseWindow(c.Window.Start, c.Window.End)
}

// LogLevel parses the configured level.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
