package config

import (
	"fmt"
	"os"
	"strconv"

	"portfoliosim/internal/app"
	"portfoliosim/internal/domain"
	l2_service "portfoliosim/internal/service/l2"
	l3_service "portfoliosim/internal/service/l3"
	"portfoliosim/internal/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Data       DataConfig       `yaml:"data"`
	Simulation SimulationConfig `yaml:"simulation"`
	Export     ExportConfig     `yaml:"export"`
	Api        ApiConfig        `yaml:"api"`
}

type DataConfig struct {
	ReferenceFile string `yaml:"reference_file"`
	PricesFile    string `yaml:"prices_file"`
	// first date requested when downloading prices
	FetchStart string `yaml:"fetch_start"`
}

type SimulationConfig struct {
	DateStart         string  `yaml:"date_start"`
	DateFinish        string  `yaml:"date_finish"`
	CashStart         float64 `yaml:"cash_start"`
	TopThres          int     `yaml:"top_thres"`
	MinThres          float64 `yaml:"min_thres"`
	RiskPower         float64 `yaml:"risk_power"`
	DecayHalfLifeDays float64 `yaml:"decay_half_life_days"`
	HorizonDays       int     `yaml:"horizon_days"`
	MinHistDays       int     `yaml:"min_hist_days"`
	MinLookbackDays   int     `yaml:"min_lookback_days"`
	ScoreWorkers      int     `yaml:"score_workers"`
}

// ExportConfig lists the history sinks; each one set gets written
type ExportConfig struct {
	CsvDir      string `yaml:"csv_dir"`
	SqlitePath  string `yaml:"sqlite_path"`
	PostgresDsn string `yaml:"postgres_dsn"`
}

type ApiConfig struct {
	Port int `yaml:"port"`
}

func Default() Config {
	return Config{
		Data: DataConfig{
			FetchStart: "2000-01-01",
		},
		Simulation: SimulationConfig{
			CashStart:         1_000_000,
			TopThres:          5,
			MinThres:          1,
			RiskPower:         0.5,
			DecayHalfLifeDays: 365,
			HorizonDays:       248,
			MinHistDays:       248,
			MinLookbackDays:   248,
			ScoreWorkers:      1,
		},
		Api: ApiConfig{
			Port: 3009,
		},
	}
}

// Load reads the yaml file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	strOverrides := map[string]*string{
		"BACKTEST_REFERENCE_FILE": &c.Data.ReferenceFile,
		"BACKTEST_PRICES_FILE":    &c.Data.PricesFile,
		"BACKTEST_CSV_DIR":        &c.Export.CsvDir,
		"BACKTEST_SQLITE_PATH":    &c.Export.SqlitePath,
		"BACKTEST_POSTGRES_DSN":   &c.Export.PostgresDsn,
	}
	for key, field := range strOverrides {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}

	if v, ok := os.LookupEnv("BACKTEST_API_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BACKTEST_API_PORT %q: %w", v, domain.ErrConfiguration)
		}
		c.Api.Port = port
	}

	return nil
}

func (c Config) ScoringOptions() l2_service.ScoringOptions {
	return l2_service.ScoringOptions{
		HorizonDays:       c.Simulation.HorizonDays,
		MinHistDays:       c.Simulation.MinHistDays,
		MinLookbackDays:   c.Simulation.MinLookbackDays,
		DecayHalfLifeDays: c.Simulation.DecayHalfLifeDays,
		RiskPower:         c.Simulation.RiskPower,
		Workers:           c.Simulation.ScoreWorkers,
	}
}

func (c Config) SelectionOptions() l3_service.SelectionOptions {
	return l3_service.SelectionOptions{
		TopThres: c.Simulation.TopThres,
		MinThres: c.Simulation.MinThres,
	}
}

func (c Config) SimulationOptions() (*app.SimulationOptions, error) {
	start, err := util.ParseDate(c.Simulation.DateStart)
	if err != nil {
		return nil, fmt.Errorf("invalid date_start: %w", domain.ErrConfiguration)
	}
	finish, err := util.ParseDate(c.Simulation.DateFinish)
	if err != nil {
		return nil, fmt.Errorf("invalid date_finish: %w", domain.ErrConfiguration)
	}

	return &app.SimulationOptions{
		DateStart:  start,
		DateFinish: finish,
		CashStart:  c.Simulation.CashStart,
		Selection:  c.SelectionOptions(),
		Scoring:    c.ScoringOptions(),
	}, nil
}

// Validate checks what a run needs. Dates are only required when requireDates
// is set, since the api takes them per request.
func (c Config) Validate(requireDates bool) error {
	if c.Data.ReferenceFile == "" {
		return fmt.Errorf("data.reference_file is required: %w", domain.ErrConfiguration)
	}
	if c.Data.PricesFile == "" {
		return fmt.Errorf("data.prices_file is required: %w", domain.ErrConfiguration)
	}
	if c.Api.Port < 1 || c.Api.Port > 65535 {
		return fmt.Errorf("invalid api port %d: %w", c.Api.Port, domain.ErrConfiguration)
	}
	if c.Simulation.ScoreWorkers < 1 {
		return fmt.Errorf("score_workers must be at least 1: %w", domain.ErrConfiguration)
	}
	if err := c.SelectionOptions().Validate(); err != nil {
		return err
	}
	if err := c.ScoringOptions().Validate(); err != nil {
		return err
	}
	if requireDates {
		opts, err := c.SimulationOptions()
		if err != nil {
			return err
		}
		return opts.Validate()
	}
	return nil
}
