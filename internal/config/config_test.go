package config

import (
	"os"
	"path/filepath"
	"testing"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("file values over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
data:
  reference_file: ref.csv
  prices_file: prices.csv
simulation:
  date_start: "2015-01-01"
  date_finish: "2020-12-01"
  top_thres: 3
  min_thres: 0
export:
  csv_dir: out
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		expected := Default()
		expected.Data.ReferenceFile = "ref.csv"
		expected.Data.PricesFile = "prices.csv"
		expected.Simulation.DateStart = "2015-01-01"
		expected.Simulation.DateFinish = "2020-12-01"
		expected.Simulation.TopThres = 3
		expected.Simulation.MinThres = 0
		expected.Export.CsvDir = "out"

		require.Empty(t, cmp.Diff(expected, *cfg))
		require.NoError(t, cfg.Validate(true))

		opts, err := cfg.SimulationOptions()
		require.NoError(t, err)
		require.Equal(t, util.NewDate(2015, 1, 1), opts.DateStart)
		require.Equal(t, 3, opts.Selection.TopThres)
		require.Equal(t, 248, opts.Scoring.HorizonDays)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("BACKTEST_PRICES_FILE", "/data/prices.csv")
		t.Setenv("BACKTEST_API_PORT", "8080")

		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, "/data/prices.csv", cfg.Data.PricesFile)
		require.Equal(t, 8080, cfg.Api.Port)
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("BACKTEST_API_PORT", "http")
		_, err := Load("")
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := Default()
	valid.Data.ReferenceFile = "ref.csv"
	valid.Data.PricesFile = "prices.csv"
	require.NoError(t, valid.Validate(false))

	t.Run("dates required for runs", func(t *testing.T) {
		require.ErrorIs(t, valid.Validate(true), domain.ErrConfiguration)
	})

	t.Run("finish before start", func(t *testing.T) {
		c := valid
		c.Simulation.DateStart = "2020-01-01"
		c.Simulation.DateFinish = "2019-01-01"
		require.ErrorIs(t, c.Validate(true), domain.ErrConfiguration)
	})

	t.Run("top thres", func(t *testing.T) {
		c := valid
		c.Simulation.TopThres = 0
		require.ErrorIs(t, c.Validate(false), domain.ErrConfiguration)
	})

	t.Run("missing prices file", func(t *testing.T) {
		c := valid
		c.Data.PricesFile = ""
		require.ErrorIs(t, c.Validate(false), domain.ErrConfiguration)
	})
}
