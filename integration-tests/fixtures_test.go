package integration_tests

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfoliosim/internal/util"

	"github.com/stretchr/testify/require"
)

const referenceCsv = `instrument_id,manager,name,min_sum,surcharge,discount,fee
GROW,Northwind,Steady Growth,1000,0,0,0
FAST,Northwind,Fast Growth,5000,0.01,0.005,0.001
WAVE,Contoso,Oscillating,1000,0,0,0
DOWN,Contoso,Declining,0,0,0,0
`

var dailyPrice = map[string]func(i int) float64{
	"GROW": func(i int) float64 { return 100 * math.Pow(1.0008, float64(i)) },
	"FAST": func(i int) float64 { return 50 * math.Pow(1.0015, float64(i)) },
	"WAVE": func(i int) float64 { return 80 * (1 + 0.05*math.Sin(float64(i)/9)) * math.Pow(1.0004, float64(i)) },
	"DOWN": func(i int) float64 { return 120 * math.Pow(0.9995, float64(i)) },
}

// writeFixtures lays out a reference file, a price file covering 2019 and
// 2020, and a yaml config pointing at both plus csv and sqlite exports.
func writeFixtures(t *testing.T) (configPath string, dir string) {
	t.Helper()
	dir = t.TempDir()

	referencePath := filepath.Join(dir, "reference.csv")
	require.NoError(t, os.WriteFile(referencePath, []byte(referenceCsv), 0o644))

	var sb strings.Builder
	sb.WriteString("date,instrument_id,price\n")
	start := util.NewDate(2019, 1, 1)
	for _, id := range []string{"DOWN", "FAST", "GROW", "WAVE"} {
		for i := 0; i < 731; i++ {
			fmt.Fprintf(&sb, "%s,%s,%.6f\n", util.FormatDate(start.AddDate(0, 0, i)), id, dailyPrice[id](i))
		}
	}
	pricesPath := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(pricesPath, []byte(sb.String()), 0o644))

	config := fmt.Sprintf(`
data:
  reference_file: %s
  prices_file: %s
simulation:
  date_start: "2019-06-10"
  date_finish: "2020-12-31"
  cash_start: 100000
  top_thres: 2
  min_thres: 1
  risk_power: 0.5
  decay_half_life_days: 120
  horizon_days: 20
  min_hist_days: 30
  min_lookback_days: 30
  score_workers: 4
export:
  csv_dir: %s
  sqlite_path: %s
`, referencePath, pricesPath, filepath.Join(dir, "export"), filepath.Join(dir, "history.db"))
	configPath = filepath.Join(dir, "backtest.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	return configPath, dir
}
