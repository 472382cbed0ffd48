package calculator

import (
	"math"
	"testing"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/util"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func periods(values ...float64) []domain.PeriodSummary {
	out := []domain.PeriodSummary{}
	for i, v := range values {
		out = append(out, domain.PeriodSummary{
			Date:       util.NewDate(2020, 1+i, 1),
			TotalValue: decimal.NewFromFloat(v),
		})
	}
	return out
}

func TestCalculateMetrics(t *testing.T) {
	t.Run("growth with a drawdown", func(t *testing.T) {
		result, err := CalculateMetrics(periods(100, 120, 90, 110), MonthlyPeriodsPerYear)
		require.NoError(t, err)

		require.InDelta(t, 0.1, result.TotalReturn, 1e-12)
		require.InDelta(t, 0.25, result.MaxDrawdown, 1e-12)

		stdev, err := stats.StandardDeviationSample([]float64{0.2, -0.25, 20.0 / 90.0})
		require.NoError(t, err)
		require.InDelta(t, stdev*math.Sqrt(12), result.AnnualizedStdev, 1e-12)

		years := util.NewDate(2020, 4, 1).Sub(util.NewDate(2020, 1, 1)).Hours() / (365 * 24)
		require.InDelta(t, math.Pow(1.1, 1/years)-1, result.AnnualizedReturn, 1e-12)
		require.InDelta(t, result.AnnualizedReturn/result.AnnualizedStdev, result.SharpeRatio, 1e-12)
	})

	t.Run("flat run has zero volatility", func(t *testing.T) {
		result, err := CalculateMetrics(periods(100, 100, 100), MonthlyPeriodsPerYear)
		require.NoError(t, err)
		require.Equal(t, 0.0, result.AnnualizedStdev)
		require.Equal(t, 0.0, result.SharpeRatio)
		require.Equal(t, 0.0, result.MaxDrawdown)
	})

	t.Run("needs two periods", func(t *testing.T) {
		_, err := CalculateMetrics(periods(100), MonthlyPeriodsPerYear)
		require.Error(t, err)
	})
}
