package calculator

import (
	"fmt"
	"math"
	"sort"

	"portfoliosim/internal/domain"

	"github.com/montanaflynn/stats"
)

// MonthlyPeriodsPerYear annualizes metrics of a month-by-month run
const MonthlyPeriodsPerYear = 12

type CalculateMetricsResult struct {
	StartValue       float64
	EndValue         float64
	TotalReturn      float64
	AnnualizedReturn float64
	AnnualizedStdev  float64
	SharpeRatio      float64
	// largest peak to trough loss, as a positive fraction
	MaxDrawdown float64
}

// CalculateMetrics summarizes the total value series of a run. At least two
// periods are needed.
func CalculateMetrics(periods []domain.PeriodSummary, periodsPerYear float64) (*CalculateMetricsResult, error) {
	if len(periods) < 2 {
		return nil, fmt.Errorf("cannot calculate metrics on < 2 periods")
	}
	sorted := append([]domain.PeriodSummary{}, periods...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	values := []float64{}
	for _, p := range sorted {
		values = append(values, p.TotalValue.InexactFloat64())
	}
	startValue := values[0]
	endValue := values[len(values)-1]
	if startValue <= 0 {
		return nil, fmt.Errorf("cannot calculate metrics from start value %f", startValue)
	}

	returns := []float64{}
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (values[i]-values[i-1])/values[i-1])
	}

	stdev := 0.0
	if len(returns) > 1 {
		s, err := stats.StandardDeviationSample(returns)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate stdev: %w", err)
		}
		stdev = s
	}
	annualizedStdev := stdev * math.Sqrt(periodsPerYear)

	totalReturn := endValue/startValue - 1
	numHours := sorted[len(sorted)-1].Date.Sub(sorted[0].Date).Hours()
	numYears := numHours / (365 * 24)
	annualizedReturn := totalReturn
	if numYears > 0 {
		annualizedReturn = math.Pow(endValue/startValue, 1/numYears) - 1
	}

	sharpeRatio := 0.0
	if annualizedStdev > 0 {
		sharpeRatio = annualizedReturn / annualizedStdev
	}

	return &CalculateMetricsResult{
		StartValue:       startValue,
		EndValue:         endValue,
		TotalReturn:      totalReturn,
		AnnualizedReturn: annualizedReturn,
		AnnualizedStdev:  annualizedStdev,
		SharpeRatio:      sharpeRatio,
		MaxDrawdown:      maxDrawdown(values),
	}, nil
}

func maxDrawdown(values []float64) float64 {
	peak := values[0]
	worst := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			worst = math.Max(worst, (peak-v)/peak)
		}
	}
	return worst
}
