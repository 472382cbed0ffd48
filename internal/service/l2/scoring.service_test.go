package l2_service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"portfoliosim/internal/domain"
	l1_service "portfoliosim/internal/service/l1"
	"portfoliosim/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func dailySeries(id string, n int, price func(i int) float64) []domain.PricePoint {
	out := []domain.PricePoint{}
	start := util.NewDate(2015, 1, 1)
	for i := 0; i < n; i++ {
		out = append(out, domain.PricePoint{
			InstrumentID: id,
			Date:         start.AddDate(0, 0, i),
			Price:        price(i),
		})
	}
	return out
}

func defaultOptions() ScoringOptions {
	return ScoringOptions{
		HorizonDays:       248,
		MinHistDays:       248,
		MinLookbackDays:   248,
		DecayHalfLifeDays: 365,
		RiskPower:         0.5,
		Workers:           1,
	}
}

func TestForecastReturn(t *testing.T) {
	t.Run("needs min hist plus lookback observations", func(t *testing.T) {
		flat := func(int) float64 { return 100 }

		f, err := ForecastReturn(dailySeries("A", 250, flat), defaultOptions())
		require.NoError(t, err)
		require.Nil(t, f)

		f, err = ForecastReturn(dailySeries("A", 495, flat), defaultOptions())
		require.NoError(t, err)
		require.Nil(t, f)

		f, err = ForecastReturn(dailySeries("A", 496, flat), defaultOptions())
		require.NoError(t, err)
		require.NotNil(t, f)
		require.InDelta(t, 1.0, f.MeanReturn, 1e-12)
		require.InDelta(t, 1.0, f.Dispersion, 1e-12)
	})

	t.Run("constant growth", func(t *testing.T) {
		opts := ScoringOptions{HorizonDays: 2, MinHistDays: 5, MinLookbackDays: 5, DecayHalfLifeDays: 365, RiskPower: 0.5}
		f, err := ForecastReturn(dailySeries("A", 40, func(i int) float64 {
			return math.Pow(1.001, float64(i))
		}), opts)
		require.NoError(t, err)
		require.InDelta(t, 1.002001, f.MeanReturn, 1e-9)
		require.InDelta(t, 1.0, f.Dispersion, 1e-9)
	})

	t.Run("time decayed weights", func(t *testing.T) {
		start := util.NewDate(2015, 1, 1)
		history := []domain.PricePoint{
			{InstrumentID: "A", Date: start, Price: 1},
			{InstrumentID: "A", Date: start.AddDate(0, 0, 365), Price: 2},
			{InstrumentID: "A", Date: start.AddDate(0, 0, 730), Price: 3},
		}
		opts := ScoringOptions{HorizonDays: 1, MinHistDays: 1, MinLookbackDays: 1, DecayHalfLifeDays: 365, RiskPower: 0.5}

		f, err := ForecastReturn(history, opts)
		require.NoError(t, err)

		// samples r=2 aged one half life and r=1.5 aged zero
		expectedMean := math.Exp(math.Log(2)/3 + 2*math.Log(1.5)/3)
		require.InDelta(t, expectedMean, f.MeanReturn, 1e-12)
		require.InDelta(t, math.Sqrt(4.0/3.0), f.Dispersion, 1e-12)
	})

	t.Run("lookback keeps the most recent window", func(t *testing.T) {
		opts := ScoringOptions{HorizonDays: 1, MinHistDays: 2, MinLookbackDays: 1, DecayHalfLifeDays: 365, RiskPower: 0.5}
		// early doubling falls outside the 6 observation window
		series := dailySeries("A", 20, func(i int) float64 {
			if i < 5 {
				return math.Pow(2, float64(i))
			}
			return 16
		})
		f, err := ForecastReturn(series, opts)
		require.NoError(t, err)
		require.InDelta(t, 1.0, f.MeanReturn, 1e-12)
	})
}

func TestScoreInstrument(t *testing.T) {
	start := util.NewDate(2015, 1, 1)
	history := []domain.PricePoint{
		{InstrumentID: "A", Date: start, Price: 1},
		{InstrumentID: "A", Date: start.AddDate(0, 0, 365), Price: 2},
		{InstrumentID: "A", Date: start.AddDate(0, 0, 730), Price: 3},
	}
	opts := ScoringOptions{HorizonDays: 1, MinHistDays: 1, MinLookbackDays: 1, DecayHalfLifeDays: 365, RiskPower: 0.5}
	ref := domain.InstrumentRef{InstrumentID: "A", Fee: 0.1, Surcharge: 0.25, Discount: 0.2}

	record, err := ScoreInstrument(ref, history, start.AddDate(0, 0, 730), opts)
	require.NoError(t, err)

	mean := math.Exp(math.Log(2)/3+2*math.Log(1.5)/3) * 0.9
	total1 := mean / 1.25 * 0.8
	total2 := total1 / math.Pow(math.Sqrt(4.0/3.0), 0.5)

	diff := cmp.Diff(&domain.ScoreRecord{
		InstrumentID:       "A",
		Date:               start.AddDate(0, 0, 730),
		ForecastMeanReturn: mean,
		ForecastDispersion: math.Sqrt(4.0 / 3.0),
		CostAdjustedReturn: total1,
		RiskAdjustedScore:  total2,
	}, record, cmpopts.EquateApprox(0, 1e-12))
	require.Empty(t, diff)
}

func TestScoringOptions_Validate(t *testing.T) {
	require.NoError(t, defaultOptions().Validate())

	opts := defaultOptions()
	opts.DecayHalfLifeDays = 0
	require.ErrorIs(t, opts.Validate(), domain.ErrConfiguration)

	opts = defaultOptions()
	opts.HorizonDays = 0
	require.ErrorIs(t, opts.Validate(), domain.ErrConfiguration)
}

func TestScoringService_ScoreAll(t *testing.T) {
	refs := []domain.InstrumentRef{}
	prices := []domain.PricePoint{}
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("F%02d", i)
		refs = append(refs, domain.InstrumentRef{InstrumentID: id})
		// one short series stays unscored
		n := 60
		if i == 3 {
			n = 10
		}
		growth := 1 + float64(i)/1000
		prices = append(prices, dailySeries(id, n, func(j int) float64 {
			return 100 * math.Pow(growth, float64(j)) * (1 + 0.01*math.Sin(float64(j)))
		})...)
	}
	store, err := l1_service.NewPriceHistoryStore(refs, prices)
	require.NoError(t, err)
	view := store.View(util.NewDate(2016, 1, 1))

	opts := ScoringOptions{HorizonDays: 5, MinHistDays: 10, MinLookbackDays: 10, DecayHalfLifeDays: 365, RiskPower: 0.5, Workers: 1}
	serial, err := NewScoringService(opts)
	require.NoError(t, err)
	opts.Workers = 4
	parallel, err := NewScoringService(opts)
	require.NoError(t, err)

	ctx := context.Background()
	serialScores, err := serial.ScoreAll(ctx, view)
	require.NoError(t, err)
	require.Len(t, serialScores, 11)
	for i := 1; i < len(serialScores); i++ {
		require.Less(t, serialScores[i-1].InstrumentID, serialScores[i].InstrumentID)
	}

	again, err := serial.ScoreAll(ctx, view)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(serialScores, again))

	parallelScores, err := parallel.ScoreAll(ctx, view)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(serialScores, parallelScores))
}
