package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"portfoliosim/internal/domain"
	mock_repository "portfoliosim/internal/repository/mocks"
	l1_service "portfoliosim/internal/service/l1"
	l2_service "portfoliosim/internal/service/l2"
	l3_service "portfoliosim/internal/service/l3"
	"portfoliosim/internal/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testStore(t *testing.T) *l1_service.PriceHistoryStore {
	t.Helper()
	refs := []domain.InstrumentRef{
		{InstrumentID: "A", Manager: "Acme", Name: "Slow", MinTicketSize: 1000},
		{InstrumentID: "B", Manager: "Acme", Name: "Fast", MinTicketSize: 1000, Surcharge: 0.001, Discount: 0.001},
		{InstrumentID: "C", Manager: "Beta", Name: "Falling"},
	}
	growth := map[string]float64{"A": 1.001, "B": 1.002, "C": 0.999}
	prices := []domain.PricePoint{}
	start := util.NewDate(2020, 1, 1)
	for id, g := range growth {
		for i := 0; i < 182; i++ {
			prices = append(prices, domain.PricePoint{
				InstrumentID: id,
				Date:         start.AddDate(0, 0, i),
				Price:        100 * math.Pow(g, float64(i)),
			})
		}
	}
	store, err := l1_service.NewPriceHistoryStore(refs, prices)
	require.NoError(t, err)
	return store
}

func testOptions() SimulationOptions {
	return SimulationOptions{
		DateStart:  util.NewDate(2020, 1, 15),
		DateFinish: util.NewDate(2020, 6, 15),
		CashStart:  1_000_000,
		Selection:  l3_service.SelectionOptions{TopThres: 2, MinThres: 1},
		Scoring: l2_service.ScoringOptions{
			HorizonDays:       2,
			MinHistDays:       3,
			MinLookbackDays:   3,
			DecayHalfLifeDays: 365,
			RiskPower:         0.5,
			Workers:           1,
		},
	}
}

func runToEnd(t *testing.T, sim *Simulation) int {
	t.Helper()
	ctx := context.Background()
	n := 0
	for {
		more, err := sim.AdvancePeriod(ctx)
		require.NoError(t, err)
		if !more {
			return n
		}
		n++

		require.GreaterOrEqual(t, sim.Cash(), -domain.Tolerance)
		weightSum := 0.0
		for _, row := range sim.Valuation() {
			require.GreaterOrEqual(t, row.Quantity, -domain.Tolerance)
			weightSum += row.Weight
		}
		if len(sim.Valuation()) > 0 {
			require.InDelta(t, 1.0, weightSum, 1e-9)
		}
	}
}

func TestSimulation(t *testing.T) {
	ctx := context.Background()

	t.Run("monthly periods from start to finish", func(t *testing.T) {
		sim := NewSimulation(testStore(t))
		require.NoError(t, sim.Start(ctx, testOptions()))
		require.Equal(t, domain.RebalanceMode_InitialAcquisition, sim.Mode())

		require.Equal(t, 6, runToEnd(t, sim))
		require.Equal(t, domain.RebalanceMode_Rebalancing, sim.Mode())

		history := sim.History()
		dates := []string{}
		for _, p := range history.Periods {
			dates = append(dates, util.FormatDate(p.Date))
		}
		require.Equal(t, []string{"2020-01-15", "2020-02-01", "2020-03-01", "2020-04-01", "2020-05-01", "2020-06-01"}, dates)

		// first period buys from scratch
		first := history.Periods[0]
		require.Equal(t, domain.RebalanceMode_InitialAcquisition, first.Mode)
		require.Equal(t, 2, first.NumTrades)
		require.InDelta(t, 0.0, first.Cash.InexactFloat64(), 1e-6)
		require.Equal(t, domain.RebalanceMode_Rebalancing, history.Periods[1].Mode)

		// falling instrument never clears the threshold
		for _, row := range history.Targets {
			require.NotEqual(t, "C", row.InstrumentID)
		}
		for _, row := range history.Holdings {
			require.NotEqual(t, "C", row.InstrumentID)
		}

		// holdings are recorded before trades, so the first period has none
		require.Equal(t, history.Periods[1].Date, history.Holdings[0].Date)
		require.Len(t, history.Prices, 6*3)
		require.Len(t, history.Scores, 6*3)
		for i := 1; i < len(history.Scores); i++ {
			require.False(t, history.Scores[i].Date.Before(history.Scores[i-1].Date))
		}

		// more calls keep reporting the end
		more, err := sim.AdvancePeriod(ctx)
		require.NoError(t, err)
		require.False(t, more)

		result, err := sim.Finalize(ctx)
		require.NoError(t, err)
		require.NotNil(t, result.Metrics)
		require.Equal(t, history.RunID, result.RunID)
		require.InDelta(t, sim.TotalValue(), result.TotalValue, 1e-9)
		require.Len(t, result.FinalPortfolio.Positions, 2)

		_, err = sim.AdvancePeriod(ctx)
		require.ErrorIs(t, err, ErrSimulationNotRunning)
	})

	t.Run("conserves value net of costs", func(t *testing.T) {
		sim := NewSimulation(testStore(t))
		require.NoError(t, sim.Start(ctx, testOptions()))
		more, err := sim.AdvancePeriod(ctx)
		require.NoError(t, err)
		require.True(t, more)

		// only B carries costs: the surcharge and the discount
		total := 0.0
		for _, row := range sim.Valuation() {
			total += row.Value.InexactFloat64()
		}
		require.Less(t, total, 1_000_000.0)
		require.Greater(t, total, 1_000_000.0*0.98)
		require.InDelta(t, sim.TotalValue(), total+sim.Cash(), 1e-6)
	})

	t.Run("dates outside history", func(t *testing.T) {
		sim := NewSimulation(testStore(t))

		opts := testOptions()
		opts.DateStart = util.NewDate(2019, 12, 1)
		require.ErrorIs(t, sim.Start(ctx, opts), domain.ErrConfiguration)

		opts = testOptions()
		opts.DateFinish = util.NewDate(2021, 1, 1)
		require.ErrorIs(t, sim.Start(ctx, opts), domain.ErrConfiguration)

		opts = testOptions()
		opts.DateFinish = util.NewDate(2020, 1, 10)
		require.ErrorIs(t, sim.Start(ctx, opts), domain.ErrConfiguration)

		_, err := sim.AdvancePeriod(ctx)
		require.ErrorIs(t, err, ErrSimulationNotRunning)
	})

	t.Run("single period run has no metrics", func(t *testing.T) {
		sim := NewSimulation(testStore(t))
		opts := testOptions()
		opts.DateFinish = util.NewDate(2020, 1, 20)
		require.NoError(t, sim.Start(ctx, opts))
		require.Equal(t, 1, runToEnd(t, sim))

		result, err := sim.Finalize(ctx)
		require.NoError(t, err)
		require.Nil(t, result.Metrics)
	})
}

func TestBacktestHandler_Backtest(t *testing.T) {
	ctx := context.Background()

	t.Run("exports the finished run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		historyRepository := mock_repository.NewMockHistoryRepository(ctrl)

		var saved domain.RunHistory
		historyRepository.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, h domain.RunHistory) error {
				saved = h
				return nil
			},
		)

		handler := BacktestHandler{HistoryRepository: historyRepository}
		result, err := handler.Backtest(ctx, BacktestInput{Store: testStore(t), Options: testOptions()})
		require.NoError(t, err)
		require.Equal(t, result.RunID, saved.RunID)
		require.Len(t, saved.Periods, 6)
		require.Contains(t, result.Timings, "score")
		require.Contains(t, result.Timings, "export")
	})

	t.Run("no export span without a sink", func(t *testing.T) {
		result, err := BacktestHandler{}.Backtest(ctx, BacktestInput{Store: testStore(t), Options: testOptions()})
		require.NoError(t, err)
		require.Contains(t, result.Timings, "rebalance")
		require.NotContains(t, result.Timings, "export")
	})

	t.Run("export failure fails the run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		historyRepository := mock_repository.NewMockHistoryRepository(ctrl)
		historyRepository.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		handler := BacktestHandler{HistoryRepository: historyRepository}
		_, err := handler.Backtest(ctx, BacktestInput{Store: testStore(t), Options: testOptions()})
		require.ErrorContains(t, err, "disk full")
	})
}
