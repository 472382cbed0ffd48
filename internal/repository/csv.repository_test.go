package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReferenceRepository_List(t *testing.T) {
	t.Run("parses all columns", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "reference.csv",
			"instrument_id,manager,name,min_sum,surcharge,discount,fee\n"+
				"FUND_A,Acme,Acme Growth,100,0.01,0.02,0.005\n"+
				"FUND_B,Beta,Beta Income,50,0,0,0\n")

		refs, err := NewReferenceRepository(path).List(context.Background())
		require.NoError(t, err)

		diff := cmp.Diff([]domain.InstrumentRef{
			{InstrumentID: "FUND_A", Manager: "Acme", Name: "Acme Growth", MinTicketSize: 100, Surcharge: 0.01, Discount: 0.02, Fee: 0.005},
			{InstrumentID: "FUND_B", Manager: "Beta", Name: "Beta Income", MinTicketSize: 50},
		}, refs)
		require.Empty(t, diff)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewReferenceRepository(filepath.Join(t.TempDir(), "nope.csv")).List(context.Background())
		require.Error(t, err)
	})
}

func TestAdjustedPriceRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prices.csv")
	repo := NewAdjustedPriceRepository(path)

	err := repo.Add(ctx, []domain.PricePoint{
		{InstrumentID: "B", Date: util.NewDate(2020, 1, 2), Price: 20},
		{InstrumentID: "A", Date: util.NewDate(2020, 1, 3), Price: 11},
		{InstrumentID: "A", Date: util.NewDate(2020, 1, 2), Price: 10},
	})
	require.NoError(t, err)

	// overwrite one price and add a new day
	err = repo.Add(ctx, []domain.PricePoint{
		{InstrumentID: "A", Date: util.NewDate(2020, 1, 3), Price: 12},
		{InstrumentID: "B", Date: util.NewDate(2020, 1, 3), Price: 21},
	})
	require.NoError(t, err)

	prices, err := repo.List(ctx)
	require.NoError(t, err)

	diff := cmp.Diff([]domain.PricePoint{
		{InstrumentID: "A", Date: util.NewDate(2020, 1, 2), Price: 10},
		{InstrumentID: "A", Date: util.NewDate(2020, 1, 3), Price: 12},
		{InstrumentID: "B", Date: util.NewDate(2020, 1, 2), Price: 20},
		{InstrumentID: "B", Date: util.NewDate(2020, 1, 3), Price: 21},
	}, prices)
	require.Empty(t, diff)
}

func testRunHistory() domain.RunHistory {
	d := util.NewDate(2021, 3, 1)
	return domain.RunHistory{
		RunID:      uuid.New(),
		StartedAt:  util.NewDate(2024, 1, 1),
		DateStart:  d,
		DateFinish: util.NewDate(2021, 4, 1),
		CashStart:  1000,
		Prices:     []domain.PriceHistoryRow{{Date: d, InstrumentID: "A", Price: 10}},
		Holdings:   []domain.HoldingRow{{Date: d, InstrumentID: "A", Quantity: 5}},
		Valuations: []domain.ValuationRow{{Date: d, InstrumentID: "A", Quantity: 5, Price: 10, Value: decimal.NewFromInt(50), Weight: 1}},
		Scores:     []domain.ScoreRecord{{Date: d, InstrumentID: "A", ForecastMeanReturn: 1.1, ForecastDispersion: 1.05, CostAdjustedReturn: 1.09, RiskAdjustedScore: 1.06}},
		Targets:    []domain.TargetWeightRow{{Date: d, InstrumentID: "A", TargetWeight: 1, Score: 1.06}},
		Trades:     []domain.TradeRow{{Date: d, InstrumentID: "A", Side: domain.TradeSide_Buy, Value: decimal.NewFromInt(50), Quantity: 5, Price: 10}},
		Periods:    []domain.PeriodSummary{{Date: d, Mode: domain.RebalanceMode_Rebalancing, Cash: decimal.NewFromInt(950), InvestedValue: decimal.NewFromInt(50), TotalValue: decimal.NewFromInt(1000), NumTrades: 1}},
	}
}

func TestCsvHistoryRepository_Save(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "out")
	repo, err := NewCsvHistoryRepository(dir)
	require.NoError(t, err)

	first := testRunHistory()
	second := testRunHistory()
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Close())

	for _, f := range []string{
		priceHistoryFile, holdingsHistoryFile, valuationHistoryFile, scoreHistoryFile,
		targetHistoryFile, tradeHistoryFile, periodHistoryFile,
	} {
		require.FileExists(t, filepath.Join(dir, f))
	}

	b, err := os.ReadFile(filepath.Join(dir, tradeHistoryFile))
	require.NoError(t, err)
	require.Equal(t,
		"run_id,date,instrument_id,side,value,quantity,price\n"+
			first.RunID.String()+",2021-03-01,A,BUY,50.00,5,10\n"+
			second.RunID.String()+",2021-03-01,A,BUY,50.00,5,10\n",
		string(b),
	)
}

func TestSqliteHistoryRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSqliteHistoryRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer repo.Close()

	history := testRunHistory()
	require.NoError(t, repo.Save(ctx, history))

	db := repo.(sqliteHistoryRepositoryHandler).Db

	var numTrades int
	var totalValue string
	err = db.QueryRow(`SELECT num_trades, total_value FROM period_history WHERE run_id = ?`, history.RunID.String()).Scan(&numTrades, &totalValue)
	require.NoError(t, err)
	require.Equal(t, 1, numTrades)
	require.Equal(t, "1000", totalValue)

	// run ids are unique
	require.Error(t, repo.Save(ctx, history))
}
