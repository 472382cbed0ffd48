package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfoliosim/internal/app"
	"portfoliosim/internal/config"
	"portfoliosim/internal/domain"
	l1_service "portfoliosim/internal/service/l1"
	"portfoliosim/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testHandler(t *testing.T) ApiHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	refs := []domain.InstrumentRef{
		{InstrumentID: "A", Manager: "Acme", Name: "Slow", MinTicketSize: 1000},
		{InstrumentID: "B", Manager: "Acme", Name: "Fast", MinTicketSize: 1000},
	}
	prices := []domain.PricePoint{}
	start := util.NewDate(2020, 1, 1)
	for id, g := range map[string]float64{"A": 1.001, "B": 1.002} {
		for i := 0; i < 120; i++ {
			prices = append(prices, domain.PricePoint{
				InstrumentID: id,
				Date:         start.AddDate(0, 0, i),
				Price:        100 * math.Pow(g, float64(i)),
			})
		}
	}
	store, err := l1_service.NewPriceHistoryStore(refs, prices)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Simulation.HorizonDays = 2
	cfg.Simulation.MinHistDays = 3
	cfg.Simulation.MinLookbackDays = 3
	cfg.Simulation.TopThres = 2

	return ApiHandler{
		Store:           store,
		BacktestHandler: app.BacktestHandler{},
		Config:          cfg,
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListInstruments(t *testing.T) {
	router := testHandler(t).InitializeRouterEngine()

	w := doRequest(t, router, http.MethodGet, "/instruments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response ListInstrumentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	first, last := "2020-01-01", "2020-04-29"
	expected := ListInstrumentsResponse{
		Instruments: []InstrumentResponse{
			{InstrumentID: "A", Manager: "Acme", Name: "Slow", MinTicketSize: 1000},
			{InstrumentID: "B", Manager: "Acme", Name: "Fast", MinTicketSize: 1000},
		},
		FirstDate: &first,
		LastDate:  &last,
	}
	require.Equal(t, "", cmp.Diff(expected, response))
}

func TestBacktest(t *testing.T) {
	router := testHandler(t).InitializeRouterEngine()

	t.Run("runs with request overrides", func(t *testing.T) {
		cash := 10_000.0
		w := doRequest(t, router, http.MethodPost, "/backtest", BacktestRequest{
			DateStart:  "2020-01-15",
			DateFinish: "2020-04-15",
			CashStart:  util.FloatPointer(cash),
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var response BacktestResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.NotEmpty(t, response.RunID)
		require.Len(t, response.Periods, 4)
		require.Equal(t, "2020-01-15", response.Periods[0].Date)
		require.Equal(t, "2020-04-01", response.Periods[3].Date)
		require.NotNil(t, response.Metrics)
		require.NotEmpty(t, response.Holdings)
		require.InDelta(t, cash, response.TotalValue, cash)
	})

	t.Run("missing dates is a bad request", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/backtest", BacktestRequest{})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("dates outside the price history", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/backtest", BacktestRequest{
			DateStart:  "2019-01-01",
			DateFinish: "2020-04-15",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid selection", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/backtest", BacktestRequest{
			DateStart:  "2020-01-15",
			DateFinish: "2020-04-15",
			TopThres:   util.IntPointer(0),
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/backtest", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
