package api

import (
	"fmt"

	"portfoliosim/internal/app"
	"portfoliosim/internal/domain"
	"portfoliosim/internal/util"

	"github.com/gin-gonic/gin"
)

type BacktestRequest struct {
	DateStart         string   `json:"dateStart"`
	DateFinish        string   `json:"dateFinish"`
	CashStart         *float64 `json:"cashStart"`
	TopThres          *int     `json:"topThres"`
	MinThres          *float64 `json:"minThres"`
	RiskPower         *float64 `json:"riskPower"`
	DecayHalfLifeDays *float64 `json:"decayHalfLifeDays"`
	HorizonDays       *int     `json:"horizonDays"`
	MinHistDays       *int     `json:"minHistDays"`
	MinLookbackDays   *int     `json:"minLookbackDays"`
}

type MetricsResponse struct {
	TotalReturn      float64 `json:"totalReturn"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
	AnnualizedStdev  float64 `json:"annualizedStdev"`
	SharpeRatio      float64 `json:"sharpeRatio"`
	MaxDrawdown      float64 `json:"maxDrawdown"`
}

type HoldingResponse struct {
	InstrumentID string  `json:"instrumentID"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Price        float64 `json:"price"`
	Value        string  `json:"value"`
	Weight       float64 `json:"weight"`
}

type PeriodResponse struct {
	Date          string `json:"date"`
	Mode          string `json:"mode"`
	Cash          string `json:"cash"`
	InvestedValue string `json:"investedValue"`
	TotalValue    string `json:"totalValue"`
	NumTrades     int    `json:"numTrades"`
}

type BacktestResponse struct {
	RunID      string            `json:"runID"`
	TotalValue float64           `json:"totalValue"`
	Cash       float64           `json:"cash"`
	Metrics    *MetricsResponse  `json:"metrics"`
	Holdings   []HoldingResponse `json:"holdings"`
	Periods    []PeriodResponse  `json:"periods"`
}

func (m ApiHandler) simulationOptions(req BacktestRequest) (*app.SimulationOptions, error) {
	cfg := m.Config
	if req.DateStart != "" {
		cfg.Simulation.DateStart = req.DateStart
	}
	if req.DateFinish != "" {
		cfg.Simulation.DateFinish = req.DateFinish
	}
	if req.CashStart != nil {
		cfg.Simulation.CashStart = *req.CashStart
	}
	if req.TopThres != nil {
		cfg.Simulation.TopThres = *req.TopThres
	}
	if req.MinThres != nil {
		cfg.Simulation.MinThres = *req.MinThres
	}
	if req.RiskPower != nil {
		cfg.Simulation.RiskPower = *req.RiskPower
	}
	if req.DecayHalfLifeDays != nil {
		cfg.Simulation.DecayHalfLifeDays = *req.DecayHalfLifeDays
	}
	if req.HorizonDays != nil {
		cfg.Simulation.HorizonDays = *req.HorizonDays
	}
	if req.MinHistDays != nil {
		cfg.Simulation.MinHistDays = *req.MinHistDays
	}
	if req.MinLookbackDays != nil {
		cfg.Simulation.MinLookbackDays = *req.MinLookbackDays
	}
	return cfg.SimulationOptions()
}

func (m ApiHandler) backtest(c *gin.Context) {
	var requestBody BacktestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(fmt.Errorf("invalid request body: %s: %w", err.Error(), domain.ErrConfiguration), c)
		return
	}

	opts, err := m.simulationOptions(requestBody)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	result, err := m.BacktestHandler.Backtest(c.Request.Context(), app.BacktestInput{
		Store:   m.Store,
		Options: *opts,
	})
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to run backtest: %w", err), c)
		return
	}

	response := BacktestResponse{
		RunID:      result.RunID.String(),
		TotalValue: result.TotalValue,
		Cash:       result.FinalPortfolio.Cash.InexactFloat64(),
		Holdings:   []HoldingResponse{},
		Periods:    []PeriodResponse{},
	}
	if result.Metrics != nil {
		response.Metrics = &MetricsResponse{
			TotalReturn:      result.Metrics.TotalReturn,
			AnnualizedReturn: result.Metrics.AnnualizedReturn,
			AnnualizedStdev:  result.Metrics.AnnualizedStdev,
			SharpeRatio:      result.Metrics.SharpeRatio,
			MaxDrawdown:      result.Metrics.MaxDrawdown,
		}
	}
	for _, v := range result.Valuation {
		response.Holdings = append(response.Holdings, HoldingResponse{
			InstrumentID: v.InstrumentID,
			Name:         v.Name,
			Quantity:     v.Quantity,
			Price:        v.Price,
			Value:        v.Value.StringFixed(2),
			Weight:       v.Weight,
		})
	}
	for _, p := range result.History.Periods {
		response.Periods = append(response.Periods, PeriodResponse{
			Date:          util.FormatDate(p.Date),
			Mode:          string(p.Mode),
			Cash:          p.Cash.StringFixed(2),
			InvestedValue: p.InvestedValue.StringFixed(2),
			TotalValue:    p.TotalValue.StringFixed(2),
			NumTrades:     p.NumTrades,
		})
	}

	c.JSON(200, response)
}
