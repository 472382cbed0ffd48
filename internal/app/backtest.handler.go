package app

import (
	"context"
	"fmt"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/logger"
	"portfoliosim/internal/repository"
	l1_service "portfoliosim/internal/service/l1"
)

type BacktestHandler struct {
	// nil skips the export
	HistoryRepository repository.HistoryRepository
}

type BacktestInput struct {
	Store   *l1_service.PriceHistoryStore
	Options SimulationOptions
}

// Backtest drives a simulation from start to finish and exports its history
func (h BacktestHandler) Backtest(ctx context.Context, in BacktestInput) (*RunResult, error) {
	log := logger.FromContext(ctx)
	profile, endProfile := domain.NewProfile()
	ctx = context.WithValue(ctx, domain.ContextProfileKey, profile)

	sim := NewSimulation(in.Store)
	if err := sim.Start(ctx, in.Options); err != nil {
		return nil, err
	}

	for {
		more, err := sim.AdvancePeriod(ctx)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	result, err := sim.Finalize(ctx)
	if err != nil {
		return nil, err
	}

	if h.HistoryRepository != nil {
		_, endSpan := profile.StartNewSpan("export")
		err := h.HistoryRepository.Save(ctx, result.History)
		endSpan()
		if err != nil {
			return nil, fmt.Errorf("failed to export run %s: %w", result.RunID, err)
		}
	}

	endProfile()
	result.Timings = profile.ElapsedByName()
	log.Debugf("run %s timings (ms): %v", result.RunID, result.Timings)

	return result, nil
}
