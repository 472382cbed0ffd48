package cmd

import (
	"context"
	"fmt"

	"portfoliosim/api"
	"portfoliosim/internal/app"
	"portfoliosim/internal/config"
	"portfoliosim/internal/logger"
	"portfoliosim/internal/repository"
	l1_service "portfoliosim/internal/service/l1"
)

type Dependencies struct {
	Config            config.Config
	PriceService      l1_service.PriceService
	HistoryRepository repository.HistoryRepository
	BacktestHandler   app.BacktestHandler
}

func CloseDependencies(ctx context.Context, deps *Dependencies) {
	if deps == nil || deps.HistoryRepository == nil {
		return
	}
	if err := deps.HistoryRepository.Close(); err != nil {
		logger.FromContext(ctx).Errorf("failed to close history sinks: %v", err)
	}
}

// InitializeDependencies wires repositories and services from cfg. Every
// export sink set in cfg.Export is opened; none set means runs are not saved.
func InitializeDependencies(ctx context.Context, cfg config.Config) (*Dependencies, error) {
	referenceRepository := repository.NewReferenceRepository(cfg.Data.ReferenceFile)
	adjPriceRepository := repository.NewAdjustedPriceRepository(cfg.Data.PricesFile)
	marketDataRepository := repository.NewYahooRepository()

	priceService := l1_service.NewPriceService(
		referenceRepository,
		adjPriceRepository,
		marketDataRepository,
	)

	sinks := []repository.HistoryRepository{}
	closeSinks := func() {
		for _, s := range sinks {
			s.Close()
		}
	}
	if cfg.Export.CsvDir != "" {
		csvRepository, err := repository.NewCsvHistoryRepository(cfg.Export.CsvDir)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, csvRepository)
	}
	if cfg.Export.SqlitePath != "" {
		sqliteRepository, err := repository.NewSqliteHistoryRepository(cfg.Export.SqlitePath)
		if err != nil {
			closeSinks()
			return nil, err
		}
		sinks = append(sinks, sqliteRepository)
	}
	if cfg.Export.PostgresDsn != "" {
		postgresRepository, err := repository.NewPostgresHistoryRepository(ctx, cfg.Export.PostgresDsn)
		if err != nil {
			closeSinks()
			return nil, err
		}
		sinks = append(sinks, postgresRepository)
	}

	var historyRepository repository.HistoryRepository
	if len(sinks) > 0 {
		historyRepository = repository.NewMultiHistoryRepository(sinks...)
	}

	return &Dependencies{
		Config:            cfg,
		PriceService:      priceService,
		HistoryRepository: historyRepository,
		BacktestHandler: app.BacktestHandler{
			HistoryRepository: historyRepository,
		},
	}, nil
}

// NewApiHandler loads the price history once; every request runs against it.
func NewApiHandler(ctx context.Context, deps *Dependencies) (*api.ApiHandler, error) {
	store, err := deps.PriceService.LoadPriceHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	return &api.ApiHandler{
		Store:           store,
		BacktestHandler: deps.BacktestHandler,
		Config:          deps.Config,
		Logger:          logger.FromContext(ctx),
	}, nil
}
