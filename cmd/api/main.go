package main

import (
	"context"
	"os"

	"portfoliosim/cmd"
	"portfoliosim/internal/config"
	"portfoliosim/internal/logger"
)

func main() {
	lg := logger.New()
	defer lg.Sync()
	ctx := logger.WithLogger(context.Background(), lg)

	cfg, err := config.Load(os.Getenv("BACKTEST_CONFIG"))
	if err != nil {
		lg.Fatal(err)
	}
	if err := cfg.Validate(false); err != nil {
		lg.Fatal(err)
	}

	deps, err := cmd.InitializeDependencies(ctx, *cfg)
	if err != nil {
		lg.Fatal(err)
	}
	defer cmd.CloseDependencies(ctx, deps)

	apiHandler, err := cmd.NewApiHandler(ctx, deps)
	if err != nil {
		lg.Fatal(err)
	}
	if err := apiHandler.StartApi(cfg.Api.Port); err != nil {
		lg.Fatal(err)
	}
}
