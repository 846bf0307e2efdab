package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/haldies/olist-dashboard/internal/dataset"
	"github.com/haldies/olist-dashboard/internal/env"
	"github.com/haldies/olist-dashboard/internal/logger"
)

func main() {
	const component = "Main"

	// Optional .env file for local runs.
	_ = godotenv.Load()

	appLogger := logger.New(logger.ParseLevel(env.GetString("LOG_LEVEL", "info")))

	cfg := config{
		addr:       env.GetString("ADDR", ":8080"),
		orderLimit: env.GetInt("ORDERS_DEFAULT_LIMIT", 100),
		dataset: datasetConfig{
			dashboardPath: env.GetString("DATASET_DASHBOARD_PATH", ""),
			localPath:     env.GetString("DATASET_LOCAL_PATH", ""),
			url:           env.GetString("DATASET_URL", ""),
		},
	}

	app := &application{
		config: cfg,
		logger: appLogger,
		cache:  dataset.NewCache(cfg.dataset.sources(), appLogger),
	}

	// Warm the memoized load. Exhausting every source is not fatal: the API
	// stays up and reports the empty state until a source comes back.
	if res, err := app.cache.Get(); err != nil {
		appLogger.Warn(component, "Initial data load failed, serving empty state: %v", err)
	} else {
		appLogger.Info(component, "Dataset ready: source=%s rows=%d", res.Source, res.Frame.Nrow())
	}

	mux := app.mount()

	log.Fatal(app.run(mux))
}
