package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/haldies/olist-dashboard/internal/dataset"
	"github.com/haldies/olist-dashboard/internal/logger"
)

type application struct {
	config config
	logger *logger.Logger
	cache  *dataset.Cache
}

type config struct {
	addr       string
	orderLimit int
	dataset    datasetConfig
}

type datasetConfig struct {
	dashboardPath string
	localPath     string
	url           string
}

// sources builds the load chain. With no overrides set, the fixed default
// resolution order applies.
func (cfg datasetConfig) sources() []dataset.Source {
	if cfg.dashboardPath == "" && cfg.localPath == "" && cfg.url == "" {
		return dataset.DefaultSources()
	}

	var srcs []dataset.Source
	if cfg.dashboardPath != "" {
		srcs = append(srcs, dataset.FileSource{Path: cfg.dashboardPath})
	}
	if cfg.localPath != "" {
		srcs = append(srcs, dataset.FileSource{Path: cfg.localPath})
	}
	if cfg.url != "" {
		srcs = append(srcs, dataset.URLSource{URL: cfg.url})
	}
	return srcs
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/options", app.handleGetOptions)
			r.Get("/kpis", app.handleGetKPIs)
			r.Get("/orders", app.handleGetOrders)
			r.Get("/sales/monthly", app.handleGetMonthlySales)
			r.Get("/states/top", app.handleGetTopStates)
			r.Get("/categories/ratings", app.handleGetCategoryRatings)
			r.Get("/categories/sales", app.handleGetCategorySales)
			r.Get("/rfm", app.handleGetRFM)
			r.Get("/segments", app.handleGetSegments)
			r.Get("/stats", app.handleGetStats)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.logger.Info("Server", "Server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
