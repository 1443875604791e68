package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configures the middleware stack around the debt endpoints.
type RouterOptions struct {
	Logger         *slog.Logger
	RateLimitRPS   float64
	RateLimitBurst int
}

// SetupRoutes builds the HTTP router. Each router owns its metrics registry.
func SetupRoutes(debtService *DebtService, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	r := chi.NewRouter()
	r.Use(Recoverer(logger))
	r.Use(RequestLogger(logger))
	r.Use(metrics.Handler)
	if opts.RateLimitRPS > 0 {
		r.Use(NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, logger).Handler)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/debt", func(r chi.Router) {
		r.Get("/", debtService.ListDebt)
		r.Get("/summary", debtService.GetSummary)
		r.Get("/export", debtService.Export)
		r.Get("/{year}", debtService.GetYear)
	})

	return r
}
