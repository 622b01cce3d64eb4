package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rogerio-castellano/inventory-ledger/docs"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/metrics"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type RouterConfig struct {
	Server  *handlers.Server
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	// Gatherer backs /metrics. Nil leaves the endpoint unmounted.
	Gatherer prometheus.Gatherer
	// RateLimit.Limiter nil disables rate limiting.
	RateLimit RateLimitPolicy
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	s := cfg.Server

	r := chi.NewRouter()
	r.Use(RequestContext(log))
	r.Use(AccessLog(log, cfg.Metrics))
	r.Use(Recoverer(log))

	r.Get("/healthz", s.HealthHandler)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit.Limiter != nil {
			r.Use(RateLimit(cfg.RateLimit, log))
		}
		r.Use(Identity(s.Tokens()))

		r.Post("/users", s.RegisterHandler)
		r.Post("/login", s.LoginHandler)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.GetProductsHandler)
			r.Post("/", s.CreateProductHandler)
			r.Get("/search", s.FilterProductsHandler)
			r.Post("/import", s.ImportProductsHandler)
			r.Get("/{id}", s.GetProductByIDHandler)
			r.Put("/{id}", s.UpdateProductHandler)
			r.Delete("/{id}", s.DeleteProductHandler)
			r.Get("/{id}/transactions", s.GetProductTransactionsHandler)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", s.GetSuppliersHandler)
			r.Post("/", s.CreateSupplierHandler)
			r.Get("/{id}", s.GetSupplierByIDHandler)
			r.Put("/{id}", s.UpdateSupplierHandler)
			r.Delete("/{id}", s.DeleteSupplierHandler)
		})

		r.Get("/categories", s.GetCategoriesHandler)
		r.Post("/categories", s.CreateCategoryHandler)

		r.Get("/transactions", s.GetTransactionsHandler)
		r.Post("/transactions", s.CreateTransactionHandler)
		r.Get("/transactions/export", s.ExportTransactionsHandler)

		r.Get("/dashboard/stats", s.GetDashboardStatsHandler)
		r.Get("/reports/low-stock", s.GetLowStockReportHandler)
		r.Get("/reports/stock-valuation", s.GetStockValuationHandler)
	})

	return r
}
