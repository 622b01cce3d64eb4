package handlers

import (
	"net/http"
)

// GetDashboardStatsHandler godoc
// @Summary Dashboard aggregates
// @Description recent_transactions counts transactions created since the start of the current UTC day
// @Tags reports
// @Produce json
// @Success 200 {object} repo.DashboardStats
// @Failure 500 {object} ErrorResponse
// @Router /api/dashboard/stats [get]
func (s *Server) GetDashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repos.Reports.DashboardStats(r.Context(), s.startOfDay())
	if err != nil {
		s.internalError(w, r, "could not compute dashboard stats", err)
		return
	}
	s.respond(w, r, http.StatusOK, stats)
}

// GetLowStockReportHandler godoc
// @Summary Products at or below their reorder level
// @Tags reports
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /api/reports/low-stock [get]
func (s *Server) GetLowStockReportHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.repos.Reports.LowStock(r.Context())
	if err != nil {
		s.internalError(w, r, "could not compute low stock report", err)
		return
	}
	s.respond(w, r, http.StatusOK, products)
}

// GetStockValuationHandler godoc
// @Summary Stock value per product
// @Description One line per product with quantity * price. The grand total is sent in X-Total-Value.
// @Tags reports
// @Produce json
// @Success 200 {array} repo.ValuationLine
// @Failure 500 {object} ErrorResponse
// @Router /api/reports/stock-valuation [get]
func (s *Server) GetStockValuationHandler(w http.ResponseWriter, r *http.Request) {
	valuation, err := s.repos.Reports.StockValuation(r.Context())
	if err != nil {
		s.internalError(w, r, "could not compute stock valuation", err)
		return
	}
	s.respond(w, r, http.StatusOK, valuation.Lines, http.Header{"X-Total-Value": {valuation.Total.StringFixed(2)}})
}

// HealthHandler godoc
// @Summary Liveness and store connectivity
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.log.Error(r.Context(), "health check failed", err)
			s.respond(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	s.respond(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
