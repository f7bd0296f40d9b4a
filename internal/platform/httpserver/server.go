package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	pricingservice "planora/contexts/contractor-marketplace/pricing-service"
	budgetservice "planora/contexts/event-planning/budget-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "planora/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	pricing pricingservice.Module
	budget  budgetservice.Module
}

func New(
	pricing pricingservice.Module,
	budget budgetservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		pricing: pricing,
		budget:  budget,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /v1/pricing/quote", s.handleResolveQuote)

	s.mux.HandleFunc("GET /v1/packages", s.handleListPackages)
	s.mux.HandleFunc("POST /v1/events/{event_id}/packages/{package_id}/apply", s.handleApplyPackage)
	s.mux.HandleFunc("GET /v1/events/{event_id}/budget/breakdown", s.handleGetBreakdown)
	s.mux.HandleFunc("POST /v1/events/{event_id}/budget/adjustments", s.handleApplyAdjustments)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
