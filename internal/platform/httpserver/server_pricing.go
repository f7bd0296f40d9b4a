package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	pricingerrors "planora/contexts/contractor-marketplace/pricing-service/domain/errors"
	pricinghttp "planora/contexts/contractor-marketplace/pricing-service/transport/http"
)

func (s *Server) handleResolveQuote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := pricinghttp.ResolveQuoteRequest{
		ServiceType: query.Get("service_type"),
		Address:     query.Get("address"),
		Seasonal:    query.Get("seasonal") == "true",
		EventDate:   query.Get("event_date"),
	}

	if raw := query.Get("lat"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writePricingError(w, http.StatusBadRequest, "invalid_lat", "lat must be a number")
			return
		}
		req.Latitude = &lat
	}
	if raw := query.Get("lng"); raw != "" {
		lng, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writePricingError(w, http.StatusBadRequest, "invalid_lng", "lng must be a number")
			return
		}
		req.Longitude = &lng
	}

	resp, err := s.pricing.Handler.ResolveQuoteHandler(r.Context(), req)
	if err != nil {
		writePricingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePricingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricingerrors.ErrInvalidInput):
		writePricingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, pricingerrors.ErrNoBasePricing):
		writePricingError(w, http.StatusNotFound, "no_base_pricing", err.Error())
	case errors.Is(err, pricingerrors.ErrPricingUnavailable):
		writePricingError(w, http.StatusServiceUnavailable, "pricing_unavailable", err.Error())
	default:
		writePricingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePricingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, pricinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
