package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	budgeterrors "planora/contexts/event-planning/budget-service/domain/errors"
	budgethttp "planora/contexts/event-planning/budget-service/transport/http"
)

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := budgethttp.ListPackagesRequest{
		EventType:  query.Get("event_type"),
		Categories: splitCategories(query.Get("categories")),
	}

	resp, err := s.budget.Handler.ListPackagesHandler(r.Context(), req)
	if err != nil {
		writeBudgetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyPackage(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		writeBudgetError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	req := budgethttp.ApplyPackageRequest{PackageID: r.PathValue("package_id")}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBudgetError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
		if req.PackageID == "" {
			req.PackageID = r.PathValue("package_id")
		}
	}

	resp, err := s.budget.Handler.ApplyPackageHandler(
		r.Context(),
		actorID,
		r.PathValue("event_id"),
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		if errors.Is(err, budgeterrors.ErrPartialApply) {
			// Surface the per-step flags so the caller can retry the
			// dependent steps without re-recording the application.
			writeJSON(w, http.StatusInternalServerError, resp)
			return
		}
		writeBudgetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBreakdown(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		writeBudgetError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	req := budgethttp.GetBreakdownRequest{
		EventID:    r.PathValue("event_id"),
		Categories: splitCategories(r.URL.Query().Get("categories")),
	}
	resp, err := s.budget.Handler.GetBreakdownHandler(r.Context(), actorID, req)
	if err != nil {
		writeBudgetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyAdjustments(w http.ResponseWriter, r *http.Request) {
	actorID := r.Header.Get("X-User-Id")
	if actorID == "" {
		writeBudgetError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req budgethttp.ApplyAdjustmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBudgetError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.budget.Handler.ApplyAdjustmentsHandler(r.Context(), actorID, r.PathValue("event_id"), req)
	if err != nil {
		writeBudgetDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBudgetDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, budgeterrors.ErrInvalidInput):
		writeBudgetError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, budgeterrors.ErrEventNotFound):
		writeBudgetError(w, http.StatusNotFound, "event_not_found", err.Error())
	case errors.Is(err, budgeterrors.ErrPackageNotFound):
		writeBudgetError(w, http.StatusNotFound, "package_not_found", err.Error())
	case errors.Is(err, budgeterrors.ErrPackageInactive):
		writeBudgetError(w, http.StatusConflict, "package_inactive", err.Error())
	case errors.Is(err, budgeterrors.ErrPackageIncompatible):
		writeBudgetError(w, http.StatusConflict, "package_incompatible", err.Error())
	case errors.Is(err, budgeterrors.ErrNotOwner):
		writeBudgetError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, budgeterrors.ErrIdempotencyKeyConflict):
		writeBudgetError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, budgeterrors.ErrStorageUnavailable):
		writeBudgetError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	default:
		writeBudgetError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBudgetError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, budgethttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func splitCategories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, part := range parts {
		categories = append(categories, strings.TrimSpace(part))
	}
	return categories
}
