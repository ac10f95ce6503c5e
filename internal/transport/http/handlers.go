package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/quote"
)

type compareRequest struct {
	connector.QuoteRequest
	Criteria quote.Criteria `json:"criteria,omitempty"`
}

func (h *Handler) handleCompareQuotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.Customer.ID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "customer id is required")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "insurance type is required")
		return
	}
	if req.Criteria != "" && !req.Criteria.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", "unknown ranking criteria")
		return
	}

	result, err := h.quotes.Compare(ctx, req.QuoteRequest, req.Criteria)
	if err != nil {
		if errors.Is(err, quote.ErrNoEligibleSource) {
			writeError(w, http.StatusServiceUnavailable, "no_eligible_source", "no connector can quote this request right now")
			return
		}
		h.logger.ErrorContext(ctx, "quote comparison failed",
			"customer", req.Customer.ID,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal", "quote comparison failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleAnalyzeCoverage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var profile domain.CustomerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if profile.Customer.ID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "customer id is required")
		return
	}

	writeJSON(w, http.StatusOK, h.analyzer.Analyze(ctx, profile))
}

func (h *Handler) handleListConnectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"connectors": h.directory.List(),
	})
}

func (h *Handler) handleConnectorHealth(w http.ResponseWriter, r *http.Request) {
	id := domain.ConnectorID(chi.URLParam(r, "id"))
	health, ok := h.directory.Health(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "connector not registered")
		return
	}
	writeJSON(w, http.StatusOK, health)
}

func (h *Handler) handleSystemHealth(w http.ResponseWriter, r *http.Request) {
	health := h.directory.SystemHealth()
	status := http.StatusOK
	if health.Status == "down" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError keeps the error envelope uniform across endpoints.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
