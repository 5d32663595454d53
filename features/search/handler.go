package search

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search handles POST /jobs/search. Structurally invalid payloads are
// rejected here; everything else reaches the service, which degrades
// missing fields to an empty result set.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var q CandidateQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		h.writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.service.Search(r.Context(), q)
	if err != nil {
		slog.ErrorContext(r.Context(), "search failed", "error", err)
		h.writeError(w, "SEARCH_UNAVAILABLE", "search backend unavailable, retry later", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}
