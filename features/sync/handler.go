package sync

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

type syncResponse struct {
	LastUpdatedAtTime *time.Time `json:"last_updated_at_time"`
}

// Sync handles POST /sync: a pushed batch of raw postings is normalized and
// indexed synchronously. The checkpoint is left to the queue path; callers
// pushing directly get the cursor back and own it.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	var payload TaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "VALIDATION_ERROR", "invalid request body", http.StatusBadRequest)
		return
	}

	if len(payload.Postings) == 0 {
		writeJSON(w, syncResponse{}, http.StatusOK)
		return
	}

	cursor, err := h.service.SyncBatch(r.Context(), payload.Postings)
	if err != nil {
		slog.ErrorContext(r.Context(), "sync failed", "error", err, "postings", len(payload.Postings))
		writeError(w, "SYNC_FAILED", "failed to index postings", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, syncResponse{LastUpdatedAtTime: &cursor}, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, body any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	writeJSON(w, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}
