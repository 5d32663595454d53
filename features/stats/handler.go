// Package stats exposes operational counters for the posting index.
package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type VectorStore interface {
	CountPostings(ctx context.Context) (int, error)
}

type Checkpoints interface {
	Get(ctx context.Context) (time.Time, error)
}

type Handler struct {
	store       VectorStore
	checkpoints Checkpoints
}

func NewHandler(store VectorStore, checkpoints Checkpoints) *Handler {
	return &Handler{store: store, checkpoints: checkpoints}
}

type response struct {
	Postings       int        `json:"postings"`
	LastSyncCursor *time.Time `json:"last_sync_cursor"`
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountPostings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to count postings", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "STATS_UNAVAILABLE", "message": "index unavailable"},
		})
		return
	}

	resp := response{Postings: count}
	if cursor, err := h.checkpoints.Get(r.Context()); err == nil && !cursor.IsZero() {
		resp.LastSyncCursor = &cursor
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}
