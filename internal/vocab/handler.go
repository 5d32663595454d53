package vocab

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

func (h *Handler) GetVocabulary(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Get(r.Context())
	if err != nil {
		h.writeError(w, "INTERNAL_ERROR", "failed to load vocabulary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": v}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) UpdateVocabulary(w http.ResponseWriter, r *http.Request) {
	var v Vocabulary
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		h.writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
		return
	}

	if v.EnabledFlag == "" || len(v.NoticePeriods) == 0 {
		h.writeError(w, "VALIDATION_ERROR", "enabled_flag and notice_periods are required", http.StatusBadRequest)
		return
	}

	if err := h.service.Update(r.Context(), &v); err != nil {
		slog.Error("failed to update vocabulary", "error", err)
		h.writeError(w, "INTERNAL_ERROR", "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": v}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}
