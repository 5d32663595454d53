package sync

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nsqio/go-nsq"

	"talentmatch/apps/backend/features/job"
	"talentmatch/apps/backend/internal/middleware"
)

// TaskPayload is the queue message carrying a batch of raw postings pulled
// from the upstream feed.
type TaskPayload struct {
	Postings      []job.RawPosting `json:"jobs_updated_since"`
	CorrelationID string           `json:"correlation_id,omitempty"`
}

// Consumer processes sync batches off the task queue. A failed batch is
// requeued; the checkpoint only advances after the whole batch is indexed.
type Consumer struct {
	service     *Service
	checkpoints Checkpoints
}

func NewConsumer(s *Service, c Checkpoints) *Consumer {
	return &Consumer{service: s, checkpoints: c}
}

func (h *Consumer) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var payload TaskPayload
	if err := json.Unmarshal(m.Body, &payload); err != nil {
		// Poison Pill: Invalid JSON, don't retry
		slog.Error("poison pill: invalid json", "error", err)
		return nil
	}

	ctx := context.Background()
	if payload.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, payload.CorrelationID)
	}

	if len(payload.Postings) == 0 {
		slog.InfoContext(ctx, "sync batch empty, nothing to do")
		return nil
	}

	cursor, err := h.service.SyncBatch(ctx, payload.Postings)
	if err != nil {
		slog.ErrorContext(ctx, "sync batch failed", "error", err, "postings", len(payload.Postings))
		return err // Retry
	}

	if err := h.checkpoints.Set(ctx, cursor); err != nil {
		// Postings are indexed; a stale cursor only means the next poll
		// re-fetches records the upsert path already handles.
		slog.ErrorContext(ctx, "checkpoint update failed", "error", err, "cursor", cursor)
		return nil
	}

	slog.InfoContext(ctx, "sync batch indexed", "postings", len(payload.Postings), "cursor", cursor)
	return nil
}
