package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"talentmatch/apps/backend/internal/config"
)

// TaskPublisher pushes a payload onto a task queue topic.
type TaskPublisher interface {
	Publish(topic string, body []byte) error
}

// CheckpointReader reads the last persisted fetch cursor.
type CheckpointReader interface {
	Get(ctx context.Context) (time.Time, error)
}

// Poller periodically pulls the feed from the last checkpoint and publishes
// each batch to the sync topic. The checkpoint only advances once the
// consumer indexes the batch, so a crashed cycle re-fetches; upserts make
// that safe.
type Poller struct {
	cron        *cron.Cron
	client      *Client
	publisher   TaskPublisher
	checkpoints CheckpointReader
	spec        string
}

func NewPoller(client *Client, publisher TaskPublisher, checkpoints CheckpointReader, intervalMinutes int) *Poller {
	return &Poller{
		cron:        cron.New(),
		client:      client,
		publisher:   publisher,
		checkpoints: checkpoints,
		spec:        fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Start registers the poll job and runs one cycle immediately so a fresh
// deployment doesn't wait a full interval for its first postings.
func (p *Poller) Start(ctx context.Context) error {
	_, err := p.cron.AddFunc(p.spec, func() {
		p.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	p.cron.Start()
	slog.Info("feed poller started", "spec", p.spec)

	go p.runCycle(ctx)
	return nil
}

func (p *Poller) Stop() {
	p.cron.Stop()
	slog.Info("feed poller stopped")
}

func (p *Poller) runCycle(ctx context.Context) {
	cursor, err := p.checkpoints.Get(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "poll cycle: checkpoint read failed", "error", err)
		return
	}

	postings, err := p.client.FetchSince(ctx, cursor)
	if err != nil {
		slog.ErrorContext(ctx, "poll cycle: feed fetch failed", "error", err, "cursor", cursor)
		return
	}
	if len(postings) == 0 {
		slog.InfoContext(ctx, "poll cycle: feed up to date", "cursor", cursor)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"jobs_updated_since": postings,
		"correlation_id":     uuid.NewString(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "poll cycle: marshal payload failed", "error", err)
		return
	}

	if err := p.publisher.Publish(config.TopicJobsSync, payload); err != nil {
		slog.ErrorContext(ctx, "poll cycle: publish failed", "error", err)
		return
	}

	slog.InfoContext(ctx, "poll cycle: batch published", "postings", len(postings), "cursor", cursor)
}
