package sync

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/apps/backend/features/job"
)

type memCheckpoints struct {
	cursor time.Time
	err    error
	sets   int
}

func (m *memCheckpoints) Get(ctx context.Context) (time.Time, error) { return m.cursor, m.err }
func (m *memCheckpoints) Set(ctx context.Context, cursor time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.cursor = cursor
	m.sets++
	return nil
}

func nsqMessage(body []byte) *nsq.Message {
	return nsq.NewMessage(nsq.MessageID{}, body)
}

func TestConsumer_HandlesBatch(t *testing.T) {
	store := newMockStore()
	checkpoints := &memCheckpoints{}
	consumer := NewConsumer(newTestService(&mockEmbedder{}, store), checkpoints)

	updated := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	body, err := json.Marshal(TaskPayload{
		Postings:      []job.RawPosting{rawPosting("src-9", "design pipelines", updated)},
		CorrelationID: "corr-1",
	})
	require.NoError(t, err)

	require.NoError(t, consumer.HandleMessage(nsqMessage(body)))
	assert.Len(t, store.upserts, 1)
	assert.Equal(t, 1, checkpoints.sets)
	assert.Equal(t, updated, checkpoints.cursor)
}

func TestConsumer_PoisonPillDropped(t *testing.T) {
	consumer := NewConsumer(newTestService(&mockEmbedder{}, newMockStore()), &memCheckpoints{})

	err := consumer.HandleMessage(nsqMessage([]byte("{not json")))
	assert.NoError(t, err, "malformed payloads must not requeue forever")
}

func TestConsumer_EmptyBodyIgnored(t *testing.T) {
	consumer := NewConsumer(newTestService(&mockEmbedder{}, newMockStore()), &memCheckpoints{})
	assert.NoError(t, consumer.HandleMessage(nsqMessage(nil)))
}

func TestConsumer_SyncFailureRequeues(t *testing.T) {
	store := newMockStore()
	store.upsertErr = assert.AnError
	checkpoints := &memCheckpoints{}
	consumer := NewConsumer(newTestService(&mockEmbedder{}, store), checkpoints)

	body, _ := json.Marshal(TaskPayload{
		Postings: []job.RawPosting{rawPosting("src-9", "design pipelines", time.Now())},
	})

	err := consumer.HandleMessage(nsqMessage(body))
	assert.Error(t, err, "failed batches go back to the queue")
	assert.Equal(t, 0, checkpoints.sets, "checkpoint must not advance past unindexed postings")
}
