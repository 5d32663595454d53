package search

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/apps/backend/internal/middleware"
)

func TestQueryLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	l := NewQueryLogger(&buf)

	ctx := middleware.WithCorrelationID(context.Background(), "corr-42")
	l.Log(ctx, QueryLogEntry{
		ResumeChars: 1200,
		NumResults:  17,
		Duration:    150 * time.Millisecond,
	})

	var entry QueryLogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, 1200, entry.ResumeChars)
	assert.Equal(t, 17, entry.NumResults)
	assert.Equal(t, int64(150), entry.LatencyMs)
	assert.Equal(t, "corr-42", entry.CorrelationID)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestQueryLogger_NoCorrelation(t *testing.T) {
	var buf bytes.Buffer
	l := NewQueryLogger(&buf)

	l.Log(context.Background(), QueryLogEntry{ResumeChars: 10})

	var entry QueryLogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "unknown", entry.CorrelationID)
}
