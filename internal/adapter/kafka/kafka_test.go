package kafka

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uk-accident-insights/internal/config"
	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	notice := domain.ExtractNotice{
		Year:        2016,
		Path:        "data/processed/uk_accidents_2016.csv",
		Rows:        136621,
		Columns:     domain.ExtractColumns,
		GeneratedAt: now,
	}

	msg, err := serializeToMessage(notice)
	require.NoError(t, err)

	assert.Equal(t, []byte("2016"), msg.Key)
	assert.Contains(t, string(msg.Value), `"path":"data/processed/uk_accidents_2016.csv"`)
	assert.Contains(t, string(msg.Value), `"rows":136621`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "year", msg.Headers[0].Key)
	assert.Equal(t, []byte("2016"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded domain.ExtractNotice
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, notice, decoded)
}

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "accident-extracts"}

	w := NewWriter(cfg, slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "accident-extracts", w.writer.Topic)
	assert.Equal(t, "localhost:9092", w.writer.Addr.String())
}
