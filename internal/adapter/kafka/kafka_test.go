package kafka

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/weather-analysis/internal/config"
	"github.com/couchcryptid/weather-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	summary := domain.MonthlySummary{
		Month:        "2023-01",
		Temperature:  ptr(11),
		Rainfall:     ptr(5),
		Humidity:     nil,
		Observations: 3,
		GeneratedAt:  now,
	}

	msg, err := serializeToMessage(summary)
	require.NoError(t, err)

	assert.Equal(t, []byte("2023-01"), msg.Key)
	assert.JSONEq(t, `{
		"month": "2023-01",
		"temperature": 11,
		"rainfall": 5,
		"humidity": null,
		"observations": 3,
		"generated_at": "2024-04-26T15:10:00Z"
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "month", msg.Headers[0].Key)
	assert.Equal(t, []byte("2023-01"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestPublish_EmptyIsNoop(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaSummaryTopic: "weather-monthly-summaries"}
	w := NewWriter(cfg, slog.New(slog.DiscardHandler))
	defer w.Close()

	require.NoError(t, w.Publish(context.Background(), nil))
}

func TestPublish_UnreachableBroker(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaSummaryTopic: "weather-monthly-summaries"}
	w := NewWriter(cfg, slog.New(slog.DiscardHandler))
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := w.Publish(ctx, []domain.MonthlySummary{{Month: "2023-01"}})
	require.ErrorIs(t, err, domain.ErrIO)
}
