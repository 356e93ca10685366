// Package kafka publishes extract notices to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/uk-accident-insights/internal/config"
	"github.com/couchcryptid/uk-accident-insights/internal/domain"
)

// Writer produces extract notices to a Kafka topic.
// It implements pipeline.Notifier.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured notice topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	return &Writer{writer: w, logger: logger}
}

// Notify publishes one notice keyed by its year.
func (w *Writer) Notify(ctx context.Context, notice domain.ExtractNotice) error {
	msg, err := serializeToMessage(notice)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish extract notice: %w", err)
	}
	w.logger.Info("extract notice published", "topic", w.writer.Topic, "year", notice.Year)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an ExtractNotice into a Kafka message.
func serializeToMessage(notice domain.ExtractNotice) (kafkago.Message, error) {
	data, err := json.Marshal(notice)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize extract notice: %w", err)
	}
	year := strconv.Itoa(notice.Year)
	return kafkago.Message{
		Key:   []byte(year),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "year", Value: []byte(year)},
			{Key: "generated_at", Value: []byte(notice.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
