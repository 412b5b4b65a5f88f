// Package kafka publishes drought alerts to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/drought-monitor-service/internal/alert"
	"github.com/couchcryptid/drought-monitor-service/internal/config"
)

// Writer produces alert messages to a Kafka topic.
// It implements alert.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured alert topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishAlerts serializes and publishes the alerts in a single
// WriteMessages call, one message per region.
func (w *Writer) PublishAlerts(ctx context.Context, alerts []alert.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(alerts))
	for i := range alerts {
		msg, err := serializeToMessage(alerts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an alert into a Kafka message keyed by
// region so repeated alerts for one region share a partition.
func serializeToMessage(a alert.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(a.Region),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(a.Region)},
			{Key: "generated_at", Value: []byte(a.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
