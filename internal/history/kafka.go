package history

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"amlgate/internal/domain"
)

// KafkaMirror streams history entries to a Kafka topic for downstream
// compliance tooling. Delivery is fire-and-forget: a broker outage must not
// slow down or fail screenings, so produce errors are only logged.
type KafkaMirror struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaMirror connects a producer for the given brokers and topic.
func NewKafkaMirror(brokers []string, topic string, logger *slog.Logger) (*KafkaMirror, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaMirror{client: client, topic: topic, logger: logger}, nil
}

// Publish enqueues one entry asynchronously. Failures surface only in logs.
func (m *KafkaMirror) Publish(ctx context.Context, entry domain.SearchHistoryEntry) {
	value, err := json.Marshal(entry)
	if err != nil {
		if m.logger != nil {
			m.logger.ErrorContext(ctx, "history mirror encode failed", "error", err)
		}
		return
	}

	record := &kgo.Record{
		Topic: m.topic,
		Key:   []byte(entry.UserID.String()),
		Value: value,
	}
	m.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil && m.logger != nil {
			m.logger.Error("history mirror produce failed",
				"topic", m.topic,
				"entry_id", entry.ID,
				"error", err,
			)
		}
	})
}

// Close flushes outstanding records and releases the producer.
func (m *KafkaMirror) Close(ctx context.Context) error {
	if err := m.client.Flush(ctx); err != nil {
		return err
	}
	m.client.Close()
	return nil
}
