package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/wolkenbruch/swissmeteo-etl/internal/config"
	"github.com/wolkenbruch/swissmeteo-etl/internal/domain"
)

// Writer produces forecast snapshots to a Kafka topic.
// It implements poller.SnapshotSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes a snapshot and writes it to the sink topic. Messages
// are keyed by post code so consumers see per-location ordering.
func (w *Writer) Publish(ctx context.Context, snap *domain.Snapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(snap *domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.PostCode),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "post_code", Value: []byte(snap.PostCode)},
			{Key: "assembled_at", Value: []byte(snap.AssembledAt.Format(time.RFC3339))},
		},
	}, nil
}
