package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// MarkerMessage is the JSON value published for each marker.
type MarkerMessage struct {
	RunID      string        `json:"run_id,omitempty"`
	RenderedAt time.Time     `json:"rendered_at"`
	Marker     domain.Marker `json:"marker"`
}

// Writer publishes rendered markers to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured marker topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Publish serializes every marker in spec and writes them in a single
// WriteMessages call.
func (w *Writer) Publish(ctx context.Context, spec mapview.Spec) error {
	var msgs []kafkago.Message
	for _, overlay := range spec.Overlays {
		for i := range overlay.Markers {
			msg, err := serializeToMessage(spec, overlay.Markers[i])
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish markers: %w", err)
	}
	w.logger.Info("markers published", "count", len(msgs), "run_id", spec.RunID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a marker into a Kafka message keyed by event ID
// so repeated loads of the same event land on the same partition.
func serializeToMessage(spec mapview.Spec, m domain.Marker) (kafkago.Message, error) {
	data, err := json.Marshal(MarkerMessage{RunID: spec.RunID, RenderedAt: spec.GeneratedAt, Marker: m})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize marker: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(m.EventID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(m.EventID)},
			{Key: "rendered_at", Value: []byte(spec.GeneratedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
