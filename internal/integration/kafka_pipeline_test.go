//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testMarkerTopic = "test-quake-markers"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("quake-map-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}))
}

// TestKafkaWriter_PublishesMarkers verifies the marker sink writes one keyed
// message per rendered marker.
func TestKafkaWriter_PublishesMarkers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testMarkerTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testMarkerTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	events := []domain.Event{
		{ID: "us7000abcd", Place: "10km N of Testville", Time: time.UnixMilli(1700000000000), Magnitude: 4.5, Longitude: -100, Latitude: 35, Depth: 20},
		{ID: "us7000abcf", Place: "Fiji Islands region", Time: time.UnixMilli(1700000090000), Magnitude: 5.8, Longitude: -178.3, Latitude: -17.9, Depth: 560.4},
	}
	spec := mapview.Compose(domain.RenderMarkers(events, time.UTC), mapview.WithRunID("integration"))

	require.NoError(t, writer.Publish(ctx, spec))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testMarkerTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := map[string]kafka.MarkerMessage{}
	for len(got) < len(events) {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from marker topic")

		var m kafka.MarkerMessage
		require.NoError(t, json.Unmarshal(msg.Value, &m))
		got[string(msg.Key)] = m
	}

	assert.Equal(t, 22.5, got["us7000abcd"].Marker.Radius)
	assert.Equal(t, "rgb(76,130,78)", got["us7000abcd"].Marker.FillColor)
	assert.Equal(t, 0.6, got["us7000abcf"].Marker.FillOpacity)
	assert.Equal(t, "integration", got["us7000abcf"].RunID)
}
