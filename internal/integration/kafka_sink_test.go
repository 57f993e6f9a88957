//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/wolkenbruch/swissmeteo-etl/internal/adapter/kafka"
	"github.com/wolkenbruch/swissmeteo-etl/internal/config"
	"github.com/wolkenbruch/swissmeteo-etl/internal/domain"
)

const testSinkTopic = "test-forecast-snapshots"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka broker in a container and returns
// its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial kafka")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestSnapshotSinkRoundTrip publishes a snapshot through the Kafka writer and
// verifies key, headers, and payload as a downstream consumer would see them.
func TestSnapshotSinkRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	assembled := time.Date(2024, 5, 4, 12, 10, 0, 0, time.UTC)
	ts := time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)
	snap := &domain.Snapshot{
		PostCode:    "8001",
		AssembledAt: assembled,
		Forecast: domain.WeatherForecast{
			Current: &domain.CurrentState{
				Temperature: domain.SomeValue(21.5, "°C"),
				Condition:   domain.ConditionSunny,
			},
			Hourly: []domain.ForecastPoint{
				{Timestamp: ts, Precipitation: domain.SomeValue(0.4, "mm")},
			},
		},
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.Publish(ctx, snap))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	assert.Equal(t, []byte("8001"), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "8001", headers["post_code"])
	assert.Equal(t, assembled.Format(time.RFC3339), headers["assembled_at"])

	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "8001", got.PostCode)
	require.NotNil(t, got.Forecast.Current)
	assert.Equal(t, domain.ConditionSunny, got.Forecast.Current.Condition)
	require.Len(t, got.Forecast.Hourly, 1)
	assert.True(t, got.Forecast.Hourly[0].Timestamp.Equal(ts))
	require.NotNil(t, got.Forecast.Hourly[0].Precipitation.Val)
	assert.Equal(t, 0.4, *got.Forecast.Hourly[0].Precipitation.Val)
}
