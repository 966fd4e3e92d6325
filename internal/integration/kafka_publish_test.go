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

	"github.com/odo48-debug/riesgos/internal/adapter/kafka"
	"github.com/odo48-debug/riesgos/internal/config"
	"github.com/odo48-debug/riesgos/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testTopic = "test-risk-assessments"

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
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

	err = conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	require.NoError(t, err, "create topic %s", topic)
}

// TestPublishAssessment verifies that a published assessment round-trips
// through Kafka with its key, headers, and summary intact.
func TestPublishAssessment(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	publisher := kafka.NewPublisher(cfg, logger)
	t.Cleanup(func() {
		if err := publisher.Close(); err != nil {
			t.Logf("close publisher: %v", err)
		}
	})

	raw := domain.RawResults{
		Wildfire: domain.FeaturesResult([]domain.Feature{{
			Type:       "Feature",
			Properties: map[string]any{"FRECUENCIA": 30.0},
		}}),
		Fluvial: map[string]domain.RawHazardResult{
			"T100": domain.FeaturesResult([]domain.Feature{{
				Type:       "Feature",
				Properties: map[string]any{"GRAY_INDEX": 0.0},
			}}),
		},
		Marine:  map[string]domain.RawHazardResult{},
		Seismic: domain.ErrorResult("all candidates failed"),
		Desertification: map[string]domain.RawHazardResult{
			domain.DesertificationPotential: domain.TextResult("valor: 75"),
		},
	}
	assessment := domain.NewAssessment(domain.Point{Lat: 40.4168, Lon: -3.7038}, raw)

	require.NoError(t, publisher.Publish(ctx, assessment))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		Topic:   testTopic,
		GroupID: fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
	})
	t.Cleanup(func() { consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read published assessment")

	assert.Equal(t, "40.416800,-3.703800", string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "risk-assessment/v1", headers["schema"])
	assert.NotEmpty(t, headers["assessed_at"])

	var event struct {
		Lat     float64        `json:"lat"`
		Lon     float64        `json:"lon"`
		Summary domain.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, 40.4168, event.Lat)
	assert.Equal(t, domain.WildfireMediumHigh, event.Summary.Wildfire)
	assert.Equal(t, domain.FloodNotFlooded, event.Summary.Fluvial["T100"])
	assert.Equal(t, domain.SeismicUnknown, event.Summary.Seismic.Level)
	assert.Equal(t, domain.DesertificationMedium, event.Summary.Desertification[domain.DesertificationPotential])
}
