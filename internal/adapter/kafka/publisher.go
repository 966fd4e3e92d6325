package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/odo48-debug/riesgos/internal/config"
	"github.com/odo48-debug/riesgos/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// schemaHeader identifies the published payload shape for downstream
// consumers.
const schemaHeader = "risk-assessment/v1"

// Publisher emits completed assessments to a Kafka topic. It implements
// assessor.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured assessment topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and writes one assessment event.
func (p *Publisher) Publish(ctx context.Context, a domain.Assessment) error {
	msg, err := serializeAssessment(a)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	p.logger.Debug("assessment published", "key", string(msg.Key), "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// assessmentEvent is the published payload: the normalized summary plus the
// point and timestamp. The raw tree is deliberately excluded — feature
// geometries can run to megabytes and consumers only act on levels.
type assessmentEvent struct {
	Lat        float64        `json:"lat"`
	Lon        float64        `json:"lon"`
	AssessedAt time.Time      `json:"assessed_at"`
	Summary    domain.Summary `json:"summary"`
}

// serializeAssessment marshals an assessment into a Kafka message keyed by
// coordinates, so repeated queries for the same point land in one partition.
func serializeAssessment(a domain.Assessment) (kafkago.Message, error) {
	event := assessmentEvent{
		Lat:        a.Point.Lat,
		Lon:        a.Point.Lon,
		AssessedAt: a.AssessedAt,
		Summary:    a.Summary,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%.6f,%.6f", a.Point.Lat, a.Point.Lon)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "schema", Value: []byte(schemaHeader)},
			{Key: "assessed_at", Value: []byte(a.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}
