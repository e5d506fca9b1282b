package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/sabia-monitor/fire-risk-etl/internal/config"
	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
	"github.com/sabia-monitor/fire-risk-etl/internal/pipeline"
)

// Publisher produces scored months to the dashboard's Kafka topic.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured scores topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaScoresTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishScores serializes every scored month of a run and publishes them
// in a single WriteMessages call. Messages are keyed by plot so consumers
// reading a partition see each plot's months in order.
func (p *Publisher) PublishScores(ctx context.Context, result pipeline.Result) error {
	if len(result.Months) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(result.Months))
	for i := range result.Months {
		msg, err := serializeToMessage(result.Months[i], result.RunID, result.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals one scored month into a Kafka message tagged
// with the run it belongs to.
func serializeToMessage(month domain.ScoredMonth, runID string, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(month)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize scored month: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(month.Talhao),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
