//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/xuri/excelize/v2"

	"github.com/sabia-monitor/fire-risk-etl/internal/adapter/kafka"
	"github.com/sabia-monitor/fire-risk-etl/internal/config"
	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
	"github.com/sabia-monitor/fire-risk-etl/internal/ingest"
	"github.com/sabia-monitor/fire-risk-etl/internal/observability"
	"github.com/sabia-monitor/fire-risk-etl/internal/pipeline"
	"github.com/sabia-monitor/fire-risk-etl/internal/scoring"
	"github.com/sabia-monitor/fire-risk-etl/internal/terrain"
)

const testScoresTopic = "test-fire-risk-scores"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// buildWorkbook writes a minimal four-sheet workbook with two plots and two
// months of 2023 data.
func buildWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		prefix string
		rows   [][]any
	}{
		{"Precipitacao_total", "precipitacao_", [][]any{
			{"Pontos", "LAT", "LON", "precipitacao_jan_2023", "precipitacao_fev_2023"},
			{"1", -21.1, -47.8, 220.0, 180.0},
			{"2", -21.2, -47.9, 40.0, 30.0},
		}},
		{"Temp_max", "t_max_", [][]any{
			{"Pontos", "t_max_jan_2023", "t_max_fev_2023"},
			{"1", 29.0, 30.0},
			{"2", 36.0, 37.5},
		}},
		{"Temp_média_final", "temp_", [][]any{
			{"Pontos", "temp_jan_2023", "temp_fev_2023"},
			{"1", 24.0, 24.5},
			{"2", 29.0, 30.0},
		}},
		{"Umidade_Relativa", "umid_", [][]any{
			{"Pontos", "umid_jan_2023", "umid_fev_2023"},
			{"1", 78.0, 74.0},
			{"2", 41.0, 38.0},
		}},
	}

	for i, sh := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), sh.name))
		} else {
			_, err := f.NewSheet(sh.name)
			require.NoError(t, err)
		}
		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sh.name, cell, &row))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// TestScoresPublishedToKafka runs the full upload path against a real broker:
// parse the workbook, score it, and verify every scored month lands on the
// scores topic keyed by plot.
func TestScoresPublishedToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testScoresTopic)

	cfg := &config.Config{
		KafkaEnabled:     true,
		KafkaBrokers:     []string{broker},
		KafkaScoresTopic: testScoresTopic,
	}

	publisher := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	engine := scoring.NewEngine(terrain.Registry(), terrain.DefaultWeights(), discardLogger())
	p := pipeline.New(
		pipeline.IngestorFunc(ingest.ReadWorkbook),
		engine,
		publisher,
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	result, err := p.Process(ctx, bytes.NewReader(buildWorkbook(t)))
	require.NoError(t, err)
	require.Len(t, result.Months, 4, "two plots, two months")

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testScoresTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	byKey := make(map[string][]domain.ScoredMonth)
	for i := 0; i < len(result.Months); i++ {
		readCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		cancelRead()
		require.NoError(t, err, "read from scores topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, result.RunID, headers["run_id"])
		_, err = time.Parse(time.RFC3339, headers["generated_at"])
		assert.NoError(t, err, "generated_at should be valid RFC3339")

		var month domain.ScoredMonth
		require.NoError(t, json.Unmarshal(msg.Value, &month))
		assert.Equal(t, month.Talhao, string(msg.Key))
		byKey[string(msg.Key)] = append(byKey[string(msg.Key)], month)
	}

	require.Len(t, byKey["1"], 2)
	require.Len(t, byKey["2"], 2)

	// Plot 2 is hotter and drier across the board, so it must outscore
	// plot 1 in every month.
	for i := range byKey["2"] {
		assert.Greater(t, byKey["2"][i].Score, byKey["1"][i].Score)
	}
	for _, months := range byKey {
		for _, m := range months {
			assert.NotEmpty(t, m.Classe)
			assert.NotEmpty(t, m.Cor)
		}
	}
}
