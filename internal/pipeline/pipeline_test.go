package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
	"github.com/sabia-monitor/fire-risk-etl/internal/observability"
	"github.com/sabia-monitor/fire-risk-etl/internal/pipeline"
	"github.com/sabia-monitor/fire-risk-etl/internal/scoring"
)

type stubIngestor struct {
	records []domain.ClimateRecord
	err     error
	calls   int
}

func (s *stubIngestor) Ingest(_ io.Reader) ([]domain.ClimateRecord, error) {
	s.calls++
	return s.records, s.err
}

type stubScorer struct {
	rows  []domain.MonthlyScore
	stats scoring.Stats
	err   error
}

func (s *stubScorer) Score(_ []domain.ClimateRecord) ([]domain.MonthlyScore, scoring.Stats, error) {
	return s.rows, s.stats, s.err
}

type stubPublisher struct {
	published []pipeline.Result
	err       error
}

func (s *stubPublisher) PublishScores(_ context.Context, result pipeline.Result) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, result)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcess_Success(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	defer domain.SetClock(nil)

	ingestor := &stubIngestor{records: make([]domain.ClimateRecord, 6)}
	scorer := &stubScorer{
		rows: []domain.MonthlyScore{
			{Talhao: "1", Mes: "jan", Score: 15},
			{Talhao: "1", Mes: "fev", Score: 85},
			{Talhao: "2", Mes: "jan", Score: 50},
		},
		stats: scoring.Stats{RowsIn: 6, RowsDropped: 1, Groups: 3},
	}
	publisher := &stubPublisher{}

	p := pipeline.New(ingestor, scorer, publisher, discardLogger(), observability.NewMetricsForTesting())

	result, err := p.Process(context.Background(), strings.NewReader("workbook-bytes"))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, fakeClock.Now(), result.GeneratedAt)
	require.Len(t, result.Months, 3)
	assert.Equal(t, "R1", result.Months[0].Classe)
	assert.Equal(t, "R5", result.Months[1].Classe)
	assert.Equal(t, "R3", result.Months[2].Classe)

	require.Len(t, result.Annual, 2)
	assert.Equal(t, "1", result.Annual[0].Talhao)
	assert.InDelta(t, 50.0, result.Annual[0].ScoreMedio, 1e-9)
	assert.Equal(t, "2", result.Annual[1].Talhao)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, result.RunID, publisher.published[0].RunID)
	assert.Equal(t, 1, ingestor.calls)
}

func TestProcess_DistinctRunIDs(t *testing.T) {
	p := pipeline.New(
		&stubIngestor{},
		&stubScorer{},
		nil,
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	first, err := p.Process(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	second, err := p.Process(context.Background(), strings.NewReader(""))
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestProcess_IngestError(t *testing.T) {
	ingestErr := errors.New("not a spreadsheet")
	p := pipeline.New(
		&stubIngestor{err: ingestErr},
		&stubScorer{},
		nil,
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	_, err := p.Process(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ingestErr)
}

func TestProcess_ScoringError(t *testing.T) {
	scoreErr := errors.New("negative weight")
	p := pipeline.New(
		&stubIngestor{records: make([]domain.ClimateRecord, 2)},
		&stubScorer{err: scoreErr},
		nil,
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	_, err := p.Process(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, scoreErr)
}

func TestProcess_PublishFailureDoesNotFailRequest(t *testing.T) {
	scorer := &stubScorer{rows: []domain.MonthlyScore{{Talhao: "1", Mes: "jan", Score: 10}}}
	p := pipeline.New(
		&stubIngestor{records: make([]domain.ClimateRecord, 1)},
		scorer,
		&stubPublisher{err: errors.New("broker unavailable")},
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	result, err := p.Process(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Len(t, result.Months, 1)
}

func TestProcess_NilPublisherSkipsPublishing(t *testing.T) {
	p := pipeline.New(
		&stubIngestor{records: make([]domain.ClimateRecord, 1)},
		&stubScorer{rows: []domain.MonthlyScore{{Talhao: "1", Mes: "jan", Score: 10}}},
		nil,
		discardLogger(),
		observability.NewMetricsForTesting(),
	)

	result, err := p.Process(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Len(t, result.Months, 1)
}

type weightedScorer struct {
	stubScorer
	weights domain.Weights
}

func (s *weightedScorer) Weights() domain.Weights { return s.weights }

func TestCheckReadiness(t *testing.T) {
	ready := pipeline.New(&stubIngestor{}, &stubScorer{}, nil, discardLogger(), observability.NewMetricsForTesting())
	assert.NoError(t, ready.CheckReadiness(context.Background()))

	unwired := pipeline.New(nil, nil, nil, discardLogger(), observability.NewMetricsForTesting())
	assert.Error(t, unwired.CheckReadiness(context.Background()))

	badWeights := pipeline.New(
		&stubIngestor{},
		&weightedScorer{weights: domain.Weights{Umidade: -1}},
		nil,
		discardLogger(),
		observability.NewMetricsForTesting(),
	)
	assert.Error(t, badWeights.CheckReadiness(context.Background()))
}
