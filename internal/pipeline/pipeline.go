// Package pipeline orchestrates one upload: ingest the workbook, score the
// consolidated table, classify and summarize, and optionally hand the
// result to the dashboard's topic. Each run is a single-shot, idempotent
// batch transform; there is no shared mutable state between runs.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
	"github.com/sabia-monitor/fire-risk-etl/internal/observability"
	"github.com/sabia-monitor/fire-risk-etl/internal/scoring"
)

// Ingestor parses an uploaded workbook into the consolidated climate table.
type Ingestor interface {
	Ingest(r io.Reader) ([]domain.ClimateRecord, error)
}

// IngestorFunc adapts a plain parse function into an Ingestor.
type IngestorFunc func(r io.Reader) ([]domain.ClimateRecord, error)

func (f IngestorFunc) Ingest(r io.Reader) ([]domain.ClimateRecord, error) { return f(r) }

// Scorer runs the multi-criteria model over the consolidated table.
type Scorer interface {
	Score(records []domain.ClimateRecord) ([]domain.MonthlyScore, scoring.Stats, error)
}

// Publisher hands a finished result to downstream consumers. Publishing is
// best-effort: the uploader already holds the result.
type Publisher interface {
	PublishScores(ctx context.Context, result Result) error
}

// Result is the complete output of one scoring run.
type Result struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Months      []domain.ScoredMonth   `json:"months"`
	Annual      []domain.AnnualSummary `json:"annual"`
}

// Pipeline wires the stages together with observability.
type Pipeline struct {
	ingestor  Ingestor
	scorer    Scorer
	publisher Publisher // nil when publishing is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. Pass a nil publisher to disable the Kafka hand-off.
func New(i Ingestor, s Scorer, p Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		ingestor:  i,
		scorer:    s,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether the pipeline can serve uploads: stages are
// wired and, when the scorer exposes its weight vector, the weights validate.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.ingestor == nil || p.scorer == nil {
		return errors.New("pipeline stages are not wired")
	}
	if wv, ok := p.scorer.(interface{ Weights() domain.Weights }); ok {
		if err := wv.Weights().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Process runs the full transform for one uploaded workbook.
func (p *Pipeline) Process(ctx context.Context, r io.Reader) (Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	ingestStart := time.Now()
	records, err := p.ingestor.Ingest(r)
	if err != nil {
		p.metrics.UploadsTotal.WithLabelValues("ingest_error").Inc()
		logger.Error("ingestion failed", "error", err)
		return Result{}, err
	}
	p.metrics.IngestDuration.Observe(time.Since(ingestStart).Seconds())
	p.metrics.RowsIngested.Add(float64(len(records)))

	scoringStart := time.Now()
	rows, stats, err := p.scorer.Score(records)
	if err != nil {
		p.metrics.UploadsTotal.WithLabelValues("scoring_error").Inc()
		logger.Error("scoring failed", "error", err)
		return Result{}, err
	}
	p.metrics.ScoringDuration.Observe(time.Since(scoringStart).Seconds())
	p.metrics.RowsDropped.Add(float64(stats.RowsDropped))
	p.metrics.RowsScored.Add(float64(len(rows)))

	months := domain.ClassifyMonthly(rows)
	result := Result{
		RunID:       runID,
		GeneratedAt: domain.Now(),
		Months:      months,
		Annual:      domain.Summarize(months),
	}

	p.metrics.UploadsTotal.WithLabelValues("success").Inc()
	logger.Info("workbook scored",
		"records", len(records),
		"dropped", stats.RowsDropped,
		"groups", stats.Groups,
		"plots", len(result.Annual),
	)

	if p.publisher != nil {
		if err := p.publisher.PublishScores(ctx, result); err != nil {
			// The uploader already has the result; losing the hand-off is
			// not worth failing the request over.
			p.metrics.PublishErrors.Inc()
			logger.Warn("publishing scores failed", "error", err)
		} else {
			p.metrics.ScoresPublished.Add(float64(len(result.Months)))
		}
	}

	return result, nil
}
