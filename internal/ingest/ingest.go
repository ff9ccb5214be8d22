// Package ingest runs the bulk survey pipeline: rows are processed one
// at a time in file order so candidate deduplication stays
// deterministic. Each row is verified against every forwarded
// hypothesis, fed to candidate extraction, then appended to the sink
// best-effort.
package ingest

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"carewatch/internal/catalog"
	"carewatch/internal/extraction"
	"carewatch/internal/hypothesis"
	"carewatch/internal/models"
	"carewatch/internal/repository"
	"carewatch/internal/store"
)

// Sink is the subset of the repository the processor needs.
type Sink interface {
	AppendRecord(ctx context.Context, rec repository.Record) (string, error)
}

// Summary reports what one batch did.
type Summary struct {
	Processed     int
	SchemaSkipped int
	SinkFailures  int
	Verifications int
	Candidates    []models.Candidate
}

// Processor drives bulk ingestion.
type Processor struct {
	hypotheses *store.HypothesisStore
	verifier   *hypothesis.Engine
	extractor  *extraction.Engine
	sink       Sink
	logger     *zap.Logger

	// yieldEvery pauses briefly after this many rows to avoid
	// monopolizing the host. Not a correctness mechanism.
	yieldEvery int
	yieldDelay time.Duration
}

// NewProcessor creates a batch processor.
func NewProcessor(hypotheses *store.HypothesisStore, verifier *hypothesis.Engine, extractor *extraction.Engine, sink Sink, logger *zap.Logger) *Processor {
	return &Processor{
		hypotheses: hypotheses,
		verifier:   verifier,
		extractor:  extractor,
		sink:       sink,
		logger:     logger,
		yieldEvery: 5,
		yieldDelay: 10 * time.Millisecond,
	}
}

// ProcessBatch runs the pipeline over rows in order. Single-row schema
// and sink failures are counted and skipped; cancellation stops between
// rows and returns the partial summary with ctx.Err(). In-memory state
// (verification evidence, candidates) is updated regardless of sink
// success.
func (p *Processor) ProcessBatch(ctx context.Context, rows []models.SurveyRow) (*Summary, error) {
	summary := &Summary{}
	batchNames := make(map[string]bool)

	for i, row := range rows {
		select {
		case <-ctx.Done():
			p.logger.Warn("batch cancelled",
				zap.Int("processed", summary.Processed),
				zap.Int("remaining", len(rows)-i))
			return summary, ctx.Err()
		default:
		}

		if len(row.Columns) < models.MinColumns {
			summary.SchemaSkipped++
			continue
		}

		hadMismatch := p.verifyRow(row, summary)

		if c := p.extractor.Extract(row, hadMismatch, batchNames); c != nil {
			summary.Candidates = append(summary.Candidates, *c)
		}

		if err := p.persistRow(ctx, row); err != nil {
			summary.SinkFailures++
			p.logger.Warn("sink call failed, continuing batch",
				zap.String("name", row.Name()),
				zap.Error(err))
		}

		summary.Processed++

		if p.yieldEvery > 0 && (i+1)%p.yieldEvery == 0 {
			time.Sleep(p.yieldDelay)
		}
	}

	p.logger.Info("batch complete",
		zap.Int("processed", summary.Processed),
		zap.Int("schema_skipped", summary.SchemaSkipped),
		zap.Int("sink_failures", summary.SinkFailures),
		zap.Int("verifications", summary.Verifications),
		zap.Int("candidates", len(summary.Candidates)))

	return summary, nil
}

// verifyRow checks the row against every forwarded hypothesis and
// reports whether any produced a mismatch_success pattern.
func (p *Processor) verifyRow(row models.SurveyRow, summary *Summary) bool {
	hadMismatch := false
	for _, h := range p.hypotheses.Forwarded() {
		h := h
		v, err := p.verifier.Verify(&h, row)
		if err != nil || v == nil {
			continue
		}
		summary.Verifications++
		if v.Pattern == models.PatternMismatchSuccess {
			hadMismatch = true
		}
	}
	return hadMismatch
}

func (p *Processor) persistRow(ctx context.Context, row models.SurveyRow) error {
	indicators := make(map[string]string, 10)
	for n := 1; n <= 10; n++ {
		if a := row.IndicatorAnswer(n); a != "" {
			indicators["q"+strconv.Itoa(n)] = a
		}
	}

	_, err := p.sink.AppendRecord(ctx, repository.Record{
		Kind:        "survey",
		Name:        row.Name(),
		Gender:      row.Gender(),
		Agency:      row.Agency(),
		ServiceType: catalog.ParseServiceType(row.ServiceTypeLabel()),
		SurveyDate:  row.Period(),
		Status:      "completed",
		Indicators:  indicators,
		Extra: map[string]any{
			"priority_service": row.PriorityService(),
			"gap":              row.Gap(),
			"visited_places":   row.VisitedPlaces(),
			"risk_check":       row.RiskCheck(),
			"opinion":          row.Opinion(),
		},
	})
	return err
}
