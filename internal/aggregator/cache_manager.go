// Package aggregator maintains the dashboard cache: per-hypothesis
// verification summaries written to the KV store with a TTL so the
// operator dashboard reads cheap precomputed values instead of walking
// evidence lists.
package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"carewatch/internal/hypothesis"
	"carewatch/internal/models"
	"carewatch/internal/store"
)

const hypothesisSummaryKey = "carewatch:hypothesis:%d:summary"

// HypothesisSummary is the cached dashboard view of one hypothesis.
type HypothesisSummary struct {
	ID          int64                   `json:"id"`
	Factor      string                  `json:"factor"`
	Outcome     string                  `json:"outcome"`
	Status      models.HypothesisStatus `json:"status"`
	Total       int                     `json:"total"`
	Support     int                     `json:"support"`
	Control     int                     `json:"control"`
	Mismatch    int                     `json:"mismatch"`
	SupportRate int                     `json:"support_rate"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// CacheManager refreshes hypothesis summaries.
type CacheManager struct {
	kv         KVStore
	hypotheses *store.HypothesisStore
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewCacheManager creates a cache manager.
func NewCacheManager(kv KVStore, hypotheses *store.HypothesisStore, ttl time.Duration, logger *zap.Logger, now func() time.Time) *CacheManager {
	return &CacheManager{kv: kv, hypotheses: hypotheses, ttl: ttl, logger: logger, now: now}
}

// RefreshAll recomputes and writes every hypothesis summary. Write
// failures are logged per key and do not stop the sweep.
func (m *CacheManager) RefreshAll(ctx context.Context) error {
	hypotheses := m.hypotheses.List()
	failures := 0
	for _, h := range hypotheses {
		if err := m.refreshOne(ctx, h); err != nil {
			failures++
			m.logger.Warn("failed to refresh hypothesis summary",
				zap.Int64("hypothesis_id", h.ID),
				zap.Error(err))
		}
	}
	if failures > 0 {
		return fmt.Errorf("failed to refresh %d of %d hypothesis summaries", failures, len(hypotheses))
	}
	return nil
}

func (m *CacheManager) refreshOne(ctx context.Context, h models.Hypothesis) error {
	summary := Summarize(h)
	summary.UpdatedAt = m.now()

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	return m.kv.Set(ctx, fmt.Sprintf(hypothesisSummaryKey, h.ID), string(data), m.ttl)
}

// GetSummary reads a cached summary, recomputing and re-caching on miss.
func (m *CacheManager) GetSummary(ctx context.Context, id int64) (*HypothesisSummary, error) {
	raw, err := m.kv.Get(ctx, fmt.Sprintf(hypothesisSummaryKey, id))
	if err == nil {
		var summary HypothesisSummary
		if err := json.Unmarshal([]byte(raw), &summary); err == nil {
			return &summary, nil
		}
		// Corrupt cache entry: fall through to recompute.
	} else if err != ErrCacheMiss {
		return nil, fmt.Errorf("cache read failed: %w", err)
	}

	h, err := m.hypotheses.Get(id)
	if err != nil {
		return nil, err
	}
	if err := m.refreshOne(ctx, *h); err != nil {
		m.logger.Warn("failed to re-cache hypothesis summary",
			zap.Int64("hypothesis_id", id),
			zap.Error(err))
	}
	summary := Summarize(*h)
	summary.UpdatedAt = m.now()
	return &summary, nil
}

// Invalidate drops one cached summary.
func (m *CacheManager) Invalidate(ctx context.Context, id int64) error {
	return m.kv.Delete(ctx, fmt.Sprintf(hypothesisSummaryKey, id))
}

// Summarize computes the dashboard view from a hypothesis.
func Summarize(h models.Hypothesis) HypothesisSummary {
	summary := HypothesisSummary{
		ID:      h.ID,
		Factor:  h.Factor,
		Outcome: h.Outcome,
		Status:  h.Status,
		Total:   len(h.Verification),
	}
	for _, v := range h.Verification {
		switch v.Pattern {
		case models.PatternSupport:
			summary.Support++
		case models.PatternControl:
			summary.Control++
		case models.PatternMismatchSuccess, models.PatternMismatchUnexpected:
			summary.Mismatch++
		}
	}
	summary.SupportRate = hypothesis.SupportRate(h)
	return summary
}
