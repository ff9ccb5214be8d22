// Package escalation decides whether a phone-check subject is promoted
// to the field-visit queue and builds the risk-reason summary.
package escalation

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"carewatch/internal/catalog"
	"carewatch/internal/classifier"
	"carewatch/internal/models"
	"carewatch/internal/store"
)

var (
	// ErrMissingName is returned when the record has no subject name.
	ErrMissingName = errors.New("subject name is required")
)

const (
	reasonSatisfactionDecline = "만족도 저하"
	reasonSafetyTrend         = "안전 동향 특이사항"
	reasonPreventive          = "예방적 차원의 점검 필요"

	dissatisfied = "불만족"

	// Free-text safety notes longer than this (in runes) count as a
	// notable trend.
	safetyTrendMinRunes = 5
)

// Engine evaluates completed phone-check records against the risk
// target pool.
type Engine struct {
	targets *store.RiskTargetStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewEngine creates an escalation engine. now is used for the target
// date and id clock.
func NewEngine(targets *store.RiskTargetStore, logger *zap.Logger, now func() time.Time) *Engine {
	return &Engine{targets: targets, logger: logger, now: now}
}

// Evaluate inspects a phone-check record and, when any risk rule fires
// or unconditionally when called on a record flagged as risk, registers
// the subject as a field-visit target. The returned target carries the
// joined reason summary. Rejections: empty name, duplicate name.
//
// Body-function status is visit-time data and is never consulted here.
func (e *Engine) Evaluate(record models.PhoneCallRecord) (*models.RiskTarget, error) {
	if strings.TrimSpace(record.Name) == "" {
		return nil, ErrMissingName
	}
	if e.targets.HasName(record.Name) {
		return nil, store.ErrDuplicateTarget
	}

	reasons := e.collectReasons(record)
	summary := strings.Join(reasons, ", ")
	if summary == "" {
		summary = reasonPreventive
	}

	target, err := e.targets.Add(models.RiskTarget{
		Name:        record.Name,
		Gender:      record.Gender,
		BirthYear:   record.BirthYear,
		Agency:      record.Agency,
		ServiceType: record.ServiceType,
		RiskDetails: summary,
		Date:        e.now().Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("subject escalated to field-visit queue",
		zap.String("name", target.Name),
		zap.String("risk_details", target.RiskDetails),
		zap.Int("reason_count", len(reasons)))

	return target, nil
}

// collectReasons runs the escalation rules in fixed order: satisfaction
// decline, safety-trend note length, then the phone keyword set over
// each indicator answer in catalog order. Keyword hits contribute the
// raw answer text, not a label.
func (e *Engine) collectReasons(record models.PhoneCallRecord) []string {
	var reasons []string

	if record.Satisfaction == dissatisfied {
		reasons = append(reasons, reasonSatisfactionDecline)
	}
	if utf8.RuneCountInString(record.SafetyTrend) > safetyTrendMinRunes {
		reasons = append(reasons, reasonSafetyTrend)
	}

	for _, ind := range catalog.GetIndicators(record.ServiceType, models.ModePhone) {
		answer, ok := record.Indicators[ind.ID]
		if !ok || answer == "" {
			continue
		}
		if classifier.MatchesPhoneEscalation(answer) {
			reasons = append(reasons, answer)
		}
	}

	return reasons
}
