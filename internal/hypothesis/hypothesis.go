// Package hypothesis manages factor->outcome claims: creation from
// visit-time question selections, verification against bulk survey
// rows, support-rate aggregation and the policy confirmation step.
package hypothesis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"carewatch/internal/catalog"
	"carewatch/internal/models"
	"carewatch/internal/store"
)

var (
	// ErrMissingFactor is returned when the factor text is empty.
	ErrMissingFactor = errors.New("hypothesis factor is required")
	// ErrMissingOutcome is returned when the outcome text is empty.
	ErrMissingOutcome = errors.New("hypothesis outcome is required")
)

const (
	outcomeOccurred    = "발생함"
	outcomeNotOccurred = "발생안함"
	factorApplicable   = "해당함"

	effectRefPrefix = "Step3_Q"
)

// Engine owns hypothesis creation and verification.
type Engine struct {
	hypotheses *store.HypothesisStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewEngine creates a hypothesis engine.
func NewEngine(hypotheses *store.HypothesisStore, logger *zap.Logger, now func() time.Time) *Engine {
	return &Engine{hypotheses: hypotheses, logger: logger, now: now}
}

// Create registers a new hypothesis in discovered state, forwarded to
// verification. Duplicate factor/outcome pairs are allowed; they may
// originate from different subjects and are tracked independently.
func (e *Engine) Create(subjectName, factor, outcome, evidence, causeQ, effectQ string) (*models.Hypothesis, error) {
	if strings.TrimSpace(factor) == "" {
		return nil, ErrMissingFactor
	}
	if strings.TrimSpace(outcome) == "" {
		return nil, ErrMissingOutcome
	}

	h := e.hypotheses.Add(models.Hypothesis{
		SubjectName: subjectName,
		Factor:      factor,
		Outcome:     outcome,
		Evidence:    evidence,
		Priority:    models.PriorityMedium,
		SendToStep2: true,
		Status:      models.HypothesisDiscovered,
		CreatedAt:   e.now(),
		CauseQ:      causeQ,
		EffectQ:     effectQ,
	})

	e.logger.Info("hypothesis registered",
		zap.Int64("id", h.ID),
		zap.String("factor", h.Factor),
		zap.String("outcome", h.Outcome))

	return h, nil
}

// CreateFromVisitSelection spawns hypotheses for visit-question answers
// that matched the per-service-type mapping table. The evidence string
// records which visit question triggered the claim.
func (e *Engine) CreateFromVisitSelection(subjectName string, serviceType models.ServiceType, indicators map[string]string) ([]models.Hypothesis, error) {
	labels := make(map[string]string)
	for _, ind := range catalog.GetIndicators(serviceType, models.ModeVisit) {
		labels[ind.ID] = ind.Label
	}

	var created []models.Hypothesis
	for _, m := range catalog.GetHypothesisMappings(serviceType) {
		answer, ok := indicators[m.QuestionID]
		if !ok || answer == "" {
			continue
		}
		evidence := fmt.Sprintf("[1차 대면] %s 질문에 대한 반응", labels[m.QuestionID])
		h, err := e.Create(subjectName, m.Factor, m.Outcome, evidence, m.CauseQ, m.EffectQ)
		if err != nil {
			return created, err
		}
		created = append(created, *h)
	}
	return created, nil
}

// Verify checks one survey row against one hypothesis. Only hypotheses
// whose effect reference points into the bulk-survey question layout
// ("Step3_Q{n}") are verifiable; others return nil. The referenced 1-5
// answer decides the pattern: support at >= 4, mismatch_success at
// <= 2, control at 3. An absent or non-numeric answer counts as 0.
// The evidence entry is appended to the hypothesis, never replacing
// earlier entries.
func (e *Engine) Verify(h *models.Hypothesis, row models.SurveyRow) (*models.VerificationData, error) {
	if !strings.HasPrefix(h.EffectQ, effectRefPrefix) {
		return nil, nil
	}
	qIndex, err := strconv.Atoi(strings.TrimPrefix(h.EffectQ, effectRefPrefix))
	if err != nil {
		return nil, nil
	}

	value, _ := strconv.Atoi(row.IndicatorAnswer(qIndex))

	outcomeMatch := outcomeNotOccurred
	if value >= 4 {
		outcomeMatch = outcomeOccurred
	}

	var pattern models.Pattern
	switch {
	case value >= 4:
		pattern = models.PatternSupport
	case value <= 2:
		pattern = models.PatternMismatchSuccess
	default:
		pattern = models.PatternControl
	}

	v := models.VerificationData{
		RespondentName: row.Name(),
		FactorMatch:    factorApplicable,
		OutcomeMatch:   outcomeMatch,
		Pattern:        pattern,
		Timestamp:      e.now(),
	}
	if err := e.hypotheses.AppendVerification(h.ID, v); err != nil {
		return nil, err
	}
	h.Verification = append(h.Verification, v)
	return &v, nil
}

// SupportRate returns the percentage of supporting evidence, rounded to
// the nearest integer. Zero when no evidence exists.
func SupportRate(h models.Hypothesis) int {
	total := len(h.Verification)
	if total == 0 {
		return 0
	}
	support := 0
	for _, v := range h.Verification {
		if v.Pattern == models.PatternSupport {
			support++
		}
	}
	return int(math.Round(float64(support) / float64(total) * 100))
}

// ConfirmPolicy advances every hypothesis that accumulated verification
// evidence to confirmed status and returns those confirmed. Hypotheses
// without evidence are left untouched.
func (e *Engine) ConfirmPolicy() []models.Hypothesis {
	var confirmed []models.Hypothesis
	for _, h := range e.hypotheses.List() {
		if len(h.Verification) == 0 {
			continue
		}
		if err := e.hypotheses.SetStatus(h.ID, models.HypothesisConfirmed); err != nil {
			continue
		}
		h.Status = models.HypothesisConfirmed
		confirmed = append(confirmed, h)
	}
	e.logger.Info("policy confirmation applied", zap.Int("confirmed", len(confirmed)))
	return confirmed
}

// Reset clears the registry. Explicit user-initiated operation.
func (e *Engine) Reset() {
	e.hypotheses.Reset()
	e.logger.Info("hypothesis registry reset")
}
