// Package extraction selects deep-interview candidates from bulk survey
// rows. Three ordered triggers run per row, first match wins, so a row
// yields at most one candidate. Deduplication is by exact subject name
// against both the persisted pool and the batch-local set.
package extraction

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"carewatch/internal/catalog"
	"carewatch/internal/models"
	"carewatch/internal/store"
)

const (
	// Free-text gap notes longer than this (in runes) signal an unmet
	// need worth a follow-up interview.
	gapMinRunes     = 5
	gapExcerptRunes = 15

	defaultPriorityScore = 5
	// Age brackets carry only the decade; birth year is approximated
	// from the decade midpoint. Lossy by construction.
	defaultAgeBase   = 70
	bracketMidOffset = 5

	mismatchReason = "가설 불일치 (회복탄력성 우수 추정)"
)

// priorityQuestions maps a stated top-priority service category to the
// indicator question scoring it in the bulk survey.
var priorityQuestions = []struct {
	keyword  string
	question int
}{
	{"안전", 4},
	{"사회", 5},
	{"교육", 6},
}

// Engine extracts follow-up candidates.
type Engine struct {
	candidates *store.CandidateStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewEngine creates an extraction engine.
func NewEngine(candidates *store.CandidateStore, logger *zap.Logger, now func() time.Time) *Engine {
	return &Engine{candidates: candidates, logger: logger, now: now}
}

// Extract evaluates one survey row. hadMismatch reports whether
// verifying this row against any forwarded hypothesis produced a
// mismatch_success pattern. batchNames is the set of names already
// extracted in the current batch; the caller owns it across rows so
// row order decides dedup outcome. Returns nil when no trigger fires
// or the name is a duplicate.
func (e *Engine) Extract(row models.SurveyRow, hadMismatch bool, batchNames map[string]bool) *models.Candidate {
	name := row.Name()
	if name == "" {
		return nil
	}
	if batchNames[name] || e.candidates.HasName(name) {
		return nil
	}

	reason, reasonType, ok := e.evaluateTriggers(row, hadMismatch)
	if !ok {
		return nil
	}

	candidate, err := e.candidates.Add(models.Candidate{
		Name:        name,
		Gender:      row.Gender(),
		BirthYear:   e.approximateBirthYear(row.AgeBracket()),
		Agency:      row.Agency(),
		ServiceType: catalog.ParseServiceType(row.ServiceTypeLabel()),
		Reason:      reason,
		ReasonType:  reasonType,
	})
	if err != nil {
		// HasName raced only if the store is shared; treat as dedup skip.
		return nil
	}
	batchNames[name] = true

	e.logger.Info("follow-up candidate extracted",
		zap.String("name", name),
		zap.String("reason_type", string(reasonType)))

	return candidate
}

// evaluateTriggers runs the three rules in fixed order and stops at the
// first match.
func (e *Engine) evaluateTriggers(row models.SurveyRow, hadMismatch bool) (string, models.ReasonType, bool) {
	// 1. Stated-priority service vs its indicator score.
	priority := row.PriorityService()
	if priority != "" {
		score := defaultPriorityScore
		for _, pq := range priorityQuestions {
			if strings.Contains(priority, pq.keyword) {
				score, _ = strconv.Atoi(row.IndicatorAnswer(pq.question))
				break
			}
		}
		if score <= 2 {
			reason := fmt.Sprintf("최우선 서비스(%s) 만족도 저조 (점수:%d)", priority, score)
			return reason, models.ReasonSpecialCase, true
		}
	}

	// 2. Free-text unmet-need signal.
	if gap := row.Gap(); utf8.RuneCountInString(gap) > gapMinRunes {
		reason := fmt.Sprintf("미충족 욕구(Gap) 식별: \"%s...\"", excerpt(gap, gapExcerptRunes))
		return reason, models.ReasonSpecialCase, true
	}

	// 3. Hypothesis mismatch observed while verifying this row.
	if hadMismatch {
		return mismatchReason, models.ReasonDataMismatch, true
	}

	return "", "", false
}

// approximateBirthYear derives a birth year from a decade bracket like
// "70대" using the mid-decade heuristic: currentYear - (base + 5). An
// unparsable bracket falls back to the 70s decade. The result is an
// approximation, not authoritative data.
func (e *Engine) approximateBirthYear(bracket string) int {
	base := defaultAgeBase
	if n := leadingInt(bracket); n > 0 {
		base = n
	}
	return e.now().Year() - (base + bracketMidOffset)
}

func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
