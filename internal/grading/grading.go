// Package grading computes the field-visit risk grade and assembles the
// templated action memo from checklist selections, body-function status
// and indicator answers.
package grading

import (
	"errors"
	"strings"
	"time"

	"carewatch/internal/catalog"
	"carewatch/internal/classifier"
	"carewatch/internal/models"
)

// ErrInsufficientInput is returned when nothing was supplied: no
// checklist items, no indicator answers and the default body status.
// The caller must provide at least one signal before a grade exists.
var ErrInsufficientInput = errors.New("at least one checklist item, indicator answer or non-default body status is required")

// Input is one visit's worth of observations.
type Input struct {
	ServiceType  models.ServiceType
	EnvChecks    []string
	SafetyChecks []string
	BodyStatus   string
	Indicators   map[string]string
}

// Result is the computed grade plus the generated memo.
type Result struct {
	Grade            models.Grade
	Memo             string
	Score            int
	CriticalFindings []string
	CautionFindings  []string
}

// Engine grades visits. It is stateless apart from the injected clock,
// which only feeds the memo's date header.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a grading engine.
func NewEngine(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Grade scores the visit and builds the memo. Deterministic: identical
// input and clock yield byte-identical output.
func (e *Engine) Grade(in Input) (*Result, error) {
	if len(in.EnvChecks) == 0 && len(in.SafetyChecks) == 0 &&
		countAnswered(in.Indicators) == 0 && (in.BodyStatus == "" || in.BodyStatus == catalog.BodyFreeAmbulation) {
		return nil, ErrInsufficientInput
	}

	baseScore := len(in.EnvChecks) + len(in.SafetyChecks)

	var criticals, cautions []string
	answered := 0
	for _, ind := range catalog.GetIndicators(in.ServiceType, models.ModeVisit) {
		answer, ok := in.Indicators[ind.ID]
		if !ok || answer == "" {
			continue
		}
		answered++
		switch classifier.Classify(answer) {
		case models.SeverityCritical:
			criticals = append(criticals, answer)
		case models.SeverityCaution:
			cautions = append(cautions, answer)
		}
	}

	score := baseScore + 2*len(criticals) + len(cautions)

	var grade models.Grade
	switch {
	case score >= 4 || len(criticals) > 0 || in.BodyStatus == catalog.BodyMobilityCrisis:
		grade = models.GradeCrisis
	case score >= 2 || len(cautions) > 0:
		grade = models.GradeCaution
	case answered >= 5 && score == 0:
		grade = models.GradeExemplary
	default:
		grade = models.GradeStandard
	}

	memo := e.buildMemo(in, grade, criticals, cautions)

	return &Result{
		Grade:            grade,
		Memo:             memo,
		Score:            score,
		CriticalFindings: criticals,
		CautionFindings:  cautions,
	}, nil
}

// buildMemo assembles the report text: header, tier summary with the
// checklist clause, a findings section when any keyword matched, and
// the ordered recommendation rules.
func (e *Engine) buildMemo(in Input, grade models.Grade, criticals, cautions []string) string {
	allRisks := append(append([]string{}, in.EnvChecks...), in.SafetyChecks...)

	var b strings.Builder
	b.WriteString("[" + e.now().Format("2006-01-02") + " 현장점검 분석 보고서]\n")
	b.WriteString("■ 종합 판정: " + string(grade) + " 단계\n")
	b.WriteString("■ 신체/기능 상태: " + in.BodyStatus + "\n\n")

	b.WriteString("1. 현장 상황 요약\n")
	switch grade {
	case models.GradeCrisis:
		b.WriteString("대상자는 현재 복합적인 위험 요인에 노출되어 있어 즉각적인 개입이 필요한 '고위험군'으로 분류됩니다. ")
	case models.GradeCaution:
		b.WriteString("대상자는 일상생활 유지에 일부 어려움을 겪고 있으며, 방치 시 위험이 심화될 수 있는 '잠재적 위험군'입니다. ")
	default:
		b.WriteString("대상자는 현재 안정적인 생활을 유지하고 있으며, 자가관리 능력이 양호한 상태입니다. ")
	}
	if len(allRisks) > 0 {
		b.WriteString("특히 주거 및 생활 환경에서 [" + strings.Join(allRisks, ", ") + "] 등의 문제가 식별되었습니다.\n")
	} else {
		b.WriteString("주거 및 위생 환경에서 특이한 위험 요인은 발견되지 않았습니다.\n")
	}

	if len(criticals) > 0 || len(cautions) > 0 {
		b.WriteString("\n2. 주요 식별 리스크 (정밀지표 기반)\n")
		for _, f := range criticals {
			b.WriteString("- 🚨 위기 요인: " + f + "\n")
		}
		for _, f := range cautions {
			b.WriteString("- ⚠️ 주의 요인: " + f + "\n")
		}
	}

	b.WriteString("\n3. 맞춤형 조치 권고\n")
	for _, r := range recommendations(in, grade, allRisks, criticals) {
		b.WriteString(r + "\n")
	}

	return b.String()
}

// recommendation rules, evaluated in fixed order; every rule whose
// condition holds contributes one line. The exemplary grade replaces
// the keyword rules with a maintenance pair; an empty result falls back
// to two generic lines.
var recommendationRules = []struct {
	applies func(in Input, grade models.Grade, risks, criticals []string) bool
	text    string
}{
	{
		applies: func(_ Input, grade models.Grade, _, _ []string) bool {
			return grade == models.GradeCrisis
		},
		text: "- 지자체 사례회의 긴급 상정 및 통합사례관리 대상자 의뢰",
	},
	{
		applies: func(in Input, _ models.Grade, _, _ []string) bool {
			return strings.Contains(in.BodyStatus, "불가능") || strings.Contains(in.BodyStatus, "보조")
		},
		text: "- 장기요양 등급 신청 안내 및 보조기기(지팡이/보행기) 지원 검토",
	},
	{
		applies: func(_ Input, _ models.Grade, risks, criticals []string) bool {
			return anyContains(risks, "영양", "식재료") || anyContains(criticals, "식사")
		},
		text: "- 결식 예방을 위한 밑반찬 배달 서비스 및 푸드뱅크 연계",
	},
	{
		applies: func(_ Input, _ models.Grade, risks, criticals []string) bool {
			return anyContains(risks, "미끄럼", "문턱") || anyContains(criticals, "낙상")
		},
		text: "- 주거환경개선사업 신청 (안전바 설치, 문턱 제거, 미끄럼방지 매트)",
	},
	{
		applies: func(_ Input, _ models.Grade, risks, criticals []string) bool {
			return anyContains(risks, "위생", "악취") || anyContains(criticals, "쓰레기")
		},
		text: "- 주거 위생 방역 서비스 및 대청소 자원봉사 연계",
	},
	{
		applies: func(_ Input, _ models.Grade, _, criticals []string) bool {
			return anyContains(criticals, "고립", "우울", "자살")
		},
		text: "- 정신건강복지센터 상담 의뢰 및 특화서비스(우울예방) 프로그램 연계",
	},
	{
		applies: func(_ Input, _ models.Grade, _, criticals []string) bool {
			return anyContains(criticals, "경제", "체납", "단전")
		},
		text: "- 긴급복지생계비 지원 신청 및 공적 부조 상담",
	},
}

func recommendations(in Input, grade models.Grade, risks, criticals []string) []string {
	if grade == models.GradeExemplary {
		return []string{
			"- 현재 상태 유지를 위한 정기 안부 확인 (주 1회)",
			"- 타 대상자 멘토링 프로그램 참여 권유",
		}
	}

	var out []string
	for _, rule := range recommendationRules {
		if rule.applies(in, grade, risks, criticals) {
			out = append(out, rule.text)
		}
	}
	if len(out) == 0 {
		out = []string{
			"- 주기적인 생활 실태 점검 및 정서 지원 강화",
			"- 필요시 생활지원사 방문 횟수 증대 검토",
		}
	}
	return out
}

func anyContains(texts []string, keywords ...string) bool {
	for _, t := range texts {
		for _, kw := range keywords {
			if strings.Contains(t, kw) {
				return true
			}
		}
	}
	return false
}

func countAnswered(indicators map[string]string) int {
	n := 0
	for _, v := range indicators {
		if v != "" {
			n++
		}
	}
	return n
}
