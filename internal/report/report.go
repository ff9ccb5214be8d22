// Package report builds the operator-facing report texts: phone-check
// and visit summaries, the follow-up interview sheet and the quarterly
// IPA policy memo. All output is templated text, deterministic given
// its inputs and the clock.
package report

import (
	"fmt"
	"strings"
	"time"

	"carewatch/internal/catalog"
	"carewatch/internal/hypothesis"
	"carewatch/internal/models"
)

// Report is one generated document.
type Report struct {
	FileName string
	Subject  string
	Body     string
}

// Builder generates reports. The clock feeds dates in headers and file
// names.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a report builder.
func NewBuilder(now func() time.Time) *Builder {
	return &Builder{now: now}
}

func (b *Builder) today() string {
	return b.now().Format("2006-01-02")
}

// BuildPhoneReport summarizes one phone check-in.
func (b *Builder) BuildPhoneReport(record models.PhoneCallRecord) Report {
	var body strings.Builder
	body.WriteString(fmt.Sprintf("[%s 전화 모니터링 결과 보고]\n", b.today()))
	body.WriteString(fmt.Sprintf("■ 대상자: %s (%s, %d년생)\n", record.Name, record.Gender, record.BirthYear))
	body.WriteString(fmt.Sprintf("■ 수행기관: %s\n", record.Agency))
	body.WriteString(fmt.Sprintf("■ 처리 상태: %s / 만족도: %s\n\n", record.Status, record.Satisfaction))

	if len(record.Indicators) > 0 {
		body.WriteString("1. 지표별 응답\n")
		for _, ind := range catalog.GetIndicators(record.ServiceType, models.ModePhone) {
			if answer, ok := record.Indicators[ind.ID]; ok && answer != "" {
				body.WriteString(fmt.Sprintf("- %s: %s\n", ind.Label, answer))
			}
		}
		body.WriteString("\n")
	}

	if record.SafetyTrend != "" {
		body.WriteString("2. 안전 동향\n" + record.SafetyTrend + "\n\n")
	}
	if record.SpecialNotes != "" {
		body.WriteString("3. 특이사항\n" + record.SpecialNotes + "\n")
	}

	return Report{
		FileName: fmt.Sprintf("phone_report_%s_%s.txt", record.Name, b.today()),
		Subject:  fmt.Sprintf("[전화 모니터링] %s 어르신 결과 보고", record.Name),
		Body:     body.String(),
	}
}

// BuildVisitReport wraps a graded visit's action memo with the subject
// header.
func (b *Builder) BuildVisitReport(target models.RiskTarget) Report {
	var body strings.Builder
	body.WriteString(fmt.Sprintf("■ 대상자: %s (%s)\n", target.Name, target.Agency))
	body.WriteString(fmt.Sprintf("■ 위험 사유: %s\n\n", target.RiskDetails))
	body.WriteString(target.ActionMemo)

	return Report{
		FileName: fmt.Sprintf("visit_report_%s_%s.txt", target.Name, b.today()),
		Subject:  fmt.Sprintf("[현장점검] %s 어르신 %s 단계 판정 보고", target.Name, target.Grade),
		Body:     body.String(),
	}
}

// BuildInterviewReport renders a candidate's deep-interview sheet: the
// selection reason, the before/after tracking states and the question
// set for the candidate's reason type with any recorded answers.
func (b *Builder) BuildInterviewReport(candidate models.Candidate) Report {
	var body strings.Builder
	body.WriteString(fmt.Sprintf("[%s 심층 인터뷰 결과지]\n", b.today()))
	body.WriteString(fmt.Sprintf("■ 대상자: %s (%s)\n", candidate.Name, candidate.Agency))
	body.WriteString(fmt.Sprintf("■ 선정 유형: %s\n", candidate.ReasonType))
	body.WriteString(fmt.Sprintf("■ 선정 사유: %s\n\n", candidate.Reason))

	body.WriteString("1. 변화 추적\n")
	body.WriteString(fmt.Sprintf("- 생활 안정: %s / 정서: %s / 사회관계: %s / 건강: %s\n\n",
		orDash(string(candidate.TrackStability)), orDash(string(candidate.TrackEmotion)),
		orDash(string(candidate.TrackSocial)), orDash(string(candidate.TrackHealth))))

	body.WriteString("2. 인터뷰 문답\n")
	for i, q := range catalog.InterviewQuestions[candidate.ReasonType] {
		key := fmt.Sprintf("q%d", i+1)
		body.WriteString(fmt.Sprintf("Q%d. %s\nA. %s\n", i+1, q, orDash(candidate.InterviewAnswers[key])))
	}

	if candidate.InterviewerOpinion != "" {
		body.WriteString("\n3. 면접자 종합 의견\n" + candidate.InterviewerOpinion + "\n")
	}

	return Report{
		FileName: fmt.Sprintf("interview_%s_%s.txt", candidate.Name, b.today()),
		Subject:  fmt.Sprintf("[심층 인터뷰] %s 어르신 결과지", candidate.Name),
		Body:     body.String(),
	}
}

// BuildPolicyMemo renders the IPA-style policy memo from the verified
// hypotheses and the extracted candidate pool. Templated narrative, not
// computed statistics.
func (b *Builder) BuildPolicyMemo(hypotheses []models.Hypothesis, candidates []models.Candidate) Report {
	var highPerformers, mismatches, specialCases []models.Candidate
	for _, c := range candidates {
		switch c.ReasonType {
		case models.ReasonHighPerformer:
			highPerformers = append(highPerformers, c)
		case models.ReasonDataMismatch:
			mismatches = append(mismatches, c)
		case models.ReasonSpecialCase:
			specialCases = append(specialCases, c)
		}
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("[%s 데이터 기반 서비스 개선 정책 제언 (IPA 분석)]\n\n", b.today()))

	body.WriteString("1. 중점 개선 영역 (검증된 위험 가설)\n")
	verified := 0
	for _, h := range hypotheses {
		if len(h.Verification) == 0 {
			continue
		}
		verified++
		body.WriteString(fmt.Sprintf("- '%s → %s' 가설: 응답자 %d명 중 지지율 %d%%\n",
			h.Factor, h.Outcome, len(h.Verification), hypothesis.SupportRate(h)))
	}
	if verified == 0 {
		body.WriteString("- 검증 데이터가 축적된 가설이 없습니다.\n")
	}

	body.WriteString("\n2. 유지 강화 영역 (성과우수·회복탄력 사례)\n")
	if len(highPerformers)+len(mismatches) == 0 {
		body.WriteString("- 해당 사례 없음\n")
	}
	for _, c := range append(highPerformers, mismatches...) {
		body.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.Reason))
	}

	body.WriteString("\n3. 신규 수요 발굴 영역 (미충족 욕구 Gap)\n")
	if len(specialCases) == 0 {
		body.WriteString("- 식별된 Gap 없음\n")
	}
	for _, c := range specialCases {
		body.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.Reason))
	}

	body.WriteString("\n4. 과잉 투자 재검토 영역\n")
	body.WriteString("- 만족도와 중요도가 모두 낮은 서비스 항목은 차기 분기 자원 재배분 시 축소를 검토합니다.\n")

	return Report{
		FileName: fmt.Sprintf("policy_memo_%s.txt", b.today()),
		Subject:  "[정책 제언] 데이터 기반 서비스 개선 메모",
		Body:     body.String(),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
