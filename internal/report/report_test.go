package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"carewatch/internal/models"
)

func newTestBuilder() *Builder {
	return NewBuilder(func() time.Time { return time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC) })
}

func TestBuildPhoneReport(t *testing.T) {
	b := newTestBuilder()

	r := b.BuildPhoneReport(models.PhoneCallRecord{
		Name:         "김철수",
		Gender:       "남",
		BirthYear:    1951,
		Agency:       "행복복지관",
		ServiceType:  models.ServiceGeneral,
		Status:       models.StatusRisk,
		Satisfaction: "불만족",
		SafetyTrend:  "최근 낙상 사고 이후 거동 불편 호소",
		Indicators:   map[string]string{"gen_1": "가끔 거름"},
	})

	assert.Equal(t, "phone_report_김철수_2026-03-10.txt", r.FileName)
	assert.Contains(t, r.Subject, "김철수")
	assert.Contains(t, r.Body, "[2026-03-10 전화 모니터링 결과 보고]")
	assert.Contains(t, r.Body, "가끔 거름")
	assert.Contains(t, r.Body, "2. 안전 동향")
}

func TestBuildVisitReport(t *testing.T) {
	b := newTestBuilder()

	r := b.BuildVisitReport(models.RiskTarget{
		Name:        "박영희",
		Agency:      "행복복지관",
		RiskDetails: "만족도 저하",
		Grade:       models.GradeCrisis,
		ActionMemo:  "[2026-03-10 현장점검 분석 보고서]\n...",
	})

	assert.Contains(t, r.Subject, "위기 단계")
	assert.Contains(t, r.Body, "■ 위험 사유: 만족도 저하")
	assert.Contains(t, r.Body, "현장점검 분석 보고서")
}

func TestBuildInterviewReport_QuestionsFollowReasonType(t *testing.T) {
	b := newTestBuilder()

	r := b.BuildInterviewReport(models.Candidate{
		Name:           "이순자",
		Agency:         "행복복지관",
		Reason:         "가설 불일치 (회복탄력성 우수 추정)",
		ReasonType:     models.ReasonDataMismatch,
		TrackStability: models.TrackImproved,
		InterviewAnswers: map[string]string{
			"q1": "딸이 매주 들러 줍니다",
		},
	})

	assert.Contains(t, r.Body, "■ 선정 유형: 데이터불일치")
	assert.Contains(t, r.Body, "Q1. 예상과 달리 잘 지내고 계신 것으로 보이는데, 어떤 도움이 있었나요?")
	assert.Contains(t, r.Body, "A. 딸이 매주 들러 줍니다")
	// Unanswered questions render as a dash.
	assert.Contains(t, r.Body, "A. -")
}

func TestBuildPolicyMemo(t *testing.T) {
	b := newTestBuilder()

	hypotheses := []models.Hypothesis{
		{
			Factor: "고독감", Outcome: "우울감",
			Verification: []models.VerificationData{
				{Pattern: models.PatternSupport},
				{Pattern: models.PatternSupport},
				{Pattern: models.PatternMismatchSuccess},
			},
		},
		{Factor: "난방 미비", Outcome: "수면 장애"}, // no evidence, omitted
	}
	candidates := []models.Candidate{
		{Name: "이순자", ReasonType: models.ReasonDataMismatch, Reason: "가설 불일치 (회복탄력성 우수 추정)"},
		{Name: "김철수", ReasonType: models.ReasonSpecialCase, Reason: "최우선 서비스(안전 지원) 만족도 저조 (점수:1)"},
	}

	r := b.BuildPolicyMemo(hypotheses, candidates)
	assert.Contains(t, r.Body, "'고독감 → 우울감' 가설: 응답자 3명 중 지지율 67%")
	assert.NotContains(t, r.Body, "난방 미비")
	assert.Contains(t, r.Body, "2. 유지 강화 영역")
	assert.Contains(t, r.Body, "- 이순자: 가설 불일치")
	assert.Contains(t, r.Body, "3. 신규 수요 발굴 영역")
	assert.Contains(t, r.Body, "- 김철수: 최우선 서비스")
	assert.Contains(t, r.Body, "4. 과잉 투자 재검토 영역")
}

func TestBuildPolicyMemo_EmptyInputs(t *testing.T) {
	b := newTestBuilder()

	r := b.BuildPolicyMemo(nil, nil)
	assert.Contains(t, r.Body, "검증 데이터가 축적된 가설이 없습니다")
	assert.Contains(t, r.Body, "- 해당 사례 없음")
	assert.Contains(t, r.Body, "- 식별된 Gap 없음")
}
