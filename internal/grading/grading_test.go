package grading

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carewatch/internal/catalog"
	"carewatch/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(func() time.Time { return time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC) })
}

func TestGrade_GuardRejectsEmptyInput(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Grade(Input{BodyStatus: catalog.BodyFreeAmbulation})
	assert.ErrorIs(t, err, ErrInsufficientInput)

	_, err = engine.Grade(Input{})
	assert.ErrorIs(t, err, ErrInsufficientInput)
}

func TestGrade_NonDefaultBodyStatusPassesGuard(t *testing.T) {
	engine := newTestEngine()

	res, err := engine.Grade(Input{BodyStatus: catalog.BodyMobilityCrisis})
	require.NoError(t, err)
	assert.Equal(t, models.GradeCrisis, res.Grade)
	assert.Zero(t, res.Score)
}

func TestGrade_ChecklistOnlyScoresCaution(t *testing.T) {
	engine := newTestEngine()

	res, err := engine.Grade(Input{
		ServiceType: models.ServiceGeneral,
		EnvChecks:   []string{"영양 불균형", "냉장고 위생 위기"},
		BodyStatus:  catalog.BodyNeedsAssist,
		Indicators: map[string]string{
			"gen_1": "양호",
			"gen_2": "양호",
			"gen_3": "활발",
			"gen_4": "없음",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, models.GradeCaution, res.Grade)
}

func TestGrade_CriticalIndicatorForcesCrisis(t *testing.T) {
	engine := newTestEngine()

	res, err := engine.Grade(Input{
		ServiceType: models.ServiceGeneral,
		BodyStatus:  catalog.BodyNeedsAssist,
		Indicators:  map[string]string{"gen_1": "식사 거부 위기 징후"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.GradeCrisis, res.Grade)
	assert.Equal(t, []string{"식사 거부 위기 징후"}, res.CriticalFindings)
}

func TestGrade_ExemplaryRequiresFiveAnswersAndZeroScore(t *testing.T) {
	engine := newTestEngine()

	clean := map[string]string{
		"gen_1": "양호", "gen_2": "양호", "gen_3": "활발",
		"gen_4": "없음", "gen_5": "양호",
	}
	res, err := engine.Grade(Input{ServiceType: models.ServiceGeneral, Indicators: clean})
	require.NoError(t, err)
	assert.Equal(t, models.GradeExemplary, res.Grade)

	// Four answers is standard management, not exemplary.
	four := map[string]string{
		"gen_1": "양호", "gen_2": "양호", "gen_3": "활발", "gen_4": "없음",
	}
	res, err = engine.Grade(Input{ServiceType: models.ServiceGeneral, Indicators: four})
	require.NoError(t, err)
	assert.Equal(t, models.GradeStandard, res.Grade)
}

// Increasing the number of critical findings never lowers severity.
func TestGrade_MonotoneInCriticalFindings(t *testing.T) {
	engine := newTestEngine()
	rank := map[models.Grade]int{
		models.GradeStandard: 0, models.GradeExemplary: 0,
		models.GradeCaution: 1, models.GradeCrisis: 2,
	}

	indicators := map[string]string{"gen_1": "양호"}
	prev := -1
	criticalIDs := []string{"gen_2", "gen_3", "gen_4"}
	for _, id := range criticalIDs {
		indicators[id] = "심각한 통증 호소"
		res, err := engine.Grade(Input{ServiceType: models.ServiceGeneral, Indicators: indicators})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rank[res.Grade], prev)
		prev = rank[res.Grade]
	}
	assert.Equal(t, 2, prev)
}

func TestGrade_MemoLayout(t *testing.T) {
	engine := newTestEngine()

	res, err := engine.Grade(Input{
		ServiceType:  models.ServiceGeneral,
		EnvChecks:    []string{"영양 불균형"},
		SafetyChecks: []string{"미끄럼 위험"},
		BodyStatus:   catalog.BodyNeedsAssist,
		Indicators:   map[string]string{"gen_safety": "위험 요소 발견"},
	})
	require.NoError(t, err)
	require.Equal(t, models.GradeCrisis, res.Grade)

	memo := res.Memo
	assert.True(t, strings.HasPrefix(memo, "[2026-03-10 현장점검 분석 보고서]\n"))
	assert.Contains(t, memo, "■ 종합 판정: 위기 단계\n")
	assert.Contains(t, memo, "■ 신체/기능 상태: 보조가 필요한 상태\n")
	assert.Contains(t, memo, "'고위험군'으로 분류됩니다")
	assert.Contains(t, memo, "[영양 불균형, 미끄럼 위험] 등의 문제가 식별되었습니다")
	assert.Contains(t, memo, "2. 주요 식별 리스크 (정밀지표 기반)")
	assert.Contains(t, memo, "- 🚨 위기 요인: 위험 요소 발견")
	assert.Contains(t, memo, "3. 맞춤형 조치 권고")
}

func TestGrade_RecommendationRuleOrder(t *testing.T) {
	engine := newTestEngine()

	res, err := engine.Grade(Input{
		ServiceType:  models.ServiceGeneral,
		EnvChecks:    []string{"영양 불균형", "위생상태 불량"},
		SafetyChecks: []string{"미끄럼 위험"},
		BodyStatus:   catalog.BodyMobilityCrisis,
	})
	require.NoError(t, err)

	memo := res.Memo
	want := []string{
		"- 지자체 사례회의 긴급 상정 및 통합사례관리 대상자 의뢰",
		"- 장기요양 등급 신청 안내 및 보조기기(지팡이/보행기) 지원 검토",
		"- 결식 예방을 위한 밑반찬 배달 서비스 및 푸드뱅크 연계",
		"- 주거환경개선사업 신청 (안전바 설치, 문턱 제거, 미끄럼방지 매트)",
		"- 주거 위생 방역 서비스 및 대청소 자원봉사 연계",
	}
	pos := -1
	for _, line := range want {
		idx := strings.Index(memo, line)
		require.GreaterOrEqual(t, idx, 0, "missing recommendation: %s", line)
		assert.Greater(t, idx, pos, "out of order: %s", line)
		pos = idx
	}
}

func TestGrade_ExemplaryUsesMaintenancePair(t *testing.T) {
	engine := newTestEngine()

	res, err := engine.Grade(Input{
		ServiceType: models.ServiceGeneral,
		Indicators: map[string]string{
			"gen_1": "양호", "gen_2": "양호", "gen_3": "활발",
			"gen_4": "없음", "gen_5": "양호",
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.GradeExemplary, res.Grade)
	assert.Contains(t, res.Memo, "- 현재 상태 유지를 위한 정기 안부 확인 (주 1회)")
	assert.Contains(t, res.Memo, "- 타 대상자 멘토링 프로그램 참여 권유")
	assert.NotContains(t, res.Memo, "긴급 상정")
}

func TestGrade_FallbackRecommendations(t *testing.T) {
	engine := newTestEngine()

	res, err := engine.Grade(Input{
		ServiceType: models.ServiceGeneral,
		Indicators:  map[string]string{"gen_2": "수면 부족"},
	})
	require.NoError(t, err)
	require.Equal(t, models.GradeCaution, res.Grade)
	assert.Contains(t, res.Memo, "- 주기적인 생활 실태 점검 및 정서 지원 강화")
	assert.Contains(t, res.Memo, "- 필요시 생활지원사 방문 횟수 증대 검토")
}

func TestGrade_Deterministic(t *testing.T) {
	engine := newTestEngine()
	in := Input{
		ServiceType: models.ServiceGeneral,
		EnvChecks:   []string{"실내 악취"},
		BodyStatus:  catalog.BodyNeedsAssist,
		Indicators:  map[string]string{"gen_2": "극심한 불면", "gen_loneliness": "관계망 부족"},
	}
	first, err := engine.Grade(in)
	require.NoError(t, err)
	second, err := engine.Grade(in)
	require.NoError(t, err)
	assert.Equal(t, first.Memo, second.Memo)
	assert.Equal(t, first.Grade, second.Grade)
}
