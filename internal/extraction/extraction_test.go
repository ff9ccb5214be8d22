package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carewatch/internal/models"
	"carewatch/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.CandidateStore) {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }
	candidates := store.NewCandidateStore(now)
	return NewEngine(candidates, zap.NewNop(), now), candidates
}

func row(name, ageBracket, priority, gap string, answers map[int]string) models.SurveyRow {
	cols := make([]string, 23)
	cols[0] = name
	cols[1] = "여"
	cols[2] = ageBracket
	cols[3] = "행복복지관"
	cols[4] = "일반 돌봄"
	for q, a := range answers {
		cols[7+q] = a
	}
	cols[18] = priority
	cols[19] = gap
	return models.SurveyRow{Columns: cols}
}

func TestExtract_PriorityMismatch(t *testing.T) {
	engine, _ := newTestEngine(t)
	batch := map[string]bool{}

	c := engine.Extract(row("김철수", "70대", "안전 지원", "", map[int]string{4: "1"}), false, batch)
	require.NotNil(t, c)
	assert.Equal(t, models.ReasonSpecialCase, c.ReasonType)
	assert.Equal(t, "최우선 서비스(안전 지원) 만족도 저조 (점수:1)", c.Reason)
}

func TestExtract_PriorityScoreAboveTwoDoesNotTrigger(t *testing.T) {
	engine, _ := newTestEngine(t)
	batch := map[string]bool{}

	c := engine.Extract(row("김철수", "70대", "안전 지원", "", map[int]string{4: "3"}), false, batch)
	assert.Nil(t, c)
}

func TestExtract_UnknownPriorityKeepsDefaultScore(t *testing.T) {
	engine, _ := newTestEngine(t)
	batch := map[string]bool{}

	// No category keyword matches, so the default score 5 applies and
	// the trigger does not fire even with a low Q4 answer.
	c := engine.Extract(row("김철수", "70대", "건강 지원", "", map[int]string{4: "1"}), false, batch)
	assert.Nil(t, c)
}

func TestExtract_GapSignal(t *testing.T) {
	engine, _ := newTestEngine(t)
	batch := map[string]bool{}

	gap := "말벗이 되어 줄 사람이 있으면 좋겠고 병원 동행도 필요합니다"
	c := engine.Extract(row("박영희", "80대", "", gap, nil), false, batch)
	require.NotNil(t, c)
	assert.Equal(t, models.ReasonSpecialCase, c.ReasonType)
	// 15-rune excerpt plus ellipsis.
	assert.Equal(t, "미충족 욕구(Gap) 식별: \"말벗이 되어 줄 사람이 있으...\"", c.Reason)
}

func TestExtract_HypothesisMismatch(t *testing.T) {
	engine, _ := newTestEngine(t)
	batch := map[string]bool{}

	c := engine.Extract(row("이순자", "70대", "", "", nil), true, batch)
	require.NotNil(t, c)
	assert.Equal(t, models.ReasonDataMismatch, c.ReasonType)
	assert.Equal(t, "가설 불일치 (회복탄력성 우수 추정)", c.Reason)
}

// A row satisfying several triggers still yields exactly one candidate,
// attributed to the first rule in evaluation order.
func TestExtract_FirstTriggerWins(t *testing.T) {
	engine, candidates := newTestEngine(t)
	batch := map[string]bool{}

	c := engine.Extract(row("김철수", "70대", "안전 지원", "혼자 병원 가기가 너무 힘듭니다", map[int]string{4: "1"}), true, batch)
	require.NotNil(t, c)
	assert.Equal(t, models.ReasonSpecialCase, c.ReasonType)
	assert.Contains(t, c.Reason, "최우선 서비스")
	assert.Equal(t, 1, candidates.Len())
}

func TestExtract_DedupAcrossBatchAndPool(t *testing.T) {
	engine, candidates := newTestEngine(t)
	batch := map[string]bool{}

	first := engine.Extract(row("김철수", "70대", "안전 지원", "", map[int]string{4: "1"}), false, batch)
	require.NotNil(t, first)

	// Same name, different trigger: skipped.
	second := engine.Extract(row("김철수", "70대", "", "도움이 꼭 필요한 상황입니다", nil), false, batch)
	assert.Nil(t, second)
	assert.Equal(t, 1, candidates.Len())

	// Pool-level dedup without batch state.
	third := engine.Extract(row("김철수", "70대", "", "도움이 꼭 필요한 상황입니다", nil), false, map[string]bool{})
	assert.Nil(t, third)
	assert.Equal(t, 1, candidates.Len())
}

func TestExtract_BirthYearMidDecadeHeuristic(t *testing.T) {
	engine, _ := newTestEngine(t)

	c := engine.Extract(row("박영희", "80대", "", "병원 동행 서비스가 꼭 필요해요", nil), false, map[string]bool{})
	require.NotNil(t, c)
	// 2026 - (80 + 5)
	assert.Equal(t, 1941, c.BirthYear)

	c2 := engine.Extract(row("최복순", "알수없음", "", "병원 동행 서비스가 꼭 필요해요", nil), false, map[string]bool{})
	require.NotNil(t, c2)
	// Unparsable bracket falls back to the 70s decade.
	assert.Equal(t, 1951, c2.BirthYear)
}

func TestExtract_NoTriggerNoCandidate(t *testing.T) {
	engine, candidates := newTestEngine(t)

	c := engine.Extract(row("한기남", "70대", "", "없음", nil), false, map[string]bool{})
	assert.Nil(t, c)
	assert.Zero(t, candidates.Len())
}
