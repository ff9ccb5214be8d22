// Package catalog holds the static question and label tables: per
// service-type indicator sets for phone and visit modes, the visit
// checklist items, the hypothesis question mapping and the follow-up
// interview question sets. Pure data, read-only.
package catalog

import (
	"strings"

	"carewatch/internal/models"
)

// Indicator is one structured question with a closed answer set.
type Indicator struct {
	ID      string
	Label   string
	Options []string
}

// ChecklistItem is one environment or safety checklist entry.
type ChecklistItem struct {
	ID    string
	Label string
}

// HypothesisMapping links a visit-time question selection to the
// factor->outcome claim it evidences, with traceability references
// into the bulk-survey question layout.
type HypothesisMapping struct {
	QuestionID string
	Factor     string
	Outcome    string
	CauseQ     string
	EffectQ    string
}

// Body-function status options for the visit form. The first entry is
// the form default.
const (
	BodyFreeAmbulation = "자유로운 보행 가능"
	BodyNeedsAssist    = "보조가 필요한 상태"
	BodyMobilityCrisis = "거동이 불가능한 위기"
)

// EnvChecklist and SafetyChecklist are the visit-form checklists.
var EnvChecklist = []ChecklistItem{
	{ID: "env_hygiene", Label: "위생상태 불량"},
	{ID: "env_odor", Label: "실내 악취"},
	{ID: "env_fridge", Label: "냉장고 위생 위기"},
	{ID: "env_nutrition", Label: "영양 불균형"},
}

var SafetyChecklist = []ChecklistItem{
	{ID: "safety_slip", Label: "미끄럼 위험"},
	{ID: "safety_obstacle", Label: "이동 장애물"},
	{ID: "safety_lighting", Label: "조명 시설 불량"},
	{ID: "safety_contact", Label: "비상연락망 미인지"},
}

// phoneIndicators: ten questions per service type, asked during a
// telephone check-in.
var phoneIndicators = map[models.ServiceType][]Indicator{
	models.ServiceGeneral: {
		{ID: "gen_1", Label: "최근 식사는 규칙적으로 하고 계신가요?", Options: []string{"규칙적으로 잘 챙겨 먹음", "가끔 거름", "거의 안 먹음 (식사 거부/위험)"}},
		{ID: "gen_2", Label: "밤에 잠은 잘 주무시나요?", Options: []string{"잘 잠", "자주 깸", "거의 못 잠 (수면 어려움 호소)"}},
		{ID: "gen_3", Label: "외출은 얼마나 자주 하시나요?", Options: []string{"주 3회 이상", "주 1~2회", "거의 없음 (외출 거부)"}},
		{ID: "gen_4", Label: "몸이 아프거나 불편한 곳이 있으신가요?", Options: []string{"없음", "가벼운 통증", "거동이 어려움 (악화 발견)"}},
		{ID: "gen_5", Label: "약은 잘 챙겨 드시고 계신가요?", Options: []string{"잘 복용함", "가끔 잊음", "복용에 어려움 있음"}},
		{ID: "gen_stability", Label: "요즘 마음이 불안하다고 느끼시나요?", Options: []string{"아니요", "가끔", "자주 (수시로 불안감 느낌)"}},
		{ID: "gen_loneliness", Label: "연락하거나 의지할 사람이 있으신가요?", Options: []string{"있음", "가끔 연락함", "없음 (연락할 곳 취약)"}},
		{ID: "gen_8", Label: "집 안 생활에 불편한 점이 있으신가요?", Options: []string{"없음", "다소 불편", "생활에 어려움 큼"}},
		{ID: "gen_safety", Label: "넘어지거나 다칠 뻔한 일이 있었나요?", Options: []string{"없음", "한두 번 있었음", "불안요소 발견"}},
		{ID: "gen_10", Label: "제공 중인 서비스에 만족하시나요?", Options: []string{"만족", "보통", "불만족"}},
	},
	models.ServiceDischarge: {
		{ID: "dis_1", Label: "퇴원 후 몸 상태는 어떠신가요?", Options: []string{"회복 중", "그대로", "악화 발견"}},
		{ID: "dis_2", Label: "처방받은 약 복용에 어려움은 없으신가요?", Options: []string{"없음", "가끔 잊음", "복용에 어려움 있음"}},
		{ID: "dis_3", Label: "식사 준비는 어떻게 하고 계신가요?", Options: []string{"직접 준비", "도움 받음", "준비에 어려움 큼"}},
		{ID: "dis_4", Label: "통원 치료는 계획대로 다니시나요?", Options: []string{"잘 다님", "가끔 거름", "이동이 어려움"}},
		{ID: "dis_5", Label: "상처나 수술 부위는 괜찮으신가요?", Options: []string{"괜찮음", "약간 불편", "이상 발견"}},
		{ID: "dis_stability", Label: "재입원에 대한 걱정이 있으신가요?", Options: []string{"없음", "가끔", "자주 (수시로 불안감 느낌)"}},
		{ID: "dis_loneliness", Label: "간병이나 도움을 줄 사람이 있으신가요?", Options: []string{"있음", "가끔 도움 받음", "없음 (연락할 곳 취약)"}},
		{ID: "dis_8", Label: "일상 활동(세면/옷 입기)은 혼자 가능하신가요?", Options: []string{"가능", "일부 도움 필요", "혼자서는 어려움"}},
		{ID: "dis_safety", Label: "집 안에서 넘어질 뻔한 일이 있었나요?", Options: []string{"없음", "한두 번 있었음", "불안요소 발견"}},
		{ID: "dis_10", Label: "퇴원 연계 서비스에 만족하시나요?", Options: []string{"만족", "보통", "불만족"}},
	},
	models.ServiceSpecialized: {
		{ID: "spe_1", Label: "요즘 기분은 어떠신가요?", Options: []string{"괜찮음", "가라앉음", "절망적이라고 느낌"}},
		{ID: "spe_2", Label: "사람 만나는 것이 꺼려지시나요?", Options: []string{"아니요", "가끔", "자주 (외부와 단절)"}},
		{ID: "spe_3", Label: "식사와 수면은 규칙적인가요?", Options: []string{"규칙적", "불규칙", "식사 거부/불면 심각"}},
		{ID: "spe_4", Label: "술이나 약에 의존하게 되시나요?", Options: []string{"아니요", "가끔", "의존이 심해짐 발견"}},
		{ID: "spe_5", Label: "경제적인 어려움이 있으신가요?", Options: []string{"없음", "다소 있음", "생계 유지 어려움"}},
		{ID: "spe_stability", Label: "불안하거나 무서운 생각이 드시나요?", Options: []string{"아니요", "가끔", "항상 (극도의 공포/잠 못 듦)"}},
		{ID: "spe_loneliness", Label: "속마음을 이야기할 사람이 있으신가요?", Options: []string{"있음", "가끔", "없음 (고립감 호소)"}},
		{ID: "spe_8", Label: "하루를 어떻게 보내시나요?", Options: []string{"활동적으로", "집에서 주로", "거의 누워서 지냄"}},
		{ID: "spe_safety", Label: "신변에 위협을 느낀 적이 있으신가요?", Options: []string{"없음", "가끔", "불안요소 발견"}},
		{ID: "spe_10", Label: "상담 서비스가 도움이 되시나요?", Options: []string{"도움됨", "보통", "불만족"}},
	},
}

// visitIndicators: the in-person counterparts. Same slot structure,
// question text rephrased for direct observation.
var visitIndicators = map[models.ServiceType][]Indicator{
	models.ServiceGeneral: {
		{ID: "gen_1", Label: "식사 상태는 어떠한가?", Options: []string{"양호", "불규칙한 식사", "식사 거부 위기 징후"}},
		{ID: "gen_2", Label: "수면 상태는 어떠한가?", Options: []string{"양호", "수면 부족", "극심한 불면"}},
		{ID: "gen_3", Label: "외부 활동 수준은?", Options: []string{"활발", "저조", "외출 거부 은둔"}},
		{ID: "gen_4", Label: "신체 통증/불편은?", Options: []string{"없음", "경미한 통증", "심각한 통증 호소"}},
		{ID: "gen_5", Label: "복약 관리는 되고 있는가?", Options: []string{"양호", "복약 관리 미흡", "복약 거부"}},
		{ID: "gen_stability", Label: "정서적 안정 상태는?", Options: []string{"안정적", "다소 불안", "극심한 불안 호소"}},
		{ID: "gen_loneliness", Label: "사회적 관계망은?", Options: []string{"유지됨", "관계망 부족", "관계 단절 고립"}},
		{ID: "gen_8", Label: "주거 내 생활 수행은?", Options: []string{"자립 가능", "일부 도움 필요", "자력 생활 불가 위험"}},
		{ID: "gen_safety", Label: "낙상 등 안전 위험은?", Options: []string{"없음", "주의 필요", "위험 요소 발견"}},
		{ID: "gen_10", Label: "서비스 수용 태도는?", Options: []string{"협조적", "소극적", "개입 거부 적대적"}},
	},
	models.ServiceDischarge: {
		{ID: "dis_1", Label: "퇴원 후 회복 경과는?", Options: []string{"양호", "회복 지연", "상태 악화 심각"}},
		{ID: "dis_2", Label: "복약 이행 상태는?", Options: []string{"양호", "복약 관리 미흡", "복약 중단 위험"}},
		{ID: "dis_3", Label: "영양 섭취 상태는?", Options: []string{"양호", "영양 부족", "결식 위기"}},
		{ID: "dis_4", Label: "통원 치료 이행은?", Options: []string{"양호", "치료 회피", "치료 중단 위험"}},
		{ID: "dis_5", Label: "상처/수술 부위 관리 상태는?", Options: []string{"양호", "관리 미흡", "감염 징후 발견"}},
		{ID: "dis_stability", Label: "재입원 불안 수준은?", Options: []string{"낮음", "다소 불안", "극심한 불안 호소"}},
		{ID: "dis_loneliness", Label: "간병 지원망은?", Options: []string{"충분", "지원 부족", "돌봄 부재"}},
		{ID: "dis_8", Label: "일상 활동 수행 능력은?", Options: []string{"자립 가능", "일부 도움 필요", "전적 도움 필요 심각"}},
		{ID: "dis_safety", Label: "주거 내 안전 위험은?", Options: []string{"없음", "주의 필요", "위험 요소 발견"}},
		{ID: "dis_10", Label: "연계 서비스 수용도는?", Options: []string{"협조적", "소극적", "서비스 거부"}},
	},
	models.ServiceSpecialized: {
		{ID: "spe_1", Label: "우울/무기력 수준은?", Options: []string{"안정적", "다소 무력함", "절망감 표출 심각"}},
		{ID: "spe_2", Label: "대인 접촉 상태는?", Options: []string{"유지됨", "접촉 회피", "완전한 단절 은둔"}},
		{ID: "spe_3", Label: "기본 생활 리듬은?", Options: []string{"규칙적", "불규칙", "붕괴 수준 심각"}},
		{ID: "spe_4", Label: "음주/약물 의존 징후는?", Options: []string{"없음", "의존 경향 주의", "오남용 위기"}},
		{ID: "spe_5", Label: "경제적 곤란 징후는?", Options: []string{"없음", "공과금 체납", "단전/단수 위기"}},
		{ID: "spe_stability", Label: "불안/공포 호소 수준은?", Options: []string{"낮음", "다소 불안", "극심한 공포 호소"}},
		{ID: "spe_loneliness", Label: "정서적 지지망은?", Options: []string{"있음", "지지망 부족", "고립 단절 심각"}},
		{ID: "spe_8", Label: "일상 활동성은?", Options: []string{"활동적", "활동 저조", "칩거 은둔 상태"}},
		{ID: "spe_safety", Label: "자기방임/위해 위험은?", Options: []string{"없음", "방임 경향 주의", "자살 위험 발견"}},
		{ID: "spe_10", Label: "상담 개입 수용도는?", Options: []string{"협조적", "소극적", "개입 거부 적대적"}},
	},
}

// hypothesisMappings: visit-question selections that spawn a hypothesis.
// CauseQ/EffectQ reference the bulk-survey question layout: the cause is
// asked in part 1 (Q1..Q5) and the paired effect in part 3 (Q4..Q8).
var hypothesisMappings = map[models.ServiceType][]HypothesisMapping{
	models.ServiceGeneral: {
		{QuestionID: "gen_safety", Factor: "미끄러운 바닥", Outcome: "낙상 사고", CauseQ: "Step1_Q1", EffectQ: "Step3_Q4"},
		{QuestionID: "gen_1", Factor: "식사 거부", Outcome: "건강 악화", CauseQ: "Step1_Q2", EffectQ: "Step3_Q5"},
		{QuestionID: "gen_loneliness", Factor: "고독감", Outcome: "우울감", CauseQ: "Step1_Q3", EffectQ: "Step3_Q6"},
	},
	models.ServiceDischarge: {
		{QuestionID: "dis_2", Factor: "복약 어려움", Outcome: "재입원", CauseQ: "Step1_Q1", EffectQ: "Step3_Q4"},
		{QuestionID: "dis_3", Factor: "식사 거부", Outcome: "건강 악화", CauseQ: "Step1_Q2", EffectQ: "Step3_Q5"},
		{QuestionID: "dis_safety", Factor: "미끄러운 바닥", Outcome: "낙상 사고", CauseQ: "Step1_Q3", EffectQ: "Step3_Q6"},
	},
	models.ServiceSpecialized: {
		{QuestionID: "spe_loneliness", Factor: "고독감", Outcome: "우울감", CauseQ: "Step1_Q1", EffectQ: "Step3_Q4"},
		{QuestionID: "spe_5", Factor: "난방 미비", Outcome: "수면 장애", CauseQ: "Step1_Q2", EffectQ: "Step3_Q5"},
		{QuestionID: "spe_1", Factor: "식사 거부", Outcome: "건강 악화", CauseQ: "Step1_Q3", EffectQ: "Step3_Q6"},
	},
}

// InterviewQuestions: deep-interview question sets keyed by the reason
// the candidate was selected.
var InterviewQuestions = map[models.ReasonType][]string{
	models.ReasonHighPerformer: {
		"서비스 이용 후 생활에서 가장 크게 달라진 점은 무엇인가요?",
		"어려움을 잘 극복하신 본인만의 비결이 있으신가요?",
		"비슷한 상황의 다른 어르신께 해주고 싶은 조언이 있나요?",
	},
	models.ReasonDataMismatch: {
		"예상과 달리 잘 지내고 계신 것으로 보이는데, 어떤 도움이 있었나요?",
		"주변에서 받은 지원 중 가장 도움이 된 것은 무엇인가요?",
		"현재 상태를 유지하기 위해 스스로 하시는 노력이 있나요?",
	},
	models.ReasonSpecialCase: {
		"현재 가장 필요하다고 느끼시는 도움은 무엇인가요?",
		"서비스에서 아쉬웠던 점이나 개선되었으면 하는 점이 있나요?",
		"일상생활에서 가장 힘든 순간은 언제인가요?",
	},
}

// GetIndicators returns the ordered indicator list for a service type
// and contact mode. Unknown service types fall back to the general set,
// matching the form's behavior for legacy records.
func GetIndicators(serviceType models.ServiceType, mode models.ContactMode) []Indicator {
	tables := phoneIndicators
	if mode == models.ModeVisit {
		tables = visitIndicators
	}
	if list, ok := tables[serviceType]; ok {
		return list
	}
	return tables[models.ServiceGeneral]
}

// GetHypothesisMappings returns the hypothesis mapping table for a
// service type, falling back to the general table.
func GetHypothesisMappings(serviceType models.ServiceType) []HypothesisMapping {
	if list, ok := hypothesisMappings[serviceType]; ok {
		return list
	}
	return hypothesisMappings[models.ServiceGeneral]
}

// ParseServiceType maps a Korean survey label to a ServiceType.
func ParseServiceType(label string) models.ServiceType {
	switch {
	case strings.Contains(label, "퇴원"):
		return models.ServiceDischarge
	case strings.Contains(label, "특화"), strings.Contains(label, "은둔"), strings.Contains(label, "우울"):
		return models.ServiceSpecialized
	default:
		return models.ServiceGeneral
	}
}
