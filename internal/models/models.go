package models

import "time"

// ServiceType selects which indicator list, interview questions and
// hypothesis mapping apply to a record.
type ServiceType string

const (
	ServiceGeneral     ServiceType = "general"
	ServiceDischarge   ServiceType = "discharge"
	ServiceSpecialized ServiceType = "specialized"
)

// ContactMode distinguishes the phone-check indicator set from the
// field-visit one. Same ten-slot structure, different question text.
type ContactMode string

const (
	ModePhone ContactMode = "phone"
	ModeVisit ContactMode = "visit"
)

// RecordStatus is the outcome of a phone check-in.
type RecordStatus string

const (
	StatusCompleted RecordStatus = "completed"
	StatusRisk      RecordStatus = "risk"
)

// Severity tiers produced by the keyword classifier.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityCaution  Severity = "caution"
	SeverityNeutral  Severity = "neutral"
)

// Grade is the visit engine's risk classification.
type Grade string

const (
	GradeCrisis    Grade = "위기"
	GradeCaution   Grade = "주의"
	GradeExemplary Grade = "우수사례"
	GradeStandard  Grade = "일반관리"
)

// Pattern classifies one respondent's evidence for a hypothesis.
type Pattern string

const (
	PatternSupport            Pattern = "support"
	PatternControl            Pattern = "control"
	PatternMismatchSuccess    Pattern = "mismatch_success"
	PatternMismatchUnexpected Pattern = "mismatch_unexpected"
	PatternPartial            Pattern = "partial"
)

// HypothesisStatus lifecycle: discovered -> verifying -> verified -> confirmed.
type HypothesisStatus string

const (
	HypothesisDiscovered HypothesisStatus = "discovered"
	HypothesisVerifying  HypothesisStatus = "verifying"
	HypothesisVerified   HypothesisStatus = "verified"
	HypothesisConfirmed  HypothesisStatus = "confirmed"
)

// Priority of a hypothesis.
type Priority string

const (
	PriorityHigh   Priority = "높음"
	PriorityMedium Priority = "중간"
	PriorityLow    Priority = "낮음"
)

// ReasonType categorizes why a candidate was selected for follow-up.
type ReasonType string

const (
	ReasonHighPerformer ReasonType = "성과우수군"
	ReasonDataMismatch  ReasonType = "데이터불일치"
	ReasonSpecialCase   ReasonType = "특이사례"
)

// TrackState is a before/after tracking value on a candidate.
type TrackState string

const (
	TrackMuchImproved TrackState = "크게 개선"
	TrackImproved     TrackState = "개선"
	TrackStable       TrackState = "유지"
	TrackWorsened     TrackState = "악화"
)

// PhoneCallRecord is one telephone monitoring contact.
type PhoneCallRecord struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Gender       string            `json:"gender"`
	BirthYear    int               `json:"birth_year"`
	Agency       string            `json:"agency"`
	ServiceType  ServiceType       `json:"service_type"`
	Date         string            `json:"date"`
	Status       RecordStatus      `json:"status"`
	Satisfaction string            `json:"satisfaction"`
	ServiceItems []string          `json:"service_items"`
	VisitFreq    string            `json:"visit_freq"`
	CallFreq     string            `json:"call_freq"`
	SafetyTrend  string            `json:"safety_trend"`
	SpecialNotes string            `json:"special_notes"`
	Indicators   map[string]string `json:"indicators"`
}

// RiskTarget is a subject escalated for a field visit.
type RiskTarget struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Gender      string      `json:"gender"`
	BirthYear   int         `json:"birth_year"`
	Agency      string      `json:"agency"`
	ServiceType ServiceType `json:"service_type"`
	RiskDetails string      `json:"risk_details"`
	Date        string      `json:"date"`

	// Pre-populated visit data, present only on synthetically seeded
	// targets or after a completed visit is written back.
	EnvChecks    []string          `json:"env_checks,omitempty"`
	SafetyChecks []string          `json:"safety_checks,omitempty"`
	BodyStatus   string            `json:"body_status,omitempty"`
	Indicators   map[string]string `json:"indicators,omitempty"`
	Grade        Grade             `json:"grade,omitempty"`
	ActionMemo   string            `json:"action_memo,omitempty"`
}

// VerificationData is one survey respondent's evidence for one hypothesis.
type VerificationData struct {
	RespondentName string    `json:"respondent_name"`
	FactorMatch    string    `json:"factor_match"`
	OutcomeMatch   string    `json:"outcome_match"`
	Pattern        Pattern   `json:"pattern"`
	Timestamp      time.Time `json:"timestamp"`
}

// Hypothesis is a candidate factor->outcome causal claim.
type Hypothesis struct {
	ID           int64              `json:"id"`
	SubjectName  string             `json:"subject_name"`
	Factor       string             `json:"factor"`
	Outcome      string             `json:"outcome"`
	Evidence     string             `json:"evidence"`
	Priority     Priority           `json:"priority"`
	SendToStep2  bool               `json:"send_to_step2"`
	Status       HypothesisStatus   `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	CauseQ       string             `json:"cause_q,omitempty"`
	EffectQ      string             `json:"effect_q,omitempty"`
	Verification []VerificationData `json:"verification_data"`
}

// Candidate is a subject selected for deep-interview follow-up.
type Candidate struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Gender      string      `json:"gender"`
	BirthYear   int         `json:"birth_year"`
	Agency      string      `json:"agency"`
	ServiceType ServiceType `json:"service_type"`
	Reason      string      `json:"reason"`
	ReasonType  ReasonType  `json:"reason_type"`

	TrackStability     TrackState        `json:"track_stability,omitempty"`
	TrackEmotion       TrackState        `json:"track_emotion,omitempty"`
	TrackSocial        TrackState        `json:"track_social,omitempty"`
	TrackHealth        TrackState        `json:"track_health,omitempty"`
	InterviewAnswers   map[string]string `json:"interview_answers,omitempty"`
	InterviewerOpinion string            `json:"interviewer_opinion,omitempty"`
}

// SurveyRow is one bulk-ingested survey row: a fixed-width array of
// trimmed column values, already split by the row source.
//
// Column layout (schema v1):
//
//	0 name, 1 gender, 2 age bracket ("70대"), 3 agency, 4 service type,
//	5 period, 6-7 legacy filler scores, 8-17 indicator answers q1..q10,
//	18 priority service label, 19 free-text gap, 20 visited places,
//	21 risk check, 22 opinion.
type SurveyRow struct {
	Columns []string
}

// MinColumns is the schema guard: shorter rows are discarded.
const MinColumns = 18

// Field accessors return "" when the column is absent.

func (r SurveyRow) col(i int) string {
	if i < 0 || i >= len(r.Columns) {
		return ""
	}
	return r.Columns[i]
}

func (r SurveyRow) Name() string             { return r.col(0) }
func (r SurveyRow) Gender() string           { return r.col(1) }
func (r SurveyRow) AgeBracket() string       { return r.col(2) }
func (r SurveyRow) Agency() string           { return r.col(3) }
func (r SurveyRow) ServiceTypeLabel() string { return r.col(4) }
func (r SurveyRow) Period() string           { return r.col(5) }
func (r SurveyRow) PriorityService() string  { return r.col(18) }
func (r SurveyRow) Gap() string              { return r.col(19) }
func (r SurveyRow) VisitedPlaces() string    { return r.col(20) }
func (r SurveyRow) RiskCheck() string        { return r.col(21) }
func (r SurveyRow) Opinion() string          { return r.col(22) }

// IndicatorAnswer returns the raw answer text for indicator question n
// (1-based). Questions occupy columns 8..17.
func (r SurveyRow) IndicatorAnswer(n int) string {
	if n < 1 || n > 10 {
		return ""
	}
	return r.col(7 + n)
}
