// Package classifier implements substring-based severity classification
// of indicator answers. Two distinct vocabularies exist: the generic
// critical/caution tiers used by visit grading, and a narrower phone
// escalation set. They overlap but are not identical; both are kept as
// versioned data so they stay independently testable.
package classifier

import (
	"strings"

	"carewatch/internal/models"
)

// criticalKeywords: high-severity stems, checked first.
var criticalKeywords = []string{
	"위기", "위험", "심각", "단절", "시급", "긴급", "발견", "거부",
	"고위험", "직접적", "극심", "차단", "부재", "욕창", "붕괴", "은둔",
	"적대적", "공포", "절망", "포기",
}

// cautionKeywords: medium-severity stems, checked only when no
// critical stem matched.
var cautionKeywords = []string{
	"주의", "부족", "미흡", "심화", "과잉", "필요", "갈등", "부실",
	"회피", "무력함", "고립", "간접적", "미숙지", "체납", "미비", "검토",
	"염려", "오남용", "불안", "무망", "저조", "불신", "이탈",
}

// phoneEscalationKeywords: the phone-check escalation set. Narrower
// than the generic tiers and matched as a single flat set; an answer
// containing any of these flags the subject for a field visit.
var phoneEscalationKeywords = []string{
	"불안", "고립", "어려움", "불만족", "발견",
}

// Classify returns the severity tier of an answer. Matching is
// substring-based; the critical tier wins when both tiers match.
func Classify(answer string) models.Severity {
	if matchesAny(answer, criticalKeywords) {
		return models.SeverityCritical
	}
	if matchesAny(answer, cautionKeywords) {
		return models.SeverityCaution
	}
	return models.SeverityNeutral
}

// MatchesPhoneEscalation reports whether a phone-check answer contains
// any escalation keyword.
func MatchesPhoneEscalation(answer string) bool {
	return matchesAny(answer, phoneEscalationKeywords)
}

// CriticalKeywords returns a copy of the critical vocabulary.
func CriticalKeywords() []string {
	return append([]string(nil), criticalKeywords...)
}

// CautionKeywords returns a copy of the caution vocabulary.
func CautionKeywords() []string {
	return append([]string(nil), cautionKeywords...)
}

// PhoneEscalationKeywords returns a copy of the phone escalation set.
func PhoneEscalationKeywords() []string {
	return append([]string(nil), phoneEscalationKeywords...)
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
