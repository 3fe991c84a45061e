// Package triage implements the clinic's stateless decision logic:
// symptom-to-condition matching, urgency detection and doctor assignment
// scoring. Everything here is pure computation over snapshots.
package triage

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kBRAINX/medicalclinisSma/internal/knowledge"
)

// MatchThreshold is the minimum confidence for a condition to count as a
// candidate diagnosis.
const MatchThreshold = 30

// Match pairs a condition with its computed confidence.
type Match struct {
	Condition knowledge.Condition `json:"condition"`
	Percent   int                 `json:"percent"`
}

// MatchPercent computes the confidence that a symptom set indicates the
// condition: the share of the condition's characteristic phrases found as
// a case-insensitive substring of any answer, scaled to 0..100. Conditions
// without phrases never match.
func MatchPercent(c knowledge.Condition, symptoms map[string]string) int {
	if len(c.Symptoms) == 0 || len(symptoms) == 0 {
		return 0
	}
	answers := make([]string, 0, len(symptoms))
	for _, v := range symptoms {
		answers = append(answers, strings.ToLower(v))
	}
	found := 0
	for _, phrase := range c.Symptoms {
		needle := strings.ToLower(phrase)
		for _, a := range answers {
			if strings.Contains(a, needle) {
				found++
				break
			}
		}
	}
	return found * 100 / len(c.Symptoms)
}

// Rank scores every condition against the symptoms and returns those above
// the threshold, best first. Equal scores order by condition ID ascending.
// Each returned condition carries its score in the annotations.
func Rank(conditions []knowledge.Condition, symptoms map[string]string) []Match {
	var matches []Match
	for _, c := range conditions {
		pct := MatchPercent(c, symptoms)
		if pct <= MatchThreshold {
			continue
		}
		cond := c.Clone()
		if cond.Annotations == nil {
			cond.Annotations = make(map[string]string, 1)
		}
		cond.Annotations["matchScore"] = strconv.Itoa(pct)
		matches = append(matches, Match{Condition: cond, Percent: pct})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Percent != matches[j].Percent {
			return matches[i].Percent > matches[j].Percent
		}
		return matches[i].Condition.ID < matches[j].Condition.ID
	})
	return matches
}

// Symptom answers containing any of these phrases mark the case urgent.
var urgencyKeywords = []string{
	"chest pain",
	"oppression",
	"difficulty breathing",
	"shortness of breath",
	"unconscious",
	"severe bleeding",
	"convulsion",
	"paralysis",
}

// IsUrgent reports whether any symptom answer signals an urgent case.
func IsUrgent(symptoms map[string]string) bool {
	for _, v := range symptoms {
		lower := strings.ToLower(v)
		for _, kw := range urgencyKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
