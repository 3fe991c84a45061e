package triage

import (
	"strings"

	"github.com/kBRAINX/medicalclinisSma/internal/domain/clinic"
)

// Assignment scoring weights. Confidence in each candidate condition is
// weighted by how well the doctor's profile covers it, then topped up by
// capped experience credit. Generalists earn a flat bonus on every
// candidate; a specialist with no overlap earns nothing for it.
const (
	availabilityBonus = 50.0
	specialtyWeight   = 1.5
	expertiseWeight   = 1.3
	generalistWeight  = 0.8
	experiencePerYear = 2.0
	experienceCap     = 20.0
)

// ScoreDoctor computes a doctor's suitability for a set of candidate
// conditions. Higher is better.
func ScoreDoctor(d clinic.DoctorProfile, candidates []Match) float64 {
	score := 0.0
	if d.Available {
		score += availabilityBonus
	}
	for _, m := range candidates {
		switch {
		case textOverlap(d.Specialty, m.Condition.Category):
			score += float64(m.Percent) * specialtyWeight
		case expertiseOverlap(d.Expertise, m.Condition.Name):
			score += float64(m.Percent) * expertiseWeight
		case isGeneralist(d.Specialty):
			score += float64(m.Percent) * generalistWeight
		}

		exp := float64(d.YearsExperience) * experiencePerYear
		if exp > experienceCap {
			exp = experienceCap
		}
		score += exp
	}
	return score
}

// Assign reserves the best-scoring available doctor for the candidate
// conditions. The availability flip happens inside the roster reservation,
// so concurrent assignments cannot pick the same doctor. Returns false
// when no doctor is available.
func Assign(roster *clinic.Roster, candidates []Match) (clinic.DoctorProfile, bool) {
	return roster.ReserveBest(func(d clinic.DoctorProfile) float64 {
		return ScoreDoctor(d, candidates)
	})
}

// isGeneralist reports whether a specialty is general practice
// ("generalist", "general medicine" and the like).
func isGeneralist(specialty string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(specialty)), "general")
}

// textOverlap reports whether either string contains the other,
// case-insensitively. Empty strings never overlap.
func textOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// expertiseOverlap reports whether any expertise keyword overlaps the
// condition name.
func expertiseOverlap(expertise []string, conditionName string) bool {
	for _, kw := range expertise {
		if textOverlap(kw, conditionName) {
			return true
		}
	}
	return false
}
