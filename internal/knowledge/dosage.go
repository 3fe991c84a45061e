package knowledge

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DosageProfile carries the patient attributes the personalization rules
// look at. A zero WeightKg means the weight is unknown and weight scaling
// is skipped.
type DosageProfile struct {
	Age      int
	WeightKg float64
	Sex      string
}

// Medications whose plasma levels scale strongly with body mass. Only
// these get weight-proportional dosing.
var weightSensitive = []string{"artesunate", "ivermectin", "albendazole"}

// Medications contraindicated in pregnancy. Women of childbearing age get
// an explicit warning appended to the instructions.
var teratogenic = []string{
	"valproate", "isotretinoin", "warfarin",
	"methotrexate", "tetracycline", "misoprostol",
}

// simpleDosage matches dosages like "500mg". Composite or free-text
// dosages ("20mg/120mg", "2 puffs") are left untouched.
var simpleDosage = regexp.MustCompile(`^(\d+)mg$`)

// Personalize clones the templates and adjusts each copy for the patient.
// Adjustments multiply: an elderly patient on a weight-sensitive drug gets
// both factors. Templates are never modified.
func Personalize(templates []Medication, p DosageProfile) []Medication {
	out := make([]Medication, 0, len(templates))
	for _, tpl := range templates {
		m := tpl.Clone()

		factor := 1.0
		if p.Age > 65 {
			factor *= 0.75
			m.Instructions += " (reduced dosage for elderly patient)"
		} else if p.Age < 12 {
			// Young's formula: pediatric dose = adult dose * age / (age + 12).
			factor *= float64(p.Age) / float64(p.Age+12)
			m.Instructions += " (pediatric dosage)"
		}
		if p.WeightKg > 0 && isWeightSensitive(m.Name) {
			w := p.WeightKg / 70.0
			if w < 0.7 {
				w = 0.7
			}
			if w > 1.3 {
				w = 1.3
			}
			factor *= w
		}

		m.Dosage = scaleDosage(m.Dosage, factor)

		if isTeratogenic(m.Name) && strings.EqualFold(p.Sex, "female") && p.Age >= 15 && p.Age <= 45 {
			m.Instructions += " WARNING: do not take if pregnant or planning a pregnancy"
		}

		out = append(out, m)
	}
	return out
}

// scaleDosage applies factor to a simple numeric dosage. Anything it
// cannot parse is returned unchanged.
func scaleDosage(dosage string, factor float64) string {
	if factor == 1.0 {
		return dosage
	}
	match := simpleDosage.FindStringSubmatch(strings.TrimSpace(dosage))
	if match == nil {
		return dosage
	}
	base, err := strconv.Atoi(match[1])
	if err != nil {
		return dosage
	}
	adjusted := int(float64(base) * factor)
	if adjusted < 1 {
		adjusted = 1
	}
	return fmt.Sprintf("%dmg", adjusted)
}

func isWeightSensitive(name string) bool { return nameInList(name, weightSensitive) }

func isTeratogenic(name string) bool { return nameInList(name, teratogenic) }

func nameInList(name string, list []string) bool {
	lower := strings.ToLower(name)
	for _, entry := range list {
		if strings.Contains(lower, entry) {
			return true
		}
	}
	return false
}

// PersonalizedTreatment builds the full prescription for a condition:
// personalized templates plus any age-specific preventive additions.
func (s *Store) PersonalizedTreatment(c Condition, p DosageProfile) []Medication {
	meds := Personalize(s.StandardTreatment(c.ID), p)
	return append(meds, ageSpecificAdditions(c, p, meds)...)
}

// ageSpecificAdditions returns preventive medications warranted by the
// patient's age and the condition's category.
func ageSpecificAdditions(c Condition, p DosageProfile, current []Medication) []Medication {
	var extra []Medication
	category := strings.ToLower(c.Category)

	if p.Age > 65 && strings.Contains(category, "cardio") && !hasMedication(current, "aspirin") {
		extra = append(extra, Medication{
			Name:         "Aspirin",
			Dosage:       "75mg",
			Instructions: "Cardiovascular prevention, take with food",
			DurationDays: 30,
			Frequency:    "Once daily",
		})
	}
	if p.Age < 12 && strings.Contains(category, "infectious") {
		extra = append(extra, Medication{
			Name:         "Pediatric multivitamins",
			Dosage:       "5ml",
			Instructions: "Support during recovery",
			DurationDays: 14,
			Frequency:    "Once daily",
		})
	}
	return extra
}

func hasMedication(meds []Medication, name string) bool {
	for _, m := range meds {
		if strings.Contains(strings.ToLower(m.Name), strings.ToLower(name)) {
			return true
		}
	}
	return false
}
