// Package patient holds the clinic's patient records: identity details
// gathered by the receptionist, symptoms gathered by the nurse and the
// append-only consultation history written by doctors.
package patient

import (
	"strconv"
	"time"

	"github.com/kBRAINX/medicalclinisSma/internal/knowledge"
)

// Personal-detail keys required before a record counts as complete.
var requiredPersonalFields = []string{"firstName", "lastName", "birthDate", "address", "phone"}

// Defaults used when a record lacks a parseable birth date or weight.
const (
	defaultAge      = 40
	defaultWeightKg = 70.0
)

// Consultation is one completed doctor visit. Consultations are written
// once and never edited afterwards.
type Consultation struct {
	ID           string                 `json:"id"`
	PatientID    string                 `json:"patient_id"`
	DoctorID     string                 `json:"doctor_id"`
	Condition    knowledge.Condition    `json:"condition"`
	MatchPercent int                    `json:"match_percent"`
	Symptoms     map[string]string      `json:"symptoms,omitempty"`
	Medications  []knowledge.Medication `json:"medications"`
	Guidelines   string                 `json:"guidelines"`
	Notes        string                 `json:"notes,omitempty"`
	StartedAt    time.Time              `json:"started_at"`
	CompletedAt  time.Time              `json:"completed_at"`
}

// Record is the accumulated state of one patient. Maps merge by key so
// partial form submissions never erase details provided earlier.
type Record struct {
	PatientID     string            `json:"patient_id"`
	Personal      map[string]string `json:"personal"`
	Symptoms      map[string]string `json:"symptoms"`
	Consultations []Consultation    `json:"consultations"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewRecord creates an empty record for a patient.
func NewRecord(patientID string) *Record {
	now := time.Now().UTC()
	return &Record{
		PatientID: patientID,
		Personal:  make(map[string]string),
		Symptoms:  make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MergePersonal merges personal details by key. Empty values are ignored
// so a resubmitted form cannot blank out earlier answers.
func (r *Record) MergePersonal(details map[string]string) {
	for k, v := range details {
		if v == "" {
			continue
		}
		r.Personal[k] = v
	}
	r.UpdatedAt = time.Now().UTC()
}

// MergeSymptoms merges symptom answers by key.
func (r *Record) MergeSymptoms(symptoms map[string]string) {
	for k, v := range symptoms {
		if v == "" {
			continue
		}
		r.Symptoms[k] = v
	}
	r.UpdatedAt = time.Now().UTC()
}

// MissingPersonalFields lists required personal details still absent, in
// the canonical field order.
func (r *Record) MissingPersonalFields() []string {
	var missing []string
	for _, f := range requiredPersonalFields {
		if r.Personal[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// HasCompletePersonalInfo reports whether every required detail is present.
func (r *Record) HasCompletePersonalInfo() bool {
	return len(r.MissingPersonalFields()) == 0
}

// AddConsultation appends a completed consultation to the history.
func (r *Record) AddConsultation(c Consultation) {
	r.Consultations = append(r.Consultations, c)
	r.UpdatedAt = time.Now().UTC()
}

// Age derives the patient's age in whole years from the birthDate detail.
// Unknown or unparseable dates yield the adult default.
func (r *Record) Age(now time.Time) int {
	raw := r.Personal["birthDate"]
	if raw == "" {
		return defaultAge
	}
	var birth time.Time
	var err error
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		birth, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return defaultAge
	}
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	if age < 0 {
		return defaultAge
	}
	return age
}

// WeightKg returns the recorded weight in kilograms, or the default when
// absent or unparseable.
func (r *Record) WeightKg() float64 {
	raw := r.Personal["weight"]
	if raw == "" {
		return defaultWeightKg
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil || w <= 0 {
		return defaultWeightKg
	}
	return w
}

// DosageProfile builds the personalization inputs for this record.
func (r *Record) DosageProfile(now time.Time) knowledge.DosageProfile {
	return knowledge.DosageProfile{
		Age:      r.Age(now),
		WeightKg: r.WeightKg(),
		Sex:      r.Personal["sex"],
	}
}

// Clone returns a deep copy safe to hand outside the owning actor.
func (r *Record) Clone() *Record {
	out := &Record{
		PatientID: r.PatientID,
		Personal:  make(map[string]string, len(r.Personal)),
		Symptoms:  make(map[string]string, len(r.Symptoms)),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	for k, v := range r.Personal {
		out.Personal[k] = v
	}
	for k, v := range r.Symptoms {
		out.Symptoms[k] = v
	}
	if len(r.Consultations) > 0 {
		out.Consultations = make([]Consultation, len(r.Consultations))
		copy(out.Consultations, r.Consultations)
		for i, c := range out.Consultations {
			if len(c.Symptoms) == 0 {
				continue
			}
			snap := make(map[string]string, len(c.Symptoms))
			for k, v := range c.Symptoms {
				snap[k] = v
			}
			out.Consultations[i].Symptoms = snap
		}
	}
	return out
}
