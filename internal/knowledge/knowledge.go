// Package knowledge provides the clinic's read-only medical reference data:
// conditions with their characteristic symptom phrases, standard treatment
// templates, guideline texts and the per-patient dosage personalization rules.
package knowledge

import (
	"sort"
	"strings"
	"sync"
)

// Condition is a named clinical pattern. Instances handed out by the store
// are copies; callers may annotate them freely.
type Condition struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Symptoms    []string          `json:"symptoms"`
	Treatments  []string          `json:"treatments"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Clone returns a deep copy of the condition.
func (c Condition) Clone() Condition {
	out := c
	out.Symptoms = append([]string(nil), c.Symptoms...)
	out.Treatments = append([]string(nil), c.Treatments...)
	if c.Annotations != nil {
		out.Annotations = make(map[string]string, len(c.Annotations))
		for k, v := range c.Annotations {
			out.Annotations[k] = v
		}
	}
	return out
}

// Placeholder returns the synthetic condition used when no catalogued
// condition matches a symptom set, categorized under the examining
// doctor's specialty.
func Placeholder(specialty string) Condition {
	return Condition{
		ID:          "UNK001",
		Name:        "to be determined",
		Description: "Symptoms do not clearly match a known condition.",
		Category:    specialty,
	}
}

// Medication is a prescription template. Templates are never mutated:
// personalization always clones first.
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	DurationDays int    `json:"duration_days"`
	Frequency    string `json:"frequency"`
	Critical     bool   `json:"critical"`
}

// Clone returns a copy of the medication.
func (m Medication) Clone() Medication { return m }

// Base is the query surface the coordination engine consumes.
type Base interface {
	// Conditions returns every catalogued condition, ID ascending.
	Conditions() []Condition
	// Condition returns a single condition by ID.
	Condition(id string) (Condition, bool)
	// StandardTreatment returns the treatment templates for a condition,
	// falling back to a generic symptomatic treatment when none exists.
	StandardTreatment(conditionID string) []Medication
	// Guidelines returns care guidance text for a condition, falling back
	// to generic guidance when none exists.
	Guidelines(conditionID string) string
}

// Store is the in-memory knowledge base.
type Store struct {
	mu         sync.RWMutex
	conditions map[string]Condition
	treatments map[string][]Medication
	guidelines map[string]string
}

// NewStore creates a store populated with the built-in catalogue.
func NewStore() *Store {
	s := &Store{
		conditions: make(map[string]Condition),
		treatments: make(map[string][]Medication),
		guidelines: make(map[string]string),
	}
	s.loadCatalogue()
	return s
}

// Add registers a condition together with its treatments and guidelines.
func (s *Store) Add(c Condition, treatments []Medication, guidelines string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conditions[c.ID] = c
	if len(treatments) > 0 {
		s.treatments[c.ID] = treatments
	}
	if guidelines != "" {
		s.guidelines[c.ID] = guidelines
	}
}

// Conditions returns every condition sorted by ID ascending. The order is
// the documented tie-break for equal match scores.
func (s *Store) Conditions() []Condition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Condition, 0, len(s.conditions))
	for _, c := range s.conditions {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Condition returns the condition with the given ID.
func (s *Store) Condition(id string) (Condition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conditions[id]
	if !ok {
		return Condition{}, false
	}
	return c.Clone(), true
}

// ByCategory returns conditions whose category contains the given text,
// case-insensitively, ID ascending.
func (s *Store) ByCategory(category string) []Condition {
	var out []Condition
	for _, c := range s.Conditions() {
		if strings.Contains(strings.ToLower(c.Category), strings.ToLower(category)) {
			out = append(out, c)
		}
	}
	return out
}

// StandardTreatment returns the templates for a condition. Unknown
// conditions get a generic symptomatic treatment, never an empty answer.
func (s *Store) StandardTreatment(conditionID string) []Medication {
	s.mu.RLock()
	meds, ok := s.treatments[conditionID]
	s.mu.RUnlock()
	if !ok || len(meds) == 0 {
		return []Medication{
			{
				Name:         "Paracetamol",
				Dosage:       "500mg",
				Instructions: "For pain or fever",
				DurationDays: 5,
				Frequency:    "Every 6 hours as needed",
			},
			{
				Name:         "Hydration",
				Dosage:       "Drinking water",
				Instructions: "Drink at least 2 liters per day",
				DurationDays: 7,
				Frequency:    "Throughout the day",
				Critical:     true,
			},
		}
	}
	out := make([]Medication, len(meds))
	copy(out, meds)
	return out
}

// Guidelines returns care guidance for a condition, or generic guidance.
func (s *Store) Guidelines(conditionID string) string {
	s.mu.RLock()
	g, ok := s.guidelines[conditionID]
	s.mu.RUnlock()
	if !ok || g == "" {
		return "1. Take the medication as prescribed\n" +
			"2. Rest sufficiently\n" +
			"3. Stay well hydrated\n" +
			"4. Consult again if symptoms worsen\n" +
			"5. Return for a follow-up visit if recommended"
	}
	return g
}
