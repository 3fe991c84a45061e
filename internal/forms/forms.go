// Package forms defines the structured questionnaires exchanged between
// actors: the receptionist's personal details form, the nurse's symptom
// battery and the per-specialty follow-up questions, together with answer
// validation and symptom categorization.
package forms

import "strings"

// Field is one question on a form. Category ties a symptom question to a
// clinical specialty for follow-up selection.
type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Category string `json:"category,omitempty"`
}

// Descriptor is a complete form sent over the wire.
type Descriptor struct {
	ID     string  `json:"form_id"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// PersonalForm returns the registration form the receptionist sends to
// every connecting patient.
func PersonalForm() Descriptor {
	return Descriptor{
		ID:    "personal-details",
		Title: "Patient registration",
		Fields: []Field{
			{Name: "firstName", Label: "First name", Type: "text", Required: true},
			{Name: "lastName", Label: "Last name", Type: "text", Required: true},
			{Name: "birthDate", Label: "Date of birth (YYYY-MM-DD)", Type: "date", Required: true},
			{Name: "address", Label: "Home address", Type: "text", Required: true},
			{Name: "phone", Label: "Phone number", Type: "tel", Required: true},
			{Name: "email", Label: "Email address", Type: "email", Required: false},
			{Name: "sex", Label: "Sex", Type: "text", Required: false},
			{Name: "weight", Label: "Weight (kg)", Type: "number", Required: false},
		},
	}
}

// SymptomQuestionnaire returns the nurse's standard symptom battery.
func SymptomQuestionnaire() Descriptor {
	return Descriptor{
		ID:    "symptom-battery",
		Title: "Symptom assessment",
		Fields: []Field{
			{Name: "mainComplaint", Label: "What brings you in today?", Type: "text", Required: true, Category: "general"},
			{Name: "duration", Label: "How long have you had these symptoms?", Type: "text", Required: true, Category: "general"},
			{Name: "painLevel", Label: "Rate your pain from 0 to 10", Type: "number", Required: true, Category: "general"},
			{Name: "fever", Label: "Have you had fever or chills?", Type: "text", Required: true, Category: "infectious diseases"},
			{Name: "chestPain", Label: "Any chest pain, tightness or palpitations?", Type: "text", Required: true, Category: "cardiology"},
			{Name: "breathing", Label: "Any difficulty breathing, cough or wheezing?", Type: "text", Required: true, Category: "pulmonology"},
			{Name: "digestion", Label: "Any nausea, vomiting or stomach pain?", Type: "text", Required: true, Category: "gastroenterology"},
		},
	}
}

// Follow-up questions a doctor asks depending on their specialty.
var followUps = map[string][]Field{
	"cardiology": {
		{Name: "exertion", Label: "Does the pain worsen with effort?", Type: "text", Required: false, Category: "cardiology"},
		{Name: "radiation", Label: "Does the pain spread to the arm or jaw?", Type: "text", Required: false, Category: "cardiology"},
	},
	"pulmonology": {
		{Name: "sputum", Label: "Are you coughing anything up?", Type: "text", Required: false, Category: "pulmonology"},
		{Name: "smoking", Label: "Do you smoke?", Type: "text", Required: false, Category: "pulmonology"},
	},
	"gastroenterology": {
		{Name: "meals", Label: "Are symptoms related to meals?", Type: "text", Required: false, Category: "gastroenterology"},
		{Name: "appetite", Label: "Has your appetite changed?", Type: "text", Required: false, Category: "gastroenterology"},
	},
	"infectious diseases": {
		{Name: "travel", Label: "Have you travelled recently?", Type: "text", Required: false, Category: "infectious diseases"},
		{Name: "contacts", Label: "Has anyone around you been ill?", Type: "text", Required: false, Category: "infectious diseases"},
	},
}

// SpecialtyFollowUp returns the follow-up questions for a specialty.
// Specialties without a dedicated set get a generic history question.
func SpecialtyFollowUp(specialty string) Descriptor {
	fields, ok := followUps[strings.ToLower(specialty)]
	if !ok {
		fields = []Field{
			{Name: "history", Label: "Any relevant medical history?", Type: "text", Required: false, Category: "general"},
		}
	}
	return Descriptor{
		ID:     "follow-up-" + strings.ReplaceAll(strings.ToLower(specialty), " ", "-"),
		Title:  "Follow-up questions",
		Fields: fields,
	}
}

// Validate checks answers against a form and returns the names of required
// fields that are missing or blank, in field order. An empty result means
// the submission is complete.
func Validate(d Descriptor, answers map[string]string) []string {
	var missing []string
	for _, f := range d.Fields {
		if !f.Required {
			continue
		}
		if strings.TrimSpace(answers[f.Name]) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// Answers that mean a symptom is absent.
var negativeAnswers = map[string]struct{}{
	"no": {}, "none": {}, "non": {}, "n/a": {}, "0": {},
}

// Categorize groups affirmative symptom answers by the specialty category
// of the question they answer. Questions outside the battery fall under
// "general".
func Categorize(answers map[string]string) map[string][]string {
	byName := make(map[string]Field)
	for _, f := range SymptomQuestionnaire().Fields {
		byName[f.Name] = f
	}
	out := make(map[string][]string)
	for name, answer := range answers {
		trimmed := strings.ToLower(strings.TrimSpace(answer))
		if trimmed == "" {
			continue
		}
		if _, negative := negativeAnswers[trimmed]; negative {
			continue
		}
		category := "general"
		if f, ok := byName[name]; ok && f.Category != "" {
			category = f.Category
		}
		out[category] = append(out[category], name)
	}
	return out
}
