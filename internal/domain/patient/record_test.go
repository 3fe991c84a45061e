package patient

import (
	"testing"
	"time"
)

func TestMergePersonal(t *testing.T) {
	r := NewRecord("patient-1")
	r.MergePersonal(map[string]string{
		"firstName": "Amina",
		"lastName":  "Diallo",
		"phone":     "",
	})
	r.MergePersonal(map[string]string{
		"firstName": "",
		"phone":     "+237670001234",
	})

	if r.Personal["firstName"] != "Amina" {
		t.Errorf("empty resubmission must not erase firstName, got %q", r.Personal["firstName"])
	}
	if r.Personal["phone"] != "+237670001234" {
		t.Errorf("expected phone merged in, got %q", r.Personal["phone"])
	}
}

func TestMissingPersonalFields(t *testing.T) {
	r := NewRecord("patient-1")
	r.MergePersonal(map[string]string{
		"firstName": "Amina",
		"lastName":  "Diallo",
		"birthDate": "1979-07-02",
		"address":   "12 Market Road",
	})

	missing := r.MissingPersonalFields()
	if len(missing) != 1 || missing[0] != "phone" {
		t.Fatalf("expected only phone missing, got %v", missing)
	}
	if r.HasCompletePersonalInfo() {
		t.Error("record should be incomplete without phone")
	}

	r.MergePersonal(map[string]string{"phone": "123"})
	if !r.HasCompletePersonalInfo() {
		t.Error("record should be complete now")
	}
}

func TestMissingFieldsCanonicalOrder(t *testing.T) {
	r := NewRecord("patient-1")
	missing := r.MissingPersonalFields()
	want := []string{"firstName", "lastName", "birthDate", "address", "phone"}
	if len(missing) != len(want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, missing)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		birthDate string
		want      int
	}{
		{"1979-07-02", 47},
		{"02/07/1979", 47},
		{"2020-12-25", 5},
		{"", 40},
		{"not a date", 40},
		{"2030-01-01", 40},
	}
	for _, tc := range cases {
		r := NewRecord("patient-1")
		if tc.birthDate != "" {
			r.MergePersonal(map[string]string{"birthDate": tc.birthDate})
		}
		if got := r.Age(now); got != tc.want {
			t.Errorf("birthDate %q: expected age %d, got %d", tc.birthDate, tc.want, got)
		}
	}
}

func TestWeightKg(t *testing.T) {
	r := NewRecord("patient-1")
	if w := r.WeightKg(); w != 70.0 {
		t.Errorf("expected default 70kg, got %v", w)
	}

	r.MergePersonal(map[string]string{"weight": "64"})
	if w := r.WeightKg(); w != 64.0 {
		t.Errorf("expected 64kg, got %v", w)
	}

	r.Personal["weight"] = "heavy"
	if w := r.WeightKg(); w != 70.0 {
		t.Errorf("unparseable weight should default, got %v", w)
	}
}

func TestDosageProfile(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	r := NewRecord("patient-1")
	r.MergePersonal(map[string]string{
		"birthDate": "1950-01-01",
		"weight":    "82",
		"sex":       "female",
	})

	p := r.DosageProfile(now)
	if p.Age != 76 || p.WeightKg != 82.0 || p.Sex != "female" {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewRecord("patient-1")
	r.MergePersonal(map[string]string{"firstName": "Amina"})
	r.AddConsultation(Consultation{
		ID:        "c1",
		PatientID: "patient-1",
		Symptoms:  map[string]string{"fever": "yes"},
	})

	c := r.Clone()
	c.Personal["firstName"] = "changed"
	c.Consultations[0].ID = "changed"
	c.Consultations[0].Symptoms["fever"] = "changed"

	if r.Personal["firstName"] != "Amina" {
		t.Error("clone shares the personal map")
	}
	if r.Consultations[0].ID != "c1" {
		t.Error("clone shares the consultation slice")
	}
	if r.Consultations[0].Symptoms["fever"] != "yes" {
		t.Error("clone shares the consultation symptom snapshot")
	}
}
