package forms

import "testing"

func TestValidatePersonalForm(t *testing.T) {
	form := PersonalForm()

	answers := map[string]string{
		"firstName": "Amina",
		"lastName":  "Diallo",
		"birthDate": "1979-07-02",
		"address":   "12 Market Road",
		"phone":     "  ",
	}
	missing := Validate(form, answers)
	if len(missing) != 1 || missing[0] != "phone" {
		t.Errorf("expected blank phone reported, got %v", missing)
	}

	// Optional fields (email, sex, weight) never block completion.
	answers["phone"] = "+237670001234"
	if missing := Validate(form, answers); len(missing) != 0 {
		t.Errorf("expected complete submission, got %v", missing)
	}
}

func TestValidateMissingInFieldOrder(t *testing.T) {
	missing := Validate(SymptomQuestionnaire(), map[string]string{
		"duration":  "2 days",
		"painLevel": "4",
		"breathing": "no",
	})
	want := []string{"mainComplaint", "fever", "chestPain", "digestion"}
	if len(missing) != len(want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, missing)
		}
	}
}

func TestSpecialtyFollowUp(t *testing.T) {
	cardio := SpecialtyFollowUp("Cardiology")
	if len(cardio.Fields) != 2 || cardio.Fields[0].Name != "exertion" {
		t.Errorf("unexpected cardiology follow-up: %+v", cardio.Fields)
	}

	generic := SpecialtyFollowUp("dermatology")
	if len(generic.Fields) != 1 || generic.Fields[0].Name != "history" {
		t.Errorf("unknown specialty should get the generic question, got %+v", generic.Fields)
	}

	infectious := SpecialtyFollowUp("infectious diseases")
	if infectious.ID != "follow-up-infectious-diseases" {
		t.Errorf("unexpected form ID %q", infectious.ID)
	}
}

func TestCategorize(t *testing.T) {
	got := Categorize(map[string]string{
		"chestPain":     "yes, when walking",
		"breathing":     "no",
		"fever":         "None",
		"digestion":     "nausea after meals",
		"mainComplaint": "chest discomfort",
		"custom":        "something else",
		"blank":         "  ",
	})

	if len(got["cardiology"]) != 1 || got["cardiology"][0] != "chestPain" {
		t.Errorf("expected chestPain under cardiology, got %v", got["cardiology"])
	}
	if len(got["gastroenterology"]) != 1 {
		t.Errorf("expected digestion under gastroenterology, got %v", got["gastroenterology"])
	}
	if _, ok := got["pulmonology"]; ok {
		t.Error("negative breathing answer must be dropped")
	}
	if _, ok := got["infectious diseases"]; ok {
		t.Error("negative fever answer must be dropped")
	}

	general := got["general"]
	found := map[string]bool{}
	for _, name := range general {
		found[name] = true
	}
	if !found["mainComplaint"] || !found["custom"] {
		t.Errorf("expected mainComplaint and custom under general, got %v", general)
	}
	if found["blank"] {
		t.Error("blank answers must be dropped")
	}
}
