package triage

import (
	"testing"

	"github.com/kBRAINX/medicalclinisSma/internal/knowledge"
)

func TestMatchPercent(t *testing.T) {
	angina := knowledge.Condition{
		ID:       "CAR001",
		Symptoms: []string{"oppression", "chest pain"},
	}

	cases := []struct {
		name     string
		symptoms map[string]string
		want     int
	}{
		{"both phrases found", map[string]string{"chestPain": "strong oppression and chest pain"}, 100},
		{"one phrase found", map[string]string{"chestPain": "oppression forte"}, 50},
		{"case insensitive", map[string]string{"chestPain": "CHEST PAIN"}, 50},
		{"no phrase found", map[string]string{"fever": "yes"}, 0},
		{"no answers", map[string]string{}, 0},
	}
	for _, tc := range cases {
		if got := MatchPercent(angina, tc.symptoms); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}

	empty := knowledge.Condition{ID: "X"}
	if got := MatchPercent(empty, map[string]string{"a": "b"}); got != 0 {
		t.Errorf("condition without phrases must score 0, got %d", got)
	}
}

func TestRank(t *testing.T) {
	store := knowledge.NewStore()
	symptoms := map[string]string{
		"chestPain": "yes, oppression when walking",
		"breathing": "difficulty breathing on effort",
	}

	matches := Rank(store.Conditions(), symptoms)
	if len(matches) == 0 {
		t.Fatal("expected at least one candidate")
	}
	for i := 1; i < len(matches); i++ {
		prev, cur := matches[i-1], matches[i]
		if prev.Percent < cur.Percent {
			t.Fatalf("not sorted by percent: %d before %d", prev.Percent, cur.Percent)
		}
		if prev.Percent == cur.Percent && prev.Condition.ID > cur.Condition.ID {
			t.Fatalf("tie not broken by ID: %s before %s", prev.Condition.ID, cur.Condition.ID)
		}
	}
	for _, m := range matches {
		if m.Percent <= MatchThreshold {
			t.Errorf("%s at %d%% is at or below the threshold", m.Condition.ID, m.Percent)
		}
		if m.Condition.Annotations["matchScore"] == "" {
			t.Errorf("%s missing matchScore annotation", m.Condition.ID)
		}
	}
}

func TestRankThresholdIsStrict(t *testing.T) {
	// A condition with 10 phrases where exactly 3 match scores exactly 30,
	// which must not pass the strict threshold.
	c := knowledge.Condition{
		ID: "T1",
		Symptoms: []string{
			"alpha", "bravo", "charlie", "delta", "echo",
			"foxtrot", "golf", "hotel", "india", "juliett",
		},
	}
	symptoms := map[string]string{"q": "alpha bravo charlie"}
	if got := MatchPercent(c, symptoms); got != 30 {
		t.Fatalf("expected exact 30%%, got %d", got)
	}
	if matches := Rank([]knowledge.Condition{c}, symptoms); len(matches) != 0 {
		t.Errorf("a 30%% match must not pass the threshold")
	}
}

func TestIsUrgent(t *testing.T) {
	cases := []struct {
		name     string
		symptoms map[string]string
		want     bool
	}{
		{"chest pain", map[string]string{"chestPain": "sharp chest pain"}, true},
		{"breathing", map[string]string{"breathing": "Difficulty Breathing at rest"}, true},
		{"benign", map[string]string{"mainComplaint": "runny nose"}, false},
		{"empty", map[string]string{}, false},
	}
	for _, tc := range cases {
		if got := IsUrgent(tc.symptoms); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
