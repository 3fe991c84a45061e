package messaging

import "testing"

func TestTagKnown(t *testing.T) {
	if !TagDiagnosis.Known() {
		t.Error("diagnosis should be a known tag")
	}
	if Tag("gossip").Known() {
		t.Error("gossip should not be a known tag")
	}
}

func TestMessagePayloadRoundTrip(t *testing.T) {
	type report struct {
		PatientID string   `json:"patient_id"`
		Symptoms  []string `json:"symptoms"`
	}

	m, err := NewMessage("nurse-1", "receptionist-1", PerformativeInform, TagSymptomInfo).
		WithPayload(report{PatientID: "patient-1", Symptoms: []string{"fever"}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if m.ID == "" {
		t.Error("expected generated message ID")
	}

	var got report
	if err := m.DecodePayload(&got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.PatientID != "patient-1" || len(got.Symptoms) != 1 {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	m := NewMessage("a", "b", PerformativeInform, TagWelcome)
	var v map[string]string
	if err := m.DecodePayload(&v); err == nil {
		t.Error("expected error decoding empty payload")
	}
}

func TestFilterMatches(t *testing.T) {
	m := NewMessage("patient-1", "receptionist-1", PerformativeInform, TagPatientLocation).
		WithContent(CommandPatientExit)

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty matches all", Filter{}, true},
		{"tag match", Filter{Tag: TagPatientLocation}, true},
		{"tag mismatch", Filter{Tag: TagWelcome}, false},
		{"sender match", Filter{Sender: "patient-1"}, true},
		{"sender mismatch", Filter{Sender: "patient-2"}, false},
		{"content match", Filter{Content: CommandPatientExit}, true},
		{"performative mismatch", Filter{Performative: PerformativeRequest}, false},
		{"custom match", Filter{Match: func(m *Message) bool { return m.Receiver == "receptionist-1" }}, true},
		{"custom mismatch", Filter{Match: func(m *Message) bool { return false }}, false},
	}
	for _, tc := range cases {
		if got := tc.filter.Matches(m); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
