package status

import (
	"testing"

	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/waitqueue"
)

func TestPatientLifecycle(t *testing.T) {
	s := NewStore()

	s.PatientRegistered("patient-1")
	s.QueueChanged([]waitqueue.Entry{{PatientID: "patient-1"}})
	s.DoctorAssigned("patient-1", "doctor-1", "101")
	s.ConsultationCompleted(patient.Consultation{PatientID: "patient-1"})
	s.PatientDeparted("patient-1", "consultation completed")

	patients := s.Patients()
	if len(patients) != 1 {
		t.Fatalf("expected 1 patient, got %d", len(patients))
	}
	if patients[0].State != StateDeparted {
		t.Errorf("expected departed, got %s", patients[0].State)
	}

	totals := s.Totals()
	if totals.Registered != 1 || totals.Assigned != 1 ||
		totals.Consultations != 1 || totals.Departed != 1 {
		t.Errorf("unexpected totals: %+v", totals)
	}
}

func TestQueueChangedMarksWaiting(t *testing.T) {
	s := NewStore()
	s.PatientRegistered("patient-1")
	s.PatientRegistered("patient-2")
	s.DoctorAssigned("patient-2", "doctor-1", "101")

	s.QueueChanged([]waitqueue.Entry{
		{PatientID: "patient-1"},
		{PatientID: "patient-2"},
	})

	states := map[string]PatientState{}
	for _, p := range s.Patients() {
		states[p.PatientID] = p.State
	}
	if states["patient-1"] != StateWaiting {
		t.Errorf("registered patient in queue should be waiting, got %s", states["patient-1"])
	}
	if states["patient-2"] != StateInConsult {
		t.Errorf("queue snapshot must not demote a patient in consultation, got %s", states["patient-2"])
	}

	if len(s.Queue()) != 2 {
		t.Errorf("expected queue snapshot of 2, got %d", len(s.Queue()))
	}
}

func TestDoctorAssignedRecordsRoom(t *testing.T) {
	s := NewStore()
	s.DoctorAssigned("patient-1", "doctor-3", "103")

	p := s.Patients()[0]
	if p.DoctorID != "doctor-3" || p.Room != "103" || p.State != StateInConsult {
		t.Errorf("unexpected status: %+v", p)
	}
}
