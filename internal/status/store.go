// Package status keeps a live snapshot of clinic activity for the HTTP
// API and the metrics exporter. It consumes actor hooks and never blocks
// the actors feeding it.
package status

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/waitqueue"
)

// PatientState is the coarse lifecycle position of a patient.
type PatientState string

const (
	StateRegistered PatientState = "registered"
	StateWaiting    PatientState = "waiting"
	StateInConsult  PatientState = "in-consultation"
	StateDeparted   PatientState = "departed"
)

// PatientStatus is one patient's view in the snapshot.
type PatientStatus struct {
	PatientID string       `json:"patient_id"`
	State     PatientState `json:"state"`
	DoctorID  string       `json:"doctor_id,omitempty"`
	Room      string       `json:"room,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Store aggregates hook events into queryable state.
type Store struct {
	mu       sync.RWMutex
	patients map[string]*PatientStatus
	queue    []waitqueue.Entry

	registered    int64
	assigned      int64
	consultations int64
	departed      int64
}

// NewStore creates an empty status store.
func NewStore() *Store {
	return &Store{patients: make(map[string]*PatientStatus)}
}

// PatientRegistered records a new arrival.
func (s *Store) PatientRegistered(patientID string) {
	atomic.AddInt64(&s.registered, 1)
	s.setState(patientID, StateRegistered, "", "")
}

// QueueChanged replaces the waiting room snapshot.
func (s *Store) QueueChanged(entries []waitqueue.Entry) {
	s.mu.Lock()
	s.queue = entries
	for _, e := range entries {
		if p, ok := s.patients[e.PatientID]; ok && p.State == StateRegistered {
			p.State = StateWaiting
			p.UpdatedAt = time.Now().UTC()
		}
	}
	s.mu.Unlock()
}

// DoctorAssigned moves a patient into consultation.
func (s *Store) DoctorAssigned(patientID, doctorID, room string) {
	atomic.AddInt64(&s.assigned, 1)
	s.setState(patientID, StateInConsult, doctorID, room)
}

// ConsultationCompleted counts a finished visit.
func (s *Store) ConsultationCompleted(c patient.Consultation) {
	atomic.AddInt64(&s.consultations, 1)
}

// PatientDeparted marks a patient gone.
func (s *Store) PatientDeparted(patientID, reason string) {
	atomic.AddInt64(&s.departed, 1)
	s.setState(patientID, StateDeparted, "", "")
}

func (s *Store) setState(patientID string, state PatientState, doctorID, room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[patientID]
	if !ok {
		p = &PatientStatus{PatientID: patientID}
		s.patients[patientID] = p
	}
	p.State = state
	p.DoctorID = doctorID
	p.Room = room
	p.UpdatedAt = time.Now().UTC()
}

// Patients returns a copy of every patient status.
func (s *Store) Patients() []PatientStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PatientStatus, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, *p)
	}
	return out
}

// Queue returns the latest waiting room snapshot.
func (s *Store) Queue() []waitqueue.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]waitqueue.Entry, len(s.queue))
	copy(out, s.queue)
	return out
}

// Counters holds monotonic activity totals.
type Counters struct {
	Registered    int64 `json:"registered"`
	Assigned      int64 `json:"assigned"`
	Consultations int64 `json:"consultations"`
	Departed      int64 `json:"departed"`
}

// Totals returns the activity counters.
func (s *Store) Totals() Counters {
	return Counters{
		Registered:    atomic.LoadInt64(&s.registered),
		Assigned:      atomic.LoadInt64(&s.assigned),
		Consultations: atomic.LoadInt64(&s.consultations),
		Departed:      atomic.LoadInt64(&s.departed),
	}
}
