package main

import (
	"sync"

	"github.com/kBRAINX/medicalclinisSma/internal/actors"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/observability/metrics"
	"github.com/kBRAINX/medicalclinisSma/internal/status"
	"github.com/kBRAINX/medicalclinisSma/internal/waitqueue"
)

// engineHooks fans actor events out to the status store and Prometheus.
type engineHooks struct {
	store *status.Store
	m     *metrics.Metrics

	mu         sync.Mutex
	urgentSeen map[string]struct{}
}

var _ actors.Hooks = (*engineHooks)(nil)

func newEngineHooks(store *status.Store, m *metrics.Metrics) *engineHooks {
	return &engineHooks{
		store:      store,
		m:          m,
		urgentSeen: make(map[string]struct{}),
	}
}

func (h *engineHooks) PatientRegistered(patientID string) {
	h.store.PatientRegistered(patientID)
	h.m.PatientsRegistered.Inc()
}

func (h *engineHooks) QueueChanged(entries []waitqueue.Entry) {
	h.store.QueueChanged(entries)
	h.m.WaitingPatients.Set(float64(len(entries)))

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range entries {
		if !e.Urgent {
			continue
		}
		if _, ok := h.urgentSeen[e.PatientID]; ok {
			continue
		}
		h.urgentSeen[e.PatientID] = struct{}{}
		h.m.UrgentCases.Inc()
	}
}

func (h *engineHooks) DoctorAssigned(patientID, doctorID, room string) {
	h.store.DoctorAssigned(patientID, doctorID, room)
}

func (h *engineHooks) ConsultationCompleted(c patient.Consultation) {
	h.store.ConsultationCompleted(c)
	h.m.ConsultationsCompleted.Inc()
	if d := c.CompletedAt.Sub(c.StartedAt); d > 0 {
		h.m.ConsultationDuration.Observe(d.Seconds())
	}
}

func (h *engineHooks) PatientDeparted(patientID, reason string) {
	h.store.PatientDeparted(patientID, reason)
	h.m.PatientsDeparted.Inc()
}
