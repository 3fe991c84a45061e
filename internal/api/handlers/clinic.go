// Package handlers provides HTTP handlers for the clinic status API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/directory"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/clinic"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/status"
	"github.com/kBRAINX/medicalclinisSma/internal/waitqueue"
)

// ClinicHandler exposes read-only views over the running clinic.
type ClinicHandler struct {
	registry *patient.Registry
	queue    *waitqueue.Queue
	roster   *clinic.Roster
	dir      *directory.Directory
	store    *status.Store
	logger   *zap.Logger
}

// NewClinicHandler creates a new handler.
func NewClinicHandler(registry *patient.Registry, queue *waitqueue.Queue, roster *clinic.Roster, dir *directory.Directory, store *status.Store, logger *zap.Logger) *ClinicHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClinicHandler{
		registry: registry,
		queue:    queue,
		roster:   roster,
		dir:      dir,
		store:    store,
		logger:   logger,
	}
}

// Routes returns the handler routes.
func (h *ClinicHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/patients", h.ListPatients)
	r.Get("/patients/{id}", h.GetPatient)
	r.Get("/queue", h.GetQueue)
	r.Get("/doctors", h.ListDoctors)
	r.Get("/directory", h.GetDirectory)
	r.Get("/activity", h.GetActivity)
	return r
}

// ListPatients handles GET /patients.
func (h *ClinicHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.registry.SnapshotAll())
}

// GetPatient handles GET /patients/{id}.
func (h *ClinicHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("clinic-handler")
	_, span := tracer.Start(ctx, "get_patient")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("patient_id", id))

	rec, ok := h.registry.Snapshot(id)
	if !ok {
		h.jsonError(w, "patient not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// QueueResponse is the waiting room view.
type QueueResponse struct {
	Length  int               `json:"length"`
	Entries []waitqueue.Entry `json:"entries"`
}

// GetQueue handles GET /queue.
func (h *ClinicHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	entries := h.queue.Snapshot()
	h.writeJSON(w, http.StatusOK, QueueResponse{Length: len(entries), Entries: entries})
}

// ListDoctors handles GET /doctors.
func (h *ClinicHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.roster.Snapshot())
}

// GetDirectory handles GET /directory.
func (h *ClinicHandler) GetDirectory(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.dir.Snapshot())
}

// ActivityResponse aggregates live counters and per-patient state.
type ActivityResponse struct {
	Totals   status.Counters        `json:"totals"`
	Patients []status.PatientStatus `json:"patients"`
}

// GetActivity handles GET /activity.
func (h *ClinicHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, ActivityResponse{
		Totals:   h.store.Totals(),
		Patients: h.store.Patients(),
	})
}

func (h *ClinicHandler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response encode failed", zap.Error(err))
	}
}

func (h *ClinicHandler) jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
