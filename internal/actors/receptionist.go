package actors

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/directory"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/clinic"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/forms"
	"github.com/kBRAINX/medicalclinisSma/internal/knowledge"
	"github.com/kBRAINX/medicalclinisSma/internal/messaging"
	"github.com/kBRAINX/medicalclinisSma/internal/triage"
	"github.com/kBRAINX/medicalclinisSma/internal/waitqueue"
)

// ConsultationArchive persists completed consultations. Implementations
// may be asynchronous; failures are logged, never surfaced to patients.
type ConsultationArchive interface {
	SaveConsultation(ctx context.Context, c patient.Consultation) error
}

// ReceptionistConfig wires a receptionist into the clinic.
type ReceptionistConfig struct {
	ID        string
	Network   messaging.Network
	Directory *directory.Directory
	Registry  *patient.Registry
	Roster    *clinic.Roster
	Queue     *waitqueue.Queue
	Knowledge *knowledge.Client
	Hooks     Hooks
	Archive   ConsultationArchive
	Logger    *zap.Logger
}

// Receptionist runs the front desk: registration, record keeping, the
// waiting queue and doctor assignment.
type Receptionist struct {
	base
	dir      *directory.Directory
	registry *patient.Registry
	roster   *clinic.Roster
	queue    *waitqueue.Queue
	kb       *knowledge.Client
	hooks    Hooks
	archive  ConsultationArchive
}

// NewReceptionist creates a receptionist actor.
func NewReceptionist(cfg ReceptionistConfig) *Receptionist {
	hooks := cfg.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Receptionist{
		base:     newBase(cfg.ID, cfg.Network, cfg.Logger),
		dir:      cfg.Directory,
		registry: cfg.Registry,
		roster:   cfg.Roster,
		queue:    cfg.Queue,
		kb:       cfg.Knowledge,
		hooks:    hooks,
		archive:  cfg.Archive,
	}
}

// Start registers the receptionist in the directory and begins handling
// messages.
func (r *Receptionist) Start(ctx context.Context) {
	r.start(ctx, func(ctx context.Context) {
		r.dir.Register(r.id, directory.RoleReceptionist)
		defer r.dir.Deregister(r.id)
		r.receiveLoop(ctx, r.handle)
	})
}

func (r *Receptionist) handle(ctx context.Context, m *messaging.Message) {
	switch m.Tag {
	case messaging.TagPatientConnected:
		r.handleConnected(ctx, m)
	case messaging.TagPersonalInfo:
		r.handlePersonalInfo(ctx, m)
	case messaging.TagPatientLocation:
		r.handleLocation(ctx, m)
	case messaging.TagSymptomInfo:
		r.handleTriageReport(ctx, m)
	case messaging.TagUrgentNotification:
		r.handleUrgent(ctx, m)
	case messaging.TagInvitePatient:
		r.handleSummon(ctx, m)
	case messaging.TagPatientRecordUpdate:
		r.handleRecordUpdate(ctx, m)
	case messaging.TagDoctorStatus:
		r.handleDoctorStatus(ctx, m)
	case messaging.TagWaitingInfo:
		r.handleWaitingInfo(ctx, m)
	default:
		r.dropUnknown(m)
	}
}

// handleConnected greets a new patient and sends the registration form.
func (r *Receptionist) handleConnected(ctx context.Context, m *messaging.Message) {
	patientID := m.Sender
	r.registry.GetOrCreate(patientID)
	r.hooks.PatientRegistered(patientID)
	r.logger.Info("patient connected", zap.String("patient", patientID))

	r.sendPayload(ctx, patientID, messaging.PerformativeInform, messaging.TagWelcome,
		"Welcome to the clinic. Please fill in the registration form.", nil)
	r.sendPayload(ctx, patientID, messaging.PerformativeRequest, messaging.TagPersonalForm,
		"", forms.PersonalForm())
}

// handlePersonalInfo merges submitted details and either re-prompts for
// missing required fields or directs the patient to the waiting room.
func (r *Receptionist) handlePersonalInfo(ctx context.Context, m *messaging.Message) {
	patientID := m.Sender
	var details map[string]string
	if err := m.DecodePayload(&details); err != nil {
		r.logger.Warn("unreadable personal details", zap.String("patient", patientID), zap.Error(err))
		r.sendPayload(ctx, patientID, messaging.PerformativeRequest, messaging.TagPersonalForm,
			"The form could not be read, please resubmit.", forms.PersonalForm())
		return
	}

	var missing []string
	r.registry.Update(patientID, func(rec *patient.Record) {
		rec.MergePersonal(details)
		missing = rec.MissingPersonalFields()
	})

	if len(missing) > 0 {
		r.logger.Info("registration incomplete",
			zap.String("patient", patientID),
			zap.Strings("missing", missing))
		r.sendPayload(ctx, patientID, messaging.PerformativeRequest, messaging.TagPersonalForm,
			"Missing required details: "+strings.Join(missing, ", "), forms.PersonalForm())
		return
	}

	r.logger.Info("registration complete", zap.String("patient", patientID))
	r.sendPayload(ctx, patientID, messaging.PerformativeInform, messaging.TagReceptionFeedback,
		"Registration complete.", nil)
	r.sendPayload(ctx, patientID, messaging.PerformativeRequest, messaging.TagMoveRequest,
		messaging.CommandMoveToWaitingRoom, nil)
}

// handleLocation reacts to patient movement notices.
func (r *Receptionist) handleLocation(ctx context.Context, m *messaging.Message) {
	patientID := m.Sender
	switch m.Content {
	case messaging.CommandPatientInWaitingRoom:
		nurse, ok := r.dir.FindFirst(directory.RoleNurse)
		if !ok {
			r.logger.Error("no nurse registered", zap.String("patient", patientID))
			return
		}
		r.sendPayload(ctx, nurse.ID, messaging.PerformativeRequest, messaging.TagNurseGreeting,
			patientID, nil)
	case messaging.CommandPatientExit:
		r.queue.Remove(patientID)
		r.hooks.PatientDeparted(patientID, "consultation finished")
		r.logger.Info("patient left", zap.String("patient", patientID))
		r.sendPayload(ctx, patientID, messaging.PerformativeInform, messaging.TagReceptionFeedback,
			"Goodbye, take care.", nil)
	default:
		r.dropUnknown(m)
	}
}

// handleTriageReport stores the nurse's findings, queues the patient and
// tries to assign a doctor.
func (r *Receptionist) handleTriageReport(ctx context.Context, m *messaging.Message) {
	var report TriageReport
	if err := m.DecodePayload(&report); err != nil {
		r.logger.Warn("unreadable triage report", zap.Error(err))
		return
	}

	r.registry.Update(report.PatientID, func(rec *patient.Record) {
		rec.MergeSymptoms(report.Symptoms)
	})

	pos := r.queue.Enqueue(waitqueue.Entry{
		PatientID: report.PatientID,
		Symptoms:  report.Symptoms,
		Urgent:    report.Urgent,
	})
	r.hooks.QueueChanged(r.queue.Snapshot())
	r.sendPayload(ctx, report.PatientID, messaging.PerformativeInform, messaging.TagWaitingPosition,
		fmt.Sprintf("%d", pos), nil)

	r.drainQueue(ctx)
}

// handleUrgent promotes a waiting patient flagged urgent by the nurse.
func (r *Receptionist) handleUrgent(ctx context.Context, m *messaging.Message) {
	if !strings.HasPrefix(m.Content, messaging.UrgentCasePrefix) {
		r.dropUnknown(m)
		return
	}
	patientID := strings.TrimPrefix(m.Content, messaging.UrgentCasePrefix)
	if r.queue.Promote(patientID) {
		r.hooks.QueueChanged(r.queue.Snapshot())
		r.sendPayload(ctx, patientID, messaging.PerformativeInform, messaging.TagWaitingPosition,
			"1", nil)
	}
	r.drainQueue(ctx)
}

// handleSummon relays a doctor's summon to the assigned patient. The
// notice keeps the doctor's identity so the patient announces arrival in
// the right consultation room.
func (r *Receptionist) handleSummon(ctx context.Context, m *messaging.Message) {
	var summon SummonNotice
	if err := m.DecodePayload(&summon); err != nil {
		r.logger.Warn("unreadable summon request", zap.String("doctor", m.Sender), zap.Error(err))
		return
	}
	r.logger.Info("summoning patient",
		zap.String("patient", summon.PatientID),
		zap.String("doctor", summon.DoctorID),
		zap.String("room", summon.Room))
	r.sendPayload(ctx, summon.PatientID, messaging.PerformativeRequest, messaging.TagInvitePatient,
		"Please proceed to consultation room "+summon.Room+".", summon)
}

// handleRecordUpdate appends a completed consultation to the record and
// archives it.
func (r *Receptionist) handleRecordUpdate(ctx context.Context, m *messaging.Message) {
	var c patient.Consultation
	if err := m.DecodePayload(&c); err != nil {
		r.logger.Warn("unreadable consultation", zap.Error(err))
		return
	}
	r.registry.Update(c.PatientID, func(rec *patient.Record) {
		rec.AddConsultation(c)
	})
	r.hooks.ConsultationCompleted(c)
	r.logger.Info("consultation recorded",
		zap.String("patient", c.PatientID),
		zap.String("doctor", c.DoctorID),
		zap.String("condition", c.Condition.Name))

	if r.archive != nil {
		if err := r.archive.SaveConsultation(ctx, c); err != nil {
			r.logger.Error("consultation archive failed",
				zap.String("consultation", c.ID), zap.Error(err))
		}
	}
}

// handleDoctorStatus frees the doctor after a consultation and serves the
// next waiting patient.
func (r *Receptionist) handleDoctorStatus(ctx context.Context, m *messaging.Message) {
	if m.Content != messaging.CommandConsultationCompleted {
		r.dropUnknown(m)
		return
	}
	r.roster.Release(m.Sender)
	r.logger.Info("doctor available again", zap.String("doctor", m.Sender))
	r.drainQueue(ctx)
}

// handleWaitingInfo answers a patient asking for their queue position.
func (r *Receptionist) handleWaitingInfo(ctx context.Context, m *messaging.Message) {
	pos := r.queue.Position(m.Sender)
	r.sendPayload(ctx, m.Sender, messaging.PerformativeInform, messaging.TagWaitingPosition,
		fmt.Sprintf("%d", pos), nil)
}

// drainQueue assigns waiting patients to doctors for as long as both are
// available. A patient dequeued without a doctor to take them goes back
// to the head so they keep their turn.
func (r *Receptionist) drainQueue(ctx context.Context) {
	for {
		entry, ok := r.queue.DequeueNext()
		if !ok {
			return
		}

		conditions, err := r.kb.Conditions(ctx)
		if err != nil {
			r.logger.Error("knowledge base query failed, assignment deferred", zap.Error(err))
			r.queue.PushFront(entry)
			return
		}
		candidates := triage.Rank(conditions, entry.Symptoms)

		doctor, ok := triage.Assign(r.roster, candidates)
		if !ok {
			r.queue.PushFront(entry)
			return
		}

		r.hooks.QueueChanged(r.queue.Snapshot())
		r.hooks.DoctorAssigned(entry.PatientID, doctor.ID, doctor.Room)
		r.logger.Info("doctor assigned",
			zap.String("patient", entry.PatientID),
			zap.String("doctor", doctor.ID),
			zap.String("room", doctor.Room),
			zap.Bool("urgent", entry.Urgent))

		brief := PatientBrief{
			PatientID:  entry.PatientID,
			Candidates: candidates,
		}
		if rec, ok := r.registry.Snapshot(entry.PatientID); ok {
			brief.Personal = rec.Personal
			brief.Symptoms = rec.Symptoms
		} else {
			brief.Symptoms = entry.Symptoms
		}
		r.sendPayload(ctx, doctor.ID, messaging.PerformativeRequest, messaging.TagPatientInfo,
			"", brief)

		notice := AssignmentNotice{DoctorID: doctor.ID, DoctorName: doctor.Name, Room: doctor.Room}
		r.sendPayload(ctx, entry.PatientID, messaging.PerformativeRequest, messaging.TagDoctorAssignment,
			messaging.MoveToDoctorPrefix+doctor.Room, notice)
	}
}
