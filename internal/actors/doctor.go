package actors

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/directory"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/clinic"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/forms"
	"github.com/kBRAINX/medicalclinisSma/internal/knowledge"
	"github.com/kBRAINX/medicalclinisSma/internal/messaging"
	"github.com/kBRAINX/medicalclinisSma/internal/triage"
)

// DoctorConfig wires a doctor into the clinic.
type DoctorConfig struct {
	Profile   clinic.DoctorProfile
	Network   messaging.Network
	Directory *directory.Directory
	Knowledge *knowledge.Client
	Logger    *zap.Logger
}

// Doctor examines one assigned patient at a time: invitation, follow-up
// questions, diagnosis and the personalized prescription.
type Doctor struct {
	base
	profile clinic.DoctorProfile
	dir     *directory.Directory
	kb      *knowledge.Client

	current   *PatientBrief
	startedAt time.Time
}

// NewDoctor creates a doctor actor from its profile.
func NewDoctor(cfg DoctorConfig) *Doctor {
	return &Doctor{
		base:    newBase(cfg.Profile.ID, cfg.Network, cfg.Logger),
		profile: cfg.Profile.Clone(),
		dir:     cfg.Directory,
		kb:      cfg.Knowledge,
	}
}

// Profile returns a copy of the doctor's profile.
func (d *Doctor) Profile() clinic.DoctorProfile { return d.profile.Clone() }

// Start registers the doctor in the directory and begins handling messages.
func (d *Doctor) Start(ctx context.Context) {
	d.start(ctx, func(ctx context.Context) {
		d.dir.Register(d.id, directory.RoleDoctor, d.profile.Specialty)
		defer d.dir.Deregister(d.id)
		d.receiveLoop(ctx, d.handle)
	})
}

func (d *Doctor) handle(ctx context.Context, m *messaging.Message) {
	switch m.Tag {
	case messaging.TagPatientInfo:
		d.handlePatientInfo(ctx, m)
	case messaging.TagPatientLocation:
		d.handleArrival(ctx, m)
	case messaging.TagDoctorConsultation:
		d.handleConsultation(ctx, m)
	default:
		d.dropUnknown(m)
	}
}

// handlePatientInfo accepts an assignment and asks the receptionist to
// summon the patient into the consultation room.
func (d *Doctor) handlePatientInfo(ctx context.Context, m *messaging.Message) {
	var brief PatientBrief
	if err := m.DecodePayload(&brief); err != nil {
		d.logger.Warn("unreadable patient brief", zap.Error(err))
		return
	}
	d.current = &brief
	d.logger.Info("patient assigned",
		zap.String("patient", brief.PatientID),
		zap.Int("candidates", len(brief.Candidates)))

	summon := SummonNotice{PatientID: brief.PatientID, DoctorID: d.id, Room: d.profile.Room}
	if receptionist, ok := d.dir.FindFirst(directory.RoleReceptionist); ok {
		d.sendPayload(ctx, receptionist.ID, messaging.PerformativeRequest, messaging.TagInvitePatient,
			brief.PatientID, summon)
		return
	}
	d.logger.Error("no receptionist registered, inviting the patient directly",
		zap.String("patient", brief.PatientID))
	d.sendPayload(ctx, brief.PatientID, messaging.PerformativeRequest, messaging.TagInvitePatient,
		"Please come to consultation room "+d.profile.Room+".", summon)
}

// handleArrival greets the arrived patient and asks the specialty
// follow-up questions.
func (d *Doctor) handleArrival(ctx context.Context, m *messaging.Message) {
	if m.Content != messaging.CommandPatientArrived || d.current == nil || m.Sender != d.current.PatientID {
		d.dropUnknown(m)
		return
	}
	d.startedAt = time.Now().UTC()
	d.sendPayload(ctx, m.Sender, messaging.PerformativeInform, messaging.TagDoctorGreeting,
		"Hello, I am Dr. "+d.profile.Name+". Let's have a look at you.", nil)
	d.sendPayload(ctx, m.Sender, messaging.PerformativeRequest, messaging.TagDoctorQuestions,
		"", forms.SpecialtyFollowUp(d.profile.Specialty))
}

// handleConsultation closes the visit: diagnose, prescribe, report back.
func (d *Doctor) handleConsultation(ctx context.Context, m *messaging.Message) {
	if d.current == nil || m.Sender != d.current.PatientID {
		d.dropUnknown(m)
		return
	}
	var answers map[string]string
	if err := m.DecodePayload(&answers); err != nil {
		d.logger.Warn("unreadable consultation answers", zap.Error(err))
		answers = map[string]string{}
	}

	symptoms := make(map[string]string, len(d.current.Symptoms)+len(answers))
	for k, v := range d.current.Symptoms {
		symptoms[k] = v
	}
	for k, v := range answers {
		symptoms[k] = v
	}

	condition, pct := d.diagnose(ctx, symptoms)
	consultation := d.prescribe(ctx, condition, pct, symptoms)

	d.sendPayload(ctx, d.current.PatientID, messaging.PerformativeInform, messaging.TagDiagnosis,
		condition.Name, consultation)

	if receptionist, ok := d.dir.FindFirst(directory.RoleReceptionist); ok {
		d.sendPayload(ctx, receptionist.ID, messaging.PerformativeInform, messaging.TagPatientRecordUpdate,
			"", consultation)
		d.sendPayload(ctx, receptionist.ID, messaging.PerformativeInform, messaging.TagDoctorStatus,
			messaging.CommandConsultationCompleted, nil)
	} else {
		d.logger.Error("no receptionist registered, consultation not reported",
			zap.String("patient", d.current.PatientID))
	}

	d.logger.Info("consultation completed",
		zap.String("patient", d.current.PatientID),
		zap.String("condition", condition.Name),
		zap.Int("match_percent", pct))
	d.current = nil
}

// diagnose ranks the catalogue against the full symptom picture. An empty
// ranking, or an unreachable knowledge base with no prior candidates,
// yields the to-be-determined placeholder under this doctor's specialty.
func (d *Doctor) diagnose(ctx context.Context, symptoms map[string]string) (knowledge.Condition, int) {
	var candidates []triage.Match
	conditions, err := d.kb.Conditions(ctx)
	if err != nil {
		d.logger.Warn("knowledge base unreachable, using triage candidates", zap.Error(err))
		candidates = d.current.Candidates
	} else {
		candidates = triage.Rank(conditions, symptoms)
	}
	if len(candidates) == 0 {
		return knowledge.Placeholder(d.profile.Specialty), 0
	}
	return candidates[0].Condition, candidates[0].Percent
}

// prescribe builds the consultation with a dosage-personalized treatment
// and the symptom picture the diagnosis was made on.
func (d *Doctor) prescribe(ctx context.Context, condition knowledge.Condition, pct int, symptoms map[string]string) patient.Consultation {
	now := time.Now().UTC()
	rec := patient.NewRecord(d.current.PatientID)
	rec.MergePersonal(d.current.Personal)
	dosageProfile := rec.DosageProfile(now)

	started := d.startedAt
	if started.IsZero() {
		started = now
	}
	notes := fmt.Sprintf("Probable %s (%d%% symptom match).", condition.Name, pct)
	if pct == 0 {
		notes = "No conclusive match, further examination needed."
	}
	return patient.Consultation{
		ID:           uuid.New().String(),
		PatientID:    d.current.PatientID,
		DoctorID:     d.id,
		Condition:    condition,
		MatchPercent: pct,
		Symptoms:     symptoms,
		Medications:  d.kb.PersonalizedTreatment(ctx, condition, dosageProfile),
		Guidelines:   d.kb.Guidelines(ctx, condition.ID),
		Notes:        notes,
		StartedAt:    started,
		CompletedAt:  now,
	}
}
