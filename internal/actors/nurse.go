package actors

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/directory"
	"github.com/kBRAINX/medicalclinisSma/internal/forms"
	"github.com/kBRAINX/medicalclinisSma/internal/messaging"
	"github.com/kBRAINX/medicalclinisSma/internal/triage"
)

// NurseConfig wires a nurse into the clinic.
type NurseConfig struct {
	ID        string
	Network   messaging.Network
	Directory *directory.Directory
	Logger    *zap.Logger
}

// Nurse runs triage: it questions waiting patients, validates their
// answers, flags urgent cases and reports findings to the receptionist.
type Nurse struct {
	base
	dir *directory.Directory
}

// NewNurse creates a nurse actor.
func NewNurse(cfg NurseConfig) *Nurse {
	return &Nurse{
		base: newBase(cfg.ID, cfg.Network, cfg.Logger),
		dir:  cfg.Directory,
	}
}

// Start registers the nurse in the directory and begins handling messages.
func (n *Nurse) Start(ctx context.Context) {
	n.start(ctx, func(ctx context.Context) {
		n.dir.Register(n.id, directory.RoleNurse)
		defer n.dir.Deregister(n.id)
		n.receiveLoop(ctx, n.handle)
	})
}

func (n *Nurse) handle(ctx context.Context, m *messaging.Message) {
	switch m.Tag {
	case messaging.TagNurseGreeting:
		n.handleGreeting(ctx, m)
	case messaging.TagSymptomAnswers:
		n.handleAnswers(ctx, m)
	default:
		n.dropUnknown(m)
	}
}

// handleGreeting starts triage for the patient named in the message.
func (n *Nurse) handleGreeting(ctx context.Context, m *messaging.Message) {
	patientID := m.Content
	if patientID == "" {
		n.dropUnknown(m)
		return
	}
	n.logger.Info("triage started", zap.String("patient", patientID))
	n.sendPayload(ctx, patientID, messaging.PerformativeRequest, messaging.TagNurseQuestions,
		"Hello, I need to ask you a few questions before you see the doctor.",
		forms.SymptomQuestionnaire())
}

// handleAnswers validates the symptom battery, re-asking for missing
// answers and reporting complete ones to the receptionist.
func (n *Nurse) handleAnswers(ctx context.Context, m *messaging.Message) {
	patientID := m.Sender
	var answers map[string]string
	if err := m.DecodePayload(&answers); err != nil {
		n.logger.Warn("unreadable symptom answers", zap.String("patient", patientID), zap.Error(err))
		n.sendPayload(ctx, patientID, messaging.PerformativeRequest, messaging.TagNurseQuestions,
			"Your answers could not be read, please try again.", forms.SymptomQuestionnaire())
		return
	}

	questionnaire := forms.SymptomQuestionnaire()
	if missing := forms.Validate(questionnaire, answers); len(missing) > 0 {
		n.logger.Info("symptom battery incomplete",
			zap.String("patient", patientID),
			zap.Strings("missing", missing))
		n.sendPayload(ctx, patientID, messaging.PerformativeRequest, messaging.TagNurseQuestions,
			"Please also answer: "+strings.Join(missing, ", "), questionnaire)
		return
	}

	urgent := triage.IsUrgent(answers)
	n.sendPayload(ctx, patientID, messaging.PerformativeInform, messaging.TagNurseFeedback,
		"Thank you, the doctor will see you shortly.", nil)

	receptionist, ok := n.dir.FindFirst(directory.RoleReceptionist)
	if !ok {
		n.logger.Error("no receptionist registered", zap.String("patient", patientID))
		return
	}

	report := TriageReport{
		PatientID:  patientID,
		Symptoms:   answers,
		Categories: forms.Categorize(answers),
		Urgent:     urgent,
	}
	n.sendPayload(ctx, receptionist.ID, messaging.PerformativeInform, messaging.TagSymptomInfo,
		"", report)

	if urgent {
		n.logger.Warn("urgent case detected", zap.String("patient", patientID))
		n.sendPayload(ctx, receptionist.ID, messaging.PerformativeInform, messaging.TagUrgentNotification,
			messaging.UrgentCasePrefix+patientID, nil)
	}
}
