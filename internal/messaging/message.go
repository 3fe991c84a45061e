// Package messaging implements the conversation router for the clinic:
// immutable messages, selective-receive mailboxes and the in-memory bus
// that moves messages between actors.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Performative classifies the intent of a message.
type Performative string

const (
	PerformativeRequest Performative = "request"
	PerformativeInform  Performative = "inform"
)

// Tag routes a message to the state-machine handler owning the conversation.
// The set is closed: actors log and drop messages carrying anything else.
type Tag string

const (
	TagPatientConnected    Tag = "patient-connected"
	TagWelcome             Tag = "welcome"
	TagPersonalForm        Tag = "personal-form"
	TagPersonalInfo        Tag = "personal-info"
	TagMoveRequest         Tag = "move-request"
	TagPatientLocation     Tag = "patient-location"
	TagNurseGreeting       Tag = "nurse-greeting"
	TagNurseQuestions      Tag = "nurse-questions"
	TagSymptomAnswers      Tag = "symptom-answers"
	TagNurseFeedback       Tag = "nurse-feedback"
	TagSymptomInfo         Tag = "symptom-info"
	TagUrgentNotification  Tag = "urgent-notification"
	TagDoctorAssignment    Tag = "doctor-assignment"
	TagPatientInfo         Tag = "patient-info"
	TagInvitePatient       Tag = "invite-patient"
	TagDoctorGreeting      Tag = "doctor-greeting"
	TagDoctorQuestions     Tag = "doctor-questions"
	TagDoctorConsultation  Tag = "doctor-consultation"
	TagDiagnosis           Tag = "diagnosis"
	TagPatientRecordUpdate Tag = "patient-record-update"
	TagDoctorStatus        Tag = "doctor-status"
	TagWaitingInfo         Tag = "waiting-info"
	TagWaitingPosition     Tag = "waiting-position"
	TagReceptionFeedback   Tag = "receptionist-feedback"
)

var knownTags = map[Tag]struct{}{
	TagPatientConnected: {}, TagWelcome: {}, TagPersonalForm: {},
	TagPersonalInfo: {}, TagMoveRequest: {}, TagPatientLocation: {},
	TagNurseGreeting: {}, TagNurseQuestions: {}, TagSymptomAnswers: {},
	TagNurseFeedback: {}, TagSymptomInfo: {}, TagUrgentNotification: {},
	TagDoctorAssignment: {}, TagPatientInfo: {}, TagInvitePatient: {},
	TagDoctorGreeting: {}, TagDoctorQuestions: {}, TagDoctorConsultation: {},
	TagDiagnosis: {}, TagPatientRecordUpdate: {}, TagDoctorStatus: {},
	TagWaitingInfo: {}, TagWaitingPosition: {}, TagReceptionFeedback: {},
}

// Known reports whether the tag belongs to the closed conversation set.
func (t Tag) Known() bool {
	_, ok := knownTags[t]
	return ok
}

// Plain-string commands carried on specific conversation tags.
const (
	CommandPatientConnected      = "PATIENT_CONNECTED"
	CommandPatientInWaitingRoom  = "PATIENT_IN_WAITING_ROOM"
	CommandMoveToWaitingRoom     = "MOVE_TO_WAITING_ROOM"
	CommandPatientArrived        = "PATIENT_ARRIVED"
	CommandPatientExit           = "PATIENT_EXIT"
	CommandConsultationCompleted = "CONSULTATION_COMPLETED"

	MoveToDoctorPrefix = "MOVE_TO_DOCTOR_"
	UrgentCasePrefix   = "URGENT_CASE:"
)

// Message is one unit of conversation between two actors. Messages are
// immutable once sent; the builder methods below are only valid before Send.
type Message struct {
	ID           string          `json:"id"`
	Sender       string          `json:"sender"`
	Receiver     string          `json:"receiver"`
	Performative Performative    `json:"performative"`
	Tag          Tag             `json:"tag"`
	Content      string          `json:"content,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	SentAt       time.Time       `json:"sent_at"`
}

// NewMessage creates a message addressed from sender to receiver.
func NewMessage(sender, receiver string, performative Performative, tag Tag) *Message {
	return &Message{
		ID:           uuid.New().String(),
		Sender:       sender,
		Receiver:     receiver,
		Performative: performative,
		Tag:          tag,
		SentAt:       time.Now().UTC(),
	}
}

// WithContent sets the plain-string content and returns the message.
func (m *Message) WithContent(content string) *Message {
	m.Content = content
	return m
}

// WithPayload marshals v into the structured payload.
func (m *Message) WithPayload(v any) (*Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload for tag %s: %w", m.Tag, err)
	}
	m.Payload = data
	return m, nil
}

// DecodePayload unmarshals the structured payload into v.
func (m *Message) DecodePayload(v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("message %s has no payload", m.ID)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("decode payload for tag %s: %w", m.Tag, err)
	}
	return nil
}

// Filter selects messages out of a mailbox. Zero-value fields match anything.
type Filter struct {
	Tag          Tag
	Performative Performative
	Sender       string
	Content      string
	// Match, when set, is applied after the field checks.
	Match func(*Message) bool
}

// Matches reports whether m satisfies every non-zero criterion.
func (f Filter) Matches(m *Message) bool {
	if f.Tag != "" && m.Tag != f.Tag {
		return false
	}
	if f.Performative != "" && m.Performative != f.Performative {
		return false
	}
	if f.Sender != "" && m.Sender != f.Sender {
		return false
	}
	if f.Content != "" && m.Content != f.Content {
		return false
	}
	if f.Match != nil && !f.Match(m) {
		return false
	}
	return true
}
