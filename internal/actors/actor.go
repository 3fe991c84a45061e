// Package actors implements the clinic's four state machines: the
// receptionist, the nurse, the doctors and the scripted patients. Each
// actor runs a single goroutine that owns all of its state and talks to
// the others only through the messaging substrate.
package actors

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/messaging"
	"github.com/kBRAINX/medicalclinisSma/internal/triage"
	"github.com/kBRAINX/medicalclinisSma/internal/waitqueue"
)

// Hooks receives engine events as they happen. Implementations must be
// fast and safe for concurrent use; the status store is the main consumer.
type Hooks interface {
	PatientRegistered(patientID string)
	QueueChanged(entries []waitqueue.Entry)
	DoctorAssigned(patientID, doctorID, room string)
	ConsultationCompleted(c patient.Consultation)
	PatientDeparted(patientID, reason string)
}

// NopHooks discards every event.
type NopHooks struct{}

func (NopHooks) PatientRegistered(string)                   {}
func (NopHooks) QueueChanged([]waitqueue.Entry)             {}
func (NopHooks) DoctorAssigned(string, string, string)      {}
func (NopHooks) ConsultationCompleted(patient.Consultation) {}
func (NopHooks) PatientDeparted(string, string)             {}

// TriageReport is the nurse's hand-off to the receptionist after the
// symptom battery is complete.
type TriageReport struct {
	PatientID  string              `json:"patient_id"`
	Symptoms   map[string]string   `json:"symptoms"`
	Categories map[string][]string `json:"categories,omitempty"`
	Urgent     bool                `json:"urgent"`
}

// PatientBrief is what a doctor receives when a patient is assigned.
type PatientBrief struct {
	PatientID  string            `json:"patient_id"`
	Personal   map[string]string `json:"personal"`
	Symptoms   map[string]string `json:"symptoms"`
	Candidates []triage.Match    `json:"candidates"`
}

// SummonNotice is a doctor's request that the receptionist call the
// assigned patient into the consultation room.
type SummonNotice struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Room      string `json:"room"`
}

// AssignmentNotice tells a patient which doctor to see and where.
type AssignmentNotice struct {
	DoctorID   string `json:"doctor_id"`
	DoctorName string `json:"doctor_name"`
	Room       string `json:"room"`
}

// base carries the plumbing shared by every actor.
type base struct {
	id     string
	net    messaging.Network
	mbox   *messaging.Mailbox
	logger *zap.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func newBase(id string, net messaging.Network, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		id:     id,
		net:    net,
		logger: logger.With(zap.String("actor", id)),
		done:   make(chan struct{}),
	}
}

// ID returns the actor's identity on the bus.
func (b *base) ID() string { return b.id }

// start attaches the mailbox and launches run in its own goroutine.
func (b *base) start(ctx context.Context, run func(context.Context)) {
	b.startOnce.Do(func() {
		ctx, b.cancel = context.WithCancel(ctx)
		b.mbox = b.net.Attach(b.id)
		go func() {
			defer close(b.done)
			run(ctx)
		}()
	})
}

// Stop cancels the actor's loop, detaches it and waits for it to exit.
func (b *base) Stop() {
	b.stopOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		b.net.Detach(b.id)
		<-b.done
	})
}

// send delivers a message, logging delivery failures. Undeliverable
// messages are dropped; conversations recover through re-prompts.
func (b *base) send(ctx context.Context, m *messaging.Message) {
	if err := b.net.Send(ctx, m); err != nil {
		b.logger.Warn("send failed",
			zap.String("receiver", m.Receiver),
			zap.String("tag", string(m.Tag)),
			zap.Error(err))
	}
}

// sendPayload marshals v onto a new message and delivers it.
func (b *base) sendPayload(ctx context.Context, receiver string, perf messaging.Performative, tag messaging.Tag, content string, v any) {
	m := messaging.NewMessage(b.id, receiver, perf, tag).WithContent(content)
	if v != nil {
		var err error
		if m, err = m.WithPayload(v); err != nil {
			b.logger.Error("payload encode failed", zap.String("tag", string(tag)), zap.Error(err))
			return
		}
	}
	b.send(ctx, m)
}

// dropUnknown logs and discards a message outside the closed tag set or
// outside the actor's state machine.
func (b *base) dropUnknown(m *messaging.Message) {
	b.logger.Warn("message dropped",
		zap.String("tag", string(m.Tag)),
		zap.String("sender", m.Sender),
		zap.String("content", m.Content))
}

// receiveLoop pulls every message in arrival order and hands it to handle
// until the context ends or the mailbox closes.
func (b *base) receiveLoop(ctx context.Context, handle func(context.Context, *messaging.Message)) {
	for {
		m, err := b.mbox.Receive(ctx, messaging.Filter{})
		if err != nil {
			if !errors.Is(err, context.Canceled) && !errors.Is(err, messaging.ErrMailboxClosed) {
				b.logger.Warn("receive ended", zap.Error(err))
			}
			return
		}
		if !m.Tag.Known() {
			b.dropUnknown(m)
			continue
		}
		handle(ctx, m)
	}
}
