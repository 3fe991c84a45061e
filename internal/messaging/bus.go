package messaging

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Network is the messaging substrate actors run on. The in-memory Bus is
// the default; the kafka subpackage provides a broker-backed alternative.
type Network interface {
	// Attach registers an actor identity and returns its mailbox.
	// Attaching an already-attached identity returns the existing mailbox.
	Attach(id string) *Mailbox
	// Detach closes and removes the actor's mailbox.
	Detach(id string)
	// Send delivers a message to its receiver's mailbox. It never blocks
	// the caller; an unknown receiver is an error, not a panic.
	Send(ctx context.Context, m *Message) error
}

// Bus is the in-process messaging substrate. Delivery within one
// sender/receiver pair is FIFO; ordering across senders is unspecified.
type Bus struct {
	logger *zap.Logger
	tracer trace.Tracer

	mu    sync.RWMutex
	boxes map[string]*Mailbox

	delivered int64
	dropped   int64
}

// NewBus creates an empty in-memory bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		logger: logger,
		tracer: otel.Tracer("clinic-bus"),
		boxes:  make(map[string]*Mailbox),
	}
}

// Attach registers an actor and returns its mailbox.
func (b *Bus) Attach(id string) *Mailbox {
	b.mu.Lock()
	defer b.mu.Unlock()
	if mb, ok := b.boxes[id]; ok {
		return mb
	}
	mb := NewMailbox(id)
	b.boxes[id] = mb
	b.logger.Debug("actor attached", zap.String("actor", id))
	return mb
}

// Detach removes an actor's mailbox and closes it.
func (b *Bus) Detach(id string) {
	b.mu.Lock()
	mb, ok := b.boxes[id]
	delete(b.boxes, id)
	b.mu.Unlock()
	if ok {
		mb.Close()
		b.logger.Debug("actor detached", zap.String("actor", id))
	}
}

// Send delivers m to the receiver's mailbox. Fire-and-forget: the message
// is queued and the caller continues immediately.
func (b *Bus) Send(ctx context.Context, m *Message) error {
	_, span := b.tracer.Start(ctx, "bus.send",
		trace.WithAttributes(
			attribute.String("message.tag", string(m.Tag)),
			attribute.String("message.sender", m.Sender),
			attribute.String("message.receiver", m.Receiver),
		))
	defer span.End()

	b.mu.RLock()
	mb, ok := b.boxes[m.Receiver]
	b.mu.RUnlock()

	if !ok {
		atomic.AddInt64(&b.dropped, 1)
		err := fmt.Errorf("no mailbox for receiver %q", m.Receiver)
		span.RecordError(err)
		b.logger.Warn("message undeliverable",
			zap.String("receiver", m.Receiver),
			zap.String("tag", string(m.Tag)))
		return err
	}

	mb.Deliver(m)
	atomic.AddInt64(&b.delivered, 1)
	return nil
}

// Stats holds bus delivery counters.
type Stats struct {
	Delivered int64
	Dropped   int64
	Attached  int
}

// Stats returns current delivery counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	attached := len(b.boxes)
	b.mu.RUnlock()
	return Stats{
		Delivered: atomic.LoadInt64(&b.delivered),
		Dropped:   atomic.LoadInt64(&b.dropped),
		Attached:  attached,
	}
}
