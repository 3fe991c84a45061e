package messaging

import (
	"context"
	"errors"
	"sync"
)

// ErrMailboxClosed is returned by Receive after the mailbox owner detaches.
var ErrMailboxClosed = errors.New("mailbox closed")

// Mailbox is a per-actor inbox with selective receive. Messages that match
// no currently requested filter stay queued for a later Receive; arrival
// order is preserved, so delivery from one sender is FIFO.
type Mailbox struct {
	owner string

	mu     sync.Mutex
	queue  []*Message
	closed bool
	notify chan struct{}
}

// NewMailbox creates an empty mailbox for the given owner. Transports
// call Deliver as messages arrive and Close when the owner detaches.
func NewMailbox(owner string) *Mailbox {
	return &Mailbox{
		owner:  owner,
		notify: make(chan struct{}, 1),
	}
}

// Owner returns the actor identity this mailbox belongs to.
func (mb *Mailbox) Owner() string { return mb.owner }

// Deliver appends a message and wakes a pending Receive. Delivery to a
// closed mailbox is silently discarded.
func (mb *Mailbox) Deliver(m *Message) {
	mb.mu.Lock()
	if mb.closed {
		mb.mu.Unlock()
		return
	}
	mb.queue = append(mb.queue, m)
	mb.mu.Unlock()

	select {
	case mb.notify <- struct{}{}:
	default:
	}
}

// Poll removes and returns the oldest message matching f, or nil.
func (mb *Mailbox) Poll(f Filter) *Message {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return mb.takeLocked(f)
}

// Receive blocks until a message matching f arrives, the context is done,
// or the mailbox is closed. Waiting yields; it never spins.
func (mb *Mailbox) Receive(ctx context.Context, f Filter) (*Message, error) {
	for {
		mb.mu.Lock()
		if m := mb.takeLocked(f); m != nil {
			mb.mu.Unlock()
			return m, nil
		}
		if mb.closed {
			mb.mu.Unlock()
			return nil, ErrMailboxClosed
		}
		mb.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-mb.notify:
		}
	}
}

// Len returns the number of queued messages.
func (mb *Mailbox) Len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.queue)
}

func (mb *Mailbox) takeLocked(f Filter) *Message {
	for i, m := range mb.queue {
		if f.Matches(m) {
			mb.queue = append(mb.queue[:i], mb.queue[i+1:]...)
			return m
		}
	}
	return nil
}

// Close drops queued messages and unblocks pending receives.
func (mb *Mailbox) Close() {
	mb.mu.Lock()
	mb.closed = true
	mb.queue = nil
	mb.mu.Unlock()

	select {
	case mb.notify <- struct{}{}:
	default:
	}
}
