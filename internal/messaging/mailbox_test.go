package messaging

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMailboxFIFO(t *testing.T) {
	mb := NewMailbox("receptionist-1")
	for _, content := range []string{"first", "second", "third"} {
		mb.Deliver(NewMessage("patient-1", "receptionist-1", PerformativeInform, TagPersonalInfo).WithContent(content))
	}

	for _, want := range []string{"first", "second", "third"} {
		m := mb.Poll(Filter{})
		if m == nil {
			t.Fatalf("expected message %q, got nil", want)
		}
		if m.Content != want {
			t.Errorf("expected %q, got %q", want, m.Content)
		}
	}
	if m := mb.Poll(Filter{}); m != nil {
		t.Errorf("expected empty mailbox, got %q", m.Content)
	}
}

func TestMailboxSelectiveReceive(t *testing.T) {
	mb := NewMailbox("patient-1")
	mb.Deliver(NewMessage("receptionist-1", "patient-1", PerformativeRequest, TagPersonalForm))
	mb.Deliver(NewMessage("receptionist-1", "patient-1", PerformativeInform, TagWelcome).WithContent("hello"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	m, err := mb.Receive(ctx, Filter{Tag: TagWelcome})
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if m.Tag != TagWelcome {
		t.Errorf("expected welcome, got %s", m.Tag)
	}

	// The skipped form must still be queued.
	if mb.Len() != 1 {
		t.Fatalf("expected 1 queued message, got %d", mb.Len())
	}
	if m := mb.Poll(Filter{}); m == nil || m.Tag != TagPersonalForm {
		t.Errorf("expected personal form left in queue, got %v", m)
	}
}

func TestMailboxReceiveBlocksUntilDelivery(t *testing.T) {
	mb := NewMailbox("nurse-1")

	go func() {
		time.Sleep(20 * time.Millisecond)
		mb.Deliver(NewMessage("receptionist-1", "nurse-1", PerformativeRequest, TagNurseGreeting))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m, err := mb.Receive(ctx, Filter{})
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if m.Tag != TagNurseGreeting {
		t.Errorf("expected nurse greeting, got %s", m.Tag)
	}
}

func TestMailboxReceiveContextCancel(t *testing.T) {
	mb := NewMailbox("patient-1")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := mb.Receive(ctx, Filter{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestMailboxClose(t *testing.T) {
	mb := NewMailbox("patient-1")
	mb.Deliver(NewMessage("a", "patient-1", PerformativeInform, TagWelcome))
	mb.Close()

	if mb.Len() != 0 {
		t.Errorf("expected queue dropped on close, got %d", mb.Len())
	}

	_, err := mb.Receive(context.Background(), Filter{})
	if !errors.Is(err, ErrMailboxClosed) {
		t.Errorf("expected ErrMailboxClosed, got %v", err)
	}

	// Delivery after close is discarded.
	mb.Deliver(NewMessage("a", "patient-1", PerformativeInform, TagWelcome))
	if mb.Len() != 0 {
		t.Errorf("expected delivery after close to be dropped")
	}
}
