package waitqueue

import "testing"

func TestEnqueueFIFO(t *testing.T) {
	q := New(nil)
	if pos := q.Enqueue(Entry{PatientID: "patient-1"}); pos != 1 {
		t.Errorf("expected position 1, got %d", pos)
	}
	if pos := q.Enqueue(Entry{PatientID: "patient-2"}); pos != 2 {
		t.Errorf("expected position 2, got %d", pos)
	}

	e, ok := q.DequeueNext()
	if !ok || e.PatientID != "patient-1" {
		t.Errorf("expected patient-1 first, got %v %v", e, ok)
	}
	e, _ = q.DequeueNext()
	if e.PatientID != "patient-2" {
		t.Errorf("expected patient-2 second, got %v", e)
	}
	if _, ok := q.DequeueNext(); ok {
		t.Error("expected empty queue")
	}
}

func TestEnqueueUrgentHead(t *testing.T) {
	q := New(nil)
	q.Enqueue(Entry{PatientID: "patient-1"})
	q.Enqueue(Entry{PatientID: "patient-2"})

	if pos := q.Enqueue(Entry{PatientID: "patient-3", Urgent: true}); pos != 1 {
		t.Errorf("urgent patient should enter at head, got position %d", pos)
	}
	if q.Position("patient-1") != 2 || q.Position("patient-2") != 3 {
		t.Errorf("expected others shifted down: %v", q.Snapshot())
	}
}

func TestEnqueueNoDuplicates(t *testing.T) {
	q := New(nil)
	q.Enqueue(Entry{PatientID: "patient-1", Symptoms: map[string]string{"fever": "yes"}})
	q.Enqueue(Entry{PatientID: "patient-2"})

	pos := q.Enqueue(Entry{PatientID: "patient-1", Symptoms: map[string]string{"fever": "high"}})
	if pos != 1 {
		t.Errorf("re-enqueue should report the existing position, got %d", pos)
	}
	if q.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", q.Len())
	}
	if got := q.Snapshot()[0].Symptoms["fever"]; got != "high" {
		t.Errorf("re-enqueue should refresh symptoms, got %q", got)
	}
}

func TestUrgentReEnqueuePromotes(t *testing.T) {
	q := New(nil)
	q.Enqueue(Entry{PatientID: "patient-1"})
	q.Enqueue(Entry{PatientID: "patient-2"})

	if pos := q.Enqueue(Entry{PatientID: "patient-2", Urgent: true}); pos != 1 {
		t.Errorf("urgent re-enqueue should promote to head, got %d", pos)
	}
	if q.Len() != 2 {
		t.Errorf("promotion must not duplicate, got %d entries", q.Len())
	}
	head := q.Snapshot()[0]
	if head.PatientID != "patient-2" || !head.Urgent {
		t.Errorf("expected urgent patient-2 at head, got %+v", head)
	}
}

func TestPromote(t *testing.T) {
	q := New(nil)
	q.Enqueue(Entry{PatientID: "patient-1"})
	q.Enqueue(Entry{PatientID: "patient-2"})

	if !q.Promote("patient-2") {
		t.Fatal("expected promotion to succeed")
	}
	if q.Position("patient-2") != 1 {
		t.Errorf("expected patient-2 at head, got %d", q.Position("patient-2"))
	}
	if q.Promote("ghost") {
		t.Error("promoting an absent patient must fail")
	}
}

func TestPushFront(t *testing.T) {
	q := New(nil)
	q.Enqueue(Entry{PatientID: "patient-2"})

	q.PushFront(Entry{PatientID: "patient-1"})
	if q.Position("patient-1") != 1 {
		t.Errorf("expected reinserted patient at head")
	}

	// Reinserting someone already queued is a no-op.
	q.PushFront(Entry{PatientID: "patient-2"})
	if q.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", q.Len())
	}
}

func TestRemoveAndPosition(t *testing.T) {
	q := New(nil)
	q.Enqueue(Entry{PatientID: "patient-1"})
	q.Enqueue(Entry{PatientID: "patient-2"})

	if !q.Remove("patient-1") {
		t.Fatal("expected removal to succeed")
	}
	if q.Remove("patient-1") {
		t.Error("second removal must fail")
	}
	if q.Position("patient-1") != 0 {
		t.Error("removed patient should have position 0")
	}
	if q.Position("patient-2") != 1 {
		t.Error("remaining patient should move up")
	}
}
