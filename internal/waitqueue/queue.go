// Package waitqueue implements the waiting room: an ordered queue of
// patients awaiting doctor assignment, with urgent cases jumping to the
// head. Each patient appears at most once.
package waitqueue

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is one waiting patient with the symptom snapshot taken at triage.
type Entry struct {
	PatientID  string            `json:"patient_id"`
	Symptoms   map[string]string `json:"symptoms"`
	Urgent     bool              `json:"urgent"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// Queue is the clinic's waiting room. All methods are safe for concurrent
// use; ordering among non-urgent patients is strictly first come first
// served.
type Queue struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries []Entry
}

// New creates an empty queue.
func New(logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{logger: logger}
}

// Enqueue adds a patient. Urgent entries go to the head, others to the
// tail. A patient already queued is never duplicated: an urgent re-enqueue
// promotes the existing entry instead. Returns the 1-based position.
func (q *Queue) Enqueue(e Entry) int {
	if e.EnqueuedAt.IsZero() {
		e.EnqueuedAt = time.Now().UTC()
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if idx := q.indexLocked(e.PatientID); idx >= 0 {
		if len(e.Symptoms) > 0 {
			q.entries[idx].Symptoms = e.Symptoms
		}
		if e.Urgent && !q.entries[idx].Urgent {
			q.entries[idx].Urgent = true
			q.moveToHeadLocked(idx)
			q.logger.Info("waiting patient promoted", zap.String("patient", e.PatientID))
			return 1
		}
		return idx + 1
	}

	if e.Urgent {
		q.entries = append([]Entry{e}, q.entries...)
		q.logger.Info("urgent patient queued at head", zap.String("patient", e.PatientID))
		return 1
	}
	q.entries = append(q.entries, e)
	return len(q.entries)
}

// DequeueNext removes and returns the head of the queue.
func (q *Queue) DequeueNext() (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	e := q.entries[0]
	q.entries = q.entries[1:]
	return e, true
}

// PushFront reinserts an entry at the head. Used when an assignment
// attempt fails after the entry was already dequeued, so the patient keeps
// their turn.
func (q *Queue) PushFront(e Entry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.indexLocked(e.PatientID) >= 0 {
		return
	}
	q.entries = append([]Entry{e}, q.entries...)
}

// Promote marks a queued patient urgent and moves them to the head.
// Returns false when the patient is not queued.
func (q *Queue) Promote(patientID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	idx := q.indexLocked(patientID)
	if idx < 0 {
		return false
	}
	q.entries[idx].Urgent = true
	q.moveToHeadLocked(idx)
	q.logger.Info("waiting patient promoted", zap.String("patient", patientID))
	return true
}

// Remove deletes a patient from the queue, wherever they are.
func (q *Queue) Remove(patientID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	idx := q.indexLocked(patientID)
	if idx < 0 {
		return false
	}
	q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	return true
}

// Position returns a patient's 1-based position, or 0 when absent.
func (q *Queue) Position(patientID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.indexLocked(patientID) + 1
}

// Len returns the number of waiting patients.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Snapshot returns a copy of the queue in order.
func (q *Queue) Snapshot() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *Queue) indexLocked(patientID string) int {
	for i, e := range q.entries {
		if e.PatientID == patientID {
			return i
		}
	}
	return -1
}

func (q *Queue) moveToHeadLocked(idx int) {
	if idx == 0 {
		return
	}
	e := q.entries[idx]
	q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	q.entries = append([]Entry{e}, q.entries...)
}
