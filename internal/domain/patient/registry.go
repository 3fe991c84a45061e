package patient

import (
	"sort"
	"sync"
)

// Registry is the clinic's record store. The receptionist owns all writes;
// the status API reads concurrent snapshots.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewRegistry creates an empty record store.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// GetOrCreate returns the record for a patient, creating it on first use.
func (g *Registry) GetOrCreate(patientID string) *Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.records[patientID]; ok {
		return r
	}
	r := NewRecord(patientID)
	g.records[patientID] = r
	return r
}

// Get returns the record for a patient, if any.
func (g *Registry) Get(patientID string) (*Record, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.records[patientID]
	return r, ok
}

// Update runs fn against the record under the write lock, creating the
// record on first use. Mutations must happen inside fn.
func (g *Registry) Update(patientID string, fn func(*Record)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.records[patientID]
	if !ok {
		r = NewRecord(patientID)
		g.records[patientID] = r
	}
	fn(r)
}

// Snapshot returns a deep copy of one record.
func (g *Registry) Snapshot(patientID string) (*Record, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.records[patientID]
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// SnapshotAll returns deep copies of every record, patient ID ascending.
func (g *Registry) SnapshotAll() []*Record {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Record, 0, len(g.records))
	for _, r := range g.records {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientID < out[j].PatientID })
	return out
}

// Len returns the number of records held.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.records)
}
