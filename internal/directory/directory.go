// Package directory implements the clinic's capability directory: a
// registry mapping actor identities to the service roles they advertise.
package directory

import (
	"sync"

	"go.uber.org/zap"
)

// Role tags advertised by the clinic's actors.
const (
	RoleReceptionist = "receptionist"
	RoleNurse        = "nurse"
	RoleDoctor       = "doctor"
)

// Entry pairs an actor identity with its advertised role tags.
type Entry struct {
	ID    string
	Roles []string
}

func (e Entry) hasRole(role string) bool {
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Directory is a process-wide capability registry. Lookups return entries
// in registration order; no persistence across restarts.
type Directory struct {
	logger *zap.Logger

	mu      sync.RWMutex
	order   []string
	entries map[string]Entry
}

// New creates an empty directory.
func New(logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		logger:  logger,
		entries: make(map[string]Entry),
	}
}

// Register advertises roles for an identity. Re-registering replaces the
// prior role set and keeps the original registration position.
func (d *Directory) Register(id string, roles ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[id]; !ok {
		d.order = append(d.order, id)
	}
	d.entries[id] = Entry{ID: id, Roles: append([]string(nil), roles...)}
	d.logger.Info("actor registered", zap.String("actor", id), zap.Strings("roles", roles))
}

// Deregister removes an identity. Unknown identities are a no-op.
func (d *Directory) Deregister(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[id]; !ok {
		return
	}
	delete(d.entries, id)
	for i, other := range d.order {
		if other == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.logger.Info("actor deregistered", zap.String("actor", id))
}

// Find returns every entry advertising the role, in registration order.
// No match yields an empty slice, not an error.
func (d *Directory) Find(role string) []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var found []Entry
	for _, id := range d.order {
		if e := d.entries[id]; e.hasRole(role) {
			found = append(found, e)
		}
	}
	return found
}

// FindFirst returns the first entry advertising the role.
func (d *Directory) FindFirst(role string) (Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, id := range d.order {
		if e := d.entries[id]; e.hasRole(role) {
			return e, true
		}
	}
	return Entry{}, false
}

// Snapshot returns all entries in registration order.
func (d *Directory) Snapshot() []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Entry, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.entries[id])
	}
	return out
}
