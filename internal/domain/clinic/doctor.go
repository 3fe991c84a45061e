// Package clinic holds the clinic-side domain model: doctor profiles and
// the availability roster used for assignment.
package clinic

import (
	"sort"
	"sync"
)

// DoctorProfile describes one doctor's capabilities and current state.
type DoctorProfile struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Specialty       string   `json:"specialty"`
	Qualification   string   `json:"qualification"`
	YearsExperience int      `json:"years_experience"`
	Expertise       []string `json:"expertise"`
	Room            string   `json:"room"`
	Available       bool     `json:"available"`
}

// Clone returns a copy with an independent expertise slice.
func (d DoctorProfile) Clone() DoctorProfile {
	out := d
	out.Expertise = append([]string(nil), d.Expertise...)
	return out
}

// Roster tracks every doctor and their availability. Reservation and the
// availability flip happen under one lock so two patients can never be
// assigned the same doctor.
type Roster struct {
	mu      sync.Mutex
	doctors map[string]*DoctorProfile
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{doctors: make(map[string]*DoctorProfile)}
}

// Register adds or replaces a doctor profile.
func (r *Roster) Register(p DoctorProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := p.Clone()
	r.doctors[p.ID] = &cp
}

// Get returns a copy of one doctor's profile.
func (r *Roster) Get(id string) (DoctorProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return DoctorProfile{}, false
	}
	return d.Clone(), true
}

// Snapshot returns copies of every profile, ID ascending.
func (r *Roster) Snapshot() []DoctorProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedLocked()
}

// AnyAvailable reports whether at least one doctor is free.
func (r *Roster) AnyAvailable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.Available {
			return true
		}
	}
	return false
}

// ReserveBest scores every available doctor, marks the highest scorer
// unavailable and returns their profile. Equal scores go to the lowest
// doctor ID. Returns false when nobody is available.
func (r *Roster) ReserveBest(score func(DoctorProfile) float64) (DoctorProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *DoctorProfile
	bestScore := 0.0
	for _, d := range r.sortedLocked() {
		if !d.Available {
			continue
		}
		s := score(d)
		if best == nil || s > bestScore {
			picked := r.doctors[d.ID]
			best = picked
			bestScore = s
		}
	}
	if best == nil {
		return DoctorProfile{}, false
	}
	best.Available = false
	return best.Clone(), true
}

// Release marks a doctor available again after a consultation ends.
func (r *Roster) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.doctors[id]; ok {
		d.Available = true
	}
}

// SetAvailable overrides a doctor's availability flag.
func (r *Roster) SetAvailable(id string, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.doctors[id]; ok {
		d.Available = available
	}
}

func (r *Roster) sortedLocked() []DoctorProfile {
	out := make([]DoctorProfile, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, d.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
