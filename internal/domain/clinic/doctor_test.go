package clinic

import "testing"

func testRoster() *Roster {
	r := NewRoster()
	r.Register(DoctorProfile{ID: "doctor-1", Name: "Martin", Specialty: "cardiology", YearsExperience: 12, Room: "101", Available: true})
	r.Register(DoctorProfile{ID: "doctor-2", Name: "Okafor", Specialty: "pulmonology", YearsExperience: 8, Room: "102", Available: true})
	r.Register(DoctorProfile{ID: "doctor-3", Name: "Dupont", Specialty: "gastroenterology", YearsExperience: 15, Room: "103", Available: true})
	return r
}

func TestReserveBestPicksHighestScore(t *testing.T) {
	r := testRoster()
	d, ok := r.ReserveBest(func(p DoctorProfile) float64 {
		if p.ID == "doctor-2" {
			return 90
		}
		return 10
	})
	if !ok || d.ID != "doctor-2" {
		t.Fatalf("expected doctor-2 reserved, got %v %v", d, ok)
	}

	got, _ := r.Get("doctor-2")
	if got.Available {
		t.Error("reserved doctor must be marked unavailable")
	}
}

func TestReserveBestTieBreaksLowestID(t *testing.T) {
	r := testRoster()
	d, ok := r.ReserveBest(func(DoctorProfile) float64 { return 42 })
	if !ok || d.ID != "doctor-1" {
		t.Errorf("equal scores must go to the lowest ID, got %v", d.ID)
	}
}

func TestReserveBestSkipsUnavailable(t *testing.T) {
	r := testRoster()
	r.SetAvailable("doctor-1", false)
	r.SetAvailable("doctor-2", false)

	d, ok := r.ReserveBest(func(DoctorProfile) float64 { return 1 })
	if !ok || d.ID != "doctor-3" {
		t.Errorf("expected the only available doctor, got %v %v", d, ok)
	}

	if _, ok := r.ReserveBest(func(DoctorProfile) float64 { return 1 }); ok {
		t.Error("expected no reservation with everyone busy")
	}
	if r.AnyAvailable() {
		t.Error("expected no available doctors")
	}
}

func TestRelease(t *testing.T) {
	r := testRoster()
	d, _ := r.ReserveBest(func(DoctorProfile) float64 { return 1 })
	r.Release(d.ID)

	got, _ := r.Get(d.ID)
	if !got.Available {
		t.Error("released doctor must be available again")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	r := NewRoster()
	r.Register(DoctorProfile{ID: "doctor-1", Expertise: []string{"angina"}, Available: true})

	snap := r.Snapshot()
	snap[0].Expertise[0] = "mutated"
	snap[0].Available = false

	got, _ := r.Get("doctor-1")
	if got.Expertise[0] != "angina" || !got.Available {
		t.Error("snapshot shares state with the roster")
	}
}
