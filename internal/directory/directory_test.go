package directory

import "testing"

func TestRegisterAndFind(t *testing.T) {
	d := New(nil)
	d.Register("receptionist-1", RoleReceptionist)
	d.Register("doctor-1", RoleDoctor)
	d.Register("doctor-2", RoleDoctor)

	doctors := d.Find(RoleDoctor)
	if len(doctors) != 2 {
		t.Fatalf("expected 2 doctors, got %d", len(doctors))
	}
	if doctors[0].ID != "doctor-1" || doctors[1].ID != "doctor-2" {
		t.Errorf("expected registration order, got %v", doctors)
	}

	if got := d.Find(RoleNurse); len(got) != 0 {
		t.Errorf("expected no nurses, got %v", got)
	}
}

func TestFindFirst(t *testing.T) {
	d := New(nil)
	if _, ok := d.FindFirst(RoleReceptionist); ok {
		t.Error("expected no match on empty directory")
	}

	d.Register("receptionist-1", RoleReceptionist)
	d.Register("receptionist-2", RoleReceptionist)
	e, ok := d.FindFirst(RoleReceptionist)
	if !ok || e.ID != "receptionist-1" {
		t.Errorf("expected receptionist-1, got %v %v", e, ok)
	}
}

func TestReRegisterKeepsPosition(t *testing.T) {
	d := New(nil)
	d.Register("doctor-1", RoleDoctor)
	d.Register("doctor-2", RoleDoctor)
	d.Register("doctor-1", RoleDoctor, RoleNurse)

	entries := d.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "doctor-1" {
		t.Errorf("re-registering must keep original position, got %v", entries)
	}
	if len(entries[0].Roles) != 2 {
		t.Errorf("expected updated role set, got %v", entries[0].Roles)
	}
}

func TestDeregister(t *testing.T) {
	d := New(nil)
	d.Register("nurse-1", RoleNurse)
	d.Deregister("nurse-1")
	d.Deregister("ghost")

	if _, ok := d.FindFirst(RoleNurse); ok {
		t.Error("expected nurse removed")
	}
	if len(d.Snapshot()) != 0 {
		t.Error("expected empty directory")
	}
}
