package patient

import "testing"

func TestRegistryGetOrCreate(t *testing.T) {
	reg := NewRegistry()
	a := reg.GetOrCreate("patient-1")
	b := reg.GetOrCreate("patient-1")
	if a != b {
		t.Error("expected the same record for repeated GetOrCreate")
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 record, got %d", reg.Len())
	}
}

func TestRegistryUpdateCreatesRecord(t *testing.T) {
	reg := NewRegistry()
	reg.Update("patient-1", func(r *Record) {
		r.MergePersonal(map[string]string{"firstName": "Amina"})
	})

	r, ok := reg.Get("patient-1")
	if !ok || r.Personal["firstName"] != "Amina" {
		t.Errorf("expected updated record, got %v %v", r, ok)
	}
}

func TestRegistrySnapshotIsDeepCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Update("patient-1", func(r *Record) {
		r.MergeSymptoms(map[string]string{"fever": "yes"})
	})

	snap, ok := reg.Snapshot("patient-1")
	if !ok {
		t.Fatal("expected snapshot")
	}
	snap.Symptoms["fever"] = "mutated"

	live, _ := reg.Get("patient-1")
	if live.Symptoms["fever"] != "yes" {
		t.Error("snapshot shares state with the live record")
	}

	if _, ok := reg.Snapshot("ghost"); ok {
		t.Error("expected miss for unknown patient")
	}
}

func TestRegistrySnapshotAllSorted(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"patient-3", "patient-1", "patient-2"} {
		reg.GetOrCreate(id)
	}
	all := reg.SnapshotAll()
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	for i, want := range []string{"patient-1", "patient-2", "patient-3"} {
		if all[i].PatientID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, all[i].PatientID)
		}
	}
}
