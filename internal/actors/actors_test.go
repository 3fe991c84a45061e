package actors

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kBRAINX/medicalclinisSma/internal/directory"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/clinic"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/knowledge"
	"github.com/kBRAINX/medicalclinisSma/internal/messaging"
	"github.com/kBRAINX/medicalclinisSma/internal/waitqueue"
)

// recorder captures hook events for assertions.
type recorder struct {
	mu          sync.Mutex
	registered  []string
	assigned    map[string]string
	completed   []patient.Consultation
	departed    []string
	queueEvents int
}

func newRecorder() *recorder {
	return &recorder{assigned: make(map[string]string)}
}

func (r *recorder) PatientRegistered(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, id)
}

func (r *recorder) QueueChanged(entries []waitqueue.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queueEvents++
}

func (r *recorder) DoctorAssigned(patientID, doctorID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assigned[patientID] = doctorID
}

func (r *recorder) ConsultationCompleted(c patient.Consultation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, c)
}

func (r *recorder) PatientDeparted(id, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.departed = append(r.departed, id)
}

func (r *recorder) departedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.departed)
}

// clinicFixture wires a full clinic on the in-memory bus.
type clinicFixture struct {
	bus      *messaging.Bus
	dir      *directory.Directory
	registry *patient.Registry
	roster   *clinic.Roster
	queue    *waitqueue.Queue
	kb       *knowledge.Client
	hooks    *recorder

	receptionist *Receptionist
	nurse        *Nurse
	doctors      []*Doctor
}

func startClinic(t *testing.T, ctx context.Context, profiles []clinic.DoctorProfile) *clinicFixture {
	t.Helper()
	f := &clinicFixture{
		bus:      messaging.NewBus(nil),
		dir:      directory.New(nil),
		registry: patient.NewRegistry(),
		roster:   clinic.NewRoster(),
		queue:    waitqueue.New(nil),
		kb:       knowledge.NewClient(knowledge.NewStore(), nil, nil),
		hooks:    newRecorder(),
	}

	f.receptionist = NewReceptionist(ReceptionistConfig{
		ID:        "receptionist-1",
		Network:   f.bus,
		Directory: f.dir,
		Registry:  f.registry,
		Roster:    f.roster,
		Queue:     f.queue,
		Knowledge: f.kb,
		Hooks:     f.hooks,
	})
	f.receptionist.Start(ctx)
	t.Cleanup(f.receptionist.Stop)

	f.nurse = NewNurse(NurseConfig{
		ID:        "nurse-1",
		Network:   f.bus,
		Directory: f.dir,
	})
	f.nurse.Start(ctx)
	t.Cleanup(f.nurse.Stop)

	for _, p := range profiles {
		f.roster.Register(p)
		d := NewDoctor(DoctorConfig{
			Profile:   p,
			Network:   f.bus,
			Directory: f.dir,
			Knowledge: f.kb,
		})
		d.Start(ctx)
		t.Cleanup(d.Stop)
		f.doctors = append(f.doctors, d)
	}
	return f
}

func startPatient(ctx context.Context, f *clinicFixture, profile PatientProfile) *Patient {
	p := NewPatient(PatientConfig{
		Profile:         profile,
		Network:         f.bus,
		Directory:       f.dir,
		ConnectAttempts: 10,
		ConnectTimeout:  200 * time.Millisecond,
	})
	p.Start(ctx)
	return p
}

func waitDone(t *testing.T, p *Patient, timeout time.Duration) PatientOutcome {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(timeout):
		t.Fatal("patient visit did not finish in time")
	}
	return p.Outcome()
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func malariaProfile(id string) PatientProfile {
	return PatientProfile{
		ID: id,
		Personal: map[string]string{
			"firstName": "Amina",
			"lastName":  "Diallo",
			"birthDate": "1979-07-02",
			"address":   "12 Market Road",
			"phone":     "+237670001234",
			"weight":    "64",
		},
		Symptoms: map[string]string{
			"mainComplaint": "feeling very unwell",
			"duration":      "2 days",
			"painLevel":     "3",
			"fever":         "yes, high fever with chills and sweating",
			"chestPain":     "no",
			"breathing":     "no",
			"digestion":     "nausea",
		},
	}
}

func defaultDoctors() []clinic.DoctorProfile {
	return []clinic.DoctorProfile{
		{ID: "doctor-1", Name: "Martin", Specialty: knowledge.CategoryCardiology, YearsExperience: 12, Room: "101", Available: true},
		{ID: "doctor-2", Name: "Sow", Specialty: knowledge.CategoryGeneral, YearsExperience: 5, Room: "104", Available: true},
	}
}

func TestFullVisit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := startClinic(t, ctx, defaultDoctors())

	p := startPatient(ctx, f, malariaProfile("patient-1"))
	defer p.Stop()

	outcome := waitDone(t, p, 10*time.Second)
	if !outcome.Connected {
		t.Fatal("patient never connected")
	}
	if outcome.Consultation == nil {
		t.Fatalf("expected a consultation, reason: %q", outcome.Reason)
	}

	c := outcome.Consultation
	if c.Condition.ID != "INF001" {
		t.Errorf("expected malaria diagnosis, got %s (%s)", c.Condition.Name, c.Condition.ID)
	}
	if c.MatchPercent != 66 {
		t.Errorf("expected 66%% match, got %d", c.MatchPercent)
	}
	if len(c.Medications) == 0 {
		t.Error("expected a prescription")
	}
	if c.Guidelines == "" {
		t.Error("expected care guidelines")
	}
	if c.Symptoms["fever"] == "" {
		t.Errorf("expected the symptom snapshot on the consultation, got %v", c.Symptoms)
	}
	if c.Notes == "" {
		t.Error("expected diagnosis notes")
	}

	// The record keeps the consultation and the doctor is free again.
	waitFor(t, 5*time.Second, func() bool {
		rec, ok := f.registry.Snapshot("patient-1")
		return ok && len(rec.Consultations) == 1
	})
	waitFor(t, 5*time.Second, func() bool { return f.hooks.departedCount() == 1 })
	waitFor(t, 2*time.Second, func() bool { return f.roster.AnyAvailable() })

	f.hooks.mu.Lock()
	defer f.hooks.mu.Unlock()
	if len(f.hooks.registered) != 1 || f.hooks.registered[0] != "patient-1" {
		t.Errorf("expected registration event, got %v", f.hooks.registered)
	}
	if f.hooks.assigned["patient-1"] == "" {
		t.Error("expected assignment event")
	}
	if len(f.hooks.completed) != 1 {
		t.Errorf("expected completion event, got %d", len(f.hooks.completed))
	}
}

func TestIncompleteFormIsReprompted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := startClinic(t, ctx, defaultDoctors())

	profile := malariaProfile("patient-1")
	delete(profile.Personal, "phone")
	profile.Corrections = map[string]string{"phone": "+237690009999"}

	p := startPatient(ctx, f, profile)
	defer p.Stop()

	outcome := waitDone(t, p, 10*time.Second)
	if outcome.Consultation == nil {
		t.Fatalf("expected the visit to complete after the re-prompt, reason: %q", outcome.Reason)
	}

	rec, _ := f.registry.Snapshot("patient-1")
	if rec.Personal["phone"] != "+237690009999" {
		t.Errorf("expected corrected phone in the record, got %q", rec.Personal["phone"])
	}
}

func TestUrgentCardiacCase(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := startClinic(t, ctx, defaultDoctors())

	profile := malariaProfile("patient-1")
	profile.Symptoms = map[string]string{
		"mainComplaint": "tight chest",
		"duration":      "1 hour",
		"painLevel":     "8",
		"fever":         "no",
		"chestPain":     "yes, strong oppression and chest pain",
		"breathing":     "short of breath",
		"digestion":     "no",
	}
	profile.FollowUp = map[string]string{"exertion": "yes", "radiation": "to the left arm"}

	p := startPatient(ctx, f, profile)
	defer p.Stop()

	outcome := waitDone(t, p, 10*time.Second)
	if outcome.Consultation == nil {
		t.Fatalf("expected a consultation, reason: %q", outcome.Reason)
	}
	c := outcome.Consultation
	if c.Condition.ID != "CAR001" {
		t.Errorf("expected angina, got %s (%s)", c.Condition.Name, c.Condition.ID)
	}
	// The cardiologist outscores the generalist for a cardiac case.
	if c.DoctorID != "doctor-1" {
		t.Errorf("expected the cardiologist, got %s", c.DoctorID)
	}
}

func TestReceptionistRelaysSummon(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := startClinic(t, ctx, defaultDoctors())

	mbox := f.bus.Attach("patient-9")
	t.Cleanup(func() { f.bus.Detach("patient-9") })

	msg, err := messaging.NewMessage("doctor-1", "receptionist-1",
		messaging.PerformativeRequest, messaging.TagInvitePatient).
		WithContent("patient-9").
		WithPayload(SummonNotice{PatientID: "patient-9", DoctorID: "doctor-1", Room: "101"})
	if err != nil {
		t.Fatalf("build summon: %v", err)
	}
	if err := f.bus.Send(ctx, msg); err != nil {
		t.Fatalf("send summon: %v", err)
	}

	recvCtx, rcancel := context.WithTimeout(ctx, 2*time.Second)
	defer rcancel()
	relayed, err := mbox.Receive(recvCtx, messaging.Filter{Tag: messaging.TagInvitePatient})
	if err != nil {
		t.Fatalf("summon never reached the patient: %v", err)
	}
	if relayed.Sender != "receptionist-1" {
		t.Errorf("expected the receptionist to relay the summon, sender was %s", relayed.Sender)
	}
	var summon SummonNotice
	if err := relayed.DecodePayload(&summon); err != nil {
		t.Fatalf("decode relayed summon: %v", err)
	}
	if summon.DoctorID != "doctor-1" || summon.Room != "101" {
		t.Errorf("unexpected summon %+v", summon)
	}
}

func TestPatientWaitsWhenNoDoctorFree(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One doctor, initially busy.
	busy := []clinic.DoctorProfile{
		{ID: "doctor-1", Name: "Martin", Specialty: knowledge.CategoryGeneral, YearsExperience: 5, Room: "101", Available: false},
	}
	f := startClinic(t, ctx, busy)

	p := startPatient(ctx, f, malariaProfile("patient-1"))
	defer p.Stop()

	// Triage completes but the patient stays queued.
	waitFor(t, 5*time.Second, func() bool { return f.queue.Len() == 1 })
	select {
	case <-p.Done():
		t.Fatal("visit should not complete while every doctor is busy")
	case <-time.After(300 * time.Millisecond):
	}

	// The doctor finishes their previous consultation and reports in.
	err := f.bus.Send(ctx, messaging.NewMessage("doctor-1", "receptionist-1",
		messaging.PerformativeInform, messaging.TagDoctorStatus).
		WithContent(messaging.CommandConsultationCompleted))
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	outcome := waitDone(t, p, 10*time.Second)
	if outcome.Consultation == nil {
		t.Fatalf("expected the queue to drain once the doctor freed up, reason: %q", outcome.Reason)
	}
	if outcome.LastPosition != 1 {
		t.Errorf("expected waiting position 1, got %d", outcome.LastPosition)
	}
}
