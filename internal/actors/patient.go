package actors

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/directory"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/messaging"
)

// PatientProfile scripts how a simulated patient answers the clinic.
// Corrections hold answers the patient only produces when asked again,
// which exercises the incomplete-form re-prompt path.
type PatientProfile struct {
	ID          string            `json:"id"`
	Personal    map[string]string `json:"personal"`
	Corrections map[string]string `json:"corrections,omitempty"`
	Symptoms    map[string]string `json:"symptoms"`
	FollowUp    map[string]string `json:"follow_up,omitempty"`
}

// PatientConfig wires a scripted patient into the clinic.
type PatientConfig struct {
	Profile          PatientProfile
	Network          messaging.Network
	Directory        *directory.Directory
	ConnectAttempts  int
	ConnectTimeout   time.Duration
	AskPositionAfter time.Duration
	Logger           *zap.Logger
}

// PatientOutcome is the final state of a patient's visit.
type PatientOutcome struct {
	Connected    bool
	Reason       string
	Consultation *patient.Consultation
	LastPosition int
}

// Patient walks through the whole intake flow: connect, register, triage,
// wait, consultation, exit. Connecting retries a bounded number of times
// before giving up.
type Patient struct {
	base
	profile PatientProfile
	dir     *directory.Directory

	connectAttempts  int
	connectTimeout   time.Duration
	askPositionAfter time.Duration

	mu      sync.Mutex
	outcome PatientOutcome
}

// NewPatient creates a scripted patient actor.
func NewPatient(cfg PatientConfig) *Patient {
	if cfg.ConnectAttempts <= 0 {
		cfg.ConnectAttempts = 3
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 2 * time.Second
	}
	if cfg.AskPositionAfter <= 0 {
		cfg.AskPositionAfter = 15 * time.Second
	}
	return &Patient{
		base:             newBase(cfg.Profile.ID, cfg.Network, cfg.Logger),
		profile:          cfg.Profile,
		dir:              cfg.Directory,
		connectAttempts:  cfg.ConnectAttempts,
		connectTimeout:   cfg.ConnectTimeout,
		askPositionAfter: cfg.AskPositionAfter,
	}
}

// Start begins the patient's visit.
func (p *Patient) Start(ctx context.Context) {
	p.start(ctx, p.run)
}

// Done closes once the visit ends, for any reason.
func (p *Patient) Done() <-chan struct{} { return p.done }

// Outcome returns the visit state so far. Stable once Done is closed.
func (p *Patient) Outcome() PatientOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.outcome
	if p.outcome.Consultation != nil {
		c := *p.outcome.Consultation
		out.Consultation = &c
	}
	return out
}

func (p *Patient) run(ctx context.Context) {
	receptionist, ok := p.connect(ctx)
	if !ok {
		p.mu.Lock()
		p.outcome.Reason = "could not reach the clinic"
		p.mu.Unlock()
		p.logger.Error("giving up after failed connection attempts",
			zap.Int("attempts", p.connectAttempts))
		return
	}
	p.mu.Lock()
	p.outcome.Connected = true
	p.mu.Unlock()

	personal := copyAnswers(p.profile.Personal)
	symptoms := copyAnswers(p.profile.Symptoms)
	formAsks := 0
	symptomAsks := 0
	waiting := false
	askedPosition := false

	for {
		recvCtx := ctx
		cancel := context.CancelFunc(func() {})
		if waiting && !askedPosition {
			recvCtx, cancel = context.WithTimeout(ctx, p.askPositionAfter)
		}
		m, err := p.mbox.Receive(recvCtx, messaging.Filter{})
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				askedPosition = true
				p.sendPayload(ctx, receptionist, messaging.PerformativeRequest,
					messaging.TagWaitingInfo, "", nil)
				continue
			}
			return
		}

		switch m.Tag {
		case messaging.TagWelcome, messaging.TagReceptionFeedback,
			messaging.TagNurseFeedback, messaging.TagDoctorGreeting:
			p.logger.Debug("notice received",
				zap.String("tag", string(m.Tag)), zap.String("content", m.Content))

		case messaging.TagPersonalForm:
			formAsks++
			if formAsks > 1 {
				// Re-prompt: produce the details held back the first time.
				mergeAnswers(personal, p.profile.Corrections)
			}
			p.sendPayload(ctx, m.Sender, messaging.PerformativeInform,
				messaging.TagPersonalInfo, "", personal)

		case messaging.TagMoveRequest:
			if m.Content == messaging.CommandMoveToWaitingRoom {
				p.sendPayload(ctx, receptionist, messaging.PerformativeInform,
					messaging.TagPatientLocation, messaging.CommandPatientInWaitingRoom, nil)
			}

		case messaging.TagNurseQuestions:
			symptomAsks++
			if symptomAsks > 1 {
				mergeAnswers(symptoms, p.profile.Corrections)
			}
			p.sendPayload(ctx, m.Sender, messaging.PerformativeInform,
				messaging.TagSymptomAnswers, "", symptoms)
			waiting = true

		case messaging.TagWaitingPosition:
			p.mu.Lock()
			p.outcome.LastPosition = parsePosition(m.Content)
			p.mu.Unlock()
			p.logger.Info("waiting position", zap.String("position", m.Content))

		case messaging.TagDoctorAssignment:
			waiting = false

		case messaging.TagInvitePatient:
			// The summon is relayed by the receptionist; arrival goes to
			// the doctor named in it.
			target := m.Sender
			var summon SummonNotice
			if err := m.DecodePayload(&summon); err == nil && summon.DoctorID != "" {
				target = summon.DoctorID
			}
			p.sendPayload(ctx, target, messaging.PerformativeInform,
				messaging.TagPatientLocation, messaging.CommandPatientArrived, nil)

		case messaging.TagDoctorQuestions:
			answers := p.profile.FollowUp
			if answers == nil {
				answers = map[string]string{}
			}
			p.sendPayload(ctx, m.Sender, messaging.PerformativeInform,
				messaging.TagDoctorConsultation, "", answers)

		case messaging.TagDiagnosis:
			var c patient.Consultation
			if err := m.DecodePayload(&c); err != nil {
				p.logger.Warn("unreadable diagnosis", zap.Error(err))
			} else {
				p.mu.Lock()
				p.outcome.Consultation = &c
				p.outcome.Reason = "consultation completed"
				p.mu.Unlock()
			}
			p.sendPayload(ctx, receptionist, messaging.PerformativeInform,
				messaging.TagPatientLocation, messaging.CommandPatientExit, nil)
			return

		default:
			p.dropUnknown(m)
		}
	}
}

// connect finds the receptionist and announces the patient, retrying a
// bounded number of times before reporting failure.
func (p *Patient) connect(ctx context.Context) (string, bool) {
	for attempt := 1; attempt <= p.connectAttempts; attempt++ {
		receptionist, ok := p.dir.FindFirst(directory.RoleReceptionist)
		if !ok {
			p.logger.Warn("no receptionist listed yet", zap.Int("attempt", attempt))
			if !sleepCtx(ctx, p.connectTimeout) {
				return "", false
			}
			continue
		}

		p.sendPayload(ctx, receptionist.ID, messaging.PerformativeInform,
			messaging.TagPatientConnected, messaging.CommandPatientConnected, nil)

		waitCtx, cancel := context.WithTimeout(ctx, p.connectTimeout)
		m, err := p.mbox.Receive(waitCtx, messaging.Filter{Tag: messaging.TagWelcome})
		cancel()
		if err == nil {
			p.logger.Info("connected to the clinic", zap.String("receptionist", m.Sender))
			return m.Sender, true
		}
		if ctx.Err() != nil {
			return "", false
		}
		p.logger.Warn("no welcome received", zap.Int("attempt", attempt))
	}
	return "", false
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func copyAnswers(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func mergeAnswers(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func parsePosition(s string) int {
	pos := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return pos
		}
		pos = pos*10 + int(r-'0')
	}
	return pos
}
