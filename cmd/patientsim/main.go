// Package main provides a standalone patient simulator. It connects to a
// running clinic over the Kafka transport and walks one scripted patient
// through the whole intake flow.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/actors"
	"github.com/kBRAINX/medicalclinisSma/internal/directory"
	"github.com/kBRAINX/medicalclinisSma/internal/messaging/kafka"
)

// Config holds simulator configuration
type Config struct {
	KafkaBrokers   []string
	ReceptionistID string
	PatientID      string
	ProfilePath    string
	VisitTimeout   time.Duration
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := kafka.HealthCheck(ctx, cfg.KafkaBrokers); err != nil {
		logger.Fatal("broker unreachable", zap.Error(err))
	}

	kcfg := kafka.DefaultConfig()
	kcfg.Brokers = cfg.KafkaBrokers
	transport, err := kafka.NewTransport(kcfg, logger)
	if err != nil {
		logger.Fatal("kafka transport failed", zap.Error(err))
	}
	defer transport.Close()

	// The directory is process-local; the receptionist's identity on the
	// shared broker comes from configuration.
	dir := directory.New(logger)
	dir.Register(cfg.ReceptionistID, directory.RoleReceptionist)

	profile := loadProfile(cfg, logger)
	p := actors.NewPatient(actors.PatientConfig{
		Profile:   profile,
		Network:   transport,
		Directory: dir,
		Logger:    logger,
	})
	p.Start(ctx)
	defer p.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-p.Done():
	case <-sigChan:
		logger.Info("interrupted")
		cancel()
		<-p.Done()
	case <-time.After(cfg.VisitTimeout):
		logger.Warn("visit timed out", zap.Duration("timeout", cfg.VisitTimeout))
		cancel()
		<-p.Done()
	}

	outcome := p.Outcome()
	if outcome.Consultation != nil {
		logger.Info("visit completed",
			zap.String("patient", profile.ID),
			zap.String("condition", outcome.Consultation.Condition.Name),
			zap.Int("match_percent", outcome.Consultation.MatchPercent),
			zap.Int("medications", len(outcome.Consultation.Medications)))
		return
	}
	logger.Warn("visit did not complete",
		zap.Bool("connected", outcome.Connected),
		zap.String("reason", outcome.Reason))
	os.Exit(1)
}

func loadConfig() Config {
	brokers := []string{"localhost:9092"}
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	receptionistID := os.Getenv("RECEPTIONIST_ID")
	if receptionistID == "" {
		receptionistID = "receptionist-1"
	}

	patientID := os.Getenv("PATIENT_ID")
	if patientID == "" {
		patientID = "patient-" + uuid.New().String()[:8]
	}

	timeout := 2 * time.Minute
	if raw := os.Getenv("VISIT_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	return Config{
		KafkaBrokers:   brokers,
		ReceptionistID: receptionistID,
		PatientID:      patientID,
		ProfilePath:    os.Getenv("PATIENT_PROFILE"),
		VisitTimeout:   timeout,
	}
}

// loadProfile reads a scripted profile from PATIENT_PROFILE, falling back
// to a built-in one.
func loadProfile(cfg Config, logger *zap.Logger) actors.PatientProfile {
	profile := actors.PatientProfile{
		ID: cfg.PatientID,
		Personal: map[string]string{
			"firstName": "Amina",
			"lastName":  "Diallo",
			"birthDate": "1979-07-02",
			"address":   "12 Market Road",
			"phone":     "+237670001234",
			"sex":       "female",
			"weight":    "64",
		},
		Symptoms: map[string]string{
			"mainComplaint": "tight chest when climbing stairs",
			"duration":      "3 days",
			"painLevel":     "6",
			"fever":         "no",
			"chestPain":     "yes, oppression when walking",
			"breathing":     "slightly short of breath on effort",
			"digestion":     "no",
		},
		FollowUp: map[string]string{
			"exertion":  "yes, worse on effort",
			"radiation": "sometimes towards the left arm",
		},
	}

	if cfg.ProfilePath == "" {
		return profile
	}
	data, err := os.ReadFile(cfg.ProfilePath)
	if err != nil {
		logger.Warn("profile file unreadable, using built-in profile", zap.Error(err))
		return profile
	}
	var loaded actors.PatientProfile
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warn("profile file invalid, using built-in profile", zap.Error(err))
		return profile
	}
	if loaded.ID == "" {
		loaded.ID = cfg.PatientID
	}
	return loaded
}
