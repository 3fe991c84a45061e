// Package main provides the clinic coordination service entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/actors"
	"github.com/kBRAINX/medicalclinisSma/internal/api/handlers"
	"github.com/kBRAINX/medicalclinisSma/internal/api/middleware"
	"github.com/kBRAINX/medicalclinisSma/internal/directory"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/clinic"
	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/internal/infrastructure/postgres"
	"github.com/kBRAINX/medicalclinisSma/internal/knowledge"
	"github.com/kBRAINX/medicalclinisSma/internal/messaging"
	"github.com/kBRAINX/medicalclinisSma/internal/messaging/kafka"
	"github.com/kBRAINX/medicalclinisSma/internal/observability/metrics"
	"github.com/kBRAINX/medicalclinisSma/internal/observability/tracing"
	"github.com/kBRAINX/medicalclinisSma/internal/status"
	"github.com/kBRAINX/medicalclinisSma/internal/waitqueue"
	"github.com/kBRAINX/medicalclinisSma/pkg/circuitbreaker"
)

// Config holds application configuration
type Config struct {
	Port           string
	DatabaseURL    string
	KafkaBrokers   []string
	OTLPEndpoint   string
	TracingEnabled bool
	DemoPatients   int
	ReceptionistID string
	NurseID        string
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing
	if cfg.TracingEnabled {
		tcfg := tracing.DefaultConfig("clinicd")
		tcfg.OTLPEndpoint = cfg.OTLPEndpoint
		provider, err := tracing.Init(ctx, tcfg)
		if err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, c := context.WithTimeout(context.Background(), 5*time.Second)
				defer c()
				provider.Shutdown(shutdownCtx)
			}()
		}
	}

	m := metrics.New()

	// Messaging substrate: broker-backed when brokers are configured,
	// in-memory otherwise.
	var net messaging.Network
	var bus *messaging.Bus
	var transport *kafka.Transport
	if len(cfg.KafkaBrokers) > 0 {
		kcfg := kafka.DefaultConfig()
		kcfg.Brokers = cfg.KafkaBrokers
		t, err := kafka.NewTransport(kcfg, logger)
		if err != nil {
			logger.Fatal("kafka transport failed", zap.Error(err))
		}
		transport = t
		net = t
		defer transport.Close()
		logger.Info("using kafka transport", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		bus = messaging.NewBus(logger)
		net = bus
		logger.Info("using in-memory bus")
	}

	// Core state
	dir := directory.New(logger)
	registry := patient.NewRegistry()
	queue := waitqueue.New(logger)
	roster := clinic.NewRoster()
	for _, p := range defaultDoctors() {
		roster.Register(p)
	}

	// Knowledge base behind a circuit breaker
	breaker, err := circuitbreaker.New(circuitbreaker.DefaultConfig("knowledge-base"), logger)
	if err != nil {
		logger.Fatal("circuit breaker init failed", zap.Error(err))
	}
	kb := knowledge.NewClient(knowledge.NewStore(), breaker, logger)

	// Optional consultation archive
	var archive actors.ConsultationArchive
	var asyncArchive *postgres.AsyncArchive
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connect failed", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("database ping failed", zap.Error(err))
		}
		pgArchive, err := postgres.NewArchive(ctx, pool, logger)
		if err != nil {
			logger.Fatal("archive init failed", zap.Error(err))
		}
		asyncArchive, err = postgres.NewAsyncArchive(pgArchive, 4, logger)
		if err != nil {
			logger.Fatal("archive pool init failed", zap.Error(err))
		}
		defer asyncArchive.Stop()
		archive = asyncArchive
		logger.Info("consultation archive enabled")
	}

	store := status.NewStore()
	hooks := newEngineHooks(store, m)

	// Staff actors
	receptionist := actors.NewReceptionist(actors.ReceptionistConfig{
		ID:        cfg.ReceptionistID,
		Network:   net,
		Directory: dir,
		Registry:  registry,
		Roster:    roster,
		Queue:     queue,
		Knowledge: kb,
		Hooks:     hooks,
		Archive:   archive,
		Logger:    logger,
	})
	receptionist.Start(ctx)
	defer receptionist.Stop()

	nurse := actors.NewNurse(actors.NurseConfig{
		ID:        cfg.NurseID,
		Network:   net,
		Directory: dir,
		Logger:    logger,
	})
	nurse.Start(ctx)
	defer nurse.Stop()

	var doctors []*actors.Doctor
	for _, p := range roster.Snapshot() {
		d := actors.NewDoctor(actors.DoctorConfig{
			Profile:   p,
			Network:   net,
			Directory: dir,
			Knowledge: kb,
			Logger:    logger,
		})
		d.Start(ctx)
		doctors = append(doctors, d)
	}
	defer func() {
		for _, d := range doctors {
			d.Stop()
		}
	}()

	// Optional in-process demo patients
	var patients []*actors.Patient
	for i := 1; i <= cfg.DemoPatients; i++ {
		p := actors.NewPatient(actors.PatientConfig{
			Profile:   demoProfile(i),
			Network:   net,
			Directory: dir,
			Logger:    logger,
		})
		p.Start(ctx)
		patients = append(patients, p)
	}
	defer func() {
		for _, p := range patients {
			p.Stop()
		}
	}()

	// Gauge refresh
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		var lastDelivered, lastDropped int64
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.WaitingPatients.Set(float64(queue.Len()))
				available := 0
				for _, d := range roster.Snapshot() {
					if d.Available {
						available++
					}
				}
				m.AvailableDoctors.Set(float64(available))
				m.CircuitBreakerState.WithLabelValues("knowledge-base").Set(breakerStateValue(breaker.GetState()))
				var delivered, dropped int64
				if bus != nil {
					s := bus.Stats()
					delivered, dropped = s.Delivered, s.Dropped
				} else if transport != nil {
					s := transport.Stats()
					delivered, dropped = s.Delivered, s.Dropped
				}
				m.MessagesDelivered.Add(float64(delivered - lastDelivered))
				m.MessagesDropped.Add(float64(dropped - lastDropped))
				lastDelivered, lastDropped = delivered, dropped
			}
		}
	}()

	// HTTP API
	clinicHandler := handlers.NewClinicHandler(registry, queue, roster, dir, store, logger)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Tracing("clinicd"))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/clinic", clinicHandler.Routes())
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")
		cancel()
		shutdownCtx, c := context.WithTimeout(context.Background(), 30*time.Second)
		defer c()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting clinic service", zap.String("port", cfg.Port))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func loadConfig() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	demo := 0
	if raw := os.Getenv("DEMO_PATIENTS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			demo = n
		}
	}

	receptionistID := os.Getenv("RECEPTIONIST_ID")
	if receptionistID == "" {
		receptionistID = "receptionist-1"
	}
	nurseID := os.Getenv("NURSE_ID")
	if nurseID == "" {
		nurseID = "nurse-1"
	}

	return Config{
		Port:           port,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		KafkaBrokers:   brokers,
		OTLPEndpoint:   envOr("OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: os.Getenv("TRACING_ENABLED") == "true",
		DemoPatients:   demo,
		ReceptionistID: receptionistID,
		NurseID:        nurseID,
	}
}

func breakerStateValue(s circuitbreaker.State) float64 {
	switch s {
	case circuitbreaker.StateOpen:
		return 1
	case circuitbreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDoctors() []clinic.DoctorProfile {
	return []clinic.DoctorProfile{
		{
			ID: "doctor-1", Name: "Martin", Specialty: knowledge.CategoryCardiology,
			Qualification: "MD, cardiologist", YearsExperience: 12,
			Expertise: []string{"angina", "arrhythmia", "hypertension"},
			Room:      "101", Available: true,
		},
		{
			ID: "doctor-2", Name: "Okafor", Specialty: knowledge.CategoryPulmonology,
			Qualification: "MD, pulmonologist", YearsExperience: 8,
			Expertise: []string{"asthma", "bronchitis"},
			Room:      "102", Available: true,
		},
		{
			ID: "doctor-3", Name: "Dupont", Specialty: knowledge.CategoryGastroenterology,
			Qualification: "MD, gastroenterologist", YearsExperience: 15,
			Expertise: []string{"gastritis", "reflux"},
			Room:      "103", Available: true,
		},
		{
			ID: "doctor-4", Name: "Sow", Specialty: knowledge.CategoryGeneral,
			Qualification: "MD, general practitioner", YearsExperience: 5,
			Expertise: []string{"influenza", "malaria", "infection"},
			Room:      "104", Available: true,
		},
	}
}

func demoProfile(i int) actors.PatientProfile {
	return actors.PatientProfile{
		ID: fmt.Sprintf("patient-%d", i),
		Personal: map[string]string{
			"firstName": fmt.Sprintf("Demo%d", i),
			"lastName":  "Patient",
			"birthDate": "1985-03-14",
			"address":   fmt.Sprintf("%d Clinic Street", i),
			"phone":     fmt.Sprintf("+23767000%04d", i),
		},
		Symptoms: map[string]string{
			"mainComplaint": "fever and fatigue for two days",
			"duration":      "2 days",
			"painLevel":     "4",
			"fever":         "yes, with chills and sweating",
			"chestPain":     "no",
			"breathing":     "no",
			"digestion":     "slight nausea",
		},
		FollowUp: map[string]string{
			"travel": "yes, rural area last month",
		},
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","service":"clinicd","version":"1.0.0"}`)
}
