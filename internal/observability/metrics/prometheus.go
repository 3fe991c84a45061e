// Package metrics provides Prometheus metrics for the intake engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	PatientsRegistered     prometheus.Counter
	PatientsDeparted       prometheus.Counter
	ConsultationsCompleted prometheus.Counter
	UrgentCases            prometheus.Counter
	ConsultationDuration   prometheus.Histogram
	WaitingPatients        prometheus.Gauge
	AvailableDoctors       prometheus.Gauge
	MessagesDelivered      prometheus.Counter
	MessagesDropped        prometheus.Counter
	CircuitBreakerState    *prometheus.GaugeVec
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		PatientsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clinic_patients_registered_total",
			Help: "Total patients registered at the front desk",
		}),
		PatientsDeparted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clinic_patients_departed_total",
			Help: "Total patients who left the clinic",
		}),
		ConsultationsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clinic_consultations_completed_total",
			Help: "Total completed consultations",
		}),
		UrgentCases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clinic_urgent_cases_total",
			Help: "Total cases flagged urgent at triage",
		}),
		ConsultationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clinic_consultation_duration_seconds",
			Help:    "Consultation duration from arrival to diagnosis",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		WaitingPatients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clinic_waiting_patients",
			Help: "Patients currently in the waiting queue",
		}),
		AvailableDoctors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clinic_available_doctors",
			Help: "Doctors currently available for assignment",
		}),
		MessagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clinic_messages_delivered_total",
			Help: "Total messages delivered on the bus",
		}),
		MessagesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clinic_messages_dropped_total",
			Help: "Total messages dropped for unknown receivers",
		}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"name"}),
	}

	prometheus.MustRegister(
		m.PatientsRegistered,
		m.PatientsDeparted,
		m.ConsultationsCompleted,
		m.UrgentCases,
		m.ConsultationDuration,
		m.WaitingPatients,
		m.AvailableDoctors,
		m.MessagesDelivered,
		m.MessagesDropped,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
