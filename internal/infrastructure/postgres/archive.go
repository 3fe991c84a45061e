// Package postgres provides PostgreSQL infrastructure components.
// The archive keeps a durable copy of completed consultations; the live
// engine never reads it on the hot path.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS consultations (
	id            TEXT PRIMARY KEY,
	patient_id    TEXT NOT NULL,
	doctor_id     TEXT NOT NULL,
	condition_id  TEXT NOT NULL,
	condition     TEXT NOT NULL,
	match_percent INT NOT NULL,
	payload       JSONB NOT NULL,
	started_at    TIMESTAMPTZ NOT NULL,
	completed_at  TIMESTAMPTZ NOT NULL,
	archived_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_consultations_patient ON consultations (patient_id, completed_at DESC);
`

// Archive persists completed consultations to PostgreSQL.
type Archive struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

// NewArchive creates an archive and ensures its schema exists.
func NewArchive(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (*Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := pool.Exec(ctx, archiveSchema); err != nil {
		return nil, fmt.Errorf("ensure archive schema: %w", err)
	}
	return &Archive{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("consultation-archive"),
	}, nil
}

// SaveConsultation stores one consultation. Saving the same consultation
// twice is a no-op.
func (a *Archive) SaveConsultation(ctx context.Context, c patient.Consultation) error {
	ctx, span := a.tracer.Start(ctx, "archive_save_consultation",
		trace.WithAttributes(
			attribute.String("consultation_id", c.ID),
			attribute.String("patient_id", c.PatientID),
		))
	defer span.End()

	payload, err := json.Marshal(c)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("encode consultation %s: %w", c.ID, err)
	}

	query := `
		INSERT INTO consultations
			(id, patient_id, doctor_id, condition_id, condition, match_percent, payload, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := a.pool.Exec(ctx, query,
		c.ID, c.PatientID, c.DoctorID,
		c.Condition.ID, c.Condition.Name, c.MatchPercent,
		payload, c.StartedAt, c.CompletedAt,
	); err != nil {
		span.RecordError(err)
		return fmt.Errorf("archive consultation %s: %w", c.ID, err)
	}

	a.logger.Debug("consultation archived",
		zap.String("consultation", c.ID),
		zap.String("patient", c.PatientID))
	return nil
}

// ListByPatient returns a patient's archived consultations, newest first.
func (a *Archive) ListByPatient(ctx context.Context, patientID string, limit int) ([]patient.Consultation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT payload
		FROM consultations
		WHERE patient_id = $1
		ORDER BY completed_at DESC
		LIMIT $2
	`
	rows, err := a.pool.Query(ctx, query, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var out []patient.Consultation
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		var c patient.Consultation
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, fmt.Errorf("decode archived consultation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Stats summarizes archive contents.
type Stats struct {
	Total  int64
	Latest *time.Time
}

// GetStats returns archive statistics.
func (a *Archive) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	if err := a.pool.QueryRow(ctx, "SELECT COUNT(*) FROM consultations").Scan(&stats.Total); err != nil {
		return nil, err
	}
	a.pool.QueryRow(ctx, "SELECT MAX(completed_at) FROM consultations").Scan(&stats.Latest)
	return stats, nil
}
