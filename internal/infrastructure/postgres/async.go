package postgres

import (
	"context"

	"go.uber.org/zap"

	"github.com/kBRAINX/medicalclinisSma/internal/domain/patient"
	"github.com/kBRAINX/medicalclinisSma/pkg/workerpool"
)

// AsyncArchive wraps an Archive with a worker pool so the receptionist's
// event loop never waits on the database. Failed writes retry inside the
// pool; a consultation that still cannot be stored is logged and lost
// from the archive only, never from the in-memory record.
type AsyncArchive struct {
	pool   *workerpool.Pool
	logger *zap.Logger
}

// NewAsyncArchive starts the write pool. A small pool is plenty: archive
// traffic is one write per consultation.
func NewAsyncArchive(archive *Archive, workers int, logger *zap.Logger) (*AsyncArchive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = 4
	}

	cfg := workerpool.DefaultConfig()
	cfg.Workers = workers
	cfg.QueueSize = 1024

	pool, err := workerpool.New(cfg, func(ctx context.Context, task *workerpool.Task) *workerpool.Result {
		c, ok := task.Payload.(patient.Consultation)
		if !ok {
			return &workerpool.Result{TaskID: task.ID, Success: true}
		}
		if err := archive.SaveConsultation(ctx, c); err != nil {
			return &workerpool.Result{TaskID: task.ID, Success: false, Error: err}
		}
		return &workerpool.Result{TaskID: task.ID, Success: true}
	}, logger)
	if err != nil {
		return nil, err
	}
	pool.Start()
	return &AsyncArchive{pool: pool, logger: logger}, nil
}

// SaveConsultation queues the consultation for persistence.
func (a *AsyncArchive) SaveConsultation(ctx context.Context, c patient.Consultation) error {
	return a.pool.Submit(&workerpool.Task{ID: c.ID, Payload: c})
}

// Stop drains and stops the write pool.
func (a *AsyncArchive) Stop() error {
	return a.pool.Stop()
}

// Stats returns the write pool statistics.
func (a *AsyncArchive) Stats() workerpool.Stats {
	return a.pool.Stats()
}
