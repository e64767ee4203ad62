package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/models"
	"github.com/acharyahabba/vtufest-api/pkg/jobs"
)

// AsyncAuditWriter pushes audit records onto a background queue so review
// and approval requests never wait on the audit table. Records that exhaust
// their retries are logged and dropped; the audit trail is best effort.
type AsyncAuditWriter struct {
	sink  AuditWriter
	queue *jobs.Queue
}

// NewAsyncAuditWriter builds the writer and its queue. Call Start before
// serving and Stop on shutdown.
func NewAsyncAuditWriter(sink AuditWriter, logger *zap.Logger) *AsyncAuditWriter {
	w := &AsyncAuditWriter{sink: sink}
	w.queue = jobs.NewQueue("audit", w.process, jobs.QueueConfig{
		Workers:    2,
		BufferSize: 64,
		Logger:     logger,
	})
	return w
}

// Start launches the queue workers.
func (w *AsyncAuditWriter) Start(ctx context.Context) {
	w.queue.Start(ctx)
}

// Stop drains the workers.
func (w *AsyncAuditWriter) Stop() {
	w.queue.Stop()
}

// CreateAuditLog enqueues the record for background insertion.
func (w *AsyncAuditWriter) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	return w.queue.Enqueue(jobs.Task{ID: log.ID, Kind: log.Action, Payload: log})
}

func (w *AsyncAuditWriter) process(ctx context.Context, task jobs.Task) error {
	log, ok := task.Payload.(*models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected payload for task %s", task.ID)
	}
	return w.sink.CreateAuditLog(ctx, log)
}
