package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acharyahabba/vtufest-api/internal/models"
)

type blockingAudit struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	done    chan struct{}
	want    int
}

func (b *blockingAudit) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, log)
	if len(b.entries) == b.want {
		close(b.done)
	}
	return nil
}

func TestAsyncAuditWriterDeliversRecords(t *testing.T) {
	sink := &blockingAudit{done: make(chan struct{}), want: 3}
	writer := NewAsyncAuditWriter(sink, zap.NewNop())
	writer.Start(context.Background())
	defer writer.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, writer.CreateAuditLog(context.Background(), &models.AuditLog{Action: models.AuditActionApprove}))
	}

	select {
	case <-sink.done:
	case <-time.After(2 * time.Second):
		t.Fatal("audit records were not delivered")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.entries, 3)
	for _, entry := range sink.entries {
		require.NotEmpty(t, entry.ID)
	}
}

func TestAsyncAuditWriterRejectsWhenStopped(t *testing.T) {
	writer := NewAsyncAuditWriter(&blockingAudit{done: make(chan struct{}), want: 1}, zap.NewNop())

	err := writer.CreateAuditLog(context.Background(), &models.AuditLog{Action: models.AuditActionLogin})
	require.Error(t, err)
}
