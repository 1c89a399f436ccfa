package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyharbor/fleetops-api/internal/models"
)

type fakeAuditWriter struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (w *fakeAuditWriter) CreateAuditLog(_ context.Context, entry *models.AuditLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, *entry)
	return nil
}

func (w *fakeAuditWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

func TestAuditServiceRecordsAsynchronously(t *testing.T) {
	writer := &fakeAuditWriter{}
	svc := NewAuditService(writer, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	actor := "admin@skyharbor.io"
	role := models.RoleAdmin
	err := svc.Record(&models.AuditLog{
		ActorEmail: &actor,
		ActorRole:  &role,
		Action:     "CREATE",
		Resource:   "aircraft",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return writer.count() == 1
	}, time.Second, 5*time.Millisecond)

	writer.mu.Lock()
	defer writer.mu.Unlock()
	assert.Equal(t, "CREATE", writer.entries[0].Action)
	assert.Equal(t, "aircraft", writer.entries[0].Resource)
}

func TestAuditServiceRecordBeforeStart(t *testing.T) {
	svc := NewAuditService(&fakeAuditWriter{}, nil)

	err := svc.Record(&models.AuditLog{Action: "CREATE", Resource: "route"})
	assert.Error(t, err)
}
