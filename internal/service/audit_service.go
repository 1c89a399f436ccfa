package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skyharbor/fleetops-api/internal/models"
	"github.com/skyharbor/fleetops-api/pkg/jobs"
)

type auditLogWriter interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

const auditTaskType = "audit_log"

// AuditService persists audit entries off the request path through a small
// worker queue. Entries still queued at shutdown are dropped.
type AuditService struct {
	repo   auditLogWriter
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService constructs an AuditService. Start must be called before
// entries are recorded.
func NewAuditService(repo auditLogWriter, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AuditService{repo: repo, logger: logger}
	svc.queue = jobs.NewQueue("audit", svc.handle, jobs.QueueConfig{
		Workers: 1,
		Logger:  logger,
	})
	return svc
}

// Start spins up the queue workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues an audit entry for asynchronous persistence.
func (s *AuditService) Record(entry *models.AuditLog) error {
	return s.queue.Enqueue(jobs.Task{
		ID:      uuid.NewString(),
		Type:    auditTaskType,
		Payload: entry,
	})
}

func (s *AuditService) handle(ctx context.Context, task jobs.Task) error {
	entry, ok := task.Payload.(*models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", task.Payload)
	}
	return s.repo.CreateAuditLog(ctx, entry)
}
