package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aastu-sis/registration-api/internal/models"
)

type auditWriter interface {
	Insert(ctx context.Context, log *models.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// AuditService writes the append-only action trail. Record runs in a
// goroutine so a slow or failing audit insert never delays or fails the
// operation being audited; failures are logged and dropped.
type AuditService struct {
	repo    auditWriter
	logger  *zap.Logger
	timeout time.Duration
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo auditWriter, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger, timeout: 5 * time.Second}
}

// Record appends an audit entry asynchronously.
func (s *AuditService) Record(actorID string, role models.Role, action, details string) {
	if s == nil || s.repo == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:    actorID,
		Role:      string(role),
		Action:    action,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.repo.Insert(ctx, entry); err != nil {
			s.logger.Warn("audit record dropped",
				zap.String("action", action),
				zap.String("userId", actorID),
				zap.Error(err))
		}
	}()
}

// List returns recent audit entries for registrar review.
func (s *AuditService) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListRecent(ctx, limit)
}
