package service

import (
	"context"
	"time"

	"flowsync/internal/model"
	"flowsync/internal/repository"
	"flowsync/pkg/logger"
	"flowsync/pkg/utils"
)

// AuditService appends audit entries best-effort: Submit returns
// immediately and a failed append is only logged.
type AuditService interface {
	Submit(entry model.AuditLog)
}

type auditService struct {
	log          *logger.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditService(log *logger.Logger, auditLogRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (s *auditService) Submit(entry model.AuditLog) {
	utils.GoSafe(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.auditLogRepo.Create(ctx, &entry); err != nil {
			s.log.Error("Failed to append audit log",
				logger.StringField("action", entry.Action),
				logger.ErrorField(err))
		}
	})
}
