package service

import (
	"flowsync/config"
	"flowsync/internal/repository"
	"flowsync/pkg/logger"
	"flowsync/pkg/syncstate"
)

type Service struct {
	ExecutionSyncService ExecutionSyncService
	TableSyncService     TableSyncService
	RecordSearchService  RecordSearchService
	ExecutionService     ExecutionService
	AuditService         AuditService
}

func NewService(cfg *config.Config, log *logger.Logger, repo *repository.Repository) *Service {
	guard := syncstate.NewGuard(cfg.Sync.CooldownDuration)

	auditService := NewAuditService(log, repo.AuditLogRepo)

	return &Service{
		ExecutionSyncService: NewExecutionSyncService(cfg, log, guard, repo.ExecutionRepo, repo.WorkflowAPIRepo),
		TableSyncService:     NewTableSyncService(cfg, log, repo.SchemaRepo, repo.TableAPIRepo, repo.UnitOfWork),
		RecordSearchService:  NewRecordSearchService(cfg, log, repo.SchemaRepo, repo.TableAPIRepo, auditService),
		ExecutionService:     NewExecutionService(log, repo.ExecutionRepo, repo.WorkflowAPIRepo, auditService),
		AuditService:         auditService,
	}
}
