package repository

import (
	"flowsync/config"
	"flowsync/pkg/cache"
	"flowsync/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	ExecutionRepo   ExecutionRepository
	SchemaRepo      SchemaRepository
	AuditLogRepo    AuditLogRepository
	WorkflowAPIRepo WorkflowAPIRepository
	TableAPIRepo    TableAPIRepository
	UnitOfWork      UnitOfWork
}

func NewRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	return &Repository{
		ExecutionRepo:   NewExecutionRepository(db),
		SchemaRepo:      NewSchemaRepository(db),
		AuditLogRepo:    NewAuditLogRepository(db),
		WorkflowAPIRepo: NewWorkflowAPIRepository(cfg, log, inmemoryCache),
		TableAPIRepo:    NewTableAPIRepository(cfg, log),
		UnitOfWork:      NewUnitOfWork(db),
	}, nil
}
