package service

import (
	"context"
	"fmt"
	"strconv"

	"flowsync/internal/dto"
	"flowsync/internal/model"
	"flowsync/internal/repository"
	"flowsync/pkg/logger"

	"gorm.io/datatypes"
)

// ExecutionService serves per-execution reads: the node timeline, retries
// against the remote engine, and order-number lookups from the local cache.
type ExecutionService interface {
	GetTimeline(ctx context.Context, executionID string) ([]dto.NodeRunSummary, error)
	Retry(ctx context.Context, executionID string, loadWorkflow bool) error
	FindByOrderNumber(ctx context.Context, orderNumber string) ([]model.Execution, error)
	ListActiveWorkflows(ctx context.Context) ([]dto.Workflow, error)
}

type executionService struct {
	log             *logger.Logger
	executionRepo   repository.ExecutionRepository
	workflowAPIRepo repository.WorkflowAPIRepository
	auditService    AuditService
}

func NewExecutionService(
	log *logger.Logger,
	executionRepo repository.ExecutionRepository,
	workflowAPIRepo repository.WorkflowAPIRepository,
	auditService AuditService,
) ExecutionService {
	return &executionService{
		log:             log,
		executionRepo:   executionRepo,
		workflowAPIRepo: workflowAPIRepo,
		auditService:    auditService,
	}
}

// GetTimeline fetches the execution document fresh and extracts the node
// timeline from it. Timelines are never cached.
func (s *executionService) GetTimeline(ctx context.Context, executionID string) ([]dto.NodeRunSummary, error) {
	exec, err := s.workflowAPIRepo.GetExecution(ctx, executionID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch execution %s: %w", executionID, err)
	}
	return BuildNodeTimeline(exec), nil
}

func (s *executionService) Retry(ctx context.Context, executionID string, loadWorkflow bool) error {
	if err := s.workflowAPIRepo.RetryExecution(ctx, executionID, loadWorkflow); err != nil {
		return err
	}

	s.auditService.Submit(model.AuditLog{
		Action: "execution_retry",
		Field:  executionID,
		After:  datatypes.JSON(strconv.Quote(strconv.FormatBool(loadWorkflow))),
	})
	return nil
}

func (s *executionService) FindByOrderNumber(ctx context.Context, orderNumber string) ([]model.Execution, error) {
	return s.executionRepo.FindByOrderNumber(ctx, orderNumber)
}

func (s *executionService) ListActiveWorkflows(ctx context.Context) ([]dto.Workflow, error) {
	return s.workflowAPIRepo.ListActiveWorkflows(ctx)
}
