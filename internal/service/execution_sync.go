package service

import (
	"context"
	"fmt"
	"time"

	"flowsync/config"
	"flowsync/internal/dto"
	"flowsync/internal/model"
	"flowsync/internal/repository"
	"flowsync/pkg/logger"
	"flowsync/pkg/syncstate"
)

// ExecutionSyncService keeps the local execution cache consistent with the
// remote execution log. Sync is idempotent and safe to call concurrently:
// at most one pass runs at a time and at most one per cooldown window.
type ExecutionSyncService interface {
	Sync(ctx context.Context)
}

type executionSyncService struct {
	cfg             *config.Config
	log             *logger.Logger
	guard           *syncstate.Guard
	executionRepo   repository.ExecutionRepository
	workflowAPIRepo repository.WorkflowAPIRepository
	now             func() time.Time
}

func NewExecutionSyncService(
	cfg *config.Config,
	log *logger.Logger,
	guard *syncstate.Guard,
	executionRepo repository.ExecutionRepository,
	workflowAPIRepo repository.WorkflowAPIRepository,
) ExecutionSyncService {
	return &executionSyncService{
		cfg:             cfg,
		log:             log,
		guard:           guard,
		executionRepo:   executionRepo,
		workflowAPIRepo: workflowAPIRepo,
		now:             time.Now,
	}
}

func (s *executionSyncService) Sync(ctx context.Context) {
	if !s.guard.TryAcquire() {
		s.log.DebugContext(ctx, "Execution sync already in progress, skipping")
		return
	}
	defer s.guard.Release()

	if s.guard.IsCooldownActive(s.now()) {
		s.log.DebugContext(ctx, "Execution sync cooldown active, skipping")
		return
	}

	count, err := s.executionRepo.Count(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to count cached executions", logger.ErrorField(err))
		return
	}

	if count == 0 {
		err = s.fullBackfill(ctx)
	} else {
		err = s.incrementalSync(ctx)
	}
	if err != nil {
		// Rows already upserted stay; the next call retries from the top.
		s.log.ErrorContext(ctx, "Execution sync pass failed", logger.ErrorField(err))
		return
	}

	s.guard.MarkCompleted(s.now())
}

// fullBackfill pages through the entire remote history, most recent first,
// and upserts every item.
func (s *executionSyncService) fullBackfill(ctx context.Context) error {
	s.log.InfoContext(ctx, "Execution cache is empty, starting full backfill")

	cursor := ""
	total := 0
	for {
		page, err := s.fetchPage(ctx, cursor)
		if err != nil {
			return err
		}
		if len(page.Data) == 0 {
			break
		}

		if err := s.upsertExecutions(ctx, page.Data); err != nil {
			return err
		}
		total += len(page.Data)

		if page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = *page.NextCursor
	}

	s.log.InfoContext(ctx, "Full execution backfill completed", logger.IntField("executions", total))
	return nil
}

// incrementalSync walks pages from the most recent execution and stops at
// the first page with no new or changed items. This relies on the remote
// returning executions in reverse-chronological order: a clean page implies
// all older data is already consistent.
func (s *executionSyncService) incrementalSync(ctx context.Context) error {
	cursor := ""
	total := 0
	for {
		page, err := s.fetchPage(ctx, cursor)
		if err != nil {
			return err
		}
		if len(page.Data) == 0 {
			break
		}

		toSync, err := s.classifyPage(ctx, page.Data)
		if err != nil {
			return err
		}
		if len(toSync) == 0 {
			s.log.DebugContext(ctx, "Execution cache caught up, stopping pagination")
			break
		}

		if err := s.upsertExecutions(ctx, toSync); err != nil {
			return err
		}
		total += len(toSync)

		if page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = *page.NextCursor
	}

	if total > 0 {
		s.log.InfoContext(ctx, "Incremental execution sync completed", logger.IntField("executions", total))
	}
	return nil
}

func (s *executionSyncService) fetchPage(ctx context.Context, cursor string) (*dto.ExecutionListResponse, error) {
	page, err := s.workflowAPIRepo.ListExecutions(ctx, dto.ListExecutionsParam{
		Limit:       s.cfg.ExecutionAPI.PageSize,
		Cursor:      cursor,
		IncludeData: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch execution page: %w", err)
	}
	return page, nil
}

// classifyPage returns the items that are missing from the cache or whose
// status changed since they were cached.
func (s *executionSyncService) classifyPage(ctx context.Context, items []dto.Execution) ([]dto.Execution, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	existing, err := s.executionRepo.FindByExecutionIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached executions: %w", err)
	}

	cachedStatus := make(map[string]model.ExecutionStatus, len(existing))
	for _, row := range existing {
		cachedStatus[row.ExecutionID] = row.Status
	}

	var toSync []dto.Execution
	for _, item := range items {
		status, cached := cachedStatus[item.ID]
		if !cached || status != model.ExecutionStatus(item.Status) {
			toSync = append(toSync, item)
		}
	}
	return toSync, nil
}

// upsertExecutions maps the already-fetched page payloads to cache rows.
// The order number is derived from the embedded result data, never from an
// extra remote call.
func (s *executionSyncService) upsertExecutions(ctx context.Context, items []dto.Execution) error {
	rows := make([]model.Execution, 0, len(items))
	for i := range items {
		item := &items[i]
		rows = append(rows, model.Execution{
			ExecutionID: item.ID,
			OrderNumber: ExtractCustomValue(item, s.cfg.Sync.OrderNumberKey),
			WorkflowID:  item.WorkflowID,
			Status:      model.ExecutionStatus(item.Status),
			Mode:        item.Mode,
			StartedAt:   item.StartedAt,
			StoppedAt:   item.StoppedAt,
		})
	}

	if err := s.executionRepo.Upsert(ctx, rows); err != nil {
		return fmt.Errorf("failed to upsert executions: %w", err)
	}
	return nil
}
