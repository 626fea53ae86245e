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
	"flowsync/pkg/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// TableSyncService replaces the local table/field cache with a fresh copy
// of the remote schema. The replace is all-or-nothing: a failed pass leaves
// the previous cache intact. Concurrent calls are not mutually excluded;
// the caller controls trigger frequency.
type TableSyncService interface {
	Sync(ctx context.Context) (int, error)
}

type tableSyncService struct {
	cfg          *config.Config
	log          *logger.Logger
	schemaRepo   repository.SchemaRepository
	tableAPIRepo repository.TableAPIRepository
	uow          repository.UnitOfWork
	now          func() time.Time
}

func NewTableSyncService(
	cfg *config.Config,
	log *logger.Logger,
	schemaRepo repository.SchemaRepository,
	tableAPIRepo repository.TableAPIRepository,
	uow repository.UnitOfWork,
) TableSyncService {
	return &tableSyncService{
		cfg:          cfg,
		log:          log,
		schemaRepo:   schemaRepo,
		tableAPIRepo: tableAPIRepo,
		uow:          uow,
	}
}

func (s *tableSyncService) Sync(ctx context.Context) (int, error) {
	tables, err := s.tableAPIRepo.ListTables(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote tables: %w", err)
	}

	// Detail fetches run concurrently; any failure aborts the pass before
	// a single row is written. A nil detail (unknown table) is filtered
	// without aborting.
	details := make([]*dto.Table, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	for i, table := range tables {
		i, table := i, table
		g.Go(func() error {
			detail, err := s.tableAPIRepo.GetTable(gctx, table.ID)
			if err != nil {
				return err
			}
			details[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to fetch table details: %w", err)
	}

	syncedAt := s.currentTime()
	rows := make([]model.TableSchema, 0, len(details))
	for _, detail := range details {
		if detail == nil {
			continue
		}
		rows = append(rows, buildTableSchema(detail, syncedAt))
	}

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		if err := s.schemaRepo.DeleteAllFields(ctx, opts...); err != nil {
			return err
		}
		if err := s.schemaRepo.DeleteAllTables(ctx, opts...); err != nil {
			return err
		}
		return s.schemaRepo.CreateTables(ctx, rows, opts...)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace table cache: %w", err)
	}

	s.log.InfoContext(ctx, "Table schema sync completed", logger.IntField("tables", len(rows)))
	return len(rows), nil
}

func (s *tableSyncService) currentTime() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func buildTableSchema(detail *dto.Table, syncedAt time.Time) model.TableSchema {
	table := model.TableSchema{
		ID:             detail.ID,
		Name:           detail.Name,
		Description:    detail.Description,
		PrimaryFieldID: detail.PrimaryFieldID,
		DefaultViewID:  detail.DefaultViewID,
		SyncedAt:       syncedAt,
		Fields:         make([]model.FieldSchema, 0, len(detail.Fields)),
	}

	for _, field := range detail.Fields {
		row := model.FieldSchema{
			ID:                   field.ID,
			TableID:              detail.ID,
			Name:                 field.Name,
			Type:                 model.FieldType(field.Type),
			Required:             field.Required,
			Readonly:             field.Readonly,
			Locked:               field.Locked,
			AllowMultipleEntries: field.AllowMultipleEntries,
			FieldCreatedAt:       parseRemoteTime(field.CreatedAt),
			FieldUpdatedAt:       parseRemoteTime(field.UpdatedAt),
		}
		if len(field.DefaultValue) > 0 {
			row.DefaultValue = utils.ToPointer(string(field.DefaultValue))
		}
		if len(field.Options) > 0 {
			row.Options = datatypes.JSON(field.Options)
		}
		table.Fields = append(table.Fields, row)
	}

	return table
}

func parseRemoteTime(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil
	}
	return &parsed
}
