package repository

import (
	"context"

	"flowsync/internal/model"
	"flowsync/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExecutionRepository interface {
	Count(ctx context.Context) (int64, error)
	FindByExecutionIDs(ctx context.Context, executionIDs []string) ([]model.Execution, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) ([]model.Execution, error)
	Upsert(ctx context.Context, executions []model.Execution, opts ...utils.DBOption) error
}

type executionRepository struct {
	db *gorm.DB
}

func NewExecutionRepository(db *gorm.DB) ExecutionRepository {
	return &executionRepository{db: db}
}

func (r *executionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Execution{}).Count(&count).Error
	return count, err
}

func (r *executionRepository) FindByExecutionIDs(ctx context.Context, executionIDs []string) ([]model.Execution, error) {
	if len(executionIDs) == 0 {
		return nil, nil
	}

	var executions []model.Execution
	err := r.db.WithContext(ctx).
		Where("execution_id IN ?", executionIDs).
		Find(&executions).Error
	if err != nil {
		return nil, err
	}
	return executions, nil
}

func (r *executionRepository) FindByOrderNumber(ctx context.Context, orderNumber string) ([]model.Execution, error) {
	var executions []model.Execution
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		Order("started_at DESC NULLS LAST").
		Find(&executions).Error
	if err != nil {
		return nil, err
	}
	return executions, nil
}

// Upsert inserts new rows and, on conflict by execution_id, refreshes only
// the columns that can change after creation.
func (r *executionRepository) Upsert(ctx context.Context, executions []model.Execution, opts ...utils.DBOption) error {
	if len(executions) == 0 {
		return nil
	}

	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "execution_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"order_number", "status", "stopped_at", "updated_at"}),
	}).CreateInBatches(executions, 100).Error
}
