package repository

import (
	"context"

	"flowsync/internal/model"
	"flowsync/pkg/utils"

	"gorm.io/gorm"
)

type SchemaRepository interface {
	GetTables(ctx context.Context, opts ...utils.DBOption) ([]model.TableSchema, error)
	DeleteAllFields(ctx context.Context, opts ...utils.DBOption) error
	DeleteAllTables(ctx context.Context, opts ...utils.DBOption) error
	CreateTables(ctx context.Context, tables []model.TableSchema, opts ...utils.DBOption) error
}

type schemaRepository struct {
	db *gorm.DB
}

func NewSchemaRepository(db *gorm.DB) SchemaRepository {
	return &schemaRepository{db: db}
}

func (r *schemaRepository) GetTables(ctx context.Context, opts ...utils.DBOption) ([]model.TableSchema, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	var tables []model.TableSchema
	err := db.Preload("Fields").Order("name ASC").Find(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *schemaRepository) DeleteAllFields(ctx context.Context, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.FieldSchema{}).Error
}

func (r *schemaRepository) DeleteAllTables(ctx context.Context, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.TableSchema{}).Error
}

// CreateTables inserts tables together with their nested field rows.
func (r *schemaRepository) CreateTables(ctx context.Context, tables []model.TableSchema, opts ...utils.DBOption) error {
	if len(tables) == 0 {
		return nil
	}

	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return db.Create(&tables).Error
}
