package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"flowsync/config"
	"flowsync/internal/dto"
	"flowsync/internal/model"
	"flowsync/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableSyncTestConfig() *config.Config {
	return &config.Config{
		TableAPI: config.TableAPIConfig{DatabaseID: "db-1", SearchLimit: 10},
	}
}

func remoteTable(id, name string, fields ...dto.Field) *dto.Table {
	return &dto.Table{ID: id, Name: name, Fields: fields}
}

func TestTableSync_ReplacesCacheAtomically(t *testing.T) {
	api := &fakeTableAPI{
		tables: []dto.Table{{ID: "t1"}, {ID: "t2"}},
		details: map[string]*dto.Table{
			"t1": remoteTable("t1", "Orders", dto.Field{ID: "f1", Name: "ID", Type: "NUMBER"}),
			"t2": remoteTable("t2", "Customers", dto.Field{ID: "f2", Name: "Name", Type: "TEXT"}),
		},
	}
	schemaRepo := &fakeSchemaRepo{}
	uow := &fakeUnitOfWork{}

	svc := NewTableSyncService(tableSyncTestConfig(), newTestLogger(t), schemaRepo, api, uow)
	count, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, uow.runs)
	assert.Equal(t, 1, schemaRepo.deleteFieldsCalls)
	assert.Equal(t, 1, schemaRepo.deleteTablesCalls)
	require.Len(t, schemaRepo.created, 1)
	require.Len(t, schemaRepo.created[0], 2)
	assert.Equal(t, "Orders", schemaRepo.created[0][0].Name)
	require.Len(t, schemaRepo.created[0][0].Fields, 1)
	assert.Equal(t, model.FieldTypeNumber, schemaRepo.created[0][0].Fields[0].Type)
	assert.False(t, schemaRepo.created[0][0].SyncedAt.IsZero())
}

func TestTableSync_DetailFetchErrorAbortsBeforeAnyWrite(t *testing.T) {
	api := &fakeTableAPI{
		tables: []dto.Table{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}},
		details: map[string]*dto.Table{
			"t1": remoteTable("t1", "Orders"),
			"t3": remoteTable("t3", "Invoices"),
		},
		detailErr: map[string]error{"t2": errors.New("remote api returned status 500")},
	}
	schemaRepo := &fakeSchemaRepo{
		tables: []model.TableSchema{{ID: "old-1"}, {ID: "old-2"}, {ID: "old-3"}},
	}
	uow := &fakeUnitOfWork{}

	svc := NewTableSyncService(tableSyncTestConfig(), newTestLogger(t), schemaRepo, api, uow)
	count, err := svc.Sync(context.Background())

	require.Error(t, err)
	assert.Zero(t, count)
	assert.Zero(t, uow.runs, "no transaction may start when a detail fetch fails")
	assert.Zero(t, schemaRepo.deleteFieldsCalls)
	assert.Len(t, schemaRepo.tables, 3, "previous cache must stay intact")
}

func TestTableSync_NilDetailIsFilteredWithoutAborting(t *testing.T) {
	api := &fakeTableAPI{
		tables: []dto.Table{{ID: "t1"}, {ID: "t2"}},
		details: map[string]*dto.Table{
			"t1": remoteTable("t1", "Orders"),
			// t2 resolves to nil: unknown table, not an error.
		},
	}
	schemaRepo := &fakeSchemaRepo{}
	uow := &fakeUnitOfWork{}

	svc := NewTableSyncService(tableSyncTestConfig(), newTestLogger(t), schemaRepo, api, uow)
	count, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, schemaRepo.created, 1)
	require.Len(t, schemaRepo.created[0], 1)
	assert.Equal(t, "Orders", schemaRepo.created[0][0].Name)
}

func TestBuildTableSchema_OpaqueFieldBlobs(t *testing.T) {
	detail := remoteTable("t1", "Orders", dto.Field{
		ID:           "f1",
		Name:         "Color",
		Type:         "SELECT",
		DefaultValue: []byte(`"Blue"`),
		Options:      []byte(`{"choices":["Blue","Red"]}`),
		CreatedAt:    utils.ToPointer("2025-05-01T10:00:00Z"),
		UpdatedAt:    utils.ToPointer("not-a-date"),
	})

	table := buildTableSchema(detail, testSyncedAt(t))

	require.Len(t, table.Fields, 1)
	field := table.Fields[0]
	require.NotNil(t, field.DefaultValue)
	assert.Equal(t, `"Blue"`, *field.DefaultValue)
	assert.JSONEq(t, `{"choices":["Blue","Red"]}`, string(field.Options))
	require.NotNil(t, field.FieldCreatedAt)
	assert.Nil(t, field.FieldUpdatedAt, "unparseable remote date is left absent")
}

func testSyncedAt(t *testing.T) (ts time.Time) {
	t.Helper()
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}
