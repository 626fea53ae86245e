package service

import (
	"context"
	"sync"
	"testing"

	"flowsync/internal/dto"
	"flowsync/internal/model"
	"flowsync/pkg/logger"
	"flowsync/pkg/utils"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

type fakeExecutionRepo struct {
	rows     map[string]model.Execution
	upserts  [][]model.Execution
	countErr error
}

func newFakeExecutionRepo(rows ...model.Execution) *fakeExecutionRepo {
	repo := &fakeExecutionRepo{rows: make(map[string]model.Execution)}
	for _, row := range rows {
		repo.rows[row.ExecutionID] = row
	}
	return repo
}

func (f *fakeExecutionRepo) Count(ctx context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.rows)), nil
}

func (f *fakeExecutionRepo) FindByExecutionIDs(ctx context.Context, executionIDs []string) ([]model.Execution, error) {
	var found []model.Execution
	for _, id := range executionIDs {
		if row, ok := f.rows[id]; ok {
			found = append(found, row)
		}
	}
	return found, nil
}

func (f *fakeExecutionRepo) FindByOrderNumber(ctx context.Context, orderNumber string) ([]model.Execution, error) {
	var found []model.Execution
	for _, row := range f.rows {
		if row.OrderNumber != nil && *row.OrderNumber == orderNumber {
			found = append(found, row)
		}
	}
	return found, nil
}

func (f *fakeExecutionRepo) Upsert(ctx context.Context, executions []model.Execution, opts ...utils.DBOption) error {
	f.upserts = append(f.upserts, executions)
	for _, row := range executions {
		if existing, ok := f.rows[row.ExecutionID]; ok {
			existing.OrderNumber = row.OrderNumber
			existing.Status = row.Status
			existing.StoppedAt = row.StoppedAt
			f.rows[row.ExecutionID] = existing
			continue
		}
		f.rows[row.ExecutionID] = row
	}
	return nil
}

type fakeWorkflowAPI struct {
	pages   []dto.ExecutionListResponse
	fetches int
}

func (f *fakeWorkflowAPI) ListExecutions(ctx context.Context, param dto.ListExecutionsParam) (*dto.ExecutionListResponse, error) {
	if f.fetches >= len(f.pages) {
		f.fetches++
		return &dto.ExecutionListResponse{}, nil
	}
	page := f.pages[f.fetches]
	f.fetches++
	return &page, nil
}

func (f *fakeWorkflowAPI) GetExecution(ctx context.Context, executionID string, includeData bool) (*dto.Execution, error) {
	return nil, nil
}

func (f *fakeWorkflowAPI) RetryExecution(ctx context.Context, executionID string, loadWorkflow bool) error {
	return nil
}

func (f *fakeWorkflowAPI) ListActiveWorkflows(ctx context.Context) ([]dto.Workflow, error) {
	return nil, nil
}

type fakeTableAPI struct {
	mu sync.Mutex

	tables    []dto.Table
	details   map[string]*dto.Table
	detailErr map[string]error

	searchResponses map[string]*dto.SearchRecordsResponse
	searchErr       map[string]error
	searchRequests  map[string]dto.SearchRecordsRequest

	deleted []string
}

func (f *fakeTableAPI) ListTables(ctx context.Context) ([]dto.Table, error) {
	return f.tables, nil
}

func (f *fakeTableAPI) GetTable(ctx context.Context, tableID string) (*dto.Table, error) {
	if err := f.detailErr[tableID]; err != nil {
		return nil, err
	}
	return f.details[tableID], nil
}

func (f *fakeTableAPI) SearchRecords(ctx context.Context, tableID string, req dto.SearchRecordsRequest) (*dto.SearchRecordsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchRequests == nil {
		f.searchRequests = make(map[string]dto.SearchRecordsRequest)
	}
	f.searchRequests[tableID] = req
	if err := f.searchErr[tableID]; err != nil {
		return nil, err
	}
	return f.searchResponses[tableID], nil
}

func (f *fakeTableAPI) DeleteRecord(ctx context.Context, tableID, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, tableID+"/"+recordID)
	return nil
}

type fakeSchemaRepo struct {
	tables []model.TableSchema

	deleteFieldsCalls int
	deleteTablesCalls int
	created           [][]model.TableSchema
}

func (f *fakeSchemaRepo) GetTables(ctx context.Context, opts ...utils.DBOption) ([]model.TableSchema, error) {
	return f.tables, nil
}

func (f *fakeSchemaRepo) DeleteAllFields(ctx context.Context, opts ...utils.DBOption) error {
	f.deleteFieldsCalls++
	return nil
}

func (f *fakeSchemaRepo) DeleteAllTables(ctx context.Context, opts ...utils.DBOption) error {
	f.deleteTablesCalls++
	return nil
}

func (f *fakeSchemaRepo) CreateTables(ctx context.Context, tables []model.TableSchema, opts ...utils.DBOption) error {
	f.created = append(f.created, tables)
	f.tables = tables
	return nil
}

type fakeUnitOfWork struct {
	runs int
}

func (f *fakeUnitOfWork) Run(fn func(opts ...utils.DBOption) error) error {
	f.runs++
	return fn()
}

type fakeAuditService struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (f *fakeAuditService) Submit(entry model.AuditLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
}
