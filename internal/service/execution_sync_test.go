package service

import (
	"context"
	"testing"
	"time"

	"flowsync/config"
	"flowsync/internal/dto"
	"flowsync/internal/model"
	"flowsync/pkg/syncstate"
	"flowsync/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syncTestConfig() *config.Config {
	return &config.Config{
		ExecutionAPI: config.ExecutionAPIConfig{PageSize: 50},
		Sync:         config.SyncConfig{CooldownDuration: time.Minute, OrderNumberKey: "orderNumber"},
	}
}

func executionItem(id, status string) dto.Execution {
	return dto.Execution{ID: id, WorkflowID: "wf-1", Status: status}
}

func TestExecutionSync_FullBackfillOnEmptyCache(t *testing.T) {
	repo := newFakeExecutionRepo()
	api := &fakeWorkflowAPI{
		pages: []dto.ExecutionListResponse{
			{Data: []dto.Execution{executionItem("1", "success"), executionItem("2", "error")}, NextCursor: utils.ToPointer("c1")},
			{Data: []dto.Execution{executionItem("3", "success")}},
		},
	}
	guard := syncstate.NewGuard(time.Minute)

	svc := NewExecutionSyncService(syncTestConfig(), newTestLogger(t), guard, repo, api)
	svc.Sync(context.Background())

	assert.Equal(t, 2, api.fetches)
	assert.Len(t, repo.rows, 3, "every item of every page must be upserted")
}

func TestExecutionSync_IncrementalStopCondition(t *testing.T) {
	// Cache knows A (success) and B (running); remote pages are
	// [B success, C success] then [A success] then [D success]. B changed
	// and C is new, so page one syncs; page two is clean, so pagination
	// halts and the third page is never fetched.
	repo := newFakeExecutionRepo(
		model.Execution{ExecutionID: "A", Status: model.ExecutionStatusSuccess},
		model.Execution{ExecutionID: "B", Status: model.ExecutionStatusRunning},
	)
	api := &fakeWorkflowAPI{
		pages: []dto.ExecutionListResponse{
			{Data: []dto.Execution{executionItem("B", "success"), executionItem("C", "success")}, NextCursor: utils.ToPointer("c1")},
			{Data: []dto.Execution{executionItem("A", "success")}, NextCursor: utils.ToPointer("c2")},
			{Data: []dto.Execution{executionItem("D", "success")}},
		},
	}
	guard := syncstate.NewGuard(time.Minute)

	svc := NewExecutionSyncService(syncTestConfig(), newTestLogger(t), guard, repo, api)
	svc.Sync(context.Background())

	assert.Equal(t, 2, api.fetches, "third page must never be fetched")
	require.Len(t, repo.upserts, 1)
	require.Len(t, repo.upserts[0], 2)
	assert.Equal(t, "B", repo.upserts[0][0].ExecutionID)
	assert.Equal(t, "C", repo.upserts[0][1].ExecutionID)
	assert.Equal(t, model.ExecutionStatusSuccess, repo.rows["B"].Status)
	_, dUpserted := repo.rows["D"]
	assert.False(t, dUpserted)
}

func TestExecutionSync_GuardSkipsConcurrentPass(t *testing.T) {
	repo := newFakeExecutionRepo()
	api := &fakeWorkflowAPI{}
	guard := syncstate.NewGuard(time.Minute)
	require.True(t, guard.TryAcquire())

	svc := NewExecutionSyncService(syncTestConfig(), newTestLogger(t), guard, repo, api)
	svc.Sync(context.Background())

	assert.Zero(t, api.fetches, "a held guard must make Sync a silent no-op")

	guard.Release()
}

func TestExecutionSync_CooldownSkipsPass(t *testing.T) {
	repo := newFakeExecutionRepo()
	api := &fakeWorkflowAPI{}
	guard := syncstate.NewGuard(time.Minute)
	guard.MarkCompleted(time.Now())

	svc := NewExecutionSyncService(syncTestConfig(), newTestLogger(t), guard, repo, api)
	svc.Sync(context.Background())

	assert.Zero(t, api.fetches)
}

func TestExecutionSync_DerivesOrderNumberFromEmbeddedData(t *testing.T) {
	item := executionItem("1", "success")
	item.Data = &dto.ExecutionData{ResultData: &dto.ResultData{RunData: map[string][]dto.NodeRun{
		"Checkout": {{Data: map[string][][]dto.NodeRunItem{
			"main": {{{JSON: map[string]interface{}{"orderNumber": "SO-1001"}}}},
		}}},
	}}}

	repo := newFakeExecutionRepo()
	api := &fakeWorkflowAPI{pages: []dto.ExecutionListResponse{{Data: []dto.Execution{item}}}}
	guard := syncstate.NewGuard(time.Minute)

	svc := NewExecutionSyncService(syncTestConfig(), newTestLogger(t), guard, repo, api)
	svc.Sync(context.Background())

	row, ok := repo.rows["1"]
	require.True(t, ok)
	require.NotNil(t, row.OrderNumber)
	assert.Equal(t, "SO-1001", *row.OrderNumber)
}

func TestExecutionSync_ReleasesGuardAfterPass(t *testing.T) {
	repo := newFakeExecutionRepo()
	api := &fakeWorkflowAPI{}
	guard := syncstate.NewGuard(time.Minute)

	svc := NewExecutionSyncService(syncTestConfig(), newTestLogger(t), guard, repo, api)
	svc.Sync(context.Background())

	assert.True(t, guard.TryAcquire(), "guard must be released when the pass ends")
	guard.Release()
}
