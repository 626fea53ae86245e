package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"flowsync/config"
	"flowsync/internal/dto"
	"flowsync/pkg/cache"
	"flowsync/pkg/httpclient"
	"flowsync/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	apiKeyHeader            = "X-API-KEY"
	cacheKeyActiveWorkflows = "workflow_api:active_workflows"
)

// WorkflowAPIRepository talks to the remote workflow engine's execution API.
type WorkflowAPIRepository interface {
	ListExecutions(ctx context.Context, param dto.ListExecutionsParam) (*dto.ExecutionListResponse, error)
	GetExecution(ctx context.Context, executionID string, includeData bool) (*dto.Execution, error)
	RetryExecution(ctx context.Context, executionID string, loadWorkflow bool) error
	ListActiveWorkflows(ctx context.Context) ([]dto.Workflow, error)
}

type workflowAPIRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	cache          cache.Cache
	requestLimiter *rate.Limiter
}

func NewWorkflowAPIRepository(cfg *config.Config, log *logger.Logger, inmemoryCache cache.Cache) WorkflowAPIRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.ExecutionAPI.MaxRequestPerMin)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	headers := map[string]string{
		apiKeyHeader: cfg.ExecutionAPI.APIKey,
	}

	return &workflowAPIRepository{
		httpClient:     httpclient.New(cfg.ExecutionAPI.BaseURL, cfg.ExecutionAPI.Timeout, headers),
		cfg:            cfg,
		logger:         log,
		cache:          inmemoryCache,
		requestLimiter: requestLimiter,
	}
}

func (r *workflowAPIRepository) ListExecutions(ctx context.Context, param dto.ListExecutionsParam) (*dto.ExecutionListResponse, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"limit":       strconv.Itoa(param.Limit),
		"includeData": strconv.FormatBool(param.IncludeData),
	}
	if param.Status != "" {
		queryParams["status"] = param.Status
	}
	if param.WorkflowID != "" {
		queryParams["workflowId"] = param.WorkflowID
	}
	if param.Cursor != "" {
		queryParams["cursor"] = param.Cursor
	}

	var result dto.ExecutionListResponse
	resp, err := r.httpClient.Get(ctx, "/executions", queryParams, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, httpclient.NewAPIError(resp)
	}

	return &result, nil
}

func (r *workflowAPIRepository) GetExecution(ctx context.Context, executionID string, includeData bool) (*dto.Execution, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"includeData": strconv.FormatBool(includeData),
	}

	var result dto.Execution
	resp, err := r.httpClient.Get(ctx, "/executions/"+executionID, queryParams, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get execution %s: %w", executionID, err)
	}
	if !resp.IsSuccess() {
		return nil, httpclient.NewAPIError(resp)
	}

	return &result, nil
}

func (r *workflowAPIRepository) RetryExecution(ctx context.Context, executionID string, loadWorkflow bool) error {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return err
	}

	body := dto.RetryExecutionRequest{LoadWorkflow: loadWorkflow}
	resp, err := r.httpClient.Post(ctx, "/executions/"+executionID+"/retry", body, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to retry execution %s: %w", executionID, err)
	}
	if !resp.IsSuccess() {
		return httpclient.NewAPIError(resp)
	}

	return nil
}

// ListActiveWorkflows serves from the in-memory cache when fresh; the remote
// list changes rarely and the endpoint is rate-limited.
func (r *workflowAPIRepository) ListActiveWorkflows(ctx context.Context) ([]dto.Workflow, error) {
	if cached, found := cache.Get[[]dto.Workflow](r.cache, cacheKeyActiveWorkflows); found {
		return cached, nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"active": "true",
	}

	var result dto.WorkflowListResponse
	resp, err := r.httpClient.Get(ctx, "/workflows", queryParams, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	if !resp.IsSuccess() {
		r.logger.ErrorContext(ctx, "Workflow API returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, httpclient.NewAPIError(resp)
	}

	r.cache.Set(cacheKeyActiveWorkflows, result.Data, r.cfg.ExecutionAPI.WorkflowCacheTTL)
	return result.Data, nil
}
