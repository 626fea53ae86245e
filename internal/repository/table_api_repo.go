package repository

import (
	"context"
	"fmt"
	"time"

	"flowsync/config"
	"flowsync/internal/dto"
	"flowsync/pkg/httpclient"
	"flowsync/pkg/logger"

	"golang.org/x/time/rate"
)

// TableAPIRepository talks to the remote no-code database's table store.
type TableAPIRepository interface {
	ListTables(ctx context.Context) ([]dto.Table, error)
	GetTable(ctx context.Context, tableID string) (*dto.Table, error)
	SearchRecords(ctx context.Context, tableID string, req dto.SearchRecordsRequest) (*dto.SearchRecordsResponse, error)
	DeleteRecord(ctx context.Context, tableID, recordID string) error
}

type tableAPIRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewTableAPIRepository(cfg *config.Config, log *logger.Logger) TableAPIRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.TableAPI.MaxRequestPerMin)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	headers := map[string]string{
		apiKeyHeader: cfg.TableAPI.APIKey,
	}

	return &tableAPIRepository{
		httpClient:     httpclient.New(cfg.TableAPI.BaseURL, cfg.TableAPI.Timeout, headers),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *tableAPIRepository) tablesPath() string {
	return "/databases/" + r.cfg.TableAPI.DatabaseID + "/tables"
}

func (r *tableAPIRepository) ListTables(ctx context.Context) ([]dto.Table, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result dto.TableListResponse
	resp, err := r.httpClient.Get(ctx, r.tablesPath(), nil, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, httpclient.NewAPIError(resp)
	}

	return result.Data, nil
}

func (r *tableAPIRepository) GetTable(ctx context.Context, tableID string) (*dto.Table, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result dto.Table
	resp, err := r.httpClient.Get(ctx, r.tablesPath()+"/"+tableID, nil, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", tableID, err)
	}
	if !resp.IsSuccess() {
		return nil, httpclient.NewAPIError(resp)
	}
	if result.ID == "" {
		// Some deployments answer 200 with an empty body for unknown tables.
		return nil, nil
	}

	return &result, nil
}

func (r *tableAPIRepository) SearchRecords(ctx context.Context, tableID string, req dto.SearchRecordsRequest) (*dto.SearchRecordsResponse, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result dto.SearchRecordsResponse
	resp, err := r.httpClient.Post(ctx, r.tablesPath()+"/"+tableID+"/records/search", req, nil, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to search records in table %s: %w", tableID, err)
	}
	if !resp.IsSuccess() {
		return nil, httpclient.NewAPIError(resp)
	}

	return &result, nil
}

func (r *tableAPIRepository) DeleteRecord(ctx context.Context, tableID, recordID string) error {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := r.httpClient.Delete(ctx, r.tablesPath()+"/"+tableID+"/records/"+recordID, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to delete record %s from table %s: %w", recordID, tableID, err)
	}
	if !resp.IsSuccess() {
		return httpclient.NewAPIError(resp)
	}

	return nil
}
