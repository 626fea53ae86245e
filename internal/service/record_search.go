package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"flowsync/config"
	"flowsync/internal/dto"
	"flowsync/internal/model"
	"flowsync/internal/repository"
	"flowsync/pkg/logger"

	"gorm.io/datatypes"
)

const defaultAttachmentFilename = "Download"

// RecordSearchService answers free-text queries against the cached table
// schema. It never syncs the schema on its own; an empty cache yields an
// empty result.
type RecordSearchService interface {
	Search(ctx context.Context, query string) ([]dto.SearchResultGroup, error)
	DeleteRecord(ctx context.Context, tableID, recordID string) error
}

type recordSearchService struct {
	cfg          *config.Config
	log          *logger.Logger
	schemaRepo   repository.SchemaRepository
	tableAPIRepo repository.TableAPIRepository
	auditService AuditService
}

func NewRecordSearchService(
	cfg *config.Config,
	log *logger.Logger,
	schemaRepo repository.SchemaRepository,
	tableAPIRepo repository.TableAPIRepository,
	auditService AuditService,
) RecordSearchService {
	return &recordSearchService{
		cfg:          cfg,
		log:          log,
		schemaRepo:   schemaRepo,
		tableAPIRepo: tableAPIRepo,
		auditService: auditService,
	}
}

func (s *recordSearchService) Search(ctx context.Context, query string) ([]dto.SearchResultGroup, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	tables, err := s.schemaRepo.GetTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached schema: %w", err)
	}
	if len(tables) == 0 {
		s.log.WarnContext(ctx, "Table schema cache is empty, skipping record search")
		return nil, nil
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		groups []dto.SearchResultGroup
	)

	for i := range tables {
		table := tables[i]

		fieldNames, configured := s.cfg.Search.TableFields[table.Name]
		if !configured {
			continue
		}

		condition := buildSearchCondition(&table, fieldNames, query)
		if condition == nil {
			continue
		}

		// One search per eligible table, concurrently; a failed table is
		// logged and excluded without failing the others.
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := dto.SearchRecordsRequest{
				Filter: dto.SearchFilter{Condition: *condition},
				Paging: dto.SearchPaging{Offset: 0, Limit: s.cfg.TableAPI.SearchLimit},
			}

			resp, err := s.tableAPIRepo.SearchRecords(ctx, table.ID, req)
			if err != nil {
				s.log.ErrorContext(ctx, "Record search failed for table",
					logger.StringField("table", table.Name),
					logger.ErrorField(err))
				return
			}
			if resp == nil || len(resp.Data) == 0 {
				return
			}

			group := dto.SearchResultGroup{
				TableID:   table.ID,
				TableName: table.Name,
				Records:   resolveRecords(&table, resp.Data),
				Total:     resp.Metadata.Total,
			}

			mu.Lock()
			groups = append(groups, group)
			mu.Unlock()
		}()
	}

	wg.Wait()
	return groups, nil
}

func (s *recordSearchService) DeleteRecord(ctx context.Context, tableID, recordID string) error {
	if err := s.tableAPIRepo.DeleteRecord(ctx, tableID, recordID); err != nil {
		return err
	}

	s.auditService.Submit(model.AuditLog{
		Action: "record_delete",
		Field:  tableID,
		Before: datatypes.JSON(strconv.Quote(recordID)),
	})
	return nil
}

// buildSearchCondition builds one IS condition per configured field found
// on the table, OR-combined when more than one matches. Returns nil when no
// configured field exists on the table.
func buildSearchCondition(table *model.TableSchema, fieldNames []string, query string) *dto.SearchCondition {
	var conditions []dto.SearchCondition
	for _, name := range fieldNames {
		for i := range table.Fields {
			field := &table.Fields[i]
			if field.Name != name {
				continue
			}
			conditions = append(conditions, dto.SearchCondition{
				Field:    field.ID,
				Operator: dto.SearchOperatorIs,
				Value:    coerceSearchValue(query, field.Type),
			})
		}
	}

	switch len(conditions) {
	case 0:
		return nil
	case 1:
		return &conditions[0]
	default:
		return &dto.SearchCondition{
			Conjunction: dto.SearchConjunctionOr,
			Conditions:  conditions,
		}
	}
}

// coerceSearchValue converts the query to a number for numeric-like fields.
// NaN is not representable in JSON, so a query that does not parse falls
// back to the raw string and the remote decides what it matches.
func coerceSearchValue(query string, fieldType model.FieldType) interface{} {
	if !fieldType.IsNumeric() {
		return query
	}
	parsed, err := strconv.ParseFloat(query, 64)
	if err != nil {
		return query
	}
	return parsed
}

// resolveRecords maps raw field ids to field names and raw values to their
// display form.
func resolveRecords(table *model.TableSchema, records []dto.Record) []dto.SearchRecord {
	fieldNameByID := make(map[string]string, len(table.Fields))
	for _, field := range table.Fields {
		fieldNameByID[field.ID] = field.Name
	}

	resolved := make([]dto.SearchRecord, 0, len(records))
	for _, record := range records {
		fields := make(map[string]interface{}, len(record.Fields))
		for fieldID, raw := range record.Fields {
			name, ok := fieldNameByID[fieldID]
			if !ok {
				name = fieldID
			}
			fields[name] = resolveFieldValue(raw)
		}
		resolved = append(resolved, dto.SearchRecord{ID: record.ID, Fields: fields})
	}
	return resolved
}

type fieldValueKind int

const (
	valueScalar fieldValueKind = iota
	valueReference
	valueAttachment
)

// classifyFieldValue distinguishes the structural value variants: an object
// carrying a label (reference/select), a non-empty list of objects carrying
// a url (attachments), or a plain scalar.
func classifyFieldValue(raw interface{}) fieldValueKind {
	switch value := raw.(type) {
	case map[string]interface{}:
		if _, ok := value["label"].(string); ok {
			return valueReference
		}
	case []interface{}:
		if len(value) == 0 {
			return valueScalar
		}
		if item, ok := value[0].(map[string]interface{}); ok {
			if _, ok := item["url"].(string); ok {
				return valueAttachment
			}
		}
	}
	return valueScalar
}

func resolveFieldValue(raw interface{}) interface{} {
	switch classifyFieldValue(raw) {
	case valueReference:
		return raw.(map[string]interface{})["label"]
	case valueAttachment:
		items := raw.([]interface{})
		attachments := make([]dto.AttachmentValue, 0, len(items))
		for _, item := range items {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			url, _ := entry["url"].(string)
			if url == "" {
				continue
			}
			filename, _ := entry["filename"].(string)
			if filename == "" {
				filename = defaultAttachmentFilename
			}
			attachments = append(attachments, dto.AttachmentValue{URL: url, Filename: filename})
		}
		return attachments
	default:
		return raw
	}
}
