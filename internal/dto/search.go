package dto

// SearchResultGroup groups matched records by table. Only tables with at
// least one matched record appear in a result set.
type SearchResultGroup struct {
	TableID   string         `json:"table_id"`
	TableName string         `json:"table_name"`
	Records   []SearchRecord `json:"records"`
	Total     int            `json:"total"`
}

// SearchRecord is a display-ready record: fields keyed by field name with
// reference/select and attachment values already resolved.
type SearchRecord struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

type AttachmentValue struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
