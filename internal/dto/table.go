package dto

import "encoding/json"

type TableListResponse struct {
	Data []Table `json:"data"`
}

type Table struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	PrimaryFieldID *string `json:"primaryFieldId"`
	DefaultViewID  *string `json:"defaultViewId"`
	Fields         []Field `json:"fields"`
}

// Field carries the remote field schema. DefaultValue and Options stay
// opaque; consumers reinterpret them by Type.
type Field struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Type                 string          `json:"type"`
	Required             bool            `json:"required"`
	Readonly             bool            `json:"readonly"`
	Locked               bool            `json:"locked"`
	AllowMultipleEntries bool            `json:"allowMultipleEntries"`
	DefaultValue         json.RawMessage `json:"defaultValue"`
	Options              json.RawMessage `json:"options"`
	CreatedAt            *string         `json:"createdAt"`
	UpdatedAt            *string         `json:"updatedAt"`
}

const (
	SearchOperatorIs     = "IS"
	SearchConjunctionOr  = "OR"
	SearchConjunctionAnd = "AND"
)

type SearchRecordsRequest struct {
	Filter SearchFilter `json:"filter"`
	Paging SearchPaging `json:"paging"`
}

type SearchFilter struct {
	Condition SearchCondition `json:"condition"`
}

// SearchCondition is either a leaf (Field/Operator/Value) or a group
// (Conjunction/Conditions), mirroring the remote filter grammar.
type SearchCondition struct {
	Conjunction string            `json:"conjunction,omitempty"`
	Conditions  []SearchCondition `json:"conditions,omitempty"`
	Field       string            `json:"field,omitempty"`
	Operator    string            `json:"operator,omitempty"`
	Value       interface{}       `json:"value,omitempty"`
}

type SearchPaging struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type SearchRecordsResponse struct {
	Data     []Record       `json:"data"`
	Metadata SearchMetadata `json:"metadata"`
}

// Record fields are keyed by remote field id, not name.
type Record struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

type SearchMetadata struct {
	Total int `json:"total"`
}
