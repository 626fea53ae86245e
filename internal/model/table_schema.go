package model

import (
	"time"

	"gorm.io/datatypes"
)

// TableSchema mirrors one remote table. The whole TableSchema+FieldSchema
// set is replaced atomically on every sync.
type TableSchema struct {
	ID             string `gorm:"primarykey"`
	Name           string `gorm:"not null"`
	Description    *string
	PrimaryFieldID *string
	DefaultViewID  *string
	SyncedAt       time.Time `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	Fields []FieldSchema `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE"`
}

func (TableSchema) TableName() string {
	return "table_schemas"
}

type FieldType string

const (
	FieldTypeText       FieldType = "TEXT"
	FieldTypeNumber     FieldType = "NUMBER"
	FieldTypeFormula    FieldType = "FORMULA"
	FieldTypeSelect     FieldType = "SELECT"
	FieldTypeAttachment FieldType = "ATTACHMENT"
)

// IsNumeric reports whether search values against this type are coerced to
// numbers before being sent to the remote filter.
func (t FieldType) IsNumeric() bool {
	return t == FieldTypeNumber || t == FieldTypeFormula
}

type FieldSchema struct {
	ID                   string    `gorm:"primarykey"`
	TableID              string    `gorm:"not null;index"`
	Name                 string    `gorm:"not null"`
	Type                 FieldType `gorm:"not null"`
	Required             bool      `gorm:"not null;default:false"`
	Readonly             bool      `gorm:"not null;default:false"`
	Locked               bool      `gorm:"not null;default:false"`
	AllowMultipleEntries bool      `gorm:"not null;default:false"`
	DefaultValue         *string
	Options              datatypes.JSON `gorm:"type:jsonb"`
	FieldCreatedAt       *time.Time
	FieldUpdatedAt       *time.Time
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (FieldSchema) TableName() string {
	return "field_schemas"
}
