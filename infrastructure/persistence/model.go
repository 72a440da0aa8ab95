package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/vexdb/vexdb/domain/document"
)

// FloatSlice stores a []float64 as a JSON column, which both SQLite and
// PostgreSQL accept without a vector extension.
type FloatSlice []float64

// Scan implements sql.Scanner for reading JSON columns.
func (f *FloatSlice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FloatSlice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer for writing JSON columns.
func (f FloatSlice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// DocumentModel is the GORM entity for a stored document. The table
// layout matches the wire document: caller-assigned id, embedding as
// JSON, metadata and content as opaque text.
type DocumentModel struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	Embedding FloatSlice `gorm:"column:embedding;type:json;not null"`
	Metadata  string     `gorm:"column:metadata;not null"`
	Content   string     `gorm:"column:content;not null"`
}

// TableName sets the table name.
func (DocumentModel) TableName() string { return "documents" }

// toModel converts a domain document to its database entity.
func toModel(doc document.Document) DocumentModel {
	return DocumentModel{
		ID:        doc.ID(),
		Embedding: FloatSlice(doc.Embedding()),
		Metadata:  doc.Metadata(),
		Content:   doc.Content(),
	}
}

// toDomain converts a database entity to a domain document.
func toDomain(m DocumentModel) document.Document {
	return document.New(m.ID, []float64(m.Embedding), m.Metadata, m.Content)
}
