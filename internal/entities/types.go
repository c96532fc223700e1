package entities

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translated/internal/fields"
)

// DeletedField is the top-level record key mirroring the soft delete flag.
const DeletedField = "deleted"

// Entity is a stored article, page, page block or any other translatable
// admin object: one translated record plus free top-level fields.
type Entity struct {
	bun.BaseModel `bun:"table:entities,alias:e"`

	ID         uuid.UUID               `bun:",pk,type:uuid" json:"id"`
	Class      string                  `bun:"class,notnull" json:"class"`
	Translated fields.TranslatedRecord `bun:"translated,type:jsonb,notnull" json:"translated"`
	Fields     map[string]any          `bun:"fields,type:jsonb,notnull" json:"fields"`
	Deleted    bool                    `bun:"deleted,notnull,default:false" json:"deleted"`
	CreatedAt  time.Time               `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time               `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// FromRecord splits a persisted-shape record into an entity of class. A
// boolean "deleted" key sets the soft delete flag.
func FromRecord(class string, record fields.Record) *Entity {
	entity := &Entity{
		Class:      class,
		Translated: record.Translated(),
		Fields:     record.Others(),
	}
	if deleted, ok := entity.Fields[DeletedField].(bool); ok {
		entity.Deleted = deleted
	}
	delete(entity.Fields, DeletedField)
	return entity
}

// Record returns the entity in the persisted shape, with the soft delete
// flag exposed as the "deleted" field.
func (e *Entity) Record() fields.Record {
	if e == nil {
		return nil
	}
	out := make(fields.Record, len(e.Fields)+2)
	maps.Copy(out, e.Fields)
	out[DeletedField] = e.Deleted
	translated := e.Translated.Clone()
	if translated == nil {
		translated = fields.TranslatedRecord{}
	}
	out[fields.TranslatedKey] = translated
	return out
}

// Clone copies the entity, including its translated buckets.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := *e
	out.Translated = e.Translated.Clone()
	if e.Fields != nil {
		out.Fields = maps.Clone(e.Fields)
	}
	return &out
}
