package entities

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-translated/internal/filters"
)

// Repository persists entities and notifies subscribers of changes.
type Repository interface {
	Create(ctx context.Context, entity *Entity) (*Entity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entity, error)
	List(ctx context.Context, class string, constraints ...filters.Filter) ([]*Entity, error)
	Update(ctx context.Context, entity *Entity) (*Entity, error)
	// Delete sets the soft delete flag, or removes the row when hard is true.
	Delete(ctx context.Context, id uuid.UUID, hard bool) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates entity change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent tells list views which entity changed.
type ChangeEvent struct {
	Type  ChangeType
	ID    uuid.UUID
	Class string
}

func newChangeEvent(changeType ChangeType, entity *Entity) ChangeEvent {
	evt := ChangeEvent{Type: changeType}
	if entity != nil {
		evt.ID = entity.ID
		evt.Class = entity.Class
	}
	return evt
}
