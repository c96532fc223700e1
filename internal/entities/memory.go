package entities

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-translated/internal/filters"
)

// MemoryRepository keeps entities in process, in insertion order.
type MemoryRepository struct {
	mu          sync.RWMutex
	byID        map[uuid.UUID]*Entity
	order       []uuid.UUID
	now         func() time.Time
	broadcaster *changeBroadcaster
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:        make(map[uuid.UUID]*Entity),
		now:         func() time.Time { return time.Now().UTC() },
		broadcaster: newChangeBroadcaster(),
	}
}

func (r *MemoryRepository) Create(_ context.Context, entity *Entity) (*Entity, error) {
	if entity == nil || strings.TrimSpace(entity.Class) == "" {
		return nil, ErrClassRequired
	}
	record := entity.Clone()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := r.now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	r.mu.Lock()
	if _, exists := r.byID[record.ID]; !exists {
		r.order = append(r.order, record.ID)
	}
	r.byID[record.ID] = record
	r.mu.Unlock()

	r.broadcaster.Broadcast(newChangeEvent(ChangeCreated, record))
	return record.Clone(), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return record.Clone(), nil
}

func (r *MemoryRepository) List(_ context.Context, class string, constraints ...filters.Filter) ([]*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entity, 0, len(r.order))
	for _, id := range r.order {
		record := r.byID[id]
		if class != "" && record.Class != class {
			continue
		}
		if !filters.Match(record.Record(), constraints) {
			continue
		}
		out = append(out, record.Clone())
	}
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, entity *Entity) (*Entity, error) {
	if entity == nil {
		return nil, &NotFoundError{}
	}
	r.mu.Lock()
	existing, ok := r.byID[entity.ID]
	if !ok {
		r.mu.Unlock()
		return nil, &NotFoundError{Key: entity.ID.String()}
	}
	record := entity.Clone()
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = r.now()
	r.byID[record.ID] = record
	r.mu.Unlock()

	r.broadcaster.Broadcast(newChangeEvent(ChangeUpdated, record))
	return record.Clone(), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID, hard bool) error {
	r.mu.Lock()
	record, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return &NotFoundError{Key: id.String()}
	}
	if hard {
		delete(r.byID, id)
		for i, candidate := range r.order {
			if candidate == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	} else {
		record.Deleted = true
		record.UpdatedAt = r.now()
	}
	r.mu.Unlock()

	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, record))
	return nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}
