package roles

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-translated/internal/access"
)

// Repository stores roles by name.
type Repository interface {
	Upsert(ctx context.Context, role access.Role) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
	Delete(ctx context.Context, name string) error
}

// MemoryRepository keeps roles in process.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*Role
	order []uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[uuid.UUID]*Role)}
}

func (r *MemoryRepository) Upsert(_ context.Context, role access.Role) (*Role, error) {
	if err := Validate(role); err != nil {
		return nil, err
	}
	record := NewRole(role)
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[record.ID]; ok {
		record.CreatedAt = existing.CreatedAt
	} else {
		record.CreatedAt = now
		r.order = append(r.order, record.ID)
	}
	record.UpdatedAt = now
	r.byID[record.ID] = record
	return record.clone(), nil
}

func (r *MemoryRepository) GetByName(_ context.Context, name string) (*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[NewRole(access.Role{Name: name}).ID]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return record.clone(), nil
}

func (r *MemoryRepository) List(context.Context) ([]*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Role, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].clone())
	}
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, name string) error {
	id := NewRole(access.Role{Name: name}).ID
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return &NotFoundError{Name: name}
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(candidate uuid.UUID) bool { return candidate == id })
	return nil
}
