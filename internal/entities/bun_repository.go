package entities

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translated/internal/filters"
)

const entityNamespace = "entity"

// NewEntityRepository builds the go-repository-bun base for entities.
func NewEntityRepository(db *bun.DB) repository.Repository[*Entity] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entity]{
		NewRecord: func() *Entity { return &Entity{} },
		GetID: func(e *Entity) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Entity, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(e *Entity) string {
			return e.ID.String()
		},
	})
}

// BunRepository stores entities in SQL through bun. The class and the soft
// delete flag are columns and filter in SQL; other constraints are checked
// against the decoded record.
type BunRepository struct {
	repo         repository.Repository[*Entity]
	cacheService cache.CacheService
	cachePrefix  string
	broadcaster  *changeBroadcaster
}

// NewBunRepository creates an entity repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache wraps the repository with go-repository-cache
// when both cacheService and serializer are set.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewEntityRepository(db)
	var svc cache.CacheService
	prefix := ""
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
		prefix = entityNamespace + cache.KeySeparator
	}
	return &BunRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
		broadcaster:  newChangeBroadcaster(),
	}
}

func (r *BunRepository) Create(ctx context.Context, entity *Entity) (*Entity, error) {
	if entity == nil || strings.TrimSpace(entity.Class) == "" {
		return nil, ErrClassRequired
	}
	record := entity.Clone()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	ensureMaps(record)

	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	r.invalidate(ctx)
	r.broadcaster.Broadcast(newChangeEvent(ChangeCreated, created))
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entity, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context, class string, constraints ...filters.Filter) ([]*Entity, error) {
	remaining := make([]filters.Filter, 0, len(constraints))
	deleted, hasDeleted := (*bool)(nil), false
	for _, constraint := range constraints {
		if flag, ok := constraint.Value.(bool); ok && constraint.Field == DeletedField && !hasDeleted {
			deleted, hasDeleted = &flag, true
			continue
		}
		remaining = append(remaining, constraint)
	}

	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if class != "" {
				q = q.Where("?TableAlias.class = ?", class)
			}
			if deleted != nil {
				q = q.Where("?TableAlias.deleted = ?", *deleted)
			}
			return q.OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, class)
	}

	out := make([]*Entity, 0, len(records))
	for _, record := range records {
		if filters.Match(record.Record(), remaining) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *BunRepository) Update(ctx context.Context, entity *Entity) (*Entity, error) {
	if entity == nil {
		return nil, &NotFoundError{}
	}
	record := entity.Clone()
	record.UpdatedAt = time.Now().UTC()
	ensureMaps(record)

	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"class",
			"translated",
			"fields",
			"deleted",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	r.invalidate(ctx)
	r.broadcaster.Broadcast(newChangeEvent(ChangeUpdated, updated))
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID, hard bool) error {
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// cached reads share their pointer, so changes go to a copy
	record := stored.Clone()
	if hard {
		if err := r.repo.Delete(ctx, &Entity{ID: id}); err != nil {
			return mapRepositoryError(err, id.String())
		}
		r.invalidate(ctx)
		r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, record))
		return nil
	}

	record.Deleted = true
	record.UpdatedAt = time.Now().UTC()
	if _, err := r.repo.Update(ctx, record,
		repository.UpdateByID(id.String()),
		repository.UpdateColumns("deleted", "updated_at"),
	); err != nil {
		return mapRepositoryError(err, id.String())
	}
	r.invalidate(ctx)
	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, record))
	return nil
}

func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

// InvalidateCache drops cached entity reads.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func (r *BunRepository) invalidate(ctx context.Context) {
	_ = r.InvalidateCache(ctx)
}

func ensureMaps(record *Entity) {
	if record.Translated == nil {
		record.Translated = map[string]map[string]any{}
	}
	if record.Fields == nil {
		record.Fields = map[string]any{}
	}
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("entity repository error: %w", err)
}
