package roles

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translated/internal/access"
)

// NewRoleRepository builds the go-repository-bun base for roles.
func NewRoleRepository(db *bun.DB) repository.Repository[*Role] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(r *Role) string {
			return r.Name
		},
	})
}

// BunRepository stores roles in SQL.
type BunRepository struct {
	repo repository.Repository[*Role]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: NewRoleRepository(db)}
}

func (r *BunRepository) Upsert(ctx context.Context, role access.Role) (*Role, error) {
	if err := Validate(role); err != nil {
		return nil, err
	}
	record := NewRole(role)
	now := time.Now().UTC()
	record.UpdatedAt = now

	existing, err := r.repo.GetByID(ctx, record.ID.String())
	switch {
	case err == nil:
		record.CreatedAt = existing.CreatedAt
		updated, err := r.repo.Update(ctx, record,
			repository.UpdateByID(record.ID.String()),
			repository.UpdateColumns("name", "rights", "updated_at"),
		)
		if err != nil {
			return nil, mapRepositoryError(err, role.Name)
		}
		return updated, nil
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		record.CreatedAt = now
		created, err := r.repo.Create(ctx, record)
		if err != nil {
			return nil, mapRepositoryError(err, role.Name)
		}
		return created, nil
	default:
		return nil, mapRepositoryError(err, role.Name)
	}
}

func (r *BunRepository) GetByName(ctx context.Context, name string) (*Role, error) {
	record, err := r.repo.GetByID(ctx, NewRole(access.Role{Name: name}).ID.String())
	if err != nil {
		return nil, mapRepositoryError(err, name)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Role, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC, ?TableAlias.name ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "")
	}
	return records, nil
}

func (r *BunRepository) Delete(ctx context.Context, name string) error {
	record, err := r.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &Role{ID: record.ID}); err != nil {
		return mapRepositoryError(err, name)
	}
	return nil
}

func mapRepositoryError(err error, name string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Name: name}
	}
	return fmt.Errorf("role repository error: %w", err)
}
