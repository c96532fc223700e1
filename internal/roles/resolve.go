package roles

import (
	"context"
	"errors"

	"github.com/goliatone/go-translated/internal/access"
)

// Resolve loads the named roles for a session as detached access.Role values.
// Unknown names are skipped so a stale session keeps whatever rights still
// exist.
func Resolve(ctx context.Context, repo Repository, names ...string) ([]access.RoleLike, error) {
	out := make([]access.RoleLike, 0, len(names))
	for _, name := range names {
		role, err := repo.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, ErrRoleNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, role.Access())
	}
	return out, nil
}

// Seed upserts roles, typically the built-in administrator at startup.
func Seed(ctx context.Context, repo Repository, roles ...access.Role) error {
	for _, role := range roles {
		if _, err := repo.Upsert(ctx, role); err != nil {
			return err
		}
	}
	return nil
}
