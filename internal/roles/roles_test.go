package roles_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-translated/internal/access"
	"github.com/goliatone/go-translated/internal/identity"
	"github.com/goliatone/go-translated/internal/roles"
	"github.com/goliatone/go-translated/pkg/testsupport"
)

func repositories(t *testing.T) map[string]roles.Repository {
	t.Helper()
	return map[string]roles.Repository{
		"memory": roles.NewMemoryRepository(),
		"bun":    roles.NewBunRepository(testsupport.NewBunDB(t, (*roles.Role)(nil))),
	}
}

func editor() access.Role {
	return access.Role{
		Name: "editor",
		Rights: []access.RightsItem{
			{ClassName: "Article", Rights: access.Rights{Find: true, Get: true, Update: true}},
		},
	}
}

func TestRoleRepositories(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			stored, err := repo.Upsert(ctx, editor())
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if stored.ID != identity.RoleUUID("editor") {
				t.Fatalf("role id = %s, want deterministic id", stored.ID)
			}

			widened := editor()
			widened.Rights[0].Rights.Create = true
			again, err := repo.Upsert(ctx, widened)
			if err != nil {
				t.Fatalf("second upsert: %v", err)
			}
			if again.ID != stored.ID {
				t.Fatalf("upsert changed id: %s != %s", again.ID, stored.ID)
			}

			fetched, err := repo.GetByName(ctx, "editor")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !access.CanAccessTo([]access.RoleLike{fetched}, "Article", access.OpCreate) {
				t.Fatalf("expected upserted create right, got %+v", fetched.Rights)
			}

			list, err := repo.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 1 {
				t.Fatalf("list = %d roles, want 1", len(list))
			}

			if err := repo.Delete(ctx, "editor"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := repo.GetByName(ctx, "editor"); !errors.Is(err, roles.ErrRoleNotFound) {
				t.Fatalf("expected ErrRoleNotFound, got %v", err)
			}
			if err := repo.Delete(ctx, "editor"); !errors.Is(err, roles.ErrRoleNotFound) {
				t.Fatalf("expected ErrRoleNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestUpsertValidatesInput(t *testing.T) {
	cases := []struct {
		name string
		role access.Role
	}{
		{"missing name", access.Role{Rights: []access.RightsItem{{ClassName: "Article"}}}},
		{"missing class name", access.Role{Name: "editor", Rights: []access.RightsItem{{ClassName: " "}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := roles.NewMemoryRepository().Upsert(context.Background(), tc.role)
			if !errors.Is(err, roles.ErrInvalidRole) {
				t.Fatalf("expected ErrInvalidRole, got %v", err)
			}
		})
	}
}

func TestResolveSkipsUnknownNames(t *testing.T) {
	ctx := context.Background()
	repo := roles.NewMemoryRepository()
	admin := access.Role{Name: "admin"}
	if err := roles.Seed(ctx, repo, editor(), admin); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resolved, err := roles.Resolve(ctx, repo, "editor", "ghost", "admin")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("resolved %d roles, want 2", len(resolved))
	}
	if !access.HasRole(resolved, "admin") {
		t.Fatalf("expected admin sentinel role")
	}
	for _, role := range resolved {
		if _, ok := role.(access.Role); !ok {
			t.Fatalf("expected detached access.Role, got %T", role)
		}
	}
	if !access.CanAccessTo(resolved, "Article", access.OpUpdate) {
		t.Fatalf("expected editor update right")
	}
	if access.CanAccessTo(resolved, "Article", access.OpDelete) {
		t.Fatalf("admin sentinel must not grant rights through CanAccessTo")
	}
}
