package di

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-translated/internal/access"
	"github.com/goliatone/go-translated/internal/entities"
	"github.com/goliatone/go-translated/internal/fields"
	"github.com/goliatone/go-translated/internal/forms"
	"github.com/goliatone/go-translated/internal/logging/gologger"
	"github.com/goliatone/go-translated/internal/projection"
	"github.com/goliatone/go-translated/internal/roles"
	"github.com/goliatone/go-translated/internal/runtimeconfig"
	"github.com/goliatone/go-translated/pkg/testsupport"
)

func TestNewContainerDefaultsToMemory(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok := container.Entities().(*entities.MemoryRepository); !ok {
		t.Fatalf("expected memory entity repository, got %T", container.Entities())
	}
	if _, ok := container.Roles().(*roles.MemoryRepository); !ok {
		t.Fatalf("expected memory role repository, got %T", container.Roles())
	}
	if container.DB() != nil {
		t.Fatalf("memory storage must not open a database")
	}
	if err := container.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate on memory storage: %v", err)
	}
	if got := container.Registry().Codes(); len(got) != 3 || got[0] != "en" {
		t.Fatalf("registry codes = %v", got)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "redis"
	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if logger := provider.GetLogger("translated.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestContainerWithBunStorage(t *testing.T) {
	ctx := context.Background()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage = runtimeconfig.StorageConfig{Provider: "bun", Dialect: "sqlite", DSN: "unused"}
	cfg.Cache.Enabled = true

	container, err := NewContainer(cfg, WithBunDB(testsupport.NewBunDB(t)))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if err := container.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, ok := container.Entities().(*entities.BunRepository); !ok {
		t.Fatalf("expected bun entity repository, got %T", container.Entities())
	}

	svc := container.Forms()
	if err := svc.Register(forms.Definition{Class: "Page", Translatable: []string{"title"}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	created, err := svc.Create(ctx, "Page", fields.FlatRecord{"fr:title": "Accueil"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	view, err := svc.View(ctx, created.ID, projection.TabFor(container.Registry(), "fr"))
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view["title"] != "Accueil" {
		t.Fatalf("view = %v", view)
	}
}

func TestSessionRolesReportsAdmin(t *testing.T) {
	ctx := context.Background()
	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if err := roles.Seed(ctx, container.Roles(),
		access.Role{Name: "admin"},
		access.Role{Name: "editor", Rights: []access.RightsItem{{ClassName: "Page", Rights: access.Rights{Update: true}}}},
	); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resolved, isAdmin, err := container.SessionRoles(ctx, "editor")
	if err != nil {
		t.Fatalf("SessionRoles: %v", err)
	}
	if isAdmin || len(resolved) != 1 {
		t.Fatalf("editor session = %v admin=%v", resolved, isAdmin)
	}

	_, isAdmin, err = container.SessionRoles(ctx, "editor", "admin")
	if err != nil || !isAdmin {
		t.Fatalf("expected admin session, got admin=%v err=%v", isAdmin, err)
	}
}
