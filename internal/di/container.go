package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-translated/internal/access"
	"github.com/goliatone/go-translated/internal/entities"
	"github.com/goliatone/go-translated/internal/forms"
	"github.com/goliatone/go-translated/internal/locales"
	"github.com/goliatone/go-translated/internal/logging"
	"github.com/goliatone/go-translated/internal/logging/gologger"
	"github.com/goliatone/go-translated/internal/markdown"
	"github.com/goliatone/go-translated/internal/roles"
	"github.com/goliatone/go-translated/internal/runtimeconfig"
	"github.com/goliatone/go-translated/pkg/interfaces"
)

// Option mutates the container before services are built.
type Option func(*Container)

// WithBunDB uses db instead of opening one from the storage DSN.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the go-repository-cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithEntityRepository overrides the entity store.
func WithEntityRepository(repo entities.Repository) Option {
	return func(c *Container) {
		c.entityRepo = repo
	}
}

// WithRoleRepository overrides the role store.
func WithRoleRepository(repo roles.Repository) Option {
	return func(c *Container) {
		c.roleRepo = repo
	}
}

// Container wires the module services from configuration.
type Container struct {
	Config runtimeconfig.Config

	registry       *locales.Registry
	loggerProvider interfaces.LoggerProvider
	bunDB          *bun.DB
	ownsDB         bool
	cacheService   repocache.CacheService
	keySerializer  repocache.KeySerializer
	entityRepo     entities.Repository
	roleRepo       roles.Repository
	formSvc        forms.Service
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	registry, err := locales.NewRegistry(cfg.Locales)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, registry: registry}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()

	renderer := markdown.NewRenderer(markdown.Options{
		Extensions: cfg.Markdown.Extensions,
		HardWraps:  cfg.Markdown.HardWraps,
		SafeMode:   cfg.Markdown.SafeMode,
	})
	c.formSvc = forms.NewService(registry, c.entityRepo,
		forms.WithLogger(logging.FormsLogger(c.loggerProvider)),
		forms.WithRenderer(renderer),
	)
	return c, nil
}

// Registry returns the locale registry.
func (c *Container) Registry() *locales.Registry { return c.registry }

// LoggerProvider returns the logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Entities returns the entity store.
func (c *Container) Entities() entities.Repository { return c.entityRepo }

// Roles returns the role store.
func (c *Container) Roles() roles.Repository { return c.roleRepo }

// Forms returns the form service.
func (c *Container) Forms() forms.Service { return c.formSvc }

// DB returns the bun database, nil for memory storage.
func (c *Container) DB() *bun.DB { return c.bunDB }

// Migrate creates the entity and role tables when storage is bun backed.
func (c *Container) Migrate(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	models := []any{(*entities.Entity)(nil), (*roles.Role)(nil)}
	for _, model := range models {
		if _, err := c.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	return nil
}

// SessionRoles resolves role names into the roles access checks take. The
// second value reports whether the configured administrator role is among
// them.
func (c *Container) SessionRoles(ctx context.Context, names ...string) ([]access.RoleLike, bool, error) {
	resolved, err := roles.Resolve(ctx, c.roleRepo, names...)
	if err != nil {
		return nil, false, err
	}
	return resolved, access.HasRole(resolved, c.Config.Access.AdminRole), nil
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c.bunDB != nil && c.ownsDB {
		return c.bunDB.Close()
	}
	return nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}
	format := c.Config.Logging.Format
	if strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "console") {
		format = "console"
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    format,
		AddSource: c.Config.Logging.AddSource,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || !strings.EqualFold(c.Config.Storage.Provider, runtimeconfig.StorageBun) {
		return nil
	}
	dsn := c.Config.Storage.DSN
	switch strings.ToLower(strings.TrimSpace(c.Config.Storage.Dialect)) {
	case runtimeconfig.DialectPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		c.bunDB = bun.NewDB(sqlDB, pgdialect.New())
	default:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		c.bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
		c.bunDB.SetMaxOpenConns(1)
	}
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		cfg.TTL = c.Config.Cache.DefaultTTL
		if cfg.TTL <= 0 {
			cfg.TTL = time.Minute
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	logger := logging.EntitiesLogger(c.loggerProvider)
	if c.entityRepo == nil {
		if c.bunDB != nil {
			c.entityRepo = entities.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
			logger.Debug("entities.storage", "provider", "bun", "cache", c.cacheService != nil)
		} else {
			c.entityRepo = entities.NewMemoryRepository()
			logger.Debug("entities.storage", "provider", "memory")
		}
	}
	if c.roleRepo == nil {
		if c.bunDB != nil {
			c.roleRepo = roles.NewBunRepository(c.bunDB)
		} else {
			c.roleRepo = roles.NewMemoryRepository()
		}
		logging.RolesLogger(c.loggerProvider).Debug("roles.storage", "bun", c.bunDB != nil)
	}
}
