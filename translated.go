package translated

import (
	"context"

	"github.com/goliatone/go-translated/internal/access"
	"github.com/goliatone/go-translated/internal/di"
	"github.com/goliatone/go-translated/internal/entities"
	"github.com/goliatone/go-translated/internal/fields"
	"github.com/goliatone/go-translated/internal/filters"
	"github.com/goliatone/go-translated/internal/forms"
	"github.com/goliatone/go-translated/internal/locales"
	"github.com/goliatone/go-translated/internal/projection"
	"github.com/goliatone/go-translated/internal/roles"
)

type (
	// FlatRecord is the form shape: "<locale>:<field>" and bare keys.
	FlatRecord = fields.FlatRecord
	// Record is the persisted shape with a "translated" bucket map.
	Record = fields.Record
	// TranslatedRecord maps locale codes to translated fields.
	TranslatedRecord = fields.TranslatedRecord
	// Codec binds encode and decode to a registry and a field schema.
	Codec = fields.Codec
	// FieldSchema lists the translatable and other fields of a class.
	FieldSchema = fields.Schema

	Registry  = locales.Registry
	Tab       = projection.Tab
	Projected = projection.Projected
	Projector = projection.Projector

	Operation  = access.Operation
	Rights     = access.Rights
	RightsItem = access.RightsItem
	Role       = access.Role
	RoleLike   = access.RoleLike

	Filter = filters.Filter

	Entity      = entities.Entity
	Definition  = forms.Definition
	FormService = forms.Service

	Option = di.Option
)

const (
	OpCreate = access.OpCreate
	OpFind   = access.OpFind
	OpGet    = access.OpGet
	OpUpdate = access.OpUpdate
	OpDelete = access.OpDelete
)

var (
	ErrForbidden     = access.ErrForbidden
	ErrNotFound      = entities.ErrNotFound
	ErrUnknownClass  = forms.ErrUnknownClass
	ErrRoleNotFound  = roles.ErrRoleNotFound
	ErrInvalidLocale = locales.ErrInvalidLocale
)

// Encode turns a flat form record into the persisted shape. Only keys whose
// prefix is one of localeCodes and whose field part is not empty are
// translated.
func Encode(flat FlatRecord, localeCodes []string) Record {
	return fields.Encode(flat, codeSet(localeCodes))
}

// Decode flattens record for form inputs, keeping only the translatable
// fields of known locales and the listed other fields.
func Decode(record Record, translatable, others, localeCodes []string) FlatRecord {
	return fields.Decode(record, translatable, others, codeSet(localeCodes))
}

// Project resolves names from the active locale only. Siblings are copied
// first and projected names win.
func Project(record TranslatedRecord, names []string, active string, siblings map[string]any) Projected {
	return projection.Project(record, names, active, siblings)
}

// ProjectArray projects every record in order.
func ProjectArray(records []Record, names []string, active string) []Projected {
	return projection.ProjectArray(records, names, active)
}

// SystemContext marks ctx as trusted tooling. Commands executed with it are
// not gated by role rights.
func SystemContext(ctx context.Context) context.Context {
	return access.WithSystem(ctx)
}

// CanAccessTo reports whether any role grants op on resourceClass.
func CanAccessTo(roles []RoleLike, resourceClass string, op Operation) bool {
	return access.CanAccessTo(roles, resourceClass, op)
}

// NewRegistry builds a locale registry.
func NewRegistry(defaultLocale string, codes ...string) (*Registry, error) {
	return locales.NewRegistry(locales.Config{DefaultLocale: defaultLocale, Locales: codes})
}

func codeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Module is the top level runtime.
type Module struct {
	container *di.Container
}

// New builds a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Forms returns the form service.
func (m *Module) Forms() FormService {
	return m.container.Forms()
}

// Registry returns the locale registry.
func (m *Module) Registry() *Registry {
	return m.container.Registry()
}

// Tab returns a tab on code, or on the default locale when code is unknown.
func (m *Module) Tab(code string) Tab {
	return projection.TabFor(m.container.Registry(), code)
}

// Codec returns the codec of a registered class.
func (m *Module) Codec(class string) (*Codec, error) {
	return m.container.Forms().Codec(class)
}

// Session resolves role names into a context carrying those roles, and a
// form service gated by them. Administrators get the ungated service and a
// context marked with access.WithAdmin, so commands run with that context are
// not gated either.
func (m *Module) Session(ctx context.Context, roleNames ...string) (context.Context, FormService, error) {
	resolved, isAdmin, err := m.container.SessionRoles(ctx, roleNames...)
	if err != nil {
		return ctx, nil, err
	}
	ctx = access.WithRoles(ctx, resolved)
	if isAdmin {
		return access.WithAdmin(ctx), m.container.Forms(), nil
	}
	return ctx, m.container.Forms().WithAccess(resolved), nil
}

// SeedRoles upserts roles.
func (m *Module) SeedRoles(ctx context.Context, items ...Role) error {
	return roles.Seed(ctx, m.container.Roles(), items...)
}

// Migrate creates the storage tables when bun storage is configured.
func (m *Module) Migrate(ctx context.Context) error {
	return m.container.Migrate(ctx)
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
