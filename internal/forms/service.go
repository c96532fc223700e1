package forms

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-translated/internal/access"
	"github.com/goliatone/go-translated/internal/entities"
	"github.com/goliatone/go-translated/internal/fields"
	"github.com/goliatone/go-translated/internal/filters"
	"github.com/goliatone/go-translated/internal/identity"
	"github.com/goliatone/go-translated/internal/locales"
	"github.com/goliatone/go-translated/internal/logging"
	"github.com/goliatone/go-translated/internal/markdown"
	"github.com/goliatone/go-translated/internal/projection"
	"github.com/goliatone/go-translated/pkg/interfaces"
)

const slugField = "slug"

// Service runs the create, edit and list flows of registered entity classes.
type Service interface {
	Register(def Definition) error
	Definition(class string) (Definition, bool)
	Codec(class string) (*fields.Codec, error)
	Create(ctx context.Context, class string, flat fields.FlatRecord) (*entities.Entity, error)
	Update(ctx context.Context, id uuid.UUID, flat fields.FlatRecord) (*entities.Entity, error)
	Edit(ctx context.Context, id uuid.UUID) (fields.FlatRecord, error)
	View(ctx context.Context, id uuid.UUID, tab projection.Tab) (projection.Projected, error)
	List(ctx context.Context, class, listTab string, tab projection.Tab) ([]projection.Projected, error)
	Preview(ctx context.Context, id uuid.UUID, tab projection.Tab) (projection.Projected, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Import(ctx context.Context, class string, docs []markdown.Import) ([]*entities.Entity, error)
	// WithAccess returns a service that checks every call against roles.
	WithAccess(roles []access.RoleLike) Service
}

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithLogger sets the logger; the default discards output.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer sets the markdown renderer used by Preview.
func WithRenderer(renderer *markdown.Renderer) ServiceOption {
	return func(s *service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithTabs replaces the list tab filters.
func WithTabs(tabs filters.Mapping) ServiceOption {
	return func(s *service) {
		if tabs != nil {
			s.tabs = tabs
		}
	}
}

type formSet struct {
	mu    sync.RWMutex
	forms map[string]*form
}

type service struct {
	registry *locales.Registry
	repo     entities.Repository
	renderer *markdown.Renderer
	tabs     filters.Mapping
	logger   interfaces.Logger
	forms    *formSet

	gated bool
	roles []access.RoleLike
}

// NewService builds the form service over repo.
func NewService(registry *locales.Registry, repo entities.Repository, opts ...ServiceOption) Service {
	if registry == nil {
		panic(ErrRegistryRequired)
	}
	if repo == nil {
		panic(ErrRepositoryRequired)
	}
	s := &service{
		registry: registry,
		repo:     repo,
		renderer: markdown.NewRenderer(markdown.Options{}),
		tabs:     filters.Default(),
		logger:   logging.NoOp(),
		forms:    &formSet{forms: map[string]*form{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) WithAccess(roles []access.RoleLike) Service {
	gated := *s
	gated.gated = true
	gated.roles = append([]access.RoleLike(nil), roles...)
	return &gated
}

func (s *service) Register(def Definition) error {
	f, err := newForm(def, s.registry)
	if err != nil {
		return err
	}
	s.forms.mu.Lock()
	defer s.forms.mu.Unlock()
	if _, exists := s.forms.forms[f.def.Class]; exists {
		return ErrDuplicateClass
	}
	s.forms.forms[f.def.Class] = f
	s.logger.Debug("forms.register", "class", f.def.Class, "translatable", len(f.def.Translatable))
	return nil
}

func (s *service) Definition(class string) (Definition, bool) {
	f, err := s.form(class)
	if err != nil {
		return Definition{}, false
	}
	return f.def, true
}

func (s *service) Codec(class string) (*fields.Codec, error) {
	f, err := s.form(class)
	if err != nil {
		return nil, err
	}
	return f.codec, nil
}

func (s *service) Create(ctx context.Context, class string, flat fields.FlatRecord) (*entities.Entity, error) {
	f, err := s.form(class)
	if err != nil {
		return nil, err
	}
	if err := s.require(f.def.Class, access.OpCreate); err != nil {
		return nil, err
	}
	record := f.codec.Encode(flat)
	return s.persist(ctx, f, uuid.Nil, record, true)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, flat fields.FlatRecord) (*entities.Entity, error) {
	existing, f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.require(f.def.Class, access.OpUpdate); err != nil {
		return nil, err
	}
	record := f.codec.Merge(existing.Record(), flat)
	return s.persist(ctx, f, existing.ID, record, false)
}

func (s *service) Edit(ctx context.Context, id uuid.UUID) (fields.FlatRecord, error) {
	existing, f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.require(f.def.Class, access.OpGet); err != nil {
		return nil, err
	}
	return f.codec.Decode(existing.Record()), nil
}

func (s *service) View(ctx context.Context, id uuid.UUID, tab projection.Tab) (projection.Projected, error) {
	existing, f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.require(f.def.Class, access.OpGet); err != nil {
		return nil, err
	}
	return s.project(f, existing, tab), nil
}

func (s *service) List(ctx context.Context, class, listTab string, tab projection.Tab) ([]projection.Projected, error) {
	f, err := s.form(class)
	if err != nil {
		return nil, err
	}
	if err := s.require(f.def.Class, access.OpFind); err != nil {
		return nil, err
	}
	constraints, ok := s.tabs.Resolve(listTab)
	if !ok {
		s.logger.Debug("forms.list.unknown_tab", "class", f.def.Class, "tab", listTab)
	}
	records, err := s.repo.List(ctx, f.def.Class, constraints...)
	if err != nil {
		return nil, err
	}
	out := make([]projection.Projected, len(records))
	for i, record := range records {
		out[i] = s.project(f, record, tab)
	}
	return out, nil
}

func (s *service) Preview(ctx context.Context, id uuid.UUID, tab projection.Tab) (projection.Projected, error) {
	existing, f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.require(f.def.Class, access.OpGet); err != nil {
		return nil, err
	}
	view := s.project(f, existing, tab)
	for _, name := range f.def.Markdown {
		rendered, err := s.renderer.RenderString(view[name])
		if err != nil {
			return nil, err
		}
		view[name] = rendered
	}
	return view, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, f, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.require(f.def.Class, access.OpDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, existing.ID, false); err != nil {
		return err
	}
	logging.WithEntityContext(s.logger, f.def.Class, existing.ID.String(), "").Info("forms.delete.success")
	return nil
}

// Import creates or updates one entity per document. Entity IDs derive from
// the class and document key, so importing the same tree twice updates in
// place.
func (s *service) Import(ctx context.Context, class string, docs []markdown.Import) ([]*entities.Entity, error) {
	f, err := s.form(class)
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Entity, 0, len(docs))
	for _, doc := range docs {
		id := identity.EntityUUID(f.def.Class, doc.Key)
		record, dropped := f.codec.Restrict(doc.Record)
		if len(dropped) > 0 {
			s.logger.Debug("forms.import.fields_dropped", "class", f.def.Class, "key", doc.Key, "fields", dropped)
		}
		existing, err := s.repo.GetByID(ctx, id)
		switch {
		case err == nil:
			if err := s.require(f.def.Class, access.OpUpdate); err != nil {
				return out, err
			}
			merged := f.codec.Merge(existing.Record(), record)
			updated, err := s.persist(ctx, f, id, merged, false)
			if err != nil {
				return out, err
			}
			out = append(out, updated)
		case errors.Is(err, entities.ErrNotFound):
			if err := s.require(f.def.Class, access.OpCreate); err != nil {
				return out, err
			}
			created, err := s.persist(ctx, f, id, f.codec.Encode(record), true)
			if err != nil {
				return out, err
			}
			out = append(out, created)
		default:
			return out, err
		}
	}
	s.logger.Info("forms.import.complete", "class", f.def.Class, "count", len(out))
	return out, nil
}

func (s *service) persist(ctx context.Context, f *form, id uuid.UUID, record fields.Record, create bool) (*entities.Entity, error) {
	translated := record.Translated()
	deriveSlugs(translated, f.def.SlugFrom)
	record[fields.TranslatedKey] = translated

	logger := logging.WithEntityContext(s.logger, f.def.Class, id.String(), "")
	if err := f.validator.Validate(record); err != nil {
		logger.Warn("forms.validate.failed", "error", err)
		return nil, err
	}

	entity := entities.FromRecord(f.def.Class, record)
	entity.ID = id
	if create {
		created, err := s.repo.Create(ctx, entity)
		if err != nil {
			logger.Error("forms.create.failed", "error", err)
			return nil, err
		}
		logging.WithEntityContext(s.logger, f.def.Class, created.ID.String(), "").Info("forms.create.success", "locales", created.Translated.Locales())
		return created, nil
	}
	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		logger.Error("forms.update.failed", "error", err)
		return nil, err
	}
	logger.Info("forms.update.success", "locales", updated.Translated.Locales())
	return updated, nil
}

func (s *service) project(f *form, entity *entities.Entity, tab projection.Tab) projection.Projected {
	out := f.projector.Project(entity.Record(), tab)
	out["id"] = entity.ID.String()
	out["class"] = entity.Class
	return out
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*entities.Entity, *form, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.form(existing.Class)
	if err != nil {
		return nil, nil, err
	}
	return existing, f, nil
}

func (s *service) form(class string) (*form, error) {
	class = strings.TrimSpace(class)
	if class == "" {
		return nil, ErrClassRequired
	}
	s.forms.mu.RLock()
	defer s.forms.mu.RUnlock()
	f, ok := s.forms.forms[class]
	if !ok {
		return nil, ErrUnknownClass
	}
	return f, nil
}

func (s *service) require(class string, op access.Operation) error {
	if !s.gated || access.CanAccessTo(s.roles, class, op) {
		return nil
	}
	s.logger.Warn("forms.access.denied", "class", class, "operation", string(op))
	return access.Error{Class: class, Operation: op}
}

// deriveSlugs fills a missing or empty slug in every locale bucket from the
// source field.
func deriveSlugs(translated fields.TranslatedRecord, source string) {
	if source == "" {
		return
	}
	for _, bucket := range translated {
		if current, _ := bucket[slugField].(string); strings.TrimSpace(current) != "" {
			continue
		}
		value, _ := bucket[source].(string)
		if strings.TrimSpace(value) == "" {
			continue
		}
		normalized, err := slug.Normalize(value)
		if err != nil || normalized == "" {
			continue
		}
		bucket[slugField] = normalized
	}
}
