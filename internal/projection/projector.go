package projection

import (
	"maps"

	"github.com/goliatone/go-translated/internal/fields"
	"github.com/goliatone/go-translated/internal/locales"
)

// Projected is the single-locale view of a record handed to list and detail
// views.
type Projected map[string]any

// Project resolves each name from record[active]. Siblings are copied in
// first so projected names win on collision. A field missing from the active
// locale resolves to nil; other locales are never consulted.
func Project(record fields.TranslatedRecord, names []string, active string, siblings map[string]any) Projected {
	out := make(Projected, len(siblings)+len(names))
	maps.Copy(out, siblings)

	bucket := record[active]
	for _, name := range names {
		value, ok := bucket[name]
		if !ok {
			out[name] = nil
			continue
		}
		out[name] = value
	}
	return out
}

// ProjectRecord projects a persisted record, using its top-level fields as
// siblings.
func ProjectRecord(record fields.Record, names []string, active string) Projected {
	var translated fields.TranslatedRecord
	if _, ok := record[fields.TranslatedKey]; ok {
		translated = record.Translated()
	}
	return Project(translated, names, active, record.Others())
}

// ProjectArray projects every record, keeping order and length.
func ProjectArray(records []fields.Record, names []string, active string) []Projected {
	out := make([]Projected, len(records))
	for i, record := range records {
		out[i] = ProjectRecord(record, names, active)
	}
	return out
}

// Projector binds the projected field names of an entity class to a locale
// registry.
type Projector struct {
	registry *locales.Registry
	names    []string
}

// NewProjector builds a projector for names.
func NewProjector(registry *locales.Registry, names []string) *Projector {
	return &Projector{
		registry: registry,
		names:    append([]string(nil), names...),
	}
}

// Project projects record for the tab's active locale. A zero Tab projects
// the default locale.
func (p *Projector) Project(record fields.Record, tab Tab) Projected {
	return ProjectRecord(record, p.names, p.locale(tab))
}

// ProjectArray projects records for the tab's active locale.
func (p *Projector) ProjectArray(records []fields.Record, tab Tab) []Projected {
	return ProjectArray(records, p.names, p.locale(tab))
}

func (p *Projector) locale(tab Tab) string {
	if active := tab.Active(); active != "" {
		return active
	}
	return p.registry.Default()
}
