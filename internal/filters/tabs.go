package filters

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

const (
	TabAll       = "all"
	TabPublished = "published"
	TabDraft     = "draft"
	TabTrash     = "trash"
)

const (
	FieldDeleted = "deleted"
	FieldStatus  = "status"
)

// Filter is an equality constraint on a top-level entity field.
type Filter struct {
	Field string
	Value any
}

// Mapping maps list tab names to the filters they apply.
type Mapping map[string][]Filter

// Default is the tab set of the admin list views.
func Default() Mapping {
	return Mapping{
		TabAll:       {{Field: FieldDeleted, Value: false}},
		TabPublished: {{Field: FieldDeleted, Value: false}, {Field: FieldStatus, Value: "published"}},
		TabDraft:     {{Field: FieldDeleted, Value: false}, {Field: FieldStatus, Value: "draft"}},
		TabTrash:     {{Field: FieldDeleted, Value: true}},
	}
}

// Resolve returns the filters of tab. Tab names are case-insensitive. An
// unknown tab gets the "all" filters and ok=false.
func (m Mapping) Resolve(tab string) ([]Filter, bool) {
	key := strings.ToLower(strings.TrimSpace(tab))
	if key == "" {
		key = TabAll
	}
	if filters, ok := m[key]; ok {
		return slices.Clone(filters), true
	}
	return slices.Clone(m[TabAll]), false
}

// Tabs lists the tab names in sorted order.
func (m Mapping) Tabs() []string {
	return slices.Sorted(maps.Keys(m))
}

// With returns a copy of m with tab set to filters.
func (m Mapping) With(tab string, filters ...Filter) Mapping {
	out := make(Mapping, len(m)+1)
	for key, value := range m {
		out[key] = slices.Clone(value)
	}
	out[strings.ToLower(strings.TrimSpace(tab))] = slices.Clone(filters)
	return out
}

// Match evaluates filters against a field map. A missing field matches a
// false or nil filter value, so entities created before the flag existed
// show up in the non-trash tabs.
func Match(fields map[string]any, filters []Filter) bool {
	for _, filter := range filters {
		value, ok := fields[filter.Field]
		if !ok {
			if filter.Value == nil || filter.Value == false {
				continue
			}
			return false
		}
		if !reflect.DeepEqual(value, filter.Value) {
			return false
		}
	}
	return true
}
