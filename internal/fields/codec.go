package fields

import (
	"sort"
	"strings"

	"github.com/goliatone/go-translated/internal/locales"
)

// Key builds the flat form key for a translated field.
func Key(locale, field string) string {
	return locale + Separator + field
}

// SplitKey cuts key at the first separator. ok is true whenever the prefix
// is one of known, even if the field part is empty ("en:" is field "" of
// en); anything else is a top-level field named by the whole key.
func SplitKey(key string, known map[string]struct{}) (locale, field string, ok bool) {
	prefix, suffix, found := strings.Cut(key, Separator)
	if !found {
		return "", "", false
	}
	if _, registered := known[prefix]; !registered {
		return "", "", false
	}
	return prefix, suffix, true
}

// Encode turns submitted form values into the persisted shape. Keys whose
// prefix is a known locale land in translated[locale][field]; every other key
// is copied verbatim to the top level. The result always carries a
// "translated" entry, and a literal "translated" form key never overrides it.
func Encode(flat FlatRecord, known map[string]struct{}) Record {
	translated := TranslatedRecord{}
	out := Record{}

	for _, key := range sortedKeys(flat) {
		value := flat[key]
		if locale, field, ok := SplitKey(key, known); ok {
			bucket, exists := translated[locale]
			if !exists {
				bucket = map[string]any{}
				translated[locale] = bucket
			}
			bucket[field] = value
			continue
		}
		if key == TranslatedKey {
			continue
		}
		out[key] = value
	}

	out[TranslatedKey] = translated
	return out
}

// Decode turns a persisted record into form values. Only known locales and
// allow-listed translatable fields are emitted; others lists the top-level
// fields copied through unchanged.
func Decode(record Record, translatable, others []string, known map[string]struct{}) FlatRecord {
	out := FlatRecord{}
	if record == nil {
		return out
	}

	allowed := make(map[string]struct{}, len(translatable))
	for _, name := range translatable {
		allowed[name] = struct{}{}
	}

	for locale, bucket := range record.Translated() {
		if _, ok := known[locale]; !ok {
			continue
		}
		for field, value := range bucket {
			if _, ok := allowed[field]; !ok {
				continue
			}
			out[Key(locale, field)] = value
		}
	}

	for _, name := range others {
		if name == TranslatedKey {
			continue
		}
		if value, ok := record[name]; ok {
			out[name] = value
		}
	}
	return out
}

// Merge applies submitted form values on top of an existing record. Locales
// and fields that the update does not mention keep their stored values.
func Merge(existing Record, update FlatRecord, known map[string]struct{}) Record {
	encoded := Encode(update, known)
	out := existing.Clone()
	if out == nil {
		out = Record{}
	}

	base := existing.Translated()
	for locale, bucket := range encoded.Translated() {
		target, ok := base[locale]
		if !ok {
			target = map[string]any{}
			base[locale] = target
		}
		for field, value := range bucket {
			target[field] = value
		}
	}

	for key, value := range encoded {
		if key == TranslatedKey {
			continue
		}
		out[key] = value
	}
	out[TranslatedKey] = base
	return out
}

func sortedKeys(flat FlatRecord) []string {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Schema names the fields an entity class exposes to forms.
type Schema struct {
	Translatable []string
	Others       []string
}

// Codec binds the codec functions to a locale registry and an entity schema.
type Codec struct {
	registry *locales.Registry
	schema   Schema
}

// NewCodec builds a codec. The registry is read once per call and never
// modified.
func NewCodec(registry *locales.Registry, schema Schema) *Codec {
	return &Codec{
		registry: registry,
		schema: Schema{
			Translatable: append([]string(nil), schema.Translatable...),
			Others:       append([]string(nil), schema.Others...),
		},
	}
}

// Schema returns a copy of the bound schema.
func (c *Codec) Schema() Schema {
	return Schema{
		Translatable: append([]string(nil), c.schema.Translatable...),
		Others:       append([]string(nil), c.schema.Others...),
	}
}

// Encode runs Encode against the registry's locales.
func (c *Codec) Encode(flat FlatRecord) Record {
	return Encode(flat, c.registry.Set())
}

// Decode runs Decode with the bound allow-lists.
func (c *Codec) Decode(record Record) FlatRecord {
	return Decode(record, c.schema.Translatable, c.schema.Others, c.registry.Set())
}

// Merge runs Merge against the registry's locales.
func (c *Codec) Merge(existing Record, update FlatRecord) Record {
	return Merge(existing, update, c.registry.Set())
}

// FormKeys lists every input a form for this schema renders, locale by
// locale in registry order, followed by the non-translated fields.
func (c *Codec) FormKeys() []string {
	codes := c.registry.Codes()
	keys := make([]string, 0, len(codes)*len(c.schema.Translatable)+len(c.schema.Others))
	for _, locale := range codes {
		for _, field := range c.schema.Translatable {
			keys = append(keys, Key(locale, field))
		}
	}
	return append(keys, c.schema.Others...)
}

// Restrict returns a copy of flat without the translated keys whose field is
// not translatable in this schema, and the sorted list of dropped keys.
// Top-level keys are kept.
func (c *Codec) Restrict(flat FlatRecord) (FlatRecord, []string) {
	known := c.registry.Set()
	allowed := make(map[string]struct{}, len(c.schema.Translatable))
	for _, name := range c.schema.Translatable {
		allowed[name] = struct{}{}
	}

	out := make(FlatRecord, len(flat))
	var dropped []string
	for key, value := range flat {
		if _, field, ok := SplitKey(key, known); ok {
			if _, keep := allowed[field]; !keep {
				dropped = append(dropped, key)
				continue
			}
		}
		out[key] = value
	}
	sort.Strings(dropped)
	return out, dropped
}
