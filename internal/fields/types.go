package fields

import (
	"maps"
	"sort"
)

const (
	// TranslatedKey is the top-level key that holds the per-locale buckets of
	// a persisted record.
	TranslatedKey = "translated"
	// Separator joins the locale and field name in flat form keys.
	Separator = ":"
)

// TranslatedRecord maps a locale code to the translated fields of that
// locale. Missing locales mean "not translated yet".
type TranslatedRecord map[string]map[string]any

// FlatRecord is the form-facing shape: "<locale>:<field>" keys for
// translated inputs and bare "<field>" keys for everything else.
type FlatRecord map[string]any

// Record is the persisted shape: a "translated" TranslatedRecord next to the
// non-translated top-level fields.
type Record map[string]any

// Translated returns a normalised copy of the record's translated buckets.
func (r Record) Translated() TranslatedRecord {
	if r == nil {
		return TranslatedRecord{}
	}
	return TranslatedFrom(r[TranslatedKey])
}

// Others returns a copy of the top-level fields, without "translated".
func (r Record) Others() map[string]any {
	out := make(map[string]any, len(r))
	for key, value := range r {
		if key == TranslatedKey {
			continue
		}
		out[key] = value
	}
	return out
}

// Clone copies the record two levels deep so translated buckets can be
// modified without touching the source.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	maps.Copy(out, r)
	if _, ok := r[TranslatedKey]; ok {
		out[TranslatedKey] = r.Translated()
	}
	return out
}

// Clone deep copies the buckets.
func (t TranslatedRecord) Clone() TranslatedRecord {
	if t == nil {
		return nil
	}
	out := make(TranslatedRecord, len(t))
	for locale, bucket := range t {
		out[locale] = cloneBucket(bucket)
	}
	return out
}

// Locales returns the bucket keys in sorted order.
func (t TranslatedRecord) Locales() []string {
	out := make([]string, 0, len(t))
	for locale := range t {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Value looks up a single translated field.
func (t TranslatedRecord) Value(locale, field string) (any, bool) {
	bucket, ok := t[locale]
	if !ok {
		return nil, false
	}
	value, ok := bucket[field]
	return value, ok
}

// TranslatedFrom normalises the dynamic shapes a "translated" value takes
// after a JSON round trip (map[string]any of map[string]any, string maps)
// into a TranslatedRecord copy. Values that are not maps are skipped.
func TranslatedFrom(value any) TranslatedRecord {
	out := TranslatedRecord{}
	switch typed := value.(type) {
	case TranslatedRecord:
		for locale, bucket := range typed {
			out[locale] = cloneBucket(bucket)
		}
	case map[string]map[string]any:
		for locale, bucket := range typed {
			out[locale] = cloneBucket(bucket)
		}
	case map[string]map[string]string:
		for locale, bucket := range typed {
			out[locale] = stringBucket(bucket)
		}
	case map[string]any:
		for locale, raw := range typed {
			if bucket, ok := bucketFrom(raw); ok {
				out[locale] = bucket
			}
		}
	}
	return out
}

func bucketFrom(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return cloneBucket(typed), true
	case map[string]string:
		return stringBucket(typed), true
	default:
		return nil, false
	}
}

func cloneBucket(bucket map[string]any) map[string]any {
	out := make(map[string]any, len(bucket))
	maps.Copy(out, bucket)
	return out
}

func stringBucket(bucket map[string]string) map[string]any {
	out := make(map[string]any, len(bucket))
	for key, value := range bucket {
		out[key] = value
	}
	return out
}
