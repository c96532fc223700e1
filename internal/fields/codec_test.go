package fields

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/goliatone/go-translated/internal/locales"
)

var known = map[string]struct{}{"en": {}, "fr": {}, "mg": {}}

func TestEncodeGatesOnRecognisedLocale(t *testing.T) {
	got := Encode(FlatRecord{
		"xx:title": "A",
		"en:title": "B",
	}, known)

	if v, _ := got.Translated().Value("en", "title"); v != "B" {
		t.Fatalf("translated.en.title = %v, want B", v)
	}
	if got["xx:title"] != "A" {
		t.Fatalf("expected top-level xx:title=A, got %v", got)
	}
	if _, ok := got.Translated()["xx"]; ok {
		t.Fatalf("unknown locale must not create a bucket")
	}
}

func TestEncodeSplitsOnFirstSeparatorOnly(t *testing.T) {
	got := Encode(FlatRecord{"fr:meta:description": "x"}, known)

	if v, ok := got.Translated().Value("fr", "meta:description"); !ok || v != "x" {
		t.Fatalf("expected fr bucket to keep the rest of the key, got %v", got)
	}
}

func TestEncodeTopLevelAndEmptyCases(t *testing.T) {
	cases := []struct {
		name string
		in   FlatRecord
		want Record
	}{
		{
			name: "nil input still carries translated",
			in:   nil,
			want: Record{TranslatedKey: TranslatedRecord{}},
		},
		{
			name: "bare keys copied verbatim",
			in:   FlatRecord{"status": "draft", "position": 3},
			want: Record{"status": "draft", "position": 3, TranslatedKey: TranslatedRecord{}},
		},
		{
			name: "empty prefix stays top-level",
			in:   FlatRecord{":title": "a"},
			want: Record{":title": "a", TranslatedKey: TranslatedRecord{}},
		},
		{
			name: "recognised prefix with empty field is routed",
			in:   FlatRecord{"en:": "b", "xx:": "c"},
			want: Record{"xx:": "c", TranslatedKey: TranslatedRecord{"en": {"": "b"}}},
		},
		{
			name: "literal translated key is ignored",
			in:   FlatRecord{"translated": "oops", "mg:title": "Salama"},
			want: Record{TranslatedKey: TranslatedRecord{"mg": {"title": "Salama"}}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Encode(tc.in, known)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Encode() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestEncodeDoesNotMutateInput(t *testing.T) {
	in := FlatRecord{"en:title": "Hello", "status": "draft"}
	snapshot := FlatRecord{"en:title": "Hello", "status": "draft"}

	_ = Encode(in, known)

	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestDecodeDropsFieldsOutsideAllowList(t *testing.T) {
	record := Record{TranslatedKey: TranslatedRecord{"en": {"title": "A", "secret": "B"}}}

	got := Decode(record, []string{"title"}, nil, known)

	want := FlatRecord{"en:title": "A"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Decode() = %v, want %v", got, want)
	}
}

func TestDecodeSkipsUnknownLocalesAndCopiesOthers(t *testing.T) {
	record := Record{
		TranslatedKey: TranslatedRecord{
			"en": {"title": "Hello"},
			"de": {"title": "Hallo"},
		},
		"status":   "published",
		"internal": "not listed",
	}

	got := Decode(record, []string{"title"}, []string{"status", "missing"}, known)

	want := FlatRecord{"en:title": "Hello", "status": "published"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Decode() = %v, want %v", got, want)
	}
}

func TestDecodeAcceptsJSONShapedRecords(t *testing.T) {
	raw := []byte(`{"translated":{"fr":{"title":"Bonjour","body":"Texte"},"en":"garbage"},"status":"draft"}`)
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := Decode(record, []string{"title", "body"}, []string{"status"}, known)

	want := FlatRecord{"fr:title": "Bonjour", "fr:body": "Texte", "status": "draft"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Decode() = %v, want %v", got, want)
	}
}

func TestDecodeNeverPanicsOnOddInput(t *testing.T) {
	inputs := []Record{
		nil,
		{},
		{TranslatedKey: nil},
		{TranslatedKey: 42},
		{TranslatedKey: map[string]any{"en": nil}},
		{TranslatedKey: map[string]map[string]string{"en": {"title": "x"}}},
	}
	for _, in := range inputs {
		_ = Decode(in, []string{"title"}, []string{"translated"}, known)
	}
}

func TestRoundTripRestoresAllowListedFields(t *testing.T) {
	flat := FlatRecord{
		"en:title":   "Hello",
		"fr:title":   "Bonjour",
		"mg:title":   "Salama",
		"en:summary": "Short",
		"status":     "draft",
		"featured":   true,
	}

	encoded := Encode(flat, known)
	decoded := Decode(encoded, []string{"title", "summary"}, []string{"status", "featured"}, known)

	if !reflect.DeepEqual(decoded, flat) {
		t.Fatalf("round trip = %v, want %v", decoded, flat)
	}
}

func TestRoundTripThroughJSON(t *testing.T) {
	flat := FlatRecord{"en:title": "Hello", "fr:body": "Corps", "status": "draft"}

	payload, err := json.Marshal(Encode(flat, known))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var stored Record
	if err := json.Unmarshal(payload, &stored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := Decode(stored, []string{"title", "body"}, []string{"status"}, known)
	if !reflect.DeepEqual(got, flat) {
		t.Fatalf("Decode() = %v, want %v", got, flat)
	}
}

func TestMergeKeepsUntouchedLocales(t *testing.T) {
	existing := Record{
		TranslatedKey: TranslatedRecord{
			"en": {"title": "Hello", "body": "Body"},
			"fr": {"title": "Bonjour"},
		},
		"status": "draft",
		"author": "ada",
	}

	merged := Merge(existing, FlatRecord{"en:title": "Hi", "mg:title": "Salama", "status": "published"}, known)

	want := Record{
		TranslatedKey: TranslatedRecord{
			"en": {"title": "Hi", "body": "Body"},
			"fr": {"title": "Bonjour"},
			"mg": {"title": "Salama"},
		},
		"status": "published",
		"author": "ada",
	}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("Merge() = %#v, want %#v", merged, want)
	}

	if v, _ := existing.Translated().Value("en", "title"); v != "Hello" {
		t.Fatalf("existing record mutated: %v", existing)
	}
}

func TestCodecBindsRegistryAndSchema(t *testing.T) {
	reg := locales.MustRegistry(locales.Config{DefaultLocale: "en", Locales: []string{"en", "fr"}})
	codec := NewCodec(reg, Schema{Translatable: []string{"title"}, Others: []string{"status"}})

	record := codec.Encode(FlatRecord{"en:title": "Hello", "mg:title": "Salama", "status": "draft"})
	if record["mg:title"] != "Salama" {
		t.Fatalf("mg is not registered, expected top-level key, got %v", record)
	}

	got := codec.Decode(record)
	want := FlatRecord{"en:title": "Hello", "status": "draft"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Decode() = %v, want %v", got, want)
	}

	if keys, want := codec.FormKeys(), []string{"en:title", "fr:title", "status"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("FormKeys() = %v, want %v", keys, want)
	}
}

func TestSplitKey(t *testing.T) {
	cases := []struct {
		key           string
		locale, field string
		ok            bool
	}{
		{"en:title", "en", "title", true},
		{"en:a:b", "en", "a:b", true},
		{"xx:title", "", "", false},
		{"title", "", "", false},
		{"en:", "en", "", true},
	}
	for _, tc := range cases {
		locale, field, ok := SplitKey(tc.key, known)
		if locale != tc.locale || field != tc.field || ok != tc.ok {
			t.Fatalf("SplitKey(%q) = (%q, %q, %v)", tc.key, locale, field, ok)
		}
	}
}

func TestTranslatedRecordLocalesAreSorted(t *testing.T) {
	record := TranslatedRecord{"mg": {}, "en": {"title": "Hello"}, "fr": nil}
	if got := record.Locales(); !reflect.DeepEqual(got, []string{"en", "fr", "mg"}) {
		t.Fatalf("Locales() = %v", got)
	}
	if got := (TranslatedRecord{}).Locales(); len(got) != 0 {
		t.Fatalf("empty record Locales() = %v", got)
	}
}

func TestCodecRestrictDropsUntranslatableFields(t *testing.T) {
	registry := locales.MustRegistry(locales.Config{DefaultLocale: "en", Locales: []string{"en", "fr"}})
	codec := NewCodec(registry, Schema{Translatable: []string{"title"}, Others: []string{"status"}})

	in := FlatRecord{"en:title": "Hello", "fr:summary": "x", "en:body": "y", "xx:body": "z", "status": "draft"}
	got, dropped := codec.Restrict(in)

	want := FlatRecord{"en:title": "Hello", "xx:body": "z", "status": "draft"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Restrict() = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(dropped, []string{"en:body", "fr:summary"}) {
		t.Fatalf("dropped = %v", dropped)
	}
	if len(in) != 5 {
		t.Fatalf("input mutated: %v", in)
	}
}
