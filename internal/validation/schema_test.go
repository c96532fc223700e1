package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-translated/internal/fields"
)

func articleValidator(t *testing.T) *Validator {
	t.Helper()
	schema := RecordSchema([]string{"en", "fr"}, []string{"title", "body"}, map[string]string{"title": "string"})
	validator, err := NewValidator(schema)
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}
	return validator
}

func TestValidatorAcceptsWellFormedRecords(t *testing.T) {
	validator := articleValidator(t)

	record := fields.Record{
		fields.TranslatedKey: fields.TranslatedRecord{
			"en": {"title": "Hello", "body": "Text"},
			"fr": {"title": "Bonjour"},
		},
		"status":   "draft",
		"position": 4,
	}
	if err := validator.Validate(record); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	partial := fields.Record{fields.TranslatedKey: fields.TranslatedRecord{}}
	if err := validator.Validate(partial); err != nil {
		t.Fatalf("partial translation must be valid, got %v", err)
	}
}

func TestValidatorReportsIssues(t *testing.T) {
	validator := articleValidator(t)

	cases := []struct {
		name     string
		record   fields.Record
		location string
	}{
		{
			name:     "missing translated",
			record:   fields.Record{"status": "draft"},
			location: "",
		},
		{
			name:     "unregistered locale",
			record:   fields.Record{fields.TranslatedKey: fields.TranslatedRecord{"mg": {"title": "Salama"}}},
			location: "/translated",
		},
		{
			name:     "field outside allow-list",
			record:   fields.Record{fields.TranslatedKey: fields.TranslatedRecord{"en": {"secret": "x"}}},
			location: "/translated/en",
		},
		{
			name:     "wrong field type",
			record:   fields.Record{fields.TranslatedKey: fields.TranslatedRecord{"en": {"title": 12}}},
			location: "/translated/en/title",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.Validate(tc.record)
			if !errors.Is(err, ErrRecordValidation) {
				t.Fatalf("expected ErrRecordValidation, got %v", err)
			}
			issues := Issues(err)
			if len(issues) == 0 {
				t.Fatalf("expected issues, got none")
			}
			found := false
			for _, issue := range issues {
				if strings.TrimSpace(issue.Location) == tc.location {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected issue at %q, got %+v", tc.location, issues)
			}
		})
	}
}

func TestNilValidatorAcceptsEverything(t *testing.T) {
	var validator *Validator
	if err := validator.Validate(fields.Record{"anything": true}); err != nil {
		t.Fatalf("nil validator returned %v", err)
	}
}

func TestValidateRecordRejectsBrokenSchema(t *testing.T) {
	err := ValidateRecord(map[string]any{"type": 12}, fields.Record{})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}
