package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-translated/internal/fields"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrRecordValidation = errors.New("record validation failed")
)

// ValidationIssue is a single failure at a JSON pointer location.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError lists the issues found in a record.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrRecordValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrRecordValidation
}

// Issues extracts validation issues from err.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// RecordSchema describes the persisted shape of an entity class: a required
// "translated" object keyed only by codes, each bucket limited to the
// translatable names. types optionally pins a JSON type per field name.
// Top-level fields are left open.
func RecordSchema(codes []string, translatable []string, types map[string]string) map[string]any {
	bucketProps := make(map[string]any, len(translatable))
	for _, name := range translatable {
		if jsonType := normalizeJSONType(types[name]); jsonType != "" {
			bucketProps[name] = map[string]any{"type": jsonType}
			continue
		}
		bucketProps[name] = map[string]any{}
	}

	localeProps := make(map[string]any, len(codes))
	for _, code := range codes {
		localeProps[code] = map[string]any{
			"type":                 "object",
			"properties":           bucketProps,
			"additionalProperties": false,
		}
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			fields.TranslatedKey: map[string]any{
				"type":                 "object",
				"properties":           localeProps,
				"additionalProperties": false,
			},
		},
		"required": []any{fields.TranslatedKey},
	}
}

// Validator holds a compiled record schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schema.
func NewValidator(schema map[string]any) (*Validator, error) {
	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks record against the compiled schema. The record is passed
// through JSON first so named map types validate like decoded documents.
func (v *Validator) Validate(record fields.Record) error {
	if v == nil || v.schema == nil {
		return nil
	}
	payload, err := toJSONValue(record)
	if err != nil {
		return &PayloadValidationError{Cause: fmt.Errorf("%w: %v", ErrRecordValidation, err)}
	}
	if err := v.schema.Validate(payload); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

// ValidateRecord compiles schema and validates record in one call.
func ValidateRecord(schema map[string]any, record fields.Record) error {
	validator, err := NewValidator(schema)
	if err != nil {
		return err
	}
	return validator.Validate(record)
}

func toJSONValue(record fields.Record) (any, error) {
	if record == nil {
		record = fields.Record{}
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeJSONType(value string) string {
	switch normalized := strings.ToLower(strings.TrimSpace(value)); normalized {
	case "string", "number", "integer", "boolean", "object", "array", "null":
		return normalized
	default:
		return ""
	}
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("record.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("record.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
