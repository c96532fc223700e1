package forms

import (
	"errors"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-translated/internal/fields"
	"github.com/goliatone/go-translated/internal/locales"
	"github.com/goliatone/go-translated/internal/projection"
	schema "github.com/goliatone/go-translated/internal/validation"
)

// Definition declares the form of an entity class.
type Definition struct {
	Class string
	// Translatable fields are edited once per locale as "<locale>:<field>".
	Translatable []string
	// Others are the non-translated fields the form edits.
	Others []string
	// Markdown lists translatable fields rendered to HTML by Preview.
	Markdown []string
	// SlugFrom names the translatable field a missing per-locale slug is
	// derived from.
	SlugFrom string
	// Types optionally pins a JSON type per translatable field.
	Types map[string]string
}

// Validate checks the definition is usable.
func (d Definition) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Class, validation.Required),
		validation.Field(&d.Translatable, validation.Each(validation.Required, validation.By(noSeparator))),
		validation.Field(&d.Others, validation.Each(validation.Required, validation.By(notTranslatedKey))),
		validation.Field(&d.Markdown, validation.Each(validation.In(toAny(d.Translatable)...).Error("must be a translatable field"))),
		validation.Field(&d.SlugFrom, validation.When(d.SlugFrom != "", validation.In(toAny(d.Translatable)...).Error("must be a translatable field"))),
	)
	if err != nil {
		return errors.Join(ErrInvalidDefinition, err)
	}
	return nil
}

func noSeparator(value any) error {
	name, _ := value.(string)
	if strings.Contains(name, fields.Separator) {
		return validation.NewError("forms.field_separator", "must not contain "+fields.Separator)
	}
	return notTranslatedKey(value)
}

func notTranslatedKey(value any) error {
	if name, _ := value.(string); name == fields.TranslatedKey {
		return validation.NewError("forms.reserved_field", "is reserved")
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}

type form struct {
	def       Definition
	codec     *fields.Codec
	projector *projection.Projector
	validator *schema.Validator
}

func newForm(def Definition, registry *locales.Registry) (*form, error) {
	def.Class = strings.TrimSpace(def.Class)
	if err := def.Validate(); err != nil {
		return nil, err
	}
	def.Translatable = slices.Clone(def.Translatable)
	def.Others = slices.Clone(def.Others)
	def.Markdown = slices.Clone(def.Markdown)

	names := slices.Clone(def.Translatable)
	if def.SlugFrom != "" && !slices.Contains(names, slugField) {
		names = append(names, slugField)
	}
	validator, err := schema.NewValidator(schema.RecordSchema(registry.Codes(), names, def.Types))
	if err != nil {
		return nil, err
	}

	return &form{
		def: def,
		codec: fields.NewCodec(registry, fields.Schema{
			Translatable: names,
			Others:       def.Others,
		}),
		projector: projection.NewProjector(registry, names),
		validator: validator,
	}, nil
}
