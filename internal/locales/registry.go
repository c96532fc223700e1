package locales

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"
)

var (
	ErrLocalesRequired       = errors.New("locales: at least one locale is required")
	ErrInvalidLocale         = errors.New("locales: invalid locale code")
	ErrDefaultLocaleRequired = errors.New("locales: default locale is required")
)

// Config lists the supported locale codes and the default one.
type Config struct {
	DefaultLocale string   `json:"default_locale"`
	Locales       []string `json:"locales"`
}

// DefaultConfig returns the locales shipped with the admin: English, French
// and Malagasy, English first.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Locales:       []string{"en", "fr", "mg"},
	}
}

// Validate checks every code is a well formed BCP 47 tag.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultLocale,
			validation.Required.ErrorObject(validation.NewError("locales.default_required", ErrDefaultLocaleRequired.Error())),
			validation.By(validCode),
		),
		validation.Field(&c.Locales,
			validation.Required.ErrorObject(validation.NewError("locales.locales_required", ErrLocalesRequired.Error())),
			validation.Each(validation.By(validCode)),
		),
	)
}

func validCode(value any) error {
	code, _ := value.(string)
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	if strings.Contains(code, ":") {
		return &InvalidLocaleError{Code: code}
	}
	if _, err := language.Parse(code); err != nil {
		return &InvalidLocaleError{Code: code, Cause: err}
	}
	return nil
}

// InvalidLocaleError reports a code that is not a usable locale tag.
type InvalidLocaleError struct {
	Code  string
	Cause error
}

func (e *InvalidLocaleError) Error() string {
	if e == nil {
		return ErrInvalidLocale.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v", ErrInvalidLocale.Error(), e.Code, e.Cause)
	}
	return fmt.Sprintf("%s %q", ErrInvalidLocale.Error(), e.Code)
}

func (e *InvalidLocaleError) Unwrap() error {
	return ErrInvalidLocale
}

// Registry is the closed, ordered set of locale codes. It is immutable once
// built and safe for concurrent use.
type Registry struct {
	codes       []string
	index       map[string]struct{}
	defaultCode string
}

// NewRegistry validates cfg and builds a registry. Codes are trimmed and lower
// cased, duplicates keep their first position and a default that is missing
// from the list is prepended.
func NewRegistry(cfg Config) (*Registry, error) {
	cfg.DefaultLocale = normalizeCode(cfg.DefaultLocale)
	normalized := make([]string, 0, len(cfg.Locales))
	for _, code := range cfg.Locales {
		if code = normalizeCode(code); code != "" {
			normalized = append(normalized, code)
		}
	}
	cfg.Locales = normalized

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := &Registry{
		codes:       make([]string, 0, len(cfg.Locales)+1),
		index:       make(map[string]struct{}, len(cfg.Locales)+1),
		defaultCode: cfg.DefaultLocale,
	}
	if !slices.Contains(cfg.Locales, cfg.DefaultLocale) {
		reg.add(cfg.DefaultLocale)
	}
	for _, code := range cfg.Locales {
		reg.add(code)
	}
	return reg, nil
}

// MustRegistry is NewRegistry for static configuration; it panics on error.
func MustRegistry(cfg Config) *Registry {
	reg, err := NewRegistry(cfg)
	if err != nil {
		panic(err)
	}
	return reg
}

func (r *Registry) add(code string) {
	if _, ok := r.index[code]; ok {
		return
	}
	r.index[code] = struct{}{}
	r.codes = append(r.codes, code)
}

// Default returns the default locale code.
func (r *Registry) Default() string {
	if r == nil {
		return ""
	}
	return r.defaultCode
}

// Codes returns the registered codes in configuration order.
func (r *Registry) Codes() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.codes)
}

// Contains reports whether code is registered. The match is exact; callers
// pass codes exactly as they appear in field keys.
func (r *Registry) Contains(code string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[code]
	return ok
}

// Set returns a fresh membership set of the registered codes.
func (r *Registry) Set() map[string]struct{} {
	if r == nil {
		return map[string]struct{}{}
	}
	out := make(map[string]struct{}, len(r.index))
	for code := range r.index {
		out[code] = struct{}{}
	}
	return out
}

// Resolve returns code when registered and the default locale otherwise.
func (r *Registry) Resolve(code string) string {
	if r.Contains(code) {
		return code
	}
	return r.Default()
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
