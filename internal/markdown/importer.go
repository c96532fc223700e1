package markdown

import (
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-translated/internal/fields"
)

var ErrLocaleRequired = errors.New("markdown importer: locale is required")

// Translated keys filled from a document.
const (
	FieldTitle   = "title"
	FieldSlug    = "slug"
	FieldSummary = "summary"
	FieldBody    = "body"
	FieldStatus  = "status"
)

// ImportDocument turns one markdown document into a flat form record for
// locale. Title, slug, summary and body become "<locale>:<field>" keys; the
// remaining front matter stays top-level. Draft documents without an
// explicit status get status "draft".
func ImportDocument(locale string, source []byte) (fields.FlatRecord, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil, ErrLocaleRequired
	}
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	flat := fields.FlatRecord{}
	for key, value := range meta.Custom {
		flat[key] = value
	}

	translated := map[string]string{
		FieldTitle:   meta.Title,
		FieldSlug:    meta.Slug,
		FieldSummary: meta.Summary,
		FieldBody:    strings.TrimSpace(string(body)),
	}
	for field, value := range translated {
		if value != "" {
			flat[fields.Key(locale, field)] = value
		}
	}

	status := strings.TrimSpace(meta.Status)
	if status == "" && meta.Draft {
		status = "draft"
	}
	if status != "" {
		flat[FieldStatus] = status
	}
	if meta.Template != "" {
		flat["template"] = meta.Template
	}
	if len(meta.Tags) > 0 {
		flat["tags"] = append([]string(nil), meta.Tags...)
	}
	if meta.Author != "" {
		flat["author"] = meta.Author
	}
	if !meta.Date.IsZero() {
		flat["date"] = meta.Date.UTC().Format(time.RFC3339)
	}
	return flat, nil
}
