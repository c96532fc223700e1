package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-translated/internal/fields"
	"github.com/goliatone/go-translated/internal/locales"
)

// Import is one entity assembled from the translations of a document.
type Import struct {
	// Key identifies the document independently of its locale, relative to
	// the loaded directory: "blog/hello" for blog/hello.md and blog/hello.fr.md.
	Key    string
	Paths  []string
	Record fields.FlatRecord
}

// LoadDirectory reads every *.md file under dir and groups translations of
// the same document into one flat record. A file named name.<locale>.md is
// read as that locale; any other file is read as the default locale. When
// translations disagree on a top-level field the default locale wins.
func LoadDirectory(ctx context.Context, fsys fs.FS, dir string, registry *locales.Registry) ([]Import, error) {
	if dir == "" {
		dir = "."
	}
	byKey := map[string]*Import{}
	fromDefault := map[string]map[string]bool{}

	err := fs.WalkDir(fsys, dir, func(file string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(file), ".md") {
			return nil
		}

		rel := file
		if dir != "." {
			rel = strings.TrimPrefix(file, strings.TrimSuffix(dir, "/")+"/")
		}
		key, locale := documentKey(rel, registry)
		source, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("markdown loader read %s: %w", file, err)
		}
		flat, err := ImportDocument(locale, source)
		if err != nil {
			return fmt.Errorf("markdown loader %s: %w", file, err)
		}

		entry, ok := byKey[key]
		if !ok {
			entry = &Import{Key: key, Record: fields.FlatRecord{}}
			byKey[key] = entry
			fromDefault[key] = map[string]bool{}
		}
		entry.Paths = append(entry.Paths, file)
		isDefault := locale == registry.Default()
		for name, value := range flat {
			if _, _, translated := fields.SplitKey(name, registry.Set()); translated {
				entry.Record[name] = value
				continue
			}
			if _, exists := entry.Record[name]; exists && (fromDefault[key][name] || !isDefault) {
				continue
			}
			entry.Record[name] = value
			fromDefault[key][name] = isDefault
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Import, 0, len(keys))
	for _, key := range keys {
		out = append(out, *byKey[key])
	}
	return out, nil
}

func documentKey(file string, registry *locales.Registry) (key, locale string) {
	base := strings.TrimSuffix(file, path.Ext(file))
	if dot := strings.LastIndex(base, "."); dot > 0 {
		candidate := strings.ToLower(base[dot+1:])
		if registry.Contains(candidate) {
			return base[:dot], candidate
		}
	}
	return base, registry.Default()
}
