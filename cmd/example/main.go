package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	translated "github.com/goliatone/go-translated"
	"github.com/goliatone/go-translated/internal/filters"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("example: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg := translated.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "pretty"
	cfg.Logging.Level = "debug"

	module, err := translated.New(cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	forms := module.Forms()
	if err := forms.Register(translated.Definition{
		Class:        "Article",
		Translatable: []string{"title", "body"},
		Others:       []string{"status"},
		Markdown:     []string{"body"},
		SlugFrom:     "title",
	}); err != nil {
		return err
	}
	if err := module.SeedRoles(ctx,
		translated.Role{Name: "admin"},
		translated.Role{
			Name: "editor",
			Rights: []translated.RightsItem{
				{ClassName: "Article", Rights: translated.Rights{Create: true, Find: true, Get: true, Update: true}},
			},
		},
	); err != nil {
		return err
	}

	_, editor, err := module.Session(ctx, "editor")
	if err != nil {
		return err
	}

	article, err := editor.Create(ctx, "Article", translated.FlatRecord{
		"en:title": "Hello world",
		"en:body":  "Welcome to **the site**.",
		"fr:title": "Bonjour le monde",
		"status":   "published",
	})
	if err != nil {
		return err
	}
	if _, err := editor.Update(ctx, article.ID, translated.FlatRecord{"mg:title": "Manao ahoana"}); err != nil {
		return err
	}
	if err := editor.Delete(ctx, article.ID); err != nil {
		fmt.Fprintf(os.Stderr, "editor delete refused: %v\n", err)
	}

	for _, code := range module.Registry().Codes() {
		list, err := editor.List(ctx, "Article", filters.TabPublished, module.Tab(code))
		if err != nil {
			return err
		}
		if err := printJSON(code, list); err != nil {
			return err
		}
	}

	preview, err := editor.Preview(ctx, article.ID, module.Tab("en"))
	if err != nil {
		return err
	}
	return printJSON("preview", preview)
}

func printJSON(label string, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", label, encoded)
	return nil
}
