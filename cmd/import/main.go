package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	translated "github.com/goliatone/go-translated"
	"github.com/goliatone/go-translated/internal/commands"
	"github.com/goliatone/go-translated/internal/commands/entitycmd"
)

func main() {
	if err := runImport(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("translated import: %v", err)
	}
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("translated-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	class := fs.String("class", "Article", "Entity class of the imported documents")
	translatable := fs.String("translatable", "title,slug,summary,body", "Comma separated translatable fields")
	others := fs.String("others", "status", "Comma separated non-translated fields")
	locales := fs.String("locales", "en,fr,mg", "Comma separated list of locales")
	defaultLocale := fs.String("default-locale", "en", "Default locale for files without a locale suffix")
	dialect := fs.String("dialect", "sqlite", "Database dialect: sqlite or postgres")
	dsn := fs.String("dsn", "file:translated.db?_fk=1", "Database DSN")
	logFormat := fs.String("log-format", "console", "Log format: json, console or pretty")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := translated.DefaultConfig()
	cfg.Locales.DefaultLocale = *defaultLocale
	cfg.Locales.Locales = splitList(*locales)
	cfg.Storage = translated.StorageConfig{Provider: "bun", Dialect: *dialect, DSN: *dsn}
	cfg.Features.Logger = true
	cfg.Features.Markdown = true
	cfg.Markdown.ContentDir = *contentDir
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = *logFormat

	module, err := translated.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	if err := module.Migrate(ctx); err != nil {
		return err
	}
	if err := module.Forms().Register(translated.Definition{
		Class:        *class,
		Translatable: splitList(*translatable),
		Others:       splitList(*others),
		SlugFrom:     "title",
	}); err != nil {
		return err
	}

	logger := commands.CommandLogger(module.Container().LoggerProvider(), "import")
	handler := entitycmd.NewImportDirectoryHandler(module.Forms(), module.Registry(), nil, logger)
	return handler.Execute(translated.SystemContext(ctx), entitycmd.ImportDirectoryCommand{
		Directory: *contentDir,
		Class:     *class,
	})
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
