package markdown

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-translated/internal/locales"
	"github.com/goliatone/go-translated/pkg/testsupport"
)

func TestRendererDefaults(t *testing.T) {
	renderer := NewRenderer(Options{})

	out, err := renderer.Render([]byte("# Sample Document\n\nHello **world**, see https://example.com\n\n- [x] done"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		`<h1 id="sample-document">Sample Document</h1>`,
		`<strong>world</strong>`,
		`<a href="https://example.com">https://example.com</a>`,
		`type="checkbox"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %s", want, html)
		}
	}
}

func TestRendererSafeModeOmitsRawHTML(t *testing.T) {
	source := []byte("<script>alert(1)</script>\n\ntext")

	unsafe, err := NewRenderer(Options{}).Render(source)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(unsafe), "<script>") {
		t.Fatalf("default renderer should keep raw html: %s", unsafe)
	}

	safe, err := NewRenderer(Options{SafeMode: true}).Render(source)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(safe), "<script>") {
		t.Fatalf("safe renderer leaked raw html: %s", safe)
	}
}

func TestRenderStringPassesThroughNonStrings(t *testing.T) {
	renderer := NewRenderer(Options{})
	got, err := renderer.RenderString(42)
	if err != nil || got != 42 {
		t.Fatalf("RenderString(42) = %v, %v", got, err)
	}
	got, err = renderer.RenderString("*hi*")
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if got != "<p><em>hi</em></p>\n" {
		t.Fatalf("RenderString = %q", got)
	}
}

func TestParseFrontMatter(t *testing.T) {
	data := testsupport.MustLoadFixture(t, "testdata/basic.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "Sample Document" || fm.Slug != "sample-document" {
		t.Fatalf("front matter = %+v", fm)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "cms" {
		t.Fatalf("tags = %#v", fm.Tags)
	}
	if fm.Custom["custom_flag"] != true {
		t.Fatalf("custom flag missing: %#v", fm.Custom)
	}
	if !strings.Contains(string(body), "# Sample Document") {
		t.Fatalf("body = %q", body)
	}
}

func TestImportDocumentNormalisesNestedFrontMatter(t *testing.T) {
	source := []byte("---\ntitle: Hello\nseo:\n  title: X\n  robots:\n    index: true\nlinks:\n  - href: /a\n    rel: next\n---\nBody\n")

	flat, err := ImportDocument("en", source)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	seo, ok := flat["seo"].(map[string]any)
	if !ok || seo["title"] != "X" {
		t.Fatalf("seo = %#v", flat["seo"])
	}
	if robots, ok := seo["robots"].(map[string]any); !ok || robots["index"] != true {
		t.Fatalf("seo.robots = %#v", seo["robots"])
	}
	links, ok := flat["links"].([]any)
	if !ok || len(links) != 1 {
		t.Fatalf("links = %#v", flat["links"])
	}
	if link, ok := links[0].(map[string]any); !ok || link["rel"] != "next" {
		t.Fatalf("links[0] = %#v", links[0])
	}
	if _, err := json.Marshal(flat); err != nil {
		t.Fatalf("imported record must encode as JSON: %v", err)
	}
}

func TestImportDocument(t *testing.T) {
	data := testsupport.MustLoadFixture(t, "testdata/basic.md")

	flat, err := ImportDocument("fr", data)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if flat["fr:title"] != "Sample Document" || flat["fr:slug"] != "sample-document" {
		t.Fatalf("translated keys missing: %v", flat)
	}
	if body, _ := flat["fr:body"].(string); !strings.HasPrefix(body, "# Sample Document") {
		t.Fatalf("fr:body = %q", body)
	}
	if flat["status"] != "published" || flat["custom_flag"] != true {
		t.Fatalf("top-level fields missing: %v", flat)
	}
	if _, ok := flat["title"]; ok {
		t.Fatalf("title must only appear as a translated key")
	}

	if _, err := ImportDocument(" ", data); err != ErrLocaleRequired {
		t.Fatalf("expected ErrLocaleRequired, got %v", err)
	}
}

func TestLoadDirectoryGroupsTranslations(t *testing.T) {
	registry := locales.MustRegistry(locales.DefaultConfig())

	imports, err := LoadDirectory(context.Background(), os.DirFS("testdata"), "site", registry)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(imports) != 2 {
		t.Fatalf("imports = %+v", imports)
	}

	about, hello := imports[0], imports[1]
	if about.Key != "about" || hello.Key != "blog/hello" {
		t.Fatalf("keys = %q, %q", about.Key, hello.Key)
	}
	if about.Record["mg:title"] != "Mombamomba" || about.Record["status"] != "draft" {
		t.Fatalf("about record = %v", about.Record)
	}
	if hello.Record["en:title"] != "Hello" || hello.Record["fr:title"] != "Bonjour" {
		t.Fatalf("hello translations = %v", hello.Record)
	}
	if hello.Record["status"] != "published" {
		t.Fatalf("default locale should win top-level status, got %v", hello.Record["status"])
	}
	if hello.Record["author"] != "Ana" || len(hello.Paths) != 2 {
		t.Fatalf("hello = %+v", hello)
	}
}
