package yamlreg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-vartree/pkg/model"
	"github.com/goliatone/go-vartree/pkg/registry"
)

const editorSchema = `
id: org.example.editor
path: /org/example/editor/
keys:
  - name: font-size
    type: i
    default: "11"
    summary: Editor font size
    range:
      min: "6"
      max: "72"
  - name: theme
    type: s
    default: '"light"'
    choices: ['"light"', '"dark"']
  - name: recent-files
    type: as
    default: '[]'
  - name: locked-down
    type: b
    default: "false"
    writable: false
`

func writeSchema(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
}

func TestLoaderReadsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "editor.yml", editorSchema)
	writeSchema(t, dir, "terminal.yaml", "id: org.example.terminal\nkeys:\n  - name: bell\n    type: b\n    default: \"true\"\n")
	writeSchema(t, dir, "notes.txt", "not a schema")

	loader := New(dir)
	ids, err := loader.Schemas(context.Background())
	if err != nil {
		t.Fatalf("Schemas: %v", err)
	}
	want := []string{"org.example.editor", "org.example.terminal"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("schema ids mismatch (-want +got):\n%s", diff)
	}
}

func TestLoaderKeyMetadata(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "editor.yml", editorSchema)

	loader := New(dir)
	schema, err := loader.Lookup(context.Background(), "org.example.editor")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if schema.Path != "/org/example/editor/" {
		t.Fatalf("schema path = %q", schema.Path)
	}

	key, err := schema.Key("font-size")
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	meta, err := key.Metadata(schema.ID)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.DeclaredType.String() != "i" {
		t.Fatalf("declared type = %q", meta.DeclaredType.String())
	}
	if meta.Default == nil || meta.Default.Int() != 11 {
		t.Fatalf("default not materialized")
	}
	if meta.Range.Kind != model.RangeBounds || meta.Range.Min.Int() != 6 || meta.Range.Max.Int() != 72 {
		t.Fatalf("range not materialized: %+v", meta.Range)
	}

	theme, _ := schema.Key("theme")
	themeMeta, err := theme.Metadata(schema.ID)
	if err != nil {
		t.Fatalf("theme metadata: %v", err)
	}
	if themeMeta.Range.Kind != model.RangeEnum || len(themeMeta.Range.Choices) != 2 {
		t.Fatalf("enum range not materialized: %+v", themeMeta.Range)
	}

	locked, _ := schema.Key("locked-down")
	if locked.Writable {
		t.Fatalf("writable: false not honored")
	}
}

func TestLoaderSkipsBrokenKeys(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "broken.yml", `
id: org.example.broken
keys:
  - name: good
    type: s
  - name: bad
    type: "a{s"
`)
	loader := New(dir)
	schema, err := loader.Lookup(context.Background(), "org.example.broken")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(schema.Keys) != 1 || schema.Keys[0].Name != "good" {
		t.Fatalf("bad key should be skipped, rest kept: %+v", schema.Keys)
	}
}

func TestLoaderUnknownSchema(t *testing.T) {
	loader := New(t.TempDir())
	if _, err := loader.Lookup(context.Background(), "org.missing"); !errors.Is(err, registry.ErrSchemaNotFound) {
		t.Fatalf("error = %v, want ErrSchemaNotFound", err)
	}
}

func TestLoaderInvalidate(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "one.yml", "id: org.one\nkeys: []\n")
	loader := New(dir)
	if _, err := loader.Lookup(context.Background(), "org.one"); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	writeSchema(t, dir, "two.yml", "id: org.two\nkeys: []\n")
	// Cached set must not see the new file until invalidated.
	if _, err := loader.Lookup(context.Background(), "org.two"); err == nil {
		t.Fatalf("cache should not pick up new files on its own")
	}
	loader.Invalidate()
	if _, err := loader.Lookup(context.Background(), "org.two"); err != nil {
		t.Fatalf("Lookup after Invalidate: %v", err)
	}
}
