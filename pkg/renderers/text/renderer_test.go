package text

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	internalcodec "github.com/goliatone/go-vartree/internal/codec"
	"github.com/goliatone/go-vartree/pkg/model"
	"github.com/goliatone/go-vartree/pkg/render"
	"github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

func decompose(t *testing.T, name string, value *variant.Value) *model.ValueNode {
	t.Helper()
	root, err := internalcodec.NewDecomposer().Decompose(value.Type(), value, name)
	if err != nil {
		t.Fatalf("decompose %s: %v", value.TypeString(), err)
	}
	return root
}

func TestRenderTree(t *testing.T) {
	value := variant.TupleOf(
		variant.Int32(800),
		variant.Bool(true),
	)
	view := render.View{Root: decompose(t, "window-state", value)}

	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.Render(context.Background(), view, render.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := strings.Join([]string{
		"window-state: (ib)",
		"  0: 800",
		"  1: True",
		"",
	}, "\n")
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("tree output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCustomIndent(t *testing.T) {
	value := variant.ArrayOf(signature.MustParse("s"), variant.String("one"))
	view := render.View{Root: decompose(t, "items", value)}

	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.Render(context.Background(), view, render.Options{Indent: "\t"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "\n\t0: one\n") {
		t.Fatalf("expected tab indented child, got %q", string(out))
	}
}

func TestRenderDetail(t *testing.T) {
	meta := model.KeyMetadata{
		SchemaID:     "org.example.editor",
		KeyName:      "font-size",
		DeclaredType: signature.MustParse("i"),
		Summary:      "Editor font size",
		Description:  "Size in <i>points</i>.",
		Default:      variant.Int32(11),
		Range: model.Range{
			Kind: model.RangeBounds,
			Min:  variant.Int32(6),
			Max:  variant.Int32(72),
		},
		Writable: true,
	}
	view := render.View{
		Root:   decompose(t, "font-size", variant.Int32(14)),
		Meta:   meta,
		Stored: true,
	}

	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.Render(context.Background(), view, render.Options{Detail: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out)

	for _, fragment := range []string{
		"schema:      org.example.editor",
		"key:         font-size  (Editor font size)",
		"type:        i",
		"description: Size in points.",
		"default:     11",
		"range:       6..72",
		"stored:      yes",
	} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("detail output missing %q:\n%s", fragment, text)
		}
	}
	if strings.Contains(text, "<i>") {
		t.Fatalf("markup leaked into detail output:\n%s", text)
	}
}

func TestRenderDetailEnumRange(t *testing.T) {
	meta := model.KeyMetadata{
		SchemaID:     "org.example.editor",
		KeyName:      "theme",
		DeclaredType: signature.MustParse("s"),
		Default:      variant.String("dark"),
		Range: model.Range{
			Kind:    model.RangeEnum,
			Choices: []*variant.Value{variant.String("light"), variant.String("dark")},
		},
		Writable: true,
	}
	view := render.View{Root: decompose(t, "theme", variant.String("dark")), Meta: meta}

	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.Render(context.Background(), view, render.Options{Detail: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "range:       light | dark") {
		t.Fatalf("expected enum range line, got:\n%s", string(out))
	}
	if !strings.Contains(string(out), "stored:      no (using default)") {
		t.Fatalf("expected unset marker, got:\n%s", string(out))
	}
}

func TestSchemaList(t *testing.T) {
	out := SchemaList([]string{
		"org.example.terminal",
		"org.example.editor",
		"io.vartree.demo",
	}, "")

	want := strings.Join([]string{
		"io",
		"  vartree",
		"    demo",
		"org",
		"  example",
		"    editor",
		"    terminal",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("schema list mismatch (-want +got):\n%s", diff)
	}
}
