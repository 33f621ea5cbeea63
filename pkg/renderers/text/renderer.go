// Package text renders decomposed keys as plain terminal output: an indented
// tree of nodes followed by an optional metadata detail block.
package text

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-vartree/pkg/model"
	"github.com/goliatone/go-vartree/pkg/render"
)

//go:embed templates/*.tpl
var templateFS embed.FS

const defaultIndent = "  "

// Option customises the renderer.
type Option func(*Renderer)

// WithIndent overrides the default two-space indentation.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer implements render.Renderer for plain text output.
type Renderer struct {
	set     *pongo2.TemplateSet
	policy  *bluemonday.Policy
	indent  string
	details *pongo2.Template
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer with the embedded detail template.
func New(options ...Option) (*Renderer, error) {
	set := pongo2.NewSet("vartree-text", pongo2.NewFSLoader(templateFS))
	details, err := set.FromFile("templates/detail.tpl")
	if err != nil {
		return nil, fmt.Errorf("text: load detail template: %w", err)
	}
	r := &Renderer{
		set:     set,
		policy:  bluemonday.StrictPolicy(),
		indent:  defaultIndent,
		details: details,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "text" }

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the node tree and, when requested, the metadata block.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if view.Root == nil {
		return nil, errors.New("text: view has no tree")
	}

	indent := r.indent
	if opts.Indent != "" {
		indent = opts.Indent
	}

	var buf bytes.Buffer
	r.writeNode(&buf, view.Root, indent, 0)

	if opts.Detail {
		detail, err := r.renderDetail(view)
		if err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		buf.WriteString(detail)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeNode(buf *bytes.Buffer, node *model.ValueNode, indent string, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(indent)
	}
	buf.WriteString(node.Name)
	buf.WriteString(": ")
	buf.WriteString(node.DisplayValue())
	buf.WriteByte('\n')
	for _, child := range node.Children {
		r.writeNode(buf, child, indent, depth+1)
	}
}

func (r *Renderer) renderDetail(view render.View) (string, error) {
	meta := view.Meta
	data := pongo2.Context{
		"schema_id": meta.SchemaID,
		"key":       meta.KeyName,
		"summary":   r.plainText(meta.Summary),
		"type":      declaredType(meta),
		"stored":    view.Stored,
	}
	if meta.Description != "" {
		data["description"] = r.plainText(meta.Description)
	}
	if meta.Default != nil {
		def, err := model.ResolveDefault(meta.Default, true, 0)
		if err != nil {
			return "", fmt.Errorf("text: resolve default: %w", err)
		}
		data["default"] = def.Display()
	}
	if rng := formatRange(meta.Range); rng != "" {
		data["range"] = rng
	}

	out, err := r.details.Execute(data)
	if err != nil {
		return "", fmt.Errorf("text: render detail: %w", err)
	}
	return out, nil
}

// plainText strips any markup a schema description may carry so it is safe
// for terminal output.
func (r *Renderer) plainText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(r.policy.Sanitize(raw)))
}

func declaredType(meta model.KeyMetadata) string {
	if meta.DeclaredType == nil {
		return ""
	}
	return meta.DeclaredType.String()
}

func formatRange(rng model.Range) string {
	switch rng.Kind {
	case model.RangeBounds:
		min, max := "", ""
		if rng.Min != nil {
			min = rng.Min.Display()
		}
		if rng.Max != nil {
			max = rng.Max.Display()
		}
		return min + ".." + max
	case model.RangeEnum:
		choices := make([]string, 0, len(rng.Choices))
		for _, c := range rng.Choices {
			choices = append(choices, c.Display())
		}
		return strings.Join(choices, " | ")
	}
	return ""
}
