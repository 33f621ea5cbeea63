// Package render defines the display-collaborator contract: renderers
// receive a decomposed tree plus its key metadata and produce output in
// their own format. Implementations never mutate the tree.
package render

import (
	"context"

	"github.com/goliatone/go-vartree/pkg/model"
)

// View is the unit renderers consume: one decomposed key.
type View struct {
	// Root of the decomposed tree; its Name is the key name.
	Root *model.ValueNode
	// Meta is the key's metadata overlay.
	Meta model.KeyMetadata
	// Stored is false when the view falls back to the schema default
	// because no value is committed for the key.
	Stored bool
}

// Options carries per-request rendering preferences.
type Options struct {
	// Detail includes the metadata block (summary, description, default,
	// range) after the tree.
	Detail bool
	// Indent overrides the per-level indentation; renderers pick their own
	// default when empty.
	Indent string
}

// Renderer turns a view into bytes (plain text, an interactive session
// transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, opts Options) ([]byte, error)
}
