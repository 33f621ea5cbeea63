package editor

import (
	"context"
	"fmt"

	"github.com/goliatone/go-vartree/pkg/model"
	"github.com/goliatone/go-vartree/pkg/render"
	"github.com/goliatone/go-vartree/pkg/store"
	"github.com/goliatone/go-vartree/pkg/variant"
)

// Session is one opened key: its decomposed tree, its metadata overlay and
// enough state to commit, discard or reset the edits made against it.
type Session struct {
	editor *Editor

	// Ref addresses the key in the store.
	Ref store.Ref
	// Meta is the key's materialized metadata.
	Meta model.KeyMetadata
	// Root is the editable tree. Edits land here as pending text leaves.
	Root *model.ValueNode
	// Stored is false while the session shows the schema default.
	Stored bool

	original *variant.Value
}

// SetLeaf records a pending text edit on the leaf at the given child-index
// path. The edit is only coerced and validated at commit time.
func (s *Session) SetLeaf(path []int, text string) error {
	node := s.Root.At(path...)
	if node == nil {
		return fmt.Errorf("editor: no node at %v in %s", path, s.Ref)
	}
	if node.Compound {
		return fmt.Errorf("editor: node at %v in %s is not a leaf", path, s.Ref)
	}
	node.SetLeafText(text)
	return nil
}

// SetValue replaces the whole tree with a decomposition of val. Callers that
// already hold a complete value (for example parsed from text notation) use
// this instead of leaf-by-leaf edits.
func (s *Session) SetValue(val *variant.Value) error {
	root, err := s.editor.decomposer.Decompose(s.Meta.DeclaredType, val, s.Ref.Key)
	if err != nil {
		return fmt.Errorf("editor: set %s: %w", s.Ref, err)
	}
	s.Root = root
	return nil
}

// Value recomposes the current tree without committing it.
func (s *Session) Value() (*variant.Value, error) {
	return s.editor.recomposer.Recompose(s.Root, s.Meta.DeclaredType)
}

// Commit recomposes the tree and writes the result to the store. Coercion or
// validation failures leave both the tree and the stored value untouched.
func (s *Session) Commit(ctx context.Context) error {
	if !s.Meta.Writable {
		return &store.RejectedError{Ref: s.Ref, Reason: "key is not writable"}
	}
	val, err := s.Value()
	if err != nil {
		return fmt.Errorf("editor: recompose %s: %w", s.Ref, err)
	}
	if s.Meta.Range.Kind != model.RangeNone && !s.Meta.Range.Allows(val) {
		return &store.RejectedError{Ref: s.Ref, Reason: "value outside the allowed range"}
	}
	if err := s.editor.store.Set(ctx, s.Ref, val); err != nil {
		return fmt.Errorf("editor: commit %s: %w", s.Ref, err)
	}
	s.original = val
	s.Stored = true
	s.editor.logger.Info().Str("ref", s.Ref.String()).Str("value", val.Format()).Msg("committed")
	return nil
}

// Discard drops pending edits, rebuilding the tree from the last committed
// (or default) value.
func (s *Session) Discard() error {
	root, err := s.editor.decomposer.Decompose(s.Meta.DeclaredType, s.original, s.Ref.Key)
	if err != nil {
		return fmt.Errorf("editor: discard %s: %w", s.Ref, err)
	}
	s.Root = root
	return nil
}

// Reset removes the stored value and rebuilds the tree from the schema
// default.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.editor.store.Reset(ctx, s.Ref); err != nil {
		return fmt.Errorf("editor: reset %s: %w", s.Ref, err)
	}
	if s.Meta.Default == nil {
		s.Stored = false
		return nil
	}
	root, err := s.editor.decomposer.Decompose(s.Meta.DeclaredType, s.Meta.Default, s.Ref.Key)
	if err != nil {
		return fmt.Errorf("editor: reset %s: %w", s.Ref, err)
	}
	s.Root = root
	s.original = s.Meta.Default
	s.Stored = false
	return nil
}

// Render serializes the session through the named renderer, or the editor's
// default when name is empty.
func (s *Session) Render(ctx context.Context, name string, opts render.Options) ([]byte, error) {
	renderer, err := s.editor.rendererFor(name)
	if err != nil {
		return nil, err
	}
	view := render.View{Root: s.Root, Meta: s.Meta, Stored: s.Stored}
	out, err := renderer.Render(ctx, view, opts)
	if err != nil {
		return nil, fmt.Errorf("editor: render %s: %w", s.Ref, err)
	}
	return out, nil
}
