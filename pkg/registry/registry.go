// Package registry defines the schema-source contract: the collaborator that
// supplies, per key, its type signature, current metadata, defaults and
// range, without prescribing where schemas come from.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-vartree/pkg/model"
	"github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

// ErrSchemaNotFound reports a lookup for a schema id the source does not
// carry.
var ErrSchemaNotFound = errors.New("registry: schema not found")

// ErrKeyNotFound reports a key name missing from a schema.
var ErrKeyNotFound = errors.New("registry: key not found")

// Source enumerates schemas and resolves their key descriptors.
type Source interface {
	Schemas(ctx context.Context) ([]string, error)
	Lookup(ctx context.Context, schemaID string) (*Schema, error)
}

// Schema is one settings schema: an id, an optional relocation base path and
// the keys it declares.
type Schema struct {
	ID   string
	Path string
	Keys []Key
}

// Key returns the named key descriptor.
func (s *Schema) Key(name string) (Key, error) {
	for _, k := range s.Keys {
		if k.Name == name {
			return k, nil
		}
	}
	return Key{}, fmt.Errorf("registry: lookup key %q in %q: %w", name, s.ID, ErrKeyNotFound)
}

// RangeDescriptor mirrors a key's allowed-value declaration in source form:
// textual min/max bounds or an enumerated choice list, both in the value
// text notation.
type RangeDescriptor struct {
	Min     string
	Max     string
	Choices []string
}

// Key describes one schema key as declared by the source. Values and bounds
// are carried as text and materialized against the declared signature.
type Key struct {
	Name        string
	Type        string
	Default     string
	Summary     string
	Description string
	Range       RangeDescriptor
	Writable    bool
}

// Metadata materializes the descriptor into the overlay attached to a
// decomposed tree root: signature parsed, default and range values decoded
// against it.
func (k Key) Metadata(schemaID string) (model.KeyMetadata, error) {
	declared, err := signature.Parse(k.Type)
	if err != nil {
		return model.KeyMetadata{}, fmt.Errorf("registry: key %q: %w", k.Name, err)
	}
	meta := model.KeyMetadata{
		SchemaID:     schemaID,
		KeyName:      k.Name,
		DeclaredType: declared,
		Summary:      k.Summary,
		Description:  k.Description,
		Writable:     k.Writable,
	}
	if k.Default != "" {
		def, err := variant.ParseText(declared, k.Default)
		if err != nil {
			return model.KeyMetadata{}, fmt.Errorf("registry: key %q default: %w", k.Name, err)
		}
		meta.Default = def
	}
	rng, err := k.materializeRange(declared)
	if err != nil {
		return model.KeyMetadata{}, fmt.Errorf("registry: key %q range: %w", k.Name, err)
	}
	meta.Range = rng
	return meta, nil
}

func (k Key) materializeRange(declared *signature.TypeSignature) (model.Range, error) {
	switch {
	case len(k.Range.Choices) > 0:
		choices := make([]*variant.Value, 0, len(k.Range.Choices))
		for _, raw := range k.Range.Choices {
			v, err := variant.ParseText(declared, raw)
			if err != nil {
				return model.Range{}, err
			}
			choices = append(choices, v)
		}
		return model.Range{Kind: model.RangeEnum, Choices: choices}, nil

	case k.Range.Min != "" || k.Range.Max != "":
		rng := model.Range{Kind: model.RangeBounds}
		if k.Range.Min != "" {
			v, err := variant.ParseText(declared, k.Range.Min)
			if err != nil {
				return model.Range{}, err
			}
			rng.Min = v
		}
		if k.Range.Max != "" {
			v, err := variant.ParseText(declared, k.Range.Max)
			if err != nil {
				return model.Range{}, err
			}
			rng.Max = v
		}
		return rng, nil
	}
	return model.Range{}, nil
}
