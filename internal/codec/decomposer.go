// Package codec provides the built-in Decomposer and Recomposer
// implementations behind the pkg/codec contracts.
package codec

import (
	"strconv"

	pkgcodec "github.com/goliatone/go-vartree/pkg/codec"
	"github.com/goliatone/go-vartree/pkg/model"
	"github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

// Decomposer builds a ValueNode tree from an encoded value and its static
// signature.
type Decomposer struct{}

// Ensure the implementation satisfies the public contract.
var _ pkgcodec.Decomposer = (*Decomposer)(nil)

// NewDecomposer constructs the built-in decomposer.
func NewDecomposer() *Decomposer {
	return &Decomposer{}
}

// Decompose produces the editable tree for val under sig. A variant at the
// tree root keeps its wrapper node so the root is never elided; variants
// nested inside compounds are flattened, with the elided wrapper count
// recorded on the surviving node.
func (d *Decomposer) Decompose(sig *signature.TypeSignature, val *variant.Value, name string) (*model.ValueNode, error) {
	if sig.Kind() == kindVariant {
		if val.Kind() != kindVariant {
			return nil, &pkgcodec.TypeMismatchError{Path: name, Want: sig.Kind(), Got: val.Kind()}
		}
		root := &model.ValueNode{Name: name, Sig: sig, Compound: true}
		inner := val.Unwrap()
		child, err := d.node(inner.Type(), inner, name, name)
		if err != nil {
			return nil, err
		}
		root.Append(child)
		return root, nil
	}
	return d.node(sig, val, name, name)
}

// Kind aliases keep the dispatch below readable.
const (
	kindVariant = signature.KindVariant
	kindArray   = signature.KindArray
	kindDict    = signature.KindDictEntryArray
	kindTuple   = signature.KindTuple
	kindMaybe   = signature.KindMaybe
)

// node recurses one signature level. path accumulates dotted names for error
// reporting only.
func (d *Decomposer) node(sig *signature.TypeSignature, val *variant.Value, name, path string) (*model.ValueNode, error) {
	if val.Kind() != sig.Kind() {
		return nil, &pkgcodec.TypeMismatchError{Path: path, Want: sig.Kind(), Got: val.Kind()}
	}

	switch sig.Kind() {
	case kindVariant:
		// Nested variant: the unpacked child takes the variant's place.
		inner := val.Unwrap()
		node, err := d.node(inner.Type(), inner, name, path)
		if err != nil {
			return nil, err
		}
		node.VariantWraps++
		return node, nil

	case kindArray:
		node := &model.ValueNode{Name: name, Sig: sig, Compound: true}
		for i, elem := range val.Children() {
			idx := strconv.Itoa(i)
			child, err := d.node(sig.Elem(), elem, idx, path+"."+idx)
			if err != nil {
				return nil, err
			}
			node.Append(child)
		}
		return node, nil

	case kindDict:
		node := &model.ValueNode{Name: name, Sig: sig, Compound: true}
		seen := make(map[string]int)
		for _, entry := range val.Entries() {
			key := entry.Key.Display()
			child, err := d.node(sig.Elem(), entry.Value, key, path+"."+key)
			if err != nil {
				return nil, err
			}
			// Duplicate keys resolve last-write-wins: the later entry
			// replaces the earlier child in place.
			if at, dup := seen[key]; dup {
				node.Replace(at, child)
				continue
			}
			seen[key] = len(node.Children)
			node.Append(child)
		}
		return node, nil

	case kindTuple:
		fields := sig.Fields()
		if val.Len() != len(fields) {
			return nil, &pkgcodec.StructuralMismatchError{
				Path:   path,
				Reason: "tuple arity " + strconv.Itoa(val.Len()) + " does not match signature arity " + strconv.Itoa(len(fields)),
			}
		}
		node := &model.ValueNode{Name: name, Sig: sig, Compound: true}
		for i, fieldSig := range fields {
			idx := strconv.Itoa(i)
			child, err := d.node(fieldSig, val.Child(i), idx, path+"."+idx)
			if err != nil {
				return nil, err
			}
			node.Append(child)
		}
		return node, nil

	case kindMaybe:
		node := &model.ValueNode{Name: name, Sig: sig, Compound: true}
		if val.IsNothing() {
			return node, nil
		}
		child, err := d.node(sig.Elem(), val.Child(0), "value", path+".value")
		if err != nil {
			return nil, err
		}
		node.Append(child)
		return node, nil
	}

	// Leaf kinds.
	return &model.ValueNode{Name: name, Sig: sig, Leaf: val}, nil
}
