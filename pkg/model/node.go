// Package model holds the editable tree representation of a decomposed value
// and the per-key metadata overlay renderers consume.
package model

import (
	"github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

// ValueNode is one decomposed unit of a value. Leaf nodes carry a scalar in
// Leaf; compound nodes own an ordered child slice. The tree is exclusive
// ownership all the way down: no sharing, no cycles. Parent is a lookup-only
// back-reference and never drives traversal.
type ValueNode struct {
	// Name is the display label: the key name at the root, a dictionary key
	// or a stringified positional index below it.
	Name string

	// Sig is the node's type signature. For a node unpacked out of a variant
	// this is the discovered signature, not the declared one.
	Sig *signature.TypeSignature

	// Compound is true for array, dict, tuple, maybe and variant nodes.
	Compound bool

	// VariantWraps counts the variant wrappers elided at this position during
	// decomposition. Recomposition re-applies exactly that many wrappers, so
	// self-describing variant-of-variant values survive a round trip.
	VariantWraps int

	// Leaf holds the scalar payload of a non-compound node. An edit replaces
	// it with a string-kinded pending value that recomposition coerces back
	// to Sig's kind.
	Leaf *variant.Value

	// Children preserves encoding order, which is significant for tuples and
	// arrays. Dict children carry unique names.
	Children []*ValueNode

	Parent *ValueNode
}

// VariantWrapped reports whether the node's value was unpacked out of at
// least one variant wrapper.
func (n *ValueNode) VariantWrapped() bool { return n.VariantWraps > 0 }

// Append attaches child to n, maintaining the back-reference.
func (n *ValueNode) Append(child *ValueNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Replace swaps the child at index i for the given node, keeping order.
func (n *ValueNode) Replace(i int, child *ValueNode) {
	child.Parent = n
	n.Children[i] = child
}

// At walks an index path from n and returns the addressed descendant, or nil
// when the path leaves the tree.
func (n *ValueNode) At(path ...int) *ValueNode {
	cur := n
	for _, i := range path {
		if cur == nil || i < 0 || i >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[i]
	}
	return cur
}

// SiblingIndex reports the node's position among its parent's children, or 0
// for a root. Positional default resolution keys off this index.
func (n *ValueNode) SiblingIndex() int {
	if n.Parent == nil {
		return 0
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return 0
}

// SetLeafText replaces a leaf's payload with a pending string edit. The text
// is coerced to the node's signature kind at recomposition time, never here.
func (n *ValueNode) SetLeafText(text string) {
	n.Leaf = variant.String(text)
}

// DisplayValue is what the display collaborator shows in the value column: a
// stringified scalar for leaves, the type signature tag for compounds.
func (n *ValueNode) DisplayValue() string {
	if n.Compound || n.Leaf == nil {
		return n.Sig.String()
	}
	return n.Leaf.Display()
}

// Walk visits n and every descendant depth-first in child order. Returning
// false from fn stops the walk.
func (n *ValueNode) Walk(fn func(*ValueNode) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
