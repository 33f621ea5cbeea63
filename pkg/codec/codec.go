// Package codec defines the contracts for converting between encoded values
// and editable node trees. Decomposition and recomposition are exact
// inverses: recomposing an unedited tree reproduces the original value
// structurally, including variant wrappers elided for display.
package codec

import (
	"github.com/goliatone/go-vartree/pkg/model"
	"github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

// Decomposer walks an encoded value and its static signature, producing one
// node per container level and per element. Implementations are pure: no
// side effects beyond tree construction.
type Decomposer interface {
	Decompose(sig *signature.TypeSignature, val *variant.Value, name string) (*model.ValueNode, error)
}

// Recomposer consumes a (possibly edited) node tree plus the originating
// signature and reconstructs an encoded value conforming to it. Coercion of
// edited leaf text is explicit; a failed coercion aborts with an error and
// never truncates silently.
type Recomposer interface {
	Recompose(root *model.ValueNode, sig *signature.TypeSignature) (*variant.Value, error)
}
