package model

import (
	"fmt"

	"github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

// RangeKind enumerates the shapes a key's allowed-value descriptor can take.
type RangeKind string

const (
	RangeNone   RangeKind = ""
	RangeBounds RangeKind = "range"
	RangeEnum   RangeKind = "enum"
)

// Range restricts the values a key accepts: either a numeric min/max pair or
// an enumerated choice list. The zero value means unrestricted.
type Range struct {
	Kind    RangeKind
	Min     *variant.Value
	Max     *variant.Value
	Choices []*variant.Value
}

// Allows reports whether v satisfies the range. Bounds apply to numeric
// scalars; enum membership is structural equality against the choice list.
func (r Range) Allows(v *variant.Value) bool {
	switch r.Kind {
	case RangeBounds:
		if !v.Kind().IsNumeric() {
			return false
		}
		return !numLess(v, r.Min) && !numLess(r.Max, v)
	case RangeEnum:
		for _, choice := range r.Choices {
			if choice.Equal(v) {
				return true
			}
		}
		return false
	}
	return true
}

func numLess(a, b *variant.Value) bool {
	if a == nil || b == nil {
		return false
	}
	switch {
	case a.Kind() == signature.KindDouble || b.Kind() == signature.KindDouble:
		return numFloat(a) < numFloat(b)
	case a.Kind().IsSigned() && b.Kind().IsSigned():
		return a.Int() < b.Int()
	case a.Kind().IsUnsigned() && b.Kind().IsUnsigned():
		return a.Uint() < b.Uint()
	default:
		return numFloat(a) < numFloat(b)
	}
}

func numFloat(v *variant.Value) float64 {
	switch {
	case v.Kind() == signature.KindDouble:
		return v.Float()
	case v.Kind().IsSigned():
		return float64(v.Int())
	default:
		return float64(v.Uint())
	}
}

// KeyMetadata is the overlay attached to the root of a decomposed tree. It
// describes the key, never individual nodes; element-level defaults are
// resolved positionally through ResolveDefault.
type KeyMetadata struct {
	SchemaID     string
	KeyName      string
	DeclaredType *signature.TypeSignature
	Summary      string
	Description  string
	Default      *variant.Value
	Range        Range
	Writable     bool
}

// IndexOutOfRangeError reports a positional default lookup that disagrees
// with the default value's declared arity.
type IndexOutOfRangeError struct {
	Index int
	Arity int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("model: default element index %d out of range (arity %d)", e.Index, e.Arity)
}

// ResolveDefault selects the default applicable to a displayed node. A scalar
// default, or a query for the whole compound value, returns the default
// unchanged. When the default is itself a container and the query addresses
// one element, the element's position among its siblings selects the
// matching positional default. Arity disagreement is surfaced, not clamped.
func ResolveDefault(def *variant.Value, wholeCompound bool, siblingIndex int) (*variant.Value, error) {
	if def == nil {
		return nil, nil
	}
	if wholeCompound {
		return def, nil
	}
	switch def.Kind() {
	case signature.KindArray, signature.KindTuple:
		if siblingIndex < 0 || siblingIndex >= def.Len() {
			return nil, &IndexOutOfRangeError{Index: siblingIndex, Arity: def.Len()}
		}
		return def.Child(siblingIndex), nil
	case signature.KindDictEntryArray:
		if siblingIndex < 0 || siblingIndex >= def.Len() {
			return nil, &IndexOutOfRangeError{Index: siblingIndex, Arity: def.Len()}
		}
		return def.Entries()[siblingIndex].Value, nil
	}
	return def, nil
}
