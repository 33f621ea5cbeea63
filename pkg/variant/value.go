// Package variant models self-describing typed values: a closed tagged union
// covering every signature kind, plus a text notation used to persist values
// and parse them back losslessly.
package variant

import (
	"strconv"

	sig "github.com/goliatone/go-vartree/pkg/signature"
)

// DictEntry pairs one dictionary key with its value. Keys are always values
// of a basic kind.
type DictEntry struct {
	Key   *Value
	Value *Value
}

// Value is an immutable encoded value. Its concrete shape is carried in the
// kind tag and the matching payload slot; exactly one slot is meaningful per
// kind. Compound kinds own their children outright, forming a tree.
type Value struct {
	kind     sig.Kind
	typ      *sig.TypeSignature
	b        bool
	i        int64
	u        uint64
	f        float64
	s        string
	children []*Value
	entries  []DictEntry
}

// Kind reports the value's type classification.
func (v *Value) Kind() sig.Kind { return v.kind }

// Type returns the value's own full type signature. For a variant this is the
// one-character variant signature; the wrapped value's discovered signature is
// reachable through Unwrap.
func (v *Value) Type() *sig.TypeSignature { return v.typ }

// TypeString is shorthand for Type().String().
func (v *Value) TypeString() string { return v.typ.String() }

// Bool returns the boolean payload.
func (v *Value) Bool() bool { return v.b }

// Int returns the signed integer payload (int16/int32/int64 widths).
func (v *Value) Int() int64 { return v.i }

// Uint returns the unsigned integer payload (byte/uint16/uint32/uint64).
func (v *Value) Uint() uint64 { return v.u }

// Float returns the double payload.
func (v *Value) Float() float64 { return v.f }

// Text returns the string payload (string, object path, signature kinds).
func (v *Value) Text() string { return v.s }

// Len reports the number of children for arrays, tuples and dicts, and 0 or 1
// for maybes.
func (v *Value) Len() int {
	if v.kind == sig.KindDictEntryArray {
		return len(v.entries)
	}
	return len(v.children)
}

// Child returns the i-th positional child of an array, tuple or maybe.
func (v *Value) Child(i int) *Value { return v.children[i] }

// Children returns the positional children. Callers must not mutate it.
func (v *Value) Children() []*Value { return v.children }

// Entries returns the dictionary entries in encoding order.
func (v *Value) Entries() []DictEntry { return v.entries }

// Unwrap returns the value inside a variant wrapper, nil for other kinds.
func (v *Value) Unwrap() *Value {
	if v.kind != sig.KindVariant || len(v.children) == 0 {
		return nil
	}
	return v.children[0]
}

// IsNothing reports whether a maybe value is in the absent state.
func (v *Value) IsNothing() bool {
	return v.kind == sig.KindMaybe && len(v.children) == 0
}

// Scalar constructors.

// Bool wraps a boolean.
func Bool(b bool) *Value { return &Value{kind: sig.KindBoolean, typ: sig.MustParse("b"), b: b} }

// Byte wraps an 8-bit unsigned integer.
func Byte(y uint8) *Value { return &Value{kind: sig.KindByte, typ: sig.MustParse("y"), u: uint64(y)} }

// Int16 wraps a 16-bit signed integer.
func Int16(n int16) *Value { return &Value{kind: sig.KindInt16, typ: sig.MustParse("n"), i: int64(n)} }

// UInt16 wraps a 16-bit unsigned integer.
func UInt16(q uint16) *Value {
	return &Value{kind: sig.KindUInt16, typ: sig.MustParse("q"), u: uint64(q)}
}

// Int32 wraps a 32-bit signed integer.
func Int32(i int32) *Value { return &Value{kind: sig.KindInt32, typ: sig.MustParse("i"), i: int64(i)} }

// UInt32 wraps a 32-bit unsigned integer.
func UInt32(u uint32) *Value {
	return &Value{kind: sig.KindUInt32, typ: sig.MustParse("u"), u: uint64(u)}
}

// Int64 wraps a 64-bit signed integer.
func Int64(x int64) *Value { return &Value{kind: sig.KindInt64, typ: sig.MustParse("x"), i: x} }

// UInt64 wraps a 64-bit unsigned integer.
func UInt64(t uint64) *Value { return &Value{kind: sig.KindUInt64, typ: sig.MustParse("t"), u: t} }

// Double wraps a 64-bit float.
func Double(d float64) *Value { return &Value{kind: sig.KindDouble, typ: sig.MustParse("d"), f: d} }

// String wraps a string.
func String(s string) *Value { return &Value{kind: sig.KindString, typ: sig.MustParse("s"), s: s} }

// ObjectPath wraps an object path string.
func ObjectPath(o string) *Value {
	return &Value{kind: sig.KindObjectPath, typ: sig.MustParse("o"), s: o}
}

// Signature wraps a signature string.
func Signature(g string) *Value {
	return &Value{kind: sig.KindSignature, typ: sig.MustParse("g"), s: g}
}

// Compound constructors. Element signatures are explicit so empty containers
// stay fully typed.

// ArrayOf builds an array of elem-typed items.
func ArrayOf(elem *sig.TypeSignature, items ...*Value) *Value {
	return &Value{
		kind:     sig.KindArray,
		typ:      sig.MustParse("a" + elem.String()),
		children: items,
	}
}

// DictOf builds a dict-entry array with the given key and value signatures.
func DictOf(key, val *sig.TypeSignature, entries ...DictEntry) *Value {
	return &Value{
		kind:    sig.KindDictEntryArray,
		typ:     sig.MustParse("a{" + key.String() + val.String() + "}"),
		entries: entries,
	}
}

// TupleOf builds a tuple from the given fields; the signature is derived from
// the fields' own types.
func TupleOf(fields ...*Value) *Value {
	raw := "("
	for _, f := range fields {
		raw += f.TypeString()
	}
	raw += ")"
	return &Value{kind: sig.KindTuple, typ: sig.MustParse(raw), children: fields}
}

// MaybeJust builds a present maybe wrapping inner.
func MaybeJust(inner *Value) *Value {
	return &Value{
		kind:     sig.KindMaybe,
		typ:      sig.MustParse("m" + inner.TypeString()),
		children: []*Value{inner},
	}
}

// MaybeNothing builds the absent state of a maybe with the given element type.
func MaybeNothing(elem *sig.TypeSignature) *Value {
	return &Value{kind: sig.KindMaybe, typ: sig.MustParse("m" + elem.String())}
}

// Wrap boxes inner in a variant. The inner value's own signature becomes the
// variant's discovered type.
func Wrap(inner *Value) *Value {
	return &Value{kind: sig.KindVariant, typ: sig.MustParse("v"), children: []*Value{inner}}
}

// Equal reports deep structural equality. Dictionary comparison is
// order-insensitive: entry sets must match by key, everything else compares
// positionally.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case sig.KindBoolean:
		return v.b == other.b
	case sig.KindInt16, sig.KindInt32, sig.KindInt64:
		return v.i == other.i
	case sig.KindByte, sig.KindUInt16, sig.KindUInt32, sig.KindUInt64:
		return v.u == other.u
	case sig.KindDouble:
		return v.f == other.f
	case sig.KindString, sig.KindObjectPath, sig.KindSignature:
		return v.s == other.s
	case sig.KindDictEntryArray:
		if v.TypeString() != other.TypeString() || len(v.entries) != len(other.entries) {
			return false
		}
		byKey := make(map[string]*Value, len(other.entries))
		for _, e := range other.entries {
			byKey[e.Key.Display()] = e.Value
		}
		for _, e := range v.entries {
			match, ok := byKey[e.Key.Display()]
			if !ok || !e.Value.Equal(match) {
				return false
			}
		}
		return true
	default:
		if v.TypeString() != other.TypeString() || len(v.children) != len(other.children) {
			return false
		}
		for i, c := range v.children {
			if !c.Equal(other.children[i]) {
				return false
			}
		}
		return true
	}
}

// Display renders a scalar for human consumption: unquoted strings, and the
// "True"/"False" spellings the edit flow round-trips. Compound values fall
// back to the text notation.
func (v *Value) Display() string {
	switch v.kind {
	case sig.KindBoolean:
		if v.b {
			return "True"
		}
		return "False"
	case sig.KindInt16, sig.KindInt32, sig.KindInt64:
		return strconv.FormatInt(v.i, 10)
	case sig.KindByte, sig.KindUInt16, sig.KindUInt32, sig.KindUInt64:
		return strconv.FormatUint(v.u, 10)
	case sig.KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case sig.KindString, sig.KindObjectPath, sig.KindSignature:
		return v.s
	default:
		return v.Format()
	}
}
