package signature

import (
	"fmt"
)

// Kind enumerates the closed set of type classifications a signature can
// resolve to. Composite kinds carry sub-signatures; everything else is a leaf.
type Kind int

const (
	KindInvalid Kind = iota
	KindBoolean
	KindByte
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindDouble
	KindString
	KindObjectPath
	KindSignature
	KindVariant
	KindMaybe
	KindArray
	KindDictEntryArray
	KindTuple
)

var kindNames = map[Kind]string{
	KindInvalid:        "invalid",
	KindBoolean:        "boolean",
	KindByte:           "byte",
	KindInt16:          "int16",
	KindUInt16:         "uint16",
	KindInt32:          "int32",
	KindUInt32:         "uint32",
	KindInt64:          "int64",
	KindUInt64:         "uint64",
	KindDouble:         "double",
	KindString:         "string",
	KindObjectPath:     "objectpath",
	KindSignature:      "signature",
	KindVariant:        "variant",
	KindMaybe:          "maybe",
	KindArray:          "array",
	KindDictEntryArray: "dict",
	KindTuple:          "tuple",
}

// String reports a stable lowercase name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsBasic reports whether the kind is a single-character leaf type that can
// also serve as a dictionary key.
func (k Kind) IsBasic() bool {
	switch k {
	case KindBoolean, KindByte, KindInt16, KindUInt16, KindInt32, KindUInt32,
		KindInt64, KindUInt64, KindDouble, KindString, KindObjectPath, KindSignature:
		return true
	}
	return false
}

// IsNumeric reports whether the kind holds a numeric scalar.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindByte, KindInt16, KindUInt16, KindInt32, KindUInt32,
		KindInt64, KindUInt64, KindDouble:
		return true
	}
	return false
}

// IsSigned reports whether the kind is a signed integer width.
func (k Kind) IsSigned() bool {
	switch k {
	case KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// IsUnsigned reports whether the kind is an unsigned integer width.
func (k Kind) IsUnsigned() bool {
	switch k {
	case KindByte, KindUInt16, KindUInt32, KindUInt64:
		return true
	}
	return false
}

var basicKinds = map[byte]Kind{
	'b': KindBoolean,
	'y': KindByte,
	'n': KindInt16,
	'q': KindUInt16,
	'i': KindInt32,
	'u': KindUInt32,
	'x': KindInt64,
	't': KindUInt64,
	'd': KindDouble,
	's': KindString,
	'o': KindObjectPath,
	'g': KindSignature,
}

// TypeSignature is an immutable, fully-parsed type signature. Composite kinds
// reference their sub-signatures: Elem for arrays and maybes, Key/Elem for
// dict-entry arrays, and Fields for tuples.
type TypeSignature struct {
	raw    string
	kind   Kind
	elem   *TypeSignature
	key    *TypeSignature
	fields []*TypeSignature
}

// String returns the raw signature text.
func (s *TypeSignature) String() string { return s.raw }

// Kind reports the signature's type classification.
func (s *TypeSignature) Kind() Kind { return s.kind }

// Elem returns the element signature of an array or maybe, or the value
// signature of a dict-entry array. Nil for every other kind.
func (s *TypeSignature) Elem() *TypeSignature { return s.elem }

// Key returns the key signature of a dict-entry array, nil otherwise.
func (s *TypeSignature) Key() *TypeSignature { return s.key }

// Fields returns the ordered component signatures of a tuple.
func (s *TypeSignature) Fields() []*TypeSignature { return s.fields }

// IsLeaf reports whether the signature describes a scalar slot. Variant is
// not a leaf: its concrete shape is discovered from the value it wraps.
func (s *TypeSignature) IsLeaf() bool { return s.kind.IsBasic() }

// Parse scans the supplied signature text left to right and returns the
// resulting TypeSignature. The whole input must form exactly one signature;
// unbalanced brackets, unknown characters, or trailing text fail with a
// *MalformedSignatureError. A failed parse never returns a partial result.
func Parse(raw string) (*TypeSignature, error) {
	if raw == "" {
		return nil, malformed(raw, 0, "empty signature")
	}
	sig, rest, err := parseOne(raw, 0)
	if err != nil {
		return nil, err
	}
	if rest != len(raw) {
		return nil, malformed(raw, rest, "trailing characters after signature")
	}
	return sig, nil
}

// MustParse is Parse for signatures known valid at compile time; it panics on
// error and exists for tests and fixtures.
func MustParse(raw string) *TypeSignature {
	sig, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return sig
}

// parseOne consumes one complete signature starting at pos, returning the
// parsed signature and the offset of the first unconsumed character.
func parseOne(raw string, pos int) (*TypeSignature, int, error) {
	if pos >= len(raw) {
		return nil, pos, malformed(raw, pos, "truncated signature")
	}
	c := raw[pos]

	if kind, ok := basicKinds[c]; ok {
		return &TypeSignature{raw: raw[pos : pos+1], kind: kind}, pos + 1, nil
	}

	switch c {
	case 'v', '@':
		// Variant: the wrapped type travels with the value, not the signature.
		return &TypeSignature{raw: raw[pos : pos+1], kind: KindVariant}, pos + 1, nil

	case 'm':
		elem, next, err := parseOne(raw, pos+1)
		if err != nil {
			return nil, pos, err
		}
		return &TypeSignature{raw: raw[pos:next], kind: KindMaybe, elem: elem}, next, nil

	case 'a':
		// Peek one character: 'a{' opens a dict-entry array, anything else is
		// a plain array of the nested signature.
		if pos+1 < len(raw) && raw[pos+1] == '{' {
			return parseDict(raw, pos)
		}
		elem, next, err := parseOne(raw, pos+1)
		if err != nil {
			return nil, pos, err
		}
		return &TypeSignature{raw: raw[pos:next], kind: KindArray, elem: elem}, next, nil

	case '(':
		return parseTuple(raw, pos)
	}

	return nil, pos, malformed(raw, pos, fmt.Sprintf("unrecognized signature character %q", c))
}

func parseDict(raw string, pos int) (*TypeSignature, int, error) {
	// pos points at 'a', pos+1 at '{'.
	key, next, err := parseOne(raw, pos+2)
	if err != nil {
		return nil, pos, err
	}
	if !key.kind.IsBasic() {
		return nil, pos, malformed(raw, pos+2, "dict key must be a basic type")
	}
	val, next, err := parseOne(raw, next)
	if err != nil {
		return nil, pos, err
	}
	if next >= len(raw) || raw[next] != '}' {
		return nil, pos, malformed(raw, next, "unterminated dict entry, expected '}'")
	}
	next++
	return &TypeSignature{raw: raw[pos:next], kind: KindDictEntryArray, key: key, elem: val}, next, nil
}

func parseTuple(raw string, pos int) (*TypeSignature, int, error) {
	next := pos + 1
	var fields []*TypeSignature
	for {
		if next >= len(raw) {
			return nil, pos, malformed(raw, next, "unterminated tuple, expected ')'")
		}
		if raw[next] == ')' {
			next++
			return &TypeSignature{raw: raw[pos:next], kind: KindTuple, fields: fields}, next, nil
		}
		field, n, err := parseOne(raw, next)
		if err != nil {
			return nil, pos, err
		}
		fields = append(fields, field)
		next = n
	}
}
