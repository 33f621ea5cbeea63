package codec

import (
	"strconv"
	"strings"

	pkgcodec "github.com/goliatone/go-vartree/pkg/codec"
	"github.com/goliatone/go-vartree/pkg/model"
	"github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

// Recomposer reconstructs an encoded value from a node tree and the
// originating signature. It is the exact left inverse of Decomposer.
type Recomposer struct{}

var _ pkgcodec.Recomposer = (*Recomposer)(nil)

// NewRecomposer constructs the built-in recomposer.
func NewRecomposer() *Recomposer {
	return &Recomposer{}
}

// Recompose walks the tree against sig and returns the rebuilt value. Elided
// variant wrappers are re-applied at the positions they were flattened from,
// so display-only flattening is never visible in the output.
func (r *Recomposer) Recompose(root *model.ValueNode, sig *signature.TypeSignature) (*variant.Value, error) {
	return r.value(root, sig, root.Name)
}

func (r *Recomposer) value(node *model.ValueNode, sig *signature.TypeSignature, path string) (*variant.Value, error) {
	if sig.Kind() == kindVariant {
		// A kept wrapper node (variant at the tree root) recomposes its sole
		// child under the child's discovered signature and re-wraps once.
		if node.Sig.Kind() == kindVariant {
			if len(node.Children) != 1 {
				return nil, &pkgcodec.StructuralMismatchError{Path: path, Reason: "variant wrapper must hold exactly one child"}
			}
			child := node.Children[0]
			inner, err := r.value(child, child.Sig, path)
			if err != nil {
				return nil, err
			}
			return variant.Wrap(inner), nil
		}
		// A flattened node carries its discovered signature; the wrap count
		// restores the elided wrappers below.
		if node.VariantWraps == 0 {
			return nil, &pkgcodec.StructuralMismatchError{Path: path, Reason: "variant slot holds a node that was never variant-wrapped"}
		}
	}

	target := sig
	if node.VariantWraps > 0 {
		target = node.Sig
	}
	val, err := r.construct(node, target, path)
	if err != nil {
		return nil, err
	}
	for i := 0; i < node.VariantWraps; i++ {
		val = variant.Wrap(val)
	}
	return val, nil
}

// construct rebuilds the bare (unwrapped) value for node under sig.
func (r *Recomposer) construct(node *model.ValueNode, sig *signature.TypeSignature, path string) (*variant.Value, error) {
	switch sig.Kind() {
	case kindArray:
		items := make([]*variant.Value, 0, len(node.Children))
		for i, child := range node.Children {
			item, err := r.value(child, sig.Elem(), path+"."+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return variant.ArrayOf(sig.Elem(), items...), nil

	case kindDict:
		entries := make([]variant.DictEntry, 0, len(node.Children))
		for _, child := range node.Children {
			key, err := coerceText(child.Name, sig.Key(), path+"."+child.Name)
			if err != nil {
				return nil, err
			}
			val, err := r.value(child, sig.Elem(), path+"."+child.Name)
			if err != nil {
				return nil, err
			}
			entries = append(entries, variant.DictEntry{Key: key, Value: val})
		}
		return variant.DictOf(sig.Key(), sig.Elem(), entries...), nil

	case kindTuple:
		fields := sig.Fields()
		if len(node.Children) != len(fields) {
			return nil, &pkgcodec.StructuralMismatchError{
				Path:   path,
				Reason: "tuple node has " + strconv.Itoa(len(node.Children)) + " children, signature expects " + strconv.Itoa(len(fields)),
			}
		}
		items := make([]*variant.Value, 0, len(fields))
		for i, fieldSig := range fields {
			item, err := r.value(node.Children[i], fieldSig, path+"."+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return variant.TupleOf(items...), nil

	case kindMaybe:
		switch len(node.Children) {
		case 0:
			return variant.MaybeNothing(sig.Elem()), nil
		case 1:
			inner, err := r.value(node.Children[0], sig.Elem(), path+".value")
			if err != nil {
				return nil, err
			}
			return variant.MaybeJust(inner), nil
		}
		return nil, &pkgcodec.StructuralMismatchError{Path: path, Reason: "maybe node has more than one child"}
	}

	// Leaf slot.
	if node.Leaf == nil {
		return nil, &pkgcodec.StructuralMismatchError{Path: path, Reason: "leaf slot holds no value"}
	}
	return coerceLeaf(node.Leaf, sig, path)
}

// coerceLeaf returns the leaf value coerced to the signature's primitive
// kind. An unedited leaf already matches and passes through; an edited leaf
// is a pending string whose text must parse as the target primitive.
func coerceLeaf(leaf *variant.Value, sig *signature.TypeSignature, path string) (*variant.Value, error) {
	if leaf.Kind() == sig.Kind() {
		return leaf, nil
	}
	if leaf.Kind() != signature.KindString {
		return nil, &pkgcodec.TypeMismatchError{Path: path, Want: sig.Kind(), Got: leaf.Kind()}
	}
	return coerceText(leaf.Text(), sig, path)
}

// CoerceText parses text as a value of the given leaf signature. Interactive
// flows use it to validate pending edits before they reach Recompose.
func CoerceText(text string, sig *signature.TypeSignature) (*variant.Value, error) {
	return coerceText(text, sig, "")
}

// coerceText parses text as a value of the given leaf signature. Booleans
// accept exactly the "True"/"False" display spellings; anything else is a
// coercion error rather than a silent truncation.
func coerceText(text string, sig *signature.TypeSignature, path string) (*variant.Value, error) {
	fail := func() error {
		return &pkgcodec.CoercionError{Path: path, Text: text, Target: sig.Kind()}
	}
	switch sig.Kind() {
	case signature.KindBoolean:
		switch text {
		case "True":
			return variant.Bool(true), nil
		case "False":
			return variant.Bool(false), nil
		}
		return nil, fail()
	case signature.KindByte:
		u, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			return nil, fail()
		}
		return variant.Byte(uint8(u)), nil
	case signature.KindInt16:
		i, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return nil, fail()
		}
		return variant.Int16(int16(i)), nil
	case signature.KindUInt16:
		u, err := strconv.ParseUint(text, 10, 16)
		if err != nil {
			return nil, fail()
		}
		return variant.UInt16(uint16(u)), nil
	case signature.KindInt32:
		i, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fail()
		}
		return variant.Int32(int32(i)), nil
	case signature.KindUInt32:
		u, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return nil, fail()
		}
		return variant.UInt32(uint32(u)), nil
	case signature.KindInt64:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fail()
		}
		return variant.Int64(i), nil
	case signature.KindUInt64:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, fail()
		}
		return variant.UInt64(u), nil
	case signature.KindDouble:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fail()
		}
		return variant.Double(f), nil
	case signature.KindString:
		return variant.String(text), nil
	case signature.KindObjectPath:
		if !validObjectPath(text) {
			return nil, fail()
		}
		return variant.ObjectPath(text), nil
	case signature.KindSignature:
		if _, err := signature.Parse(text); err != nil {
			return nil, fail()
		}
		return variant.Signature(text), nil
	}
	return nil, fail()
}

// validObjectPath checks the path shape: absolute, single-slash separated
// segments of [A-Za-z0-9_], no trailing slash except the root path itself.
func validObjectPath(s string) bool {
	if s == "/" {
		return true
	}
	if len(s) < 2 || s[0] != '/' || s[len(s)-1] == '/' {
		return false
	}
	for _, seg := range strings.Split(s[1:], "/") {
		if seg == "" {
			return false
		}
		for _, c := range seg {
			switch {
			case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			default:
				return false
			}
		}
	}
	return true
}
