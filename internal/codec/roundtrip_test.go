package codec

import (
	"errors"
	"testing"

	pkgcodec "github.com/goliatone/go-vartree/pkg/codec"
	"github.com/goliatone/go-vartree/pkg/model"
	sig "github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

func roundTrip(t *testing.T, rawSig string, val *variant.Value) {
	t.Helper()
	signature := sig.MustParse(rawSig)
	tree, err := NewDecomposer().Decompose(signature, val, "key")
	if err != nil {
		t.Fatalf("decompose %q: %v", rawSig, err)
	}
	back, err := NewRecomposer().Recompose(tree, signature)
	if err != nil {
		t.Fatalf("recompose %q: %v", rawSig, err)
	}
	if !back.Equal(val) {
		t.Fatalf("round trip %q: got %s, want %s", rawSig, back.Format(), val.Format())
	}
}

func TestRoundTripEveryKind(t *testing.T) {
	intT := sig.MustParse("i")
	strT := sig.MustParse("s")
	cases := []struct {
		sig string
		v   *variant.Value
	}{
		{"b", variant.Bool(true)},
		{"y", variant.Byte(7)},
		{"n", variant.Int16(-3)},
		{"q", variant.UInt16(65535)},
		{"i", variant.Int32(42)},
		{"u", variant.UInt32(7)},
		{"x", variant.Int64(-1 << 40)},
		{"t", variant.UInt64(1 << 60)},
		{"d", variant.Double(3.14)},
		{"s", variant.String("hello")},
		{"o", variant.ObjectPath("/org/example")},
		{"g", variant.Signature("a{sv}")},
		{"ai", variant.ArrayOf(intT, variant.Int32(1), variant.Int32(2))},
		{"ai", variant.ArrayOf(intT)},
		{"as", variant.ArrayOf(strT, variant.String("a"), variant.String("b"))},
		{"a{si}", variant.DictOf(strT, intT,
			variant.DictEntry{Key: variant.String("one"), Value: variant.Int32(1)},
			variant.DictEntry{Key: variant.String("two"), Value: variant.Int32(2)},
		)},
		{"(ibs)", variant.TupleOf(variant.Int32(1), variant.Bool(false), variant.String("x"))},
		{"mi", variant.MaybeNothing(intT)},
		{"mi", variant.MaybeJust(variant.Int32(5))},
		{"mai", variant.MaybeJust(variant.ArrayOf(intT, variant.Int32(9)))},
		{"v", variant.Wrap(variant.Int32(42))},
		{"v", variant.Wrap(variant.Wrap(variant.String("twice")))},
		{"av", variant.ArrayOf(sig.MustParse("v"), variant.Wrap(variant.Bool(true)), variant.Wrap(variant.Int64(8)))},
		{"a{sv}", variant.DictOf(strT, sig.MustParse("v"),
			variant.DictEntry{Key: variant.String("nested"), Value: variant.Wrap(variant.ArrayOf(intT, variant.Int32(3)))},
		)},
		{"a(ii)", variant.ArrayOf(sig.MustParse("(ii)"),
			variant.TupleOf(variant.Int32(1), variant.Int32(2)),
			variant.TupleOf(variant.Int32(3), variant.Int32(4)),
		)},
	}
	for _, tc := range cases {
		roundTrip(t, tc.sig, tc.v)
	}
}

func TestDecomposeLeafShape(t *testing.T) {
	tree, err := NewDecomposer().Decompose(sig.MustParse("i"), variant.Int32(42), "answer")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if tree.Compound || tree.Leaf == nil || len(tree.Children) != 0 {
		t.Fatalf("leaf node malformed: compound=%v children=%d", tree.Compound, len(tree.Children))
	}
	if tree.Name != "answer" || tree.Leaf.Int() != 42 {
		t.Fatalf("leaf payload wrong: name=%q value=%d", tree.Name, tree.Leaf.Int())
	}
}

func TestDecomposeArrayOrderAndNames(t *testing.T) {
	val := variant.ArrayOf(sig.MustParse("s"),
		variant.String("first"), variant.String("second"), variant.String("third"))
	tree, err := NewDecomposer().Decompose(sig.MustParse("as"), val, "key")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	want := []string{"0", "1", "2"}
	for i, child := range tree.Children {
		if child.Name != want[i] {
			t.Fatalf("child %d name = %q, want %q", i, child.Name, want[i])
		}
	}
	if tree.Children[1].Leaf.Text() != "second" {
		t.Fatalf("child order not preserved")
	}
}

func TestDecomposeDictCollisionLastWins(t *testing.T) {
	strT, intT := sig.MustParse("s"), sig.MustParse("i")
	val := variant.DictOf(strT, intT,
		variant.DictEntry{Key: variant.String("dup"), Value: variant.Int32(1)},
		variant.DictEntry{Key: variant.String("other"), Value: variant.Int32(5)},
		variant.DictEntry{Key: variant.String("dup"), Value: variant.Int32(2)},
	)
	tree, err := NewDecomposer().Decompose(sig.MustParse("a{si}"), val, "key")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children after collision, got %d", len(tree.Children))
	}
	if tree.Children[0].Name != "dup" || tree.Children[0].Leaf.Int() != 2 {
		t.Fatalf("collision must keep the later value: got %s=%d",
			tree.Children[0].Name, tree.Children[0].Leaf.Int())
	}
}

func TestDecomposeEmptyMaybe(t *testing.T) {
	tree, err := NewDecomposer().Decompose(sig.MustParse("mi"), variant.MaybeNothing(sig.MustParse("i")), "key")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if !tree.Compound || len(tree.Children) != 0 {
		t.Fatalf("empty maybe must decompose to a compound node with zero children")
	}
	back, err := NewRecomposer().Recompose(tree, sig.MustParse("mi"))
	if err != nil {
		t.Fatalf("recompose: %v", err)
	}
	if !back.IsNothing() {
		t.Fatalf("zero-child maybe must recompose to the absent encoding")
	}
}

func TestVariantFlatteningInsideTuple(t *testing.T) {
	// v wrapping i with value 42, nested two levels inside tuples: the leaf
	// takes the variant's place with no visible wrapper node.
	inner := variant.TupleOf(variant.String("tag"), variant.Wrap(variant.Int32(42)))
	val := variant.TupleOf(variant.Bool(true), inner)
	treeSig := sig.MustParse("(b(sv))")

	tree, err := NewDecomposer().Decompose(treeSig, val, "key")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	leaf := tree.At(1, 1)
	if leaf == nil {
		t.Fatalf("missing node at position 1.1")
	}
	if leaf.Compound {
		t.Fatalf("flattened variant should surface its leaf, got a compound node")
	}
	if !leaf.VariantWrapped() {
		t.Fatalf("flattened leaf must be marked variant-wrapped")
	}
	if leaf.Leaf.Int() != 42 {
		t.Fatalf("leaf value = %d, want 42", leaf.Leaf.Int())
	}
	if leaf.Sig.Kind() != sig.KindInt32 {
		t.Fatalf("leaf discovered kind = %v, want int32", leaf.Sig.Kind())
	}

	back, err := NewRecomposer().Recompose(tree, treeSig)
	if err != nil {
		t.Fatalf("recompose: %v", err)
	}
	if !back.Equal(val) {
		t.Fatalf("wrapper not reinserted: got %s, want %s", back.Format(), val.Format())
	}
}

func TestVariantAtRootKeepsWrapperNode(t *testing.T) {
	val := variant.Wrap(variant.Int32(7))
	tree, err := NewDecomposer().Decompose(sig.MustParse("v"), val, "key")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if !tree.Compound || tree.Sig.Kind() != sig.KindVariant {
		t.Fatalf("root variant must keep its wrapper node")
	}
	if len(tree.Children) != 1 || tree.Children[0].Leaf.Int() != 7 {
		t.Fatalf("wrapper child malformed")
	}
}

func TestIdempotentTreeShape(t *testing.T) {
	treeSig := sig.MustParse("a{sv}")
	val := variant.DictOf(sig.MustParse("s"), sig.MustParse("v"),
		variant.DictEntry{Key: variant.String("k"), Value: variant.Wrap(variant.TupleOf(variant.Int32(1), variant.Bool(true)))},
	)
	first, err := NewDecomposer().Decompose(treeSig, val, "key")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	back, err := NewRecomposer().Recompose(first, treeSig)
	if err != nil {
		t.Fatalf("recompose: %v", err)
	}
	second, err := NewDecomposer().Decompose(treeSig, back, "key")
	if err != nil {
		t.Fatalf("second decompose: %v", err)
	}
	var shapeOf func(*model.ValueNode) string
	shapeOf = func(n *model.ValueNode) string {
		s := n.Name + ":" + n.Sig.String()
		if n.Compound {
			s += "["
			for _, c := range n.Children {
				s += shapeOf(c) + ","
			}
			s += "]"
		}
		return s
	}
	if shapeOf(first) != shapeOf(second) {
		t.Fatalf("tree shape not idempotent:\n first: %s\nsecond: %s", shapeOf(first), shapeOf(second))
	}
}

func TestLeafEditCoercion(t *testing.T) {
	treeSig := sig.MustParse("(ibd)")
	val := variant.TupleOf(variant.Int32(1), variant.Bool(false), variant.Double(0.5))
	tree, err := NewDecomposer().Decompose(treeSig, val, "key")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}

	tree.At(0).SetLeafText("99")
	tree.At(1).SetLeafText("True")
	tree.At(2).SetLeafText("2.75")

	back, err := NewRecomposer().Recompose(tree, treeSig)
	if err != nil {
		t.Fatalf("recompose after edit: %v", err)
	}
	want := variant.TupleOf(variant.Int32(99), variant.Bool(true), variant.Double(2.75))
	if !back.Equal(want) {
		t.Fatalf("edited value = %s, want %s", back.Format(), want.Format())
	}
}

func TestBooleanCoercionSpellings(t *testing.T) {
	treeSig := sig.MustParse("b")
	for text, want := range map[string]bool{"True": true, "False": false} {
		tree, _ := NewDecomposer().Decompose(treeSig, variant.Bool(!want), "key")
		tree.SetLeafText(text)
		back, err := NewRecomposer().Recompose(tree, treeSig)
		if err != nil {
			t.Fatalf("recompose %q: %v", text, err)
		}
		if back.Bool() != want {
			t.Fatalf("coerce %q = %v, want %v", text, back.Bool(), want)
		}
	}
	// Only the exact display spellings are accepted.
	for _, text := range []string{"yes", "true", "TRUE", "1", ""} {
		tree, _ := NewDecomposer().Decompose(treeSig, variant.Bool(false), "key")
		tree.SetLeafText(text)
		if _, err := NewRecomposer().Recompose(tree, treeSig); !errors.Is(err, pkgcodec.ErrCoercion) {
			t.Fatalf("coerce %q: error %v, want ErrCoercion", text, err)
		}
	}
}

func TestNumericCoercionFailure(t *testing.T) {
	treeSig := sig.MustParse("i")
	tree, _ := NewDecomposer().Decompose(treeSig, variant.Int32(0), "key")
	tree.SetLeafText("not-a-number")
	_, err := NewRecomposer().Recompose(tree, treeSig)
	if !errors.Is(err, pkgcodec.ErrCoercion) {
		t.Fatalf("error = %v, want ErrCoercion", err)
	}
	var cerr *pkgcodec.CoercionError
	if !errors.As(err, &cerr) || cerr.Text != "not-a-number" {
		t.Fatalf("coercion error should carry the offending text, got %v", err)
	}
}

func TestSignatureLeafCoercion(t *testing.T) {
	treeSig := sig.MustParse("g")
	tree, _ := NewDecomposer().Decompose(treeSig, variant.Signature("i"), "key")
	tree.SetLeafText("a{sv}")
	back, err := NewRecomposer().Recompose(tree, treeSig)
	if err != nil {
		t.Fatalf("recompose: %v", err)
	}
	if back.Text() != "a{sv}" {
		t.Fatalf("signature leaf = %q, want %q", back.Text(), "a{sv}")
	}

	for _, text := range []string{"zz", "", "a{s", "(ii"} {
		tree, _ := NewDecomposer().Decompose(treeSig, variant.Signature("i"), "key")
		tree.SetLeafText(text)
		if _, err := NewRecomposer().Recompose(tree, treeSig); !errors.Is(err, pkgcodec.ErrCoercion) {
			t.Fatalf("coerce %q: error %v, want ErrCoercion", text, err)
		}
	}
}

func TestObjectPathLeafCoercion(t *testing.T) {
	treeSig := sig.MustParse("o")
	for _, text := range []string{"/", "/org", "/org/example/Editor_1"} {
		tree, _ := NewDecomposer().Decompose(treeSig, variant.ObjectPath("/old"), "key")
		tree.SetLeafText(text)
		back, err := NewRecomposer().Recompose(tree, treeSig)
		if err != nil {
			t.Fatalf("recompose %q: %v", text, err)
		}
		if back.Text() != text {
			t.Fatalf("object path leaf = %q, want %q", back.Text(), text)
		}
	}

	for _, text := range []string{"", "org/example", "/org/", "/org//example", "/org/ex-ample", "/org example"} {
		tree, _ := NewDecomposer().Decompose(treeSig, variant.ObjectPath("/old"), "key")
		tree.SetLeafText(text)
		if _, err := NewRecomposer().Recompose(tree, treeSig); !errors.Is(err, pkgcodec.ErrCoercion) {
			t.Fatalf("coerce %q: error %v, want ErrCoercion", text, err)
		}
	}
}

func TestTupleArityMismatch(t *testing.T) {
	treeSig := sig.MustParse("(ii)")
	val := variant.TupleOf(variant.Int32(1), variant.Int32(2))
	tree, err := NewDecomposer().Decompose(treeSig, val, "key")
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	tree.Children = tree.Children[:1]
	if _, err := NewRecomposer().Recompose(tree, treeSig); !errors.Is(err, pkgcodec.ErrStructuralMismatch) {
		t.Fatalf("error = %v, want ErrStructuralMismatch", err)
	}
}

func TestDecomposeTypeMismatch(t *testing.T) {
	_, err := NewDecomposer().Decompose(sig.MustParse("i"), variant.String("oops"), "key")
	if !errors.Is(err, pkgcodec.ErrTypeMismatch) {
		t.Fatalf("error = %v, want ErrTypeMismatch", err)
	}
}

func TestDictKeyCoercionOnRecompose(t *testing.T) {
	// Integer-keyed dict: child names round-trip through text back to keys.
	intT := sig.MustParse("i")
	val := variant.DictOf(intT, sig.MustParse("s"),
		variant.DictEntry{Key: variant.Int32(3), Value: variant.String("three")},
	)
	roundTrip(t, "a{is}", val)
}
