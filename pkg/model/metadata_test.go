package model

import (
	"testing"

	sig "github.com/goliatone/go-vartree/pkg/signature"
	"github.com/goliatone/go-vartree/pkg/variant"
)

func TestResolveDefaultWholeCompound(t *testing.T) {
	def := variant.ArrayOf(sig.MustParse("i"), variant.Int32(1), variant.Int32(2), variant.Int32(3))
	got, err := ResolveDefault(def, true, 0)
	if err != nil {
		t.Fatalf("ResolveDefault: %v", err)
	}
	if !got.Equal(def) {
		t.Fatalf("whole-compound query must return the default unchanged")
	}
}

func TestResolveDefaultByPosition(t *testing.T) {
	def := variant.ArrayOf(sig.MustParse("i"), variant.Int32(1), variant.Int32(2), variant.Int32(3))
	got, err := ResolveDefault(def, false, 1)
	if err != nil {
		t.Fatalf("ResolveDefault: %v", err)
	}
	if got.Int() != 2 {
		t.Fatalf("element default = %d, want 2", got.Int())
	}
}

func TestResolveDefaultArityMismatch(t *testing.T) {
	def := variant.ArrayOf(sig.MustParse("i"), variant.Int32(1))
	_, err := ResolveDefault(def, false, 4)
	if err == nil {
		t.Fatalf("expected IndexOutOfRangeError")
	}
	if _, ok := err.(*IndexOutOfRangeError); !ok {
		t.Fatalf("error type = %T, want *IndexOutOfRangeError", err)
	}
}

func TestResolveDefaultScalarPassThrough(t *testing.T) {
	def := variant.Int32(9)
	got, err := ResolveDefault(def, false, 2)
	if err != nil {
		t.Fatalf("ResolveDefault: %v", err)
	}
	if got.Int() != 9 {
		t.Fatalf("scalar default must pass through, got %d", got.Int())
	}
}

func TestRangeBounds(t *testing.T) {
	r := Range{Kind: RangeBounds, Min: variant.Int32(0), Max: variant.Int32(10)}
	if !r.Allows(variant.Int32(5)) {
		t.Fatalf("5 should satisfy 0..10")
	}
	if r.Allows(variant.Int32(11)) {
		t.Fatalf("11 should violate 0..10")
	}
	if r.Allows(variant.Int32(-1)) {
		t.Fatalf("-1 should violate 0..10")
	}
}

func TestRangeEnum(t *testing.T) {
	r := Range{Kind: RangeEnum, Choices: []*variant.Value{variant.String("on"), variant.String("off")}}
	if !r.Allows(variant.String("off")) {
		t.Fatalf("off should be allowed")
	}
	if r.Allows(variant.String("auto")) {
		t.Fatalf("auto should be rejected")
	}
}

func TestNodePaths(t *testing.T) {
	root := &ValueNode{Name: "root", Sig: sig.MustParse("ai"), Compound: true}
	for i, n := range []int32{10, 20, 30} {
		root.Append(&ValueNode{Name: string(rune('0' + i)), Sig: sig.MustParse("i"), Leaf: variant.Int32(n)})
	}
	if got := root.At(1); got == nil || got.Leaf.Int() != 20 {
		t.Fatalf("At(1) addressed the wrong child")
	}
	if got := root.At(3); got != nil {
		t.Fatalf("At(3) should be nil for a 3-child node")
	}
	if idx := root.Children[2].SiblingIndex(); idx != 2 {
		t.Fatalf("SiblingIndex = %d, want 2", idx)
	}
}
