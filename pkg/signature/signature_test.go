package signature

import (
	"errors"
	"testing"
)

func TestParseBasicKinds(t *testing.T) {
	cases := map[string]Kind{
		"b": KindBoolean,
		"y": KindByte,
		"n": KindInt16,
		"q": KindUInt16,
		"i": KindInt32,
		"u": KindUInt32,
		"x": KindInt64,
		"t": KindUInt64,
		"d": KindDouble,
		"s": KindString,
		"o": KindObjectPath,
		"g": KindSignature,
		"v": KindVariant,
		"@": KindVariant,
	}
	for raw, want := range cases {
		sig, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		if sig.Kind() != want {
			t.Fatalf("Parse(%q): kind %v, want %v", raw, sig.Kind(), want)
		}
	}
}

func TestParseDictEntryArray(t *testing.T) {
	sig, err := Parse("a{sv}")
	if err != nil {
		t.Fatalf("Parse(a{sv}): %v", err)
	}
	if sig.Kind() != KindDictEntryArray {
		t.Fatalf("kind = %v, want dict", sig.Kind())
	}
	if sig.Key().Kind() != KindString {
		t.Fatalf("key kind = %v, want string", sig.Key().Kind())
	}
	if sig.Elem().Kind() != KindVariant {
		t.Fatalf("value kind = %v, want variant", sig.Elem().Kind())
	}
}

func TestParseArrayOfTuples(t *testing.T) {
	// The 'a(' branch must not be mistaken for a dict opener.
	sig, err := Parse("a(ii)")
	if err != nil {
		t.Fatalf("Parse(a(ii)): %v", err)
	}
	if sig.Kind() != KindArray {
		t.Fatalf("kind = %v, want array", sig.Kind())
	}
	elem := sig.Elem()
	if elem.Kind() != KindTuple {
		t.Fatalf("element kind = %v, want tuple", elem.Kind())
	}
	fields := elem.Fields()
	if len(fields) != 2 {
		t.Fatalf("tuple arity = %d, want 2", len(fields))
	}
	for i, f := range fields {
		if f.Kind() != KindInt32 {
			t.Fatalf("field %d kind = %v, want int32", i, f.Kind())
		}
	}
}

func TestParseMaybeArray(t *testing.T) {
	sig, err := Parse("mai")
	if err != nil {
		t.Fatalf("Parse(mai): %v", err)
	}
	if sig.Kind() != KindMaybe {
		t.Fatalf("kind = %v, want maybe", sig.Kind())
	}
	if sig.Elem().Kind() != KindArray {
		t.Fatalf("elem kind = %v, want array", sig.Elem().Kind())
	}
	if sig.Elem().Elem().Kind() != KindInt32 {
		t.Fatalf("inner kind = %v, want int32", sig.Elem().Elem().Kind())
	}
}

func TestParseNestedTuple(t *testing.T) {
	sig, err := Parse("(sa{sv}(xd))")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fields := sig.Fields()
	if len(fields) != 3 {
		t.Fatalf("arity = %d, want 3", len(fields))
	}
	if fields[1].Kind() != KindDictEntryArray {
		t.Fatalf("field 1 kind = %v, want dict", fields[1].Kind())
	}
	if fields[2].Kind() != KindTuple {
		t.Fatalf("field 2 kind = %v, want tuple", fields[2].Kind())
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"",
		"a{s",     // unterminated dict
		"a{sv",    // missing closing brace
		"(ii",     // unterminated tuple
		"m",       // maybe with no element
		"a",       // array with no element
		"z",       // unknown character
		"ii",      // trailing signature
		"a{(ii)s}", // non-basic dict key
	}
	for _, raw := range cases {
		if _, err := Parse(raw); !errors.Is(err, ErrMalformedSignature) {
			t.Fatalf("Parse(%q): error %v, want ErrMalformedSignature", raw, err)
		}
	}
}

func TestParseRawRoundTrip(t *testing.T) {
	for _, raw := range []string{"a{sv}", "a(ii)", "mai", "(sa{si})", "aav", "ms"} {
		sig, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		if sig.String() != raw {
			t.Fatalf("String() = %q, want %q", sig.String(), raw)
		}
	}
}
