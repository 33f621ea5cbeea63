package variant

import (
	"strconv"
	"strings"

	sig "github.com/goliatone/go-vartree/pkg/signature"
)

// Format renders the value in the text notation understood by ParseText.
// The notation is self-sufficient given the value's signature: scalars render
// bare, strings quoted, arrays in brackets, dicts in braces, tuples in
// parentheses, absent maybes as "nothing", and variants as <@SIG value> so
// the discovered type survives a round trip.
func (v *Value) Format() string {
	var b strings.Builder
	v.format(&b)
	return b.String()
}

func (v *Value) format(b *strings.Builder) {
	switch v.kind {
	case sig.KindBoolean:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case sig.KindInt16, sig.KindInt32, sig.KindInt64:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case sig.KindByte, sig.KindUInt16, sig.KindUInt32, sig.KindUInt64:
		b.WriteString(strconv.FormatUint(v.u, 10))
	case sig.KindDouble:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case sig.KindString, sig.KindObjectPath, sig.KindSignature:
		b.WriteString(strconv.Quote(v.s))
	case sig.KindArray:
		b.WriteByte('[')
		for i, c := range v.children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.format(b)
		}
		b.WriteByte(']')
	case sig.KindDictEntryArray:
		b.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				b.WriteString(", ")
			}
			e.Key.format(b)
			b.WriteString(": ")
			e.Value.format(b)
		}
		b.WriteByte('}')
	case sig.KindTuple:
		b.WriteByte('(')
		for i, c := range v.children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.format(b)
		}
		b.WriteByte(')')
	case sig.KindMaybe:
		if len(v.children) == 0 {
			b.WriteString("nothing")
			return
		}
		inner := v.children[0]
		// A nested maybe needs the explicit "just" keyword, otherwise
		// just(nothing) and nothing would collapse into the same text.
		if inner.kind == sig.KindMaybe {
			b.WriteString("just ")
		}
		inner.format(b)
	case sig.KindVariant:
		b.WriteString("<@")
		b.WriteString(v.children[0].TypeString())
		b.WriteByte(' ')
		v.children[0].format(b)
		b.WriteByte('>')
	}
}
