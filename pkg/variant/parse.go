package variant

import (
	"strconv"
	"strings"

	sig "github.com/goliatone/go-vartree/pkg/signature"
)

// ParseText parses the text notation produced by Format, guided by the
// expected type signature. The whole input must be consumed; leftover text is
// a syntax error. ParseText(t, v.Format()) always reproduces a value equal
// to v when t is v's signature.
func ParseText(t *sig.TypeSignature, text string) (*Value, error) {
	s := &scanner{src: text}
	v, err := s.value(t)
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if s.pos != len(s.src) {
		return nil, syntax(s.pos, "trailing text after value")
	}
	return v, nil
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t' || s.src[s.pos] == '\n') {
		s.pos++
	}
}

func (s *scanner) peek() (byte, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

func (s *scanner) expect(c byte) error {
	s.skipSpace()
	got, ok := s.peek()
	if !ok || got != c {
		return syntax(s.pos, "expected "+strconv.QuoteRune(rune(c)))
	}
	s.pos++
	return nil
}

// sigWord consumes a type signature token, which ends only at whitespace
// since signatures themselves contain brackets and braces.
func (s *scanner) sigWord() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == ' ' || c == '\t' || c == '\n' {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

// word consumes a run of bare token characters (numbers, keywords).
func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == ' ' || c == '\t' || c == '\n' || strings.IndexByte(",:[]{}()<>", c) >= 0 {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) value(t *sig.TypeSignature) (*Value, error) {
	s.skipSpace()
	switch t.Kind() {
	case sig.KindBoolean:
		return s.boolean()
	case sig.KindByte, sig.KindUInt16, sig.KindUInt32, sig.KindUInt64:
		return s.unsigned(t.Kind())
	case sig.KindInt16, sig.KindInt32, sig.KindInt64:
		return s.signed(t.Kind())
	case sig.KindDouble:
		return s.double()
	case sig.KindString, sig.KindObjectPath, sig.KindSignature:
		return s.quoted(t.Kind())
	case sig.KindArray:
		return s.array(t)
	case sig.KindDictEntryArray:
		return s.dict(t)
	case sig.KindTuple:
		return s.tuple(t)
	case sig.KindMaybe:
		return s.maybe(t)
	case sig.KindVariant:
		return s.variant()
	}
	return nil, syntax(s.pos, "cannot parse value of kind "+t.Kind().String())
}

func (s *scanner) boolean() (*Value, error) {
	at := s.pos
	switch s.word() {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}
	return nil, syntax(at, "expected true or false")
}

func (s *scanner) unsigned(k sig.Kind) (*Value, error) {
	at := s.pos
	u, err := strconv.ParseUint(s.word(), 10, intBits(k))
	if err != nil {
		return nil, syntax(at, "invalid "+k.String()+" literal")
	}
	switch k {
	case sig.KindByte:
		return Byte(uint8(u)), nil
	case sig.KindUInt16:
		return UInt16(uint16(u)), nil
	case sig.KindUInt32:
		return UInt32(uint32(u)), nil
	default:
		return UInt64(u), nil
	}
}

func (s *scanner) signed(k sig.Kind) (*Value, error) {
	at := s.pos
	i, err := strconv.ParseInt(s.word(), 10, intBits(k))
	if err != nil {
		return nil, syntax(at, "invalid "+k.String()+" literal")
	}
	switch k {
	case sig.KindInt16:
		return Int16(int16(i)), nil
	case sig.KindInt32:
		return Int32(int32(i)), nil
	default:
		return Int64(i), nil
	}
}

func intBits(k sig.Kind) int {
	switch k {
	case sig.KindByte:
		return 8
	case sig.KindInt16, sig.KindUInt16:
		return 16
	case sig.KindInt32, sig.KindUInt32:
		return 32
	default:
		return 64
	}
}

func (s *scanner) double() (*Value, error) {
	at := s.pos
	f, err := strconv.ParseFloat(s.word(), 64)
	if err != nil {
		return nil, syntax(at, "invalid double literal")
	}
	return Double(f), nil
}

func (s *scanner) quoted(k sig.Kind) (*Value, error) {
	at := s.pos
	prefix, err := strconv.QuotedPrefix(s.src[s.pos:])
	if err != nil {
		return nil, syntax(at, "expected quoted string")
	}
	text, err := strconv.Unquote(prefix)
	if err != nil {
		return nil, syntax(at, "invalid quoted string")
	}
	s.pos += len(prefix)
	switch k {
	case sig.KindObjectPath:
		return ObjectPath(text), nil
	case sig.KindSignature:
		return Signature(text), nil
	default:
		return String(text), nil
	}
}

func (s *scanner) array(t *sig.TypeSignature) (*Value, error) {
	if err := s.expect('['); err != nil {
		return nil, err
	}
	var items []*Value
	s.skipSpace()
	if c, ok := s.peek(); ok && c == ']' {
		s.pos++
		return ArrayOf(t.Elem()), nil
	}
	for {
		item, err := s.value(t.Elem())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		s.skipSpace()
		c, ok := s.peek()
		if !ok {
			return nil, syntax(s.pos, "unterminated array")
		}
		if c == ',' {
			s.pos++
			continue
		}
		if c == ']' {
			s.pos++
			return ArrayOf(t.Elem(), items...), nil
		}
		return nil, syntax(s.pos, "expected ',' or ']' in array")
	}
}

func (s *scanner) dict(t *sig.TypeSignature) (*Value, error) {
	if err := s.expect('{'); err != nil {
		return nil, err
	}
	var entries []DictEntry
	s.skipSpace()
	if c, ok := s.peek(); ok && c == '}' {
		s.pos++
		return DictOf(t.Key(), t.Elem()), nil
	}
	for {
		key, err := s.value(t.Key())
		if err != nil {
			return nil, err
		}
		if err := s.expect(':'); err != nil {
			return nil, err
		}
		val, err := s.value(t.Elem())
		if err != nil {
			return nil, err
		}
		entries = append(entries, DictEntry{Key: key, Value: val})
		s.skipSpace()
		c, ok := s.peek()
		if !ok {
			return nil, syntax(s.pos, "unterminated dict")
		}
		if c == ',' {
			s.pos++
			continue
		}
		if c == '}' {
			s.pos++
			return DictOf(t.Key(), t.Elem(), entries...), nil
		}
		return nil, syntax(s.pos, "expected ',' or '}' in dict")
	}
}

func (s *scanner) tuple(t *sig.TypeSignature) (*Value, error) {
	if err := s.expect('('); err != nil {
		return nil, err
	}
	fields := make([]*Value, 0, len(t.Fields()))
	for i, ft := range t.Fields() {
		if i > 0 {
			if err := s.expect(','); err != nil {
				return nil, err
			}
		}
		field, err := s.value(ft)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	if err := s.expect(')'); err != nil {
		return nil, err
	}
	return TupleOf(fields...), nil
}

func (s *scanner) maybe(t *sig.TypeSignature) (*Value, error) {
	s.skipSpace()
	rest := s.src[s.pos:]
	if strings.HasPrefix(rest, "nothing") && stopsWord(rest, len("nothing")) {
		s.pos += len("nothing")
		return MaybeNothing(t.Elem()), nil
	}
	if strings.HasPrefix(rest, "just") && stopsWord(rest, len("just")) {
		s.pos += len("just")
	}
	inner, err := s.value(t.Elem())
	if err != nil {
		return nil, err
	}
	return MaybeJust(inner), nil
}

// stopsWord reports whether the character following a keyword candidate ends
// the bare word, so "nothingness" is not read as the keyword.
func stopsWord(text string, at int) bool {
	if at >= len(text) {
		return true
	}
	c := text[at]
	return c == ' ' || c == '\t' || c == '\n' || strings.IndexByte(",:[]{}()<>", c) >= 0
}

func (s *scanner) variant() (*Value, error) {
	if err := s.expect('<'); err != nil {
		return nil, err
	}
	if err := s.expect('@'); err != nil {
		return nil, err
	}
	at := s.pos
	raw := s.sigWord()
	inner, err := sig.Parse(raw)
	if err != nil {
		return nil, syntax(at, "invalid variant type signature "+strconv.Quote(raw))
	}
	val, err := s.value(inner)
	if err != nil {
		return nil, err
	}
	if err := s.expect('>'); err != nil {
		return nil, err
	}
	return Wrap(val), nil
}
