package ast

import (
	"strings"
)

// Token is the smallest classified lexical unit. Bracket groups and arrays
// carry their contents in nested tokens instead of a payload.
type Token struct {
	kind   Kind
	data   string
	nested []Token
}

// NewToken builds a token, applying the non-negative payload coercion.
func NewToken(kind Kind, data string) Token {
	t := Token{kind: kind, data: data}
	t.coerce()
	return t
}

// NewGroup builds a bracket group or array token around nested tokens.
func NewGroup(kind Kind, nested []Token) Token {
	if nested == nil {
		nested = []Token{}
	}
	return Token{kind: kind, nested: nested}
}

// Empty returns the typeless token used as the degraded result of failed
// lookups and malformed input.
func Empty() Token {
	return Token{}
}

func (t Token) Kind() Kind { return t.kind }
func (t Token) Data() string { return t.data }
func (t Token) Nested() []Token { return t.nested }
func (t Token) IsEmpty() bool { return t.kind == KindNone && t.data == "" && len(t.nested) == 0 }
func (t Token) HasNested() bool { return t.nested != nil }
func (t Token) Is(kind Kind) bool { return t.kind == kind }

// SetKind replaces the kind and re-applies payload coercion.
func (t *Token) SetKind(kind Kind) {
	t.kind = kind
	t.coerce()
}

// SetData replaces the payload and re-applies payload coercion.
func (t *Token) SetData(data string) {
	t.data = data
	t.coerce()
}

// SetNested replaces the nested tokens.
func (t *Token) SetNested(nested []Token) {
	t.nested = nested
}

// Set replaces kind and payload together.
func (t *Token) Set(kind Kind, data string) {
	t.kind = kind
	t.data = data
	t.coerce()
}

// coerce clamps negative payloads on non-negative kinds.
func (t *Token) coerce() {
	if !t.kind.IsNonNegative() || !strings.HasPrefix(t.data, "-") {
		return
	}
	if t.kind == KindUFloat {
		t.data = "0.0"
		return
	}
	t.data = "0"
}

// Clone returns a deep copy of the token.
func (t Token) Clone() Token {
	out := Token{kind: t.kind, data: t.data}
	if t.nested != nil {
		out.nested = CloneTokens(t.nested)
	}
	return out
}

// CloneTokens deep-copies a token sequence.
func CloneTokens(tokens []Token) []Token {
	if tokens == nil {
		return nil
	}
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Clone()
	}
	return out
}

// ToggleSign flips the leading minus of a numeric payload.
func (t *Token) ToggleSign() {
	if strings.HasPrefix(t.data, "-") {
		t.data = t.data[1:]
		return
	}
	switch t.kind {
	case KindUInt:
		t.kind = KindInt
	case KindUFloat:
		t.kind = KindFloat
	}
	t.data = "-" + t.data
	t.coerce()
}

// String renders the token for traces.
func (t Token) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Token) write(b *strings.Builder) {
	b.WriteString(t.kind.String())
	if t.data != "" {
		b.WriteString("(")
		b.WriteString(t.data)
		b.WriteString(")")
	}
	if t.nested != nil {
		b.WriteString("[")
		for i, n := range t.nested {
			if i > 0 {
				b.WriteString(" ")
			}
			n.write(b)
		}
		b.WriteString("]")
	}
}

// Equal reports structural equality, including nested tokens.
func (t Token) Equal(other Token) bool {
	if t.kind != other.kind || t.data != other.data || len(t.nested) != len(other.nested) {
		return false
	}
	if (t.nested == nil) != (other.nested == nil) {
		return false
	}
	for i := range t.nested {
		if !t.nested[i].Equal(other.nested[i]) {
			return false
		}
	}
	return true
}
