package interpreter

import (
	"strings"

	"github.com/miruji/RTS-sub000/pkg/ast"
	"github.com/miruji/RTS-sub000/pkg/lexer"
)

// interpolate evaluates the `{expr}` spans of a formatted literal and returns
// the literal in its base kind.
func (in *Interpreter) interpolate(scope StructureID, tok ast.Token) ast.Token {
	data := tok.Data()
	var b strings.Builder
	for i := 0; i < len(data); {
		if data[i] != '{' {
			b.WriteByte(data[i])
			i++
			continue
		}
		end := strings.IndexByte(data[i+1:], '}')
		if end < 0 {
			b.WriteString(data[i:])
			break
		}
		span := data[i+1 : i+1+end]
		b.WriteString(stringify(in.evalSpan(scope, span)))
		i += end + 2
	}
	return ast.NewToken(baseKind(tok.Kind()), b.String())
}

func (in *Interpreter) evalSpan(scope StructureID, span string) ast.Token {
	lines := lexer.LexString(span + "\n")
	if len(lines) == 0 {
		return ast.Empty()
	}
	return in.expression(scope, lines[0].Tokens)
}

func baseKind(kind ast.Kind) ast.Kind {
	switch kind {
	case ast.KindFormattedChar:
		return ast.KindChar
	case ast.KindFormattedRawString:
		return ast.KindRawString
	default:
		return ast.KindString
	}
}

// stringify renders a value the way print shows it.
func stringify(tok ast.Token) string {
	switch {
	case tok.Is(ast.KindArray):
		parts := make([]string, len(tok.Nested()))
		for i, item := range tok.Nested() {
			parts[i] = stringify(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case tok.Kind().IsGroup():
		parts := make([]string, len(tok.Nested()))
		for i, item := range tok.Nested() {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, " ")
	default:
		return tok.Data()
	}
}

// Format renders a value the way print shows it.
func Format(tok ast.Token) string {
	return stringify(tok)
}
