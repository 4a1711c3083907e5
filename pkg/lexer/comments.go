package lexer

import "github.com/miruji/RTS-sub000/pkg/ast"

// stripComments removes comment tokens. A line left without tokens is
// replaced by its own nested lines.
func stripComments(lines []*ast.Line) []*ast.Line {
	var out []*ast.Line
	for _, line := range lines {
		line.Tokens = dropComments(line.Tokens)
		children := stripComments(line.Lines)
		if line.IsEmpty() {
			out = append(out, children...)
			continue
		}
		line.SetChildren(children)
		out = append(out, line)
	}
	return out
}

func dropComments(tokens []ast.Token) []ast.Token {
	out := tokens[:0]
	for _, tok := range tokens {
		if tok.Is(ast.KindComment) {
			continue
		}
		if tok.HasNested() {
			tok.SetNested(dropComments(tok.Nested()))
		}
		out = append(out, tok)
	}
	return out
}
