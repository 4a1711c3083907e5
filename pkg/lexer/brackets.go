package lexer

import "github.com/miruji/RTS-sub000/pkg/ast"

type bracketPair struct {
	open, close, group ast.Kind
}

var bracketPairs = []bracketPair{
	{ast.KindCircleBracketBegin, ast.KindCircleBracketEnd, ast.KindCircleBrackets},
	{ast.KindSquareBracketBegin, ast.KindSquareBracketEnd, ast.KindSquareBrackets},
	{ast.KindFigureBracketBegin, ast.KindFigureBracketEnd, ast.KindFigureBrackets},
}

// nestBrackets folds raw brackets into group tokens, one pass per bracket
// pair. Closers without an opener are dropped; openers without a closer stay
// raw.
func nestBrackets(tokens []ast.Token) []ast.Token {
	for _, pair := range bracketPairs {
		tokens = nestPair(tokens, pair)
	}
	return tokens
}

func nestPair(tokens []ast.Token, pair bracketPair) []ast.Token {
	out := make([]ast.Token, 0, len(tokens))
	var opened []int
	for _, tok := range tokens {
		switch tok.Kind() {
		case pair.open:
			opened = append(opened, len(out))
			out = append(out, tok)
		case pair.close:
			if len(opened) == 0 {
				continue
			}
			at := opened[len(opened)-1]
			opened = opened[:len(opened)-1]
			inner := append([]ast.Token(nil), out[at+1:]...)
			out = append(out[:at], ast.NewGroup(pair.group, inner))
		default:
			if tok.Kind().IsGroup() {
				tok.SetNested(nestPair(tok.Nested(), pair))
			}
			out = append(out, tok)
		}
	}
	return out
}
