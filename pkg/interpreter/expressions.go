package interpreter

import (
	"strconv"

	"github.com/miruji/RTS-sub000/pkg/ast"
	"github.com/miruji/RTS-sub000/pkg/runtime"
)

// expression reduces tokens to a single token. Anything that does not reduce
// cleanly degrades to an empty token.
func (in *Interpreter) expression(scope StructureID, tokens []ast.Token) ast.Token {
	switch len(tokens) {
	case 0:
		return ast.Empty()
	case 1:
		return in.single(scope, tokens[0])
	}

	work := in.resolveOperands(scope, ast.CloneTokens(tokens))
	work = applySigns(work)
	for _, tier := range operatorTiers {
		work = in.reduce(scope, work, tier)
	}
	if len(work) == 1 {
		return work[0]
	}
	return ast.Empty()
}

var operatorTiers = []func(ast.Kind) bool{
	ast.Kind.IsComparison,
	ast.Kind.IsMultiplicative,
	ast.Kind.IsAdditive,
}

func (in *Interpreter) single(scope StructureID, tok ast.Token) ast.Token {
	switch kind := tok.Kind(); {
	case kind == ast.KindLink:
		return in.resolveLink(scope, tok.Data(), nil, false)
	case kind == ast.KindWord:
		return in.resolveWord(scope, tok.Data())
	case kind.IsFormatted():
		return in.interpolate(scope, tok)
	case kind == ast.KindCircleBrackets:
		return in.expression(scope, tok.Nested())
	case kind == ast.KindSquareBrackets:
		return ast.Array(in.arguments(scope, tok)...)
	default:
		return tok
	}
}

// resolveOperands replaces calls, indexing, names, links, groups and
// formatted literals with their values, leaving operators in place.
func (in *Interpreter) resolveOperands(scope StructureID, work []ast.Token) []ast.Token {
	out := make([]ast.Token, 0, len(work))
	for i := 0; i < len(work); i++ {
		tok := work[i]
		var next ast.Token
		if i+1 < len(work) {
			next = work[i+1]
		}
		switch kind := tok.Kind(); {
		case kind == ast.KindWord && next.Is(ast.KindCircleBrackets):
			out = append(out, in.call(scope, tok.Data(), in.arguments(scope, next)))
			i++
		case kind == ast.KindWord && next.Is(ast.KindSquareBrackets):
			out = append(out, in.index(scope, tok.Data(), next))
			i++
		case kind == ast.KindLink && next.Is(ast.KindCircleBrackets):
			out = append(out, in.resolveLink(scope, tok.Data(), in.arguments(scope, next), true))
			i++
		case kind == ast.KindWord, kind == ast.KindLink, kind.IsFormatted(),
			kind == ast.KindCircleBrackets, kind == ast.KindSquareBrackets:
			out = append(out, in.single(scope, tok))
		default:
			out = append(out, tok)
		}
	}
	return out
}

// applySigns folds a minus at the start of the sequence or right after
// another operator into the sign of the numeric operand that follows it.
func applySigns(work []ast.Token) []ast.Token {
	out := make([]ast.Token, 0, len(work))
	for i := 0; i < len(work); i++ {
		tok := work[i]
		unary := len(out) == 0 || out[len(out)-1].Kind().IsOperator()
		if tok.Is(ast.KindMinus) && unary && i+1 < len(work) && work[i+1].Kind().IsNumeric() {
			operand := work[i+1]
			operand.ToggleSign()
			out = append(out, operand)
			i++
			continue
		}
		out = append(out, tok)
	}
	return out
}

// reduce folds every `left op right` triple whose operator belongs to tier,
// left to right.
func (in *Interpreter) reduce(scope StructureID, work []ast.Token, tier func(ast.Kind) bool) []ast.Token {
	for i := 1; i < len(work)-1; {
		op := work[i]
		if !tier(op.Kind()) {
			i++
			continue
		}
		result, err := runtime.Calculate(op.Kind(), work[i-1], work[i+1])
		if err != nil {
			in.traceError(scope, err)
		}
		work[i-1] = result
		work = append(work[:i], work[i+2:]...)
	}
	return work
}

// arguments splits a group on top-level commas and evaluates each part.
func (in *Interpreter) arguments(scope StructureID, group ast.Token) []ast.Token {
	parts := splitArgs(group.Nested())
	args := make([]ast.Token, 0, len(parts))
	for _, part := range parts {
		args = append(args, in.expression(scope, part))
	}
	return args
}

func splitArgs(tokens []ast.Token) [][]ast.Token {
	if len(tokens) == 0 {
		return nil
	}
	var parts [][]ast.Token
	start := 0
	for i, tok := range tokens {
		if tok.Is(ast.KindComma) {
			parts = append(parts, tokens[start:i])
			start = i + 1
		}
	}
	return append(parts, tokens[start:])
}

// indexValue reads a non-negative line index from an evaluated token.
func indexValue(tok ast.Token) (int, bool) {
	switch tok.Kind() {
	case ast.KindUInt, ast.KindInt:
		n, err := strconv.Atoi(tok.Data())
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
