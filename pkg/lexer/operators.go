package lexer

import "github.com/miruji/RTS-sub000/pkg/ast"

// operator describes a punctuation byte and the kinds it forms alone or with
// a second byte.
type operator struct {
	single  ast.Kind
	doubled map[byte]ast.Kind
}

var operators = map[byte]operator{
	'+': {ast.KindPlus, map[byte]ast.Kind{'+': ast.KindDoublePlus, '=': ast.KindPlusEquals}},
	'-': {ast.KindMinus, map[byte]ast.Kind{'-': ast.KindDoubleMinus, '=': ast.KindMinusEquals, '>': ast.KindPointer}},
	'*': {ast.KindMultiply, map[byte]ast.Kind{'*': ast.KindDoubleMultiply, '=': ast.KindMultiplyEquals}},
	'/': {ast.KindDivide, map[byte]ast.Kind{'/': ast.KindDoubleDivide, '=': ast.KindDivideEquals}},
	'%': {ast.KindModulo, map[byte]ast.Kind{'%': ast.KindDoubleModulo, '=': ast.KindModuloEquals}},
	'^': {ast.KindExclusion, map[byte]ast.Kind{'^': ast.KindDoubleExclusion, '=': ast.KindExclusionEquals}},
	'=': {ast.KindEquals, map[byte]ast.Kind{'=': ast.KindDoubleEquals}},
	'!': {ast.KindDisjoint, map[byte]ast.Kind{'=': ast.KindNotEquals}},
	'>': {ast.KindGreaterThan, map[byte]ast.Kind{'=': ast.KindGreaterThanOrEquals}},
	'<': {ast.KindLessThan, map[byte]ast.Kind{'=': ast.KindLessThanOrEquals}},
	'&': {single: ast.KindJoint},
	'|': {single: ast.KindInclusion},
	',': {single: ast.KindComma},
	'.': {single: ast.KindDot},
	':': {single: ast.KindColon},
	'~': {single: ast.KindTilde},
	'?': {single: ast.KindQuestion},
	'(': {single: ast.KindCircleBracketBegin},
	')': {single: ast.KindCircleBracketEnd},
	'[': {single: ast.KindSquareBracketBegin},
	']': {single: ast.KindSquareBracketEnd},
	'{': {single: ast.KindFigureBracketBegin},
	'}': {single: ast.KindFigureBracketEnd},
}

// scanOperator emits the longest operator at the cursor. Unknown bytes are
// skipped.
func (s *scanner) scanOperator() {
	op, ok := operators[s.src[s.pos]]
	if !ok {
		s.pos++
		return
	}
	if kind, ok := op.doubled[s.peekAt(s.pos+1)]; ok {
		s.emit(ast.Op(kind))
		s.pos += 2
		return
	}
	s.emit(ast.Op(op.single))
	s.pos++
}
