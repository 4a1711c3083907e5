package ast

// Shorthand constructors used by tests and by the evaluator when it needs to
// synthesize literals.

func Word(name string) Token { return NewToken(KindWord, name) }
func Link(path string) Token { return NewToken(KindLink, path) }
func Int(v string) Token { return NewToken(KindInt, v) }
func UInt(v string) Token { return NewToken(KindUInt, v) }
func Float(v string) Token { return NewToken(KindFloat, v) }
func UFloat(v string) Token { return NewToken(KindUFloat, v) }
func Str(v string) Token { return NewToken(KindString, v) }
func Char(v string) Token { return NewToken(KindChar, v) }
func Op(kind Kind) Token { return NewToken(kind, "") }
func Parens(inner ...Token) Token { return NewGroup(KindCircleBrackets, inner) }
func Index(inner ...Token) Token { return NewGroup(KindSquareBrackets, inner) }
func Array(items ...Token) Token { return NewGroup(KindArray, items) }

// Bool builds a boolean literal.
func Bool(v bool) Token {
	if v {
		return NewToken(KindBool, "true")
	}
	return NewToken(KindBool, "false")
}
