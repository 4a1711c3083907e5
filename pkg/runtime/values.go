// Package runtime implements the value engine: parsing literal tokens into
// typed values, and arithmetic, comparison and logic between them.
package runtime

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() ast.Kind
	Token() ast.Token
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() ast.Kind { return ast.KindInt }
func (v IntValue) Token() ast.Token {
	return ast.NewToken(ast.KindInt, strconv.FormatInt(v.Val, 10))
}

type UIntValue struct {
	Val uint64
}

func (v UIntValue) Kind() ast.Kind { return ast.KindUInt }
func (v UIntValue) Token() ast.Token {
	return ast.NewToken(ast.KindUInt, strconv.FormatUint(v.Val, 10))
}

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() ast.Kind { return ast.KindFloat }
func (v FloatValue) Token() ast.Token { return ast.NewToken(ast.KindFloat, formatFloat(v.Val)) }

// UFloatValue is a float clamped at zero.
type UFloatValue struct {
	Val float64
}

func (v UFloatValue) Kind() ast.Kind { return ast.KindUFloat }
func (v UFloatValue) Token() ast.Token {
	if v.Val < 0 {
		return ast.NewToken(ast.KindUFloat, "0.0")
	}
	return ast.NewToken(ast.KindUFloat, formatFloat(v.Val))
}

type CharValue struct {
	Val rune
}

func (v CharValue) Kind() ast.Kind { return ast.KindChar }
func (v CharValue) Token() ast.Token { return ast.NewToken(ast.KindChar, string(v.Val)) }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() ast.Kind { return ast.KindString }
func (v StringValue) Token() ast.Token { return ast.NewToken(ast.KindString, v.Val) }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() ast.Kind { return ast.KindBool }
func (v BoolValue) Token() ast.Token { return ast.Bool(v.Val) }

//-----------------------------------------------------------------------------
// Parsing
//-----------------------------------------------------------------------------

// FromToken parses a literal token into a value. Payloads that do not parse
// become the zero value of the token's kind. ok is false for tokens that are
// not literals.
func FromToken(tok ast.Token) (v Value, ok bool) {
	data := tok.Data()
	switch tok.Kind() {
	case ast.KindInt:
		n, _ := strconv.ParseInt(data, 10, 64)
		return IntValue{Val: n}, true
	case ast.KindUInt:
		n, _ := strconv.ParseUint(data, 10, 64)
		return UIntValue{Val: n}, true
	case ast.KindFloat:
		return FloatValue{Val: parseFloat(data)}, true
	case ast.KindRational:
		return FloatValue{Val: parseRational(data)}, true
	case ast.KindUFloat:
		return UFloatValue{Val: math.Max(parseFloat(data), 0)}, true
	case ast.KindChar, ast.KindFormattedChar:
		r, _ := utf8.DecodeRuneInString(data)
		if r == utf8.RuneError {
			r = 0
		}
		return CharValue{Val: r}, true
	case ast.KindString, ast.KindRawString, ast.KindFormattedString, ast.KindFormattedRawString:
		return StringValue{Val: data}, true
	case ast.KindBool:
		return BoolValue{Val: data == "true"}, true
	default:
		return nil, false
	}
}

func parseFloat(data string) float64 {
	f, err := strconv.ParseFloat(data, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseRational(data string) float64 {
	num, den, ok := strings.Cut(data, "//")
	if !ok {
		return parseFloat(data)
	}
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return parseFloat(num) / d
}

// formatFloat renders whole floats with a trailing ".0" so the payload still
// reads as a float literal.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

// Truthy reports whether a token counts as true in logic operators.
func Truthy(tok ast.Token) bool {
	v, ok := FromToken(tok)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case BoolValue:
		return val.Val
	case IntValue:
		return val.Val != 0
	case UIntValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case UFloatValue:
		return val.Val != 0
	case CharValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	default:
		return false
	}
}
