package runtime

import (
	"errors"
	"testing"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		op          ast.Kind
		left, right ast.Token
		want        ast.Token
	}{
		{"int plus ufloat widens to float", ast.KindPlus, ast.Int("2"), ast.UFloat("3.5"), ast.Float("5.5")},
		{"string concatenation", ast.KindPlus, ast.Str("a"), ast.Str("b"), ast.Str("ab")},
		{"string plus number", ast.KindPlus, ast.Str("n="), ast.UInt("4"), ast.Str("n=4")},
		{"string repeat", ast.KindMultiply, ast.Str("ab"), ast.UInt("3"), ast.Str("ababab")},
		{"uint multiply", ast.KindMultiply, ast.UInt("21"), ast.UInt("2"), ast.UInt("42")},
		{"uint underflow clamps", ast.KindMinus, ast.UInt("2"), ast.UInt("5"), ast.UInt("0")},
		{"int beats uint", ast.KindMinus, ast.UInt("2"), ast.Int("5"), ast.Int("-3")},
		{"integer division truncates", ast.KindDivide, ast.Int("7"), ast.UInt("2"), ast.Int("3")},
		{"modulo", ast.KindModulo, ast.UInt("7"), ast.UInt("3"), ast.UInt("1")},
		{"float beats ufloat", ast.KindPlus, ast.Float("-1.5"), ast.UFloat("1"), ast.Float("-0.5")},
		{"whole float keeps point", ast.KindMultiply, ast.UFloat("2.5"), ast.UFloat("2"), ast.UFloat("5.0")},
		{"ufloat clamps at zero", ast.KindMinus, ast.UFloat("1.0"), ast.UFloat("3.0"), ast.UFloat("0.0")},
		{"ufloat divide by zero returns numerator", ast.KindDivide, ast.UFloat("4.5"), ast.UFloat("0.0"), ast.UFloat("4.5")},
		{"char with uint keeps uint", ast.KindPlus, ast.Char("a"), ast.UInt("1"), ast.UInt("98")},
		{"char with char", ast.KindPlus, ast.Char("a"), ast.Char("\x01"), ast.Char("b")},
		{"rational behaves as float", ast.KindPlus, ast.NewToken(ast.KindRational, "1//2"), ast.UFloat("0.25"), ast.Float("0.75")},
		{"unparsable payload is zero", ast.KindPlus, ast.UInt("abc"), ast.UInt("2"), ast.UInt("2")},
		{"compound reduces to base", ast.KindPlusEquals, ast.UInt("1"), ast.UInt("2"), ast.UInt("3")},
		{"equality", ast.KindDoubleEquals, ast.UInt("3"), ast.Int("3"), ast.Bool(true)},
		{"mixed comparison", ast.KindLessThan, ast.Int("-1"), ast.UFloat("0.5"), ast.Bool(true)},
		{"large uint comparison", ast.KindGreaterThan, ast.UInt("18446744073709551615"), ast.Int("1"), ast.Bool(true)},
		{"string comparison", ast.KindNotEquals, ast.Str("a"), ast.Str("b"), ast.Bool(true)},
		{"bool equality", ast.KindDoubleEquals, ast.Bool(true), ast.Bool(true), ast.Bool(true)},
		{"joint", ast.KindJoint, ast.Bool(true), ast.Bool(false), ast.Bool(false)},
		{"inclusion", ast.KindInclusion, ast.Bool(true), ast.Bool(false), ast.Bool(true)},
		{"exclusion", ast.KindExclusion, ast.Bool(true), ast.Bool(true), ast.Bool(false)},
		{"disjoint", ast.KindDisjoint, ast.Bool(false), ast.UInt("0"), ast.Bool(true)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Calculate(tc.op, tc.left, tc.right)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("%s %s %s: got %s, want %s", tc.left, tc.op, tc.right, got, tc.want)
			}
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	tests := []struct {
		name        string
		op          ast.Kind
		left, right ast.Token
		want        error
	}{
		{"integer division by zero", ast.KindDivide, ast.UInt("1"), ast.UInt("0"), ErrDivisionByZero},
		{"integer modulo by zero", ast.KindModulo, ast.Int("1"), ast.Int("0"), ErrDivisionByZero},
		{"string minus", ast.KindMinus, ast.Str("a"), ast.Str("b"), ErrUnsupportedOperation},
		{"bool arithmetic", ast.KindPlus, ast.Bool(true), ast.UInt("1"), ErrUnsupportedOperation},
		{"bool ordering", ast.KindGreaterThan, ast.Bool(true), ast.Bool(false), ErrUnsupportedOperation},
		{"non-literal operand", ast.KindPlus, ast.Word("x"), ast.UInt("1"), ErrUnsupportedOperation},
		{"empty operand", ast.KindPlus, ast.Empty(), ast.UInt("1"), ErrUnsupportedOperation},
		{"repeat count above int range", ast.KindMultiply, ast.Str("ab"), ast.UInt("18446744073709551615"), ErrRepeatOverflow},
		{"repeat result too large", ast.KindMultiply, ast.Str("ab"), ast.UInt("8388609"), ErrRepeatOverflow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Calculate(tc.op, tc.left, tc.right)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var opErr *OperationError
			if !errors.As(err, &opErr) || opErr.Left != tc.left.Kind() {
				t.Fatalf("expected OperationError, got %T", err)
			}
			if !got.IsEmpty() {
				t.Fatalf("expected empty token on error, got %s", got)
			}
		})
	}
}

func TestFloatDivisionByZeroFollowsIEEE(t *testing.T) {
	got, err := Calculate(ast.KindDivide, ast.Float("1.0"), ast.Float("0.0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != ast.KindFloat || got.Data() != "+Inf" {
		t.Fatalf("expected +Inf, got %s", got)
	}
}

func TestTruthy(t *testing.T) {
	cases := map[string]struct {
		tok  ast.Token
		want bool
	}{
		"true":         {ast.Bool(true), true},
		"zero":         {ast.UInt("0"), false},
		"negative":     {ast.Int("-2"), true},
		"empty string": {ast.Str(""), false},
		"word":         {ast.Word("x"), false},
	}
	for name, tc := range cases {
		if got := Truthy(tc.tok); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, got)
		}
	}
}
