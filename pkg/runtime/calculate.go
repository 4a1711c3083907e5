package runtime

import (
	"math"
	"math/big"
	"strings"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

// Calculate applies a binary operator to two literal tokens and returns the
// result as a token. Compound assignment kinds are reduced to their base
// operator. On error the returned token is empty.
func Calculate(op ast.Kind, left, right ast.Token) (ast.Token, error) {
	if base := op.BaseOperator(); base != ast.KindNone {
		op = base
	}
	l, lok := FromToken(left)
	r, rok := FromToken(right)
	if !lok || !rok {
		return ast.Empty(), operationError(op, left, right, ErrUnsupportedOperation)
	}

	switch {
	case isLogical(op):
		return BoolValue{Val: logical(op, Truthy(left), Truthy(right))}.Token(), nil
	case op.IsComparison():
		ok, err := compare(op, l, r)
		if err != nil {
			return ast.Empty(), operationError(op, left, right, err)
		}
		return BoolValue{Val: ok}.Token(), nil
	case op.IsAdditive() || op.IsMultiplicative():
		v, err := arithmetic(op, l, r)
		if err != nil {
			return ast.Empty(), operationError(op, left, right, err)
		}
		return v.Token(), nil
	default:
		return ast.Empty(), operationError(op, left, right, ErrUnsupportedOperation)
	}
}

// ResultKind picks the kind of an arithmetic result from its operand kinds.
func ResultKind(left, right ast.Kind) ast.Kind {
	has := func(k ast.Kind) bool { return left == k || right == k }
	switch {
	case has(ast.KindString):
		return ast.KindString
	case has(ast.KindChar) && has(ast.KindInt):
		return ast.KindInt
	case has(ast.KindChar) && has(ast.KindUInt):
		return ast.KindUInt
	case has(ast.KindChar):
		return ast.KindChar
	case has(ast.KindFloat):
		return ast.KindFloat
	case has(ast.KindUFloat) && has(ast.KindInt):
		// A signed operand keeps its sign through float widening.
		return ast.KindFloat
	case has(ast.KindUFloat):
		return ast.KindUFloat
	case has(ast.KindInt):
		return ast.KindInt
	default:
		return ast.KindUInt
	}
}

func isLogical(op ast.Kind) bool {
	switch op {
	case ast.KindJoint, ast.KindInclusion, ast.KindExclusion, ast.KindDisjoint:
		return true
	default:
		return false
	}
}

func logical(op ast.Kind, a, b bool) bool {
	switch op {
	case ast.KindJoint:
		return a && b
	case ast.KindInclusion:
		return a || b
	case ast.KindExclusion:
		return a != b
	default:
		return !a && !b
	}
}

func arithmetic(op ast.Kind, l, r Value) (Value, error) {
	if l.Kind() == ast.KindBool || r.Kind() == ast.KindBool {
		return nil, ErrUnsupportedOperation
	}
	switch ResultKind(l.Kind(), r.Kind()) {
	case ast.KindString:
		switch op {
		case ast.KindPlus:
			return StringValue{Val: text(l) + text(r)}, nil
		case ast.KindMultiply:
			if n, ok := r.(UIntValue); ok && l.Kind() == ast.KindString {
				return repeat(text(l), n.Val)
			}
		}
		return nil, ErrUnsupportedOperation
	case ast.KindChar:
		n, err := intOp(op, toInt(l), toInt(r))
		if err != nil {
			return nil, err
		}
		if n < 0 || n > math.MaxInt32 {
			n = 0
		}
		return CharValue{Val: rune(n)}, nil
	case ast.KindFloat:
		return FloatValue{Val: floatOp(op, toFloat(l), toFloat(r), r.Kind() == ast.KindUFloat)}, nil
	case ast.KindUFloat:
		f := floatOp(op, toFloat(l), toFloat(r), r.Kind() == ast.KindUFloat)
		return UFloatValue{Val: math.Max(f, 0)}, nil
	case ast.KindInt:
		n, err := intOp(op, toInt(l), toInt(r))
		if err != nil {
			return nil, err
		}
		return IntValue{Val: n}, nil
	default:
		n, err := uintOp(op, toUint(l), toUint(r))
		if err != nil {
			return nil, err
		}
		return UIntValue{Val: n}, nil
	}
}

// floatOp follows IEEE semantics, except that a zero non-negative float
// denominator yields the numerator.
func floatOp(op ast.Kind, a, b float64, guardZero bool) float64 {
	switch op {
	case ast.KindPlus:
		return a + b
	case ast.KindMinus:
		return a - b
	case ast.KindMultiply:
		return a * b
	case ast.KindDivide:
		if guardZero && b == 0 {
			return a
		}
		return a / b
	default:
		return math.Mod(a, b)
	}
}

func intOp(op ast.Kind, a, b int64) (int64, error) {
	switch op {
	case ast.KindPlus:
		return a + b, nil
	case ast.KindMinus:
		return a - b, nil
	case ast.KindMultiply:
		return a * b, nil
	}
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if op == ast.KindDivide {
		return a / b, nil
	}
	return a % b, nil
}

func uintOp(op ast.Kind, a, b uint64) (uint64, error) {
	switch op {
	case ast.KindPlus:
		return a + b, nil
	case ast.KindMinus:
		if b > a {
			return 0, nil
		}
		return a - b, nil
	case ast.KindMultiply:
		return a * b, nil
	}
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if op == ast.KindDivide {
		return a / b, nil
	}
	return a % b, nil
}

func compare(op ast.Kind, l, r Value) (bool, error) {
	var c int
	switch {
	case l.Kind() == ast.KindBool || r.Kind() == ast.KindBool:
		if op != ast.KindDoubleEquals && op != ast.KindNotEquals {
			return false, ErrUnsupportedOperation
		}
		c = strings.Compare(text(l), text(r))
	case l.Kind() == ast.KindString || r.Kind() == ast.KindString:
		c = strings.Compare(text(l), text(r))
	case isIntegral(l) && isIntegral(r):
		c = toBig(l).Cmp(toBig(r))
	default:
		a, b := toFloat(l), toFloat(r)
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	}

	switch op {
	case ast.KindDoubleEquals:
		return c == 0, nil
	case ast.KindNotEquals:
		return c != 0, nil
	case ast.KindGreaterThan:
		return c > 0, nil
	case ast.KindLessThan:
		return c < 0, nil
	case ast.KindGreaterThanOrEquals:
		return c >= 0, nil
	case ast.KindLessThanOrEquals:
		return c <= 0, nil
	default:
		return false, ErrUnsupportedOperation
	}
}

func text(v Value) string {
	if s, ok := v.(StringValue); ok {
		return s.Val
	}
	return v.Token().Data()
}

func isIntegral(v Value) bool {
	switch v.(type) {
	case IntValue, UIntValue, CharValue:
		return true
	default:
		return false
	}
}

// maxStringBytes bounds the result of string repetition.
const maxStringBytes = 1 << 24

func repeat(s string, count uint64) (Value, error) {
	if s == "" || count == 0 {
		return StringValue{}, nil
	}
	if count > uint64(maxStringBytes/len(s)) {
		return nil, ErrRepeatOverflow
	}
	return StringValue{Val: strings.Repeat(s, int(count))}, nil
}

func toBig(v Value) *big.Int {
	switch val := v.(type) {
	case UIntValue:
		return new(big.Int).SetUint64(val.Val)
	default:
		return big.NewInt(toInt(v))
	}
}

func toFloat(v Value) float64 {
	switch val := v.(type) {
	case IntValue:
		return float64(val.Val)
	case UIntValue:
		return float64(val.Val)
	case FloatValue:
		return val.Val
	case UFloatValue:
		return val.Val
	case CharValue:
		return float64(val.Val)
	default:
		return 0
	}
}

func toInt(v Value) int64 {
	switch val := v.(type) {
	case IntValue:
		return val.Val
	case UIntValue:
		return int64(val.Val)
	case FloatValue:
		return int64(val.Val)
	case UFloatValue:
		return int64(val.Val)
	case CharValue:
		return int64(val.Val)
	default:
		return 0
	}
}

func toUint(v Value) uint64 {
	switch val := v.(type) {
	case UIntValue:
		return val.Val
	default:
		n := toInt(v)
		if n < 0 {
			return 0
		}
		return uint64(n)
	}
}
