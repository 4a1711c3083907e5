package ast

import "fmt"

// Kind classifies a token.
type Kind uint8

const (
	KindNone Kind = iota

	// Structural punctuation.
	KindEndline
	KindComma
	KindDot
	KindColon
	KindPointer
	KindTilde
	KindQuestion
	KindComment

	// Raw brackets, as emitted by the scanner.
	KindCircleBracketBegin
	KindCircleBracketEnd
	KindSquareBracketBegin
	KindSquareBracketEnd
	KindFigureBracketBegin
	KindFigureBracketEnd

	// Bracket groups carrying their contents in Nested.
	KindCircleBrackets
	KindSquareBrackets
	KindFigureBrackets

	// Literals.
	KindWord
	KindLink
	KindInt
	KindUInt
	KindFloat
	KindUFloat
	KindRational
	KindBool
	KindChar
	KindString
	KindRawString
	KindFormattedChar
	KindFormattedString
	KindFormattedRawString
	KindArray

	// Arithmetic and assignment.
	KindEquals
	KindPlus
	KindMinus
	KindMultiply
	KindDivide
	KindModulo

	KindDoublePlus
	KindDoubleMinus
	KindDoubleMultiply
	KindDoubleDivide
	KindDoubleModulo
	KindDoubleExclusion

	KindPlusEquals
	KindMinusEquals
	KindMultiplyEquals
	KindDivideEquals
	KindModuloEquals
	KindExclusionEquals

	// Comparison.
	KindDoubleEquals
	KindNotEquals
	KindGreaterThan
	KindLessThan
	KindGreaterThanOrEquals
	KindLessThanOrEquals

	// Logical.
	KindJoint
	KindInclusion
	KindExclusion
	KindDisjoint

	// KindCustom carries a user type name in the token data.
	KindCustom
)

var kindNames = [...]string{
	KindNone:     "None",
	KindEndline:  "Endline",
	KindComma:    "Comma",
	KindDot:      "Dot",
	KindColon:    "Colon",
	KindPointer:  "Pointer",
	KindTilde:    "Tilde",
	KindQuestion: "Question",
	KindComment:  "Comment",

	KindCircleBracketBegin: "CircleBracketBegin",
	KindCircleBracketEnd:   "CircleBracketEnd",
	KindSquareBracketBegin: "SquareBracketBegin",
	KindSquareBracketEnd:   "SquareBracketEnd",
	KindFigureBracketBegin: "FigureBracketBegin",
	KindFigureBracketEnd:   "FigureBracketEnd",

	KindCircleBrackets: "CircleBrackets",
	KindSquareBrackets: "SquareBrackets",
	KindFigureBrackets: "FigureBrackets",

	KindWord:               "Word",
	KindLink:               "Link",
	KindInt:                "Int",
	KindUInt:               "UInt",
	KindFloat:              "Float",
	KindUFloat:             "UFloat",
	KindRational:           "Rational",
	KindBool:               "Bool",
	KindChar:               "Char",
	KindString:             "String",
	KindRawString:          "RawString",
	KindFormattedChar:      "FormattedChar",
	KindFormattedString:    "FormattedString",
	KindFormattedRawString: "FormattedRawString",
	KindArray:              "Array",

	KindEquals:   "Equals",
	KindPlus:     "Plus",
	KindMinus:    "Minus",
	KindMultiply: "Multiply",
	KindDivide:   "Divide",
	KindModulo:   "Modulo",

	KindDoublePlus:      "DoublePlus",
	KindDoubleMinus:     "DoubleMinus",
	KindDoubleMultiply:  "DoubleMultiply",
	KindDoubleDivide:    "DoubleDivide",
	KindDoubleModulo:    "DoubleModulo",
	KindDoubleExclusion: "DoubleExclusion",

	KindPlusEquals:      "PlusEquals",
	KindMinusEquals:     "MinusEquals",
	KindMultiplyEquals:  "MultiplyEquals",
	KindDivideEquals:    "DivideEquals",
	KindModuloEquals:    "ModuloEquals",
	KindExclusionEquals: "ExclusionEquals",

	KindDoubleEquals:        "DoubleEquals",
	KindNotEquals:           "NotEquals",
	KindGreaterThan:         "GreaterThan",
	KindLessThan:            "LessThan",
	KindGreaterThanOrEquals: "GreaterThanOrEquals",
	KindLessThanOrEquals:    "LessThanOrEquals",

	KindJoint:     "Joint",
	KindInclusion: "Inclusion",
	KindExclusion: "Exclusion",
	KindDisjoint:  "Disjoint",

	KindCustom: "Custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// KindFromTypeName maps a declared result type (`-> UInt`) to a token kind.
// Unknown names map to KindCustom.
func KindFromTypeName(name string) Kind {
	switch name {
	case "Int":
		return KindInt
	case "UInt":
		return KindUInt
	case "Float":
		return KindFloat
	case "UFloat":
		return KindUFloat
	case "Rational":
		return KindRational
	case "Bool":
		return KindBool
	case "Char":
		return KindChar
	case "String":
		return KindString
	case "RawString":
		return KindRawString
	case "Array":
		return KindArray
	default:
		return KindCustom
	}
}

// IsNumeric reports whether k is one of the numeric literal kinds.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt, KindUInt, KindFloat, KindUFloat, KindRational:
		return true
	default:
		return false
	}
}

// IsNonNegative reports whether payloads of k are clamped at zero.
func (k Kind) IsNonNegative() bool {
	return k == KindUInt || k == KindUFloat
}

// IsFormatted reports whether k is an interpolated quote kind.
func (k Kind) IsFormatted() bool {
	switch k {
	case KindFormattedChar, KindFormattedString, KindFormattedRawString:
		return true
	default:
		return false
	}
}

// IsGroup reports whether k is a nested bracket group.
func (k Kind) IsGroup() bool {
	switch k {
	case KindCircleBrackets, KindSquareBrackets, KindFigureBrackets:
		return true
	default:
		return false
	}
}

// IsValue reports whether a token of kind k can stand as an operand.
func (k Kind) IsValue() bool {
	switch k {
	case KindWord, KindLink, KindInt, KindUInt, KindFloat, KindUFloat, KindRational,
		KindBool, KindChar, KindString, KindRawString, KindFormattedChar,
		KindFormattedString, KindFormattedRawString, KindArray, KindCustom:
		return true
	default:
		return k.IsGroup()
	}
}

// IsAssignment reports whether k is `=` or a compound assignment operator.
func (k Kind) IsAssignment() bool {
	switch k {
	case KindEquals, KindPlusEquals, KindMinusEquals, KindMultiplyEquals,
		KindDivideEquals, KindModuloEquals, KindExclusionEquals:
		return true
	default:
		return false
	}
}

// IsComparison reports whether k belongs to the comparison/logical tier.
func (k Kind) IsComparison() bool {
	switch k {
	case KindDoubleEquals, KindNotEquals, KindGreaterThan, KindLessThan,
		KindGreaterThanOrEquals, KindLessThanOrEquals,
		KindJoint, KindInclusion, KindExclusion, KindDisjoint:
		return true
	default:
		return false
	}
}

// IsMultiplicative reports whether k belongs to the `* / %` tier.
func (k Kind) IsMultiplicative() bool {
	return k == KindMultiply || k == KindDivide || k == KindModulo
}

// IsAdditive reports whether k belongs to the `+ -` tier.
func (k Kind) IsAdditive() bool {
	return k == KindPlus || k == KindMinus
}

// IsOperator reports whether k is any binary or assignment operator.
func (k Kind) IsOperator() bool {
	return k.IsAssignment() || k.IsComparison() || k.IsMultiplicative() || k.IsAdditive()
}

// BaseOperator returns the binary operator behind a compound assignment
// (`+=` yields `+`). Plain `=` and non-assignment kinds yield KindNone.
func (k Kind) BaseOperator() Kind {
	switch k {
	case KindPlusEquals:
		return KindPlus
	case KindMinusEquals:
		return KindMinus
	case KindMultiplyEquals:
		return KindMultiply
	case KindDivideEquals:
		return KindDivide
	case KindModuloEquals:
		return KindModulo
	case KindExclusionEquals:
		return KindExclusion
	default:
		return KindNone
	}
}
