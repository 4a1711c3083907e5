package runtime

import (
	"errors"
	"fmt"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

var (
	// ErrDivisionByZero is returned for integer division or modulo by zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrUnsupportedOperation is returned when no rule covers an operand pair.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrRepeatOverflow is returned when string repetition would exceed the
	// string size limit.
	ErrRepeatOverflow = errors.New("string repetition too large")
)

// OperationError describes a failed Calculate call.
type OperationError struct {
	Op    ast.Kind
	Left  ast.Kind
	Right ast.Kind
	Err   error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Left, e.Op, e.Right, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func operationError(op ast.Kind, left, right ast.Token, err error) *OperationError {
	return &OperationError{Op: op, Left: left.Kind(), Right: right.Kind(), Err: err}
}
