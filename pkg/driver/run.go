// Package driver connects source files, manifests and dependencies to the
// interpreter.
package driver

import (
	"context"
	"io"
	"log/slog"

	"github.com/miruji/RTS-sub000/pkg/ast"
	"github.com/miruji/RTS-sub000/pkg/interpreter"
	"github.com/miruji/RTS-sub000/pkg/lexer"
)

// RunOptions configures Run.
type RunOptions struct {
	Args   []string
	Stdout io.Writer
	Logger *slog.Logger
	Debug  bool
}

// Run lexes source and interprets it to completion.
func Run(ctx context.Context, source []byte, opts RunOptions) error {
	in := NewInterpreter(source, opts)
	return in.Run(ctx)
}

// RunFile loads path and runs it.
func RunFile(ctx context.Context, path string, opts RunOptions) error {
	source, err := LoadSource(path)
	if err != nil {
		return err
	}
	return Run(ctx, source, opts)
}

// NewInterpreter lexes source and wraps it in an interpreter without running
// it.
func NewInterpreter(source []byte, opts RunOptions) *interpreter.Interpreter {
	return interpreter.New(Lex(source, opts), interpreter.Options{
		Args:   opts.Args,
		Stdout: opts.Stdout,
		Logger: opts.Logger,
		Debug:  opts.Debug,
	})
}

func lexOptions(opts RunOptions) []lexer.Option {
	if opts.Debug && opts.Logger != nil {
		return []lexer.Option{lexer.WithTrace(opts.Logger)}
	}
	return nil
}

// Lex lexes a source fragment with the trace settings of opts.
func Lex(source []byte, opts RunOptions) []*ast.Line {
	return lexer.Lex(withTrailingNewline(source), lexOptions(opts)...)
}
