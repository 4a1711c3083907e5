// Package interpreter executes lexed lines directly against a live tree of
// structures.
package interpreter

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

// Options configures an Interpreter.
type Options struct {
	// Args are exposed to scripts as the `args` structure.
	Args []string
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout io.Writer
	// Logger receives debug traces when Debug is set.
	Logger *slog.Logger
	Debug  bool
}

// Interpreter holds the execution context of one program: the structure
// arena, the output stream and the exit flag.
type Interpreter struct {
	arena *arena
	root  StructureID

	out    *bufio.Writer
	logger *slog.Logger
	debug  bool

	exit     atomic.Bool
	exitCode atomic.Int64
	last     ast.Token
}

type mode int

const (
	modeRun mode = iota
	// modeRead registers declarations, new bindings and returns. Bare
	// expressions and conditional chains are skipped, and so are writes to
	// structures that already exist, so priming a body changes no outer
	// state.
	modeRead
)

// New wraps lines into a root structure.
func New(lines []*ast.Line, opts Options) *Interpreter {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	in := &Interpreter{
		arena:  &arena{},
		out:    bufio.NewWriter(stdout),
		logger: logger,
		debug:  opts.Debug,
	}
	in.root = in.arena.alloc(&structure{lines: lines, parent: noStructure})

	argLines := make([]*ast.Line, 0, len(opts.Args))
	for _, arg := range opts.Args {
		argLines = append(argLines, ast.NewLine(0, ast.Str(arg)))
	}
	in.newStructure(in.root, "args", argLines)
	return in
}

// Run interprets the root structure until its body ends, the program calls
// exit or ctx is cancelled.
func (in *Interpreter) Run(ctx context.Context) error {
	stop := in.watch(ctx)
	defer stop()

	in.interpret(in.root, modeRun)
	return in.finish(ctx)
}

// Eval appends lines to the root body and interprets only them. It returns
// the value of the last top-level bare expression.
func (in *Interpreter) Eval(ctx context.Context, lines []*ast.Line) (ast.Token, error) {
	stop := in.watch(ctx)
	defer stop()

	in.arena.get(in.root).appendLines(lines)
	in.last = ast.Empty()
	in.interpretLines(in.root, lines, modeRun)
	return in.last, in.finish(ctx)
}

// Exited reports whether the program requested exit.
func (in *Interpreter) Exited() bool {
	return in.exit.Load()
}

// watch bridges cancellation of ctx to the exit flag.
func (in *Interpreter) watch(ctx context.Context) func() bool {
	if ctx.Err() != nil {
		in.requestExit()
	}
	return context.AfterFunc(ctx, in.requestExit)
}

func (in *Interpreter) requestExit() {
	in.exit.Store(true)
}

func (in *Interpreter) finish(ctx context.Context) error {
	if err := in.out.Flush(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if code := in.exitCode.Load(); code != 0 {
		return exitSignal{code: int(code)}
	}
	return nil
}

func (in *Interpreter) structure(id StructureID) *structure {
	return in.arena.get(id)
}

// lookup searches local children, then each parent up to the root.
func (in *Interpreter) lookup(scope StructureID, name string) (StructureID, bool) {
	for id := scope; id != noStructure; {
		s := in.structure(id)
		if s == nil {
			return noStructure, false
		}
		v := s.view()
		if child, ok := in.findChild(v.children, name); ok {
			return child, true
		}
		id = v.parent
	}
	return noStructure, false
}

func (in *Interpreter) localChild(scope StructureID, name string) (StructureID, bool) {
	s := in.structure(scope)
	if s == nil {
		return noStructure, false
	}
	return in.findChild(s.view().children, name)
}

func (in *Interpreter) findChild(children []StructureID, name string) (StructureID, bool) {
	for _, child := range children {
		if s := in.structure(child); s != nil && s.Name() == name {
			return child, true
		}
	}
	return noStructure, false
}

func (in *Interpreter) newStructure(parent StructureID, name string, lines []*ast.Line) StructureID {
	id := in.arena.alloc(&structure{name: name, lines: lines, parent: parent})
	in.structure(parent).addChild(id)
	return id
}

// owner returns the nearest structure that is not a conditional block.
func (in *Interpreter) owner(scope StructureID) StructureID {
	for id := scope; id != noStructure; {
		v := in.structure(id).view()
		if !v.block {
			return id
		}
		id = v.parent
	}
	return in.root
}
