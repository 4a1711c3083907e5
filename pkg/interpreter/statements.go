package interpreter

import (
	"time"

	"github.com/miruji/RTS-sub000/pkg/ast"
	"github.com/miruji/RTS-sub000/pkg/runtime"
)

// interpret runs a structure's body from its first line.
func (in *Interpreter) interpret(id StructureID, m mode) {
	s := in.structure(id)
	if s == nil {
		return
	}
	in.interpretLines(id, s.Lines(), m)
}

func (in *Interpreter) interpretLines(scope StructureID, lines []*ast.Line, m mode) {
	for i := 0; i < len(lines); i++ {
		if in.exit.Load() {
			return
		}
		line := lines[i]
		if line.IsEmpty() {
			continue
		}
		started := time.Now()
		first := line.First()
		switch {
		case (first.Is(ast.KindWord) || first.Is(ast.KindLink)) && in.structureStatement(scope, line, m):
		case first.Is(ast.KindEquals):
			in.returnStatement(scope, line)
		case first.Is(ast.KindQuestion) && line.HasChildren():
			i = in.conditionalChain(scope, lines, i, m)
		case m == modeRun:
			v := in.expression(scope, line.Tokens)
			if scope == in.root {
				in.last = v
			}
		}
		in.traceLine(scope, line, started)
	}
}

// structureStatement handles declarations, assignments and `name ++`/`name
// --`. It reports false when the line is none of those. While priming, writes
// to structures that already exist are skipped.
func (in *Interpreter) structureStatement(scope StructureID, line *ast.Line, m mode) bool {
	tokens := line.Tokens
	target := tokens[0]

	if line.HasChildren() && target.Is(ast.KindWord) {
		in.declare(scope, line)
		return true
	}

	if len(tokens) == 2 && (tokens[1].Is(ast.KindDoublePlus) || tokens[1].Is(ast.KindDoubleMinus)) {
		op := ast.KindPlusEquals
		if tokens[1].Is(ast.KindDoubleMinus) {
			op = ast.KindMinusEquals
		}
		if id, index, ok := in.assignTarget(scope, target); ok && m == modeRun {
			in.assignOperation(scope, id, index, nil, op, []ast.Token{ast.UInt("1")})
		}
		return true
	}

	at := -1
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Kind().IsAssignment() {
			at = i
			break
		}
	}
	if at < 0 {
		return false
	}
	left, op, right := tokens[1:at], tokens[at].Kind(), tokens[at+1:]

	if id, index, ok := in.assignTarget(scope, target); ok {
		if m == modeRun {
			in.assignOperation(scope, id, index, left, op, right)
		}
		return true
	}
	if target.Is(ast.KindWord) {
		value := in.expression(scope, right)
		in.newStructure(scope, target.Data(), valueLines(value))
	}
	return true
}

// assignTarget finds the structure an assignment writes to. Links ending in a
// numeric segment also yield a line index, otherwise index is -1.
func (in *Interpreter) assignTarget(scope StructureID, target ast.Token) (id StructureID, index int, ok bool) {
	if target.Is(ast.KindLink) {
		return in.walkLink(scope, target.Data())
	}
	id, ok = in.lookup(scope, target.Data())
	return id, -1, ok
}

// declare registers a child structure for a line with nested lines and primes
// it. An existing local child of the same name is left untouched.
func (in *Interpreter) declare(scope StructureID, line *ast.Line) {
	tokens := line.Tokens
	name := tokens[0].Data()
	if _, ok := in.localChild(scope, name); ok {
		return
	}

	rest := tokens[1:]
	var params []string
	if len(rest) > 0 && rest[0].Is(ast.KindCircleBrackets) {
		for _, arg := range splitArgs(rest[0].Nested()) {
			if len(arg) > 0 && arg[0].Is(ast.KindWord) {
				params = append(params, arg[0].Data())
			}
		}
		rest = rest[1:]
	}
	var resultType ast.Token
	if len(rest) >= 2 && rest[0].Is(ast.KindPointer) && rest[1].Is(ast.KindWord) {
		resultType = declaredType(rest[1].Data())
	}

	id := in.newStructure(scope, name, line.Lines)
	s := in.structure(id)
	s.mu.Lock()
	s.params = params
	s.resultType = resultType
	s.result = resultType
	s.mu.Unlock()
	for _, param := range params {
		in.newStructure(id, param, nil)
	}

	in.interpret(id, modeRead)
}

func declaredType(name string) ast.Token {
	kind := ast.KindFromTypeName(name)
	if kind == ast.KindCustom {
		return ast.NewToken(kind, name)
	}
	return ast.NewToken(kind, "")
}

// assignOperation writes to an existing structure. With an index (from a
// `[expr]` left token or a numeric link segment) only that body line changes.
func (in *Interpreter) assignOperation(scope, id StructureID, index int, left []ast.Token, op ast.Kind, right []ast.Token) {
	for _, tok := range left {
		if tok.Is(ast.KindSquareBrackets) {
			if n, ok := indexValue(in.expression(scope, tok.Nested())); ok {
				index = n
			}
		}
	}
	s := in.structure(id)
	value := in.expression(scope, right)

	if op != ast.KindEquals {
		var current ast.Token
		if index >= 0 {
			current = in.lineAt(id, index)
		} else {
			current = in.structureValue(id)
		}
		next, err := runtime.Calculate(op, current, value)
		if err != nil {
			in.traceError(scope, err)
		}
		value = next
	}

	if index >= 0 {
		if !s.setLine(index, ast.NewLine(0, value)) {
			in.traceError(scope, errIndexOutOfRange{name: s.Name(), index: index})
		}
		return
	}
	// The body holds the evaluated value, not the right-hand tokens, so
	// `x = x + 1` does not read itself again later.
	s.setLines(valueLines(value))
}

// returnStatement writes `= expr` into the nearest non-block structure.
func (in *Interpreter) returnStatement(scope StructureID, line *ast.Line) {
	value := in.expression(scope, line.Tokens[1:])
	in.structure(in.owner(scope)).setResult(value)
}

// conditionalChain collects consecutive `?` arms starting at i and runs the
// first arm whose condition evaluates to true. It returns the index of the
// last collected arm.
func (in *Interpreter) conditionalChain(scope StructureID, lines []*ast.Line, i int, m mode) int {
	end := i
	for end < len(lines) && !lines[end].IsEmpty() && lines[end].First().Is(ast.KindQuestion) {
		end++
	}
	if m == modeRead {
		return end - 1
	}
	for _, arm := range lines[i:end] {
		if cond := arm.Tokens[1:]; len(cond) > 0 {
			if in.expression(scope, cond).Data() != "true" {
				continue
			}
		}
		in.runBlock(scope, arm.Lines)
		break
	}
	return end - 1
}

// runBlock interprets lines in a disposable structure chained to scope.
func (in *Interpreter) runBlock(scope StructureID, lines []*ast.Line) {
	id := in.arena.alloc(&structure{lines: lines, parent: scope, block: true})
	defer in.arena.release(id)
	in.interpretLines(id, lines, modeRun)
}

// valueLines stores a value as a structure body: one line per element for
// arrays, a single line otherwise.
func valueLines(value ast.Token) []*ast.Line {
	if value.Is(ast.KindArray) {
		lines := make([]*ast.Line, 0, len(value.Nested()))
		for _, item := range value.Nested() {
			lines = append(lines, ast.NewLine(0, item))
		}
		return lines
	}
	return []*ast.Line{ast.NewLine(0, value)}
}
