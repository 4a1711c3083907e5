package interpreter

import (
	"strconv"
	"strings"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

// resolveWord looks a name up through the scope chain and presents the
// structure as a value.
func (in *Interpreter) resolveWord(scope StructureID, name string) ast.Token {
	id, ok := in.lookup(scope, name)
	if !ok {
		in.traceUnresolved(scope, name)
		return ast.Empty()
	}
	return in.structureValue(id)
}

// structureValue calls functions with no arguments. Other structures yield
// their single line's value, an Array of line values, or an empty Array
// carrying the name when the body is empty.
func (in *Interpreter) structureValue(id StructureID) ast.Token {
	v := in.structure(id).view()
	if v.isFunction() {
		return in.callStructure(id, nil)
	}
	switch len(v.lines) {
	case 0:
		empty := ast.Array()
		empty.SetData(v.name)
		return empty
	case 1:
		return in.lineValue(id, v.lines[0])
	default:
		items := make([]ast.Token, 0, len(v.lines))
		for _, line := range v.lines {
			items = append(items, in.lineValue(id, line))
		}
		return ast.Array(items...)
	}
}

// lineValue evaluates a body line in the scope of the structure owning it.
func (in *Interpreter) lineValue(owner StructureID, line *ast.Line) ast.Token {
	return in.expression(owner, line.Tokens)
}

// lineAt evaluates the body line at index, or returns an empty token.
func (in *Interpreter) lineAt(id StructureID, index int) ast.Token {
	lines := in.structure(id).Lines()
	if index < 0 || index >= len(lines) {
		return ast.Empty()
	}
	return in.lineValue(id, lines[index])
}

// index evaluates `name[expr]` by evaluating only the selected body line.
func (in *Interpreter) index(scope StructureID, name string, group ast.Token) ast.Token {
	id, ok := in.lookup(scope, name)
	if !ok {
		in.traceUnresolved(scope, name)
		return ast.Empty()
	}
	n, ok := indexValue(in.expression(scope, group.Nested()))
	if !ok {
		return ast.Empty()
	}
	return in.lineAt(id, n)
}

// walkLink resolves a dotted path to a structure. A trailing numeric segment
// is returned as a line index into that structure, otherwise index is -1.
func (in *Interpreter) walkLink(scope StructureID, path string) (id StructureID, index int, ok bool) {
	segments := strings.Split(path, ".")
	current := noStructure
	for i, seg := range segments {
		if n, err := strconv.Atoi(seg); err == nil {
			if current == noStructure || n < 0 {
				return noStructure, -1, false
			}
			lines := in.structure(current).Lines()
			if n >= len(lines) {
				return noStructure, -1, false
			}
			if i == len(segments)-1 {
				return current, n, true
			}
			// Continue through the line's first token.
			first := lines[n].First()
			if !first.Is(ast.KindWord) {
				return noStructure, -1, false
			}
			child, found := in.localChild(current, first.Data())
			if !found {
				return noStructure, -1, false
			}
			current = child
			continue
		}

		var found bool
		var next StructureID
		if current != noStructure && len(in.structure(current).view().children) > 0 {
			next, found = in.localChild(current, seg)
		} else {
			next, found = in.lookup(scope, seg)
		}
		if !found {
			in.traceUnresolved(scope, seg)
			return noStructure, -1, false
		}
		current = next
	}
	return current, -1, current != noStructure
}

// resolveLink evaluates a dotted path. A path that reaches a structure which
// is neither callable nor single-valued stays a Link.
func (in *Interpreter) resolveLink(scope StructureID, path string, args []ast.Token, call bool) ast.Token {
	id, index, ok := in.walkLink(scope, path)
	if !ok {
		return ast.Empty()
	}
	if index >= 0 {
		return in.lineAt(id, index)
	}
	if call {
		return in.callStructure(id, args)
	}
	v := in.structure(id).view()
	switch {
	case len(v.lines) == 1:
		return in.lineValue(id, v.lines[0])
	case v.isFunction():
		return in.callStructure(id, nil)
	default:
		return ast.Link(path)
	}
}
