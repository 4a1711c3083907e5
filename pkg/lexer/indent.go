package lexer

import "github.com/miruji/RTS-sub000/pkg/ast"

// nestLines makes every line the parent of the run of lines that follows it
// with strictly greater indentation, recursively.
func nestLines(lines []*ast.Line) []*ast.Line {
	var out []*ast.Line
	for i := 0; i < len(lines); {
		line := lines[i]
		j := i + 1
		for j < len(lines) && lines[j].Indent > line.Indent {
			j++
		}
		if j > i+1 {
			line.SetChildren(nestLines(lines[i+1 : j]))
		}
		out = append(out, line)
		i = j
	}
	return out
}
