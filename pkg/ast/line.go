package ast

import (
	"strings"
)

// Line is one statement: its tokens, the indentation it was written at and
// the lines nested under it. The parent link is a back-reference only.
type Line struct {
	Tokens []Token
	Indent int
	Lines  []*Line

	parent *Line
}

// NewLine builds a detached line.
func NewLine(indent int, tokens ...Token) *Line {
	return &Line{Tokens: tokens, Indent: indent}
}

// Parent returns the line this one is nested under (nil at top level).
func (l *Line) Parent() *Line {
	return l.parent
}

// AppendChild nests child under l and sets its back-reference.
func (l *Line) AppendChild(child *Line) {
	child.parent = l
	l.Lines = append(l.Lines, child)
}

// SetChildren replaces the nested lines and re-points their back-references.
func (l *Line) SetChildren(children []*Line) {
	l.Lines = children
	for _, child := range children {
		child.parent = l
	}
}

// Detach clears the parent back-reference.
func (l *Line) Detach() {
	l.parent = nil
}

// HasChildren reports whether any lines are nested under l.
func (l *Line) HasChildren() bool {
	return len(l.Lines) > 0
}

// IsEmpty reports whether the line holds no tokens.
func (l *Line) IsEmpty() bool {
	return len(l.Tokens) == 0
}

// First returns the first token, or an empty token for empty lines.
func (l *Line) First() Token {
	if len(l.Tokens) == 0 {
		return Empty()
	}
	return l.Tokens[0]
}

// Clone deep-copies the line and its children. The copy is detached from
// l's parent.
func (l *Line) Clone() *Line {
	out := &Line{Tokens: CloneTokens(l.Tokens), Indent: l.Indent}
	for _, child := range l.Lines {
		out.AppendChild(child.Clone())
	}
	return out
}

// CloneLines deep-copies a line forest.
func CloneLines(lines []*Line) []*Line {
	out := make([]*Line, len(lines))
	for i, line := range lines {
		out[i] = line.Clone()
	}
	return out
}

// Dump renders a line forest as an indented tree for debug traces.
func Dump(lines []*Line) string {
	var b strings.Builder
	dumpLines(&b, lines, 0)
	return b.String()
}

func dumpLines(b *strings.Builder, lines []*Line, depth int) {
	for _, line := range lines {
		b.WriteString(strings.Repeat("  ", depth))
		for i, tok := range line.Tokens {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(tok.String())
		}
		b.WriteString("\n")
		dumpLines(b, line.Lines, depth+1)
	}
}
