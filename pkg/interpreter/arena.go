package interpreter

import (
	"sync"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

// StructureID addresses a structure in the arena.
type StructureID int

const noStructure StructureID = -1

// structure is a named scope that is at once a declaration, a binding and a
// callable unit. Parent and children are arena indices.
type structure struct {
	mu sync.RWMutex

	name       string
	lines      []*ast.Line
	params     []string
	resultType ast.Token
	result     ast.Token
	children   []StructureID
	parent     StructureID
	block      bool
}

// structureView is a point-in-time copy of a structure's fields. Evaluation
// works on views so no lock is held while recursing into the tree.
type structureView struct {
	name       string
	lines      []*ast.Line
	params     []string
	resultType ast.Token
	result     ast.Token
	children   []StructureID
	parent     StructureID
	block      bool
}

func (s *structure) view() structureView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return structureView{
		name:       s.name,
		lines:      append([]*ast.Line(nil), s.lines...),
		params:     append([]string(nil), s.params...),
		resultType: s.resultType,
		result:     s.result,
		children:   append([]StructureID(nil), s.children...),
		parent:     s.parent,
		block:      s.block,
	}
}

// isFunction reports whether the structure declared a result type.
func (v structureView) isFunction() bool {
	return v.resultType.Kind() != ast.KindNone
}

// Name returns the declared name. Blocks and the root have none.
func (s *structure) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Lines returns a copy of the body slice. The lines themselves are shared.
func (s *structure) Lines() []*ast.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*ast.Line(nil), s.lines...)
}

// setLines replaces the whole body.
func (s *structure) setLines(lines []*ast.Line) {
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

// setLine replaces the body line at index, appending when index equals the
// body length. It reports false for any other out-of-range index.
func (s *structure) setLine(index int, line *ast.Line) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case index >= 0 && index < len(s.lines):
		s.lines[index] = line
	case index == len(s.lines):
		s.lines = append(s.lines, line)
	default:
		return false
	}
	return true
}

func (s *structure) appendLines(lines []*ast.Line) {
	s.mu.Lock()
	s.lines = append(s.lines, lines...)
	s.mu.Unlock()
}

func (s *structure) setResult(tok ast.Token) {
	s.mu.Lock()
	s.result = tok
	s.mu.Unlock()
}

// Result returns the result slot.
func (s *structure) Result() ast.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *structure) addChild(id StructureID) {
	s.mu.Lock()
	s.children = append(s.children, id)
	s.mu.Unlock()
}

// arena owns every structure. Released slots are reused.
type arena struct {
	mu    sync.Mutex
	nodes []*structure
	free  []StructureID
}

func (a *arena) alloc(s *structure) StructureID {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.nodes[id] = s
		return id
	}
	a.nodes = append(a.nodes, s)
	return StructureID(len(a.nodes) - 1)
}

func (a *arena) get(id StructureID) *structure {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// release frees id and everything declared under it.
func (a *arena) release(id StructureID) {
	s := a.get(id)
	if s == nil {
		return
	}
	for _, child := range s.view().children {
		a.release(child)
	}
	a.mu.Lock()
	a.nodes[id] = nil
	a.free = append(a.free, id)
	a.mu.Unlock()
}

// live counts allocated structures.
func (a *arena) live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, s := range a.nodes {
		if s != nil {
			n++
		}
	}
	return n
}
