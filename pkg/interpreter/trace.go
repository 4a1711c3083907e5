package interpreter

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

func (in *Interpreter) traceLine(scope StructureID, line *ast.Line, started time.Time) {
	if !in.debug {
		return
	}
	parts := make([]string, len(line.Tokens))
	for i, tok := range line.Tokens {
		parts[i] = tok.String()
	}
	in.logger.Debug("line",
		slog.String("structure", in.scopeName(scope)),
		slog.String("tokens", strings.Join(parts, " ")),
		slog.Duration("elapsed", time.Since(started)))
}

func (in *Interpreter) traceError(scope StructureID, err error) {
	if !in.debug {
		return
	}
	in.logger.Debug("expression degraded",
		slog.String("structure", in.scopeName(scope)),
		slog.Any("err", err))
}

// traceUnresolved reports an unknown name with the closest visible name.
func (in *Interpreter) traceUnresolved(scope StructureID, name string) {
	if !in.debug {
		return
	}
	attrs := []any{slog.String("name", name), slog.String("structure", in.scopeName(scope))}
	if suggestion := closestName(name, in.visibleNames(scope)); suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", suggestion))
	}
	in.logger.Debug("unresolved name", attrs...)
}

func closestName(target string, candidates []string) string {
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// visibleNames lists every structure name reachable from scope.
func (in *Interpreter) visibleNames(scope StructureID) []string {
	var names []string
	for id := scope; id != noStructure; {
		s := in.structure(id)
		if s == nil {
			break
		}
		v := s.view()
		for _, child := range v.children {
			if c := in.structure(child); c != nil {
				names = append(names, c.Name())
			}
		}
		id = v.parent
	}
	return names
}

func (in *Interpreter) scopeName(id StructureID) string {
	s := in.structure(id)
	switch {
	case s == nil:
		return "?"
	case id == in.root:
		return "root"
	}
	v := s.view()
	if v.block {
		return in.scopeName(v.parent) + "/block"
	}
	return v.name
}
