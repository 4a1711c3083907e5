// Package lexer turns source bytes into a forest of indentation-nested lines
// whose tokens are classified and bracket-grouped.
package lexer

import (
	"log/slog"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

// Option configures a Lex call.
type Option func(*config)

type config struct {
	trace *slog.Logger
}

// WithTrace enables debug tracing of the produced line tree.
func WithTrace(logger *slog.Logger) Option {
	return func(c *config) {
		c.trace = logger
	}
}

// Lex scans src into top-level lines. Lexing never fails: malformed input
// degrades to empty tokens or is skipped.
func Lex(src []byte, opts ...Option) []*ast.Line {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	started := time.Now()

	s := &scanner{src: src, lineStart: true}
	s.run()

	for _, line := range s.lines {
		line.Tokens = nestBrackets(line.Tokens)
	}
	lines := nestLines(s.lines)
	lines = stripComments(lines)
	for _, line := range lines {
		line.Detach()
	}

	if cfg.trace != nil {
		cfg.trace.Debug("lexed source",
			slog.Int("bytes", len(src)),
			slog.Int("lines", len(lines)),
			slog.Duration("elapsed", time.Since(started)))
		cfg.trace.Debug("line tree\n" + ast.Dump(lines))
	}
	return lines
}

// LexString is Lex for string input.
func LexString(src string, opts ...Option) []*ast.Line {
	return Lex([]byte(src), opts...)
}

type scanner struct {
	src    []byte
	pos    int
	indent int

	lineStart bool
	tokens    []ast.Token
	lines     []*ast.Line
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		if s.lineStart {
			s.scanIndent()
			continue
		}
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.endLine()
			s.lineStart = true
			s.pos++
		case c == ';':
			s.endLine()
			s.pos++
		case c == ' ' || c == '\t' || c == '\r':
			s.pos++
		case c == '#':
			s.scanComment()
		case isDigit(c) || (c == '-' && isDigit(s.peekAt(s.pos+1)) && !s.prevIsValue()):
			s.scanNumber()
		case c == '\'' || c == '"' || c == '`':
			s.scanQuote(c)
		case c == '_' || c >= utf8.RuneSelf || isASCIILetter(c):
			if !s.scanWord() {
				s.pos++
			}
		default:
			s.scanOperator()
		}
	}
	s.endLine()
}

func (s *scanner) scanIndent() {
	n := 0
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		n++
		s.pos++
	}
	s.indent = n
	s.lineStart = false
}

func (s *scanner) emit(tok ast.Token) {
	s.tokens = append(s.tokens, tok)
}

func (s *scanner) endLine() {
	if len(s.tokens) == 0 {
		return
	}
	s.lines = append(s.lines, ast.NewLine(s.indent, s.tokens...))
	s.tokens = nil
}

func (s *scanner) peekAt(i int) byte {
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

func (s *scanner) last() (ast.Token, bool) {
	if len(s.tokens) == 0 {
		return ast.Token{}, false
	}
	return s.tokens[len(s.tokens)-1], true
}

// prevIsValue reports whether the previous token on this line can be a left
// operand, which makes a following `-` binary rather than a sign.
func (s *scanner) prevIsValue() bool {
	prev, ok := s.last()
	if !ok {
		return false
	}
	k := prev.Kind()
	return k.IsValue() || k == ast.KindCircleBracketEnd || k == ast.KindSquareBracketEnd
}

func (s *scanner) scanComment() {
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
	s.emit(ast.NewToken(ast.KindComment, string(s.src[start+1:s.pos])))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
