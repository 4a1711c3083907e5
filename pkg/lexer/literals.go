package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

// scanNumber reads an optional sign, digits, at most one decimal point and a
// `//` rational marker, then picks the kind from what it saw.
func (s *scanner) scanNumber() {
	start := s.pos
	var hasSign, hasDot, hasRational bool
	if s.src[s.pos] == '-' {
		hasSign = true
		s.pos++
	}
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isDigit(c):
			s.pos++
			continue
		case c == '.' && !hasDot && !hasRational && isDigit(s.peekAt(s.pos+1)):
			hasDot = true
			s.pos++
			continue
		case c == '/' && !hasDot && !hasRational && s.peekAt(s.pos+1) == '/' && isDigit(s.peekAt(s.pos+2)):
			hasRational = true
			s.pos += 2
			continue
		}
		break
	}
	s.emit(ast.NewToken(numberKind(hasSign, hasDot, hasRational), string(s.src[start:s.pos])))
}

func numberKind(hasSign, hasDot, hasRational bool) ast.Kind {
	switch {
	case hasRational:
		return ast.KindRational
	case hasDot && hasSign:
		return ast.KindFloat
	case hasDot:
		return ast.KindUFloat
	case hasSign:
		return ast.KindInt
	default:
		return ast.KindUInt
	}
}

// scanWord reads a word; an internal dot turns it into a link path.
func (s *scanner) scanWord() bool {
	first, size := utf8.DecodeRune(s.src[s.pos:])
	if first != '_' && !unicode.IsLetter(first) {
		return false
	}
	start := s.pos
	s.pos += size
	isLink := false
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRune(s.src[s.pos:])
		if isWordRune(r) {
			s.pos += size
			continue
		}
		if r == '.' {
			next, _ := utf8.DecodeRune(s.src[s.pos+1:])
			if s.pos+1 < len(s.src) && isWordRune(next) {
				isLink = true
				s.pos++
				continue
			}
		}
		break
	}
	text := string(s.src[start:s.pos])
	switch {
	case text == "true" || text == "false":
		s.emit(ast.NewToken(ast.KindBool, text))
	case isLink:
		s.emit(ast.NewToken(ast.KindLink, text))
	default:
		s.emit(ast.NewToken(ast.KindWord, text))
	}
	return true
}

// scanQuote reads a char, string or raw string literal opened by quote.
// A terminator preceded by an odd run of backslashes is escaped.
func (s *scanner) scanQuote(quote byte) {
	open := s.pos
	s.pos++
	start := s.pos
	for {
		if s.pos >= len(s.src) || s.src[s.pos] == '\n' {
			// Unterminated: the literal is discarded.
			s.emit(ast.Empty())
			return
		}
		if s.src[s.pos] == quote && backslashesBefore(s.src, start, s.pos)%2 == 0 {
			break
		}
		s.pos++
	}
	body := string(s.src[start:s.pos])
	s.pos++

	kind := ast.KindString
	payload := body
	switch quote {
	case '\'':
		kind = ast.KindChar
		payload = unescape(body)
		if utf8.RuneCountInString(payload) != 1 {
			s.emit(ast.Empty())
			return
		}
	case '"':
		payload = unescape(body)
	case '`':
		kind = ast.KindRawString
	}

	if prev, ok := s.last(); ok && prev.Is(ast.KindWord) && prev.Data() == "f" && s.peekAt(open-1) == 'f' {
		s.tokens = s.tokens[:len(s.tokens)-1]
		kind = formattedKind(kind)
	}
	s.emit(ast.NewToken(kind, payload))
}

func formattedKind(kind ast.Kind) ast.Kind {
	switch kind {
	case ast.KindChar:
		return ast.KindFormattedChar
	case ast.KindRawString:
		return ast.KindFormattedRawString
	default:
		return ast.KindFormattedString
	}
}

func backslashesBefore(src []byte, start, pos int) int {
	n := 0
	for i := pos - 1; i >= start && src[i] == '\\'; i-- {
		n++
	}
	return n
}

var escapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'`':  '`',
}

func unescape(body string) string {
	if !strings.Contains(body, "\\") {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		if r, ok := escapes[body[i+1]]; ok {
			b.WriteByte(r)
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
