package interpreter

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

// builtin is a function evaluated in expression position.
type builtin func(in *Interpreter, args []ast.Token) ast.Token

var builtins = map[string]builtin{
	"type": func(_ *Interpreter, args []ast.Token) ast.Token {
		if len(args) == 0 {
			return ast.Empty()
		}
		return ast.Str(typeName(args[0]))
	},
	"len": func(_ *Interpreter, args []ast.Token) ast.Token {
		if len(args) == 0 {
			return ast.UInt("0")
		}
		return ast.UInt(strconv.Itoa(length(args[0])))
	},
}

// intrinsics are procedures with direct effects on the interpreter.
var intrinsics = map[string]func(in *Interpreter, args []ast.Token){
	"print": func(in *Interpreter, args []ast.Token) {
		in.write(args, false)
	},
	"println": func(in *Interpreter, args []ast.Token) {
		in.write(args, true)
	},
	"exit": (*Interpreter).exitIntrinsic,
}

// call dispatches a `name(args)` call site.
func (in *Interpreter) call(scope StructureID, name string, args []ast.Token) ast.Token {
	if fn, ok := builtins[name]; ok {
		return fn(in, args)
	}
	if fn, ok := intrinsics[name]; ok {
		fn(in, args)
		return ast.Empty()
	}
	first, _ := utf8.DecodeRuneInString(name)
	if first != '_' && !unicode.IsLower(first) {
		in.traceUnresolved(scope, name)
		return ast.Empty()
	}
	id, ok := in.lookup(scope, name)
	if !ok {
		in.traceUnresolved(scope, name)
		return ast.Empty()
	}
	return in.callStructure(id, args)
}

// callStructure binds args to parameters positionally, resets the result slot
// to the declared type and interprets the body. Parameter bindings and the
// result slot are restored afterwards so recursive calls keep their frames.
func (in *Interpreter) callStructure(id StructureID, args []ast.Token) ast.Token {
	s := in.structure(id)
	v := s.view()

	type binding struct {
		param *structure
		lines []*ast.Line
	}
	saved := make([]binding, 0, len(v.params))
	for i, name := range v.params {
		pid, ok := in.localChild(id, name)
		if !ok {
			continue
		}
		param := in.structure(pid)
		saved = append(saved, binding{param: param, lines: param.Lines()})
		if i < len(args) {
			param.setLines(valueLines(args[i]))
		} else {
			param.setLines(nil)
		}
	}
	s.setResult(v.resultType)

	in.interpret(id, modeRun)
	result := s.Result()

	for _, b := range saved {
		b.param.setLines(b.lines)
	}
	s.setResult(v.result)
	return result
}

// write prints the arguments separated by spaces and flushes.
func (in *Interpreter) write(args []ast.Token, newline bool) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = stringify(arg)
	}
	in.out.WriteString(strings.Join(parts, " "))
	if newline {
		in.out.WriteByte('\n')
	}
	if err := in.out.Flush(); err != nil {
		in.logger.Debug("flush failed", "err", err)
	}
}

func typeName(tok ast.Token) string {
	if tok.Is(ast.KindCustom) {
		return tok.Data()
	}
	return tok.Kind().String()
}

func length(tok ast.Token) int {
	switch {
	case tok.Is(ast.KindArray):
		return len(tok.Nested())
	case tok.IsEmpty():
		return 0
	default:
		return utf8.RuneCountInString(tok.Data())
	}
}
