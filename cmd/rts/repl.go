package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/miruji/RTS-sub000/pkg/driver"
	"github.com/miruji/RTS-sub000/pkg/interpreter"
)

const (
	historyFile = "history"
	promptMain  = "rts> "
	promptCont  = "...> "
)

func (c *cli) runRepl(ctx context.Context) error {
	fmt.Fprintln(c.stdout, cliToolVersion+" (type :quit to exit)")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if dir, err := driver.CacheDir(); err == nil {
		histPath = filepath.Join(dir, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := newReplSession(c.runOptions(nil))
	for {
		code, ok := readBlock(ln)
		if !ok {
			fmt.Fprintln(c.stdout)
			return nil
		}
		if strings.TrimSpace(code) == ":quit" {
			return nil
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", "; "))

		out, err := session.eval(ctx, code)
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Fprintln(c.stdout, out)
		}
		if session.exited() {
			return nil
		}
	}
}

// readBlock reads one input. A line that opens a block keeps reading until a
// blank line.
func readBlock(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			if b.Len() > 0 && errors.Is(err, io.EOF) {
				return b.String(), true
			}
			return "", false
		}
		if b.Len() == 0 {
			if !opensBlock(line) {
				return line, true
			}
			b.WriteString(line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			return b.String(), true
		}
		b.WriteByte('\n')
		b.WriteString(line)
	}
}

// opensBlock reports whether a line can take nested lines: a conditional
// arm, a typed declaration or a bare name.
func opensBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return false
	case strings.HasPrefix(trimmed, "?"):
		return true
	case strings.Contains(trimmed, "->"):
		return true
	}
	return isName(trimmed)
}

func isName(s string) bool {
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return s != ""
}

// replSession keeps one interpreter alive across inputs.
type replSession struct {
	opts driver.RunOptions
	in   *interpreter.Interpreter
}

func newReplSession(opts driver.RunOptions) *replSession {
	return &replSession{opts: opts, in: driver.NewInterpreter(nil, opts)}
}

// eval interprets code against the session state and renders the value of
// its last bare expression.
func (s *replSession) eval(ctx context.Context, code string) (string, error) {
	value, err := s.in.Eval(ctx, driver.Lex([]byte(code), s.opts))
	if err != nil {
		return "", err
	}
	if value.IsEmpty() {
		return "", nil
	}
	return interpreter.Format(value), nil
}

func (s *replSession) exited() bool {
	return s.in.Exited()
}
