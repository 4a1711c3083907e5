package interpreter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/miruji/RTS-sub000/pkg/ast"
)

type exitSignal struct {
	code int
}

func (e exitSignal) Error() string {
	return fmt.Sprintf("program exited with status %d", e.code)
}

// ExitCodeFromError returns the status passed to `exit` if err carries one.
func ExitCodeFromError(err error) (int, bool) {
	var sig exitSignal
	if errors.As(err, &sig) {
		return sig.code, true
	}
	return 0, false
}

// exitIntrinsic sets the exit flag. An optional numeric argument becomes the
// process status.
func (in *Interpreter) exitIntrinsic(args []ast.Token) {
	if len(args) > 0 {
		if code, err := strconv.ParseInt(args[0].Data(), 10, 32); err == nil {
			in.exitCode.Store(code)
		}
	}
	in.requestExit()
}
