package main

import (
	"fmt"
)

func (c *cli) printUsage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  rts [-d] <file.rt> [args...]")
	fmt.Fprintln(c.stderr, "  rts [-d] run [file.rt] [args...]")
	fmt.Fprintln(c.stderr, "  rts [-d] -e <script> [args...]")
	fmt.Fprintln(c.stderr, "  rts [-d] repl")
	fmt.Fprintln(c.stderr, "  rts [-d] watch <file.rt> [args...]")
	fmt.Fprintln(c.stderr, "  rts new <name>")
	fmt.Fprintln(c.stderr, "  rts delete <name>")
	fmt.Fprintln(c.stderr, "  rts deps install")
	fmt.Fprintln(c.stderr, "  rts deps update")
	fmt.Fprintln(c.stderr, "  rts --version")
}
