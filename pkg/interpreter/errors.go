package interpreter

import "fmt"

type errIndexOutOfRange struct {
	name  string
	index int
}

func (e errIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range for %q", e.index, e.name)
}
