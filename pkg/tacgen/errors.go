package tacgen

import (
	"fmt"

	"github.com/raymyers/ralph-tac/pkg/ast"
)

// ErrorKind classifies a lowering failure
type ErrorKind int

const (
	// ErrInconsistent means the tree violates a guarantee of resolution:
	// an unresolved symbol, a void value used as an operand, a call through
	// a non-procedure symbol or an unknown record field.
	ErrInconsistent ErrorKind = iota
	// ErrUnsupported means a tree variant has no lowering
	ErrUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInconsistent:
		return "internal inconsistency"
	case ErrUnsupported:
		return "unsupported construct"
	}
	return "?"
}

// InternalError aborts lowering of the whole program
type InternalError struct {
	Kind ErrorKind
	Node ast.Node // offending node, may be nil
	Proc string   // enclosing procedure, empty at program scope
	Msg  string
}

func (e *InternalError) Error() string {
	if e.Proc != "" {
		return fmt.Sprintf("%v in %s: %s", e.Kind, e.Proc, e.Msg)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

// recoverInternal turns an InternalError panic into *err. Any other panic
// is not ours and keeps unwinding.
func recoverInternal(err *error) {
	r := recover()
	if r == nil {
		return
	}
	ie, ok := r.(*InternalError)
	if !ok {
		panic(r)
	}
	*err = ie
}

// fail aborts the traversal; LowerProgram turns the panic back into an error
func fail(kind ErrorKind, node ast.Node, proc string, format string, args ...interface{}) {
	panic(&InternalError{Kind: kind, Node: node, Proc: proc, Msg: fmt.Sprintf(format, args...)})
}
