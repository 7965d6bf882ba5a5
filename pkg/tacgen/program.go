package tacgen

import (
	"github.com/raymyers/ralph-tac/pkg/ast"
	"github.com/raymyers/ralph-tac/pkg/tac"
	"github.com/raymyers/ralph-tac/pkg/types"
)

// LowerProgram lowers a resolved program to TAC. Any internal violation
// aborts the whole unit: the error is returned and no Program is.
func LowerProgram(prog *ast.Program) (_ *tac.Program, err error) {
	defer recoverInternal(&err)

	if prog == nil {
		fail(ErrInconsistent, nil, "", "no program")
	}
	out := tac.NewProgram()
	for _, d := range prog.Decls {
		lowerDecl(out, d)
	}
	return out, nil
}

// lowerDecl lowers one program-scope declaration
func lowerDecl(out *tac.Program, d ast.Decl) {
	switch d := d.(type) {
	case *ast.VarDecl:
		if d == nil || d.Sym == nil {
			fail(ErrInconsistent, d, "", "global variable without symbol")
		}
		out.GatherGlobal(d.Sym, types.Width(d.Sym.Type))
	case *ast.RecordDecl:
		// no code
	case *ast.FnDecl:
		lowerFunction(out, d)
	default:
		fail(ErrUnsupported, d, "", "no lowering for declaration %T", d)
	}
}

// lowerFunction builds one procedure: formals, body, then the leave anchor
func lowerFunction(out *tac.Program, fn *ast.FnDecl) *tac.Procedure {
	if fn == nil || fn.Sym == nil {
		fail(ErrInconsistent, fn, "", "function without symbol")
	}
	b := &procBuilder{proc: out.MakeProc(fn.Name())}
	b.lowerFormals(fn.Formals)
	b.lowerBlock(fn.Body)
	b.anchor(b.proc.LeaveLabel())
	if err := b.proc.Verify(); err != nil {
		b.fail(ErrInconsistent, fn, "%v", err)
	}
	return b.proc
}
