package tacgen

import (
	"github.com/raymyers/ralph-tac/pkg/ast"
	"github.com/raymyers/ralph-tac/pkg/tac"
	"github.com/raymyers/ralph-tac/pkg/types"
)

func (b *procBuilder) lowerBlock(body []ast.Stmt) {
	for _, s := range body {
		b.lowerStmt(s)
	}
}

// lowerStmt lowers one statement inside the procedure body
func (b *procBuilder) lowerStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		if s == nil || s.Sym == nil {
			b.fail(ErrInconsistent, stmt, "variable without symbol")
		}
		b.proc.GatherLocal(s.Sym, types.Width(s.Sym.Type))

	case *ast.RecordDecl:
		// layout is already on the record type

	case *ast.AssignStmt:
		b.lowerAssign(s.Assign)

	case *ast.PostIncStmt:
		b.lowerStep(s.Target, tac.ADD)

	case *ast.PostDecStmt:
		b.lowerStep(s.Target, tac.SUB)

	case *ast.IfStmt:
		cond := b.lowerValue(s.Cond)
		after := b.proc.MakeLabel()
		b.emit(&tac.IfzQuad{Cond: cond, Target: after})
		b.lowerBlock(s.Body)
		b.anchor(after)

	case *ast.IfElseStmt:
		cond := b.lowerValue(s.Cond)
		elseLbl := b.proc.MakeLabel()
		end := b.proc.MakeLabel()
		b.emit(&tac.IfzQuad{Cond: cond, Target: elseLbl})
		b.lowerBlock(s.Then)
		b.emit(&tac.GotoQuad{Target: end})
		b.anchor(elseLbl)
		b.lowerBlock(s.Else)
		b.anchor(end)

	case *ast.WhileStmt:
		b.lowerLoop(s.Cond, s.Body, nil)

	case *ast.ForStmt:
		if s.Init != nil {
			b.lowerStmt(s.Init)
		}
		b.lowerLoop(s.Cond, s.Body, s.Step)

	case *ast.ReturnStmt:
		if s.Value != nil {
			b.emit(&tac.SetRetQuad{Src: b.lowerValue(s.Value)})
		}
		b.emit(&tac.GotoQuad{Target: b.proc.LeaveLabel()})

	case *ast.CallStmt:
		// a result operand, if any, is dropped
		b.lowerCall(s.Call)

	case *ast.ReportStmt:
		src := b.lowerValue(s.Value)
		b.emit(&tac.ReportQuad{Src: src, Type: s.Value.ExprType()})

	case *ast.ReceiveStmt:
		dst := b.lowerLValue(s.Target)
		b.emit(&tac.ReceiveQuad{Dst: dst, Type: s.Target.ExprType()})

	default:
		b.fail(ErrUnsupported, stmt, "no lowering for statement %T", stmt)
	}
}

// lowerLoop emits start: [cond; IFZ cond GOTO end;] body; step; GOTO start; end:
// The condition is evaluated on every iteration. A nil cond loops forever.
func (b *procBuilder) lowerLoop(cond ast.Expr, body []ast.Stmt, step ast.Stmt) {
	start := b.proc.MakeLabel()
	end := b.proc.MakeLabel()
	b.anchor(start)
	if cond != nil {
		c := b.lowerValue(cond)
		b.emit(&tac.IfzQuad{Cond: c, Target: end})
	}
	b.lowerBlock(body)
	if step != nil {
		b.lowerStmt(step)
	}
	b.emit(&tac.GotoQuad{Target: start})
	b.anchor(end)
}

// lowerStep writes target op 1 back into target without a temporary
func (b *procBuilder) lowerStep(target ast.LValue, op tac.BinaryOp) {
	dst := b.lowerLValue(target)
	one := tac.IntLit(1, dst.Width())
	b.emit(&tac.BinaryQuad{Op: op, Dst: dst, Src1: dst, Src2: one})
}

func (b *procBuilder) anchor(l *tac.Label) {
	if _, err := b.proc.Anchor(l); err != nil {
		b.fail(ErrInconsistent, nil, "%v", err)
	}
}

// lowerFormals registers each formal in position order and binds it with
// one GETARG.
func (b *procBuilder) lowerFormals(formals []*ast.FormalDecl) {
	for i, f := range formals {
		if f == nil || f.Sym == nil {
			b.fail(ErrInconsistent, f, "formal %d without symbol", i)
		}
		dst := b.proc.GatherFormal(f.Sym, types.Width(f.Sym.Type))
		if pos, _ := b.proc.FormalIndex(dst); pos != i {
			b.fail(ErrInconsistent, f, "formal %s listed at %d and %d", f.Sym.Name, pos, i)
		}
		b.emit(&tac.GetArgQuad{Index: i, Dst: dst})
	}
}
