package tacgen

import (
	"github.com/raymyers/ralph-tac/pkg/ast"
	"github.com/raymyers/ralph-tac/pkg/tac"
	"github.com/raymyers/ralph-tac/pkg/types"
)

// procBuilder lowers the body of one procedure into proc
type procBuilder struct {
	proc *tac.Procedure
}

func (b *procBuilder) emit(q tac.Quad) {
	b.proc.AddQuad(q)
}

func (b *procBuilder) fail(kind ErrorKind, node ast.Node, format string, args ...interface{}) {
	fail(kind, node, b.proc.Name, format, args...)
}

// lowerExpr lowers e and returns its result operand, or nil for a call to
// a void procedure.
func (b *procBuilder) lowerExpr(e ast.Expr) tac.Operand {
	switch e := e.(type) {
	case *ast.IntLit:
		return tac.IntLit(e.Value, types.Width(types.Int()))
	case *ast.BoolLit:
		return tac.BoolLit(e.Value, types.Width(types.Bool()))
	case *ast.StrLit:
		return b.proc.Prog().MakeString(e.Value)
	case *ast.Ident:
		return b.lowerIdent(e)
	case *ast.UnaryExpr:
		return b.lowerUnary(e)
	case *ast.BinaryExpr:
		return b.lowerBinary(e)
	case *ast.AssignExpr:
		return b.lowerAssign(e)
	case *ast.CallExpr:
		return b.lowerCall(e)
	case *ast.FieldExpr:
		return b.lowerField(e)
	default:
		b.fail(ErrUnsupported, e, "no lowering for expression %T", e)
		return nil
	}
}

// lowerValue lowers an expression whose result is consumed by a quad
func (b *procBuilder) lowerValue(e ast.Expr) tac.Operand {
	opd := b.lowerExpr(e)
	if opd == nil {
		b.fail(ErrInconsistent, e, "void value used as operand")
	}
	return opd
}

// lowerLValue lowers a destination to the operand that names its storage
func (b *procBuilder) lowerLValue(lv ast.LValue) tac.Operand {
	switch lv := lv.(type) {
	case *ast.Ident:
		return b.lowerIdent(lv)
	case *ast.FieldExpr:
		return b.lowerField(lv)
	default:
		b.fail(ErrUnsupported, lv, "no lowering for destination %T", lv)
		return nil
	}
}

func (b *procBuilder) lowerIdent(e *ast.Ident) *tac.SymOperand {
	if e == nil || e.Sym == nil {
		b.fail(ErrInconsistent, e, "identifier without symbol")
	}
	opd, ok := b.proc.SymOperand(e.Sym)
	if !ok {
		b.fail(ErrInconsistent, e, "unresolved symbol %s", e.Sym.Name)
	}
	return opd
}

func (b *procBuilder) lowerUnary(e *ast.UnaryExpr) tac.Operand {
	src := b.lowerValue(e.Arg)
	op, ok := TranslateUnaryOp(e.Op)
	if !ok {
		b.fail(ErrUnsupported, e, "unary operator %v", e.Op)
	}
	dst := b.proc.MakeTmp(types.Width(e.Typ))
	b.emit(&tac.UnaryQuad{Op: op, Dst: dst, Src: src})
	return dst
}

func (b *procBuilder) lowerBinary(e *ast.BinaryExpr) tac.Operand {
	left := b.lowerValue(e.Left)
	right := b.lowerValue(e.Right)
	op, ok := TranslateBinaryOp(e.Op)
	if !ok {
		b.fail(ErrUnsupported, e, "binary operator %v", e.Op)
	}
	dst := b.proc.MakeTmp(types.Width(e.Typ))
	b.emit(&tac.BinaryQuad{Op: op, Dst: dst, Src1: left, Src2: right})
	return dst
}

// lowerAssign evaluates the source before the destination and yields the
// destination, so assignments chain.
func (b *procBuilder) lowerAssign(e *ast.AssignExpr) tac.Operand {
	if e == nil {
		b.fail(ErrInconsistent, nil, "assignment statement without assignment")
	}
	src := b.lowerValue(e.Src)
	dst := b.lowerLValue(e.Dst)
	b.emit(&tac.AssignQuad{Dst: dst, Src: src})
	return dst
}

// lowerCall interleaves each argument's quads with its SETARG, then calls.
// Only a non-void callee gets a GETRET.
func (b *procBuilder) lowerCall(e *ast.CallExpr) tac.Operand {
	if e == nil {
		b.fail(ErrInconsistent, nil, "call statement without call")
	}
	if e.Callee == nil || e.Callee.Sym == nil {
		b.fail(ErrInconsistent, e, "call without callee symbol")
	}
	fnType, ok := e.Callee.Sym.Type.(types.Tfn)
	if !ok {
		b.fail(ErrInconsistent, e, "call through non-procedure %s", e.Callee.Sym.Name)
	}

	for i, arg := range e.Args {
		src := b.lowerValue(arg)
		b.emit(&tac.SetArgQuad{Index: i, Src: src})
	}
	b.emit(&tac.CallQuad{Callee: e.Callee.Sym})

	if types.IsVoid(fnType.Return) {
		return nil
	}
	dst := b.proc.MakeTmp(types.Width(fnType.Return))
	b.emit(&tac.GetRetQuad{Dst: dst})
	return dst
}

func (b *procBuilder) lowerField(e *ast.FieldExpr) tac.Operand {
	if e == nil || e.Base == nil {
		b.fail(ErrInconsistent, e, "field access without base")
	}
	base := b.lowerIdent(e.Base)
	rec, ok := e.Base.Sym.Type.(*types.Trecord)
	if !ok {
		b.fail(ErrInconsistent, e, "field %s of non-record %s", e.Field, e.Base.Sym.Name)
	}
	offset, ok := rec.Offset(e.Field)
	if !ok {
		b.fail(ErrInconsistent, e, "record %v has no field %s", rec, e.Field)
	}
	dst := b.proc.MakeAddr(types.Width(e.Typ))
	b.emit(&tac.AddrQuad{Dst: dst, Base: base, Offset: tac.IntLit(offset, types.Width(types.Int()))})
	return dst
}
