package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/raymyers/ralph-tac/pkg/types"
)

// Printer writes a resolved tree back out in a C-like syntax
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new tree printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintProgram prints every declaration in order
func (p *Printer) PrintProgram(prog *Program) {
	for _, d := range prog.Decls {
		p.printDecl(d)
	}
}

func (p *Printer) printDecl(d Decl) {
	switch d := d.(type) {
	case *VarDecl:
		fmt.Fprintf(p.w, "%s %s;\n", d.Sym.Type, d.Sym.Name)
	case *RecordDecl:
		p.printRecordDecl(d.Typ)
	case *FnDecl:
		p.printFunction(d)
	default:
		fmt.Fprintf(p.w, "/* unknown decl %T */\n", d)
	}
}

func (p *Printer) printRecordDecl(r *types.Trecord) {
	p.writeIndent()
	fmt.Fprintf(p.w, "record %s {\n", r.Name)
	for _, f := range r.Fields {
		p.writeIndent()
		fmt.Fprintf(p.w, "  %s %s; // +%d\n", f.Type, f.Name, f.Offset)
	}
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printFunction(fn *FnDecl) {
	fmt.Fprintf(p.w, "%s %s(", fn.ReturnType(), fn.Name())
	for i, f := range fn.Formals {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprintf(p.w, "%s %s", f.Sym.Type, f.Sym.Name)
	}
	fmt.Fprintln(p.w, ") {")
	p.printBlock(fn.Body)
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printBlock(body []Stmt) {
	p.indent++
	for _, s := range body {
		p.printStmt(s)
	}
	p.indent--
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *VarDecl:
		p.writeIndent()
		fmt.Fprintf(p.w, "%s %s;\n", s.Sym.Type, s.Sym.Name)

	case *RecordDecl:
		p.printRecordDecl(s.Typ)

	case *AssignStmt:
		p.writeIndent()
		p.printExpr(s.Assign)
		fmt.Fprintln(p.w, ";")

	case *PostIncStmt:
		p.writeIndent()
		p.printExpr(s.Target)
		fmt.Fprintln(p.w, "++;")

	case *PostDecStmt:
		p.writeIndent()
		p.printExpr(s.Target)
		fmt.Fprintln(p.w, "--;")

	case *IfStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "if (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ") {")
		p.printBlock(s.Body)
		p.writeIndent()
		fmt.Fprintln(p.w, "}")

	case *IfElseStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "if (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ") {")
		p.printBlock(s.Then)
		p.writeIndent()
		fmt.Fprintln(p.w, "} else {")
		p.printBlock(s.Else)
		p.writeIndent()
		fmt.Fprintln(p.w, "}")

	case *WhileStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ") {")
		p.printBlock(s.Body)
		p.writeIndent()
		fmt.Fprintln(p.w, "}")

	case *ForStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "for (")
		p.printInline(s.Init)
		fmt.Fprint(p.w, "; ")
		if s.Cond != nil {
			p.printExpr(s.Cond)
		}
		fmt.Fprint(p.w, "; ")
		p.printInline(s.Step)
		fmt.Fprintln(p.w, ") {")
		p.printBlock(s.Body)
		p.writeIndent()
		fmt.Fprintln(p.w, "}")

	case *ReturnStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "return")
		if s.Value != nil {
			fmt.Fprint(p.w, " ")
			p.printExpr(s.Value)
		}
		fmt.Fprintln(p.w, ";")

	case *CallStmt:
		p.writeIndent()
		p.printExpr(s.Call)
		fmt.Fprintln(p.w, ";")

	case *ReportStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "report ")
		p.printExpr(s.Value)
		fmt.Fprintln(p.w, ";")

	case *ReceiveStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "receive ")
		p.printExpr(s.Target)
		fmt.Fprintln(p.w, ";")

	default:
		p.writeIndent()
		fmt.Fprintf(p.w, "/* unknown stmt %T */\n", stmt)
	}
}

// printInline prints a for-loop init or step clause without indentation or terminator
func (p *Printer) printInline(s Stmt) {
	switch s := s.(type) {
	case nil:
	case *AssignStmt:
		p.printExpr(s.Assign)
	case *PostIncStmt:
		p.printExpr(s.Target)
		fmt.Fprint(p.w, "++")
	case *PostDecStmt:
		p.printExpr(s.Target)
		fmt.Fprint(p.w, "--")
	case *CallStmt:
		p.printExpr(s.Call)
	default:
		fmt.Fprintf(p.w, "/* %T */", s)
	}
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case *IntLit:
		fmt.Fprintf(p.w, "%d", e.Value)

	case *BoolLit:
		fmt.Fprintf(p.w, "%t", e.Value)

	case *StrLit:
		fmt.Fprintf(p.w, "%q", e.Value)

	case *Ident:
		fmt.Fprint(p.w, e.Sym.Name)

	case *UnaryExpr:
		fmt.Fprint(p.w, e.Op.String())
		p.printExprParen(e.Arg)

	case *BinaryExpr:
		p.printExprParen(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op.String())
		p.printExprParen(e.Right)

	case *AssignExpr:
		p.printExpr(e.Dst)
		fmt.Fprint(p.w, " = ")
		p.printExpr(e.Src)

	case *CallExpr:
		fmt.Fprintf(p.w, "%s(", e.Callee.Sym.Name)
		for i, arg := range e.Args {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printExpr(arg)
		}
		fmt.Fprint(p.w, ")")

	case *FieldExpr:
		fmt.Fprintf(p.w, "%s.%s", e.Base.Sym.Name, e.Field)

	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

// printExprParen prints an expression, wrapping in parens if needed
func (p *Printer) printExprParen(expr Expr) {
	needsParen := false
	switch expr.(type) {
	case *BinaryExpr, *AssignExpr:
		needsParen = true
	}

	if needsParen {
		fmt.Fprint(p.w, "(")
		p.printExpr(expr)
		fmt.Fprint(p.w, ")")
	} else {
		p.printExpr(expr)
	}
}
