package tac

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Printer outputs TAC in its canonical one-quad-per-line text form
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new TAC printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram prints globals, the string pool and every procedure
func (p *Printer) PrintProgram(prog *Program) {
	for _, g := range prog.Globals {
		fmt.Fprintf(p.w, "var %s[%d]\n", g, g.Width())
	}
	for _, s := range prog.Strings {
		fmt.Fprintf(p.w, "%s = %s\n", s, strconv.Quote(s.Content))
	}
	if len(prog.Globals) > 0 || len(prog.Strings) > 0 {
		fmt.Fprintln(p.w)
	}

	for i, proc := range prog.Procs {
		p.PrintProcedure(proc)
		if i < len(prog.Procs)-1 {
			fmt.Fprintln(p.w)
		}
	}
}

// PrintProcedure prints one procedure's header and quads
func (p *Printer) PrintProcedure(proc *Procedure) {
	names := make([]string, len(proc.Formals))
	for i, f := range proc.Formals {
		names[i] = f.String()
	}
	fmt.Fprintf(p.w, "%s(%s) {\n", proc.Name, strings.Join(names, ", "))
	for _, q := range proc.Quads {
		fmt.Fprintf(p.w, "  %s\n", FormatQuad(q))
	}
	fmt.Fprintln(p.w, "}")
}

// Lines returns the canonical text of each quad of proc
func Lines(proc *Procedure) []string {
	lines := make([]string, len(proc.Quads))
	for i, q := range proc.Quads {
		lines[i] = FormatQuad(q)
	}
	return lines
}

// FormatQuad returns the canonical text of q, prefixed by its labels
func FormatQuad(q Quad) string {
	var b strings.Builder
	for _, l := range q.Labels() {
		b.WriteString(l.Name)
		b.WriteString(": ")
	}
	b.WriteString(formatBody(q))
	return b.String()
}

func formatBody(q Quad) string {
	switch q := q.(type) {
	case *AssignQuad:
		return fmt.Sprintf("%s = %s", q.Dst, q.Src)
	case *UnaryQuad:
		return fmt.Sprintf("%s = %s %s", q.Dst, mnemonic(q.Op.String(), q.Src), q.Src)
	case *BinaryQuad:
		return fmt.Sprintf("%s = %s %s %s", q.Dst, mnemonic(q.Op.String(), q.Src1), q.Src1, q.Src2)
	case *IfzQuad:
		return fmt.Sprintf("IFZ %s GOTO %s", q.Cond, q.Target)
	case *GotoQuad:
		return fmt.Sprintf("GOTO %s", q.Target)
	case *NopQuad:
		return "NOP"
	case *CallQuad:
		return fmt.Sprintf("CALL %s", q.Callee.Name)
	case *SetArgQuad:
		return fmt.Sprintf("SETARG %d %s", q.Index, q.Src)
	case *GetArgQuad:
		return fmt.Sprintf("GETARG %d %s", q.Index, q.Dst)
	case *SetRetQuad:
		return fmt.Sprintf("SETRET %s", q.Src)
	case *GetRetQuad:
		return fmt.Sprintf("%s = GETRET", q.Dst)
	case *ReportQuad:
		return fmt.Sprintf("REPORT %s %s", q.Src, q.Type)
	case *ReceiveQuad:
		return fmt.Sprintf("RECEIVE %s %s", q.Dst, q.Type)
	case *AddrQuad:
		return fmt.Sprintf("%s = ADDR %s %s", q.Dst.Reg(), q.Base, q.Offset)
	default:
		return fmt.Sprintf("# unknown quad %T", q)
	}
}

// mnemonic suffixes an operator name with the width in bits of its first
// source operand.
func mnemonic(op string, src Operand) string {
	return op + strconv.FormatInt(src.Width()*8, 10)
}
