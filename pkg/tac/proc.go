package tac

import (
	"fmt"

	"github.com/raymyers/ralph-tac/pkg/ast"
	"tlog.app/go/errors"
)

// Procedure holds the TAC for one function. Its operand tables memoize one
// SymOperand per symbol; temporaries, address operands and labels are
// numbered from per-procedure counters.
type Procedure struct {
	Name    string
	Formals []*SymOperand // positional
	Locals  []*SymOperand // declaration order
	Temps   []Operand     // *TmpOperand and *AddrOperand, allocation order
	Quads   []Quad

	prog      *Program
	symOpds   map[*ast.Symbol]*SymOperand
	names     map[string]bool
	nextTmp   int
	nextLabel int
	leave     *Label
}

// Program owns every procedure, global operand and pooled string of one
// compilation unit.
type Program struct {
	Globals []*SymOperand // declaration order
	Strings []*Literal    // first-occurrence order
	Procs   []*Procedure  // declaration order

	globals     map[*ast.Symbol]*SymOperand
	globalNames map[string]bool
	strings     map[string]*Literal
}

// NewProgram creates an empty program
func NewProgram() *Program {
	return &Program{
		globals:     make(map[*ast.Symbol]*SymOperand),
		globalNames: make(map[string]bool),
		strings:     make(map[string]*Literal),
	}
}

// MakeProc creates a procedure and registers it in program order
func (p *Program) MakeProc(name string) *Procedure {
	proc := &Procedure{
		Name:    name,
		prog:    p,
		symOpds: make(map[*ast.Symbol]*SymOperand),
		names:   make(map[string]bool),
	}
	proc.leave = &Label{Name: "leave_" + name, owner: proc}
	p.Procs = append(p.Procs, proc)
	return proc
}

// GatherGlobal registers a global symbol, allocating its operand on first
// registration. Repeat registration returns the existing operand.
func (p *Program) GatherGlobal(sym *ast.Symbol, width int64) *SymOperand {
	if opd, ok := p.globals[sym]; ok {
		return opd
	}
	opd := NewSymOperand(sym, width)
	p.globals[sym] = opd
	p.globalNames[sym.Name] = true
	p.Globals = append(p.Globals, opd)
	return opd
}

// Global returns the operand of a registered global symbol
func (p *Program) Global(sym *ast.Symbol) (*SymOperand, bool) {
	opd, ok := p.globals[sym]
	return opd, ok
}

// MakeString returns the pooled operand for a string constant, interning
// it on first occurrence.
func (p *Program) MakeString(content string) *Literal {
	if lit, ok := p.strings[content]; ok {
		return lit
	}
	lit := &Literal{
		Kind:    LitString,
		Text:    fmt.Sprintf("str_%d", len(p.Strings)),
		Content: content,
		width:   8,
	}
	p.strings[content] = lit
	p.Strings = append(p.Strings, lit)
	return lit
}

// Proc returns the procedure with the given name
func (p *Program) Proc(name string) (*Procedure, bool) {
	for _, proc := range p.Procs {
		if proc.Name == name {
			return proc, true
		}
	}
	return nil, false
}

// Prog returns the program that owns the procedure
func (proc *Procedure) Prog() *Program {
	return proc.prog
}

// LeaveLabel returns the label every return path jumps to
func (proc *Procedure) LeaveLabel() *Label {
	return proc.leave
}

// GatherLocal registers a local symbol; repeat registration returns the
// existing operand.
func (proc *Procedure) GatherLocal(sym *ast.Symbol, width int64) *SymOperand {
	if opd, ok := proc.symOpds[sym]; ok {
		return opd
	}
	opd := proc.newSymOperand(sym, width)
	proc.Locals = append(proc.Locals, opd)
	return opd
}

// GatherFormal registers a formal symbol at the next position; repeat
// registration returns the existing operand.
func (proc *Procedure) GatherFormal(sym *ast.Symbol, width int64) *SymOperand {
	if opd, ok := proc.symOpds[sym]; ok {
		return opd
	}
	opd := proc.newSymOperand(sym, width)
	proc.Formals = append(proc.Formals, opd)
	return opd
}

// newSymOperand allocates the operand of a procedure-scope symbol. A name
// already printed for another local, formal or global gets the first free
// .N suffix.
func (proc *Procedure) newSymOperand(sym *ast.Symbol, width int64) *SymOperand {
	opd := NewSymOperand(sym, width)
	for n := 1; proc.names[opd.name] || proc.prog.globalNames[opd.name]; n++ {
		opd.name = fmt.Sprintf("%s.%d", sym.Name, n)
	}
	proc.names[opd.name] = true
	proc.symOpds[sym] = opd
	return opd
}

// FormalIndex returns the position of a formal operand
func (proc *Procedure) FormalIndex(opd *SymOperand) (int, bool) {
	for i, f := range proc.Formals {
		if f == opd {
			return i, true
		}
	}
	return 0, false
}

// SymOperand returns the memoized operand for sym, looking in the
// procedure's locals and formals before the program's globals.
func (proc *Procedure) SymOperand(sym *ast.Symbol) (*SymOperand, bool) {
	if opd, ok := proc.symOpds[sym]; ok {
		return opd, true
	}
	return proc.prog.Global(sym)
}

// MakeTmp returns a fresh temporary
func (proc *Procedure) MakeTmp(width int64) *TmpOperand {
	t := &TmpOperand{ID: proc.nextTmp, width: width}
	proc.nextTmp++
	proc.Temps = append(proc.Temps, t)
	return t
}

// MakeAddr returns a fresh address operand numbered with the temporaries
func (proc *Procedure) MakeAddr(width int64) *AddrOperand {
	a := &AddrOperand{ID: proc.nextTmp, width: width}
	proc.nextTmp++
	proc.Temps = append(proc.Temps, a)
	return a
}

// MakeLabel returns a fresh label that is not yet anchored
func (proc *Procedure) MakeLabel() *Label {
	l := &Label{Name: fmt.Sprintf("L%d", proc.nextLabel), owner: proc}
	proc.nextLabel++
	return l
}

// AddQuad appends a quad
func (proc *Procedure) AddQuad(q Quad) {
	proc.Quads = append(proc.Quads, q)
}

// Anchor appends a NOP carrying l, so that distinct jump targets never
// collapse onto one real instruction.
func (proc *Procedure) Anchor(l *Label) (*NopQuad, error) {
	nop := &NopQuad{}
	if err := proc.attach(l, nop); err != nil {
		return nil, err
	}
	proc.AddQuad(nop)
	return nop, nil
}

func (proc *Procedure) attach(l *Label, q Quad) error {
	if l.owner != proc {
		return errors.New("label %v does not belong to %v", l, proc.Name)
	}
	if l.anchor != nil {
		return errors.New("label %v anchored twice in %v", l, proc.Name)
	}
	l.anchor = q
	q.addLabel(l)
	return nil
}

// Verify checks that every jump targets a label of this procedure that is
// anchored to exactly one quad of this procedure.
func (proc *Procedure) Verify() error {
	anchored := make(map[*Label]int)
	for _, q := range proc.Quads {
		for _, l := range q.Labels() {
			anchored[l]++
		}
	}
	for l, n := range anchored {
		if n > 1 {
			return errors.New("%v: label %v anchored %d times", proc.Name, l, n)
		}
	}

	for i, q := range proc.Quads {
		l := Target(q)
		if l == nil {
			continue
		}
		if l.owner != proc {
			return errors.New("%v: quad %d jumps to foreign label %v", proc.Name, i, l)
		}
		if anchored[l] != 1 {
			return errors.New("%v: quad %d jumps to unanchored label %v", proc.Name, i, l)
		}
	}
	return nil
}

// ReferencedLabels returns the distinct jump targets in quad order
func (proc *Procedure) ReferencedLabels() []*Label {
	seen := make(map[*Label]bool)
	var labels []*Label
	for _, q := range proc.Quads {
		if l := Target(q); l != nil && !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	return labels
}
