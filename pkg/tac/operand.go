// Package tac defines the three-address code IR produced by lowering.
// A Program holds globals, a string pool and an ordered list of procedures;
// each Procedure holds a flat, append-only list of quads whose control flow
// is expressed with procedure-scoped labels.
package tac

import (
	"fmt"
	"strconv"

	"github.com/raymyers/ralph-tac/pkg/ast"
)

// Operand is a storage location or constant referenced by a quad.
// Operands are handled by pointer: two references denote the same storage
// exactly when they are the same pointer.
type Operand interface {
	Width() int64
	String() string
	implOperand()
}

// SymOperand backs one declared variable (global, local or formal).
// Its printed name is the symbol's name, suffixed with .N when a
// procedure-scope symbol would otherwise print like another one.
type SymOperand struct {
	Sym   *ast.Symbol
	name  string
	width int64
}

// TmpOperand is a compiler-introduced value numbered per procedure
type TmpOperand struct {
	ID    int
	width int64
}

// LitKind says what kind of constant a Literal holds
type LitKind int

const (
	LitInt LitKind = iota
	LitBool
	LitString
)

// Literal is an immediate constant. String literals are pooled by the
// Program and refer to their content through a generated name.
type Literal struct {
	Kind    LitKind
	Text    string // decimal text for ints, "1"/"0" for bools, pool name for strings
	Content string // string content; empty for other kinds
	width   int64
}

// AddrOperand is an address produced by an AddrQuad. Used as a source or
// destination it denotes the memory at that address.
type AddrOperand struct {
	ID    int
	width int64
}

func (*SymOperand) implOperand()  {}
func (*TmpOperand) implOperand()  {}
func (*Literal) implOperand()     {}
func (*AddrOperand) implOperand() {}

func (o *SymOperand) Width() int64  { return o.width }
func (o *TmpOperand) Width() int64  { return o.width }
func (o *Literal) Width() int64     { return o.width }
func (o *AddrOperand) Width() int64 { return o.width }

func (o *SymOperand) String() string  { return o.name }
func (o *TmpOperand) String() string  { return fmt.Sprintf("t%d", o.ID) }
func (o *Literal) String() string     { return o.Text }
func (o *AddrOperand) String() string { return fmt.Sprintf("[t%d]", o.ID) }

// Reg returns the name of the temporary that holds the address itself
func (o *AddrOperand) Reg() string { return fmt.Sprintf("t%d", o.ID) }

// NewSymOperand creates the backing operand for a symbol
func NewSymOperand(sym *ast.Symbol, width int64) *SymOperand {
	return &SymOperand{Sym: sym, name: sym.Name, width: width}
}

// IntLit returns an integer literal operand
func IntLit(v int64, width int64) *Literal {
	return &Literal{Kind: LitInt, Text: strconv.FormatInt(v, 10), width: width}
}

// BoolLit returns a boolean literal operand; true is 1 and false is 0
func BoolLit(v bool, width int64) *Literal {
	text := "0"
	if v {
		text = "1"
	}
	return &Literal{Kind: LitBool, Text: text, width: width}
}
