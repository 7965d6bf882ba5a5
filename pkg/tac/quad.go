package tac

import (
	"github.com/raymyers/ralph-tac/pkg/ast"
	"github.com/raymyers/ralph-tac/pkg/types"
)

// UnaryOp is a unary operator tag
type UnaryOp int

const (
	NEG UnaryOp = iota
	NOT
)

func (op UnaryOp) String() string {
	names := []string{"NEG", "NOT"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// BinaryOp is a binary operator tag
type BinaryOp int

const (
	ADD BinaryOp = iota
	SUB
	MULT
	DIV
	AND
	OR
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
)

func (op BinaryOp) String() string {
	names := []string{"ADD", "SUB", "MULT", "DIV", "AND", "OR", "EQ", "NEQ", "LT", "GT", "LTE", "GTE"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Label is a jump target scoped to one procedure. It may be created before
// the quad it marks exists and is anchored later.
type Label struct {
	Name   string
	owner  *Procedure
	anchor Quad
}

// Anchor returns the quad the label is attached to, or nil if it is still
// a forward reference.
func (l *Label) Anchor() Quad {
	return l.anchor
}

func (l *Label) String() string {
	return l.Name
}

// Quad is one three-address instruction
type Quad interface {
	Labels() []*Label
	addLabel(l *Label)
	implQuad()
}

// anchors holds the labels attached to a quad
type anchors struct {
	labels []*Label
}

func (a *anchors) Labels() []*Label  { return a.labels }
func (a *anchors) addLabel(l *Label) { a.labels = append(a.labels, l) }

// AssignQuad copies Src into Dst
type AssignQuad struct {
	anchors
	Dst Operand
	Src Operand
}

// UnaryQuad computes Dst = Op Src
type UnaryQuad struct {
	anchors
	Op  UnaryOp
	Dst Operand
	Src Operand
}

// BinaryQuad computes Dst = Src1 Op Src2
type BinaryQuad struct {
	anchors
	Op   BinaryOp
	Dst  Operand
	Src1 Operand
	Src2 Operand
}

// IfzQuad jumps to Target when Cond is zero
type IfzQuad struct {
	anchors
	Cond   Operand
	Target *Label
}

// GotoQuad jumps to Target unconditionally
type GotoQuad struct {
	anchors
	Target *Label
}

// NopQuad does nothing; it exists to carry labels
type NopQuad struct {
	anchors
}

// CallQuad transfers control to a procedure
type CallQuad struct {
	anchors
	Callee *ast.Symbol
}

// SetArgQuad passes Src as the argument at position Index
type SetArgQuad struct {
	anchors
	Index int
	Src   Operand
}

// GetArgQuad binds the incoming argument at position Index to Dst
type GetArgQuad struct {
	anchors
	Index int
	Dst   Operand
}

// SetRetQuad stores the procedure's return value
type SetRetQuad struct {
	anchors
	Src Operand
}

// GetRetQuad fetches the return value of the preceding call
type GetRetQuad struct {
	anchors
	Dst Operand
}

// ReportQuad writes Src to the runtime's output, formatted per Type
type ReportQuad struct {
	anchors
	Src  Operand
	Type types.Type
}

// ReceiveQuad reads a value of Type from the runtime's input into Dst
type ReceiveQuad struct {
	anchors
	Dst  Operand
	Type types.Type
}

// AddrQuad computes the address Base+Offset into Dst
type AddrQuad struct {
	anchors
	Dst    *AddrOperand
	Base   Operand
	Offset *Literal
}

// Marker methods for Quad interface
func (*AssignQuad) implQuad()  {}
func (*UnaryQuad) implQuad()   {}
func (*BinaryQuad) implQuad()  {}
func (*IfzQuad) implQuad()     {}
func (*GotoQuad) implQuad()    {}
func (*NopQuad) implQuad()     {}
func (*CallQuad) implQuad()    {}
func (*SetArgQuad) implQuad()  {}
func (*GetArgQuad) implQuad()  {}
func (*SetRetQuad) implQuad()  {}
func (*GetRetQuad) implQuad()  {}
func (*ReportQuad) implQuad()  {}
func (*ReceiveQuad) implQuad() {}
func (*AddrQuad) implQuad()    {}

// Kind returns a short lowercase name for the quad's variant
func Kind(q Quad) string {
	switch q.(type) {
	case *AssignQuad:
		return "assign"
	case *UnaryQuad:
		return "unop"
	case *BinaryQuad:
		return "binop"
	case *IfzQuad:
		return "ifz"
	case *GotoQuad:
		return "goto"
	case *NopQuad:
		return "nop"
	case *CallQuad:
		return "call"
	case *SetArgQuad:
		return "setarg"
	case *GetArgQuad:
		return "getarg"
	case *SetRetQuad:
		return "setret"
	case *GetRetQuad:
		return "getret"
	case *ReportQuad:
		return "report"
	case *ReceiveQuad:
		return "receive"
	case *AddrQuad:
		return "addr"
	}
	return "unknown"
}

// Target returns the label a jump quad transfers control to, or nil
func Target(q Quad) *Label {
	switch q := q.(type) {
	case *IfzQuad:
		return q.Target
	case *GotoQuad:
		return q.Target
	}
	return nil
}
