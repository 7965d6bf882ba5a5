// Package ast defines the resolved syntax tree consumed by TAC lowering.
// Every expression carries its static type and every identifier carries the
// symbol it was resolved to, so lowering never performs name or type analysis.
//
// Program-scope declarations (Decl) and procedure-scope statements (Stmt) are
// separate sealed interfaces: a function can only appear at program scope and
// a formal only inside a function, so neither can be misplaced in a tree.
package ast

import "github.com/raymyers/ralph-tac/pkg/types"

// Scope says where a symbol was declared
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeLocal
	ScopeFormal
)

func (s Scope) String() string {
	names := []string{"global", "local", "formal"}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// Symbol is the resolved handle for a declared name. Symbols are compared
// by pointer; two declarations with the same name are distinct symbols.
type Symbol struct {
	Name  string
	Type  types.Type
	Scope Scope
}

// Node is the base interface for all tree nodes
type Node interface {
	implNode()
}

// Decl is a declaration at program scope
type Decl interface {
	Node
	implDecl()
}

// Stmt is a statement inside a procedure body
type Stmt interface {
	Node
	implStmt()
}

// Expr is an expression with a resolved static type
type Expr interface {
	Node
	implExpr()
	ExprType() types.Type
}

// LValue is an expression that denotes a storage location
type LValue interface {
	Expr
	implLValue()
}

// UnaryOp represents unary operators
type UnaryOp int

const (
	Oneg     UnaryOp = iota // integer negation (-)
	Onotbool                // boolean negation (!)
)

func (op UnaryOp) String() string {
	names := []string{"-", "!"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// BinaryOp represents binary operators
type BinaryOp int

const (
	// Arithmetic
	Oadd BinaryOp = iota
	Osub
	Omul
	Odiv

	// Logical
	Oand
	Oor

	// Comparison
	Oeq
	One
	Olt
	Ogt
	Ole
	Oge
)

func (op BinaryOp) String() string {
	names := []string{"+", "-", "*", "/", "&&", "||", "==", "!=", "<", ">", "<=", ">="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// IsComparison reports whether the operator yields a boolean from two operands
func (op BinaryOp) IsComparison() bool {
	return op >= Oeq && op <= Oge
}

// IsLogical reports whether the operator combines two booleans
func (op BinaryOp) IsLogical() bool {
	return op == Oand || op == Oor
}

// --- Expressions ---

// IntLit is an integer literal
type IntLit struct {
	Value int64
}

// BoolLit is a boolean literal
type BoolLit struct {
	Value bool
}

// StrLit is a string literal
type StrLit struct {
	Value string
}

// Ident is a reference to a declared symbol
type Ident struct {
	Sym *Symbol
}

// UnaryExpr applies a unary operator
type UnaryExpr struct {
	Op  UnaryOp
	Arg Expr
	Typ types.Type
}

// BinaryExpr applies a binary operator
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Typ   types.Type
}

// AssignExpr stores Src into Dst and yields Dst
type AssignExpr struct {
	Dst LValue
	Src Expr
}

// CallExpr calls a procedure by name
type CallExpr struct {
	Callee *Ident
	Args   []Expr
}

// FieldExpr selects a field of a record-typed variable
type FieldExpr struct {
	Base  *Ident
	Field string
	Typ   types.Type
}

func (*IntLit) implNode()     {}
func (*BoolLit) implNode()    {}
func (*StrLit) implNode()     {}
func (*Ident) implNode()      {}
func (*UnaryExpr) implNode()  {}
func (*BinaryExpr) implNode() {}
func (*AssignExpr) implNode() {}
func (*CallExpr) implNode()   {}
func (*FieldExpr) implNode()  {}

func (*IntLit) implExpr()     {}
func (*BoolLit) implExpr()    {}
func (*StrLit) implExpr()     {}
func (*Ident) implExpr()      {}
func (*UnaryExpr) implExpr()  {}
func (*BinaryExpr) implExpr() {}
func (*AssignExpr) implExpr() {}
func (*CallExpr) implExpr()   {}
func (*FieldExpr) implExpr()  {}

func (*Ident) implLValue()     {}
func (*FieldExpr) implLValue() {}

func (*IntLit) ExprType() types.Type  { return types.Int() }
func (*BoolLit) ExprType() types.Type { return types.Bool() }
func (*StrLit) ExprType() types.Type  { return types.String() }

func (e *Ident) ExprType() types.Type {
	if e.Sym == nil {
		return nil
	}
	return e.Sym.Type
}

func (e *UnaryExpr) ExprType() types.Type  { return e.Typ }
func (e *BinaryExpr) ExprType() types.Type { return e.Typ }
func (e *AssignExpr) ExprType() types.Type { return e.Dst.ExprType() }
func (e *FieldExpr) ExprType() types.Type  { return e.Typ }

func (e *CallExpr) ExprType() types.Type {
	return types.ReturnType(e.Callee.ExprType())
}

// --- Statements and declarations ---

// VarDecl declares a variable, globally or inside a procedure
type VarDecl struct {
	Sym *Symbol
}

// RecordDecl declares a record type; its layout is already in Typ
type RecordDecl struct {
	Typ *types.Trecord
}

// FormalDecl declares one positional parameter of a procedure
type FormalDecl struct {
	Sym *Symbol
}

// FnDecl declares a procedure
type FnDecl struct {
	Sym     *Symbol // Sym.Type is a types.Tfn
	Formals []*FormalDecl
	Body    []Stmt
}

// AssignStmt evaluates an assignment for its effect
type AssignStmt struct {
	Assign *AssignExpr
}

// PostIncStmt is x++
type PostIncStmt struct {
	Target LValue
}

// PostDecStmt is x--
type PostDecStmt struct {
	Target LValue
}

// IfStmt is if (Cond) { Body }
type IfStmt struct {
	Cond Expr
	Body []Stmt
}

// IfElseStmt is if (Cond) { Then } else { Else }
type IfElseStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// WhileStmt is while (Cond) { Body }
type WhileStmt struct {
	Cond Expr
	Body []Stmt
}

// ForStmt is for (Init; Cond; Step) { Body }. Any of Init, Cond and Step
// may be nil; a nil Cond loops forever.
type ForStmt struct {
	Init Stmt
	Cond Expr
	Step Stmt
	Body []Stmt
}

// ReturnStmt returns from the enclosing procedure; Value is nil for void
type ReturnStmt struct {
	Value Expr
}

// CallStmt calls a procedure and discards any result
type CallStmt struct {
	Call *CallExpr
}

// ReportStmt writes a value to the runtime's output
type ReportStmt struct {
	Value Expr
}

// ReceiveStmt reads a value from the runtime's input into Target
type ReceiveStmt struct {
	Target LValue
}

func (*VarDecl) implNode()     {}
func (*RecordDecl) implNode()  {}
func (*FormalDecl) implNode()  {}
func (*FnDecl) implNode()      {}
func (*AssignStmt) implNode()  {}
func (*PostIncStmt) implNode() {}
func (*PostDecStmt) implNode() {}
func (*IfStmt) implNode()      {}
func (*IfElseStmt) implNode()  {}
func (*WhileStmt) implNode()   {}
func (*ForStmt) implNode()     {}
func (*ReturnStmt) implNode()  {}
func (*CallStmt) implNode()    {}
func (*ReportStmt) implNode()  {}
func (*ReceiveStmt) implNode() {}

func (*VarDecl) implDecl()    {}
func (*RecordDecl) implDecl() {}
func (*FnDecl) implDecl()     {}

func (*VarDecl) implStmt()     {}
func (*RecordDecl) implStmt()  {}
func (*AssignStmt) implStmt()  {}
func (*PostIncStmt) implStmt() {}
func (*PostDecStmt) implStmt() {}
func (*IfStmt) implStmt()      {}
func (*IfElseStmt) implStmt()  {}
func (*WhileStmt) implStmt()   {}
func (*ForStmt) implStmt()     {}
func (*ReturnStmt) implStmt()  {}
func (*CallStmt) implStmt()    {}
func (*ReportStmt) implStmt()  {}
func (*ReceiveStmt) implStmt() {}

// Program is a resolved compilation unit
type Program struct {
	Decls []Decl
}

// Name returns the procedure's name
func (fn *FnDecl) Name() string {
	return fn.Sym.Name
}

// ReturnType returns the procedure's declared result type
func (fn *FnDecl) ReturnType() types.Type {
	return types.ReturnType(fn.Sym.Type)
}

// Convenience constructors used by tests and the tree loader

// Id returns an identifier expression for sym
func Id(sym *Symbol) *Ident {
	return &Ident{Sym: sym}
}

// Int returns an integer literal
func Int(v int64) *IntLit {
	return &IntLit{Value: v}
}

// Bin builds a binary expression, deriving its type from the operator
func Bin(op BinaryOp, left, right Expr) *BinaryExpr {
	typ := types.Int()
	if op.IsComparison() || op.IsLogical() {
		typ = types.Bool()
	}
	return &BinaryExpr{Op: op, Left: left, Right: right, Typ: typ}
}

// Un builds a unary expression, deriving its type from the operator
func Un(op UnaryOp, arg Expr) *UnaryExpr {
	typ := types.Int()
	if op == Onotbool {
		typ = types.Bool()
	}
	return &UnaryExpr{Op: op, Arg: arg, Typ: typ}
}

// Assign builds an assignment expression
func Assign(dst LValue, src Expr) *AssignExpr {
	return &AssignExpr{Dst: dst, Src: src}
}

// Call builds a call expression
func Call(callee *Symbol, args ...Expr) *CallExpr {
	return &CallExpr{Callee: Id(callee), Args: args}
}
