// Package tacgen lowers a resolved ast.Program to three-address code.
// Lowering is a single depth-first traversal: declarations at program scope,
// statements inside a procedure, and expressions evaluated left to right
// into operands.
package tacgen

import (
	"github.com/raymyers/ralph-tac/pkg/ast"
	"github.com/raymyers/ralph-tac/pkg/tac"
)

// TranslateUnaryOp maps a source unary operator to its quad operator
func TranslateUnaryOp(op ast.UnaryOp) (tac.UnaryOp, bool) {
	switch op {
	case ast.Oneg:
		return tac.NEG, true
	case ast.Onotbool:
		return tac.NOT, true
	}
	return 0, false
}

// TranslateBinaryOp maps a source binary operator to its quad operator
func TranslateBinaryOp(op ast.BinaryOp) (tac.BinaryOp, bool) {
	switch op {
	case ast.Oadd:
		return tac.ADD, true
	case ast.Osub:
		return tac.SUB, true
	case ast.Omul:
		return tac.MULT, true
	case ast.Odiv:
		return tac.DIV, true
	case ast.Oand:
		return tac.AND, true
	case ast.Oor:
		return tac.OR, true
	case ast.Oeq:
		return tac.EQ, true
	case ast.One:
		return tac.NEQ, true
	case ast.Olt:
		return tac.LT, true
	case ast.Ogt:
		return tac.GT, true
	case ast.Ole:
		return tac.LTE, true
	case ast.Oge:
		return tac.GTE, true
	}
	return 0, false
}
