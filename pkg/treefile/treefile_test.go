package treefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/ralph-tac/pkg/ast"
	"github.com/raymyers/ralph-tac/pkg/types"
)

const sample = `
records:
  - name: Point
    fields:
      - {name: x, type: int}
      - {name: ok, type: bool}
      - {name: y, type: int, offset: 16}
decls:
  - {kind: var, name: g, type: int}
  - kind: fn
    name: main
    type: int
    formals: [{name: a, type: int}]
    body:
      - {kind: var, name: p, type: Point}
      - kind: assign
        dst: {kind: field, name: p, field: y}
        src: {kind: call, name: helper, args: [{kind: id, name: a}]}
      - kind: if
        cond: {kind: binary, op: "<", left: {kind: id, name: a}, right: {kind: int, value: 0}}
        body:
          - {kind: return, expr: {kind: int, value: -1}}
        else:
          - {kind: report, expr: {kind: str, value: "non-negative"}}
      - kind: for
        init: {kind: var, name: i, type: int}
        cond: {kind: unary, op: "!", arg: {kind: bool, value: false}}
        step: {kind: inc, dst: {kind: id, name: g}}
        body: []
      - {kind: return, expr: {kind: call, name: main, args: [{kind: id, name: g}]}}
  - kind: fn
    name: helper
    type: int
    formals: [{name: a, type: int}]
    body:
      - {kind: return, expr: {kind: id, name: a}}
`

func TestLoad(t *testing.T) {
	prog, err := Load([]byte(sample))
	require.NoError(t, err)
	require.Len(t, prog.Decls, 4)

	rec := prog.Decls[0].(*ast.RecordDecl).Typ
	assert.Equal(t, "Point", rec.Name)
	for name, want := range map[string]int64{"x": 0, "ok": 8, "y": 16} {
		off, ok := rec.Offset(name)
		require.True(t, ok, name)
		assert.Equal(t, want, off, name)
	}

	g := prog.Decls[1].(*ast.VarDecl).Sym
	assert.Equal(t, ast.ScopeGlobal, g.Scope)

	main := prog.Decls[2].(*ast.FnDecl)
	helper := prog.Decls[3].(*ast.FnDecl)
	assert.True(t, types.Equal(types.Fn(types.Int(), types.Int()), main.Sym.Type))
	require.Len(t, main.Formals, 1)
	a := main.Formals[0].Sym
	assert.Equal(t, ast.ScopeFormal, a.Scope)

	p := main.Body[0].(*ast.VarDecl).Sym
	assert.Equal(t, ast.ScopeLocal, p.Scope)
	assert.Same(t, rec, p.Type)

	// forward call binds to the later declaration
	assign := main.Body[1].(*ast.AssignStmt).Assign
	call := assign.Src.(*ast.CallExpr)
	assert.Same(t, helper.Sym, call.Callee.Sym)
	assert.Same(t, a, call.Args[0].(*ast.Ident).Sym)
	field := assign.Dst.(*ast.FieldExpr)
	assert.Same(t, p, field.Base.Sym)
	assert.True(t, types.Equal(types.Int(), field.ExprType()))

	ifElse := main.Body[2].(*ast.IfElseStmt)
	assert.True(t, types.Equal(types.Bool(), ifElse.Cond.ExprType()))
	assert.Equal(t, int64(-1), ifElse.Then[0].(*ast.ReturnStmt).Value.(*ast.IntLit).Value)

	loop := main.Body[3].(*ast.ForStmt)
	require.IsType(t, &ast.VarDecl{}, loop.Init)
	require.IsType(t, &ast.PostIncStmt{}, loop.Step)
	assert.Same(t, g, loop.Step.(*ast.PostIncStmt).Target.(*ast.Ident).Sym)

	// recursive call
	ret := main.Body[4].(*ast.ReturnStmt).Value.(*ast.CallExpr)
	assert.Same(t, main.Sym, ret.Callee.Sym)

	// helper's formal is a distinct symbol with the same name
	assert.NotSame(t, a, helper.Formals[0].Sym)
}

func TestScopesEndWithBlocks(t *testing.T) {
	src := `
decls:
  - kind: fn
    name: main
    body:
      - kind: while
        cond: {kind: bool, value: true}
        body:
          - {kind: var, name: x, type: int}
      - {kind: assign, dst: {kind: id, name: x}, src: {kind: int, value: 1}}
`
	_, err := Load([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undeclared name "x"`)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad yaml", "decls: [", "decode tree"},
		{"unknown decl", "decls: [{kind: nope}]", `unknown kind "nope"`},
		{"unknown type", "decls: [{kind: var, name: v, type: widget}]", `unknown type "widget"`},
		{"void var", "decls: [{kind: var, name: v, type: void}]", "void variable"},
		{"redeclared", "decls: [{kind: var, name: v, type: int}, {kind: var, name: v, type: int}]", "v redeclared"},
		{"unknown stmt", "decls: [{kind: fn, name: f, body: [{kind: loop}]}]", `unknown statement kind "loop"`},
		{"nested fn", "decls: [{kind: fn, name: f, body: [{kind: fn, name: g}]}]", "nested fn g"},
		{"unknown op", "decls: [{kind: fn, name: f, body: [{kind: report, expr: {kind: binary, op: '%', left: {kind: int, value: 1}, right: {kind: int, value: 2}}}]}]", `unknown binary operator "%"`},
		{"bad int", "decls: [{kind: fn, name: f, body: [{kind: report, expr: {kind: int, value: abc}}]}]", "int literal"},
		{"arity", "decls: [{kind: fn, name: f, body: [{kind: call, name: f, args: [{kind: int, value: 1}]}]}]", "1 args, want 0"},
		{"not a record", "decls: [{kind: var, name: v, type: int}, {kind: fn, name: f, body: [{kind: report, expr: {kind: field, name: v, field: x}}]}]", "v is not a record"},
		{"assign to fn", "decls: [{kind: fn, name: f, body: [{kind: assign, dst: {kind: id, name: f}, src: {kind: int, value: 1}}]}]", "cannot assign to procedure f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
