package tac

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/ralph-tac/pkg/ast"
	"github.com/raymyers/ralph-tac/pkg/types"
)

func sym(name string, scope ast.Scope) *ast.Symbol {
	return &ast.Symbol{Name: name, Type: types.Int(), Scope: scope}
}

func TestOperandStrings(t *testing.T) {
	prog := NewProgram()
	proc := prog.MakeProc("main")

	tests := []struct {
		name  string
		opd   Operand
		want  string
		width int64
	}{
		{"symbol", NewSymOperand(sym("x", ast.ScopeLocal), 8), "x", 8},
		{"temp", proc.MakeTmp(8), "t0", 8},
		{"addr shares temp counter", proc.MakeAddr(8), "[t1]", 8},
		{"int literal", IntLit(-3, 8), "-3", 8},
		{"true", BoolLit(true, 1), "1", 1},
		{"false", BoolLit(false, 1), "0", 1},
		{"pooled string", prog.MakeString("hi"), "str_0", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opd.String())
			assert.Equal(t, tt.width, tt.opd.Width())
		})
	}
}

func TestGatherIsIdempotent(t *testing.T) {
	prog := NewProgram()
	g := sym("g", ast.ScopeGlobal)
	first := prog.GatherGlobal(g, 8)
	require.Same(t, first, prog.GatherGlobal(g, 8))
	require.Len(t, prog.Globals, 1)

	proc := prog.MakeProc("f")
	a := sym("a", ast.ScopeFormal)
	x := sym("x", ast.ScopeLocal)
	fa := proc.GatherFormal(a, 8)
	lx := proc.GatherLocal(x, 8)
	require.Same(t, fa, proc.GatherFormal(a, 8))
	require.Same(t, lx, proc.GatherLocal(x, 8))
	require.Len(t, proc.Formals, 1)
	require.Len(t, proc.Locals, 1)

	idx, ok := proc.FormalIndex(fa)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestSymOperandLookup(t *testing.T) {
	prog := NewProgram()
	g := sym("g", ast.ScopeGlobal)
	x := sym("x", ast.ScopeLocal)
	unknown := sym("u", ast.ScopeLocal)
	gOpd := prog.GatherGlobal(g, 8)

	f := prog.MakeProc("f")
	xOpd := f.GatherLocal(x, 8)

	got, ok := f.SymOperand(x)
	require.True(t, ok)
	assert.Same(t, xOpd, got)

	got, ok = f.SymOperand(g)
	require.True(t, ok)
	assert.Same(t, gOpd, got)

	_, ok = f.SymOperand(unknown)
	assert.False(t, ok)

	// locals of one procedure are invisible to another
	h := prog.MakeProc("h")
	_, ok = h.SymOperand(x)
	assert.False(t, ok)
}

func TestShadowedNamesPrintDistinct(t *testing.T) {
	prog := NewProgram()
	g := prog.GatherGlobal(sym("x", ast.ScopeGlobal), 8)

	f := prog.MakeProc("f")
	a := f.GatherFormal(sym("x", ast.ScopeFormal), 8)
	inner := f.GatherLocal(sym("x", ast.ScopeLocal), 8)
	y := f.GatherLocal(sym("y", ast.ScopeLocal), 8)

	assert.Equal(t, "x", g.String())
	assert.Equal(t, "x.1", a.String())
	assert.Equal(t, "x.2", inner.String())
	assert.Equal(t, "y", y.String())

	// numbering restarts per procedure
	h := prog.MakeProc("h")
	assert.Equal(t, "y", h.GatherLocal(sym("y", ast.ScopeLocal), 8).String())
	assert.Equal(t, "x.1", h.GatherLocal(sym("x", ast.ScopeLocal), 8).String())
}

func TestMakeStringInterns(t *testing.T) {
	prog := NewProgram()
	a := prog.MakeString("hello")
	b := prog.MakeString("world")
	c := prog.MakeString("hello")

	assert.Same(t, a, c)
	assert.NotSame(t, a, b)
	assert.Equal(t, "str_1", b.String())
	assert.Equal(t, LitString, a.Kind)
	assert.Equal(t, "hello", a.Content)
	assert.Len(t, prog.Strings, 2)
}

func TestLabelsAreProcedureScoped(t *testing.T) {
	prog := NewProgram()
	f := prog.MakeProc("f")
	g := prog.MakeProc("g")

	assert.Equal(t, "L0", f.MakeLabel().Name)
	assert.Equal(t, "L1", f.MakeLabel().Name)
	assert.Equal(t, "L0", g.MakeLabel().Name)
	assert.Equal(t, "leave_f", f.LeaveLabel().Name)

	lbl := g.MakeLabel()
	_, err := f.Anchor(lbl)
	require.Error(t, err)
	assert.Nil(t, lbl.Anchor())
}

func TestAnchorTwice(t *testing.T) {
	proc := NewProgram().MakeProc("f")
	l := proc.MakeLabel()

	nop, err := proc.Anchor(l)
	require.NoError(t, err)
	assert.Same(t, Quad(nop), l.Anchor())

	_, err = proc.Anchor(l)
	require.Error(t, err)
	assert.Len(t, proc.Quads, 1)
}

func TestVerify(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		proc := NewProgram().MakeProc("f")
		l := proc.MakeLabel()
		proc.AddQuad(&IfzQuad{Cond: BoolLit(true, 1), Target: l})
		proc.AddQuad(&GotoQuad{Target: proc.LeaveLabel()})
		_, err := proc.Anchor(l)
		require.NoError(t, err)
		_, err = proc.Anchor(proc.LeaveLabel())
		require.NoError(t, err)

		require.NoError(t, proc.Verify())
		assert.Equal(t, []*Label{l, proc.LeaveLabel()}, proc.ReferencedLabels())
	})

	t.Run("unanchored", func(t *testing.T) {
		proc := NewProgram().MakeProc("f")
		proc.AddQuad(&GotoQuad{Target: proc.MakeLabel()})
		err := proc.Verify()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unanchored label L0")
	})

	t.Run("foreign", func(t *testing.T) {
		prog := NewProgram()
		f := prog.MakeProc("f")
		g := prog.MakeProc("g")
		f.AddQuad(&GotoQuad{Target: g.LeaveLabel()})
		err := f.Verify()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "foreign label leave_g")
	})
}

func TestFormatQuad(t *testing.T) {
	prog := NewProgram()
	proc := prog.MakeProc("main")
	x := NewSymOperand(sym("x", ast.ScopeLocal), 8)
	b := NewSymOperand(&ast.Symbol{Name: "b", Type: types.Bool()}, 1)
	t0 := proc.MakeTmp(8)
	t1 := proc.MakeTmp(1)
	addr := proc.MakeAddr(8)
	l0 := proc.MakeLabel()
	callee := &ast.Symbol{Name: "foo", Type: types.Fn(types.Int())}

	tests := []struct {
		quad Quad
		want string
	}{
		{&AssignQuad{Dst: x, Src: t0}, "x = t0"},
		{&UnaryQuad{Op: NEG, Dst: t0, Src: x}, "t0 = NEG64 x"},
		{&UnaryQuad{Op: NOT, Dst: t1, Src: b}, "t1 = NOT8 b"},
		{&BinaryQuad{Op: ADD, Dst: t0, Src1: IntLit(1, 8), Src2: IntLit(2, 8)}, "t0 = ADD64 1 2"},
		{&BinaryQuad{Op: LTE, Dst: t1, Src1: x, Src2: t0}, "t1 = LTE64 x t0"},
		{&IfzQuad{Cond: t1, Target: l0}, "IFZ t1 GOTO L0"},
		{&GotoQuad{Target: proc.LeaveLabel()}, "GOTO leave_main"},
		{&NopQuad{}, "NOP"},
		{&CallQuad{Callee: callee}, "CALL foo"},
		{&SetArgQuad{Index: 0, Src: x}, "SETARG 0 x"},
		{&GetArgQuad{Index: 1, Dst: x}, "GETARG 1 x"},
		{&SetRetQuad{Src: t0}, "SETRET t0"},
		{&GetRetQuad{Dst: t0}, "t0 = GETRET"},
		{&ReportQuad{Src: prog.MakeString("s"), Type: types.String()}, "REPORT str_0 string"},
		{&ReceiveQuad{Dst: x, Type: types.Int()}, "RECEIVE x int"},
		{&AddrQuad{Dst: addr, Base: x, Offset: IntLit(8, 8)}, "t2 = ADDR x 8"},
		{&AssignQuad{Dst: addr, Src: IntLit(5, 8)}, "[t2] = 5"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatQuad(tt.quad))
		})
	}
}

func TestFormatLabelledQuad(t *testing.T) {
	proc := NewProgram().MakeProc("main")
	l0 := proc.MakeLabel()
	_, err := proc.Anchor(l0)
	require.NoError(t, err)
	assert.Equal(t, []string{"L0: NOP"}, Lines(proc))
}

func TestPrintProgram(t *testing.T) {
	prog := NewProgram()
	prog.GatherGlobal(sym("g", ast.ScopeGlobal), 8)
	prog.MakeString("a\"b")

	proc := prog.MakeProc("main")
	a := proc.GatherFormal(sym("a", ast.ScopeFormal), 8)
	proc.AddQuad(&GetArgQuad{Index: 0, Dst: a})
	proc.AddQuad(&GotoQuad{Target: proc.LeaveLabel()})
	_, err := proc.Anchor(proc.LeaveLabel())
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(prog)
	output := buf.String()

	for _, want := range []string{
		"var g[8]",
		`str_0 = "a\"b"`,
		"main(a) {",
		"  GETARG 0 a",
		"  GOTO leave_main",
		"  leave_main: NOP",
		"}",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "binop", Kind(&BinaryQuad{}))
	assert.Equal(t, "nop", Kind(&NopQuad{}))
	assert.Equal(t, "addr", Kind(&AddrQuad{}))
	assert.Nil(t, Target(&NopQuad{}))
}
