package treefile

import (
	"strconv"

	"tlog.app/go/errors"

	"github.com/raymyers/ralph-tac/pkg/ast"
	"github.com/raymyers/ralph-tac/pkg/types"
)

var (
	unaryOps  = map[string]ast.UnaryOp{}
	binaryOps = map[string]ast.BinaryOp{}
)

func init() {
	for _, op := range []ast.UnaryOp{ast.Oneg, ast.Onotbool} {
		unaryOps[op.String()] = op
	}
	for op := ast.Oadd; op <= ast.Oge; op++ {
		binaryOps[op.String()] = op
	}
}

// scope is one level of name bindings
type scope struct {
	parent  *scope
	syms    map[string]*ast.Symbol
	records map[string]*types.Trecord
}

func newScope(parent *scope) *scope {
	return &scope{
		parent:  parent,
		syms:    make(map[string]*ast.Symbol),
		records: make(map[string]*types.Trecord),
	}
}

func (s *scope) lookup(name string) (*ast.Symbol, bool) {
	for ; s != nil; s = s.parent {
		if sym, ok := s.syms[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (s *scope) record(name string) (*types.Trecord, bool) {
	for ; s != nil; s = s.parent {
		if r, ok := s.records[name]; ok {
			return r, true
		}
	}
	return nil, false
}

// resolver binds names to symbols while building the ast
type resolver struct {
	sc *scope
}

// Resolve builds a resolved program from a decoded tree file
func Resolve(f *File) (*ast.Program, error) {
	r := &resolver{sc: newScope(nil)}
	prog := &ast.Program{}

	for _, rec := range f.Records {
		t, err := r.declareRecord(rec.Name, rec.Fields, rec.Size)
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, &ast.RecordDecl{Typ: t})
	}

	// functions are visible from every body, including their own
	fns := make(map[int]*ast.Symbol)
	for i, d := range f.Decls {
		if d.Kind != "fn" {
			continue
		}
		sym, err := r.fnSymbol(&d)
		if err != nil {
			return nil, errors.Wrap(err, "fn %v", d.Name)
		}
		fns[i] = sym
	}

	for i := range f.Decls {
		d := &f.Decls[i]
		switch d.Kind {
		case "var":
			sym, err := r.declareVar(d, ast.ScopeGlobal)
			if err != nil {
				return nil, err
			}
			prog.Decls = append(prog.Decls, &ast.VarDecl{Sym: sym})
		case "record":
			t, err := r.declareRecord(d.Name, d.Fields, d.Size)
			if err != nil {
				return nil, err
			}
			prog.Decls = append(prog.Decls, &ast.RecordDecl{Typ: t})
		case "fn":
			fn, err := r.function(d, fns[i])
			if err != nil {
				return nil, errors.Wrap(err, "fn %v", d.Name)
			}
			prog.Decls = append(prog.Decls, fn)
		default:
			return nil, errors.New("decl %d: unknown kind %q", i, d.Kind)
		}
	}
	return prog, nil
}

func (r *resolver) push() { r.sc = newScope(r.sc) }
func (r *resolver) pop()  { r.sc = r.sc.parent }

func (r *resolver) typeByName(name string) (types.Type, error) {
	if t, ok := types.FromName(name); ok {
		return t, nil
	}
	if t, ok := r.sc.record(name); ok {
		return t, nil
	}
	return nil, errors.New("unknown type %q", name)
}

func (r *resolver) declareRecord(name string, fields []Field, size int64) (*types.Trecord, error) {
	if name == "" {
		return nil, errors.New("record without name")
	}
	if _, dup := r.sc.records[name]; dup {
		return nil, errors.New("record %v redeclared", name)
	}
	t := &types.Trecord{Name: name, Size: size}
	var next int64
	for _, f := range fields {
		ft, err := r.typeByName(f.Type)
		if err != nil {
			return nil, errors.Wrap(err, "record %v field %v", name, f.Name)
		}
		if _, dup := t.Field(f.Name); dup {
			return nil, errors.New("record %v: duplicate field %v", name, f.Name)
		}
		off := next
		if f.Offset != nil {
			off = *f.Offset
		}
		t.Fields = append(t.Fields, types.Field{Name: f.Name, Type: ft, Offset: off})
		next = off + types.Width(ft)
	}
	r.sc.records[name] = t
	return t, nil
}

func (r *resolver) declareVar(n *Node, sc ast.Scope) (*ast.Symbol, error) {
	if n.Name == "" {
		return nil, errors.New("%v without name", n.Kind)
	}
	t, err := r.typeByName(n.Type)
	if err != nil {
		return nil, errors.Wrap(err, "%v %v", n.Kind, n.Name)
	}
	if types.IsVoid(t) {
		return nil, errors.New("%v %v: void variable", n.Kind, n.Name)
	}
	if _, dup := r.sc.syms[n.Name]; dup {
		return nil, errors.New("%v redeclared", n.Name)
	}
	sym := &ast.Symbol{Name: n.Name, Type: t, Scope: sc}
	r.sc.syms[n.Name] = sym
	return sym, nil
}

func (r *resolver) fnSymbol(n *Node) (*ast.Symbol, error) {
	if n.Name == "" {
		return nil, errors.New("fn without name")
	}
	if _, dup := r.sc.syms[n.Name]; dup {
		return nil, errors.New("%v redeclared", n.Name)
	}
	ret, err := r.typeByName(n.Type)
	if err != nil {
		return nil, err
	}
	params := make([]types.Type, len(n.Formals))
	for i, f := range n.Formals {
		if params[i], err = r.typeByName(f.Type); err != nil {
			return nil, errors.Wrap(err, "formal %v", f.Name)
		}
	}
	sym := &ast.Symbol{Name: n.Name, Type: types.Fn(ret, params...), Scope: ast.ScopeGlobal}
	r.sc.syms[n.Name] = sym
	return sym, nil
}

func (r *resolver) function(n *Node, sym *ast.Symbol) (*ast.FnDecl, error) {
	r.push()
	defer r.pop()

	fn := &ast.FnDecl{Sym: sym}
	for i := range n.Formals {
		f := &n.Formals[i]
		fs, err := r.declareVar(f, ast.ScopeFormal)
		if err != nil {
			return nil, err
		}
		fn.Formals = append(fn.Formals, &ast.FormalDecl{Sym: fs})
	}

	body, err := r.stmts(n.Body)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (r *resolver) block(nodes []Node) ([]ast.Stmt, error) {
	r.push()
	defer r.pop()
	return r.stmts(nodes)
}

func (r *resolver) stmts(nodes []Node) ([]ast.Stmt, error) {
	var out []ast.Stmt
	for i := range nodes {
		s, err := r.stmt(&nodes[i])
		if err != nil {
			return nil, errors.Wrap(err, "stmt %d", i)
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *resolver) stmt(n *Node) (ast.Stmt, error) {
	switch n.Kind {
	case "var":
		sym, err := r.declareVar(n, ast.ScopeLocal)
		if err != nil {
			return nil, err
		}
		return &ast.VarDecl{Sym: sym}, nil

	case "record":
		t, err := r.declareRecord(n.Name, n.Fields, n.Size)
		if err != nil {
			return nil, err
		}
		return &ast.RecordDecl{Typ: t}, nil

	case "assign":
		a, err := r.assign(n)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Assign: a}, nil

	case "inc", "dec":
		dst, err := r.lvalue(n.Dst)
		if err != nil {
			return nil, errors.Wrap(err, "%v", n.Kind)
		}
		if n.Kind == "inc" {
			return &ast.PostIncStmt{Target: dst}, nil
		}
		return &ast.PostDecStmt{Target: dst}, nil

	case "if":
		cond, err := r.expr(n.Cond)
		if err != nil {
			return nil, errors.Wrap(err, "if cond")
		}
		then, err := r.block(n.Body)
		if err != nil {
			return nil, err
		}
		if n.Else == nil {
			return &ast.IfStmt{Cond: cond, Body: then}, nil
		}
		els, err := r.block(n.Else)
		if err != nil {
			return nil, errors.Wrap(err, "else")
		}
		return &ast.IfElseStmt{Cond: cond, Then: then, Else: els}, nil

	case "while":
		cond, err := r.expr(n.Cond)
		if err != nil {
			return nil, errors.Wrap(err, "while cond")
		}
		body, err := r.block(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Cond: cond, Body: body}, nil

	case "for":
		return r.forStmt(n)

	case "return":
		ret := &ast.ReturnStmt{}
		if n.Expr != nil {
			v, err := r.expr(n.Expr)
			if err != nil {
				return nil, errors.Wrap(err, "return")
			}
			ret.Value = v
		}
		return ret, nil

	case "call":
		c, err := r.call(n)
		if err != nil {
			return nil, err
		}
		return &ast.CallStmt{Call: c}, nil

	case "report":
		v, err := r.expr(n.Expr)
		if err != nil {
			return nil, errors.Wrap(err, "report")
		}
		return &ast.ReportStmt{Value: v}, nil

	case "receive":
		dst, err := r.lvalue(n.Dst)
		if err != nil {
			return nil, errors.Wrap(err, "receive")
		}
		return &ast.ReceiveStmt{Target: dst}, nil

	case "fn":
		return nil, errors.New("nested fn %v", n.Name)
	}
	return nil, errors.New("unknown statement kind %q", n.Kind)
}

func (r *resolver) forStmt(n *Node) (ast.Stmt, error) {
	r.push()
	defer r.pop()

	s := &ast.ForStmt{}
	var err error
	if n.Init != nil {
		if s.Init, err = r.stmt(n.Init); err != nil {
			return nil, errors.Wrap(err, "for init")
		}
	}
	if n.Cond != nil {
		if s.Cond, err = r.expr(n.Cond); err != nil {
			return nil, errors.Wrap(err, "for cond")
		}
	}
	if n.Step != nil {
		if s.Step, err = r.stmt(n.Step); err != nil {
			return nil, errors.Wrap(err, "for step")
		}
	}
	if s.Body, err = r.block(n.Body); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *resolver) expr(n *Node) (ast.Expr, error) {
	if n == nil {
		return nil, errors.New("missing expression")
	}
	switch n.Kind {
	case "int":
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "int literal")
		}
		return ast.Int(v), nil

	case "bool":
		v, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, errors.Wrap(err, "bool literal")
		}
		return &ast.BoolLit{Value: v}, nil

	case "str":
		return &ast.StrLit{Value: n.Value}, nil

	case "id":
		return r.ident(n)

	case "unary":
		op, ok := unaryOps[n.Op]
		if !ok {
			return nil, errors.New("unknown unary operator %q", n.Op)
		}
		arg, err := r.expr(n.Arg)
		if err != nil {
			return nil, errors.Wrap(err, "unary %v", n.Op)
		}
		return ast.Un(op, arg), nil

	case "binary":
		op, ok := binaryOps[n.Op]
		if !ok {
			return nil, errors.New("unknown binary operator %q", n.Op)
		}
		left, err := r.expr(n.Left)
		if err != nil {
			return nil, errors.Wrap(err, "binary %v left", n.Op)
		}
		right, err := r.expr(n.Right)
		if err != nil {
			return nil, errors.Wrap(err, "binary %v right", n.Op)
		}
		return ast.Bin(op, left, right), nil

	case "assign":
		return r.assign(n)

	case "call":
		return r.call(n)

	case "field":
		return r.field(n)
	}
	return nil, errors.New("unknown expression kind %q", n.Kind)
}

func (r *resolver) ident(n *Node) (*ast.Ident, error) {
	sym, ok := r.sc.lookup(n.Name)
	if !ok {
		return nil, errors.New("undeclared name %q", n.Name)
	}
	return ast.Id(sym), nil
}

func (r *resolver) lvalue(n *Node) (ast.LValue, error) {
	if n == nil {
		return nil, errors.New("missing destination")
	}
	switch n.Kind {
	case "id":
		id, err := r.ident(n)
		if err != nil {
			return nil, err
		}
		if _, isFn := id.Sym.Type.(types.Tfn); isFn {
			return nil, errors.New("cannot assign to procedure %v", n.Name)
		}
		return id, nil
	case "field":
		return r.field(n)
	}
	return nil, errors.New("%v is not assignable", n.Kind)
}

// assign resolves the source before the destination, matching evaluation order
func (r *resolver) assign(n *Node) (*ast.AssignExpr, error) {
	src, err := r.expr(n.Src)
	if err != nil {
		return nil, errors.Wrap(err, "assign src")
	}
	dst, err := r.lvalue(n.Dst)
	if err != nil {
		return nil, errors.Wrap(err, "assign dst")
	}
	return ast.Assign(dst, src), nil
}

func (r *resolver) call(n *Node) (*ast.CallExpr, error) {
	sym, ok := r.sc.lookup(n.Name)
	if !ok {
		return nil, errors.New("call to undeclared %q", n.Name)
	}
	fnType, ok := sym.Type.(types.Tfn)
	if !ok {
		return nil, errors.New("%v is not a procedure", n.Name)
	}
	if len(n.Args) != len(fnType.Params) {
		return nil, errors.New("call %v: %d args, want %d", n.Name, len(n.Args), len(fnType.Params))
	}
	args := make([]ast.Expr, len(n.Args))
	for i := range n.Args {
		a, err := r.expr(&n.Args[i])
		if err != nil {
			return nil, errors.Wrap(err, "call %v arg %d", n.Name, i)
		}
		args[i] = a
	}
	return ast.Call(sym, args...), nil
}

func (r *resolver) field(n *Node) (*ast.FieldExpr, error) {
	base, err := r.ident(n)
	if err != nil {
		return nil, err
	}
	rec, ok := base.Sym.Type.(*types.Trecord)
	if !ok {
		return nil, errors.New("%v is not a record", n.Name)
	}
	f, ok := rec.Field(n.Field)
	if !ok {
		return nil, errors.New("record %v has no field %q", rec.Name, n.Field)
	}
	return &ast.FieldExpr{Base: base, Field: f.Name, Typ: f.Type}, nil
}
