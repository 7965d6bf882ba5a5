// Package treefile reads resolved trees from their YAML interchange form.
//
// A tree file lists record layouts and program-scope declarations. Names in
// the file are bound to symbols here, every expression gets its static type,
// and record fields without an explicit offset are laid out in order.
package treefile

import (
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/raymyers/ralph-tac/pkg/ast"
)

// File is the top-level document
type File struct {
	Records []Record `yaml:"records,omitempty"`
	Decls   []Node   `yaml:"decls"`
}

// Record describes a record type layout
type Record struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields"`
	Size   int64   `yaml:"size,omitempty"`
}

// Field is one record field; a nil Offset follows the previous field
type Field struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Offset *int64 `yaml:"offset,omitempty"`
}

// Node is a declaration, statement or expression, discriminated by Kind
type Node struct {
	Kind  string `yaml:"kind"`
	Name  string `yaml:"name,omitempty"`
	Type  string `yaml:"type,omitempty"`
	Op    string `yaml:"op,omitempty"`
	Value string `yaml:"value,omitempty"`
	Field string `yaml:"field,omitempty"`

	Formals []Node  `yaml:"formals,omitempty"`
	Fields  []Field `yaml:"fields,omitempty"`
	Size    int64   `yaml:"size,omitempty"`

	Arg   *Node  `yaml:"arg,omitempty"`
	Left  *Node  `yaml:"left,omitempty"`
	Right *Node  `yaml:"right,omitempty"`
	Dst   *Node  `yaml:"dst,omitempty"`
	Src   *Node  `yaml:"src,omitempty"`
	Expr  *Node  `yaml:"expr,omitempty"`
	Args  []Node `yaml:"args,omitempty"`

	Cond *Node  `yaml:"cond,omitempty"`
	Init *Node  `yaml:"init,omitempty"`
	Step *Node  `yaml:"step,omitempty"`
	Body []Node `yaml:"body,omitempty"`
	Else []Node `yaml:"else,omitempty"`
}

// Parse decodes a tree file without resolving it
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decode tree")
	}
	return &f, nil
}

// Load decodes and resolves a tree document
func Load(data []byte) (*ast.Program, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Resolve(f)
}

// ReadFile loads the tree file at path
func ReadFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read %v", path)
	}
	prog, err := Load(data)
	if err != nil {
		return nil, errors.Wrap(err, "%v", path)
	}
	return prog, nil
}
