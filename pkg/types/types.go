// Package types defines the static types attached to a resolved tree.
// Types carry their storage width; record types carry a field layout that
// was computed before lowering and is only read here.
package types

import "strings"

// Type is the interface for all static types
type Type interface {
	implType()
	String() string
}

// Tint is the 64-bit integer type
type Tint struct{}

// Tbool is the boolean type
type Tbool struct{}

// Tstring is a reference to a pooled string constant
type Tstring struct{}

// Tvoid is the result type of procedures that return nothing
type Tvoid struct{}

// Tfn is the type of a procedure symbol
type Tfn struct {
	Params []Type
	Return Type
}

// Trecord is a record type with an already-computed layout
type Trecord struct {
	Name   string
	Fields []Field
	Size   int64 // total byte size; 0 means sum of field widths
}

// Field is one record field and its byte offset within the record
type Field struct {
	Name   string
	Type   Type
	Offset int64
}

// Marker methods for Type interface
func (Tint) implType()     {}
func (Tbool) implType()    {}
func (Tstring) implType()  {}
func (Tvoid) implType()    {}
func (Tfn) implType()      {}
func (*Trecord) implType() {}

func (Tint) String() string    { return "int" }
func (Tbool) String() string   { return "bool" }
func (Tstring) String() string { return "string" }
func (Tvoid) String() string   { return "void" }

func (t Tfn) String() string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") -> ")
	if t.Return == nil {
		sb.WriteString("void")
	} else {
		sb.WriteString(t.Return.String())
	}
	return sb.String()
}

func (t *Trecord) String() string {
	if t.Name == "" {
		return "record <anonymous>"
	}
	return t.Name
}

// Offset returns the byte offset of the named field.
func (t *Trecord) Offset(name string) (int64, bool) {
	if f, ok := t.Field(name); ok {
		return f.Offset, true
	}
	return 0, false
}

// Field looks up a field by name.
func (t *Trecord) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Common type constructors

// Int returns the integer type
func Int() Type { return Tint{} }

// Bool returns the boolean type
func Bool() Type { return Tbool{} }

// String returns the string reference type
func String() Type { return Tstring{} }

// Void returns the void type
func Void() Type { return Tvoid{} }

// Fn returns a procedure type
func Fn(ret Type, params ...Type) Type {
	return Tfn{Params: params, Return: ret}
}

// Width returns the storage width in bytes of a value of type t.
func Width(t Type) int64 {
	switch t := t.(type) {
	case Tint:
		return 8
	case Tbool:
		return 1
	case Tstring:
		return 8
	case Tvoid, nil:
		return 0
	case Tfn:
		return 8
	case *Trecord:
		if t.Size > 0 {
			return t.Size
		}
		var total int64
		for _, f := range t.Fields {
			total += Width(f.Type)
		}
		return total
	default:
		return 8
	}
}

// IsVoid reports whether t is void (or absent).
func IsVoid(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(Tvoid)
	return ok
}

// ReturnType returns the result type of a procedure type, or nil if t is not one.
func ReturnType(t Type) Type {
	if fn, ok := t.(Tfn); ok {
		if fn.Return == nil {
			return Void()
		}
		return fn.Return
	}
	return nil
}

// FromName converts a scalar type name to a Type. Record names are not
// resolved here; ok is false for anything that is not a builtin.
func FromName(name string) (Type, bool) {
	switch strings.TrimSpace(name) {
	case "int":
		return Int(), true
	case "bool":
		return Bool(), true
	case "string":
		return String(), true
	case "void", "":
		return Void(), true
	}
	return nil, false
}

// Equal checks if two types are equal
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch ta := a.(type) {
	case Tint:
		_, ok := b.(Tint)
		return ok
	case Tbool:
		_, ok := b.(Tbool)
		return ok
	case Tstring:
		_, ok := b.(Tstring)
		return ok
	case Tvoid:
		_, ok := b.(Tvoid)
		return ok
	case *Trecord:
		tb, ok := b.(*Trecord)
		return ok && ta.Name == tb.Name
	case Tfn:
		tb, ok := b.(Tfn)
		if !ok || len(ta.Params) != len(tb.Params) {
			return false
		}
		if !Equal(ReturnType(ta), ReturnType(tb)) {
			return false
		}
		for i, p := range ta.Params {
			if !Equal(p, tb.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}
