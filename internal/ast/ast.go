// Package ast defines the surface-syntax tree handed from the parser to
// the type checker (spec §6). The parser and lexer are mechanical,
// out-of-scope collaborators (spec §1); this package only fixes their
// interface to the core: Definition/TypeAlias/Class/Instance/Import/
// FromImport declarations, with named (unscoped) type/expression
// variables and byte-offset source positions.
package ast

import "fmt"

// Pos is a byte offset into a named source, the position representation
// spec §6 requires ("source positions are carried as integer byte
// offsets").
type Pos struct {
	Source string
	Offset int
}

func (p Pos) String() string { return fmt.Sprintf("%s@%d", p.Source, p.Offset) }

// Decl is the sum of top-level declaration forms.
type Decl interface {
	declNode()
}

// Definition is a top-level value/function binding, with an optional
// surface type signature, curried argument patterns, and a body.
type Definition struct {
	Pos       Pos
	Name      string
	Signature Type // nil if unannotated
	Args      []Pattern
	Body      Expr
}

func (*Definition) declNode() {}

// TypeAlias introduces `name args... = body`.
type TypeAlias struct {
	Pos  Pos
	Name string
	Args []string
	Body Type
}

func (*TypeAlias) declNode() {}

// Class is `class supers => name args where members`.
type Class struct {
	Pos     Pos
	Supers  []Type
	Name    string
	Args    []string
	Members []ClassMember
}

func (*Class) declNode() {}

// ClassMember is one `m : ty` member signature inside a class body.
type ClassMember struct {
	Name string
	Sig  Type
}

// Instance is `instance assumes => head where members`.
type Instance struct {
	Pos     Pos
	Assumes []Type
	Head    Type
	Members []InstanceMember
}

func (*Instance) declNode() {}

// InstanceMember is one `m = body` binding inside an instance body.
type InstanceMember struct {
	Name string
	Body Expr
}

// Import is `import module [as alias]`.
type Import struct {
	Pos    Pos
	Module string
	Alias  string // empty if no alias
}

func (*Import) declNode() {}

// FromImport is `from module import names...`.
type FromImport struct {
	Pos    Pos
	Module string
	Names  []string
}

func (*FromImport) declNode() {}

// Module is a parsed source module: its declarations in source order.
type Module struct {
	Path  string
	Decls []Decl
}
