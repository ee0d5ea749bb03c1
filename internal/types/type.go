// Package types implements the type data model, kind inference, the type
// metavariable store, substitution, and zonking (component A), plus the
// row unifier (component B) and the type checker's evidence-bearing
// instantiation helpers.
package types

import (
	"fmt"
	"strings"
)

// Type is the closed sum of all type-expression shapes. Bound variables
// are de Bruijn indices (Var); Name carries an unscoped alias reference
// resolved by the checker's global context.
type Type interface {
	fmt.Stringer
	isType()
}

// ConName enumerates the atomic type constructors.
type ConName string

const (
	Bool      ConName = "Bool"
	IntCon    ConName = "Int"
	Char      ConName = "Char"
	StringCon ConName = "String"
	Bytes     ConName = "Bytes"
	Unit      ConName = "Unit"
	Cmd       ConName = "Cmd"
	IOCon     ConName = "IO"
	Array     ConName = "Array"
	RecordCon ConName = "Record"
	Variant   ConName = "Variant"
	ArrowCon  ConName = "Arrow"
	FatArrow  ConName = "FatArrow"
	RowNil    ConName = "RowNil"
	HandleCon ConName = "Handle"
)

// Con is an atomic type constructor.
type Con struct {
	Name ConName
}

func (Con) isType()          {}
func (c Con) String() string { return string(c.Name) }

// App is type-level application, T applied to T.
type App struct {
	Fun, Arg Type
}

func (App) isType() {}
func (a App) String() string {
	return fmt.Sprintf("(%s %s)", a.Fun, a.Arg)
}

// Name is a reference to a named (aliased) type, resolved against the
// global context.
type Name struct {
	Name string
}

func (Name) isType()          {}
func (n Name) String() string { return n.Name }

// Var is a bound type variable, de Bruijn indexed from a signature's
// quantifier list (innermost = 0).
type Var struct {
	Index int
}

func (Var) isType()          {}
func (v Var) String() string { return fmt.Sprintf("#%d", v.Index) }

// RowCons is one entry of a row: `field : Head, Tail`. Rows are unordered
// multisets (see the Row helper type in row.go for the flattened view used
// by unification).
type RowCons struct {
	Field      string
	Head, Tail Type
}

func (RowCons) isType() {}
func (r RowCons) String() string {
	return fmt.Sprintf("%s : %s | %s", r.Field, r.Head, r.Tail)
}

// HasField is the constraint shape produced by record/variant elaboration;
// solved by the evidence solver's dedicated HasField rule, not by general
// implication search. Shadow counts how many earlier occurrences of Field
// the checker had already consumed when it minted this placeholder, so a
// row with a repeated field name resolves each HasField to a distinct
// runtime offset instead of always the first match.
type HasField struct {
	Field  string
	Row    Type
	Shadow int
}

func (HasField) isType() {}
func (h HasField) String() string {
	return fmt.Sprintf("HasField(%q, %s, shadow=%d)", h.Field, h.Row, h.Shadow)
}

// Constraints bundles zero or more constraint types, e.g. the antecedents
// of a qualified signature.
type Constraints struct {
	Items []Type
}

func (Constraints) isType() {}
func (c Constraints) String() string {
	parts := make([]string, len(c.Items))
	for i, it := range c.Items {
		parts[i] = it.String()
	}
	return strings.Join(parts, ", ")
}

// Meta is a type metavariable: an index into a Store. Its kind is fixed at
// creation and never changes.
type Meta struct {
	ID int
}

func (Meta) isType()          {}
func (m Meta) String() string { return fmt.Sprintf("?t%d", m.ID) }

// Arrow is sugar for App(App(Con{Arrow}, dom), cod).
func Arrow(dom, cod Type) Type {
	return App{Fun: App{Fun: Con{Name: ArrowCon}, Arg: dom}, Arg: cod}
}

// AsArrow decomposes T into (dom, cod, true) if it has arrow shape.
func AsArrow(t Type) (dom, cod Type, ok bool) {
	if outer, ok1 := t.(App); ok1 {
		if inner, ok2 := outer.Fun.(App); ok2 {
			if c, ok3 := inner.Fun.(Con); ok3 && c.Name == ArrowCon {
				return inner.Arg, outer.Arg, true
			}
		}
	}
	return nil, nil, false
}

// FatArrowT is sugar for App(App(Con{FatArrow}, constraint), body).
func FatArrowT(constraint, body Type) Type {
	return App{Fun: App{Fun: Con{Name: FatArrow}, Arg: constraint}, Arg: body}
}
