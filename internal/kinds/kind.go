// Package kinds implements the kind language and kind metavariable store
// used by the type checker to classify type expressions (component A).
package kinds

import "fmt"

// Kind classifies a type expression: Type, Row, Constraint, an arrow
// between kinds, or an unsolved metavariable.
type Kind interface {
	fmt.Stringer
	isKind()
}

// Type is the kind of ordinary types (Int, Bool, a -> b, ...).
type Type struct{}

func (Type) isKind()        {}
func (Type) String() string { return "Type" }

// Row is the kind of record/variant rows.
type Row struct{}

func (Row) isKind()        {}
func (Row) String() string { return "Row" }

// Constraint is the kind of class constraints (HasField, user classes).
type Constraint struct{}

func (Constraint) isKind()        {}
func (Constraint) String() string { return "Constraint" }

// Arrow is a kind-level function, e.g. Array : Type -> Type.
type Arrow struct {
	Dom, Cod Kind
}

func (Arrow) isKind() {}
func (a Arrow) String() string {
	return fmt.Sprintf("(%s -> %s)", a.Dom, a.Cod)
}

// Meta is a kind metavariable: an index into a Store.
type Meta struct {
	ID int
}

func (Meta) isKind() {}
func (m Meta) String() string {
	return fmt.Sprintf("?k%d", m.ID)
}

// Equal reports structural-up-to-unsolved-metavariable equality, used only
// for the trivial "same metavariable" fast path during unification.
func Equal(a, b Kind) bool {
	switch a := a.(type) {
	case Type:
		_, ok := b.(Type)
		return ok
	case Row:
		_, ok := b.(Row)
		return ok
	case Constraint:
		_, ok := b.(Constraint)
		return ok
	case Arrow:
		bb, ok := b.(Arrow)
		return ok && Equal(a.Dom, bb.Dom) && Equal(a.Cod, bb.Cod)
	case Meta:
		bb, ok := b.(Meta)
		return ok && a.ID == bb.ID
	default:
		return false
	}
}
