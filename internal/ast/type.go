package ast

// Type is the surface type-expression sum: named (unscoped) type
// variables, resolved to de Bruijn Var indices when a signature is
// generalized (spec §4.3).
type Type interface {
	typeNode()
}

// TCon is an atomic or named type constructor reference (Bool, Int,
// Array, a user type alias name, ...).
type TCon struct {
	Name string
}

func (*TCon) typeNode() {}

// TVar is a named (unscoped) type variable.
type TVar struct {
	Name string
}

func (*TVar) typeNode() {}

// TApp is type application.
type TApp struct {
	Fun, Arg Type
}

func (*TApp) typeNode() {}

// TArrow is `dom -> cod`.
type TArrow struct {
	Dom, Cod Type
}

func (*TArrow) typeNode() {}

// TRowField is one `name : Type` entry of a surface row.
type TRowField struct {
	Name string
	Type Type
}

// TRecord is `{ field : Type, ..., | tailVar }`; TailVar is "" for a
// closed record.
type TRecord struct {
	Fields  []TRowField
	TailVar string
}

func (*TRecord) typeNode() {}

// TVariant is `<| Tag : Type, ..., | tailVar |>`.
type TVariant struct {
	Fields  []TRowField
	TailVar string
}

func (*TVariant) typeNode() {}

// TQualified is `C1, ..., Cn => body`.
type TQualified struct {
	Constraints []Type
	Body        Type
}

func (*TQualified) typeNode() {}

// THasField is the explicit surface spelling of a HasField constraint
// (rarely written directly; mostly produced by the checker).
type THasField struct {
	Field string
	Row   Type
}

func (*THasField) typeNode() {}
