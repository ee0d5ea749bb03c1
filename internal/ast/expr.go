package ast

// Expr is the surface expression sum: named (unscoped) variables, resolved
// to de Bruijn indices by the checker's scope-resolution pass (spec §4.3).
type Expr interface {
	exprNode()
	Position() Pos
}

type Loc struct{ P Pos }

func (b Loc) Position() Pos { return b.P }

// Var is a surface variable reference by name.
type Var struct {
	Loc
	Name string
}

func NewVar(pos Pos, name string) *Var { return &Var{Loc{pos}, name} }
func (*Var) exprNode()                 {}

// ModuleRef is `modRef.item`.
type ModuleRef struct {
	Loc
	ModRef, Item string
}

func (*ModuleRef) exprNode() {}

// App is function application.
type App struct {
	Loc
	Func, Arg Expr
}

func (*App) exprNode() {}

// Lam is a multi-argument surface lambda; the checker compiles nested
// patterns to a sequence of single-argument core Lams (spec §4.3).
type Lam struct {
	Loc
	Params []Pattern
	Body   Expr
}

func (*Lam) exprNode() {}

// Let is `let name = value in body`.
type Let struct {
	Loc
	Name  string
	Value Expr
	Body  Expr
}

func (*Let) exprNode() {}

// BoolLit is a boolean literal.
type BoolLit struct {
	Loc
	Value bool
}

func (*BoolLit) exprNode() {}

// If is the surface conditional.
type If struct {
	Loc
	Cond, Then, Else Expr
}

func (*If) exprNode() {}

// IntLit is an integer literal.
type IntLit struct {
	Loc
	Value int64
}

func (*IntLit) exprNode() {}

// CharLit is a character literal.
type CharLit struct {
	Loc
	Value rune
}

func (*CharLit) exprNode() {}

// StringPart mirrors core.StringPart at the surface level.
type StringPart struct {
	Literal string
	Expr    Expr
}

// StringLit is a (possibly interpolated) string literal.
type StringLit struct {
	Loc
	Parts []StringPart
}

func (*StringLit) exprNode() {}

// ArrayLit is an array literal.
type ArrayLit struct {
	Loc
	Elems []Expr
}

func (*ArrayLit) exprNode() {}

// RecordField is one `name = value` entry of a record literal.
type RecordField struct {
	Name  string
	Value Expr
}

// RecordLit is `{ field = value, ..., ...rest }`.
type RecordLit struct {
	Loc
	Fields []RecordField
	Rest   Expr // nil if closed
}

func (*RecordLit) exprNode() {}

// Project is `record.field`.
type Project struct {
	Loc
	Record Expr
	Field  string
}

func (*Project) exprNode() {}

// VariantCtor is a bare variant constructor reference, e.g. `Left`.
type VariantCtor struct {
	Loc
	Tag string
}

func (*VariantCtor) exprNode() {}

// Embed is `<rest | Tag>`-style re-embedding of a narrower variant into a
// wider one; surfaced explicitly so the checker can assign TagEvidence.
type Embed struct {
	Loc
	Tag  string
	Rest Expr
}

func (*Embed) exprNode() {}

// CaseArm is one `pattern [if guard] -> body` arm.
type CaseArm struct {
	Pattern Pattern
	Body    Expr
}

// Case is `case scrutinee of { arms }`.
type Case struct {
	Loc
	Scrutinee Expr
	Arms      []CaseArm
}

func (*Case) exprNode() {}

// UnitLit is `()`.
type UnitLit struct{ Loc }

func (*UnitLit) exprNode() {}

// BinopExpr is a surface binary-operator application; the checker lowers
// `+` to core.Binop and every other operator to a built-in application
// (spec §9).
type BinopExpr struct {
	Loc
	Op   string
	A, B Expr
}

func (*BinopExpr) exprNode() {}
