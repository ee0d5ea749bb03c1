// Package core defines the elaborated core term language: the output of
// the type checker (component C) before and after evidence solving
// (component D), and the input to the evaluator (component E).
//
// All "is-a" relationships here are sums, not inheritance (spec §9):
// Expr and Pattern are closed interfaces implemented by a fixed set of
// node structs, each embedding Node for position tracking, following the
// teacher's internal/core/core.go CoreNode convention.
package core

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
)

// Node carries a stable elaborator-assigned id plus core and original
// (surface) source spans, for diagnostics that need to point back through
// elaboration to the user's source.
type Node struct {
	NodeID   uint64
	CoreSpan ast.Pos
	OrigSpan ast.Pos
}

func (n Node) ID() uint64           { return n.NodeID }
func (n Node) Span() ast.Pos        { return n.CoreSpan }
func (n Node) OriginalSpan() ast.Pos { return n.OrigSpan }

// Expr is the core expression sum.
type Expr interface {
	ID() uint64
	Span() ast.Pos
	OriginalSpan() ast.Pos
	String() string
	exprNode()
}

// Var is a de Bruijn variable reference: env[len-1-Index] at evaluation.
type Var struct {
	Node
	Index int
}

func (*Var) exprNode()        {}
func (v *Var) String() string { return fmt.Sprintf("$%d", v.Index) }

// Name is a reference to a global (top-level) binding by name.
type Name struct {
	Node
	Name string
}

func (*Name) exprNode()        {}
func (n *Name) String() string { return n.Name }

// Module is a reference to `item` in the module bound to modRef by the
// current frame's import-unmapping (spec §4.5).
type Module struct {
	Node
	ModRef string
	Item   string
}

func (*Module) exprNode() {}
func (m *Module) String() string {
	return fmt.Sprintf("%s.%s", m.ModRef, m.Item)
}

// App is function application.
type App struct {
	Node
	Func Expr
	Arg  Expr
}

func (*App) exprNode() {}
func (a *App) String() string {
	return fmt.Sprintf("(%s %s)", a.Func, a.Arg)
}

// Lam is a single-argument lambda. BindsArg is false for patterns that
// discard their argument (spec invariant: a Lam{BindsArg: false} discards
// its argument).
type Lam struct {
	Node
	BindsArg bool
	Body     Expr
}

func (*Lam) exprNode() {}
func (l *Lam) String() string {
	if !l.BindsArg {
		return fmt.Sprintf("λ_. %s", l.Body)
	}
	return fmt.Sprintf("λ. %s", l.Body)
}

// Let is a non-recursive, single-binding let. Recursive definitions are
// supported by placing the name in the global context before checking its
// body (spec §9), not by a dedicated LetRec core form.
type Let struct {
	Node
	Value Expr
	Body  Expr
}

func (*Let) exprNode() {}
func (l *Let) String() string {
	return fmt.Sprintf("let = %s in %s", l.Value, l.Body)
}

// True, False are boolean literals.
type True struct{ Node }
type False struct{ Node }

func (*True) exprNode()      {}
func (*True) String() string { return "true" }

func (*False) exprNode()      {}
func (*False) String() string { return "false" }

// IfThenElse is the conditional form.
type IfThenElse struct {
	Node
	Cond, Then, Else Expr
}

func (*IfThenElse) exprNode() {}
func (i *IfThenElse) String() string {
	return fmt.Sprintf("if %s then %s else %s", i.Cond, i.Then, i.Else)
}

// Int is an integer literal (see DESIGN.md: this repo picks int64).
type Int struct {
	Node
	Value int64
}

func (*Int) exprNode()        {}
func (i *Int) String() string { return fmt.Sprintf("%d", i.Value) }

// CharLit is a character literal.
type CharLit struct {
	Node
	Value rune
}

func (*CharLit) exprNode()        {}
func (c *CharLit) String() string { return fmt.Sprintf("%q", c.Value) }

// StringPart is one piece of a String literal: either a literal chunk or
// an interpolated expression, evaluated and concatenated at run time.
type StringPart struct {
	Literal string // used when Expr == nil
	Expr    Expr   // used when non-nil (interpolation)
}

// StringLit is a string literal made of literal/interpolation parts.
type StringLit struct {
	Node
	Parts []StringPart
}

func (*StringLit) exprNode() {}
func (s *StringLit) String() string {
	out := ""
	for _, p := range s.Parts {
		if p.Expr != nil {
			out += "${" + p.Expr.String() + "}"
		} else {
			out += p.Literal
		}
	}
	return fmt.Sprintf("%q", out)
}

// Array is an array literal.
type Array struct {
	Node
	Elems []Expr
}

func (*Array) exprNode() {}
func (a *Array) String() string {
	return fmt.Sprintf("%v", a.Elems)
}

// RecordField pairs a value with its HasField evidence: an Expr that
// evaluates (after solving) to the integer index at which this field is
// inserted into the runtime record assembled so far.
type RecordField struct {
	Value    Expr
	Evidence Expr
}

// Record is a fully closed record literal; each field's evidence is its
// insertion index into the record as assembled so far, applied from the
// last field back to the first (see eval.go's Record case). A literal with a
// spread (`{ ...fields, ...rest }`) instead elaborates to a chain of
// Extend around the spread base, one per explicit field, rather than a
// Record carrying its own rest.
type Record struct {
	Node
	Fields []RecordField
}

func (*Record) exprNode() {}
func (r *Record) String() string {
	return fmt.Sprintf("{fields=%d}", len(r.Fields))
}

// Project is record field projection by solved index evidence.
type Project struct {
	Node
	Record   Expr
	Evidence Expr
}

func (*Project) exprNode() {}
func (p *Project) String() string {
	return fmt.Sprintf("%s.[%s]", p.Record, p.Evidence)
}

// Extend inserts Value at the position given by Evidence into Rest,
// producing a record one field larger.
type Extend struct {
	Node
	Evidence Expr
	Value    Expr
	Rest     Expr
}

func (*Extend) exprNode() {}
func (e *Extend) String() string {
	return fmt.Sprintf("extend[%s](%s, %s)", e.Evidence, e.Value, e.Rest)
}

// Variant builds a static closure that wraps its argument as
// Variant(tag, arg); TagEvidence evaluates to the constructor's runtime
// tag index.
type Variant struct {
	Node
	TagEvidence Expr
}

func (*Variant) exprNode() {}
func (v *Variant) String() string {
	return fmt.Sprintf("variant[%s]", v.TagEvidence)
}

// Embed re-tags an existing variant value from Rest's row into a larger
// row, shifting its tag up by one if TagEvidence's value is <= the old tag.
type Embed struct {
	Node
	TagEvidence Expr
	Rest        Expr
}

func (*Embed) exprNode() {}
func (e *Embed) String() string {
	return fmt.Sprintf("embed[%s](%s)", e.TagEvidence, e.Rest)
}

// CaseBranch is one arm of a Case.
type CaseBranch struct {
	Pattern Pattern
	Body    Expr
}

// Case is pattern matching over the scrutinee. Exhaustiveness and
// redundant-pattern checking happen in the checker (component C); by the
// time a Case reaches the evaluator it is assumed well-formed.
type Case struct {
	Node
	Scrutinee Expr
	Branches  []CaseBranch
}

func (*Case) exprNode() {}
func (c *Case) String() string {
	return fmt.Sprintf("case %s of {%d branches}", c.Scrutinee, len(c.Branches))
}

// Unit is the unit literal.
type Unit struct{ Node }

func (*Unit) exprNode()      {}
func (*Unit) String() string { return "()" }

// Builtin constructs the named built-in as a value (see internal/builtins
// for the declared surface).
type Builtin struct {
	Node
	Op string
}

func (*Builtin) exprNode()        {}
func (b *Builtin) String() string { return "#" + b.Op }

// BinOp is one of the small set of binary operators implemented directly
// by the evaluator rather than through the built-in library (spec §9 open
// question: only Add is a first-class core form in this repo).
type BinOp string

const (
	OpAdd BinOp = "+"
)

// Binop is a binary operator application.
type Binop struct {
	Node
	Op   BinOp
	A, B Expr
}

func (*Binop) exprNode() {}
func (b *Binop) String() string {
	return fmt.Sprintf("(%s %s %s)", b.A, b.Op, b.B)
}

// EVar is a bound evidence variable: a lambda parameter introduced by
// generalization for an unresolved constraint, referenced de Bruijn-style
// just like Var but kept as a distinct node so evidence and value
// variables are never confused during evaluation or pretty-printing.
type EVar struct {
	Node
	Index int
}

func (*EVar) exprNode()        {}
func (e *EVar) String() string { return fmt.Sprintf("$ev%d", e.Index) }

// Placeholder is an elaboration-only node standing for not-yet-solved
// evidence; the evidence solver (component D) rewrites every Placeholder
// reachable from a declaration into an EVar reference or a concrete
// evidence term before the evaluator ever sees it.
type Placeholder struct {
	Node
	ID uint64
}

func (*Placeholder) exprNode()        {}
func (p *Placeholder) String() string { return fmt.Sprintf("?ev%d", p.ID) }
