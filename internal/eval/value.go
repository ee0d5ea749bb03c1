// Package eval implements component E: a tree-walking evaluator over the
// elaborated core term language (internal/core). By the time a term
// reaches Eval every core.Placeholder has been rewritten to a concrete
// evidence term or an core.EVar by the checker/evidence solving pass
// (spec §4.3/§4.4), so this package never needs to search for instances
// itself — it only projects and applies the dictionaries it is handed.
package eval

import (
	"fmt"
	"strings"

	"github.com/sunholo/ailang/internal/core"
)

// Value is a runtime value (spec §4.5).
type Value interface {
	Type() string
	String() string
}

// Int is an integer value.
type Int struct{ Value int64 }

func (i *Int) Type() string   { return "Int" }
func (i *Int) String() string { return fmt.Sprintf("%d", i.Value) }

// Char is a character value.
type Char struct{ Value rune }

func (c *Char) Type() string   { return "Char" }
func (c *Char) String() string { return fmt.Sprintf("%q", c.Value) }

// Str is a string value.
type Str struct{ Value string }

func (s *Str) Type() string   { return "String" }
func (s *Str) String() string { return s.Value }

// Bool is a boolean value.
type Bool struct{ Value bool }

func (b *Bool) Type() string { return "Bool" }
func (b *Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Unit is the unit value.
type Unit struct{}

func (u *Unit) Type() string   { return "Unit" }
func (u *Unit) String() string { return "()" }

// Array is an array value.
type Array struct{ Elems []Value }

func (a *Array) Type() string { return "Array" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Record is a flattened, positionally-indexed record: Project/Extend
// address a field by the runtime offset the checker's HasField evidence
// solved to, not by name (spec §4.4: HasField resolves to an integer
// insertion index).
type Record struct{ Fields []Value }

func (r *Record) Type() string { return "Record" }
func (r *Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Variant is a tagged value: Tag is the runtime constructor index the
// checker's HasField evidence solved to, not the surface tag name.
type Variant struct {
	Tag     int
	Payload Value
}

func (v *Variant) Type() string   { return "Variant" }
func (v *Variant) String() string { return fmt.Sprintf("#%d(%s)", v.Tag, v.Payload) }

// Closure is a user-defined single-argument function value: core.Lam's
// runtime representation, closing over the de Bruijn environment active
// where the Lam was evaluated (spec §4.5: Closure value variant). A Lam
// with BindsArg == false still produces a Closure that discards its
// argument when applied.
type Closure struct {
	BindsArg bool
	Body     core.Expr
	Env      Env
}

func (c *Closure) Type() string   { return "Closure" }
func (c *Closure) String() string { return "<closure>" }

// Builtin is a built-in function value (spec §4.5: StaticClosure — a
// closure with no captured environment, supplied directly by the runtime
// rather than elaborated from user code).
type Builtin struct {
	Name string
	Fn   func(arg Value) (Value, error)
}

func (b *Builtin) Type() string   { return "Builtin" }
func (b *Builtin) String() string { return "#" + b.Name }

// Bytes is a byte-string value, distinct from Str (spec §4.5 Object
// variant "Bytes").
type Bytes struct{ Value []byte }

func (b *Bytes) Type() string   { return "Bytes" }
func (b *Bytes) String() string { return fmt.Sprintf("%x", b.Value) }

// Handle is the Stdout/Stdin value variant (spec §4.5): a token
// identifying which ambient stream an IO built-in reads from or writes
// to, not the stream itself (the Interpreter holds the real reader and
// writer).
type Handle struct{ Name string }

func (h *Handle) Type() string   { return "Handle" }
func (h *Handle) String() string { return h.Name }

// IOAction is an inert delayed effect (spec §4.5's `IO{env, code_pointer}`
// variant): constructing one performs nothing; the effect happens each
// time Run is called, when something forces it (the top-level driver, or
// `bindIO` sequencing into the next action).
type IOAction struct {
	Run func() (Value, error)
}

func (a *IOAction) Type() string   { return "IO" }
func (a *IOAction) String() string { return "<io>" }
