package types

import (
	"fmt"
	"strings"

	"github.com/sunholo/ailang/internal/kinds"
)

// Scheme is a generalized (possibly qualified) signature: `C1 => ... => Cn
// => Body`, with Body and the Ci referencing TyVars by de Bruijn Var index
// (innermost-bound = index 0, matching core.Var's convention).
type Scheme struct {
	TyVars      []kinds.Kind
	Constraints []Type
	Body        Type
}

// Instantiate allocates one fresh metavariable per quantified variable (at
// its recorded kind) and substitutes them into Body and Constraints. The
// returned antecedents are zonked constraint types the caller turns into
// fresh evidence placeholders.
func Instantiate(s *Store, sch Scheme) (body Type, antecedents []Type, metas []Type) {
	metas = make([]Type, len(sch.TyVars))
	for i, k := range sch.TyVars {
		metas[i] = s.Fresh(k)
	}
	body = Substitute(metas, sch.Body)
	antecedents = make([]Type, len(sch.Constraints))
	for i, c := range sch.Constraints {
		antecedents[i] = Substitute(metas, c)
	}
	return body, antecedents, metas
}

// FreeMetas returns the metavariable ids occurring (after zonking) in t, in
// first-occurrence order with duplicates removed.
func FreeMetas(s *Store, t Type) []int {
	seen := make(map[int]bool)
	var order []int
	var walk func(Type)
	walk = func(t Type) {
		switch t := Zonk(s, t).(type) {
		case Meta:
			if !seen[t.ID] {
				seen[t.ID] = true
				order = append(order, t.ID)
			}
		case App:
			walk(t.Fun)
			walk(t.Arg)
		case RowCons:
			walk(t.Head)
			walk(t.Tail)
		case HasField:
			walk(t.Row)
		case Constraints:
			for _, it := range t.Items {
				walk(it)
			}
		}
	}
	walk(t)
	return order
}

// AmbiguousConstraintError is raised by Generalize when an antecedent
// mentions a metavariable that does not also occur in the generalized
// body (spec §4.4: "ambiguous constraints are reported at generalization
// time") — there is no way a caller could ever pick a type for it, since
// instantiating the scheme fixes the body's type but leaves that
// metavariable free.
type AmbiguousConstraintError struct {
	Constraints []Type
}

func (e *AmbiguousConstraintError) Error() string {
	parts := make([]string, len(e.Constraints))
	for i, c := range e.Constraints {
		parts[i] = c.String()
	}
	return fmt.Sprintf("ambiguous constraint(s), not reachable from the generalized type: %s", strings.Join(parts, ", "))
}

// Generalize quantifies over every metavariable free in body or the
// antecedents but not in excludeMetas (typically the metavariables still
// free in the surrounding environment), producing a Scheme plus the
// meta-id -> Var-index mapping the caller uses to rewrite the elaborated
// term's evidence variables in the same order. It rejects, as an
// AmbiguousConstraintError, any antecedent whose free metavariables do
// not also occur in body: such a constraint can never be discharged by
// the caller, since nothing about the instantiated type ever pins it
// down.
func Generalize(s *Store, body Type, antecedents []Type, excludeMetas map[int]bool) (Scheme, map[int]int, error) {
	bodyMetas := make(map[int]bool)
	for _, id := range FreeMetas(s, body) {
		bodyMetas[id] = true
	}

	var candidates []int
	seen := make(map[int]bool)
	collect := func(t Type) {
		for _, id := range FreeMetas(s, t) {
			if !seen[id] && !excludeMetas[id] {
				seen[id] = true
				candidates = append(candidates, id)
			}
		}
	}

	var ambiguous []Type
	for _, a := range antecedents {
		for _, id := range FreeMetas(s, a) {
			if !excludeMetas[id] && !bodyMetas[id] {
				ambiguous = append(ambiguous, a)
				break
			}
		}
		collect(a)
	}
	collect(body)

	if len(ambiguous) > 0 {
		return Scheme{}, nil, &AmbiguousConstraintError{Constraints: ambiguous}
	}

	index := make(map[int]int, len(candidates))
	tyVars := make([]kinds.Kind, len(candidates))
	for i, id := range candidates {
		index[id] = i
		tyVars[i] = kinds.ZonkClosing(s.Kinds, s.KindOf(id))
	}

	toVar := func(t Type) Type {
		return replaceMetasWithVars(s, t, index)
	}
	schAntes := make([]Type, len(antecedents))
	for i, a := range antecedents {
		schAntes[i] = toVar(a)
	}
	return Scheme{TyVars: tyVars, Constraints: schAntes, Body: toVar(body)}, index, nil
}

func replaceMetasWithVars(s *Store, t Type, index map[int]int) Type {
	switch t := Zonk(s, t).(type) {
	case Meta:
		if ix, ok := index[t.ID]; ok {
			return Var{Index: ix}
		}
		return t
	case App:
		return App{Fun: replaceMetasWithVars(s, t.Fun, index), Arg: replaceMetasWithVars(s, t.Arg, index)}
	case RowCons:
		return RowCons{Field: t.Field, Head: replaceMetasWithVars(s, t.Head, index), Tail: replaceMetasWithVars(s, t.Tail, index)}
	case HasField:
		return HasField{Field: t.Field, Row: replaceMetasWithVars(s, t.Row, index), Shadow: t.Shadow}
	case Constraints:
		items := make([]Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = replaceMetasWithVars(s, it, index)
		}
		return Constraints{Items: items}
	default:
		return t
	}
}
