// Package evidence implements the dictionary-passing solver (component D):
// given a constraint, it searches an implication database contributed by
// class and instance declarations and produces a core.Expr evidence term,
// following the teacher's internal/types/dictionaries.go registry idea but
// restructured around the specified unification-based search (spec §4.4)
// instead of a flat method-name lookup table.
package evidence

import (
	"fmt"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/kinds"
	"github.com/sunholo/ailang/internal/types"
)

// Implication is one registered fact: "given evidence for each Antecedent,
// Build produces evidence for Consequent." TyVars are the implication's own
// quantified variables (as de Bruijn Var positions appearing in Consequent
// and Antecedents), freshened per search attempt.
type Implication struct {
	Name        string
	TyVars      []kinds.Kind
	Antecedents []types.Type
	Consequent  types.Type
	Build       func(antecedentEvidence []core.Expr) core.Expr
}

// Database is the implications contributed by class and instance
// declarations seen so far (spec §4.3's "class & instance registration").
type Database struct {
	impls []Implication
}

func NewDatabase() *Database { return &Database{} }

func (d *Database) Add(impl Implication) { d.impls = append(d.impls, impl) }

// CannotDeduceError is raised when no implication's consequent unifies with
// the goal, or (for HasField) the row terminates without finding the field.
type CannotDeduceError struct {
	Constraint types.Type
}

func (e *CannotDeduceError) Error() string {
	return fmt.Sprintf("cannot deduce %s", e.Constraint)
}

// Solve searches for evidence of goal. types.Unify leaves the store
// untouched on failure, so trying candidates in sequence and bailing out of
// a losing one is safe without any extra rollback bookkeeping (spec §4.2's
// deferred-substitution guarantee, reused here for backtracking search).
func (d *Database) Solve(s *types.Store, goal types.Type) (core.Expr, error) {
	if hf, ok := zonkedHasField(s, goal); ok {
		return solveHasField(s, hf)
	}
	for _, impl := range d.impls {
		metas := make([]types.Type, len(impl.TyVars))
		for i, k := range impl.TyVars {
			metas[i] = types.Meta{ID: s.Fresh(k).ID}
		}
		cons := types.Substitute(metas, impl.Consequent)
		if err := types.Unify(s, cons, goal); err != nil {
			continue
		}
		evid := make([]core.Expr, 0, len(impl.Antecedents))
		solved := true
		for _, ante := range impl.Antecedents {
			anteInst := types.Substitute(metas, ante)
			e, err := d.Solve(s, anteInst)
			if err != nil {
				solved = false
				break
			}
			evid = append(evid, e)
		}
		if !solved {
			continue
		}
		return impl.Build(evid), nil
	}
	return nil, &CannotDeduceError{Constraint: goal}
}

func zonkedHasField(s *types.Store, goal types.Type) (types.HasField, bool) {
	z := types.Zonk(s, goal)
	hf, ok := z.(types.HasField)
	return hf, ok
}

// solveHasField walks the row left to right, skipping Shadow earlier
// matches of Field, and returns the runtime offset as a core.Int literal
// (spec §4.4: "producing the numeric index as an integer literal").
func solveHasField(s *types.Store, hf types.HasField) (core.Expr, error) {
	view := types.FlattenRow(s, hf.Row)
	skip := hf.Shadow
	for i, label := range view.Labels {
		if label.Name != hf.Field {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		return &core.Int{Value: int64(i)}, nil
	}
	return nil, &CannotDeduceError{Constraint: hf}
}
