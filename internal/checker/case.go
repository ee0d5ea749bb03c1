package checker

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/kinds"
	"github.com/sunholo/ailang/internal/types"
)

// inferCase implements spec §4.3's Case rule: variant branches narrow a
// residual row left to right, duplicate tags and a branch after a
// fallthrough are rejected, and an exhaustive match (no fallthrough) forces
// the residual to RowNil.
func (c *Checker) inferCase(pos ast.Pos, e *ast.Case) (core.Expr, types.Type, error) {
	cscrut, scrutTy, err := c.Infer(e.Scrutinee)
	if err != nil {
		return nil, nil, err
	}

	residual := types.Type(c.Types.Fresh(kinds.Row{}))
	if err := types.Unify(c.Types, scrutTy, types.App{Fun: types.Con{Name: types.Variant}, Arg: residual}); err != nil {
		// Not a variant scrutinee (e.g. a bare record match): fall back to
		// checking each arm directly against scrutTy, no row narrowing.
		return c.inferFlatCase(pos, cscrut, scrutTy, e.Arms)
	}

	resultTy := types.Type(c.Types.Fresh(kinds.Type{}))
	seenTags := make(map[string]bool)
	fellThrough := false
	branches := make([]core.CaseBranch, 0, len(e.Arms))

	for i, arm := range e.Arms {
		vp, isVariant := arm.Pattern.(*ast.VariantPattern)
		if fellThrough {
			return nil, nil, c.newError(errors.TC012, "typecheck", arm.Body.Position(), "unreachable pattern after fallthrough")
		}
		if isVariant {
			if seenTags[vp.Tag] {
				return nil, nil, c.newError(errors.TC012, "typecheck", arm.Body.Position(), "duplicate branch for "+vp.Tag)
			}
			seenTags[vp.Tag] = true
			payloadTy := types.Type(c.Types.Fresh(kinds.Type{}))
			next := types.Type(c.Types.Fresh(kinds.Row{}))
			if i == len(e.Arms)-1 {
				next = types.Con{Name: types.RowNil}
			}
			if err := types.Unify(c.Types, residual, types.RowCons{Field: vp.Tag, Head: payloadTy, Tail: next}); err != nil {
				return nil, nil, err
			}
			ev := c.newPlaceholder(vp.Position(), types.HasField{Field: vp.Tag, Row: types.App{Fun: types.Con{Name: types.Variant}, Arg: residual}})
			c.pushLocal(vp.Payload, payloadTy)
			cbody, err := c.Check(arm.Body, resultTy)
			c.popLocal()
			if err != nil {
				return nil, nil, err
			}
			branches = append(branches, core.CaseBranch{
				Pattern: &core.VariantPattern{Tag: vp.Tag, TagEvidence: ev, Payload: vp.Payload},
				Body:    cbody,
			})
			residual = next
			continue
		}

		// Fallthrough: Name or Wildcard catches whatever remains.
		fellThrough = true
		switch p := arm.Pattern.(type) {
		case *ast.NamePattern:
			c.pushLocal(p.Name, types.App{Fun: types.Con{Name: types.Variant}, Arg: residual})
			cbody, err := c.Check(arm.Body, resultTy)
			c.popLocal()
			if err != nil {
				return nil, nil, err
			}
			branches = append(branches, core.CaseBranch{Pattern: &core.NamePattern{Name: p.Name}, Body: cbody})
		case *ast.WildcardPattern:
			cbody, err := c.Check(arm.Body, resultTy)
			if err != nil {
				return nil, nil, err
			}
			branches = append(branches, core.CaseBranch{Pattern: &core.WildcardPattern{}, Body: cbody})
		default:
			return nil, nil, c.newError("TC099", "typecheck", arm.Body.Position(), "expected a variant, name, or wildcard pattern in this case")
		}
	}

	if !fellThrough {
		if err := types.Unify(c.Types, residual, types.Con{Name: types.RowNil}); err != nil {
			return nil, nil, err
		}
	}

	return &core.Case{Node: c.freshNode(pos), Scrutinee: cscrut, Branches: branches}, resultTy, nil
}

// inferFlatCase handles a case over a non-variant scrutinee (e.g. a record
// or opaque value): each arm is checked independently against scrutTy with
// no row-narrowing, and all bodies must agree on a common result type.
func (c *Checker) inferFlatCase(pos ast.Pos, cscrut core.Expr, scrutTy types.Type, arms []ast.CaseArm) (core.Expr, types.Type, error) {
	resultTy := types.Type(c.Types.Fresh(kinds.Type{}))
	branches := make([]core.CaseBranch, 0, len(arms))
	for _, arm := range arms {
		cpat, err := c.checkPattern(arm.Pattern, scrutTy)
		if err != nil {
			return nil, nil, err
		}
		cbody, err := c.Check(arm.Body, resultTy)
		n := patternBindingCount(arm.Pattern)
		for i := 0; i < n; i++ {
			c.popLocal()
		}
		if err != nil {
			return nil, nil, err
		}
		branches = append(branches, core.CaseBranch{Pattern: cpat, Body: cbody})
	}
	return &core.Case{Node: c.freshNode(pos), Scrutinee: cscrut, Branches: branches}, resultTy, nil
}
