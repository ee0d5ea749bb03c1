package checker

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/kinds"
	"github.com/sunholo/ailang/internal/types"
)

// Infer computes an expression's core term and inferred type (spec §4.3).
func (c *Checker) Infer(e ast.Expr) (core.Expr, types.Type, error) {
	pos := e.Position()
	switch e := e.(type) {

	case *ast.Var:
		if idx, ty, ok := c.lookupLocal(e.Name); ok {
			return &core.Var{Node: c.freshNode(pos), Index: idx}, ty, nil
		}
		g, ok := c.Globals[e.Name]
		if !ok {
			return nil, nil, c.notInScope(pos, e.Name)
		}
		ty, evs := c.instantiateGlobal(pos, g)
		var ce core.Expr = &core.Name{Node: c.freshNode(pos), Name: e.Name}
		for _, ev := range evs {
			ce = &core.App{Node: c.freshNode(pos), Func: ce, Arg: ev}
		}
		return ce, ty, nil

	case *ast.VariantCtor:
		payloadTy := types.Type(c.Types.Fresh(kinds.Type{}))
		tailTy := types.Type(c.Types.Fresh(kinds.Row{}))
		row := types.RowCons{Field: e.Tag, Head: payloadTy, Tail: tailTy}
		goal := types.HasField{Field: e.Tag, Row: row}
		ev := c.newPlaceholder(pos, goal)
		ty := types.Arrow(payloadTy, types.App{Fun: types.Con{Name: types.Variant}, Arg: row})
		return &core.Variant{Node: c.freshNode(pos), TagEvidence: ev}, ty, nil

	case *ast.UnitLit:
		return &core.Unit{Node: c.freshNode(pos)}, types.Con{Name: types.Unit}, nil

	case *ast.BoolLit:
		if e.Value {
			return &core.True{Node: c.freshNode(pos)}, types.Con{Name: types.Bool}, nil
		}
		return &core.False{Node: c.freshNode(pos)}, types.Con{Name: types.Bool}, nil

	case *ast.IntLit:
		return &core.Int{Node: c.freshNode(pos), Value: e.Value}, types.Con{Name: types.IntCon}, nil

	case *ast.CharLit:
		return &core.CharLit{Node: c.freshNode(pos), Value: e.Value}, types.Con{Name: types.Char}, nil

	case *ast.StringLit:
		parts := make([]core.StringPart, len(e.Parts))
		for i, p := range e.Parts {
			if p.Expr == nil {
				parts[i] = core.StringPart{Literal: p.Literal}
				continue
			}
			ce, err := c.Check(p.Expr, types.Con{Name: types.StringCon})
			if err != nil {
				return nil, nil, err
			}
			parts[i] = core.StringPart{Expr: ce}
		}
		return &core.StringLit{Node: c.freshNode(pos), Parts: parts}, types.Con{Name: types.StringCon}, nil

	case *ast.ArrayLit:
		elemTy := types.Type(c.Types.Fresh(kinds.Type{}))
		elems := make([]core.Expr, len(e.Elems))
		for i, el := range e.Elems {
			ce, err := c.Check(el, elemTy)
			if err != nil {
				return nil, nil, err
			}
			elems[i] = ce
		}
		return &core.Array{Node: c.freshNode(pos), Elems: elems}, types.App{Fun: types.Con{Name: types.Array}, Arg: elemTy}, nil

	case *ast.App:
		cf, fty, err := c.Infer(e.Func)
		if err != nil {
			return nil, nil, err
		}
		inTy := types.Type(c.Types.Fresh(kinds.Type{}))
		outTy := types.Type(c.Types.Fresh(kinds.Type{}))
		if err := types.Unify(c.Types, fty, types.Arrow(inTy, outTy)); err != nil {
			return nil, nil, c.typeMismatch(pos, types.Arrow(inTy, outTy), fty)
		}
		carg, err := c.Check(e.Arg, inTy)
		if err != nil {
			return nil, nil, err
		}
		return &core.App{Node: c.freshNode(pos), Func: cf, Arg: carg}, outTy, nil

	case *ast.Lam:
		return c.inferLam(pos, e.Params, e.Body)

	case *ast.Let:
		cval, vty, err := c.Infer(e.Value)
		if err != nil {
			return nil, nil, err
		}
		c.pushLocal(e.Name, vty)
		cbody, bty, err := c.Infer(e.Body)
		c.popLocal()
		if err != nil {
			return nil, nil, err
		}
		return &core.Let{Node: c.freshNode(pos), Value: cval, Body: cbody}, bty, nil

	case *ast.If:
		ccond, err := c.Check(e.Cond, types.Con{Name: types.Bool})
		if err != nil {
			return nil, nil, err
		}
		cthen, tty, err := c.Infer(e.Then)
		if err != nil {
			return nil, nil, err
		}
		celse, err := c.Check(e.Else, tty)
		if err != nil {
			return nil, nil, err
		}
		return &core.IfThenElse{Node: c.freshNode(pos), Cond: ccond, Then: cthen, Else: celse}, tty, nil

	case *ast.RecordLit:
		return c.inferRecordLit(pos, e)

	case *ast.Project:
		crec, rty, err := c.Infer(e.Record)
		if err != nil {
			return nil, nil, err
		}
		// Force rty to have at least this field (pulling its type out as a
		// fresh meta) without discarding whatever else rty already knows:
		// unifying only ever binds metas inside rty, it never replaces its
		// own concrete shape, so the HasField goal below still resolves
		// against rty's true, fully-merged row (spec §4.4) rather than this
		// synthetic single-field view.
		fieldTy := types.Type(c.Types.Fresh(kinds.Type{}))
		tailRow := types.Type(c.Types.Fresh(kinds.Row{}))
		synthetic := types.App{Fun: types.Con{Name: types.RecordCon}, Arg: types.RowCons{Field: e.Field, Head: fieldTy, Tail: tailRow}}
		if err := types.Unify(c.Types, rty, synthetic); err != nil {
			return nil, nil, c.typeMismatch(pos, synthetic, rty)
		}
		goal := types.HasField{Field: e.Field, Row: rty}
		ev := c.newPlaceholder(pos, goal)
		return &core.Project{Node: c.freshNode(pos), Record: crec, Evidence: ev}, fieldTy, nil

	case *ast.Case:
		return c.inferCase(pos, e)

	case *ast.BinopExpr:
		return c.inferBinop(pos, e)

	case *ast.Embed:
		crest, restTy, err := c.Infer(e.Rest)
		if err != nil {
			return nil, nil, err
		}
		narrowRow := types.Type(c.Types.Fresh(kinds.Row{}))
		if err := types.Unify(c.Types, restTy, types.App{Fun: types.Con{Name: types.Variant}, Arg: narrowRow}); err != nil {
			return nil, nil, c.typeMismatch(pos, types.App{Fun: types.Con{Name: types.Variant}, Arg: narrowRow}, restTy)
		}
		payloadTy := types.Type(c.Types.Fresh(kinds.Type{}))
		wideRow := types.RowCons{Field: e.Tag, Head: payloadTy, Tail: narrowRow}
		goal := types.HasField{Field: e.Tag, Row: wideRow}
		ev := c.newPlaceholder(pos, goal)
		wideTy := types.App{Fun: types.Con{Name: types.Variant}, Arg: wideRow}
		return &core.Embed{Node: c.freshNode(pos), TagEvidence: ev, Rest: crest}, wideTy, nil

	case *ast.ModuleRef:
		ty := types.Type(c.Types.Fresh(kinds.Type{}))
		return &core.Module{Node: c.freshNode(pos), ModRef: e.ModRef, Item: e.Item}, ty, nil

	default:
		return nil, nil, c.newError("TC099", "typecheck", pos, fmt.Sprintf("unsupported expression form %T", e))
	}
}

// Check checks e against an expected type by inferring then unifying
// (spec §4.3: "Checking calls inference, then unifies").
func (c *Checker) Check(e ast.Expr, expected types.Type) (core.Expr, error) {
	ce, ty, err := c.Infer(e)
	if err != nil {
		return nil, err
	}
	if err := types.Unify(c.Types, ty, expected); err != nil {
		return nil, c.typeMismatch(e.Position(), expected, ty)
	}
	return ce, nil
}

// instantiateGlobal freshens a generalized signature's quantified
// variables and lifts any constraint antecedents to fresh placeholders
// (spec §4.3: "A global name ... the stored generalized signature is
// instantiated").
func (c *Checker) instantiateGlobal(pos ast.Pos, g *GlobalBinding) (types.Type, []core.Expr) {
	body, antecedents, _ := types.Instantiate(c.Types, g.Scheme)
	evs := make([]core.Expr, len(antecedents))
	for i, ante := range antecedents {
		evs[i] = c.newPlaceholder(pos, ante)
	}
	return body, evs
}

func (c *Checker) inferLam(pos ast.Pos, params []ast.Pattern, body ast.Expr) (core.Expr, types.Type, error) {
	if len(params) == 0 {
		return c.Infer(body)
	}
	p := params[0]
	rest := params[1:]

	if np, ok := p.(*ast.NamePattern); ok {
		for _, q := range rest {
			if qp, ok := q.(*ast.NamePattern); ok && qp.Name == np.Name {
				return nil, nil, c.newError(errors.TC008, "typecheck", pos, "duplicate argument name "+np.Name)
			}
		}
	}

	paramTy := types.Type(c.Types.Fresh(kinds.Type{}))

	if np, ok := p.(*ast.NamePattern); ok {
		c.pushLocal(np.Name, paramTy)
		cbody, bty, err := c.inferLam(pos, rest, body)
		c.popLocal()
		if err != nil {
			return nil, nil, err
		}
		return &core.Lam{Node: c.freshNode(pos), BindsArg: true, Body: cbody}, types.Arrow(paramTy, bty), nil
	}

	if _, ok := p.(*ast.WildcardPattern); ok {
		cbody, bty, err := c.inferLam(pos, rest, body)
		if err != nil {
			return nil, nil, err
		}
		return &core.Lam{Node: c.freshNode(pos), BindsArg: false, Body: cbody}, types.Arrow(paramTy, bty), nil
	}

	// Record/Variant pattern: bind the raw argument, then Case on it.
	scrutName := "$arg"
	c.pushLocal(scrutName, paramTy)
	cpat, err := c.checkPattern(p, paramTy)
	if err != nil {
		c.popLocal()
		return nil, nil, err
	}
	n := patternBindingCount(p)
	cbody, bty, err := c.inferLam(pos, rest, body)
	for i := 0; i < n; i++ {
		c.popLocal()
	}
	c.popLocal() // scrutName
	if err != nil {
		return nil, nil, err
	}
	caseExpr := &core.Case{
		Node:      c.freshNode(pos),
		Scrutinee: &core.Var{Node: c.freshNode(pos), Index: 0},
		Branches:  []core.CaseBranch{{Pattern: cpat, Body: cbody}},
	}
	return &core.Lam{Node: c.freshNode(pos), BindsArg: true, Body: caseExpr}, types.Arrow(paramTy, bty), nil
}

func (c *Checker) inferRecordLit(pos ast.Pos, e *ast.RecordLit) (core.Expr, types.Type, error) {
	tail := types.Type(c.Types.Fresh(kinds.Row{}))
	if e.Rest == nil {
		tail = types.Con{Name: types.RowNil}
	}
	fields := make([]core.RecordField, len(e.Fields))
	row := tail
	for i := len(e.Fields) - 1; i >= 0; i-- {
		f := e.Fields[i]
		cv, vty, err := c.Infer(f.Value)
		if err != nil {
			return nil, nil, err
		}
		row = types.RowCons{Field: f.Name, Head: vty, Tail: row}
		goal := types.HasField{Field: f.Name, Row: row}
		ev := c.newPlaceholder(pos, goal)
		fields[i] = core.RecordField{Value: cv, Evidence: ev}
	}
	recTy := types.App{Fun: types.Con{Name: types.RecordCon}, Arg: row}

	if e.Rest == nil {
		return &core.Record{Node: c.freshNode(pos), Fields: fields}, recTy, nil
	}

	// A literal with a spread (`{ x = 0, ...r }`) extends the spread base
	// one field at a time rather than building a standalone tuple. Each
	// field's HasField goal is built against the literal's own row, where
	// the explicit fields precede the spread's tail, so it solves to a
	// literal index and no HasField antecedent is lifted into the
	// enclosing signature: `thing r = { x = 0, ...r }` elaborates to a
	// one-argument lambda whose body is `Extend(0, 0, Var(0))`. Fields were
	// walked back-to-front above so each one's evidence is relative to the
	// row as assembled so far; wrapping in the same order nests the Extends
	// to match.
	crest, err := c.Check(e.Rest, types.App{Fun: types.Con{Name: types.RecordCon}, Arg: tail})
	if err != nil {
		return nil, nil, err
	}
	result := crest
	for i := len(fields) - 1; i >= 0; i-- {
		result = &core.Extend{Node: c.freshNode(pos), Evidence: fields[i].Evidence, Value: fields[i].Value, Rest: result}
	}
	return result, recTy, nil
}

func (c *Checker) inferBinop(pos ast.Pos, e *ast.BinopExpr) (core.Expr, types.Type, error) {
	if e.Op == "+" {
		ca, err := c.Check(e.A, types.Con{Name: types.IntCon})
		if err != nil {
			return nil, nil, err
		}
		cb, err := c.Check(e.B, types.Con{Name: types.IntCon})
		if err != nil {
			return nil, nil, err
		}
		return &core.Binop{Node: c.freshNode(pos), Op: core.OpAdd, A: ca, B: cb}, types.Con{Name: types.IntCon}, nil
	}
	// Every other surface operator lowers to built-in application
	// (spec §9's "assume the former": only Add is first-class core).
	builtin := &core.Builtin{Node: c.freshNode(pos), Op: e.Op}
	ca, aty, err := c.Infer(e.A)
	if err != nil {
		return nil, nil, err
	}
	cb, err := c.Check(e.B, aty)
	if err != nil {
		return nil, nil, err
	}
	app1 := &core.App{Node: c.freshNode(pos), Func: builtin, Arg: ca}
	resultTy := types.Type(c.Types.Fresh(kinds.Type{}))
	return &core.App{Node: c.freshNode(pos), Func: app1, Arg: cb}, resultTy, nil
}
