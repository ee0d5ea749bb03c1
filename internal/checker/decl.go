package checker

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/evidence"
	"github.com/sunholo/ailang/internal/kinds"
	"github.com/sunholo/ailang/internal/module"
	"github.com/sunholo/ailang/internal/types"
)

// CheckModule checks every declaration of mod in source order, threading a
// growing global context so later definitions (and recursive self-
// reference, spec §9) can see earlier ones, and returns the fully
// evidence-solved module ready for the evaluator.
func (c *Checker) CheckModule(path string, mod *ast.Module) (*module.Module, error) {
	out := module.New(path)
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *ast.Import:
			out.Import(nonEmpty(d.Alias, d.Module), d.Module)
		case *ast.FromImport:
			for _, n := range d.Names {
				out.Import(n, d.Module)
			}
		case *ast.TypeAlias:
			c.TypeAliases[d.Name] = d.Body
		case *ast.Class:
			if err := c.registerClass(d); err != nil {
				return nil, err
			}
			// Member accessors elaborate to core.Name references like any
			// other global, so the module carries their bodies too.
			for _, m := range d.Members {
				out.Define(m.Name, c.Globals[m.Name].Body)
			}
		case *ast.Instance:
			if err := c.registerInstance(d); err != nil {
				return nil, err
			}
		case *ast.Definition:
			body, err := c.checkDefinition(d)
			if err != nil {
				return nil, err
			}
			out.Define(d.Name, body)
		}
	}
	return out, nil
}

func nonEmpty(alias, fallback string) string {
	if alias != "" {
		return alias
	}
	return fallback
}

// checkDefinition checks one top-level binding's body, solves every
// placeholder it raised (or lifts the unsolved ones to constraint
// antecedents), and generalizes the result (spec §4.3 "Generalization").
func (c *Checker) checkDefinition(d *ast.Definition) (core.Expr, error) {
	checkpoint := len(c.placeholders)

	// Recursive self-reference: place a provisional scheme for d.Name in
	// scope before checking its body (spec §9).
	selfTy := types.Type(c.Types.Fresh(kinds.Type{}))
	c.Globals[d.Name] = &GlobalBinding{Scheme: types.Scheme{Body: selfTy}, Body: &core.Name{Name: d.Name}}

	var body core.Expr
	var bodyTy types.Type
	var err error
	if len(d.Args) > 0 {
		body, bodyTy, err = c.inferLam(d.Pos, d.Args, d.Body)
	} else {
		body, bodyTy, err = c.Infer(d.Body)
	}
	if err != nil {
		return nil, err
	}
	if err := types.Unify(c.Types, selfTy, bodyTy); err != nil {
		return nil, err
	}
	if d.Signature != nil {
		constraints, sigTy, _, err := c.resolveSignature(d.Signature)
		if err != nil {
			return nil, err
		}
		if err := types.Unify(c.Types, bodyTy, sigTy); err != nil {
			return nil, c.typeMismatch(d.Pos, sigTy, bodyTy)
		}
		for _, ct := range constraints {
			c.newPlaceholder(d.Pos, ct)
		}
	}

	own := c.placeholders[checkpoint:]
	c.placeholders = c.placeholders[:checkpoint]

	var unresolved []types.Type
	resolved := make(map[uint64]core.Expr)
	for _, ph := range own {
		goal := types.Zonk(c.Types, c.placeholderGoal[ph.ID])
		ev, err := c.Evidence.Solve(c.Types, goal)
		if err == nil {
			resolved[ph.ID] = ev
			continue
		}
		if _, ok := err.(*evidence.CannotDeduceError); ok && len(types.FreeMetas(c.Types, goal)) == 0 {
			// goal is fully concrete (no metavariable left to solve for
			// later) and no implication matches it now, so it never will;
			// spec §4.3's CannotDeduce is a hard typecheck failure here,
			// not something to lift into d's signature as a phantom
			// antecedent.
			return nil, c.newError(errors.ELB005, "elaborate", d.Pos, fmt.Sprintf("cannot deduce %s", goal))
		}
		idx := len(unresolved)
		unresolved = append(unresolved, goal)
		resolved[ph.ID] = &core.EVar{Index: idx} // fixed up to final de Bruijn index below
	}
	n := len(unresolved)
	for _, ph := range own {
		if ev, ok := resolved[ph.ID].(*core.EVar); ok {
			ev.Index = n - 1 - ev.Index
		}
	}

	body = rewritePlaceholders(body, resolved)

	scheme, _, err := types.Generalize(c.Types, bodyTy, unresolved, nil)
	if err != nil {
		return nil, c.newError(errors.ELB006, "elaborate", d.Pos, err.Error())
	}
	for i := n - 1; i >= 0; i-- {
		body = &core.Lam{BindsArg: true, Body: body}
	}

	c.Globals[d.Name] = &GlobalBinding{Scheme: scheme, Body: body}
	return body, nil
}

// registerClass contributes a global scheme per member (projecting the
// dictionary field at supersLen+memberIndex) and one implication per
// superclass (spec §4.3 "Class & instance registration").
func (c *Checker) registerClass(cls *ast.Class) error {
	if len(cls.Args) == 0 {
		return c.newError(errors.TC009, "typecheck", cls.Pos, "class must quantify at least one type argument")
	}
	seenArgs := map[string]bool{}
	for _, a := range cls.Args {
		if seenArgs[a] {
			return c.newError(errors.TC011, "typecheck", cls.Pos, "duplicate class type argument "+a)
		}
		seenArgs[a] = true
	}
	c.ClassArity[cls.Name] = len(cls.Args)
	c.ClassSupersLen[cls.Name] = len(cls.Supers)
	c.ClassArgs[cls.Name] = cls.Args
	c.ClassSupers[cls.Name] = cls.Supers

	tyVars := make([]kinds.Kind, len(cls.Args))
	for i := range tyVars {
		tyVars[i] = kinds.Type{}
	}
	classConstraint := func(vars map[string]types.Type) types.Type {
		head := types.Type(types.Name{Name: cls.Name})
		for _, a := range cls.Args {
			head = types.App{Fun: head, Arg: vars[a]}
		}
		return head
	}

	for superIdx, super := range cls.Supers {
		vars := make(map[string]types.Type)
		for i, a := range cls.Args {
			vars[a] = types.Var{Index: i}
		}
		selfCons := classConstraint(vars)
		superTy, err := c.resolveType(super, vars)
		if err != nil {
			return err
		}
		idx := superIdx
		c.Evidence.Add(evidence.Implication{
			Name:        "superclass " + cls.Name,
			TyVars:      tyVars,
			Antecedents: []types.Type{selfCons},
			Consequent:  superTy,
			Build: func(ev []core.Expr) core.Expr {
				return &core.Project{Record: ev[0], Evidence: &core.Int{Value: int64(idx)}}
			},
		})
	}

	for mi, member := range cls.Members {
		vars := make(map[string]types.Type)
		for i, a := range cls.Args {
			vars[a] = types.Var{Index: i}
		}
		selfCons := classConstraint(vars)
		sigTy, err := c.resolveType(member.Sig, vars)
		if err != nil {
			return err
		}
		// sigTy and selfCons already reference the class's own args as
		// Var{Index} (not metas), so the member's scheme quantifies over
		// exactly those — no call to Generalize (which only discovers
		// free metas) is needed or correct here.
		scheme := types.Scheme{TyVars: tyVars, Constraints: []types.Type{selfCons}, Body: sigTy}
		fieldIdx := len(cls.Supers) + mi
		body := &core.Lam{BindsArg: true, Body: &core.Project{
			Record:   &core.Var{Index: 0},
			Evidence: &core.Int{Value: int64(fieldIdx)},
		}}
		c.Globals[member.Name] = &GlobalBinding{Scheme: scheme, Body: body}
	}
	return nil
}

// registerInstance builds the dictionary value (a record: superclass
// evidence fields followed by method bodies) and contributes one
// implication producing evidence for Head given Assumes (spec §4.3).
func (c *Checker) registerInstance(inst *ast.Instance) error {
	vars := make(map[string]types.Type)
	head, err := c.resolveType(inst.Head, vars)
	if err != nil {
		return err
	}
	assumes := make([]types.Type, len(inst.Assumes))
	for i, a := range inst.Assumes {
		at, err := c.resolveType(a, vars)
		if err != nil {
			return err
		}
		assumes[i] = at
	}

	className, headArgs := unwindTypeApp(inst.Head)
	instanceArgs := make([]types.Type, len(headArgs))
	for i, a := range headArgs {
		at, err := c.resolveType(a, vars)
		if err != nil {
			return err
		}
		instanceArgs[i] = at
	}
	var superFields []core.Expr
	for _, super := range c.ClassSupers[className] {
		superVars := make(map[string]types.Type, len(instanceArgs))
		for i, argName := range c.ClassArgs[className] {
			if i < len(instanceArgs) {
				superVars[argName] = instanceArgs[i]
			}
		}
		goal, err := c.resolveType(super, superVars)
		if err != nil {
			return err
		}
		ev, err := c.Evidence.Solve(c.Types, goal)
		if err != nil {
			return c.newError(errors.LNK003, "elaborate", inst.Pos, "instance is missing a superclass instance")
		}
		superFields = append(superFields, ev)
	}

	memberIndex := make(map[string]int, len(inst.Members))
	for i, m := range inst.Members {
		memberIndex[m.Name] = i
	}
	methodBodies := make([]core.Expr, len(inst.Members))
	for _, m := range inst.Members {
		var cbody core.Expr
		if mg, ok := c.Globals[m.Name]; ok && len(mg.Scheme.TyVars) == len(instanceArgs) {
			// The class member's signature is expressed in terms of the
			// class's own type arguments (Var{0}, Var{1}, ...); substitute
			// this instance's concrete arguments to get the expected type
			// for this particular method body.
			expected := types.Substitute(instanceArgs, mg.Scheme.Body)
			cb, err := c.Check(m.Body, expected)
			if err != nil {
				return err
			}
			cbody = cb
		} else {
			cb, _, err := c.Infer(m.Body)
			if err != nil {
				return err
			}
			cbody = cb
		}
		methodBodies[memberIndex[m.Name]] = cbody
	}

	// head and assumes were resolved against fresh metas in vars; rewrite
	// those metas to canonical Var{Index} placeholders so the implication
	// can be instantiated with brand-new metas on every future search
	// (spec §4.4), rather than reusing these registration-time metas.
	scheme, _, err := types.Generalize(c.Types, head, assumes, nil)
	if err != nil {
		return c.newError(errors.ELB006, "elaborate", inst.Pos, err.Error())
	}

	c.Evidence.Add(evidence.Implication{
		Name:        "instance " + className,
		TyVars:      scheme.TyVars,
		Antecedents: scheme.Constraints,
		Consequent:  scheme.Body,
		Build: func(ev []core.Expr) core.Expr {
			// Record evidence is an insertion index into the record as
			// assembled so far, applied from the last field back to the
			// first; inserting every field at 0 keeps declaration order.
			fields := make([]core.RecordField, 0, len(superFields)+len(methodBodies))
			for _, sf := range superFields {
				fields = append(fields, core.RecordField{Value: sf, Evidence: &core.Int{Value: 0}})
			}
			for _, mb := range methodBodies {
				fields = append(fields, core.RecordField{Value: mb, Evidence: &core.Int{Value: 0}})
			}
			return &core.Record{Fields: fields}
		},
	})
	return nil
}

// unwindTypeApp splits a left-associative surface type application chain
// (e.g. `Ord Int`) into its head constructor name and argument list.
func unwindTypeApp(t ast.Type) (string, []ast.Type) {
	switch t := t.(type) {
	case *ast.TApp:
		name, args := unwindTypeApp(t.Fun)
		return name, append(args, t.Arg)
	case *ast.TCon:
		return t.Name, nil
	default:
		return "", nil
	}
}

func rewritePlaceholders(e core.Expr, resolved map[uint64]core.Expr) core.Expr {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *core.Placeholder:
		if r, ok := resolved[e.ID]; ok {
			return r
		}
		return e
	case *core.App:
		e.Func = rewritePlaceholders(e.Func, resolved)
		e.Arg = rewritePlaceholders(e.Arg, resolved)
		return e
	case *core.Lam:
		e.Body = rewritePlaceholders(e.Body, resolved)
		return e
	case *core.Let:
		e.Value = rewritePlaceholders(e.Value, resolved)
		e.Body = rewritePlaceholders(e.Body, resolved)
		return e
	case *core.IfThenElse:
		e.Cond = rewritePlaceholders(e.Cond, resolved)
		e.Then = rewritePlaceholders(e.Then, resolved)
		e.Else = rewritePlaceholders(e.Else, resolved)
		return e
	case *core.StringLit:
		for i := range e.Parts {
			if e.Parts[i].Expr != nil {
				e.Parts[i].Expr = rewritePlaceholders(e.Parts[i].Expr, resolved)
			}
		}
		return e
	case *core.Array:
		for i := range e.Elems {
			e.Elems[i] = rewritePlaceholders(e.Elems[i], resolved)
		}
		return e
	case *core.Record:
		for i := range e.Fields {
			e.Fields[i].Value = rewritePlaceholders(e.Fields[i].Value, resolved)
			e.Fields[i].Evidence = rewritePlaceholders(e.Fields[i].Evidence, resolved)
		}
		return e
	case *core.Project:
		e.Record = rewritePlaceholders(e.Record, resolved)
		e.Evidence = rewritePlaceholders(e.Evidence, resolved)
		return e
	case *core.Extend:
		e.Evidence = rewritePlaceholders(e.Evidence, resolved)
		e.Value = rewritePlaceholders(e.Value, resolved)
		e.Rest = rewritePlaceholders(e.Rest, resolved)
		return e
	case *core.Variant:
		e.TagEvidence = rewritePlaceholders(e.TagEvidence, resolved)
		return e
	case *core.Embed:
		e.TagEvidence = rewritePlaceholders(e.TagEvidence, resolved)
		e.Rest = rewritePlaceholders(e.Rest, resolved)
		return e
	case *core.Case:
		e.Scrutinee = rewritePlaceholders(e.Scrutinee, resolved)
		for i := range e.Branches {
			e.Branches[i].Body = rewritePlaceholders(e.Branches[i].Body, resolved)
			rewritePatternPlaceholders(e.Branches[i].Pattern, resolved)
		}
		return e
	case *core.Binop:
		e.A = rewritePlaceholders(e.A, resolved)
		e.B = rewritePlaceholders(e.B, resolved)
		return e
	default:
		return e
	}
}

func rewritePatternPlaceholders(p core.Pattern, resolved map[uint64]core.Expr) {
	switch p := p.(type) {
	case *core.RecordPattern:
		for i := range p.Fields {
			p.Fields[i].Evidence = rewritePlaceholders(p.Fields[i].Evidence, resolved)
		}
	case *core.VariantPattern:
		p.TagEvidence = rewritePlaceholders(p.TagEvidence, resolved)
	}
}
