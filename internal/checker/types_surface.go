package checker

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/kinds"
	"github.com/sunholo/ailang/internal/types"
)

// builtinCons maps surface type-constructor names the spec fixes a kind
// for (spec §4.1) to their internal/types.ConName. Any other capitalized
// name is a user type (alias or ADT head) and resolves to types.Name.
var builtinCons = map[string]types.ConName{
	"Bool":    types.Bool,
	"Int":     types.IntCon,
	"Char":    types.Char,
	"String":  types.StringCon,
	"Bytes":   types.Bytes,
	"Unit":    types.Unit,
	"Array":   types.Array,
	"IO":      types.IOCon,
	"Cmd":     types.Cmd,
	"Record":  types.RecordCon,
	"Variant": types.Variant,
}

// resolveType turns a surface ast.Type into an internal/types.Type,
// allocating a fresh metavariable the first time it sees each named type
// variable (vars is shared across one signature's top-level type so
// repeated uses of `a` resolve to the same variable).
func (c *Checker) resolveType(t ast.Type, vars map[string]types.Type) (types.Type, error) {
	switch t := t.(type) {
	case *ast.TCon:
		if con, ok := builtinCons[t.Name]; ok {
			return types.Con{Name: con}, nil
		}
		return types.Name{Name: t.Name}, nil

	case *ast.TVar:
		if v, ok := vars[t.Name]; ok {
			return v, nil
		}
		m := types.Type(c.Types.Fresh(kinds.Type{}))
		vars[t.Name] = m
		return m, nil

	case *ast.TApp:
		fn, err := c.resolveType(t.Fun, vars)
		if err != nil {
			return nil, err
		}
		arg, err := c.resolveType(t.Arg, vars)
		if err != nil {
			return nil, err
		}
		return types.App{Fun: fn, Arg: arg}, nil

	case *ast.TArrow:
		dom, err := c.resolveType(t.Dom, vars)
		if err != nil {
			return nil, err
		}
		cod, err := c.resolveType(t.Cod, vars)
		if err != nil {
			return nil, err
		}
		return types.Arrow(dom, cod), nil

	case *ast.TRecord:
		row, err := c.resolveRow(t.Fields, t.TailVar, vars)
		if err != nil {
			return nil, err
		}
		return types.App{Fun: types.Con{Name: types.RecordCon}, Arg: row}, nil

	case *ast.TVariant:
		row, err := c.resolveRow(t.Fields, t.TailVar, vars)
		if err != nil {
			return nil, err
		}
		return types.App{Fun: types.Con{Name: types.Variant}, Arg: row}, nil

	case *ast.TQualified:
		// Only reachable for nested qualified types (e.g. a class member
		// signature's own body); top-level signatures are split into
		// Scheme.Constraints by resolveSignature.
		body, err := c.resolveType(t.Body, vars)
		if err != nil {
			return nil, err
		}
		return body, nil

	case *ast.THasField:
		row, err := c.resolveType(t.Row, vars)
		if err != nil {
			return nil, err
		}
		return types.HasField{Field: t.Field, Row: row}, nil

	default:
		return nil, c.newError("TC099", "typecheck", ast.Pos{}, "unsupported surface type form")
	}
}

func (c *Checker) resolveRow(fields []ast.TRowField, tailVar string, vars map[string]types.Type) (types.Type, error) {
	var tail types.Type
	if tailVar == "" {
		tail = types.Con{Name: types.RowNil}
	} else if v, ok := vars[tailVar]; ok {
		tail = v
	} else {
		m := types.Type(c.Types.Fresh(kinds.Row{}))
		vars[tailVar] = m
		tail = m
	}
	row := tail
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		fty, err := c.resolveType(f.Type, vars)
		if err != nil {
			return nil, err
		}
		row = types.RowCons{Field: f.Name, Head: fty, Tail: row}
	}
	return row, nil
}

// resolveSignature splits a possibly-qualified surface type into its
// constraint antecedents and body, sharing one variable environment so a
// constraint's type variables unify with the body's.
func (c *Checker) resolveSignature(t ast.Type) ([]types.Type, types.Type, map[string]types.Type, error) {
	vars := make(map[string]types.Type)
	if q, ok := t.(*ast.TQualified); ok {
		cs := make([]types.Type, len(q.Constraints))
		for i, ct := range q.Constraints {
			rt, err := c.resolveType(ct, vars)
			if err != nil {
				return nil, nil, nil, err
			}
			cs[i] = rt
		}
		body, err := c.resolveType(q.Body, vars)
		if err != nil {
			return nil, nil, nil, err
		}
		return cs, body, vars, nil
	}
	body, err := c.resolveType(t, vars)
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, body, vars, nil
}
