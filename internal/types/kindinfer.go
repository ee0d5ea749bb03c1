package types

import (
	"fmt"

	"github.com/sunholo/ailang/internal/kinds"
)

// conKind returns the fixed kind of an atomic type constructor.
func conKind(name ConName) kinds.Kind {
	switch name {
	case Bool, IntCon, Char, StringCon, Bytes, Unit, Cmd:
		return kinds.Type{}
	case Array, IOCon:
		return kinds.Arrow{Dom: kinds.Type{}, Cod: kinds.Type{}}
	case RecordCon, Variant:
		return kinds.Arrow{Dom: kinds.Row{}, Cod: kinds.Type{}}
	case ArrowCon:
		return kinds.Arrow{Dom: kinds.Type{}, Cod: kinds.Arrow{Dom: kinds.Type{}, Cod: kinds.Type{}}}
	case FatArrow:
		return kinds.Arrow{Dom: kinds.Constraint{}, Cod: kinds.Arrow{Dom: kinds.Type{}, Cod: kinds.Type{}}}
	case RowNil:
		return kinds.Row{}
	default:
		return kinds.Type{}
	}
}

// KindEnv resolves named (aliased) types and bound type variables to kinds
// during kind inference; supplied by the checker.
type KindEnv interface {
	LookupName(name string) (kinds.Kind, bool)
	LookupVar(ix int) (kinds.Kind, bool)
}

// InferKind computes the kind of a type expression, allocating fresh kind
// metavariables for unknowns (App's domain/codomain, RowCons's tail) and
// unifying them against the constructor table. s is the type store (its
// embedded kind store records kind-metavariable solutions); a type
// metavariable's kind was already fixed when it was created.
func InferKind(s *Store, env KindEnv, t Type) (kinds.Kind, error) {
	ks := s.Kinds
	switch t := t.(type) {
	case Con:
		return conKind(t.Name), nil
	case Name:
		if k, ok := env.LookupName(t.Name); ok {
			return k, nil
		}
		return nil, fmt.Errorf("kind inference: unbound named type %q", t.Name)
	case Var:
		if k, ok := env.LookupVar(t.Index); ok {
			return k, nil
		}
		return nil, fmt.Errorf("kind inference: unbound type variable #%d", t.Index)
	case Meta:
		return s.KindOf(t.ID), nil
	case App:
		funK, err := InferKind(s, env, t.Fun)
		if err != nil {
			return nil, err
		}
		argK, err := InferKind(s, env, t.Arg)
		if err != nil {
			return nil, err
		}
		domFresh := ks.Fresh()
		codFresh := ks.Fresh()
		if err := kinds.Unify(ks, funK, kinds.Arrow{Dom: domFresh, Cod: codFresh}); err != nil {
			return nil, fmt.Errorf("kind mismatch applying %s: %w", t.Fun, err)
		}
		if err := kinds.Unify(ks, argK, domFresh); err != nil {
			return nil, fmt.Errorf("kind mismatch in argument of %s: %w", t.Fun, err)
		}
		return codFresh, nil
	case RowCons:
		headK, err := InferKind(s, env, t.Head)
		if err != nil {
			return nil, err
		}
		if err := kinds.Unify(ks, headK, kinds.Type{}); err != nil {
			return nil, fmt.Errorf("row field %q must have kind Type: %w", t.Field, err)
		}
		tailK, err := InferKind(s, env, t.Tail)
		if err != nil {
			return nil, err
		}
		if err := kinds.Unify(ks, tailK, kinds.Row{}); err != nil {
			return nil, fmt.Errorf("row tail must have kind Row: %w", err)
		}
		return kinds.Row{}, nil
	case HasField:
		rowK, err := InferKind(s, env, t.Row)
		if err != nil {
			return nil, err
		}
		if err := kinds.Unify(ks, rowK, kinds.Row{}); err != nil {
			return nil, fmt.Errorf("HasField target must have kind Row: %w", err)
		}
		return kinds.Constraint{}, nil
	case Constraints:
		for _, it := range t.Items {
			k, err := InferKind(s, env, it)
			if err != nil {
				return nil, err
			}
			if err := kinds.Unify(ks, k, kinds.Constraint{}); err != nil {
				return nil, err
			}
		}
		return kinds.Constraint{}, nil
	default:
		return nil, fmt.Errorf("kind inference: unhandled type %T", t)
	}
}
