package types

import (
	"fmt"

	"github.com/sunholo/ailang/internal/kinds"
)

// metaInfo pairs a metavariable's fixed kind with its (at most once)
// solution.
type metaInfo struct {
	kind     kinds.Kind
	solution Type // nil means unsolved
}

// Store holds type metavariable solutions for one type-checking session.
// Allocations are monotonic; the store only grows until the session ends.
type Store struct {
	Kinds *kinds.Store
	metas []metaInfo
}

// NewStore creates an empty type metavariable store backed by ks.
func NewStore(ks *kinds.Store) *Store {
	return &Store{Kinds: ks}
}

// Fresh allocates a new unsolved metavariable at kind k.
func (s *Store) Fresh(k kinds.Kind) Meta {
	s.metas = append(s.metas, metaInfo{kind: k})
	return Meta{ID: len(s.metas) - 1}
}

// KindOf returns the fixed kind recorded for a metavariable at creation.
func (s *Store) KindOf(id int) kinds.Kind {
	return s.metas[id].kind
}

// Lookup returns the solution for id, if any.
func (s *Store) Lookup(id int) (Type, bool) {
	info := s.metas[id]
	if info.solution == nil {
		return nil, false
	}
	return info.solution, true
}

// Solve records t as the solution for id. The invariant that every solved
// metavariable's kind equals store[n].kind is the caller's responsibility
// (the checker derives t's kind before calling Solve); Solve itself
// enforces the acyclicity invariant via an occurs check.
func (s *Store) Solve(id int, t Type) error {
	if s.metas[id].solution != nil {
		panic(fmt.Sprintf("types: metavariable ?t%d solved twice", id))
	}
	if Occurs(s, id, t) {
		return fmt.Errorf("occurs check failed solving ?t%d = %s", id, t)
	}
	s.metas[id].solution = t
	return nil
}

// Occurs reports whether metavariable id appears (after zonking) in t.
func Occurs(s *Store, id int, t Type) bool {
	switch t := Zonk(s, t).(type) {
	case Meta:
		return t.ID == id
	case App:
		return Occurs(s, id, t.Fun) || Occurs(s, id, t.Arg)
	case RowCons:
		return Occurs(s, id, t.Head) || Occurs(s, id, t.Tail)
	case HasField:
		return Occurs(s, id, t.Row)
	case Constraints:
		for _, it := range t.Items {
			if Occurs(s, id, it) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Zonk recursively substitutes solved metavariables, preserving those that
// remain unsolved. Idempotent: Zonk(Zonk(t)) == Zonk(t).
func Zonk(s *Store, t Type) Type {
	switch t := t.(type) {
	case Meta:
		if sol, ok := s.Lookup(t.ID); ok {
			return Zonk(s, sol)
		}
		return t
	case App:
		return App{Fun: Zonk(s, t.Fun), Arg: Zonk(s, t.Arg)}
	case RowCons:
		return RowCons{Field: t.Field, Head: Zonk(s, t.Head), Tail: Zonk(s, t.Tail)}
	case HasField:
		return HasField{Field: t.Field, Row: Zonk(s, t.Row), Shadow: t.Shadow}
	case Constraints:
		items := make([]Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = Zonk(s, it)
		}
		return Constraints{Items: items}
	default:
		return t
	}
}

// Substitute replaces de Bruijn Var(i) with subs[i] throughout t, used to
// instantiate a generalized signature's quantified variables with fresh
// metavariables.
func Substitute(subs []Type, t Type) Type {
	switch t := t.(type) {
	case Var:
		if t.Index < len(subs) {
			return subs[t.Index]
		}
		return t
	case App:
		return App{Fun: Substitute(subs, t.Fun), Arg: Substitute(subs, t.Arg)}
	case RowCons:
		return RowCons{Field: t.Field, Head: Substitute(subs, t.Head), Tail: Substitute(subs, t.Tail)}
	case HasField:
		return HasField{Field: t.Field, Row: Substitute(subs, t.Row), Shadow: t.Shadow}
	case Constraints:
		items := make([]Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = Substitute(subs, it)
		}
		return Constraints{Items: items}
	default:
		return t
	}
}
