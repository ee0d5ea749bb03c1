package types

// pendingSubst accumulates metavariable bindings during one Unify call in
// insertion order, so it can be committed to the Store atomically on
// success and discarded wholesale on failure (the store is left untouched
// by a failing unification).
type pendingSubst struct {
	order []int
	bind  map[int]Type
}

func newPendingSubst() *pendingSubst {
	return &pendingSubst{bind: make(map[int]Type)}
}

func (p *pendingSubst) set(id int, t Type) {
	if _, exists := p.bind[id]; !exists {
		p.order = append(p.order, id)
	}
	p.bind[id] = t
}

func (p *pendingSubst) get(id int) (Type, bool) {
	t, ok := p.bind[id]
	return t, ok
}

// commit writes every pending binding into the store, in insertion order, so
// later bindings may safely reference earlier ones.
func (p *pendingSubst) commit(s *Store) error {
	for _, id := range p.order {
		if err := s.Solve(id, p.bind[id]); err != nil {
			return err
		}
	}
	return nil
}

// resolve zonks t against both the pending substitution and the committed
// store, chasing metavariable chains in either.
func resolve(s *Store, p *pendingSubst, t Type) Type {
	switch t := t.(type) {
	case Meta:
		if sol, ok := p.get(t.ID); ok {
			return resolve(s, p, sol)
		}
		if sol, ok := s.Lookup(t.ID); ok {
			return resolve(s, p, sol)
		}
		return t
	case App:
		return App{Fun: resolve(s, p, t.Fun), Arg: resolve(s, p, t.Arg)}
	case RowCons:
		return RowCons{Field: t.Field, Head: resolve(s, p, t.Head), Tail: resolve(s, p, t.Tail)}
	case HasField:
		return HasField{Field: t.Field, Row: resolve(s, p, t.Row), Shadow: t.Shadow}
	case Constraints:
		items := make([]Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = resolve(s, p, it)
		}
		return Constraints{Items: items}
	default:
		return t
	}
}

// occursPending is Occurs but consulting the pending substitution as well.
func occursPending(s *Store, p *pendingSubst, id int, t Type) bool {
	switch t := resolve(s, p, t).(type) {
	case Meta:
		return t.ID == id
	case App:
		return occursPending(s, p, id, t.Fun) || occursPending(s, p, id, t.Arg)
	case RowCons:
		return occursPending(s, p, id, t.Head) || occursPending(s, p, id, t.Tail)
	case HasField:
		return occursPending(s, p, id, t.Row)
	case Constraints:
		for _, it := range t.Items {
			if occursPending(s, p, id, it) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
