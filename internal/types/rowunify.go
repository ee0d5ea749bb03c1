package types

// This file is the row unifier (component B): unordered row matching with
// fresh tail metavariables, grounded on the teacher's
// internal/types/row_unification.go sames/only1/only2 split, adapted to
// this package's deferred-substitution (pendingSubst) style so a failing
// row unification leaves the store untouched, same as scalar Unify.

// unifyFlattened implements the spec's three-step algorithm:
//
//  1. Partition L into `sames` (names also in R) and `only_L` (names not in
//     R), matching left-to-right and pairing the leftmost remaining
//     occurrence when a name repeats. The residual of R after removing
//     matched occurrences is `only_R`.
//  2. Unify each matched pair's element types.
//  3. Allocate a fresh row metavariable t and assert
//     r_L = rows(only_R, t) and rows(only_L, t) = r_R, forcing only_L
//     absent from the left tail and only_R absent from the right tail.
func unifyFlattened(s *Store, p *pendingSubst, l, r RowView) (RowView, error) {
	rRemaining := append([]Label(nil), r.Labels...)

	var onlyL []Label
	for _, lbl := range l.Labels {
		idx := -1
		for i, rl := range rRemaining {
			if rl.Name == lbl.Name {
				idx = i
				break
			}
		}
		if idx == -1 {
			onlyL = append(onlyL, lbl)
			continue
		}
		// Matched: unify element types, then remove the matched occurrence
		// from the residual so later duplicates pair with the next one.
		if err := unify(s, p, lbl.Type, rRemaining[idx].Type); err != nil {
			return RowView{}, err
		}
		rRemaining = append(rRemaining[:idx], rRemaining[idx+1:]...)
	}
	onlyR := rRemaining

	switch {
	case isRowNil(l.Tail) && isRowNil(r.Tail):
		if len(onlyL) > 0 || len(onlyR) > 0 {
			return RowView{}, rowMismatch(onlyL, onlyR)
		}
		return RowView{Tail: Con{Name: RowNil}}, nil

	case isRowNil(l.Tail) && !isRowNil(r.Tail):
		// r's tail absorbs only_L; only_R must be empty (nothing on the
		// right can be absent from a closed left row).
		if len(onlyR) > 0 {
			return RowView{}, rowMismatch(onlyL, onlyR)
		}
		if err := bindRowTail(s, p, r.Tail, BuildRow(onlyL, Con{Name: RowNil})); err != nil {
			return RowView{}, err
		}
		return RowView{Tail: Con{Name: RowNil}}, nil

	case !isRowNil(l.Tail) && isRowNil(r.Tail):
		if len(onlyL) > 0 {
			return RowView{}, rowMismatch(onlyL, onlyR)
		}
		if err := bindRowTail(s, p, l.Tail, BuildRow(onlyR, Con{Name: RowNil})); err != nil {
			return RowView{}, err
		}
		return RowView{Tail: Con{Name: RowNil}}, nil

	default:
		// Both tails open: the fresh-tail trick. A fresh row metavariable t
		// takes the kind of either tail (they must already agree, both are
		// Row-kinded); r_L = rows(only_R, t), rows(only_L, t) = r_R.
		lMeta, lok := resolve(s, p, l.Tail).(Meta)
		rMeta, rok := resolve(s, p, r.Tail).(Meta)
		if !lok || !rok {
			return RowView{}, rowMismatch(onlyL, onlyR)
		}
		if lMeta.ID == rMeta.ID {
			if len(onlyL) > 0 || len(onlyR) > 0 {
				return RowView{}, rowMismatch(onlyL, onlyR)
			}
			return RowView{Tail: lMeta}, nil
		}
		fresh := s.Fresh(s.KindOf(lMeta.ID))
		if err := bindMeta(s, p, lMeta, BuildRow(onlyR, fresh)); err != nil {
			return RowView{}, err
		}
		if err := bindMeta(s, p, rMeta, BuildRow(onlyL, fresh)); err != nil {
			return RowView{}, err
		}
		return RowView{Tail: fresh}, nil
	}
}

func bindRowTail(s *Store, p *pendingSubst, tail Type, value Type) error {
	m, ok := resolve(s, p, tail).(Meta)
	if !ok {
		return rowMismatch(nil, nil)
	}
	return bindMeta(s, p, m, value)
}

func rowMismatch(onlyL, onlyR []Label) error {
	names := func(ls []Label) []string {
		out := make([]string, len(ls))
		for i, l := range ls {
			out[i] = l.Name
		}
		return out
	}
	return &RowMismatchError{MissingOnRight: names(onlyL), MissingOnLeft: names(onlyR)}
}

// RowMismatchError reports the residual labels that could not be reconciled
// between two closed rows.
type RowMismatchError struct {
	MissingOnRight []string // present on the left, absent on the right
	MissingOnLeft  []string // present on the right, absent on the left
}

func (e *RowMismatchError) Error() string {
	return "incompatible rows: left has extra fields " + joinOrNone(e.MissingOnRight) +
		", right has extra fields " + joinOrNone(e.MissingOnLeft)
}

func joinOrNone(ss []string) string {
	if len(ss) == 0 {
		return "(none)"
	}
	out := ss[0]
	for _, s := range ss[1:] {
		out += ", " + s
	}
	return out
}

// UnifyRows is the public entry point for unifying two row-kinded types
// directly (used when the checker already knows both sides are rows, e.g.
// record literal elaboration), independent of the Record/Variant App
// wrapping that Unify's general dispatch handles.
func UnifyRows(s *Store, l, r Type) error {
	p := newPendingSubst()
	if err := unifyRows(s, p, l, r); err != nil {
		return err
	}
	return p.commit(s)
}
