package types

import (
	"testing"

	"github.com/sunholo/ailang/internal/kinds"
)

func newTestStore() *Store {
	return NewStore(kinds.NewStore())
}

func closedRow(fields ...Label) Type {
	return BuildRow(fields, Con{Name: RowNil})
}

func TestRowUnifyPermutationInvariant(t *testing.T) {
	s := newTestStore()
	r1 := closedRow(Label{"x", Con{Name: IntCon}}, Label{"y", Con{Name: Bool}})
	r2 := closedRow(Label{"y", Con{Name: Bool}}, Label{"x", Con{Name: IntCon}})
	if err := UnifyRows(s, r1, r2); err != nil {
		t.Fatalf("expected permutation-invariant rows to unify: %v", err)
	}
}

func TestRowUnifyToleratesDuplicates(t *testing.T) {
	s := newTestStore()
	r1 := closedRow(
		Label{"x", Con{Name: IntCon}},
		Label{"x", Con{Name: Bool}},
	)
	r2 := closedRow(
		Label{"x", Con{Name: Bool}},
		Label{"x", Con{Name: IntCon}},
	)
	if err := UnifyRows(s, r1, r2); err != nil {
		t.Fatalf("expected duplicate-tolerant rows to unify leftmost-first: %v", err)
	}
}

func TestRowUnifySymmetric(t *testing.T) {
	s1 := newTestStore()
	a := closedRow(Label{"x", Con{Name: IntCon}})
	b := closedRow(Label{"x", Con{Name: IntCon}})
	err1 := UnifyRows(s1, a, b)

	s2 := newTestStore()
	err2 := UnifyRows(s2, b, a)

	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("unification should be symmetric on success: %v vs %v", err1, err2)
	}
}

func TestRowUnifyOpenAgainstClosedDoesNotBindTail(t *testing.T) {
	// {x: Int} | tail  unified with  {x: Int}  (closed) should close tail
	// to RowNil, not bind any unique labels onto it (there are none here).
	s := newTestStore()
	tail := s.Fresh(kinds.Row{})
	open := RowCons{Field: "x", Head: Con{Name: IntCon}, Tail: tail}
	closed := closedRow(Label{"x", Con{Name: IntCon}})
	if err := UnifyRows(s, open, closed); err != nil {
		t.Fatalf("unify: %v", err)
	}
	sol, ok := s.Lookup(tail.ID)
	if !ok {
		t.Fatalf("expected tail to be solved")
	}
	if !isRowNil(Zonk(s, sol)) {
		t.Fatalf("expected tail solved to RowNil, got %s", sol)
	}
}

func TestRowUnifyIncompatibleClosedRows(t *testing.T) {
	s := newTestStore()
	a := closedRow(Label{"x", Con{Name: IntCon}})
	b := closedRow(Label{"y", Con{Name: Bool}})
	if err := UnifyRows(s, a, b); err == nil {
		t.Fatalf("expected incompatible closed rows to fail")
	}
}
