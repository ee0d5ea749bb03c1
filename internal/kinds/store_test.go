package kinds

import "testing"

func TestUnifyMetaTrivial(t *testing.T) {
	s := NewStore()
	m := s.Fresh()
	if err := Unify(s, m, m); err != nil {
		t.Fatalf("unifying a metavariable with itself should succeed: %v", err)
	}
}

func TestUnifySolvesMeta(t *testing.T) {
	s := NewStore()
	m := s.Fresh()
	if err := Unify(s, m, Type{}); err != nil {
		t.Fatalf("unify: %v", err)
	}
	got := Zonk(s, m)
	if _, ok := got.(Type); !ok {
		t.Fatalf("expected Type, got %s", got)
	}
}

func TestOccursCheckRejectsCycle(t *testing.T) {
	s := NewStore()
	m := s.Fresh()
	arrow := Arrow{Dom: m, Cod: Type{}}
	if err := Unify(s, m, arrow); err == nil {
		t.Fatalf("expected occurs-check failure, got nil")
	}
	if _, ok := s.Lookup(m.ID); ok {
		t.Fatalf("store must be unchanged after a failed occurs check")
	}
}

func TestZonkIdempotent(t *testing.T) {
	s := NewStore()
	m1 := s.Fresh()
	m2 := s.Fresh()
	_ = Unify(s, m1, Arrow{Dom: m2, Cod: Type{}})
	_ = Unify(s, m2, Row{})

	once := Zonk(s, m1)
	twice := Zonk(s, once)
	if once.String() != twice.String() {
		t.Fatalf("zonk not idempotent: %s vs %s", once, twice)
	}
}

func TestZonkClosingDefaultsUnsolved(t *testing.T) {
	s := NewStore()
	m := s.Fresh()
	closed := ZonkClosing(s, m)
	if _, ok := closed.(Type); !ok {
		t.Fatalf("expected unsolved kind metavariable to default to Type, got %s", closed)
	}
}

func TestKindMismatchError(t *testing.T) {
	s := NewStore()
	if err := Unify(s, Type{}, Row{}); err == nil {
		t.Fatalf("expected kind mismatch error")
	}
}
