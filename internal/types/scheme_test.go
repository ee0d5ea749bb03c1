package types

import (
	"testing"

	"github.com/sunholo/ailang/internal/kinds"
)

func TestZonkIdempotent(t *testing.T) {
	s := newTestStore()
	m := s.Fresh(kinds.Type{})
	_ = Unify(s, m, Con{Name: IntCon})
	once := Zonk(s, m)
	twice := Zonk(s, once)
	if once.String() != twice.String() {
		t.Fatalf("zonk not idempotent: %s vs %s", once, twice)
	}
}

func TestGeneralizeInstantiateRoundTrip(t *testing.T) {
	s := newTestStore()
	a := s.Fresh(kinds.Type{})
	// body = a -> a
	body := Arrow(a, a)
	sch, _, err := Generalize(s, body, nil, nil)
	if err != nil {
		t.Fatalf("unexpected ambiguity error: %v", err)
	}
	if len(sch.TyVars) != 1 {
		t.Fatalf("expected 1 quantified var, got %d", len(sch.TyVars))
	}

	inst, _, _ := Instantiate(s, sch)
	dom, cod, ok := AsArrow(inst)
	if !ok {
		t.Fatalf("instantiated scheme is not an arrow: %s", inst)
	}
	if dom.String() != cod.String() {
		t.Fatalf("expected a -> a shape to survive round trip, got %s -> %s", dom, cod)
	}

	sch2, _, err := Generalize(s, inst, nil, nil)
	if err != nil {
		t.Fatalf("unexpected ambiguity error: %v", err)
	}
	if len(sch2.TyVars) != len(sch.TyVars) {
		t.Fatalf("re-generalized scheme has different arity: %d vs %d", len(sch2.TyVars), len(sch.TyVars))
	}
	if sch2.Body.String() != sch.Body.String() {
		t.Fatalf("re-generalized scheme body differs modulo nothing: %s vs %s", sch2.Body, sch.Body)
	}
}

func TestGeneralizeRejectsAntecedentMetaNotInBody(t *testing.T) {
	s := newTestStore()
	body := Con{Name: IntCon}
	stray := s.Fresh(kinds.Type{})
	antecedent := App{Fun: Name{Name: "Eq"}, Arg: stray}

	_, _, err := Generalize(s, body, []Type{antecedent}, nil)
	if err == nil {
		t.Fatalf("expected an ambiguous-constraint error")
	}
	if _, ok := err.(*AmbiguousConstraintError); !ok {
		t.Fatalf("expected *AmbiguousConstraintError, got %T: %v", err, err)
	}
}

func TestGeneralizeAllowsAntecedentMetaSharedWithBody(t *testing.T) {
	s := newTestStore()
	a := s.Fresh(kinds.Type{})
	body := a
	antecedent := App{Fun: Name{Name: "Eq"}, Arg: a}

	sch, _, err := Generalize(s, body, []Type{antecedent}, nil)
	if err != nil {
		t.Fatalf("unexpected ambiguity error for a meta shared with body: %v", err)
	}
	if len(sch.TyVars) != 1 {
		t.Fatalf("expected exactly 1 quantified var, got %d", len(sch.TyVars))
	}
}

func TestUnifyOccursCheckLeavesStoreUntouched(t *testing.T) {
	s := newTestStore()
	m := s.Fresh(kinds.Type{})
	cyclic := App{Fun: Con{Name: Array}, Arg: m}
	if err := Unify(s, m, cyclic); err == nil {
		t.Fatalf("expected occurs-check failure")
	}
	if _, ok := s.Lookup(m.ID); ok {
		t.Fatalf("store must be unchanged after a failed unification")
	}
}
