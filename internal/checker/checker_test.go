package checker

import (
	"testing"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/parser"
	"github.com/sunholo/ailang/internal/types"
)

func checkSource(t *testing.T, src string) (*Checker, map[string]*GlobalBinding) {
	t.Helper()
	mod, err := parser.ParseModule(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	c := New()
	if _, err := c.CheckModule("main", mod); err != nil {
		t.Fatalf("check error: %v", err)
	}
	return c, c.Globals
}

func TestCheckIdentity(t *testing.T) {
	_, globals := checkSource(t, `id x = x;`)
	g, ok := globals["id"]
	if !ok {
		t.Fatal("expected global id")
	}
	if len(g.Scheme.TyVars) != 1 {
		t.Fatalf("expected one quantified type variable, got %d", len(g.Scheme.TyVars))
	}
	if len(g.Scheme.Constraints) != 0 {
		t.Fatalf("expected no constraints, got %v", g.Scheme.Constraints)
	}
	arrow, ok := g.Scheme.Body.(types.App)
	if !ok {
		t.Fatalf("expected an arrow-shaped body, got %T", g.Scheme.Body)
	}
	_ = arrow
}

func TestCheckRecordProjection(t *testing.T) {
	_, globals := checkSource(t, `getX r = r.x;`)
	g := globals["getX"]
	if g == nil {
		t.Fatal("expected global getX")
	}
	// The row stays open (r may carry more fields than x), so this
	// generalizes with an unresolved HasField("x", ...) antecedent.
	if len(g.Scheme.Constraints) != 1 {
		t.Fatalf("expected one constraint, got %d: %v", len(g.Scheme.Constraints), g.Scheme.Constraints)
	}
	if _, ok := g.Scheme.Constraints[0].(types.HasField); !ok {
		t.Fatalf("expected a HasField constraint, got %T", g.Scheme.Constraints[0])
	}
}

func TestCheckClosedRecordProjectionSolvesDirectly(t *testing.T) {
	_, globals := checkSource(t, `getX r = { x = 1 }.x;`)
	g := globals["getX"]
	if g == nil {
		t.Fatal("expected global getX")
	}
	if len(g.Scheme.Constraints) != 0 {
		t.Fatalf("expected the projection over a closed literal to solve directly, got constraints %v", g.Scheme.Constraints)
	}
}

func TestCheckIfBranchesMustAgree(t *testing.T) {
	_, globals := checkSource(t, `pick b = if b then 1 else 2;`)
	g := globals["pick"]
	if g == nil {
		t.Fatal("expected global pick")
	}
}

func TestCheckVariantCaseExhaustive(t *testing.T) {
	src := `
unwrap v = case v of {
  Left x -> x;
  Right y -> y
};
`
	_, globals := checkSource(t, src)
	if globals["unwrap"] == nil {
		t.Fatal("expected global unwrap")
	}
}

func TestCheckUnboundVariableFails(t *testing.T) {
	mod, err := parser.ParseModule(`oops = doesNotExist;`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	c := New()
	if _, err := c.CheckModule("main", mod); err == nil {
		t.Fatal("expected a not-in-scope error")
	}
}

func TestCheckRecordLiteralWithSpreadElaboratesToExtend(t *testing.T) {
	_, globals := checkSource(t, `thing r = { x = 0, ...r };`)
	g := globals["thing"]
	if g == nil {
		t.Fatal("expected global thing")
	}
	lam, ok := g.Body.(*core.Lam)
	if !ok {
		t.Fatalf("expected the one-argument lambda over r, got %T", g.Body)
	}
	if _, ok := lam.Body.(*core.Extend); !ok {
		t.Fatalf("expected a record literal with a spread to elaborate to core.Extend, got %T", lam.Body)
	}
}

func TestCheckClosedRecordLiteralElaboratesToRecord(t *testing.T) {
	_, globals := checkSource(t, `thing = { x = 0 };`)
	g := globals["thing"]
	if g == nil {
		t.Fatal("expected global thing")
	}
	if _, ok := g.Body.(*core.Record); !ok {
		t.Fatalf("expected a fully closed record literal to elaborate to core.Record, got %T", g.Body)
	}
}

func TestCheckClassAndInstance(t *testing.T) {
	src := `
class Describable a where {
  describe : a -> Int
};
instance Describable Int where {
  describe = \n -> n
};
useIt x = describe x;
`
	c, globals := checkSource(t, src)
	if c.ClassArity["Describable"] != 1 {
		t.Fatalf("expected class arity 1, got %d", c.ClassArity["Describable"])
	}
	if globals["describe"] == nil {
		t.Fatal("expected describe registered as a global")
	}
	if globals["useIt"] == nil {
		t.Fatal("expected useIt to check")
	}
}
