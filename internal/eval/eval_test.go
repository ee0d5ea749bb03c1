package eval

import (
	"testing"

	"github.com/sunholo/ailang/internal/checker"
	"github.com/sunholo/ailang/internal/module"
	"github.com/sunholo/ailang/internal/parser"
)

func run(t *testing.T, src string, entry string) Value {
	t.Helper()
	mod, err := parser.ParseModule(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	c := checker.New()
	compiled, err := c.CheckModule("main", mod)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	ctx := module.NewContext()
	ctx.Add(compiled)
	interp := New(ctx)
	if err := interp.EvalModule(compiled); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	v, err := interp.Global("main", entry)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	return v
}

func TestEvalArithmetic(t *testing.T) {
	v := run(t, `result = 1 + 2 * 3;`, "result")
	i, ok := v.(*Int)
	if !ok || i.Value != 7 {
		t.Fatalf("expected Int 7, got %v", v)
	}
}

func TestEvalApplication(t *testing.T) {
	v := run(t, `
add1 x = x + 1;
result = add1 41;
`, "result")
	i, ok := v.(*Int)
	if !ok || i.Value != 42 {
		t.Fatalf("expected Int 42, got %v", v)
	}
}

func TestEvalRecursion(t *testing.T) {
	v := run(t, `
fact n = if n == 0 then 1 else n * fact (n - 1);
result = fact 5;
`, "result")
	i, ok := v.(*Int)
	if !ok || i.Value != 120 {
		t.Fatalf("expected Int 120, got %v", v)
	}
}

func TestEvalRecordProjection(t *testing.T) {
	v := run(t, `result = { x = 1, y = 2 }.y;`, "result")
	i, ok := v.(*Int)
	if !ok || i.Value != 2 {
		t.Fatalf("expected Int 2, got %v", v)
	}
}

func TestEvalRecordProjectionBothFields(t *testing.T) {
	v := run(t, `
both r = r.x + r.y;
result = both { x = 10, y = 32 };
`, "result")
	i, ok := v.(*Int)
	if !ok || i.Value != 42 {
		t.Fatalf("expected Int 42, got %v", v)
	}
}

func TestEvalVariantCase(t *testing.T) {
	v := run(t, `
unwrap v = case v of {
  Left x -> x;
  Right y -> y + 100
};
result = unwrap (Right 5);
`, "result")
	i, ok := v.(*Int)
	if !ok || i.Value != 105 {
		t.Fatalf("expected Int 105, got %v", v)
	}
}

func TestEvalClassDictionary(t *testing.T) {
	v := run(t, `
class Describable a where {
  describe : a -> Int
};
instance Describable Int where {
  describe = \n -> n + 1000
};
result = describe 41;
`, "result")
	i, ok := v.(*Int)
	if !ok || i.Value != 1041 {
		t.Fatalf("expected Int 1041, got %v", v)
	}
}
