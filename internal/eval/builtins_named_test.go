package eval

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/sunholo/ailang/internal/builtins"
	"github.com/sunholo/ailang/internal/checker"
	"github.com/sunholo/ailang/internal/module"
	"github.com/sunholo/ailang/internal/parser"
)

// runWithBuiltins mirrors eval_test.go's run helper but installs the
// named built-in surface (spec §6) into the checker's global scope first,
// and lets the caller supply the Interpreter's stdin/stdout.
func runWithBuiltins(t *testing.T, src, entry string, stdin string, stdout *bytes.Buffer) Value {
	t.Helper()
	mod, err := parser.ParseModule(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	c := checker.New()
	builtins.Install(c)
	compiled, err := c.CheckModule("main", mod)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	ctx := module.NewContext()
	ctx.Add(compiled)
	interp := &Interpreter{
		Modules: ctx,
		cache:   make(map[string]map[string]Value),
		Stdin:   bufio.NewReader(strings.NewReader(stdin)),
		Stdout:  stdout,
	}
	if err := interp.EvalModule(compiled); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	v, err := interp.Global("main", entry)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	return v
}

func TestNamedBuiltinIntArithmetic(t *testing.T) {
	var out bytes.Buffer
	v := runWithBuiltins(t, `result = add (multiply 6 7) (subtract 10 8);`, "result", "", &out)
	i, ok := v.(*Int)
	if !ok || i.Value != 44 {
		t.Fatalf("expected Int 44, got %v", v)
	}
}

func TestNamedBuiltinArrays(t *testing.T) {
	var out bytes.Buffer
	v := runWithBuiltins(t, `
xs = generateArray 5 (\i -> i);
doubled = mapArray (\x -> multiply x 2) xs;
result = lengthArray doubled;
`, "result", "", &out)
	i, ok := v.(*Int)
	if !ok || i.Value != 5 {
		t.Fatalf("expected Int 5, got %v", v)
	}
}

func TestNamedBuiltinArrayFold(t *testing.T) {
	var out bytes.Buffer
	v := runWithBuiltins(t, `
xs = generateArray 4 (\i -> i);
result = foldlArray (\acc -> \x -> add acc x) 0 xs;
`, "result", "", &out)
	i, ok := v.(*Int)
	if !ok || i.Value != 6 {
		t.Fatalf("expected Int 6 (0+1+2+3), got %v", v)
	}
}

func TestNamedBuiltinStrings(t *testing.T) {
	var out bytes.Buffer
	v := runWithBuiltins(t, `result = eqString "abc" "abc";`, "result", "", &out)
	b, ok := v.(*Bool)
	if !ok || !b.Value {
		t.Fatalf("expected Bool true, got %v", v)
	}
}

func TestNamedBuiltinSplitString(t *testing.T) {
	var out bytes.Buffer
	v := runWithBuiltins(t, `result = lengthArray (splitString ',' "a,b,c");`, "result", "", &out)
	i, ok := v.(*Int)
	if !ok || i.Value != 3 {
		t.Fatalf("expected Int 3, got %v", v)
	}
}

func TestNamedBuiltinDisplayWidthCountsWideRunesTwice(t *testing.T) {
	var out bytes.Buffer
	v := runWithBuiltins(t, `result = displayWidth "a中";`, "result", "", &out)
	i, ok := v.(*Int)
	if !ok || i.Value != 3 {
		t.Fatalf("expected Int 3 (1 narrow + 1 wide), got %v", v)
	}
}

func TestNamedBuiltinIOWriteAndBind(t *testing.T) {
	var out bytes.Buffer
	v := runWithBuiltins(t, `
result = bindIO (writeStdout "hello") (\u -> pureIO 1);
`, "result", "", &out)
	action, ok := v.(*IOAction)
	if !ok {
		t.Fatalf("expected IOAction, got %v", v)
	}
	result, err := action.Run()
	if err != nil {
		t.Fatalf("unexpected error running IO action: %v", err)
	}
	i, ok := result.(*Int)
	if !ok || i.Value != 1 {
		t.Fatalf("expected Int 1, got %v", result)
	}
	if out.String() != "hello" {
		t.Fatalf("expected stdout %q, got %q", "hello", out.String())
	}
}

func TestNamedBuiltinReadLineStdin(t *testing.T) {
	var out bytes.Buffer
	v := runWithBuiltins(t, `result = readLineStdin;`, "result", "input line\n", &out)
	action, ok := v.(*IOAction)
	if !ok {
		t.Fatalf("expected IOAction, got %v", v)
	}
	result, err := action.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := result.(*Str)
	if !ok || s.Value != "input line" {
		t.Fatalf("expected Str %q, got %v", "input line", result)
	}
}
