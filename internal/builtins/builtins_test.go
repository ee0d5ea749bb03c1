package builtins

import "github.com/sunholo/ailang/internal/checker"
import "testing"

func TestInstallRegistersFullSurface(t *testing.T) {
	c := checker.New()
	Install(c)

	want := []string{
		"pureIO", "mapIO", "bindIO", "stdout", "stdin", "writeStdout",
		"flushStdout", "readLineStdin", "trace", "toUtf8", "displayWidth",
		"eqString", "filterString", "splitString", "foldlString",
		"eqChar",
		"eqInt", "ltInt", "showInt", "add", "subtract", "multiply",
		"eqArray", "ltArray", "foldlArray", "generateArray", "lengthArray",
		"indexArray", "sliceArray", "snocArray", "mapArray", "flatMapArray",
		"arrayUnfoldr",
		"cmdRun", "cmdRead", "cmdLines", "showCmd",
	}
	for _, name := range want {
		g, ok := c.Globals[name]
		if !ok {
			t.Fatalf("Install did not register %q", name)
		}
		if g.Body == nil {
			t.Fatalf("%q has a nil elaborated body", name)
		}
	}
	if len(c.Globals) != len(want) {
		t.Fatalf("expected exactly %d installed globals, got %d", len(want), len(c.Globals))
	}
}

func TestMonomorphicBuiltinsHaveNoQuantifiers(t *testing.T) {
	c := checker.New()
	Install(c)
	for _, name := range []string{"stdout", "stdin", "flushStdout", "readLineStdin", "toUtf8", "showInt"} {
		if len(c.Globals[name].Scheme.TyVars) != 0 {
			t.Fatalf("%q expected to be monomorphic, got %d type variables", name, len(c.Globals[name].Scheme.TyVars))
		}
	}
}
