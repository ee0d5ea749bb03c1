// Package builtins declares the type schemes of every named built-in the
// evaluator implements (spec §6, "EXTERNAL INTERFACES"). It only touches
// the checker's global scope and the type language; the runtime behavior
// lives in internal/eval, keyed by the same name through core.Builtin{Op}
// so there is no import cycle between the two packages.
package builtins

import (
	"github.com/sunholo/ailang/internal/checker"
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/kinds"
	"github.com/sunholo/ailang/internal/types"
)

func con(name types.ConName) types.Type { return types.Con{Name: name} }

var (
	tInt    = con(types.IntCon)
	tBool   = con(types.Bool)
	tChar   = con(types.Char)
	tString = con(types.StringCon)
	tUnit   = con(types.Unit)
	tBytes  = con(types.Bytes)
	tHandle = con(types.HandleCon)
	tCmd    = con(types.Cmd)
)

func arrayOf(a types.Type) types.Type { return types.App{Fun: con(types.Array), Arg: a} }
func ioOf(a types.Type) types.Type    { return types.App{Fun: con(types.IOCon), Arg: a} }

func scheme0(body types.Type) types.Scheme {
	return types.Scheme{Body: body}
}

func scheme1(body func(a types.Type) types.Type) types.Scheme {
	return types.Scheme{TyVars: []kinds.Kind{kinds.Type{}}, Body: body(types.Var{Index: 0})}
}

func scheme2(body func(a, b types.Type) types.Type) types.Scheme {
	return types.Scheme{
		TyVars: []kinds.Kind{kinds.Type{}, kinds.Type{}},
		Body:   body(types.Var{Index: 0}, types.Var{Index: 1}),
	}
}

func scheme3(body func(a, b, c types.Type) types.Type) types.Scheme {
	return types.Scheme{
		TyVars: []kinds.Kind{kinds.Type{}, kinds.Type{}, kinds.Type{}},
		Body:   body(types.Var{Index: 0}, types.Var{Index: 1}, types.Var{Index: 2}),
	}
}

// Install registers every named built-in's scheme and elaborated body
// (a bare core.Builtin carrier) into c.Globals, the same map
// class/instance declarations populate (internal/checker/decl.go). Call
// this once per fresh Checker before checking any module.
func Install(c *checker.Checker) {
	for name, scheme := range schemes {
		c.Globals[name] = &checker.GlobalBinding{Scheme: scheme, Body: &core.Builtin{Op: name}}
	}
}

var schemes = map[string]types.Scheme{
	// IO
	"pureIO": scheme1(func(a types.Type) types.Type { return types.Arrow(a, ioOf(a)) }),
	"mapIO": scheme2(func(a, b types.Type) types.Type {
		return types.Arrow(types.Arrow(a, b), types.Arrow(ioOf(a), ioOf(b)))
	}),
	"bindIO": scheme2(func(a, b types.Type) types.Type {
		return types.Arrow(ioOf(a), types.Arrow(types.Arrow(a, ioOf(b)), ioOf(b)))
	}),
	"stdout":        scheme0(tHandle),
	"stdin":         scheme0(tHandle),
	"writeStdout":   scheme0(types.Arrow(tString, ioOf(tUnit))),
	"flushStdout":   scheme0(ioOf(tUnit)),
	"readLineStdin": scheme0(ioOf(tString)),
	"trace":         scheme1(func(a types.Type) types.Type { return types.Arrow(tString, types.Arrow(a, a)) }),
	"toUtf8":        scheme0(types.Arrow(tBytes, tString)),
	"displayWidth":  scheme0(types.Arrow(tString, tInt)),

	// Strings
	"eqString":     scheme0(types.Arrow(tString, types.Arrow(tString, tBool))),
	"filterString": scheme0(types.Arrow(types.Arrow(tChar, tBool), types.Arrow(tString, tString))),
	"splitString":  scheme0(types.Arrow(tChar, types.Arrow(tString, arrayOf(tString)))),
	"foldlString": scheme1(func(b types.Type) types.Type {
		return types.Arrow(types.Arrow(b, types.Arrow(tChar, b)), types.Arrow(b, types.Arrow(tString, b)))
	}),

	// Characters
	"eqChar": scheme0(types.Arrow(tChar, types.Arrow(tChar, tBool))),

	// Integers
	"eqInt":    scheme0(types.Arrow(tInt, types.Arrow(tInt, tBool))),
	"ltInt":    scheme0(types.Arrow(tInt, types.Arrow(tInt, tBool))),
	"showInt":  scheme0(types.Arrow(tInt, tString)),
	"add":      scheme0(types.Arrow(tInt, types.Arrow(tInt, tInt))),
	"subtract": scheme0(types.Arrow(tInt, types.Arrow(tInt, tInt))),
	"multiply": scheme0(types.Arrow(tInt, types.Arrow(tInt, tInt))),

	// Arrays
	"eqArray": scheme1(func(a types.Type) types.Type {
		return types.Arrow(types.Arrow(a, types.Arrow(a, tBool)), types.Arrow(arrayOf(a), types.Arrow(arrayOf(a), tBool)))
	}),
	"ltArray": scheme1(func(a types.Type) types.Type {
		return types.Arrow(types.Arrow(a, types.Arrow(a, tBool)), types.Arrow(arrayOf(a), types.Arrow(arrayOf(a), tBool)))
	}),
	"foldlArray": scheme2(func(a, b types.Type) types.Type {
		return types.Arrow(types.Arrow(b, types.Arrow(a, b)), types.Arrow(b, types.Arrow(arrayOf(a), b)))
	}),
	"generateArray": scheme1(func(a types.Type) types.Type {
		return types.Arrow(tInt, types.Arrow(types.Arrow(tInt, a), arrayOf(a)))
	}),
	"lengthArray": scheme1(func(a types.Type) types.Type { return types.Arrow(arrayOf(a), tInt) }),
	"indexArray": scheme1(func(a types.Type) types.Type {
		return types.Arrow(arrayOf(a), types.Arrow(tInt, a))
	}),
	"sliceArray": scheme1(func(a types.Type) types.Type {
		return types.Arrow(arrayOf(a), types.Arrow(tInt, types.Arrow(tInt, arrayOf(a))))
	}),
	"snocArray": scheme1(func(a types.Type) types.Type {
		return types.Arrow(arrayOf(a), types.Arrow(a, arrayOf(a)))
	}),
	"mapArray": scheme2(func(a, b types.Type) types.Type {
		return types.Arrow(types.Arrow(a, b), types.Arrow(arrayOf(a), arrayOf(b)))
	}),
	"flatMapArray": scheme2(func(a, b types.Type) types.Type {
		return types.Arrow(types.Arrow(a, arrayOf(b)), types.Arrow(arrayOf(a), arrayOf(b)))
	}),
	// arrayUnfoldr's step result is a Done/More tag; the checker's row
	// system does not model that closed sum generically, so the step
	// function's result type c is left abstract rather than spelled out
	// as a two-constructor variant row.
	"arrayUnfoldr": scheme3(func(a, b, c types.Type) types.Type {
		return types.Arrow(types.Arrow(b, c), types.Arrow(b, arrayOf(a)))
	}),

	// Commands
	"cmdRun":   scheme0(types.Arrow(tCmd, ioOf(tInt))),
	"cmdRead":  scheme0(types.Arrow(tCmd, ioOf(tString))),
	"cmdLines": scheme0(types.Arrow(tCmd, ioOf(arrayOf(tString)))),
	"showCmd":  scheme0(types.Arrow(tCmd, tString)),
}
