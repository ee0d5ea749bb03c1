package eval

import (
	"fmt"

	"github.com/sunholo/ailang/internal/errors"
)

// binaryOps backs the fixed infix operators; lookupBuiltinOp
// (builtins_named.go) curries each into a two-argument Value chain and
// dispatches named built-ins (spec §6) the same way, through one
// core.Builtin{Op} carrier.

var binaryOps = map[string]func(a, b Value) (Value, error){
	"-":  intOp(func(a, b int64) int64 { return a - b }),
	"*":  intOp(func(a, b int64) int64 { return a * b }),
	"/":  intDivOp,
	"==": eqOp,
	"<":  intCompareOp(func(a, b int64) bool { return a < b }),
	">":  intCompareOp(func(a, b int64) bool { return a > b }),
	"<=": intCompareOp(func(a, b int64) bool { return a <= b }),
	">=": intCompareOp(func(a, b int64) bool { return a >= b }),
	"&&": boolOp(func(a, b bool) bool { return a && b }),
	"||": boolOp(func(a, b bool) bool { return a || b }),
}

func intOp(f func(a, b int64) int64) func(Value, Value) (Value, error) {
	return func(av, bv Value) (Value, error) {
		a, b, err := asInts(av, bv)
		if err != nil {
			return nil, err
		}
		return &Int{Value: f(a, b)}, nil
	}
}

func intDivOp(av, bv Value) (Value, error) {
	a, b, err := asInts(av, bv)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, &RuntimeError{Report: &errors.Report{
			Schema:  "ailang.error/v1",
			Code:    errors.RT001,
			Phase:   "runtime",
			Message: "division by zero",
		}}
	}
	return &Int{Value: a / b}, nil
}

func intCompareOp(f func(a, b int64) bool) func(Value, Value) (Value, error) {
	return func(av, bv Value) (Value, error) {
		a, b, err := asInts(av, bv)
		if err != nil {
			return nil, err
		}
		return &Bool{Value: f(a, b)}, nil
	}
}

func boolOp(f func(a, b bool) bool) func(Value, Value) (Value, error) {
	return func(av, bv Value) (Value, error) {
		a, ok := av.(*Bool)
		if !ok {
			return nil, fmt.Errorf("eval: expected Bool, got %s", av.Type())
		}
		b, ok := bv.(*Bool)
		if !ok {
			return nil, fmt.Errorf("eval: expected Bool, got %s", bv.Type())
		}
		return &Bool{Value: f(a.Value, b.Value)}, nil
	}
}

// eqOp supports the scalar value kinds; structural equality over
// records, variants and arrays is left to a richer named builtin, not
// this fixed operator set (see internal/builtins).
func eqOp(av, bv Value) (Value, error) {
	switch a := av.(type) {
	case *Int:
		b, ok := bv.(*Int)
		return &Bool{Value: ok && a.Value == b.Value}, nil
	case *Char:
		b, ok := bv.(*Char)
		return &Bool{Value: ok && a.Value == b.Value}, nil
	case *Str:
		b, ok := bv.(*Str)
		return &Bool{Value: ok && a.Value == b.Value}, nil
	case *Bool:
		b, ok := bv.(*Bool)
		return &Bool{Value: ok && a.Value == b.Value}, nil
	case *Unit:
		_, ok := bv.(*Unit)
		return &Bool{Value: ok}, nil
	default:
		return nil, fmt.Errorf("eval: == is not defined for %s", av.Type())
	}
}

func asInts(av, bv Value) (int64, int64, error) {
	a, ok := av.(*Int)
	if !ok {
		return 0, 0, fmt.Errorf("eval: expected Int, got %s", av.Type())
	}
	b, ok := bv.(*Int)
	if !ok {
		return 0, 0, fmt.Errorf("eval: expected Int, got %s", bv.Type())
	}
	return a.Value, b.Value, nil
}
