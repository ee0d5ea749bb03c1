package eval

import (
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/sunholo/ailang/internal/errors"
)

// lookupBuiltinOp resolves a core.Builtin{Op} to its runtime value. Op is
// either one of the fixed infix operators (binaryOps, curried by
// lookupBuiltinOp's two-arg wrapper) or one of the named built-ins
// registered by internal/builtins into the checker's global scope (spec
// §6). Both kinds share the same core.Builtin carrier so the evaluator
// has a single dispatch point.
func (i *Interpreter) lookupBuiltinOp(op string) (Value, error) {
	if fn, ok := binaryOps[op]; ok {
		return &Builtin{Name: op, Fn: func(a Value) (Value, error) {
			return &Builtin{Name: op, Fn: func(b Value) (Value, error) {
				return fn(a, b)
			}}, nil
		}}, nil
	}
	if nb, ok := namedBuiltins[op]; ok {
		return nb(i), nil
	}
	return nil, fmt.Errorf("eval: no builtin %q", op)
}

// curryN builds the curried n-argument Value chain for a named builtin,
// matching the Closure/Builtin calling convention (spec §4.5
// StaticClosure: one argument pushed per application).
func curryN(name string, arity int, fn func(args []Value) (Value, error)) Value {
	var build func(collected []Value) Value
	build = func(collected []Value) Value {
		return &Builtin{Name: name, Fn: func(arg Value) (Value, error) {
			next := make([]Value, len(collected)+1)
			copy(next, collected)
			next[len(collected)] = arg
			if len(next) == arity {
				return fn(next)
			}
			return build(next), nil
		}}
	}
	return build(nil)
}

// namedBuiltins supplies the runtime side of every name internal/builtins
// registers a type scheme for. Keyed by surface name; each entry builds
// the Value the evaluator installs under core.Builtin{Op: name}.
var namedBuiltins = map[string]func(i *Interpreter) Value{
	// IO
	"pureIO": func(i *Interpreter) Value {
		return curryN("pureIO", 1, func(a []Value) (Value, error) {
			v := a[0]
			return &IOAction{Run: func() (Value, error) { return v, nil }}, nil
		})
	},
	"mapIO": func(i *Interpreter) Value {
		return curryN("mapIO", 2, func(a []Value) (Value, error) {
			f, action := a[0], a[1]
			io1, ok := action.(*IOAction)
			if !ok {
				return nil, fmt.Errorf("eval: mapIO expects an IO action, got %s", action.Type())
			}
			return &IOAction{Run: func() (Value, error) {
				v, err := io1.Run()
				if err != nil {
					return nil, err
				}
				return i.apply("", f, v)
			}}, nil
		})
	},
	"bindIO": func(i *Interpreter) Value {
		return curryN("bindIO", 2, func(a []Value) (Value, error) {
			action, f := a[0], a[1]
			io1, ok := action.(*IOAction)
			if !ok {
				return nil, fmt.Errorf("eval: bindIO expects an IO action, got %s", action.Type())
			}
			return &IOAction{Run: func() (Value, error) {
				v, err := io1.Run()
				if err != nil {
					return nil, err
				}
				next, err := i.apply("", f, v)
				if err != nil {
					return nil, err
				}
				io2, ok := next.(*IOAction)
				if !ok {
					return nil, fmt.Errorf("eval: bindIO continuation did not return an IO action")
				}
				return io2.Run()
			}}, nil
		})
	},
	"stdout": func(i *Interpreter) Value { return &Handle{Name: "stdout"} },
	"stdin":  func(i *Interpreter) Value { return &Handle{Name: "stdin"} },
	"writeStdout": func(i *Interpreter) Value {
		return curryN("writeStdout", 1, func(a []Value) (Value, error) {
			s, ok := a[0].(*Str)
			if !ok {
				return nil, fmt.Errorf("eval: writeStdout expects a String, got %s", a[0].Type())
			}
			return &IOAction{Run: func() (Value, error) {
				if _, err := io.WriteString(i.Stdout, s.Value); err != nil {
					return nil, wrapIOError(err)
				}
				return &Unit{}, nil
			}}, nil
		})
	},
	"flushStdout": func(i *Interpreter) Value {
		return &IOAction{Run: func() (Value, error) {
			if f, ok := i.Stdout.(flusher); ok {
				if err := f.Flush(); err != nil {
					return nil, wrapIOError(err)
				}
			}
			return &Unit{}, nil
		}}
	},
	"readLineStdin": func(i *Interpreter) Value {
		return &IOAction{Run: func() (Value, error) {
			line, err := i.Stdin.ReadString('\n')
			if err != nil && err != io.EOF {
				return nil, wrapIOError(err)
			}
			line = trimNewline(line)
			return &Str{Value: line}, nil
		}}
	},
	"trace": func(i *Interpreter) Value {
		return curryN("trace", 2, func(a []Value) (Value, error) {
			label, ok := a[0].(*Str)
			if !ok {
				return nil, fmt.Errorf("eval: trace expects a String label, got %s", a[0].Type())
			}
			fmt.Fprintf(i.Stdout, "[trace] %s: %s\n", label.Value, a[1].String())
			return a[1], nil
		})
	},
	"toUtf8": func(i *Interpreter) Value {
		return curryN("toUtf8", 1, func(a []Value) (Value, error) {
			b, ok := a[0].(*Bytes)
			if !ok {
				return nil, fmt.Errorf("eval: toUtf8 expects Bytes, got %s", a[0].Type())
			}
			if !utf8.Valid(b.Value) {
				return nil, &RuntimeError{Report: &errors.Report{
					Schema:  "ailang.error/v1",
					Code:    errors.RT007,
					Phase:   "runtime",
					Message: "toUtf8: invalid UTF-8 byte sequence",
				}}
			}
			// Normalize to NFC so string equality/length downstream
			// (eqString, lengthArray over splitString, ...) sees one
			// canonical form per grapheme regardless of how the source
			// bytes composed accents and combining marks.
			return &Str{Value: string(norm.NFC.Bytes(b.Value))}, nil
		})
	},
	"displayWidth": func(i *Interpreter) Value {
		return curryN("displayWidth", 1, func(a []Value) (Value, error) {
			s, ok := a[0].(*Str)
			if !ok {
				return nil, fmt.Errorf("eval: displayWidth expects a String, got %s", a[0].Type())
			}
			cols := 0
			for _, r := range s.Value {
				switch width.LookupRune(r).Kind() {
				case width.EastAsianWide, width.EastAsianFullwidth:
					cols += 2
				default:
					cols++
				}
			}
			return &Int{Value: int64(cols)}, nil
		})
	},

	// Strings
	"eqString": func(i *Interpreter) Value {
		return curryN("eqString", 2, func(a []Value) (Value, error) {
			x, y, err := asStrs(a[0], a[1])
			if err != nil {
				return nil, err
			}
			return &Bool{Value: x == y}, nil
		})
	},
	"filterString": func(i *Interpreter) Value {
		return curryN("filterString", 2, func(a []Value) (Value, error) {
			pred, s := a[0], a[1]
			str, ok := s.(*Str)
			if !ok {
				return nil, fmt.Errorf("eval: filterString expects a String, got %s", s.Type())
			}
			out := make([]rune, 0, len(str.Value))
			for _, r := range str.Value {
				keep, err := i.apply("", pred, &Char{Value: r})
				if err != nil {
					return nil, err
				}
				b, ok := keep.(*Bool)
				if !ok {
					return nil, fmt.Errorf("eval: filterString predicate did not return a Bool")
				}
				if b.Value {
					out = append(out, r)
				}
			}
			return &Str{Value: string(out)}, nil
		})
	},
	"splitString": func(i *Interpreter) Value {
		return curryN("splitString", 2, func(a []Value) (Value, error) {
			sep, ok := a[0].(*Char)
			if !ok {
				return nil, fmt.Errorf("eval: splitString expects a Char separator, got %s", a[0].Type())
			}
			str, ok := a[1].(*Str)
			if !ok {
				return nil, fmt.Errorf("eval: splitString expects a String, got %s", a[1].Type())
			}
			var parts []Value
			var cur []rune
			for _, r := range str.Value {
				if r == sep.Value {
					parts = append(parts, &Str{Value: string(cur)})
					cur = nil
					continue
				}
				cur = append(cur, r)
			}
			parts = append(parts, &Str{Value: string(cur)})
			return &Array{Elems: parts}, nil
		})
	},
	"foldlString": func(i *Interpreter) Value {
		return curryN("foldlString", 3, func(a []Value) (Value, error) {
			f, acc, s := a[0], a[1], a[2]
			str, ok := s.(*Str)
			if !ok {
				return nil, fmt.Errorf("eval: foldlString expects a String, got %s", s.Type())
			}
			for _, r := range str.Value {
				step, err := i.apply("", f, acc)
				if err != nil {
					return nil, err
				}
				acc, err = i.apply("", step, &Char{Value: r})
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		})
	},

	// Characters
	"eqChar": func(i *Interpreter) Value {
		return curryN("eqChar", 2, func(a []Value) (Value, error) {
			x, ok := a[0].(*Char)
			if !ok {
				return nil, fmt.Errorf("eval: eqChar expects a Char, got %s", a[0].Type())
			}
			y, ok := a[1].(*Char)
			if !ok {
				return nil, fmt.Errorf("eval: eqChar expects a Char, got %s", a[1].Type())
			}
			return &Bool{Value: x.Value == y.Value}, nil
		})
	},

	// Integers
	"eqInt": func(i *Interpreter) Value {
		return curryN("eqInt", 2, func(a []Value) (Value, error) {
			x, y, err := asInts(a[0], a[1])
			if err != nil {
				return nil, err
			}
			return &Bool{Value: x == y}, nil
		})
	},
	"ltInt": func(i *Interpreter) Value {
		return curryN("ltInt", 2, func(a []Value) (Value, error) {
			x, y, err := asInts(a[0], a[1])
			if err != nil {
				return nil, err
			}
			return &Bool{Value: x < y}, nil
		})
	},
	"showInt": func(i *Interpreter) Value {
		return curryN("showInt", 1, func(a []Value) (Value, error) {
			x, ok := a[0].(*Int)
			if !ok {
				return nil, fmt.Errorf("eval: showInt expects an Int, got %s", a[0].Type())
			}
			return &Str{Value: fmt.Sprintf("%d", x.Value)}, nil
		})
	},
	"add": func(i *Interpreter) Value {
		return curryN("add", 2, func(a []Value) (Value, error) {
			x, y, err := asInts(a[0], a[1])
			if err != nil {
				return nil, err
			}
			return &Int{Value: wrapInt64(x + y)}, nil
		})
	},
	"subtract": func(i *Interpreter) Value {
		return curryN("subtract", 2, func(a []Value) (Value, error) {
			x, y, err := asInts(a[0], a[1])
			if err != nil {
				return nil, err
			}
			return &Int{Value: wrapInt64(x - y)}, nil
		})
	},
	"multiply": func(i *Interpreter) Value {
		return curryN("multiply", 2, func(a []Value) (Value, error) {
			x, y, err := asInts(a[0], a[1])
			if err != nil {
				return nil, err
			}
			return &Int{Value: wrapInt64(x * y)}, nil
		})
	},

	// Arrays
	"eqArray": func(i *Interpreter) Value {
		return curryN("eqArray", 3, func(a []Value) (Value, error) {
			return arrayCompare(i, a[0], a[1], a[2], false)
		})
	},
	"ltArray": func(i *Interpreter) Value {
		return curryN("ltArray", 3, func(a []Value) (Value, error) {
			return arrayCompare(i, a[0], a[1], a[2], true)
		})
	},
	"foldlArray": func(i *Interpreter) Value {
		return curryN("foldlArray", 3, func(a []Value) (Value, error) {
			f, acc, arr := a[0], a[1], a[2]
			av, ok := arr.(*Array)
			if !ok {
				return nil, fmt.Errorf("eval: foldlArray expects an Array, got %s", arr.Type())
			}
			for _, elem := range av.Elems {
				step, err := i.apply("", f, acc)
				if err != nil {
					return nil, err
				}
				acc, err = i.apply("", step, elem)
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		})
	},
	"generateArray": func(i *Interpreter) Value {
		return curryN("generateArray", 2, func(a []Value) (Value, error) {
			n, ok := a[0].(*Int)
			if !ok {
				return nil, fmt.Errorf("eval: generateArray expects an Int length, got %s", a[0].Type())
			}
			f := a[1]
			elems := make([]Value, 0, n.Value)
			for idx := int64(0); idx < n.Value; idx++ {
				v, err := i.apply("", f, &Int{Value: idx})
				if err != nil {
					return nil, err
				}
				elems = append(elems, v)
			}
			return &Array{Elems: elems}, nil
		})
	},
	"lengthArray": func(i *Interpreter) Value {
		return curryN("lengthArray", 1, func(a []Value) (Value, error) {
			av, ok := a[0].(*Array)
			if !ok {
				return nil, fmt.Errorf("eval: lengthArray expects an Array, got %s", a[0].Type())
			}
			return &Int{Value: int64(len(av.Elems))}, nil
		})
	},
	"indexArray": func(i *Interpreter) Value {
		return curryN("indexArray", 2, func(a []Value) (Value, error) {
			av, ok := a[0].(*Array)
			if !ok {
				return nil, fmt.Errorf("eval: indexArray expects an Array, got %s", a[0].Type())
			}
			idx, ok := a[1].(*Int)
			if !ok {
				return nil, fmt.Errorf("eval: indexArray expects an Int index, got %s", a[1].Type())
			}
			if idx.Value < 0 || idx.Value >= int64(len(av.Elems)) {
				return nil, &RuntimeError{Report: &errors.Report{
					Schema:  "ailang.error/v1",
					Code:    errors.RT003,
					Phase:   "runtime",
					Message: fmt.Sprintf("indexArray: index %d out of bounds (length %d)", idx.Value, len(av.Elems)),
				}}
			}
			return av.Elems[idx.Value], nil
		})
	},
	"sliceArray": func(i *Interpreter) Value {
		return curryN("sliceArray", 3, func(a []Value) (Value, error) {
			av, ok := a[0].(*Array)
			if !ok {
				return nil, fmt.Errorf("eval: sliceArray expects an Array, got %s", a[0].Type())
			}
			lo, ok := a[1].(*Int)
			if !ok {
				return nil, fmt.Errorf("eval: sliceArray expects an Int start, got %s", a[1].Type())
			}
			hi, ok := a[2].(*Int)
			if !ok {
				return nil, fmt.Errorf("eval: sliceArray expects an Int end, got %s", a[2].Type())
			}
			if lo.Value < 0 || hi.Value > int64(len(av.Elems)) || lo.Value > hi.Value {
				return nil, &RuntimeError{Report: &errors.Report{
					Schema:  "ailang.error/v1",
					Code:    errors.RT003,
					Phase:   "runtime",
					Message: fmt.Sprintf("sliceArray: range [%d:%d) out of bounds (length %d)", lo.Value, hi.Value, len(av.Elems)),
				}}
			}
			out := make([]Value, hi.Value-lo.Value)
			copy(out, av.Elems[lo.Value:hi.Value])
			return &Array{Elems: out}, nil
		})
	},
	"snocArray": func(i *Interpreter) Value {
		return curryN("snocArray", 2, func(a []Value) (Value, error) {
			av, ok := a[0].(*Array)
			if !ok {
				return nil, fmt.Errorf("eval: snocArray expects an Array, got %s", a[0].Type())
			}
			out := make([]Value, len(av.Elems)+1)
			copy(out, av.Elems)
			out[len(av.Elems)] = a[1]
			return &Array{Elems: out}, nil
		})
	},
	"mapArray": func(i *Interpreter) Value {
		return curryN("mapArray", 2, func(a []Value) (Value, error) {
			f, arr := a[0], a[1]
			av, ok := arr.(*Array)
			if !ok {
				return nil, fmt.Errorf("eval: mapArray expects an Array, got %s", arr.Type())
			}
			out := make([]Value, len(av.Elems))
			for idx, elem := range av.Elems {
				v, err := i.apply("", f, elem)
				if err != nil {
					return nil, err
				}
				out[idx] = v
			}
			return &Array{Elems: out}, nil
		})
	},
	"flatMapArray": func(i *Interpreter) Value {
		return curryN("flatMapArray", 2, func(a []Value) (Value, error) {
			f, arr := a[0], a[1]
			av, ok := arr.(*Array)
			if !ok {
				return nil, fmt.Errorf("eval: flatMapArray expects an Array, got %s", arr.Type())
			}
			var out []Value
			for _, elem := range av.Elems {
				v, err := i.apply("", f, elem)
				if err != nil {
					return nil, err
				}
				sub, ok := v.(*Array)
				if !ok {
					return nil, fmt.Errorf("eval: flatMapArray function must return an Array, got %s", v.Type())
				}
				out = append(out, sub.Elems...)
			}
			return &Array{Elems: out}, nil
		})
	},
	"arrayUnfoldr": func(i *Interpreter) Value {
		// step : b -> Variant(0=Done, 1=More{x,b}); Tag 1's payload is a
		// two-field Record{x, b} (matching the same flattened Record
		// convention core.Record evaluates to).
		return curryN("arrayUnfoldr", 2, func(a []Value) (Value, error) {
			step, seed := a[0], a[1]
			var out []Value
			cur := seed
			for {
				v, err := i.apply("", step, cur)
				if err != nil {
					return nil, err
				}
				variant, ok := v.(*Variant)
				if !ok {
					return nil, fmt.Errorf("eval: arrayUnfoldr step must return a Variant, got %s", v.Type())
				}
				if variant.Tag == 0 {
					break
				}
				pair, ok := variant.Payload.(*Record)
				if !ok || len(pair.Fields) != 2 {
					return nil, fmt.Errorf("eval: arrayUnfoldr step's More payload must be a 2-field Record")
				}
				out = append(out, pair.Fields[0])
				cur = pair.Fields[1]
			}
			return &Array{Elems: out}, nil
		})
	},
}

type flusher interface {
	Flush() error
}

func wrapIOError(err error) error {
	return &RuntimeError{Report: &errors.Report{
		Schema:  "ailang.error/v1",
		Code:    errors.RT007,
		Phase:   "runtime",
		Message: err.Error(),
	}}
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
		if n := len(s); n > 0 && s[n-1] == '\r' {
			s = s[:n-1]
		}
	}
	return s
}

func asStrs(av, bv Value) (string, string, error) {
	a, ok := av.(*Str)
	if !ok {
		return "", "", fmt.Errorf("eval: expected String, got %s", av.Type())
	}
	b, ok := bv.(*Str)
	if !ok {
		return "", "", fmt.Errorf("eval: expected String, got %s", bv.Type())
	}
	return a.Value, b.Value, nil
}

// wrapInt64 documents that Int arithmetic wraps on overflow (two's
// complement, matching Go's int64): no explicit masking is needed, this
// just names the behavior at each call site per the wraparound semantics
// integers are specified to have.
func wrapInt64(v int64) int64 { return v }

func arrayCompare(i *Interpreter, cmp, xv, yv Value, lessThan bool) (Value, error) {
	x, ok := xv.(*Array)
	if !ok {
		return nil, fmt.Errorf("eval: expected Array, got %s", xv.Type())
	}
	y, ok := yv.(*Array)
	if !ok {
		return nil, fmt.Errorf("eval: expected Array, got %s", yv.Type())
	}
	if lessThan {
		n := len(x.Elems)
		if len(y.Elems) < n {
			n = len(y.Elems)
		}
		for idx := 0; idx < n; idx++ {
			lt, err := applyBool2(i, cmp, x.Elems[idx], y.Elems[idx])
			if err != nil {
				return nil, err
			}
			if lt {
				return &Bool{Value: true}, nil
			}
			gt, err := applyBool2(i, cmp, y.Elems[idx], x.Elems[idx])
			if err != nil {
				return nil, err
			}
			if gt {
				return &Bool{Value: false}, nil
			}
		}
		return &Bool{Value: len(x.Elems) < len(y.Elems)}, nil
	}
	if len(x.Elems) != len(y.Elems) {
		return &Bool{Value: false}, nil
	}
	for idx := range x.Elems {
		eq, err := applyBool2(i, cmp, x.Elems[idx], y.Elems[idx])
		if err != nil {
			return nil, err
		}
		if !eq {
			return &Bool{Value: false}, nil
		}
	}
	return &Bool{Value: true}, nil
}

func applyBool2(i *Interpreter, f, a, b Value) (bool, error) {
	step, err := i.apply("", f, a)
	if err != nil {
		return false, err
	}
	res, err := i.apply("", step, b)
	if err != nil {
		return false, err
	}
	bv, ok := res.(*Bool)
	if !ok {
		return false, fmt.Errorf("eval: comparison function did not return a Bool")
	}
	return bv.Value, nil
}
