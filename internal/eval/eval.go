package eval

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/module"
)

// RuntimeError carries a structured errors.Report, mirroring the checker's
// CheckError (spec §7: every error, checked or runtime, carries a source
// offset and a stable code).
type RuntimeError struct {
	Report *errors.Report
}

func (e *RuntimeError) Error() string { return e.Report.Code + ": " + e.Report.Message }

func newError(code string, pos core.Expr, msg string) *RuntimeError {
	span := pos.Span()
	return &RuntimeError{Report: &errors.Report{
		Schema:  "ailang.error/v1",
		Code:    code,
		Phase:   "runtime",
		Message: msg,
		Data:    map[string]any{"offset": span.Offset, "source": span.Source},
	}}
}

// Interpreter threads the module context and a per-module cache of
// already-evaluated top-level bindings through a tree-walking evaluation
// of core.Expr (spec §4.5). Top-level Name references are resolved
// lazily against this cache rather than eagerly inlined, so mutually
// recursive definitions and self-recursive functions both work without a
// dedicated LetRec core form (see core.Let's doc comment).
type Interpreter struct {
	Modules *module.Context
	cache   map[string]map[string]Value

	// Stdin/Stdout back the IO built-ins (spec §4.5: "the standard input
	// reader and standard output writer are single mutable resources held
	// by the evaluator and used serially"). Tests may swap these for
	// in-memory buffers.
	Stdin  *bufio.Reader
	Stdout io.Writer
}

// New builds an Interpreter over an already-populated module context,
// wired to the process's real stdin/stdout.
func New(modules *module.Context) *Interpreter {
	return &Interpreter{
		Modules: modules,
		cache:   make(map[string]map[string]Value),
		Stdin:   bufio.NewReader(os.Stdin),
		Stdout:  os.Stdout,
	}
}

// EvalModule evaluates every top-level binding of m, in declaration
// order, memoizing each into the interpreter's global cache so later
// bindings (and recursive calls back into earlier ones) resolve without
// recomputation.
func (i *Interpreter) EvalModule(m *module.Module) error {
	slot := i.cache[m.Path]
	if slot == nil {
		slot = make(map[string]Value)
		i.cache[m.Path] = slot
	}
	for _, name := range m.Order {
		v, err := i.Eval(m.Path, nil, m.Bindings[name])
		if err != nil {
			return err
		}
		slot[name] = v
	}
	return nil
}

// Global looks up an already-evaluated top-level binding by path and
// name, evaluating it on first access if the module has bindings but
// EvalModule has not yet run over it. A name the module does not bind
// but that names a built-in resolves to that built-in.
func (i *Interpreter) Global(path, name string) (Value, error) {
	if slot, ok := i.cache[path]; ok {
		if v, ok := slot[name]; ok {
			return v, nil
		}
	}
	m, ok := i.Modules.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("eval: unknown module %q", path)
	}
	expr, ok := m.Bindings[name]
	if !ok {
		if _, isBuiltin := namedBuiltins[name]; isBuiltin {
			return i.lookupBuiltinOp(name)
		}
		return nil, fmt.Errorf("eval: module %q has no binding %q", path, name)
	}
	v, err := i.Eval(path, nil, expr)
	if err != nil {
		return nil, err
	}
	slot := i.cache[path]
	if slot == nil {
		slot = make(map[string]Value)
		i.cache[path] = slot
	}
	slot[name] = v
	return v, nil
}

// Eval evaluates e under env, as a member of the module at path (needed
// to resolve core.Name and core.Module references against the right
// binding set and import-alias map).
func (i *Interpreter) Eval(path string, env Env, e core.Expr) (Value, error) {
	switch n := e.(type) {
	case *core.Var:
		return env.Lookup(n.Index), nil
	case *core.EVar:
		return env.Lookup(n.Index), nil
	case *core.Name:
		return i.Global(path, n.Name)
	case *core.Module:
		m, ok := i.Modules.Lookup(path)
		if !ok {
			return nil, fmt.Errorf("eval: unknown module %q", path)
		}
		target, ok := m.Imports[n.ModRef]
		if !ok {
			return nil, fmt.Errorf("eval: %q has no import named %q", path, n.ModRef)
		}
		return i.Global(target, n.Item)
	case *core.App:
		fn, err := i.Eval(path, env, n.Func)
		if err != nil {
			return nil, err
		}
		arg, err := i.Eval(path, env, n.Arg)
		if err != nil {
			return nil, err
		}
		return i.apply(path, fn, arg)
	case *core.Lam:
		return &Closure{BindsArg: n.BindsArg, Body: n.Body, Env: env}, nil
	case *core.Let:
		v, err := i.Eval(path, env, n.Value)
		if err != nil {
			return nil, err
		}
		return i.Eval(path, env.Push(v), n.Body)
	case *core.True:
		return &Bool{Value: true}, nil
	case *core.False:
		return &Bool{Value: false}, nil
	case *core.IfThenElse:
		cond, err := i.Eval(path, env, n.Cond)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(*Bool)
		if !ok {
			return nil, newError(errors.RT006, e, fmt.Sprintf("if condition is not a Bool: %s", cond.Type()))
		}
		if b.Value {
			return i.Eval(path, env, n.Then)
		}
		return i.Eval(path, env, n.Else)
	case *core.Int:
		return &Int{Value: n.Value}, nil
	case *core.CharLit:
		return &Char{Value: n.Value}, nil
	case *core.StringLit:
		out := ""
		for _, p := range n.Parts {
			if p.Expr == nil {
				out += p.Literal
				continue
			}
			v, err := i.Eval(path, env, p.Expr)
			if err != nil {
				return nil, err
			}
			out += stringOf(v)
		}
		return &Str{Value: out}, nil
	case *core.Array:
		elems := make([]Value, len(n.Elems))
		for idx, el := range n.Elems {
			v, err := i.Eval(path, env, el)
			if err != nil {
				return nil, err
			}
			elems[idx] = v
		}
		return &Array{Elems: elems}, nil
	case *core.Record:
		acc := &Record{}
		// Each field's evidence is the insertion index into the record as
		// assembled so far, and fields elaborate in declaration order but
		// compose like nested Extends from the last field inward, so they
		// must be applied back to front for the final layout to match the
		// declared field order. A literal with a spread base elaborates to
		// core.Extend instead of reaching this case at all.
		for idx := len(n.Fields) - 1; idx >= 0; idx-- {
			f := n.Fields[idx]
			at, err := i.evalIndex(path, env, f.Evidence)
			if err != nil {
				return nil, err
			}
			v, err := i.Eval(path, env, f.Value)
			if err != nil {
				return nil, err
			}
			if at < 0 || at > len(acc.Fields) {
				return nil, newError(errors.RT003, e, "record field insertion index out of bounds")
			}
			fields := make([]Value, 0, len(acc.Fields)+1)
			fields = append(fields, acc.Fields[:at]...)
			fields = append(fields, v)
			fields = append(fields, acc.Fields[at:]...)
			acc = &Record{Fields: fields}
		}
		return acc, nil
	case *core.Project:
		rec, err := i.Eval(path, env, n.Record)
		if err != nil {
			return nil, err
		}
		idx, err := i.evalIndex(path, env, n.Evidence)
		if err != nil {
			return nil, err
		}
		rr, ok := rec.(*Record)
		if !ok {
			return nil, newError(errors.RT006, e, "projection target is not a record")
		}
		if idx < 0 || idx >= len(rr.Fields) {
			return nil, newError(errors.RT003, e, "record field index out of bounds")
		}
		return rr.Fields[idx], nil
	case *core.Extend:
		idx, err := i.evalIndex(path, env, n.Evidence)
		if err != nil {
			return nil, err
		}
		val, err := i.Eval(path, env, n.Value)
		if err != nil {
			return nil, err
		}
		rest, err := i.Eval(path, env, n.Rest)
		if err != nil {
			return nil, err
		}
		rr, ok := rest.(*Record)
		if !ok {
			return nil, newError(errors.RT006, e, "extend base is not a record")
		}
		if idx < 0 || idx > len(rr.Fields) {
			return nil, newError(errors.RT003, e, "extend index out of bounds")
		}
		fields := make([]Value, 0, len(rr.Fields)+1)
		fields = append(fields, rr.Fields[:idx]...)
		fields = append(fields, val)
		fields = append(fields, rr.Fields[idx:]...)
		return &Record{Fields: fields}, nil
	case *core.Variant:
		tag, err := i.evalIndex(path, env, n.TagEvidence)
		if err != nil {
			return nil, err
		}
		return &Builtin{Name: "variant", Fn: func(arg Value) (Value, error) {
			return &Variant{Tag: tag, Payload: arg}, nil
		}}, nil
	case *core.Embed:
		tag, err := i.evalIndex(path, env, n.TagEvidence)
		if err != nil {
			return nil, err
		}
		rest, err := i.Eval(path, env, n.Rest)
		if err != nil {
			return nil, err
		}
		vv, ok := rest.(*Variant)
		if !ok {
			return nil, newError(errors.RT006, e, "embed target is not a variant")
		}
		newTag := vv.Tag
		if newTag >= tag {
			newTag++
		}
		return &Variant{Tag: newTag, Payload: vv.Payload}, nil
	case *core.Case:
		return i.evalCase(path, env, n)
	case *core.Unit:
		return &Unit{}, nil
	case *core.Builtin:
		return i.lookupBuiltinOp(n.Op)
	case *core.Binop:
		return i.evalBinop(path, env, n)
	case *core.Placeholder:
		return nil, newError(errors.RT006, e, "unresolved evidence placeholder reached the evaluator")
	default:
		return nil, newError(errors.RT006, e, fmt.Sprintf("unsupported core expression %T", e))
	}
}

// evalIndex evaluates an evidence expression that must reduce to an
// integer runtime index (a solved HasField or constructor-tag term).
func (i *Interpreter) evalIndex(path string, env Env, ev core.Expr) (int, error) {
	v, err := i.Eval(path, env, ev)
	if err != nil {
		return 0, err
	}
	iv, ok := v.(*Int)
	if !ok {
		return 0, newError(errors.RT006, ev, "evidence term did not evaluate to an integer index")
	}
	return int(iv.Value), nil
}

func (i *Interpreter) apply(path string, fn Value, arg Value) (Value, error) {
	switch f := fn.(type) {
	case *Closure:
		if !f.BindsArg {
			return i.Eval(path, f.Env, f.Body)
		}
		return i.Eval(path, f.Env.Push(arg), f.Body)
	case *Builtin:
		return f.Fn(arg)
	default:
		return nil, fmt.Errorf("eval: cannot apply non-function value %s", fn.Type())
	}
}

func (i *Interpreter) evalBinop(path string, env Env, n *core.Binop) (Value, error) {
	a, err := i.Eval(path, env, n.A)
	if err != nil {
		return nil, err
	}
	b, err := i.Eval(path, env, n.B)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case core.OpAdd:
		av, bv, err := asInts(a, b)
		if err != nil {
			return nil, newError(errors.RT006, n, err.Error())
		}
		return &Int{Value: av + bv}, nil
	default:
		return nil, newError(errors.RT006, n, fmt.Sprintf("unsupported core binop %q", n.Op))
	}
}

func (i *Interpreter) evalCase(path string, env Env, n *core.Case) (Value, error) {
	scrutinee, err := i.Eval(path, env, n.Scrutinee)
	if err != nil {
		return nil, err
	}
	for _, branch := range n.Branches {
		ext, ok, err := i.matchPattern(path, env, branch.Pattern, scrutinee)
		if err != nil {
			return nil, err
		}
		if ok {
			return i.Eval(path, ext, branch.Body)
		}
	}
	return nil, newError(errors.RT002, n, "no case branch matched the scrutinee")
}

// matchPattern reports whether pat matches v, returning the environment
// extended with any bindings the pattern introduces (in the order the
// checker assigned their de Bruijn indices).
func (i *Interpreter) matchPattern(path string, env Env, pat core.Pattern, v Value) (Env, bool, error) {
	switch p := pat.(type) {
	case *core.WildcardPattern:
		return env, true, nil
	case *core.NamePattern:
		return env.Push(v), true, nil
	case *core.RecordPattern:
		rec, ok := v.(*Record)
		if !ok {
			return env, false, nil
		}
		ext := env
		for _, f := range p.Fields {
			idx, err := i.evalIndex(path, env, f.Evidence)
			if err != nil {
				return env, false, err
			}
			if idx < 0 || idx >= len(rec.Fields) {
				return env, false, nil
			}
			ext = ext.Push(rec.Fields[idx])
		}
		if p.CaptureRest {
			taken := make(map[int]bool, len(p.Fields))
			for _, f := range p.Fields {
				idx, _ := i.evalIndex(path, env, f.Evidence)
				taken[idx] = true
			}
			rest := make([]Value, 0, len(rec.Fields))
			for idx, fv := range rec.Fields {
				if !taken[idx] {
					rest = append(rest, fv)
				}
			}
			ext = ext.Push(&Record{Fields: rest})
		}
		return ext, true, nil
	case *core.VariantPattern:
		vv, ok := v.(*Variant)
		if !ok {
			return env, false, nil
		}
		tag, err := i.evalIndex(path, env, p.TagEvidence)
		if err != nil {
			return env, false, err
		}
		if vv.Tag != tag {
			return env, false, nil
		}
		return env.Push(vv.Payload), true, nil
	default:
		return env, false, fmt.Errorf("eval: unsupported core pattern %T", pat)
	}
}

func stringOf(v Value) string {
	if s, ok := v.(*Str); ok {
		return s.Value
	}
	return v.String()
}
