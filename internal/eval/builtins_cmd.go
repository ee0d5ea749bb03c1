package eval

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sunholo/ailang/internal/errors"
)

// Cmd values erase to the same runtime shape as String (the type checker
// keeps Cmd and String apart; the evaluator does not need a distinct
// representation for a value that is only ever a shell command line).
// cmdRun, cmdRead, cmdLines and showCmd are the only operations the
// surface language performs on one.
func init() {
	namedBuiltins["cmdRun"] = func(i *Interpreter) Value {
		return curryN("cmdRun", 1, func(a []Value) (Value, error) {
			cmd, err := commandOf(a[0])
			if err != nil {
				return nil, err
			}
			return &IOAction{Run: func() (Value, error) {
				if err := cmd.Run(); err != nil {
					if exitErr, ok := err.(*exec.ExitError); ok {
						return &Int{Value: int64(exitErr.ExitCode())}, nil
					}
					return nil, wrapIOError(err)
				}
				return &Int{Value: 0}, nil
			}}, nil
		})
	}
	namedBuiltins["cmdRead"] = func(i *Interpreter) Value {
		return curryN("cmdRead", 1, func(a []Value) (Value, error) {
			cmd, err := commandOf(a[0])
			if err != nil {
				return nil, err
			}
			return &IOAction{Run: func() (Value, error) {
				out, err := cmd.Output()
				if err != nil {
					return nil, wrapIOError(err)
				}
				return &Str{Value: strings.TrimRight(string(out), "\n")}, nil
			}}, nil
		})
	}
	namedBuiltins["cmdLines"] = func(i *Interpreter) Value {
		return curryN("cmdLines", 1, func(a []Value) (Value, error) {
			cmd, err := commandOf(a[0])
			if err != nil {
				return nil, err
			}
			return &IOAction{Run: func() (Value, error) {
				var buf bytes.Buffer
				cmd.Stdout = &buf
				if err := cmd.Run(); err != nil {
					return nil, wrapIOError(err)
				}
				lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
				elems := make([]Value, len(lines))
				for idx, l := range lines {
					elems[idx] = &Str{Value: l}
				}
				return &Array{Elems: elems}, nil
			}}, nil
		})
	}
	namedBuiltins["showCmd"] = func(i *Interpreter) Value {
		return curryN("showCmd", 1, func(a []Value) (Value, error) {
			s, ok := a[0].(*Str)
			if !ok {
				return nil, fmt.Errorf("eval: showCmd expects a Cmd, got %s", a[0].Type())
			}
			return &Str{Value: s.Value}, nil
		})
	}
}

func commandOf(v Value) (*exec.Cmd, error) {
	s, ok := v.(*Str)
	if !ok {
		return nil, fmt.Errorf("eval: expected a Cmd value, got %s", v.Type())
	}
	fields := strings.Fields(s.Value)
	if len(fields) == 0 {
		return nil, &RuntimeError{Report: &errors.Report{
			Schema:  "ailang.error/v1",
			Code:    errors.RT007,
			Phase:   "runtime",
			Message: "cmd: empty command line",
		}}
	}
	return exec.Command(fields[0], fields[1:]...), nil
}
