package eval

// Env is the de Bruijn-indexed local environment: a stack of lambda- and
// pattern-bound values, in the same append/reverse-offset convention used
// by the checker's local scope (internal/checker.Checker.lookupLocal) and
// by core.Var/core.EVar's Index field (spec: "env[len-1-Index]").
type Env []Value

// Push returns a new environment with v bound at de Bruijn index 0,
// shifting every existing binding's index up by one.
func (e Env) Push(v Value) Env {
	next := make(Env, len(e)+1)
	copy(next, e)
	next[len(e)] = v
	return next
}

// Lookup resolves a de Bruijn index against the current environment.
func (e Env) Lookup(index int) Value {
	return e[len(e)-1-index]
}
