// Package checker implements component C (spec §4.3): scope resolution,
// kind inference, type inference/checking, elaboration to core terms, and
// per-declaration generalization. It follows the structure of the
// teacher's internal/types/typechecker_core.go (infer/check as mutually
// recursive operations over a bound-variable stack) but targets the
// specified core term language (internal/core) and evidence/placeholder
// elaboration model instead of the teacher's ANF ab (internal/elaborate).
package checker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/errors"
	"github.com/sunholo/ailang/internal/evidence"
	"github.com/sunholo/ailang/internal/kinds"
	"github.com/sunholo/ailang/internal/types"
)

// scopeEntry is one bound local: de Bruijn index k counts back from the
// end of the slice (innermost first), matching the evaluator's
// env[len-1-ix] convention.
type scopeEntry struct {
	Name string
	Ty   types.Type
}

// GlobalBinding is a fully generalized top-level signature plus its
// elaborated (but not yet evidence-solved) core body.
type GlobalBinding struct {
	Scheme types.Scheme
	Body   core.Expr
}

// Checker holds one module's checking session: its own kind/type stores,
// the evidence database built up by class/instance declarations, and the
// global context of previously-checked bindings (spec §4: "the type-
// checker session owns its kind and type stores").
type Checker struct {
	Kinds    *kinds.Store
	Types    *types.Store
	Evidence *evidence.Database

	// SessionID tags every diagnostic produced by this Checker, so a
	// batch of reports from one run can be correlated even after they've
	// been scattered across logs or separate JSON blobs.
	SessionID uuid.UUID

	Globals        map[string]*GlobalBinding
	TypeAliases    map[string]ast.Type
	ClassArity     map[string]int      // class name -> number of type args, for kind lookup
	ClassSupersLen map[string]int      // class name -> number of superclass constraints
	ClassArgs      map[string][]string // class name -> its own type-argument names, in order
	ClassSupers    map[string][]ast.Type // class name -> unresolved superclass constraints, in terms of ClassArgs

	scope []scopeEntry

	nextNodeID     uint64
	placeholders   []*core.Placeholder
	placeholderGoal map[uint64]types.Type
}

func New() *Checker {
	ks := kinds.NewStore()
	ts := types.NewStore(ks)
	return &Checker{
		Kinds:           ks,
		Types:           ts,
		Evidence:        evidence.NewDatabase(),
		SessionID:       uuid.New(),
		Globals:         make(map[string]*GlobalBinding),
		TypeAliases:     make(map[string]ast.Type),
		ClassArity:      make(map[string]int),
		ClassSupersLen:  make(map[string]int),
		ClassArgs:       make(map[string][]string),
		ClassSupers:     make(map[string][]ast.Type),
		placeholderGoal: make(map[uint64]types.Type),
	}
}

func (c *Checker) freshNode(pos ast.Pos) core.Node {
	c.nextNodeID++
	return core.Node{NodeID: c.nextNodeID, CoreSpan: pos, OrigSpan: pos}
}

func (c *Checker) pushLocal(name string, ty types.Type) {
	c.scope = append(c.scope, scopeEntry{Name: name, Ty: ty})
}

func (c *Checker) popLocal() {
	c.scope = c.scope[:len(c.scope)-1]
}

func (c *Checker) lookupLocal(name string) (idx int, ty types.Type, ok bool) {
	for k := 0; k < len(c.scope); k++ {
		e := c.scope[len(c.scope)-1-k]
		if e.Name == name {
			return k, e.Ty, true
		}
	}
	return 0, nil, false
}

// newPlaceholder records a not-yet-solved evidence obligation for goal and
// returns the core.Placeholder node standing in for it; CheckModule's final
// solving pass resolves every one before returning (spec §4.3/§4.4).
func (c *Checker) newPlaceholder(pos ast.Pos, goal types.Type) *core.Placeholder {
	c.nextNodeID++
	ph := &core.Placeholder{Node: c.freshNode(pos), ID: c.nextNodeID}
	c.placeholders = append(c.placeholders, ph)
	c.placeholderGoal[ph.ID] = goal
	return ph
}

// CheckError carries a structured errors.Report (spec §7: "every error
// carries a source offset").
type CheckError struct {
	Report *errors.Report
}

func (e *CheckError) Error() string { return e.Report.Code + ": " + e.Report.Message }

func (c *Checker) newError(code, phase string, pos ast.Pos, msg string) *CheckError {
	return &CheckError{Report: &errors.Report{
		Schema:  "ailang.error/v1",
		Code:    code,
		Phase:   phase,
		Message: msg,
		Data:    map[string]any{"offset": pos.Offset, "source": pos.Source, "session": c.SessionID.String()},
	}}
}

func (c *Checker) notInScope(pos ast.Pos, name string) error {
	return c.newError(errors.TC002, "typecheck", pos, fmt.Sprintf("%q is not in scope", name))
}

func (c *Checker) typeMismatch(pos ast.Pos, want, got types.Type) error {
	return c.newError(errors.TC001, "typecheck", pos, fmt.Sprintf("type mismatch: expected %s, got %s", want, got))
}
