// Package module holds the flat module context the evaluator and checker
// share: a canonical-path keyed map of compiled modules, each carrying its
// own binding set and import-alias map (spec §4.5, §9). There is no loader,
// linker, or dependency-ordering pass here; the driver in cmd/ailang compiles
// a single module and its direct imports are resolved by path lookup only.
package module

import (
	"fmt"

	"github.com/sunholo/ailang/internal/core"
)

// Module is one compiled source file: its top-level bindings in
// definition order, plus the import map used to resolve Module(modRef,
// item) references that appear inside its own bodies.
type Module struct {
	Path     string
	Bindings map[string]core.Expr
	Order    []string // binding names in declaration order, for deterministic eval
	Imports  map[string]string // alias -> canonical path
}

func New(path string) *Module {
	return &Module{
		Path:     path,
		Bindings: make(map[string]core.Expr),
		Imports:  make(map[string]string),
	}
}

func (m *Module) Define(name string, body core.Expr) {
	if _, exists := m.Bindings[name]; !exists {
		m.Order = append(m.Order, name)
	}
	m.Bindings[name] = body
}

func (m *Module) Import(alias, path string) {
	m.Imports[alias] = path
}

// Context is the module-id -> module map threaded through the
// Interpreter (spec §4.5). It is populated by the driver before
// evaluation starts; nothing in this package resolves imports
// transitively or detects cycles (spec §9: that is the driver's job,
// out of scope here).
type Context struct {
	modules map[string]*Module
}

func NewContext() *Context {
	return &Context{modules: make(map[string]*Module)}
}

func (c *Context) Add(m *Module) {
	c.modules[m.Path] = m
}

func (c *Context) Lookup(path string) (*Module, bool) {
	m, ok := c.modules[path]
	return m, ok
}

// Resolve implements `Module(modRef, item)` dispatch: modRef is resolved
// through the defining module's own import map to a canonical path, then
// item is read from that module's bindings.
func (c *Context) Resolve(fromModule, modRef, item string) (core.Expr, error) {
	from, ok := c.modules[fromModule]
	if !ok {
		return nil, fmt.Errorf("module: unknown module %q", fromModule)
	}
	path, ok := from.Imports[modRef]
	if !ok {
		return nil, fmt.Errorf("module: %q has no import named %q", fromModule, modRef)
	}
	target, ok := c.modules[path]
	if !ok {
		return nil, fmt.Errorf("module: import %q (-> %q) of %q is not loaded", modRef, path, fromModule)
	}
	expr, ok := target.Bindings[item]
	if !ok {
		return nil, fmt.Errorf("module: %q has no binding %q", path, item)
	}
	return expr, nil
}
