package checker

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/kinds"
	"github.com/sunholo/ailang/internal/types"
)

// checkPattern destructures a surface pattern against scrutinee type ty,
// pushing any bound names onto the local scope (caller pops them), and
// returns the corresponding core.Pattern.
func (c *Checker) checkPattern(p ast.Pattern, ty types.Type) (core.Pattern, error) {
	switch p := p.(type) {
	case *ast.WildcardPattern:
		return &core.WildcardPattern{}, nil

	case *ast.NamePattern:
		c.pushLocal(p.Name, ty)
		return &core.NamePattern{Name: p.Name}, nil

	case *ast.RecordPattern:
		seen := make(map[string]int)
		fields := make([]core.RecordFieldPattern, 0, len(p.Names))
		for _, name := range p.Names {
			shadow := seen[name]
			seen[name]++
			fieldTy := types.Type(c.Types.Fresh(kinds.Type{}))
			goal := types.HasField{Field: name, Row: ty, Shadow: shadow}
			ev := c.newPlaceholder(p.Position(), goal)
			c.pushLocal(name, fieldTy)
			fields = append(fields, core.RecordFieldPattern{Name: name, Evidence: ev})
		}
		if p.CaptureRest {
			c.pushLocal(p.RestName, ty)
		}
		return &core.RecordPattern{Fields: fields, CaptureRest: p.CaptureRest, RestName: p.RestName}, nil

	case *ast.VariantPattern:
		payloadTy := types.Type(c.Types.Fresh(kinds.Type{}))
		goal := types.HasField{Field: p.Tag, Row: ty}
		ev := c.newPlaceholder(p.Position(), goal)
		c.pushLocal(p.Payload, payloadTy)
		return &core.VariantPattern{Tag: p.Tag, TagEvidence: ev, Payload: p.Payload}, nil

	default:
		return nil, c.newError("TC099", "typecheck", p.Position(), "unsupported pattern form")
	}
}

// patternBindingCount reports how many names checkPattern pushes for p, so
// callers know how many popLocal calls to issue afterward.
func patternBindingCount(p ast.Pattern) int {
	switch p := p.(type) {
	case *ast.NamePattern:
		return 1
	case *ast.RecordPattern:
		n := len(p.Names)
		if p.CaptureRest {
			n++
		}
		return n
	case *ast.VariantPattern:
		return 1
	default:
		return 0
	}
}

