package parser

import "github.com/sunholo/ailang/internal/ast"

func newBase(pos ast.Pos) ast.Loc {
	return ast.Loc{P: pos}
}
