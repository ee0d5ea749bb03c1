package parser

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/lexer"
)

// parseAtomPattern parses one pattern: a name, `_`, a record pattern
// `{a, b, ...rest}`, or a variant pattern `Tag payload`.
func (p *Parser) parseAtomPattern() (ast.Pattern, error) {
	pos := p.pos_()
	t := p.cur()
	switch {
	case t.Kind == lexer.Ident && t.Text == "_":
		p.advance()
		return &ast.WildcardPattern{Loc: newBase(pos)}, nil

	case t.Kind == lexer.Ident:
		p.advance()
		return &ast.NamePattern{Name: t.Text, Loc: newBase(pos)}, nil

	case t.Kind == lexer.UpperIdent:
		p.advance()
		payload := "_"
		if p.cur().Kind == lexer.Ident {
			payload = p.advance().Text
		}
		return &ast.VariantPattern{Tag: t.Text, Payload: payload, Loc: newBase(pos)}, nil

	case t.Kind == lexer.Symbol && t.Text == "{":
		p.advance()
		var names []string
		captureRest := false
		restName := ""
		for !p.atSym("}") {
			if p.atSym("...") {
				p.advance()
				restName = p.advance().Text
				captureRest = true
			} else {
				names = append(names, p.advance().Text)
			}
			if p.atSym(",") {
				p.advance()
			}
		}
		p.advance() // }
		return &ast.RecordPattern{Names: names, CaptureRest: captureRest, RestName: restName, Loc: newBase(pos)}, nil

	case t.Kind == lexer.Symbol && t.Text == "(":
		p.advance()
		inner, err := p.parseAtomPattern()
		if err != nil {
			return nil, err
		}
		if err := p.expectSym(")"); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, &Error{Offset: t.Offset, Message: "unexpected token " + t.Text + " in pattern"}
	}
}
