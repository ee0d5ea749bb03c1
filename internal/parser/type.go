package parser

import (
	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/lexer"
)

// parseType parses `[C1, ..., Cn =>] appType [-> type]`.
func (p *Parser) parseType() (ast.Type, error) {
	first, err := p.parseAppType()
	if err != nil {
		return nil, err
	}
	parts := []ast.Type{first}
	for p.atSym(",") {
		p.advance()
		next, err := p.parseAppType()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	if p.atSym("=>") {
		p.advance()
		body, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.TQualified{Constraints: parts, Body: body}, nil
	}
	t := parts[0]
	if p.atSym("->") {
		p.advance()
		cod, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.TArrow{Dom: t, Cod: cod}, nil
	}
	return t, nil
}

func (p *Parser) parseAppType() (ast.Type, error) {
	fn, err := p.parseTypeAtom()
	if err != nil {
		return nil, err
	}
	for p.startsTypeAtom() {
		arg, err := p.parseTypeAtom()
		if err != nil {
			return nil, err
		}
		fn = &ast.TApp{Fun: fn, Arg: arg}
	}
	return fn, nil
}

func (p *Parser) startsTypeAtom() bool {
	t := p.cur()
	if t.Kind == lexer.Ident || t.Kind == lexer.UpperIdent {
		return true
	}
	return t.Kind == lexer.Symbol && (t.Text == "(" || t.Text == "{" || t.Text == "<|")
}

func (p *Parser) parseTypeAtom() (ast.Type, error) {
	t := p.cur()
	switch {
	case t.Kind == lexer.Ident:
		p.advance()
		return &ast.TVar{Name: t.Text}, nil
	case t.Kind == lexer.UpperIdent:
		p.advance()
		return &ast.TCon{Name: t.Text}, nil
	case t.Kind == lexer.Symbol && t.Text == "(":
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expectSym(")"); err != nil {
			return nil, err
		}
		return inner, nil
	case t.Kind == lexer.Symbol && t.Text == "{":
		return p.parseRecordType()
	case t.Kind == lexer.Symbol && t.Text == "<|":
		return p.parseVariantType()
	default:
		return nil, &Error{Offset: t.Offset, Message: "unexpected token " + t.Text + " in type"}
	}
}

func (p *Parser) parseRowFields() ([]ast.TRowField, string, error) {
	var fields []ast.TRowField
	tail := ""
	for !p.atSym("}") && !p.atSym("|>") {
		// A bare lowercase identifier not followed by ':' is the tail var.
		if p.cur().Kind == lexer.Ident && p.peekAt(1).Text != ":" {
			tail = p.advance().Text
		} else {
			name := p.advance().Text
			if err := p.expectSym(":"); err != nil {
				return nil, "", err
			}
			ty, err := p.parseType()
			if err != nil {
				return nil, "", err
			}
			fields = append(fields, ast.TRowField{Name: name, Type: ty})
		}
		if p.atSym(",") {
			p.advance()
		}
	}
	return fields, tail, nil
}

func (p *Parser) parseRecordType() (ast.Type, error) {
	p.advance() // {
	fields, tail, err := p.parseRowFields()
	if err != nil {
		return nil, err
	}
	if err := p.expectSym("}"); err != nil {
		return nil, err
	}
	return &ast.TRecord{Fields: fields, TailVar: tail}, nil
}

func (p *Parser) parseVariantType() (ast.Type, error) {
	p.advance() // <|
	fields, tail, err := p.parseRowFields()
	if err != nil {
		return nil, err
	}
	if err := p.expectSym("|>"); err != nil {
		return nil, err
	}
	return &ast.TVariant{Fields: fields, TailVar: tail}, nil
}
