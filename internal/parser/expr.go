package parser

import (
	"strconv"
	"strings"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/lexer"
)

// parseExpr parses the lowest-precedence form: `let`/`if`/`case`/lambda, or
// falls through to binary-operator precedence.
func (p *Parser) parseExpr() (ast.Expr, error) {
	switch {
	case p.atKw("let"):
		return p.parseLet()
	case p.atKw("if"):
		return p.parseIf()
	case p.atKw("case"):
		return p.parseCase()
	case p.atSym("\\"):
		return p.parseLambda()
	default:
		return p.parseBinop(0)
	}
}

func (p *Parser) parseLet() (ast.Expr, error) {
	pos := p.pos_()
	p.advance() // let
	name := p.advance().Text
	if err := p.expectSym("="); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKw("in"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Let{Name: name, Value: value, Body: body, Loc: newBase(pos)}, nil
}

func (p *Parser) parseIf() (ast.Expr, error) {
	pos := p.pos_()
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKw("then"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKw("else"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.If{Cond: cond, Then: then, Else: els, Loc: newBase(pos)}, nil
}

func (p *Parser) parseLambda() (ast.Expr, error) {
	pos := p.pos_()
	p.advance() // backslash
	var params []ast.Pattern
	for !p.atSym("->") {
		pat, err := p.parseAtomPattern()
		if err != nil {
			return nil, err
		}
		params = append(params, pat)
	}
	p.advance() // ->
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Lam{Params: params, Body: body, Loc: newBase(pos)}, nil
}

func (p *Parser) parseCase() (ast.Expr, error) {
	pos := p.pos_()
	p.advance() // case
	scrut, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKw("of"); err != nil {
		return nil, err
	}
	if err := p.expectSym("{"); err != nil {
		return nil, err
	}
	var arms []ast.CaseArm
	for !p.atSym("}") {
		pat, err := p.parseAtomPattern()
		if err != nil {
			return nil, err
		}
		if err := p.expectSym("->"); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.CaseArm{Pattern: pat, Body: body})
		for p.atSym(";") {
			p.advance()
		}
	}
	p.advance() // }
	return &ast.Case{Scrutinee: scrut, Arms: arms, Loc: newBase(pos)}, nil
}

// precedence table: lower binds looser. Only a tiny operator set is
// first-class at the surface; everything here except "+" lowers to a
// built-in application in the checker (spec §9).
var precedence = map[string]int{
	"||": 1, "&&": 2,
	"==": 3, "<": 3, ">": 3, "<=": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5,
}

func (p *Parser) parseBinop(minPrec int) (ast.Expr, error) {
	lhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	for {
		if p.cur().Kind != lexer.Symbol {
			break
		}
		op := p.cur().Text
		prec, ok := precedence[op]
		if !ok || prec < minPrec {
			break
		}
		pos := p.pos_()
		p.advance()
		rhs, err := p.parseBinop(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinopExpr{Op: op, A: lhs, B: rhs, Loc: newBase(pos)}
	}
	return lhs, nil
}

func (p *Parser) parseApp() (ast.Expr, error) {
	fn, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.startsAtom() {
		arg, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		fn = &ast.App{Func: fn, Arg: arg, Loc: newBase(fn.Position())}
	}
	return fn, nil
}

func (p *Parser) startsAtom() bool {
	t := p.cur()
	switch t.Kind {
	case lexer.Ident, lexer.UpperIdent, lexer.Int, lexer.Char, lexer.String:
		return true
	case lexer.Keyword:
		return t.Text == "true" || t.Text == "false"
	case lexer.Symbol:
		return t.Text == "(" || t.Text == "{" || t.Text == "["
	default:
		return false
	}
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.atSym(".") {
		p.advance()
		field := p.advance().Text
		e = &ast.Project{Record: e, Field: field, Loc: newBase(e.Position())}
	}
	return e, nil
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	pos := p.pos_()
	t := p.cur()
	switch {
	case t.Kind == lexer.Int:
		p.advance()
		v, _ := strconv.ParseInt(t.Text, 10, 64)
		return &ast.IntLit{Value: v, Loc: newBase(pos)}, nil

	case t.Kind == lexer.Char:
		p.advance()
		r := []rune(unquote(t.Text))
		var v rune
		if len(r) > 0 {
			v = r[0]
		}
		return &ast.CharLit{Value: v, Loc: newBase(pos)}, nil

	case t.Kind == lexer.String:
		p.advance()
		return &ast.StringLit{Parts: []ast.StringPart{{Literal: unquote(t.Text)}}, Loc: newBase(pos)}, nil

	case t.Kind == lexer.Keyword && t.Text == "true":
		p.advance()
		return &ast.BoolLit{Value: true, Loc: newBase(pos)}, nil

	case t.Kind == lexer.Keyword && t.Text == "false":
		p.advance()
		return &ast.BoolLit{Value: false, Loc: newBase(pos)}, nil

	case t.Kind == lexer.Ident:
		p.advance()
		if p.atSym(".") && false { // module refs use UpperIdent.item; reserved for future use
		}
		return ast.NewVar(pos, t.Text), nil

	case t.Kind == lexer.UpperIdent:
		p.advance()
		if p.atSym(".") {
			p.advance()
			item := p.advance().Text
			return &ast.ModuleRef{ModRef: t.Text, Item: item, Loc: newBase(pos)}, nil
		}
		return &ast.VariantCtor{Tag: t.Text, Loc: newBase(pos)}, nil

	case t.Kind == lexer.Symbol && t.Text == "(":
		p.advance()
		if p.atSym(")") {
			p.advance()
			return &ast.UnitLit{Loc: newBase(pos)}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSym(")"); err != nil {
			return nil, err
		}
		return e, nil

	case t.Kind == lexer.Symbol && t.Text == "[":
		p.advance()
		var elems []ast.Expr
		for !p.atSym("]") {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.atSym(",") {
				p.advance()
			}
		}
		p.advance()
		return &ast.ArrayLit{Elems: elems, Loc: newBase(pos)}, nil

	case t.Kind == lexer.Symbol && t.Text == "{":
		return p.parseRecordLit(pos)

	default:
		return nil, &Error{Offset: t.Offset, Message: "unexpected token " + t.Text + " in expression"}
	}
}

func (p *Parser) parseRecordLit(pos ast.Pos) (ast.Expr, error) {
	p.advance() // {
	var fields []ast.RecordField
	var rest ast.Expr
	for !p.atSym("}") {
		if p.atSym("...") {
			p.advance()
			r, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			rest = r
		} else {
			name := p.advance().Text
			if err := p.expectSym("="); err != nil {
				return nil, err
			}
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordField{Name: name, Value: v})
		}
		if p.atSym(",") {
			p.advance()
		}
	}
	p.advance() // }
	return &ast.RecordLit{Fields: fields, Rest: rest, Loc: newBase(pos)}, nil
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return strings.ReplaceAll(s, `\"`, `"`)
}
