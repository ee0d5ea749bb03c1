// Package parser turns a token stream into the surface ast.Module. Like
// internal/lexer, this is a mechanical, out-of-scope collaborator
// (spec §1) — a minimal non-layout-sensitive recursive-descent parser, not
// the teacher's full layout-sensitive grammar, sufficient to drive the
// checker and evaluator end to end.
package parser

import (
	"fmt"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/lexer"
)

// Error is a parse error with a byte-offset source position (spec §7).
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("offset %d: %s", e.Offset, e.Message) }

type Parser struct {
	source string
	toks   []lexer.Token
	pos    int
}

func New(source string) *Parser {
	return &Parser{source: source, toks: lexer.New(source).All()}
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *Parser) advance() lexer.Token { t := p.cur(); p.pos++; return t }

func (p *Parser) at(kind lexer.Kind, text string) bool {
	t := p.cur()
	return t.Kind == kind && (text == "" || t.Text == text)
}

func (p *Parser) atSym(s string) bool { return p.at(lexer.Symbol, s) }
func (p *Parser) atKw(s string) bool  { return p.at(lexer.Keyword, s) }

func (p *Parser) expectSym(s string) error {
	if !p.atSym(s) {
		return &Error{Offset: p.cur().Offset, Message: fmt.Sprintf("expected %q, got %q", s, p.cur().Text)}
	}
	p.advance()
	return nil
}

func (p *Parser) expectKw(s string) error {
	if !p.atKw(s) {
		return &Error{Offset: p.cur().Offset, Message: fmt.Sprintf("expected keyword %q, got %q", s, p.cur().Text)}
	}
	p.advance()
	return nil
}

func (p *Parser) pos_() ast.Pos {
	return ast.Pos{Source: p.source, Offset: p.cur().Offset}
}

// ParseModule parses a full source module: a sequence of top-level
// declarations separated/terminated by ';'.
func ParseModule(source string) (*ast.Module, error) {
	p := New(source)
	mod := &ast.Module{}
	for p.cur().Kind != lexer.EOF {
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		mod.Decls = append(mod.Decls, d)
		for p.atSym(";") {
			p.advance()
		}
	}
	return mod, nil
}

func (p *Parser) parseDecl() (ast.Decl, error) {
	switch {
	case p.atKw("import"):
		return p.parseImport()
	case p.atKw("from"):
		return p.parseFromImport()
	case p.atKw("type"):
		return p.parseTypeAlias()
	case p.atKw("class"):
		return p.parseClass()
	case p.atKw("instance"):
		return p.parseInstance()
	case p.cur().Kind == lexer.Ident:
		return p.parseDefinition()
	default:
		return nil, &Error{Offset: p.cur().Offset, Message: fmt.Sprintf("unexpected token %q at top level", p.cur().Text)}
	}
}

func (p *Parser) parseImport() (ast.Decl, error) {
	pos := p.pos_()
	p.advance() // import
	mod := p.advance().Text
	alias := ""
	if p.cur().Kind == lexer.Ident && p.cur().Text == "as" {
		p.advance()
		alias = p.advance().Text
	}
	return &ast.Import{Pos: pos, Module: mod, Alias: alias}, nil
}

func (p *Parser) parseFromImport() (ast.Decl, error) {
	pos := p.pos_()
	p.advance() // from
	mod := p.advance().Text
	if err := p.expectKw("import"); err != nil {
		return nil, err
	}
	var names []string
	for {
		names = append(names, p.advance().Text)
		if p.atSym(",") {
			p.advance()
			continue
		}
		break
	}
	return &ast.FromImport{Pos: pos, Module: mod, Names: names}, nil
}

func (p *Parser) parseTypeAlias() (ast.Decl, error) {
	pos := p.pos_()
	p.advance() // type
	name := p.advance().Text
	var args []string
	for p.cur().Kind == lexer.Ident {
		args = append(args, p.advance().Text)
	}
	if err := p.expectSym("="); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.TypeAlias{Pos: pos, Name: name, Args: args, Body: ty}, nil
}

func (p *Parser) parseClass() (ast.Decl, error) {
	pos := p.pos_()
	p.advance() // class
	supers, name, err := p.parseHeadWithSupers()
	if err != nil {
		return nil, err
	}
	var args []string
	for p.cur().Kind == lexer.Ident {
		args = append(args, p.advance().Text)
	}
	if err := p.expectKw("where"); err != nil {
		return nil, err
	}
	if err := p.expectSym("{"); err != nil {
		return nil, err
	}
	var members []ast.ClassMember
	for !p.atSym("}") {
		mname := p.advance().Text
		if err := p.expectSym(":"); err != nil {
			return nil, err
		}
		sig, err := p.parseType()
		if err != nil {
			return nil, err
		}
		members = append(members, ast.ClassMember{Name: mname, Sig: sig})
		for p.atSym(";") {
			p.advance()
		}
	}
	p.advance() // }
	return &ast.Class{Pos: pos, Supers: supers, Name: name, Args: args, Members: members}, nil
}

// parseHeadWithSupers parses `[Super1, Super2 =>] Name` and returns the
// superclass constraint list and the class name.
func (p *Parser) parseHeadWithSupers() ([]ast.Type, string, error) {
	checkpoint := p.pos
	var supers []ast.Type
	for {
		if p.cur().Kind != lexer.UpperIdent {
			break
		}
		save := p.pos
		ty, err := p.parseType()
		if err != nil {
			p.pos = save
			break
		}
		if p.atSym("=>") {
			supers = append(supers, ty)
			p.advance()
			continue
		}
		p.pos = save
		break
	}
	if p.cur().Kind != lexer.UpperIdent {
		p.pos = checkpoint
		supers = nil
	}
	name := p.advance().Text
	return supers, name, nil
}

func (p *Parser) parseInstance() (ast.Decl, error) {
	pos := p.pos_()
	p.advance() // instance
	var assumes []ast.Type
	head, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.atSym("=>") {
		assumes = append(assumes, head)
		p.advance()
		head, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectKw("where"); err != nil {
		return nil, err
	}
	if err := p.expectSym("{"); err != nil {
		return nil, err
	}
	var members []ast.InstanceMember
	for !p.atSym("}") {
		mname := p.advance().Text
		if err := p.expectSym("="); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		members = append(members, ast.InstanceMember{Name: mname, Body: body})
		for p.atSym(";") {
			p.advance()
		}
	}
	p.advance() // }
	return &ast.Instance{Pos: pos, Assumes: assumes, Head: head, Members: members}, nil
}

func (p *Parser) parseDefinition() (ast.Decl, error) {
	pos := p.pos_()
	name := p.advance().Text

	var sig ast.Type
	if p.atSym(":") {
		p.advance()
		s, err := p.parseType()
		if err != nil {
			return nil, err
		}
		sig = s
		for p.atSym(";") {
			p.advance()
		}
		// Signature-only line; the binding itself follows as `name args = body`.
		if p.cur().Kind == lexer.Ident && p.cur().Text == name {
			p.advance()
		} else {
			return nil, &Error{Offset: p.cur().Offset, Message: "signature must be followed by a matching definition"}
		}
	}

	var args []ast.Pattern
	for !p.atSym("=") {
		pat, err := p.parseAtomPattern()
		if err != nil {
			return nil, err
		}
		args = append(args, pat)
	}
	if err := p.expectSym("="); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Definition{Pos: pos, Name: name, Signature: sig, Args: args, Body: body}, nil
}
