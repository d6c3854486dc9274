package cparse

import (
	"fmt"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/srcloc"
)

type Parser struct {
	path          string
	toks          []Token
	pos           int
	systemHeaders map[string]bool
	scope         []map[string]cast.Decl
}

func NewParser(path, src string) (*Parser, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Parser{path: path, toks: toks, systemHeaders: map[string]bool{}, scope: []map[string]cast.Decl{{}}}, nil
}

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) at(k TokenKind) bool { return p.cur().Kind == k }
func (p *Parser) atKw(kw string) bool { return p.cur().Kind == TokKeyword && p.cur().Text == kw }

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k TokenKind) (Token, error) {
	if !p.at(k) {
		return Token{}, fmt.Errorf("%s:%d:%d: expected %s, got %s %q", p.path, p.cur().Line, p.cur().Col, k, p.cur().Kind, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *Parser) loc() srcloc.Loc {
	return srcloc.Loc{File: p.path, Line: p.cur().Line, Col: p.cur().Col}
}

func (p *Parser) pushScope() { p.scope = append(p.scope, map[string]cast.Decl{}) }
func (p *Parser) popScope()  { p.scope = p.scope[:len(p.scope)-1] }

func (p *Parser) declare(name string, d cast.Decl) {
	p.scope[len(p.scope)-1][name] = d
}

func (p *Parser) lookup(name string) cast.Decl {
	for i := len(p.scope) - 1; i >= 0; i-- {
		if d, ok := p.scope[i][name]; ok {
			return d
		}
	}
	return nil
}

// ParseFile parses one translation unit to completion.
func (p *Parser) ParseFile() (*cast.TranslationUnit, error) {
	tu := &cast.TranslationUnit{Path: p.path, SystemHeaders: p.systemHeaders}
	for !p.at(TokEOF) {
		d, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		if d != nil {
			tu.Decls = append(tu.Decls, d)
		}
	}
	return tu, nil
}

// typeSpec is a parsed base-type keyword sequence before any
// pointer/array suffixes are applied.
type typeSpec struct {
	name     string
	isItype  bool
	itypeRaw string
}

func (p *Parser) parseTypeSpec() (typeSpec, error) {
	var words []string
	for p.at(TokKeyword) {
		switch p.cur().Text {
		case "int", "char", "void", "long", "short", "unsigned", "signed",
			"double", "float", "const", "static", "extern", "va_list", "__builtin_va_list":
			words = append(words, p.advance().Text)
			continue
		case "struct", "union":
			kw := p.advance().Text
			name, err := p.expect(TokIdent)
			if err != nil {
				return typeSpec{}, err
			}
			words = append(words, kw+" "+name.Text)
			continue
		}
		break
	}
	if len(words) == 0 && p.at(TokIdent) {
		// typedef'd name used as a type (we don't track typedef tables,
		// so any bare identifier in type position is accepted verbatim).
		words = append(words, p.advance().Text)
	}
	if len(words) == 0 {
		return typeSpec{}, fmt.Errorf("%s:%d:%d: expected type", p.path, p.cur().Line, p.cur().Col)
	}
	name := words[0]
	for _, w := range words[1:] {
		name += " " + w
	}
	return typeSpec{name: name}, nil
}

// parseDeclarator parses the pointer/array/name part of one
// declarator following a base type, e.g. `*p`, `a[10]`, `**pp`.
// baseT is wrapped by however many '*' and '[]' suffixes follow.
func (p *Parser) parseDeclarator(baseT cast.Type) (name string, t cast.Type, err error) {
	depth := 0
	for p.at(TokStar) {
		p.advance()
		depth++
	}
	t = baseT
	for i := 0; i < depth; i++ {
		t = &cast.PointerType{Elem: t}
	}
	id, err := p.expect(TokIdent)
	if err != nil {
		return "", nil, err
	}
	name = id.Text

	for p.at(TokLBracket) {
		p.advance()
		if p.at(TokInt) {
			n := p.advance().IntVal
			if _, err := p.expect(TokRBracket); err != nil {
				return "", nil, err
			}
			t = &cast.ArrayType{Elem: t, Size: cast.ArraySize{Sized: true, N: int(n)}}
		} else {
			if _, err := p.expect(TokRBracket); err != nil {
				return "", nil, err
			}
			t = &cast.ArrayType{Elem: t, Size: cast.ArraySize{}}
		}
	}

	// itype(T) bounds-safe-interface annotation (spec.md §5): an
	// unchecked declaration can still carry a checked interface type
	// that callers are held to even though the declaration itself
	// stays raw C syntax. This parser consumes the annotation's tokens
	// and records nothing from them.
	if p.atKw("itype") {
		p.advance()
		if _, err := p.expect(TokLParen); err != nil {
			return "", nil, err
		}
		for !p.at(TokRParen) && !p.at(TokEOF) {
			p.advance()
		}
		if _, err := p.expect(TokRParen); err != nil {
			return "", nil, err
		}
	}

	return name, t, nil
}

func (p *Parser) parseTopLevel() (cast.Decl, error) {
	startLoc := p.loc()

	if sd, consumed, err := p.maybeParseStructDef(startLoc); err != nil {
		return nil, err
	} else if consumed {
		return sd, nil
	}

	spec, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	baseT := &cast.BaseType{Name: spec.name}

	if p.at(TokSemi) {
		// `struct Foo;` forward declaration, nothing to record.
		p.advance()
		return nil, nil
	}

	name, t, err := p.parseDeclarator(baseT)
	if err != nil {
		return nil, err
	}

	if p.at(TokLParen) {
		return p.parseFunctionRest(startLoc, name, t)
	}

	stmt := &cast.DeclStmt{Loc: startLoc}
	if err := p.finishVarDeclList(stmt, name, t, baseT); err != nil {
		return nil, err
	}
	return stmt, nil
}

// maybeParseStructDef recognizes `struct Name { field-decls } ;` at
// top level and returns the StructDecl. Any other shape (a forward
// declaration, a struct used as a variable's type, an anonymous
// struct typedef) is left for the caller's generic declaration path
// by rewinding the lexer position.
func (p *Parser) maybeParseStructDef(loc srcloc.Loc) (cast.Decl, bool, error) {
	save := p.pos
	if !(p.atKw("struct") || p.atKw("union")) {
		return nil, false, nil
	}
	p.advance()
	if !p.at(TokIdent) {
		p.pos = save
		return nil, false, nil
	}
	name := p.advance().Text
	if !p.at(TokLBrace) {
		p.pos = save
		return nil, false, nil
	}
	p.advance()

	sd := &cast.StructDecl{Name: name, Loc: loc}
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		fspec, err := p.parseTypeSpec()
		if err != nil {
			return nil, true, err
		}
		fbase := &cast.BaseType{Name: fspec.name}
		for {
			floc := p.loc()
			fname, ft, err := p.parseDeclarator(fbase)
			if err != nil {
				return nil, true, err
			}
			sd.Fields = append(sd.Fields, &cast.VarDecl{Name: fname, Type: ft, Loc: floc, IsField: true})
			if p.at(TokComma) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(TokSemi); err != nil {
			return nil, true, err
		}
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, true, err
	}
	if _, err := p.expect(TokSemi); err != nil {
		return nil, true, err
	}
	p.declare(name, sd)
	return sd, true, nil
}

func (p *Parser) finishVarDeclList(stmt *cast.DeclStmt, firstName string, firstT cast.Type, baseT cast.Type) error {
	vd := &cast.VarDecl{Name: firstName, Type: firstT, Loc: stmt.Loc}
	if p.at(TokAssign) {
		p.advance()
		init, err := p.parseAssignExpr()
		if err != nil {
			return err
		}
		vd.Init = init
	}
	stmt.Decls = append(stmt.Decls, vd)
	p.declare(vd.Name, vd)

	for p.at(TokComma) {
		p.advance()
		loc := p.loc()
		name, t, err := p.parseDeclarator(baseT)
		if err != nil {
			return err
		}
		next := &cast.VarDecl{Name: name, Type: t, Loc: loc}
		if p.at(TokAssign) {
			p.advance()
			init, err := p.parseAssignExpr()
			if err != nil {
				return err
			}
			next.Init = init
		}
		stmt.Decls = append(stmt.Decls, next)
		p.declare(next.Name, next)
	}
	stmt.End = p.loc()
	_, err := p.expect(TokSemi)
	return err
}

func (p *Parser) parseFunctionRest(loc srcloc.Loc, name string, retT cast.Type) (cast.Decl, error) {
	p.advance() // (
	p.pushScope()
	var params []*cast.VarDecl
	variadic := false
	if !p.at(TokRParen) {
		for {
			if p.atKw("void") && p.toks[p.pos+1].Kind == TokRParen {
				p.advance()
				break
			}
			if p.at(TokEllipsis) {
				p.advance()
				variadic = true
				break
			}
			pspec, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			pbase := &cast.BaseType{Name: pspec.name}
			ploc := p.loc()
			pname, pt, err := p.parseDeclarator(pbase)
			if err != nil {
				return nil, err
			}
			pd := &cast.VarDecl{Name: pname, Type: pt, Loc: ploc, IsParam: true}
			params = append(params, pd)
			p.declare(pname, pd)
			if p.at(TokComma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}

	paramTypes := make([]cast.Type, len(params))
	for i, pd := range params {
		paramTypes[i] = pd.Type
	}
	ft := &cast.FunctionType{Return: retT, Params: paramTypes, IsVariadic: variadic}
	fd := &cast.FuncDecl{Name: name, Type: ft, ParamDecls: params, Loc: loc, ReturnLoc: loc}
	p.declare(name, fd)

	if p.at(TokLBrace) {
		body, err := p.parseBlock()
		if err != nil {
			p.popScope()
			return nil, err
		}
		fd.Body = body
		p.popScope()
		return fd, nil
	}
	p.popScope()
	_, err := p.expect(TokSemi)
	return fd, err
}

func (p *Parser) parseBlock() (*cast.BlockStmt, error) {
	loc := p.loc()
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	p.pushScope()
	defer p.popScope()
	b := &cast.BlockStmt{Loc: loc}
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	_, err := p.expect(TokRBrace)
	return b, err
}

func (p *Parser) isTypeStart() bool {
	if !p.at(TokKeyword) {
		return false
	}
	switch p.cur().Text {
	case "int", "char", "void", "long", "short", "unsigned", "signed",
		"double", "float", "const", "static", "extern", "struct", "union",
		"va_list", "__builtin_va_list":
		return true
	}
	return false
}

func (p *Parser) parseStmt() (cast.Stmt, error) {
	switch {
	case p.at(TokLBrace):
		return p.parseBlock()
	case p.isTypeStart():
		loc := p.loc()
		spec, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		baseT := &cast.BaseType{Name: spec.name}
		name, t, err := p.parseDeclarator(baseT)
		if err != nil {
			return nil, err
		}
		stmt := &cast.DeclStmt{Loc: loc}
		if err := p.finishVarDeclList(stmt, name, t, baseT); err != nil {
			return nil, err
		}
		return stmt, nil
	case p.atKw("return"):
		loc := p.loc()
		p.advance()
		if p.at(TokSemi) {
			p.advance()
			return &cast.ReturnStmt{Loc: loc}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokSemi); err != nil {
			return nil, err
		}
		return &cast.ReturnStmt{Value: e, Loc: loc}, nil
	case p.atKw("if"):
		return p.parseIf()
	case p.atKw("while"):
		return p.parseWhile()
	case p.atKw("for"):
		return p.parseFor()
	case p.at(TokSemi):
		p.advance()
		return nil, nil
	default:
		loc := p.loc()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokSemi); err != nil {
			return nil, err
		}
		return &cast.ExprStmt{X: e, Loc: loc}, nil
	}
}

func (p *Parser) parseIf() (cast.Stmt, error) {
	loc := p.loc()
	p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	s := &cast.IfStmt{Cond: cond, Then: then, Loc: loc}
	if p.atKw("else") {
		p.advance()
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		s.Else = els
	}
	return s, nil
}

func (p *Parser) parseWhile() (cast.Stmt, error) {
	loc := p.loc()
	p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &cast.WhileStmt{Cond: cond, Body: body, Loc: loc}, nil
}

func (p *Parser) parseFor() (cast.Stmt, error) {
	loc := p.loc()
	p.advance()
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	var init cast.Stmt
	if !p.at(TokSemi) {
		var err error
		init, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	} else {
		p.advance()
	}
	var cond cast.Expr
	if !p.at(TokSemi) {
		var err error
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokSemi); err != nil {
		return nil, err
	}
	var post cast.Stmt
	if !p.at(TokRParen) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		post = &cast.ExprStmt{X: e, Loc: loc}
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &cast.ForStmt{Init: init, Cond: cond, Post: post, Body: body, Loc: loc}, nil
}
