package cparse

import (
	"fmt"

	"github.com/ccqual/ccqual/internal/cast"
)

func (p *Parser) parseExpr() (cast.Expr, error) {
	return p.parseAssignExpr()
}

var assignOps = map[TokenKind]string{
	TokAssign:      "=",
	TokPlusAssign:  "+=",
	TokMinusAssign: "-=",
}

func (p *Parser) parseAssignExpr() (cast.Expr, error) {
	lhs, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if op, ok := assignOps[p.cur().Kind]; ok {
		loc := p.loc()
		p.advance()
		rhs, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &cast.AssignExpr{Op: op, LHS: lhs, RHS: rhs, Loc: loc}, nil
	}
	return lhs, nil
}

// binOpPrec orders the binary operators this subset recognizes, low
// to high, for precedence-climbing.
var binOpPrec = []map[TokenKind]string{
	{TokOrOr: "||"},
	{TokAndAnd: "&&"},
	{TokEq: "==", TokNe: "!="},
	{TokLt: "<", TokGt: ">", TokLe: "<=", TokGe: ">="},
	{TokPlus: "+", TokMinus: "-"},
	{TokStar: "*", TokSlash: "/", TokPercent: "%"},
}

func (p *Parser) parseBinary(level int) (cast.Expr, error) {
	if level >= len(binOpPrec) {
		return p.parseUnary()
	}
	lhs, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binOpPrec[level][p.cur().Kind]
		if !ok {
			return lhs, nil
		}
		loc := p.loc()
		p.advance()
		rhs, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		lhs = &cast.BinaryExpr{Op: op, X: lhs, Y: rhs, Loc: loc}
	}
}

func (p *Parser) parseUnary() (cast.Expr, error) {
	loc := p.loc()
	switch p.cur().Kind {
	case TokAmp:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &cast.UnaryExpr{Op: "&", X: x, Loc: loc}, nil
	case TokStar:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &cast.UnaryExpr{Op: "*", X: x, Loc: loc}, nil
	case TokMinus:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &cast.UnaryExpr{Op: "-", X: x, Loc: loc}, nil
	case TokBang:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &cast.UnaryExpr{Op: "!", X: x, Loc: loc}, nil
	case TokIncr, TokDecr:
		op := p.advance().Text
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &cast.UnaryExpr{Op: op, X: x, Loc: loc}, nil
	}

	if p.atKw("sizeof") {
		p.advance()
		if _, err := p.expect(TokLParen); err != nil {
			return nil, err
		}
		spec, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		t := cast.Type(&cast.BaseType{Name: spec.name})
		for p.at(TokStar) {
			p.advance()
			t = &cast.PointerType{Elem: t}
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return &cast.SizeofExpr{Type: t, Loc: loc}, nil
	}

	if p.at(TokLParen) && p.isCastAhead() {
		p.advance()
		spec, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		t := cast.Type(&cast.BaseType{Name: spec.name})
		for p.at(TokStar) {
			p.advance()
			t = &cast.PointerType{Elem: t}
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &cast.CastExpr{Type: t, X: x, Loc: loc}, nil
	}

	return p.parsePostfix()
}

// isCastAhead distinguishes `(T)x` from a parenthesized expression
// `(x)` by lookahead: a cast starts with a type keyword.
func (p *Parser) isCastAhead() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.advance() // (
	return p.isTypeStart()
}

func (p *Parser) parsePostfix() (cast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		loc := p.loc()
		switch p.cur().Kind {
		case TokLBracket:
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRBracket); err != nil {
				return nil, err
			}
			x = &cast.IndexExpr{X: x, Index: idx, Loc: loc}
		case TokLParen:
			p.advance()
			var args []cast.Expr
			if !p.at(TokRParen) {
				for {
					a, err := p.parseAssignExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
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
			x = &cast.CallExpr{Fun: x, Args: args, Loc: loc}
		case TokIncr, TokDecr:
			op := p.advance().Text
			x = &cast.PostfixExpr{Op: op, X: x, Loc: loc}
		case TokDot, TokArrow:
			// Field access: modeled as an opaque identifier reference
			// since this program does not track per-field CVs beyond the
			// struct declaration itself (spec.md §4.2's note that field
			// CVs are allocated once at the StructDecl and otherwise
			// treated like any other declared pointer).
			p.advance()
			field, err := p.expect(TokIdent)
			if err != nil {
				return nil, err
			}
			x = &cast.Ident{Name: field.Text, Loc: loc}
		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (cast.Expr, error) {
	loc := p.loc()
	switch p.cur().Kind {
	case TokInt:
		t := p.advance()
		return &cast.IntLit{Value: t.IntVal, Loc: loc}, nil
	case TokString:
		t := p.advance()
		return &cast.StringLit{Value: unescape(t.Text), Loc: loc}, nil
	case TokIdent:
		t := p.advance()
		return &cast.Ident{Name: t.Text, Decl: p.lookup(t.Text), Loc: loc}, nil
	case TokLParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("%s:%d:%d: unexpected token %s %q in expression", p.path, p.cur().Line, p.cur().Col, p.cur().Kind, p.cur().Text)
}
