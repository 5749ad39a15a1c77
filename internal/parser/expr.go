package parser

import (
	"github.com/standardbeagle/mbs/internal/ast"
	"github.com/standardbeagle/mbs/internal/lexer"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// expr is the entry point for the full precedence chain:
// ternary (`a if cond else b`) wraps or, which wraps and, then
// comparisons, then +/-, then * / %, then unary not/-, then postfix.
func (p *Parser) expr() (ast.Node, error) {
	return p.ternary()
}

func (p *Parser) ternary() (ast.Node, error) {
	loc := p.locAt(0)
	v, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	if p.atKeyword("if") {
		p.advance()
		cond, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("else"); err != nil {
			return nil, err
		}
		els, err := p.ternary()
		if err != nil {
			return nil, err
		}
		return ast.NewTernary(loc, cond, v, els), nil
	}
	return v, nil
}

func (p *Parser) orExpr() (ast.Node, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("or") {
		loc := p.locAt(0)
		p.advance()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinOp(loc, "or", left, right)
	}
	return left, nil
}

func (p *Parser) andExpr() (ast.Node, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("and") {
		loc := p.locAt(0)
		p.advance()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinOp(loc, "and", left, right)
	}
	return left, nil
}

func (p *Parser) comparison() (ast.Node, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		loc := p.locAt(0)
		switch {
		case p.at(lexer.Eq):
			p.advance()
			right, err := p.additive()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinOp(loc, "==", left, right)
		case p.at(lexer.Ne):
			p.advance()
			right, err := p.additive()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinOp(loc, "!=", left, right)
		case p.at(lexer.Lt):
			p.advance()
			right, err := p.additive()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinOp(loc, "<", left, right)
		case p.at(lexer.Le):
			p.advance()
			right, err := p.additive()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinOp(loc, "<=", left, right)
		case p.at(lexer.Gt):
			p.advance()
			right, err := p.additive()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinOp(loc, ">", left, right)
		case p.at(lexer.Ge):
			p.advance()
			right, err := p.additive()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinOp(loc, ">=", left, right)
		case p.atKeyword("in"):
			p.advance()
			right, err := p.additive()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinOp(loc, "in", left, right)
		case p.atKeyword("not") && p.peekKeyword(1, "in"):
			p.advance()
			p.advance()
			right, err := p.additive()
			if err != nil {
				return nil, err
			}
			left = ast.NewBinOp(loc, "not in", left, right)
		default:
			return left, nil
		}
	}
}

func (p *Parser) peekKeyword(off int, kw string) bool {
	idx := p.pos + off
	if idx >= len(p.toks) {
		return false
	}
	t := p.toks[idx]
	return t.Kind == lexer.Keyword && t.Text == kw
}

func (p *Parser) additive() (ast.Node, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.Plus) || p.at(lexer.Minus) {
		loc := p.locAt(0)
		op := "+"
		if p.at(lexer.Minus) {
			op = "-"
		}
		p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinOp(loc, op, left, right)
	}
	return left, nil
}

func (p *Parser) multiplicative() (ast.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.Star) || p.at(lexer.Slash) || p.at(lexer.Percent) {
		loc := p.locAt(0)
		var op string
		switch p.cur().Kind {
		case lexer.Star:
			op = "*"
		case lexer.Slash:
			op = "/"
		case lexer.Percent:
			op = "%"
		}
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinOp(loc, op, left, right)
	}
	return left, nil
}

func (p *Parser) unary() (ast.Node, error) {
	loc := p.locAt(0)
	if p.at(lexer.Minus) {
		p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(loc, "-", x), nil
	}
	if p.atKeyword("not") {
		p.advance()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(loc, "not", x), nil
	}
	return p.postfix()
}

func (p *Parser) postfix() (ast.Node, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		loc := p.locAt(0)
		switch {
		case p.at(lexer.Dot):
			p.advance()
			name, err := p.expect(lexer.Ident)
			if err != nil {
				return nil, err
			}
			if !p.at(lexer.LParen) {
				return nil, merrors.Parse(p.cur().Loc, "expected '(' after method name %q", name.Text)
			}
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			x = ast.NewMethodCall(loc, x, name.Text, args)
		case p.at(lexer.LBracket):
			p.advance()
			if p.at(lexer.Colon) {
				stop, err := p.sliceTail(loc, x, nil)
				if err != nil {
					return nil, err
				}
				x = stop
				continue
			}
			idx, err := p.expr()
			if err != nil {
				return nil, err
			}
			if p.at(lexer.Colon) {
				stop, err := p.sliceTail(loc, x, idx)
				if err != nil {
					return nil, err
				}
				x = stop
				continue
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			x = ast.NewIndex(loc, x, idx)
		case p.at(lexer.LParen):
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			x = ast.NewCall(loc, x, args)
		default:
			return x, nil
		}
	}
}

// sliceTail parses the `:stop]` remainder of `recv[start:stop]` once the
// colon has been reached; start may be nil for `recv[:stop]`.
func (p *Parser) sliceTail(loc merrors.Location, recv, start ast.Node) (ast.Node, error) {
	p.advance() // consume ':'
	var stop ast.Node
	if !p.at(lexer.RBracket) {
		s, err := p.expr()
		if err != nil {
			return nil, err
		}
		stop = s
	}
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return ast.NewSlice(loc, recv, start, stop), nil
}

// argList parses a parenthesised, comma-separated argument list where
// keyword args (`name: expr`) must follow positionals.
func (p *Parser) argList() ([]ast.Arg, error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var args []ast.Arg
	seenKeyword := false
	p.skipNewlines()
	for !p.at(lexer.RParen) {
		if p.at(lexer.Ident) && p.peekKind(1, lexer.Colon) {
			name := p.advance().Text
			p.advance() // ':'
			val, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, ast.Arg{Name: name, Value: val})
			seenKeyword = true
		} else {
			if seenKeyword {
				return nil, merrors.Parse(p.cur().Loc, "positional argument follows keyword argument")
			}
			val, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, ast.Arg{Value: val})
		}
		p.skipNewlines()
		if p.at(lexer.Comma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.skipNewlines()
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) peekKind(off int, k lexer.Kind) bool {
	idx := p.pos + off
	if idx >= len(p.toks) {
		return false
	}
	return p.toks[idx].Kind == k
}

func (p *Parser) primary() (ast.Node, error) {
	loc := p.locAt(0)
	switch {
	case p.atKeyword("true"):
		p.advance()
		return ast.NewBoolLit(loc, true), nil
	case p.atKeyword("false"):
		p.advance()
		return ast.NewBoolLit(loc, false), nil
	case p.at(lexer.Int):
		t := p.advance()
		return ast.NewIntLit(loc, t.IntVal), nil
	case p.at(lexer.Str):
		t := p.advance()
		return ast.NewStringLit(loc, t.Text), nil
	case p.at(lexer.FStr):
		t := p.advance()
		return ast.NewFStringLit(loc, t.Text), nil
	case p.at(lexer.Ident):
		t := p.advance()
		return ast.NewIdent(loc, t.Text), nil
	case p.at(lexer.LParen):
		p.advance()
		p.skipNewlines()
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return x, nil
	case p.at(lexer.LBracket):
		return p.arrayLit()
	case p.at(lexer.LBrace):
		return p.dictLit()
	default:
		return nil, merrors.Parse(loc, "unexpected token %v in expression", p.cur().Kind)
	}
}

func (p *Parser) arrayLit() (ast.Node, error) {
	loc := p.locAt(0)
	p.advance()
	p.skipNewlines()
	var elems []ast.Node
	for !p.at(lexer.RBracket) {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		p.skipNewlines()
		if p.at(lexer.Comma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.skipNewlines()
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, err
	}
	return ast.NewArrayLit(loc, elems), nil
}

func (p *Parser) dictLit() (ast.Node, error) {
	loc := p.locAt(0)
	p.advance()
	p.skipNewlines()
	var entries []ast.DictEntry
	for !p.at(lexer.RBrace) {
		key, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		val, err := p.expr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.DictEntry{Key: key, Value: val})
		p.skipNewlines()
		if p.at(lexer.Comma) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.skipNewlines()
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return ast.NewDictLit(loc, entries), nil
}
