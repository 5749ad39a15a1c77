package parser

import (
	"github.com/standardbeagle/mbs/internal/ast"
	"github.com/standardbeagle/mbs/internal/lexer"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// statement parses one top-level-or-block statement. Caller is responsible
// for consuming the trailing newline via expectStmtEnd.
func (p *Parser) statement() (ast.Node, error) {
	loc := p.locAt(0)

	switch {
	case p.atKeyword("if"):
		return p.ifStmt()
	case p.atKeyword("foreach"):
		return p.foreachStmt()
	case p.atKeyword("continue"):
		p.advance()
		return ast.NewContinue(loc), nil
	case p.atKeyword("break"):
		p.advance()
		return ast.NewBreak(loc), nil
	case p.mode == lexer.Extended && p.atKeyword("func"):
		return p.funcDef()
	case p.mode == lexer.Extended && p.atKeyword("return"):
		return p.returnStmt()
	}

	expr, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.at(lexer.Assign) || p.at(lexer.PlusAssign) {
		op := "="
		if p.at(lexer.PlusAssign) {
			op = "+="
		}
		p.advance()
		if !isAssignTarget(expr) {
			return nil, merrors.Parse(loc, "invalid assignment target")
		}
		rhs, err := p.expr()
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(loc, op, expr, rhs), nil
	}

	return ast.NewExprStmt(loc, expr), nil
}

func isAssignTarget(n ast.Node) bool {
	switch n.(type) {
	case *ast.Ident, *ast.Index:
		return true
	default:
		return false
	}
}

// block parses statements up to (not consuming) one of the given
// terminator keywords.
func (p *Parser) block(terminators ...string) ([]ast.Node, error) {
	var stmts []ast.Node
	p.skipNewlines()
	for {
		if p.at(lexer.EOF) {
			return nil, merrors.Parse(p.cur().Loc, "unexpected end of file, expected one of %v", terminators)
		}
		for _, kw := range terminators {
			if p.atKeyword(kw) {
				return stmts, nil
			}
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
}

func (p *Parser) ifStmt() (ast.Node, error) {
	loc := p.locAt(0)
	var branches []ast.IfBranch

	if err := p.expectKeyword("if"); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectStmtEnd(); err != nil {
		return nil, err
	}
	body, err := p.block("elif", "else", "endif")
	if err != nil {
		return nil, err
	}
	branches = append(branches, ast.IfBranch{Cond: cond, Body: body})

	for p.atKeyword("elif") {
		p.advance()
		c, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		b, err := p.block("elif", "else", "endif")
		if err != nil {
			return nil, err
		}
		branches = append(branches, ast.IfBranch{Cond: c, Body: b})
	}

	var elseBody []ast.Node
	if p.atKeyword("else") {
		p.advance()
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		elseBody, err = p.block("endif")
		if err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("endif"); err != nil {
		return nil, err
	}
	return ast.NewIf(loc, branches, elseBody), nil
}

func (p *Parser) foreachStmt() (ast.Node, error) {
	loc := p.locAt(0)
	if err := p.expectKeyword("foreach"); err != nil {
		return nil, err
	}
	first, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	vars := []string{first.Text}
	if p.at(lexer.Comma) {
		p.advance()
		second, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		vars = append(vars, second.Text)
	}
	if err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	in, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectStmtEnd(); err != nil {
		return nil, err
	}
	body, err := p.block("endforeach")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("endforeach"); err != nil {
		return nil, err
	}
	return ast.NewForeach(loc, vars, in, body), nil
}

func (p *Parser) funcDef() (ast.Node, error) {
	loc := p.locAt(0)
	if err := p.expectKeyword("func"); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var params []string
	for !p.at(lexer.RParen) {
		id, err := p.expect(lexer.Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, id.Text)
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	if err := p.expectStmtEnd(); err != nil {
		return nil, err
	}
	body, err := p.block("endfunc")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("endfunc"); err != nil {
		return nil, err
	}
	return ast.NewFuncDef(loc, name.Text, params, body), nil
}

func (p *Parser) returnStmt() (ast.Node, error) {
	loc := p.locAt(0)
	if err := p.expectKeyword("return"); err != nil {
		return nil, err
	}
	if p.at(lexer.Newline) || p.at(lexer.EOF) {
		return ast.NewReturn(loc, nil), nil
	}
	v, err := p.expr()
	if err != nil {
		return nil, err
	}
	return ast.NewReturn(loc, v), nil
}
