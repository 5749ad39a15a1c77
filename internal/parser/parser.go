// Package parser builds an AST from a lexer.Token stream.
package parser

import (
	"github.com/standardbeagle/mbs/internal/ast"
	"github.com/standardbeagle/mbs/internal/lexer"
	"github.com/standardbeagle/mbs/internal/merrors"
)

// Parser is a recursive-descent parser over a pre-scanned token buffer.
// On the first syntax error it records the error and aborts rather than
// attempting speculative continuation, unlike the lexer which resynchronises.
type Parser struct {
	file           string
	toks           []lexer.Token
	pos            int
	mode           lexer.Mode
	requireProject bool
}

func New(file string, toks []lexer.Token, mode lexer.Mode) *Parser {
	return &Parser{file: file, toks: toks, mode: mode}
}

// RequireLeadingProject marks this parse as the workspace root file, whose
// first statement must be a call to project().
func (p *Parser) RequireLeadingProject() *Parser {
	p.requireProject = true
	return p
}

// Parse consumes the whole token buffer, returning the file's statement
// sequence or the first syntax error encountered.
func (p *Parser) Parse() (*ast.File, error) {
	loc := p.locAt(0)
	var stmts []ast.Node
	p.skipNewlines()
	for !p.at(lexer.EOF) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if p.requireProject && len(stmts) == 0 {
			if err := requireProjectCall(stmt); err != nil {
				return nil, err
			}
		}
		stmts = append(stmts, stmt)
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	if p.requireProject && len(stmts) == 0 {
		return nil, merrors.Parse(loc, "root meson.build must begin with a call to project()")
	}
	return ast.NewFile(loc, stmts), nil
}

// ParseExpr consumes a single expression and nothing else, for callers
// that want to evaluate one expression standalone (the REPL, `internal
// eval -e`) rather than a whole statement sequence.
func (p *Parser) ParseExpr() (ast.Node, error) {
	p.skipNewlines()
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if !p.at(lexer.EOF) {
		return nil, merrors.Parse(p.cur().Loc, "unexpected %v after expression", p.cur().Kind)
	}
	return n, nil
}

func requireProjectCall(stmt ast.Node) error {
	es, ok := stmt.(*ast.ExprStmt)
	if !ok {
		return merrors.Parse(stmt.Location(), "first statement must be a call to project()")
	}
	call, ok := es.X.(*ast.Call)
	if !ok {
		return merrors.Parse(stmt.Location(), "first statement must be a call to project()")
	}
	id, ok := call.Func.(*ast.Ident)
	if !ok || id.Name != "project" {
		return merrors.Parse(stmt.Location(), "first statement must be a call to project()")
	}
	return nil
}

// --- token stream helpers --------------------------------------------------

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atKeyword(kw string) bool {
	return p.at(lexer.Keyword) && p.cur().Text == kw
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) locAt(offset int) merrors.Location {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		idx = len(p.toks) - 1
	}
	return p.toks[idx].Loc
}

func (p *Parser) skipNewlines() {
	for p.at(lexer.Newline) {
		p.advance()
	}
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if !p.at(k) {
		return lexer.Token{}, merrors.Parse(p.cur().Loc, "expected %v, got %v", k, p.cur().Kind)
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return merrors.Parse(p.cur().Loc, "expected keyword %q, got %v %q", kw, p.cur().Kind, p.cur().Text)
	}
	p.advance()
	return nil
}

// expectStmtEnd requires a newline or EOF after a statement.
func (p *Parser) expectStmtEnd() error {
	if p.at(lexer.Newline) || p.at(lexer.EOF) {
		return nil
	}
	return merrors.Parse(p.cur().Loc, "expected end of statement, got %v", p.cur().Kind)
}
