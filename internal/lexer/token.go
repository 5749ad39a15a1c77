// Package lexer tokenises Meson-dialect source text into a flat token
// stream with per-token source locations.
package lexer

import "github.com/standardbeagle/mbs/internal/merrors"

type Kind int

const (
	EOF Kind = iota
	Newline
	Ident
	Keyword
	Int
	Str
	FStr // f-string: body retains @identifier@ markers for later interpolation

	// punctuation
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Colon
	Dot

	Assign
	PlusAssign
	Eq
	Ne
	Lt
	Le
	Gt
	Ge

	Plus
	Minus
	Star
	Slash
	Percent
)

var keywords = map[string]bool{
	"if": true, "elif": true, "else": true, "endif": true,
	"foreach": true, "endforeach": true,
	"and": true, "or": true, "not": true, "in": true,
	"true": true, "false": true, "continue": true, "break": true,
}

// extendedKeywords are only recognised when the lexer runs in Extended
// mode, where function-definition keywords are recognized and expressions
// are evaluated standalone.
var extendedKeywords = map[string]bool{
	"func": true, "endfunc": true, "return": true,
}

func IsKeyword(s string) bool { return keywords[s] }

// Token carries the token kind, its literal text (for idents/strings), a
// decoded integer value when Kind == Int, and a source location.
type Token struct {
	Kind   Kind
	Text   string
	IntVal int64
	Loc    merrors.Location
}

func (k Kind) String() string {
	names := map[Kind]string{
		EOF: "eof", Newline: "newline", Ident: "ident", Keyword: "keyword",
		Int: "int", Str: "string", FStr: "fstring",
		LParen: "(", RParen: ")", LBracket: "[", RBracket: "]",
		LBrace: "{", RBrace: "}", Comma: ",", Colon: ":", Dot: ".",
		Assign: "=", PlusAssign: "+=", Eq: "==", Ne: "!=",
		Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
		Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	}
	if n, ok := names[k]; ok {
		return n
	}
	return "?"
}
