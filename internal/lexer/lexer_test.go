package lexer

import "testing"

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func eqKinds(t *testing.T, got []Kind, want ...Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v (%v)", i, got[i], want[i], got)
		}
	}
}

func TestScanIdentAndKeyword(t *testing.T) {
	toks, err := New("t.build", "foo if bar\n", Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eqKinds(t, kinds(toks), Ident, Keyword, Ident, Newline, EOF)
	if toks[0].Text != "foo" || toks[2].Text != "bar" {
		t.Errorf("unexpected idents: %q %q", toks[0].Text, toks[2].Text)
	}
}

func TestScanExtendedKeywordsRequireMode(t *testing.T) {
	toks, err := New("t.build", "func\n", Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != Ident {
		t.Fatalf("in Standard mode, 'func' should be Ident, got %v", toks[0].Kind)
	}

	toks, err = New("t.build", "func\n", Extended).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != Keyword {
		t.Fatalf("in Extended mode, 'func' should be Keyword, got %v", toks[0].Kind)
	}
}

func TestScanIntegers(t *testing.T) {
	toks, err := New("t.build", "10 0x1F 0o17 0b101\n", Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{10, 31, 15, 5}
	var got []int64
	for _, tok := range toks {
		if tok.Kind == Int {
			got = append(got, tok.IntVal)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("int[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestScanStringEscapes(t *testing.T) {
	toks, err := New("t.build", `'a\nb'`+"\n", Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != Str || toks[0].Text != "a\nb" {
		t.Fatalf("got %v %q, want Str \"a\\nb\"", toks[0].Kind, toks[0].Text)
	}
}

func TestScanTripleQuotedStringSpansLines(t *testing.T) {
	src := "'''line1\nline2'''\n"
	toks, err := New("t.build", src, Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != Str || toks[0].Text != "line1\nline2" {
		t.Fatalf("got %v %q", toks[0].Kind, toks[0].Text)
	}
}

func TestScanFString(t *testing.T) {
	toks, err := New("t.build", "f'hello @name@'\n", Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != FStr || toks[0].Text != "hello @name@" {
		t.Fatalf("got %v %q", toks[0].Kind, toks[0].Text)
	}
}

func TestScanUnterminatedStringReportsErrorAndContinues(t *testing.T) {
	toks, err := New("t.build", "'abc\nfoo\n", Standard).Scan()
	if err == nil {
		t.Fatalf("expected an error for unterminated string")
	}
	// lexer must resynchronise and still find the trailing ident.
	found := false
	for _, tok := range toks {
		if tok.Kind == Ident && tok.Text == "foo" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected lexer to recover and continue scanning: %v", toks)
	}
}

func TestScanCommentsDropped(t *testing.T) {
	toks, err := New("t.build", "foo # a comment\nbar\n", Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eqKinds(t, kinds(toks), Ident, Newline, Ident, Newline, EOF)
}

func TestScanPunctAndOperators(t *testing.T) {
	toks, err := New("t.build", "( ) [ ] { } , : . += == != <= >= < >\n", Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eqKinds(t, kinds(toks),
		LParen, RParen, LBracket, RBracket, LBrace, RBrace, Comma, Colon, Dot,
		PlusAssign, Eq, Ne, Le, Ge, Lt, Gt, Newline, EOF)
}

func TestScanLocationsTrackLineAndColumn(t *testing.T) {
	toks, err := New("t.build", "a\nbb\n", Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Loc.Line != 1 || toks[0].Loc.Column != 1 {
		t.Fatalf("tok0 loc = %+v", toks[0].Loc)
	}
	// toks[2] is "bb" on line 2
	var bb Token
	for _, tok := range toks {
		if tok.Kind == Ident && tok.Text == "bb" {
			bb = tok
		}
	}
	if bb.Loc.Line != 2 || bb.Loc.Column != 1 {
		t.Fatalf("bb loc = %+v", bb.Loc)
	}
}

func TestScanUnexpectedCharacterRecovers(t *testing.T) {
	toks, err := New("t.build", "a ; b\n", Standard).Scan()
	if err == nil {
		t.Fatalf("expected an error for ';'")
	}
	eqKinds(t, kinds(toks), Ident, Ident, Newline, EOF)
}

func TestScanEmptySource(t *testing.T) {
	toks, err := New("t.build", "", Standard).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eqKinds(t, kinds(toks), EOF)
}
