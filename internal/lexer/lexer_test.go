package lexer

import "testing"

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestAllEndsWithEOF(t *testing.T) {
	toks := New("1").All()
	if len(toks) == 0 || toks[len(toks)-1].Kind != EOF {
		t.Fatalf("expected stream to end with EOF, got %v", kinds(toks))
	}
}

func TestIdentVsKeyword(t *testing.T) {
	toks := New("let x = true").All()
	want := []Kind{Keyword, Ident, Symbol, Keyword, EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), kinds(toks))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected kind %v, got %v (%q)", i, k, toks[i].Kind, toks[i].Text)
		}
	}
}

func TestUpperIdentIsDistinctFromIdent(t *testing.T) {
	toks := New("Some x").All()
	if toks[0].Kind != UpperIdent {
		t.Errorf("expected UpperIdent for %q, got %v", toks[0].Text, toks[0].Kind)
	}
	if toks[1].Kind != Ident {
		t.Errorf("expected Ident for %q, got %v", toks[1].Text, toks[1].Kind)
	}
}

func TestIntLiteral(t *testing.T) {
	toks := New("42").All()
	if toks[0].Kind != Int || toks[0].Text != "42" {
		t.Errorf("expected Int token %q, got kind %v text %q", "42", toks[0].Kind, toks[0].Text)
	}
}

func TestCharAndStringLiterals(t *testing.T) {
	toks := New(`'a' "hi"`).All()
	if toks[0].Kind != Char {
		t.Errorf("expected Char token, got %v (%q)", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != String {
		t.Errorf("expected String token, got %v (%q)", toks[1].Kind, toks[1].Text)
	}
}

func TestOffsetsAreByteOffsetsIntoSource(t *testing.T) {
	toks := New("x = 1").All()
	for _, tok := range toks {
		if tok.Offset < 0 {
			t.Fatalf("negative offset for token %q", tok.Text)
		}
	}
	// "é" is two bytes in UTF-8, so x starts at byte 5 (rune 4).
	toks = New("\"é\" x").All()
	if toks[1].Text != "x" || toks[1].Offset != 5 {
		t.Errorf("expected x at byte offset 5, got %q at %d", toks[1].Text, toks[1].Offset)
	}
}
