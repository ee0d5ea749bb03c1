package core

import "testing"

func TestVarStringUsesDeBruijnIndex(t *testing.T) {
	v := &Var{Index: 2}
	if got, want := v.String(), "$2"; got != want {
		t.Errorf("Var.String() = %q, want %q", got, want)
	}
}

func TestLamDiscardingArgument(t *testing.T) {
	l := &Lam{BindsArg: false, Body: &Unit{}}
	if got, want := l.String(), "λ_. ()"; got != want {
		t.Errorf("Lam.String() = %q, want %q", got, want)
	}
}

func TestLamBindingArgument(t *testing.T) {
	l := &Lam{BindsArg: true, Body: &Var{Index: 0}}
	if got, want := l.String(), "λ. $0"; got != want {
		t.Errorf("Lam.String() = %q, want %q", got, want)
	}
}

func TestIfThenElseString(t *testing.T) {
	e := &IfThenElse{Cond: &True{}, Then: &Int{Value: 1}, Else: &Int{Value: 2}}
	if got, want := e.String(), "if true then 1 else 2"; got != want {
		t.Errorf("IfThenElse.String() = %q, want %q", got, want)
	}
}

func TestStringLitInterpolation(t *testing.T) {
	s := &StringLit{Parts: []StringPart{
		{Literal: "hi "},
		{Expr: &Var{Index: 0}},
	}}
	if got, want := s.String(), `"hi ${$0}"`; got != want {
		t.Errorf("StringLit.String() = %q, want %q", got, want)
	}
}

func TestRecordTracksFieldCount(t *testing.T) {
	rec := &Record{Fields: []RecordField{{Value: &Int{Value: 1}}}}
	if got, want := rec.String(), "{fields=1}"; got != want {
		t.Errorf("Record.String() = %q, want %q", got, want)
	}
}

func TestExtendWrapsEvidenceValueAndRest(t *testing.T) {
	ext := &Extend{Evidence: &Int{Value: 0}, Value: &Int{Value: 1}, Rest: &Var{Index: 0}}
	if got, want := ext.String(), "extend[0](1, $0)"; got != want {
		t.Errorf("Extend.String() = %q, want %q", got, want)
	}
}

func TestBuiltinStringIsNamePrefixedWithHash(t *testing.T) {
	b := &Builtin{Op: "add"}
	if got, want := b.String(), "#add"; got != want {
		t.Errorf("Builtin.String() = %q, want %q", got, want)
	}
}

func TestBinopString(t *testing.T) {
	b := &Binop{Op: OpAdd, A: &Int{Value: 1}, B: &Int{Value: 2}}
	if got, want := b.String(), "(1 + 2)"; got != want {
		t.Errorf("Binop.String() = %q, want %q", got, want)
	}
}

func TestPlaceholderIsDistinctFromEVar(t *testing.T) {
	p := &Placeholder{ID: 7}
	e := &EVar{Index: 7}
	if p.String() == e.String() {
		t.Fatalf("Placeholder and EVar with the same numeric id must print differently, got %q for both", p.String())
	}
}

func TestPatternStrings(t *testing.T) {
	cases := []struct {
		pat  Pattern
		want string
	}{
		{&NamePattern{Name: "x"}, "x"},
		{&WildcardPattern{}, "_"},
		{&VariantPattern{Tag: "Some", Payload: "v"}, "Some(v)"},
		{&RecordPattern{Fields: []RecordFieldPattern{{Name: "a"}, {Name: "b"}}, CaptureRest: true}, "{fields=2 rest=true}"},
	}
	for _, c := range cases {
		if got := c.pat.String(); got != c.want {
			t.Errorf("%T.String() = %q, want %q", c.pat, got, c.want)
		}
	}
}
