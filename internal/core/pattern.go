package core

import "fmt"

// Pattern is the core pattern sum (spec §3: Name, Record, Variant,
// Wildcard).
type Pattern interface {
	String() string
	patternNode()
}

// NamePattern binds the scrutinee (or field) to a fresh local, pushed onto
// env at the bound de Bruijn index 0.
type NamePattern struct {
	Name string
}

func (*NamePattern) patternNode()     {}
func (p *NamePattern) String() string { return p.Name }

// RecordFieldPattern pairs a bound name with its HasField evidence (the
// runtime index to extract).
type RecordFieldPattern struct {
	Name     string
	Evidence Expr
}

// RecordPattern destructures named fields (pushed onto env in order) and,
// if CaptureRest is set, a leftover record built by deleting the extracted
// indices.
type RecordPattern struct {
	Fields      []RecordFieldPattern
	CaptureRest bool
	RestName    string
}

func (*RecordPattern) patternNode() {}
func (p *RecordPattern) String() string {
	return fmt.Sprintf("{fields=%d rest=%v}", len(p.Fields), p.CaptureRest)
}

// VariantPattern matches a tag (given by TagEvidence, the solved runtime
// tag index) and binds its payload.
type VariantPattern struct {
	Tag         string
	TagEvidence Expr
	Payload     string // bound name for the payload
}

func (*VariantPattern) patternNode() {}
func (p *VariantPattern) String() string {
	return fmt.Sprintf("%s(%s)", p.Tag, p.Payload)
}

// WildcardPattern always matches and binds nothing.
type WildcardPattern struct{}

func (*WildcardPattern) patternNode()     {}
func (*WildcardPattern) String() string   { return "_" }
