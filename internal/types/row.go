package types

// Label is one (possibly duplicated) field entry of a flattened row.
type Label struct {
	Name string
	Type Type
}

// RowView is a row flattened to an ordered label list plus a tail: either
// Con{RowNil} (closed) or a Meta (open, unifiable).
type RowView struct {
	Labels []Label
	Tail   Type
}

// FlattenRow walks a RowCons/Con{RowNil}/Meta chain into a RowView, zonking
// metavariables as it goes so the view reflects the current store. t may be
// given either as a bare row or as a Record/Variant-wrapped type (App{Con{
// RecordCon|Variant}, row}); the wrapper, if present, is stripped first, so
// callers never need to unwrap it themselves before building a HasField
// constraint over a value's natural type.
func FlattenRow(s *Store, t Type) RowView {
	t = Zonk(s, t)
	if app, ok := t.(App); ok {
		if con, ok := app.Fun.(Con); ok && (con.Name == RecordCon || con.Name == Variant) {
			t = app.Arg
		}
	}
	var labels []Label
	for {
		t = Zonk(s, t)
		switch r := t.(type) {
		case RowCons:
			labels = append(labels, Label{Name: r.Field, Type: r.Head})
			t = r.Tail
			continue
		default:
			return RowView{Labels: labels, Tail: t}
		}
	}
}

// BuildRow reconstructs a RowCons chain from labels (right fold, preserving
// order) terminated by tail.
func BuildRow(labels []Label, tail Type) Type {
	t := tail
	for i := len(labels) - 1; i >= 0; i-- {
		t = RowCons{Field: labels[i].Name, Head: labels[i].Type, Tail: t}
	}
	return t
}

func isRowNil(t Type) bool {
	c, ok := t.(Con)
	return ok && c.Name == RowNil
}
