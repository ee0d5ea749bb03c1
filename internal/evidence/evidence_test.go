package evidence

import (
	"testing"

	"github.com/sunholo/ailang/internal/core"
	"github.com/sunholo/ailang/internal/kinds"
	"github.com/sunholo/ailang/internal/types"
)

func newStore() *types.Store { return types.NewStore(kinds.NewStore()) }

func closedRow(fields ...types.Label) types.Type {
	tail := types.Type(types.Con{Name: types.RowNil})
	for i := len(fields) - 1; i >= 0; i-- {
		tail = types.RowCons{Field: fields[i].Name, Head: fields[i].Type, Tail: tail}
	}
	return tail
}

func TestSolveHasFieldFindsOffset(t *testing.T) {
	s := newStore()
	row := closedRow(
		types.Label{Name: "x", Type: types.Con{Name: types.IntCon}},
		types.Label{Name: "y", Type: types.Con{Name: types.Bool}},
	)
	db := NewDatabase()
	evid, err := db.Solve(s, types.HasField{Field: "y", Row: row})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	i, ok := evid.(*core.Int)
	if !ok || i.Value != 1 {
		t.Fatalf("got %#v", evid)
	}
}

func TestSolveHasFieldRespectsShadow(t *testing.T) {
	s := newStore()
	row := closedRow(
		types.Label{Name: "x", Type: types.Con{Name: types.IntCon}},
		types.Label{Name: "x", Type: types.Con{Name: types.Bool}},
	)
	db := NewDatabase()
	evid, err := db.Solve(s, types.HasField{Field: "x", Row: row, Shadow: 1})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	i := evid.(*core.Int)
	if i.Value != 1 {
		t.Fatalf("expected shadowed offset 1, got %d", i.Value)
	}
}

func TestSolveHasFieldMissingFails(t *testing.T) {
	s := newStore()
	row := closedRow(types.Label{Name: "x", Type: types.Con{Name: types.IntCon}})
	db := NewDatabase()
	if _, err := db.Solve(s, types.HasField{Field: "z", Row: row}); err == nil {
		t.Fatal("expected CannotDeduce")
	}
}

func TestSolveClassInstanceDirect(t *testing.T) {
	s := newStore()
	db := NewDatabase()
	db.Add(Implication{
		Name:       "Num Int",
		Consequent: types.App{Fun: types.Con{Name: "Num"}, Arg: types.Con{Name: types.IntCon}},
		Build: func(_ []core.Expr) core.Expr {
			return &core.Name{Name: "numIntDict"}
		},
	})
	goal := types.App{Fun: types.Con{Name: "Num"}, Arg: types.Con{Name: types.IntCon}}
	evid, err := db.Solve(s, goal)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	n, ok := evid.(*core.Name)
	if !ok || n.Name != "numIntDict" {
		t.Fatalf("got %#v", evid)
	}
}

func TestSolveSuperclassChain(t *testing.T) {
	s := newStore()
	db := NewDatabase()
	// Eq Int holds directly.
	db.Add(Implication{
		Name:       "Eq Int",
		Consequent: types.App{Fun: types.Con{Name: "Eq"}, Arg: types.Con{Name: types.IntCon}},
		Build: func(_ []core.Expr) core.Expr {
			return &core.Name{Name: "eqIntDict"}
		},
	})
	// Ord a requires Eq a as a superclass antecedent.
	db.Add(Implication{
		Name:   "Ord a => Eq a",
		TyVars: []kinds.Kind{kinds.Type{}},
		Antecedents: []types.Type{
			types.App{Fun: types.Con{Name: "Eq"}, Arg: types.Var{Index: 0}},
		},
		Consequent: types.App{Fun: types.Con{Name: "Ord"}, Arg: types.Var{Index: 0}},
		Build: func(ev []core.Expr) core.Expr {
			return &core.Record{Fields: []core.RecordField{{Evidence: ev[0]}}}
		},
	})
	goal := types.App{Fun: types.Con{Name: "Ord"}, Arg: types.Con{Name: types.IntCon}}
	evid, err := db.Solve(s, goal)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	rec, ok := evid.(*core.Record)
	if !ok || len(rec.Fields) != 1 {
		t.Fatalf("got %#v", evid)
	}
}

func TestCannotDeduceWhenNoInstance(t *testing.T) {
	s := newStore()
	db := NewDatabase()
	goal := types.App{Fun: types.Con{Name: "Num"}, Arg: types.Con{Name: types.StringCon}}
	if _, err := db.Solve(s, goal); err == nil {
		t.Fatal("expected CannotDeduce")
	}
}
