package hunklink

import "testing"

func TestDatabase_HunkNamesInsertionOrder(t *testing.T) {
	db := NewDatabase(nil)
	db.AddHunk(&Hunk{Unit: "a", Class: ClassData, Name: "vars"})
	db.AddHunk(&Hunk{Unit: "a", Class: ClassData, Name: "consts"})
	db.AddHunk(&Hunk{Unit: "b", Class: ClassData, Name: "vars"})

	names := db.HunkNames(ClassData)
	want := []string{"vars", "consts"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d]: got %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDatabase_HunksAccumulatePerName(t *testing.T) {
	db := NewDatabase(nil)
	h1 := &Hunk{Unit: "a", Class: ClassCode, Name: "text"}
	h2 := &Hunk{Unit: "b", Class: ClassCode, Name: "text"}
	db.AddHunk(h1)
	db.AddHunk(h2)

	got := db.Hunks(ClassCode, "text")
	if len(got) != 2 || got[0] != h1 || got[1] != h2 {
		t.Errorf("got %v, want [%v %v]", got, h1, h2)
	}
}

func TestDatabase_EachHunkVisitsEveryInstance(t *testing.T) {
	db := NewDatabase(nil)
	db.AddHunk(&Hunk{Unit: "a", Class: ClassCode, Name: "x", Body: []byte{1}})
	db.AddHunk(&Hunk{Unit: "a", Class: ClassCode, Name: "y", Body: []byte{2}})
	db.AddHunk(&Hunk{Unit: "b", Class: ClassCode, Name: "x", Body: []byte{3}})

	var seen [][]byte
	db.EachHunk(ClassCode, func(h *Hunk) {
		seen = append(seen, h.Body)
	})
	if len(seen) != 3 {
		t.Fatalf("expected 3 visits, got %d", len(seen))
	}
}

func TestDatabase_DefineSymbol_OverwritesOnCollision(t *testing.T) {
	db := NewDatabase(NewLogger(true))
	db.DefineSymbol("Foo", Symbol{Site: Triple{Unit: "a", Name: "text"}, Value: 10})
	db.DefineSymbol("Foo", Symbol{Site: Triple{Unit: "b", Name: "text"}, Value: 20})

	sym, ok := db.Symbol("Foo")
	if !ok {
		t.Fatal("expected Foo to be defined")
	}
	if sym.Site.Unit != "b" || sym.Value != 20 {
		t.Errorf("expected second definition to win, got %+v", sym)
	}
}

func TestDatabase_Symbol_Missing(t *testing.T) {
	db := NewDatabase(nil)
	if _, ok := db.Symbol("Nope"); ok {
		t.Error("expected ok=false for undefined symbol")
	}
}

func TestDatabase_Placement_RoundTrip(t *testing.T) {
	db := NewDatabase(nil)
	tr := Triple{Unit: "a", Class: ClassCode, Name: "text"}
	db.SetPlacement(tr, Placement{Hnum: 2, Disp: 40})

	p, ok := db.PlacementOf(tr)
	if !ok {
		t.Fatal("expected placement to be found")
	}
	if p.Hnum != 2 || p.Disp != 40 {
		t.Errorf("got %+v", p)
	}

	if _, ok := db.PlacementOf(Triple{Unit: "a", Class: ClassCode, Name: "other"}); ok {
		t.Error("expected ok=false for unplaced triple")
	}
}
