package diag

import (
	"testing"

	"github.com/slaakko/cmajor-sub007/internal/source"
)

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		SemaAmbiguousCall:      "SEM3101",
		UnitSyntax:             "UNT2001",
		ExpImportInstantiation: "IO4100",
		ProjImportCycle:        "PRJ5002",
		UnknownCode:            "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: want %s, got %s", code, want, got)
		}
	}
	if SemaNoViableFunction.Title() != "No viable function" {
		t.Fatalf("unexpected title %q", SemaNoViableFunction.Title())
	}
	if Code(3999).Title() != "Unknown error" {
		t.Fatalf("unknown code should fall back to generic title")
	}
}

func TestBagLimitSortAndDedup(t *testing.T) {
	bag := NewBag(3)
	r := BagReporter{Bag: bag}
	ReportError(r, SemaUnresolvedName, source.Span{File: 1, Start: 10, End: 12}, "b").Emit()
	ReportWarning(r, SemaInfo, source.Span{File: 1, Start: 2, End: 4}, "a").Emit()
	ReportError(r, SemaUnresolvedName, source.Span{File: 1, Start: 10, End: 12}, "b").Emit()
	ReportError(r, SemaUnresolvedName, source.Span{File: 2, Start: 0, End: 1}, "dropped").Emit()

	if bag.Len() != 3 {
		t.Fatalf("expected limit to cap at 3, got %d", bag.Len())
	}
	bag.Sort()
	if bag.Items()[0].Message != "a" {
		t.Fatalf("expected earliest span first, got %q", bag.Items()[0].Message)
	}
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 after dedup, got %d", bag.Len())
	}
	if !bag.HasErrors() || bag.Count(SevError) != 1 {
		t.Fatalf("expected exactly one error")
	}
}

func TestBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, SemaAmbiguousCall, source.Span{}, "ambiguous").
		WithNote(source.Span{Start: 1, End: 2}, "candidate f(int)").
		WithNote(source.Span{Start: 3, End: 4}, "candidate f(long)")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 2 {
		t.Fatalf("expected two notes, got %d", len(bag.Items()[0].Notes))
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 5, End: 9}
	r.Report(SemaConstraintNotSatisfied, SevError, sp, "x", nil)
	r.Report(SemaConstraintNotSatisfied, SevError, sp, "x", nil)
	r.Report(SemaConstraintNotSatisfied, SevError, sp, "y", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}
