package diag_test

import (
	"testing"

	"aim/internal/diag"
	"aim/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagSortIsPathMajor(t *testing.T) {
	paths := map[source.FileID]string{
		0: "aim/zeta.intent.intent",
		1: "aim/alpha.intent.intent",
	}
	pathOf := func(id source.FileID) string { return paths[id] }

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.IntMissingTests, Primary: span(0, 5, 6)})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SynTrailingComma, Primary: span(1, 40, 41)})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.HdrBadVersion, Primary: span(1, 0, 17)})
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.ResOverridden, Primary: span(1, 0, 17)})

	bag.Sort(pathOf)

	got := bag.Items()
	want := []diag.Code{diag.HdrBadVersion, diag.ResOverridden, diag.SynTrailingComma, diag.IntMissingTests}
	for i, d := range got {
		if d.Code != want[i] {
			t.Fatalf("item %d = %v, want %v", i, d.Code, want[i])
		}
	}
	// Same span: the hard error must come before the note.
	if got[0].Severity != diag.SevError || got[1].Severity != diag.SevInfo {
		t.Fatalf("severity tiebreak broken: %v then %v", got[0].Severity, got[1].Severity)
	}
}

func TestBagMergeAndLimits(t *testing.T) {
	a := diag.NewBag(1)
	if ok := a.Add(diag.Diagnostic{Code: diag.SynUnknownChar}); !ok {
		t.Fatal("first add must succeed")
	}
	if ok := a.Add(diag.Diagnostic{Code: diag.SynUnknownChar}); ok {
		t.Fatal("add beyond limit must be dropped")
	}

	b := diag.NewBag(1)
	b.Add(diag.Diagnostic{Code: diag.HdrBadHeader, Severity: diag.SevError})

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("merge must grow the limit, len=%d", a.Len())
	}
	if !a.HasErrors() || a.ErrorCount() != 1 {
		t.Fatalf("HasErrors/ErrorCount wrong: %v %d", a.HasErrors(), a.ErrorCount())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := diag.NewBag(10)
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	sp := span(3, 10, 12)
	r.Report(diag.SynTrailingComma, diag.SevError, sp, "trailing comma", nil)
	r.Report(diag.SynTrailingComma, diag.SevError, sp, "trailing comma", nil)
	r.Report(diag.SynTrailingComma, diag.SevError, sp, "different message", nil)

	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestReportBuilderEmitOnce(t *testing.T) {
	bag := diag.NewBag(10)
	b := diag.ReportError(diag.BagReporter{Bag: bag}, diag.ResIncludeTargetMismatch, span(0, 1, 2), "boom").
		WithNote(span(0, 3, 4), "declared here")
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("len = %d, want 1", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note lost")
	}
}

func TestCodeIdentity(t *testing.T) {
	if got := diag.HdrPathMismatch.ID(); got != "HDR1008" {
		t.Errorf("ID = %q", got)
	}
	if got := diag.TrcDanglingView.Category(); got != "traceability" {
		t.Errorf("Category = %q", got)
	}
	if got := diag.DepMappingCycle.Category(); got != "dependency" {
		t.Errorf("Category = %q", got)
	}
}
