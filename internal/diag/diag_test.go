package diag_test

import (
	"testing"

	"verilab/internal/diag"
	"verilab/internal/source"
)

func TestCounterCountsErrorsOnly(t *testing.T) {
	bag := diag.NewBag(0)
	c := diag.NewCounter(diag.BagReporter{Bag: bag})
	sp := source.Span{File: 0, Start: 1, End: 2}

	diag.ReportWarning(c, diag.ElabOutOfRangeSelect, sp, "bit select w[15] is out of range").Emit()
	if c.Errors() != 0 || c.Warnings() != 1 {
		t.Fatalf("after warning: errors=%d warnings=%d", c.Errors(), c.Warnings())
	}
	diag.ReportError(c, diag.ElabUnresolvedIdentifier, sp, "unable to bind q").Emit()
	if c.Errors() != 1 {
		t.Fatalf("errors = %d, want 1", c.Errors())
	}
	if bag.Len() != 2 || !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("bag not populated: len=%d", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := diag.NewBag(0)
	b := diag.ReportError(diag.BagReporter{Bag: bag}, diag.ElabOutOfOrderRange, source.Span{}, "out of order").
		WithNote(source.Span{Start: 3, End: 4}, "declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("emitted %d times", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Msg != "declared here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := diag.NewBag(2)
	r := diag.BagReporter{Bag: bag}
	r.Report(diag.ElabZeroRepeat, diag.SevError, source.Span{Start: 9, End: 10}, "b", nil)
	r.Report(diag.ElabDeprecated, diag.SevWarning, source.Span{Start: 1, End: 2}, "a", nil)
	r.Report(diag.ElabZeroRepeat, diag.SevError, source.Span{Start: 0, End: 1}, "c", nil)
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	bag.Sort()
	if got := bag.Items()[0].Message; got != "a" {
		t.Fatalf("first after sort = %q", got)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	sp := source.Span{Start: 2, End: 5}
	for range 3 {
		r.Report(diag.ElabNonConstantSelect, diag.SevError, sp, "bound is not constant", nil)
	}
	r.Report(diag.ElabNonConstantSelect, diag.SevError, sp, "other message", nil)
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code diag.Code
		want string
	}{
		{diag.SynUnexpectedToken, "SYN2001"},
		{diag.ElabOutOfOrderRange, "ELB3003"},
		{diag.IOLoadFileError, "IO4001"},
		{diag.DsnInvalid, "DSN5001"},
		{diag.UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
