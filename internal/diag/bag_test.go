package diag

import (
	"testing"

	"crust/internal/source"
	"crust/internal/token"
)

func TestBagLimitAndOrder(t *testing.T) {
	b := NewBag(2)
	if !b.Empty() {
		t.Fatalf("new bag must be empty")
	}
	b.ReportError(SynUnexpectedToken, source.Span{Start: 5, End: 6}, "second")
	b.ReportWarning(SemaDuplicateParam, source.Span{Start: 1, End: 2}, "first")
	if b.Add(NewError(SynExpectExpression, source.Span{}, "dropped")) {
		t.Errorf("Add beyond limit must fail")
	}
	if b.Len() != 2 || !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("bag state: len=%d", b.Len())
	}
	// порядок поступления сохраняется
	if b.Items()[0].Message != "second" {
		t.Errorf("arrival order lost: %q", b.Items()[0].Message)
	}
}

func TestBagUnlimited(t *testing.T) {
	b := NewBag(0)
	for i := 0; i < 100; i++ {
		b.ReportError(SynUnexpectedToken, source.Span{}, "x")
	}
	if b.Len() != 100 {
		t.Errorf("Len = %d", b.Len())
	}
}

func TestBagMerge(t *testing.T) {
	a, other := NewBag(1), NewBag(1)
	a.ReportError(SynUnexpectedToken, source.Span{}, "a")
	other.ReportError(SemaUndeclaredVar, source.Span{}, "b")
	a.Merge(other)
	a.Merge(nil)
	if a.Len() != 2 || a.Cap() < 2 {
		t.Errorf("Merge: len=%d cap=%d", a.Len(), a.Cap())
	}
}

func TestConvenienceMessages(t *testing.T) {
	b := NewBag(10)
	eof := token.Token{Kind: token.EOF}
	b.ReportUnexpectedToken(token.Ident, eof)
	b.ReportExpectedExpression(token.Token{Kind: token.RParen, Span: source.Span{Start: 3, End: 4}})
	b.ReportUndeclaredVariable(token.Token{Kind: token.Ident, Text: "b", Span: source.Span{Start: 8, End: 9}})

	want := []struct {
		code Code
		msg  string
	}{
		{SynUnexpectedToken, "Expected <Identifier>, found <Eof>"},
		{SynExpectExpression, "Expected expression, found <)>"},
		{SemaUndeclaredVar, "Undeclared variable 'b'"},
	}
	for i, w := range want {
		d := b.Items()[i]
		if d.Code != w.code || d.Message != w.msg {
			t.Errorf("#%d: got %s %q, want %s %q", i, d.Code.ID(), d.Message, w.code.ID(), w.msg)
		}
	}
	if sp := b.Items()[2].Primary; sp.Start != 8 || sp.End != 9 {
		t.Errorf("undeclared span = %v", sp)
	}
}

func TestReporters(t *testing.T) {
	b := NewBag(10)
	dedup := NewDedupReporter(BagReporter{Bag: b})
	counting := &CountingReporter{Next: dedup}
	for i := 0; i < 3; i++ {
		ReportError(counting, SynUnexpectedToken, source.Span{Start: 1, End: 2}, "dup").
			WithNote(source.Span{}, "here").
			Emit()
	}
	ReportWarning(counting, SemaDuplicateParam, source.Span{}, "warn").Emit()
	if counting.Errors != 3 {
		t.Errorf("Errors = %d, want 3", counting.Errors)
	}
	if b.Len() != 2 {
		t.Errorf("dedup failed, len=%d", b.Len())
	}
	if len(b.Items()[0].Notes) != 1 {
		t.Errorf("note lost")
	}
	// другое сообщение на том же месте - всё равно повтор
	ReportError(counting, SynUnexpectedToken, source.Span{Start: 1, End: 2}, "reworded").Emit()
	ReportError(counting, SynExpectExpression, source.Span{Start: 1, End: 2}, "other code").Emit()
	if b.Len() != 3 {
		t.Errorf("len = %d, want 3", b.Len())
	}
	if dedup.Suppressed() != 3 {
		t.Errorf("Suppressed = %d, want 3", dedup.Suppressed())
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LexBadNumber:          "LEX1004",
		SynUnexpectedToken:    "SYN2001",
		SemaUndeclaredVar:     "SEM3001",
		SemaReturnOutsideFunc: "SEM3002",
		UnknownCode:           "E0000",
	}
	for c, want := range tests {
		if c.ID() != want {
			t.Errorf("%d.ID() = %s, want %s", c, c.ID(), want)
		}
	}
	if SynUnexpectedToken.String() != "[SYN2001]: Unexpected token" {
		t.Errorf("String = %q", SynUnexpectedToken.String())
	}
}
