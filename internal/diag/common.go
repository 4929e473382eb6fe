package diag

import (
	"fmt"

	"crust/internal/source"
	"crust/internal/token"
)

// Типовые сообщения, общие для parser и symbols.

// UnexpectedToken reports that expected was required but found was seen.
func UnexpectedToken(r Reporter, expected token.Kind, found token.Token) {
	ReportError(r, SynUnexpectedToken, found.Span,
		fmt.Sprintf("Expected <%s>, found <%s>", expected, found.Kind)).Emit()
}

// ExpectedExpression reports a token that cannot start an expression.
func ExpectedExpression(r Reporter, found token.Token) {
	ReportError(r, SynExpectExpression, found.Span,
		fmt.Sprintf("Expected expression, found <%s>", found.Kind)).Emit()
}

// UndeclaredVariable reports a use of a name with no visible binding.
func UndeclaredVariable(r Reporter, name token.Token) {
	ReportError(r, SemaUndeclaredVar, name.Span,
		fmt.Sprintf("Undeclared variable '%s'", name.Text)).Emit()
}

func (b *Bag) reporter() Reporter { return BagReporter{Bag: b} }

// ReportError appends an error diagnostic.
func (b *Bag) ReportError(code Code, sp source.Span, msg string) {
	b.Add(NewError(code, sp, msg))
}

// ReportWarning appends a warning diagnostic.
func (b *Bag) ReportWarning(code Code, sp source.Span, msg string) {
	b.Add(New(SevWarning, code, sp, msg))
}

func (b *Bag) ReportUnexpectedToken(expected token.Kind, found token.Token) {
	UnexpectedToken(b.reporter(), expected, found)
}

func (b *Bag) ReportExpectedExpression(found token.Token) {
	ExpectedExpression(b.reporter(), found)
}

func (b *Bag) ReportUndeclaredVariable(name token.Token) {
	UndeclaredVariable(b.reporter(), name)
}
