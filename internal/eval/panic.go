package eval

import (
	"fmt"
	"strings"

	"crust/internal/source"
)

// PanicCode identifies a runtime failure.
type PanicCode int

// Stable codes, do not renumber.
const (
	PanicDivisionByZero   PanicCode = 1001
	PanicNegativeExponent PanicCode = 1002
	PanicOverflow         PanicCode = 1003
	PanicTypeMismatch     PanicCode = 1004
	PanicNotCallable      PanicCode = 1005
	PanicArityMismatch    PanicCode = 1006
	PanicInterrupted      PanicCode = 1007
	PanicUndefinedName    PanicCode = 1008
	PanicStackOverflow    PanicCode = 1009
	PanicInternal         PanicCode = 1999
)

// String returns the code as "EVAL1001".
func (c PanicCode) String() string {
	return fmt.Sprintf("EVAL%d", c)
}

// Frame is one active call at the moment of the failure.
type Frame struct {
	FuncName string
	Span     source.Span // место вызова
}

// Error is a fatal runtime failure. Evaluation stops at the first one.
type Error struct {
	Code      PanicCode
	Message   string
	Span      source.Span
	Backtrace []Frame // от внутреннего вызова к внешнему
}

func (e *Error) Error() string {
	return fmt.Sprintf("panic %s: %s", e.Code, e.Message)
}

// FormatWithFiles renders the failure with file:line:col locations.
func (e *Error) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "panic %s: %s\n", e.Code, e.Message)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(e.Span, files))
	sb.WriteByte('\n')
	if len(e.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range e.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, frame.FuncName, formatSpan(frame.Span, files))
		}
	}
	return sb.String()
}

func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

func (ev *Evaluator) fail(code PanicCode, span source.Span, format string, args ...any) *Error {
	e := &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
	for i := len(ev.frames) - 1; i >= 0; i-- {
		e.Backtrace = append(e.Backtrace, ev.frames[i])
	}
	return e
}

func (ev *Evaluator) typeMismatch(span source.Span, expected string, got Value) *Error {
	return ev.fail(PanicTypeMismatch, span, "expected %s, got %s", expected, got.Kind)
}
