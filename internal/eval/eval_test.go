package eval

import (
	"context"
	"strings"
	"testing"

	"crust/internal/ast"
	"crust/internal/diag"
	"crust/internal/lexer"
	"crust/internal/parser"
	"crust/internal/source"
)

type program struct {
	fs   *source.FileSet
	tree *ast.Builder
	file ast.FileID
	bag  *diag.Bag
}

func compile(t *testing.T, src string) program {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cr", []byte(src)))
	bag := diag.NewBag(16)
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: reporter})
	tree := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(tokens, file, tree, parser.Options{Reporter: reporter})
	return program{fs: fs, tree: tree, file: res.File, bag: bag}
}

func run(t *testing.T, src string, opts Options) (Value, *Error) {
	t.Helper()
	p := compile(t, src)
	if p.bag.Len() != 0 {
		t.Fatalf("%q: unexpected diagnostics: %s", src, p.bag.Items()[0].Message)
	}
	return Run(context.Background(), p.tree, p.file, opts)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"- - - 5", -5},
		{"- - 5", 5},
		{"+ - 7", -7},
		{"1 - 2 - 3", -4},
		{"8 / 4 / 2", 1},
		{"7 / 2", 3},
		{"-7 / 2", -3},
		{"2 ** 3 ** 2", 512},
		{"-2 ** 2", 4},
		{"2 ** 0", 1},
		{"0 ** 0", 1},
		{"6 & 3 | 8", 10},
		{"5 ^ 1", 4},
		{"~0", -1},
		{"1 + 2 & 7", 3},
		{"7 + 3 * (10 / (12 / (3 + 1) - 1))", 22},
		{"9223372036854775807", 9223372036854775807},
	}
	for _, tt := range tests {
		v, err := run(t, tt.input, Options{})
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.input, err)
			continue
		}
		if v.Kind != KindInt || v.Int != tt.want {
			t.Errorf("%q = %s, want %d", tt.input, v, tt.want)
		}
	}
}

func TestBooleans(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1 < 2", true},
		{"2 <= 1", false},
		{"3 > 2 == true", true},
		{"true == false", false},
		{"1 != 2", true},
		{"!(1 == 1)", false},
		{"!false", true},
	}
	for _, tt := range tests {
		v, err := run(t, tt.input, Options{})
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.input, err)
			continue
		}
		if v.Kind != KindBool || v.Bool != tt.want {
			t.Errorf("%q = %s, want %t", tt.input, v, tt.want)
		}
	}
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"let chain", "let a = 10 let b = a * 2 b", "20"},
		{"let is a value", "let a = 10", "10"},
		{"assignment value", "let x = 1 x = x + 41", "42"},
		{"if keeps last value", "let a = 5 if true { a + 1 }", "5"},
		{"else branch", "let a = 0 if a > 0 { a = 1 } else { a = 2 } a", "2"},
		{"while", "let i = 0 let s = 0 while i < 5 { i = i + 1 s = s + i } s", "15"},
		{"fib", "func fib(n) { if n < 2 { return n } return fib(n - 1) + fib(n - 2) } fib(10)", "55"},
		{"call result", "func g(a) { return a } let r = g(7) r", "7"},
		{"params shadow globals", "let a = 1 func f(a) { return a * 10 } f(5) + a", "51"},
		{"assign global from call", "let c = 0 func inc() { c = c + 1 } inc() inc() c", "2"},
		{"first return wins", "func f() { return 1 return 2 } f()", "1"},
		{"return from loop", "func f() { let i = 0 while true { i = i + 1 if i == 4 return i } } f()", "4"},
		{"no value", "func f() { } f()", "nothing"},
		{"bare return", "func f() { return } f()", "nothing"},
		{"only declarations", "func f() { }", "nothing"},
		{"empty program", "", "nothing"},
		{"function value", "func f(a, b) { } f", "<func f/2>"},
		{"nested sees outer params", "func outer(a) { func inner() { return a } return inner() } outer(5)", "5"},
		{"nested recursion", "func outer() { func count(n) { if n < 1 return 0 return 1 + count(n - 1) } return count(3) } outer()", "3"},
		{"nested assigns outer local", "func outer() { let c = 0 func inc() { c = c + 1 } inc() inc() return c } outer()", "2"},
		{"returned function keeps its env", "func mk(a) { func get() { return a } return get } let g = mk(9) g()", "9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := run(t, tt.input, Options{})
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("result = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  PanicCode
	}{
		{"division by zero", "10 / 0", PanicDivisionByZero},
		{"negative exponent", "2 ** -1", PanicNegativeExponent},
		{"add overflow", "9223372036854775807 + 1", PanicOverflow},
		{"mul overflow", "4611686018427387904 * 2", PanicOverflow},
		{"pow overflow", "2 ** 63", PanicOverflow},
		{"neg overflow", "-(0 - 9223372036854775807 - 1)", PanicOverflow},
		{"div overflow", "(0 - 9223372036854775807 - 1) / -1", PanicOverflow},
		{"int condition", "if 1 { 2 }", PanicTypeMismatch},
		{"bool arithmetic", "1 + true", PanicTypeMismatch},
		{"not on int", "!1", PanicTypeMismatch},
		{"mixed equality", "1 == true", PanicTypeMismatch},
		{"binding no value", "func f() { } let v = f()", PanicTypeMismatch},
		{"not callable", "let a = 1 a()", PanicNotCallable},
		{"arity", "func f(x) { return x } f(1, 2)", PanicArityMismatch},
		{"undefined name", "x + 1", PanicUndefinedName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := run(t, tt.input, Options{})
			if err == nil {
				t.Fatalf("expected %s, got value %s", tt.code, v)
			}
			if err.Code != tt.code {
				t.Errorf("code = %s (%s), want %s", err.Code, err.Message, tt.code)
			}
			if !v.IsNothing() {
				t.Errorf("failed run returned a value: %s", v)
			}
		})
	}
}

func TestDivisionByZeroLocation(t *testing.T) {
	p := compile(t, "10 / 0")
	_, err := Run(context.Background(), p.tree, p.file, Options{})
	if err == nil {
		t.Fatalf("expected division error")
	}
	if err.Span.Start != 3 || err.Span.End != 4 {
		t.Errorf("span = %d..%d, want the operator 3..4", err.Span.Start, err.Span.End)
	}
	want := "panic EVAL1001: division by zero\nat test.cr:1:4\n"
	if got := err.FormatWithFiles(p.fs); got != want {
		t.Errorf("formatted:\n%q\nwant:\n%q", got, want)
	}
	if err.Error() != "panic EVAL1001: division by zero" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestBacktrace(t *testing.T) {
	p := compile(t, "func inner(x) { return x / 0 } func outer() { return inner(1) } outer()")
	_, err := Run(context.Background(), p.tree, p.file, Options{})
	if err == nil || err.Code != PanicDivisionByZero {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if len(err.Backtrace) != 2 || err.Backtrace[0].FuncName != "inner" || err.Backtrace[1].FuncName != "outer" {
		t.Fatalf("backtrace = %+v", err.Backtrace)
	}
	if !strings.Contains(err.FormatWithFiles(p.fs), "backtrace:\n  0: inner at test.cr:1:") {
		t.Errorf("formatted:\n%s", err.FormatWithFiles(p.fs))
	}
}

func TestStackOverflow(t *testing.T) {
	_, err := run(t, "func f(n) { return f(n + 1) } f(0)", Options{MaxDepth: 50})
	if err == nil || err.Code != PanicStackOverflow {
		t.Fatalf("expected stack overflow, got %v", err)
	}
	if len(err.Backtrace) != 50 {
		t.Errorf("backtrace depth = %d", len(err.Backtrace))
	}
}

func TestInterrupted(t *testing.T) {
	p := compile(t, "while true { }")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, p.tree, p.file, Options{})
	if err == nil || err.Code != PanicInterrupted {
		t.Fatalf("expected interruption, got %v", err)
	}
}

func TestRecoveryNodeIsInternalError(t *testing.T) {
	p := compile(t, "1 +")
	if p.bag.Len() == 0 {
		t.Fatalf("expected a syntax error")
	}
	_, err := Run(context.Background(), p.tree, p.file, Options{})
	if err == nil || err.Code != PanicInternal {
		t.Fatalf("expected EVAL1999, got %v", err)
	}
}

func TestEvaluatorKeepsGlobals(t *testing.T) {
	p := compile(t, "let a = 2 func sq(x) { return x * x }")
	ev := New(context.Background(), p.tree, Options{})
	if _, err := ev.RunFile(p.file); err != nil {
		t.Fatal(err)
	}
	if v, ok := ev.Globals().Lookup("a"); !ok || v.Int != 2 {
		t.Errorf("a = %s, %v", v, ok)
	}
	if v, _ := ev.Globals().Lookup("sq"); v.Kind != KindFunc {
		t.Errorf("sq = %s", v)
	}
	if ev.Globals().Len() != 2 {
		t.Errorf("globals = %d", ev.Globals().Len())
	}
}
