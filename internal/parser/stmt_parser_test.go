package parser

import (
	"testing"

	"crust/internal/ast"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"let", "let a = 1", []string{"let a", "1"}},
		{"no separators", "let a = 1 let b = a", []string{"let a", "1", "let b", "a"}},
		{"expr stmts in a row", "1 2 x", []string{"1", "2", "x"}},
		{"block", "{ let a = 1 a }", []string{"block", "let a", "1", "a"}},
		{"empty block", "{ }", []string{"block"}},
		{"if", "if a < 1 a", []string{"if", "binary <", "a", "1", "a"}},
		{"if else", "if a < 1 { a } else b", []string{"if", "binary <", "a", "1", "block", "a", "b"}},
		{"else if", "if a 1 else if b 2 else 3", []string{"if", "a", "1", "if", "b", "2", "3"}},
		{"while", "while x { x = x - 1 }", []string{"while", "x", "block", "assign x", "binary -", "x", "1"}},
		{"func", "func add(a, b) { return a + b } add(1, 2)",
			[]string{"func add(a,b)", "block", "return", "binary +", "a", "b", "call add", "1", "2"}},
		{"func without params", "func f() { }", []string{"func f()", "block"}},
		{"bare return", "func f() { return }", []string{"func f()", "block", "return"}},
		{"return before stmt", "func f() { return let x = 1 }", []string{"func f()", "block", "return", "let x", "1"}},
		{"return before else", "func f() { if a return else return 1 }",
			[]string{"func f()", "block", "if", "a", "return", "return", "1"}},
		{"top-level return", "return 5", []string{"return", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := expectFlat(t, tt.input, tt.want...)
			if p.bag.Len() != 0 {
				t.Errorf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
			}
		})
	}
}

func TestStatementCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"   \n\n\t ", 0},
		{"let a = 1 let b = a", 2},
		{"func f() { return 1 } f()", 2},
		{"if a { 1 } else { 2 } 3", 2},
	}
	for _, tt := range tests {
		p := parseSource(t, tt.input)
		if got := len(p.stmts()); got != tt.want {
			t.Errorf("%q: %d statements, want %d", tt.input, got, tt.want)
		}
	}
}

func TestStatementSpans(t *testing.T) {
	tests := []struct {
		input      string
		start, end uint32
	}{
		{"let a = 1", 0, 9},
		{"if x 1 else 2", 0, 13},
		{"while x { }", 0, 11},
		{"func f() { return }", 0, 19},
		{"return", 0, 6},
		{"return 42", 0, 9},
		{"  { 1 }", 2, 7},
	}
	for _, tt := range tests {
		p := parseSource(t, tt.input)
		st := p.tree.Stmts.Get(p.stmts()[0])
		if st.Span.Start != tt.start || st.Span.End != tt.end {
			t.Errorf("%q: span %d..%d, want %d..%d", tt.input, st.Span.Start, st.Span.End, tt.start, tt.end)
		}
	}
}

func TestStatementRecovery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		flat  []string
		diags string
	}{
		{
			"unclosed block", "{ 1",
			[]string{"block", "1"},
			"[SYN2001] Expected <}>, found <Eof>",
		},
		{
			"if without body", "if x",
			[]string{"if", "x", "block"},
			"[SYN2002] Expected expression, found <Eof>",
		},
		{
			"while without body", "while x",
			[]string{"while", "x", "block"},
			"[SYN2002] Expected expression, found <Eof>",
		},
		{
			"let without name", "let = 5",
			[]string{"let =", "<error>"},
			"[SYN2001] Expected <Identifier>, found <=>; [SYN2001] Expected <=>, found <Number>; [SYN2002] Expected expression, found <Eof>",
		},
		{
			"stray brace", "} 1",
			[]string{"<error>", "1"},
			"[SYN2002] Expected expression, found <}>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := expectFlat(t, tt.input, tt.flat...)
			if got := diagnosticsSummary(p.bag); got != tt.diags {
				t.Errorf("diagnostics:\n got: %s\nwant: %s", got, tt.diags)
			}
		})
	}
}

func TestFuncPayload(t *testing.T) {
	p := parseSource(t, "func sum(a, b, c) { return a }")
	fn, ok := p.tree.Stmts.Func(p.stmts()[0])
	if !ok {
		t.Fatalf("expected FuncDecl")
	}
	if fn.Name.Text != "sum" || len(fn.Params) != 3 {
		t.Fatalf("func = %s with %d params", fn.Name.Text, len(fn.Params))
	}
	if fn.Params[2].Text != "c" {
		t.Errorf("third param = %q", fn.Params[2].Text)
	}
	body := p.tree.Stmts.Get(fn.Body)
	if body.Kind != ast.StmtBlock {
		t.Errorf("body kind = %v", body.Kind)
	}
}
