package symbols

import (
	"testing"

	"crust/internal/ast"
	"crust/internal/diag"
	"crust/internal/lexer"
	"crust/internal/parser"
	"crust/internal/source"
)

func parseSnippet(t *testing.T, src string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cr", []byte(src)))
	bag := diag.NewBag(32)
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: reporter})
	tree := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(tokens, file, tree, parser.Options{Reporter: reporter})
	return tree, res.File, bag
}

func resolveSnippet(t *testing.T, src string) (Result, *diag.Bag) {
	t.Helper()
	tree, fileID, parseBag := parseSnippet(t, src)
	if parseBag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %d", parseBag.Len())
	}
	bag := diag.NewBag(32)
	res := ResolveFile(tree, fileID, ResolveOptions{
		Reporter: diag.BagReporter{Bag: bag},
		Validate: true,
	})
	return res, bag
}

func TestUndeclaredVariable(t *testing.T) {
	res, bag := resolveSnippet(t, "let a = b")
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SemaUndeclaredVar || d.Message != "Undeclared variable 'b'" {
		t.Errorf("diagnostic = %s %q", d.Code.ID(), d.Message)
	}
	if d.Primary.Start != 8 || d.Primary.End != 9 {
		t.Errorf("span = %d..%d, want 8..9", d.Primary.Start, d.Primary.End)
	}
	if res.Unresolved != 1 {
		t.Errorf("Unresolved = %d", res.Unresolved)
	}
}

func TestUndeclaredSpanStartsAtName(t *testing.T) {
	_, bag := resolveSnippet(t, "let a = 10 + x")
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	if start := bag.Items()[0].Primary.Start; start != 13 {
		t.Errorf("span start = %d, want 13", start)
	}
}

func TestResolveClean(t *testing.T) {
	inputs := []string{
		"let a = 1 let b = a",
		"let a = 1 a = a + 1",
		"func f(n) { if n < 1 { return 0 } return n + f(n - 1) } f(3)",
		"let x = 1 { let y = x x = y }",
		"let i = 0 while i < 3 { i = i + 1 }",
		"func g() { return } g()",
		"let a = 1 let a = a + 1",
	}
	for _, input := range inputs {
		_, bag := resolveSnippet(t, input)
		if bag.Len() != 0 {
			t.Errorf("%q: unexpected diagnostics: %s", input, bag.Items()[0].Message)
		}
	}
}

func TestResolveDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []diag.Code
	}{
		{"let sees no own binding", "let a = a", []diag.Code{diag.SemaUndeclaredVar}},
		{"block scope ends", "{ let y = 1 } y", []diag.Code{diag.SemaUndeclaredVar}},
		{"branch scope ends", "if true let z = 1 z", []diag.Code{diag.SemaUndeclaredVar}},
		{"params are local", "func f(p) { return p } p", []diag.Code{diag.SemaUndeclaredVar}},
		{"assign needs binding", "q = 1", []diag.Code{diag.SemaUndeclaredVar}},
		{"call needs binding", "h(1)", []diag.Code{diag.SemaUndeclaredVar}},
		{"no hoisting", "k() func k() { }", []diag.Code{diag.SemaUndeclaredVar}},
		{"all misses reported", "a + b * c", []diag.Code{diag.SemaUndeclaredVar, diag.SemaUndeclaredVar, diag.SemaUndeclaredVar}},
		{"return outside func", "return 1", []diag.Code{diag.SemaReturnOutsideFunc}},
		{"duplicate param", "func f(a, a) { return a }", []diag.Code{diag.SemaDuplicateParam}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := resolveSnippet(t, tt.input)
			items := bag.Items()
			if len(items) != len(tt.want) {
				t.Fatalf("got %d diagnostics, want %d", len(items), len(tt.want))
			}
			for i, code := range tt.want {
				if items[i].Code != code {
					t.Errorf("diag %d = %s, want %s", i, items[i].Code.ID(), code.ID())
				}
			}
		})
	}
}

func TestResolveRefs(t *testing.T) {
	tree, fileID, _ := parseSnippet(t, "let a = 1 { let a = 2 a } a")
	res := ResolveFile(tree, fileID, ResolveOptions{Validate: true})

	var uses []ast.ExprID
	w := &ast.Walker{Tree: tree, Hooks: ast.Hooks{
		Ident: func(_ *ast.Walker, id ast.ExprID) { uses = append(uses, id) },
	}}
	w.File(fileID)
	if len(uses) != 2 {
		t.Fatalf("expected 2 identifier uses, got %d", len(uses))
	}
	inner, ok1 := res.Symbol(uses[0])
	outer, ok2 := res.Symbol(uses[1])
	if !ok1 || !ok2 {
		t.Fatalf("uses not resolved")
	}
	if inner == outer {
		t.Errorf("inner use must bind the shadowing let")
	}
	if got := res.Table.Symbols.Get(inner).Span.Start; got != 16 {
		t.Errorf("inner binding declared at %d, want 16", got)
	}
	if got := res.Table.Symbols.Get(outer).Span.Start; got != 4 {
		t.Errorf("outer binding declared at %d, want 4", got)
	}
	if res.Table.Name(outer) != "a" {
		t.Errorf("name = %q", res.Table.Name(outer))
	}
}

func TestResolveSkipsRecoveryNodes(t *testing.T) {
	tree, fileID, parseBag := parseSnippet(t, "let a = ) let b = a")
	if parseBag.Len() == 0 {
		t.Fatalf("expected a syntax error")
	}
	bag := diag.NewBag(8)
	ResolveFile(tree, fileID, ResolveOptions{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Errorf("resolver reported %d diagnostics on a recovered tree", bag.Len())
	}
}

func TestResolveFunctionSymbol(t *testing.T) {
	res, _ := resolveSnippet(t, "func add(a, b) { return a + b }")
	var fn *Symbol
	for i, sym := range res.Table.Symbols.Data() {
		if sym.Kind == SymbolFunction {
			fn = &res.Table.Symbols.Data()[i]
		}
	}
	if fn == nil {
		t.Fatalf("function symbol not declared")
	}
	if fn.Arity != 2 || fn.Scope != res.FileScope {
		t.Errorf("function symbol = %+v", *fn)
	}
	if res.Table.Scopes.Len() != 3 {
		t.Errorf("scopes = %d, want file, function and body block", res.Table.Scopes.Len())
	}
}
