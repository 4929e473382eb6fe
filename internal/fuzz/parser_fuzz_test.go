package fuzztests

import (
	"bytes"
	"context"
	"testing"
	"time"

	"crust/internal/ast"
	"crust/internal/compiler"
	"crust/internal/diag"
	"crust/internal/diagfmt"
	"crust/internal/lexer"
	"crust/internal/parser"
	"crust/internal/source"
	"crust/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parseInput(input []byte) (*ast.Builder, ast.FileID, *source.File, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.cr", input))
	bag := diag.NewBag(128)
	reporter := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(lexer.Tokenize(file, lexer.Options{Reporter: reporter}), file, builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: 128,
	})
	return builder, res.File, file, bag
}

// FuzzParserSpans checks span invariants on every tree; clean trees must also
// survive a print and re-parse without diagnostics.
func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		builder, fileID, file, bag := parseInput(input)
		if err := testkit.CheckSpanInvariants(builder, fileID, file); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
		}
		if !bag.Empty() {
			return
		}
		if err := testkit.CheckNestedSpans(builder, fileID, file); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
		}
		var printed bytes.Buffer
		if err := diagfmt.PrintSource(&printed, builder, fileID); err != nil {
			t.Fatal(err)
		}
		if _, _, _, bag2 := parseInput(printed.Bytes()); !bag2.Empty() {
			t.Fatalf("printed source does not parse:\n%s", printed.String())
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// рекурсия и восстановление после ошибок
	f.Add([]byte("(((((((((((((((((((("))
	f.Add([]byte("{ { { { { { { { { {"))
	f.Add([]byte("func func func ( , , )"))
	f.Add([]byte("let let let = = ="))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		done := make(chan struct{})
		go func() {
			defer close(done)
			parseInput(input)
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzPipeline drives arbitrary input through compile and run; evaluation is
// bounded by a deadline and a small call depth.
func FuzzPipeline(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		unit := compiler.CompileSource(context.Background(), "fuzz.cr", string(input), compiler.Options{
			MaxDiagnostics: 64,
			MaxDepth:       64,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		_, ran, err := unit.Run(ctx)
		if ran != unit.Bag.Empty() {
			t.Fatalf("ran=%v with %d diagnostics", ran, unit.Bag.Len())
		}
		if err != nil && err.Span.End > uint32(len(unit.File.Content)) {
			t.Fatalf("runtime error span %d..%d outside input", err.Span.Start, err.Span.End)
		}
	})
}
