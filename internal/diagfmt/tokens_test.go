package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"crust/internal/diag"
	"crust/internal/lexer"
	"crust/internal/source"
)

func lexString(t *testing.T, src string) (*source.FileSet, *lexer.Lexer, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("tokens.cr", []byte(src))
	return fs, lexer.New(fs.Get(id), lexer.Options{}), id
}

func TestFormatTokensPretty(t *testing.T) {
	fs, _, id := lexString(t, "let a = 42")
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{})
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`Let          "let" at 1:1-1:4`, `Number       "42" at 1:9-1:11 = 42`, "Eof"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatTokensJSONAndMsgpack(t *testing.T) {
	fs, _, id := lexString(t, "1 ** 2")
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{})

	var jbuf bytes.Buffer
	if err := FormatTokensJSON(&jbuf, toks); err != nil {
		t.Fatal(err)
	}
	var fromJSON []TokenOutput
	if err := json.Unmarshal(jbuf.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}

	var mbuf bytes.Buffer
	if err := FormatTokensMsgpack(&mbuf, toks); err != nil {
		t.Fatal(err)
	}
	var fromMsgpack []TokenOutput
	if err := msgpack.Unmarshal(mbuf.Bytes(), &fromMsgpack); err != nil {
		t.Fatal(err)
	}

	if len(fromJSON) != len(toks) || len(fromMsgpack) != len(toks) {
		t.Fatalf("lengths: json=%d msgpack=%d tokens=%d", len(fromJSON), len(fromMsgpack), len(toks))
	}
	if fromMsgpack[2].Kind != "**" || fromMsgpack[2].Start != 2 || fromMsgpack[2].End != 4 {
		t.Errorf("power token = %+v", fromMsgpack[2])
	}
	if fromJSON[4].Value != 2 {
		t.Errorf("number value = %d", fromJSON[4].Value)
	}
}

func TestJSONDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("j.cr", []byte("a\nlet b = c"))
	bag := diag.NewBag(10)
	bag.ReportUndeclaredVariable(lexer.Tokenize(fs.Get(id), lexer.Options{})[0])
	bag.ReportError(diag.SemaUndeclaredVar, source.Span{File: id, Start: 10, End: 11}, "Undeclared variable 'c'")

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("Max not applied: %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM3001" || d.Severity != "ERROR" || d.Location.File != "j.cr" || d.Location.StartLine != 1 {
		t.Errorf("unexpected diagnostic %+v", d)
	}
}
