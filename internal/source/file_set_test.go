package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetAddVirtual(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.cr", []byte("let a = 1\nlet b = a\n"))
	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Errorf("virtual flag not set")
	}
	if f.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", f.LineCount())
	}
	if got := f.GetLine(2); got != "let b = a" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.cr", []byte("ab\ncde\nf"))

	tests := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3}, // сам '\n'
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
		{8, 3, 2}, // EOF
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start.Line != tt.line || start.Col != tt.col {
			t.Errorf("off %d: got %d:%d, want %d:%d", tt.off, start.Line, start.Col, tt.line, tt.col)
		}
	}
}

func TestFileSetNormalization(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("bom.cr", []byte("\xEF\xBB\xBFa\r\nb"))
	f := fs.Get(id)
	if string(f.Content) != "a\nb" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
}

func TestFileSetNFC(t *testing.T) {
	fs := NewFileSet()
	// "e" + combining acute -> "é"
	id := fs.AddVirtual("nfc.cr", []byte("let e\u0301 = 1"))
	f := fs.Get(id)
	if string(f.Content) != "let \u00e9 = 1" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileNormalizedNFC == 0 {
		t.Errorf("NFC flag not set")
	}

	plain := fs.Get(fs.AddVirtual("plain.cr", []byte("let a = 1")))
	if plain.Flags&FileNormalizedNFC != 0 {
		t.Errorf("NFC flag set for text that was already normal")
	}
}

func TestFileText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.cr", []byte("let a = 10 + x"))
	f := fs.Get(id)
	if got := f.Text(Span{File: id, Start: 13, End: 14}); got != "x" {
		t.Errorf("Text = %q", got)
	}
	// выход за границы обрезается
	if got := f.Text(Span{File: id, Start: 13, End: 99}); got != "x" {
		t.Errorf("clamped Text = %q", got)
	}
	ls := f.LineSpan(5)
	if ls.Start != 0 || ls.End != 14 {
		t.Errorf("LineSpan = %v", ls)
	}
}

func TestFileSetLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.cr")
	if err := os.WriteFile(path, []byte("1 + 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	fs.SetBaseDir(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := fs.Get(id).FormatPath("relative", dir); got != "prog.cr" {
		t.Errorf("FormatPath relative = %q", got)
	}
	if got := fs.Get(id).FormatPath("basename", ""); got != "prog.cr" {
		t.Errorf("FormatPath basename = %q", got)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.cr")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("alpha")
	b := in.Intern("beta")
	if a == b || in.Intern("alpha") != a {
		t.Errorf("intern ids: %d %d", a, b)
	}
	if in.Intern("") != NoStringID {
		t.Errorf("empty string must map to NoStringID")
	}
	if s, ok := in.Lookup(b); !ok || s != "beta" {
		t.Errorf("lookup = %q", s)
	}
	if _, ok := in.Lookup(99); ok {
		t.Errorf("unknown id resolved")
	}
}
