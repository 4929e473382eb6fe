package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
[package]
name = "demo"

[diagnostics]
window = 4
format = "short"

[run]
main = "src/main.cr"
max_depth = 64
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Package.Name != "demo" || cfg.Diagnostics.Window != 4 || cfg.Diagnostics.Format != "short" {
		t.Errorf("decoded = %+v", cfg)
	}
	if cfg.Diagnostics.Max != 100 || cfg.Diagnostics.Color != "auto" {
		t.Errorf("defaults lost: %+v", cfg.Diagnostics)
	}
	if cfg.Run.MaxDepth != 64 {
		t.Errorf("max_depth = %d", cfg.Run.MaxDepth)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[diagnostics\n", "failed to parse TOML"},
		{"unknown key", "[diagnostics]\ncolour = \"on\"\n", "unknown keys: diagnostics.colour"},
		{"bad enum", "[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"negative", "[diagnostics]\nmax = -1\n", "must be >= 0"},
		{"run without main", "[run]\nmax_depth = 3\n", "missing [run].main"},
		{"bad timeout", "[run]\nmain = \"m.cr\"\ntimeout = \"soon\"\n", "[run].timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadNearestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "[run]\nmain = \"main.cr\"\n")
	writeFile(t, filepath.Join(root, "main.cr"), "1 + 2")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadNearest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadNearest = %v, %v", ok, err)
	}
	if m.Root != root {
		t.Errorf("root = %q, want %q", m.Root, root)
	}
	mainPath, err := m.MainFile()
	if err != nil {
		t.Fatalf("MainFile: %v", err)
	}
	if mainPath != filepath.Join(root, "main.cr") {
		t.Errorf("main = %q", mainPath)
	}
}

func TestMainFileMustBeSource(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.txt"), "")
	m := &Manifest{Path: filepath.Join(root, FileName), Root: root, Config: Config{Run: RunConfig{Main: "main.txt"}}}
	if _, err := m.MainFile(); err == nil || !strings.Contains(err.Error(), ".cr file") {
		t.Errorf("error = %v", err)
	}
	m.Config.Run.Main = "missing.cr"
	if _, err := m.MainFile(); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error = %v", err)
	}
}
