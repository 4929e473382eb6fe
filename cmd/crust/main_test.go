package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"crust/internal/config"
	"crust/internal/diagfmt"
	"crust/internal/pipeline"
)

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	if got := exitCode(nil, &buf); got != exitOK {
		t.Errorf("nil -> %d", got)
	}
	if got := exitCode(failed(), &buf); got != exitFailed || buf.Len() != 0 {
		t.Errorf("failed -> %d, printed %q", got, buf.String())
	}
	if got := exitCode(errors.New("boom"), &buf); got != exitUsage {
		t.Errorf("plain error -> %d", got)
	}
	if buf.String() != "crust: boom\n" {
		t.Errorf("printed %q", buf.String())
	}
}

func TestShutdownSignals(t *testing.T) {
	for _, sig := range []os.Signal{os.Interrupt, syscall.SIGTERM} {
		if !slices.Contains(shutdownSignals, sig) {
			t.Errorf("%v does not cancel the command context", sig)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		err  bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"maybe", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if shouldUseTUI(uiModeOff) || !shouldUseTUI(uiModeOn) {
		t.Errorf("explicit modes must win")
	}
}

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("color", "auto", "")
	cmd.Flags().Int("max-diagnostics", 100, "")
	cmd.Flags().Bool("fullpath", false, "")
	addExprFlag(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestSettingsOverrides(t *testing.T) {
	s := &settings{cfg: config.Default()}
	s.cfg.Diagnostics.Max = 7
	s.cfg.Diagnostics.Color = "on"
	s.cfg.Diagnostics.PathMode = "basename"

	cmd := newFlagCmd(t)
	if n, _ := s.maxDiagnostics(cmd); n != 7 {
		t.Errorf("max from config = %d", n)
	}
	if c, _ := s.useColor(cmd, os.Stdout); !c {
		t.Errorf("color from config should be on")
	}
	if m, _ := s.pathMode(cmd); m != diagfmt.PathModeBasename {
		t.Errorf("path mode = %v", m)
	}

	cmd = newFlagCmd(t, "--max-diagnostics", "3", "--color", "off", "--fullpath")
	if n, _ := s.maxDiagnostics(cmd); n != 3 {
		t.Errorf("max from flag = %d", n)
	}
	if c, _ := s.useColor(cmd, os.Stdout); c {
		t.Errorf("--color off must win")
	}
	if m, _ := s.pathMode(cmd); m != diagfmt.PathModeAbsolute {
		t.Errorf("--fullpath should force absolute paths")
	}

	cmd = newFlagCmd(t, "--color", "sometimes")
	if _, err := s.useColor(cmd, os.Stdout); err == nil {
		t.Errorf("expected error for bad color")
	}
}

func TestLoadInput(t *testing.T) {
	cmd := newFlagCmd(t, "-e", "1 + 2")
	fs, id, err := loadInput(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f := fs.Get(id); string(f.Content) != "1 + 2" || f.Path != exprFileName {
		t.Errorf("file = %q %q", f.Path, f.Content)
	}

	if _, _, err := loadInput(newFlagCmd(t, "-e", "1"), []string{"x.cr"}); err == nil {
		t.Errorf("-e with a file should fail")
	}
	if _, _, err := loadInput(newFlagCmd(t), nil); !errors.Is(err, errNoInput) {
		t.Errorf("err = %v, want errNoInput", err)
	}

	path := filepath.Join(t.TempDir(), "a.cr")
	if err := os.WriteFile(path, []byte("let a = 1"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs, id, err = loadInput(newFlagCmd(t), []string{path})
	if err != nil || string(fs.Get(id).Content) != "let a = 1" {
		t.Errorf("load file: %v", err)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.cr", "a.cr", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	missing := filepath.Join(dir, "missing.cr")
	got, err := expandPaths([]string{dir, missing})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.cr"), filepath.Join(dir, "b.cr"), missing}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPrintStageTimings(t *testing.T) {
	var tm pipeline.Timings
	tm.Add(pipeline.StageParse, 1500*time.Microsecond)
	tm.Add(pipeline.StageRun, 2*time.Millisecond)
	var buf bytes.Buffer
	printStageTimings(&buf, tm)
	if got, want := buf.String(), "parsed 1.5 ms\nran 2.0 ms\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, versionOptions{showHash: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"tool": "crust"`) || !strings.Contains(buf.String(), `"git_commit"`) {
		t.Errorf("json = %s", buf.String())
	}
}
