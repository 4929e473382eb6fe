package version

import (
	"strings"
	"testing"
)

func TestVersionPlain(t *testing.T) {
	orig, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = orig, origCommit, origDate }()

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "crust 0.1.0-dev"},
		{"1.2.3", "abc123", "", "crust 1.2.3 (abc123)"},
		{"1.2.3", "abc123", "2026-01-15", "crust 1.2.3 (abc123) built 2026-01-15"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := String(false); got != tt.want {
			t.Errorf("String(false) = %q, want %q", got, tt.want)
		}
	}
}

func TestVersionColored(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "1.2.3-rc1"

	got := Colored(true)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes in %q", got)
	}
	if !strings.HasSuffix(got, "-rc1") {
		t.Errorf("suffix lost: %q", got)
	}
	if Colored(false) != "1.2.3-rc1" {
		t.Errorf("Colored(false) = %q", Colored(false))
	}
}
