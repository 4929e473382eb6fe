package source

import (
	"path/filepath"
)

func formatPath(p, mode, baseDir string, virtual bool) string {
	if virtual {
		return p
	}
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.ToSlash(abs)
		}
		return p
	case "basename":
		return filepath.Base(p)
	case "relative", "auto":
		if baseDir == "" {
			return p
		}
		absBase, err1 := filepath.Abs(baseDir)
		absP, err2 := filepath.Abs(p)
		if err1 != nil || err2 != nil {
			return p
		}
		rel, err := filepath.Rel(absBase, absP)
		if err != nil {
			return p
		}
		return filepath.ToSlash(rel)
	default:
		return p
	}
}
