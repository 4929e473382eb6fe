package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the project file looked up from the working directory upward.
const FileName = "crust.toml"

// SourceExt is the extension of crust source files.
const SourceExt = ".cr"

// Config is the decoded crust.toml. Every section is optional; missing keys
// keep their Default values.
type Config struct {
	Package     PackageConfig     `toml:"package"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Trace       TraceConfig       `toml:"trace"`
	Run         RunConfig         `toml:"run"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type DiagnosticsConfig struct {
	Max      int    `toml:"max"`       // 0 = без ограничения
	Window   int    `toml:"window"`    // руны контекста по обе стороны span
	Color    string `toml:"color"`     // auto|on|off
	Format   string `toml:"format"`    // pretty|short|json
	PathMode string `toml:"path_mode"` // auto|absolute|relative|basename
}

type TraceConfig struct {
	Level  string `toml:"level"` // off|error|phase|detail|debug
	Mode   string `toml:"mode"`  // stream|ring|both
	Output string `toml:"output"`
}

type RunConfig struct {
	Main     string `toml:"main"`
	MaxDepth int    `toml:"max_depth"`
	Timeout  string `toml:"timeout"` // time.ParseDuration, "" = без лимита
}

// Default returns the configuration used when no crust.toml exists.
func Default() Config {
	return Config{
		Diagnostics: DiagnosticsConfig{
			Max:      100,
			Window:   8,
			Color:    "auto",
			Format:   "pretty",
			PathMode: "auto",
		},
		Trace: TraceConfig{
			Level: "off",
			Mode:  "stream",
		},
	}
}

// Manifest is a located and decoded crust.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Find walks from startDir to the filesystem root looking for crust.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadNearest finds and loads the nearest crust.toml. ok is false when there is none.
func LoadNearest(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("run") && (!meta.IsDefined("run", "main") || strings.TrimSpace(cfg.Run.Main) == "") {
		return Config{}, fmt.Errorf("%s: missing [run].main", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	var errs []error
	check := func(section, value string, allowed ...string) {
		if !slices.Contains(allowed, strings.ToLower(value)) {
			errs = append(errs, fmt.Errorf("[%s] = %q, expected one of %s", section, value, strings.Join(allowed, "|")))
		}
	}
	check("diagnostics].color", c.Diagnostics.Color, "auto", "on", "off")
	check("diagnostics].format", c.Diagnostics.Format, "pretty", "short", "json")
	check("diagnostics].path_mode", c.Diagnostics.PathMode, "auto", "absolute", "relative", "basename")
	check("trace].level", c.Trace.Level, "off", "error", "phase", "detail", "debug")
	check("trace].mode", c.Trace.Mode, "stream", "ring", "both")
	if c.Diagnostics.Max < 0 {
		errs = append(errs, fmt.Errorf("[diagnostics].max must be >= 0, got %d", c.Diagnostics.Max))
	}
	if c.Diagnostics.Window < 0 {
		errs = append(errs, fmt.Errorf("[diagnostics].window must be >= 0, got %d", c.Diagnostics.Window))
	}
	if c.Run.Timeout != "" {
		if _, err := time.ParseDuration(c.Run.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("[run].timeout: %w", err))
		}
	}
	if c.Run.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("[run].max_depth must be >= 0, got %d", c.Run.MaxDepth))
	}
	return errors.Join(errs...)
}

// MainFile resolves [run].main against the manifest directory.
func (m *Manifest) MainFile() (string, error) {
	mainRel := strings.TrimSpace(m.Config.Run.Main)
	if mainRel == "" {
		return "", fmt.Errorf("%s: missing [run].main", m.Path)
	}
	mainPath := filepath.Join(m.Root, filepath.FromSlash(mainRel))
	info, err := os.Stat(mainPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [run].main path does not exist: %s", m.Path, mainPath)
		}
		return "", fmt.Errorf("%s: failed to stat [run].main: %w", m.Path, err)
	}
	if info.IsDir() || filepath.Ext(mainPath) != SourceExt {
		return "", fmt.Errorf("%s: [run].main must be a %s file", m.Path, SourceExt)
	}
	return mainPath, nil
}
