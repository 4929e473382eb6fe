package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"crust/internal/config"
	"crust/internal/diagfmt"
)

// settings are the crust.toml values with command-line overrides applied.
type settings struct {
	cfg      config.Config
	manifest *config.Manifest // nil, если crust.toml не найден
}

type settingsKey struct{}

func loadSettings(cmd *cobra.Command) error {
	s := &settings{cfg: config.Default()}

	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	skip, err := cmd.Flags().GetBool("no-config")
	if err != nil {
		return fmt.Errorf("failed to get no-config flag: %w", err)
	}

	switch {
	case skip:
	case explicit != "":
		cfg, err := config.Load(explicit)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		s.cfg = cfg
		s.manifest = &config.Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}
	default:
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		m, ok, err := config.LoadNearest(wd)
		if err != nil {
			return err
		}
		if ok {
			s.cfg = m.Config
			s.manifest = m
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, settingsKey{}, s))
	return nil
}

func settingsOf(cmd *cobra.Command) *settings {
	if ctx := cmd.Context(); ctx != nil {
		if s, ok := ctx.Value(settingsKey{}).(*settings); ok {
			return s
		}
	}
	return &settings{cfg: config.Default()}
}

// lookupFlag finds a flag on the command or among the root persistent flags.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.Root().PersistentFlags().Lookup(name)
}

// stringSetting returns the flag value when it was set explicitly, else fallback.
func stringSetting(cmd *cobra.Command, name, fallback string) string {
	f := lookupFlag(cmd, name)
	if f == nil {
		return fallback
	}
	if f.Changed || fallback == "" {
		return f.Value.String()
	}
	return fallback
}

func intSetting(cmd *cobra.Command, name string, fallback int) (int, error) {
	f := lookupFlag(cmd, name)
	if f == nil || !f.Changed {
		return fallback, nil
	}
	v, err := strconv.Atoi(f.Value.String())
	if err != nil {
		return 0, fmt.Errorf("invalid --%s value: %w", name, err)
	}
	return v, nil
}

func (s *settings) maxDiagnostics(cmd *cobra.Command) (int, error) {
	return intSetting(cmd, "max-diagnostics", s.cfg.Diagnostics.Max)
}

// useColor resolves --color / [diagnostics].color against the given stream.
func (s *settings) useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode := strings.ToLower(stringSetting(cmd, "color", s.cfg.Diagnostics.Color))
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func (s *settings) prettyOpts(cmd *cobra.Command, f *os.File) (diagfmt.PrettyOpts, error) {
	color, err := s.useColor(cmd, f)
	if err != nil {
		return diagfmt.PrettyOpts{}, err
	}
	mode, err := s.pathMode(cmd)
	if err != nil {
		return diagfmt.PrettyOpts{}, err
	}
	return diagfmt.PrettyOpts{
		Color:     color,
		Window:    s.cfg.Diagnostics.Window,
		PathMode:  mode,
		ShowNotes: true,
	}, nil
}

func (s *settings) pathMode(cmd *cobra.Command) (diagfmt.PathMode, error) {
	if f := lookupFlag(cmd, "fullpath"); f != nil && f.Changed && f.Value.String() == "true" {
		return diagfmt.PathModeAbsolute, nil
	}
	return parsePathMode(s.cfg.Diagnostics.PathMode)
}

func parsePathMode(value string) (diagfmt.PathMode, error) {
	switch strings.ToLower(value) {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "relative":
		return diagfmt.PathModeRelative, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	default:
		return diagfmt.PathModeAuto, fmt.Errorf("unknown path mode %q", value)
	}
}
