package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Build information; overridable via -ldflags "-X crust/internal/version.Version=...".
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

// Colored renders Version with each semver part in its own color.
func Colored(enabled bool) string {
	parts := []*color.Color{
		color.New(color.FgYellow, color.Bold),
		color.New(color.FgGreen, color.Bold),
		color.New(color.FgBlue, color.Bold),
	}
	core, suffix, _ := strings.Cut(Version, "-")
	nums := strings.SplitN(core, ".", 3)
	for i := range nums {
		if i >= len(parts) {
			break
		}
		if enabled {
			parts[i].EnableColor()
		} else {
			parts[i].DisableColor()
		}
		nums[i] = parts[i].Sprint(nums[i])
	}
	out := strings.Join(nums, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// String returns the full version line printed by `crust version`.
func String(colored bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "crust %s", Colored(colored))
	if GitCommit != "" {
		fmt.Fprintf(&sb, " (%s)", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, " built %s", BuildDate)
	}
	return sb.String()
}
