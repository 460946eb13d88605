// Package version holds build metadata for the codecrawl CLI.
// The variables can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with major, minor and patch in distinct colors.
// A pre-release suffix is kept uncolored.
func Colored(enabled bool) string {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	if !enabled {
		return v
	}
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return v
	}
	out := paint(majorColor, parts[0]) + "." + paint(minorColor, parts[1]) + "." + paint(patchColor, parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

func paint(c *color.Color, s string) string {
	cc := *c
	cc.EnableColor()
	return cc.Sprint(s)
}
