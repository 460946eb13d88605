package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codecrawl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "codecrawl",
	Short: "Reflective smoke tests for Go types",
	Long: `codecrawl instantiates every type of a catalog, calls each of its
methods with synthesized arguments and reports every panic, error result
and contract violation without stopping at the first one.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// errFaultsFound signals a completed run that recorded faults.
var errFaultsFound = errors.New("faults found")

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "path to codecrawl.toml (default: search upwards from the working directory)")
	pf.String("log-level", "", "log level (debug|info|warn|error), overrides [log].level")
	pf.String("log-format", "", "log format (console|json), overrides [log].format")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|type|member|call)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in the trace ring")
	pf.Duration("trace-heartbeat", 0, "emit trace heartbeats at this interval (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFaultsFound) {
			fmt.Fprintf(os.Stderr, "codecrawl: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
