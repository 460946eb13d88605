package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides auto mode by the terminal the UI draws on;
// machine-readable output formats never get the TUI.
func shouldUseTUI(mode uiMode, machineOutput bool) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return !machineOutput && isTerminal(os.Stderr)
	}
}

// readColorMode resolves --color against the terminal.
func readColorMode(value string, out *os.File) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return out != nil && isTerminal(out), nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// stdoutFile returns the command output when it is a file, nil otherwise.
func stdoutFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}
