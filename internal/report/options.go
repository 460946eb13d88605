package report

import (
	"fmt"
	"strings"
)

// Format selects a renderer.
type Format string

const (
	FormatPretty  Format = "pretty"
	FormatShort   Format = "short"
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// ParseFormat converts a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatShort, FormatJSON, FormatMsgPack:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format: %q (expected: pretty|short|json|msgpack)", s)
}

// Options configures rendering.
type Options struct {
	Color   bool
	Max     int  // maximum faults rendered, 0 = unlimited
	Stacks  bool // include captured stacks
	Passing bool // pretty: list members without faults too
	Sorted  bool // short: order by type, member, variant and code
}
