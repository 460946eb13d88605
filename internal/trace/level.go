package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // ring only, dumped on failure
	LevelType                // run + type boundaries
	LevelMember              // member boundaries
	LevelCall                // every invocation
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelType:
		return "type"
	case LevelMember:
		return "member"
	case LevelCall:
		return "call"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "type":
		return LevelType, nil
	case "member":
		return LevelMember, nil
	case "call", "debug":
		return LevelCall, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|type|member|call)", s)
	}
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelError:
		return true
	case LevelType:
		return scope <= ScopeType
	case LevelMember:
		return scope <= ScopeMember
	case LevelCall:
		return true
	}
	return false
}
