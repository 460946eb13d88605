package catalog

import (
	"path"
	"reflect"
)

// Selector narrows a catalog by glob patterns (path.Match syntax).
// Type patterns match Type.Name; member patterns match "Type.Member".
type Selector struct {
	Include     []string
	Exclude     []string
	SkipMembers []string
}

// Empty reports whether the selector keeps everything.
func (s Selector) Empty() bool {
	return len(s.Include) == 0 && len(s.Exclude) == 0 && len(s.SkipMembers) == 0
}

// Validate checks every pattern for syntax errors.
func (s Selector) Validate() error {
	for _, group := range [][]string{s.Include, s.Exclude, s.SkipMembers} {
		for _, p := range group {
			if _, err := path.Match(p, ""); err != nil {
				return &PatternError{Pattern: p, Err: err}
			}
		}
	}
	return nil
}

// PatternError reports a malformed selector pattern.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string { return "bad pattern " + e.Pattern + ": " + e.Err.Error() }
func (e *PatternError) Unwrap() error { return e.Err }

type filtered struct {
	next Catalog
	sel  Selector
}

// Filter wraps c so only selected types and members are listed.
func Filter(c Catalog, sel Selector) Catalog {
	if sel.Empty() {
		return c
	}
	return &filtered{next: c, sel: sel}
}

func (f *filtered) Types() []Type {
	all := f.next.Types()
	out := make([]Type, 0, len(all))
	for _, t := range all {
		if f.keepType(t.Name) {
			out = append(out, t)
		}
	}
	return out
}

func (f *filtered) Members(t Type) []Member {
	all := f.next.Members(t)
	if len(f.sel.SkipMembers) == 0 {
		return all
	}
	out := make([]Member, 0, len(all))
	for _, m := range all {
		if !matchAny(f.sel.SkipMembers, t.Name+"."+m.Name) {
			out = append(out, m)
		}
	}
	return out
}

func (f *filtered) Construct(t Type) (reflect.Value, error) {
	return f.next.Construct(t)
}

func (f *filtered) keepType(name string) bool {
	if len(f.sel.Include) > 0 && !matchAny(f.sel.Include, name) {
		return false
	}
	return !matchAny(f.sel.Exclude, name)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}
