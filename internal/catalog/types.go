package catalog

import (
	"reflect"
	"strings"
)

// Catalog is the capability the crawler consumes.
type Catalog interface {
	// Types returns declared types in catalog order.
	Types() []Type
	// Members returns the public instance members declared directly on t.
	Members(t Type) []Member
	// Construct creates an instance of t with no explicit arguments.
	// The returned value is a pointer to t.
	Construct(t Type) (reflect.Value, error)
}

// Type describes one type of the catalog.
type Type struct {
	Name string
	Type reflect.Type
	// New overrides zero-value construction when set.
	New func() (any, error)
}

// Param describes one declared parameter.
type Param struct {
	Index    int
	Type     reflect.Type
	Nullable bool // pointer parameter: nil is the absent value
}

// Underlying returns the type behind the absent representation.
func (p Param) Underlying() reflect.Type {
	if p.Nullable {
		return p.Type.Elem()
	}
	return p.Type
}

// Result describes one declared result.
type Result struct {
	Type     reflect.Type
	Nullable bool // nil is a valid absent result
	IsError  bool // trailing error result
}

// Member describes a public instance method.
type Member struct {
	Name    string
	Params  []Param
	Results []Result
	// Func is the method expression; the receiver is its first argument.
	Func reflect.Value
}

// Void reports whether the member produces no value.
func (m Member) Void() bool { return len(m.Results) == 0 }

// NullableCount returns the number of nullable parameters.
func (m Member) NullableCount() int {
	n := 0
	for _, p := range m.Params {
		if p.Nullable {
			n++
		}
	}
	return n
}

// ErrorResult returns the index of the trailing error result, or -1.
func (m Member) ErrorResult() int {
	if n := len(m.Results); n > 0 && m.Results[n-1].IsError {
		return n - 1
	}
	return -1
}

// Signature renders the member as "Name(int, *string) (int, error)".
func (m Member) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(typeString(p.Type))
	}
	sb.WriteByte(')')
	switch len(m.Results) {
	case 0:
	case 1:
		sb.WriteByte(' ')
		sb.WriteString(typeString(m.Results[0].Type))
	default:
		sb.WriteString(" (")
		for i, r := range m.Results {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(typeString(r.Type))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

var errorType = reflect.TypeFor[error]()

// NewParam classifies a declared parameter type.
func NewParam(index int, t reflect.Type) Param {
	return Param{Index: index, Type: t, Nullable: t.Kind() == reflect.Pointer}
}

// NewResult classifies a declared result type.
func NewResult(t reflect.Type, last bool) Result {
	k := t.Kind()
	return Result{
		Type:     t,
		Nullable: k == reflect.Pointer || k == reflect.Interface,
		IsError:  last && t == errorType,
	}
}
