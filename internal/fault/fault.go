package fault

import (
	"errors"
	"fmt"
)

// ErrResultNotValid is the cause recorded for every contract fault.
var ErrResultNotValid = errors.New("Method result is not valid") //nolint:staticcheck // message is part of the report format

// BaseVariant marks a fault produced by the base argument tuple.
const BaseVariant = -1

// Fault is a single captured failure.
type Fault struct {
	Kind    Kind
	Code    Code
	Type    string
	Member  string
	Variant int    // index of the forced parameter, BaseVariant for the base call
	Args    string // rendered argument tuple, empty for construction faults
	Message string
	Cause   error
	Stack   []byte
}

// Error makes a Fault usable wherever an error is expected.
func (f Fault) Error() string {
	return f.String()
}

// Unwrap exposes the recorded cause to errors.Is / errors.As.
func (f Fault) Unwrap() error {
	return f.Cause
}

// Scope renders the "Type.Member" part of a fault.
func (f Fault) Scope() string {
	if f.Member == "" {
		return f.Type
	}
	return f.Type + "." + f.Member
}

func (f Fault) String() string {
	variant := ""
	if f.Variant != BaseVariant && f.Member != "" {
		variant = fmt.Sprintf(" [variant #%d]", f.Variant)
	}
	return fmt.Sprintf("%s %s%s: %s", f.Code, f.Scope(), variant, f.Message)
}

// New creates a fault; kind is derived from the code.
func New(code Code, typeName, member string, variant int, cause error) Fault {
	msg := code.Title()
	if cause != nil {
		msg = cause.Error()
	}
	return Fault{
		Kind:    code.Kind(),
		Code:    code,
		Type:    typeName,
		Member:  member,
		Variant: variant,
		Message: msg,
		Cause:   cause,
	}
}

// Construction records that typeName could not be instantiated.
func Construction(code Code, typeName string, cause error) Fault {
	return New(code, typeName, "", BaseVariant, cause)
}

// Contract records a result that does not satisfy its declared type.
func Contract(code Code, typeName, member string, variant int, detail string) Fault {
	f := New(code, typeName, member, variant, ErrResultNotValid)
	if detail != "" {
		f.Message = fmt.Sprintf("%s: %s", ErrResultNotValid.Error(), detail)
	}
	return f
}

// WithArgs records the argument tuple of the failed call.
func (f Fault) WithArgs(args string) Fault {
	f.Args = args
	return f
}

// WithStack attaches a captured goroutine stack.
func (f Fault) WithStack(stack []byte) Fault {
	f.Stack = stack
	return f
}
