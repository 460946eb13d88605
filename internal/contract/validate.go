// Package contract checks returned values against declared result types.
package contract

import (
	"fmt"
	"reflect"

	"codecrawl/internal/catalog"
	"codecrawl/internal/fault"
	"codecrawl/internal/invoke"
)

// Violation describes a result that does not satisfy its declaration.
type Violation struct {
	Index    int
	Declared reflect.Type
	Actual   reflect.Type // nil when the result was absent
	Got      int          // result count, set for arity violations
	Want     int
}

// Arity reports whether the violation is a result count mismatch.
func (v *Violation) Arity() bool { return v.Declared == nil && v.Got != v.Want }

// Code maps the violation to its fault code.
func (v *Violation) Code() fault.Code {
	if v.Arity() {
		return fault.ContractResultArity
	}
	return fault.ContractResultInvalid
}

// Detail renders the mismatch without the common prefix.
func (v *Violation) Detail() string {
	switch {
	case v.Arity():
		return fmt.Sprintf("got %d results, want %d", v.Got, v.Want)
	case v.Actual == nil:
		return fmt.Sprintf("result %d is absent, want %s", v.Index, v.Declared)
	}
	return fmt.Sprintf("result %d is %s, want %s", v.Index, v.Actual, v.Declared)
}

func (v *Violation) Error() string {
	return fault.ErrResultNotValid.Error() + ": " + v.Detail()
}

func (v *Violation) Unwrap() error { return fault.ErrResultNotValid }

// Validate checks outcome against the declared results.
// A faulted outcome is returned unchanged; a void member accepts any success.
func Validate(outcome invoke.Outcome, results []catalog.Result) error {
	if outcome.Faulted() {
		return outcome.Cause
	}
	if len(results) == 0 {
		return nil
	}
	if len(outcome.Values) != len(results) {
		return &Violation{Got: len(outcome.Values), Want: len(results)}
	}
	for i, r := range results {
		if v := check(i, outcome.Values[i], r); v != nil {
			return v
		}
	}
	return nil
}

func check(i int, v reflect.Value, r catalog.Result) *Violation {
	if absent(v) {
		if r.Nullable {
			return nil
		}
		return &Violation{Index: i, Declared: r.Type}
	}
	actual := v
	if actual.Kind() == reflect.Interface {
		actual = actual.Elem()
	}
	at := actual.Type()
	if r.Type.Kind() == reflect.Interface {
		if at.Implements(r.Type) {
			return nil
		}
	} else if at == r.Type {
		return nil
	}
	return &Violation{Index: i, Declared: r.Type, Actual: at}
}

func absent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}
