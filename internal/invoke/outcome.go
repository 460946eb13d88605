package invoke

import (
	"errors"
	"fmt"
	"reflect"

	"codecrawl/internal/fault"
)

// Outcome is the result of exactly one call attempt.
type Outcome struct {
	Values []reflect.Value
	Cause  error      // nil on success
	Code   fault.Code // why the call faulted
	Stack  []byte     // goroutine stack for recovered panics
}

// Faulted reports whether the call failed.
func (o Outcome) Faulted() bool { return o.Cause != nil }

// Success wraps returned values.
func Success(values []reflect.Value) Outcome {
	return Outcome{Values: values}
}

// Failure wraps a fault cause.
func Failure(code fault.Code, cause error) Outcome {
	return Outcome{Cause: cause, Code: code}
}

// Wrapper is implemented by errors that only carry another error across a
// call boundary. The invoker records the carried error, not the carrier.
type Wrapper interface {
	error
	InvocationCause() error
}

// Cause strips every Wrapper layer from err and returns the original error.
func Cause(err error) error {
	for i := 0; err != nil && i < 64; i++ {
		var w Wrapper
		if !errors.As(err, &w) {
			return err
		}
		inner := w.InvocationCause()
		if inner == nil {
			return w
		}
		err = inner
	}
	return err
}

// PanicError carries a recovered panic value.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return "panic: " + err.Error()
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes an error panic value.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// InvocationCause returns the panic value when it is an error.
func (e *PanicError) InvocationCause() error {
	return e.Unwrap()
}
