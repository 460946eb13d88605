// Package invoke performs member calls and turns every failure into data.
//
// A call is attempted exactly once. Panics are recovered, a non-nil
// trailing error result counts as a failure (Go's way of raising), and
// arguments whose synthesis failed fault the call before it is made.
// A tuple with omitted parameters is never called either: dropping a slot
// would shift later arguments into the wrong parameters.
package invoke

import (
	"fmt"
	"reflect"
	"runtime/debug"

	"codecrawl/internal/catalog"
	"codecrawl/internal/fault"
	"codecrawl/internal/synth"
)

// Invoker calls members on instances.
type Invoker struct {
	errorResults bool
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithErrorResults controls whether a non-nil trailing error result faults
// the call. Enabled by default.
func WithErrorResults(on bool) Option {
	return func(inv *Invoker) { inv.errorResults = on }
}

// New returns an Invoker.
func New(opts ...Option) *Invoker {
	inv := &Invoker{errorResults: true}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke calls m on instance with the arguments of tuple.
func (inv *Invoker) Invoke(instance reflect.Value, m catalog.Member, tuple synth.Tuple) Outcome {
	if err := tuple.Err(); err != nil {
		return Failure(fault.InvocationBadArgument, err)
	}
	if n := tuple.Omitted(); n > 0 {
		return Failure(fault.InvocationArity, &ArityError{Synthesized: tuple.Len() - n, Params: tuple.Len()})
	}

	args := make([]reflect.Value, 0, tuple.Len()+1)
	args = append(args, instance)
	args = append(args, tuple.Args()...)

	out, perr := call(m.Func, args)
	if perr != nil {
		o := Failure(fault.InvocationPanicked, Cause(perr))
		o.Stack = perr.Stack
		return o
	}

	if inv.errorResults {
		if err := trailingError(m, out); err != nil {
			o := Failure(fault.InvocationErrorResult, Cause(err))
			o.Values = out
			return o
		}
	}
	return Success(out)
}

// ArityError reports a tuple that lacks some parameters because no default
// value exists for their types.
type ArityError struct {
	Synthesized int
	Params      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("argument count mismatch: %d of %d parameters synthesized", e.Synthesized, e.Params)
}

// call runs fn and converts a panic into a *PanicError.
func call(fn reflect.Value, args []reflect.Value) (out []reflect.Value, perr *PanicError) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			perr = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	ft := fn.Type()
	if ft.IsVariadic() && len(args) == ft.NumIn() {
		return fn.CallSlice(args), nil
	}
	return fn.Call(args), nil
}

func trailingError(m catalog.Member, out []reflect.Value) error {
	idx := m.ErrorResult()
	if idx < 0 || idx >= len(out) {
		return nil
	}
	v := out[idx]
	if v.Kind() != reflect.Interface || v.IsNil() {
		return nil
	}
	err, ok := v.Interface().(error)
	if !ok {
		return nil
	}
	return err
}
