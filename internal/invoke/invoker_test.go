package invoke

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"codecrawl/internal/catalog"
	"codecrawl/internal/fault"
	"codecrawl/internal/synth"
)

type calc struct{ calls int }

func (c *calc) Divide(a, b int) int { c.calls++; return a / b }
func (c *calc) Ping() { c.calls++ }
func (c *calc) Open(name string) (int, error) {
	c.calls++
	return 0, fmt.Errorf("open %q: %w", name, io.ErrUnexpectedEOF)
}
func (c *calc) Fine() (int, error) { return 1, nil }
func (c *calc) Sum(xs ...int) int { return len(xs) }
func (c *calc) Panics() { panic("plain string") }
func (c *calc) Wrapped() error { return &carrier{inner: io.EOF} }
func (c *calc) Reader(r io.Reader) int { return 1 }
func (c *calc) Take(v any, xs ...int) { c.calls++ }
func (c *calc) WrappedPanic() { panic(&carrier{inner: io.ErrClosedPipe}) }

type carrier struct{ inner error }

func (c *carrier) Error() string { return "carried: " + c.inner.Error() }
func (c *carrier) InvocationCause() error { return c.inner }

func memberOf(t *testing.T, name string) catalog.Member {
	t.Helper()
	for _, m := range catalog.MembersOf(reflect.TypeFor[calc](), false) {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("member %s not found", name)
	return catalog.Member{}
}

func invoke(t *testing.T, inv *Invoker, name string) (Outcome, *calc) {
	t.Helper()
	c := &calc{}
	m := memberOf(t, name)
	tuple := synth.New(nil).Base(m)
	return inv.Invoke(reflect.ValueOf(c), m, tuple), c
}

func TestInvoke_RuntimePanicIsOriginalCause(t *testing.T) {
	out, c := invoke(t, New(), "Divide")
	if !out.Faulted() || out.Code != fault.InvocationPanicked {
		t.Fatalf("expected panic fault, got %+v", out)
	}
	var re runtime.Error
	if !errors.As(out.Cause, &re) {
		t.Fatalf("cause %T must be the runtime error itself", out.Cause)
	}
	if c.calls != 1 {
		t.Fatalf("calls = %d, want exactly one attempt", c.calls)
	}
	if len(out.Stack) == 0 {
		t.Fatalf("stack not captured")
	}
}

func TestInvoke_NonErrorPanicKeepsCarrier(t *testing.T) {
	out, _ := invoke(t, New(), "Panics")
	var pe *PanicError
	if !errors.As(out.Cause, &pe) || pe.Value != "plain string" {
		t.Fatalf("cause = %v", out.Cause)
	}
}

func TestInvoke_WrappedPanicIsUnwrapped(t *testing.T) {
	out, _ := invoke(t, New(), "WrappedPanic")
	if out.Cause != io.ErrClosedPipe {
		t.Fatalf("cause = %v, want io.ErrClosedPipe", out.Cause)
	}
}

func TestInvoke_VoidSuccess(t *testing.T) {
	out, c := invoke(t, New(), "Ping")
	if out.Faulted() || len(out.Values) != 0 || c.calls != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestInvoke_ErrorResult(t *testing.T) {
	out, _ := invoke(t, New(), "Open")
	if out.Code != fault.InvocationErrorResult || !errors.Is(out.Cause, io.ErrUnexpectedEOF) {
		t.Fatalf("outcome = %+v", out)
	}
	if len(out.Values) != 2 {
		t.Fatalf("values must be kept on error results")
	}

	out, _ = invoke(t, New(WithErrorResults(false)), "Open")
	if out.Faulted() {
		t.Fatalf("error results disabled, got %v", out.Cause)
	}

	out, _ = invoke(t, New(), "Fine")
	if out.Faulted() {
		t.Fatalf("nil error must succeed, got %v", out.Cause)
	}

	out, _ = invoke(t, New(), "Wrapped")
	if out.Cause != io.EOF {
		t.Fatalf("carrier must be stripped, got %v", out.Cause)
	}
}

func TestInvoke_Variadic(t *testing.T) {
	out, _ := invoke(t, New(), "Sum")
	if out.Faulted() || out.Values[0].Int() != 0 {
		t.Fatalf("variadic call failed: %+v", out)
	}
}

func TestInvoke_OmittedArgumentFaults(t *testing.T) {
	out, c := invoke(t, New(), "Reader")
	if out.Code != fault.InvocationArity {
		t.Fatalf("omitted argument must fault the call, got %+v", out)
	}
	var ae *ArityError
	if !errors.As(out.Cause, &ae) || ae.Synthesized != 0 || ae.Params != 1 {
		t.Fatalf("cause = %v", out.Cause)
	}
	if c.calls != 0 {
		t.Fatalf("member must not be called, calls = %d", c.calls)
	}
}

func TestInvoke_OmittedBeforeVariadicNeverShifts(t *testing.T) {
	out, c := invoke(t, New(), "Take")
	if out.Code != fault.InvocationArity {
		t.Fatalf("code = %v, want %v", out.Code, fault.InvocationArity)
	}
	if got := out.Cause.Error(); got != "argument count mismatch: 1 of 2 parameters synthesized" {
		t.Fatalf("cause = %q", got)
	}
	if c.calls != 0 {
		t.Fatalf("variadic slice must not land in the omitted parameter, calls = %d", c.calls)
	}
}

func TestInvoke_BadArgumentNeverCalls(t *testing.T) {
	p := synth.NewPolicy().Override(reflect.TypeFor[int](), func() (reflect.Value, error) {
		return reflect.Value{}, errors.New("no ints today")
	})
	c := &calc{}
	m := memberOf(t, "Divide")
	out := New().Invoke(reflect.ValueOf(c), m, synth.New(p).Base(m))
	if out.Code != fault.InvocationBadArgument {
		t.Fatalf("code = %v", out.Code)
	}
	if c.calls != 0 {
		t.Fatalf("member must not be called, calls = %d", c.calls)
	}
}

func TestCause(t *testing.T) {
	if Cause(nil) != nil {
		t.Fatalf("Cause(nil) must be nil")
	}
	deep := &carrier{inner: &carrier{inner: io.EOF}}
	if Cause(deep) != io.EOF {
		t.Fatalf("nested carriers not stripped")
	}
	empty := &PanicError{Value: 3}
	if Cause(empty) != error(empty) {
		t.Fatalf("carrier without an error must be kept")
	}
	if !strings.Contains(empty.Error(), "3") {
		t.Fatalf("Error() = %q", empty.Error())
	}
}
