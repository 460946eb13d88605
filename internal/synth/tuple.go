package synth

import (
	"fmt"
	"reflect"
	"strings"

	"codecrawl/internal/catalog"
)

// BaseTuple is the Forced index of the base tuple.
const BaseTuple = -1

// Slot holds the synthesized argument for one parameter.
type Slot struct {
	Param   catalog.Param
	Value   reflect.Value
	Omitted bool  // no default exists; the argument is left out of the call
	Err     error // synthesis failed; surfaced when the tuple is invoked
}

// Tuple is one candidate argument list. It always has one slot per
// declared parameter, even when some slots are omitted from the call.
type Tuple struct {
	Slots  []Slot
	Forced int // parameter forced to its present value, BaseTuple otherwise
}

// Len returns the number of slots.
func (t Tuple) Len() int { return len(t.Slots) }

// IsBase reports whether the tuple is the base tuple.
func (t Tuple) IsBase() bool { return t.Forced == BaseTuple }

// Err returns the first synthesis error, if any.
func (t Tuple) Err() error {
	for _, s := range t.Slots {
		if s.Err != nil {
			return &SlotError{Index: s.Param.Index, Type: s.Param.Type, Err: s.Err}
		}
	}
	return nil
}

// Omitted returns how many slots are left out of the call.
func (t Tuple) Omitted() int {
	n := 0
	for _, s := range t.Slots {
		if s.Omitted {
			n++
		}
	}
	return n
}

// Args returns the call arguments with omitted slots dropped.
func (t Tuple) Args() []reflect.Value {
	args := make([]reflect.Value, 0, len(t.Slots))
	for _, s := range t.Slots {
		if s.Omitted || s.Err != nil {
			continue
		}
		args = append(args, s.Value)
	}
	return args
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Slots))
	for i, s := range t.Slots {
		parts[i] = s.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Slot) String() string {
	switch {
	case s.Err != nil:
		return "<error>"
	case s.Omitted:
		return "<omitted>"
	case !s.Value.IsValid():
		return "<invalid>"
	}
	switch s.Value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if s.Value.IsNil() {
			return "nil"
		}
		if s.Value.Kind() == reflect.Pointer {
			return "&" + fmt.Sprintf("%v", s.Value.Elem().Interface())
		}
	}
	if s.Value.CanInterface() {
		return fmt.Sprintf("%#v", s.Value.Interface())
	}
	return s.Value.Type().String()
}

// SlotError reports a failed default for one parameter.
type SlotError struct {
	Index int
	Type  reflect.Type
	Err   error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("argument %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }
