// Package synth builds argument tuples for member calls.
//
// The base tuple holds each parameter's structural default: zero values
// for value types, nil for pointers, empty maps and slices, and nothing at
// all for opaque types (interfaces, funcs, chans) unless the Policy has an
// override. Nullable variants re-run the base tuple with one pointer
// parameter at a time forced to a pointer to its element's default.
//
// Synthesis never panics. Factory failures are stored on the slot and
// surface as an invocation fault once the tuple is used.
package synth

import (
	"fmt"
	"reflect"

	"codecrawl/internal/catalog"
)

// Synthesizer produces argument tuples according to a Policy.
type Synthesizer struct {
	policy *Policy
}

// New returns a synthesizer; a nil policy uses category rules only.
func New(policy *Policy) *Synthesizer {
	if policy == nil {
		policy = NewPolicy()
	}
	return &Synthesizer{policy: policy}
}

// Policy returns the synthesizer's default-value policy.
func (s *Synthesizer) Policy() *Policy { return s.policy }

// Base returns the base tuple for m.
func (s *Synthesizer) Base(m catalog.Member) Tuple {
	t := Tuple{Slots: make([]Slot, len(m.Params)), Forced: BaseTuple}
	for i, p := range m.Params {
		t.Slots[i] = s.slot(p)
	}
	return t
}

// NullableVariants returns one tuple per nullable parameter of m, in
// declaration order. Each equals base except the forced parameter, which
// holds its present default. Non-forced slots are synthesized again so no
// mutable value is shared between tuples.
func (s *Synthesizer) NullableVariants(m catalog.Member, base Tuple) []Tuple {
	var variants []Tuple
	for i, p := range m.Params {
		if !p.Nullable {
			continue
		}
		v := Tuple{Slots: make([]Slot, len(base.Slots)), Forced: i}
		for j := range base.Slots {
			v.Slots[j] = s.clone(base.Slots[j])
		}
		if i < len(v.Slots) {
			v.Slots[i] = s.present(p)
		}
		variants = append(variants, v)
	}
	return variants
}

func (s *Synthesizer) slot(p catalog.Param) (out Slot) {
	out.Param = p
	defer func() {
		if rec := recover(); rec != nil {
			out = Slot{Param: p, Err: fmt.Errorf("synthesis panicked: %v", rec)}
		}
	}()
	v, ok, err := s.policy.Default(p.Type)
	switch {
	case err != nil:
		out.Err = err
	case !ok:
		out.Omitted = true
	default:
		out.Value = v
	}
	return out
}

func (s *Synthesizer) present(p catalog.Param) (out Slot) {
	out.Param = p
	defer func() {
		if rec := recover(); rec != nil {
			out = Slot{Param: p, Err: fmt.Errorf("synthesis panicked: %v", rec)}
		}
	}()
	v, err := s.policy.Present(p.Type)
	if err != nil {
		out.Err = err
		return out
	}
	out.Value = v
	return out
}

func (s *Synthesizer) clone(slot Slot) Slot {
	if slot.Err != nil || slot.Omitted || !slot.Value.IsValid() || immutable(slot.Value) {
		return slot
	}
	return s.slot(slot.Param)
}

// immutable reports whether sharing v between tuples is safe.
func immutable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan, reflect.Struct, reflect.Array:
		return false
	case reflect.Pointer:
		return v.IsNil()
	}
	return true
}
