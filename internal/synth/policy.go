package synth

import (
	"fmt"
	"reflect"
)

// Category is the default-value class of a declared type.
type Category uint8

const (
	// CategoryValue types default to their zero value.
	CategoryValue Category = iota + 1
	// CategoryNullable types default to nil; their variant is a pointer to a default.
	CategoryNullable
	// CategoryReference types default to an empty made value.
	CategoryReference
	// CategoryOpaque types have no structural default and are omitted.
	CategoryOpaque
)

func (c Category) String() string {
	switch c {
	case CategoryValue:
		return "value"
	case CategoryNullable:
		return "nullable"
	case CategoryReference:
		return "reference"
	case CategoryOpaque:
		return "opaque"
	}
	return "unknown"
}

// Classify maps a reflect kind to its category.
func Classify(t reflect.Type) Category {
	switch t.Kind() {
	case reflect.Pointer:
		return CategoryNullable
	case reflect.Map, reflect.Slice:
		return CategoryReference
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return CategoryOpaque
	default:
		return CategoryValue
	}
}

// Factory produces a default value for one type.
type Factory func() (reflect.Value, error)

// Policy decides the structural default of every parameter type.
// Overrides take precedence over the category rules; they are how callers
// give opaque types (interfaces, funcs) a value instead of omission.
type Policy struct {
	overrides map[reflect.Type]Factory
}

// NewPolicy returns a policy with category rules only.
func NewPolicy() *Policy {
	return &Policy{overrides: make(map[reflect.Type]Factory)}
}

// Override registers a factory for t.
func (p *Policy) Override(t reflect.Type, fn Factory) *Policy {
	if p.overrides == nil {
		p.overrides = make(map[reflect.Type]Factory)
	}
	p.overrides[t] = fn
	return p
}

// Provide registers a fixed value for T.
func Provide[T any](p *Policy, v T) *Policy {
	t := reflect.TypeFor[T]()
	return p.Override(t, func() (reflect.Value, error) {
		out := reflect.New(t).Elem()
		out.Set(reflect.ValueOf(&v).Elem())
		return out, nil
	})
}

func (p *Policy) override(t reflect.Type) (Factory, bool) {
	if p == nil || p.overrides == nil {
		return nil, false
	}
	fn, ok := p.overrides[t]
	return fn, ok
}

// Default returns the structural default for t. ok is false when the type
// has no default (opaque without override); err is set when an override
// factory fails.
func (p *Policy) Default(t reflect.Type) (v reflect.Value, ok bool, err error) {
	if fn, has := p.override(t); has {
		return callFactory(t, fn)
	}
	switch Classify(t) {
	case CategoryValue, CategoryNullable:
		return reflect.Zero(t), true, nil
	case CategoryReference:
		if t.Kind() == reflect.Map {
			return reflect.MakeMap(t), true, nil
		}
		return reflect.MakeSlice(t, 0, 0), true, nil
	}
	return reflect.Value{}, false, nil
}

// Present returns the non-absent default of a pointer type: a pointer to
// the element's default (or its zero value when the element has none).
func (p *Policy) Present(t reflect.Type) (reflect.Value, error) {
	if t.Kind() != reflect.Pointer {
		return reflect.Value{}, fmt.Errorf("%s is not nullable", t)
	}
	ptr := reflect.New(t.Elem())
	elem, ok, err := p.Default(t.Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	if ok && elem.IsValid() {
		ptr.Elem().Set(elem)
	}
	return ptr, nil
}

func callFactory(t reflect.Type, fn Factory) (v reflect.Value, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, ok, err = reflect.Value{}, false, fmt.Errorf("default for %s panicked: %v", t, rec)
		}
	}()
	v, err = fn()
	if err != nil {
		return reflect.Value{}, false, fmt.Errorf("default for %s: %w", t, err)
	}
	if !v.IsValid() {
		return reflect.Zero(t), true, nil
	}
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, false, fmt.Errorf("default for %s has type %s", t, v.Type())
	}
	if v.Type() != t {
		conv := reflect.New(t).Elem()
		conv.Set(v)
		v = conv
	}
	return v, true, nil
}
