package catalog

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotConstructible is returned for kinds with no zero-argument construction.
	ErrNotConstructible = errors.New("type cannot be instantiated")
	// ErrConstructorPanicked wraps a panic raised by a registered constructor.
	ErrConstructorPanicked = errors.New("constructor panicked")
	// ErrNilInstance is returned when a constructor yields nil.
	ErrNilInstance = errors.New("constructor returned nil")
	// ErrInstanceType is returned when a constructor yields an unrelated type.
	ErrInstanceType = errors.New("constructor returned wrong type")
)

// construct implements Catalog.Construct for every catalog in this package.
func construct(t Type) (v reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = reflect.Value{}
			err = fmt.Errorf("%s: %w: %v", t.Name, ErrConstructorPanicked, rec)
		}
	}()

	if t.Type == nil {
		return reflect.Value{}, fmt.Errorf("%s: %w: missing type", t.Name, ErrNotConstructible)
	}
	if t.New != nil {
		return fromConstructor(t)
	}
	switch t.Type.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return reflect.Value{}, fmt.Errorf("%s: %w: %s kind", t.Name, ErrNotConstructible, t.Type.Kind())
	}
	return reflect.New(t.Type), nil
}

func fromConstructor(t Type) (reflect.Value, error) {
	obj, err := t.New()
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%s: %w", t.Name, err)
	}
	if obj == nil {
		return reflect.Value{}, fmt.Errorf("%s: %w", t.Name, ErrNilInstance)
	}
	v := reflect.ValueOf(obj)
	want := reflect.PointerTo(t.Type)
	switch {
	case v.Type() == want:
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%s: %w", t.Name, ErrNilInstance)
		}
		return v, nil
	case v.Type() == t.Type:
		// значение по значению: копируем в адресуемую ячейку
		p := reflect.New(t.Type)
		p.Elem().Set(v)
		return p, nil
	}
	return reflect.Value{}, fmt.Errorf("%s: %w: got %s", t.Name, ErrInstanceType, v.Type())
}
