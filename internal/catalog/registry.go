package catalog

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry is a reflection-backed Catalog populated in-process.
// Types are listed in registration order; registering the same type twice
// keeps the first position.
type Registry struct {
	mu              sync.Mutex
	types           []Type
	byType          map[reflect.Type]int
	includePromoted bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithPromoted makes Members include methods promoted from embedded fields.
func WithPromoted(include bool) RegistryOption {
	return func(r *Registry) { r.includePromoted = include }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{byType: make(map[reflect.Type]int)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds the types of the given sample values.
// Pointer samples register their element type; nil samples are ignored.
func (r *Registry) Register(samples ...any) *Registry {
	for _, s := range samples {
		if s == nil {
			continue
		}
		t := reflect.TypeOf(s)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		r.RegisterType(t)
	}
	return r
}

// RegisterType adds t with zero-value construction.
func (r *Registry) RegisterType(t reflect.Type) *Registry {
	if t == nil {
		return r
	}
	r.add(Type{Name: t.String(), Type: t})
	return r
}

// RegisterConstructor adds the type produced by ctor, constructed through it.
// ctor must be a func() T, func() *T, func() (T, error) or func() (*T, error).
func (r *Registry) RegisterConstructor(ctor any) error {
	fn := reflect.ValueOf(ctor)
	ft := fn.Type()
	if ft.Kind() != reflect.Func || ft.NumIn() != 0 || ft.NumOut() == 0 || ft.NumOut() > 2 {
		return fmt.Errorf("constructor must be func() T or func() (T, error), got %s", ft)
	}
	if ft.NumOut() == 2 && ft.Out(1) != errorType {
		return fmt.Errorf("constructor second result must be error, got %s", ft.Out(1))
	}
	t := ft.Out(0)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.add(Type{
		Name: t.String(),
		Type: t,
		New: func() (any, error) {
			out := fn.Call(nil)
			var err error
			if len(out) == 2 && !out[1].IsNil() {
				err = out[1].Interface().(error)
			}
			return out[0].Interface(), err
		},
	})
	return nil
}

// Add registers T with zero-value construction.
func Add[T any](r *Registry) *Registry {
	return r.RegisterType(reflect.TypeFor[T]())
}

// TypeOf returns the descriptor for T as a Registry would build it.
func TypeOf[T any]() Type {
	t := reflect.TypeFor[T]()
	return Type{Name: t.String(), Type: t}
}

func (r *Registry) add(t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byType[t.Type]; ok {
		if t.New != nil {
			r.types[idx].New = t.New
		}
		return
	}
	r.byType[t.Type] = len(r.types)
	r.types = append(r.types, t)
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.types)
}

func (r *Registry) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Type(nil), r.types...)
}

func (r *Registry) Members(t Type) []Member {
	return MembersOf(t.Type, r.includePromoted)
}

func (r *Registry) Construct(t Type) (reflect.Value, error) {
	return construct(t)
}
