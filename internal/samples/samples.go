// Package samples holds a small built-in catalog used by `codecrawl run
// --builtin samples` and by tests. Every type exercises one crawl path.
package samples

import (
	"errors"
	"fmt"
	"reflect"

	"codecrawl/internal/catalog"
)

// ErrBrokenSetup is returned by NewBroken.
var ErrBrokenSetup = errors.New("broken: setup failed")

// ErrEmptyName is returned by Greeter.Greet for an empty name.
var ErrEmptyName = errors.New("greeter: empty name")

// Calculator divides; the base call divides by zero and panics.
type Calculator struct{}

func (c *Calculator) Divide(a, b int) int { return a / b }

// Box holds an optional value.
type Box[T any] struct {
	value *T
}

// Get ignores x and returns the stored value, nil for a fresh Box.
func (b *Box[T]) Get(x *T) *T { return b.value }

// Greeter produces greetings.
type Greeter struct {
	greeted int
}

// Greet fails for an empty name, which is what the base call passes.
func (g *Greeter) Greet(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	g.greeted++
	return "hello, " + name, nil
}

// Hello tolerates a missing name.
func (g *Greeter) Hello(name *string) string {
	if name == nil || *name == "" {
		return "hello, stranger"
	}
	return "hello, " + *name
}

// Count reports how many greetings succeeded.
func (g *Greeter) Count() int { return g.greeted }

// Broken cannot be constructed.
type Broken struct {
	ready bool
}

// NewBroken always fails.
func NewBroken() (*Broken, error) { return nil, ErrBrokenSetup }

func (b *Broken) Ready() bool { return b.ready }

// Mislabeled is crawled through an explicit contract that disagrees with
// what the method returns.
type Mislabeled struct{}

func (m *Mislabeled) Total() any { return "three" }

// Catalog returns the built-in catalog in a stable order.
func Catalog() catalog.Catalog {
	reg := catalog.NewRegistry()
	catalog.Add[Calculator](reg)
	catalog.Add[Box[int]](reg)
	catalog.Add[Greeter](reg)
	if err := reg.RegisterConstructor(NewBroken); err != nil {
		panic(fmt.Sprintf("samples: %v", err))
	}

	static := new(catalog.Static).Add(
		catalog.TypeOf[Mislabeled](),
		catalog.Method("Total", (*Mislabeled).Total, catalog.Result{Type: reflect.TypeFor[int]()}),
	)
	return catalog.Chain{reg, static}
}
