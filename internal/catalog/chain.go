package catalog

import (
	"fmt"
	"reflect"
)

// Chain concatenates catalogs. Types keep their order; a type is served by
// the first catalog that lists it.
type Chain []Catalog

func (c Chain) Types() []Type {
	var out []Type
	for _, cat := range c {
		out = append(out, cat.Types()...)
	}
	return out
}

func (c Chain) Members(t Type) []Member {
	if cat := c.owner(t); cat != nil {
		return cat.Members(t)
	}
	return nil
}

func (c Chain) Construct(t Type) (reflect.Value, error) {
	if cat := c.owner(t); cat != nil {
		return cat.Construct(t)
	}
	return reflect.Value{}, fmt.Errorf("%s: %w: not in catalog", t.Name, ErrNotConstructible)
}

func (c Chain) owner(t Type) Catalog {
	for _, cat := range c {
		for _, ct := range cat.Types() {
			if ct.Name == t.Name && ct.Type == t.Type {
				return cat
			}
		}
	}
	return nil
}
