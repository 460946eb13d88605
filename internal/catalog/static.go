package catalog

import "reflect"

// Static is a Catalog whose members are assembled by hand.
// It is used for explicit contracts, where the declared result types are
// stated independently of the Go signature.
type Static struct {
	types   []Type
	members [][]Member
}

// Add appends a type with the given members.
func (s *Static) Add(t Type, members ...Member) *Static {
	s.types = append(s.types, t)
	s.members = append(s.members, members)
	return s
}

func (s *Static) Types() []Type {
	return append([]Type(nil), s.types...)
}

func (s *Static) Members(t Type) []Member {
	for i := range s.types {
		if s.types[i].Name == t.Name && s.types[i].Type == t.Type {
			return append([]Member(nil), s.members[i]...)
		}
	}
	return nil
}

func (s *Static) Construct(t Type) (reflect.Value, error) {
	return construct(t)
}

// Method builds a Member for fn, a function whose first parameter is the
// receiver. Results are classified from fn's signature unless declared
// overrides them.
func Method(name string, fn any, declared ...Result) Member {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	params := make([]Param, 0, ft.NumIn())
	for i := 1; i < ft.NumIn(); i++ {
		params = append(params, NewParam(i-1, ft.In(i)))
	}
	results := declared
	if results == nil {
		results = make([]Result, 0, ft.NumOut())
		for i := 0; i < ft.NumOut(); i++ {
			results = append(results, NewResult(ft.Out(i), i == ft.NumOut()-1))
		}
	}
	return Member{Name: name, Params: params, Results: results, Func: fv}
}
