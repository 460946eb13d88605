package catalog

import (
	"reflect"
	"runtime"
)

// MembersOf reflects the exported methods of *t.
// Methods promoted from embedded fields are skipped unless includePromoted.
func MembersOf(t reflect.Type, includePromoted bool) []Member {
	if t == nil || t.Kind() == reflect.Interface {
		return nil
	}
	pt := reflect.PointerTo(t)
	members := make([]Member, 0, pt.NumMethod())
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if !m.IsExported() {
			continue
		}
		if !includePromoted && isPromoted(t, m.Name) {
			continue
		}
		members = append(members, describe(m))
	}
	return members
}

// describe builds a Member from a method of a pointer type.
func describe(m reflect.Method) Member {
	ft := m.Type
	params := make([]Param, 0, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		params = append(params, NewParam(i-1, ft.In(i)))
	}
	results := make([]Result, 0, ft.NumOut())
	for i := 0; i < ft.NumOut(); i++ {
		results = append(results, NewResult(ft.Out(i), i == ft.NumOut()-1))
	}
	return Member{Name: m.Name, Params: params, Results: results, Func: m.Func}
}

// isPromoted reports whether name reaches t only through an embedded field.
// reflect does not expose the origin of a method, so we look for an
// embedded field that provides the name and then check whether t's own
// method body is a compiler-generated forwarding wrapper.
func isPromoted(t reflect.Type, name string) bool {
	if t.Kind() != reflect.Struct || !embedsMethod(t, name) {
		return false
	}
	// value receivers first: *T forwards to T for those
	if m, ok := t.MethodByName(name); ok {
		return isWrapper(m.Func)
	}
	m, ok := reflect.PointerTo(t).MethodByName(name)
	if !ok {
		return false
	}
	return isWrapper(m.Func)
}

func embedsMethod(t reflect.Type, name string) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if _, ok := ft.MethodByName(name); ok {
			return true
		}
		if ft.Kind() != reflect.Pointer && ft.Kind() != reflect.Interface {
			if _, ok := reflect.PointerTo(ft).MethodByName(name); ok {
				return true
			}
		}
	}
	return false
}

func isWrapper(fn reflect.Value) bool {
	if !fn.IsValid() {
		return true
	}
	pc := fn.Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return true
	}
	file, _ := f.FileLine(f.Entry())
	return file == "<autogenerated>"
}
