package catalog

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

type base struct{}

func (base) Hello() string { return "hello" }
func (*base) Bye() {}

type derived struct {
	base
	n int
}

func (d *derived) Own(x int, p *string) (int, error) { return d.n + x, nil }

type shadow struct{ base }

func (shadow) Hello() string { return "shadowed" }

type counter struct{ n int }

func (c *counter) Inc() { c.n++ }
func (c counter) Value() int { return c.n }
func (c *counter) hidden() {} //nolint:unused

func names(ms []Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func TestMembersOf_DeclaredOnly(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		promoted bool
		want     []string
	}{
		{"plain", reflect.TypeFor[counter](), false, []string{"Inc", "Value"}},
		{"embedded excluded", reflect.TypeFor[derived](), false, []string{"Own"}},
		{"embedded included", reflect.TypeFor[derived](), true, []string{"Bye", "Hello", "Own"}},
		{"shadowing method is declared", reflect.TypeFor[shadow](), false, []string{"Hello"}},
		{"interface has no members", reflect.TypeFor[io.Reader](), false, []string{}},
	}
	for _, tc := range tests {
		got := names(MembersOf(tc.typ, tc.promoted))
		if strings.Join(got, ",") != strings.Join(tc.want, ",") {
			t.Errorf("%s: members = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMembersOf_Descriptors(t *testing.T) {
	ms := MembersOf(reflect.TypeFor[derived](), false)
	if len(ms) != 1 {
		t.Fatalf("expected one member, got %d", len(ms))
	}
	own := ms[0]
	if len(own.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(own.Params))
	}
	if own.Params[0].Nullable {
		t.Errorf("int parameter must not be nullable")
	}
	if !own.Params[1].Nullable || own.Params[1].Underlying() != reflect.TypeFor[string]() {
		t.Errorf("*string parameter must be nullable with string underlying")
	}
	if own.NullableCount() != 1 {
		t.Errorf("NullableCount = %d, want 1", own.NullableCount())
	}
	if own.ErrorResult() != 1 {
		t.Errorf("ErrorResult = %d, want 1", own.ErrorResult())
	}
	if own.Void() {
		t.Errorf("Own is not void")
	}
	if got := own.Signature(); got != "Own(int, *string) (int, error)" {
		t.Errorf("Signature = %q", got)
	}
}

func TestRegistry_OrderAndDedup(t *testing.T) {
	r := NewRegistry()
	r.Register(&counter{}, derived{}, nil, counter{})
	Add[shadow](r)

	types := r.Types()
	if r.Len() != 3 || len(types) != 3 {
		t.Fatalf("expected 3 types, got %d", len(types))
	}
	want := []string{"catalog.counter", "catalog.derived", "catalog.shadow"}
	for i, ty := range types {
		if ty.Name != want[i] {
			t.Errorf("types[%d] = %s, want %s", i, ty.Name, want[i])
		}
	}
}

func TestRegistry_Construct(t *testing.T) {
	r := NewRegistry()
	v, err := r.Construct(TypeOf[counter]())
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if v.Type() != reflect.TypeFor[*counter]() {
		t.Fatalf("instance type = %s, want *counter", v.Type())
	}

	_, err = r.Construct(TypeOf[io.Reader]())
	if !errors.Is(err, ErrNotConstructible) {
		t.Fatalf("interface construct err = %v, want ErrNotConstructible", err)
	}
}

func TestRegistry_RegisterConstructor(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterConstructor(func() *counter { return &counter{n: 7} }); err != nil {
		t.Fatalf("RegisterConstructor: %v", err)
	}
	ty := r.Types()[0]
	v, err := r.Construct(ty)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if got := v.Interface().(*counter).n; got != 7 {
		t.Fatalf("constructor not used: n = %d", got)
	}

	boom := errors.New("boom")
	r2 := NewRegistry()
	if err := r2.RegisterConstructor(func() (counter, error) { return counter{}, boom }); err != nil {
		t.Fatalf("RegisterConstructor: %v", err)
	}
	if _, err := r2.Construct(r2.Types()[0]); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if err := r2.RegisterConstructor(func(int) counter { return counter{} }); err == nil {
		t.Fatalf("expected error for constructor with arguments")
	}
	if err := r2.RegisterConstructor(func() (counter, int) { return counter{}, 0 }); err == nil {
		t.Fatalf("expected error for non-error second result")
	}
}

func TestConstruct_Faults(t *testing.T) {
	tests := []struct {
		name string
		ty   Type
		want error
	}{
		{"panic", Type{Name: "p", Type: reflect.TypeFor[counter](), New: func() (any, error) { panic("nope") }}, ErrConstructorPanicked},
		{"nil", Type{Name: "n", Type: reflect.TypeFor[counter](), New: func() (any, error) { return nil, nil }}, ErrNilInstance},
		{"nil pointer", Type{Name: "np", Type: reflect.TypeFor[counter](), New: func() (any, error) { return (*counter)(nil), nil }}, ErrNilInstance},
		{"wrong type", Type{Name: "w", Type: reflect.TypeFor[counter](), New: func() (any, error) { return 3, nil }}, ErrInstanceType},
		{"func kind", Type{Name: "f", Type: reflect.TypeFor[func()]()}, ErrNotConstructible},
		{"missing type", Type{Name: "m"}, ErrNotConstructible},
	}
	for _, tc := range tests {
		_, err := construct(tc.ty)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestConstruct_ValueFromConstructorIsAddressable(t *testing.T) {
	ty := Type{Name: "c", Type: reflect.TypeFor[counter](), New: func() (any, error) { return counter{n: 2}, nil }}
	v, err := construct(ty)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if v.Kind() != reflect.Pointer || v.Elem().Field(0).Int() != 2 {
		t.Fatalf("unexpected instance %v", v)
	}
}

func TestStatic_Method(t *testing.T) {
	declared := []Result{{Type: reflect.TypeFor[int]()}}
	m := Method("Get", func(c *counter) any { return "text" }, declared...)
	s := (&Static{}).Add(TypeOf[counter](), m)

	ms := s.Members(TypeOf[counter]())
	if len(ms) != 1 || ms[0].Name != "Get" {
		t.Fatalf("members = %v", names(ms))
	}
	if ms[0].Results[0].Type != reflect.TypeFor[int]() {
		t.Fatalf("declared result type not kept")
	}
	if got := s.Members(TypeOf[derived]()); got != nil {
		t.Fatalf("unknown type must have no members, got %v", names(got))
	}
	if _, err := s.Construct(TypeOf[counter]()); err != nil {
		t.Fatalf("Construct: %v", err)
	}
}

func TestChain(t *testing.T) {
	declared := []Result{{Type: reflect.TypeFor[string]()}}
	static := (&Static{}).Add(TypeOf[derived](), Method("Label", func(*derived) string { return "d" }, declared...))
	c := Chain{NewRegistry().Register(counter{}), static}

	types := c.Types()
	if len(types) != 2 || types[0].Name != "catalog.counter" || types[1].Name != "catalog.derived" {
		t.Fatalf("types = %v", types)
	}
	if got := names(c.Members(types[0])); strings.Join(got, ",") != "Inc,Value" {
		t.Fatalf("counter members = %v", got)
	}
	if got := names(c.Members(types[1])); strings.Join(got, ",") != "Label" {
		t.Fatalf("derived members come from the static catalog, got %v", got)
	}
	if _, err := c.Construct(TypeOf[shadow]()); !errors.Is(err, ErrNotConstructible) {
		t.Fatalf("unlisted type: err = %v, want ErrNotConstructible", err)
	}
	if c.Members(TypeOf[shadow]()) != nil {
		t.Fatalf("unlisted type must have no members")
	}
}

func TestFilter(t *testing.T) {
	r := NewRegistry().Register(counter{}, derived{}, shadow{})

	if Filter(r, Selector{}) != Catalog(r) {
		t.Fatalf("empty selector must return the catalog unchanged")
	}

	c := Filter(r, Selector{
		Include:     []string{"catalog.*"},
		Exclude:     []string{"*.shadow"},
		SkipMembers: []string{"catalog.counter.Inc"},
	})
	types := c.Types()
	if len(types) != 2 {
		t.Fatalf("types = %d, want 2", len(types))
	}
	if got := names(c.Members(types[0])); strings.Join(got, ",") != "Value" {
		t.Fatalf("counter members = %v, want [Value]", got)
	}
	if got := names(c.Members(types[1])); strings.Join(got, ",") != "Own" {
		t.Fatalf("derived members = %v, want [Own]", got)
	}
}

func TestSelector_Validate(t *testing.T) {
	err := Selector{Exclude: []string{"[oops"}}.Validate()
	var pe *PatternError
	if !errors.As(err, &pe) || pe.Pattern != "[oops" {
		t.Fatalf("err = %v, want PatternError", err)
	}
	if err := (Selector{Include: []string{"a.*"}}).Validate(); err != nil {
		t.Fatalf("valid selector rejected: %v", err)
	}
}

func TestSamplesFromSymbol(t *testing.T) {
	list := []any{counter{}}
	fn := func() []any { return list }
	for _, sym := range []any{&list, fn, &fn} {
		got, err := samplesFromSymbol(sym)
		if err != nil || len(got) != 1 {
			t.Errorf("samplesFromSymbol(%T) = %v, %v", sym, got, err)
		}
	}
	if _, err := samplesFromSymbol(42); !errors.Is(err, ErrPluginSymbol) {
		t.Fatalf("err = %v, want ErrPluginSymbol", err)
	}
}

func TestOpenPlugin_MissingFile(t *testing.T) {
	if _, err := OpenPlugin(t.TempDir() + "/missing.so"); err == nil {
		t.Fatalf("expected error for missing plugin")
	}
}
