package synth

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var paramPool = []reflect.Type{intT, strT, intPtrT, sliceT, mapT, readerT, funcT, structPT}

func membersFrom(idx []int) []reflect.Type {
	types := make([]reflect.Type, len(idx))
	for i, k := range idx {
		types[i] = paramPool[k]
	}
	return types
}

func sameSlot(a, b Slot) bool {
	if a.Omitted != b.Omitted || (a.Err == nil) != (b.Err == nil) {
		return false
	}
	if !a.Value.IsValid() || !b.Value.IsValid() {
		return a.Value.IsValid() == b.Value.IsValid()
	}
	return reflect.DeepEqual(a.Value.Interface(), b.Value.Interface())
}

func TestSynthesisProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)
	indexes := gen.SliceOf(gen.IntRange(0, len(paramPool)-1))

	properties.Property("tuple length equals parameter count", prop.ForAll(
		func(idx []int) bool {
			m := member(membersFrom(idx)...)
			s := New(nil)
			base := s.Base(m)
			if base.Len() != len(m.Params) {
				return false
			}
			for _, v := range s.NullableVariants(m, base) {
				if v.Len() != len(m.Params) {
					return false
				}
			}
			return true
		},
		indexes,
	))

	properties.Property("one variant per nullable parameter", prop.ForAll(
		func(idx []int) bool {
			m := member(membersFrom(idx)...)
			s := New(nil)
			return len(s.NullableVariants(m, s.Base(m))) == m.NullableCount()
		},
		indexes,
	))

	properties.Property("variant i differs from base only at parameter i", prop.ForAll(
		func(idx []int) bool {
			m := member(membersFrom(idx)...)
			s := New(nil)
			base := s.Base(m)
			for _, v := range s.NullableVariants(m, base) {
				for j := range base.Slots {
					same := sameSlot(base.Slots[j], v.Slots[j])
					if j == v.Forced && same {
						return false
					}
					if j != v.Forced && !same {
						return false
					}
				}
			}
			return true
		},
		indexes,
	))

	properties.TestingRun(t)
}
