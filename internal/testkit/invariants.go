// Package testkit holds structural checks shared by crawler tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"codecrawl/internal/catalog"
	"codecrawl/internal/crawler"
	"codecrawl/internal/fault"
)

// CheckReportInvariants verifies the shape of a finished report:
//  1. a type with a construction fault has no member reports
//  2. every fault is scoped to the type and member that hold it
//  3. a member never has more faults than invocations
//  4. the run-level bag is the concatenation of all type lists
func CheckReportInvariants(r *crawler.Report) error {
	if r == nil {
		return fmt.Errorf("nil report")
	}
	var total uint32
	for _, t := range r.Types {
		if t.Construction != nil {
			if len(t.Members) != 0 {
				return fmt.Errorf("%s: %d members after construction fault", t.Name, len(t.Members))
			}
			if t.Construction.Kind != fault.KindConstruction || t.Construction.Type != t.Name {
				return fmt.Errorf("%s: misplaced construction fault %s", t.Name, t.Construction)
			}
			total++
		}
		for _, m := range t.Members {
			if len(m.Faults) > m.Invocations {
				return fmt.Errorf("%s.%s: %d faults for %d invocations", t.Name, m.Name, len(m.Faults), m.Invocations)
			}
			for _, f := range m.Faults {
				if f.Type != t.Name || f.Member != m.Name {
					return fmt.Errorf("%s.%s: fault scoped to %s", t.Name, m.Name, f.Scope())
				}
				if f.Kind == fault.KindConstruction {
					return fmt.Errorf("%s.%s: construction fault on a member", t.Name, m.Name)
				}
			}
			n, err := safecast.Conv[uint32](len(m.Faults))
			if err != nil {
				return fmt.Errorf("%s.%s: fault count overflow: %w", t.Name, m.Name, err)
			}
			total += n
		}
	}
	got, err := safecast.Conv[uint32](r.Faults().Len())
	if err != nil {
		return fmt.Errorf("run fault count overflow: %w", err)
	}
	if got != total {
		return fmt.Errorf("run has %d faults, types hold %d", got, total)
	}
	return nil
}

// CheckInvocationCounts verifies that every reported member was invoked
// once for the base tuple plus once per nullable parameter.
func CheckInvocationCounts(r *crawler.Report, cat catalog.Catalog) error {
	for _, t := range cat.Types() {
		tr, ok := r.Type(t.Name)
		if !ok || tr.Construction != nil {
			continue
		}
		for _, m := range cat.Members(t) {
			mr, ok := r.Lookup(t.Name, m.Name)
			if !ok {
				continue
			}
			if want := 1 + m.NullableCount(); mr.Invocations != want {
				return fmt.Errorf("%s.%s: %d invocations, want %d", t.Name, m.Name, mr.Invocations, want)
			}
		}
	}
	return nil
}
