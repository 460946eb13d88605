package crawler

import (
	"time"

	"codecrawl/internal/fault"
)

// Report is the run-scoped result of a crawl.
type Report struct {
	RunID     string
	Started   time.Time
	Elapsed   time.Duration
	Cancelled bool
	Types     []TypeReport
}

// TypeReport holds the results for one type.
type TypeReport struct {
	Name string
	// Construction is set when the type could not be instantiated;
	// Members is empty in that case.
	Construction *fault.Fault
	Members      []MemberReport
}

// MemberReport holds the results for one member.
type MemberReport struct {
	Name        string
	Signature   string
	Invocations int
	Faults      []fault.Fault
}

// Faults returns the type's faults: construction first, then members in order.
func (t TypeReport) Faults() []fault.Fault {
	var out []fault.Fault
	if t.Construction != nil {
		out = append(out, *t.Construction)
	}
	for _, m := range t.Members {
		out = append(out, m.Faults...)
	}
	return out
}

// Invocations returns the number of calls attempted for the type.
func (t TypeReport) Invocations() int {
	n := 0
	for _, m := range t.Members {
		n += m.Invocations
	}
	return n
}

// Faults returns every fault of the run in crawl order.
func (r *Report) Faults() *fault.Bag {
	bag := fault.NewBag(0)
	if r == nil {
		return bag
	}
	for _, t := range r.Types {
		for _, f := range t.Faults() {
			bag.Add(f)
		}
	}
	return bag
}

// Invocations returns the number of calls attempted in the run.
func (r *Report) Invocations() int {
	n := 0
	for _, t := range r.Types {
		n += t.Invocations()
	}
	return n
}

// MemberCount returns the number of members exercised.
func (r *Report) MemberCount() int {
	n := 0
	for _, t := range r.Types {
		n += len(t.Members)
	}
	return n
}

// Type returns the report of the named type.
func (r *Report) Type(name string) (TypeReport, bool) {
	for _, t := range r.Types {
		if t.Name == name {
			return t, true
		}
	}
	return TypeReport{}, false
}

// Lookup returns the report of typeName.member.
func (r *Report) Lookup(typeName, member string) (MemberReport, bool) {
	t, ok := r.Type(typeName)
	if !ok {
		return MemberReport{}, false
	}
	for _, m := range t.Members {
		if m.Name == member {
			return m, true
		}
	}
	return MemberReport{}, false
}
