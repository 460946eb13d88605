package report

import (
	"time"

	"fortio.org/safecast"

	"codecrawl/internal/crawler"
	"codecrawl/internal/fault"
)

// Current schema version of Output; bump when fields change meaning.
const schemaVersion uint16 = 1

// FaultJSON is the serialized form of a fault.
type FaultJSON struct {
	Kind    string `json:"kind" msgpack:"kind"`
	Code    string `json:"code" msgpack:"code"`
	Type    string `json:"type" msgpack:"type"`
	Member  string `json:"member,omitempty" msgpack:"member,omitempty"`
	Variant int    `json:"variant" msgpack:"variant"`
	Args    string `json:"args,omitempty" msgpack:"args,omitempty"`
	Message string `json:"message" msgpack:"message"`
	Stack   string `json:"stack,omitempty" msgpack:"stack,omitempty"`
}

// MemberJSON is the serialized form of a member report.
type MemberJSON struct {
	Name        string      `json:"name" msgpack:"name"`
	Signature   string      `json:"signature" msgpack:"signature"`
	Invocations int         `json:"invocations" msgpack:"invocations"`
	Faults      []FaultJSON `json:"faults,omitempty" msgpack:"faults,omitempty"`
}

// TypeJSON is the serialized form of a type report.
type TypeJSON struct {
	Name         string       `json:"name" msgpack:"name"`
	Construction *FaultJSON   `json:"construction,omitempty" msgpack:"construction,omitempty"`
	Members      []MemberJSON `json:"members" msgpack:"members"`
}

// Summary aggregates a run.
type Summary struct {
	Types        int            `json:"types" msgpack:"types"`
	Members      int            `json:"members" msgpack:"members"`
	Invocations  int            `json:"invocations" msgpack:"invocations"`
	Faults       int            `json:"faults" msgpack:"faults"`
	ByKind       map[string]int `json:"by_kind,omitempty" msgpack:"by_kind,omitempty"`
	Truncated    uint32         `json:"truncated,omitempty" msgpack:"truncated,omitempty"`
	ElapsedMicro uint64         `json:"elapsed_us" msgpack:"elapsed_us"`
}

// Output is the root document of the JSON and MsgPack formats.
type Output struct {
	Schema    uint16     `json:"schema" msgpack:"schema"`
	RunID     string     `json:"run_id" msgpack:"run_id"`
	Started   time.Time  `json:"started" msgpack:"started"`
	Cancelled bool       `json:"cancelled" msgpack:"cancelled"`
	Types     []TypeJSON `json:"types" msgpack:"types"`
	Summary   Summary    `json:"summary" msgpack:"summary"`
}

// Summarize computes the run summary without rendering anything.
func Summarize(r *crawler.Report) Summary {
	bag := r.Faults()
	s := Summary{
		Types:       len(r.Types),
		Members:     r.MemberCount(),
		Invocations: r.Invocations(),
		Faults:      bag.Len(),
	}
	for _, k := range []fault.Kind{fault.KindConstruction, fault.KindInvocation, fault.KindContract} {
		if n := bag.Count(k); n > 0 {
			if s.ByKind == nil {
				s.ByKind = make(map[string]int, 3)
			}
			s.ByKind[k.String()] = n
		}
	}
	if us, err := safecast.Conv[uint64](r.Elapsed.Microseconds()); err == nil {
		s.ElapsedMicro = us
	}
	return s
}

// BuildOutput assembles the serializable document. opts.Max caps the
// number of faults included across the whole run.
func BuildOutput(r *crawler.Report, opts Options) Output {
	out := Output{
		Schema:    schemaVersion,
		RunID:     r.RunID,
		Started:   r.Started,
		Cancelled: r.Cancelled,
		Types:     make([]TypeJSON, 0, len(r.Types)),
		Summary:   Summarize(r),
	}

	budget := newBudget(opts.Max)
	for _, t := range r.Types {
		tj := TypeJSON{Name: t.Name, Members: make([]MemberJSON, 0, len(t.Members))}
		if t.Construction != nil && budget.take() {
			fj := faultJSON(*t.Construction, opts)
			tj.Construction = &fj
		}
		for _, m := range t.Members {
			mj := MemberJSON{Name: m.Name, Signature: m.Signature, Invocations: m.Invocations}
			for _, f := range m.Faults {
				if budget.take() {
					mj.Faults = append(mj.Faults, faultJSON(f, opts))
				}
			}
			tj.Members = append(tj.Members, mj)
		}
		out.Types = append(out.Types, tj)
	}
	out.Summary.Truncated = budget.cut
	return out
}

func faultJSON(f fault.Fault, opts Options) FaultJSON {
	fj := FaultJSON{
		Kind:    f.Kind.String(),
		Code:    f.Code.String(),
		Type:    f.Type,
		Member:  f.Member,
		Variant: f.Variant,
		Args:    f.Args,
		Message: f.Message,
	}
	if opts.Stacks {
		fj.Stack = string(f.Stack)
	}
	return fj
}

// budget counts rendered faults against Options.Max.
type budget struct {
	left    int
	limited bool
	cut     uint32
}

func newBudget(max int) *budget {
	return &budget{left: max, limited: max > 0}
}

func (b *budget) take() bool {
	if !b.limited {
		return true
	}
	if b.left > 0 {
		b.left--
		return true
	}
	if b.cut < ^uint32(0) {
		b.cut++
	}
	return false
}
