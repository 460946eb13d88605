package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"codecrawl/internal/crawler"
	"codecrawl/internal/fault"
)

type palette struct {
	typ, ok, bad, dim, code *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		typ:  color.New(color.Bold),
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed, color.Bold),
		dim:  color.New(color.Faint),
		code: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.typ, p.ok, p.bad, p.dim, p.code} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty renders the report grouped by type:
//
//	samples.Calculator
//	  ✗ Divide(int, int) int  1 call
//	      CC2001 base (0, 0): runtime error: integer divide by zero
//
// followed by a summary line.
func Pretty(w io.Writer, r *crawler.Report, opts Options) error {
	p := newPalette(opts.Color)
	pw := &errWriter{w: w}
	budget := newBudget(opts.Max)

	for _, t := range r.Types {
		pw.printf("%s\n", p.typ.Sprint(t.Name))
		if t.Construction != nil {
			if budget.take() {
				pw.printf("  %s %s\n", p.bad.Sprint("✗"), faultLine(p, *t.Construction, "construction"))
				stack(pw, p, *t.Construction, opts, "      ")
			}
			continue
		}
		if len(t.Members) == 0 {
			pw.printf("  %s\n", p.dim.Sprint("no members"))
		}
		for _, m := range t.Members {
			if len(m.Faults) == 0 {
				if opts.Passing {
					pw.printf("  %s %s  %s\n", p.ok.Sprint("✓"), m.Signature, p.dim.Sprint(calls(m.Invocations)))
				}
				continue
			}
			pw.printf("  %s %s  %s\n", p.bad.Sprint("✗"), m.Signature, p.dim.Sprint(calls(m.Invocations)))
			for _, f := range m.Faults {
				if !budget.take() {
					continue
				}
				pw.printf("      %s\n", faultLine(p, f, variantLabel(f)))
				stack(pw, p, f, opts, "        ")
			}
		}
	}

	if budget.cut > 0 {
		pw.printf("%s\n", p.dim.Sprintf("... %d more faults not shown", budget.cut))
	}
	pw.printf("\n%s\n", summaryLine(p, r))
	return pw.err
}

func faultLine(p palette, f fault.Fault, label string) string {
	var sb strings.Builder
	sb.WriteString(p.code.Sprint(f.Code.String()))
	sb.WriteString(" ")
	sb.WriteString(label)
	if f.Args != "" {
		sb.WriteString(" ")
		sb.WriteString(f.Args)
	}
	sb.WriteString(": ")
	sb.WriteString(f.Message)
	return sb.String()
}

func variantLabel(f fault.Fault) string {
	if f.Variant == fault.BaseVariant {
		return "base"
	}
	return fmt.Sprintf("variant #%d", f.Variant)
}

func stack(pw *errWriter, p palette, f fault.Fault, opts Options, indent string) {
	if !opts.Stacks || len(f.Stack) == 0 {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(string(f.Stack), "\n"), "\n") {
		pw.printf("%s%s\n", indent, p.dim.Sprint(line))
	}
}

func calls(n int) string {
	if n == 1 {
		return "1 call"
	}
	return fmt.Sprintf("%d calls", n)
}

func summaryLine(p palette, r *crawler.Report) string {
	s := Summarize(r)
	head := fmt.Sprintf("%d types, %d members, %d invocations", s.Types, s.Members, s.Invocations)
	var tail string
	if s.Faults == 0 {
		tail = p.ok.Sprint("no faults")
	} else {
		var parts []string
		for _, k := range []fault.Kind{fault.KindConstruction, fault.KindInvocation, fault.KindContract} {
			if n := s.ByKind[k.String()]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, k))
			}
		}
		tail = p.bad.Sprintf("%d faults", s.Faults) + " (" + strings.Join(parts, ", ") + ")"
	}
	line := head + ", " + tail
	if r.Cancelled {
		line += ", " + p.code.Sprint("cancelled")
	}
	return line
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
