package report

import (
	"fmt"
	"io"

	"codecrawl/internal/crawler"
	"codecrawl/internal/fault"
)

// Short prints one line per fault and nothing else:
//
//	CC2001 samples.Calculator.Divide [base]: runtime error: integer divide by zero
func Short(w io.Writer, r *crawler.Report, opts Options) error {
	bag := r.Faults()
	if opts.Sorted {
		bag.Sort()
	}
	items, cut := bag.Limit(opts.Max)
	for _, f := range items {
		if _, err := fmt.Fprintln(w, ShortLine(f)); err != nil {
			return err
		}
	}
	if cut > 0 {
		if _, err := fmt.Fprintf(w, "... %d more\n", cut); err != nil {
			return err
		}
	}
	return nil
}

// ShortLine renders a single fault the way Short does.
func ShortLine(f fault.Fault) string {
	return fmt.Sprintf("%s %s [%s]: %s", f.Code, f.Scope(), variantLabel(f), f.Message)
}

// Render dispatches on format.
func Render(w io.Writer, format Format, r *crawler.Report, opts Options) error {
	switch format {
	case FormatPretty, "":
		return Pretty(w, r, opts)
	case FormatShort:
		return Short(w, r, opts)
	case FormatJSON:
		return JSON(w, r, opts)
	case FormatMsgPack:
		return MsgPack(w, r, opts)
	}
	return fmt.Errorf("unknown output format: %q", format)
}
