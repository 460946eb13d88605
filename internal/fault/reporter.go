package fault

// Reporter receives faults from the crawler as they are recorded.
type Reporter interface {
	Report(f Fault)
}

// BagReporter adapts a *Bag to Reporter.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(f Fault) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(f)
}

// FuncReporter adapts a function to Reporter.
type FuncReporter func(Fault)

func (fn FuncReporter) Report(f Fault) {
	if fn != nil {
		fn(f)
	}
}
