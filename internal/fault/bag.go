package fault

import (
	"sort"

	"fortio.org/safecast"
)

// Bag is an append-only ordered list of faults.
type Bag struct {
	items []Fault
}

func NewBag(capacity int) *Bag {
	if capacity < 0 {
		capacity = 0
	}
	return &Bag{items: make([]Fault, 0, capacity)}
}

// Add appends a fault. Faults are never dropped: the report must stay complete.
func (b *Bag) Add(f Fault) {
	b.items = append(b.items, f)
}

// Len returns the number of faults.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// HasFaults returns true if at least one fault was recorded.
func (b *Bag) HasFaults() bool {
	return b.Len() > 0
}

// Count returns the number of faults of the given kind.
func (b *Bag) Count(kind Kind) int {
	if b == nil {
		return 0
	}
	n := 0
	for i := range b.items {
		if b.items[i].Kind == kind {
			n++
		}
	}
	return n
}

// Items возвращает read-only срез. Не модифицируйте его.
func (b *Bag) Items() []Fault {
	if b == nil {
		return nil
	}
	return b.items
}

// Limit returns at most max faults; max <= 0 means no limit.
// The second value reports how many faults were cut.
func (b *Bag) Limit(max int) ([]Fault, uint32) {
	items := b.Items()
	if max <= 0 || len(items) <= max {
		return items, 0
	}
	cut, err := safecast.Conv[uint32](len(items) - max)
	if err != nil {
		cut = ^uint32(0)
	}
	return items[:max], cut
}

// Sort orders faults by type, member, variant, then code.
// Crawl order is the natural order; sort only for stable rendering.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		fi, fj := b.items[i], b.items[j]
		if fi.Type != fj.Type {
			return fi.Type < fj.Type
		}
		if fi.Member != fj.Member {
			return fi.Member < fj.Member
		}
		if fi.Variant != fj.Variant {
			return fi.Variant < fj.Variant
		}
		return fi.Code < fj.Code
	})
}
