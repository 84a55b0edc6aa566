package boq

import (
	"sync"

	"github.com/runway/tender-boq/internal/model"
)

// View holds the normalized items of one tender and memoizes the last
// filtered result. The stored items are never mutated by filtering.
type View struct {
	items []model.NormalizedBOQItem
	files []string

	mu       sync.Mutex
	last     FilterState
	lastRows []model.NormalizedBOQItem
	cached   bool
}

// NewView normalizes raw items once.
func NewView(raw []model.BOQItem) *View {
	items := Normalize(raw)
	return &View{items: items, files: FileNames(items)}
}

// Items returns all normalized items.
func (v *View) Items() []model.NormalizedBOQItem { return v.items }

// Files returns the distinct file names for the file selector.
func (v *View) Files() []string { return v.files }

// Len returns the total number of items.
func (v *View) Len() int { return len(v.items) }

// Rows returns the items passing f, recomputing only when f changed since
// the previous call.
func (v *View) Rows(f FilterState) []model.NormalizedBOQItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cached && v.last == f {
		return v.lastRows
	}
	v.lastRows = Filter(v.items, f)
	v.last = f
	v.cached = true
	return v.lastRows
}
