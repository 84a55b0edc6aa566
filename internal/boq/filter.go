package boq

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/runway/tender-boq/internal/model"
)

// AllFiles is the SelectedFile sentinel that disables the file predicate.
const AllFiles = "ALL"

// FilterState is the user-controlled BOQ filter.
type FilterState struct {
	SelectedFile string `json:"selected_file"`
	ItemSearch   string `json:"item_search"`
	TypeSearch   string `json:"type_search"`
	OnlyComplete bool   `json:"only_complete"`
}

// DefaultFilter returns the filter that passes every item.
func DefaultFilter() FilterState {
	return FilterState{SelectedFile: AllFiles}
}

// IsZero reports whether no predicate is active.
func (f FilterState) IsZero() bool {
	return f.SelectedFile == AllFiles && f.ItemSearch == "" && f.TypeSearch == "" && !f.OnlyComplete
}

// Filter returns the items matching every active predicate, in input order.
// File matching is exact; item and type searches are case-insensitive
// substring matches.
func Filter(items []model.NormalizedBOQItem, f FilterState) []model.NormalizedBOQItem {
	// cases.Caser keeps state between calls and must not be shared.
	lower := cases.Lower(language.Und)
	itemQ := lower.String(f.ItemSearch)
	typeQ := lower.String(f.TypeSearch)

	out := make([]model.NormalizedBOQItem, 0, len(items))
	for _, it := range items {
		if f.SelectedFile != AllFiles && it.FileName != f.SelectedFile {
			continue
		}
		if itemQ != "" && !strings.Contains(lower.String(it.Name), itemQ) {
			continue
		}
		if typeQ != "" && !strings.Contains(lower.String(it.Type), typeQ) {
			continue
		}
		if f.OnlyComplete && !IsComplete(it) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// IsComplete reports whether name, category, type and unit are non-empty and
// a quantity was extracted. A zero quantity is complete.
func IsComplete(it model.NormalizedBOQItem) bool {
	return it.Name != "" &&
		it.Category != "" &&
		it.Type != "" &&
		it.Unit != "" &&
		it.Quantity != nil
}
