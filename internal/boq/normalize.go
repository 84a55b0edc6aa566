// Package boq normalizes and filters extracted bill-of-quantities items.
package boq

import "github.com/runway/tender-boq/internal/model"

// Normalize fills every display and filter field of the raw items. The output
// has the same length and order as the input; Quantity is copied unchanged so
// a missing quantity stays distinguishable from zero.
func Normalize(items []model.BOQItem) []model.NormalizedBOQItem {
	out := make([]model.NormalizedBOQItem, len(items))
	for i, it := range items {
		brands := it.Brands
		if brands == nil {
			brands = []string{}
		}
		out[i] = model.NormalizedBOQItem{
			FileName: deref(it.FileName),
			Category: deref(it.Category),
			Name:     deref(it.Name),
			Type:     deref(it.Type),
			Quantity: it.Quantity,
			Unit:     deref(it.Unit),
			Brands:   brands,
		}
	}
	return out
}

// FileNames returns the distinct file names in first-seen order.
func FileNames(items []model.NormalizedBOQItem) []string {
	seen := make(map[string]bool, len(items))
	var names []string
	for _, it := range items {
		if seen[it.FileName] {
			continue
		}
		seen[it.FileName] = true
		names = append(names, it.FileName)
	}
	return names
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
