package model

// BOQItem is a raw bill-of-quantities line as extracted upstream. Every field
// may be missing; a nil Quantity means the quantity was not extracted.
type BOQItem struct {
	FileName *string  `json:"file_name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Name     *string  `json:"name,omitempty"`
	Type     *string  `json:"type,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
	Brands   []string `json:"brands,omitempty"`
}

// NormalizedBOQItem is a BOQItem with every display and filter field defined.
// Quantity stays nullable.
type NormalizedBOQItem struct {
	FileName string   `json:"file_name"`
	Category string   `json:"category"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	Brands   []string `json:"brands"`
}

// BOQResponse is the envelope of the BOQ endpoint.
type BOQResponse struct {
	Items []BOQItem `json:"items"`
}
