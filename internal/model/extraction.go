package model

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
)

// FlexString holds an extracted value that upstream emits either as a JSON
// string or as a JSON number.
type FlexString string

// UnmarshalJSON accepts strings, numbers and booleans.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "model: decode flex string")
		}
		*f = FlexString(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return eris.Wrap(err, "model: decode flex bool")
		}
		*f = FlexString(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return eris.Wrapf(err, "model: decode flex value %s", string(data))
		}
		*f = FlexString(n.String())
	}
	return nil
}

// String returns the raw text.
func (f FlexString) String() string { return string(f) }

// Flex is a convenience constructor for optional FlexString fields.
func Flex(s string) *FlexString {
	v := FlexString(s)
	return &v
}

// ExtractionItem is one row of a per-document extraction table.
type ExtractionItem struct {
	Item     *FlexString `json:"Item,omitempty"`
	Category *FlexString `json:"Category,omitempty"`
	Quantity *FlexString `json:"Quantity,omitempty"`
	Unit     *FlexString `json:"Unit,omitempty"`
	Desc     *FlexString `json:"Desc,omitempty"`
}

// PerDocumentExtraction groups extracted items by the source document.
type PerDocumentExtraction struct {
	DocumentID string           `json:"document_id"`
	Items      []ExtractionItem `json:"items"`
}

// StoredTender is a tender record held in the persisted store. NativeID is
// the store's own identifier; TenderID is the upstream tender identifier.
type StoredTender struct {
	NativeID               string                  `json:"native_id,omitempty"`
	TenderID               string                  `json:"tender_id"`
	Title                  string                  `json:"title"`
	Organisation           string                  `json:"organisation,omitempty"`
	GeneratedQuery         string                  `json:"generated_query,omitempty"`
	PerDocumentExtractions []PerDocumentExtraction `json:"per_document_extractions,omitempty"`
}

// StoredTenderSummary is the listing projection of a StoredTender.
type StoredTenderSummary struct {
	NativeID string `json:"native_id"`
	TenderID string `json:"tender_id"`
	Title    string `json:"title"`
}
