// Package detail shapes a tender and its per-document extractions for display.
package detail

import (
	"github.com/runway/tender-boq/internal/model"
)

// Placeholder is shown for any absent value.
const Placeholder = "—"

// State distinguishes a found tender from a missing one.
type State string

const (
	StateLoaded   State = "loaded"
	StateNotFound State = "not_found"
)

// Row is one extraction item with every column filled.
type Row struct {
	Item     string `json:"item"`
	Category string `json:"category"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Desc     string `json:"desc"`
}

// Document is the table of one source document.
type Document struct {
	DocumentID string `json:"document_id"`
	ItemCount  int    `json:"item_count"`
	Rows       []Row  `json:"rows"`
}

// View is the display structure of a tender detail page.
type View struct {
	State          State                `json:"state"`
	Tender         *model.TenderDetails `json:"tender,omitempty"`
	Title          string               `json:"title"`
	TenderID       string               `json:"tender_id"`
	Organisation   string               `json:"organisation"`
	GeneratedQuery string               `json:"generated_query,omitempty"`
	Documents      []Document           `json:"documents"`
}

// Found reports whether the tender exists.
func (v View) Found() bool { return v.State == StateLoaded }

// Assemble builds the view. A nil tender yields StateNotFound. Documents and
// their items keep their input order and are never merged.
func Assemble(t *model.TenderDetails, docs []model.PerDocumentExtraction) View {
	if t == nil {
		return View{State: StateNotFound, Documents: []Document{}}
	}

	v := View{
		State:        StateLoaded,
		Tender:       t,
		Title:        orDefault(t.Title, "Untitled Tender"),
		TenderID:     t.ID,
		Organisation: orDefault(t.Organisation, Placeholder),
		Documents:    make([]Document, 0, len(docs)),
	}
	for _, d := range docs {
		rows := make([]Row, 0, len(d.Items))
		for _, it := range d.Items {
			rows = append(rows, Row{
				Item:     flex(it.Item),
				Category: flex(it.Category),
				Quantity: flex(it.Quantity),
				Unit:     flex(it.Unit),
				Desc:     flex(it.Desc),
			})
		}
		v.Documents = append(v.Documents, Document{
			DocumentID: d.DocumentID,
			ItemCount:  len(rows),
			Rows:       rows,
		})
	}
	return v
}

// FromStored assembles the view of a persisted tender record.
func FromStored(st *model.StoredTender) View {
	if st == nil {
		return Assemble(nil, nil)
	}
	t := &model.TenderDetails{TenderSummary: model.TenderSummary{
		ID:           st.TenderID,
		Title:        st.Title,
		Organisation: st.Organisation,
	}}
	v := Assemble(t, st.PerDocumentExtractions)
	v.GeneratedQuery = st.GeneratedQuery
	return v
}

func flex(f *model.FlexString) string {
	if f == nil || f.String() == "" {
		return Placeholder
	}
	return f.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
