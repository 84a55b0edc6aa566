// Package render turns view-models into HTML pages and CLI text.
package render

import (
	"embed"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/rotisserie/eris"

	"github.com/runway/tender-boq/internal/boq"
	"github.com/runway/tender-boq/internal/browse"
	"github.com/runway/tender-boq/internal/detail"
	"github.com/runway/tender-boq/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const layout = "layout.html"

var pageNames = []string{"list.html", "detail.html", "stored_list.html", "stored_detail.html", "message.html"}

var funcs = template.FuncMap{
	"inr":        TenderValue,
	"date":       BidEndDate,
	"qty":        Quantity,
	"dash":       OrDash,
	"file":       FileLabel,
	"pathEscape": url.PathEscape,
	"inc":        func(i int) int { return i + 1 },
}

// Renderer holds the parsed page templates.
type Renderer struct {
	siteURL string
	pages   map[string]*template.Template
}

// New parses the embedded templates. siteURL is the public Runway site used
// for outbound tender links.
func New(siteURL string) (*Renderer, error) {
	r := &Renderer{
		siteURL: strings.TrimRight(siteURL, "/"),
		pages:   make(map[string]*template.Template, len(pageNames)),
	}
	for _, name := range pageNames {
		t, err := template.New(layout).Funcs(funcs).ParseFS(templateFS, "templates/"+layout, "templates/"+name)
		if err != nil {
			return nil, eris.Wrapf(err, "render: parse %s", name)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) page(name string, data any) templ.Component {
	return templ.FromGoHTML(r.pages[name], data)
}

// List renders the active tender list.
func (r *Renderer) List(snap browse.ListSnapshot) templ.Component {
	return r.page("list.html", snap)
}

type detailData struct {
	Detail    *browse.DetailModel
	Filter    boq.FilterState
	Files     []string
	Rows      []model.NormalizedBOQItem
	RunwayURL string
}

// Detail renders a tender with its BOQ filtered by f.
func (r *Renderer) Detail(d *browse.DetailModel, f boq.FilterState) templ.Component {
	data := detailData{Detail: d, Filter: f}
	if d.ShowBOQ() {
		data.Files = d.BOQ.Files()
		data.Rows = d.Rows(f)
	}
	if d.Tender != nil {
		data.RunwayURL = d.Tender.RunwayURL(r.siteURL, time.Now())
	}
	return r.page("detail.html", data)
}

type storedListData struct {
	Tenders []model.StoredTenderSummary
}

// StoredList renders the persisted tender listing.
func (r *Renderer) StoredList(ts []model.StoredTenderSummary) templ.Component {
	return r.page("stored_list.html", storedListData{Tenders: ts})
}

type storedDetailData struct {
	View      detail.View
	RunwayURL string
}

// StoredDetail renders a persisted tender and its per-document extractions.
func (r *Renderer) StoredDetail(v detail.View) templ.Component {
	return r.page("stored_detail.html", storedDetailData{
		View:      v,
		RunwayURL: r.siteURL + "/tenders/view/active/" + url.PathEscape(v.TenderID),
	})
}

// Message is an error page body.
type Message struct {
	Title   string
	Message string
	ID      string
}

// InvalidRequest is shown when no usable tender id was given.
var InvalidRequest = Message{Title: "Invalid Request", Message: "No tender ID provided."}

// NotFound builds the page for a missing tender.
func NotFound(id string) Message {
	return Message{Title: "Tender not found", Message: "Could not find a tender with ID:", ID: id}
}

// Message renders an error page.
func (r *Renderer) Message(m Message) templ.Component {
	return r.page("message.html", m)
}
