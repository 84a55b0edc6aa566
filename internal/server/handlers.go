package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/runway/tender-boq/internal/boq"
	"github.com/runway/tender-boq/internal/browse"
	"github.com/runway/tender-boq/internal/detail"
	"github.com/runway/tender-boq/internal/export"
	"github.com/runway/tender-boq/internal/model"
	"github.com/runway/tender-boq/internal/render"
)

// offsetParam reads ?offset=; anything unparseable or negative is 0.
func offsetParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// idParam returns the {id} route segment decoded exactly once. chi matches
// against RawPath when the request has one; otherwise the segment comes from
// the already decoded Path.
func idParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id
	}
	if dec, err := url.PathUnescape(id); err == nil {
		return dec
	}
	return id
}

func (s *server) listPage(w http.ResponseWriter, r *http.Request) {
	snap := s.listModel(r.Context(), offsetParam(r))
	s.page(w, r, http.StatusOK, s.Renderer.List(snap))
}

func (s *server) detailPage(w http.ResponseWriter, r *http.Request) {
	d, err := browse.LoadDetail(r.Context(), s.API, idParam(r))
	if err != nil {
		s.invalidRequest(w, r)
		return
	}

	status := http.StatusOK
	if d.NotFound() {
		status = http.StatusNotFound
	}
	s.page(w, r, status, s.Renderer.Detail(d, boq.ParseFilter(r.URL.Query())))
}

func (s *server) boqExport(w http.ResponseWriter, r *http.Request) {
	d, err := browse.LoadDetail(r.Context(), s.API, idParam(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tender id")
		return
	}
	if d.NotFound() {
		writeError(w, http.StatusNotFound, "tender not found: "+d.ID)
		return
	}
	if d.BOQFailed {
		writeError(w, http.StatusBadGateway, "boq unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="boq.xlsx"`)
	if err := export.Write(w, d.Rows(boq.ParseFilter(r.URL.Query()))); err != nil {
		zap.L().Error("export boq failed", zap.String("tender_id", d.ID), zap.Error(err))
	}
}

func (s *server) storedList(w http.ResponseWriter, r *http.Request) {
	ts, err := s.Store.ListTenders(r.Context(), s.StoredLimit)
	if err != nil {
		zap.L().Warn("list stored tenders failed", zap.Error(err))
		ts = []model.StoredTenderSummary{}
	}
	s.page(w, r, http.StatusOK, s.Renderer.StoredList(ts))
}

func (s *server) storedDetail(w http.ResponseWriter, r *http.Request) {
	id, err := browse.ValidateID(idParam(r))
	if err != nil {
		s.invalidRequest(w, r)
		return
	}

	t, err := s.Store.GetTender(r.Context(), id)
	if err != nil {
		zap.L().Warn("get stored tender failed", zap.String("tender_id", id), zap.Error(err))
		t = nil
	}
	if t == nil {
		s.page(w, r, http.StatusNotFound, s.Renderer.Message(render.NotFound(id)))
		return
	}
	s.page(w, r, http.StatusOK, s.Renderer.StoredDetail(detail.FromStored(t)))
}

func (s *server) apiList(w http.ResponseWriter, r *http.Request) {
	snap := s.listModel(r.Context(), offsetParam(r))
	status := http.StatusOK
	if snap.Failed {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, snap)
}

func (s *server) apiTender(w http.ResponseWriter, r *http.Request) {
	id, err := browse.ValidateID(idParam(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tender id")
		return
	}

	t, err := s.API.GetTender(r.Context(), id)
	switch {
	case err != nil:
		zap.L().Warn("api: get tender failed", zap.String("tender_id", id), zap.Error(err))
		writeError(w, http.StatusBadGateway, "tender details unavailable")
	case t == nil:
		writeError(w, http.StatusNotFound, "tender not found: "+id)
	default:
		writeJSON(w, http.StatusOK, t)
	}
}

// boqResponse is the JSON body of the filtered BOQ endpoint.
type boqResponse struct {
	TenderID string                    `json:"tender_id"`
	Filter   boq.FilterState           `json:"filter"`
	Files    []string                  `json:"files"`
	Total    int                       `json:"total"`
	Items    []model.NormalizedBOQItem `json:"items"`
}

func (s *server) apiBOQ(w http.ResponseWriter, r *http.Request) {
	id, err := browse.ValidateID(idParam(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tender id")
		return
	}

	raw, err := s.API.GetBOQ(r.Context(), id)
	if err != nil {
		zap.L().Warn("api: get boq failed", zap.String("tender_id", id), zap.Error(err))
		writeError(w, http.StatusBadGateway, "boq unavailable")
		return
	}

	v := boq.NewView(raw)
	f := boq.ParseFilter(r.URL.Query())
	files := v.Files()
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, boqResponse{
		TenderID: id,
		Filter:   f,
		Files:    files,
		Total:    v.Len(),
		Items:    v.Rows(f),
	})
}
