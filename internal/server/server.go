// Package server wires the tender pages, JSON API and operational endpoints
// onto a chi router.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/runway/tender-boq/internal/browse"
	"github.com/runway/tender-boq/internal/monitoring"
	"github.com/runway/tender-boq/internal/render"
	"github.com/runway/tender-boq/internal/store"
)

// API is the tender API surface the pages need. runway.Client satisfies it.
type API interface {
	browse.Lister
	browse.Source
}

// Deps are the collaborators of the HTTP server. Store and Gatherer may be
// nil; their routes are then not mounted.
type Deps struct {
	API         API
	Store       store.Store
	Renderer    *render.Renderer
	Metrics     *monitoring.Metrics
	Gatherer    prometheus.Gatherer
	PageSize    int
	StoredLimit int
	CORSOrigins []string
}

type server struct {
	Deps
}

// New builds the router.
func New(d Deps) http.Handler {
	if d.PageSize < 1 {
		d.PageSize = 10
	}
	if len(d.CORSOrigins) == 0 {
		d.CORSOrigins = []string{"*"}
	}
	s := &server{Deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/health", s.health)
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", monitoring.Handler(d.Gatherer))
	}

	r.Get("/", s.listPage)
	r.Get("/tender", s.invalidRequest)
	r.Get("/tender/", s.invalidRequest)
	r.Get("/tender/{id}", s.detailPage)
	r.Get("/tender/{id}/boq.xlsx", s.boqExport)

	if d.Store != nil {
		r.Get("/stored", s.storedList)
		r.Get("/stored/", s.invalidRequest)
		r.Get("/stored/{id}", s.storedDetail)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/tenders", s.apiList)
		r.Get("/tenders/{id}", s.apiTender)
		r.Get("/tenders/{id}/boq", s.apiBOQ)
	})

	return r
}

// accessLog logs each request and counts it by route pattern.
func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		s.Metrics.ObserveHTTP(route, status)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) page(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		zap.L().Error("render page failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (s *server) invalidRequest(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusBadRequest, s.Renderer.Message(render.InvalidRequest))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode json response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// listModel starts a list fetch at offset and waits for it.
func (s *server) listModel(ctx context.Context, offset int) browse.ListSnapshot {
	m := browse.NewListModel(s.API, s.PageSize, browse.OnStale(s.Metrics.StaleDropped))
	<-m.Seek(ctx, offset)
	return m.Snapshot()
}
