package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/runway/tender-boq/internal/model"
	"github.com/runway/tender-boq/internal/resilience"
	"github.com/runway/tender-boq/pkg/runway"
)

// newFakeRunway serves a listing of total tenders plus detail and BOQ
// records for T1. Every other id is unknown.
func newFakeRunway(t *testing.T, total int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/tender/active":
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
			page := model.TenderPage{Count: total, Results: []model.TenderSummary{}}
			for i := offset; i < min(offset+limit, total); i++ {
				page.Results = append(page.Results, model.TenderSummary{
					ID:        fmt.Sprintf("T%d", i+1),
					Title:     fmt.Sprintf("Tender %d", i+1),
					ValueInRs: "1250000.00",
				})
			}
			_ = json.NewEncoder(w).Encode(page)
		case "/tender/active/T1":
			_ = json.NewEncoder(w).Encode(model.TenderDetails{TenderSummary: model.TenderSummary{
				ID: "T1", Title: "Road resurfacing", Organisation: "PWD", Location: "Pune",
			}})
		case "/tender/active/T1/boq":
			_, _ = w.Write([]byte(`{"items":[
				{"file_name":"a.pdf","name":"Cement","category":"Civil","type":"OPC","quantity":10,"unit":"bag"},
				{"file_name":"b.pdf","name":"Steel bars","type":"TMT"}
			]}`))
		default:
			if strings.HasSuffix(r.URL.Path, "/boq") {
				_, _ = w.Write([]byte(`{"items":[]}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) runway.Client {
	return runway.NewClient(
		runway.WithBaseURL(baseURL),
		runway.WithRetry(resilience.FromAttempts(1, 1)),
		runway.WithRateLimit(0),
	)
}
