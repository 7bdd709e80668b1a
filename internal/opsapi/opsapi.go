// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package opsapi exposes domainsentry's operational HTTP surface:
// health and status probes, the monitored domain list, a manual
// refresh trigger, counters, and a spreadsheet export of the registry.
package opsapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/H0llyW00dzZ/domainsentry/internal/domainmodel"
	"github.com/H0llyW00dzZ/domainsentry/internal/metrics"
	"github.com/H0llyW00dzZ/domainsentry/internal/registry"
)

// View is the subset of Monitor the ops API needs. Declared here
// rather than imported from internal/monitor so opsapi never depends
// on the orchestrator that depends on it.
type View interface {
	Registry() *registry.Registry
	Metrics() *metrics.Counters
	Uptime() time.Duration
	RefreshAll()
	StoreWritable() bool
}

// Server serves the ops HTTP surface.
type Server struct {
	view View
	log  *zap.Logger
	mux  *http.ServeMux
}

// New builds a Server backed by view.
func New(view View, log *zap.Logger) *Server {
	s := &Server{view: view, log: log, mux: http.NewServeMux()}
	s.routes()
	return s
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("GET /domains", s.handleListDomains)
	s.mux.HandleFunc("GET /domains/export.xlsx", s.handleExportDomains)
	s.mux.HandleFunc("GET /domain/{name}", s.handleGetDomain)
	s.mux.HandleFunc("POST /refresh", s.handleRefresh)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)
	s.mux.HandleFunc("POST /metrics/reset", s.handleMetricsReset)
}

type healthResponse struct {
	Status       string `json:"status"`
	StateStoreOK bool   `json:"state_store_ok"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok := s.view.StoreWritable()
	resp := healthResponse{Status: "ok", StateStoreOK: ok}
	if !ok {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

type statusResponse struct {
	UptimeSeconds float64          `json:"uptime_seconds"`
	DomainCount   int              `json:"domain_count"`
	Metrics       metrics.Snapshot `json:"metrics"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		UptimeSeconds: s.view.Uptime().Seconds(),
		DomainCount:   s.view.Registry().Len(),
		Metrics:       s.view.Metrics().Snapshot(),
	})
}

func (s *Server) handleListDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Registry().Snapshot())
}

func (s *Server) handleGetDomain(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	d, ok := s.view.Registry().Get(name)
	if !ok {
		http.Error(w, "domain not tracked", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.view.RefreshAll()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Metrics().Snapshot())
}

func (s *Server) handleMetricsReset(w http.ResponseWriter, r *http.Request) {
	s.view.Metrics().Reset()
	w.WriteHeader(http.StatusNoContent)
}

// handleExportDomains writes the full registry as an .xlsx workbook,
// one row per domain, for operators who want to pull the current
// state into a spreadsheet rather than parse JSON.
func (s *Server) handleExportDomains(w http.ResponseWriter, r *http.Request) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Domains"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Domain", "Priority", "Last Checked", "Last Verdict", "Confidence", "Consecutive Failures"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, d := range s.view.Registry().Snapshot() {
		row := i + 2
		setRow(f, sheet, row, d)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.log.Error("building domain export workbook failed", zap.Error(err))
		http.Error(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="domains.xlsx"`)
	w.Write(buf.Bytes())
}

func setRow(f *excelize.File, sheet string, row int, d domainmodel.Domain) {
	values := []any{d.Name, d.Priority, lastCheckedString(d), string(d.LastVerdict), d.LastConfidence, d.ConsecutiveFailures}
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

func lastCheckedString(d domainmodel.Domain) string {
	if d.LastCheckedAt.IsZero() {
		return ""
	}
	return d.LastCheckedAt.Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
