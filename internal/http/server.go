// Package http is the JSON surface the dashboard collaborator talks
// to: CSV import plus the ledger, overview and fixed-plan read paths.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"contable/internal/services"
)

const (
	maxImportBytes  = 10 << 20 // 10MB per CSV batch
	importRateLimit = 30       // import requests per client IP per minute
)

type Server struct {
	http.Server
	importer *services.ImportService
	budget   *services.BudgetService
}

func NewServer(addr string, importer *services.ImportService, budget *services.BudgetService) *Server {
	s := &Server{
		importer: importer,
		budget:   budget,
	}

	limiter := newImportLimiter(importRateLimit, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/importar", limiter.middleware(s.handleImport))
	mux.HandleFunc("GET /api/movimientos", s.handleMovements)
	mux.HandleFunc("GET /api/resumen", s.handleOverview)
	mux.HandleFunc("GET /api/fijos", s.handleFixedPlan)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        traceRequests(mux),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
