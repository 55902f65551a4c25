package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"nawala/internal/api/dto"
	"nawala/internal/checker"
	"nawala/internal/config"

	"github.com/charmbracelet/log"
)

func (s *Server) checkSingle(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("domain")
	if name == "" {
		writeError(w, "Domain parameter is required", http.StatusBadRequest)
		return
	}

	outcome, err := s.oracle.CheckDomains(r.Context(), []string{name})
	if err != nil {
		log.Error("Single domain check failed", "domain", name, "error", err)
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	blocked := false
	if verdict, ok := outcome.Data[outcome.CheckedDomains[0]]; ok {
		blocked = verdict.Blocked
	}

	writeData(w, http.StatusOK, dto.SingleCheckResult{
		Domain:    outcome.CheckedDomains[0],
		Blocked:   blocked,
		Timestamp: outcome.Timestamp,
	})
}

func (s *Server) checkBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Domains) == 0 {
		writeError(w, "Domains array is required", http.StatusBadRequest)
		return
	}

	maxBatch := config.GetConfig().Oracle.MaxBatchSize
	if maxBatch <= 0 {
		maxBatch = 10
	}
	if len(req.Domains) > maxBatch {
		writeError(w, "Maximum 10 domains per request", http.StatusBadRequest)
		return
	}

	outcome, err := s.oracle.CheckDomains(r.Context(), req.Domains)
	if err != nil {
		log.Error("Batch domain check failed", "count", len(req.Domains), "error", err)
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeData(w, http.StatusOK, dto.BatchCheckReport{
		Summary:   checker.GenerateSummary(outcome),
		Details:   outcome.Data,
		Timestamp: outcome.Timestamp,
	})
}

func (s *Server) lastResults(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.oracle.AllLastCheckResults())
}

func (s *Server) recentReports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	reports, err := s.history.RecentReports(limit)
	if err != nil {
		log.Error("Failed to load hourly reports", "error", err)
		writeError(w, "Could not load reports", http.StatusInternalServerError)
		return
	}

	writeDataCount(w, http.StatusOK, reports, len(reports))
}
