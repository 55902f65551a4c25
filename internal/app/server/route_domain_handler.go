package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"nawala/internal/api/dto"

	"github.com/charmbracelet/log"
)

func (s *Server) listDomains(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	domains, err := s.registry.GetAllDomains(activeOnly)
	if err != nil {
		log.Error("Failed to list domains", "error", err)
		writeError(w, "Could not load domains", http.StatusInternalServerError)
		return
	}

	writeDataCount(w, http.StatusOK, domains, len(domains))
}

func (s *Server) addDomain(w http.ResponseWriter, r *http.Request) {
	var req dto.AddDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		writeError(w, "Domain name is required", http.StatusBadRequest)
		return
	}

	record, err := s.registry.AddDomain(req.Name, req.Description, req.CheckFrequency)
	if err != nil {
		writeError(w, err.Error(), domainErrorStatus(err))
		return
	}

	writeData(w, http.StatusCreated, record)
}

func (s *Server) getDomain(w http.ResponseWriter, r *http.Request) {
	record, err := s.registry.GetDomain(r.PathValue("name"))
	if err != nil {
		writeError(w, err.Error(), domainErrorStatus(err))
		return
	}

	writeData(w, http.StatusOK, record)
}

func (s *Server) toggleDomain(w http.ResponseWriter, r *http.Request) {
	record, err := s.registry.ToggleDomain(r.PathValue("name"))
	if err != nil {
		writeError(w, err.Error(), domainErrorStatus(err))
		return
	}

	writeData(w, http.StatusOK, record)
}

func (s *Server) deleteDomain(w http.ResponseWriter, r *http.Request) {
	record, err := s.registry.DeleteDomain(r.PathValue("name"))
	if err != nil {
		writeError(w, err.Error(), domainErrorStatus(err))
		return
	}

	writeData(w, http.StatusOK, record)
}

func (s *Server) domainHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := s.history.DomainHistory(r.PathValue("name"), limit)
	if err != nil {
		log.Error("Failed to load domain history", "error", err)
		writeError(w, "Could not load domain history", http.StatusInternalServerError)
		return
	}

	writeDataCount(w, http.StatusOK, history, len(history))
}

func (s *Server) domainStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.registry.Statistics()
	if err != nil {
		log.Error("Failed to load domain statistics", "error", err)
		writeError(w, "Could not load statistics", http.StatusInternalServerError)
		return
	}

	writeData(w, http.StatusOK, stats)
}
