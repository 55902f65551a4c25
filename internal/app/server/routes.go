package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"nawala/internal/api/dto"
	"nawala/internal/checker"
	"nawala/internal/database"
	"nawala/internal/domain"

	"github.com/charmbracelet/log"
)

// Server wires the REST surface to the registry, the history store and the
// oracle client. Every dependency is injected; the server owns no state of
// its own.
type Server struct {
	registry *database.DomainRegistry
	history  *database.HistoryStore
	oracle   *checker.Client
}

func NewServer(registry *database.DomainRegistry, history *database.HistoryStore, oracle *checker.Client) *Server {
	return &Server{
		registry: registry,
		history:  history,
		oracle:   oracle,
	}
}

func writeEnvelope(w http.ResponseWriter, status int, env dto.Envelope) {
	env.Timestamp = time.Now()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, dto.Envelope{Success: true, Data: data})
}

func writeDataCount(w http.ResponseWriter, status int, data any, count int) {
	writeEnvelope(w, status, dto.Envelope{Success: true, Data: data, Count: &count})
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeEnvelope(w, status, dto.Envelope{Success: false, Error: msg})
}

func domainErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrDomainNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidFormat), errors.Is(err, domain.ErrDuplicateDomain):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*") // Allow any origin
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PATCH, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Pass the request to the next handler
		next.ServeHTTP(w, r)
	})
}

// Handler builds the full route table. Split out from OpenRoutes so tests
// can drive it through httptest.
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /health", s.health)
	router.HandleFunc("GET /check/{domain}", s.checkSingle)
	router.HandleFunc("POST /check", s.checkBatch)
	router.HandleFunc("GET /results", s.lastResults)
	router.HandleFunc("GET /reports", s.recentReports)

	router.HandleFunc("GET /domains", s.listDomains)
	router.HandleFunc("POST /domains", s.addDomain)
	router.HandleFunc("GET /domains/stats", s.domainStats)
	router.HandleFunc("GET /domains/{name}", s.getDomain)
	router.HandleFunc("GET /domains/{name}/history", s.domainHistory)
	router.HandleFunc("PATCH /domains/{name}/toggle", s.toggleDomain)
	router.HandleFunc("DELETE /domains/{name}", s.deleteDomain)

	router.HandleFunc("GET /{$}", s.apiIndex)
	router.HandleFunc("/", s.notFound)

	return enableCORS(router)
}

func OpenRoutes(port int, s *Server) error {
	server := http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	log.Infof("Starting nawala API server on port :%d", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"service": "Nawala Live API",
	})
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, "Endpoint not found", http.StatusNotFound)
}

func (s *Server) apiIndex(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"service":     "Nawala Live API",
		"description": "Domain blocking checker service",
		"endpoints": map[string]string{
			"GET /health":                      "Health check",
			"GET /check/{domain}":              "Check single domain",
			"POST /check":                      "Check multiple domains (max 10)",
			"GET /results":                     "Last check results",
			"GET /reports":                     "Hourly reports",
			"GET /domains":                     "List domains",
			"POST /domains":                    "Add domain",
			"GET /domains/stats":               "Domain statistics",
			"GET /domains/{name}":              "Get domain by name",
			"GET /domains/{name}/history":      "Domain check history",
			"PATCH /domains/{name}/toggle":     "Toggle domain active flag",
			"DELETE /domains/{name}":           "Delete domain and its history",
		},
	})
}
