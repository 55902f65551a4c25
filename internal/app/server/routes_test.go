package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nawala/internal/checker"
	"nawala/internal/database"
	"nawala/internal/domain"

	"gorm.io/driver/sqlite"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Error   string          `json:"error"`
}

type testServer struct {
	handler    http.Handler
	registry   *database.DomainRegistry
	oracleHits *int
}

func newTestServer(t *testing.T, oracleBody string) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.SetupDB(
		database.WithDialector(sqlite.Open(dsn)),
		database.WithMigrations(domain.Domain{}, domain.CheckResult{}, domain.HourlyReport{}),
	)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	var hits int
	oracle := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		fmt.Fprint(w, oracleBody)
	}))
	t.Cleanup(oracle.Close)

	registry := database.NewDomainRegistry(db)
	history := database.NewHistoryStore(db)
	client := checker.NewClient(registry, checker.WithBaseURL(oracle.URL))

	return &testServer{
		handler:    NewServer(registry, history, client).Handler(),
		registry:   registry,
		oracleHits: &hits,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %s %s: %v\n%s", method, path, err, rec.Body.String())
	}
	return rec, env
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, `{}`)

	rec, env := ts.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("health: code=%d success=%v", rec.Code, env.Success)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, `{}`)

	rec, env := ts.do(t, http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route code = %d, want 404", rec.Code)
	}
	if env.Success || env.Error != "Endpoint not found" {
		t.Fatalf("unknown route envelope = %+v", env)
	}
}

func TestAPIIndex(t *testing.T) {
	ts := newTestServer(t, `{}`)

	rec, env := ts.do(t, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("index: code=%d success=%v", rec.Code, env.Success)
	}
	if !strings.Contains(string(env.Data), "endpoints") {
		t.Fatalf("index data missing endpoint listing: %s", env.Data)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, `{}`)

	req := httptest.NewRequest(http.MethodOptions, "/domains", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight code = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS origin header")
	}
}

func TestAddDomain_Lifecycle(t *testing.T) {
	ts := newTestServer(t, `{}`)

	rec, env := ts.do(t, http.MethodPost, "/domains", map[string]string{"name": "Example.COM"})
	if rec.Code != http.StatusCreated || !env.Success {
		t.Fatalf("add: code=%d envelope=%+v", rec.Code, env)
	}

	var created domain.Domain
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created domain: %v", err)
	}
	if created.Name != "example.com" {
		t.Fatalf("created name = %q, want example.com", created.Name)
	}

	rec, env = ts.do(t, http.MethodPost, "/domains", map[string]string{"name": "example.com"})
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("duplicate add: code=%d envelope=%+v", rec.Code, env)
	}

	rec, _ = ts.do(t, http.MethodGet, "/domains/example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: code=%d", rec.Code)
	}

	rec, env = ts.do(t, http.MethodGet, "/domains", nil)
	if rec.Code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("list: code=%d count=%v", rec.Code, env.Count)
	}

	rec, env = ts.do(t, http.MethodPatch, "/domains/example.com/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: code=%d", rec.Code)
	}
	var toggled domain.Domain
	if err := json.Unmarshal(env.Data, &toggled); err != nil {
		t.Fatalf("decode toggled domain: %v", err)
	}
	if toggled.IsActive {
		t.Fatal("toggle should have deactivated the domain")
	}

	rec, _ = ts.do(t, http.MethodDelete, "/domains/example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: code=%d", rec.Code)
	}

	rec, _ = ts.do(t, http.MethodGet, "/domains/example.com", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: code=%d, want 404", rec.Code)
	}
}

func TestAddDomain_Validation(t *testing.T) {
	ts := newTestServer(t, `{}`)

	rec, _ := ts.do(t, http.MethodPost, "/domains", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing name: code=%d, want 400", rec.Code)
	}

	rec, _ = ts.do(t, http.MethodPost, "/domains", map[string]string{"name": "not a domain"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid name: code=%d, want 400", rec.Code)
	}
}

func TestGetDomain_Unknown(t *testing.T) {
	ts := newTestServer(t, `{}`)

	rec, env := ts.do(t, http.MethodGet, "/domains/ghost.com", nil)
	if rec.Code != http.StatusNotFound || env.Success {
		t.Fatalf("unknown domain: code=%d envelope=%+v", rec.Code, env)
	}
}

func TestCheckSingle(t *testing.T) {
	ts := newTestServer(t, `{"example.com":{"blocked":true}}`)

	rec, env := ts.do(t, http.MethodGet, "/check/Example.COM", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("check single: code=%d envelope=%+v", rec.Code, env)
	}

	var result struct {
		Domain  string `json:"domain"`
		Blocked bool   `json:"blocked"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Domain != "example.com" || !result.Blocked {
		t.Fatalf("result = %+v", result)
	}
}

func TestCheckBatch(t *testing.T) {
	ts := newTestServer(t, `{"a.com":{"blocked":true},"b.com":{"blocked":false}}`)

	rec, env := ts.do(t, http.MethodPost, "/check", map[string]any{"domains": []string{"a.com", "b.com"}})
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("check batch: code=%d envelope=%+v", rec.Code, env)
	}

	var report struct {
		Summary domain.CheckSummary `json:"summary"`
	}
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Summary.TotalChecked != 2 || report.Summary.Blocked != 1 {
		t.Fatalf("summary = %+v", report.Summary)
	}
	if *ts.oracleHits != 1 {
		t.Fatalf("oracle hit %d times, want 1", *ts.oracleHits)
	}
}

func TestCheckBatch_EmptyBody(t *testing.T) {
	ts := newTestServer(t, `{}`)

	rec, env := ts.do(t, http.MethodPost, "/check", map[string]any{"domains": []string{}})
	if rec.Code != http.StatusBadRequest || env.Error != "Domains array is required" {
		t.Fatalf("empty batch: code=%d envelope=%+v", rec.Code, env)
	}
	if *ts.oracleHits != 0 {
		t.Fatal("empty batch must not reach the oracle")
	}
}

func TestCheckBatch_TooManyDomains(t *testing.T) {
	ts := newTestServer(t, `{}`)

	names := make([]string, 11)
	for i := range names {
		names[i] = fmt.Sprintf("domain%d.com", i)
	}

	rec, env := ts.do(t, http.MethodPost, "/check", map[string]any{"domains": names})
	if rec.Code != http.StatusBadRequest || env.Error != "Maximum 10 domains per request" {
		t.Fatalf("oversized batch: code=%d envelope=%+v", rec.Code, env)
	}
	if *ts.oracleHits != 0 {
		t.Fatal("oversized batch must be rejected before the oracle is queried")
	}

	rec, _ = ts.do(t, http.MethodPost, "/check", map[string]any{"domains": names[:10]})
	if rec.Code != http.StatusOK {
		t.Fatalf("full batch of 10: code=%d, want 200", rec.Code)
	}
	if *ts.oracleHits != 1 {
		t.Fatalf("oracle hit %d times, want 1", *ts.oracleHits)
	}
}

func TestLastResults(t *testing.T) {
	ts := newTestServer(t, `{"a.com":{"blocked":true}}`)

	if rec, _ := ts.do(t, http.MethodGet, "/check/a.com", nil); rec.Code != http.StatusOK {
		t.Fatalf("seed check: code=%d", rec.Code)
	}

	_, env := ts.do(t, http.MethodGet, "/results", nil)
	var results map[string]checker.LastResult
	if err := json.Unmarshal(env.Data, &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if result, ok := results["a.com"]; !ok || !result.Blocked {
		t.Fatalf("results = %v", results)
	}
}

func TestDomainStats(t *testing.T) {
	ts := newTestServer(t, `{}`)

	if _, err := ts.registry.AddDomain("a.com", "", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, env := ts.do(t, http.MethodGet, "/domains/stats", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("stats: code=%d envelope=%+v", rec.Code, env)
	}

	var stats struct {
		TotalDomains int64 `json:"totalDomains"`
	}
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalDomains != 1 {
		t.Fatalf("total domains = %d, want 1", stats.TotalDomains)
	}
}

func TestRecentReports_Empty(t *testing.T) {
	ts := newTestServer(t, `{}`)

	rec, env := ts.do(t, http.MethodGet, "/reports", nil)
	if rec.Code != http.StatusOK || env.Count == nil || *env.Count != 0 {
		t.Fatalf("reports: code=%d count=%v", rec.Code, env.Count)
	}
}
