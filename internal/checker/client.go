package checker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"nawala/internal/config"
	"nawala/internal/domain"

	"github.com/charmbracelet/log"
)

// ErrOracleRequest marks a batch-level oracle failure: transport error,
// timeout or a non-2xx response. There are never partial results behind it.
var ErrOracleRequest = errors.New("oracle request failed")

// Recorder receives the per-domain verdicts the client extracts from a batch
// response.
type Recorder interface {
	RecordCheck(name string, blocked bool, responseTime *int64) (*domain.Domain, error)
}

// LastResult is the volatile per-domain cache entry. The durable source of
// truth stays in the registry.
type LastResult struct {
	Blocked   bool      `json:"blocked"`
	Timestamp time.Time `json:"timestamp"`
}

// Outcome carries the raw response of one batch query plus the resolved
// request list.
type Outcome struct {
	Data           domain.VerdictMap
	CheckedDomains []string
	Timestamp      time.Time
}

// Client wraps the single batched query against the external block-check
// oracle and keeps the in-memory last-result cache.
type Client struct {
	registry   Recorder
	baseURL    string
	userAgent  string
	httpClient *http.Client

	mu          sync.RWMutex
	lastResults map[string]LastResult
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(registry Recorder, opts ...ClientOption) *Client {
	client := &Client{
		registry:    registry,
		lastResults: make(map[string]LastResult),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// CheckDomains issues one request for the whole batch. On success every
// requested name gets its verdict recorded in the registry and the cache;
// individual registry failures are logged and swallowed so one unregistered
// name cannot fail the batch.
func (c *Client) CheckDomains(ctx context.Context, names []string) (*Outcome, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("checker: no domains to check")
	}

	cfg := config.GetConfig()

	normalized := make([]string, 0, len(names))
	for _, name := range names {
		normalized = append(normalized, domain.NormalizeName(name))
	}

	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = strings.TrimRight(cfg.Oracle.BaseURL, "/")
	}
	endpoint := fmt.Sprintf("%s/?domains=%s", baseURL, url.QueryEscape(strings.Join(normalized, ",")))

	timeout := time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("checker: build request: %w", err)
	}

	userAgent := c.userAgent
	if userAgent == "" {
		userAgent = cfg.Oracle.UserAgent
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrOracleRequest, resp.StatusCode)
	}

	var raw domain.VerdictMap
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrOracleRequest, err)
	}

	elapsed := time.Since(start).Milliseconds()
	now := time.Now()
	for _, name := range normalized {
		blocked := interpretVerdict(raw, name)

		c.storeLastResult(name, LastResult{Blocked: blocked, Timestamp: now})

		responseTime := elapsed
		if _, err := c.registry.RecordCheck(name, blocked, &responseTime); err != nil {
			log.Warn("Failed to record check result", "domain", name, "error", err)
		}
	}

	return &Outcome{
		Data:           raw,
		CheckedDomains: normalized,
		Timestamp:      now,
	}, nil
}

// interpretVerdict resolves one name against the raw oracle response. A
// missing key or missing blocked field reads as not blocked: the oracle
// omits names it has no listing for, so absence counts as all-clear.
// TODO: verify with the oracle operator that partial responses never drop
// names that are in fact blocked.
func interpretVerdict(results domain.VerdictMap, name string) bool {
	verdict, ok := results[name]
	if !ok {
		return false
	}
	return verdict.Blocked
}

func (c *Client) storeLastResult(name string, result LastResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastResults[name] = result
}

// LastCheckResult returns the cached outcome of the most recent check of the
// given domain, if any.
func (c *Client) LastCheckResult(name string) (LastResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.lastResults[domain.NormalizeName(name)]
	return result, ok
}

// AllLastCheckResults copies the cache for read-back endpoints.
func (c *Client) AllLastCheckResults() map[string]LastResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]LastResult, len(c.lastResults))
	for name, result := range c.lastResults {
		out[name] = result
	}
	return out
}
