package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"masarif/internal/core"
)

// quoteResponse mirrors the rate-quote endpoint payload. Only responses with
// result == "success" populate the table.
type quoteResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Provider fetches and caches the currency rate table for one base currency.
// It fails open: any transport or parse failure leaves the current table in
// place (empty on first fetch), so the engine keeps working offline with
// conversion silently skipped.
type Provider struct {
	endpoint string
	base     string
	client   *http.Client

	mu    sync.RWMutex
	table core.RateTable
}

// NewProvider builds a provider for endpoint (e.g. "https://open.er-api.com/v6/latest");
// the base currency code is appended as the final path segment on fetch.
func NewProvider(endpoint, base string) *Provider {
	return &Provider{
		endpoint: strings.TrimRight(endpoint, "/"),
		base:     base,
		client:   &http.Client{Timeout: 10 * time.Second},
		table:    core.RateTable{},
	}
}

// Fetch refreshes the table from the remote quote source. Failures are
// logged at warn level and never propagated; callers always get a usable
// (possibly empty) table afterwards.
func (p *Provider) Fetch(ctx context.Context) {
	url := fmt.Sprintf("%s/%s", p.endpoint, p.base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.WarnContext(ctx, "Rate fetch skipped", "error", err, "url", url)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "Rate fetch failed, keeping current table", "error", err, "url", url)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "Rate fetch returned non-OK status", "status", resp.StatusCode, "url", url)
		return
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		slog.WarnContext(ctx, "Rate response parse failed", "error", err, "url", url)
		return
	}
	if quote.Result != "success" {
		slog.WarnContext(ctx, "Rate source reported failure", "result", quote.Result, "url", url)
		return
	}

	table := make(core.RateTable, len(quote.Rates))
	for code, rate := range quote.Rates {
		table[code] = rate
	}

	p.mu.Lock()
	p.table = table
	p.mu.Unlock()

	slog.InfoContext(ctx, "Rate table refreshed", "base", p.base, "currencies", len(table))
}

// Snapshot returns a read-only copy of the current table. Entries created
// against a snapshot keep the rates in force at creation time.
func (p *Provider) Snapshot() core.RateTable {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(core.RateTable, len(p.table))
	for code, rate := range p.table {
		out[code] = rate
	}
	return out
}

// Base returns the base currency code all rates are relative to.
func (p *Provider) Base() string {
	return p.base
}
