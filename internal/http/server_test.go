package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"masarif/internal/core"
	"masarif/internal/ledger"
	"masarif/internal/services"
	"masarif/internal/storage"
)

type staticRates struct {
	base  string
	table core.RateTable
}

func (r staticRates) Snapshot() core.RateTable { return r.table }
func (r staticRates) Base() string             { return r.base }

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	l, err := ledger.Open(context.Background(), store)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}

	rates := staticRates{base: "SAR", table: core.RateTable{"USD": 0.27}}
	svc := services.NewEntryService(l, rates, nil, "")

	srv := NewServer(":0", svc)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return srv, ts
}

func postEntry(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/entries", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCreateEntry(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postEntry(t, ts, `{
		"name": "Hosting", "category": "Tech", "amount": 3000,
		"currency": "SAR", "frequency": "monthly", "date": "2025-03-01"
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created createEntryResponse
	decodeInto(t, resp, &created)
	if !created.Durable {
		t.Fatalf("expected durable entry")
	}
	if created.Entry.AmountDaily != 100 {
		t.Fatalf("expected normalized daily amount 100, got %v", created.Entry.AmountDaily)
	}
	if created.Entry.Currency != "SAR" {
		t.Fatalf("expected base currency label, got %q", created.Entry.Currency)
	}
	if created.Entry.ID == 0 {
		t.Fatalf("expected assigned id")
	}
}

func TestCreateEntryFromForm(t *testing.T) {
	_, ts := newTestServer(t)

	form := url.Values{}
	form.Set("name", "Hosting")
	form.Set("category", "Tech")
	form.Set("amount", "3000")
	form.Set("currency", "SAR")
	form.Set("frequency", "monthly")
	form.Set("date", "2025-03-01")

	resp, err := http.PostForm(ts.URL+"/entries", form)
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created createEntryResponse
	decodeInto(t, resp, &created)
	if created.Entry.AmountDaily != 100 {
		t.Fatalf("expected normalized daily amount 100, got %v", created.Entry.AmountDaily)
	}
}

func TestCreateEntryConvertsCurrency(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postEntry(t, ts, `{
		"name": "Ads", "category": "Marketing", "amount": 100,
		"currency": "USD", "frequency": "daily", "date": "2025-03-01"
	}`)
	var created createEntryResponse
	decodeInto(t, resp, &created)

	want := 100 / 0.27
	if diff := created.Entry.AmountDaily - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected %v, got %v", want, created.Entry.AmountDaily)
	}
}

func TestCreateEntryUnknownCurrencyFailsOpen(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postEntry(t, ts, `{
		"name": "Mystery", "category": "Misc", "amount": 90,
		"currency": "XYZ", "frequency": "daily", "date": "2025-03-01"
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created createEntryResponse
	decodeInto(t, resp, &created)
	if created.Entry.AmountDaily != 90 {
		t.Fatalf("unknown currency must pass through, got %v", created.Entry.AmountDaily)
	}
}

func TestCreateEntryRejectsMalformedInput(t *testing.T) {
	_, ts := newTestServer(t)

	bodies := []string{
		`{"category":"c","amount":1,"date":"2025-01-01"}`,                   // no name
		`{"name":"a","amount":1,"date":"2025-01-01"}`,                       // no category
		`{"name":"a","category":"c","date":"2025-01-01"}`,                   // no amount
		`{"name":"a","category":"c","amount":"lots","date":"2025-01-01"}`,   // non-numeric amount
		`{"name":"a","category":"c","amount":5,"date":"yesterday"}`,         // bad date
		`{"name":"a","category":"c","amount":5}`,                            // missing date
		`not json`,
	}
	for i, body := range bodies {
		resp := postEntry(t, ts, body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, resp.StatusCode)
		}
	}

	// Nothing partial may have been created.
	resp, err := http.Get(ts.URL + "/entries")
	if err != nil {
		t.Fatalf("get entries: %v", err)
	}
	var list entriesResponse
	decodeInto(t, resp, &list)
	if len(list.Entries) != 0 {
		t.Fatalf("expected empty ledger, got %+v", list.Entries)
	}
}

func TestDeleteEntry(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postEntry(t, ts, `{"name":"A","category":"c","amount":1,"currency":"SAR","frequency":"daily","date":"2025-01-01"}`)
	var created createEntryResponse
	decodeInto(t, resp, &created)

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/entries/%d", ts.URL, created.Entry.ID), nil)
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", del.StatusCode)
	}

	// Deleting an absent id is still a 204 no-op.
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/entries/9999", nil)
	del, _ = http.DefaultClient.Do(req)
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for absent id, got %d", del.StatusCode)
	}

	// A non-numeric id is a 400.
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/entries/abc", nil)
	del, _ = http.DefaultClient.Do(req)
	del.Body.Close()
	if del.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", del.StatusCode)
	}
}

func TestSummary(t *testing.T) {
	_, ts := newTestServer(t)

	for _, body := range []string{
		`{"name":"Rent","category":"Rent","amount":50,"currency":"SAR","frequency":"daily","date":"2025-01-01"}`,
		`{"name":"Food","category":"Food","amount":20,"currency":"SAR","frequency":"daily","date":"2025-01-01"}`,
		`{"name":"Parking","category":"Rent","amount":10,"currency":"SAR","frequency":"daily","date":"2025-01-01"}`,
	} {
		resp := postEntry(t, ts, body)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/summary")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	var sum summaryResponse
	decodeInto(t, resp, &sum)

	if len(sum.Labels) != 2 || sum.Labels[0] != "Rent" || sum.Labels[1] != "Food" {
		t.Fatalf("expected first-appearance order [Rent Food], got %v", sum.Labels)
	}
	if sum.Totals[0] != 60 || sum.Totals[1] != 20 {
		t.Fatalf("expected totals [60 20], got %v", sum.Totals)
	}
	if sum.TotalDaily != 80 {
		t.Fatalf("expected total 80, got %d", sum.TotalDaily)
	}
}

func TestSummaryRoundsAtBoundary(t *testing.T) {
	_, ts := newTestServer(t)

	// 100 / 30 = 3.333... per day, rounded to 3 in the summary only.
	resp := postEntry(t, ts, `{"name":"Sub","category":"Tech","amount":100,"currency":"SAR","frequency":"monthly","date":"2025-01-01"}`)
	resp.Body.Close()

	sumResp, err := http.Get(ts.URL + "/summary")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	var sum summaryResponse
	decodeInto(t, sumResp, &sum)
	if sum.Totals[0] != 3 {
		t.Fatalf("expected rounded total 3, got %d", sum.Totals[0])
	}

	// The stored entry keeps the unrounded value.
	listResp, err := http.Get(ts.URL + "/entries")
	if err != nil {
		t.Fatalf("get entries: %v", err)
	}
	var list entriesResponse
	decodeInto(t, listResp, &list)
	if list.Entries[0].AmountDaily == 3 {
		t.Fatalf("entry amount must not be rounded, got %v", list.Entries[0].AmountDaily)
	}
}

func TestSummaryCacheInvalidatedByMutation(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postEntry(t, ts, `{"name":"A","category":"c","amount":50,"currency":"SAR","frequency":"daily","date":"2025-01-01"}`)
	var created createEntryResponse
	decodeInto(t, resp, &created)

	sumResp, _ := http.Get(ts.URL + "/summary")
	var before summaryResponse
	decodeInto(t, sumResp, &before)
	if before.TotalDaily != 50 {
		t.Fatalf("expected 50, got %d", before.TotalDaily)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/entries/%d", ts.URL, created.Entry.ID), nil)
	del, _ := http.DefaultClient.Do(req)
	del.Body.Close()

	sumResp, _ = http.Get(ts.URL + "/summary")
	var after summaryResponse
	decodeInto(t, sumResp, &after)
	if after.TotalDaily != 0 {
		t.Fatalf("summary must reflect the deletion, got %d", after.TotalDaily)
	}
}

func TestProfit(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postEntry(t, ts, `{"name":"A","category":"c","amount":80,"currency":"SAR","frequency":"daily","date":"2025-01-01"}`)
	resp.Body.Close()

	profitResp, err := http.Get(ts.URL + "/profit?daily_sales=999&daily_profit=200")
	if err != nil {
		t.Fatalf("get profit: %v", err)
	}
	var p profitResponse
	decodeInto(t, profitResp, &p)

	if p.NetProfitDaily != 120 {
		t.Fatalf("expected 120 (sales ignored), got %d", p.NetProfitDaily)
	}
	if p.TotalDailyExpenses != 80 {
		t.Fatalf("expected 80, got %d", p.TotalDailyExpenses)
	}
}

func TestProfitDefaultsMissingParamsToZero(t *testing.T) {
	_, ts := newTestServer(t)

	profitResp, err := http.Get(ts.URL + "/profit")
	if err != nil {
		t.Fatalf("get profit: %v", err)
	}
	var p profitResponse
	decodeInto(t, profitResp, &p)
	if p.NetProfitDaily != 0 {
		t.Fatalf("expected 0, got %d", p.NetProfitDaily)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
