package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/models"
	"github.com/eeliel46-ctrl/financaeinvestimentos/internal/validation"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/brapi"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/directory"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/history"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/movers"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/quotes"
	"github.com/eeliel46-ctrl/financaeinvestimentos/pkg/transport"
)

// newProviderStub serves a minimal brapi lookalike: a directory, live
// quotes for PETR4/VALE3 and daily-only history.
func newProviderStub(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/quote/list":
			w.Write([]byte(`{"stocks":[
				{"stock":"PETR4","name":"PETROBRAS PN","close":38.52,"change":1.2,"volume":52000000},
				{"stock":"VALE3","name":"VALE ON","close":61.10,"change":-0.5,"volume":30000000},
				{"stock":"HGLG11","name":"CSHG LOGISTICA FII","close":160.0,"change":2.0,"volume":80000}
			]}`))
		case r.URL.Query().Get("range") != "":
			if r.URL.Query().Get("interval") != "1d" {
				w.Write([]byte(`{"results":[{"symbol":"PETR4","historicalDataPrice":[]}]}`))
				return
			}
			w.Write([]byte(`{"results":[{"symbol":"PETR4","historicalDataPrice":[
				{"date":1716854400,"open":37.5,"high":38.2,"low":37.3,"close":38.0,"volume":900},
				{"date":1716940800,"open":38.0,"high":38.7,"low":37.8,"close":38.4,"volume":950}
			]}]}`))
		case strings.HasPrefix(r.URL.Path, "/quote/"):
			var results []string
			for _, sym := range strings.Split(strings.TrimPrefix(r.URL.Path, "/quote/"), ",") {
				switch sym {
				case "PETR4":
					results = append(results, `{"symbol":"PETR4","longName":"Petrobras PN","regularMarketPrice":38.60,"regularMarketChangePercent":1.3,"regularMarketPreviousClose":38.06}`)
				case "VALE3":
					results = append(results, `{"symbol":"VALE3","longName":"Vale ON","regularMarketPrice":61.20}`)
				}
			}
			w.Write([]byte(`{"results":[` + strings.Join(results, ",") + `]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestServer(t *testing.T, providerURL string) *Server {
	tr := transport.New(5 * time.Second).WithRetryPolicy(1, 0)
	client := brapi.NewClient(tr, providerURL, "")
	v := validation.New()
	dir := directory.NewCache(client, v, time.Minute)
	resolver := quotes.NewResolver(client, dir, v)
	fetcher := history.NewFetcher(client)
	ranker := movers.NewRanker(dir)
	return New(8090, "*", resolver, dir, fetcher, ranker)
}

func doRequest(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGetQuoteEndpoint(t *testing.T) {
	provider := newProviderStub(t)
	defer provider.Close()
	handler := newTestServer(t, provider.URL).Handler()

	rec := doRequest(t, handler, "/api/quote/petr4")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var quote models.Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if quote.Symbol != "PETR4" || quote.Price != 38.60 {
		t.Errorf("unexpected quote: %+v", quote)
	}
}

func TestGetQuoteNotFound(t *testing.T) {
	provider := newProviderStub(t)
	defer provider.Close()
	handler := newTestServer(t, provider.URL).Handler()

	rec := doRequest(t, handler, "/api/quote/ZZZZ9")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetQuotesBatchEndpoint(t *testing.T) {
	provider := newProviderStub(t)
	defer provider.Close()
	handler := newTestServer(t, provider.URL).Handler()

	rec := doRequest(t, handler, "/api/quotes?symbols=PETR4,ZZZZ9")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resolved []models.Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &resolved); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resolved) != 1 || resolved[0].Symbol != "PETR4" {
		t.Errorf("expected only PETR4, got %+v", resolved)
	}

	if rec := doRequest(t, handler, "/api/quotes"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing symbols, got %d", rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	provider := newProviderStub(t)
	defer provider.Close()
	handler := newTestServer(t, provider.URL).Handler()

	rec := doRequest(t, handler, "/api/search?q=vale")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var matches []models.SymbolListing
	if err := json.Unmarshal(rec.Body.Bytes(), &matches); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(matches) != 1 || matches[0].Ticker != "VALE3" {
		t.Errorf("unexpected search results: %+v", matches)
	}

	// empty query renders an empty array, not null
	rec = doRequest(t, handler, "/api/search")
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}

func TestMoversEndpoint(t *testing.T) {
	provider := newProviderStub(t)
	defer provider.Close()
	handler := newTestServer(t, provider.URL).Handler()

	rec := doRequest(t, handler, "/api/movers")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var result movers.Movers
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(result.Gainers) == 0 || result.Gainers[0].Ticker != "PETR4" {
		t.Errorf("expected PETR4 as top gainer, got %+v", result.Gainers)
	}
	for _, listing := range append(result.Gainers, result.Losers...) {
		if listing.Ticker == "HGLG11" {
			t.Error("fund listing must not appear among movers")
		}
	}
}

func TestHistoryEndpoint(t *testing.T) {
	provider := newProviderStub(t)
	defer provider.Close()
	handler := newTestServer(t, provider.URL).Handler()

	// "1d" degrades to daily bars because the stub has no intraday data
	rec := doRequest(t, handler, "/api/history/PETR4?range=1d")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var bars []models.PriceBar
	if err := json.Unmarshal(rec.Body.Bytes(), &bars); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 daily bars, got %d", len(bars))
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Error("bars not sorted ascending")
	}

	// a plain day count is accepted too
	if rec := doRequest(t, handler, "/api/history/PETR4?range=90"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 for day-count range, got %d", rec.Code)
	}

	if rec := doRequest(t, handler, "/api/history/PETR4?range=soon"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown range, got %d", rec.Code)
	}
}

func TestTracingMiddlewarePreservesTraceID(t *testing.T) {
	provider := newProviderStub(t)
	defer provider.Close()
	handler := newTestServer(t, provider.URL).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Trace-ID"); got != "trace-123" {
		t.Errorf("inbound trace ID not preserved, got %q", got)
	}

	rec = doRequest(t, handler, "/api/health")
	if rec.Header().Get("X-Trace-ID") == "" {
		t.Error("expected a generated trace ID on the response")
	}
}
