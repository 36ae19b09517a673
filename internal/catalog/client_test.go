package catalog

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(url string) (*Client, *clock) {
	clk := &clock{now: time.Unix(1700000000, 0)}
	c := New(NewCache(), url, url, zap.NewNop())
	c.now = clk.Now
	c.sleep = clk.Sleep
	return c, clk
}

// clock fakes time for the client: Now is advanced manually and Sleep
// records requested delays instead of waiting.
type clock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Sleep(d time.Duration) { c.sleeps = append(c.sleeps, d) }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestFetch_Success(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"P1","name":"Washer","unitPrice":"1.50","category":"Plumbing"}]`))
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL)
	res := c.Fetch(context.Background(), KindParts)

	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.FromCache {
		t.Fatal("fresh fetch should not be from cache")
	}
	if len(res.Data) != 1 || res.Data[0].ID != "P1" {
		t.Fatalf("unexpected data: %+v", res.Data)
	}
	if requests != 1 {
		t.Fatalf("expected 1 request, got %d", requests)
	}
}

func TestFetch_CacheHitThenExpiry(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`[{"id":"P1","name":"Washer","unitPrice":"1.50"}]`))
	}))
	defer srv.Close()

	c, clk := newTestClient(srv.URL)
	c.Fetch(context.Background(), KindParts)

	// Two minutes later the cache is still fresh: no network call
	clk.Advance(2 * time.Minute)
	res := c.Fetch(context.Background(), KindParts)
	if !res.FromCache {
		t.Fatal("expected cache hit at +2min")
	}
	if requests != 1 {
		t.Fatalf("cache hit should not touch the network, got %d requests", requests)
	}

	// Six minutes after the original fetch the entry is stale: refresh
	clk.Advance(4 * time.Minute)
	res = c.Fetch(context.Background(), KindParts)
	if res.FromCache {
		t.Fatal("expected network refresh at +6min")
	}
	if requests != 2 {
		t.Fatalf("expected 2 requests after expiry, got %d", requests)
	}
}

func TestFetch_SampleFallbackAfterRetries(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, clk := newTestClient(srv.URL)
	res := c.Fetch(context.Background(), KindParts)

	if requests != 3 {
		t.Fatalf("expected 3 attempts, got %d", requests)
	}
	if len(clk.sleeps) != 2 || clk.sleeps[0] != time.Second || clk.sleeps[1] != 2*time.Second {
		t.Fatalf("expected backoff of 1s then 2s, got %v", clk.sleeps)
	}
	if res.FromCache {
		t.Fatal("sample fallback is not cached data")
	}
	if len(res.Data) != 10 {
		t.Fatalf("expected the 10 sample parts, got %d items", len(res.Data))
	}

	var fe *FetchError
	if !errors.As(res.Err, &fe) || fe.Fallback != FallbackSample {
		t.Fatalf("expected sample FetchError, got %v", res.Err)
	}
	var se *StatusError
	if !errors.As(res.Err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected wrapped StatusError 500, got %v", res.Err)
	}
}

func TestFetch_LabourSampleFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL)
	res := c.Fetch(context.Background(), KindLabour)

	if len(res.Data) != 9 {
		t.Fatalf("expected the 9 sample labour items, got %d", len(res.Data))
	}
	if res.Err == nil {
		t.Fatal("expected a populated error on fallback")
	}
}

func TestFetch_StaleCacheFallback(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"id":"P1","name":"Washer","unitPrice":"1.50"}]`))
	}))
	defer srv.Close()

	c, clk := newTestClient(srv.URL)
	c.Fetch(context.Background(), KindParts)

	fail = true
	clk.Advance(10 * time.Minute)
	res := c.Fetch(context.Background(), KindParts)

	if !res.FromCache {
		t.Fatal("expected stale cache data")
	}
	if len(res.Data) != 1 || res.Data[0].ID != "P1" {
		t.Fatalf("expected the previously cached data, got %+v", res.Data)
	}

	var fe *FetchError
	if !errors.As(res.Err, &fe) || fe.Fallback != FallbackCache {
		t.Fatalf("expected cache FetchError, got %v", res.Err)
	}
}

// timeoutTransport fails every request with a timeout error.
type timeoutTransport struct {
	attempts int
}

func (t *timeoutTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.attempts++
	return nil, &net.DNSError{Err: "deadline exceeded", IsTimeout: true}
}

func TestFetch_TimeoutNotRetried(t *testing.T) {
	c, clk := newTestClient("http://example.invalid/parts")
	tr := &timeoutTransport{}
	c.http = &http.Client{Transport: tr}

	res := c.Fetch(context.Background(), KindParts)

	if tr.attempts != 1 {
		t.Fatalf("timeout must not be retried, got %d attempts", tr.attempts)
	}
	if len(clk.sleeps) != 0 {
		t.Fatalf("no backoff expected on timeout, got %v", clk.sleeps)
	}
	if !errors.Is(res.Err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout in chain, got %v", res.Err)
	}
	if len(res.Data) == 0 {
		t.Fatal("even a timeout must resolve to renderable data")
	}
}

func TestIsValidURL(t *testing.T) {
	if !IsValidURL("https://example.com/api/parts") {
		t.Fatal("expected https URL to be valid")
	}
	if IsValidURL("not a url") || IsValidURL("ftp://example.com") || IsValidURL("") {
		t.Fatal("expected invalid URLs to be rejected")
	}
}
