package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	handler := NewRateLimiter(10, 5, nil).Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	handler := NewRateLimiter(1, 2, nil).Handler(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 after burst exhausted", last.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(last.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "rate limit exceeded" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestRateLimiterKeysByCaller(t *testing.T) {
	handler := NewRateLimiter(1, 1, nil).Handler(okHandler())

	// Exhaust the first caller's budget.
	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	req.Header.Set("Authorization", "Bearer token-a")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want caller a throttled", rec.Code)
	}

	// A different caller is unaffected.
	other := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	other.Header.Set("Authorization", "Bearer token-b")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want caller b allowed", rec.Code)
	}
}
