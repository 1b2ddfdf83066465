package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := newRateLimiter(60)

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d denied inside burst", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request past the burst should be denied")
	}

	// A different client has its own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("fresh client should be allowed")
	}
}

func TestRateLimiterMiddlewareResponds429(t *testing.T) {
	rl := newRateLimiter(1)
	handler := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.RemoteAddr = "192.0.2.7:4242"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
}
