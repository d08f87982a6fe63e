package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRateLimiterFixedWindow(t *testing.T) {
	limiter := NewRateLimiter()
	for i := 0; i < 3; i++ {
		if !limiter.Allow("k", 3, 50*time.Millisecond) {
			t.Fatalf("request %d denied inside the limit", i)
		}
	}
	if limiter.Allow("k", 3, 50*time.Millisecond) {
		t.Fatal("request over the limit allowed")
	}
	if !limiter.Allow("other", 3, 50*time.Millisecond) {
		t.Fatal("keys must be independent")
	}

	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow("k", 3, 50*time.Millisecond) {
		t.Fatal("new window must reset the count")
	}
}

func TestRequestIDAssignedAndPreserved(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("request id not assigned")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "fixed" {
		t.Fatalf("supplied request id replaced with %q", got)
	}
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Logging(zap.NewNop()), Recover)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Fatalf("ip = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Fatalf("forwarded ip = %q", got)
	}
}
