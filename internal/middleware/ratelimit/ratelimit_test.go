package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestLimiter_Allow(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewLimiter(Config{RequestsPerMinute: 2}, nil)
	defer rl.Stop()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i, want := range []bool{true, true, false} {
		if got := rl.Allow("10.0.0.1"); got != want {
			t.Errorf("request %d: Allow() = %v, want %v", i+1, got, want)
		}
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other clients must not share the window")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("10.0.0.1") {
		t.Error("a new window should allow requests again")
	}

	if m := rl.GetMetrics(); m.TotalHits != 1 || m.ClientCount != 2 {
		t.Errorf("GetMetrics() = %+v", m)
	}
}

func TestLimiter_CleanupStaleEntries(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewLimiter(DefaultConfig(), nil)
	defer rl.Stop()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(11 * time.Minute)
	rl.Allow("b")

	if n := rl.cleanupStaleEntries(); n != 1 {
		t.Errorf("cleanupStaleEntries() = %d, want 1", n)
	}
	if rl.ActiveClients() != 1 {
		t.Errorf("ActiveClients() = %d, want 1", rl.ActiveClients())
	}
}

func TestLimiter_Middleware(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewLimiter(Config{RequestsPerMinute: 1}, nil)
	defer rl.Stop()
	h := rl.Middleware(func(*http.Request) string { return "c" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first request: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Error("missing Retry-After")
	}
}
