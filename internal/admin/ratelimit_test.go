package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_AllowsNormalRequests(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 5, discardLogger())
	defer rl.Stop()

	called := false
	handler := rl.Wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/v1/status", nil))

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRateLimitMiddleware_BlocksExcessiveRuns(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 5, discardLogger())
	defer rl.Stop()
	handler := rl.Wrap(okHandler())

	// Runs: 1 req/min with burst=1.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/v1/runs", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("first request: expected 200, got %d", rec.Code)
	}

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, httptest.NewRequest(http.MethodPost, "/admin/v1/runs", nil))
	if rec2.Code != http.StatusTooManyRequests {
		t.Errorf("second request: expected 429, got %d", rec2.Code)
	}
	if rec2.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429 response")
	}
}

func TestRateLimitMiddleware_ClientsAndEndpointsIndependent(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 5, discardLogger())
	defer rl.Stop()
	handler := rl.Wrap(okHandler())

	send := func(method, path, ip string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(http.MethodPost, "/admin/v1/runs", "203.0.113.7"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := send(http.MethodPost, "/admin/v1/runs", "203.0.113.8"); code != http.StatusOK {
		t.Errorf("other client: expected 200, got %d", code)
	}
	if code := send(http.MethodGet, "/admin/v1/status", "203.0.113.7"); code != http.StatusOK {
		t.Errorf("other endpoint: expected 200, got %d", code)
	}
	if got := rl.LimiterCount(); got != 3 {
		t.Errorf("expected 3 limiters, got %d", got)
	}
}

func TestRateLimitMiddleware_EvictsStaleLimiters(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 5, discardLogger())
	defer rl.Stop()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rl.nowFunc = func() time.Time { return now }

	rl.Wrap(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/v1/status", nil))
	if rl.LimiterCount() != 1 {
		t.Fatalf("expected 1 limiter, got %d", rl.LimiterCount())
	}

	now = now.Add(staleLimiterTTL + time.Second)
	rl.evictStale()
	if rl.LimiterCount() != 0 {
		t.Errorf("expected stale limiter to be evicted, got %d", rl.LimiterCount())
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.1"}, "10.0.0.2:5000", "198.51.100.4"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.5 "}, "10.0.0.2:5000", "198.51.100.5"},
		{"remote addr", nil, "192.0.2.10:41234", "192.0.2.10"},
		{"remote without port", nil, "192.0.2.11", "192.0.2.11"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/v1/status", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			if got := extractClientIP(req); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
