package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/timesheet/internal/model"
)

// requestFrom は指定クライアントアドレスからのGETリクエストを生成する。
func requestFrom(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/timesheets", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 2, Burst: 5, CleanupInterval: time.Minute})
	defer rl.Stop()

	handlerCallCount := 0
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("192.0.2.1:1000"))

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestRateLimitMiddleware_Returns429WithRetryAfterHeader(t *testing.T) {
	// 0.5 req/sec → 1トークンの補充に2秒
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.5, Burst: 2, CleanupInterval: time.Minute})
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.2:1000"))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("192.0.2.2:1000"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}

	retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil {
		t.Fatalf("Retry-After is not an integer: %q", resp.Header.Get("Retry-After"))
	}
	if retryAfter != 2 {
		t.Errorf("Retry-After = %d, want 2", retryAfter)
	}
}

func TestRateLimitMiddleware_429ResponseIsJSON(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	// バースト消費
	handler.ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.3:1000"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("192.0.2.3:1000"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeRateLimited {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeRateLimited)
	}
	if body.Message == "" || body.Category == "" {
		t.Errorf("message/category should not be empty: %+v", body)
	}
}

func TestRateLimitMiddleware_IsolatesClients(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	// クライアントAがバーストを使い切る
	handler.ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.10:1000"))
	wA := httptest.NewRecorder()
	handler.ServeHTTP(wA, requestFrom("192.0.2.10:1000"))
	if wA.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("client A second request: status = %d, want 429", wA.Result().StatusCode)
	}

	// クライアントBは影響を受けない
	wB := httptest.NewRecorder()
	handler.ServeHTTP(wB, requestFrom("192.0.2.11:1000"))
	if wB.Result().StatusCode != http.StatusOK {
		t.Errorf("client B: status = %d, want 200", wB.Result().StatusCode)
	}
}

func TestRateLimitMiddleware_SameHostDifferentPortShareLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	handler := rl.Middleware()(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.20:1000"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("192.0.2.20:2000"))

	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 (same host should share the limiter)", w.Result().StatusCode)
	}
	if rl.LimiterCount() != 1 {
		t.Errorf("LimiterCount = %d, want 1", rl.LimiterCount())
	}
}

// --- クリーンアップのテスト ---

func TestRateLimiter_CleanupRemovesExpiredEntries(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 2, Burst: 5, CleanupInterval: 50 * time.Millisecond})
	defer rl.Stop()

	rl.Middleware()(okHandler()).ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.30:1000"))

	if rl.LimiterCount() == 0 {
		t.Fatal("expected at least one limiter entry")
	}

	// エントリのTTLはCleanupIntervalの2倍（100ms）。十分に待てば削除される
	time.Sleep(300 * time.Millisecond)

	if count := rl.LimiterCount(); count != 0 {
		t.Errorf("expected 0 limiter entries after cleanup, got %d", count)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	rl.Stop()
	rl.Stop()
}

func TestDefaultRateLimiterConfig(t *testing.T) {
	cfg := DefaultRateLimiterConfig()

	if cfg.Rate != rate.Limit(2) {
		t.Errorf("Rate = %v, want 2", cfg.Rate)
	}
	if cfg.Burst != 60 {
		t.Errorf("Burst = %d, want 60", cfg.Burst)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("CleanupInterval = %v, want 5m", cfg.CleanupInterval)
	}
}

func TestNewRateLimiterConfig(t *testing.T) {
	cfg := NewRateLimiterConfig(30, 5)

	if cfg.Rate != rate.Limit(0.5) {
		t.Errorf("Rate = %v, want 0.5", cfg.Rate)
	}
	if cfg.Burst != 5 {
		t.Errorf("Burst = %d, want 5", cfg.Burst)
	}
}
