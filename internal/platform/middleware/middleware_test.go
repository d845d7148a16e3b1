package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other ip should be allowed")
	}
	if got := rl.RetryAfter("1.2.3.4"); got != 61 {
		t.Fatalf("RetryAfter: want=61 got=%d", got)
	}

	now = now.Add(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("request after window should be allowed")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(1, time.Hour)))
	r.POST("/plan", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/plan", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(); rec.Code != http.StatusNoContent {
		t.Fatalf("first: got=%d want=%d", rec.Code, http.StatusNoContent)
	}
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second: got=%d want=%d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
}

func TestRateLimitRefundsInvalidRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	status := http.StatusUnprocessableEntity
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(1, time.Hour)))
	r.POST("/plan", func(c *gin.Context) { c.Status(status) })

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/plan", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if got := do(); got != http.StatusUnprocessableEntity {
			t.Fatalf("invalid request %d: got=%d want=%d", i, got, http.StatusUnprocessableEntity)
		}
	}
	status = http.StatusOK
	if got := do(); got != http.StatusOK {
		t.Fatalf("valid request: got=%d want=%d", got, http.StatusOK)
	}
	if got := do(); got != http.StatusTooManyRequests {
		t.Fatalf("over budget: got=%d want=%d", got, http.StatusTooManyRequests)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://planner.example"}))
	r.OPTIONS("/api/plan", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodOptions, "/api/plan", nil)
	req.Header.Set("Origin", "https://planner.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://planner.example" {
		t.Fatalf("allow-origin: got=%q", got)
	}
}

func TestLoopbackOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/config/app", LoopbackOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		remote    string
		forwarded string
		want      int
	}{
		{"127.0.0.1:5000", "", http.StatusOK},
		{"[::1]:5000", "", http.StatusOK},
		{"192.0.2.10:5000", "", http.StatusForbidden},
		{"192.0.2.10:5000", "127.0.0.1", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/config/app", nil)
		req.RemoteAddr = tc.remote
		if tc.forwarded != "" {
			req.Header.Set("X-Forwarded-For", tc.forwarded)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("remote=%s forwarded=%q: got=%d want=%d", tc.remote, tc.forwarded, rec.Code, tc.want)
		}
	}
}
