package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestLimiterRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 1) {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.Allow("k", 3, 1) {
		t.Fatalf("bucket should be empty")
	}
	if !l.Allow("other", 3, 1) {
		t.Fatalf("keys must not share a bucket")
	}

	now = now.Add(1500 * time.Millisecond)
	if !l.Allow("k", 3, 1) {
		t.Fatalf("one token should have refilled")
	}
	if l.Allow("k", 3, 1) {
		t.Fatalf("only one token should have refilled")
	}

	now = now.Add(time.Hour)
	if n := l.Prune(time.Minute); n != 2 || l.Len() != 0 {
		t.Fatalf("pruned %d, left %d", n, l.Len())
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	e := echo.New()
	e.Use(Middleware(New(), 1, 0.001, nil))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	codes := make([]int, 0, 2)
	var last string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		last = rec.Body.String()
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes %v", codes)
	}
	if !strings.Contains(last, `"code":"ERR_RATE_LIMITED"`) || !strings.Contains(last, `"capacity":1`) {
		t.Fatalf("body %s", last)
	}
}
