package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"CollegeROI/pkg/logger"

	"github.com/labstack/echo/v4"
)

func TestRecoverReturns500(t *testing.T) {
	e := echo.New()
	e.Use(Recover(logger.NewNop()))
	e.GET("/boom", func(c echo.Context) error { panic(errors.New("boom")) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	e := echo.New()
	e.Use(CORS(CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{http.MethodPost}}))
	e.POST("/predict_roi", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/predict_roi", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status=%d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "http://localhost:3000" {
		t.Fatalf("allow origin=%q", got)
	}
}

func TestStatusClass(t *testing.T) {
	for code, want := range map[int]string{101: "1xx", 200: "2xx", 302: "3xx", 404: "4xx", 503: "5xx"} {
		if got := statusClass(code); got != want {
			t.Fatalf("statusClass(%d)=%s want %s", code, got, want)
		}
	}
}
