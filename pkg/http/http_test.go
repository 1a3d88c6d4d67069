package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type sampleRequest struct {
	Name  string `json:"name" validate:"required,max=10"`
	Limit int    `json:"limit" default:"5" validate:"gte=1"`
}

func newContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestReadAndValidateRequestAppliesDefaults(t *testing.T) {
	c, _ := newContext(`{"name":"ok"}`)
	var req sampleRequest
	if errs := ReadAndValidateRequest(c, &req); errs != nil {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if req.Limit != 5 {
		t.Fatalf("default not applied: %d", req.Limit)
	}
}

func TestReadAndValidateRequestReportsJSONFieldNames(t *testing.T) {
	c, _ := newContext(`{}`)
	var req sampleRequest
	errs := ReadAndValidateRequest(c, &req)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %+v", errs)
	}
	if errs[0].Field != "name" || errs[0].Code != "ERR_REQUIRED" {
		t.Fatalf("unexpected error %+v", errs[0])
	}
}

func TestAppErrorResponseUsesStatus(t *testing.T) {
	c, rec := newContext("")
	_ = AppErrorResponse(c, ServiceUnavailableError("model not loaded"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", rec.Code)
	}
	var body APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != http.StatusServiceUnavailable {
		t.Fatalf("envelope status=%d", body.Status)
	}

	c, rec = newContext("")
	_ = AppErrorResponse(c, errors.New("plain"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("plain error status=%d", rec.Code)
	}
}

func TestClientPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Key") != "abc" {
			t.Errorf("missing default header")
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["v"]})
	}))
	defer srv.Close()

	c := NewClient(WithHeader("X-Key", "abc"))
	var out map[string]string
	if err := c.PostJSON(context.Background(), srv.URL, map[string]string{"v": "hi"}, &out); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if out["echo"] != "hi" {
		t.Fatalf("unexpected %v", out)
	}
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model missing", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient().PostJSON(context.Background(), srv.URL, map[string]int{}, nil)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected StatusError 500, got %v", err)
	}
}
