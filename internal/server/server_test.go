package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/ouenpt/internal/config"
)

func setupTestServer(t *testing.T) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		DataFile:  filepath.Join(dir, "points.json"),
		SiteDir:   filepath.Join(dir, "docs"),
		GraphURL:  "https://example.com/rank/",
		ChatDelay: time.Minute,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, logger).Router(), cfg.SiteDir
}

func TestAddEndToEnd(t *testing.T) {
	router, siteDir := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader("name=Alice&pt=5"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want %q", got, "*")
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}

	// The synchronous regeneration step already ran.
	data, err := os.ReadFile(filepath.Join(siteDir, "daily.html"))
	if err != nil {
		t.Fatalf("read regenerated page: %v", err)
	}
	if !strings.Contains(string(data), "Alice") {
		t.Error("regenerated page missing the new award")
	}
}

func TestPreflight(t *testing.T) {
	router, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/add", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want %q", got, "*")
	}
}

func TestUnknownPath(t *testing.T) {
	router, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLiveness(t *testing.T) {
	router, _ := setupTestServer(t)

	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
		if rec.Body.String() != "OK" {
			t.Errorf("GET %s body = %q, want %q", path, rec.Body.String(), "OK")
		}
	}
}

func TestBadRequestLeavesLogEmpty(t *testing.T) {
	router, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader("name=&pt=5"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	// A valid follow-up lands as the only event.
	req = httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"name":"Eve","pt":"10"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"pt":10`) {
		t.Errorf("body = %q, want pt:10", rec.Body.String())
	}
}
