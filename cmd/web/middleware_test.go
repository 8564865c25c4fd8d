package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/myrjola/fightcamp/internal/testhelpers"
)

func TestTimeout(t *testing.T) {
	tests := []struct {
		name       string
		work       time.Duration
		wantStatus int
	}{
		{name: "completes within timeout", work: 0, wantStatus: http.StatusOK},
		{name: "times out", work: time.Second, wantStatus: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &application{ //nolint:exhaustruct // only the middleware is under test.
				logger:         testhelpers.NewTestLogger(t),
				requestTimeout: 50 * time.Millisecond,
			}
			handler := app.timeout(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(tt.work):
					w.WriteHeader(http.StatusOK)
				case <-r.Context().Done():
				}
			}))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/healthy", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusServiceUnavailable && !strings.Contains(w.Body.String(), "timed out") {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	app := &application{logger: testhelpers.NewTestLogger(t)} //nolint:exhaustruct // only the middleware is under test.
	handler := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if got := w.Header().Get("Connection"); got != "close" {
		t.Errorf("Connection = %q, want close", got)
	}
}

func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	secureHeaders(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, header := range []string{"Content-Security-Policy", "X-Content-Type-Options", "X-Frame-Options"} {
		if w.Header().Get(header) == "" {
			t.Errorf("missing %s", header)
		}
	}
}
