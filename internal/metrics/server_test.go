package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxzi/campaignmock/internal/ipfilter"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServerDefaults(t *testing.T) {
	s := NewServer(New(), "", "", nil, newTestLogger())
	if s.addr != ":9090" {
		t.Errorf("addr = %q, want :9090", s.addr)
	}
	if s.path != "/metrics" {
		t.Errorf("path = %q, want /metrics", s.path)
	}
	if s.filter.Enabled() {
		t.Error("nil filter should allow all clients")
	}
}

func TestServerHandler(t *testing.T) {
	logger := newTestLogger()
	filter, err := ipfilter.New([]string{"192.168.1.0/24"}, logger)
	if err != nil {
		t.Fatalf("ipfilter.New() error = %v", err)
	}

	m := New()
	m.CorpusSize.Set(240)
	handler := NewServer(m, ":9090", "/metrics", filter, logger).Handler()

	tests := []struct {
		name       string
		path       string
		remoteAddr string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "allowed IP",
			path:       "/metrics",
			remoteAddr: "192.168.1.100:12345",
			wantStatus: http.StatusOK,
			wantBody:   "campaignmock_corpus_size 240",
		},
		{
			name:       "denied IP",
			path:       "/metrics",
			remoteAddr: "10.0.0.1:12345",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "health not filtered",
			path:       "/health",
			remoteAddr: "10.0.0.1:12345",
			wantStatus: http.StatusOK,
			wantBody:   "OK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			req.RemoteAddr = tt.remoteAddr
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body does not contain %q", tt.wantBody)
			}
		})
	}
}

func TestServerScrapeSetsUptime(t *testing.T) {
	m := New()
	handler := NewServer(m, ":9090", "/metrics", nil, newTestLogger()).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "campaignmock_uptime_seconds") {
		t.Error("scrape output missing uptime gauge")
	}
}
