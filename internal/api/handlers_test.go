package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/foxzi/campaignmock/internal/campaign"
	"github.com/foxzi/campaignmock/internal/config"
	"github.com/foxzi/campaignmock/internal/openapi"
)

const testToken = "test-api-token"

var testNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func setupTestServer(t *testing.T, mutate func(*config.APIConfig)) *Server {
	t.Helper()

	corpus, err := campaign.Build(config.DefaultSeed, config.DefaultReferenceDate, config.DefaultCount)
	if err != nil {
		t.Fatalf("failed to build corpus: %v", err)
	}
	doc, err := openapi.Load("")
	if err != nil {
		t.Fatalf("failed to load openapi document: %v", err)
	}

	cfg := &config.APIConfig{
		ListenAddr: ":3100",
		Token:      testToken,
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(corpus, doc, cfg, logger)
	server.now = func() time.Time { return testNow }
	return server
}

func doRequest(server *Server, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp.Message
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer(t, nil)

	w := doRequest(server, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["timestamp"] != "2025-10-15T12:00:00.000Z" {
		t.Errorf("timestamp = %v, want 2025-10-15T12:00:00.000Z", resp["timestamp"])
	}
	if resp["campaigns"] != float64(240) {
		t.Errorf("campaigns = %v, want 240", resp["campaigns"])
	}
}

func TestOpenAPIEndpoints(t *testing.T) {
	server := setupTestServer(t, nil)

	w := doRequest(server, "GET", "/openapi.json", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var doc map[string]any
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("Failed to decode document: %v", err)
	}
	if _, ok := doc["paths"].(map[string]any)["/api/3/campaigns"]; !ok {
		t.Error("document does not declare /api/3/campaigns")
	}

	w = doRequest(server, "GET", "/openapi", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `data-url="/openapi.json"`) {
		t.Error("reference page does not load /openapi.json")
	}
}

func TestAuthentication(t *testing.T) {
	server := setupTestServer(t, nil)

	tests := []struct {
		name        string
		method      string
		target      string
		token       string
		wantStatus  int
		wantMessage string
	}{
		{"missing token", "GET", "/api/3/campaigns", "", http.StatusUnauthorized, "Missing Api-Token header"},
		{"wrong token", "GET", "/api/3/campaigns", "nope", http.StatusForbidden, "Invalid Api-Token value"},
		{"wrong token on lookup", "GET", "/api/3/campaigns/1000", "nope", http.StatusForbidden, "Invalid Api-Token value"},
		{"missing token on unknown route", "GET", "/api/3/contacts", "", http.StatusUnauthorized, "Missing Api-Token header"},
		{"unknown route", "GET", "/api/3/contacts", testToken, http.StatusNotImplemented, "Not implemented"},
		{"unsupported method", "POST", "/api/3/campaigns", testToken, http.StatusNotImplemented, "Not implemented"},
		{"sub-resource", "GET", "/api/3/campaigns/1000/links", testToken, http.StatusNotImplemented, "Not implemented"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(server, tt.method, tt.target, tt.token)
			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if msg := decodeMessage(t, w); msg != tt.wantMessage {
				t.Errorf("message = %q, want %q", msg, tt.wantMessage)
			}
		})
	}

	// Public routes never require a token
	if w := doRequest(server, "GET", "/health", ""); w.Code != http.StatusOK {
		t.Errorf("/health Status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestUnknownRoute(t *testing.T) {
	server := setupTestServer(t, nil)

	w := doRequest(server, "GET", "/nowhere", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestListCampaignsDefaults(t *testing.T) {
	server := setupTestServer(t, nil)

	w := doRequest(server, "GET", "/api/3/campaigns", testToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	var resp ListResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp.Campaigns) != 25 {
		t.Errorf("len(campaigns) = %d, want 25", len(resp.Campaigns))
	}
	if resp.Meta.Total != "240" {
		t.Errorf("meta.total = %q, want \"240\"", resp.Meta.Total)
	}
	if resp.Meta.PageInput.Limit != 25 || resp.Meta.PageInput.Offset != 0 {
		t.Errorf("page_input = %+v, want limit 25 offset 0", resp.Meta.PageInput)
	}
	if strings.Contains(body, `"sort"`) {
		t.Error("page_input.sort should be omitted without a sort")
	}
	if resp.Campaigns[0].ID != "1000" || resp.Campaigns[24].ID != "1024" {
		t.Errorf("unexpected first page ids %s..%s", resp.Campaigns[0].ID, resp.Campaigns[24].ID)
	}
}

func TestListCampaignsQuery(t *testing.T) {
	server := setupTestServer(t, nil)

	tests := []struct {
		name       string
		query      string
		wantLen    int
		wantLimit  int
		wantOffset int
		wantSort   string
	}{
		{"limit and offset", "limit=5&offset=8", 5, 5, 8, ""},
		{"limit clamped", "limit=500", 100, 100, 0, ""},
		{"invalid limit", "limit=abc&offset=-2", 25, 25, 0, ""},
		{"offset past end", "offset=1000", 0, 25, 1000, ""},
		{"last page", "limit=100&offset=200", 40, 100, 200, ""},
		{"send date sort", "orders%5Bsdate%5D=desc", 25, 25, 0, "sdate:desc"},
		{"last send date sort", "orders%5Bldate%5D=ASC", 25, 25, 0, "ldate:asc"},
		{"invalid sort direction", "orders%5Bsdate%5D=sideways", 25, 25, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(server, "GET", "/api/3/campaigns?"+tt.query, testToken)
			if w.Code != http.StatusOK {
				t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
			}

			var resp ListResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Campaigns == nil {
				t.Error("campaigns should be an array, not null")
			}
			if len(resp.Campaigns) != tt.wantLen {
				t.Errorf("len(campaigns) = %d, want %d", len(resp.Campaigns), tt.wantLen)
			}
			if resp.Meta.Total != "240" {
				t.Errorf("meta.total = %q, want \"240\"", resp.Meta.Total)
			}
			if resp.Meta.PageInput.Limit != tt.wantLimit || resp.Meta.PageInput.Offset != tt.wantOffset {
				t.Errorf("page_input = %+v, want limit %d offset %d", resp.Meta.PageInput, tt.wantLimit, tt.wantOffset)
			}
			if resp.Meta.PageInput.Sort != tt.wantSort {
				t.Errorf("page_input.sort = %q, want %q", resp.Meta.PageInput.Sort, tt.wantSort)
			}
		})
	}
}

func TestListCampaignsSorted(t *testing.T) {
	server := setupTestServer(t, nil)

	w := doRequest(server, "GET", "/api/3/campaigns?orders%5Bsdate%5D=desc&limit=100", testToken)
	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	for i := 1; i < len(resp.Campaigns); i++ {
		prev, cur := resp.Campaigns[i-1].SDate, resp.Campaigns[i].SDate
		if prev == nil || cur == nil {
			t.Fatalf("campaign without send date at %d", i)
		}
		if time.Time(*cur).After(time.Time(*prev)) {
			t.Fatalf("campaigns not in descending send date order at %d", i)
		}
	}
}

func TestListCampaignsAutomationFilter(t *testing.T) {
	server := setupTestServer(t, nil)

	counts := map[string]int{}
	for _, flag := range []string{"true", "false"} {
		w := doRequest(server, "GET", "/api/3/campaigns?limit=100&filters%5Bautomation%5D="+flag, testToken)
		var resp ListResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		for _, c := range resp.Campaigns {
			isAutomation := c.Type == "automation"
			if isAutomation != (flag == "true") {
				t.Errorf("filter %s returned campaign %s of type %s", flag, c.ID, c.Type)
			}
			if isAutomation && (c.Automation == nil || *c.Automation != c.ID) {
				t.Errorf("automation campaign %s has automation %v", c.ID, c.Automation)
			}
			if !isAutomation && c.Automation != nil {
				t.Errorf("campaign %s should have null automation", c.ID)
			}
		}

		var total int
		if err := json.Unmarshal([]byte(resp.Meta.Total), &total); err != nil {
			t.Fatalf("meta.total %q is not numeric", resp.Meta.Total)
		}
		counts[flag] = total
	}

	if counts["true"]+counts["false"] != 240 {
		t.Errorf("filtered totals %v do not partition the corpus", counts)
	}
}

func TestGetCampaign(t *testing.T) {
	server := setupTestServer(t, nil)

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantID     string
	}{
		{"first", "1000", http.StatusOK, "1000"},
		{"last", "1239", http.StatusOK, "1239"},
		{"numeric prefix", "1005abc", http.StatusOK, "1005"},
		{"below range", "999", http.StatusNotFound, ""},
		{"above range", "1240", http.StatusNotFound, ""},
		{"not a number", "abc", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(server, "GET", "/api/3/campaigns/"+tt.id, testToken)
			if w.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusNotFound {
				if msg := decodeMessage(t, w); msg != "Campaign not found" {
					t.Errorf("message = %q, want %q", msg, "Campaign not found")
				}
				return
			}

			var resp CampaignResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Campaign.ID != tt.wantID {
				t.Errorf("id = %q, want %q", resp.Campaign.ID, tt.wantID)
			}
			if got := resp.Campaign.Links["bounceLogs"]; got != "/api/3/campaigns/"+tt.wantID+"/bounceLogs" {
				t.Errorf("links.bounceLogs = %q", got)
			}
		})
	}
}

func TestCampaignWireFormat(t *testing.T) {
	server := setupTestServer(t, nil)

	w := doRequest(server, "GET", "/api/3/campaigns/1000", testToken)
	var resp struct {
		Campaign map[string]any `json:"campaign"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	c := resp.Campaign

	millis := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)
	for _, key := range []string{"cdate", "mdate", "sdate", "ldate"} {
		s, ok := c[key].(string)
		if !ok || !millis.MatchString(s) {
			t.Errorf("%s = %v, want RFC3339 with milliseconds in UTC", key, c[key])
		}
	}

	for _, key := range []string{"id", "send_amt", "total_amt", "opens", "uniqueopens", "linkclicks", "hardbounces", "unsubscribes", "public", "trackreads"} {
		if _, ok := c[key].(string); !ok {
			t.Errorf("%s = %v (%T), want string", key, c[key], c[key])
		}
	}

	if links, ok := c["links"].(map[string]any); !ok || len(links) != 16 {
		t.Errorf("links = %v, want 16 entries", c["links"])
	}

	for _, key := range []string{"automation", "htmlunsubdata", "textunsubdata", "reminder_format", "activerss_url", "scheduleddate", "deletestamp", "reminder_last_cron_run"} {
		if _, ok := c[key]; !ok {
			t.Errorf("%s missing; nullable fields must be present", key)
		}
	}
}

func TestRateLimit(t *testing.T) {
	server := setupTestServer(t, func(cfg *config.APIConfig) {
		cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.01, Burst: 2}
	})

	for i := 0; i < 2; i++ {
		if w := doRequest(server, "GET", "/api/3/campaigns", testToken); w.Code != http.StatusOK {
			t.Fatalf("request %d Status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	w := doRequest(server, "GET", "/api/3/campaigns", testToken)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	// Unauthenticated requests are rejected before they spend tokens
	if w := doRequest(server, "GET", "/api/3/campaigns", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	// Public routes are not limited
	if w := doRequest(server, "GET", "/health", ""); w.Code != http.StatusOK {
		t.Errorf("/health Status = %d, want %d", w.Code, http.StatusOK)
	}
}
