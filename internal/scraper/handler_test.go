package scraper

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"causelist-backend/internal/causelist"
	"causelist-backend/internal/shared/auth"
	"causelist-backend/internal/shared/server/respond"
)

func newTestRouter(t *testing.T, svc *Service, role string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "google:test")
		c.Set("userRole", role)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) respond.ErrorResponse {
	t.Helper()
	var body respond.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHandlerRejectsViewerRole(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{doc: testDocument()})
	router := newTestRouter(t, svc, auth.RoleViewer)

	routes := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/scraper/discover-courts?target_date=2026-08-31"},
		{http.MethodPost, "/api/v1/scraper/fetch-court-data"},
		{http.MethodPost, "/api/v1/scraper/stop"},
		{http.MethodGet, "/api/v1/scraper/status"},
		{http.MethodGet, "/api/v1/scraper/logs"},
		{http.MethodGet, "/api/v1/scraper/progress"},
		{http.MethodGet, "/api/v1/scraper/dates"},
	}
	for _, rt := range routes {
		req := httptest.NewRequest(rt.method, rt.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", rt.method, rt.path, resp.Code)
		}
	}
}

func TestHandlerDiscoverCourts(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{doc: testDocument()})
	router := newTestRouter(t, svc, auth.RoleCourtAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scraper/discover-courts?target_date=2026-08-31&court_start=1&court_end=60", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var summary DiscoverSummary
	if err := json.Unmarshal(resp.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.CourtsWithData != 3 || summary.TotalCourtsChecked != 60 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestHandlerDiscoverCourtsBadDate(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{doc: testDocument()})
	router := newTestRouter(t, svc, auth.RoleSuperadmin)

	for _, q := range []string{"", "target_date=31-08-2026", "target_date=notadate"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scraper/discover-courts?"+q, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("query %q: expected 400, got %d", q, resp.Code)
		}
		if body := decodeError(t, resp); body.Error.Code != "validation_error" {
			t.Fatalf("query %q: unexpected code %q", q, body.Error.Code)
		}
	}
}

func TestHandlerFetchCourtData(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, &fakeFetcher{doc: testDocument()})
	router := newTestRouter(t, svc, auth.RoleCourtAdmin)

	payload := `{"target_date": "2026-08-31", "court_numbers": ["3", "17"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scraper/fetch-court-data", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var summary FetchSummary
	if err := json.Unmarshal(resp.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Status != StatusSuccess || summary.TotalCasesSaved != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(repo.Cases()) != 3 {
		t.Fatalf("expected 3 persisted cases, got %d", len(repo.Cases()))
	}
}

func TestHandlerFetchCourtDataValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{doc: testDocument()})
	router := newTestRouter(t, svc, auth.RoleCourtAdmin)

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{{{`},
		{name: "missing date", payload: `{"court_numbers": ["3"]}`},
		{name: "missing courts", payload: `{"target_date": "2026-08-31"}`},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scraper/fetch-court-data", strings.NewReader(tt.payload))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tt.name, resp.Code)
		}
	}
}

func TestHandlerFetchCourtDataConflictWhileRunning(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{doc: testDocument()})
	router := newTestRouter(t, svc, auth.RoleCourtAdmin)

	if err := svc.Progress.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Progress.Finish()

	payload := `{"target_date": "2026-08-31", "court_numbers": ["3"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scraper/fetch-court-data", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.Error.Code != "already_running" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
}

func TestHandlerFetchCourtDataUpstreamDown(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{err: causelist.ErrUnavailable})
	router := newTestRouter(t, svc, auth.RoleCourtAdmin)

	payload := `{"target_date": "2026-08-31", "court_numbers": ["3"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scraper/fetch-court-data", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if body := decodeError(t, resp); body.Error.Code != "upstream_unavailable" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
}

func TestHandlerStop(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{})
	router := newTestRouter(t, svc, auth.RoleSuperadmin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scraper/stop", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["was_running"] != false {
		t.Fatalf("expected was_running false, got %v", body["was_running"])
	}
}

func TestHandlerStatusAndLogsEmpty(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{})
	router := newTestRouter(t, svc, auth.RoleCourtAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scraper/status", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", resp.Code)
	}
	var snap StatusSnapshot
	if err := json.Unmarshal(resp.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if snap.Status != "never_run" {
		t.Fatalf("status = %q", snap.Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/scraper/logs", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("logs: expected 200, got %d", resp.Code)
	}
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("logs with no runs should be [], got %s", resp.Body.String())
	}
}

func TestHandlerProgress(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{})
	router := newTestRouter(t, svc, auth.RoleCourtAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scraper/progress", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var snap Snapshot
	if err := json.Unmarshal(resp.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.IsRunning {
		t.Fatalf("expected idle progress")
	}
	if snap.CurrentAction != "Idle" {
		t.Fatalf("current action = %q", snap.CurrentAction)
	}
}

func TestHandlerDates(t *testing.T) {
	svc := NewService(NewMemoryRepo(), &fakeFetcher{dates: []string{"2026-08-31", "2026-09-01"}})
	router := newTestRouter(t, svc, auth.RoleCourtAdmin)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scraper/dates", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Dates []string `json:"dates"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Dates) != 2 {
		t.Fatalf("unexpected dates: %v", body.Dates)
	}
}
