package causelist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchCauseListParsesEntries(t *testing.T) {
	date := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	var requests int
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"courtno": "COURT NO. 01", "serial_no": 1, "mcaseno": "100"},
			{"courtno": "COURT NO. 02", "serial_no": 2, "mcaseno": "200"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, false)
	doc, err := client.FetchCauseList(context.Background(), date)
	if err != nil {
		t.Fatalf("FetchCauseList: %v", err)
	}

	if requests != 1 {
		t.Fatalf("expected exactly one upstream request, got %d", requests)
	}
	if gotPath != "/api/result.php" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "file=cause_31082026.xml" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if doc.Date != "2026-08-31" {
		t.Fatalf("doc date = %q", doc.Date)
	}
	if len(doc.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(doc.Entries))
	}
	if len(doc.Raw) == 0 {
		t.Fatalf("expected raw payload to be retained")
	}
}

func TestFetchCauseListMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, false)
	_, err := client.FetchCauseList(context.Background(), time.Now())
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestFetchCauseListUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, false)
	_, err := client.FetchCauseList(context.Background(), time.Now())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for HTTP 500, got %v", err)
	}

	srv.Close()
	_, err = client.FetchCauseList(context.Background(), time.Now())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for refused connection, got %v", err)
	}
}

func TestAvailableDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/getDate.php" || r.URL.RawQuery != "toc=1" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"doc": "2026-08-31"}, {"doc": " 2026-09-01 "}, {"doc": ""}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, false)
	dates, err := client.AvailableDates(context.Background())
	if err != nil {
		t.Fatalf("AvailableDates: %v", err)
	}
	want := []string{"2026-08-31", "2026-09-01"}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %v", len(want), dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates[%d] = %q, want %q", i, dates[i], want[i])
		}
	}
}

func TestFetchPDFPath(t *testing.T) {
	date := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/causelists/pdf/cause_02012026.pdf" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, false)
	data, err := client.FetchPDF(context.Background(), date)
	if err != nil {
		t.Fatalf("FetchPDF: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected pdf body %q", data)
	}
}

func TestCauseFileName(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, time.December, 9, 0, 0, 0, 0, time.UTC)
	if got := causeFileName(date, "xml"); got != "cause_09122025.xml" {
		t.Fatalf("causeFileName = %q", got)
	}
}
