package metrics

import (
	"strings"
	"testing"
)

func TestRenderPrometheusFormat(t *testing.T) {
	IncRunStarted()
	IncRunOutcome("success")
	IncRunOutcome("partial")
	IncRunOutcome("not-a-status")
	AddCasesSaved(42)
	AddCasesSaved(-1)
	ObserveRunDurationMs(1200)

	out := Render()

	for _, want := range []string{
		"# TYPE scraper_runs_started_total counter",
		"# TYPE scraper_cases_saved_total counter",
		"# TYPE scraper_run_duration_ms histogram",
		"scraper_run_duration_ms_bucket{le=\"+Inf\"}",
		"scraper_run_duration_ms_count",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100, 1000})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)
	h.Observe(5000)

	snap := h.Snapshot()
	if snap.count != 4 {
		t.Fatalf("count = %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 || snap.counts[2] != 1 {
		t.Fatalf("unexpected bucket counts: %v", snap.counts)
	}
	if snap.sum != 5555 {
		t.Fatalf("sum = %v", snap.sum)
	}
}
