package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	runsStartedTotal atomic.Uint64
	runsSuccessTotal atomic.Uint64
	runsPartialTotal atomic.Uint64
	runsFailedTotal  atomic.Uint64
	runsStoppedTotal atomic.Uint64
	casesSavedTotal  atomic.Uint64

	runDuration = newHistogram([]float64{500, 1000, 2500, 5000, 10000, 30000, 60000, 120000, 300000})
)

// IncRunStarted increments the started-runs counter.
func IncRunStarted() {
	runsStartedTotal.Add(1)
}

// IncRunOutcome increments the counter matching a run's terminal status.
func IncRunOutcome(status string) {
	switch status {
	case "success":
		runsSuccessTotal.Add(1)
	case "partial":
		runsPartialTotal.Add(1)
	case "failure":
		runsFailedTotal.Add(1)
	case "stopped":
		runsStoppedTotal.Add(1)
	}
}

// AddCasesSaved adds to the persisted-cases counter.
func AddCasesSaved(n int) {
	if n > 0 {
		casesSavedTotal.Add(uint64(n))
	}
}

// ObserveRunDurationMs records a fetch run's duration in milliseconds.
func ObserveRunDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	runDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "scraper_runs_started_total", "Total scraper runs started", runsStartedTotal.Load())
	writeCounter(&buf, "scraper_runs_success_total", "Total scraper runs completed successfully", runsSuccessTotal.Load())
	writeCounter(&buf, "scraper_runs_partial_total", "Total scraper runs with partial failures", runsPartialTotal.Load())
	writeCounter(&buf, "scraper_runs_failed_total", "Total scraper runs that failed", runsFailedTotal.Load())
	writeCounter(&buf, "scraper_runs_stopped_total", "Total scraper runs stopped by an operator", runsStoppedTotal.Load())
	writeCounter(&buf, "scraper_cases_saved_total", "Total cause-list cases persisted", casesSavedTotal.Load())
	writeHistogram(&buf, "scraper_run_duration_ms", "Fetch run duration in milliseconds", runDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns the current time in milliseconds.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
