package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	optimizeStartedTotal   atomic.Uint64
	optimizeCompletedTotal atomic.Uint64
	optimizeFailedTotal    atomic.Uint64

	enhanceStartedTotal   atomic.Uint64
	enhanceCompletedTotal atomic.Uint64
	enhanceFailedTotal    atomic.Uint64

	suggestionAcceptedTotal atomic.Uint64
	suggestionRejectedTotal atomic.Uint64

	gatewayDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncOptimizeStarted increments the optimize started counter.
func IncOptimizeStarted() {
	optimizeStartedTotal.Add(1)
}

// IncOptimizeCompleted increments the optimize completed counter.
func IncOptimizeCompleted() {
	optimizeCompletedTotal.Add(1)
}

// IncOptimizeFailed increments the optimize failed counter.
func IncOptimizeFailed() {
	optimizeFailedTotal.Add(1)
}

// IncEnhanceStarted increments the enhance started counter.
func IncEnhanceStarted() {
	enhanceStartedTotal.Add(1)
}

// IncEnhanceCompleted increments the enhance completed counter.
func IncEnhanceCompleted() {
	enhanceCompletedTotal.Add(1)
}

// IncEnhanceFailed increments the enhance failed counter.
func IncEnhanceFailed() {
	enhanceFailedTotal.Add(1)
}

// IncSuggestionAccepted increments the accepted-suggestion counter.
func IncSuggestionAccepted() {
	suggestionAcceptedTotal.Add(1)
}

// IncSuggestionRejected increments the rejected-suggestion counter.
func IncSuggestionRejected() {
	suggestionRejectedTotal.Add(1)
}

// ObserveGatewayDurationMs records an AI gateway round-trip in milliseconds.
func ObserveGatewayDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	gatewayDuration.Observe(value)
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
	writeCounter(&buf, "optimize_started_total", "Total content optimizations started", optimizeStartedTotal.Load())
	writeCounter(&buf, "optimize_completed_total", "Total content optimizations completed", optimizeCompletedTotal.Load())
	writeCounter(&buf, "optimize_failed_total", "Total content optimizations failed", optimizeFailedTotal.Load())
	writeCounter(&buf, "enhance_started_total", "Total resume enhancements started", enhanceStartedTotal.Load())
	writeCounter(&buf, "enhance_completed_total", "Total resume enhancements completed", enhanceCompletedTotal.Load())
	writeCounter(&buf, "enhance_failed_total", "Total resume enhancements failed", enhanceFailedTotal.Load())
	writeCounter(&buf, "suggestion_accepted_total", "Total staged suggestions accepted", suggestionAcceptedTotal.Load())
	writeCounter(&buf, "suggestion_rejected_total", "Total staged suggestions rejected", suggestionRejectedTotal.Load())
	writeHistogram(&buf, "ai_gateway_duration_ms", "AI gateway round-trip in milliseconds", gatewayDuration.Snapshot())
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
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
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
