package metrics

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
)

var (
	renderStartedTotal   atomic.Uint64
	renderSucceededTotal atomic.Uint64
	renderFailedTotal    atomic.Uint64
	cacheHitTotal        atomic.Uint64
	cacheMissTotal       atomic.Uint64

	renderDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})

	gaugesMu sync.RWMutex
	gauges   = map[string]gauge{}
)

type gauge struct {
	help string
	fn   func() float64
}

// IncRenderStarted increments the started counter.
func IncRenderStarted() {
	renderStartedTotal.Add(1)
}

// IncRenderSucceeded increments the succeeded counter.
func IncRenderSucceeded() {
	renderSucceededTotal.Add(1)
}

// IncRenderFailed increments the failed counter.
func IncRenderFailed() {
	renderFailedTotal.Add(1)
}

// ObserveCache counts a composed-HTML cache lookup.
func ObserveCache(hit bool) {
	if hit {
		cacheHitTotal.Add(1)
		return
	}
	cacheMissTotal.Add(1)
}

// ObserveRenderDurationMs records a render duration in milliseconds.
func ObserveRenderDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	renderDuration.Observe(value)
}

// RegisterGauge exposes the value returned by fn under name. Registering
// the same name again replaces the previous function.
func RegisterGauge(name, help string, fn func() float64) {
	gaugesMu.Lock()
	gauges[name] = gauge{help: help, fn: fn}
	gaugesMu.Unlock()
}

// Handler exposes metrics in Prometheus text format.
func Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/plain; version=0.0.4")
		return c.SendString(Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "render_started_total", "Total PDF renders started", renderStartedTotal.Load())
	writeCounter(&buf, "render_succeeded_total", "Total PDF renders completed", renderSucceededTotal.Load())
	writeCounter(&buf, "render_failed_total", "Total PDF renders failed", renderFailedTotal.Load())
	writeCounter(&buf, "render_cache_hit_total", "Composed HTML cache hits", cacheHitTotal.Load())
	writeCounter(&buf, "render_cache_miss_total", "Composed HTML cache misses", cacheMissTotal.Load())
	writeHistogram(&buf, "render_duration_ms", "PDF render duration in milliseconds", renderDuration.Snapshot())

	gaugesMu.RLock()
	names := make([]string, 0, len(gauges))
	for name := range gauges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := gauges[name]
		writeGauge(&buf, name, g.help, g.fn())
	}
	gaugesMu.RUnlock()
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

// Observe counts value in the first bucket that holds it. writeHistogram
// makes the counts cumulative.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
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

func writeGauge(buf *bytes.Buffer, name, help string, value float64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s gauge\n", name)
	fmt.Fprintf(buf, "%s %s\n", name, formatFloat(value))
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
