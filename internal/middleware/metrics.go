package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal  uint64
	AnalysesTotal  uint64
	FallbacksTotal uint64
	DeletesTotal   uint64
	ExportsTotal   uint64
	StartTime      time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementRequests increments total request counter
func IncrementRequests() {
	atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
}

// IncrementAnalyses increments completed analysis counter
func IncrementAnalyses() {
	atomic.AddUint64(&globalMetrics.AnalysesTotal, 1)
}

// IncrementFallbacks counts analyses served from the sample fallback
func IncrementFallbacks() {
	atomic.AddUint64(&globalMetrics.FallbacksTotal, 1)
}

// IncrementDeletes increments the deletion counter
func IncrementDeletes() {
	atomic.AddUint64(&globalMetrics.DeletesTotal, 1)
}

// IncrementExports increments the report-export counter
func IncrementExports() {
	atomic.AddUint64(&globalMetrics.ExportsTotal, 1)
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":  atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"analyses_total":  atomic.LoadUint64(&globalMetrics.AnalysesTotal),
		"fallbacks_total": atomic.LoadUint64(&globalMetrics.FallbacksTotal),
		"deletes_total":   atomic.LoadUint64(&globalMetrics.DeletesTotal),
		"exports_total":   atomic.LoadUint64(&globalMetrics.ExportsTotal),
		"uptime_seconds":  time.Since(globalMetrics.StartTime).Seconds(),
		"goroutines":      runtime.NumGoroutine(),
		"heap_alloc":      m.HeapAlloc,
	}
}

// MetricsHandler serves the counters as JSON.
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}

// CountRequests is middleware tallying every request.
func CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		IncrementRequests()
		next.ServeHTTP(w, r)
	})
}
