package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the registry all application metrics are registered with.
// Exposed so the /metrics endpoint can serve exactly this set.
var Registry = prometheus.NewRegistry()

var (
	// Custom histogram buckets optimized for API response times ranging from milliseconds to 30+ seconds
	// Note: no 60s bucket to avoid histogram_quantile interpolation issues with low sample counts
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	factory = promauto.With(Registry)

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	DBRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	// Storage Client Metrics (avatar uploads)
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Business Metrics
	BookingsCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingora_bookings_created_total",
			Help: "Total number of bookings created",
		},
		[]string{"type", "status"},
	)

	BookingConflicts = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "lingora_booking_conflicts_total",
			Help: "Total number of booking attempts rejected due to a conflict",
		},
	)

	SlotsExpanded = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lingora_slots_expanded",
			Help:    "Number of candidate slots produced per availability expansion",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	AvailabilityUpdates = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingora_availability_updates_total",
			Help: "Total number of availability mutations",
		},
		[]string{"operation", "status"},
	)

	CalendarRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingora_calendar_requests_total",
			Help: "Total number of calendar projections served",
		},
		[]string{"viewer"},
	)

	// Auth Metrics
	AuthLoginRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingora_auth_login_requests_total",
			Help: "Total number of login link requests",
		},
		[]string{"role", "status"},
	)

	AuthVerifyRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingora_auth_verify_requests_total",
			Help: "Total number of login token verifications",
		},
		[]string{"role", "status"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
